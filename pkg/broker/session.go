package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
)

var (
	ErrInvalidPrincipal = errors.New("invalid principal")
	ErrTransport        = errors.New("broker transport failure")
	ErrNotConnected     = errors.New("broker not connected")
	ErrNotPrincipal     = errors.New("user is not the connected principal")

	errTokenTimeout = errors.New("timed out waiting for broker")
)

const (
	QoSAtMostOnce  byte = 0
	QoSAtLeastOnce byte = 1
	QoSExactlyOnce byte = 2

	DefaultReconnectDelay = 5 * time.Second
	DefaultConnectTimeout = 5 * time.Second

	disconnectQuiesceMs = 250
	anonymousUser       = "anonymous"
	actionSetUserID     = "set_user_id"
)

// ClientFactory builds the paho client for one connection attempt.
type ClientFactory func(opts *mqtt.ClientOptions) mqtt.Client

type Option func(*Session)

func WithClientFactory(factory ClientFactory) Option {
	return func(s *Session) { s.newClient = factory }
}

func WithReconnectDelay(delay time.Duration) Option {
	return func(s *Session) { s.reconnectDelay = delay }
}

func WithConnectTimeout(timeout time.Duration) Option {
	return func(s *Session) { s.connectTimeout = timeout }
}

type SessionStatus struct {
	IsConnected   bool   `json:"isConnected"`
	CurrentUserID string `json:"currentUserId"`
	Broker        string `json:"broker"`
}

// Session owns the single broker connection of the process and the principal
// bound to it.
type Session struct {
	iot  *iot.IOT
	gate SecurityGate

	newClient      ClientFactory
	reconnectDelay time.Duration
	connectTimeout time.Duration

	// serializes Connect and Disconnect
	mu        sync.Mutex
	stopRetry chan struct{}

	principal atomic.Pointer[string]

	clientMu sync.RWMutex
	client   mqtt.Client
	broker   string
}

func NewSession(iotCore *iot.IOT, opts ...Option) *Session {
	s := &Session{
		iot:            iotCore,
		newClient:      mqtt.NewClient,
		reconnectDelay: DefaultReconnectDelay,
		connectTimeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sessionLogger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameBroker, zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryBrokerSession))
}

func (s *Session) CurrentUserID() string {
	if p := s.principal.Load(); p != nil {
		return *p
	}
	return ""
}

func (s *Session) currentClient() mqtt.Client {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	return s.client
}

func (s *Session) swapClient(client mqtt.Client, broker string) mqtt.Client {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	prev := s.client
	s.client = client
	s.broker = broker
	return prev
}

func (s *Session) IsConnected() bool {
	client := s.currentClient()
	return client != nil && client.IsConnected()
}

func (s *Session) Status() SessionStatus {
	s.clientMu.RLock()
	broker := s.broker
	s.clientMu.RUnlock()
	return SessionStatus{
		IsConnected:   s.IsConnected(),
		CurrentUserID: s.CurrentUserID(),
		Broker:        broker,
	}
}

// Connect binds userID to a fresh broker connection. A different principal
// already bound is fully disconnected first.
func (s *Session) Connect(ctx context.Context, userID, host string, port int) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.EqualFold(userID, anonymousUser) {
		return ErrInvalidPrincipal
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := sessionLogger()

	if current := s.CurrentUserID(); current != "" {
		if current == userID {
			logger.Info("Principal already bound, connect ignored", zap.String("user_id", userID))
			return nil
		}
		logger.Info("Switching principal", zap.String("from", current), zap.String("to", userID))
		_ = s.disconnectLocked()
	}

	broker := fmt.Sprintf("tcp://%s:%d", host, port)
	stop := make(chan struct{})

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("Server_%s_%s", userID, uuid.NewString()))
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(s.connectTimeout)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.onConnect(c, userID)
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		s.onConnectionLost(c, userID, err, stop)
	})

	client := s.newClient(opts)

	// bound before the transport connects so the first inbound messages pass the gate
	s.principal.Store(&userID)
	s.swapClient(client, broker)
	s.stopRetry = stop

	if err := waitToken(ctx, client.Connect(), s.connectTimeout); err != nil {
		s.principal.Store(nil)
		s.swapClient(nil, "")
		s.stopRetry = nil
		close(stop)
		logger.Error("Broker connect failed", zap.String("user_id", userID), zap.String("broker", broker), zap.Error(err))
		return fmt.Errorf("%w: connect %s: %v", ErrTransport, broker, err)
	}

	logger.Info("Connected to broker", zap.String("user_id", userID), zap.String("broker", broker))
	return nil
}

// Disconnect stops any reconnect loop, drops the user subscriptions and
// clears the principal. Handlers running concurrently observe no principal.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnectLocked()
}

func (s *Session) disconnectLocked() error {
	principal := s.CurrentUserID()
	s.principal.Store(nil)

	if s.stopRetry != nil {
		close(s.stopRetry)
		s.stopRetry = nil
	}

	client := s.swapClient(nil, "")
	if client == nil {
		return nil
	}

	var err error
	if client.IsConnected() && principal != "" {
		if uerr := waitToken(context.Background(), client.Unsubscribe(userTopics(principal)...), s.connectTimeout); uerr != nil {
			err = fmt.Errorf("%w: unsubscribe: %v", ErrTransport, uerr)
		}
	}
	// also stops a client whose reconnect attempt is still in flight
	client.Disconnect(disconnectQuiesceMs)

	sessionLogger().Info("Disconnected from broker", zap.String("user_id", principal))
	return err
}

func (s *Session) Publish(topic string, payload []byte, qos byte, retain bool) error {
	client := s.currentClient()
	if client == nil || !client.IsConnected() {
		return ErrNotConnected
	}
	return s.publishWith(client, topic, payload, qos, retain)
}

func (s *Session) publishWith(client mqtt.Client, topic string, payload []byte, qos byte, retain bool) error {
	if err := waitToken(context.Background(), client.Publish(topic, qos, retain, payload), s.connectTimeout); err != nil {
		return fmt.Errorf("%w: publish %s: %v", ErrTransport, topic, err)
	}
	return nil
}

// owns reports whether client is still the session's connection for userID.
func (s *Session) owns(client mqtt.Client, userID string) bool {
	return s.currentClient() == client && s.CurrentUserID() == userID
}

// dropStale closes a client that connected after it was replaced or
// disconnected.
func (s *Session) dropStale(client mqtt.Client, userID string) {
	sessionLogger().Warn("Closing stale broker connection", zap.String("user_id", userID))
	client.Disconnect(disconnectQuiesceMs)
}

func (s *Session) onConnect(client mqtt.Client, userID string) {
	logger := sessionLogger()

	if !s.owns(client, userID) {
		s.dropStale(client, userID)
		return
	}

	for _, topic := range SubscriptionTopics(userID) {
		if err := waitToken(context.Background(), client.Subscribe(topic, QoSAtLeastOnce, s.handleMessage), s.connectTimeout); err != nil {
			logger.Error("Subscribe failed", zap.String("topic", topic), zap.Error(err))
			continue
		}
		logger.Debug("Subscribed", zap.String("topic", topic))
	}

	// the retained announcement must never carry a replaced principal
	if !s.owns(client, userID) {
		s.dropStale(client, userID)
		return
	}

	payload, _ := json.Marshal(configAnnouncement{
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Action:    actionSetUserID,
	})
	if err := s.publishWith(client, TopicConfigAll, payload, QoSAtLeastOnce, true); err != nil {
		logger.Warn("User id announcement failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	logger.Info("Announced user id to devices", zap.String("user_id", userID))
}

func (s *Session) onConnectionLost(client mqtt.Client, userID string, cause error, stop <-chan struct{}) {
	sessionLogger().Warn("Broker connection lost, retrying",
		zap.String("user_id", userID),
		zap.Duration("delay", s.reconnectDelay),
		zap.Error(cause))
	go s.reconnectLoop(client, userID, stop)
}

func (s *Session) reconnectLoop(client mqtt.Client, userID string, stop <-chan struct{}) {
	logger := sessionLogger()

	for attempt := 1; ; attempt++ {
		select {
		case <-stop:
			return
		case <-time.After(s.reconnectDelay):
		}

		if s.CurrentUserID() != userID || s.currentClient() != client {
			return
		}

		if err := waitToken(context.Background(), client.Connect(), s.connectTimeout); err != nil {
			logger.Warn("Reconnect attempt failed", zap.String("user_id", userID), zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		if !s.owns(client, userID) {
			s.dropStale(client, userID)
			return
		}

		logger.Info("Reconnected to broker", zap.String("user_id", userID), zap.Int("attempt", attempt))
		return
	}
}

func (s *Session) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	s.route(context.Background(), msg.Topic(), msg.Payload())
}

// route runs one inbound message through classification, the security gate
// and the matching handler. It never panics back into the paho router.
func (s *Session) route(ctx context.Context, topic string, payload []byte) {
	logger := sessionLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Message handler panicked", zap.String("topic", topic), zap.Any("panic", r))
		}
	}()

	r := ClassifyTopic(topic)
	if r.Kind == RouteOnboarding {
		s.handleOnboarding(r, payload)
		return
	}

	principal := s.CurrentUserID()
	if r.Kind == RouteMalformed && r.UserID == "" {
		logger.Warn("Dropped message on unknown topic", zap.String("topic", topic))
		return
	}
	if !s.gate.Allow(r.UserID, principal) {
		return
	}

	switch r.Kind {
	case RouteDeviceStatus:
		status, err := iot.ParseDeviceStatus(payload)
		if err != nil {
			logger.Warn("Dropped unparsable device status", zap.String("topic", topic), zap.Error(err))
			return
		}
		if _, err := s.iot.Device.ReconcileStatus(ctx, principal, r.DeviceID, status); err != nil {
			logger.Error("Device status reconcile failed", zap.String("topic", topic), zap.Error(err))
		}
	case RouteTelemetry:
		if _, err := s.iot.Reading.IngestTelemetry(ctx, principal, topic, payload); err != nil {
			logger.Error("Telemetry ingest failed", zap.String("topic", topic), zap.Error(err))
		}
	default:
		logger.Warn("Dropped message on unknown topic", zap.String("topic", topic))
	}
}

func waitToken(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errTokenTimeout
	}
}
