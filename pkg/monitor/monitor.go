package monitor

//go:generate mockgen -source=monitor.go -destination=mocks/mock_monitor.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const (
	DefaultInterval      = 30 * time.Second
	DefaultReadingWindow = 5 * time.Minute

	CategoryTemperature = "Temperature"
	CategoryHumidity    = "Humidity"
	CategoryFlock       = "Flock"
)

// IDispatcher fans a persisted notification out to the user's channels.
type IDispatcher interface {
	Dispatch(ctx context.Context, userID string, req *models.NotificationRequest)
}

type metricRule struct {
	metric    string
	category  string
	severity  models.Severity
	delta     float64
	value     func(r *models.SensorReading) float64
	threshold func(s *models.NotificationSettings) float64
	breached  func(value, threshold float64) bool
	title     string
	message   func(value, threshold float64) string
}

var sensorRules = []metricRule{
	{
		metric:    "temperature",
		category:  CategoryTemperature,
		severity:  models.SeverityCritical,
		delta:     2.0,
		value:     func(r *models.SensorReading) float64 { return r.Temperature },
		threshold: func(s *models.NotificationSettings) float64 { return s.TemperatureThreshold },
		breached:  func(v, t float64) bool { return v > t },
		title:     "⚠️ Température élevée détectée",
		message: func(v, t float64) string {
			return fmt.Sprintf("La température (%.1f°C) dépasse le seuil de %.1f°C", v, t)
		},
	},
	{
		metric:    "humidity",
		category:  CategoryHumidity,
		severity:  models.SeverityWarning,
		delta:     5.0,
		value:     func(r *models.SensorReading) float64 { return r.Humidity },
		threshold: func(s *models.NotificationSettings) float64 { return s.HumidityThreshold },
		breached:  func(v, t float64) bool { return v < t },
		title:     "⚠️ Humidité faible",
		message: func(v, t float64) string {
			return fmt.Sprintf("L'humidité (%.1f%%) est inférieure au seuil de %.1f%%", v, t)
		},
	},
}

type Option func(*Monitor)

func WithInterval(interval time.Duration) Option {
	return func(m *Monitor) { m.interval = interval }
}

func WithReadingWindow(window time.Duration) Option {
	return func(m *Monitor) { m.readingWindow = window }
}

// Monitor polls persisted state and raises notifications on transitions.
// Its snapshots live in memory and start empty on every process start.
type Monitor struct {
	iot        *iot.IOT
	dispatcher IDispatcher

	interval      time.Duration
	readingWindow time.Duration

	mu           sync.Mutex
	deviceStates map[string]bool
	sensorValues map[string]float64
	notifiedSick map[string]struct{}
}

func New(iotCore *iot.IOT, dispatcher IDispatcher, opts ...Option) *Monitor {
	m := &Monitor{
		iot:           iotCore,
		dispatcher:    dispatcher,
		interval:      DefaultInterval,
		readingWindow: DefaultReadingWindow,
		deviceStates:  map[string]bool{},
		sensorValues:  map[string]float64{},
		notifiedSick:  map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func logger(category string) *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameMonitor, zap.String(common.LoggerFieldIOTCategory, category))
}

// Run ticks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	l := logger("loop")
	l.Info("Monitor started", zap.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Tick(ctx)

		select {
		case <-ctx.Done():
			l.Info("Monitor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick runs one pass over devices, sensor readings and the flock. A failing
// concern is logged and does not stop the others; a panic ends the pass only.
func (m *Monitor) Tick(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger("loop").Error("Monitor tick panicked", zap.Any("panic", r))
		}
	}()

	if err := m.checkDevices(ctx); err != nil {
		logger(common.LoggerCategoryIOTDevice).Error("Device transition check failed", zap.Error(err))
	}
	if err := m.checkSensors(ctx); err != nil {
		logger(common.LoggerCategoryIOTReading).Error("Sensor threshold check failed", zap.Error(err))
	}
	if err := m.checkFlock(ctx); err != nil {
		logger(common.LoggerCategoryIOTFlock).Error("Flock health check failed", zap.Error(err))
	}
}

// raise persists req and then dispatches it. Nothing is dispatched when the
// notification could not be stored.
func (m *Monitor) raise(ctx context.Context, req *models.NotificationRequest) error {
	if _, err := m.iot.Notification.CreateNotification(req); err != nil {
		return err
	}
	if m.dispatcher != nil {
		m.dispatcher.Dispatch(ctx, req.UserID, req)
	}
	return nil
}

func deviceKey(userID, deviceID string) string {
	return userID + "/" + deviceID
}

func (m *Monitor) checkDevices(ctx context.Context) error {
	l := logger(common.LoggerCategoryIOTDevice)

	devices, err := m.iot.Device.ListDevices()
	if err != nil {
		return err
	}

	for _, device := range devices {
		if device.UserID == "" {
			l.Warn("Device without owner skipped", zap.String("device_id", device.DeviceID))
			continue
		}

		key := deviceKey(device.UserID, device.DeviceID)
		previous, seen := m.deviceStates[key]
		m.deviceStates[key] = device.IsActive
		if !seen || previous == device.IsActive {
			continue
		}

		stateText, severity := "désactivé", models.SeverityWarning
		if device.IsActive {
			stateText, severity = "activé", models.SeveritySuccess
		}

		req := &models.NotificationRequest{
			UserID:      device.UserID,
			Title:       "Changement d'état: " + device.DeviceName,
			Message:     fmt.Sprintf("Le dispositif %s a été %s", device.DeviceName, stateText),
			Category:    string(device.DeviceType),
			Severity:    severity,
			DeviceID:    device.DeviceID,
			DeviceName:  device.DeviceName,
			ActionTaken: "État changé: " + stateText,
		}
		if err := m.raise(ctx, req); err != nil {
			l.Error("Device notification failed", zap.String("device", key), zap.Error(err))
			continue
		}
		l.Info("Device transition notified", zap.String("device", key), zap.Bool("is_active", device.IsActive))
	}
	return nil
}

// latestPerDevice keeps the newest reading of every (user, device) pair.
// readings must be ordered newest first.
func latestPerDevice(readings []models.SensorReading) []models.SensorReading {
	seen := map[string]struct{}{}
	var latest []models.SensorReading
	for _, r := range readings {
		key := deviceKey(r.UserID, r.DeviceID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		latest = append(latest, r)
	}
	return latest
}

func (m *Monitor) checkSensors(ctx context.Context) error {
	l := logger(common.LoggerCategoryIOTReading)

	readings, err := m.iot.Reading.ListRecentReadings(time.Now().Add(-m.readingWindow))
	if err != nil {
		return err
	}

	settingsByUser := map[string]*models.NotificationSettings{}

	for _, reading := range latestPerDevice(readings) {
		if reading.UserID == "" {
			continue
		}

		settings, ok := settingsByUser[reading.UserID]
		if !ok {
			settings, err = m.iot.Settings.GetSettings(reading.UserID)
			if err != nil {
				l.Error("Settings lookup failed", zap.String("user_id", reading.UserID), zap.Error(err))
				continue
			}
			settingsByUser[reading.UserID] = settings
		}
		if settings == nil || !settings.NotificationsEnabled {
			continue
		}

		for _, rule := range sensorRules {
			m.checkRule(ctx, rule, &reading, settings)
		}
	}
	return nil
}

func (m *Monitor) checkRule(ctx context.Context, rule metricRule, reading *models.SensorReading, settings *models.NotificationSettings) {
	key := deviceKey(reading.UserID, reading.DeviceID) + "/" + rule.metric
	value := rule.value(reading)
	threshold := rule.threshold(settings)

	if !rule.breached(value, threshold) {
		delete(m.sensorValues, key)
		return
	}

	if last, notified := m.sensorValues[key]; notified && math.Abs(last-value) <= rule.delta {
		return
	}

	req := &models.NotificationRequest{
		UserID:         reading.UserID,
		Title:          rule.title,
		Message:        rule.message(value, threshold),
		Category:       rule.category,
		Severity:       rule.severity,
		DeviceID:       reading.DeviceID,
		TriggerValue:   &value,
		ThresholdValue: &threshold,
	}
	if err := m.raise(ctx, req); err != nil {
		logger(common.LoggerCategoryIOTReading).Error("Threshold notification failed", zap.String("key", key), zap.Error(err))
		return
	}
	m.sensorValues[key] = value
}

func (m *Monitor) checkFlock(ctx context.Context) error {
	l := logger(common.LoggerCategoryIOTFlock)

	sick, err := m.iot.Flock.ListUnhealthy("")
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, len(sick))
	for _, chick := range sick {
		current[chick.ChickID] = struct{}{}
		if _, done := m.notifiedSick[chick.ChickID]; done {
			continue
		}
		if chick.UserID == "" {
			l.Warn("Chick without owner skipped", zap.String("chick_id", chick.ChickID))
			continue
		}

		req := &models.NotificationRequest{
			UserID:      chick.UserID,
			Title:       "🚨 Poussin malade détecté",
			Message:     fmt.Sprintf("Le poussin '%s' a été détecté comme malade", chick.ChickID),
			Category:    CategoryFlock,
			Severity:    models.SeverityCritical,
			ActionTaken: "Isolez le poussin et contactez un vétérinaire",
		}
		if err := m.raise(ctx, req); err != nil {
			l.Error("Sick chick notification failed", zap.String("chick_id", chick.ChickID), zap.Error(err))
			continue
		}
		m.notifiedSick[chick.ChickID] = struct{}{}
	}

	for id := range m.notifiedSick {
		if _, still := current[id]; !still {
			delete(m.notifiedSick, id)
		}
	}
	return nil
}
