package broker

import (
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{err: err, done: done}
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return QoSAtLeastOnce }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

type published struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// fakeClient stands in for a paho client. Connect runs the OnConnect handler
// synchronously, the way paho does once the CONNACK arrives.
type fakeClient struct {
	opts *mqtt.ClientOptions

	mu            sync.Mutex
	connected     bool
	connectErrs   []error
	connects      int
	disconnects   int
	subscriptions map[string]mqtt.MessageHandler
	unsubscribed  []string
	published     []published

	// when set, Connect signals entered and then blocks until gate is closed
	gate    chan struct{}
	entered chan struct{}
}

func newFakeClient(opts *mqtt.ClientOptions) *fakeClient {
	return &fakeClient{opts: opts, subscriptions: map[string]mqtt.MessageHandler{}}
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) IsConnectionOpen() bool { return c.IsConnected() }

func (c *fakeClient) Connect() mqtt.Token {
	c.mu.Lock()
	c.connects++
	gate, entered := c.gate, c.entered
	c.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	c.mu.Lock()
	var err error
	if len(c.connectErrs) > 0 {
		err = c.connectErrs[0]
		c.connectErrs = c.connectErrs[1:]
	}
	if err != nil {
		c.mu.Unlock()
		return newFakeToken(err)
	}
	c.connected = true
	c.subscriptions = map[string]mqtt.MessageHandler{}
	c.mu.Unlock()

	if c.opts.OnConnect != nil {
		c.opts.OnConnect(c)
	}
	return newFakeToken(nil)
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.disconnects++
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	var body []byte
	switch p := payload.(type) {
	case []byte:
		body = p
	case string:
		body = []byte(p)
	}
	c.published = append(c.published, published{Topic: topic, QoS: qos, Retained: retained, Payload: body})
	return newFakeToken(nil)
}

func (c *fakeClient) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[topic] = callback
	return newFakeToken(nil)
}

func (c *fakeClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic := range filters {
		c.subscriptions[topic] = callback
	}
	return newFakeToken(nil)
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, topic := range topics {
		delete(c.subscriptions, topic)
		c.unsubscribed = append(c.unsubscribed, topic)
	}
	return newFakeToken(nil)
}

func (c *fakeClient) AddRoute(topic string, callback mqtt.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[topic] = callback
}

func (c *fakeClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

// loseConnection simulates the broker dropping the link.
func (c *fakeClient) loseConnection(err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	if c.opts.OnConnectionLost != nil {
		c.opts.OnConnectionLost(c, err)
	}
}

// deliver hands a message to the first subscription whose filter matches,
// returning false when nothing is subscribed to the topic.
func (c *fakeClient) deliver(topic string, payload []byte) bool {
	c.mu.Lock()
	var handler mqtt.MessageHandler
	for filter, cb := range c.subscriptions {
		if topicMatches(filter, topic) {
			handler = cb
			break
		}
	}
	c.mu.Unlock()

	if handler == nil || !c.IsConnected() {
		return false
	}
	handler(c, &fakeMessage{topic: topic, payload: payload})
	return true
}

func (c *fakeClient) publishedTo(topic string) []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []published
	for _, p := range c.published {
		if p.Topic == topic {
			out = append(out, p)
		}
	}
	return out
}

func (c *fakeClient) subscribedTopics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for topic := range c.subscriptions {
		out = append(out, topic)
	}
	return out
}

func (c *fakeClient) disconnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}

func (c *fakeClient) connectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

func topicMatches(filter, topic string) bool {
	f := strings.Split(filter, "/")
	t := strings.Split(topic, "/")
	if len(f) != len(t) {
		return false
	}
	for i := range f {
		if f[i] != "+" && f[i] != t[i] {
			return false
		}
	}
	return true
}

// fakeFactory records every client a session creates.
type fakeFactory struct {
	mu          sync.Mutex
	clients     []*fakeClient
	connectErrs []error
}

func (f *fakeFactory) build(opts *mqtt.ClientOptions) mqtt.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := newFakeClient(opts)
	c.connectErrs = f.connectErrs
	f.connectErrs = nil
	f.clients = append(f.clients, c)
	return c
}

func (f *fakeFactory) last() *fakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clients) == 0 {
		return nil
	}
	return f.clients[len(f.clients)-1]
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
