package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
)

const DefaultSubscriberBuffer = 16

// Event is one live message as written to a browser.
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func NewEvent(name string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Event{Name: name, Payload: raw}, nil
}

type Subscriber struct {
	UserID string
	C      <-chan Event

	ch chan Event
}

// Hub keeps the live connections of this process, grouped by user.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Subscriber]struct{}
	buffer int
}

type HubOption func(*Hub)

func WithSubscriberBuffer(size int) HubOption {
	return func(h *Hub) { h.buffer = size }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		groups: map[string]map[*Subscriber]struct{}{},
		buffer: DefaultSubscriberBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func logger(category string) *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameLive, zap.String(common.LoggerFieldIOTCategory, category))
}

func (h *Hub) Join(userID string) *Subscriber {
	ch := make(chan Event, h.buffer)
	s := &Subscriber{UserID: userID, C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[userID]
	if !ok {
		group = map[*Subscriber]struct{}{}
		h.groups[userID] = group
	}
	group[s] = struct{}{}
	return s
}

// Leave removes s and closes its channel. Calling it twice is safe.
func (h *Hub) Leave(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[s.UserID]
	if !ok {
		return
	}
	if _, member := group[s]; !member {
		return
	}
	delete(group, s)
	close(s.ch)
	if len(group) == 0 {
		delete(h.groups, s.UserID)
	}
}

func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[userID])
}

func (h *Hub) Broadcast(ctx context.Context, userID, event string, payload any) error {
	ev, err := NewEvent(event, payload)
	if err != nil {
		return err
	}
	h.Deliver(userID, ev)
	return nil
}

// Deliver never blocks: a subscriber with a full buffer misses the event.
// It returns how many subscribers received it.
func (h *Hub) Deliver(userID string, ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.groups[userID] {
		select {
		case s.ch <- ev:
			delivered++
		default:
			logger(ev.Name).Warn("Dropped live event for slow subscriber", zap.String("user_id", userID))
		}
	}
	return delivered
}
