package live

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
)

func TestHub_BroadcastReachesOnlyOwnGroup(t *testing.T) {
	common.SetTestLoggerNop()

	hub := NewHub()
	a1 := hub.Join("A")
	a2 := hub.Join("A")
	b := hub.Join("B")

	require.NoError(t, hub.Broadcast(context.Background(), "A", iot.EventSensorDataReceived, map[string]float64{"temperature": 30}))

	for _, s := range []*Subscriber{a1, a2} {
		ev := <-s.C
		assert.Equal(t, iot.EventSensorDataReceived, ev.Name)
		var payload map[string]float64
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, 30.0, payload["temperature"])
	}
	assert.Empty(t, b.C)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	common.SetTestLoggerNop()

	hub := NewHub(WithSubscriberBuffer(1))
	slow := hub.Join("A")

	ev, err := NewEvent("x", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, hub.Deliver("A", ev))
	assert.Equal(t, 0, hub.Deliver("A", ev))
	assert.Len(t, slow.C, 1)
}

func TestHub_Leave(t *testing.T) {
	hub := NewHub()
	s := hub.Join("A")
	assert.Equal(t, 1, hub.Count("A"))

	hub.Leave(s)
	hub.Leave(s)
	assert.Equal(t, 0, hub.Count("A"))

	_, open := <-s.C
	assert.False(t, open)

	ev, _ := NewEvent("x", nil)
	assert.Equal(t, 0, hub.Deliver("A", ev))
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("x", make(chan int))
	assert.Error(t, err)
}
