package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liyu1981.xyz/poultry-house-service/pkg/common"
)

func TestClassifyTopic(t *testing.T) {
	cases := []struct {
		topic string
		want  Route
	}{
		{"esp32/register", Route{Kind: RouteOnboarding}},
		{"esp32/AA:BB/ready", Route{Kind: RouteOnboarding, DeviceID: "AA:BB"}},
		{"devices/u1/fan-1/status", Route{Kind: RouteDeviceStatus, UserID: "u1", DeviceID: "fan-1"}},
		{"poultry/u1/sensor-1", Route{Kind: RouteTelemetry, UserID: "u1", DeviceID: "sensor-1"}},
		{"devices/u1/status", Route{Kind: RouteMalformed, UserID: "u1"}},
		{"poultry//sensor-1", Route{Kind: RouteMalformed}},
		{"esp32/config/all", Route{Kind: RouteMalformed}},
		{"poultry", Route{Kind: RouteMalformed}},
		{"", Route{Kind: RouteMalformed}},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyTopic(c.topic), c.topic)
	}
}

func TestSecurityGate(t *testing.T) {
	common.SetTestLoggerNop()

	gate := SecurityGate{}
	assert.True(t, gate.Allow("u1", "u1"))
	assert.False(t, gate.Allow("u2", "u1"))
	assert.False(t, gate.Allow("u1", ""))
	assert.False(t, gate.Allow("", ""))
}

func TestRouteKindString(t *testing.T) {
	assert.Equal(t, "onboarding", RouteOnboarding.String())
	assert.Equal(t, "device_status", RouteDeviceStatus.String())
	assert.Equal(t, "telemetry", RouteTelemetry.String())
	assert.Equal(t, "malformed", RouteMalformed.String())
}
