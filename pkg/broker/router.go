package broker

import (
	"strings"

	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
)

const (
	TopicRegister     = "esp32/register"
	TopicConfigAll    = "esp32/config/all"
	topicReadySuffix  = "ready"
	topicStatusSuffix = "status"
	topicRootESP32    = "esp32"
	topicRootPoultry  = "poultry"
	topicRootDevices  = "devices"
)

type RouteKind int

const (
	RouteMalformed RouteKind = iota
	RouteOnboarding
	RouteDeviceStatus
	RouteTelemetry
)

func (k RouteKind) String() string {
	switch k {
	case RouteOnboarding:
		return "onboarding"
	case RouteDeviceStatus:
		return "device_status"
	case RouteTelemetry:
		return "telemetry"
	default:
		return "malformed"
	}
}

// Route is the classification of one inbound topic. UserID is the id embedded
// in the topic and is only ever compared against the bound principal.
type Route struct {
	Kind     RouteKind
	UserID   string
	DeviceID string
}

// ClassifyTopic applies the routing precedence: onboarding topics first, then
// user scoped topics split on the status suffix.
func ClassifyTopic(topic string) Route {
	parts := strings.Split(topic, "/")

	if topic == TopicRegister {
		return Route{Kind: RouteOnboarding}
	}
	if len(parts) == 3 && parts[0] == topicRootESP32 && parts[2] == topicReadySuffix && parts[1] != "" {
		return Route{Kind: RouteOnboarding, DeviceID: parts[1]}
	}

	if len(parts) < 3 || parts[1] == "" {
		return Route{Kind: RouteMalformed}
	}
	if parts[0] != topicRootPoultry && parts[0] != topicRootDevices {
		return Route{Kind: RouteMalformed}
	}

	route := Route{UserID: parts[1]}
	if parts[len(parts)-1] == topicStatusSuffix {
		if len(parts) < 4 || parts[len(parts)-2] == "" {
			route.Kind = RouteMalformed
			return route
		}
		route.Kind = RouteDeviceStatus
		route.DeviceID = parts[len(parts)-2]
		return route
	}

	route.Kind = RouteTelemetry
	route.DeviceID = parts[len(parts)-1]
	return route
}

// SecurityGate admits a user scoped message only when its embedded user id is
// the principal bound to the broker connection.
type SecurityGate struct{}

func (SecurityGate) Allow(embedded, principal string) bool {
	if principal != "" && embedded == principal {
		return true
	}

	logger := common.GetLoggerWith(common.LoggerNameBroker, zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryBrokerSecurity))
	if principal == "" {
		logger.Warn("Dropped message, no principal bound", zap.String("embedded_user_id", embedded))
	} else {
		logger.Warn("Dropped message for foreign user",
			zap.String("embedded_user_id", embedded),
			zap.String("principal", principal))
	}
	return false
}

// SubscriptionTopics are the topics a principal's connection listens on.
func SubscriptionTopics(userID string) []string {
	return append(userTopics(userID), TopicRegister, topicRootESP32+"/+/"+topicReadySuffix)
}

func userTopics(userID string) []string {
	return []string{
		topicRootPoultry + "/" + userID + "/+",
		topicRootDevices + "/" + userID + "/+/" + topicStatusSuffix,
	}
}

func commandTopic(userID, deviceID string) string {
	return topicRootDevices + "/" + userID + "/" + deviceID + "/command"
}

func deviceConfigTopic(mac string) string {
	return topicRootESP32 + "/config/" + mac
}
