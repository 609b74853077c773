package http

//go:generate mockgen -source=restful_server.go -destination=mocks/mock_restful_server.go -package=mocks

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"liyu1981.xyz/poultry-house-service/pkg/broker"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
	"liyu1981.xyz/poultry-house-service/pkg/live"
)

const (
	HeaderUserID = "X-User-ID"
	ctxKeyUserID = "user_id"
)

// IBroker is the part of broker.Session the API drives.
type IBroker interface {
	Connect(ctx context.Context, userID, host string, port int) error
	Disconnect() error
	Status() broker.SessionStatus
	PublishDeviceCommand(ctx context.Context, userID, deviceID string, activate bool) bool
	SendConfigToDevice(mac, userID string) error
}

type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	Broker           IBroker
	Hub              *live.Hub
	RateLimiterStore *iot.RateLimiterStore

	BrokerHost string
	BrokerPort int
}

func (rs *RestfulServer) GetLimiter(userID, deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(iot.LimiterKey(userID, deviceID))
	}
}

func (rs *RestfulServer) CheckCommandLimiter(userID, deviceID string) bool {
	limiter := rs.GetLimiter(userID, deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(userID, deviceID string, deviceRate float64, deviceBurst int) bool {
	if rs.RateLimiterStore == nil {
		return false
	}
	rs.RateLimiterStore.SetLimiter(iot.LimiterKey(userID, deviceID), rate.Limit(deviceRate), deviceBurst)
	return true
}

// RequireUser takes the caller identity from the header set by the upstream
// auth layer.
func RequireUser(c *gin.Context) {
	userID := c.GetHeader(HeaderUserID)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + HeaderUserID + " header"})
		return
	}
	c.Set(ctxKeyUserID, userID)
	c.Next()
}

func currentUser(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	api := rs.Server.Group("/", RequireUser)

	brokerGroup := api.Group("/broker")
	{
		brokerGroup.POST("/connect", rs.ConnectBroker)
		brokerGroup.POST("/disconnect", rs.DisconnectBroker)
		brokerGroup.GET("/status", rs.BrokerStatus)
		brokerGroup.POST("/send-config/:mac", rs.SendConfig)
	}

	devices := api.Group("/devices")
	{
		devices.GET("", rs.ListDevices)
		devices.POST("", rs.RegisterDevice)
		devices.POST("/:device_id/command", rs.SendCommand)
		devices.POST("/:device_id/limiter", rs.PostLimiter)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", rs.GetSettings)
		settings.PUT("", rs.UpdateSettings)
		settings.DELETE("", rs.DeleteSettings)
		settings.POST("/toggle", rs.ToggleNotifications)
		settings.PUT("/thresholds", rs.UpdateThresholds)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", rs.ListNotifications)
		notifications.POST("", rs.CreateNotification)
		notifications.DELETE("", rs.DeleteOldNotifications)
		notifications.GET("/unread", rs.GetUnread)
		notifications.GET("/unread/count", rs.GetUnreadCount)
		notifications.GET("/stats", rs.GetStats)
		notifications.POST("/read-all", rs.MarkAllRead)
		notifications.GET("/:id", rs.GetNotification)
		notifications.POST("/:id/read", rs.MarkRead)
		notifications.DELETE("/:id", rs.DeleteNotification)
	}

	flock := api.Group("/flock")
	{
		flock.POST("/detections", rs.PostDetections)
		flock.GET("/unhealthy", rs.ListUnhealthy)
	}

	api.GET("/contact", rs.GetContact)
	api.PUT("/contact", rs.UpsertContact)
	api.GET("/readings", rs.ListReadings)
	api.GET("/live", rs.Live)
}
