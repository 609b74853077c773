package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/poultry-house-service/pkg/broker"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

func handlerLogger(category string) *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRestfulServer, zap.String(common.LoggerFieldIOTCategory, category))
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ConnectRequest struct {
	Host string `json:"host" zog:"host"`
	Port int    `json:"port" zog:"port"`
}

var connectRequestSchema = z.Struct(z.Shape{
	"host": z.String(),
	"port": z.Int().GTE(0).LTE(65535),
})

func (rs *RestfulServer) ConnectBroker(c *gin.Context) {
	if rs.Broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "broker is not configured"})
		return
	}

	req := ConnectRequest{}
	if c.Request.ContentLength > 0 {
		if err := connectRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err})
			return
		}
	}
	if req.Host == "" {
		req.Host = rs.BrokerHost
	}
	if req.Port == 0 {
		req.Port = rs.BrokerPort
	}

	err := rs.Broker.Connect(c.Request.Context(), currentUser(c), req.Host, req.Port)
	switch {
	case errors.Is(err, broker.ErrInvalidPrincipal):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, broker.ErrTransport):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rs.Broker.Status())
}

// DisconnectBroker only lets the bound principal end its own session.
func (rs *RestfulServer) DisconnectBroker(c *gin.Context) {
	if rs.Broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "broker is not configured"})
		return
	}

	status := rs.Broker.Status()
	if status.CurrentUserID != "" && status.CurrentUserID != currentUser(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": broker.ErrNotPrincipal.Error()})
		return
	}

	if err := rs.Broker.Disconnect(); err != nil {
		handlerLogger(common.LoggerCategoryBrokerSession).Warn("Broker disconnect reported an error", zap.Error(err))
	}
	c.JSON(http.StatusOK, rs.Broker.Status())
}

func (rs *RestfulServer) BrokerStatus(c *gin.Context) {
	if rs.Broker == nil {
		c.JSON(http.StatusOK, broker.SessionStatus{})
		return
	}
	c.JSON(http.StatusOK, rs.Broker.Status())
}

var macSchema = z.String().Min(1).Required()

func (rs *RestfulServer) SendConfig(c *gin.Context) {
	mac := c.Param("mac")
	if err := macSchema.Validate(&mac); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if rs.Broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "broker is not configured"})
		return
	}

	err := rs.Broker.SendConfigToDevice(mac, currentUser(c))
	switch {
	case errors.Is(err, broker.ErrNotConnected):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case errors.Is(err, broker.ErrNotPrincipal):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"macAddress": mac, "userId": currentUser(c)})
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	devices, err := rs.Iot.Device.ListUserDevices(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, devices)
}

const defaultReadingsLimit = 50

func (rs *RestfulServer) ListReadings(c *gin.Context) {
	limit := defaultReadingsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	readings, err := rs.Iot.Reading.ListUserReadings(currentUser(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, readings)
}

type DeviceRequest struct {
	DeviceID   string `json:"deviceId" zog:"deviceId"`
	DeviceName string `json:"deviceName" zog:"deviceName"`
	DeviceType string `json:"deviceType" zog:"deviceType"`
	IsActive   bool   `json:"isActive" zog:"isActive"`
}

var deviceRequestSchema = z.Struct(z.Shape{
	"deviceID":   z.String().Min(1).Max(100).Required(),
	"deviceName": z.String().Max(100),
	"deviceType": z.String().OneOf([]string{
		"",
		string(models.DeviceTypeFan),
		string(models.DeviceTypeHeatLamp),
		string(models.DeviceTypeFeeder),
		string(models.DeviceTypeWaterDispenser),
		string(models.DeviceTypeUnknown),
	}),
	"isActive": z.Bool(),
})

func (rs *RestfulServer) RegisterDevice(c *gin.Context) {
	var req DeviceRequest
	if err := deviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device, err := rs.Iot.Device.RegisterDevice(currentUser(c), &models.Device{
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		DeviceType: models.DeviceType(req.DeviceType),
		IsActive:   req.IsActive,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, device)
}

type CommandRequest struct {
	Action string `json:"action" zog:"action"`
}

var commandRequestSchema = z.Struct(z.Shape{
	"action": z.String().Required().OneOf([]string{broker.ActionActivate, broker.ActionDeactivate}),
})

func (rs *RestfulServer) SendCommand(c *gin.Context) {
	userID := currentUser(c)
	deviceID := c.Param("device_id")

	if !rs.CheckCommandLimiter(userID, deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req CommandRequest
	if err := commandRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if rs.Broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "broker is not configured"})
		return
	}

	if !rs.Broker.PublishDeviceCommand(c.Request.Context(), userID, deviceID, req.Action == broker.ActionActivate) {
		c.JSON(http.StatusConflict, gin.H{"error": "command not published: broker is not connected for this user"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"deviceId": deviceID, "action": req.Action})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate" zog:"rate"`
	Burst int     `json:"burst" zog:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.SetLimiter(currentUser(c), deviceID, req.Rate, req.Burst) {
		c.JSON(http.StatusOK, gin.H{"message": "RateLimiterStore is not used. No effect."})
		return
	}

	c.Status(http.StatusOK)
}
