package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/poultry-house-service/pkg/iot"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const defaultPurgeAgeDays = 30

func (rs *RestfulServer) GetSettings(c *gin.Context) {
	settings, err := rs.Iot.Settings.GetSettings(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type SettingsRequest struct {
	NotificationsEnabled bool    `json:"notificationsEnabled" zog:"notificationsEnabled"`
	EmailNotifications   bool    `json:"emailNotifications" zog:"emailNotifications"`
	PushNotifications    bool    `json:"pushNotifications" zog:"pushNotifications"`
	SmsNotifications     bool    `json:"smsNotifications" zog:"smsNotifications"`
	TemperatureThreshold float64 `json:"temperatureThreshold" zog:"temperatureThreshold"`
	HumidityThreshold    float64 `json:"humidityThreshold" zog:"humidityThreshold"`
	DustThreshold        float64 `json:"dustThreshold" zog:"dustThreshold"`
	WaterLevelThreshold  float64 `json:"waterLevelThreshold" zog:"waterLevelThreshold"`
	FoodLevelThreshold   float64 `json:"foodLevelThreshold" zog:"foodLevelThreshold"`
	CheckInterval        int     `json:"checkInterval" zog:"checkInterval"`
}

var thresholdShape = z.Shape{
	"temperatureThreshold": z.Float64().Required(),
	"humidityThreshold":    z.Float64().Required().GTE(0).LTE(100),
	"dustThreshold":        z.Float64().Required().GTE(0),
	"waterLevelThreshold":  z.Float64().Required().GTE(0).LTE(100),
	"foodLevelThreshold":   z.Float64().Required().GTE(0).LTE(100),
}

var settingsRequestSchema = z.Struct(z.Shape{
	"notificationsEnabled": z.Bool(),
	"emailNotifications":   z.Bool(),
	"pushNotifications":    z.Bool(),
	"smsNotifications":     z.Bool(),
	"temperatureThreshold": thresholdShape["temperatureThreshold"],
	"humidityThreshold":    thresholdShape["humidityThreshold"],
	"dustThreshold":        thresholdShape["dustThreshold"],
	"waterLevelThreshold":  thresholdShape["waterLevelThreshold"],
	"foodLevelThreshold":   thresholdShape["foodLevelThreshold"],
	"checkInterval":        z.Int().GTE(1).Required(),
})

var thresholdsRequestSchema = z.Struct(thresholdShape)

func (req *SettingsRequest) toModel(userID string) *models.NotificationSettings {
	return &models.NotificationSettings{
		UserID:               userID,
		NotificationsEnabled: req.NotificationsEnabled,
		EmailNotifications:   req.EmailNotifications,
		PushNotifications:    req.PushNotifications,
		SmsNotifications:     req.SmsNotifications,
		TemperatureThreshold: req.TemperatureThreshold,
		HumidityThreshold:    req.HumidityThreshold,
		DustThreshold:        req.DustThreshold,
		WaterLevelThreshold:  req.WaterLevelThreshold,
		FoodLevelThreshold:   req.FoodLevelThreshold,
		CheckInterval:        req.CheckInterval,
	}
}

func (rs *RestfulServer) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := settingsRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	settings, err := rs.Iot.Settings.CreateOrUpdateSettings(req.toModel(currentUser(c)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (rs *RestfulServer) DeleteSettings(c *gin.Context) {
	deleted, err := rs.Iot.Settings.DeleteSettings(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

type ToggleRequest struct {
	Enabled bool `json:"enabled" zog:"enabled"`
}

var toggleRequestSchema = z.Struct(z.Shape{
	"enabled": z.Bool(),
})

func (rs *RestfulServer) ToggleNotifications(c *gin.Context) {
	var req ToggleRequest
	if err := toggleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	updated, err := rs.Iot.Settings.ToggleNotifications(currentUser(c), req.Enabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notificationsEnabled": req.Enabled})
}

func (rs *RestfulServer) UpdateThresholds(c *gin.Context) {
	var req SettingsRequest
	if err := thresholdsRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	updated, err := rs.Iot.Settings.UpdateThresholds(currentUser(c), req.toModel(currentUser(c)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

func (rs *RestfulServer) ListNotifications(c *gin.Context) {
	filter := models.NotificationFilter{
		Category:   c.Query("category"),
		Severity:   models.Severity(c.Query("severity")),
		UnreadOnly: c.Query("unread") == "true",
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	list, err := rs.Iot.Notification.ListNotifications(currentUser(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rs *RestfulServer) GetNotification(c *gin.Context) {
	notification, err := rs.Iot.Notification.GetNotification(currentUser(c), c.Param("id"))
	if errors.Is(err, iot.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (rs *RestfulServer) GetUnread(c *gin.Context) {
	list, err := rs.Iot.Notification.GetUnread(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rs *RestfulServer) GetUnreadCount(c *gin.Context) {
	count, err := rs.Iot.Notification.GetUnreadCount(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (rs *RestfulServer) GetStats(c *gin.Context) {
	stats, err := rs.Iot.Notification.GetStats(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type NotificationRequest struct {
	Title       string `json:"title" zog:"title"`
	Message     string `json:"message" zog:"message"`
	Category    string `json:"category" zog:"category"`
	Severity    string `json:"severity" zog:"severity"`
	DeviceID    string `json:"deviceId" zog:"deviceId"`
	DeviceName  string `json:"deviceName" zog:"deviceName"`
	ActionTaken string `json:"actionTaken" zog:"actionTaken"`
}

var notificationRequestSchema = z.Struct(z.Shape{
	"title":    z.String().Min(1).Max(200).Required(),
	"message":  z.String().Min(1).Max(1000).Required(),
	"category": z.String().Max(50),
	"severity": z.String().OneOf([]string{
		"",
		string(models.SeverityInfo),
		string(models.SeveritySuccess),
		string(models.SeverityWarning),
		string(models.SeverityCritical),
	}),
	"deviceID":    z.String().Max(100),
	"deviceName":  z.String().Max(100),
	"actionTaken": z.String(),
})

func (rs *RestfulServer) CreateNotification(c *gin.Context) {
	var req NotificationRequest
	if err := notificationRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	notification, err := rs.Iot.Notification.CreateNotification(&models.NotificationRequest{
		UserID:      currentUser(c),
		Title:       req.Title,
		Message:     req.Message,
		Category:    req.Category,
		Severity:    models.Severity(req.Severity),
		DeviceID:    req.DeviceID,
		DeviceName:  req.DeviceName,
		ActionTaken: req.ActionTaken,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, notification)
}

func (rs *RestfulServer) MarkRead(c *gin.Context) {
	updated, err := rs.Iot.Notification.MarkRead(currentUser(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

func (rs *RestfulServer) MarkAllRead(c *gin.Context) {
	count, err := rs.Iot.Notification.MarkAllRead(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count})
}

func (rs *RestfulServer) DeleteNotification(c *gin.Context) {
	deleted, err := rs.Iot.Notification.DeleteNotification(currentUser(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *RestfulServer) DeleteOldNotifications(c *gin.Context) {
	days := defaultPurgeAgeDays
	if raw := c.Query("older_than_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "older_than_days must be a positive integer"})
			return
		}
		days = parsed
	}

	count, err := rs.Iot.Notification.DeleteOlderThan(currentUser(c), time.Duration(days)*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": count})
}

type ContactRequest struct {
	Email       string `json:"email" zog:"email"`
	PhoneNumber string `json:"phoneNumber" zog:"phoneNumber"`
}

var contactRequestSchema = z.Struct(z.Shape{
	"email":       z.String().Email().Max(254),
	"phoneNumber": z.String().Max(32),
})

func (rs *RestfulServer) GetContact(c *gin.Context) {
	contact, err := rs.Iot.Contacts.GetContact(currentUser(c))
	if errors.Is(err, iot.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contact)
}

// UpsertContact stores where email and SMS notifications are delivered.
func (rs *RestfulServer) UpsertContact(c *gin.Context) {
	var req ContactRequest
	if err := contactRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	contact := &models.UserContact{
		UserID:      currentUser(c),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if err := rs.Iot.Contacts.UpsertContact(contact); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contact)
}

type DetectionsRequest struct {
	Detections []models.Detection `json:"detections"`
}

var detectionsRequestSchema = z.Struct(z.Shape{
	"detections": z.Slice(z.Struct(z.Shape{
		"confidence": z.Float64().GTE(0).LTE(1),
	})),
})

func (rs *RestfulServer) PostDetections(c *gin.Context) {
	var req DetectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := detectionsRequestSchema.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	stored, err := rs.Iot.Flock.ProcessDetections(currentUser(c), req.Detections)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": len(req.Detections), "stored": stored})
}

func (rs *RestfulServer) ListUnhealthy(c *gin.Context) {
	chicks, err := rs.Iot.Flock.ListUnhealthy(currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, chicks)
}
