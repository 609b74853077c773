package models

import "time"

type DeviceType string

const (
	DeviceTypeFan            DeviceType = "Fan"
	DeviceTypeHeatLamp       DeviceType = "HeatLamp"
	DeviceTypeFeeder         DeviceType = "Feeder"
	DeviceTypeWaterDispenser DeviceType = "WaterDispenser"
	DeviceTypeUnknown        DeviceType = "Unknown"
)

type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeveritySuccess  Severity = "Success"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

type HealthState string

const (
	HealthStateHealthy HealthState = "Healthy"
	HealthStateWarning HealthState = "Warning"
	HealthStateSick    HealthState = "Sick"
)

// Device is one actuator of a poultry house. (UserID, DeviceID) is unique.
type Device struct {
	ID            uint       `gorm:"primaryKey"`
	DeviceID      string     `gorm:"uniqueIndex:idx_device_user;size:100;not null"`
	UserID        string     `gorm:"uniqueIndex:idx_device_user;size:450;not null"`
	DeviceName    string     `gorm:"size:100"`
	DeviceType    DeviceType `gorm:"type:varchar(20);check:device_type IN ('Fan','HeatLamp','Feeder','WaterDispenser','Unknown')"`
	IsActive      bool
	LastUpdated   time.Time
	StatusMessage string
	Version       uint `gorm:"not null;default:0"`
}

type SensorReading struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"index;size:450;not null"`
	DeviceID    string `gorm:"index;size:100"`
	Topic       string
	Payload     string
	Parsed      bool
	Temperature float64
	Humidity    float64
	Dust        float64
	ChickCount  *int
	Timestamp   time.Time `gorm:"index"`
}

type NotificationSettings struct {
	UserID               string `gorm:"primaryKey;size:450"`
	NotificationsEnabled bool
	EmailNotifications   bool
	PushNotifications    bool
	SmsNotifications     bool
	TemperatureThreshold float64
	HumidityThreshold    float64
	DustThreshold        float64
	WaterLevelThreshold  float64
	FoodLevelThreshold   float64
	CheckInterval        int
	LastUpdated          time.Time
}

// DefaultNotificationSettings is what a user gets before ever saving settings.
func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID:               userID,
		NotificationsEnabled: true,
		EmailNotifications:   true,
		PushNotifications:    true,
		SmsNotifications:     false,
		TemperatureThreshold: 35.0,
		HumidityThreshold:    40.0,
		DustThreshold:        100.0,
		WaterLevelThreshold:  30.0,
		FoodLevelThreshold:   25.0,
		CheckInterval:        5,
		LastUpdated:          time.Now(),
	}
}

type Notification struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserID         string    `gorm:"index;size:450;not null"`
	Title          string    `gorm:"size:200;not null"`
	Message        string    `gorm:"size:1000;not null"`
	Category       string    `gorm:"size:50;index"`
	Severity       Severity  `gorm:"type:varchar(20);check:severity IN ('Info','Success','Warning','Critical')"`
	IsRead         bool
	Timestamp      time.Time `gorm:"index"`
	UpdatedAt      time.Time
	TriggerValue   *float64
	ThresholdValue *float64
	ActionTaken    string
	DeviceID       string `gorm:"size:100"`
	DeviceName     string `gorm:"size:100"`
}

// NotificationRequest is a raised notification before it is persisted or dispatched.
type NotificationRequest struct {
	UserID         string
	Title          string
	Message        string
	Category       string
	Severity       Severity
	DeviceID       string
	DeviceName     string
	TriggerValue   *float64
	ThresholdValue *float64
	ActionTaken    string
}

type NotificationStats struct {
	Total      int64
	Unread     int64
	Critical   int64
	Today      int64
	ByCategory map[string]int64
	BySeverity map[Severity]int64
}

type Chick struct {
	ChickID     string `gorm:"primaryKey;size:100"`
	UserID      string `gorm:"index;size:450;not null"`
	Confidence  float64
	X           float64
	Y           float64
	HealthState HealthState `gorm:"type:varchar(20);index"`
	Age         int
	Weight      float64
	LastUpdated time.Time
}

// UserContact mirrors the contact details of the identity store.
type UserContact struct {
	UserID      string `gorm:"primaryKey;size:450"`
	Email       string
	PhoneNumber string
}

// DeviceStatus is the payload of devices/{userId}/{deviceId}/status.
type DeviceStatus struct {
	IsActive bool     `json:"isActive"`
	Value    *float64 `json:"value,omitempty"`
}

// Detection is one tracked chick reported by the vision pipeline.
type Detection struct {
	ChickID    string   `json:"chickId"`
	Confidence float64  `json:"confidence"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Age        *int     `json:"age,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
}

type NotificationFilter struct {
	Category   string
	Severity   Severity
	UnreadOnly bool
	Limit      int
}
