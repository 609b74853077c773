package iot

//go:generate mockgen -source=iot.go -destination=mocks/mock_iot.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"liyu1981.xyz/poultry-house-service/pkg/db"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

var (
	ErrConcurrencyConflict = errors.New("concurrent device update")
	ErrNotFound            = errors.New("record not found")
)

// Live event names pushed to a user's channel.
const (
	EventSensorDataReceived  = "SensorDataReceived"
	EventDeviceStatusChanged = "DeviceStatusChanged"
	EventNotificationCreated = "NotificationCreated"
)

type IDevice interface {
	ReconcileStatus(ctx context.Context, userID, deviceID string, status models.DeviceStatus) (*models.Device, error)
	RegisterDevice(userID string, input *models.Device) (*models.Device, error)
	GetDevice(userID, deviceID string) (*models.Device, error)
	ListUserDevices(userID string) ([]models.Device, error)
	ListDevices() ([]models.Device, error)
}

type IReading interface {
	IngestTelemetry(ctx context.Context, userID, topic string, payload []byte) (*models.SensorReading, error)
	ListRecentReadings(since time.Time) ([]models.SensorReading, error)
	ListUserReadings(userID string, limit int) ([]models.SensorReading, error)
}

type ISettings interface {
	GetSettings(userID string) (*models.NotificationSettings, error)
	CreateOrUpdateSettings(input *models.NotificationSettings) (*models.NotificationSettings, error)
	ToggleNotifications(userID string, enabled bool) (bool, error)
	UpdateThresholds(userID string, input *models.NotificationSettings) (bool, error)
	DeleteSettings(userID string) (bool, error)
}

type INotification interface {
	CreateNotification(req *models.NotificationRequest) (*models.Notification, error)
	GetNotification(userID, id string) (*models.Notification, error)
	ListNotifications(userID string, filter models.NotificationFilter) ([]models.Notification, error)
	GetUnread(userID string) ([]models.Notification, error)
	GetUnreadCount(userID string) (int64, error)
	MarkRead(userID, id string) (bool, error)
	MarkAllRead(userID string) (int64, error)
	DeleteNotification(userID, id string) (bool, error)
	DeleteOlderThan(userID string, age time.Duration) (int64, error)
	GetStats(userID string) (*models.NotificationStats, error)
}

type IFlock interface {
	ProcessDetections(userID string, detections []models.Detection) (int, error)
	ListUnhealthy(userID string) ([]models.Chick, error)
}

type IContacts interface {
	GetContact(userID string) (*models.UserContact, error)
	UpsertContact(input *models.UserContact) error
}

// ILiveChannel pushes an event to every live connection of one user.
type ILiveChannel interface {
	Broadcast(ctx context.Context, userID, event string, payload any) error
}

// IReadingMirror receives committed readings, e.g. a time-series database.
type IReadingMirror interface {
	MirrorReading(ctx context.Context, reading *models.SensorReading) error
}

type IOT struct {
	Db           db.DB
	Device       IDevice
	Reading      IReading
	Settings     ISettings
	Notification INotification
	Flock        IFlock
	Contacts     IContacts
	Live         ILiveChannel
	Mirror       IReadingMirror
}

type ServiceOpts struct {
	Device       IDevice
	Reading      IReading
	Settings     ISettings
	Notification INotification
	Flock        IFlock
	Contacts     IContacts
	Live         ILiveChannel
	Mirror       IReadingMirror
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Device != nil {
		i.Device = opts.Device
	}
	if opts.Reading != nil {
		i.Reading = opts.Reading
	}
	if opts.Settings != nil {
		i.Settings = opts.Settings
	}
	if opts.Notification != nil {
		i.Notification = opts.Notification
	}
	if opts.Flock != nil {
		i.Flock = opts.Flock
	}
	if opts.Contacts != nil {
		i.Contacts = opts.Contacts
	}
	if opts.Live != nil {
		i.Live = opts.Live
	}
	if opts.Mirror != nil {
		i.Mirror = opts.Mirror
	}
	return i
}

// WithDefaultServices wires every store to its gorm implementation.
func (i *IOT) WithDefaultServices() *IOT {
	return i.WithServices(ServiceOpts{
		Device:       i.GetIDevice(),
		Reading:      i.GetIReading(),
		Settings:     i.GetISettings(),
		Notification: i.GetINotification(),
		Flock:        i.GetIFlock(),
		Contacts:     i.GetIContacts(),
	})
}
