package iot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const (
	StatusMessageActive   = "Device active"
	StatusMessageInactive = "Device inactive"
)

func ParseDeviceStatus(payload []byte) (models.DeviceStatus, error) {
	var status models.DeviceStatus
	if err := isJSONObject(payload); err != nil {
		return status, fmt.Errorf("parse device status: %w", err)
	}
	if err := json.Unmarshal(payload, &status); err != nil {
		return status, fmt.Errorf("parse device status: %w", err)
	}
	return status, nil
}

// DeviceStatusEvent is the DeviceStatusChanged live payload.
type DeviceStatusEvent struct {
	DeviceID      string            `json:"deviceId"`
	DeviceName    string            `json:"deviceName"`
	DeviceType    models.DeviceType `json:"deviceType"`
	IsActive      bool              `json:"isActive"`
	StatusMessage string            `json:"statusMessage"`
	LastUpdated   time.Time         `json:"lastUpdated"`
	Value         *float64          `json:"value,omitempty"`
}

func NewDeviceStatusEvent(device *models.Device, value *float64) DeviceStatusEvent {
	return DeviceStatusEvent{
		DeviceID:      device.DeviceID,
		DeviceName:    device.DeviceName,
		DeviceType:    device.DeviceType,
		IsActive:      device.IsActive,
		StatusMessage: device.StatusMessage,
		LastUpdated:   device.LastUpdated,
		Value:         value,
	}
}

var devicePrefixes = []struct {
	prefix     string
	deviceType models.DeviceType
}{
	{"fan-", models.DeviceTypeFan},
	{"heatlamp-", models.DeviceTypeHeatLamp},
	{"feeder-", models.DeviceTypeFeeder},
	{"water-", models.DeviceTypeWaterDispenser},
}

// InferDeviceType maps the id prefix convention (fan-, heatlamp-, feeder-,
// water-) to a device type.
func InferDeviceType(deviceID string) models.DeviceType {
	lowered := strings.ToLower(deviceID)
	for _, p := range devicePrefixes {
		if strings.HasPrefix(lowered, p.prefix) {
			return p.deviceType
		}
	}
	return models.DeviceTypeUnknown
}

func DeviceDisplayName(deviceType models.DeviceType) string {
	switch deviceType {
	case models.DeviceTypeFan:
		return "Ventilateur Principal"
	case models.DeviceTypeHeatLamp:
		return "Lampe Chauffante"
	case models.DeviceTypeFeeder:
		return "Distributeur d'Aliment"
	case models.DeviceTypeWaterDispenser:
		return "Distributeur d'Eau"
	default:
		return "Appareil Inconnu"
	}
}

func statusMessage(isActive bool) string {
	if isActive {
		return StatusMessageActive
	}
	return StatusMessageInactive
}

// reconcileStatus returns (nil, nil) when the update lost a race against a
// concurrent writer and was dropped.
func (i *IOT) reconcileStatus(ctx context.Context, userID, deviceID string, status models.DeviceStatus) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTDevice),
	)

	now := time.Now()
	created := false

	var device models.Device
	err := i.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("device_id = ? AND user_id = ?", deviceID, userID).First(&device).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			deviceType := InferDeviceType(deviceID)
			device = models.Device{
				DeviceID:      deviceID,
				UserID:        userID,
				DeviceName:    DeviceDisplayName(deviceType),
				DeviceType:    deviceType,
				IsActive:      status.IsActive,
				LastUpdated:   now,
				StatusMessage: statusMessage(status.IsActive),
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&device)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrencyConflict
			}
			created = true
			return nil
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.Device{}).
			Where("id = ? AND version = ?", device.ID, device.Version).
			Updates(map[string]any{
				"is_active":      status.IsActive,
				"last_updated":   now,
				"status_message": statusMessage(status.IsActive),
				"version":        device.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		device.IsActive = status.IsActive
		device.LastUpdated = now
		device.StatusMessage = statusMessage(status.IsActive)
		device.Version++
		return nil
	})

	if errors.Is(err, ErrConcurrencyConflict) {
		logger.Warn("Dropped device status update after concurrent write",
			zap.String("user_id", userID), zap.String("device_id", deviceID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if created {
		logger.Info("Auto-provisioned device", zap.Reflect("device", device))
	} else {
		logger.Info("Updated device status", zap.Reflect("device", device))
	}

	i.broadcast(ctx, userID, EventDeviceStatusChanged, NewDeviceStatusEvent(&device, status.Value))

	return &device, nil
}

func (i *IOT) registerDevice(userID string, input *models.Device) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTDevice),
	)

	deviceType := input.DeviceType
	if deviceType == "" {
		deviceType = InferDeviceType(input.DeviceID)
	}
	name := input.DeviceName
	if name == "" {
		name = DeviceDisplayName(deviceType)
	}

	device := models.Device{
		DeviceID:      input.DeviceID,
		UserID:        userID,
		DeviceName:    name,
		DeviceType:    deviceType,
		IsActive:      input.IsActive,
		LastUpdated:   time.Now(),
		StatusMessage: statusMessage(input.IsActive),
	}

	if err := i.Db.Conn.Create(&device).Error; err != nil {
		return nil, err
	}

	logger.Info("Registered device", zap.Reflect("device", device))
	return &device, nil
}

func (i *IOT) getDevice(userID, deviceID string) (*models.Device, error) {
	var device models.Device
	err := i.Db.Conn.Where("device_id = ? AND user_id = ?", deviceID, userID).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &device, err
}

func (i *IOT) listUserDevices(userID string) ([]models.Device, error) {
	var devices []models.Device
	err := i.Db.Conn.
		Where("user_id = ?", userID).
		Order("device_id").
		Find(&devices).Error
	return devices, err
}

func (i *IOT) listDevices() ([]models.Device, error) {
	var devices []models.Device
	err := i.Db.Conn.Order("user_id, device_id").Find(&devices).Error
	return devices, err
}

type IDeviceImpl struct {
	iot *IOT
}

func (id *IDeviceImpl) ReconcileStatus(ctx context.Context, userID, deviceID string, status models.DeviceStatus) (*models.Device, error) {
	return id.iot.reconcileStatus(ctx, userID, deviceID, status)
}

func (id *IDeviceImpl) RegisterDevice(userID string, input *models.Device) (*models.Device, error) {
	return id.iot.registerDevice(userID, input)
}

func (id *IDeviceImpl) GetDevice(userID, deviceID string) (*models.Device, error) {
	return id.iot.getDevice(userID, deviceID)
}

func (id *IDeviceImpl) ListUserDevices(userID string) ([]models.Device, error) {
	return id.iot.listUserDevices(userID)
}

func (id *IDeviceImpl) ListDevices() ([]models.Device, error) {
	return id.iot.listDevices()
}

func (i *IOT) GetIDevice() IDevice {
	return &IDeviceImpl{iot: i}
}
