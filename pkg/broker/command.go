package broker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
)

const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

type deviceCommand struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type configAnnouncement struct {
	UserID     string    `json:"userId"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	MacAddress string    `json:"macAddress,omitempty"`
}

// OnboardingMessage is what an ESP32 board sends on esp32/register and
// esp32/{mac}/ready.
type OnboardingMessage struct {
	MacAddress      string `json:"macAddress"`
	DeviceType      string `json:"deviceType"`
	FirmwareVersion string `json:"firmwareVersion"`
}

func commandLogger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameBroker, zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryBrokerCommand))
}

// PublishDeviceCommand sends an activate/deactivate command to one device.
// Only the bound principal may command devices. The device row is left alone;
// the status echo from the device updates it.
func (s *Session) PublishDeviceCommand(ctx context.Context, userID, deviceID string, activate bool) bool {
	logger := commandLogger()

	if !s.IsConnected() {
		logger.Warn("Command rejected, broker not connected", zap.String("user_id", userID), zap.String("device_id", deviceID))
		return false
	}
	if principal := s.CurrentUserID(); userID == "" || userID != principal {
		logger.Warn("Command rejected, user is not the connected principal",
			zap.String("user_id", userID),
			zap.String("principal", principal),
			zap.String("device_id", deviceID))
		return false
	}

	action := ActionDeactivate
	if activate {
		action = ActionActivate
	}
	payload, _ := json.Marshal(deviceCommand{Action: action, Timestamp: time.Now().UTC()})

	topic := commandTopic(userID, deviceID)
	if err := s.Publish(topic, payload, QoSAtLeastOnce, false); err != nil {
		logger.Error("Command publish failed", zap.String("topic", topic), zap.Error(err))
		return false
	}

	logger.Info("Command published", zap.String("topic", topic), zap.String("action", action))
	return true
}

// SendConfigToDevice pushes the bound user id to one board, exactly once.
func (s *Session) SendConfigToDevice(mac, userID string) error {
	if !s.IsConnected() {
		return ErrNotConnected
	}
	if userID == "" || userID != s.CurrentUserID() {
		return ErrNotPrincipal
	}

	payload, _ := json.Marshal(configAnnouncement{
		UserID:     userID,
		Timestamp:  time.Now().UTC(),
		Action:     actionSetUserID,
		MacAddress: mac,
	})
	if err := s.Publish(deviceConfigTopic(mac), payload, QoSExactlyOnce, false); err != nil {
		return err
	}

	common.GetLoggerWith(common.LoggerNameBroker, zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryBrokerOnboard)).
		Info("Sent config to device", zap.String("mac", mac), zap.String("user_id", userID))
	return nil
}

func (s *Session) handleOnboarding(r Route, payload []byte) {
	logger := common.GetLoggerWith(common.LoggerNameBroker, zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryBrokerOnboard))

	var msg OnboardingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Warn("Unparsable onboarding message", zap.Error(err))
	}
	mac := strings.TrimSpace(msg.MacAddress)
	if mac == "" {
		mac = r.DeviceID
	}
	if mac == "" {
		logger.Warn("Onboarding message without mac address")
		return
	}

	principal := s.CurrentUserID()
	if principal == "" {
		logger.Info("Onboarding ignored, no principal bound", zap.String("mac", mac))
		return
	}

	logger.Info("Device onboarding",
		zap.String("mac", mac),
		zap.String("device_type", msg.DeviceType),
		zap.String("firmware_version", msg.FirmwareVersion))

	if err := s.SendConfigToDevice(mac, principal); err != nil {
		logger.Warn("Onboarding config push failed", zap.String("mac", mac), zap.Error(err))
	}
}
