package iot

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

// TelemetryFields is the structured form of a poultry/{userId}/{sensor} payload.
type TelemetryFields struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Dust        float64 `json:"dust"`
	ChickCount  *int    `json:"chickCount,omitempty"`
}

// ParseTelemetry reports ok=false for anything that is not a JSON object with
// numeric fields. The caller keeps the raw bytes in that case.
func ParseTelemetry(payload []byte) (TelemetryFields, bool) {
	var fields TelemetryFields
	if err := isJSONObject(payload); err != nil {
		return TelemetryFields{}, false
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return TelemetryFields{}, false
	}
	return fields, true
}

// SensorDataEvent is the SensorDataReceived live payload. It never carries
// the raw payload.
type SensorDataEvent struct {
	Topic       string    `json:"topic"`
	DeviceID    string    `json:"deviceId"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Dust        float64   `json:"dust"`
	ChickCount  *int      `json:"chickCount,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SensorIDFromTopic returns the last segment of poultry/{userId}/{sensor}.
func SensorIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}

// ingestTelemetry attributes the reading to userID, the broker principal,
// whatever user the topic names.
func (i *IOT) ingestTelemetry(ctx context.Context, userID, topic string, payload []byte) (*models.SensorReading, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTReading),
	)

	fields, parsed := ParseTelemetry(payload)

	reading := models.SensorReading{
		UserID:    userID,
		DeviceID:  SensorIDFromTopic(topic),
		Topic:     topic,
		Payload:   string(payload),
		Parsed:    parsed,
		Timestamp: time.Now(),
	}
	if parsed {
		reading.Temperature = fields.Temperature
		reading.Humidity = fields.Humidity
		reading.Dust = fields.Dust
		reading.ChickCount = fields.ChickCount
	}

	if err := i.Db.Conn.WithContext(ctx).Create(&reading).Error; err != nil {
		return nil, err
	}

	if !parsed {
		logger.Warn("Stored unparsed telemetry", zap.String("topic", topic), zap.String("payload", reading.Payload))
		return &reading, nil
	}

	logger.Info("Stored telemetry", zap.Reflect("reading", reading))

	i.broadcast(ctx, userID, EventSensorDataReceived, SensorDataEvent{
		Topic:       reading.Topic,
		DeviceID:    reading.DeviceID,
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		Dust:        reading.Dust,
		ChickCount:  reading.ChickCount,
		Timestamp:   reading.Timestamp,
	})

	if i.Mirror != nil {
		if err := i.Mirror.MirrorReading(ctx, &reading); err != nil {
			logger.Warn("Mirroring reading failed", zap.Uint("reading_id", reading.ID), zap.Error(err))
		}
	}

	return &reading, nil
}

func (i *IOT) listRecentReadings(since time.Time) ([]models.SensorReading, error) {
	var readings []models.SensorReading
	err := i.Db.Conn.
		Where("timestamp >= ? AND parsed = ?", since, true).
		Order("timestamp desc").
		Find(&readings).Error
	return readings, err
}

func (i *IOT) listUserReadings(userID string, limit int) ([]models.SensorReading, error) {
	if limit <= 0 {
		limit = 100
	}
	var readings []models.SensorReading
	err := i.Db.Conn.
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

type IReadingImpl struct {
	iot *IOT
}

func (ir *IReadingImpl) IngestTelemetry(ctx context.Context, userID, topic string, payload []byte) (*models.SensorReading, error) {
	return ir.iot.ingestTelemetry(ctx, userID, topic, payload)
}

func (ir *IReadingImpl) ListRecentReadings(since time.Time) ([]models.SensorReading, error) {
	return ir.iot.listRecentReadings(since)
}

func (ir *IReadingImpl) ListUserReadings(userID string, limit int) ([]models.SensorReading, error) {
	return ir.iot.listUserReadings(userID, limit)
}

func (i *IOT) GetIReading() IReading {
	return &IReadingImpl{iot: i}
}
