package timeseries

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const measurementSensorReading = "sensor_reading"

// InfluxMirror copies committed sensor readings into an InfluxDB bucket for
// dashboards. The relational store stays the source of truth.
type InfluxMirror struct {
	client influxdb2.Client
	org    string
	bucket string
}

func NewInfluxMirror(url, token, org, bucket string) *InfluxMirror {
	return &InfluxMirror{
		client: influxdb2.NewClient(url, token),
		org:    org,
		bucket: bucket,
	}
}

func (m *InfluxMirror) MirrorReading(ctx context.Context, reading *models.SensorReading) error {
	fields := map[string]interface{}{
		"temperature": reading.Temperature,
		"humidity":    reading.Humidity,
		"dust":        reading.Dust,
	}
	if reading.ChickCount != nil {
		fields["chick_count"] = *reading.ChickCount
	}

	p := influxdb2.NewPoint(
		measurementSensorReading,
		map[string]string{"user_id": reading.UserID, "device_id": reading.DeviceID},
		fields,
		reading.Timestamp,
	)

	if err := m.client.WriteAPIBlocking(m.org, m.bucket).WritePoint(ctx, p); err != nil {
		return fmt.Errorf("write reading to influxdb: %w", err)
	}
	return nil
}

func (m *InfluxMirror) Close() {
	m.client.Close()
}
