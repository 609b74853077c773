package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/db"
	"liyu1981.xyz/poultry-house-service/pkg/iot"
	iotMocks "liyu1981.xyz/poultry-house-service/pkg/iot/mocks"
	"liyu1981.xyz/poultry-house-service/pkg/models"
	"liyu1981.xyz/poultry-house-service/pkg/monitor/mocks"
	_ "liyu1981.xyz/poultry-house-service/pkg/testing"
)

func newTestMonitor(t *testing.T, opts ...Option) (*gomock.Controller, *Monitor, *iot.IOT, *mocks.MockIDispatcher) {
	ctrl := gomock.NewController(t)
	mockDispatcher := mocks.NewMockIDispatcher(ctrl)

	dbInstance, err := db.OpenIsolatedMemory()
	require.NoError(t, err)

	iotObj := (&iot.IOT{Db: *dbInstance}).WithDefaultServices()
	return ctrl, New(iotObj, mockDispatcher, opts...), iotObj, mockDispatcher
}

type readingSeq struct {
	t    *testing.T
	iot  *iot.IOT
	base time.Time
	n    int
}

func (s *readingSeq) add(userID, deviceID string, temperature, humidity float64) {
	s.n++
	reading := models.SensorReading{
		UserID:      userID,
		DeviceID:    deviceID,
		Topic:       "poultry/" + userID + "/" + deviceID,
		Parsed:      true,
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   s.base.Add(time.Duration(s.n) * time.Second),
	}
	require.NoError(s.t, s.iot.Db.Conn.Create(&reading).Error)
}

func notificationsOf(t *testing.T, iotObj *iot.IOT, userID, category string) []models.Notification {
	list, err := iotObj.Notification.ListNotifications(userID, models.NotificationFilter{Category: category})
	require.NoError(t, err)
	return list
}

func TestSensorThreshold_Dedupe(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, mockDispatcher := newTestMonitor(t)
	defer ctrl.Finish()

	var dispatched []*models.NotificationRequest
	mockDispatcher.EXPECT().
		Dispatch(gomock.Any(), gomock.Eq("u1"), gomock.Any()).
		Do(func(_ context.Context, _ string, req *models.NotificationRequest) {
			dispatched = append(dispatched, req)
		}).
		Times(2)

	seq := &readingSeq{t: t, iot: iotObj, base: time.Now()}
	ctx := context.Background()

	for _, temp := range []float64{36, 36.5, 36.8} {
		seq.add("u1", "sensor-1", temp, 60)
		m.Tick(ctx)
	}
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryTemperature), 1)

	seq.add("u1", "sensor-1", 39, 60)
	m.Tick(ctx)

	saved := notificationsOf(t, iotObj, "u1", CategoryTemperature)
	require.Len(t, saved, 2)
	assert.Equal(t, models.SeverityCritical, saved[0].Severity)

	require.Len(t, dispatched, 2)
	assert.Equal(t, 36.0, *dispatched[0].TriggerValue)
	assert.Equal(t, 39.0, *dispatched[1].TriggerValue)
	assert.Equal(t, 35.0, *dispatched[1].ThresholdValue)
	assert.Equal(t, "sensor-1", dispatched[1].DeviceID)
}

func TestSensorThreshold_ClearingRenotifies(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, mockDispatcher := newTestMonitor(t)
	defer ctrl.Finish()

	mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Eq("u1"), gomock.Any()).Times(5)

	seq := &readingSeq{t: t, iot: iotObj, base: time.Now()}
	ctx := context.Background()

	// both metrics breach
	seq.add("u1", "sensor-1", 36, 30)
	m.Tick(ctx)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryTemperature), 1)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryHumidity), 1)

	// humidity recovers; the temperature key must survive
	seq.add("u1", "sensor-1", 36, 60)
	m.Tick(ctx)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryTemperature), 1)

	// humidity breaches again at the same value
	seq.add("u1", "sensor-1", 36, 30)
	m.Tick(ctx)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryHumidity), 2)

	// temperature recovers, then breaches at its old value
	seq.add("u1", "sensor-1", 30, 30)
	m.Tick(ctx)
	seq.add("u1", "sensor-1", 36, 30)
	m.Tick(ctx)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryTemperature), 2)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryHumidity), 2)

	// a second device of the same user is tracked on its own
	seq.add("u1", "sensor-2", 36, 60)
	m.Tick(ctx)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryTemperature), 3)
}

func TestSensorThreshold_OptOutAndStaleReadings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, _ := newTestMonitor(t)
	defer ctrl.Finish()

	settings := models.DefaultNotificationSettings("u1")
	settings.NotificationsEnabled = false
	_, err := iotObj.Settings.CreateOrUpdateSettings(&settings)
	require.NoError(t, err)

	seq := &readingSeq{t: t, iot: iotObj, base: time.Now()}
	seq.add("u1", "sensor-1", 45, 10)

	stale := &readingSeq{t: t, iot: iotObj, base: time.Now().Add(-time.Hour)}
	stale.add("u2", "sensor-1", 45, 10)

	unparsed := models.SensorReading{UserID: "u3", DeviceID: "sensor-1", Payload: "garbage", Timestamp: time.Now()}
	require.NoError(t, iotObj.Db.Conn.Create(&unparsed).Error)

	m.Tick(context.Background())

	for _, user := range []string{"u1", "u2", "u3"} {
		list, err := iotObj.Notification.ListNotifications(user, models.NotificationFilter{})
		require.NoError(t, err)
		assert.Empty(t, list, user)
	}
}

func TestDeviceTransitions(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, mockDispatcher := newTestMonitor(t)
	defer ctrl.Finish()

	mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Eq("u1"), gomock.Any()).Times(2)

	ctx := context.Background()
	_, err := iotObj.Device.RegisterDevice("u1", &models.Device{DeviceID: "fan-1", IsActive: true})
	require.NoError(t, err)
	_, err = iotObj.Device.RegisterDevice("u1", &models.Device{DeviceID: "feeder-1", IsActive: true})
	require.NoError(t, err)

	// first sighting only records
	m.Tick(ctx)

	_, err = iotObj.Device.ReconcileStatus(ctx, "u1", "fan-1", models.DeviceStatus{IsActive: false})
	require.NoError(t, err)
	m.Tick(ctx)

	_, err = iotObj.Device.ReconcileStatus(ctx, "u1", "fan-1", models.DeviceStatus{IsActive: true})
	require.NoError(t, err)
	m.Tick(ctx)

	fan := notificationsOf(t, iotObj, "u1", string(models.DeviceTypeFan))
	require.Len(t, fan, 2)
	severities := []models.Severity{fan[0].Severity, fan[1].Severity}
	assert.ElementsMatch(t, []models.Severity{models.SeverityWarning, models.SeveritySuccess}, severities)
	assert.Equal(t, "fan-1", fan[0].DeviceID)
	assert.Equal(t, "Ventilateur Principal", fan[0].DeviceName)

	assert.Empty(t, notificationsOf(t, iotObj, "u1", string(models.DeviceTypeFeeder)))
}

func TestSickChicks(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, mockDispatcher := newTestMonitor(t)
	defer ctrl.Finish()

	mockDispatcher.EXPECT().
		Dispatch(gomock.Any(), gomock.Eq("u1"), gomock.Any()).
		Do(func(_ context.Context, _ string, req *models.NotificationRequest) {
			assert.Equal(t, models.SeverityCritical, req.Severity)
			assert.Equal(t, CategoryFlock, req.Category)
		}).
		Times(2)

	ctx := context.Background()
	weigh := func(weight float64) {
		_, err := iotObj.Flock.ProcessDetections("u1", []models.Detection{{ChickID: "chick-1", Confidence: 0.9, Weight: &weight}})
		require.NoError(t, err)
	}

	weigh(20)
	m.Tick(ctx)
	m.Tick(ctx)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryFlock), 1)

	weigh(35)
	m.Tick(ctx)

	// relapse notifies again
	weigh(20)
	m.Tick(ctx)
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryFlock), 2)
}

func TestTick_ConcernsAreIsolated(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, mockDispatcher := newTestMonitor(t)
	defer ctrl.Finish()

	mockDevice := iotMocks.NewMockIDevice(ctrl)
	mockDevice.EXPECT().ListDevices().Return(nil, errors.New("db gone")).Times(1)
	iotObj.Device = mockDevice

	mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Eq("u1"), gomock.Any()).Times(1)

	seq := &readingSeq{t: t, iot: iotObj, base: time.Now()}
	seq.add("u1", "sensor-1", 40, 60)

	m.Tick(context.Background())
	assert.Len(t, notificationsOf(t, iotObj, "u1", CategoryTemperature), 1)
}

func TestTick_RecoversFromPanic(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, _ := newTestMonitor(t)
	defer ctrl.Finish()

	mockDevice := iotMocks.NewMockIDevice(ctrl)
	mockDevice.EXPECT().ListDevices().DoAndReturn(func() ([]models.Device, error) {
		panic("boom")
	}).Times(2)
	iotObj.Device = mockDevice

	assert.NotPanics(t, func() { m.Tick(context.Background()) })
	assert.NotPanics(t, func() { m.Tick(context.Background()) }, "the next tick runs normally")
}

func TestRaise_PersistFailureSkipsDispatch(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, iotObj, _ := newTestMonitor(t)
	defer ctrl.Finish()

	mockNotification := iotMocks.NewMockINotification(ctrl)
	mockNotification.EXPECT().
		CreateNotification(gomock.Any()).
		Return(nil, errors.New("disk full")).
		Times(2)
	iotObj.Notification = mockNotification

	seq := &readingSeq{t: t, iot: iotObj, base: time.Now()}
	seq.add("u1", "sensor-1", 40, 60)

	// not recorded as notified, so the next tick retries
	m.Tick(context.Background())
	m.Tick(context.Background())
}

func TestRun_StopsOnCancel(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, m, _, _ := newTestMonitor(t, WithInterval(10*time.Millisecond))
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestLatestPerDevice(t *testing.T) {
	now := time.Now()
	readings := []models.SensorReading{
		{ID: 3, UserID: "u1", DeviceID: "s1", Timestamp: now},
		{ID: 2, UserID: "u1", DeviceID: "s1", Timestamp: now.Add(-time.Second)},
		{ID: 1, UserID: "u2", DeviceID: "s1", Timestamp: now.Add(-2 * time.Second)},
	}
	latest := latestPerDevice(readings)
	require.Len(t, latest, 2)
	assert.Equal(t, uint(3), latest[0].ID)
	assert.Equal(t, uint(1), latest[1].ID)
}
