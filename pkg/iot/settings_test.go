package iot

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
	_ "liyu1981.xyz/poultry-house-service/pkg/testing"
)

func TestGetSettings_CreatesDefaults(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	settings, err := iotObj.Settings.GetSettings("u1")
	require.NoError(t, err)
	assert.True(t, settings.NotificationsEnabled)
	assert.True(t, settings.EmailNotifications)
	assert.True(t, settings.PushNotifications)
	assert.False(t, settings.SmsNotifications)
	assert.Equal(t, 35.0, settings.TemperatureThreshold)
	assert.Equal(t, 40.0, settings.HumidityThreshold)
	assert.Equal(t, 100.0, settings.DustThreshold)
	assert.Equal(t, 30.0, settings.WaterLevelThreshold)
	assert.Equal(t, 25.0, settings.FoodLevelThreshold)
	assert.Equal(t, 5, settings.CheckInterval)

	var count int64
	require.NoError(t, iotObj.Db.Conn.Model(&models.NotificationSettings{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = iotObj.Settings.GetSettings("u1")
	require.NoError(t, err)
	require.NoError(t, iotObj.Db.Conn.Model(&models.NotificationSettings{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrUpdateSettings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	input := models.DefaultNotificationSettings("u1")
	input.SmsNotifications = true
	input.EmailNotifications = false
	input.TemperatureThreshold = 33

	_, err := iotObj.Settings.CreateOrUpdateSettings(&input)
	require.NoError(t, err)

	input.NotificationsEnabled = false
	_, err = iotObj.Settings.CreateOrUpdateSettings(&input)
	require.NoError(t, err)

	saved, err := iotObj.Settings.GetSettings("u1")
	require.NoError(t, err)
	assert.False(t, saved.NotificationsEnabled)
	assert.False(t, saved.EmailNotifications)
	assert.True(t, saved.SmsNotifications)
	assert.Equal(t, 33.0, saved.TemperatureThreshold)
}

func TestToggleAndThresholds(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	ok, err := iotObj.Settings.ToggleNotifications("nobody", false)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = iotObj.Settings.UpdateThresholds("nobody", &models.NotificationSettings{TemperatureThreshold: 30})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = iotObj.Settings.GetSettings("u1")
	require.NoError(t, err)

	ok, err = iotObj.Settings.ToggleNotifications("u1", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = iotObj.Settings.UpdateThresholds("u1", &models.NotificationSettings{
		TemperatureThreshold: 30,
		HumidityThreshold:    45,
		DustThreshold:        80,
		WaterLevelThreshold:  20,
		FoodLevelThreshold:   0,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	saved, err := iotObj.Settings.GetSettings("u1")
	require.NoError(t, err)
	assert.False(t, saved.NotificationsEnabled)
	assert.Equal(t, 30.0, saved.TemperatureThreshold)
	assert.Equal(t, 45.0, saved.HumidityThreshold)
	assert.Equal(t, 80.0, saved.DustThreshold)
	assert.Equal(t, 20.0, saved.WaterLevelThreshold)
	assert.Equal(t, 0.0, saved.FoodLevelThreshold)
}

func TestDeleteSettings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	deleted, err := iotObj.Settings.DeleteSettings("u1")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = iotObj.Settings.GetSettings("u1")
	require.NoError(t, err)

	deleted, err = iotObj.Settings.DeleteSettings("u1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGetSettings_ConcurrentFirstReadsLogOneCreation(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	const readers = 8
	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			settings, err := iotObj.Settings.GetSettings("u1")
			assert.NoError(t, err)
			assert.Equal(t, "u1", settings.UserID)
		}()
	}
	wg.Wait()

	created := 0
	for _, l := range ParseLogs(buf) {
		entry := l.(map[string]any)
		if entry["msg"] == "Created default notification settings" {
			created++
		}
	}
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, iotObj.Db.Conn.Model(&models.NotificationSettings{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
