package iot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
	_ "liyu1981.xyz/poultry-house-service/pkg/testing"
)

func seedNotifications(t *testing.T, iotObj *IOT, userID string) []*models.Notification {
	requests := []models.NotificationRequest{
		{UserID: userID, Title: "Temperature high", Message: "37.0 > 35.0", Category: "Temperature", Severity: models.SeverityCritical, TriggerValue: ptr(37.0), ThresholdValue: ptr(35.0)},
		{UserID: userID, Title: "Humidity low", Message: "30 < 40", Category: "Humidity", Severity: models.SeverityWarning},
		{UserID: userID, Title: "Fan on", Message: "activated", Category: "Fan", Severity: models.SeveritySuccess, DeviceID: "fan-1", DeviceName: "Ventilateur Principal"},
	}
	var created []*models.Notification
	for i := range requests {
		n, err := iotObj.Notification.CreateNotification(&requests[i])
		require.NoError(t, err)
		created = append(created, n)
	}
	return created
}

func TestCreateNotification(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockLive, _ := GetMockIOTWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	mockLive.EXPECT().
		Broadcast(gomock.Any(), gomock.Eq("u1"), gomock.Eq(EventNotificationCreated), gomock.Any()).
		Return(nil).
		Times(1)

	n, err := iotObj.Notification.CreateNotification(&models.NotificationRequest{
		UserID:  "u1",
		Title:   "Manual",
		Message: "created from the API",
	})
	require.NoError(t, err)
	assert.Len(t, n.ID, 36)
	assert.Equal(t, models.SeverityInfo, n.Severity)
	assert.False(t, n.IsRead)

	saved, err := iotObj.Notification.GetNotification("u1", n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manual", saved.Title)

	_, err = iotObj.Notification.GetNotification("u2", n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndReadNotifications(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	created := seedNotifications(t, iotObj, "u1")
	seedNotifications(t, iotObj, "u2")

	all, err := iotObj.Notification.ListNotifications("u1", models.NotificationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	critical, err := iotObj.Notification.ListNotifications("u1", models.NotificationFilter{Severity: models.SeverityCritical})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, 37.0, *critical[0].TriggerValue)

	humidity, err := iotObj.Notification.ListNotifications("u1", models.NotificationFilter{Category: "Humidity"})
	require.NoError(t, err)
	assert.Len(t, humidity, 1)

	limited, err := iotObj.Notification.ListNotifications("u1", models.NotificationFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	ok, err := iotObj.Notification.MarkRead("u1", created[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = iotObj.Notification.MarkRead("u2", created[1].ID)
	require.NoError(t, err)
	assert.False(t, ok, "another user cannot mark it read")

	unread, err := iotObj.Notification.GetUnread("u1")
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	count, err := iotObj.Notification.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	marked, err := iotObj.Notification.MarkAllRead("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	count, err = iotObj.Notification.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = iotObj.Notification.GetUnreadCount("u2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestDeleteNotifications(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	created := seedNotifications(t, iotObj, "u1")

	ok, err := iotObj.Notification.DeleteNotification("u2", created[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = iotObj.Notification.DeleteNotification("u1", created[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, iotObj.Db.Conn.Model(&models.Notification{}).
		Where("id = ?", created[1].ID).
		Update("timestamp", time.Now().Add(-40*24*time.Hour)).Error)

	purged, err := iotObj.Notification.DeleteOlderThan("u1", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	left, err := iotObj.Notification.ListNotifications("u1", models.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, created[2].ID, left[0].ID)
}

func TestNotificationStats(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	created := seedNotifications(t, iotObj, "u1")
	_, err := iotObj.Notification.MarkRead("u1", created[2].ID)
	require.NoError(t, err)

	stats, err := iotObj.Notification.GetStats("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Unread)
	assert.Equal(t, int64(1), stats.Critical)
	assert.Equal(t, int64(3), stats.Today)
	assert.Equal(t, int64(1), stats.ByCategory["Temperature"])
	assert.Equal(t, int64(1), stats.BySeverity[models.SeverityWarning])
	assert.Len(t, stats.ByCategory, 3)
}
