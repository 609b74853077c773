package iot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

const defaultNotificationLimit = 100

func (i *IOT) createNotification(req *models.NotificationRequest) (*models.Notification, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTNotification),
	)

	now := time.Now()
	notification := models.Notification{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Title:          req.Title,
		Message:        req.Message,
		Category:       req.Category,
		Severity:       req.Severity,
		Timestamp:      now,
		UpdatedAt:      now,
		TriggerValue:   req.TriggerValue,
		ThresholdValue: req.ThresholdValue,
		ActionTaken:    req.ActionTaken,
		DeviceID:       req.DeviceID,
		DeviceName:     req.DeviceName,
	}
	if notification.Severity == "" {
		notification.Severity = models.SeverityInfo
	}

	if err := i.Db.Conn.Create(&notification).Error; err != nil {
		return nil, err
	}

	logger.Info("Notification saved", zap.Reflect("notification", notification))

	i.broadcast(context.Background(), notification.UserID, EventNotificationCreated, notification)

	return &notification, nil
}

func (i *IOT) getNotification(userID, id string) (*models.Notification, error) {
	var notification models.Notification
	err := i.Db.Conn.First(&notification, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &notification, err
}

func (i *IOT) listNotifications(userID string, filter models.NotificationFilter) ([]models.Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	query := i.Db.Conn.Where("user_id = ?", userID)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	err := query.Order("timestamp desc").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (i *IOT) getUnreadCount(userID string) (int64, error) {
	var count int64
	err := i.Db.Conn.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (i *IOT) markRead(userID, id string) (bool, error) {
	res := i.Db.Conn.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"is_read": true, "updated_at": time.Now()})
	return res.RowsAffected > 0, res.Error
}

func (i *IOT) markAllRead(userID string) (int64, error) {
	res := i.Db.Conn.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (i *IOT) deleteNotification(userID, id string) (bool, error) {
	res := i.Db.Conn.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	return res.RowsAffected > 0, res.Error
}

func (i *IOT) deleteOlderThan(userID string, age time.Duration) (int64, error) {
	res := i.Db.Conn.
		Where("user_id = ? AND timestamp < ?", userID, time.Now().Add(-age)).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

type groupCount struct {
	GroupKey string
	Count    int64
}

func (i *IOT) getStats(userID string) (*models.NotificationStats, error) {
	stats := models.NotificationStats{
		ByCategory: map[string]int64{},
		BySeverity: map[models.Severity]int64{},
	}

	base := func() *gorm.DB {
		return i.Db.Conn.Model(&models.Notification{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_read = ?", false).Count(&stats.Unread).Error; err != nil {
		return nil, err
	}
	if err := base().Where("severity = ?", models.SeverityCritical).Count(&stats.Critical).Error; err != nil {
		return nil, err
	}

	year, month, day := time.Now().Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	if err := base().Where("timestamp >= ?", startOfDay).Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	var byCategory []groupCount
	if err := base().Select("category AS group_key, count(*) AS count").Group("category").Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, g := range byCategory {
		stats.ByCategory[g.GroupKey] = g.Count
	}

	var bySeverity []groupCount
	if err := base().Select("severity AS group_key, count(*) AS count").Group("severity").Scan(&bySeverity).Error; err != nil {
		return nil, err
	}
	for _, g := range bySeverity {
		stats.BySeverity[models.Severity(g.GroupKey)] = g.Count
	}

	return &stats, nil
}

type INotificationImpl struct {
	iot *IOT
}

func (in *INotificationImpl) CreateNotification(req *models.NotificationRequest) (*models.Notification, error) {
	return in.iot.createNotification(req)
}

func (in *INotificationImpl) GetNotification(userID, id string) (*models.Notification, error) {
	return in.iot.getNotification(userID, id)
}

func (in *INotificationImpl) ListNotifications(userID string, filter models.NotificationFilter) ([]models.Notification, error) {
	return in.iot.listNotifications(userID, filter)
}

func (in *INotificationImpl) GetUnread(userID string) ([]models.Notification, error) {
	return in.iot.listNotifications(userID, models.NotificationFilter{UnreadOnly: true})
}

func (in *INotificationImpl) GetUnreadCount(userID string) (int64, error) {
	return in.iot.getUnreadCount(userID)
}

func (in *INotificationImpl) MarkRead(userID, id string) (bool, error) {
	return in.iot.markRead(userID, id)
}

func (in *INotificationImpl) MarkAllRead(userID string) (int64, error) {
	return in.iot.markAllRead(userID)
}

func (in *INotificationImpl) DeleteNotification(userID, id string) (bool, error) {
	return in.iot.deleteNotification(userID, id)
}

func (in *INotificationImpl) DeleteOlderThan(userID string, age time.Duration) (int64, error) {
	return in.iot.deleteOlderThan(userID, age)
}

func (in *INotificationImpl) GetStats(userID string) (*models.NotificationStats, error) {
	return in.iot.getStats(userID)
}

func (i *IOT) GetINotification() INotification {
	return &INotificationImpl{iot: i}
}
