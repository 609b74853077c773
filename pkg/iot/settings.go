package iot

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

func settingsLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTSettings),
	)
}

// getSettings creates the default row on first read.
func (i *IOT) getSettings(userID string) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := i.Db.Conn.First(&settings, "user_id = ?", userID).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.DefaultNotificationSettings(userID)
	result := i.Db.Conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		settingsLogger().Info("Created default notification settings", zap.Reflect("settings", settings))
	}

	// another caller may have won the insert
	if err := i.Db.Conn.First(&settings, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (i *IOT) createOrUpdateSettings(input *models.NotificationSettings) (*models.NotificationSettings, error) {
	settings := *input
	settings.LastUpdated = time.Now()

	settingsLogger().Info("Received notification settings", zap.Reflect("settings", settings))

	err := i.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&settings).Error
	if err != nil {
		return nil, err
	}

	settingsLogger().Info("Upserted notification settings", zap.Reflect("settings", settings))
	return &settings, nil
}

func (i *IOT) toggleNotifications(userID string, enabled bool) (bool, error) {
	res := i.Db.Conn.Model(&models.NotificationSettings{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"notifications_enabled": enabled, "last_updated": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	settingsLogger().Info("Toggled notifications", zap.String("user_id", userID), zap.Bool("enabled", enabled))
	return true, nil
}

func (i *IOT) updateThresholds(userID string, input *models.NotificationSettings) (bool, error) {
	res := i.Db.Conn.Model(&models.NotificationSettings{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"temperature_threshold": input.TemperatureThreshold,
			"humidity_threshold":    input.HumidityThreshold,
			"dust_threshold":        input.DustThreshold,
			"water_level_threshold": input.WaterLevelThreshold,
			"food_level_threshold":  input.FoodLevelThreshold,
			"last_updated":          time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	settingsLogger().Info("Updated thresholds", zap.String("user_id", userID), zap.Reflect("settings", input))
	return true, nil
}

func (i *IOT) deleteSettings(userID string) (bool, error) {
	res := i.Db.Conn.Where("user_id = ?", userID).Delete(&models.NotificationSettings{})
	return res.RowsAffected > 0, res.Error
}

type ISettingsImpl struct {
	iot *IOT
}

func (is *ISettingsImpl) GetSettings(userID string) (*models.NotificationSettings, error) {
	return is.iot.getSettings(userID)
}

func (is *ISettingsImpl) CreateOrUpdateSettings(input *models.NotificationSettings) (*models.NotificationSettings, error) {
	return is.iot.createOrUpdateSettings(input)
}

func (is *ISettingsImpl) ToggleNotifications(userID string, enabled bool) (bool, error) {
	return is.iot.toggleNotifications(userID, enabled)
}

func (is *ISettingsImpl) UpdateThresholds(userID string, input *models.NotificationSettings) (bool, error) {
	return is.iot.updateThresholds(userID, input)
}

func (is *ISettingsImpl) DeleteSettings(userID string) (bool, error) {
	return is.iot.deleteSettings(userID)
}

func (i *IOT) GetISettings() ISettings {
	return &ISettingsImpl{iot: i}
}
