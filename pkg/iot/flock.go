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

const (
	defaultChickAge    = 1
	defaultChickWeight = 40.0
)

func DetermineHealthState(confidence, weight float64) models.HealthState {
	switch {
	case confidence < 0.5:
		return models.HealthStateWarning
	case weight < 30:
		return models.HealthStateSick
	default:
		return models.HealthStateHealthy
	}
}

func (i *IOT) processDetections(userID string, detections []models.Detection) (int, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTFlock),
	)

	now := time.Now()
	stored := 0

	err := i.Db.Conn.Transaction(func(tx *gorm.DB) error {
		for _, d := range detections {
			if d.ChickID == "" {
				continue
			}

			var chick models.Chick
			err := tx.First(&chick, "chick_id = ? AND user_id = ?", d.ChickID, userID).Error

			if errors.Is(err, gorm.ErrRecordNotFound) {
				chick = models.Chick{
					ChickID:     d.ChickID,
					UserID:      userID,
					Age:         defaultChickAge,
					Weight:      defaultChickWeight,
					LastUpdated: now,
				}
			} else if err != nil {
				return err
			}

			chick.Confidence = d.Confidence
			chick.X = d.X
			chick.Y = d.Y
			chick.LastUpdated = now
			if d.Age != nil {
				chick.Age = *d.Age
			}
			if d.Weight != nil {
				chick.Weight = *d.Weight
			}
			chick.HealthState = DetermineHealthState(chick.Confidence, chick.Weight)

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "chick_id"}},
				Where:     clause.Where{Exprs: []clause.Expression{clause.Eq{Column: clause.Column{Table: "chicks", Name: "user_id"}, Value: userID}}},
				UpdateAll: true,
			}).Create(&chick)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				logger.Warn("Chick id owned by another user, detection skipped", zap.String("chick_id", d.ChickID))
				continue
			}
			stored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Processed detections", zap.String("user_id", userID), zap.Int("received", len(detections)), zap.Int("stored", stored))
	return stored, nil
}

// listUnhealthy returns sick chicks of userID, or of every user when userID is empty.
func (i *IOT) listUnhealthy(userID string) ([]models.Chick, error) {
	query := i.Db.Conn.Where("health_state = ?", models.HealthStateSick)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	var chicks []models.Chick
	err := query.Order("chick_id").Find(&chicks).Error
	return chicks, err
}

type IFlockImpl struct {
	iot *IOT
}

func (f *IFlockImpl) ProcessDetections(userID string, detections []models.Detection) (int, error) {
	return f.iot.processDetections(userID, detections)
}

func (f *IFlockImpl) ListUnhealthy(userID string) ([]models.Chick, error) {
	return f.iot.listUnhealthy(userID)
}

func (i *IOT) GetIFlock() IFlock {
	return &IFlockImpl{iot: i}
}
