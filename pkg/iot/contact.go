package iot

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/poultry-house-service/pkg/models"
)

func (i *IOT) getContact(userID string) (*models.UserContact, error) {
	var contact models.UserContact
	err := i.Db.Conn.First(&contact, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &contact, err
}

func (i *IOT) upsertContact(input *models.UserContact) error {
	return i.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(input).Error
}

type IContactsImpl struct {
	iot *IOT
}

func (ic *IContactsImpl) GetContact(userID string) (*models.UserContact, error) {
	return ic.iot.getContact(userID)
}

func (ic *IContactsImpl) UpsertContact(input *models.UserContact) error {
	return ic.iot.upsertContact(input)
}

func (i *IOT) GetIContacts() IContacts {
	return &IContactsImpl{iot: i}
}
