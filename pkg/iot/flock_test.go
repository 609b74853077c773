package iot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/poultry-house-service/pkg/common"
	"liyu1981.xyz/poultry-house-service/pkg/models"
	_ "liyu1981.xyz/poultry-house-service/pkg/testing"
)

func TestDetermineHealthState(t *testing.T) {
	assert.Equal(t, models.HealthStateWarning, DetermineHealthState(0.3, 45))
	assert.Equal(t, models.HealthStateSick, DetermineHealthState(0.9, 25))
	assert.Equal(t, models.HealthStateHealthy, DetermineHealthState(0.9, 40))
}

func TestProcessDetections(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	stored, err := iotObj.Flock.ProcessDetections("u1", []models.Detection{
		{ChickID: "chick-1", Confidence: 0.9, X: 10, Y: 20},
		{ChickID: "chick-2", Confidence: 0.95, Weight: ptr(22.0)},
		{ChickID: "chick-3", Confidence: 0.2},
		{ChickID: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stored)

	var first models.Chick
	require.NoError(t, iotObj.Db.Conn.First(&first, "chick_id = ?", "chick-1").Error)
	assert.Equal(t, 1, first.Age)
	assert.Equal(t, 40.0, first.Weight)
	assert.Equal(t, models.HealthStateHealthy, first.HealthState)

	sick, err := iotObj.Flock.ListUnhealthy("u1")
	require.NoError(t, err)
	require.Len(t, sick, 1)
	assert.Equal(t, "chick-2", sick[0].ChickID)

	// recovery: a heavier weight clears the sick flag, position updates keep the weight
	_, err = iotObj.Flock.ProcessDetections("u1", []models.Detection{{ChickID: "chick-2", Confidence: 0.95, Weight: ptr(35.0)}})
	require.NoError(t, err)
	_, err = iotObj.Flock.ProcessDetections("u1", []models.Detection{{ChickID: "chick-2", Confidence: 0.95, X: 3}})
	require.NoError(t, err)

	sick, err = iotObj.Flock.ListUnhealthy("")
	require.NoError(t, err)
	assert.Empty(t, sick)
}

func TestProcessDetections_ForeignChickSkipped(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	_, err := iotObj.Flock.ProcessDetections("u1", []models.Detection{{ChickID: "chick-9", Confidence: 0.9, Weight: ptr(20.0)}})
	require.NoError(t, err)

	stored, err := iotObj.Flock.ProcessDetections("u2", []models.Detection{{ChickID: "chick-9", Confidence: 0.9, Weight: ptr(50.0)}})
	require.NoError(t, err)
	assert.Zero(t, stored)

	var chick models.Chick
	require.NoError(t, iotObj.Db.Conn.First(&chick, "chick_id = ?", "chick-9").Error)
	assert.Equal(t, "u1", chick.UserID)
	assert.Equal(t, 20.0, chick.Weight)

	all, err := iotObj.Flock.ListUnhealthy("")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	none, err := iotObj.Flock.ListUnhealthy("u2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContacts(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _ := GetMockIOTWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	_, err := iotObj.Contacts.GetContact("u1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, iotObj.Contacts.UpsertContact(&models.UserContact{UserID: "u1", Email: "farm@example.com"}))
	require.NoError(t, iotObj.Contacts.UpsertContact(&models.UserContact{UserID: "u1", Email: "farm@example.com", PhoneNumber: "+33600000000"}))

	contact, err := iotObj.Contacts.GetContact("u1")
	require.NoError(t, err)
	assert.Equal(t, "+33600000000", contact.PhoneNumber)
}
