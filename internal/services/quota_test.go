package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/internal/apperr"
	"timetracker/internal/models"
)

func TestQuotaUpsert_SingleRowPerUserAndProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)

	quota, updated, err := svc.Upsert(anna.ID, project.ID, 40)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, 40, quota.QuotaHours)

	// повторный вызов меняет ту же строку, а не создаёт вторую
	quota, updated, err = svc.Upsert(anna.ID, project.ID, 60)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 60, quota.QuotaHours)

	var count int64
	require.NoError(t, db.Model(&models.UserProjectQuota{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestQuotaUpsert_ChecksReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)

	_, _, err := svc.Upsert(999, project.ID, 40)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, _, err = svc.Upsert(anna.ID, 999, 40)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, _, err = svc.Upsert(anna.ID, project.ID, -1)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestQuotaGetAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)

	// отсутствие индивидуальной квоты — не ошибка
	quota, err := svc.Get(anna.ID, project.ID)
	require.NoError(t, err)
	assert.Nil(t, quota)

	err = svc.Delete(anna.ID, project.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, _, err = svc.Upsert(anna.ID, project.ID, 40)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(anna.ID, project.ID))

	quota, err = svc.Get(anna.ID, project.ID)
	require.NoError(t, err)
	assert.Nil(t, quota)
}

func TestQuotaUpsert_AfterDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)

	_, _, err := svc.Upsert(anna.ID, project.ID, 40)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(anna.ID, project.ID))

	// удалённая квота не должна держать пару (user, project) занятой
	quota, updated, err := svc.Upsert(anna.ID, project.ID, 25)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, 25, quota.QuotaHours)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.UserProjectQuota{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
