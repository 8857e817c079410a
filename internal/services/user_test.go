package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/internal/apperr"
	"timetracker/internal/models"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateLocal(CreateUserInput{
		Username: "anna", Password: "correcthorse", Name: "Anna Muster",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correcthorse", user.PasswordHash)

	got, err := svc.Authenticate("anna", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("anna", "wrongpassword")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.Authenticate("nobody", "correcthorse")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestUserCreate_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateLocal(CreateUserInput{Username: "ab", Password: "correcthorse", Name: "x"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.CreateLocal(CreateUserInput{Username: "anna", Password: "short", Name: "x"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.CreateLocal(CreateUserInput{Username: "anna", Password: "correcthorse", Name: "x", Role: "owner"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.CreateLocal(CreateUserInput{Username: "anna", Password: "correcthorse", Name: "Anna"})
	require.NoError(t, err)
	_, err = svc.CreateLocal(CreateUserInput{Username: "anna", Password: "correcthorse", Name: "Other"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestUserDeactivate_BlocksLoginAndKeepsData(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	admin := seedUser(t, db, "root", models.RoleAdmin)
	user, err := svc.CreateLocal(CreateUserInput{Username: "anna", Password: "correcthorse", Name: "Anna"})
	require.NoError(t, err)

	project := seedProject(t, db, "Coaching", 15000, 100)
	category := seedCategory(t, db, "GF")
	seedEntry(t, db, *user, project, category, day(2025, time.May, 1), 150)

	_, err = svc.Deactivate(admin.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate("anna", "correcthorse")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	// записи времени остаются на месте
	var entries int64
	require.NoError(t, db.Model(&models.TimeEntry{}).Where("user_id = ?", user.ID).Count(&entries).Error)
	assert.EqualValues(t, 1, entries)

	// повторная активация возвращает вход
	_, err = svc.Activate(user.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate("anna", "correcthorse")
	assert.NoError(t, err)
}

func TestUserSelfGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	admin := seedUser(t, db, "root", models.RoleAdmin)

	_, err := svc.Deactivate(admin.ID, admin.ID)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.UpdateRole(admin.ID, admin.ID, models.RoleUser)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	err = svc.Delete(admin.ID, admin.ID)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	// повышение чужой роли проходит
	anna := seedUser(t, db, "anna", models.RoleUser)
	got, err := svc.UpdateRole(admin.ID, anna.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestUserDelete_BlockedWhileEntriesExist(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	admin := seedUser(t, db, "root", models.RoleAdmin)
	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)
	category := seedCategory(t, db, "GF")
	entry := seedEntry(t, db, anna, project, category, day(2025, time.May, 1), 100)

	err := svc.Delete(admin.ID, anna.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	require.NoError(t, db.Unscoped().Delete(&entry).Error)
	require.NoError(t, svc.Delete(admin.ID, anna.ID))

	// логин удалённой учётки снова свободен
	recreated, err := svc.CreateLocal(CreateUserInput{Username: "anna", Password: "correcthorse", Name: "Anna"})
	require.NoError(t, err)
	assert.NotEqual(t, anna.ID, recreated.ID)
}

func TestUserList_IncludesStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	seedUser(t, db, "bruno", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)
	category := seedCategory(t, db, "GF")
	seedEntry(t, db, anna, project, category, day(2025, time.May, 1), 150)
	seedEntry(t, db, anna, project, category, day(2025, time.May, 2), 250)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.InDelta(t, 4.0, list[0].TotalHours, 0.001)
	assert.EqualValues(t, 2, list[0].TotalEntries)
	assert.Zero(t, list[1].TotalHours)
}
