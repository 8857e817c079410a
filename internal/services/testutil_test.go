package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timetracker/internal/models"
)

// newTestDB поднимает чистую in-memory базу с полной схемой.
// Уникальное имя нужно, чтобы тесты не делили одну shared-память.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Category{},
		&models.TimeEntry{},
		&models.UserProjectQuota{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.AuditLog{},
		&models.OdooConfig{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) models.User {
	t.Helper()
	username := name
	user := models.User{
		Username:    &username,
		Name:        name,
		LoginMethod: models.LoginLocal,
		Role:        role,
		Status:      models.UserActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, name string, rateScaled, quotaHours int) models.Project {
	t.Helper()
	project := models.Project{
		Name:             name,
		HourlyRate:       rateScaled,
		VATType:          models.VATExclusive,
		TotalQuotaHours:  quotaHours,
		WarningThreshold: 80,
		Year:             2025,
		Status:           models.ProjectActive,
	}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func seedCategory(t *testing.T, db *gorm.DB, code string) models.Category {
	t.Helper()
	category := models.Category{Code: code, Name: code + " category"}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedEntry(t *testing.T, db *gorm.DB, user models.User, project models.Project, category models.Category,
	date time.Time, durationScaled int) models.TimeEntry {
	t.Helper()
	entry := models.TimeEntry{
		UserID:        user.ID,
		ProjectID:     project.ID,
		CategoryID:    category.ID,
		Date:          date,
		DurationHours: durationScaled,
	}
	require.NoError(t, db.Create(&entry).Error)
	return entry
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
