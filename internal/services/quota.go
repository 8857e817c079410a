package services

import (
	"errors"

	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/models"
)

type QuotaService struct {
	db *gorm.DB
}

func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{db: db}
}

func (s *QuotaService) ListByProject(projectID uint) ([]models.UserProjectQuota, error) {
	var quotas []models.UserProjectQuota
	if err := s.db.Where("project_id = ?", projectID).Find(&quotas).Error; err != nil {
		return nil, err
	}
	return quotas, nil
}

// Get возвращает индивидуальную квоту или nil, если её нет
// (значит действует общая квота проекта).
func (s *QuotaService) Get(userID, projectID uint) (*models.UserProjectQuota, error) {
	var quota models.UserProjectQuota
	err := s.db.Where("user_id = ? AND project_id = ?", userID, projectID).First(&quota).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quota, nil
}

// Upsert создаёт или обновляет квоту; на пару (user, project)
// не больше одной записи.
func (s *QuotaService) Upsert(userID, projectID uint, quotaHours int) (*models.UserProjectQuota, bool, error) {
	if quotaHours < 0 {
		return nil, false, apperr.Validationf("quota hours must not be negative")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, false, apperr.NotFoundf("user %d", userID)
	}
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, false, apperr.NotFoundf("project %d", projectID)
	}

	existing, err := s.Get(userID, projectID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.QuotaHours = quotaHours
		if err := s.db.Save(existing).Error; err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}

	quota := models.UserProjectQuota{UserID: userID, ProjectID: projectID, QuotaHours: quotaHours}
	if err := s.db.Create(&quota).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, apperr.Conflictf("quota for user %d on project %d already exists", userID, projectID)
		}
		return nil, false, err
	}
	return &quota, false, nil
}

func (s *QuotaService) Delete(userID, projectID uint) error {
	existing, err := s.Get(userID, projectID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFoundf("quota for user %d on project %d", userID, projectID)
	}
	// удаляем насовсем: мягко удалённая строка продолжала бы держать
	// уникальный индекс (user, project) и блокировать новый upsert
	return s.db.Unscoped().Delete(existing).Error
}
