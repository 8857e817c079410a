package services

import (
	"gorm.io/gorm"

	"timetracker/internal/models"
)

type AuditLogService struct {
	db *gorm.DB
}

func NewAuditLogService(db *gorm.DB) *AuditLogService {
	return &AuditLogService{db: db}
}

// AuditLogFilter — фильтры журнала аудита.
type AuditLogFilter struct {
	UserID     uint
	Action     string
	EntityType string
	Limit      int
	Offset     int
}

func (s *AuditLogService) List(f AuditLogFilter) ([]models.AuditLog, error) {
	q := s.db.Preload("User").Order("created_at desc, id desc")

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	q = q.Limit(limit).Offset(f.Offset)

	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
