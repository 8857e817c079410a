package models

import "time"

// Журнал аудита: только добавление, записи никогда не изменяются.
type AuditLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID *uint // null для системных действий
	User   User

	Action     string `gorm:"size:100;not null"` // "project.created", "invoice.status_changed" и т.п.
	EntityType string `gorm:"size:50"`
	EntityID   uint
	OldValue   string `gorm:"type:text"` // JSON-снимок до изменения
	NewValue   string `gorm:"type:text"`
	IPAddress  string `gorm:"size:45"`
	UserAgent  string `gorm:"type:text"`
	RequestID  string `gorm:"size:36"`
}
