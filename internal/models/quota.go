package models

import "gorm.io/gorm"

// Индивидуальный лимит часов пользователя на проекте.
// Не больше одной записи на пару (user, project); отсутствие записи
// означает общий лимит проекта.
type UserProjectQuota struct {
	gorm.Model
	UserID     uint `gorm:"not null;uniqueIndex:idx_user_project"`
	ProjectID  uint `gorm:"not null;uniqueIndex:idx_user_project"`
	QuotaHours int  `gorm:"not null"` // целые часы
}
