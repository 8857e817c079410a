package models

import "gorm.io/gorm"

type VATType string
type ProjectStatus string

const (
	VATInclusive VATType = "inclusive"
	VATExclusive VATType = "exclusive"

	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

type Project struct {
	gorm.Model
	Name             string        `gorm:"size:255;not null"`
	HourlyRate       int           `gorm:"not null"`            // ставка в минорных единицах (x100)
	VATType          VATType       `gorm:"type:varchar(20);not null"` // информативно, на сумму не влияет
	TotalQuotaHours  int           `gorm:"not null"`            // общий лимит часов по проекту
	WarningThreshold int           `gorm:"not null;default:80"` // процент, с которого показываем предупреждение
	Year             int           `gorm:"not null"`
	Status           ProjectStatus `gorm:"type:varchar(20);not null;default:active"`
}
