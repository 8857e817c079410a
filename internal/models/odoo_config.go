package models

import (
	"time"

	"gorm.io/gorm"
)

// Настройки подключения к Odoo, свои у каждого пользователя.
type OdooConfig struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`

	URL      string `gorm:"size:255;not null"`
	Database string `gorm:"size:100;not null"`
	Username string `gorm:"size:100;not null"`
	APIKey   string `gorm:"size:255;not null" json:"-"`

	IsActive     bool `gorm:"not null;default:true"`
	LastTestedAt *time.Time
}
