package models

import (
	"time"

	"gorm.io/gorm"
)

type TimeEntry struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`
	User   User

	ProjectID uint `gorm:"index;not null"`
	Project   Project

	CategoryID uint `gorm:"index;not null"`
	Category   Category

	Date          time.Time `gorm:"not null"`
	StartTime     string    `gorm:"size:5"` // "HH:MM", хранится только для отображения
	EndTime       string    `gorm:"size:5"`
	DurationHours int       `gorm:"not null"` // часы x100; единственный источник истины для биллинга
	Description   string    `gorm:"type:text"`
	Kilometers    int
}
