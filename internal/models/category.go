package models

import "gorm.io/gorm"

// Категории учёта времени (GF, NRP, IC и т.п.)
type Category struct {
	gorm.Model
	Code        string `gorm:"size:10;uniqueIndex;not null"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
}
