package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string
type UserStatus string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"

	UserActive      UserStatus = "active"
	UserDeactivated UserStatus = "deactivated"

	LoginLocal = "local"
	LoginOAuth = "oauth"
)

type User struct {
	gorm.Model
	OpenID       *string `gorm:"uniqueIndex;size:64"` // внешний OAuth-идентификатор, null для локальных учёток
	Username     *string `gorm:"uniqueIndex;size:50"` // логин локального входа, null для OAuth
	PasswordHash string `json:"-"`
	Name         string     `gorm:"size:255"`
	Email        string     `gorm:"size:320"`
	LoginMethod  string     `gorm:"size:20;not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:user"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:active"` // явный статус вместо пометки в имени
	LastSignedIn time.Time
}
