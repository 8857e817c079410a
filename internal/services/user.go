package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserInput struct {
	Username string          `json:"username" binding:"required"`
	Password string          `json:"password" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

// UserWithStats — пользователь вместе с итогами по его записям.
type UserWithStats struct {
	models.User
	TotalHours   float64 `json:"totalHours"`
	TotalEntries int64   `json:"totalEntries"`
}

func (s *UserService) List() ([]UserWithStats, error) {
	var users []models.User
	if err := s.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}

	result := make([]UserWithStats, 0, len(users))
	for _, u := range users {
		var totalScaled int64
		err := s.db.Model(&models.TimeEntry{}).
			Where("user_id = ?", u.ID).
			Select("COALESCE(SUM(duration_hours), 0)").
			Scan(&totalScaled).Error
		if err != nil {
			return nil, err
		}
		var count int64
		if err := s.db.Model(&models.TimeEntry{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, UserWithStats{
			User:         u,
			TotalHours:   float64(totalScaled) / 100,
			TotalEntries: count,
		})
	}
	return result, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %d", id)
		}
		return nil, err
	}
	return &user, nil
}

// CreateLocal создаёт локальную учётку с паролем (только админ).
func (s *UserService) CreateLocal(in CreateUserInput) (*models.User, error) {
	if len(in.Username) < 3 || len(in.Username) > 50 {
		return nil, apperr.Validationf("username must be 3-50 characters")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters")
	}
	if in.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperr.Validationf("role must be user or admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     &in.Username,
		PasswordHash: string(hash),
		Name:         in.Name,
		Email:        in.Email,
		LoginMethod:  models.LoginLocal,
		Role:         role,
		Status:       models.UserActive,
		LastSignedIn: time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("username %q already exists", in.Username)
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate проверяет логин/пароль локальной учётки.
// Деактивированные пользователи не входят.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Forbiddenf("invalid username or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Forbiddenf("invalid username or password")
	}
	if user.Status == models.UserDeactivated {
		return nil, apperr.Forbiddenf("this account has been deactivated")
	}

	s.db.Model(&user).Update("last_signed_in", time.Now())
	return &user, nil
}

// UpdateRole меняет роль. Админ не может разжаловать сам себя.
func (s *UserService) UpdateRole(actorID, id uint, role models.UserRole) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperr.Validationf("role must be user or admin")
	}
	if actorID == id && role == models.RoleUser {
		return nil, apperr.Validationf("you cannot remove your own admin privileges")
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// Deactivate помечает учётку выключенной, данные остаются.
func (s *UserService) Deactivate(actorID, id uint) (*models.User, error) {
	if actorID == id {
		return nil, apperr.Validationf("you cannot deactivate your own account")
	}
	return s.setStatus(id, models.UserDeactivated)
}

// Activate возвращает учётку в строй.
func (s *UserService) Activate(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserActive)
}

func (s *UserService) setStatus(id uint, status models.UserStatus) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(user).Update("status", status).Error; err != nil {
		return nil, err
	}
	user.Status = status
	return user, nil
}

// Delete удаляет учётку навсегда. Запрещено с записями времени
// и для самого себя.
func (s *UserService) Delete(actorID, id uint) error {
	if actorID == id {
		return apperr.Validationf("you cannot delete your own account")
	}

	user, err := s.Get(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.TimeEntry{}).Where("user_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflictf("user has %d time entries, reassign or delete them first", count)
	}

	// насовсем: мягкое удаление держало бы username в уникальном индексе
	// и мешало бы завести учётку с тем же логином
	return s.db.Unscoped().Delete(user).Error
}
