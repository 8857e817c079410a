package services

import (
	"errors"

	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/models"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type CategoryInput struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *CategoryService) List() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("code asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) Get(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("category %d", id)
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Create(in CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(in); err != nil {
		return nil, err
	}

	category := models.Category{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("category code %q already exists", in.Code)
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(id uint, in CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(in); err != nil {
		return nil, err
	}

	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	category.Code = in.Code
	category.Name = in.Name
	category.Description = in.Description

	if err := s.db.Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("category code %q already exists", in.Code)
		}
		return nil, err
	}
	return category, nil
}

// Delete запрещено, пока на категорию ссылаются записи времени.
func (s *CategoryService) Delete(id uint) error {
	category, err := s.Get(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.TimeEntry{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflictf("category %q is referenced by %d time entries", category.Code, count)
	}

	// насовсем: мягкое удаление оставило бы код занятым в уникальном
	// индексе, и категорию с тем же кодом нельзя было бы создать заново
	return s.db.Unscoped().Delete(category).Error
}

// SeedDefaults создаёт стандартный набор категорий; существующие коды
// пропускаются.
func (s *CategoryService) SeedDefaults() (int, error) {
	defaults := []models.Category{
		{Code: "GF", Name: "Geschäftsführung (Management)", Description: "General management and leadership activities"},
		{Code: "NRP", Name: "NRP Projects", Description: "New Regional Policy projects"},
		{Code: "IC", Name: "Innovationscoaching", Description: "Innovation coaching activities"},
		{Code: "IS", Name: "Innoscouting", Description: "Innovation scouting activities"},
		{Code: "TP", Name: "Tüftel Park", Description: "Tüftel Park project activities"},
		{Code: "SE", Name: "Swiss Edition", Description: "Swiss Edition project activities"},
		{Code: "KI", Name: "KI Projects", Description: "Artificial Intelligence project activities"},
		{Code: "SU", Name: "Start-up Ökosystem", Description: "Start-up ecosystem activities"},
	}

	created := 0
	for _, c := range defaults {
		err := s.db.Create(&c).Error
		switch {
		case err == nil:
			created++
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// уже есть — пропускаем
		default:
			return created, err
		}
	}
	return created, nil
}

func validateCategoryInput(in CategoryInput) error {
	if in.Code == "" || len(in.Code) > 10 {
		return apperr.Validationf("category code must be 1-10 characters")
	}
	if in.Name == "" {
		return apperr.Validationf("category name is required")
	}
	return nil
}
