package services

import (
	"errors"

	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/billing"
	"timetracker/internal/models"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectInput struct {
	Name             string               `json:"name" binding:"required"`
	HourlyRate       int                  `json:"hourlyRate"` // x100
	VATType          models.VATType       `json:"vatType"`
	TotalQuotaHours  int                  `json:"totalQuotaHours"`
	WarningThreshold *int                 `json:"warningThreshold"`
	Year             int                  `json:"year"`
	Status           models.ProjectStatus `json:"status"`
}

// ProjectFilter — фильтры списка проектов.
type ProjectFilter struct {
	Year   int
	Status models.ProjectStatus
}

// ProjectWithUsage — проект вместе с производными показателями
// потребления квоты для запрашивающего пользователя.
type ProjectWithUsage struct {
	models.Project
	billing.Usage
}

// List возвращает проекты с показателями потребления: личные часы
// пользователя против его эффективной квоты и общие часы против общей.
func (s *ProjectService) List(viewerID uint, f ProjectFilter) ([]ProjectWithUsage, error) {
	q := s.db.Order("year desc, name asc")
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}

	result := make([]ProjectWithUsage, 0, len(projects))
	for _, p := range projects {
		usage, err := s.usageFor(viewerID, p)
		if err != nil {
			return nil, err
		}
		result = append(result, ProjectWithUsage{Project: p, Usage: usage})
	}
	return result, nil
}

func (s *ProjectService) usageFor(userID uint, p models.Project) (billing.Usage, error) {
	var userHours, totalHours int64

	err := s.db.Model(&models.TimeEntry{}).
		Where("project_id = ? AND user_id = ?", p.ID, userID).
		Select("COALESCE(SUM(duration_hours), 0)").
		Scan(&userHours).Error
	if err != nil {
		return billing.Usage{}, err
	}

	err = s.db.Model(&models.TimeEntry{}).
		Where("project_id = ?", p.ID).
		Select("COALESCE(SUM(duration_hours), 0)").
		Scan(&totalHours).Error
	if err != nil {
		return billing.Usage{}, err
	}

	// индивидуальная квота, если задана, иначе общая квота проекта
	effectiveQuota := p.TotalQuotaHours
	var quota models.UserProjectQuota
	err = s.db.Where("project_id = ? AND user_id = ?", p.ID, userID).First(&quota).Error
	switch {
	case err == nil:
		effectiveQuota = quota.QuotaHours
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return billing.Usage{}, err
	}

	return billing.ComputeUsage(userHours, totalHours, effectiveQuota, p.TotalQuotaHours, p.WarningThreshold), nil
}

func (s *ProjectService) Get(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("project %d", id)
		}
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Create(in ProjectInput) (*models.Project, error) {
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	threshold := 80
	if in.WarningThreshold != nil {
		threshold = *in.WarningThreshold
	}
	status := in.Status
	if status == "" {
		status = models.ProjectActive
	}

	project := models.Project{
		Name:             in.Name,
		HourlyRate:       in.HourlyRate,
		VATType:          in.VATType,
		TotalQuotaHours:  in.TotalQuotaHours,
		WarningThreshold: threshold,
		Year:             in.Year,
		Status:           status,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Update(id uint, in ProjectInput) (*models.Project, error) {
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	project.Name = in.Name
	project.HourlyRate = in.HourlyRate
	project.VATType = in.VATType
	project.TotalQuotaHours = in.TotalQuotaHours
	if in.WarningThreshold != nil {
		project.WarningThreshold = *in.WarningThreshold
	}
	project.Year = in.Year
	if in.Status != "" {
		project.Status = in.Status
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete запрещено, пока на проект ссылаются записи времени:
// такой проект архивируют, а не удаляют.
func (s *ProjectService) Delete(id uint) error {
	project, err := s.Get(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.TimeEntry{}).Where("project_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflictf("project %q has %d time entries, archive it instead", project.Name, count)
	}

	return s.db.Delete(project).Error
}

// Clone создаёт копию проекта на новый год со статусом active.
func (s *ProjectService) Clone(id uint, newYear int) (*models.Project, error) {
	if newYear < 2020 || newYear > 2100 {
		return nil, apperr.Validationf("year must be between 2020 and 2100")
	}

	original, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	clone := models.Project{
		Name:             original.Name,
		HourlyRate:       original.HourlyRate,
		VATType:          original.VATType,
		TotalQuotaHours:  original.TotalQuotaHours,
		WarningThreshold: original.WarningThreshold,
		Year:             newYear,
		Status:           models.ProjectActive,
	}
	if err := s.db.Create(&clone).Error; err != nil {
		return nil, err
	}
	return &clone, nil
}

func validateProjectInput(in ProjectInput) error {
	if in.Name == "" {
		return apperr.Validationf("project name is required")
	}
	if in.HourlyRate < 0 {
		return apperr.Validationf("hourly rate must not be negative")
	}
	if in.TotalQuotaHours < 0 {
		return apperr.Validationf("quota hours must not be negative")
	}
	if in.WarningThreshold != nil && (*in.WarningThreshold < 0 || *in.WarningThreshold > 100) {
		return apperr.Validationf("warning threshold must be between 0 and 100")
	}
	if in.VATType != models.VATInclusive && in.VATType != models.VATExclusive {
		return apperr.Validationf("vat type must be inclusive or exclusive")
	}
	if in.Year < 2020 || in.Year > 2100 {
		return apperr.Validationf("year must be between 2020 and 2100")
	}
	if in.Status != "" && in.Status != models.ProjectActive && in.Status != models.ProjectArchived {
		return apperr.Validationf("status must be active or archived")
	}
	return nil
}
