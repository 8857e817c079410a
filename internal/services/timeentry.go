package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/billing"
	"timetracker/internal/models"
)

type TimeEntryService struct {
	db *gorm.DB
}

func NewTimeEntryService(db *gorm.DB) *TimeEntryService {
	return &TimeEntryService{db: db}
}

type TimeEntryInput struct {
	ProjectID   uint     `json:"projectId" binding:"required"`
	CategoryID  uint     `json:"categoryId" binding:"required"`
	Date        string   `json:"date" binding:"required"` // "2006-01-02"
	StartTime   string   `json:"startTime"`               // "HH:MM"
	EndTime     string   `json:"endTime"`
	ManualHours *float64 `json:"durationHours"` // ручной ввод в часах
	Description string   `json:"description"`
	Kilometers  int      `json:"kilometers"`
}

// TimeEntryFilter — фильтры списка записей.
type TimeEntryFilter struct {
	UserID     uint // только для админов; для остальных принудительно их id
	ProjectID  uint
	CategoryID uint
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

func (s *TimeEntryService) List(actor models.User, f TimeEntryFilter) ([]models.TimeEntry, error) {
	q := s.db.Preload("Project").Preload("Category").Order("date desc, id desc")

	// не-админ видит только свои записи
	if actor.Role != models.RoleAdmin {
		q = q.Where("user_id = ?", actor.ID)
	} else if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}

	if f.ProjectID != 0 {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	q = q.Limit(limit).Offset(f.Offset)

	var entries []models.TimeEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *TimeEntryService) Get(actor models.User, id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.db.Preload("Project").Preload("Category").First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("time entry %d", id)
	}
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && entry.UserID != actor.ID {
		return nil, apperr.Forbiddenf("time entry %d belongs to another user", id)
	}
	return &entry, nil
}

func (s *TimeEntryService) Create(actor models.User, in TimeEntryInput) (*models.TimeEntry, error) {
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", in.Date)
	}

	duration, err := billing.ComputeDuration(billing.DurationInput{
		ManualHours: in.ManualHours,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
	})
	if err != nil {
		return nil, err
	}
	if in.Kilometers < 0 {
		return nil, apperr.Validationf("kilometers must not be negative")
	}

	if err := s.checkRefs(in.ProjectID, in.CategoryID); err != nil {
		return nil, err
	}

	entry := models.TimeEntry{
		UserID:        actor.ID,
		ProjectID:     in.ProjectID,
		CategoryID:    in.CategoryID,
		Date:          date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		DurationHours: duration,
		Description:   in.Description,
		Kilometers:    in.Kilometers,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *TimeEntryService) Update(actor models.User, id uint, in TimeEntryInput) (*models.TimeEntry, error) {
	entry, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", in.Date)
	}

	duration, err := billing.ComputeDuration(billing.DurationInput{
		ManualHours: in.ManualHours,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
	})
	if err != nil {
		return nil, err
	}
	if in.Kilometers < 0 {
		return nil, apperr.Validationf("kilometers must not be negative")
	}

	if err := s.checkRefs(in.ProjectID, in.CategoryID); err != nil {
		return nil, err
	}

	entry.ProjectID = in.ProjectID
	entry.CategoryID = in.CategoryID
	entry.Date = date
	entry.StartTime = in.StartTime
	entry.EndTime = in.EndTime
	entry.DurationHours = duration
	entry.Description = in.Description
	entry.Kilometers = in.Kilometers

	if err := s.db.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *TimeEntryService) Delete(actor models.User, id uint) error {
	entry, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.TimeEntry{}, entry.ID).Error
}

// SummaryRow — агрегат по (проект, категория) за период.
type SummaryRow struct {
	ProjectID    uint    `json:"projectId"`
	ProjectName  string  `json:"projectName"`
	CategoryID   uint    `json:"categoryId"`
	CategoryCode string  `json:"categoryCode"`
	TotalHours   float64 `json:"totalHours"`
	EntryCount   int     `json:"entryCount"`
}

// Summary агрегирует часы по проектам и категориям. Месяц без года
// не принимается; нулевые month/year означают «за всё время».
func (s *TimeEntryService) Summary(actor models.User, userID uint, month, year int) ([]SummaryRow, error) {
	if month != 0 && year == 0 {
		return nil, apperr.Validationf("month requires a year")
	}
	if month < 0 || month > 12 {
		return nil, apperr.Validationf("month must be between 1 and 12")
	}

	q := s.db.Model(&models.TimeEntry{}).
		Select("time_entries.project_id, projects.name as project_name, time_entries.category_id, categories.code as category_code, SUM(time_entries.duration_hours) as total_scaled, COUNT(*) as entry_count").
		Joins("LEFT JOIN projects ON projects.id = time_entries.project_id").
		Joins("LEFT JOIN categories ON categories.id = time_entries.category_id").
		Group("time_entries.project_id, projects.name, time_entries.category_id, categories.code")

	if actor.Role != models.RoleAdmin {
		q = q.Where("time_entries.user_id = ?", actor.ID)
	} else if userID != 0 {
		q = q.Where("time_entries.user_id = ?", userID)
	}

	if year != 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		if month != 0 {
			from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(0, 1, 0)
		}
		q = q.Where("time_entries.date >= ? AND time_entries.date < ?", from, to)
	}

	var raw []struct {
		ProjectID    uint
		ProjectName  string
		CategoryID   uint
		CategoryCode string
		TotalScaled  int64
		EntryCount   int
	}
	if err := q.Scan(&raw).Error; err != nil {
		return nil, err
	}

	rows := make([]SummaryRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, SummaryRow{
			ProjectID:    r.ProjectID,
			ProjectName:  r.ProjectName,
			CategoryID:   r.CategoryID,
			CategoryCode: r.CategoryCode,
			TotalHours:   float64(r.TotalScaled) / 100,
			EntryCount:   r.EntryCount,
		})
	}
	return rows, nil
}

func (s *TimeEntryService) checkRefs(projectID, categoryID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return apperr.NotFoundf("project %d", projectID)
	}
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return apperr.NotFoundf("category %d", categoryID)
	}
	return nil
}
