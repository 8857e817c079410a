package services

import (
	"time"

	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/models"
	"timetracker/internal/report"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// MonthlyPDF собирает записи месяца и рисует отчёт.
// Не-админ получает отчёт только по своим записям.
func (s *ReportService) MonthlyPDF(actor models.User, month, year int) ([]byte, string, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, "", err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	q := s.db.Where("date >= ? AND date < ?", from, to).Order("date asc, id asc")
	if actor.Role != models.RoleAdmin {
		q = q.Where("user_id = ?", actor.ID)
	}

	var entries []models.TimeEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", apperr.NotFoundf("no time entries found for %04d-%02d", year, month)
	}

	projects := map[uint]models.Project{}
	categories := map[uint]models.Category{}
	{
		var rows []models.Project
		if err := s.db.Find(&rows).Error; err != nil {
			return nil, "", err
		}
		for _, p := range rows {
			projects[p.ID] = p
		}
		var cats []models.Category
		if err := s.db.Find(&cats).Error; err != nil {
			return nil, "", err
		}
		for _, c := range cats {
			categories[c.ID] = c
		}
	}

	data := report.Build(actor, time.Month(month), year, entries, projects, categories)
	pdf, err := report.Render(data)
	if err != nil {
		return nil, "", err
	}
	return pdf, report.Filename(time.Month(month), year), nil
}
