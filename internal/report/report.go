package report

import (
	"sort"
	"time"

	"timetracker/internal/models"
)

// EntryRow — одна строка детальной таблицы отчёта.
type EntryRow struct {
	Date         time.Time
	ProjectName  string
	CategoryName string
	StartTime    string
	EndTime      string
	Hours        float64
	HourlyRate   float64
	Cost         float64
	Description  string
}

// ProjectSummary — сводка по проекту за месяц.
type ProjectSummary struct {
	ProjectName string
	TotalHours  float64
	EntryCount  int
	Percentage  float64
}

// Data — всё, что нужно для месячного отчёта.
type Data struct {
	UserName   string
	UserEmail  string
	Month      time.Month
	Year       int
	TotalHours float64
	EntryCount int
	Projects   []ProjectSummary
	Entries    []EntryRow
}

// Build собирает данные отчёта из записей месяца.
// Записи ожидаются отсортированными по дате.
func Build(user models.User, month time.Month, year int, entries []models.TimeEntry,
	projects map[uint]models.Project, categories map[uint]models.Category) Data {

	data := Data{
		UserName:   user.Name,
		UserEmail:  user.Email,
		Month:      month,
		Year:       year,
		EntryCount: len(entries),
	}

	type acc struct {
		hours float64
		count int
	}
	byProject := map[string]*acc{}

	for _, e := range entries {
		p := projects[e.ProjectID]
		c := categories[e.CategoryID]
		hours := float64(e.DurationHours) / 100
		rate := float64(p.HourlyRate) / 100

		data.TotalHours += hours
		row := EntryRow{
			Date:         e.Date,
			ProjectName:  p.Name,
			CategoryName: c.Name,
			StartTime:    e.StartTime,
			EndTime:      e.EndTime,
			Hours:        hours,
			HourlyRate:   rate,
			Cost:         hours * rate,
			Description:  e.Description,
		}
		data.Entries = append(data.Entries, row)

		a := byProject[p.Name]
		if a == nil {
			a = &acc{}
			byProject[p.Name] = a
		}
		a.hours += hours
		a.count++
	}

	for name, a := range byProject {
		pct := 0.0
		if data.TotalHours > 0 {
			pct = a.hours / data.TotalHours * 100
		}
		data.Projects = append(data.Projects, ProjectSummary{
			ProjectName: name,
			TotalHours:  a.hours,
			EntryCount:  a.count,
			Percentage:  pct,
		})
	}
	sort.Slice(data.Projects, func(i, j int) bool {
		if data.Projects[i].TotalHours != data.Projects[j].TotalHours {
			return data.Projects[i].TotalHours > data.Projects[j].TotalHours
		}
		return data.Projects[i].ProjectName < data.Projects[j].ProjectName
	})

	return data
}
