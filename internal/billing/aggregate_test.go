package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/internal/models"
)

func entry(projectID uint, durationScaled int) models.TimeEntry {
	return models.TimeEntry{ProjectID: projectID, DurationHours: durationScaled}
}

func TestAggregateEntries(t *testing.T) {
	projects := map[uint]models.Project{
		1: {Name: "Coaching", HourlyRate: 15000, VATType: models.VATExclusive},  // CHF 150.00/h
		2: {Name: "Scouting", HourlyRate: 12050, VATType: models.VATInclusive}, // CHF 120.50/h
	}

	entries := []models.TimeEntry{
		entry(1, 150), // 1.5h
		entry(2, 100), // 1.0h
		entry(1, 250), // 2.5h
	}

	items, total := AggregateEntries(entries, projects)
	require.Len(t, items, 2)

	// проект 1: 4.0h * 150.00 = 600.00
	assert.Equal(t, uint(1), items[0].ProjectID)
	assert.Equal(t, 400, items[0].Hours)
	assert.Equal(t, 15000, items[0].Rate)
	assert.Equal(t, 60000, items[0].Amount)
	assert.Equal(t, models.VATExclusive, items[0].VATType)

	// проект 2: 1.0h * 120.50 = 120.50
	assert.Equal(t, uint(2), items[1].ProjectID)
	assert.Equal(t, 100, items[1].Hours)
	assert.Equal(t, 12050, items[1].Amount)

	assert.Equal(t, 72050, total)
}

func TestAggregateEntries_SkipsUnknownProjects(t *testing.T) {
	projects := map[uint]models.Project{1: {Name: "Known", HourlyRate: 10000}}
	items, total := AggregateEntries([]models.TimeEntry{entry(1, 100), entry(99, 500)}, projects)
	require.Len(t, items, 1)
	assert.Equal(t, 10000, total)
}

func TestAggregateEntries_Idempotent(t *testing.T) {
	projects := map[uint]models.Project{
		3: {Name: "A", HourlyRate: 9999},
		7: {Name: "B", HourlyRate: 13333},
	}
	entries := []models.TimeEntry{entry(7, 33), entry(3, 167), entry(7, 1)}

	first, firstTotal := AggregateEntries(entries, projects)
	second, secondTotal := AggregateEntries(entries, projects)
	assert.Equal(t, first, second)
	assert.Equal(t, firstTotal, secondTotal)
}

func TestLineAmount_RoundTrip(t *testing.T) {
	// свойство: amount == round(hours/100 * rate/100 * 100), half-up
	tests := []struct {
		hours, rate, want int
	}{
		{150, 15000, 22500},  // 1.5h * 150.00 = 225.00
		{33, 10000, 3300},    // 0.33h * 100.00 = 33.00
		{1, 12345, 123},      // 0.01h * 123.45 = 1.2345 -> 1.23
		{50, 101, 51},        // 0.5h * 1.01 = 0.505 -> 0.51 (half-up)
		{0, 15000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LineAmount(tt.hours, tt.rate), "hours=%d rate=%d", tt.hours, tt.rate)
	}
}
