package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"timetracker/internal/models"
)

// LineItem — строка счёта по одному проекту, все значения x100.
type LineItem struct {
	ProjectID   uint           `json:"projectId"`
	ProjectName string         `json:"projectName"`
	VATType     models.VATType `json:"vatType"` // информативно
	Hours       int            `json:"hours"`
	Rate        int            `json:"rate"`
	Amount      int            `json:"amount"`
}

// AggregateEntries группирует записи времени по проектам и считает суммы
// строк. Одна и та же функция обслуживает предпросмотр и генерацию счёта,
// чтобы итоги не расходились. Порядок строк — по id проекта,
// повторный вызов на тех же данных даёт идентичный результат.
func AggregateEntries(entries []models.TimeEntry, projects map[uint]models.Project) ([]LineItem, int) {
	hoursByProject := map[uint]int{}
	for _, e := range entries {
		if _, ok := projects[e.ProjectID]; !ok {
			continue
		}
		// часы уже x100, целочисленная сумма точна
		hoursByProject[e.ProjectID] += e.DurationHours
	}

	order := make([]uint, 0, len(hoursByProject))
	for pid := range hoursByProject {
		order = append(order, pid)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	items := make([]LineItem, 0, len(order))
	total := 0
	for _, pid := range order {
		p := projects[pid]
		amount := LineAmount(hoursByProject[pid], p.HourlyRate)
		items = append(items, LineItem{
			ProjectID:   pid,
			ProjectName: p.Name,
			VATType:     p.VATType,
			Hours:       hoursByProject[pid],
			Rate:        p.HourlyRate,
			Amount:      amount,
		})
		total += amount
	}
	return items, total
}

// LineAmount = round(hours/100 * rate/100 * 100), округление half-up.
func LineAmount(hoursScaled, rateScaled int) int {
	amount := decimal.New(int64(hoursScaled), -2).
		Mul(decimal.New(int64(rateScaled), -2)).
		Shift(2).
		Round(0)
	return int(amount.IntPart())
}
