package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Render рисует месячный отчёт: шапка, сводка, разбивка по проектам
// и детальная таблица записей. A4 альбомной ориентации.
func Render(data Data) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(127, 140, 141)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	period := fmt.Sprintf("%s %d", data.Month, data.Year)

	// шапка
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 10, "Monthly Time Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 5, "Period: "+period, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Generated for: "+data.UserName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Generated on: "+time.Now().Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// сводка
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, fmt.Sprintf("Total hours: %.2f", data.TotalHours), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Entries: %d", data.EntryCount), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// разбивка по проектам
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 7, "Hours by Project", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(236, 240, 241)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(100, 6, "Project", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 6, "Hours", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 6, "Entries", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 6, "Share", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range data.Projects {
		pdf.CellFormat(100, 6, p.ProjectName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", p.TotalHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", p.EntryCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.1f%%", p.Percentage), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// детальная таблица
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 7, "Entries", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	header := func() {
		pdf.CellFormat(22, 6, "Date", "1", 0, "L", true, 0, "")
		pdf.CellFormat(55, 6, "Project", "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 6, "Category", "1", 0, "L", true, 0, "")
		pdf.CellFormat(24, 6, "Time", "1", 0, "C", true, 0, "")
		pdf.CellFormat(16, 6, "Hours", "1", 0, "R", true, 0, "")
		pdf.CellFormat(20, 6, "Rate", "1", 0, "R", true, 0, "")
		pdf.CellFormat(22, 6, "Cost", "1", 0, "R", true, 0, "")
		pdf.CellFormat(73, 6, "Description", "1", 1, "L", true, 0, "")
	}
	header()

	pdf.SetFont("Helvetica", "", 8)
	for i, e := range data.Entries {
		if pdf.GetY() > 185 {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "B", 8)
			header()
			pdf.SetFont("Helvetica", "", 8)
		}

		fill := i%2 == 1
		pdf.SetFillColor(247, 249, 249)

		interval := ""
		if e.StartTime != "" && e.EndTime != "" {
			interval = e.StartTime + "-" + e.EndTime
		}
		pdf.CellFormat(22, 6, e.Date.Format("02.01.2006"), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(55, 6, clip(e.ProjectName, 38), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(45, 6, clip(e.CategoryName, 30), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(24, 6, interval, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(16, 6, fmt.Sprintf("%.2f", e.Hours), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.2f", e.HourlyRate), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.2f", e.Cost), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(73, 6, clip(e.Description, 50), "1", 1, "L", fill, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename — имя файла отчёта вида time-report-2025-11.pdf.
func Filename(month time.Month, year int) string {
	return fmt.Sprintf("time-report-%04d-%02d.pdf", year, int(month))
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
