package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/internal/apperr"
	"timetracker/internal/models"
)

func TestGenerate_NumbersAreSequentialAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	bruno := seedUser(t, db, "bruno", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)
	category := seedCategory(t, db, "GF")

	seedEntry(t, db, anna, project, category, day(2025, time.November, 3), 150)
	seedEntry(t, db, bruno, project, category, day(2025, time.November, 4), 100)

	first, err := svc.Generate(anna.ID, 11, 2025, "Kanton Schwyz", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-001", first.InvoiceNumber)
	assert.Equal(t, models.InvoiceDraft, first.Status)

	second, err := svc.Generate(bruno.ID, 11, 2025, "Kanton Schwyz", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-002", second.InvoiceNumber)
}

func TestGenerate_RetriesPastTakenNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)
	category := seedCategory(t, db, "GF")
	seedEntry(t, db, anna, project, category, day(2025, time.November, 3), 150)

	// номер 001 уже занят, но счётчик месяца его не видит:
	// так выглядит гонка двух параллельных генераций
	require.NoError(t, db.Create(&models.Invoice{
		InvoiceNumber: "2025-11-001",
		UserID:        anna.ID,
		Month:         0,
		Year:          0,
		RecipientName: "x",
		Status:        models.InvoiceDraft,
	}).Error)

	inv, err := svc.Generate(anna.ID, 11, 2025, "Kanton Schwyz", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-002", inv.InvoiceNumber)
}

func TestGenerate_EmptyMonthPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)
	anna := seedUser(t, db, "anna", models.RoleUser)

	_, err := svc.Generate(anna.ID, 7, 2025, "Kanton Schwyz", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	var count int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerate_ItemsAndTotals(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	coaching := seedProject(t, db, "Coaching", 15000, 100) // 150.00/h
	scouting := seedProject(t, db, "Scouting", 12050, 50)  // 120.50/h
	category := seedCategory(t, db, "GF")

	seedEntry(t, db, anna, coaching, category, day(2025, time.November, 3), 150)
	seedEntry(t, db, anna, coaching, category, day(2025, time.November, 5), 250)
	seedEntry(t, db, anna, scouting, category, day(2025, time.November, 7), 100)
	// запись соседнего месяца в счёт не попадает
	seedEntry(t, db, anna, coaching, category, day(2025, time.December, 1), 800)

	inv, err := svc.Generate(anna.ID, 11, 2025, "Kanton Schwyz", "Hauptplatz 1")
	require.NoError(t, err)

	// 4h * 150.00 + 1h * 120.50 = 720.50
	assert.Equal(t, 72050, inv.TotalAmount)

	var items []models.InvoiceItem
	require.NoError(t, db.Where("invoice_id = ?", inv.ID).Order("project_id asc").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, 400, items[0].Hours)
	assert.Equal(t, 15000, items[0].Rate)
	assert.Equal(t, 60000, items[0].Amount)
	assert.Equal(t, 100, items[1].Hours)
	assert.Equal(t, 12050, items[1].Amount)

	// сумма счёта равна сумме строк
	sum := 0
	for _, it := range items {
		sum += it.Amount
	}
	assert.Equal(t, inv.TotalAmount, sum)
}

func TestPreview_MatchesGenerate(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 9999, 100)
	category := seedCategory(t, db, "GF")
	seedEntry(t, db, anna, project, category, day(2025, time.November, 3), 33)
	seedEntry(t, db, anna, project, category, day(2025, time.November, 4), 167)

	preview, err := svc.Preview(anna.ID, 11, 2025)
	require.NoError(t, err)
	again, err := svc.Preview(anna.ID, 11, 2025)
	require.NoError(t, err)
	assert.Equal(t, preview, again) // предпросмотр идемпотентен

	inv, err := svc.Generate(anna.ID, 11, 2025, "Kanton Schwyz", "")
	require.NoError(t, err)
	assert.Equal(t, preview.TotalAmount, inv.TotalAmount)
	assert.Equal(t, 2, preview.EntryCount)
	require.Len(t, preview.Items, 1)
	assert.Equal(t, preview.Items[0].Hours, 200)
}

func TestPreview_EmptyMonthIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)
	anna := seedUser(t, db, "anna", models.RoleUser)

	preview, err := svc.Preview(anna.ID, 2, 2025)
	require.NoError(t, err)
	assert.Empty(t, preview.Items)
	assert.Zero(t, preview.TotalAmount)
	assert.Zero(t, preview.EntryCount)
}

func TestDelete_PaidInvoiceIsBlocked(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	project := seedProject(t, db, "Coaching", 15000, 100)
	category := seedCategory(t, db, "GF")
	seedEntry(t, db, anna, project, category, day(2025, time.November, 3), 150)

	inv, err := svc.Generate(anna.ID, 11, 2025, "Kanton Schwyz", "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(anna, inv.ID, models.InvoicePaid)
	require.NoError(t, err)

	err = svc.Delete(anna, inv.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// после возврата в draft удаление проходит и строки исчезают
	_, err = svc.UpdateStatus(anna, inv.ID, models.InvoiceDraft)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(anna, inv.ID))

	var items int64
	require.NoError(t, db.Model(&models.InvoiceItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestInvoice_OwnershipChecks(t *testing.T) {
	db := newTestDB(t)
	svc := NewInvoiceService(db)

	anna := seedUser(t, db, "anna", models.RoleUser)
	bruno := seedUser(t, db, "bruno", models.RoleUser)
	admin := seedUser(t, db, "root", models.RoleAdmin)
	project := seedProject(t, db, "Coaching", 15000, 100)
	category := seedCategory(t, db, "GF")
	seedEntry(t, db, anna, project, category, day(2025, time.November, 3), 150)

	inv, err := svc.Generate(anna.ID, 11, 2025, "Kanton Schwyz", "")
	require.NoError(t, err)

	_, err = svc.Get(bruno, inv.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.Get(admin, inv.ID)
	assert.NoError(t, err)

	// список не-админа содержит только его счета
	list, err := svc.List(bruno, InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(admin, InvoiceFilter{Year: 2025})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
