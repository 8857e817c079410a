package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/billing"
	"timetracker/internal/models"
)

// Сколько раз пробуем занять следующий свободный номер счёта,
// если параллельная генерация успела занять наш.
const maxNumberAttempts = 5

type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// InvoiceFilter — фильтры списка счетов.
type InvoiceFilter struct {
	Year   int
	Status models.InvoiceStatus
}

func (s *InvoiceService) List(actor models.User, f InvoiceFilter) ([]models.Invoice, error) {
	q := s.db.Order("year desc, month desc, invoice_number desc")

	if actor.Role != models.RoleAdmin {
		q = q.Where("user_id = ?", actor.ID)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Get возвращает счёт вместе со строками и их проектами.
func (s *InvoiceService) Get(actor models.User, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Items").Preload("Items.Project").First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("invoice %d", id)
	}
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && invoice.UserID != actor.ID {
		return nil, apperr.Forbiddenf("invoice %d belongs to another user", id)
	}
	return &invoice, nil
}

// InvoicePreview — результат предпросмотра: те же строки и итог,
// что получит сгенерированный счёт, но без записи в базу.
type InvoicePreview struct {
	Items       []billing.LineItem `json:"items"`
	TotalAmount int                `json:"totalAmount"`
	EntryCount  int                `json:"entryCount"`
}

// Preview выполняет агрегацию без сохранения. Использует ту же
// функцию группировки, что и Generate, поэтому итоги совпадают.
func (s *InvoiceService) Preview(userID uint, month, year int) (*InvoicePreview, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	entries, projects, err := s.entriesForPeriod(userID, month, year)
	if err != nil {
		return nil, err
	}

	items, total := billing.AggregateEntries(entries, projects)
	return &InvoicePreview{Items: items, TotalAmount: total, EntryCount: len(entries)}, nil
}

// Generate собирает счёт из записей месяца. Счёт и строки пишутся
// в одной транзакции; номер защищён уникальным индексом, при
// столкновении с параллельной генерацией берётся следующий номер.
func (s *InvoiceService) Generate(userID uint, month, year int, recipientName, recipientAddress string) (*models.Invoice, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if recipientName == "" {
		return nil, apperr.Validationf("recipient name is required")
	}

	entries, projects, err := s.entriesForPeriod(userID, month, year)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperr.NotFoundf("no time entries found for %04d-%02d", year, month)
	}

	items, total := billing.AggregateEntries(entries, projects)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		invoice, err := s.tryCreate(userID, month, year, recipientName, recipientAddress, items, total, attempt)
		if err == nil {
			return invoice, nil
		}
		if !errorsIsDuplicate(err) {
			return nil, err
		}
		// номер занят параллельной генерацией — пробуем следующий
	}
	return nil, apperr.Conflictf("could not allocate an invoice number for %04d-%02d", year, month)
}

func (s *InvoiceService) tryCreate(userID uint, month, year int, recipientName, recipientAddress string,
	items []billing.LineItem, total, attempt int) (*models.Invoice, error) {

	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// номера сквозные по (год, месяц) для всех пользователей
		var count int64
		if err := tx.Model(&models.Invoice{}).
			Where("year = ? AND month = ?", year, month).
			Count(&count).Error; err != nil {
			return err
		}
		seq := int(count) + 1 + attempt

		invoice = models.Invoice{
			InvoiceNumber:    fmt.Sprintf("%04d-%02d-%03d", year, month, seq),
			UserID:           userID,
			Month:            month,
			Year:             year,
			RecipientName:    recipientName,
			RecipientAddress: recipientAddress,
			TotalAmount:      total,
			Status:           models.InvoiceDraft,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		rows := make([]models.InvoiceItem, 0, len(items))
		for _, it := range items {
			rows = append(rows, models.InvoiceItem{
				InvoiceID: invoice.ID,
				ProjectID: it.ProjectID,
				Hours:     it.Hours,
				Rate:      it.Rate,
				Amount:    it.Amount,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateStatus переводит счёт между draft/sent/paid.
func (s *InvoiceService) UpdateStatus(actor models.User, id uint, status models.InvoiceStatus) (*models.Invoice, error) {
	if status != models.InvoiceDraft && status != models.InvoiceSent && status != models.InvoicePaid {
		return nil, apperr.Validationf("status must be draft, sent or paid")
	}

	invoice, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(invoice).Update("status", status).Error; err != nil {
		return nil, err
	}
	invoice.Status = status
	return invoice, nil
}

// Delete удаляет счёт вместе со строками. Оплаченный счёт
// удалить нельзя.
func (s *InvoiceService) Delete(actor models.User, id uint) error {
	invoice, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if invoice.Status == models.InvoicePaid {
		return apperr.Conflictf("invoice %s is paid and cannot be deleted", invoice.InvoiceNumber)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, invoice.ID).Error
	})
}

// LineItems восстанавливает строки счёта в виде, пригодном для
// выгрузки во внешнюю систему.
func (s *InvoiceService) LineItems(invoice *models.Invoice) ([]billing.LineItem, error) {
	var rows []models.InvoiceItem
	if err := s.db.Preload("Project").Where("invoice_id = ?", invoice.ID).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]billing.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, billing.LineItem{
			ProjectID:   r.ProjectID,
			ProjectName: r.Project.Name,
			VATType:     r.Project.VATType,
			Hours:       r.Hours,
			Rate:        r.Rate,
			Amount:      r.Amount,
		})
	}
	return items, nil
}

// entriesForPeriod загружает записи пользователя за месяц и их проекты.
func (s *InvoiceService) entriesForPeriod(userID uint, month, year int) ([]models.TimeEntry, map[uint]models.Project, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var entries []models.TimeEntry
	err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).Find(&entries).Error
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uint, 0, len(entries))
	seen := map[uint]bool{}
	for _, e := range entries {
		if !seen[e.ProjectID] {
			seen[e.ProjectID] = true
			ids = append(ids, e.ProjectID)
		}
	}

	projects := map[uint]models.Project{}
	if len(ids) > 0 {
		var rows []models.Project
		if err := s.db.Find(&rows, ids).Error; err != nil {
			return nil, nil, err
		}
		for _, p := range rows {
			projects[p.ID] = p
		}
	}
	return entries, projects, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return apperr.Validationf("month must be between 1 and 12")
	}
	if year < 2020 || year > 2100 {
		return apperr.Validationf("year must be between 2020 and 2100")
	}
	return nil
}

func errorsIsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
