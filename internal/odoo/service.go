package odoo

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"timetracker/internal/apperr"
	"timetracker/internal/billing"
	"timetracker/internal/models"
)

// bridge абстрагирует XML-RPC клиент, чтобы сервис тестировался без сети.
type bridge interface {
	TestConnection() ConnectionResult
	FindCompany(name string) (int64, error)
	FindPartner(name string) (int64, error)
	CreateInvoice(draft InvoiceDraft) (int64, error)
}

// PushResult — итог выгрузки счёта. Неуспех — это предупреждение
// для вызывающего, локальный счёт при этом уже сохранён.
type PushResult struct {
	Success       bool   `json:"success"`
	OdooInvoiceID int64  `json:"odooInvoiceId,omitempty"`
	Message       string `json:"message"`
}

// Service выгружает счета в Odoo и хранит настройки подключения.
type Service struct {
	db          *gorm.DB
	companyName string
	newBridge   func(Config) bridge
}

func NewService(db *gorm.DB, companyName string) *Service {
	return &Service{
		db:          db,
		companyName: companyName,
		newBridge:   func(cfg Config) bridge { return NewClient(cfg) },
	}
}

// PushInvoice выгружает счёт в Odoo. Никакая ошибка моста не
// откатывает локальный счёт — всё возвращается как предупреждение.
func (s *Service) PushInvoice(inv *models.Invoice, items []billing.LineItem) PushResult {
	var cfg models.OdooConfig
	if err := s.db.Where("user_id = ?", inv.UserID).First(&cfg).Error; err != nil {
		return PushResult{Message: "odoo integration is not configured"}
	}
	if !cfg.IsActive {
		return PushResult{Message: "odoo integration is inactive"}
	}

	client := s.newBridge(Config{
		URL:      cfg.URL,
		Database: cfg.Database,
		Username: cfg.Username,
		APIKey:   cfg.APIKey,
	})

	companyID, err := client.FindCompany(s.companyName)
	if err != nil {
		return PushResult{Message: err.Error()}
	}
	if companyID == 0 {
		return PushResult{Message: fmt.Sprintf("company %q not found in odoo", s.companyName)}
	}

	partnerID, err := client.FindPartner(inv.RecipientName)
	if err != nil {
		return PushResult{Message: err.Error()}
	}
	if partnerID == 0 {
		return PushResult{Message: fmt.Sprintf("customer %q not found in odoo, create the customer first", inv.RecipientName)}
	}

	lines := make([]InvoiceLine, 0, len(items))
	for _, it := range items {
		hours := float64(it.Hours) / 100
		rate := float64(it.Rate) / 100
		lines = append(lines, InvoiceLine{
			Name:      fmt.Sprintf("%s - %.2fh @ CHF %.2f/h", it.ProjectName, hours, rate),
			Quantity:  hours,
			PriceUnit: rate,
		})
	}

	odooID, err := client.CreateInvoice(InvoiceDraft{
		PartnerID:   partnerID,
		CompanyID:   companyID,
		InvoiceDate: time.Now(),
		Ref:         inv.InvoiceNumber,
		Lines:       lines,
	})
	if err != nil {
		return PushResult{Message: err.Error()}
	}

	// запоминаем внешний id; сам счёт уже сохранён и не откатывается
	if err := s.db.Model(inv).Update("odoo_invoice_id", odooID).Error; err != nil {
		log.Printf("odoo: failed to store external id for invoice %s: %v", inv.InvoiceNumber, err)
	}

	return PushResult{
		Success:       true,
		OdooInvoiceID: odooID,
		Message:       fmt.Sprintf("invoice created in odoo with id %d", odooID),
	}
}

// ConfigView — настройки без полного API-ключа.
type ConfigView struct {
	URL          string     `json:"url"`
	Database     string     `json:"database"`
	Username     string     `json:"username"`
	APIKey       string     `json:"apiKey"` // маскированный
	IsActive     bool       `json:"isActive"`
	LastTestedAt *time.Time `json:"lastTestedAt,omitempty"`
}

// GetConfig возвращает настройки пользователя с маскированным ключом.
func (s *Service) GetConfig(userID uint) (*ConfigView, error) {
	var cfg models.OdooConfig
	if err := s.db.Where("user_id = ?", userID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("odoo configuration")
		}
		return nil, err
	}
	return &ConfigView{
		URL:          cfg.URL,
		Database:     cfg.Database,
		Username:     cfg.Username,
		APIKey:       maskKey(cfg.APIKey),
		IsActive:     cfg.IsActive,
		LastTestedAt: cfg.LastTestedAt,
	}, nil
}

// SaveConfig сначала проверяет соединение, затем сохраняет настройки
// (upsert по пользователю).
func (s *Service) SaveConfig(userID uint, in Config, isActive bool) error {
	if in.URL == "" || in.Database == "" || in.Username == "" || in.APIKey == "" {
		return apperr.Validationf("url, database, username and api key are required")
	}

	test := s.newBridge(in).TestConnection()
	if !test.Success {
		return apperr.Externalf("connection test failed: %s", test.Message)
	}

	now := time.Now()
	var cfg models.OdooConfig
	err := s.db.Where("user_id = ?", userID).First(&cfg).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		cfg = models.OdooConfig{UserID: userID}
	case err != nil:
		return err
	}

	cfg.URL = in.URL
	cfg.Database = in.Database
	cfg.Username = in.Username
	cfg.APIKey = in.APIKey
	cfg.IsActive = isActive
	cfg.LastTestedAt = &now

	return s.db.Save(&cfg).Error
}

// DeleteConfig удаляет настройки пользователя.
func (s *Service) DeleteConfig(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.OdooConfig{}).Error
}

// TestConnection проверяет произвольные реквизиты, не сохраняя их.
func (s *Service) TestConnection(in Config) ConnectionResult {
	return s.newBridge(in).TestConnection()
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "***"
	}
	return "***" + key[len(key)-4:]
}
