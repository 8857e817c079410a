package models

import (
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

type Invoice struct {
	gorm.Model
	InvoiceNumber string `gorm:"size:50;not null;uniqueIndex"` // формат YYYY-MM-NNN
	UserID        uint   `gorm:"index;not null"`
	User          User

	Month int `gorm:"not null"` // 1-12
	Year  int `gorm:"not null"`

	RecipientName    string `gorm:"size:255;not null"`
	RecipientAddress string `gorm:"type:text"`

	TotalAmount   int           `gorm:"not null"` // сумма x100
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;default:draft"`
	PDFURL        string        `gorm:"type:text"`
	OdooInvoiceID *int64 // id счёта в Odoo после выгрузки

	Items []InvoiceItem
}

// Строки счёта создаются одним пакетом вместе со счётом
// и по отдельности не изменяются.
type InvoiceItem struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	InvoiceID uint `gorm:"index;not null"`
	ProjectID uint `gorm:"not null"`
	Project   Project

	Hours  int `gorm:"not null"` // часы x100
	Rate   int `gorm:"not null"` // ставка x100
	Amount int `gorm:"not null"` // сумма x100
}
