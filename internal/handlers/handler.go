package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"timetracker/internal/audit"
	"timetracker/internal/middleware"
	"timetracker/internal/odoo"
	"timetracker/internal/services"
)

// Handler держит все сервисы приложения. Обработчики разбирают
// HTTP-запрос, зовут сервис и пишут аудит; бизнес-логики здесь нет.
type Handler struct {
	users    *services.UserService
	projects *services.ProjectService
	cats     *services.CategoryService
	entries  *services.TimeEntryService
	quotas   *services.QuotaService
	invoices *services.InvoiceService
	reports  *services.ReportService
	auditLog *services.AuditLogService
	odoo     *odoo.Service
	recorder *audit.Recorder
}

func New(db *gorm.DB, odooCompany string) *Handler {
	return &Handler{
		users:    services.NewUserService(db),
		projects: services.NewProjectService(db),
		cats:     services.NewCategoryService(db),
		entries:  services.NewTimeEntryService(db),
		quotas:   services.NewQuotaService(db),
		invoices: services.NewInvoiceService(db),
		reports:  services.NewReportService(db),
		auditLog: services.NewAuditLogService(db),
		odoo:     odoo.NewService(db, odooCompany),
		recorder: audit.NewRecorder(db),
	}
}

// audit пишет действие текущего пользователя в журнал.
func (h *Handler) audit(c *gin.Context, action, entityType string, entityID uint, oldValue, newValue any) {
	var userID *uint
	if user, ok := middleware.CurrentUser(c); ok {
		id := user.ID
		userID = &id
	}
	h.recorder.Record(audit.Entry{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValue:   oldValue,
		NewValue:   newValue,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		RequestID:  middleware.GetRequestID(c),
	})
}
