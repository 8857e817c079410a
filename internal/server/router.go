package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"timetracker/internal/config"
	"timetracker/internal/handlers"
	"timetracker/internal/middleware"
	"timetracker/internal/models"
)

func NewRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 7,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("tt_session", store))
	r.Use(middleware.RequestID())

	h := handlers.New(db, cfg.OdooCompany)

	// AUTH
	r.POST("/api/auth/login", h.Login)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(db))

	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// ПОЛЬЗОВАТЕЛИ — управление только для админа
	api.GET("/users", adminOnly, h.ListUsers)
	api.POST("/users", adminOnly, h.CreateUser)
	api.PUT("/users/:id/role", adminOnly, h.UpdateUserRole)
	api.POST("/users/:id/deactivate", adminOnly, h.DeactivateUser)
	api.POST("/users/:id/activate", adminOnly, h.ActivateUser)
	api.DELETE("/users/:id", adminOnly, h.DeleteUser)

	// ПРОЕКТЫ — читают все, меняет админ
	api.GET("/projects", h.ListProjects)
	api.GET("/projects/:id", h.GetProject)
	api.POST("/projects", adminOnly, h.CreateProject)
	api.PUT("/projects/:id", adminOnly, h.UpdateProject)
	api.DELETE("/projects/:id", adminOnly, h.DeleteProject)
	api.POST("/projects/:id/clone", adminOnly, h.CloneProject)

	// индивидуальные квоты проекта
	api.GET("/projects/:id/quotas", adminOnly, h.ListProjectQuotas)
	api.PUT("/projects/:id/quotas", adminOnly, h.UpsertProjectQuota)
	api.DELETE("/projects/:id/quotas/:userId", adminOnly, h.DeleteProjectQuota)

	// КАТЕГОРИИ
	api.GET("/categories", h.ListCategories)
	api.POST("/categories", adminOnly, h.CreateCategory)
	api.PUT("/categories/:id", adminOnly, h.UpdateCategory)
	api.DELETE("/categories/:id", adminOnly, h.DeleteCategory)
	api.POST("/categories/seed", adminOnly, h.SeedCategories)

	// ЗАПИСИ ВРЕМЕНИ
	api.GET("/entries", h.ListTimeEntries)
	api.GET("/entries/summary", h.TimeEntrySummary)
	api.GET("/entries/:id", h.GetTimeEntry)
	api.POST("/entries", h.CreateTimeEntry)
	api.PUT("/entries/:id", h.UpdateTimeEntry)
	api.DELETE("/entries/:id", h.DeleteTimeEntry)

	// СЧЕТА
	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/preview", h.PreviewInvoice)
	api.GET("/invoices/:id", h.GetInvoice)
	api.POST("/invoices", h.GenerateInvoice)
	api.PUT("/invoices/:id/status", h.UpdateInvoiceStatus)
	api.DELETE("/invoices/:id", h.DeleteInvoice)
	api.POST("/invoices/:id/push", h.PushInvoice)

	// НАСТРОЙКИ ODOO
	api.GET("/odoo/config", h.GetOdooConfig)
	api.PUT("/odoo/config", h.SaveOdooConfig)
	api.DELETE("/odoo/config", h.DeleteOdooConfig)
	api.POST("/odoo/test", h.TestOdooConnection)

	// ОТЧЁТЫ
	api.GET("/reports/monthly", h.MonthlyReport)

	// АУДИТ
	api.GET("/audit", adminOnly, h.ListAuditLogs)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
