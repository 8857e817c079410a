package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
	"timetracker/internal/services"
)

// MonthlyReport отдаёт PDF-отчёт за месяц.
func (h *Handler) MonthlyReport(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	pdf, filename, err := h.reports.MonthlyPDF(user, queryInt(c, "month"), queryInt(c, "year"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListAuditLogs — журнал аудита, только для админов.
func (h *Handler) ListAuditLogs(c *gin.Context) {
	filter := services.AuditLogFilter{
		UserID:     uint(queryInt(c, "userId")),
		Action:     c.Query("action"),
		EntityType: c.Query("entityType"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}
	logs, err := h.auditLog.List(filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
