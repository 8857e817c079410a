package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
	"timetracker/internal/odoo"
)

// GetOdooConfig возвращает настройки подключения текущего
// пользователя; API-ключ маскируется.
func (h *Handler) GetOdooConfig(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	cfg, err := h.odoo.GetConfig(user.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type odooConfigRequest struct {
	URL      string `json:"url" binding:"required"`
	Database string `json:"database" binding:"required"`
	Username string `json:"username" binding:"required"`
	APIKey   string `json:"apiKey" binding:"required"`
	IsActive bool   `json:"isActive"`
}

// SaveOdooConfig сохраняет настройки после успешного теста соединения.
func (h *Handler) SaveOdooConfig(c *gin.Context) {
	var req odooConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	in := odoo.Config{URL: req.URL, Database: req.Database, Username: req.Username, APIKey: req.APIKey}
	if err := h.odoo.SaveConfig(user.ID, in, req.IsActive); err != nil {
		respondErr(c, err)
		return
	}

	// ключ в журнал не пишем
	h.audit(c, "odooConfig.saved", "odooConfig", user.ID, nil,
		gin.H{"url": req.URL, "database": req.Database, "isActive": req.IsActive})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DeleteOdooConfig(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if err := h.odoo.DeleteConfig(user.ID); err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "odooConfig.deleted", "odooConfig", user.ID, nil, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TestOdooConnection проверяет реквизиты, не сохраняя их.
func (h *Handler) TestOdooConnection(c *gin.Context) {
	var req odooConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result := h.odoo.TestConnection(odoo.Config{
		URL: req.URL, Database: req.Database, Username: req.Username, APIKey: req.APIKey,
	})
	c.JSON(http.StatusOK, result)
}
