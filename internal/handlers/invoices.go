package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
	"timetracker/internal/models"
	"timetracker/internal/odoo"
	"timetracker/internal/services"
)

func (h *Handler) ListInvoices(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	filter := services.InvoiceFilter{
		Year:   queryInt(c, "year"),
		Status: models.InvoiceStatus(c.Query("status")),
	}
	invoices, err := h.invoices.List(user, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	invoice, err := h.invoices.Get(user, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type generateInvoiceRequest struct {
	Month            int    `json:"month" binding:"required"`
	Year             int    `json:"year" binding:"required"`
	RecipientName    string `json:"recipientName" binding:"required"`
	RecipientAddress string `json:"recipientAddress"`
	PushToOdoo       bool   `json:"pushToOdoo"`
}

// GenerateInvoice собирает счёт из записей месяца. Если запрошена
// выгрузка в Odoo и она не удалась, счёт всё равно создан — неуспех
// приходит предупреждением в ответе.
func (h *Handler) GenerateInvoice(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	invoice, err := h.invoices.Generate(user.ID, req.Month, req.Year, req.RecipientName, req.RecipientAddress)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.audit(c, "invoice.created", "invoice", invoice.ID, nil, invoice)

	resp := gin.H{"invoice": invoice}
	if req.PushToOdoo {
		result := h.pushToOdoo(c, invoice)
		if !result.Success {
			resp["warning"] = result.Message
		}
		resp["odoo"] = result
	}
	c.JSON(http.StatusCreated, resp)
}

// PreviewInvoice показывает строки и итог будущего счёта, ничего
// не сохраняя.
func (h *Handler) PreviewInvoice(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	month := queryInt(c, "month")
	year := queryInt(c, "year")
	preview, err := h.invoices.Preview(user.ID, month, year)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

type updateInvoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status" binding:"required"`
}

func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	before, err := h.invoices.Get(user, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	invoice, err := h.invoices.UpdateStatus(user, id, req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "invoice.status_changed", "invoice", id,
		gin.H{"status": before.Status}, gin.H{"status": invoice.Status})
	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	if err := h.invoices.Delete(user, id); err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "invoice.deleted", "invoice", id, nil, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PushInvoice выгружает уже созданный счёт в Odoo.
func (h *Handler) PushInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	invoice, err := h.invoices.Get(user, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	result := h.pushToOdoo(c, invoice)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) pushToOdoo(c *gin.Context, invoice *models.Invoice) odoo.PushResult {
	items, err := h.invoices.LineItems(invoice)
	if err != nil {
		return odoo.PushResult{Message: err.Error()}
	}

	result := h.odoo.PushInvoice(invoice, items)
	if result.Success {
		h.audit(c, "invoice.pushed_to_odoo", "invoice", invoice.ID, nil,
			gin.H{"odooInvoiceId": result.OdooInvoiceID})
	}
	return result
}
