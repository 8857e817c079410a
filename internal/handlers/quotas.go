package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProjectQuotas(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	quotas, err := h.quotas.ListByProject(projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, quotas)
}

type upsertQuotaRequest struct {
	UserID     uint `json:"userId" binding:"required"`
	QuotaHours int  `json:"quotaHours"`
}

func (h *Handler) UpsertProjectQuota(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req upsertQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quota, updated, err := h.quotas.Upsert(req.UserID, projectID, req.QuotaHours)
	if err != nil {
		respondErr(c, err)
		return
	}

	action := "quota.created"
	status := http.StatusCreated
	if updated {
		action = "quota.updated"
		status = http.StatusOK
	}
	h.audit(c, action, "quota", quota.ID, nil, quota)
	c.JSON(status, quota)
}

func (h *Handler) DeleteProjectQuota(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	if err := h.quotas.Delete(userID, projectID); err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "quota.deleted", "quota", projectID, gin.H{"userId": userID}, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
