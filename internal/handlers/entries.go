package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
	"timetracker/internal/services"
)

func (h *Handler) ListTimeEntries(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	filter := services.TimeEntryFilter{
		UserID:     uint(queryInt(c, "userId")),
		ProjectID:  uint(queryInt(c, "projectId")),
		CategoryID: uint(queryInt(c, "categoryId")),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		filter.To = &t
	}

	entries, err := h.entries.List(user, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) GetTimeEntry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	entry, err := h.entries.Get(user, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) CreateTimeEntry(c *gin.Context) {
	var in services.TimeEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	entry, err := h.entries.Create(user, in)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "timeEntry.created", "timeEntry", entry.ID, nil, entry)
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) UpdateTimeEntry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.TimeEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	before, err := h.entries.Get(user, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	entry, err := h.entries.Update(user, id, in)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "timeEntry.updated", "timeEntry", id, before, entry)
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) DeleteTimeEntry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	if err := h.entries.Delete(user, id); err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "timeEntry.deleted", "timeEntry", id, nil, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TimeEntrySummary — агрегат часов по проектам и категориям.
func (h *Handler) TimeEntrySummary(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	rows, err := h.entries.Summary(user, uint(queryInt(c, "userId")), queryInt(c, "month"), queryInt(c, "year"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
