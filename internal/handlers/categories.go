package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetracker/internal/services"
)

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.cats.List()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.cats.Create(in)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "category.created", "category", category.ID, nil, category)
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	before, err := h.cats.Get(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	category, err := h.cats.Update(id, in)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "category.updated", "category", id, before, category)
	c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.cats.Delete(id); err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "category.deleted", "category", id, nil, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SeedCategories создаёт стандартный набор категорий.
func (h *Handler) SeedCategories(c *gin.Context) {
	created, err := h.cats.SeedDefaults()
	if err != nil {
		respondErr(c, err)
		return
	}

	if created > 0 {
		h.audit(c, "category.seeded", "category", 0, nil, gin.H{"created": created})
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}
