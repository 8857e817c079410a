package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
	"timetracker/internal/models"
	"timetracker/internal/services"
)

func (h *Handler) ListProjects(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	filter := services.ProjectFilter{
		Year:   queryInt(c, "year"),
		Status: models.ProjectStatus(c.Query("status")),
	}
	projects, err := h.projects.List(user.ID, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Get(id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var in services.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.projects.Create(in)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "project.created", "project", project.ID, nil, project)
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	before, err := h.projects.Get(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	project, err := h.projects.Update(id, in)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "project.updated", "project", id, before, project)
	c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(id); err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "project.deleted", "project", id, nil, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type cloneProjectRequest struct {
	Year int `json:"year" binding:"required"`
}

// CloneProject копирует проект на новый год.
func (h *Handler) CloneProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req cloneProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	clone, err := h.projects.Clone(id, req.Year)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "project.cloned", "project", clone.ID, gin.H{"sourceId": id}, clone)
	c.JSON(http.StatusCreated, clone)
}
