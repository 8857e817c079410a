package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetracker/internal/middleware"
	"timetracker/internal/models"
	"timetracker/internal/services"
)

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var in services.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.CreateLocal(in)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "user.created", "user", user.ID, nil, gin.H{"username": in.Username, "role": user.Role})
	c.JSON(http.StatusCreated, user)
}

type updateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor, _ := middleware.CurrentUser(c)

	before, err := h.users.Get(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	user, err := h.users.UpdateRole(actor.ID, id, req.Role)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "user.role_changed", "user", id, gin.H{"role": before.Role}, gin.H{"role": user.Role})
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentUser(c)

	user, err := h.users.Deactivate(actor.ID, id)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "user.deactivated", "user", id, nil, nil)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ActivateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Activate(id)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "user.activated", "user", id, nil, nil)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.CurrentUser(c)

	if err := h.users.Delete(actor.ID, id); err != nil {
		respondErr(c, err)
		return
	}

	h.audit(c, "user.deleted", "user", id, nil, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
