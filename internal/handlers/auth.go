package handlers

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"timetracker/internal/audit"
	"timetracker/internal/middleware"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		// неверный логин и неверный пароль неразличимы снаружи
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	if err := sess.Save(); err != nil {
		respondErr(c, err)
		return
	}

	// RequireAuth ещё не отработал, поэтому пишем аудит напрямую
	id := user.ID
	h.recorder.Record(audit.Entry{
		UserID:     &id,
		Action:     "user.login",
		EntityType: "user",
		EntityID:   id,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		RequestID:  middleware.GetRequestID(c),
	})
	c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c *gin.Context) {
	if user, ok := middleware.CurrentUser(c); ok {
		h.audit(c, "user.logout", "user", user.ID, nil, nil)
	}

	sess := sessions.Default(c)
	sess.Clear()
	if err := sess.Save(); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}
