package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dancorreia-swe/medwaster-achievements/internal/http/response"
	"github.com/dancorreia-swe/medwaster-achievements/internal/services"
)

type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) Unnotified(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	rows, err := h.notifications.GetUnnotified(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": rows})
}

func (h *NotificationHandler) Stats(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	stats, err := h.notifications.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (h *NotificationHandler) MarkNotified(c *gin.Context) {
	h.mark(c, h.notifications.MarkNotified)
}

func (h *NotificationHandler) MarkViewed(c *gin.Context) {
	h.mark(c, h.notifications.MarkViewed)
}

func (h *NotificationHandler) MarkClaimed(c *gin.Context) {
	h.mark(c, h.notifications.MarkClaimed)
}

func (h *NotificationHandler) mark(c *gin.Context, fn func(ctx context.Context, userID, achievementID uuid.UUID) error) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	achievementID, err := uuid.Parse(c.Param("achievementId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_achievement_id", err)
		return
	}
	if err := fn(c.Request.Context(), userID, achievementID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
