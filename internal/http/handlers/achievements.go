package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dancorreia-swe/medwaster-achievements/internal/http/response"
	"github.com/dancorreia-swe/medwaster-achievements/internal/services"
)

type AchievementHandler struct {
	engine services.EngineService
	replay services.ReplayService
}

func NewAchievementHandler(engine services.EngineService, replay services.ReplayService) *AchievementHandler {
	return &AchievementHandler{engine: engine, replay: replay}
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// ListForUser returns every progress row for the user, locked and
// unlocked alike, with the achievement definitions attached.
func (h *AchievementHandler) ListForUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	rows, err := h.engine.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": rows})
}

func (h *AchievementHandler) RecentlyUnlocked(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}
	entries, err := h.engine.GetRecentlyUnlocked(c.Request.Context(), userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"unlocked": entries})
}

// Recalculate replays the user's whole event log through the engine.
// Unlocks already recorded stay untouched; only missed progress moves.
func (h *AchievementHandler) Recalculate(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	summary, err := h.replay.Recalculate(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, summary)
}
