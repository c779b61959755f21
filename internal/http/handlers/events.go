package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	"github.com/dancorreia-swe/medwaster-achievements/internal/http/response"
	"github.com/dancorreia-swe/medwaster-achievements/internal/services"
)

type EventHandler struct {
	engine services.EngineService
}

func NewEventHandler(engine services.EngineService) *EventHandler {
	return &EventHandler{engine: engine}
}

type trackEventRequest struct {
	UserID    uuid.UUID              `json:"user_id"`
	EventType achv.EventType         `json:"event_type"`
	EventData map[string]interface{} `json:"event_data"`
}

// Track records an activity event and runs it through the engine.
// The failure of a single achievement never fails the request; per
// achievement errors land on the stored event row instead.
func (h *EventHandler) Track(c *gin.Context) {
	var req trackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	event, err := h.engine.TrackEvent(c.Request.Context(), req.UserID, req.EventType, req.EventData)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"event": event,
	})
}

// Get returns a single stored event, mainly for inspecting processing
// bookkeeping after the fact.
func (h *EventHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_event_id", err)
		return
	}
	event, err := h.engine.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": event})
}
