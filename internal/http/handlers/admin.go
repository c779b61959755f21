package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dancorreia-swe/medwaster-achievements/internal/http/response"
	"github.com/dancorreia-swe/medwaster-achievements/internal/services"
)

// AdminHandler exposes the back-office surface: catalog CRUD and the
// aggregate stats recompute.
type AdminHandler struct {
	catalog services.CatalogService
	stats   services.StatsService
}

func NewAdminHandler(catalog services.CatalogService, stats services.StatsService) *AdminHandler {
	return &AdminHandler{catalog: catalog, stats: stats}
}

func (h *AdminHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 50)
	rows, err := h.catalog.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": rows, "page": page})
}

func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := achievementIDParam(c)
	if !ok {
		return
	}
	row, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievement": row})
}

func (h *AdminHandler) Create(c *gin.Context) {
	var input services.CreateAchievementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	row, err := h.catalog.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"achievement": row})
}

func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := achievementIDParam(c)
	if !ok {
		return
	}
	var input services.UpdateAchievementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	row, err := h.catalog.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievement": row})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := achievementIDParam(c)
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *AdminHandler) ListStats(c *gin.Context) {
	rows, err := h.stats.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": rows})
}

func (h *AdminHandler) RecomputeStats(c *gin.Context) {
	n, err := h.stats.Recompute(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recomputed": n})
}

func achievementIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_achievement_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
