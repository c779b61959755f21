package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	achvrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/achievements"
	activityrepo "github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/activity"
	"github.com/dancorreia-swe/medwaster-achievements/internal/data/repos/testutil"
	httpH "github.com/dancorreia-swe/medwaster-achievements/internal/http/handlers"
	"github.com/dancorreia-swe/medwaster-achievements/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	catalogRp := achvrepo.NewAchievementRepo(gdb, log)
	events := achvrepo.NewEventRepo(gdb, log)
	progress := achvrepo.NewUserAchievementRepo(gdb, log)
	history := achvrepo.NewHistoryRepo(gdb, log)
	statRp := achvrepo.NewStatRepo(gdb, log)
	aggregates := activityrepo.NewAggregateRepo(gdb, log)

	evaluator := services.NewProgressEvaluator(gdb, log, progress, aggregates)
	engine := services.NewEngineService(gdb, log, catalogRp, events, progress, history, evaluator, nil)
	replay := services.NewReplayService(gdb, log, events, progress, engine)
	notify := services.NewNotificationService(gdb, log, progress)
	catalog := services.NewCatalogService(gdb, log, catalogRp)
	stats := services.NewStatsService(gdb, log, catalogRp, progress, statRp)

	return NewRouter(RouterConfig{
		EventHandler:        httpH.NewEventHandler(engine),
		AchievementHandler:  httpH.NewAchievementHandler(engine, replay),
		NotificationHandler: httpH.NewNotificationHandler(notify),
		AdminHandler:        httpH.NewAdminHandler(catalog, stats),
		HealthHandler:       httpH.NewHealthHandler(),
	})
}

func TestRouter_Healthcheck(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestRouter_TrackEventAndRead(t *testing.T) {
	r := newTestRouter(t)
	userID := uuid.New()

	body, _ := json.Marshal(map[string]interface{}{
		"user_id":    userID,
		"event_type": "first_login",
		"event_data": map[string]interface{}{"eventType": "first_login"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events/track", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("track: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var tracked struct {
		Event struct {
			ID        uuid.UUID `json:"id"`
			Processed bool      `json:"processed"`
		} `json:"event"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tracked); err != nil {
		t.Fatalf("decode track response: %v", err)
	}
	if !tracked.Event.Processed {
		t.Fatalf("expected processed event, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/events/%s", tracked.Event.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get event: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/users/%s/achievements", userID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list achievements: expected 200, got %d", w.Code)
	}
}

func TestRouter_BadRequests(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events/track", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/not-a-uuid/achievements", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad user id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/admin/achievements/%s", uuid.New()), nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown achievement, got %d", w.Code)
	}
}

func TestRouter_AdminCatalogFlow(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"slug":        "router-made",
		"name":        "Router Made",
		"description": "created through the admin surface",
		"category":    "general",
		"trigger": map[string]interface{}{
			"type":       "first_login",
			"conditions": map[string]interface{}{},
		},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/achievements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Achievement struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"achievement"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Achievement.Status != "draft" {
		t.Fatalf("expected draft default, got %q", created.Achievement.Status)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/achievements", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/admin/achievements/%s", created.Achievement.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
}
