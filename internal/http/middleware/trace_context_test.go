package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/ctxutil"
)

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/api/events/ping", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/events/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	traceID := rec.Header().Get("X-Trace-Id")
	reqID := rec.Header().Get("X-Request-Id")
	if traceID == "" || reqID == "" {
		t.Fatalf("expected generated correlation headers, got trace=%q request=%q", traceID, reqID)
	}
	if seen == nil {
		t.Fatal("trace data missing from request context")
	}
	if seen.TraceID != traceID || seen.RequestID != reqID {
		t.Fatalf("context/header mismatch: ctx=%+v trace=%q request=%q", seen, traceID, reqID)
	}
}

func TestAttachTraceContextEchoesIncomingIDs(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/healthcheck", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("X-Trace-Id", "trace-from-upstream")
	req.Header.Set("X-Request-Id", "req-from-upstream")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-Id"); got != "trace-from-upstream" {
		t.Fatalf("unexpected trace id: got=%q", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-from-upstream" {
		t.Fatalf("unexpected request id: got=%q", got)
	}
}
