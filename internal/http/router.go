package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/dancorreia-swe/medwaster-achievements/internal/http/handlers"
	httpMW "github.com/dancorreia-swe/medwaster-achievements/internal/http/middleware"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

const serviceName = "medwaster-achievements"

type RouterConfig struct {
	Log *logger.Logger


	EventHandler        *httpH.EventHandler
	AchievementHandler  *httpH.AchievementHandler
	NotificationHandler *httpH.NotificationHandler
	AdminHandler        *httpH.AdminHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Event ingestion
		if cfg.EventHandler != nil {
			api.POST("/events/track", cfg.EventHandler.Track)
			api.GET("/events/:id", cfg.EventHandler.Get)
		}

		// User-facing achievement reads
		if cfg.AchievementHandler != nil {
			api.GET("/users/:userId/achievements", cfg.AchievementHandler.ListForUser)
			api.GET("/users/:userId/achievements/recent", cfg.AchievementHandler.RecentlyUnlocked)
			api.POST("/users/:userId/achievements/recalculate", cfg.AchievementHandler.Recalculate)
		}

		// Notification ledger
		if cfg.NotificationHandler != nil {
			api.GET("/users/:userId/achievements/unnotified", cfg.NotificationHandler.Unnotified)
			api.GET("/users/:userId/achievements/notification-stats", cfg.NotificationHandler.Stats)
			api.POST("/users/:userId/achievements/:achievementId/notified", cfg.NotificationHandler.MarkNotified)
			api.POST("/users/:userId/achievements/:achievementId/viewed", cfg.NotificationHandler.MarkViewed)
			api.POST("/users/:userId/achievements/:achievementId/claimed", cfg.NotificationHandler.MarkClaimed)
		}

		// Back office
		if cfg.AdminHandler != nil {
			admin := api.Group("/admin")
			admin.GET("/achievements", cfg.AdminHandler.List)
			admin.POST("/achievements", cfg.AdminHandler.Create)
			admin.GET("/achievements/stats", cfg.AdminHandler.ListStats)
			admin.POST("/achievements/stats/recompute", cfg.AdminHandler.RecomputeStats)
			admin.GET("/achievements/:id", cfg.AdminHandler.Get)
			admin.PATCH("/achievements/:id", cfg.AdminHandler.Update)
			admin.DELETE("/achievements/:id", cfg.AdminHandler.Delete)
		}
	}

	return r
}
