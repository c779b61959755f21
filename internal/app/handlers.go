package app

import (
	httpH "github.com/dancorreia-swe/medwaster-achievements/internal/http/handlers"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

type Handlers struct {
	Event        *httpH.EventHandler
	Achievement  *httpH.AchievementHandler
	Notification *httpH.NotificationHandler
	Admin        *httpH.AdminHandler
	Health       *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Event:        httpH.NewEventHandler(s.Engine),
		Achievement:  httpH.NewAchievementHandler(s.Engine, s.Replay),
		Notification: httpH.NewNotificationHandler(s.Notifications),
		Admin:        httpH.NewAdminHandler(s.Catalog, s.Stats),
		Health:       httpH.NewHealthHandler(),
	}
}
