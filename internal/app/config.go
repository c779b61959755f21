package app

import (
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
	"github.com/dancorreia-swe/medwaster-achievements/internal/utils"
)

type Config struct {
	Port string
	// RedisAddr enables the realtime unlock publisher when set. An empty
	// value leaves the engine fully functional without redis.
	RedisAddr string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:      utils.GetEnv("PORT", "8080", log),
		RedisAddr: utils.GetEnv("REDIS_ADDR", "", log),
	}
}
