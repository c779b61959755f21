package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	achv "github.com/dancorreia-swe/medwaster-achievements/internal/domain/achievements"
	"github.com/dancorreia-swe/medwaster-achievements/internal/platform/logger"
)

// UnlockPublisher fans engine outcomes out to interested collaborators (the
// mobile app's realtime layer, mostly). Publishing is best effort: failures
// are logged and never affect event processing.
type UnlockPublisher interface {
	PublishUnlocked(ctx context.Context, userID uuid.UUID, a *achv.Achievement)
	PublishProgress(ctx context.Context, userID uuid.UUID, a *achv.Achievement, newValue float64)
}

type achievementMessage struct {
	Event         string    `json:"event"`
	UserID        uuid.UUID `json:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Difficulty    string    `json:"difficulty"`
	Value         float64   `json:"value,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type redisUnlockPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisUnlockPublisher connects to the redis bus named by REDIS_ADDR.
// The channel defaults to "achievements" (ACHIEVEMENTS_CHANNEL overrides).
func NewRedisUnlockPublisher(log *logger.Logger) (UnlockPublisher, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := strings.TrimSpace(os.Getenv("ACHIEVEMENTS_CHANNEL"))
	if channel == "" {
		channel = "achievements"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisUnlockPublisher{
		log:     log.With("service", "UnlockPublisher"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (p *redisUnlockPublisher) PublishUnlocked(ctx context.Context, userID uuid.UUID, a *achv.Achievement) {
	p.publish(ctx, achievementMessage{
		Event:         "achievement.unlocked",
		UserID:        userID,
		AchievementID: a.ID,
		Slug:          a.Slug,
		Name:          a.Name,
		Category:      string(a.Category),
		Difficulty:    string(a.Difficulty),
		Timestamp:     time.Now().UTC(),
	})
}

func (p *redisUnlockPublisher) PublishProgress(ctx context.Context, userID uuid.UUID, a *achv.Achievement, newValue float64) {
	p.publish(ctx, achievementMessage{
		Event:         "achievement.progress",
		UserID:        userID,
		AchievementID: a.ID,
		Slug:          a.Slug,
		Name:          a.Name,
		Category:      string(a.Category),
		Difficulty:    string(a.Difficulty),
		Value:         newValue,
		Timestamp:     time.Now().UTC(),
	})
}

func (p *redisUnlockPublisher) publish(ctx context.Context, msg achievementMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		p.log.Warn("marshal achievement message", "error", err)
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		p.log.Warn("publish achievement message", "event", msg.Event, "error", err)
	}
}
