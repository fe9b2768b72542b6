package user

import (
	"context"
	"time"

	"jobbee-api/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartResetTokenCleanup schedules an hourly sweep of expired password-reset
// tokens. The returned cron is already running; stop it on shutdown.
func (s *Service) StartResetTokenCleanup() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cleared, err := s.userRepo.ClearExpiredResetTokens(ctx, time.Now())
		if err != nil {
			logger.Error("Reset token cleanup failed", zap.Error(err))
			return
		}
		if cleared > 0 {
			logger.Info("Cleared expired reset tokens",
				zap.Int64("count", cleared),
				zap.String("event", "reset_tokens_cleared"),
			)
		}
	})
	if err != nil {
		logger.Error("Failed to schedule reset token cleanup", zap.Error(err))
		return c
	}

	c.Start()
	return c
}
