package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultCleanupSchedule runs the cleanup every hour at minute 15
const DefaultCleanupSchedule = "15 * * * *"

// ExpiredDeleter is the interface that wraps deletion of expired rows
type ExpiredDeleter interface {
	// Method DeleteExpired deletes rows expired before the given time and returns their count.
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

// Cleaner removes expired auth codes and refresh tokens
type Cleaner struct {
	authCodes ExpiredDeleter
	tokens    ExpiredDeleter
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewCleaner creates a new cleaner
func NewCleaner(authCodes, tokens ExpiredDeleter, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		authCodes: authCodes,
		tokens:    tokens,
		logger:    logger,
		timeout:   time.Minute,
		now:       time.Now,
	}
}

// Run deletes expired rows once. Both deletions are attempted even if the first fails.
func (c *Cleaner) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	now := c.now()
	codes, codesErr := c.authCodes.DeleteExpired(ctx, now)
	if codesErr != nil {
		c.logger.Error("failed to delete expired auth codes", zap.Error(codesErr))
	}
	tokens, tokensErr := c.tokens.DeleteExpired(ctx, now)
	if tokensErr != nil {
		c.logger.Error("failed to delete expired refresh tokens", zap.Error(tokensErr))
	}

	if codesErr != nil || tokensErr != nil {
		return fmt.Errorf("cleanup failed")
	}

	c.logger.Info("expired rows deleted", zap.Int("auth_codes", codes), zap.Int("refresh_tokens", tokens))
	return nil
}

// Schedule registers the cleanup on a cron scheduler
func (c *Cleaner) Schedule(scheduler *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := scheduler.AddFunc(spec, func() {
		_ = c.Run(context.Background())
	})
	if err != nil {
		return 0, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	return id, nil
}
