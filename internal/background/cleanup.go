package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ViewExpirer deactivates views that have not been touched since a cutoff
type ViewExpirer interface {
	ExpireIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// SessionPurger removes expired login sessions
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// CleanupManager periodically deactivates abandoned views and purges expired sessions
type CleanupManager struct {
	views    ViewExpirer
	sessions SessionPurger
	logger   *slog.Logger
	interval time.Duration
	idleTTL  time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	views ViewExpirer,
	sessions SessionPurger,
	logger *slog.Logger,
	interval time.Duration,
	idleTTL time.Duration,
) *CleanupManager {
	return &CleanupManager{
		views:    views,
		sessions: sessions,
		logger:   logger,
		interval: interval,
		idleTTL:  idleTTL,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup expires idle views, then expired sessions. A failure in one does not skip the other.
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	expired, err := cm.views.ExpireIdle(cleanupCtx, cm.now().Add(-cm.idleTTL))
	if err != nil {
		cm.logger.Error("failed to expire idle views", slog.Any("error", err))
	} else if expired > 0 {
		cm.logger.Info("idle views expired", slog.Int("views", expired))
	}

	rowsDeleted, err := cm.sessions.PurgeExpiredSessions(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to purge expired sessions", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("expired session cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop. It is safe to call more than once.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}
