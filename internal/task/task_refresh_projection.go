package task

import (
	"context"
	"sync"
	"time"

	"github.com/kanbanstr/board-sync-service/internal/app"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshProjectionTask periodically reloads the board snapshots from the
// relays so the served view converges even without local writes.
type RefreshProjectionTask struct {
	app    *app.App
	logger *zap.Logger

	mu       sync.Mutex
	schedule cron.Schedule
	lastRun  time.Time
}

// Name returns the task name
func (t *RefreshProjectionTask) Name() string {
	return "RefreshProjection"
}

// LoopInterval returns the execution interval (every minute)
func (t *RefreshProjectionTask) LoopInterval() time.Duration {
	return 1 * time.Minute
}

// IsStartupRun returns whether to run on startup
func (t *RefreshProjectionTask) IsStartupRun() bool {
	return true
}

// Run reloads the snapshots when the configured schedule is due.
func (t *RefreshProjectionTask) Run(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	due := !t.schedule.Next(t.lastRun).After(now)
	if due {
		t.lastRun = now
	}
	t.mu.Unlock()

	if !due {
		return nil
	}

	if err := t.app.Projection.RefreshAll(ctx); err != nil {
		t.logger.Warn("projection refresh failed", zap.Error(err))
		return err
	}
	return nil
}

// NewRefreshProjectionTask creates a new RefreshProjectionTask instance
func NewRefreshProjectionTask(appContainer *app.App) (Task, error) {
	spec := appContainer.Config().App.RefreshCron
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &RefreshProjectionTask{
		app:      appContainer,
		logger:   appContainer.Logger(),
		schedule: schedule,
		// startup run handles the first refresh, the loop follows the schedule
		lastRun: time.Now(),
	}, nil
}

// init registers the refresh task
func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewRefreshProjectionTask(appContainer)
	})
}
