package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
)

var ErrSyncInProgress = errors.New("sync already running")

// Locker is a cross-process mutex keyed by name.
type Locker interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// RunningChecker reports whether a run started after since is still open.
type RunningChecker interface {
	HasRunningSince(ctx context.Context, since time.Time) (bool, error)
}

// RunGuard admits at most one run at a time. The in-process mutex always
// applies; the distributed lock and the RUNNING log check apply when set.
type RunGuard struct {
	mu sync.Mutex

	key        string
	locker     Locker
	running    RunningChecker
	staleAfter time.Duration
	now        func() time.Time
	logger     arbor.ILogger
}

func NewRunGuard(key string, locker Locker, running RunningChecker, staleAfter time.Duration, logger arbor.ILogger) *RunGuard {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}
	return &RunGuard{
		key:        key,
		locker:     locker,
		running:    running,
		staleAfter: staleAfter,
		now:        time.Now,
		logger:     logger,
	}
}

// Acquire returns a release func or ErrSyncInProgress. Lock backend errors
// are logged and do not block the run.
func (g *RunGuard) Acquire(ctx context.Context) (func(), error) {
	if !g.mu.TryLock() {
		return nil, ErrSyncInProgress
	}

	if g.running != nil {
		busy, err := g.running.HasRunningSince(ctx, g.now().Add(-g.staleAfter))
		if err != nil {
			g.logger.Warn().Err(err).Str("guard", g.key).Msg("running check failed")
		}
		if busy {
			g.mu.Unlock()
			return nil, ErrSyncInProgress
		}
	}

	token := ""
	if g.locker != nil {
		token = uuid.NewString()
		ok, err := g.locker.AcquireLock(ctx, g.key, token, g.staleAfter)
		if err != nil {
			g.logger.Warn().Err(err).Str("guard", g.key).Msg("distributed lock unavailable")
			token = ""
		} else if !ok {
			g.mu.Unlock()
			return nil, ErrSyncInProgress
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if token != "" {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := g.locker.ReleaseLock(ctx, g.key, token); err != nil {
					g.logger.Warn().Err(err).Str("guard", g.key).Msg("release lock failed")
				}
				cancel()
			}
			g.mu.Unlock()
		})
	}, nil
}
