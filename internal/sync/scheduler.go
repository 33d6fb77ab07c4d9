package sync

import (
	"context"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/avielas/tripsync/internal/logging"
)

// DefaultInterval is the background flush period. Sync is a background,
// user-invisible operation; a coarse interval keeps remote traffic low and
// makes plain next-interval retry acceptable without backoff.
const DefaultInterval = 5 * time.Minute

// Scheduler triggers the orchestrator on a fixed interval while the
// application runs, and synchronously on demand for the logout path.
//
// A mutex serializes orchestrator runs: at most one flush executes per
// process, and a tick that fires during a long flush waits its turn. The
// in-progress flag is advisory, for a non-blocking UI indicator.
type Scheduler struct {
	orch     *Orchestrator
	interval time.Duration
	log      logging.Logger

	mu         stdsync.Mutex
	inProgress atomic.Bool
}

func NewScheduler(orch *Orchestrator, interval time.Duration, log logging.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Scheduler{orch: orch, interval: interval, log: log}
}

// Run flushes on every tick until ctx is cancelled. Background failures are
// logged and otherwise invisible; they self-heal on a later interval. An
// in-flight flush is never aborted mid-batch, cancellation only stops the
// ticker.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := s.flush(ctx)
			if err != nil {
				s.log.Error(ctx, "background flush error", "error", err)
				continue
			}
			if !report.Clean() {
				s.log.Warn(ctx, "background flush left dirty trips",
					"still_dirty", len(report.StillDirty))
			}

		case <-ctx.Done():
			return
		}
	}
}

// FlushNow runs one awaited flush. The logout path calls it before the
// session ends so that "sign out" cannot race ahead of "flush drafts"; the
// caller may surface a warning when the report is not clean.
func (s *Scheduler) FlushNow(ctx context.Context) (Report, error) {
	return s.flush(ctx)
}

// InProgress reports whether a flush is currently executing.
func (s *Scheduler) InProgress() bool {
	return s.inProgress.Load()
}

func (s *Scheduler) flush(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inProgress.Store(true)
	defer s.inProgress.Store(false)

	return s.orch.Flush(ctx)
}
