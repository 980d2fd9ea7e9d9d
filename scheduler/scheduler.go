// Package scheduler runs the background housekeeping of the patient
// application: evicting idle sessions and pruning old log files.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/hospi/interfaces"
	"github.com/giygas/hospi/logging"
	"github.com/go-co-op/gocron"
)

// logPruneTime is when the daily log cleanup runs, local time
const logPruneTime = "03:00"

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles session eviction and log retention using dependency injection
type Scheduler struct {
	sessions      interfaces.SessionStore
	idleTimeout   time.Duration
	sweepInterval time.Duration
	pruneLogs     func() (int, error)
	now           func() time.Time
	scheduler     *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(sessions interfaces.SessionStore, idleTimeout, sweepInterval time.Duration) *Scheduler {
	return &Scheduler{
		sessions:      sessions,
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
		pruneLogs:     logging.PruneOldLogs,
		now:           time.Now,
		scheduler:     gocron.NewScheduler(time.Local),
	}
}

// Start registers the jobs and starts the scheduler in the background
func (s *Scheduler) Start() error {
	if s.sweepInterval <= 0 {
		return fmt.Errorf("invalid sweep interval: %s", s.sweepInterval)
	}

	_, err := s.scheduler.Every(s.sweepInterval).SingletonMode().Do(s.sweepSessions)
	if err != nil {
		logging.Error("Failed to schedule session sweep", "error", err)
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	_, err = s.scheduler.Every(1).Days().At(logPruneTime).Do(s.pruneLogFiles)
	if err != nil {
		logging.Error("Failed to schedule log pruning", "error", err)
		return fmt.Errorf("failed to schedule log pruning: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started",
		"sweep_interval", s.sweepInterval.String(),
		"idle_timeout", s.idleTimeout.String(),
		"log_prune_at", logPruneTime,
	)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sweepSessions evicts sessions idle for longer than the idle timeout
func (s *Scheduler) sweepSessions() int {
	start := time.Now()
	evicted := s.sessions.Sweep(s.idleTimeout, s.now())
	logging.Debug("Session sweep completed", "evicted", evicted, "duration", time.Since(start).String())
	return evicted
}

// pruneLogFiles removes log files past the retention period
func (s *Scheduler) pruneLogFiles() {
	removed, err := s.pruneLogs()
	if err != nil {
		logging.Warn("Failed to prune log files", "error", err)
		return
	}
	if removed > 0 {
		logging.Info("Old log files removed", "count", removed)
	}
}
