// Package autosave fires a trigger at a fixed interval.
package autosave

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultInterval matches the recovery cadence of the editor.
const DefaultInterval = 30 * time.Second

var ErrRunning = errors.New("autosave: already running")

// Scheduler runs a trigger every interval. The trigger should only hand
// work to the goroutine that owns the diagram; it must not touch the
// diagram itself.
type Scheduler struct {
	interval time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

func New(interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{interval: interval, logger: logger}
}

// Interval returns the effective interval. cron schedules at whole
// seconds, so shorter intervals run once a second.
func (s *Scheduler) Interval() time.Duration {
	if s.interval < time.Second {
		return time.Second
	}
	return s.interval.Round(time.Second)
}

// Start begins firing trigger. Overlapping runs are skipped.
func (s *Scheduler) Start(trigger func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return ErrRunning
	}
	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(cron.Every(s.interval), cron.FuncJob(trigger))
	c.Start()
	s.cron = c
	s.logger.Info("autosave started", slog.Duration("interval", s.Interval()))
	return nil
}

// Stop halts the schedule and waits for a running trigger to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("autosave stopped")
}
