// Package schedule provides an in-process scheduler that fires named
// callbacks at fixed intervals, cron expressions, or one-time deadlines.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	tenderrors "github.com/greenthumb-labs/tend/internal/errors"
	"github.com/greenthumb-labs/tend/internal/logger"
	"github.com/greenthumb-labs/tend/internal/metrics"
)

// DefaultPollInterval is how often the scheduler checks for due jobs
const DefaultPollInterval = 60 * time.Second

// Scheduler runs registered jobs from a single background goroutine.
// Due jobs within one tick execute sequentially, in registration order;
// a callback error or panic is caught, logged, and never aborts the
// tick or deregisters other jobs.
type Scheduler struct {
	mu           sync.Mutex
	jobs         []*Job
	pollInterval time.Duration
	parser       cron.Parser

	running  bool
	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	log logger.Logger
}

// New creates a scheduler with the default 60-second poll interval
func New() *Scheduler {
	return &Scheduler{
		pollInterval: DefaultPollInterval,
		parser:       cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		log:          logger.Default().WithComponent(logger.ComponentScheduler),
	}
}

// SetPollInterval overrides the tick cadence (for testing or tuning).
// Must be called before Start.
func (s *Scheduler) SetPollInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollInterval = d
}

// AddRecurring registers a job that runs every interval. With
// startImmediately the first tick after Start triggers it; otherwise
// the first run is one full interval out. Duplicate names are
// permitted and run independently.
func (s *Scheduler) AddRecurring(name string, fn JobFunc, interval time.Duration, startImmediately bool) {
	nextRun := time.Now()
	if !startImmediately {
		nextRun = nextRun.Add(interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &Job{
		Name:     name,
		fn:       fn,
		interval: interval,
		nextRun:  nextRun,
	})
}

// AddOneTime registers a job that fires once at runAt and is then
// removed from the active set
func (s *Scheduler) AddOneTime(name string, fn JobFunc, runAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &Job{
		Name:    name,
		fn:      fn,
		nextRun: runAt,
	})
}

// AddCron registers a job driven by a standard 5-field cron expression,
// for work that needs calendar alignment rather than a fixed interval
func (s *Scheduler) AddCron(name string, fn JobFunc, expr string) error {
	sched, err := s.parser.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &Job{
		Name:      name,
		fn:        fn,
		cronSched: sched,
		nextRun:   sched.Next(time.Now()),
	})
	return nil
}

// Start begins the polling loop on a background goroutine. Calling
// Start while already running is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	interval := s.pollInterval
	count := len(s.jobs)
	s.mu.Unlock()

	s.log.Info("Scheduler started", "poll_interval", interval, "jobs", count)

	s.wg.Add(1)
	go s.run(ctx, interval)
}

// Stop signals the loop to exit and blocks until the goroutine has
// finished, guaranteeing no tick is left partially executed
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Scheduler stopped")
}

// run is the polling loop
func (s *Scheduler) run(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First pass runs before any sleep so immediate jobs fire at
	// startup instead of one poll interval later
	s.tick(ctx, time.Now())

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.tick(ctx, time.Now())
		}
	}
}

// tick runs every due job once and reschedules or removes it.
// Callbacks execute outside the job-list lock so a slow job cannot
// block registration queries, but still strictly one at a time.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	metrics.Default().RecordTick()

	s.mu.Lock()
	due := make([]*Job, 0)
	for _, j := range s.jobs {
		if !j.nextRun.After(now) {
			due = append(due, j)
		}
	}
	s.mu.Unlock()

	fired := make(map[*Job]bool, len(due))

	for _, j := range due {
		start := time.Now()
		err := tenderrors.SafeCall(ctx, j.fn)
		duration := time.Since(start)

		metrics.Default().RecordJobRun(j.Name, duration, err != nil)

		if err != nil {
			// A failing job is logged and skipped; a recurring job is
			// still rescheduled so one bad cycle never disables it.
			var panicErr *tenderrors.PanicError
			if errors.As(err, &panicErr) {
				s.log.Error("Scheduled job panicked",
					"job", j.Name,
					"duration", duration,
					"error", tenderrors.FormatPanicForLog(panicErr))
			} else {
				s.log.Error("Scheduled job failed",
					"job", j.Name,
					"duration", duration,
					"error", err)
			}
		} else {
			s.log.Debug("Scheduled job ran",
				"job", j.Name,
				"duration", duration)
		}

		s.mu.Lock()
		if err == nil {
			j.lastRun = now
		}
		switch j.Type() {
		case TypeCron:
			j.nextRun = j.cronSched.Next(now)
		case TypeRecurring:
			j.nextRun = now.Add(j.interval)
		case TypeOneTime:
			fired[j] = true
		}
		s.mu.Unlock()
	}

	if len(fired) == 0 {
		return
	}

	s.mu.Lock()
	remaining := s.jobs[:0]
	for _, j := range s.jobs {
		if !fired[j] {
			remaining = append(remaining, j)
		}
	}
	s.jobs = remaining
	s.mu.Unlock()
}

// Upcoming returns jobs due within the window, sorted ascending by
// next-run time. Read-only; scheduler state is not mutated.
func (s *Scheduler) Upcoming(window time.Duration) []UpcomingJob {
	cutoff := time.Now().Add(window)

	s.mu.Lock()
	upcoming := make([]UpcomingJob, 0)
	for _, j := range s.jobs {
		if !j.nextRun.After(cutoff) {
			upcoming = append(upcoming, UpcomingJob{
				Name:    j.Name,
				NextRun: j.nextRun,
				Type:    j.Type(),
			})
		}
	}
	s.mu.Unlock()

	sort.Slice(upcoming, func(i, k int) bool {
		return upcoming[i].NextRun.Before(upcoming[k].NextRun)
	})
	return upcoming
}

// Jobs returns a snapshot of the active job set (for monitoring)
func (s *Scheduler) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	return jobs
}

// Count returns the number of active jobs
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
