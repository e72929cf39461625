package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is the callback a scheduled job runs on each firing
type JobFunc func(ctx context.Context) error

// JobType classifies how a job reschedules itself
type JobType string

const (
	// TypeRecurring reschedules a fixed interval after each run
	TypeRecurring JobType = "recurring"
	// TypeOneTime fires once and is removed from the active set
	TypeOneTime JobType = "one-time"
	// TypeCron reschedules from a cron expression after each run
	TypeCron JobType = "cron"
)

// Job is one registration in the scheduler. Jobs live only in memory;
// the active set is owned by the scheduler and rebuilt on process start.
type Job struct {
	// Name is a descriptive label. Names are not required to be unique;
	// duplicate registrations run independently.
	Name string

	fn        JobFunc
	interval  time.Duration // zero for one-time and cron jobs
	cronSched cron.Schedule // non-nil for cron jobs
	nextRun   time.Time
	lastRun   time.Time
}

// Type reports how the job reschedules
func (j *Job) Type() JobType {
	switch {
	case j.cronSched != nil:
		return TypeCron
	case j.interval > 0:
		return TypeRecurring
	default:
		return TypeOneTime
	}
}

// NextRun returns when the job is next due
func (j *Job) NextRun() time.Time {
	return j.nextRun
}

// LastRun returns when the job last completed successfully; zero if
// it never has
func (j *Job) LastRun() time.Time {
	return j.lastRun
}

// UpcomingJob describes a job due within a query window
type UpcomingJob struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run"`
	Type    JobType   `json:"type"`
}
