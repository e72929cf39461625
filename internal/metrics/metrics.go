package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/greenthumb-labs/tend/internal/garden"
)

// Collector is the global metrics collector instance
var (
	globalCollector *Collector
	once            sync.Once
)

// Collector tracks system-wide metrics in memory
type Collector struct {
	// Counters (atomic for thread-safety)
	totalTasksGenerated   atomic.Int64
	totalTasksCompleted   atomic.Int64
	totalNotifications    atomic.Int64
	totalSchedulerTicks   atomic.Int64
	totalCallbackFailures atomic.Int64

	// Job run tracking (protected by mutex)
	mu             sync.RWMutex
	tasksByType    map[garden.TaskType]int64
	runsByJob      map[string]int64
	totalDuration  time.Duration
	operationCount int64
	startTime      time.Time
}

// Metrics represents a snapshot of current system metrics
type Metrics struct {
	TotalTasksGenerated   int64                     `json:"total_tasks_generated"`
	TotalTasksCompleted   int64                     `json:"total_tasks_completed"`
	TotalNotifications    int64                     `json:"total_notifications"`
	TotalSchedulerTicks   int64                     `json:"total_scheduler_ticks"`
	TotalCallbackFailures int64                     `json:"total_callback_failures"`
	TasksByType           map[garden.TaskType]int64 `json:"tasks_by_type"`
	RunsByJob             map[string]int64          `json:"runs_by_job"`
	AvgJobDuration        time.Duration             `json:"avg_job_duration"`
	FailureRate           float64                   `json:"failure_rate"`
	Uptime                time.Duration             `json:"uptime"`
}

// Default returns the global metrics collector instance
func Default() *Collector {
	once.Do(func() {
		globalCollector = NewCollector()
	})
	return globalCollector
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		tasksByType: make(map[garden.TaskType]int64),
		runsByJob:   make(map[string]int64),
		startTime:   time.Now(),
	}
}

// RecordTasksGenerated counts care tasks created by the plan generator
func (c *Collector) RecordTasksGenerated(count int) {
	c.totalTasksGenerated.Add(int64(count))
}

// RecordTaskCompleted counts a user completing a care task
func (c *Collector) RecordTaskCompleted(taskType garden.TaskType) {
	c.totalTasksCompleted.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasksByType[taskType]++
}

// RecordNotification counts an emitted reminder notification
func (c *Collector) RecordNotification() {
	c.totalNotifications.Add(1)
}

// RecordTick counts one scheduler polling pass
func (c *Collector) RecordTick() {
	c.totalSchedulerTicks.Add(1)
}

// RecordJobRun records one scheduled-job execution and its duration
func (c *Collector) RecordJobRun(name string, duration time.Duration, failed bool) {
	if failed {
		c.totalCallbackFailures.Add(1)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.runsByJob[name]++
	c.totalDuration += duration
	c.operationCount++
}

// GetMetrics returns a snapshot of current metrics
func (c *Collector) GetMetrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tasksByType := make(map[garden.TaskType]int64, len(c.tasksByType))
	for k, v := range c.tasksByType {
		tasksByType[k] = v
	}

	runsByJob := make(map[string]int64, len(c.runsByJob))
	for k, v := range c.runsByJob {
		runsByJob[k] = v
	}

	var avgDuration time.Duration
	if c.operationCount > 0 {
		avgDuration = c.totalDuration / time.Duration(c.operationCount)
	}

	var failureRate float64
	if c.operationCount > 0 {
		failureRate = float64(c.totalCallbackFailures.Load()) / float64(c.operationCount) * 100
	}

	return Metrics{
		TotalTasksGenerated:   c.totalTasksGenerated.Load(),
		TotalTasksCompleted:   c.totalTasksCompleted.Load(),
		TotalNotifications:    c.totalNotifications.Load(),
		TotalSchedulerTicks:   c.totalSchedulerTicks.Load(),
		TotalCallbackFailures: c.totalCallbackFailures.Load(),
		TasksByType:           tasksByType,
		RunsByJob:             runsByJob,
		AvgJobDuration:        avgDuration,
		FailureRate:           failureRate,
		Uptime:                time.Since(c.startTime),
	}
}

// Reset clears all metrics (useful for testing)
func (c *Collector) Reset() {
	c.totalTasksGenerated.Store(0)
	c.totalTasksCompleted.Store(0)
	c.totalNotifications.Store(0)
	c.totalSchedulerTicks.Store(0)
	c.totalCallbackFailures.Store(0)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasksByType = make(map[garden.TaskType]int64)
	c.runsByJob = make(map[string]int64)
	c.totalDuration = 0
	c.operationCount = 0
	c.startTime = time.Now()
}

// GetMetrics returns metrics from the global collector
func GetMetrics() Metrics {
	return Default().GetMetrics()
}

// ResetMetrics resets the global collector
func ResetMetrics() {
	Default().Reset()
}
