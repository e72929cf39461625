package metrics

import (
	"testing"
	"time"

	"github.com/greenthumb-labs/tend/internal/garden"
)

func TestCollector_RecordsTaskCounters(t *testing.T) {
	c := NewCollector()

	c.RecordTasksGenerated(25)
	c.RecordTasksGenerated(10)
	c.RecordTaskCompleted(garden.TaskWatering)
	c.RecordTaskCompleted(garden.TaskWatering)
	c.RecordTaskCompleted(garden.TaskHarvesting)

	m := c.GetMetrics()
	if m.TotalTasksGenerated != 35 {
		t.Errorf("expected 35 generated, got %d", m.TotalTasksGenerated)
	}
	if m.TotalTasksCompleted != 3 {
		t.Errorf("expected 3 completed, got %d", m.TotalTasksCompleted)
	}
	if m.TasksByType[garden.TaskWatering] != 2 {
		t.Errorf("expected 2 watering completions, got %d", m.TasksByType[garden.TaskWatering])
	}
}

func TestCollector_JobRunsAndFailureRate(t *testing.T) {
	c := NewCollector()

	c.RecordJobRun("daily_care_check", 10*time.Millisecond, false)
	c.RecordJobRun("daily_care_check", 20*time.Millisecond, false)
	c.RecordJobRun("weather_update", 30*time.Millisecond, true)
	c.RecordTick()

	m := c.GetMetrics()
	if m.RunsByJob["daily_care_check"] != 2 {
		t.Errorf("expected 2 runs, got %d", m.RunsByJob["daily_care_check"])
	}
	if m.TotalCallbackFailures != 1 {
		t.Errorf("expected 1 failure, got %d", m.TotalCallbackFailures)
	}
	if m.AvgJobDuration != 20*time.Millisecond {
		t.Errorf("expected avg 20ms, got %v", m.AvgJobDuration)
	}
	if m.FailureRate < 33.0 || m.FailureRate > 34.0 {
		t.Errorf("expected ~33.3%% failure rate, got %f", m.FailureRate)
	}
	if m.TotalSchedulerTicks != 1 {
		t.Errorf("expected 1 tick, got %d", m.TotalSchedulerTicks)
	}
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector()
	c.RecordTasksGenerated(5)
	c.RecordNotification()
	c.Reset()

	m := c.GetMetrics()
	if m.TotalTasksGenerated != 0 || m.TotalNotifications != 0 {
		t.Error("expected counters cleared after reset")
	}
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	if Default() != Default() {
		t.Error("expected global collector to be a singleton")
	}
}
