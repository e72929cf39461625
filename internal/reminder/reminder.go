// Package reminder wires the care-plan store, weather provider, and
// scheduler into the recurring notification jobs: a daily care check,
// a six-hourly weather watch, and a weekly planning summary.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greenthumb-labs/tend/internal/garden"
	"github.com/greenthumb-labs/tend/internal/logger"
	"github.com/greenthumb-labs/tend/internal/metrics"
	"github.com/greenthumb-labs/tend/internal/schedule"
	"github.com/greenthumb-labs/tend/internal/weather"
)

// Reminder job cadences
const (
	DailyCareInterval      = 24 * time.Hour
	WeatherUpdateInterval  = 6 * time.Hour
	WeeklyPlanningInterval = 168 * time.Hour
)

// Alert thresholds
const (
	// DefaultHeatAlertTemp triggers the hot-weather alert, Fahrenheit
	DefaultHeatAlertTemp = 90

	// harvestLookaheadDays is the weekly summary's harvest window
	harvestLookaheadDays = 14

	// overdueLookbackDays selects tasks more than a week overdue for
	// the weekly summary
	overdueLookbackDays = -7
)

// TaskStore is the slice of the garden store the reminder jobs read
type TaskStore interface {
	DueTasks(ctx context.Context, withinDays int) ([]*garden.CareTask, error)
	GetPlantedItem(ctx context.Context, id string) (*garden.PlantedItem, error)
	GetPlant(ctx context.Context, id string) (*garden.Plant, error)
}

// Notifier delivers reminder messages to the user
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// CareReminder registers and runs the reminder jobs
type CareReminder struct {
	store    TaskStore
	weather  weather.Provider
	notifier Notifier
	sched    *schedule.Scheduler

	heatAlertTemp int
	log           logger.Logger
}

// New creates a care reminder system on top of an existing scheduler
func New(store TaskStore, provider weather.Provider, notifier Notifier, sched *schedule.Scheduler) *CareReminder {
	return &CareReminder{
		store:         store,
		weather:       provider,
		notifier:      notifier,
		sched:         sched,
		heatAlertTemp: DefaultHeatAlertTemp,
		log:           logger.Default().WithComponent(logger.ComponentReminder),
	}
}

// SetHeatAlertTemp overrides the hot-weather alert threshold
func (r *CareReminder) SetHeatAlertTemp(tempF int) {
	r.heatAlertTemp = tempF
}

// Setup registers the recurring reminder jobs with the scheduler.
// All three start on the first tick after the scheduler starts.
func (r *CareReminder) Setup() {
	r.sched.AddRecurring("daily_care_check", r.CheckDailyCareTasks, DailyCareInterval, true)
	r.sched.AddRecurring("weather_update", r.UpdateWeatherRecommendations, WeatherUpdateInterval, true)
	r.sched.AddRecurring("weekly_planning", r.GenerateWeeklyRecommendations, WeeklyPlanningInterval, true)

	r.log.Info("Reminder jobs registered",
		"daily_care", DailyCareInterval,
		"weather", WeatherUpdateInterval,
		"weekly", WeeklyPlanningInterval)
}

// CheckDailyCareTasks notifies about tasks due within the next day,
// one summary plus one message per task naming the plant
func (r *CareReminder) CheckDailyCareTasks(ctx context.Context) error {
	dueTasks, err := r.store.DueTasks(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to load due tasks: %w", err)
	}

	if len(dueTasks) == 0 {
		r.log.Debug("No tasks due today")
		return nil
	}

	if err := r.notify(ctx, fmt.Sprintf("You have %d garden tasks due today!", len(dueTasks))); err != nil {
		return err
	}

	for _, task := range dueTasks {
		plantName, err := r.plantNameForTask(ctx, task)
		if err != nil {
			// A broken reference must not silence the remaining reminders
			r.log.Warn("Could not resolve plant for task", "task_id", task.ID, "error", err)
			continue
		}
		msg := fmt.Sprintf("Time to %s your %s", task.Type, plantName)
		if err := r.notify(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// UpdateWeatherRecommendations alerts on extreme heat and incoming
// frost
func (r *CareReminder) UpdateWeatherRecommendations(ctx context.Context) error {
	cond, err := r.weather.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current weather: %w", err)
	}

	if cond.Temperature > r.heatAlertTemp {
		if err := r.notify(ctx, "Hot weather alert! Check plant watering needs."); err != nil {
			return err
		}
	}

	forecast, err := r.weather.Forecast(ctx, 5)
	if err != nil {
		return fmt.Errorf("failed to fetch forecast: %w", err)
	}

	if weather.HasFrostWarning(forecast) {
		if err := r.notify(ctx, "Frost warning! Protect sensitive plants."); err != nil {
			return err
		}
	}
	return nil
}

// GenerateWeeklyRecommendations sends one combined summary covering
// overdue tasks and harvests expected within two weeks. No summary is
// sent when there is nothing to report.
func (r *CareReminder) GenerateWeeklyRecommendations(ctx context.Context) error {
	var recommendations []string

	overdue, err := r.store.DueTasks(ctx, overdueLookbackDays)
	if err != nil {
		return fmt.Errorf("failed to load overdue tasks: %w", err)
	}
	if len(overdue) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("%d overdue tasks need attention", len(overdue)))
	}

	upcoming, err := r.store.DueTasks(ctx, harvestLookaheadDays)
	if err != nil {
		return fmt.Errorf("failed to load upcoming tasks: %w", err)
	}
	harvestCount := 0
	for _, task := range upcoming {
		if task.Type == garden.TaskHarvesting {
			harvestCount++
		}
	}
	if harvestCount > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("%d plants ready for harvest soon", harvestCount))
	}

	if len(recommendations) == 0 {
		r.log.Debug("Nothing to report in weekly summary")
		return nil
	}

	msg := "Weekly garden summary: " + strings.Join(recommendations, "; ")
	return r.notify(ctx, msg)
}

// Start begins delivering reminders by starting the scheduler
func (r *CareReminder) Start() {
	r.sched.Start()
}

// Stop halts the scheduler and waits for any in-flight job
func (r *CareReminder) Stop() {
	r.sched.Stop()
}

func (r *CareReminder) plantNameForTask(ctx context.Context, task *garden.CareTask) (string, error) {
	item, err := r.store.GetPlantedItem(ctx, task.PlantedItemID)
	if err != nil {
		return "", err
	}
	plant, err := r.store.GetPlant(ctx, item.PlantID)
	if err != nil {
		return "", err
	}
	return plant.Name, nil
}

func (r *CareReminder) notify(ctx context.Context, message string) error {
	if err := r.notifier.Notify(ctx, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	metrics.Default().RecordNotification()
	return nil
}
