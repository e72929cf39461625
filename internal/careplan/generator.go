// Package careplan computes the full care-task calendar for a planting.
package careplan

import (
	"time"

	"github.com/greenthumb-labs/tend/internal/garden"
)

// Fertilizing milestones in days after planting. A milestone only yields
// a task when it lands strictly before the harvest date.
var fertilizingOffsetDays = []int{14, 35, 56}

// Generate computes the complete set of care tasks for a planted item.
// It is a pure function of the care profile and planting date: the full
// calendar is produced once, at planting time, never incrementally.
//
// Watering tasks fall every WaterFrequencyDays after planting, strictly
// before the harvest date, so the first watering is never on planting
// day and a frequency at or beyond maturity yields no watering tasks.
// Fertilizing tasks fall on the fixed milestones that precede harvest.
// Exactly one harvesting task is emitted, due on the harvest date.
func Generate(profile garden.CareProfile, plantedItemID string, plantedAt time.Time) ([]garden.CareTask, error) {
	if err := validate(profile, plantedItemID, plantedAt); err != nil {
		return nil, err
	}

	harvestAt := plantedAt.AddDate(0, 0, profile.DaysToMaturity)
	tasks := make([]garden.CareTask, 0, estimateTaskCount(profile))

	for day := profile.WaterFrequencyDays; day < profile.DaysToMaturity; day += profile.WaterFrequencyDays {
		due := plantedAt.AddDate(0, 0, day)
		tasks = append(tasks, garden.NewCareTask(plantedItemID, garden.TaskWatering, due))
	}

	for _, offset := range fertilizingOffsetDays {
		if offset >= profile.DaysToMaturity {
			continue
		}
		due := plantedAt.AddDate(0, 0, offset)
		tasks = append(tasks, garden.NewCareTask(plantedItemID, garden.TaskFertilizing, due))
	}

	tasks = append(tasks, garden.NewCareTask(plantedItemID, garden.TaskHarvesting, harvestAt))

	return tasks, nil
}

// validate checks generator input before any task is created
func validate(profile garden.CareProfile, plantedItemID string, plantedAt time.Time) error {
	if plantedItemID == "" {
		return &garden.ValidationError{Field: "planted_item_id", Reason: "cannot be empty"}
	}
	if plantedAt.IsZero() {
		return &garden.ValidationError{Field: "planted_at", Reason: "must be a valid timestamp"}
	}
	if profile.DaysToMaturity <= 0 {
		return &garden.ValidationError{Field: "days_to_maturity", Reason: "must be positive"}
	}
	if profile.WaterFrequencyDays <= 0 {
		return &garden.ValidationError{Field: "water_frequency_days", Reason: "must be positive"}
	}
	return nil
}

// estimateTaskCount sizes the task slice up front: watering tasks plus
// fertilizing milestones plus the harvest task.
func estimateTaskCount(profile garden.CareProfile) int {
	watering := (profile.DaysToMaturity - 1) / profile.WaterFrequencyDays
	return watering + len(fertilizingOffsetDays) + 1
}
