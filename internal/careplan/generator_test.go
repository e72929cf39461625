package careplan

import (
	"errors"
	"testing"
	"time"

	"github.com/greenthumb-labs/tend/internal/garden"
)

var plantedAt = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func countByType(tasks []garden.CareTask, taskType garden.TaskType) int {
	n := 0
	for _, task := range tasks {
		if task.Type == taskType {
			n++
		}
	}
	return n
}

func TestGenerate_WateringCountMatchesFormula(t *testing.T) {
	// Watering tasks fall at F, 2F, ... strictly before harvest, so the
	// count is floor((D-1)/F).
	cases := []struct {
		maturity  int
		frequency int
	}{
		{60, 3},
		{65, 3},
		{60, 7},
		{10, 2},
		{90, 7},
		{14, 14}, // frequency == maturity: zero watering tasks
		{7, 10},  // frequency beyond maturity: zero watering tasks
	}

	for _, tc := range cases {
		profile := garden.CareProfile{
			WaterFrequencyDays: tc.frequency,
			DaysToMaturity:     tc.maturity,
		}
		tasks, err := Generate(profile, "item-1", plantedAt)
		if err != nil {
			t.Fatalf("D=%d F=%d: unexpected error: %v", tc.maturity, tc.frequency, err)
		}

		want := (tc.maturity - 1) / tc.frequency
		got := countByType(tasks, garden.TaskWatering)
		if got != want {
			t.Errorf("D=%d F=%d: expected %d watering tasks, got %d",
				tc.maturity, tc.frequency, want, got)
		}
	}
}

func TestGenerate_WateringDatesStrictlyBeforeHarvest(t *testing.T) {
	profile := garden.CareProfile{WaterFrequencyDays: 3, DaysToMaturity: 60}
	tasks, err := Generate(profile, "item-1", plantedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harvestAt := plantedAt.AddDate(0, 0, 60)
	expected := plantedAt.AddDate(0, 0, 3)
	n := 0
	for _, task := range tasks {
		if task.Type != garden.TaskWatering {
			continue
		}
		if !task.DueDate.Equal(expected) {
			t.Errorf("watering task %d: expected due %v, got %v", n, expected, task.DueDate)
		}
		if !task.DueDate.Before(harvestAt) {
			t.Errorf("watering task due %v is not before harvest %v", task.DueDate, harvestAt)
		}
		expected = expected.AddDate(0, 0, 3)
		n++
	}
	if n != 19 {
		t.Errorf("expected 19 watering tasks (days 3..57), got %d", n)
	}
}

func TestGenerate_FertilizingCutoff(t *testing.T) {
	// Milestones are 14, 35, and 56 days after planting, included only
	// when strictly before harvest.
	cases := []struct {
		maturity int
		want     int
	}{
		{10, 0}, // all milestones at or beyond harvest
		{14, 0}, // day-14 milestone lands exactly on harvest, excluded
		{15, 1},
		{40, 2},
		{56, 2}, // day-56 milestone lands exactly on harvest, excluded
		{57, 3},
		{65, 3},
	}

	for _, tc := range cases {
		profile := garden.CareProfile{WaterFrequencyDays: 7, DaysToMaturity: tc.maturity}
		tasks, err := Generate(profile, "item-1", plantedAt)
		if err != nil {
			t.Fatalf("D=%d: unexpected error: %v", tc.maturity, err)
		}
		got := countByType(tasks, garden.TaskFertilizing)
		if got != tc.want {
			t.Errorf("D=%d: expected %d fertilizing tasks, got %d", tc.maturity, tc.want, got)
		}
	}
}

func TestGenerate_ExactlyOneHarvestTask(t *testing.T) {
	for _, maturity := range []int{1, 10, 65, 120} {
		profile := garden.CareProfile{WaterFrequencyDays: 3, DaysToMaturity: maturity}
		tasks, err := Generate(profile, "item-1", plantedAt)
		if err != nil {
			t.Fatalf("D=%d: unexpected error: %v", maturity, err)
		}

		harvestAt := plantedAt.AddDate(0, 0, maturity)
		found := 0
		for _, task := range tasks {
			if task.Type != garden.TaskHarvesting {
				continue
			}
			found++
			if !task.DueDate.Equal(harvestAt) {
				t.Errorf("D=%d: harvest due %v, expected %v", maturity, task.DueDate, harvestAt)
			}
		}
		if found != 1 {
			t.Errorf("D=%d: expected exactly 1 harvest task, got %d", maturity, found)
		}
	}
}

func TestGenerate_MediumWaterNeedEndToEnd(t *testing.T) {
	// Medium water need (every 3 days), 65 days to maturity: watering at
	// days 3..63 (21 tasks), fertilizing at 14, 35 and 56, one harvest.
	profile, err := garden.NewCareProfile(garden.WaterNeedMedium, 65)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks, err := Generate(profile, "item-1", plantedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := countByType(tasks, garden.TaskWatering); got != 21 {
		t.Errorf("expected 21 watering tasks, got %d", got)
	}
	if got := countByType(tasks, garden.TaskFertilizing); got != 3 {
		t.Errorf("expected 3 fertilizing tasks, got %d", got)
	}
	if got := countByType(tasks, garden.TaskHarvesting); got != 1 {
		t.Errorf("expected 1 harvesting task, got %d", got)
	}
	if len(tasks) != 25 {
		t.Errorf("expected 25 tasks total, got %d", len(tasks))
	}
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	good := garden.CareProfile{WaterFrequencyDays: 3, DaysToMaturity: 60}

	cases := []struct {
		name      string
		profile   garden.CareProfile
		itemID    string
		plantedAt time.Time
	}{
		{"zero maturity", garden.CareProfile{WaterFrequencyDays: 3}, "item-1", plantedAt},
		{"negative maturity", garden.CareProfile{WaterFrequencyDays: 3, DaysToMaturity: -5}, "item-1", plantedAt},
		{"zero frequency", garden.CareProfile{DaysToMaturity: 60}, "item-1", plantedAt},
		{"empty item id", good, "", plantedAt},
		{"zero planted date", good, "item-1", time.Time{}},
	}

	for _, tc := range cases {
		tasks, err := Generate(tc.profile, tc.itemID, tc.plantedAt)
		if err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
		var verr *garden.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %T", tc.name, err)
		}
		if tasks != nil {
			t.Errorf("%s: expected no tasks on validation failure, got %d", tc.name, len(tasks))
		}
	}
}

func TestGenerate_TasksShareOwner(t *testing.T) {
	profile := garden.CareProfile{WaterFrequencyDays: 2, DaysToMaturity: 20}
	tasks, err := Generate(profile, "item-42", plantedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, task := range tasks {
		if task.PlantedItemID != "item-42" {
			t.Errorf("task %s owned by %s, expected item-42", task.ID, task.PlantedItemID)
		}
		if task.Completed {
			t.Errorf("task %s created already completed", task.ID)
		}
	}
}
