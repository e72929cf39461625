package garden

import (
	"errors"
	"testing"
	"time"
)

func TestWateringFrequencyDays_KnownTiers(t *testing.T) {
	cases := []struct {
		need WaterNeed
		want int
	}{
		{WaterNeedLow, 7},
		{WaterNeedMedium, 3},
		{WaterNeedHigh, 2},
	}

	for _, tc := range cases {
		got, err := WateringFrequencyDays(tc.need)
		if err != nil {
			t.Fatalf("unexpected error for tier %s: %v", tc.need, err)
		}
		if got != tc.want {
			t.Errorf("tier %s: expected %d days, got %d", tc.need, tc.want, got)
		}
	}
}

func TestWateringFrequencyDays_UnknownTier(t *testing.T) {
	_, err := WateringFrequencyDays("torrential")
	if err == nil {
		t.Fatal("expected error for unknown tier, got nil")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestNewCareProfile_RejectsNonPositiveMaturity(t *testing.T) {
	for _, days := range []int{0, -1, -100} {
		_, err := NewCareProfile(WaterNeedMedium, days)
		if err == nil {
			t.Errorf("expected error for days_to_maturity=%d, got nil", days)
		}
	}
}

func TestNewCareProfile_DerivesFrequency(t *testing.T) {
	profile, err := NewCareProfile(WaterNeedHigh, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.WaterFrequencyDays != 2 {
		t.Errorf("expected frequency 2, got %d", profile.WaterFrequencyDays)
	}
	if profile.DaysToMaturity != 60 {
		t.Errorf("expected maturity 60, got %d", profile.DaysToMaturity)
	}
}

func TestNewGardenPlot_ValidatesDimensions(t *testing.T) {
	if _, err := NewGardenPlot("bed", 0, 4, "backyard"); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewGardenPlot("bed", 4, -2, "backyard"); err == nil {
		t.Error("expected error for negative height")
	}

	plot, err := NewGardenPlot("raised bed", 4, 8, "backyard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plot.ID == "" {
		t.Error("expected generated plot ID")
	}
	if plot.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestNewCareTask_Defaults(t *testing.T) {
	due := time.Date(2026, time.April, 12, 0, 0, 0, 0, time.UTC)
	task := NewCareTask("item-1", TaskWatering, due)

	if task.Completed {
		t.Error("expected new task to be incomplete")
	}
	if task.Type != TaskWatering {
		t.Errorf("expected type watering, got %s", task.Type)
	}
	if !task.DueDate.Equal(due) {
		t.Errorf("expected due date %v, got %v", due, task.DueDate)
	}
	if len(task.ID) != 36 {
		t.Error("expected UUID format task ID")
	}
}
