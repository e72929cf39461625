package garden

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskType identifies the kind of care a task asks for
type TaskType string

const (
	// TaskWatering indicates a routine watering task
	TaskWatering TaskType = "watering"
	// TaskFertilizing indicates a scheduled fertilizing task
	TaskFertilizing TaskType = "fertilizing"
	// TaskHarvesting indicates the plant is ready to harvest
	TaskHarvesting TaskType = "harvesting"
)

// WaterNeed is the watering tier assigned to a plant species
type WaterNeed string

const (
	// WaterNeedLow means the plant tolerates a full week between waterings
	WaterNeedLow WaterNeed = "low"
	// WaterNeedMedium means the plant should be watered every few days
	WaterNeedMedium WaterNeed = "medium"
	// WaterNeedHigh means the plant needs near-daily attention
	WaterNeedHigh WaterNeed = "high"
)

// Watering cadence per tier, in days between waterings.
var wateringFrequency = map[WaterNeed]int{
	WaterNeedLow:    7,
	WaterNeedMedium: 3,
	WaterNeedHigh:   2,
}

// WateringFrequencyDays maps a water-need tier to its cadence in days.
// An unrecognized tier is a configuration error in the plant catalog,
// not a recoverable condition.
func WateringFrequencyDays(need WaterNeed) (int, error) {
	freq, ok := wateringFrequency[need]
	if !ok {
		return 0, &ValidationError{
			Field:  "water_needs",
			Reason: fmt.Sprintf("unknown water-need tier %q", need),
		}
	}
	return freq, nil
}

// ValidationError reports bad input to planting or plan generation.
// It is always surfaced before any persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Plant represents a plant species with the attributes the care planner
// needs. The full catalog carries more horticultural detail; only the
// fields that drive task generation are required here.
type Plant struct {
	// ID is the unique identifier for the species
	ID string `json:"id"`
	// Name is the common name of the plant
	Name string `json:"name"`
	// ScientificName is the botanical name
	ScientificName string `json:"scientific_name,omitempty"`
	// Type is the category (vegetable, fruit, herb)
	Type string `json:"type,omitempty"`
	// WaterNeeds is the watering tier for the species
	WaterNeeds WaterNeed `json:"water_needs"`
	// DaysToMaturity is the number of days from planting to harvest readiness
	DaysToMaturity int `json:"days_to_maturity"`
	// SunRequirements describes light needs (full sun, partial shade)
	SunRequirements string `json:"sun_requirements,omitempty"`
	// CareNotes carries free-form species care guidance
	CareNotes string `json:"care_notes,omitempty"`
}

// CareProfile is the derived, read-only set of care parameters the plan
// generator works from
type CareProfile struct {
	// WaterFrequencyDays is the cadence between watering tasks
	WaterFrequencyDays int
	// DaysToMaturity is the total days from planting to harvest
	DaysToMaturity int
}

// NewCareProfile derives a care profile from a species' static attributes
func NewCareProfile(need WaterNeed, daysToMaturity int) (CareProfile, error) {
	freq, err := WateringFrequencyDays(need)
	if err != nil {
		return CareProfile{}, err
	}
	if daysToMaturity <= 0 {
		return CareProfile{}, &ValidationError{
			Field:  "days_to_maturity",
			Reason: fmt.Sprintf("must be positive, got %d", daysToMaturity),
		}
	}
	return CareProfile{
		WaterFrequencyDays: freq,
		DaysToMaturity:     daysToMaturity,
	}, nil
}

// Profile returns the care profile for a plant species
func (p *Plant) Profile() (CareProfile, error) {
	return NewCareProfile(p.WaterNeeds, p.DaysToMaturity)
}

// GardenPlot represents a plot where plants can be placed
type GardenPlot struct {
	// ID is the unique identifier for the plot
	ID string `json:"id"`
	// Name is the user-defined name for the plot
	Name string `json:"name"`
	// Width of the plot in grid units
	Width int `json:"width"`
	// Height of the plot in grid units
	Height int `json:"height"`
	// Location is a physical location description
	Location string `json:"location,omitempty"`
	// CreatedAt is when the plot was created
	CreatedAt time.Time `json:"created_at"`
}

// NewGardenPlot creates a plot, validating its dimensions
func NewGardenPlot(name string, width, height int, location string) (*GardenPlot, error) {
	if width <= 0 || height <= 0 {
		return nil, &ValidationError{
			Field:  "dimensions",
			Reason: fmt.Sprintf("width and height must be positive, got %dx%d", width, height),
		}
	}
	return &GardenPlot{
		ID:        uuid.New().String(),
		Name:      name,
		Width:     width,
		Height:    height,
		Location:  location,
		CreatedAt: time.Now(),
	}, nil
}

// PlantedItem represents one plant instance placed at a plot position on
// a specific date. Immutable once created; re-planting the same cell
// produces a new item.
type PlantedItem struct {
	// ID is the unique identifier for the planted item
	ID string `json:"id"`
	// PlantID references the species
	PlantID string `json:"plant_id"`
	// PlotID references the containing plot
	PlotID string `json:"plot_id"`
	// X is the column within the plot grid
	X int `json:"x"`
	// Y is the row within the plot grid
	Y int `json:"y"`
	// PlantedAt is when the plant went into the ground
	PlantedAt time.Time `json:"planted_at"`
	// ExpectedHarvest is PlantedAt plus the species' days to maturity
	ExpectedHarvest time.Time `json:"expected_harvest"`
	// Notes carries user notes about this instance
	Notes string `json:"notes,omitempty"`
}

// CareTask is one dated, completable care action tied to a planted item
type CareTask struct {
	// ID is the unique identifier for the task
	ID string `json:"id"`
	// PlantedItemID references the owning planted item
	PlantedItemID string `json:"planted_item_id"`
	// Type is the kind of care the task asks for
	Type TaskType `json:"task_type"`
	// DueDate is when the task should be done
	DueDate time.Time `json:"due_date"`
	// Completed is set once, by a user action; never unset
	Completed bool `json:"completed"`
	// Notes carries task or completion notes
	Notes string `json:"notes,omitempty"`
}

// NewCareTask creates a pending task for a planted item
func NewCareTask(plantedItemID string, taskType TaskType, due time.Time) CareTask {
	return CareTask{
		ID:            uuid.New().String(),
		PlantedItemID: plantedItemID,
		Type:          taskType,
		DueDate:       due,
		Completed:     false,
	}
}
