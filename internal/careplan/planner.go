package careplan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greenthumb-labs/tend/internal/garden"
	"github.com/greenthumb-labs/tend/internal/logger"
	"github.com/greenthumb-labs/tend/internal/metrics"
)

// Store defines the persistence operations the planner needs
type Store interface {
	GetPlant(ctx context.Context, plantID string) (*garden.Plant, error)
	CreatePlantedItem(ctx context.Context, item *garden.PlantedItem, tasks []garden.CareTask) error
}

// PlantingRequest carries the parameters of one planting action
type PlantingRequest struct {
	// PlantID is the species being planted
	PlantID string
	// PlotID is the destination plot
	PlotID string
	// X and Y are the grid position within the plot
	X int
	Y int
	// PlantedAt is the planting date; zero means "now"
	PlantedAt time.Time
	// Notes are optional user notes for this planting
	Notes string
}

// Planner turns a planting action into a persisted planted item with its
// full care-task calendar. The item and its task batch are written as a
// single logical operation: a storage failure fails the whole planting.
type Planner struct {
	store Store
	log   logger.Logger
}

// NewPlanner creates a planner backed by the given store
func NewPlanner(store Store) *Planner {
	return &Planner{
		store: store,
		log:   logger.Default().WithComponent(logger.ComponentCarePlan),
	}
}

// Plant validates the request, computes the care calendar for the
// species, and persists the planted item together with its task batch.
// Validation failures surface before anything is written; no partial
// task set is ever persisted.
func (p *Planner) Plant(ctx context.Context, req PlantingRequest) (*garden.PlantedItem, error) {
	plant, err := p.store.GetPlant(ctx, req.PlantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plant %s: %w", req.PlantID, err)
	}

	profile, err := plant.Profile()
	if err != nil {
		return nil, err
	}

	plantedAt := req.PlantedAt
	if plantedAt.IsZero() {
		plantedAt = time.Now()
	}

	item := &garden.PlantedItem{
		ID:              uuid.New().String(),
		PlantID:         req.PlantID,
		PlotID:          req.PlotID,
		X:               req.X,
		Y:               req.Y,
		PlantedAt:       plantedAt,
		ExpectedHarvest: plantedAt.AddDate(0, 0, profile.DaysToMaturity),
		Notes:           req.Notes,
	}

	tasks, err := Generate(profile, item.ID, plantedAt)
	if err != nil {
		return nil, err
	}

	if err := p.store.CreatePlantedItem(ctx, item, tasks); err != nil {
		return nil, fmt.Errorf("failed to persist planting: %w", err)
	}

	metrics.Default().RecordTasksGenerated(len(tasks))

	p.log.Info("Care plan created",
		"planted_item_id", item.ID,
		"plant", plant.Name,
		"tasks", len(tasks),
		"expected_harvest", item.ExpectedHarvest.Format(time.RFC3339))

	return item, nil
}
