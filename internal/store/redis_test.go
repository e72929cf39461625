package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/greenthumb-labs/tend/internal/garden"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s, mr
}

func testPlant() *garden.Plant {
	return &garden.Plant{
		ID:             "tomato",
		Name:           "Tomato",
		ScientificName: "Solanum lycopersicum",
		Type:           "vegetable",
		WaterNeeds:     garden.WaterNeedMedium,
		DaysToMaturity: 65,
	}
}

func TestNewRedisStore_Success(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	s, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer s.Close()

	if s.keyPrefix != "tend:" {
		t.Errorf("expected keyPrefix 'tend:', got '%s'", s.keyPrefix)
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-url"); err == nil {
		t.Error("expected error for invalid Redis URL")
	}
}

func TestSaveAndGetPlant(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	if err := s.SavePlant(ctx, testPlant()); err != nil {
		t.Fatalf("failed to save plant: %v", err)
	}

	got, err := s.GetPlant(ctx, "tomato")
	if err != nil {
		t.Fatalf("failed to get plant: %v", err)
	}
	if got.Name != "Tomato" || got.WaterNeeds != garden.WaterNeedMedium || got.DaysToMaturity != 65 {
		t.Errorf("plant round trip mismatch: %+v", got)
	}
}

func TestGetPlant_NotFound(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	if _, err := s.GetPlant(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing plant")
	}
}

func TestListPlants(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	s.SavePlant(ctx, testPlant())
	s.SavePlant(ctx, &garden.Plant{ID: "basil", Name: "Basil", WaterNeeds: garden.WaterNeedHigh, DaysToMaturity: 30})

	plants, err := s.ListPlants(ctx)
	if err != nil {
		t.Fatalf("failed to list plants: %v", err)
	}
	if len(plants) != 2 {
		t.Errorf("expected 2 plants, got %d", len(plants))
	}
}

func TestCreateAndGetPlot(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	plot, err := garden.NewGardenPlot("Backyard", 4, 8, "behind the shed")
	if err != nil {
		t.Fatalf("failed to build plot: %v", err)
	}
	if err := s.CreatePlot(ctx, plot); err != nil {
		t.Fatalf("failed to create plot: %v", err)
	}

	got, err := s.GetPlot(ctx, plot.ID)
	if err != nil {
		t.Fatalf("failed to get plot: %v", err)
	}
	if got.Name != "Backyard" || got.Width != 4 || got.Height != 8 {
		t.Errorf("plot round trip mismatch: %+v", got)
	}
}

func plantWithTasks(t *testing.T, s *RedisStore, plotID string, dueOffsets ...int) (*garden.PlantedItem, []garden.CareTask) {
	t.Helper()
	ctx := context.Background()

	item := &garden.PlantedItem{
		ID:        "item-1",
		PlantID:   "tomato",
		PlotID:    plotID,
		PlantedAt: time.Now(),
	}

	tasks := make([]garden.CareTask, 0, len(dueOffsets))
	for _, offset := range dueOffsets {
		tasks = append(tasks, garden.NewCareTask(item.ID, garden.TaskWatering, time.Now().AddDate(0, 0, offset)))
	}

	if err := s.CreatePlantedItem(ctx, item, tasks); err != nil {
		t.Fatalf("failed to create planted item: %v", err)
	}
	return item, tasks
}

func TestCreatePlantedItem_PersistsTasksAtomically(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	item, tasks := plantWithTasks(t, s, "plot-1", 3, 6, 9)

	got, err := s.GetPlantedItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("failed to get planted item: %v", err)
	}
	if got.PlantID != "tomato" {
		t.Errorf("item round trip mismatch: %+v", got)
	}

	stored, err := s.TasksForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(stored) != len(tasks) {
		t.Errorf("expected %d tasks, got %d", len(tasks), len(stored))
	}
}

func TestDueTasks_WindowAndOrder(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	plantWithTasks(t, s, "plot-1", 9, 0, 3, 30)

	due, err := s.DueTasks(ctx, 10)
	if err != nil {
		t.Fatalf("failed to query due tasks: %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("expected 3 tasks within 10 days, got %d", len(due))
	}
	for i := 1; i < len(due); i++ {
		if due[i].DueDate.Before(due[i-1].DueDate) {
			t.Error("expected tasks sorted ascending by due date")
		}
	}
}

func TestDueTasks_NegativeWindowMovesCutoffIntoPast(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	plantWithTasks(t, s, "plot-1", -3, -10, 2)

	overdue, err := s.DueTasks(ctx, -7)
	if err != nil {
		t.Fatalf("failed to query overdue tasks: %v", err)
	}
	if len(overdue) != 1 {
		t.Fatalf("expected 1 task more than a week overdue, got %d", len(overdue))
	}
	if !overdue[0].DueDate.Before(time.Now().AddDate(0, 0, -7)) {
		t.Error("expected the long-overdue task, not the recent one")
	}
}

func TestDueTasks_LongOverdueNeverFallsOutOfWindow(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	plantWithTasks(t, s, "plot-1", -30)

	overdue, err := s.DueTasks(ctx, -7)
	if err != nil {
		t.Fatalf("failed to query overdue tasks: %v", err)
	}
	if len(overdue) != 1 {
		t.Fatalf("expected a month-old task still reported overdue, got %d", len(overdue))
	}

	// A positive window includes the backlog too
	due, err := s.DueTasks(ctx, 1)
	if err != nil {
		t.Fatalf("failed to query due tasks: %v", err)
	}
	if len(due) != 1 {
		t.Errorf("expected overdue task in the due-today window, got %d", len(due))
	}
}

func TestCompleteTask_IdempotentAndExcludedFromDue(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	_, tasks := plantWithTasks(t, s, "plot-1", 0)

	if err := s.CompleteTask(ctx, tasks[0].ID, "watered deeply"); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}
	if err := s.CompleteTask(ctx, tasks[0].ID, "again"); err != nil {
		t.Errorf("expected completing twice to be a no-op, got %v", err)
	}

	got, err := s.GetTask(ctx, tasks[0].ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if !got.Completed {
		t.Error("expected task marked completed")
	}
	if got.Notes != "watered deeply" {
		t.Errorf("expected completion notes kept from first call, got %q", got.Notes)
	}

	due, err := s.DueTasks(ctx, 1)
	if err != nil {
		t.Fatalf("failed to query due tasks: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected completed task excluded from due query, got %d", len(due))
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	if err := s.CompleteTask(context.Background(), "missing", ""); err == nil {
		t.Error("expected error for missing task")
	}
}

func TestRemovePlot_CascadesItemsAndTasks(t *testing.T) {
	s, mr := setupTestStore(t)
	defer mr.Close()
	defer s.Close()

	ctx := context.Background()
	plot, _ := garden.NewGardenPlot("Backyard", 4, 8, "")
	s.CreatePlot(ctx, plot)
	item, tasks := plantWithTasks(t, s, plot.ID, 1, 5)

	if err := s.RemovePlot(ctx, plot.ID); err != nil {
		t.Fatalf("failed to remove plot: %v", err)
	}

	if _, err := s.GetPlot(ctx, plot.ID); err == nil {
		t.Error("expected plot gone")
	}
	if _, err := s.GetPlantedItem(ctx, item.ID); err == nil {
		t.Error("expected planted item gone")
	}
	if _, err := s.GetTask(ctx, tasks[0].ID); err == nil {
		t.Error("expected tasks gone")
	}

	due, err := s.DueTasks(ctx, 30)
	if err != nil {
		t.Fatalf("failed to query due tasks: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected due index cleared, got %d entries", len(due))
	}
}
