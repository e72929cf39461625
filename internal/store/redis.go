// Package store persists the garden model in Redis. Records are JSON
// blobs keyed by ID; incomplete care tasks also live in a sorted set
// scored by due date so reminder queries stay a single range read.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenthumb-labs/tend/internal/garden"
	"github.com/greenthumb-labs/tend/internal/logger"
)

// RedisStore manages garden records in Redis
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	// Pre-computed static keys
	plantsSetKey string
	plotsSetKey  string
	dueSetKey    string

	log logger.Logger
}

// NewRedisStore creates a store and tests the connection
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client (used in tests)
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return newStoreWithClient(client)
}

func newStoreWithClient(client *redis.Client) *RedisStore {
	prefix := "tend:"
	return &RedisStore{
		client:       client,
		keyPrefix:    prefix,
		plantsSetKey: prefix + "plants",
		plotsSetKey:  prefix + "plots",
		dueSetKey:    prefix + "tasks:due",
		log:          logger.Default().WithComponent(logger.ComponentStore),
	}
}

// Key generation helpers
func (s *RedisStore) plantKey(id string) string {
	return s.recordKey("plant:", id)
}

func (s *RedisStore) plotKey(id string) string {
	return s.recordKey("plot:", id)
}

func (s *RedisStore) itemKey(id string) string {
	return s.recordKey("item:", id)
}

func (s *RedisStore) taskKey(id string) string {
	return s.recordKey("task:", id)
}

func (s *RedisStore) plotItemsKey(plotID string) string {
	return s.recordKey("plot_items:", plotID)
}

func (s *RedisStore) itemTasksKey(itemID string) string {
	return s.recordKey("item_tasks:", itemID)
}

func (s *RedisStore) recordKey(kind, id string) string {
	var b strings.Builder
	b.Grow(len(s.keyPrefix) + len(kind) + len(id))
	b.WriteString(s.keyPrefix)
	b.WriteString(kind)
	b.WriteString(id)
	return b.String()
}

// SavePlant creates or replaces a plant profile
func (s *RedisStore) SavePlant(ctx context.Context, p *garden.Plant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plant: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.plantKey(p.ID), data, 0)
	pipe.SAdd(ctx, s.plantsSetKey, p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save plant: %w", err)
	}

	s.log.Debug("Saved plant", "plant_id", p.ID, "name", p.Name)
	return nil
}

// GetPlant retrieves a plant profile by ID
func (s *RedisStore) GetPlant(ctx context.Context, id string) (*garden.Plant, error) {
	data, err := s.client.Get(ctx, s.plantKey(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("plant not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}

	var p garden.Plant
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plant: %w", err)
	}
	return &p, nil
}

// ListPlants returns all saved plant profiles
func (s *RedisStore) ListPlants(ctx context.Context) ([]*garden.Plant, error) {
	ids, err := s.client.SMembers(ctx, s.plantsSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}

	plants := make([]*garden.Plant, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetPlant(ctx, id)
		if err != nil {
			s.log.Warn("Skipping unreadable plant record", "plant_id", id, "error", err)
			continue
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// CreatePlot stores a new garden plot
func (s *RedisStore) CreatePlot(ctx context.Context, plot *garden.GardenPlot) error {
	data, err := json.Marshal(plot)
	if err != nil {
		return fmt.Errorf("failed to marshal plot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.plotKey(plot.ID), data, 0)
	pipe.SAdd(ctx, s.plotsSetKey, plot.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create plot: %w", err)
	}

	s.log.Debug("Created plot", "plot_id", plot.ID, "name", plot.Name)
	return nil
}

// GetPlot retrieves a plot by ID
func (s *RedisStore) GetPlot(ctx context.Context, id string) (*garden.GardenPlot, error) {
	data, err := s.client.Get(ctx, s.plotKey(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("plot not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}

	var plot garden.GardenPlot
	if err := json.Unmarshal([]byte(data), &plot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plot: %w", err)
	}
	return &plot, nil
}

// RemovePlot deletes a plot along with every planted item in it and
// their care tasks
func (s *RedisStore) RemovePlot(ctx context.Context, id string) error {
	itemIDs, err := s.client.SMembers(ctx, s.plotItemsKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to list plot items: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, itemID := range itemIDs {
		taskIDs, err := s.client.SMembers(ctx, s.itemTasksKey(itemID)).Result()
		if err != nil {
			return fmt.Errorf("failed to list item tasks: %w", err)
		}
		for _, taskID := range taskIDs {
			pipe.Del(ctx, s.taskKey(taskID))
			pipe.ZRem(ctx, s.dueSetKey, taskID)
		}
		pipe.Del(ctx, s.itemTasksKey(itemID))
		pipe.Del(ctx, s.itemKey(itemID))
	}
	pipe.Del(ctx, s.plotItemsKey(id))
	pipe.Del(ctx, s.plotKey(id))
	pipe.SRem(ctx, s.plotsSetKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove plot: %w", err)
	}

	s.log.Info("Removed plot", "plot_id", id, "items_removed", len(itemIDs))
	return nil
}

// CreatePlantedItem stores a planted item and its full care-task batch
// in a single pipeline, so a planting never persists half its calendar
func (s *RedisStore) CreatePlantedItem(ctx context.Context, item *garden.PlantedItem, tasks []garden.CareTask) error {
	itemData, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal planted item: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.itemKey(item.ID), itemData, 0)
	pipe.SAdd(ctx, s.plotItemsKey(item.PlotID), item.ID)

	for i := range tasks {
		taskData, err := json.Marshal(&tasks[i])
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}
		pipe.Set(ctx, s.taskKey(tasks[i].ID), taskData, 0)
		pipe.SAdd(ctx, s.itemTasksKey(item.ID), tasks[i].ID)
		pipe.ZAdd(ctx, s.dueSetKey, redis.Z{
			Score:  float64(tasks[i].DueDate.Unix()),
			Member: tasks[i].ID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create planted item: %w", err)
	}

	s.log.Debug("Created planted item", "item_id", item.ID, "plot_id", item.PlotID, "tasks", len(tasks))
	return nil
}

// GetPlantedItem retrieves a planted item by ID
func (s *RedisStore) GetPlantedItem(ctx context.Context, id string) (*garden.PlantedItem, error) {
	data, err := s.client.Get(ctx, s.itemKey(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("planted item not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planted item: %w", err)
	}

	var item garden.PlantedItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal planted item: %w", err)
	}
	return &item, nil
}

// GetTask retrieves a care task by ID
func (s *RedisStore) GetTask(ctx context.Context, id string) (*garden.CareTask, error) {
	data, err := s.client.Get(ctx, s.taskKey(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("task not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task garden.CareTask
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// DueTasks returns incomplete tasks due on or before now plus
// withinDays days, ascending by due date. There is no lower bound, so
// a positive window includes everything already overdue, and a
// negative window moves the cutoff into the past: DueTasks(ctx, -7)
// is every task more than a week overdue.
func (s *RedisStore) DueTasks(ctx context.Context, withinDays int) ([]*garden.CareTask, error) {
	cutoff := time.Now().AddDate(0, 0, withinDays)

	taskIDs, err := s.client.ZRangeByScore(ctx, s.dueSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}

	tasks := make([]*garden.CareTask, 0, len(taskIDs))
	for _, id := range taskIDs {
		task, err := s.GetTask(ctx, id)
		if err != nil {
			// Stale index entry; drop it and keep going
			s.client.ZRem(ctx, s.dueSetKey, id)
			s.log.Warn("Removed stale due-set entry", "task_id", id, "error", err)
			continue
		}
		if task.Completed {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// CompleteTask marks a task done and drops it from the due-date index.
// Completing an already-completed task is a no-op. Non-empty notes
// replace the task's notes.
func (s *RedisStore) CompleteTask(ctx context.Context, id string, notes string) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task.Completed {
		return nil
	}

	task.Completed = true
	if notes != "" {
		task.Notes = notes
	}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.taskKey(id), data, 0)
	pipe.ZRem(ctx, s.dueSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	s.log.Debug("Completed task", "task_id", id, "type", task.Type)
	return nil
}

// TasksForItem returns every care task belonging to a planted item
func (s *RedisStore) TasksForItem(ctx context.Context, itemID string) ([]*garden.CareTask, error) {
	taskIDs, err := s.client.SMembers(ctx, s.itemTasksKey(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list item tasks: %w", err)
	}

	tasks := make([]*garden.CareTask, 0, len(taskIDs))
	for _, id := range taskIDs {
		task, err := s.GetTask(ctx, id)
		if err != nil {
			s.log.Warn("Skipping unreadable task record", "task_id", id, "error", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	return nil
}
