package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/store"
)

const tasksCollection = "tasks"

// StoreTaskRepository implements TaskRepository over the document store.
type StoreTaskRepository struct {
	client *store.Client
}

func NewTaskRepository(client *store.Client) TaskRepository {
	return &StoreTaskRepository{client: client}
}

func (r *StoreTaskRepository) All(ctx context.Context) ([]models.Task, error) {
	records, err := r.client.FetchCollection(ctx, tasksCollection)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, nil
	}
	tasks := make([]models.Task, 0, len(records))
	for _, raw := range records {
		task, err := models.DecodeTask(raw)
		if err != nil {
			return nil, fmt.Errorf("tasks collection: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (r *StoreTaskRepository) FindByID(ctx context.Context, id int) (*models.Task, error) {
	tasks, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreTaskRepository) Save(ctx context.Context, task *models.Task) error {
	_, err := r.client.PutRecord(ctx, tasksCollection, task.ID, task)
	return err
}

func (r *StoreTaskRepository) ReplaceAll(ctx context.Context, tasks []models.Task) error {
	_, err := r.client.Put(ctx, tasksCollection, slotMapTasks(tasks))
	return err
}

func (r *StoreTaskRepository) Delete(ctx context.Context, id int) error {
	_, err := r.client.Delete(ctx, tasksCollection, id)
	return err
}

func (r *StoreTaskRepository) NextID(ctx context.Context) (int, error) {
	return r.client.AllocateID(ctx, tasksCollection)
}

// slotMapTasks lays records out by their id-derived slots so a whole
// collection replace cannot compact null holes left by earlier deletes.
func slotMapTasks(tasks []models.Task) map[string]models.Task {
	doc := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		doc[strconv.Itoa(task.ID-1)] = task
	}
	return doc
}
