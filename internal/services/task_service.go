package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/session"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrSubtaskNotFound  = errors.New("subtask not found")
	ErrInvalidDirection = errors.New("direction must be -1 or 1")
	ErrInvalidStatus    = errors.New("unknown status")
	ErrInvalidPriority  = errors.New("unknown priority")
)

// TaskService handles board cards: creation with id allocation, the
// optimistic membership protocol, status moves and the deletion fan-out.
type TaskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
}

func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Date        string
	Category    string
	Priority    models.Priority
	Status      models.Status
	Subtasks    []string
	Assigned    []int
	AssignSelf  bool
}

// Create allocates the next task id, writes the record at its slot and
// attaches the id to the acting user's membership list. The membership
// update is optimistic: the snapshot is mutated and persisted before the
// remote write, and popped back if the remote write fails. A membership
// failure does not undo the created task.
func (s *TaskService) Create(ctx context.Context, snap *models.ActiveUser, persist session.Persister, input CreateTaskInput) (*models.Task, error) {
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.StatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	id, err := s.tasks.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate task id: %w", err)
	}

	subtasks := make([]models.Subtask, 0, len(input.Subtasks))
	for i, name := range input.Subtasks {
		subtasks = append(subtasks, models.Subtask{Name: name, SubID: i + 1})
	}

	task := &models.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      input.Status,
		Subtasks:    subtasks,
		Assigned:    input.Assigned,
	}
	if input.AssignSelf {
		task.User = models.OptionalID(snap.ID)
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.attachTaskToUser(ctx, snap, persist, id)
	return task, nil
}

// attachTaskToUser runs the optimistic add protocol: local push, local
// persist, remote append, local pop on remote failure. No retry; the
// failure is logged and the caller proceeds.
func (s *TaskService) attachTaskToUser(ctx context.Context, snap *models.ActiveUser, persist session.Persister, taskID int) {
	if snap.HasTask(taskID) {
		return
	}
	snap.Tasks = append(snap.Tasks, taskID)
	if err := persist.Persist(snap); err != nil {
		log.Printf("failed to persist snapshot: %v", err)
	}
	if snap.IsGuest() {
		return
	}
	if err := s.users.AppendTaskAt(ctx, snap.ID, len(snap.Tasks)-1, taskID); err != nil {
		log.Printf("failed to share task %d with user %d: %v", taskID, snap.ID, err)
		snap.Tasks = snap.Tasks[:len(snap.Tasks)-1]
		if err := persist.Persist(snap); err != nil {
			log.Printf("failed to persist snapshot rollback: %v", err)
		}
	}
}

// ListForUser returns the acting user's tasks, optionally filtered by a
// search query over title and description.
func (s *TaskService) ListForUser(ctx context.Context, snap *models.ActiveUser, query string) ([]models.Task, error) {
	all, err := s.tasks.All(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))

	visible := make([]models.Task, 0, len(all))
	for _, task := range all {
		if !snap.HasTask(task.ID) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(task.Title), query) &&
			!strings.Contains(strings.ToLower(task.Description), query) {
			continue
		}
		visible = append(visible, task)
	}
	return visible, nil
}

// Get returns a task by id.
func (s *TaskService) Get(ctx context.Context, id int) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput represents input for updating a task. Nil fields stay
// untouched; the write is a whole-record replace either way.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Date        *string
	Category    *string
	Priority    *models.Priority
	Status      *models.Status
	Subtasks    []models.Subtask
	Assigned    *[]int
}

// Update applies a read-modify-write on the whole task record. Concurrent
// writers clobber each other; last write wins.
func (s *TaskService) Update(ctx context.Context, id int, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Date != nil {
		task.Date = *input.Date
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Subtasks != nil {
		for i := range input.Subtasks {
			input.Subtasks[i].SubID = i + 1
		}
		task.Subtasks = input.Subtasks
	}
	if input.Assigned != nil {
		task.Assigned = *input.Assigned
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// MoveStatus walks the task one column along the board. Moves past either
// end clamp instead of wrapping or failing.
func (s *TaskService) MoveStatus(ctx context.Context, id, direction int) (*models.Task, error) {
	if direction != -1 && direction != 1 {
		return nil, ErrInvalidDirection
	}
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Status = task.Status.Move(direction)
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}
	return task, nil
}

// ToggleSubtask flips the done flag of one checklist entry and writes the
// whole task back.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subID int) (*models.Task, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for i := range task.Subtasks {
		if task.Subtasks[i].SubID == subID {
			task.Subtasks[i].Done = !task.Subtasks[i].Done
			if err := s.tasks.Save(ctx, task); err != nil {
				return nil, fmt.Errorf("failed to update subtask: %w", err)
			}
			return task, nil
		}
	}
	return nil, ErrSubtaskNotFound
}

// Delete fans a task deletion out to every place the id is referenced:
// every user's membership list (skipped for the guest), the task's own
// slot, and the session snapshot, in that order. A failure partway leaves
// the remainder undone until the next full reload; there is no rollback.
func (s *TaskService) Delete(ctx context.Context, snap *models.ActiveUser, persist session.Persister, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if !snap.IsGuest() {
		users, err := s.users.All(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch users: %w", err)
		}
		for i := range users {
			users[i].Tasks = models.RemoveID(users[i].Tasks, id)
		}
		if err := s.users.ReplaceAll(ctx, users); err != nil {
			return fmt.Errorf("failed to update users: %w", err)
		}
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	snap.Tasks = models.RemoveID(snap.Tasks, id)
	if err := persist.Persist(snap); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// Summary aggregates the dashboard counters over the acting user's tasks.
type Summary struct {
	Total         int
	Todo          int
	InProgress    int
	AwaitFeedback int
	Done          int
	Urgent        int
	NextDeadline  string
}

func (s *TaskService) Summarize(ctx context.Context, snap *models.ActiveUser) (*Summary, error) {
	tasks, err := s.ListForUser(ctx, snap, "")
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case models.StatusTodo:
			summary.Todo++
		case models.StatusInProgress:
			summary.InProgress++
		case models.StatusAwaitFeedback:
			summary.AwaitFeedback++
		case models.StatusDone:
			summary.Done++
		}
		if task.Priority == models.PriorityUrgent {
			summary.Urgent++
		}
	}
	summary.NextDeadline = nextDeadline(tasks)
	return summary, nil
}

// nextDeadline returns the earliest due date across the tasks, formatted
// for display, or "" when no task carries one.
func nextDeadline(tasks []models.Task) string {
	var dues []time.Time
	for _, task := range tasks {
		if task.Date == "" {
			continue
		}
		due, err := time.Parse("2006-01-02", task.Date)
		if err != nil {
			continue
		}
		dues = append(dues, due)
	}
	if len(dues) == 0 {
		return ""
	}
	sort.Slice(dues, func(i, j int) bool { return dues[i].Before(dues[j]) })
	return dues[0].Format("January 2, 2006")
}
