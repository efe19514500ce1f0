package models

import (
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusTodo          Status = "todo"
	StatusInProgress    Status = "inprogress"
	StatusAwaitFeedback Status = "awaitfeedback"
	StatusDone          Status = "done"
)

// Statuses is the ordered list of board columns. Moves walk this list one
// step at a time and clamp at both ends.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusAwaitFeedback, StatusDone}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Move returns the status reached by walking direction steps along the
// ordered column list, clamped to the first and last column.
func (s Status) Move(direction int) Status {
	index := 0
	for i, known := range Statuses {
		if s == known {
			index = i
			break
		}
	}
	index += direction
	if index < 0 {
		index = 0
	}
	if index > len(Statuses)-1 {
		index = len(Statuses) - 1
	}
	return Statuses[index]
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityUrgent
}

// Subtask is a checklist entry local to one task. SubID is a 1-based
// sequence assigned at creation and independent of deletions elsewhere.
type Subtask struct {
	Name  string `json:"subTaskName"`
	SubID int    `json:"subId"`
	Done  bool   `json:"done"`
}

// Task is a board card. ID is 1-based and distinct from the storage slot
// (slot = id - 1). Assigned holds contact ids; User is the owning user id,
// stored as "" when unowned.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Category    string     `json:"category"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	Subtasks    []Subtask  `json:"subtasks,omitempty"`
	Assigned    []int      `json:"assigned,omitempty"`
	User        OptionalID `json:"user"`
}

// DecodeTask validates a raw store document into a Task. Soft fields are
// defaulted, records without a usable id are rejected.
func DecodeTask(raw json.RawMessage) (*Task, error) {
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	if task.ID < 1 {
		return nil, fmt.Errorf("decode task: missing or invalid id")
	}
	if task.Status == "" {
		task.Status = StatusTodo
	}
	if !task.Status.Valid() {
		return nil, fmt.Errorf("decode task %d: unknown status %q", task.ID, task.Status)
	}
	if task.Priority == "" {
		task.Priority = PriorityLow
	}
	if !task.Priority.Valid() {
		return nil, fmt.Errorf("decode task %d: unknown priority %q", task.ID, task.Priority)
	}
	task.Assigned = dropZeroIDs(task.Assigned)
	return &task, nil
}

// dropZeroIDs removes null/hole entries that the store keeps inside id
// arrays after sparse writes.
func dropZeroIDs(ids []int) []int {
	if ids == nil {
		return nil
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != 0 {
			kept = append(kept, id)
		}
	}
	return kept
}
