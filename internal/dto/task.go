package dto

import "github.com/joinboard/join-api/internal/models"

// SubtaskDTO represents a checklist entry in API responses.
type SubtaskDTO struct {
	Name  string `json:"name"`
	SubID int    `json:"subId"`
	Done  bool   `json:"done"`
}

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Priority    models.Priority `json:"priority"`
	Status      models.Status   `json:"status"`
	Subtasks    []SubtaskDTO    `json:"subtasks"`
	Assigned    []int           `json:"assigned"`
	User        int             `json:"user"`
}

func ToTaskDTO(task *models.Task) TaskDTO {
	subtasks := make([]SubtaskDTO, 0, len(task.Subtasks))
	for _, sub := range task.Subtasks {
		subtasks = append(subtasks, SubtaskDTO{Name: sub.Name, SubID: sub.SubID, Done: sub.Done})
	}
	assigned := task.Assigned
	if assigned == nil {
		assigned = []int{}
	}
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Date:        task.Date,
		Category:    task.Category,
		Priority:    task.Priority,
		Status:      task.Status,
		Subtasks:    subtasks,
		Assigned:    assigned,
		User:        task.User.Int(),
	}
}

// BoardDTO groups the visible tasks by board column, in column order.
type BoardDTO struct {
	Columns []BoardColumnDTO `json:"columns"`
}

type BoardColumnDTO struct {
	Status models.Status `json:"status"`
	Tasks  []TaskDTO     `json:"tasks"`
}

func ToBoardDTO(tasks []models.Task) BoardDTO {
	board := BoardDTO{Columns: make([]BoardColumnDTO, 0, len(models.Statuses))}
	for _, status := range models.Statuses {
		column := BoardColumnDTO{Status: status, Tasks: []TaskDTO{}}
		for i := range tasks {
			if tasks[i].Status == status {
				column.Tasks = append(column.Tasks, ToTaskDTO(&tasks[i]))
			}
		}
		board.Columns = append(board.Columns, column)
	}
	return board
}

// ToTaskListDTO converts tasks preserving their order.
func ToTaskListDTO(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for i := range tasks {
		out = append(out, ToTaskDTO(&tasks[i]))
	}
	return out
}
