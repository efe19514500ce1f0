// Package seed carries the shared tutorial content: five sample tasks
// duplicated for the guest board (ids 1-5) and for fresh accounts (ids
// 6-10), plus the ten default contacts every membership list starts with.
package seed

import (
	"context"
	"fmt"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/repository"
)

// tutorialTasks builds the five sample tasks starting at the given id.
// The guest board and the shared account board carry the same tutorial
// with different due dates.
func tutorialTasks(firstID int, dates [5]string) []models.Task {
	return []models.Task{
		{
			ID:          firstID,
			Title:       "1. Exploring Join",
			Description: `Welcome to Join. Here you can find your default board. This board represents your project and contains four default lists: "To do", "In progress", "Await feedback" and "Done".`,
			Date:        dates[0],
			Category:    "Tutorial",
			Priority:    models.PriorityLow,
			Status:      models.StatusTodo,
			Assigned:    []int{1, 2, 3, 4},
			Subtasks: []models.Subtask{
				{Name: "Find the board.", SubID: 1, Done: true},
				{Name: "First read all tutorials.", SubID: 2},
			},
		},
		{
			ID:          firstID + 1,
			Title:       "2. Sample Tasks and Contacts",
			Description: "In your Join you will find 5 tasks and 10 contacts to try out. Feel free to edit these, but the changes will be reset after you log in again. If you delete them, they are permanently removed from your Join board.",
			Date:        dates[1],
			Category:    "Tutorial",
			Priority:    models.PriorityUrgent,
			Status:      models.StatusTodo,
			Assigned:    []int{10},
		},
		{
			ID:          firstID + 2,
			Title:       "3. Edit Cards",
			Description: "Feel free to edit your cards. You can move tasks between sections.",
			Date:        dates[2],
			Category:    "Tutorial",
			Priority:    models.PriorityLow,
			Status:      models.StatusInProgress,
			Subtasks: []models.Subtask{
				{Name: "Change the title of a task.", SubID: 1},
				{Name: "Add an assignee to the task.", SubID: 2},
				{Name: "Add yourself as a assignee to the task.", SubID: 3},
				{Name: "Move a task to another section.", SubID: 4},
				{Name: "Delete a task.", SubID: 5},
			},
		},
		{
			ID:          firstID + 3,
			Title:       "4. Adding Cards",
			Description: `Cards represent individual tasks. Click the "+" above the list to create a new task. To create new task you can also go to the "Add Task" in the main menu. Enter the task details in the card.`,
			Date:        dates[3],
			Category:    "Tutorial",
			Priority:    models.PriorityMedium,
			Status:      models.StatusAwaitFeedback,
			Assigned:    []int{4, 5, 6, 7, 8},
			Subtasks: []models.Subtask{
				{Name: `Go to "Add Task" in the main menu and add a new task.`, SubID: 1},
				{Name: `Add a task directly under "In progress".`, SubID: 2},
			},
		},
		{
			ID:          firstID + 4,
			Title:       "5. Creating Contacts",
			Description: `You can add new contacts to your projects. Go to the "Contacts" in the main menu, click on "Add new contact". Once added, these contacts can get tasks assigned and can edit them.`,
			Date:        dates[4],
			Category:    "Tutorial",
			Priority:    models.PriorityMedium,
			Status:      models.StatusDone,
			Assigned:    []int{7, 8, 9},
			Subtasks: []models.Subtask{
				{Name: `Go to "Contacts" in the menu and add a new contact.`, SubID: 1},
			},
		},
	}
}

// Tasks returns the full default board: ids 1-5 for the guest, 6-10
// shared by stored accounts.
func Tasks() []models.Task {
	guest := tutorialTasks(1, [5]string{"2024-10-05", "2024-10-03", "2024-10-20", "2024-11-10", "2024-10-29"})
	users := tutorialTasks(6, [5]string{"2024-10-04", "2024-10-04", "2024-10-23", "2024-10-11", "2024-11-25"})
	return append(guest, users...)
}

// Contacts returns the ten default contacts (ids 1-10).
func Contacts() []models.Contact {
	return []models.Contact{
		{ID: 1, Name: "Susanne Renken", Email: "Renken@gmail.com", Phone: "1735554442", Initials: "SR", Color: "#01687E"},
		{ID: 2, Name: "Lars Schumacher", Email: "Schumacher@gmail.com", Phone: "1734216923", Initials: "LS", Color: "#19FF82"},
		{ID: 3, Name: "Alex Kaljuzhin", Email: "Kaljuzhin@gmail.com", Phone: "12341234", Initials: "AK", Color: "#ED4F01"},
		{ID: 4, Name: "Benedikt Ziegler", Email: "Ziegler@gmail.com", Phone: "12341234", Initials: "BZ", Color: "#1C7B2B"},
		{ID: 5, Name: "David Eisenberg", Email: "Eisenberg@gmail.com", Phone: "12341234", Initials: "DE", Color: "#523C5A"},
		{ID: 6, Name: "Emmanuel Mauer", Email: "Mauer@gmail.com", Phone: "12341234", Initials: "EM", Color: "#59C248"},
		{ID: 7, Name: "Marcel Bauer", Email: "Bauer@gmail.com", Phone: "12341234", Initials: "MB", Color: "#BA6C74"},
		{ID: 8, Name: "Tatjana Wolf", Email: "Wolf@gmail.com", Phone: "12341234", Initials: "TW", Color: "#130994"},
		{ID: 9, Name: "Bianca Bremer", Email: "Bibi2@gmail.com", Phone: "12341234", Initials: "BB", Color: "#2A3A33"},
		{ID: 10, Name: "Kevin Kovac", Email: "Kovac@gmail.com", Phone: "12341234", Initials: "KK", Color: "#FD5B4F"},
	}
}

// Reset writes the tutorial tasks and default contacts back at their
// slots. Records outside the seeded id range stay untouched.
func Reset(ctx context.Context, tasks repository.TaskRepository, contacts repository.ContactRepository) error {
	for _, task := range Tasks() {
		if err := tasks.Save(ctx, &task); err != nil {
			return fmt.Errorf("seed task %d: %w", task.ID, err)
		}
	}
	for _, contact := range Contacts() {
		if err := contacts.Save(ctx, &contact); err != nil {
			return fmt.Errorf("seed contact %d: %w", contact.ID, err)
		}
	}
	return nil
}
