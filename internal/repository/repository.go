package repository

import (
	"context"
	"errors"

	"github.com/joinboard/join-api/internal/models"
)

// ErrNotFound is returned when a record id is absent from its collection.
var ErrNotFound = errors.New("record not found")

// TaskRepository defines typed access to the tasks collection.
type TaskRepository interface {
	// All returns every task in store order. A nil slice means the
	// collection does not exist yet, which callers treat differently
	// from an empty one.
	All(ctx context.Context) ([]models.Task, error)

	// FindByID finds a task by its id field (not its slot).
	FindByID(ctx context.Context, id int) (*models.Task, error)

	// Save writes the whole task at slot id - 1.
	Save(ctx context.Context, task *models.Task) error

	// ReplaceAll replaces the whole collection, keeping each record at
	// its id-derived slot. Used by deletion fan-out.
	ReplaceAll(ctx context.Context, tasks []models.Task) error

	// Delete clears the slot of the task, leaving a null hole.
	Delete(ctx context.Context, id int) error

	// NextID allocates the next task id (last element in store order
	// plus one).
	NextID(ctx context.Context) (int, error)
}

// ContactRepository defines typed access to the contacts collection.
type ContactRepository interface {
	All(ctx context.Context) ([]models.Contact, error)
	FindByID(ctx context.Context, id int) (*models.Contact, error)
	Save(ctx context.Context, contact *models.Contact) error
	ReplaceAll(ctx context.Context, contacts []models.Contact) error
	Delete(ctx context.Context, id int) error
	NextID(ctx context.Context) (int, error)
}

// UserRepository defines typed access to the users collection.
type UserRepository interface {
	All(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	Save(ctx context.Context, user *models.User) error
	ReplaceAll(ctx context.Context, users []models.User) error
	NextID(ctx context.Context) (int, error)

	// AppendTaskAt writes a single task id into the user's membership
	// array at the given index (a per-field PUT, not a whole-record
	// write).
	AppendTaskAt(ctx context.Context, userID, index, taskID int) error

	// AppendContactAt is AppendTaskAt for the contacts membership list.
	AppendContactAt(ctx context.Context, userID, index, contactID int) error
}
