package seed

import (
	"context"
	"testing"
	"time"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/store"
	"github.com/joinboard/join-api/internal/storetest"
	"github.com/stretchr/testify/require"
)

func TestResetRestoresDefaults(t *testing.T) {
	srv := storetest.New()
	t.Cleanup(srv.Close)

	client := store.New(srv.URL(), 5*time.Second)
	tasks := repository.NewTaskRepository(client)
	contacts := repository.NewContactRepository(client)
	ctx := context.Background()

	// A mangled tutorial task gets restored, extra records survive.
	srv.Seed("tasks", 1, models.Task{ID: 1, Title: "vandalized", Status: models.StatusDone, Priority: models.PriorityUrgent})
	srv.Seed("tasks", 11, models.Task{ID: 11, Title: "user created", Status: models.StatusTodo, Priority: models.PriorityLow})

	require.NoError(t, Reset(ctx, tasks, contacts))

	restored, err := tasks.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "1. Exploring Join", restored.Title)
	require.Equal(t, models.StatusTodo, restored.Status)

	kept, err := tasks.FindByID(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, "user created", kept.Title)

	all, err := tasks.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 11)

	defaults, err := contacts.All(ctx)
	require.NoError(t, err)
	require.Len(t, defaults, 10)
	require.Equal(t, "Susanne Renken", defaults[0].Name)
	require.Equal(t, "Kevin Kovac", defaults[9].Name)
	for _, contact := range defaults {
		require.NotEqual(t, models.UserColorSentinel, contact.Color)
	}
}

func TestSeedContent(t *testing.T) {
	tasks := Tasks()
	require.Len(t, tasks, 10)
	// Guest board and shared board carry the same tutorial at ids 1-5
	// and 6-10.
	require.Equal(t, tasks[0].Title, tasks[5].Title)
	require.Equal(t, 1, tasks[0].ID)
	require.Equal(t, 6, tasks[5].ID)
	for _, task := range tasks {
		require.Equal(t, "Tutorial", task.Category)
		require.True(t, task.Status.Valid())
		require.True(t, task.Priority.Valid())
	}
}
