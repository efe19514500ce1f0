package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/store"
	"github.com/joinboard/join-api/internal/storetest"
	"github.com/stretchr/testify/require"
)

type contactTestEnv struct {
	server    *storetest.Server
	service   *ContactService
	contacts  repository.ContactRepository
	tasks     repository.TaskRepository
	users     repository.UserRepository
	persister *memoryPersister
}

func setupContactTestEnv(t *testing.T) contactTestEnv {
	t.Helper()

	srv := storetest.New()
	t.Cleanup(srv.Close)

	client := store.New(srv.URL(), 5*time.Second)
	contactRepo := repository.NewContactRepository(client)
	taskRepo := repository.NewTaskRepository(client)
	userRepo := repository.NewUserRepository(client)

	return contactTestEnv{
		server:    srv,
		service:   NewContactService(contactRepo, taskRepo, userRepo),
		contacts:  contactRepo,
		tasks:     taskRepo,
		users:     userRepo,
		persister: &memoryPersister{},
	}
}

func seededContact(id int, name string) models.Contact {
	return models.Contact{
		ID:       id,
		Name:     name,
		Email:    strings.ToLower(name) + "@gmail.com",
		Initials: "XX",
		Color:    "#01687E",
	}
}

func TestContactService_CreateAssignsColorAndAttaches(t *testing.T) {
	env := setupContactTestEnv(t)
	ctx := context.Background()

	env.server.Seed("contacts", 10, seededContact(10, "Kevin"))
	env.server.Seed("users", 2, storedUser(2, nil, []int{10}))

	snap := activeUser(2, nil, []int{10})
	contact, err := env.service.Create(ctx, snap, env.persister, CreateContactInput{
		Name:  "mia muster",
		Email: "mia@gmail.com",
		Phone: "12341234",
	})
	require.NoError(t, err)
	require.Equal(t, 11, contact.ID)
	require.Equal(t, "MM", contact.Initials)
	require.NotEqual(t, models.UserColorSentinel, contact.Color, "the sentinel is reserved for the own profile")
	require.Len(t, contact.Color, 7)

	require.Equal(t, []int{10, 11}, snap.Contacts)
	stored, err := env.users.FindByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []int{10, 11}, stored.Contacts)
}

func TestContactService_GetZeroMirrorsOwnProfile(t *testing.T) {
	env := setupContactTestEnv(t)
	ctx := context.Background()

	user := storedUser(2, nil, nil)
	user.Phone = "1735554442"
	env.server.Seed("users", 2, user)

	snap := activeUser(2, nil, nil)
	contact, err := env.service.Get(ctx, snap, 0)
	require.NoError(t, err)
	require.Equal(t, 0, contact.ID)
	require.Equal(t, user.Name, contact.Name)
	require.Equal(t, "1735554442", contact.Phone.String())
	require.Equal(t, models.UserColorSentinel, contact.Color)
	require.True(t, contact.IsUserProfile())
}

func TestContactService_UpdateRoutesProfileEditsToUsers(t *testing.T) {
	env := setupContactTestEnv(t)
	ctx := context.Background()

	env.server.Seed("users", 2, storedUser(2, nil, nil))

	snap := activeUser(2, nil, nil)
	contact, err := env.service.Update(ctx, snap, env.persister, 0, UpdateContactInput{
		Name:  "Renamed Person",
		Email: "renamed@gmail.com",
		Phone: "555",
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed Person", contact.Name)
	require.Equal(t, "RP", contact.Initials)

	// The edit lands on the user record, not in the contacts collection.
	require.Nil(t, env.server.Record("contacts", 1))
	user, err := env.users.FindByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Renamed Person", user.Name)
	require.Equal(t, "renamed@gmail.com", user.Email)

	require.Equal(t, "Renamed Person", snap.Name)
	require.Equal(t, "RP", snap.Initials)
	require.NotEmpty(t, env.persister.history)
}

func TestContactService_UpdatePlainContact(t *testing.T) {
	env := setupContactTestEnv(t)
	ctx := context.Background()

	env.server.Seed("contacts", 11, seededContact(11, "Mia"))
	snap := activeUser(2, nil, []int{11})

	contact, err := env.service.Update(ctx, snap, env.persister, 11, UpdateContactInput{
		Name:  "Mia Muster",
		Email: "mia@gmail.com",
	})
	require.NoError(t, err)
	require.Equal(t, "MM", contact.Initials)

	stored, err := env.contacts.FindByID(ctx, 11)
	require.NoError(t, err)
	require.Equal(t, "Mia Muster", stored.Name)
}

func TestContactService_DeleteDefaultContactDetachesOnly(t *testing.T) {
	env := setupContactTestEnv(t)
	ctx := context.Background()

	env.server.Seed("contacts", 3, seededContact(3, "Alex"))
	env.server.Seed("users", 1, storedUser(1, nil, []int{3, 4}))
	env.server.Seed("users", 2, storedUser(2, nil, []int{3}))

	snap := activeUser(2, nil, []int{3})
	require.NoError(t, env.service.Delete(ctx, snap, env.persister, 3))

	// A shared default contact survives the delete; only the actor's
	// membership drops it.
	require.NotNil(t, env.server.Record("contacts", 3))
	require.Empty(t, snap.Contacts)

	other, err := env.users.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, other.Contacts)

	actor, err := env.users.FindByID(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, actor.Contacts)
}

func TestContactService_DeleteOwnContactRemovesEverywhere(t *testing.T) {
	env := setupContactTestEnv(t)
	ctx := context.Background()

	env.server.Seed("contacts", 11, seededContact(11, "Mia"))
	env.server.Seed("users", 1, storedUser(1, nil, []int{11}))
	env.server.Seed("users", 2, storedUser(2, nil, []int{11}))
	env.server.Seed("tasks", 1, models.Task{
		ID: 1, Title: "t", Status: models.StatusTodo, Priority: models.PriorityLow,
		Assigned: []int{5, 11},
	})

	snap := activeUser(2, nil, []int{11})
	require.NoError(t, env.service.Delete(ctx, snap, env.persister, 11))

	require.Nil(t, env.server.Record("contacts", 11))
	require.Empty(t, snap.Contacts)

	for _, id := range []int{1, 2} {
		user, err := env.users.FindByID(ctx, id)
		require.NoError(t, err)
		require.Empty(t, user.Contacts)
	}

	task, err := env.tasks.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int{5}, task.Assigned, "the id disappears from assigned lists too")
}

func TestContactService_DeleteRejectsOwnProfile(t *testing.T) {
	env := setupContactTestEnv(t)

	env.server.Seed("users", 2, storedUser(2, nil, nil))
	snap := activeUser(2, nil, nil)

	err := env.service.Delete(context.Background(), snap, env.persister, 0)
	require.ErrorIs(t, err, ErrCannotDeleteProfile)
}

func TestContactService_GuestDeleteSkipsUsersWrites(t *testing.T) {
	env := setupContactTestEnv(t)
	ctx := context.Background()

	env.server.Seed("contacts", 3, seededContact(3, "Alex"))
	env.server.Seed("users", 2, storedUser(2, nil, []int{3}))

	snap := &models.ActiveUser{ID: models.GuestID, Name: "Guest", Contacts: []int{3}}
	require.NoError(t, env.service.Delete(ctx, snap, env.persister, 3))
	require.Empty(t, snap.Contacts)

	for _, write := range env.server.Writes() {
		require.False(t, strings.HasPrefix(write[strings.Index(write, " ")+1:], "users"),
			"guest must not write users: %s", write)
	}

	// The shared record itself stays for everyone else.
	require.NotNil(t, env.server.Record("contacts", 3))
}
