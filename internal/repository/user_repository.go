package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/store"
)

const usersCollection = "users"

// StoreUserRepository implements UserRepository over the document store.
type StoreUserRepository struct {
	client *store.Client
}

func NewUserRepository(client *store.Client) UserRepository {
	return &StoreUserRepository{client: client}
}

func (r *StoreUserRepository) All(ctx context.Context) ([]models.User, error) {
	records, err := r.client.FetchCollection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, nil
	}
	users := make([]models.User, 0, len(records))
	for _, raw := range records {
		user, err := models.DecodeUser(raw)
		if err != nil {
			return nil, fmt.Errorf("users collection: %w", err)
		}
		users = append(users, *user)
	}
	return users, nil
}

func (r *StoreUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreUserRepository) Save(ctx context.Context, user *models.User) error {
	_, err := r.client.PutRecord(ctx, usersCollection, user.ID, user)
	return err
}

func (r *StoreUserRepository) ReplaceAll(ctx context.Context, users []models.User) error {
	doc := make(map[string]models.User, len(users))
	for _, user := range users {
		doc[strconv.Itoa(user.ID-1)] = user
	}
	_, err := r.client.Put(ctx, usersCollection, doc)
	return err
}

func (r *StoreUserRepository) NextID(ctx context.Context) (int, error) {
	return r.client.AllocateID(ctx, usersCollection)
}

func (r *StoreUserRepository) AppendTaskAt(ctx context.Context, userID, index, taskID int) error {
	_, err := r.client.PutField(ctx, usersCollection, userID, fmt.Sprintf("tasks/%d", index), taskID)
	return err
}

func (r *StoreUserRepository) AppendContactAt(ctx context.Context, userID, index, contactID int) error {
	_, err := r.client.PutField(ctx, usersCollection, userID, fmt.Sprintf("contacts/%d", index), contactID)
	return err
}
