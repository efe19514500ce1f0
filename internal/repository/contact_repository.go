package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/store"
)

const contactsCollection = "contacts"

// StoreContactRepository implements ContactRepository over the document store.
type StoreContactRepository struct {
	client *store.Client
}

func NewContactRepository(client *store.Client) ContactRepository {
	return &StoreContactRepository{client: client}
}

func (r *StoreContactRepository) All(ctx context.Context) ([]models.Contact, error) {
	records, err := r.client.FetchCollection(ctx, contactsCollection)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, nil
	}
	contacts := make([]models.Contact, 0, len(records))
	for _, raw := range records {
		contact, err := models.DecodeContact(raw)
		if err != nil {
			return nil, fmt.Errorf("contacts collection: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	return contacts, nil
}

func (r *StoreContactRepository) FindByID(ctx context.Context, id int) (*models.Contact, error) {
	contacts, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID == id {
			return &contacts[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreContactRepository) Save(ctx context.Context, contact *models.Contact) error {
	_, err := r.client.PutRecord(ctx, contactsCollection, contact.ID, contact)
	return err
}

func (r *StoreContactRepository) ReplaceAll(ctx context.Context, contacts []models.Contact) error {
	doc := make(map[string]models.Contact, len(contacts))
	for _, contact := range contacts {
		doc[strconv.Itoa(contact.ID-1)] = contact
	}
	_, err := r.client.Put(ctx, contactsCollection, doc)
	return err
}

func (r *StoreContactRepository) Delete(ctx context.Context, id int) error {
	_, err := r.client.Delete(ctx, contactsCollection, id)
	return err
}

func (r *StoreContactRepository) NextID(ctx context.Context) (int, error) {
	return r.client.AllocateID(ctx, contactsCollection)
}
