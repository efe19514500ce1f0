package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/session"
	"github.com/joinboard/join-api/internal/utils"
)

var (
	ErrContactNotFound     = errors.New("contact not found")
	ErrCannotDeleteProfile = errors.New("own profile cannot be deleted")
)

// ContactService handles the address book, including the mirrored own
// profile (requested as contact id 0) and the deletion fan-out across
// tasks and users.
type ContactService struct {
	contacts repository.ContactRepository
	tasks    repository.TaskRepository
	users    repository.UserRepository
}

func NewContactService(contacts repository.ContactRepository, tasks repository.TaskRepository, users repository.UserRepository) *ContactService {
	return &ContactService{contacts: contacts, tasks: tasks, users: users}
}

// CreateContactInput represents input for creating a contact.
type CreateContactInput struct {
	Name  string
	Email string
	Phone string
}

// Create allocates the next contact id, writes the record and attaches it
// to the acting user's membership list with the optimistic protocol:
// local push + persist first, remote append second, local pop if the
// remote write fails.
func (s *ContactService) Create(ctx context.Context, snap *models.ActiveUser, persist session.Persister, input CreateContactInput) (*models.Contact, error) {
	id, err := s.contacts.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate contact id: %w", err)
	}

	color, err := utils.RandomColor()
	if err != nil {
		return nil, fmt.Errorf("failed to pick avatar color: %w", err)
	}

	contact := &models.Contact{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Phone:    models.FlexString(strings.TrimSpace(input.Phone)),
		Initials: utils.Initials(input.Name),
		Color:    color,
	}

	if err := s.contacts.Save(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.attachContactToUser(ctx, snap, persist, id)
	return contact, nil
}

func (s *ContactService) attachContactToUser(ctx context.Context, snap *models.ActiveUser, persist session.Persister, contactID int) {
	if snap.HasContact(contactID) {
		return
	}
	snap.Contacts = append(snap.Contacts, contactID)
	if err := persist.Persist(snap); err != nil {
		log.Printf("failed to persist snapshot: %v", err)
	}
	if snap.IsGuest() {
		return
	}
	if err := s.users.AppendContactAt(ctx, snap.ID, len(snap.Contacts)-1, contactID); err != nil {
		log.Printf("failed to share contact %d with user %d: %v", contactID, snap.ID, err)
		snap.Contacts = snap.Contacts[:len(snap.Contacts)-1]
		if err := persist.Persist(snap); err != nil {
			log.Printf("failed to persist snapshot rollback: %v", err)
		}
	}
}

// ListForUser returns the contacts visible to the acting user.
func (s *ContactService) ListForUser(ctx context.Context, snap *models.ActiveUser) ([]models.Contact, error) {
	all, err := s.contacts.All(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Contact, 0, len(all))
	for _, contact := range all {
		if snap.HasContact(contact.ID) {
			visible = append(visible, contact)
		}
	}
	return visible, nil
}

// Get resolves a contact id for the acting user. Id 0 mirrors the user's
// own stored profile into the contacts view, marked with the sentinel
// color.
func (s *ContactService) Get(ctx context.Context, snap *models.ActiveUser, id int) (*models.Contact, error) {
	if id == 0 {
		user, err := s.users.FindByID(ctx, snap.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrContactNotFound
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		return &models.Contact{
			ID:       0,
			Name:     user.Name,
			Email:    user.Email,
			Phone:    user.Phone,
			Initials: user.Initials,
			Color:    models.UserColorSentinel,
		}, nil
	}

	contact, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return contact, nil
}

// UpdateContactInput represents input for editing a contact.
type UpdateContactInput struct {
	Name  string
	Email string
	Phone string
}

// Update rewrites a contact record. When the target is the acting user's
// mirrored profile (id 0 or the sentinel color) the edit goes to the user
// record itself. Initials are re-derived from the new name.
func (s *ContactService) Update(ctx context.Context, snap *models.ActiveUser, persist session.Persister, id int, input UpdateContactInput) (*models.Contact, error) {
	existing, err := s.Get(ctx, snap, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if existing.IsUserProfile() {
		user, err := s.users.FindByID(ctx, snap.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		user.Name = name
		user.Email = strings.TrimSpace(input.Email)
		user.Phone = models.FlexString(strings.TrimSpace(input.Phone))
		user.Initials = utils.Initials(name)
		if err := s.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}

		snap.Name = user.Name
		snap.Email = user.Email
		snap.Phone = user.Phone
		snap.Initials = user.Initials
		if err := persist.Persist(snap); err != nil {
			return nil, fmt.Errorf("failed to persist snapshot: %w", err)
		}

		updated := *existing
		updated.Name = user.Name
		updated.Email = user.Email
		updated.Phone = user.Phone
		updated.Initials = user.Initials
		return &updated, nil
	}

	existing.Name = name
	existing.Email = strings.TrimSpace(input.Email)
	existing.Phone = models.FlexString(strings.TrimSpace(input.Phone))
	existing.Initials = utils.Initials(name)
	if err := s.contacts.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return existing, nil
}

// Delete fans a contact deletion out across the system. Shared default
// contacts (ids 1-10) are only detached from the acting user; all others
// are removed for everyone. Either way the id is stripped from every
// task's assigned list and from the snapshot. Partial failure leaves the
// remainder undone; there is no rollback.
func (s *ContactService) Delete(ctx context.Context, snap *models.ActiveUser, persist session.Persister, id int) error {
	if id == 0 {
		return ErrCannotDeleteProfile
	}
	if _, err := s.Get(ctx, snap, id); err != nil {
		return err
	}

	if id >= 1 && id <= models.DefaultContactMaxID {
		if err := s.detachFromUser(ctx, snap, id); err != nil {
			return err
		}
	} else {
		if err := s.deleteForAllUsers(ctx, snap, id); err != nil {
			return err
		}
	}

	if err := s.removeFromTasks(ctx, id); err != nil {
		return err
	}

	snap.Contacts = models.RemoveID(snap.Contacts, id)
	if err := persist.Persist(snap); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// detachFromUser strips the contact from the acting user's membership
// list only. A no-op on the remote store for the guest.
func (s *ContactService) detachFromUser(ctx context.Context, snap *models.ActiveUser, contactID int) error {
	if snap.IsGuest() {
		return nil
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	for i := range users {
		if users[i].ID == snap.ID {
			users[i].Contacts = models.RemoveID(users[i].Contacts, contactID)
		}
	}
	if err := s.users.ReplaceAll(ctx, users); err != nil {
		return fmt.Errorf("failed to update users: %w", err)
	}
	return nil
}

// deleteForAllUsers clears the contact's slot and strips the id from
// every user's membership list (the latter skipped for the guest).
func (s *ContactService) deleteForAllUsers(ctx context.Context, snap *models.ActiveUser, contactID int) error {
	if err := s.contacts.Delete(ctx, contactID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if snap.IsGuest() {
		return nil
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	for i := range users {
		users[i].Contacts = models.RemoveID(users[i].Contacts, contactID)
	}
	if err := s.users.ReplaceAll(ctx, users); err != nil {
		return fmt.Errorf("failed to update users: %w", err)
	}
	return nil
}

// removeFromTasks strips the contact id from every task's assigned list
// in one whole-collection replace.
func (s *ContactService) removeFromTasks(ctx context.Context, contactID int) error {
	tasks, err := s.tasks.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	if tasks == nil {
		return nil
	}
	for i := range tasks {
		tasks[i].Assigned = models.RemoveID(tasks[i].Assigned, contactID)
	}
	if err := s.tasks.ReplaceAll(ctx, tasks); err != nil {
		return fmt.Errorf("failed to update tasks: %w", err)
	}
	return nil
}
