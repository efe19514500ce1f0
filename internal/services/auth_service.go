package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joinboard/join-api/internal/models"
	"github.com/joinboard/join-api/internal/repository"
	"github.com/joinboard/join-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// New accounts start with the shared tutorial content visible: sample
// tasks 6-10 and the ten default contacts. The guest sees tasks 1-5.
var (
	defaultUserTasks    = []int{6, 7, 8, 9, 10}
	defaultGuestTasks   = []int{1, 2, 3, 4, 5}
	defaultContactsList = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
)

// AuthService handles signup, login and the guest identity.
type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup allocates the next user id, hashes the password and writes the
// new account at its slot. The id comes from the last stored element, so
// two concurrent signups can collide; the later write wins the slot.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	id, err := s.users.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		ID:       id,
		Name:     name,
		Initials: utils.Initials(name),
		Email:    email,
		Password: string(hashed),
		Color:    models.UserColorSentinel,
		Tasks:    append([]int(nil), defaultUserTasks...),
		Contacts: append([]int(nil), defaultContactsList...),
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the matching account.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a stored account by id.
func (s *AuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Snapshot builds the session snapshot for an account. The password hash
// never enters the session.
func (s *AuthService) Snapshot(user *models.User) *models.ActiveUser {
	return &models.ActiveUser{
		ID:       user.ID,
		Name:     user.Name,
		Initials: user.Initials,
		Email:    user.Email,
		Color:    user.Color,
		Phone:    user.Phone,
		Tasks:    append([]int(nil), user.Tasks...),
		Contacts: append([]int(nil), user.Contacts...),
	}
}

// GuestSnapshot is the fixed, never-persisted guest identity (id 0). No
// operation on behalf of the guest may write to the users collection.
func (s *AuthService) GuestSnapshot() *models.ActiveUser {
	return &models.ActiveUser{
		ID:       models.GuestID,
		Name:     "Guest",
		Initials: "G",
		Email:    "guest@gmail.com",
		Color:    models.UserColorSentinel,
		Tasks:    append([]int(nil), defaultGuestTasks...),
		Contacts: append([]int(nil), defaultContactsList...),
	}
}
