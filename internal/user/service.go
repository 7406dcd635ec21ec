package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrSurnameRequired    = errors.New("surname is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrNoFieldsToUpdate   = errors.New("at least one field to update must be provided")
)

// Store is the persistence surface the service operates on.
// *Repository is the production implementation.
type Store interface {
	Create(ctx context.Context, name, surname, email, hashedPassword string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	Activate(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (uuid.UUID, error)
}

// Service handles user business logic. Each action performs exactly one
// store operation; there is no retry or cross-entity orchestration.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the input, hashes the password and persists a new
// active user
func (s *Service) Create(ctx context.Context, name, surname, email, password string) (*User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if surname == "" {
		return nil, ErrSurnameRequired
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.store.Create(ctx, name, surname, email, hashedPassword)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.GetByEmail(ctx, email)
}

// Deactivate soft-deletes an active user and returns its id
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return s.store.SoftDelete(ctx, id)
}

// Activate reactivates a soft-deleted user and returns its id
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return s.store.Activate(ctx, id)
}

// Update applies a partial update to an active user. Rejects an empty
// field set before touching the store.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (uuid.UUID, error) {
	if params.Name == nil && params.Surname == nil && params.Email == nil {
		return uuid.Nil, ErrNoFieldsToUpdate
	}
	if params.Name != nil && *params.Name == "" {
		return uuid.Nil, ErrNameRequired
	}
	if params.Surname != nil && *params.Surname == "" {
		return uuid.Nil, ErrSurnameRequired
	}
	if params.Email != nil {
		if err := validateEmail(*params.Email); err != nil {
			return uuid.Nil, err
		}
	}

	return s.store.Update(ctx, id, params)
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > 254 {
		return ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmailFormat
	}
	return nil
}
