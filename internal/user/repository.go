package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"user-service/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository handles user data persistence. It is the only component
// issuing statements against the users table; every write is a single
// statement.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new, active user and returns it with the generated id
func (r *Repository) Create(ctx context.Context, name, surname, email, hashedPassword string) (*User, error) {
	dbUser := &database.User{
		Name:           name,
		Surname:        surname,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by id, active or not
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email, active or not
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// SoftDelete deactivates an active user. The row stays in place and keeps
// its email in the uniqueness namespace. Returns ErrNotFound when the row
// is missing or already inactive.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Exec(ctx)

	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to soft delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return uuid.Nil, ErrNotFound
	}

	return id, nil
}

// Activate reactivates an inactive user. Returns ErrNotFound when the row
// is missing or already active.
func (r *Repository) Activate(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("is_active = ?", true).
		Where("id = ?", id).
		Where("is_active = ?", false).
		Exec(ctx)

	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to activate user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return uuid.Nil, ErrNotFound
	}

	return id, nil
}

// Update applies a partial set of field assignments to an active user.
// Returns ErrNotFound when the row is missing or inactive, and
// ErrDuplicateEmail when the new email collides with another row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (uuid.UUID, error) {
	query := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Where("is_active = ?", true)

	if params.Name != nil {
		query = query.Set("name = ?", *params.Name)
	}
	if params.Surname != nil {
		query = query.Set("surname = ?", *params.Surname)
	}
	if params.Email != nil {
		query = query.Set("email = ?", *params.Email)
	}

	result, err := query.Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrDuplicateEmail
		}
		return uuid.Nil, fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return uuid.Nil, ErrNotFound
	}

	return id, nil
}

// isUniqueViolation reports whether err is a postgres unique constraint
// rejection (class 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:             dbu.ID,
		Name:           dbu.Name,
		Surname:        dbu.Surname,
		Email:          dbu.Email,
		HashedPassword: dbu.HashedPassword,
		IsActive:       dbu.IsActive,
		IsSuperuser:    dbu.IsSuperuser,
	}
}
