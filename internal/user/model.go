package user

import (
	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"-"`
}

// UpdateParams carries the mutable user fields for a partial update.
// A nil field is left untouched.
type UpdateParams struct {
	Name    *string
	Surname *string
	Email   *string
}
