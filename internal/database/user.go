package database

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun table model for the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name           string    `bun:"name,notnull"`
	Surname        string    `bun:"surname,notnull"`
	Email          string    `bun:"email,notnull,unique"`
	HashedPassword string    `bun:"hashed_password,notnull"`
	IsActive       bool      `bun:"is_active,notnull,default:true"`
	IsSuperuser    bool      `bun:"is_superuser,notnull,default:false"`
}
