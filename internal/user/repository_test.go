package user

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"user-service/internal/database"
)

func TestIsUniqueViolation(t *testing.T) {
	pqErr := &pq.Error{Code: "23505"}
	if !isUniqueViolation(pqErr) {
		t.Fatalf("unique_violation not detected")
	}
	if !isUniqueViolation(fmt.Errorf("failed to insert: %w", pqErr)) {
		t.Fatalf("wrapped unique_violation not detected")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign_key_violation misclassified as unique")
	}
	if isUniqueViolation(fmt.Errorf("connection refused")) {
		t.Fatalf("plain error misclassified as unique violation")
	}
}

func TestMapDBUserToModel(t *testing.T) {
	id := uuid.New()
	dbUser := &database.User{
		ID:             id,
		Name:           "Jane",
		Surname:        "Doe",
		Email:          "jane@example.com",
		HashedPassword: "$argon2id$...",
		IsActive:       false,
		IsSuperuser:    true,
	}

	got := mapDBUserToModel(dbUser)
	if got.ID != id || got.Name != "Jane" || got.Surname != "Doe" || got.Email != "jane@example.com" {
		t.Fatalf("identity fields not mapped: %+v", got)
	}
	if got.HashedPassword != dbUser.HashedPassword {
		t.Fatalf("hashed password not mapped")
	}
	if got.IsActive || !got.IsSuperuser {
		t.Fatalf("flags not mapped: %+v", got)
	}
}
