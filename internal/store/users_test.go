package store

import (
	"context"
	"testing"

	"github.com/nrstore/storefront/internal/db"
	"github.com/nrstore/storefront/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "admin", "hash", model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Username != "admin" || u.Role != model.RoleAdmin {
		t.Errorf("unexpected user: %+v", u)
	}

	byName, err := GetUserByUsername(ctx, database, "admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName == nil || byName.ID != u.ID {
		t.Error("expected to find user by username")
	}

	missing, _ := GetUserByUsername(ctx, database, "nobody")
	if missing != nil {
		t.Error("expected nil for unknown username")
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, _ := CreateUser(ctx, database, "admin", "old", model.RoleAdmin)

	if err := UpdateUserPassword(ctx, database, u.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, u.ID)
	if got.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}
}
