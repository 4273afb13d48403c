package repos

import (
	"context"
	"testing"

	"github.com/KasperFyhn/ulgis/internal/types"
)

func TestAdminUserRepo_CreateAndGetByName(t *testing.T) {
	db, log := testDB(t)
	repo := NewAdminUserRepo(db, log)
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, []*types.AdminUser{
		{Name: "kasper", PasswordHash: "$2a$10$hash"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("got %d rows", len(created))
	}

	got, err := repo.GetByName(ctx, nil, "kasper")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got == nil || got.PasswordHash != "$2a$10$hash" {
		t.Fatalf("GetByName returned %+v", got)
	}
}

func TestAdminUserRepo_GetByNameMissingIsNil(t *testing.T) {
	db, log := testDB(t)
	repo := NewAdminUserRepo(db, log)

	got, err := repo.GetByName(context.Background(), nil, "nobody")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for an unknown name, got %+v", got)
	}
}
