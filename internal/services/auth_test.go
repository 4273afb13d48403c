package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasperFyhn/ulgis/internal/apierr"
	"github.com/KasperFyhn/ulgis/internal/repos"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db, log := testDB(t)
	return NewAuthService(db, log, repos.NewAdminUserRepo(db, log), "test-secret", time.Hour)
}

func TestAuthService_RegisterLoginVerify(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "kasper", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := service.Login(ctx, "kasper", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	name, err := service.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if name != "kasper" {
		t.Fatalf("token subject = %q", name)
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "kasper", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var apiErr *apierr.Error
	if _, err := service.Login(ctx, "kasper", "wrong"); !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Fatalf("want 401 apierr, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody", "hunter22"); !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Fatalf("want 401 apierr, got %v", err)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	service := newAuthService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "kasper", "hunter22"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var apiErr *apierr.Error
	if _, err := service.Register(ctx, "kasper", "other"); !errors.As(err, &apiErr) || apiErr.Status != 409 {
		t.Fatalf("want 409 apierr, got %v", err)
	}
}

func TestAuthService_VerifyGarbageToken(t *testing.T) {
	service := newAuthService(t)
	if _, err := service.VerifyToken("not.a.token"); err == nil {
		t.Fatal("expected an error for a garbage token")
	}
}
