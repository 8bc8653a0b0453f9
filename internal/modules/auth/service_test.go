package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"fieldbook/internal/domain"
	"fieldbook/internal/repository"
)

type stubJWT struct{}

func (stubJWT) GenerateToken(userID, role string) (string, error) {
	return "token-" + userID + "-" + role, nil
}

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(repository.NewUserRepository(db), stubJWT{})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ada",
		Email:    "Ada@Example.COM",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token on register")
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email not normalised: %q", user.Email)
	}
	if user.Role != domain.RoleSurveyor {
		t.Fatalf("default role should be surveyor, got %s", user.Role)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked in register result")
	}

	logged, _, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("login returned different user: %s vs %s", logged.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	req := RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}
	if _, _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := setupAuthService(t)
	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "hunter22", Role: "admin",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	svc.Register(ctx, RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse"})

	if _, _, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should be ErrInvalidCredentials, got %v", err)
	}
}

func TestGetCurrentUserStripsHash(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, _, _ := svc.Register(ctx, RegisterRequest{
		Name: "Sue", Email: "sue@example.com", Password: "longenough", Role: "supervisor",
	})

	got, err := svc.GetCurrentUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetCurrentUser returned error: %v", err)
	}
	if got.Role != domain.RoleSupervisor {
		t.Fatalf("role not persisted: %s", got.Role)
	}
	if got.PasswordHash != "" {
		t.Fatal("password hash leaked")
	}
}
