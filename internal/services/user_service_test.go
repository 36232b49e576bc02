package services

import (
	"context"
	"testing"

	"github.com/devforge/codelab/internal/auth"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/testutil"
)

func newUserServiceForTest(t *testing.T) (user.Service, *testutil.MockUserRepository) {
	t.Helper()
	repo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewUserService(repo, testConfig(), log), repo
}

func seedUserWithPassword(t *testing.T, repo *testutil.MockUserRepository, email, password string) *user.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &user.User{Email: email, PasswordHash: hash, EmailVerified: true}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, repo := newUserServiceForTest(t)
	ctx := context.Background()
	u := seedUserWithPassword(t, repo, "p@example.com", "password123")

	updated, err := svc.UpdateProfile(ctx, u.ID, "New Name")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name = %q, want New Name", updated.Name)
	}

	if _, err := svc.UpdateProfile(ctx, 9999, "Ghost"); err == nil {
		t.Error("UpdateProfile() succeeded for a missing user")
	}
}

func TestUserService_VerifyPassword(t *testing.T) {
	svc, repo := newUserServiceForTest(t)
	ctx := context.Background()
	u := seedUserWithPassword(t, repo, "vp@example.com", "password123")

	ok, err := svc.VerifyPassword(ctx, u.ID, "password123")
	if err != nil || !ok {
		t.Errorf("VerifyPassword(correct) = %v, %v", ok, err)
	}

	ok, err = svc.VerifyPassword(ctx, u.ID, "wrong")
	if err != nil || ok {
		t.Errorf("VerifyPassword(wrong) = %v, %v", ok, err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, repo := newUserServiceForTest(t)
	ctx := context.Background()
	u := seedUserWithPassword(t, repo, "cp@example.com", "oldpassword")

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "newpassword"); err == nil {
		t.Fatal("ChangePassword() accepted a wrong current password")
	}

	if err := svc.ChangePassword(ctx, u.ID, "oldpassword", "newpassword"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	ok, _ := svc.VerifyPassword(ctx, u.ID, "newpassword")
	if !ok {
		t.Error("new password does not verify after change")
	}
	ok, _ = svc.VerifyPassword(ctx, u.ID, "oldpassword")
	if ok {
		t.Error("old password still verifies after change")
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, repo := newUserServiceForTest(t)
	ctx := context.Background()
	u := seedUserWithPassword(t, repo, "del@example.com", "password123")

	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.GetByID(ctx, u.ID); err == nil {
		t.Error("GetByID() found a deleted user")
	}
}
