package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/repository/postgres"
	"github.com/devforge/codelab/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	code := "123456"
	expires := time.Now().Add(10 * time.Minute)
	u := &user.User{
		Email:        "test@example.com",
		Name:         "Test User",
		PasswordHash: "hash",
	}
	u.SetOTPChallenge(code, expires)

	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	t.Run("by ID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Email != u.Email || got.Name != u.Name {
			t.Errorf("got %s/%s, want %s/%s", got.Email, got.Name, u.Email, u.Name)
		}
		if !got.HasOTPChallenge() || *got.OTPCode != code {
			t.Error("OTP challenge did not round-trip")
		}
	})

	t.Run("by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "test@example.com")
		if err != nil {
			t.Fatalf("GetByEmail() error = %v", err)
		}
		if got.ID != u.ID {
			t.Errorf("ID = %d, want %d", got.ID, u.ID)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		if appErr, ok := err.(*errors.AppError); !ok || appErr.Code != errors.ErrCodeNotFound {
			t.Errorf("error = %v, want not found", err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := &user.User{Email: "test@example.com", PasswordHash: "hash"}
		if err := repo.Create(ctx, dup); err == nil {
			t.Error("Create() accepted a duplicate email")
		}
	})
}

func TestUserRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "u@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	u.EmailVerified = true
	u.Name = "Renamed"
	u.ClearOTPChallenge()
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.EmailVerified || got.Name != "Renamed" {
		t.Errorf("update did not persist: verified=%v name=%q", got.EmailVerified, got.Name)
	}
	if got.HasOTPChallenge() {
		t.Error("cleared challenge still present")
	}
}

func TestUserRepository_UpdateUsage(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "usage@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ts := time.Now().Unix()
	if err := repo.UpdateUsage(ctx, u.ID, 2, 17, &ts); err != nil {
		t.Fatalf("UpdateUsage() error = %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ProjectsCreated != 2 || got.TotalRequests != 17 {
		t.Errorf("usage = %d/%d, want 2/17", got.ProjectsCreated, got.TotalRequests)
	}
	if got.LastRequestAt == nil || got.LastRequestAt.Unix() != ts {
		t.Error("LastRequestAt did not persist")
	}

	if err := repo.UpdateUsage(ctx, 9999, 0, 0, nil); err == nil {
		t.Error("UpdateUsage() succeeded for a missing user")
	}
}

func TestUserRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "gone@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, u.ID); err == nil {
		t.Error("GetByID() found a deleted user")
	}
	if err := repo.Delete(ctx, u.ID); err == nil {
		t.Error("Delete() succeeded twice")
	}
}
