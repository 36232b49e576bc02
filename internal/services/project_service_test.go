package services

import (
	"context"
	"testing"

	"github.com/devforge/codelab/internal/domain/message"
	"github.com/devforge/codelab/internal/domain/project"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/testutil"
)

func newProjectServiceForTest(t *testing.T) (project.Service, message.Service, *testutil.MockUserRepository) {
	t.Helper()
	projects := testutil.NewMockProjectRepository()
	messages := testutil.NewMockMessageRepository()
	users := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	projectSvc := NewProjectService(projects, messages, users, log)
	messageSvc := NewMessageService(messages, projects, log)
	return projectSvc, messageSvc, users
}

func TestProjectService_CreateBumpsUsage(t *testing.T) {
	svc, _, users := newProjectServiceForTest(t)
	ctx := context.Background()
	owner := seedUserWithPassword(t, users, "owner@example.com", "password123")

	p, err := svc.Create(ctx, owner.ID, "api-server", "backend", "go")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.UserID != owner.ID {
		t.Errorf("UserID = %d, want %d", p.UserID, owner.ID)
	}
	if owner.ProjectsCreated != 1 {
		t.Errorf("ProjectsCreated = %d, want 1", owner.ProjectsCreated)
	}
}

func TestProjectService_OwnerScoping(t *testing.T) {
	svc, _, users := newProjectServiceForTest(t)
	ctx := context.Background()
	owner := seedUserWithPassword(t, users, "owner@example.com", "password123")
	other := seedUserWithPassword(t, users, "other@example.com", "password123")

	p, err := svc.Create(ctx, owner.ID, "secret", "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Someone else's project behaves as if it does not exist
	if _, err := svc.GetByID(ctx, other.ID, p.ID); err == nil {
		t.Error("GetByID() exposed another user's project")
	}
	if _, err := svc.Update(ctx, other.ID, p.ID, "stolen", "", ""); err == nil {
		t.Error("Update() modified another user's project")
	}
	if err := svc.Delete(ctx, other.ID, p.ID); err == nil {
		t.Error("Delete() removed another user's project")
	}

	got, err := svc.GetByID(ctx, owner.ID, p.ID)
	if err != nil {
		t.Fatalf("owner GetByID() error = %v", err)
	}
	if got.Name != "secret" {
		t.Errorf("name = %q, want secret", got.Name)
	}

	projects, total, err := svc.List(ctx, other.ID, 20, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 0 || len(projects) != 0 {
		t.Error("List() leaked another user's projects")
	}
}

func TestProjectService_DeleteCascadesHistory(t *testing.T) {
	projectSvc, messageSvc, users := newProjectServiceForTest(t)
	ctx := context.Background()
	owner := seedUserWithPassword(t, users, "owner@example.com", "password123")

	p, err := projectSvc.Create(ctx, owner.ID, "chat", "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := messageSvc.Create(ctx, owner.ID, p.ID, message.RoleUser, "hello"); err != nil {
		t.Fatalf("message Create() error = %v", err)
	}

	if err := projectSvc.Delete(ctx, owner.ID, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, _, err := messageSvc.List(ctx, owner.ID, p.ID, 50, 0); err == nil {
		t.Error("List() served history of a deleted project")
	}
}

func TestMessageService_Create(t *testing.T) {
	projectSvc, messageSvc, users := newProjectServiceForTest(t)
	ctx := context.Background()
	owner := seedUserWithPassword(t, users, "owner@example.com", "password123")
	other := seedUserWithPassword(t, users, "other@example.com", "password123")

	p, err := projectSvc.Create(ctx, owner.ID, "chat", "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := messageSvc.Create(ctx, owner.ID, p.ID, "moderator", "hi"); err == nil {
		t.Error("Create() accepted an unknown role")
	}
	if _, err := messageSvc.Create(ctx, other.ID, p.ID, message.RoleUser, "hi"); err == nil {
		t.Error("Create() wrote into another user's project")
	}

	for _, content := range []string{"first", "second"} {
		if _, err := messageSvc.Create(ctx, owner.ID, p.ID, message.RoleUser, content); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	msgs, total, err := messageSvc.List(ctx, owner.ID, p.ID, 50, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Error("List() is not in chronological order")
	}
}
