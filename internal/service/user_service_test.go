package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
)

func setupUserService() (UserService, *testRepos) {
	repos := newTestRepos()
	seedAcademic(repos)
	seedUser(repos, "user-admin", "admin", model.RoleAdmin, nil)
	return NewUserService(repos.toRepository(), zap.NewNop()), repos
}

func TestUserService_Create(t *testing.T) {
	svc, repos := setupUserService()
	ctx := context.Background()
	teacher := fxTeacher

	u, err := svc.Create(ctx, &dto.CreateUserRequest{
		Username: " aperez ", Password: "password123", FullName: "Ana Pérez",
		Role: model.RoleTeacher, TeacherID: &teacher,
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.Username != "aperez" || u.TeacherID == nil || *u.TeacherID != fxTeacher {
		t.Errorf("unexpected user %+v", u)
	}

	stored := repos.user.users[u.ID]
	if stored.PasswordHash == "password123" {
		t.Fatal("password stored in clear text")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")) != nil {
		t.Error("hash does not match the password")
	}

	if _, err := svc.Create(ctx, &dto.CreateUserRequest{Username: "aperez", Password: "password123", Role: model.RoleAdmin}, "user-admin"); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserService_Create_TeacherLink(t *testing.T) {
	svc, _ := setupUserService()
	ctx := context.Background()
	missing := "teacher-ghost"

	tests := []struct {
		name      string
		teacherID *string
		wantErr   error
	}{
		{"no link", nil, ErrTeacherLinkRequired},
		{"unknown teacher", &missing, ErrTeacherNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &dto.CreateUserRequest{
				Username: "docente", Password: "password123", Role: model.RoleTeacher, TeacherID: tt.teacherID,
			}, "user-admin")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// the link is dropped for other roles
	teacher := fxTeacher
	u, err := svc.Create(ctx, &dto.CreateUserRequest{
		Username: "coord", Password: "password123", Role: model.RoleCoordinator, TeacherID: &teacher,
	}, "user-admin")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.TeacherID != nil {
		t.Errorf("coordinator should not keep a teacher link, got %v", *u.TeacherID)
	}
}

func TestUserService_Update(t *testing.T) {
	svc, repos := setupUserService()
	ctx := context.Background()
	seedUser(repos, "user-coord", "coordinacion", model.RoleCoordinator, nil)

	role := model.RoleAdmin
	if _, err := svc.Update(ctx, "user-admin", &dto.UpdateUserRequest{Role: &role}, "user-admin"); err != nil {
		t.Errorf("keeping the own role is not a change: %v", err)
	}
	other := model.RoleCoordinator
	if _, err := svc.Update(ctx, "user-admin", &dto.UpdateUserRequest{Role: &other}, "user-admin"); !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("expected ErrUserSelfRoleChange, got %v", err)
	}

	teacherRole := model.RoleTeacher
	if _, err := svc.Update(ctx, "user-coord", &dto.UpdateUserRequest{Role: &teacherRole}, "user-admin"); !errors.Is(err, ErrTeacherLinkRequired) {
		t.Errorf("expected ErrTeacherLinkRequired, got %v", err)
	}

	teacher := fxTeacher
	u, err := svc.Update(ctx, "user-coord", &dto.UpdateUserRequest{Role: &teacherRole, TeacherID: &teacher}, "user-admin")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if u.Role != model.RoleTeacher || *u.TeacherID != fxTeacher {
		t.Errorf("unexpected user %+v", u)
	}

	taken := "admin"
	if _, err := svc.Update(ctx, "user-coord", &dto.UpdateUserRequest{Username: &taken}, "user-admin"); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", &dto.UpdateUserRequest{}, "user-admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, repos := setupUserService()
	ctx := context.Background()
	seedUser(repos, "user-coord", "coordinacion", model.RoleCoordinator, nil)

	if err := svc.Delete(ctx, "user-admin", "user-admin"); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("expected ErrUserSelfDelete, got %v", err)
	}
	if err := svc.Delete(ctx, "user-coord", "user-admin"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, "user-coord", "user-admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ListAndRoles(t *testing.T) {
	svc, repos := setupUserService()
	seedUser(repos, "user-coord", "coordinacion", model.RoleCoordinator, nil)

	users, total, err := svc.List(context.Background(), &dto.UserListRequest{Role: model.RoleCoordinator})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || users[0].Username != "coordinacion" {
		t.Errorf("unexpected users %+v", users)
	}

	roles := svc.Roles()
	if len(roles) != 3 || roles[2].Code != model.RoleTeacher || roles[2].Name != "Docente" {
		t.Errorf("unexpected roles %+v", roles)
	}
}
