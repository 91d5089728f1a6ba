package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sai-tutoria/config"
	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/pkg/jwt"
)

// fakeBlacklist records revoked token ids
type fakeBlacklist struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[jti] = ttl
	return nil
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-tests", AccessTokenTTL: 15 * time.Minute})
}

// seedUser stores a user whose password is "password123"
func seedUser(r *testRepos, id, username, role string, teacherID *string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	u := &model.User{
		UserID:       id,
		Username:     username,
		PasswordHash: string(hash),
		FullName:     username,
		Role:         role,
		TeacherID:    teacherID,
	}
	_ = r.user.Create(context.Background(), u)
	return u
}

func setupAuthService() (AuthService, *testRepos, *jwt.Manager, *fakeBlacklist) {
	repos := newTestRepos()
	seedAcademic(repos)
	teacher := fxTeacher
	seedUser(repos, "user-ana", "aperez", model.RoleTeacher, &teacher)
	seedUser(repos, "user-coord", "coordinacion", model.RoleCoordinator, nil)

	mgr := newTestJWT()
	bl := &fakeBlacklist{revoked: make(map[string]time.Duration)}
	return NewAuthService(repos.toRepository(), mgr, bl, zap.NewNop()), repos, mgr, bl
}

func TestAuthService_Login(t *testing.T) {
	svc, _, mgr, _ := setupAuthService()

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "aperez", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 900 {
		t.Errorf("unexpected token response %+v", resp)
	}
	if resp.User.Role != model.RoleTeacher || resp.User.TeacherID == nil || *resp.User.TeacherID != fxTeacher {
		t.Errorf("unexpected user %+v", resp.User)
	}

	claims, err := mgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "user-ana" || claims.Role != model.RoleTeacher || claims.TeacherID != fxTeacher {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _, _ := setupAuthService()

	tests := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"wrong password", dto.LoginRequest{Username: "aperez", Password: "nope"}},
		{"unknown user", dto.LoginRequest{Username: "ghost", Password: "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, mgr, bl := setupAuthService()
	ctx := context.Background()

	token, _ := mgr.GenerateAccessToken("user-ana", model.RoleTeacher, fxTeacher)
	claims, _ := mgr.ParseToken(token)

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	ttl, ok := bl.revoked[claims.ID]
	if !ok {
		t.Fatal("token id not blacklisted")
	}
	if ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("ttl should be the remaining lifetime, got %v", ttl)
	}

	bl.err = errors.New("redis down")
	if err := svc.Logout(ctx, claims); err == nil {
		t.Error("expected the blacklist error")
	}
}

func TestAuthService_Logout_NoBlacklist(t *testing.T) {
	repos := newTestRepos()
	svc := NewAuthService(repos.toRepository(), newTestJWT(), nil, zap.NewNop())
	if err := svc.Logout(context.Background(), &jwt.Claims{}); err != nil {
		t.Errorf("logout without a blacklist should succeed, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _, _, _ := setupAuthService()
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "user-coord", &dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpassword1"})
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	if err := svc.ChangePassword(ctx, "user-coord", &dto.ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpassword1"}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "coordinacion", Password: "newpassword1"}); err != nil {
		t.Errorf("login with the new password failed: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "coordinacion", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password must stop working, got %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _, _ := setupAuthService()

	me, err := svc.Me(context.Background(), "user-coord")
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.Username != "coordinacion" || me.Role != model.RoleCoordinator {
		t.Errorf("unexpected user %+v", me)
	}
	if _, err := svc.Me(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
