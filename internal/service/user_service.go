package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
)

// ── user module errors ──

var (
	ErrUsernameExists      = errors.New("el nombre de usuario ya existe")
	ErrUserSelfRoleChange  = errors.New("no puede cambiar su propio rol")
	ErrUserSelfDelete      = errors.New("no puede eliminar su propia cuenta")
	ErrTeacherLinkRequired = errors.New("las cuentas DOCENTE deben vincularse a un docente")
)

var roleNames = map[string]string{
	model.RoleAdmin:       "Administrador",
	model.RoleCoordinator: "Coordinador",
	model.RoleTeacher:     "Docente",
}

// UserService portal account management
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	Roles() []dto.RoleResponse
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.checkTeacherLink(ctx, req.Role, req.TeacherID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hashing password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		Role:         req.Role,
	}
	if req.Role == model.RoleTeacher {
		user.TeacherID = req.TeacherID
	}
	user.CreatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("creating user failed", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.User.GetByID(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(created), nil
}

// checkTeacherLink DOCENTE accounts must point at an existing teacher
func (s *userService) checkTeacherLink(ctx context.Context, role string, teacherID *string) error {
	if role != model.RoleTeacher {
		return nil
	}
	if teacherID == nil || *teacherID == "" {
		return ErrTeacherLinkRequired
	}
	if _, err := s.repo.Reference.GetTeacher(ctx, *teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}
	return nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("looking up user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{Role: req.Role, Keyword: req.Keyword}

	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("listing users failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("looking up user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		existing, err := s.repo.User.GetByUsername(ctx, username)
		if err == nil && existing.UserID != id {
			return nil, ErrUsernameExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = username
	}
	if req.Role != nil && *req.Role != user.Role {
		if id == callerID {
			return nil, ErrUserSelfRoleChange
		}
		user.Role = *req.Role
	}
	if req.TeacherID != nil {
		user.TeacherID = req.TeacherID
	}
	if user.Role != model.RoleTeacher {
		user.TeacherID = nil
	} else if err := s.checkTeacherLink(ctx, user.Role, user.TeacherID); err != nil {
		return nil, err
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("hashing password failed", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("updating user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}

	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("looking up user failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.User.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("deleting user failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Roles ──────────────────────

func (s *userService) Roles() []dto.RoleResponse {
	out := make([]dto.RoleResponse, 0, len(model.Roles))
	for _, r := range model.Roles {
		out = append(out, dto.RoleResponse{Code: r, Name: roleNames[r]})
	}
	return out
}

// ── conversion ──

func toUserResponse(u *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:        u.UserID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		TeacherID: u.TeacherID,
	}
	if u.Teacher != nil {
		resp.TeacherName = u.Teacher.FullName()
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
