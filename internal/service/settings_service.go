package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sai-tutoria/config"
	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
)

var ErrDefaultSessionsTooHigh = fmt.Errorf("%w: el número de sesiones por defecto excede el máximo permitido", ErrValidation)

// SettingsService runtime-editable tutoring settings
type SettingsService interface {
	Get(ctx context.Context) (*dto.TutoringSettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateTutoringSettingsRequest, callerID string) (*dto.TutoringSettingsResponse, error)
	// Effective stored settings, or the configured defaults when none were saved
	Effective(ctx context.Context) (*model.TutoringSettings, error)
}

type settingsService struct {
	cfg    *config.TutoringConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingsService creates a SettingsService
func NewSettingsService(cfg *config.TutoringConfig, repo *repository.Repository, logger *zap.Logger) SettingsService {
	return &settingsService{cfg: cfg, repo: repo, logger: logger}
}

func (s *settingsService) Effective(ctx context.Context) (*model.TutoringSettings, error) {
	st, err := s.repo.Settings.Get(ctx)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("reading tutoring settings failed", zap.Error(err))
		return nil, err
	}
	return &model.TutoringSettings{
		Singleton:               true,
		RiskThreshold:           s.cfg.RiskThreshold,
		DefaultRequiredSessions: s.cfg.DefaultRequiredSessions,
	}, nil
}

// ────────────────────── Get ──────────────────────

func (s *settingsService) Get(ctx context.Context) (*dto.TutoringSettingsResponse, error) {
	st, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(st), nil
}

// ────────────────────── Update ──────────────────────

func (s *settingsService) Update(ctx context.Context, req *dto.UpdateTutoringSettingsRequest, callerID string) (*dto.TutoringSettingsResponse, error) {
	st, err := s.Effective(ctx)
	if err != nil {
		return nil, err
	}

	if req.RiskThreshold != nil {
		st.RiskThreshold = *req.RiskThreshold
	}
	if req.DefaultRequiredSessions != nil {
		if *req.DefaultRequiredSessions > s.cfg.MaxRequiredSessions {
			return nil, ErrDefaultSessionsTooHigh
		}
		st.DefaultRequiredSessions = *req.DefaultRequiredSessions
	}
	st.UpdatedBy = &callerID

	if err := s.repo.Settings.Save(ctx, st); err != nil {
		s.logger.Error("saving tutoring settings failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("tutoring settings updated",
		zap.Float64("risk_threshold", st.RiskThreshold),
		zap.Int("default_required_sessions", st.DefaultRequiredSessions),
		zap.String("by", callerID),
	)
	return s.toResponse(st), nil
}

func (s *settingsService) toResponse(st *model.TutoringSettings) *dto.TutoringSettingsResponse {
	resp := &dto.TutoringSettingsResponse{
		RiskThreshold:           st.RiskThreshold,
		DefaultRequiredSessions: st.DefaultRequiredSessions,
		MaxRequiredSessions:     s.cfg.MaxRequiredSessions,
	}
	if !st.UpdatedAt.IsZero() {
		resp.UpdatedAt = st.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
