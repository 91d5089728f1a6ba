package service

import (
	"time"

	"go.uber.org/zap"

	"sai-tutoria/config"
	"sai-tutoria/internal/repository"
	"sai-tutoria/pkg/jwt"
	"sai-tutoria/pkg/keylock"
	"sai-tutoria/pkg/mailer"
	"sai-tutoria/pkg/refcache"
)

// Service aggregate of every service
type Service struct {
	Auth       AuthService
	User       UserService
	Reference  ReferenceService
	Settings   SettingsService
	Grade      GradeService
	Risk       RiskService
	Assignment AssignmentService
	Tutoring   TutoringService
	Cronograma CronogramaService
	Export     ExportService
	Document   DocumentService
	Stats      StatsService
}

// Deps shared infrastructure handed to the services
type Deps struct {
	JWT       *jwt.Manager
	Blacklist TokenBlacklist // nil without Redis
	Cache     *refcache.Cache
	Locks     *keylock.Locker
	Notifier  mailer.Notifier
	Now       func() time.Time // nil means time.Now
}

// NewService builds the aggregate
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Deps,
	logger *zap.Logger,
) *Service {
	var tutoringOpts []TutoringOption
	if deps.Now != nil {
		tutoringOpts = append(tutoringOpts, WithClock(deps.Now))
	}

	settings := NewSettingsService(&cfg.Tutoring, repo, logger)
	cronograma := NewCronogramaService(repo, cfg.Tutoring.Location(), logger)

	return &Service{
		Auth:       NewAuthService(repo, deps.JWT, deps.Blacklist, logger),
		User:       NewUserService(repo, logger),
		Reference:  NewReferenceService(repo, deps.Cache, logger),
		Settings:   settings,
		Grade:      NewGradeService(repo, settings, logger),
		Risk:       NewRiskService(repo, settings, logger),
		Assignment: NewAssignmentService(repo, settings, deps.Notifier, logger),
		Tutoring:   NewTutoringService(&cfg.Tutoring, repo, settings, deps.Locks, logger, tutoringOpts...),
		Cronograma: cronograma,
		Export:     NewExportService(cfg.Export, repo, cronograma, deps.Now, logger),
		Document:   NewDocumentService(&cfg.Storage, repo, logger),
		Stats:      NewStatsService(repo, logger),
	}
}
