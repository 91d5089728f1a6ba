package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/repository"
)

// RiskService resolves students below the risk threshold
type RiskService interface {
	// Resolve at-risk students of a period and level not yet assigned, by shift.
	// Both ids are required; nothing is queried otherwise.
	Resolve(ctx context.Context, periodID, levelID string) (*dto.CandidatePartition, error)
}

type riskService struct {
	repo     *repository.Repository
	settings SettingsService
	logger   *zap.Logger
}

// NewRiskService creates a RiskService
func NewRiskService(repo *repository.Repository, settings SettingsService, logger *zap.Logger) RiskService {
	return &riskService{repo: repo, settings: settings, logger: logger}
}

func (s *riskService) Resolve(ctx context.Context, periodID, levelID string) (*dto.CandidatePartition, error) {
	periodID = strings.TrimSpace(periodID)
	levelID = strings.TrimSpace(levelID)
	if periodID == "" || levelID == "" {
		return nil, ErrIncompleteSelection
	}

	st, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Candidate.ListAtRisk(ctx, repository.CandidateFilter{
		PeriodID:         periodID,
		SemesterPeriodID: levelID,
		Threshold:        st.RiskThreshold,
		ExcludeAssigned:  true,
	})
	if err != nil {
		s.logger.Error("listing risk candidates failed",
			zap.String("period_id", periodID),
			zap.String("level_id", levelID),
			zap.Error(err),
		)
		return nil, err
	}

	candidates := make([]dto.RiskCandidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, normalizeCandidate(&rows[i]))
	}

	p := partitionByShift(candidates)
	if n := len(p.Unclassified); n > 0 {
		s.logger.Warn("risk candidates without a recognizable shift",
			zap.String("level_id", levelID),
			zap.Int("count", n),
		)
	}
	return p, nil
}
