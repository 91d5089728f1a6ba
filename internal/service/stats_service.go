package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
)

const statsTopLimit = 10

// StatsService tutoring dashboard aggregates
type StatsService interface {
	Summary(ctx context.Context, req *dto.StatsQuery) (*dto.StatsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatsService creates a StatsService
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger}
}

// Summary runs the three aggregates concurrently
func (s *statsService) Summary(ctx context.Context, req *dto.StatsQuery) (*dto.StatsResponse, error) {
	var (
		byStatus []repository.SessionStatusCount
		subjects []repository.SubjectCount
		teachers []repository.TeacherCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.repo.Stats.SessionStatusBySection(gctx, req.SemesterPeriodID)
		return err
	})
	g.Go(func() error {
		var err error
		subjects, err = s.repo.Stats.TopSubjects(gctx, req.SemesterPeriodID, statsTopLimit)
		return err
	})
	g.Go(func() error {
		var err error
		teachers, err = s.repo.Stats.TeachersByIncomplete(gctx, req.SemesterPeriodID, statsTopLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("computing stats failed", zap.String("semester_period_id", req.SemesterPeriodID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StatsResponse{
		ByShift:     shiftStats(byStatus),
		TopSubjects: make([]dto.SubjectStat, 0, len(subjects)),
		Teachers:    make([]dto.TeacherStat, 0, len(teachers)),
	}
	for _, c := range subjects {
		resp.TopSubjects = append(resp.TopSubjects, dto.SubjectStat{SubjectID: c.SubjectID, SubjectName: c.SubjectName, Tutorings: c.Count})
	}
	for _, c := range teachers {
		resp.Teachers = append(resp.Teachers, dto.TeacherStat{TeacherID: c.TeacherID, TeacherName: titleName(c.TeacherName), Incomplete: c.Count})
	}
	return resp, nil
}

// shiftStats folds per-section counts into the shift buckets. The three
// classified shifts are always present; unclassified only when it has sessions.
func shiftStats(rows []repository.SessionStatusCount) []dto.ShiftStats {
	buckets := map[model.Shift]*dto.ShiftStats{
		model.ShiftUnclassified: {Shift: string(model.ShiftUnclassified), Name: model.ShiftUnclassified.DisplayName()},
	}
	for _, sh := range model.Shifts {
		buckets[sh] = &dto.ShiftStats{Shift: string(sh), Name: sh.DisplayName()}
	}

	for _, r := range rows {
		b := buckets[model.ClassifyShift(r.Jornada, r.SectionName)]
		switch r.Status {
		case model.SessionPending:
			b.Pending += r.Count
		case model.SessionDone:
			b.Done += r.Count
		case model.SessionAbsence:
			b.Absence += r.Count
		case model.SessionIncomplete:
			b.Incomplete += r.Count
		default:
			continue
		}
		b.Total += r.Count
	}

	out := make([]dto.ShiftStats, 0, len(buckets))
	for _, sh := range model.Shifts {
		out = append(out, *buckets[sh])
	}
	if u := buckets[model.ShiftUnclassified]; u.Total > 0 {
		out = append(out, *u)
	}
	return out
}
