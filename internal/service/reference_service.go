package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
	"sai-tutoria/pkg/refcache"
)

// Reference data kinds, used as cache key prefixes
const (
	kindPeriods  = "periods"
	kindLevels   = "levels"
	kindSections = "sections"
	kindSubjects = "subjects"
	kindTeachers = "teachers"
)

// ReferenceService cached academic catalogue lookups
type ReferenceService interface {
	Periods(ctx context.Context) ([]dto.PeriodResponse, error)
	Levels(ctx context.Context, q *dto.LevelQuery) ([]dto.LevelResponse, error)
	Sections(ctx context.Context, q *dto.SectionQuery) ([]dto.SectionResponse, error)
	Subjects(ctx context.Context, q *dto.SubjectQuery) ([]dto.SubjectResponse, error)
	Teachers(ctx context.Context, q *dto.TeacherQuery) ([]dto.TeacherResponse, error)
	// Students is a search and bypasses the cache
	Students(ctx context.Context, q *dto.StudentQuery) ([]dto.StudentResponse, error)
	ClearCache() refcache.Stats
	CacheStats() refcache.Stats
}

type referenceService struct {
	repo   *repository.Repository
	cache  *refcache.Cache
	logger *zap.Logger
}

// NewReferenceService creates a ReferenceService over a shared cache
func NewReferenceService(repo *repository.Repository, cache *refcache.Cache, logger *zap.Logger) ReferenceService {
	return &referenceService{repo: repo, cache: cache, logger: logger}
}

func (s *referenceService) Periods(ctx context.Context) ([]dto.PeriodResponse, error) {
	return refcache.Fetch(ctx, s.cache, kindPeriods, nil, func(ctx context.Context) ([]dto.PeriodResponse, error) {
		periods, err := s.repo.Reference.ListPeriods(ctx)
		if err != nil {
			s.logger.Error("listing periods failed", zap.Error(err))
			return nil, err
		}
		out := make([]dto.PeriodResponse, 0, len(periods))
		for _, p := range periods {
			out = append(out, dto.PeriodResponse{
				ID:        p.PeriodID,
				Name:      p.Name,
				StartDate: p.StartDate.Format("2006-01-02"),
				EndDate:   p.EndDate.Format("2006-01-02"),
				IsActive:  p.IsActive,
			})
		}
		return out, nil
	})
}

func (s *referenceService) Levels(ctx context.Context, q *dto.LevelQuery) ([]dto.LevelResponse, error) {
	return refcache.Fetch(ctx, s.cache, kindLevels, q, func(ctx context.Context) ([]dto.LevelResponse, error) {
		levels, err := s.repo.Reference.ListLevels(ctx, q.PeriodID)
		if err != nil {
			s.logger.Error("listing levels failed", zap.String("period_id", q.PeriodID), zap.Error(err))
			return nil, err
		}
		out := make([]dto.LevelResponse, 0, len(levels))
		for _, l := range levels {
			out = append(out, dto.LevelResponse{
				ID:       l.SemesterPeriodID,
				PeriodID: l.PeriodID,
				Name:     l.Name,
				Level:    l.Level,
			})
		}
		return out, nil
	})
}

func (s *referenceService) Sections(ctx context.Context, q *dto.SectionQuery) ([]dto.SectionResponse, error) {
	return refcache.Fetch(ctx, s.cache, kindSections, q, func(ctx context.Context) ([]dto.SectionResponse, error) {
		sections, err := s.repo.Reference.ListSections(ctx, q.SemesterPeriodID)
		if err != nil {
			s.logger.Error("listing sections failed", zap.Error(err))
			return nil, err
		}
		out := make([]dto.SectionResponse, 0, len(sections))
		for _, sc := range sections {
			out = append(out, dto.SectionResponse{
				ID:               sc.SectionID,
				SemesterPeriodID: sc.SemesterPeriodID,
				Name:             sc.Name,
				Shift:            string(model.ClassifyShift(sc.Shift, sc.Name)),
			})
		}
		return out, nil
	})
}

func (s *referenceService) Subjects(ctx context.Context, q *dto.SubjectQuery) ([]dto.SubjectResponse, error) {
	return refcache.Fetch(ctx, s.cache, kindSubjects, q, func(ctx context.Context) ([]dto.SubjectResponse, error) {
		subjects, err := s.repo.Reference.ListSubjects(ctx, q.SemesterPeriodID, q.SectionID)
		if err != nil {
			s.logger.Error("listing subjects failed", zap.Error(err))
			return nil, err
		}
		out := make([]dto.SubjectResponse, 0, len(subjects))
		for _, sb := range subjects {
			out = append(out, dto.SubjectResponse{ID: sb.SubjectID, Code: sb.Code, Name: sb.Name})
		}
		return out, nil
	})
}

func (s *referenceService) Teachers(ctx context.Context, q *dto.TeacherQuery) ([]dto.TeacherResponse, error) {
	return refcache.Fetch(ctx, s.cache, kindTeachers, q, func(ctx context.Context) ([]dto.TeacherResponse, error) {
		teachers, err := s.repo.Reference.ListTeachers(ctx, repository.TeacherFilter{
			SemesterPeriodID: q.SemesterPeriodID,
			SubjectID:        q.SubjectID,
			SectionID:        q.SectionID,
		})
		if err != nil {
			s.logger.Error("listing teachers failed", zap.Error(err))
			return nil, err
		}
		out := make([]dto.TeacherResponse, 0, len(teachers))
		for i := range teachers {
			out = append(out, dto.TeacherResponse{
				ID:       teachers[i].TeacherID,
				FullName: teachers[i].FullName(),
				Email:    teachers[i].Email,
			})
		}
		return out, nil
	})
}

func (s *referenceService) Students(ctx context.Context, q *dto.StudentQuery) ([]dto.StudentResponse, error) {
	students, err := s.repo.Reference.ListStudents(ctx, q.Keyword)
	if err != nil {
		s.logger.Error("listing students failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, dto.StudentResponse{
			ID:       students[i].StudentID,
			FullName: titleName(students[i].FullName()),
			Email:    students[i].Email,
			IDNumber: students[i].IDNumber,
		})
	}
	return out, nil
}

// ClearCache drops every cached list and returns the counters it had reached
func (s *referenceService) ClearCache() refcache.Stats {
	before := s.cache.Stats()
	s.cache.Clear()
	s.logger.Info("reference cache cleared",
		zap.Int("entries", before.Entries),
		zap.Int64("hits", before.Hits),
		zap.Int64("misses", before.Misses),
	)
	return before
}

func (s *referenceService) CacheStats() refcache.Stats {
	return s.cache.Stats()
}

// ── lookups shared by other services ──

func lookupLevel(ctx context.Context, repo *repository.Repository, id string) (*model.SemesterPeriod, error) {
	level, err := repo.Reference.GetLevel(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}
	return level, nil
}

func lookupPeriod(ctx context.Context, repo *repository.Repository, id string) (*model.Period, error) {
	p, err := repo.Reference.GetPeriod(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return p, nil
}
