package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
)

var ErrGradeExists = errors.New("el estudiante ya tiene nota registrada en esta asignatura")

// GradeService partial grades (nota parcial)
type GradeService interface {
	Create(ctx context.Context, req *dto.CreateGradeRequest, callerID string) (*dto.GradeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateGradeRequest, callerID string) (*dto.GradeResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req *dto.GradeListRequest, teacherID string) ([]dto.GradeResponse, int64, error)
}

type gradeService struct {
	repo     *repository.Repository
	settings SettingsService
	logger   *zap.Logger
}

// NewGradeService creates a GradeService
func NewGradeService(repo *repository.Repository, settings SettingsService, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, settings: settings, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *gradeService) Create(ctx context.Context, req *dto.CreateGradeRequest, callerID string) (*dto.GradeResponse, error) {
	if _, err := s.repo.Grade.FindByStudentSubject(ctx, req.StudentID, req.SubjectID, req.SemesterPeriodID); err == nil {
		return nil, ErrGradeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.Reference.GetStudent(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	grade := &model.PartialGrade{
		StudentID:        req.StudentID,
		SubjectID:        req.SubjectID,
		SectionID:        req.SectionID,
		SemesterPeriodID: req.SemesterPeriodID,
		TeacherID:        req.TeacherID,
		GradeP1:          *req.GradeP1,
		GradeP2:          req.GradeP2,
	}
	grade.CreatedBy = &callerID

	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		s.logger.Error("creating grade failed", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Grade.GetByID(ctx, grade.GradeID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, created)
}

// ────────────────────── Update ──────────────────────

func (s *gradeService) Update(ctx context.Context, id string, req *dto.UpdateGradeRequest, callerID string) (*dto.GradeResponse, error) {
	grade, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}

	if req.GradeP1 != nil {
		grade.GradeP1 = *req.GradeP1
	}
	if req.GradeP2 != nil {
		grade.GradeP2 = req.GradeP2
	}
	grade.UpdatedBy = &callerID

	if err := s.repo.Grade.Update(ctx, grade); err != nil {
		s.logger.Error("updating grade failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, grade)
}

// ────────────────────── Delete ──────────────────────

func (s *gradeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Grade.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		return err
	}
	if err := s.repo.Grade.Delete(ctx, id); err != nil {
		s.logger.Error("deleting grade failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

// List teacherID restricts the result to one teacher's grades when set
func (s *gradeService) List(ctx context.Context, req *dto.GradeListRequest, teacherID string) ([]dto.GradeResponse, int64, error) {
	st, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, 0, err
	}

	grades, total, err := s.repo.Grade.List(ctx, repository.GradeFilter{
		SemesterPeriodID: req.SemesterPeriodID,
		SubjectID:        req.SubjectID,
		SectionID:        req.SectionID,
		TeacherID:        teacherID,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("listing grades failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		out = append(out, toGradeResponse(&grades[i], st.RiskThreshold))
	}
	return out, total, nil
}

func (s *gradeService) toResponse(ctx context.Context, g *model.PartialGrade) (*dto.GradeResponse, error) {
	st, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	resp := toGradeResponse(g, st.RiskThreshold)
	return &resp, nil
}

func toGradeResponse(g *model.PartialGrade, threshold float64) dto.GradeResponse {
	resp := dto.GradeResponse{
		ID:               g.GradeID,
		StudentID:        g.StudentID,
		SubjectID:        g.SubjectID,
		SectionID:        g.SectionID,
		SemesterPeriodID: g.SemesterPeriodID,
		TeacherID:        g.TeacherID,
		GradeP1:          g.GradeP1,
		GradeP2:          g.GradeP2,
		AtRisk:           g.GradeP1 < threshold,
		UpdatedAt:        g.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if g.Student != nil {
		resp.StudentName = titleName(g.Student.FullName())
	}
	if g.Subject != nil {
		resp.SubjectName = g.Subject.Name
	}
	return resp
}
