package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
	"sai-tutoria/pkg/mailer"
)

// ── assignment ──

var (
	// ErrCandidateMismatch the request does not describe the referenced grade
	ErrCandidateMismatch = fmt.Errorf("%w: la nota no corresponde al estudiante, asignatura, docente y sección indicados", ErrValidation)
)

const (
	assignmentSubject  = "Asignación de tutoría académica"
	assignmentTemplate = "tutoring_assigned"
	notifyTimeout      = 15 * time.Second
)

// AssignmentService assigns mandatory tutoring to at-risk students
type AssignmentService interface {
	// Create assigns tutoring for the candidate and then emails the student.
	// A failed email does not undo the assignment; Notified reports the outcome.
	Create(ctx context.Context, req *dto.CreateAssignmentRequest, actor Actor) (*dto.CreateAssignmentResponse, error)
	List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	Notify(ctx context.Context, tutoringID string, actor Actor) (*dto.NotificationResponse, error)
	Notifications(ctx context.Context, tutoringID string) ([]dto.NotificationResponse, error)
	// Archive withdraws an assignment. The record and its sessions stay in the
	// database but drop out of every listing, and the student becomes assignable again.
	Archive(ctx context.Context, tutoringID string, actor Actor) error
}

type assignmentService struct {
	repo     *repository.Repository
	settings SettingsService
	notifier mailer.Notifier
	logger   *zap.Logger
}

// NewAssignmentService creates an AssignmentService
func NewAssignmentService(repo *repository.Repository, settings SettingsService, notifier mailer.Notifier, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, settings: settings, notifier: notifier, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest, actor Actor) (*dto.CreateAssignmentResponse, error) {
	grade, err := s.repo.Grade.GetByID(ctx, req.GradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}
	if grade.StudentID != req.StudentID || grade.SubjectID != req.SubjectID ||
		grade.TeacherID != req.TeacherID || grade.SectionID != req.SectionID {
		return nil, ErrCandidateMismatch
	}

	st, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	if grade.GradeP1 >= st.RiskThreshold {
		return nil, ErrNotAtRisk
	}

	if _, err := s.repo.Tutoring.FindByStudentSubject(ctx, grade.StudentID, grade.SubjectID, grade.SemesterPeriodID); err == nil {
		return nil, ErrAssignmentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t := &model.Tutoring{
		StudentID:        grade.StudentID,
		SubjectID:        grade.SubjectID,
		SectionID:        grade.SectionID,
		TeacherID:        grade.TeacherID,
		SemesterPeriodID: grade.SemesterPeriodID,
		GradeID:          &grade.GradeID,
		Version:          1,
	}
	t.CreatedBy = &actor.UserID

	if err := s.repo.Tutoring.Create(ctx, t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAssignmentExists
		}
		s.logger.Error("creating assignment failed", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Tutoring.GetByID(ctx, t.TutoringID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tutoring assigned",
		zap.String("tutoring_id", created.TutoringID),
		zap.String("student_id", created.StudentID),
		zap.String("subject_id", created.SubjectID),
		zap.String("by", actor.UserID),
	)

	// the assignment is committed; the email must not depend on the request living on
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	entry := s.notify(notifyCtx, created, &grade.GradeP1, actor.UserID)

	return &dto.CreateAssignmentResponse{
		Assignment: toAssignmentResponse(created),
		Notified:   entry.Status == model.NotificationSent,
	}, nil
}

// notify sends the assignment email and records the attempt. It never fails:
// delivery and logging errors end up in the returned entry and the log.
func (s *assignmentService) notify(ctx context.Context, t *model.Tutoring, grade *float64, callerID string) *model.NotificationLog {
	entry := &model.NotificationLog{
		TutoringID: t.TutoringID,
		Subject:    assignmentSubject,
		CreatedBy:  &callerID,
	}

	data := mailer.TutoringAssignedData{}
	if t.Student != nil {
		entry.Recipient = t.Student.Email
		data.StudentName = titleName(t.Student.FullName())
	}
	if t.Subject != nil {
		data.SubjectName = t.Subject.Name
	}
	if t.Teacher != nil {
		data.TeacherName = titleName(t.Teacher.FullName())
	}
	if t.Section != nil {
		data.SectionName = t.Section.Name
	}
	if grade != nil {
		data.Grade = strconv.FormatFloat(*grade, 'f', 2, 64)
	}

	switch {
	case entry.Recipient == "":
		entry.Status = model.NotificationSkipped
		entry.ErrorMessage = "el estudiante no tiene correo registrado"
	default:
		err := s.notifier.Send(ctx, &mailer.Message{
			To:           mail.Address{Name: data.StudentName, Address: entry.Recipient},
			Subject:      assignmentSubject,
			TemplateName: assignmentTemplate,
			TemplateData: data,
		})
		if err != nil {
			entry.Status = model.NotificationFailed
			entry.ErrorMessage = err.Error()
			s.logger.Warn("assignment email failed",
				zap.String("tutoring_id", t.TutoringID),
				zap.String("to", entry.Recipient),
				zap.Error(err),
			)
		} else {
			entry.Status = model.NotificationSent
		}
	}

	if err := s.repo.Notification.Create(ctx, entry); err != nil {
		s.logger.Error("recording notification failed", zap.String("tutoring_id", t.TutoringID), zap.Error(err))
	}
	return entry
}

// ────────────────────── List ──────────────────────

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	items, total, err := s.repo.Tutoring.List(ctx, repository.TutoringFilter{
		SemesterPeriodID: req.SemesterPeriodID,
		TeacherID:        req.TeacherID,
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("listing assignments failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.AssignmentResponse, 0, len(items))
	for i := range items {
		out = append(out, toAssignmentResponse(&items[i]))
	}
	return out, total, nil
}

// ────────────────────── Notify ──────────────────────

func (s *assignmentService) Notify(ctx context.Context, tutoringID string, actor Actor) (*dto.NotificationResponse, error) {
	t, err := s.repo.Tutoring.GetByID(ctx, tutoringID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutoringNotFound
		}
		return nil, err
	}

	var grade *float64
	if t.GradeID != nil {
		if g, err := s.repo.Grade.GetByID(ctx, *t.GradeID); err == nil {
			grade = &g.GradeP1
		}
	}

	entry := s.notify(ctx, t, grade, actor.UserID)
	resp := toNotificationResponse(entry)
	return &resp, nil
}

func (s *assignmentService) Notifications(ctx context.Context, tutoringID string) ([]dto.NotificationResponse, error) {
	logs, err := s.repo.Notification.ListByTutoring(ctx, tutoringID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(logs))
	for i := range logs {
		out = append(out, toNotificationResponse(&logs[i]))
	}
	return out, nil
}

// ────────────────────── Archive ──────────────────────

func (s *assignmentService) Archive(ctx context.Context, tutoringID string, actor Actor) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		t, err := tx.Tutoring.GetByIDForUpdate(ctx, tutoringID)
		if err != nil {
			return err
		}
		if !actor.canAccessTeacher(t.TeacherID) {
			return ErrNoPermission
		}
		return tx.Tutoring.Archive(ctx, tutoringID, actor.UserID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTutoringNotFound
		}
		if !errors.Is(err, ErrNoPermission) {
			s.logger.Error("archiving assignment failed", zap.String("tutoring_id", tutoringID), zap.Error(err))
		}
		return err
	}

	s.logger.Info("tutoring archived", zap.String("tutoring_id", tutoringID), zap.String("by", actor.UserID))
	return nil
}

// ── conversion ──

func toAssignmentResponse(t *model.Tutoring) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		TutoringID:       t.TutoringID,
		GradeID:          t.GradeID,
		StudentID:        t.StudentID,
		SubjectID:        t.SubjectID,
		TeacherID:        t.TeacherID,
		SectionID:        t.SectionID,
		SemesterPeriodID: t.SemesterPeriodID,
		Objective:        t.Objective,
		RequiredSessions: t.RequiredSessions,
		Registered:       t.Registered(),
		CreatedAt:        t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.Student != nil {
		resp.StudentName = titleName(t.Student.FullName())
		resp.StudentEmail = t.Student.Email
	}
	if t.Subject != nil {
		resp.SubjectName = t.Subject.Name
	}
	if t.Teacher != nil {
		resp.TeacherName = titleName(t.Teacher.FullName())
	}
	if t.Section != nil {
		resp.SectionName = t.Section.Name
	}
	return resp
}

func toNotificationResponse(n *model.NotificationLog) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.NotificationLogID,
		Recipient: n.Recipient,
		Status:    n.Status,
		Error:     n.ErrorMessage,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
