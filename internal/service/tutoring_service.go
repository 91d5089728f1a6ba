package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sai-tutoria/config"
	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
	pkgerrors "sai-tutoria/pkg/errors"
	"sai-tutoria/pkg/keylock"
)

const dateLayout = "2006-01-02"

// TutoringService tutoring records and their sessions.
//
// Every mutation of a record or of one of its sessions runs under a per-record
// lock and inside a transaction holding the record row FOR UPDATE, so the
// capacity and lock rules are checked against committed state.
type TutoringService interface {
	RegisterParent(ctx context.Context, req *dto.RegisterTutoringRequest, actor Actor) (*dto.TutoringResponse, error)
	UpdateParent(ctx context.Context, id string, req *dto.UpdateTutoringRequest, actor Actor) (*dto.TutoringResponse, error)
	Get(ctx context.Context, id string, actor Actor) (*dto.TutoringResponse, error)
	Progress(ctx context.Context, id string, actor Actor) (*dto.ProgressResponse, error)

	ListSessions(ctx context.Context, tutoringID string, actor Actor) ([]dto.SessionResponse, error)
	AppendSession(ctx context.Context, tutoringID string, req *dto.CreateSessionRequest, actor Actor) (*dto.SessionResponse, error)
	TransitionSession(ctx context.Context, sessionID, status string, actor Actor) (*dto.SessionResponse, error)
	UpdateSession(ctx context.Context, sessionID string, req *dto.UpdateSessionRequest, actor Actor) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, sessionID string, actor Actor) error
	Statuses() []dto.StatusResponse

	MyStudents(ctx context.Context, semesterPeriodID string, actor Actor) ([]dto.MyStudentResponse, error)
	// MarkOverdueIncomplete moves pending sessions dated before today to incomplete
	MarkOverdueIncomplete(ctx context.Context) (int64, error)
}

type tutoringService struct {
	cfg      *config.TutoringConfig
	loc      *time.Location
	repo     *repository.Repository
	settings SettingsService
	locks    *keylock.Locker
	now      func() time.Time
	logger   *zap.Logger
}

// TutoringOption customizes a TutoringService
type TutoringOption func(*tutoringService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) TutoringOption {
	return func(s *tutoringService) { s.now = now }
}

// NewTutoringService creates a TutoringService
func NewTutoringService(
	cfg *config.TutoringConfig,
	repo *repository.Repository,
	settings SettingsService,
	locks *keylock.Locker,
	logger *zap.Logger,
	opts ...TutoringOption,
) TutoringService {
	s := &tutoringService{
		cfg:      cfg,
		loc:      cfg.Location(),
		repo:     repo,
		settings: settings,
		locks:    locks,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lockKey(tutoringID string) string { return "tutoring:" + tutoringID }

// today midnight of the current day in the configured timezone
func (s *tutoringService) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

// parseDay parses YYYY-MM-DD as midnight in the configured timezone
func (s *tutoringService) parseDay(v string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(v), s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// sameOrAfter compares calendar days, ignoring the location the values carry
func sameOrAfter(d, ref time.Time) bool {
	dy, dm, dd := d.Date()
	ry, rm, rd := ref.Date()
	a := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC)
	return !a.Before(b)
}

func (s *tutoringService) checkRequired(n int) error {
	if n < 1 {
		return ErrRequiredSessionsLow
	}
	if s.cfg.MaxRequiredSessions > 0 && n > s.cfg.MaxRequiredSessions {
		return ErrRequiredSessionsHigh
	}
	return nil
}

func (s *tutoringService) loadTutoring(ctx context.Context, repo *repository.Repository, id string, forUpdate bool) (*model.Tutoring, error) {
	var (
		t   *model.Tutoring
		err error
	)
	if forUpdate {
		t, err = repo.Tutoring.GetByIDForUpdate(ctx, id)
	} else {
		t, err = repo.Tutoring.GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutoringNotFound
		}
		s.logger.Error("looking up tutoring failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *tutoringService) loadSession(ctx context.Context, repo *repository.Repository, id string, forUpdate bool) (*model.TutoringSession, error) {
	var (
		ses *model.TutoringSession
		err error
	)
	if forUpdate {
		ses, err = repo.Session.GetByIDForUpdate(ctx, id)
	} else {
		ses, err = repo.Session.GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("looking up session failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return ses, nil
}

// ────────────────────── RegisterParent ──────────────────────

// RegisterParent sets the objective and session count of the student's tutoring
// in a subject, creating the record from the student's partial grade when the
// student has none yet.
func (s *tutoringService) RegisterParent(ctx context.Context, req *dto.RegisterTutoringRequest, actor Actor) (*dto.TutoringResponse, error) {
	objective := strings.TrimSpace(req.Objective)
	if objective == "" {
		return nil, ErrObjectiveRequired
	}

	required := 0
	if req.RequiredSessions != nil {
		required = *req.RequiredSessions
	} else {
		st, err := s.settings.Effective(ctx)
		if err != nil {
			return nil, err
		}
		required = st.DefaultRequiredSessions
	}
	if err := s.checkRequired(required); err != nil {
		return nil, err
	}

	existing, err := s.repo.Tutoring.FindByStudentSubject(ctx, req.StudentID, req.SubjectID, req.SemesterPeriodID)
	switch {
	case err == nil:
		if !actor.canAccessTeacher(existing.TeacherID) {
			return nil, ErrNoPermission
		}
		return s.UpdateParent(ctx, existing.TutoringID, &dto.UpdateTutoringRequest{
			Objective:        objective,
			RequiredSessions: required,
		}, actor)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("looking up tutoring failed", zap.Error(err))
		return nil, err
	}

	grade, err := s.repo.Grade.FindByStudentSubject(ctx, req.StudentID, req.SubjectID, req.SemesterPeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}
	if !actor.canAccessTeacher(grade.TeacherID) {
		return nil, ErrNoPermission
	}

	st, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	if grade.GradeP1 >= st.RiskThreshold {
		return nil, ErrNotAtRisk
	}

	t := &model.Tutoring{
		StudentID:        grade.StudentID,
		SubjectID:        grade.SubjectID,
		SectionID:        grade.SectionID,
		TeacherID:        grade.TeacherID,
		SemesterPeriodID: grade.SemesterPeriodID,
		GradeID:          &grade.GradeID,
		Objective:        objective,
		RequiredSessions: required,
		Version:          1,
	}
	t.CreatedBy = &actor.UserID

	if err := s.repo.Tutoring.Create(ctx, t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAssignmentExists
		}
		s.logger.Error("creating tutoring failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("tutoring registered",
		zap.String("tutoring_id", t.TutoringID),
		zap.String("student_id", t.StudentID),
		zap.Int("required_sessions", required),
	)
	return s.Get(ctx, t.TutoringID, actor)
}

// ────────────────────── UpdateParent ──────────────────────

func (s *tutoringService) UpdateParent(ctx context.Context, id string, req *dto.UpdateTutoringRequest, actor Actor) (*dto.TutoringResponse, error) {
	objective := strings.TrimSpace(req.Objective)
	if objective == "" {
		return nil, ErrObjectiveRequired
	}
	if err := s.checkRequired(req.RequiredSessions); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(lockKey(id))
	defer unlock()

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		t, err := s.loadTutoring(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if !actor.canAccessTeacher(t.TeacherID) {
			return ErrNoPermission
		}
		if req.Version != nil && *req.Version != t.Version {
			return pkgerrors.ErrOptimisticLock
		}

		count, err := tx.Session.CountByTutoring(ctx, id)
		if err != nil {
			return err
		}
		if int64(req.RequiredSessions) < count {
			return ErrShrinkBelowCount
		}

		t.Objective = objective
		t.RequiredSessions = req.RequiredSessions
		t.UpdatedBy = &actor.UserID
		return tx.Tutoring.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id, actor)
}

// ────────────────────── Get / Progress ──────────────────────

func (s *tutoringService) Get(ctx context.Context, id string, actor Actor) (*dto.TutoringResponse, error) {
	t, err := s.loadTutoring(ctx, s.repo, id, false)
	if err != nil {
		return nil, err
	}
	if !actor.canAccessTeacher(t.TeacherID) {
		return nil, ErrNoPermission
	}

	sessions, err := s.repo.Session.ListByTutoring(ctx, id)
	if err != nil {
		s.logger.Error("listing sessions failed", zap.String("tutoring_id", id), zap.Error(err))
		return nil, err
	}

	resp := &dto.TutoringResponse{
		ID:               t.TutoringID,
		StudentID:        t.StudentID,
		SubjectID:        t.SubjectID,
		SectionID:        t.SectionID,
		TeacherID:        t.TeacherID,
		SemesterPeriodID: t.SemesterPeriodID,
		Objective:        t.Objective,
		RequiredSessions: t.RequiredSessions,
		Version:          t.Version,
		Progress:         progressOf(len(sessions), t.RequiredSessions),
		Sessions:         make([]dto.SessionResponse, 0, len(sessions)),
	}
	if t.Student != nil {
		resp.StudentName = titleName(t.Student.FullName())
	}
	if t.Subject != nil {
		resp.SubjectName = t.Subject.Name
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(&sessions[i]))
	}
	return resp, nil
}

func (s *tutoringService) Progress(ctx context.Context, id string, actor Actor) (*dto.ProgressResponse, error) {
	t, err := s.loadTutoring(ctx, s.repo, id, false)
	if err != nil {
		return nil, err
	}
	if !actor.canAccessTeacher(t.TeacherID) {
		return nil, ErrNoPermission
	}

	count, err := s.repo.Session.CountByTutoring(ctx, id)
	if err != nil {
		return nil, err
	}
	p := progressOf(int(count), t.RequiredSessions)
	return &p, nil
}

// progressOf an unregistered record (required 0) is never complete
func progressOf(count, required int) dto.ProgressResponse {
	remaining := required - count
	if remaining < 0 {
		remaining = 0
	}
	return dto.ProgressResponse{
		SessionCount:     count,
		RequiredSessions: required,
		Completed:        required > 0 && count >= required,
		Remaining:        remaining,
	}
}

// ────────────────────── Sessions ──────────────────────

func (s *tutoringService) ListSessions(ctx context.Context, tutoringID string, actor Actor) ([]dto.SessionResponse, error) {
	t, err := s.loadTutoring(ctx, s.repo, tutoringID, false)
	if err != nil {
		return nil, err
	}
	if !actor.canAccessTeacher(t.TeacherID) {
		return nil, ErrNoPermission
	}

	sessions, err := s.repo.Session.ListByTutoring(ctx, tutoringID)
	if err != nil {
		s.logger.Error("listing sessions failed", zap.String("tutoring_id", tutoringID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i]))
	}
	return out, nil
}

// AppendSession the session is returned only once it has been committed
func (s *tutoringService) AppendSession(ctx context.Context, tutoringID string, req *dto.CreateSessionRequest, actor Actor) (*dto.SessionResponse, error) {
	motive := strings.TrimSpace(req.Motive)
	if motive == "" {
		return nil, ErrMotiveRequired
	}
	day, err := s.parseDay(req.SessionDate)
	if err != nil {
		return nil, err
	}
	if !sameOrAfter(day, s.today()) {
		return nil, ErrPastSessionDate
	}

	unlock := s.locks.Lock(lockKey(tutoringID))
	defer unlock()

	var created *model.TutoringSession
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		t, err := s.loadTutoring(ctx, tx, tutoringID, true)
		if err != nil {
			return err
		}
		if !actor.canAccessTeacher(t.TeacherID) {
			return ErrNoPermission
		}
		if !t.Registered() {
			return ErrNotRegistered
		}

		count, err := tx.Session.CountByTutoring(ctx, tutoringID)
		if err != nil {
			return err
		}
		if count >= int64(t.RequiredSessions) {
			return ErrCapacityExceeded
		}

		created = &model.TutoringSession{
			TutoringID:   tutoringID,
			SessionDate:  day,
			Motive:       motive,
			Observations: strings.TrimSpace(req.Observations),
			Status:       model.SessionPending,
		}
		created.CreatedBy = &actor.UserID
		return tx.Session.Create(ctx, created)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("appending session failed", zap.String("tutoring_id", tutoringID), zap.Error(err))
		}
		return nil, err
	}

	resp := toSessionResponse(created)
	return &resp, nil
}

// mutateSession runs fn on the row-locked session and its record
func (s *tutoringService) mutateSession(ctx context.Context, sessionID string, actor Actor, fn func(tx *repository.Repository, ses *model.TutoringSession) error) error {
	// the owning record is needed for the lock key
	probe, err := s.loadSession(ctx, s.repo, sessionID, false)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(lockKey(probe.TutoringID))
	defer unlock()

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		t, err := s.loadTutoring(ctx, tx, probe.TutoringID, true)
		if err != nil {
			return err
		}
		if !actor.canAccessTeacher(t.TeacherID) {
			return ErrNoPermission
		}
		ses, err := s.loadSession(ctx, tx, sessionID, true)
		if err != nil {
			return err
		}
		return fn(tx, ses)
	})
}

// checkTransition validates moving a session from its status to target
func checkTransition(from, target model.SessionStatus) error {
	if !target.Valid() {
		return ErrUnknownStatus
	}
	if from.Locked() {
		return ErrSessionLocked
	}
	if !target.Selectable() {
		return ErrStatusNotSelectable
	}
	if !from.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	return nil
}

func (s *tutoringService) TransitionSession(ctx context.Context, sessionID, status string, actor Actor) (*dto.SessionResponse, error) {
	target, ok := model.ParseSessionStatus(strings.TrimSpace(status))
	if !ok {
		return nil, ErrUnknownStatus
	}

	var updated *model.TutoringSession
	err := s.mutateSession(ctx, sessionID, actor, func(tx *repository.Repository, ses *model.TutoringSession) error {
		if err := checkTransition(ses.Status, target); err != nil {
			return err
		}
		ses.Status = target
		ses.UpdatedBy = &actor.UserID
		if err := tx.Session.Update(ctx, ses); err != nil {
			return err
		}
		updated = ses
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session status changed",
		zap.String("session_id", sessionID),
		zap.String("status", string(target)),
	)
	resp := toSessionResponse(updated)
	return &resp, nil
}

// UpdateSession edits an unlocked session. A status change, if any, follows the
// same rules as TransitionSession and is applied together with the other fields.
func (s *tutoringService) UpdateSession(ctx context.Context, sessionID string, req *dto.UpdateSessionRequest, actor Actor) (*dto.SessionResponse, error) {
	var (
		day    *time.Time
		target *model.SessionStatus
	)
	if req.SessionDate != nil {
		d, err := s.parseDay(*req.SessionDate)
		if err != nil {
			return nil, err
		}
		day = &d
	}
	if req.Motive != nil && strings.TrimSpace(*req.Motive) == "" {
		return nil, ErrMotiveRequired
	}
	if req.Status != nil {
		st, ok := model.ParseSessionStatus(strings.TrimSpace(*req.Status))
		if !ok {
			return nil, ErrUnknownStatus
		}
		target = &st
	}

	var updated *model.TutoringSession
	err := s.mutateSession(ctx, sessionID, actor, func(tx *repository.Repository, ses *model.TutoringSession) error {
		if ses.Status.Locked() {
			return ErrSessionLocked
		}
		if target != nil && *target != ses.Status {
			if err := checkTransition(ses.Status, *target); err != nil {
				return err
			}
			ses.Status = *target
		}
		if day != nil && ses.SessionDate.Format(dateLayout) != day.Format(dateLayout) {
			if !sameOrAfter(*day, s.today()) {
				return ErrPastSessionDate
			}
			ses.SessionDate = *day
		}
		if req.Motive != nil {
			ses.Motive = strings.TrimSpace(*req.Motive)
		}
		if req.Observations != nil {
			ses.Observations = strings.TrimSpace(*req.Observations)
		}
		ses.UpdatedBy = &actor.UserID
		if err := tx.Session.Update(ctx, ses); err != nil {
			return err
		}
		updated = ses
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toSessionResponse(updated)
	return &resp, nil
}

func (s *tutoringService) DeleteSession(ctx context.Context, sessionID string, actor Actor) error {
	return s.mutateSession(ctx, sessionID, actor, func(tx *repository.Repository, ses *model.TutoringSession) error {
		if ses.Status.Locked() {
			return ErrSessionLocked
		}
		if !ses.Status.Deletable() {
			return ErrSessionNotDeletable
		}
		return tx.Session.Delete(ctx, ses.SessionID)
	})
}

func (s *tutoringService) Statuses() []dto.StatusResponse {
	out := make([]dto.StatusResponse, 0, len(model.SessionStatuses))
	for _, st := range model.SessionStatuses {
		out = append(out, dto.StatusResponse{
			Code:       string(st),
			Name:       st.DisplayName(),
			Selectable: st.Selectable(),
			Locked:     st.Locked(),
		})
	}
	return out
}

// ────────────────────── MyStudents ──────────────────────

func (s *tutoringService) MyStudents(ctx context.Context, semesterPeriodID string, actor Actor) ([]dto.MyStudentResponse, error) {
	if actor.TeacherID == "" {
		return nil, ErrNotTeacherUser
	}

	st, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Candidate.ListAtRisk(ctx, repository.CandidateFilter{
		SemesterPeriodID: semesterPeriodID,
		TeacherID:        actor.TeacherID,
		Threshold:        st.RiskThreshold,
	})
	if err != nil {
		s.logger.Error("listing teacher candidates failed", zap.String("teacher_id", actor.TeacherID), zap.Error(err))
		return nil, err
	}

	tutorings, err := s.repo.Tutoring.ListByTeacher(ctx, actor.TeacherID, semesterPeriodID)
	if err != nil {
		return nil, err
	}
	byPair := make(map[string]*model.Tutoring, len(tutorings))
	ids := make([]string, 0, len(tutorings))
	for i := range tutorings {
		byPair[tutorings[i].StudentID+"|"+tutorings[i].SubjectID] = &tutorings[i]
		ids = append(ids, tutorings[i].TutoringID)
	}

	counts, err := s.repo.Session.CountByTutorings(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MyStudentResponse, 0, len(rows))
	for i := range rows {
		item := dto.MyStudentResponse{RiskCandidate: normalizeCandidate(&rows[i])}
		if t, ok := byPair[rows[i].StudentID+"|"+rows[i].SubjectID]; ok {
			item.HasTutoring = true
			item.TutoringID = t.TutoringID
			item.Objective = t.Objective
			item.RequiredSessions = t.RequiredSessions
			item.SessionsDone = int(counts[t.TutoringID])
		}
		out = append(out, item)
	}
	return out, nil
}

// ────────────────────── MarkOverdueIncomplete ──────────────────────

func (s *tutoringService) MarkOverdueIncomplete(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.MarkOverdue(ctx, s.today())
	if err != nil {
		s.logger.Error("marking overdue sessions failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("overdue sessions marked incomplete", zap.Int64("count", n))
	}
	return n, nil
}

// ── conversion ──

func toSessionResponse(ses *model.TutoringSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:           ses.SessionID,
		TutoringID:   ses.TutoringID,
		SessionDate:  ses.SessionDate.Format(dateLayout),
		Motive:       ses.Motive,
		Observations: ses.Observations,
		Status:       string(ses.Status),
		StatusName:   ses.Status.DisplayName(),
		Locked:       ses.Status.Locked(),
		Deletable:    ses.Status.Deletable(),
	}
}

// isDomainError errors the caller caused, not worth an error log
func isDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNoPermission) ||
		errors.Is(err, ErrTutoringNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, pkgerrors.ErrOptimisticLock)
}
