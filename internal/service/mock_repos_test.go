package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
	pkgerrors "sai-tutoria/pkg/errors"
)

// ── test aggregate ──

type testRepos struct {
	user         *mockUserRepo
	reference    *mockReferenceRepo
	grade        *mockGradeRepo
	settings     *mockSettingsRepo
	candidate    *mockCandidateRepo
	tutoring     *mockTutoringRepo
	session      *mockSessionRepo
	notification *mockNotificationRepo
	docType      *mockDocumentTypeRepo
	entry        *mockScheduleEntryRepo
	report       *mockReportDocumentRepo
	stats        *mockStatsRepo
}

func newTestRepos() *testRepos {
	ref := newMockReferenceRepo()
	tut := newMockTutoringRepo(ref)
	docType := newMockDocumentTypeRepo()
	entry := newMockScheduleEntryRepo(docType)
	return &testRepos{
		user:         newMockUserRepo(),
		reference:    ref,
		grade:        newMockGradeRepo(),
		settings:     &mockSettingsRepo{},
		candidate:    &mockCandidateRepo{tutorings: tut},
		tutoring:     tut,
		session:      newMockSessionRepo(),
		notification: &mockNotificationRepo{},
		docType:      docType,
		entry:        entry,
		report:       newMockReportDocumentRepo(entry),
		stats:        &mockStatsRepo{},
	}
}

// toRepository aggregate without a database; Transaction runs fn directly
func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:           r.user,
		Reference:      r.reference,
		Grade:          r.grade,
		Settings:       r.settings,
		Candidate:      r.candidate,
		Tutoring:       r.tutoring,
		Session:        r.session,
		Notification:   r.notification,
		DocumentType:   r.docType,
		ScheduleEntry:  r.entry,
		ReportDocument: r.report,
		Stats:          r.stats,
	}
}

func strPtr(s string) *string { return &s }

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Username, filter.Keyword) && !strings.Contains(u.FullName, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock ReferenceRepository ──

type mockReferenceRepo struct {
	mu       sync.Mutex
	periods  map[string]*model.Period
	levels   map[string]*model.SemesterPeriod
	sections map[string]*model.Section
	subjects map[string]*model.Subject
	teachers map[string]*model.Teacher
	students map[string]*model.Student
	teaches  map[string]bool // teacher|subject|section|level

	periodCalls atomic.Int32
	delay       time.Duration
}

func newMockReferenceRepo() *mockReferenceRepo {
	return &mockReferenceRepo{
		periods:  make(map[string]*model.Period),
		levels:   make(map[string]*model.SemesterPeriod),
		sections: make(map[string]*model.Section),
		subjects: make(map[string]*model.Subject),
		teachers: make(map[string]*model.Teacher),
		students: make(map[string]*model.Student),
		teaches:  make(map[string]bool),
	}
}

func (m *mockReferenceRepo) ListPeriods(_ context.Context) ([]model.Period, error) {
	m.periodCalls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Period
	for _, p := range m.periods {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockReferenceRepo) GetPeriod(_ context.Context, id string) (*model.Period, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.periods[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) ListLevels(_ context.Context, periodID string) ([]model.SemesterPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.SemesterPeriod
	for _, l := range m.levels {
		if l.PeriodID == periodID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

func (m *mockReferenceRepo) GetLevel(_ context.Context, id string) (*model.SemesterPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.levels[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) ListSections(_ context.Context, semesterPeriodID string) ([]model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Section
	for _, s := range m.sections {
		if s.SemesterPeriodID == semesterPeriodID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockReferenceRepo) GetSection(_ context.Context, id string) (*model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sections[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) ListSubjects(_ context.Context, _, _ string) ([]model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subject
	for _, s := range m.subjects {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockReferenceRepo) GetSubject(_ context.Context, id string) (*model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subjects[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) ListTeachers(_ context.Context, _ repository.TeacherFilter) ([]model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Teacher
	for _, t := range m.teachers {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (m *mockReferenceRepo) GetTeacher(_ context.Context, id string) (*model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) ListStudents(_ context.Context, keyword string) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Student
	for _, s := range m.students {
		if keyword == "" || strings.Contains(strings.ToLower(s.FullName()), strings.ToLower(keyword)) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockReferenceRepo) GetStudent(_ context.Context, id string) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) TeachesSubject(_ context.Context, teacherID, subjectID, sectionID, semesterPeriodID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teaches[teacherID+"|"+subjectID+"|"+sectionID+"|"+semesterPeriodID], nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct {
	grades map[string]*model.PartialGrade
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{grades: make(map[string]*model.PartialGrade)}
}

func (m *mockGradeRepo) Create(_ context.Context, g *model.PartialGrade) error {
	if g.GradeID == "" {
		g.GradeID = fmt.Sprintf("grade-%d", len(m.grades)+1)
	}
	cp := *g
	m.grades[g.GradeID] = &cp
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.PartialGrade, error) {
	if g, ok := m.grades[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) FindByStudentSubject(_ context.Context, studentID, subjectID, semesterPeriodID string) (*model.PartialGrade, error) {
	for _, g := range m.grades {
		if g.StudentID == studentID && g.SubjectID == subjectID && g.SemesterPeriodID == semesterPeriodID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Update(_ context.Context, g *model.PartialGrade) error {
	cp := *g
	m.grades[g.GradeID] = &cp
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.grades, id)
	return nil
}

func (m *mockGradeRepo) List(_ context.Context, filter repository.GradeFilter, offset, limit int) ([]model.PartialGrade, int64, error) {
	var all []model.PartialGrade
	for _, g := range m.grades {
		if filter.SemesterPeriodID != "" && g.SemesterPeriodID != filter.SemesterPeriodID {
			continue
		}
		if filter.SubjectID != "" && g.SubjectID != filter.SubjectID {
			continue
		}
		if filter.SectionID != "" && g.SectionID != filter.SectionID {
			continue
		}
		if filter.TeacherID != "" && g.TeacherID != filter.TeacherID {
			continue
		}
		all = append(all, *g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].GradeID < all[j].GradeID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

// ── Mock SettingsRepository ──

type mockSettingsRepo struct {
	settings *model.TutoringSettings
}

func (m *mockSettingsRepo) Get(_ context.Context) (*model.TutoringSettings, error) {
	if m.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.settings
	return &cp, nil
}

func (m *mockSettingsRepo) Save(_ context.Context, st *model.TutoringSettings) error {
	cp := *st
	m.settings = &cp
	return nil
}

// ── Mock CandidateRepository ──

// mockCandidateRepo filters its rows the way the SQL does, consulting the
// tutoring mock for ExcludeAssigned
type mockCandidateRepo struct {
	rows      []model.CandidateRow
	tutorings *mockTutoringRepo
	calls     int
}

func (m *mockCandidateRepo) ListAtRisk(_ context.Context, filter repository.CandidateFilter) ([]model.CandidateRow, error) {
	m.calls++
	var out []model.CandidateRow
	for _, r := range m.rows {
		if r.GradeP1 == nil || *r.GradeP1 >= filter.Threshold {
			continue
		}
		if filter.TeacherID != "" && r.TeacherID != filter.TeacherID {
			continue
		}
		if filter.ExcludeAssigned && m.tutorings.hasPair(r.StudentID, r.SubjectID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ── Mock TutoringRepository ──

type mockTutoringRepo struct {
	mu        sync.Mutex
	tutorings map[string]*model.Tutoring
	order     []string
	ref       *mockReferenceRepo
}

func newMockTutoringRepo(ref *mockReferenceRepo) *mockTutoringRepo {
	return &mockTutoringRepo{tutorings: make(map[string]*model.Tutoring), ref: ref}
}

func (m *mockTutoringRepo) hasPair(studentID, subjectID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tutorings {
		if t.StudentID == studentID && t.SubjectID == subjectID && t.ArchivedAt == nil {
			return true
		}
	}
	return false
}

// withRelations mirrors the Preload calls of the real repository
func (m *mockTutoringRepo) withRelations(t *model.Tutoring) {
	if m.ref == nil {
		return
	}
	if s, err := m.ref.GetStudent(context.Background(), t.StudentID); err == nil {
		t.Student = s
	}
	if s, err := m.ref.GetSubject(context.Background(), t.SubjectID); err == nil {
		t.Subject = s
	}
	if s, err := m.ref.GetSection(context.Background(), t.SectionID); err == nil {
		t.Section = s
	}
	if s, err := m.ref.GetTeacher(context.Background(), t.TeacherID); err == nil {
		t.Teacher = s
	}
}

func (m *mockTutoringRepo) Create(_ context.Context, t *model.Tutoring) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.tutorings {
		if ex.StudentID == t.StudentID && ex.SubjectID == t.SubjectID && ex.SemesterPeriodID == t.SemesterPeriodID && ex.ArchivedAt == nil {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.TutoringID == "" {
		t.TutoringID = fmt.Sprintf("tut-%d", len(m.order)+1)
	}
	if t.Version == 0 {
		t.Version = 1
	}
	t.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, len(m.order), time.UTC)
	cp := *t
	cp.Student, cp.Subject, cp.Section, cp.Teacher = nil, nil, nil, nil
	m.tutorings[t.TutoringID] = &cp
	m.order = append(m.order, t.TutoringID)
	return nil
}

func (m *mockTutoringRepo) get(id string) (*model.Tutoring, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tutorings[id]
	if !ok || t.ArchivedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTutoringRepo) GetByID(_ context.Context, id string) (*model.Tutoring, error) {
	t, err := m.get(id)
	if err != nil {
		return nil, err
	}
	m.withRelations(t)
	return t, nil
}

func (m *mockTutoringRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Tutoring, error) {
	return m.get(id)
}

func (m *mockTutoringRepo) FindByStudentSubject(_ context.Context, studentID, subjectID, semesterPeriodID string) (*model.Tutoring, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tutorings {
		if t.StudentID == studentID && t.SubjectID == subjectID && t.SemesterPeriodID == semesterPeriodID && t.ArchivedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTutoringRepo) Update(_ context.Context, t *model.Tutoring) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tutorings[t.TutoringID]
	if !ok || cur.Version != t.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cur.Objective = t.Objective
	cur.RequiredSessions = t.RequiredSessions
	cur.UpdatedBy = t.UpdatedBy
	cur.Version++
	t.Version = cur.Version
	return nil
}

func (m *mockTutoringRepo) Archive(_ context.Context, id, archivedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.tutorings[id]
	if !ok || cur.ArchivedAt != nil {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	cur.ArchivedAt = &now
	cur.UpdatedBy = &archivedBy
	cur.Version++
	return nil
}

func (m *mockTutoringRepo) List(_ context.Context, filter repository.TutoringFilter, offset, limit int) ([]model.Tutoring, int64, error) {
	m.mu.Lock()
	var all []model.Tutoring
	// newest first
	for i := len(m.order) - 1; i >= 0; i-- {
		t := m.tutorings[m.order[i]]
		if t.ArchivedAt != nil {
			continue
		}
		if filter.SemesterPeriodID != "" && t.SemesterPeriodID != filter.SemesterPeriodID {
			continue
		}
		if filter.TeacherID != "" && t.TeacherID != filter.TeacherID {
			continue
		}
		all = append(all, *t)
	}
	m.mu.Unlock()

	page := paginate(all, offset, limit)
	for i := range page {
		m.withRelations(&page[i])
	}
	return page, int64(len(all)), nil
}

func (m *mockTutoringRepo) ListByTeacher(_ context.Context, teacherID, semesterPeriodID string) ([]model.Tutoring, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Tutoring
	for _, id := range m.order {
		t := m.tutorings[id]
		if t.TeacherID == teacherID && t.SemesterPeriodID == semesterPeriodID && t.ArchivedAt == nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.TutoringSession
	seq      int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.TutoringSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, s *model.TutoringSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if s.SessionID == "" {
		s.SessionID = fmt.Sprintf("ses-%d", m.seq)
	}
	s.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, m.seq, time.UTC)
	cp := *s
	m.sessions[s.SessionID] = &cp
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.TutoringSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.TutoringSession, error) {
	return m.GetByID(ctx, id)
}

func (m *mockSessionRepo) ListByTutoring(_ context.Context, tutoringID string) ([]model.TutoringSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.TutoringSession
	for _, s := range m.sessions {
		if s.TutoringID == tutoringID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SessionDate.Equal(out[j].SessionDate) {
			return out[i].SessionDate.Before(out[j].SessionDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockSessionRepo) CountByTutoring(_ context.Context, tutoringID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sessions {
		if s.TutoringID == tutoringID {
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepo) CountByTutorings(ctx context.Context, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	for _, id := range ids {
		n, _ := m.CountByTutoring(ctx, id)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (m *mockSessionRepo) Update(_ context.Context, s *model.TutoringSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[s.SessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.SessionDate = s.SessionDate
	cur.Motive = s.Motive
	cur.Observations = s.Observations
	cur.Status = s.Status
	cur.UpdatedBy = s.UpdatedBy
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) MarkOverdue(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := before.Format(dateLayout)
	var n int64
	for _, s := range m.sessions {
		if s.Status == model.SessionPending && s.SessionDate.Format(dateLayout) < cutoff {
			s.Status = model.SessionIncomplete
			n++
		}
	}
	return n, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	logs []model.NotificationLog
}

func (m *mockNotificationRepo) Create(_ context.Context, log *model.NotificationLog) error {
	log.NotificationLogID = fmt.Sprintf("notif-%d", len(m.logs)+1)
	log.CreatedAt = time.Date(2024, 5, 1, 10, 0, len(m.logs), 0, time.UTC)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockNotificationRepo) ListByTutoring(_ context.Context, tutoringID string) ([]model.NotificationLog, error) {
	var out []model.NotificationLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].TutoringID == tutoringID {
			out = append(out, m.logs[i])
		}
	}
	return out, nil
}

// ── Mock DocumentTypeRepository ──

type mockDocumentTypeRepo struct {
	types map[string]*model.DocumentType
}

func newMockDocumentTypeRepo() *mockDocumentTypeRepo {
	return &mockDocumentTypeRepo{types: make(map[string]*model.DocumentType)}
}

func (m *mockDocumentTypeRepo) Create(_ context.Context, dt *model.DocumentType) error {
	if dt.DocumentTypeID == "" {
		dt.DocumentTypeID = fmt.Sprintf("dt-%d", len(m.types)+1)
	}
	cp := *dt
	m.types[dt.DocumentTypeID] = &cp
	return nil
}

func (m *mockDocumentTypeRepo) GetByID(_ context.Context, id string) (*model.DocumentType, error) {
	if dt, ok := m.types[id]; ok {
		cp := *dt
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentTypeRepo) GetByName(_ context.Context, name string) (*model.DocumentType, error) {
	for _, dt := range m.types {
		if strings.EqualFold(dt.Name, name) {
			cp := *dt
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentTypeRepo) List(_ context.Context, activeOnly bool) ([]model.DocumentType, error) {
	var out []model.DocumentType
	for _, dt := range m.types {
		if activeOnly && !dt.IsActive {
			continue
		}
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockDocumentTypeRepo) Update(_ context.Context, dt *model.DocumentType) error {
	cp := *dt
	m.types[dt.DocumentTypeID] = &cp
	return nil
}

func (m *mockDocumentTypeRepo) Delete(_ context.Context, id string) error {
	delete(m.types, id)
	return nil
}

// ── Mock ScheduleEntryRepository ──

type mockScheduleEntryRepo struct {
	entries []*model.ScheduleEntry // insertion order
	types   *mockDocumentTypeRepo
}

func newMockScheduleEntryRepo(types *mockDocumentTypeRepo) *mockScheduleEntryRepo {
	return &mockScheduleEntryRepo{types: types}
}

func (m *mockScheduleEntryRepo) preload(e *model.ScheduleEntry) {
	if dt, err := m.types.GetByID(context.Background(), e.DocumentTypeID); err == nil {
		e.DocumentType = dt
	}
}

func (m *mockScheduleEntryRepo) Create(_ context.Context, e *model.ScheduleEntry) error {
	if e.ScheduleEntryID == "" {
		e.ScheduleEntryID = fmt.Sprintf("entry-%d", len(m.entries)+1)
	}
	cp := *e
	cp.DocumentType = nil
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	for _, e := range m.entries {
		if e.ScheduleEntryID == id {
			cp := *e
			m.preload(&cp)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListByPeriod returns entries in insertion order; due date ordering is the service's job
func (m *mockScheduleEntryRepo) ListByPeriod(_ context.Context, periodID string, activeOnly bool) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	for _, e := range m.entries {
		if e.PeriodID != periodID || (activeOnly && !e.IsActive) {
			continue
		}
		cp := *e
		m.preload(&cp)
		out = append(out, cp)
	}
	return out, nil
}

func (m *mockScheduleEntryRepo) Update(_ context.Context, e *model.ScheduleEntry) error {
	for i, cur := range m.entries {
		if cur.ScheduleEntryID == e.ScheduleEntryID {
			cp := *e
			cp.DocumentType = nil
			m.entries[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) Delete(_ context.Context, id string) error {
	for i, e := range m.entries {
		if e.ScheduleEntryID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockScheduleEntryRepo) CountByDocumentType(_ context.Context, documentTypeID string) (int64, error) {
	var n int64
	for _, e := range m.entries {
		if e.DocumentTypeID == documentTypeID {
			n++
		}
	}
	return n, nil
}

// ── Mock ReportDocumentRepository ──

type mockReportDocumentRepo struct {
	docs    []model.ReportDocument
	entries *mockScheduleEntryRepo
}

func newMockReportDocumentRepo(entries *mockScheduleEntryRepo) *mockReportDocumentRepo {
	return &mockReportDocumentRepo{entries: entries}
}

func (m *mockReportDocumentRepo) Create(_ context.Context, d *model.ReportDocument) error {
	d.ReportDocumentID = fmt.Sprintf("doc-%d", len(m.docs)+1)
	d.CreatedAt = time.Date(2024, 5, 2, 9, 0, len(m.docs), 0, time.UTC)
	cp := *d
	cp.ScheduleEntry, cp.Subject = nil, nil
	m.docs = append(m.docs, cp)
	return nil
}

func (m *mockReportDocumentRepo) ListByTeacher(_ context.Context, teacherID, semesterPeriodID string, offset, limit int) ([]model.ReportDocument, int64, error) {
	var all []model.ReportDocument
	for i := len(m.docs) - 1; i >= 0; i-- {
		d := m.docs[i]
		if d.TeacherID != teacherID || (semesterPeriodID != "" && d.SemesterPeriodID != semesterPeriodID) {
			continue
		}
		if e, err := m.entries.GetByID(context.Background(), d.ScheduleEntryID); err == nil {
			d.ScheduleEntry = e
		}
		all = append(all, d)
	}
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockReportDocumentRepo) CountBySchedule(_ context.Context, scheduleEntryID string) (int64, error) {
	var n int64
	for _, d := range m.docs {
		if d.ScheduleEntryID == scheduleEntryID {
			n++
		}
	}
	return n, nil
}

// ── Mock StatsRepository ──

type mockStatsRepo struct {
	byStatus []repository.SessionStatusCount
	subjects []repository.SubjectCount
	teachers []repository.TeacherCount
	err      error
}

func (m *mockStatsRepo) SessionStatusBySection(_ context.Context, _ string) ([]repository.SessionStatusCount, error) {
	return m.byStatus, m.err
}

func (m *mockStatsRepo) TopSubjects(_ context.Context, _ string, _ int) ([]repository.SubjectCount, error) {
	return m.subjects, m.err
}

func (m *mockStatsRepo) TeachersByIncomplete(_ context.Context, _ string, _ int) ([]repository.TeacherCount, error) {
	return m.teachers, m.err
}
