package service

import (
	"net/mail"
	"sync"
	"time"

	"go.uber.org/zap"

	"sai-tutoria/config"
	"sai-tutoria/internal/model"
	"sai-tutoria/pkg/keylock"
	"sai-tutoria/pkg/mailer"
)

// ── shared fixture ──

const (
	fxPeriod  = "period-2024"
	fxLevel   = "level-3"
	fxSection = "sec-manana"
	fxSubject = "sub-calculo"
	fxTeacher = "teacher-ana"
	fxStudent = "student-juan"
	fxGrade   = "grade-juan-calculo"
)

var (
	teacherActor = Actor{UserID: "user-ana", Role: model.RoleTeacher, TeacherID: fxTeacher}
	otherTeacher = Actor{UserID: "user-luis", Role: model.RoleTeacher, TeacherID: "teacher-luis"}
	coordActor   = Actor{UserID: "user-coord", Role: model.RoleCoordinator}
)

func testTutoringConfig() *config.TutoringConfig {
	return &config.TutoringConfig{
		RiskThreshold:           7,
		DefaultRequiredSessions: 3,
		MaxRequiredSessions:     10,
		Timezone:                "UTC",
	}
}

// testClock a settable clock shared by the services under test
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// day YYYY-MM-DD offset from the clock's current day
func (c *testClock) day(offset int) string {
	return c.Now().AddDate(0, 0, offset).Format(dateLayout)
}

// seedAcademic one period, level, morning section, subject, teacher and an
// at-risk student with grade 5.5
func seedAcademic(r *testRepos) {
	ref := r.reference
	ref.periods[fxPeriod] = &model.Period{PeriodID: fxPeriod, Name: "2024-2025 CI"}
	ref.levels[fxLevel] = &model.SemesterPeriod{SemesterPeriodID: fxLevel, PeriodID: fxPeriod, Name: "Tercero", Level: 3}
	ref.sections[fxSection] = &model.Section{SectionID: fxSection, SemesterPeriodID: fxLevel, Name: "Mañana"}
	ref.subjects[fxSubject] = &model.Subject{SubjectID: fxSubject, Name: "Cálculo Diferencial"}
	ref.teachers[fxTeacher] = &model.Teacher{TeacherID: fxTeacher, FirstName: "ANA", LastName: "pérez", IsActive: true}
	ref.students[fxStudent] = &model.Student{StudentID: fxStudent, FirstName: "juan  carlos", LastName: "LÓPEZ", Email: "juan.lopez@example.edu"}
	ref.teaches[fxTeacher+"|"+fxSubject+"|"+fxSection+"|"+fxLevel] = true

	r.grade.grades[fxGrade] = &model.PartialGrade{
		GradeID:          fxGrade,
		StudentID:        fxStudent,
		SubjectID:        fxSubject,
		SectionID:        fxSection,
		SemesterPeriodID: fxLevel,
		TeacherID:        fxTeacher,
		GradeP1:          5.5,
	}

	p1 := 5.5
	r.candidate.rows = append(r.candidate.rows, model.CandidateRow{
		GradeID:     fxGrade,
		StudentID:   fxStudent,
		StudentName: strPtr("juan  carlos LÓPEZ"),
		Email:       strPtr("Juan.Lopez@example.edu"),
		SubjectID:   fxSubject,
		SubjectName: strPtr("Cálculo Diferencial"),
		TeacherID:   fxTeacher,
		TeacherName: strPtr("ANA pérez"),
		SectionID:   fxSection,
		SectionName: strPtr("Mañana"),
		GradeP1:     &p1,
	})
}

type tutoringFixture struct {
	svc      TutoringService
	repos    *testRepos
	clock    *testClock
	settings SettingsService
}

func setupTutoringService() *tutoringFixture {
	repos := newTestRepos()
	seedAcademic(repos)
	clock := newTestClock()
	cfg := testTutoringConfig()
	logger := zap.NewNop()

	repo := repos.toRepository()
	settings := NewSettingsService(cfg, repo, logger)
	svc := NewTutoringService(cfg, repo, settings, keylock.New(), logger, WithClock(clock.Now))
	return &tutoringFixture{svc: svc, repos: repos, clock: clock, settings: settings}
}

func newConsoleNotifier() *mailer.Console {
	return mailer.NewConsole(mail.Address{Name: "SAI", Address: "no-reply@example.edu"}, "[SAI] ", zap.NewNop())
}
