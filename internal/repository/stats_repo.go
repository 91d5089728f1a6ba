package repository

import (
	"context"

	"gorm.io/gorm"

	"sai-tutoria/internal/model"
)

// SessionStatusCount sessions of one status in one section
type SessionStatusCount struct {
	SectionName string
	Jornada     *string
	Status      model.SessionStatus
	Count       int64
}

// SubjectCount tutoring records of one subject
type SubjectCount struct {
	SubjectID   string
	SubjectName string
	Count       int64
}

// TeacherCount incomplete sessions of one teacher
type TeacherCount struct {
	TeacherID   string
	TeacherName string
	Count       int64
}

// StatsRepository tutoring aggregates; semesterPeriodID may be empty for all
type StatsRepository interface {
	SessionStatusBySection(ctx context.Context, semesterPeriodID string) ([]SessionStatusCount, error)
	TopSubjects(ctx context.Context, semesterPeriodID string, limit int) ([]SubjectCount, error)
	TeachersByIncomplete(ctx context.Context, semesterPeriodID string, limit int) ([]TeacherCount, error)
}

type statsRepo struct {
	db *gorm.DB
}

// NewStatsRepo creates a StatsRepository
func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db: db}
}

func scopeSemesterPeriod(db *gorm.DB, semesterPeriodID string) *gorm.DB {
	if semesterPeriodID == "" {
		return db
	}
	return db.Where("tu.semester_period_id = ?", semesterPeriodID)
}

func (r *statsRepo) SessionStatusBySection(ctx context.Context, semesterPeriodID string) ([]SessionStatusCount, error) {
	var rows []SessionStatusCount
	db := r.db.WithContext(ctx).
		Table("tutoring_sessions ts").
		Select("sc.name AS section_name, sc.shift AS jornada, ts.status AS status, COUNT(*) AS count").
		Joins("JOIN tutorings tu ON tu.tutoring_id = ts.tutoring_id").
		Joins("JOIN sections sc ON sc.section_id = tu.section_id").
		Where("tu.archived_at IS NULL")
	err := scopeSemesterPeriod(db, semesterPeriodID).
		Group("sc.name, sc.shift, ts.status").
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) TopSubjects(ctx context.Context, semesterPeriodID string, limit int) ([]SubjectCount, error) {
	var rows []SubjectCount
	db := r.db.WithContext(ctx).
		Table("tutorings tu").
		Select("sb.subject_id AS subject_id, sb.name AS subject_name, COUNT(*) AS count").
		Joins("JOIN subjects sb ON sb.subject_id = tu.subject_id").
		Where("tu.archived_at IS NULL")
	err := scopeSemesterPeriod(db, semesterPeriodID).
		Group("sb.subject_id, sb.name").
		Order("count DESC, subject_name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepo) TeachersByIncomplete(ctx context.Context, semesterPeriodID string, limit int) ([]TeacherCount, error) {
	var rows []TeacherCount
	db := r.db.WithContext(ctx).
		Table("tutoring_sessions ts").
		Select("t.teacher_id AS teacher_id, TRIM(t.first_name || ' ' || t.last_name) AS teacher_name, COUNT(*) AS count").
		Joins("JOIN tutorings tu ON tu.tutoring_id = ts.tutoring_id").
		Joins("JOIN teachers t ON t.teacher_id = tu.teacher_id").
		Where("ts.status = ? AND tu.archived_at IS NULL", model.SessionIncomplete)
	err := scopeSemesterPeriod(db, semesterPeriodID).
		Group("t.teacher_id, t.first_name, t.last_name").
		Order("count DESC, teacher_name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
