package repository

import (
	"context"

	"gorm.io/gorm"

	"sai-tutoria/internal/model"
)

// CandidateFilter at-risk candidate query
type CandidateFilter struct {
	PeriodID         string
	SemesterPeriodID string
	TeacherID        string
	Threshold        float64 // strictly below
	ExcludeAssigned  bool    // drop students that already have a tutoring for the subject
}

// CandidateRepository at-risk students derived from partial grades
type CandidateRepository interface {
	ListAtRisk(ctx context.Context, filter CandidateFilter) ([]model.CandidateRow, error)
}

type candidateRepo struct {
	db *gorm.DB
}

// NewCandidateRepo creates a CandidateRepository
func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

const candidateColumns = `pg.grade_id, pg.student_id,
	TRIM(st.first_name || ' ' || st.last_name) AS student_name,
	NULLIF(st.email, '') AS email,
	pg.subject_id, sb.name AS subject_name,
	pg.teacher_id, TRIM(t.first_name || ' ' || t.last_name) AS teacher_name,
	pg.section_id, sc.name AS section_name, sc.shift AS jornada,
	pg.grade_p1`

func (r *candidateRepo) ListAtRisk(ctx context.Context, filter CandidateFilter) ([]model.CandidateRow, error) {
	var rows []model.CandidateRow

	db := r.db.WithContext(ctx).
		Table("partial_grades pg").
		Select(candidateColumns).
		Joins("JOIN semester_periods sp ON sp.semester_period_id = pg.semester_period_id").
		Joins("LEFT JOIN students st ON st.student_id = pg.student_id").
		Joins("LEFT JOIN subjects sb ON sb.subject_id = pg.subject_id").
		Joins("LEFT JOIN teachers t ON t.teacher_id = pg.teacher_id").
		Joins("LEFT JOIN sections sc ON sc.section_id = pg.section_id").
		Where("pg.grade_p1 < ?", filter.Threshold)

	if filter.PeriodID != "" {
		db = db.Where("sp.period_id = ?", filter.PeriodID)
	}
	if filter.SemesterPeriodID != "" {
		db = db.Where("pg.semester_period_id = ?", filter.SemesterPeriodID)
	}
	if filter.TeacherID != "" {
		db = db.Where("pg.teacher_id = ?", filter.TeacherID)
	}
	if filter.ExcludeAssigned {
		db = db.Where(`NOT EXISTS (
			SELECT 1 FROM tutorings tu
			WHERE tu.student_id = pg.student_id
			  AND tu.subject_id = pg.subject_id
			  AND tu.semester_period_id = pg.semester_period_id
			  AND tu.archived_at IS NULL)`)
	}

	err := db.Order("student_name ASC, subject_name ASC").Scan(&rows).Error
	return rows, err
}
