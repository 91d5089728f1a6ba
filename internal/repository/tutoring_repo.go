package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sai-tutoria/internal/model"
	pkgerrors "sai-tutoria/pkg/errors"
)

// TutoringFilter tutoring list filters
type TutoringFilter struct {
	SemesterPeriodID string
	TeacherID        string
}

// TutoringRepository tutoring parent records
type TutoringRepository interface {
	Create(ctx context.Context, t *model.Tutoring) error
	GetByID(ctx context.Context, id string) (*model.Tutoring, error)
	// GetByIDForUpdate row-locks the record until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id string) (*model.Tutoring, error)
	FindByStudentSubject(ctx context.Context, studentID, subjectID, semesterPeriodID string) (*model.Tutoring, error)
	Update(ctx context.Context, t *model.Tutoring) error
	// Archive hides a live record; gorm.ErrRecordNotFound when already archived
	Archive(ctx context.Context, id, archivedBy string) error
	List(ctx context.Context, filter TutoringFilter, offset, limit int) ([]model.Tutoring, int64, error)
	ListByTeacher(ctx context.Context, teacherID, semesterPeriodID string) ([]model.Tutoring, error)
}

type tutoringRepo struct {
	db *gorm.DB
}

// NewTutoringRepo creates a TutoringRepository
func NewTutoringRepo(db *gorm.DB) TutoringRepository {
	return &tutoringRepo{db: db}
}

func (r *tutoringRepo) Create(ctx context.Context, t *model.Tutoring) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tutoringRepo) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Subject").Preload("Section").Preload("Teacher")
}

func (r *tutoringRepo) GetByID(ctx context.Context, id string) (*model.Tutoring, error) {
	var t model.Tutoring
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("tutoring_id = ? AND archived_at IS NULL", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tutoringRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Tutoring, error) {
	var t model.Tutoring
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tutoring_id = ? AND archived_at IS NULL", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tutoringRepo) FindByStudentSubject(ctx context.Context, studentID, subjectID, semesterPeriodID string) (*model.Tutoring, error) {
	var t model.Tutoring
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND semester_period_id = ? AND archived_at IS NULL",
			studentID, subjectID, semesterPeriodID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update optimistic write of objective and session count
func (r *tutoringRepo) Update(ctx context.Context, t *model.Tutoring) error {
	oldVersion := t.Version
	result := r.db.WithContext(ctx).
		Model(&model.Tutoring{}).
		Where("tutoring_id = ? AND version = ?", t.TutoringID, oldVersion).
		Updates(map[string]interface{}{
			"objective":         t.Objective,
			"required_sessions": t.RequiredSessions,
			"updated_by":        t.UpdatedBy,
			"updated_at":        time.Now(),
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	t.Version = oldVersion + 1
	return nil
}

func (r *tutoringRepo) Archive(ctx context.Context, id, archivedBy string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Tutoring{}).
		Where("tutoring_id = ? AND archived_at IS NULL", id).
		Updates(map[string]interface{}{
			"archived_at": now,
			"updated_by":  archivedBy,
			"updated_at":  now,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tutoringRepo) List(ctx context.Context, filter TutoringFilter, offset, limit int) ([]model.Tutoring, int64, error) {
	var items []model.Tutoring
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Tutoring{}).Where("archived_at IS NULL")
	if filter.SemesterPeriodID != "" {
		db = db.Where("semester_period_id = ?", filter.SemesterPeriodID)
	}
	if filter.TeacherID != "" {
		db = db.Where("teacher_id = ?", filter.TeacherID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.withRelations(db).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *tutoringRepo) ListByTeacher(ctx context.Context, teacherID, semesterPeriodID string) ([]model.Tutoring, error) {
	var items []model.Tutoring
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND semester_period_id = ? AND archived_at IS NULL", teacherID, semesterPeriodID).
		Find(&items).Error
	return items, err
}
