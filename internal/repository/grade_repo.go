package repository

import (
	"context"

	"gorm.io/gorm"

	"sai-tutoria/internal/model"
)

// GradeFilter partial grade list filters
type GradeFilter struct {
	SemesterPeriodID string
	SubjectID        string
	SectionID        string
	TeacherID        string
}

// GradeRepository partial grades
type GradeRepository interface {
	Create(ctx context.Context, grade *model.PartialGrade) error
	GetByID(ctx context.Context, id string) (*model.PartialGrade, error)
	FindByStudentSubject(ctx context.Context, studentID, subjectID, semesterPeriodID string) (*model.PartialGrade, error)
	Update(ctx context.Context, grade *model.PartialGrade) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter GradeFilter, offset, limit int) ([]model.PartialGrade, int64, error)
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo creates a GradeRepository
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.PartialGrade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.PartialGrade, error) {
	var g model.PartialGrade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Subject").
		Where("grade_id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gradeRepo) FindByStudentSubject(ctx context.Context, studentID, subjectID, semesterPeriodID string) (*model.PartialGrade, error) {
	var g model.PartialGrade
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND semester_period_id = ?", studentID, subjectID, semesterPeriodID).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.PartialGrade) error {
	return r.db.WithContext(ctx).
		Model(&model.PartialGrade{}).
		Where("grade_id = ?", grade.GradeID).
		Updates(map[string]interface{}{
			"grade_p1":   grade.GradeP1,
			"grade_p2":   grade.GradeP2,
			"updated_by": grade.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		Delete(&model.PartialGrade{}).Error
}

func (r *gradeRepo) List(ctx context.Context, filter GradeFilter, offset, limit int) ([]model.PartialGrade, int64, error) {
	var grades []model.PartialGrade
	var total int64

	db := r.db.WithContext(ctx).Model(&model.PartialGrade{})
	if filter.SemesterPeriodID != "" {
		db = db.Where("semester_period_id = ?", filter.SemesterPeriodID)
	}
	if filter.SubjectID != "" {
		db = db.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.SectionID != "" {
		db = db.Where("section_id = ?", filter.SectionID)
	}
	if filter.TeacherID != "" {
		db = db.Where("teacher_id = ?", filter.TeacherID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Student").Preload("Subject").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&grades).Error; err != nil {
		return nil, 0, err
	}

	return grades, total, nil
}
