package repository

import (
	"context"

	"gorm.io/gorm"

	"sai-tutoria/internal/model"
)

// TeacherFilter narrows teachers to those assigned a subject in a section
type TeacherFilter struct {
	SemesterPeriodID string
	SubjectID        string
	SectionID        string
}

// ReferenceRepository read access to the academic catalogue
type ReferenceRepository interface {
	ListPeriods(ctx context.Context) ([]model.Period, error)
	GetPeriod(ctx context.Context, id string) (*model.Period, error)
	ListLevels(ctx context.Context, periodID string) ([]model.SemesterPeriod, error)
	GetLevel(ctx context.Context, id string) (*model.SemesterPeriod, error)
	ListSections(ctx context.Context, semesterPeriodID string) ([]model.Section, error)
	GetSection(ctx context.Context, id string) (*model.Section, error)
	ListSubjects(ctx context.Context, semesterPeriodID, sectionID string) ([]model.Subject, error)
	GetSubject(ctx context.Context, id string) (*model.Subject, error)
	ListTeachers(ctx context.Context, filter TeacherFilter) ([]model.Teacher, error)
	GetTeacher(ctx context.Context, id string) (*model.Teacher, error)
	ListStudents(ctx context.Context, keyword string) ([]model.Student, error)
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	TeachesSubject(ctx context.Context, teacherID, subjectID, sectionID, semesterPeriodID string) (bool, error)
}

type referenceRepo struct {
	db *gorm.DB
}

// NewReferenceRepo creates a ReferenceRepository
func NewReferenceRepo(db *gorm.DB) ReferenceRepository {
	return &referenceRepo{db: db}
}

// ── periods & levels ──

func (r *referenceRepo) ListPeriods(ctx context.Context) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *referenceRepo) GetPeriod(ctx context.Context, id string) (*model.Period, error) {
	var p model.Period
	if err := r.db.WithContext(ctx).Where("period_id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *referenceRepo) ListLevels(ctx context.Context, periodID string) ([]model.SemesterPeriod, error) {
	var levels []model.SemesterPeriod
	err := r.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("level ASC").
		Find(&levels).Error
	return levels, err
}

func (r *referenceRepo) GetLevel(ctx context.Context, id string) (*model.SemesterPeriod, error) {
	var sp model.SemesterPeriod
	if err := r.db.WithContext(ctx).Where("semester_period_id = ?", id).First(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

// ── sections ──

func (r *referenceRepo) ListSections(ctx context.Context, semesterPeriodID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Where("semester_period_id = ?", semesterPeriodID).
		Order("name ASC").
		Find(&sections).Error
	return sections, err
}

func (r *referenceRepo) GetSection(ctx context.Context, id string) (*model.Section, error) {
	var s model.Section
	if err := r.db.WithContext(ctx).Where("section_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ── subjects & teachers ──

func (r *referenceRepo) ListSubjects(ctx context.Context, semesterPeriodID, sectionID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Model(&model.Subject{}).
		Joins("JOIN course_assignments ca ON ca.subject_id = subjects.subject_id").
		Where("ca.semester_period_id = ? AND ca.section_id = ?", semesterPeriodID, sectionID).
		Distinct("subjects.*").
		Order("subjects.name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *referenceRepo) GetSubject(ctx context.Context, id string) (*model.Subject, error) {
	var s model.Subject
	if err := r.db.WithContext(ctx).Where("subject_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *referenceRepo) ListTeachers(ctx context.Context, filter TeacherFilter) ([]model.Teacher, error) {
	var teachers []model.Teacher
	db := r.db.WithContext(ctx).Model(&model.Teacher{}).Where("teachers.is_active = ?", true)

	if filter.SemesterPeriodID != "" || filter.SubjectID != "" || filter.SectionID != "" {
		db = db.Joins("JOIN course_assignments ca ON ca.teacher_id = teachers.teacher_id")
		if filter.SemesterPeriodID != "" {
			db = db.Where("ca.semester_period_id = ?", filter.SemesterPeriodID)
		}
		if filter.SubjectID != "" {
			db = db.Where("ca.subject_id = ?", filter.SubjectID)
		}
		if filter.SectionID != "" {
			db = db.Where("ca.section_id = ?", filter.SectionID)
		}
		db = db.Distinct("teachers.*")
	}

	err := db.Order("teachers.last_name ASC, teachers.first_name ASC").Find(&teachers).Error
	return teachers, err
}

func (r *referenceRepo) GetTeacher(ctx context.Context, id string) (*model.Teacher, error) {
	var t model.Teacher
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *referenceRepo) TeachesSubject(ctx context.Context, teacherID, subjectID, sectionID, semesterPeriodID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseAssignment{}).
		Where("teacher_id = ? AND subject_id = ? AND section_id = ? AND semester_period_id = ?",
			teacherID, subjectID, sectionID, semesterPeriodID).
		Count(&n).Error
	return n > 0, err
}

// ── students ──

func (r *referenceRepo) ListStudents(ctx context.Context, keyword string) ([]model.Student, error) {
	var students []model.Student
	db := r.db.WithContext(ctx).Model(&model.Student{})
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR id_number ILIKE ?", like, like, like)
	}
	err := db.Order("last_name ASC, first_name ASC").Limit(500).Find(&students).Error
	return students, err
}

func (r *referenceRepo) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
