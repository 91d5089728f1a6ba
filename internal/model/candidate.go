package model

// CandidateRow raw at-risk candidate as scanned from the candidates query.
// Columns may be NULL when reference rows are incomplete.
type CandidateRow struct {
	GradeID     string   `gorm:"column:grade_id"`
	StudentID   string   `gorm:"column:student_id"`
	StudentName *string  `gorm:"column:student_name"`
	Email       *string  `gorm:"column:email"`
	SubjectID   string   `gorm:"column:subject_id"`
	SubjectName *string  `gorm:"column:subject_name"`
	TeacherID   string   `gorm:"column:teacher_id"`
	TeacherName *string  `gorm:"column:teacher_name"`
	SectionID   string   `gorm:"column:section_id"`
	SectionName *string  `gorm:"column:section_name"`
	Jornada     *string  `gorm:"column:jornada"`
	GradeP1     *float64 `gorm:"column:grade_p1"`
}
