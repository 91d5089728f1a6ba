package model

// PartialGrade first/second partial grades of a student in a subject (table partial_grades)
type PartialGrade struct {
	GradeID          string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	StudentID        string   `gorm:"type:uuid;not null"                             json:"student_id"`
	SubjectID        string   `gorm:"type:uuid;not null"                             json:"subject_id"`
	SectionID        string   `gorm:"type:uuid;not null"                             json:"section_id"`
	SemesterPeriodID string   `gorm:"type:uuid;not null"                             json:"semester_period_id"`
	TeacherID        string   `gorm:"type:uuid;not null"                             json:"teacher_id"`
	GradeP1          float64  `gorm:"column:grade_p1;type:numeric(4,2);not null"     json:"grade_p1"`
	GradeP2          *float64 `gorm:"column:grade_p2;type:numeric(4,2)"              json:"grade_p2,omitempty"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName table name
func (PartialGrade) TableName() string { return "partial_grades" }
