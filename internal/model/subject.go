package model

import "time"

// Subject (table subjects)
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Code      string `gorm:"type:varchar(20);not null;default:''"           json:"code"`
	Name      string `gorm:"type:varchar(150);not null"                     json:"name"`
	Timestamps
}

// TableName table name
func (Subject) TableName() string { return "subjects" }

// CourseAssignment teacher giving a subject to a section (table course_assignments)
type CourseAssignment struct {
	CourseAssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_assignment_id"`
	SemesterPeriodID   string    `gorm:"type:uuid;not null"                             json:"semester_period_id"`
	SectionID          string    `gorm:"type:uuid;not null"                             json:"section_id"`
	SubjectID          string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID          string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName table name
func (CourseAssignment) TableName() string { return "course_assignments" }
