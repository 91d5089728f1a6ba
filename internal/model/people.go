package model

import "strings"

// Teacher (table teachers)
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	FirstName string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email     string `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	IDNumber  string `gorm:"type:varchar(20);not null;default:''"           json:"id_number"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName table name
func (Teacher) TableName() string { return "teachers" }

// FullName "first last"
func (t *Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Student (table students)
type Student struct {
	StudentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	FirstName string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email     string `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	IDNumber  string `gorm:"type:varchar(20);not null;default:''"           json:"id_number"`
	Timestamps
}

// TableName table name
func (Student) TableName() string { return "students" }

// FullName "first last"
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
