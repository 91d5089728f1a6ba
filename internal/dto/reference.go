package dto

// ── reference data queries ──

// LevelQuery levels of a period
type LevelQuery struct {
	PeriodID string `form:"period_id" json:"period_id" binding:"required,uuid"`
}

// SectionQuery sections of a level
type SectionQuery struct {
	SemesterPeriodID string `form:"semester_period_id" json:"semester_period_id" binding:"required,uuid"`
}

// SubjectQuery subjects taught to a section
type SubjectQuery struct {
	SemesterPeriodID string `form:"semester_period_id" json:"semester_period_id" binding:"required,uuid"`
	SectionID        string `form:"section_id"         json:"section_id"         binding:"required,uuid"`
}

// TeacherQuery teachers of a subject in a section; all active teachers when empty
type TeacherQuery struct {
	SemesterPeriodID string `form:"semester_period_id" json:"semester_period_id,omitempty" binding:"omitempty,uuid"`
	SubjectID        string `form:"subject_id"         json:"subject_id,omitempty"         binding:"omitempty,uuid"`
	SectionID        string `form:"section_id"         json:"section_id,omitempty"         binding:"omitempty,uuid"`
}

// StudentQuery student search
type StudentQuery struct {
	Keyword string `form:"keyword" json:"keyword,omitempty" binding:"omitempty,max=50"`
}

// ── reference data responses ──

// PeriodResponse academic period
type PeriodResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

// LevelResponse semester-period ("Nivel 3")
type LevelResponse struct {
	ID       string `json:"id"`
	PeriodID string `json:"period_id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
}

// SectionResponse section with its resolved shift
type SectionResponse struct {
	ID               string `json:"id"`
	SemesterPeriodID string `json:"semester_period_id"`
	Name             string `json:"name"`
	Shift            string `json:"shift"`
}

// SubjectResponse subject
type SubjectResponse struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

// TeacherResponse teacher
type TeacherResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// StudentResponse student
type StudentResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}
