package dto

// GradeListRequest partial grade filters
type GradeListRequest struct {
	PaginationRequest
	SemesterPeriodID string `form:"semester_period_id" binding:"omitempty,uuid"`
	SubjectID        string `form:"subject_id"         binding:"omitempty,uuid"`
	SectionID        string `form:"section_id"         binding:"omitempty,uuid"`
}

// CreateGradeRequest new partial grade
type CreateGradeRequest struct {
	StudentID        string   `json:"student_id"         binding:"required,uuid"`
	SubjectID        string   `json:"subject_id"         binding:"required,uuid"`
	SectionID        string   `json:"section_id"         binding:"required,uuid"`
	SemesterPeriodID string   `json:"semester_period_id" binding:"required,uuid"`
	TeacherID        string   `json:"teacher_id"         binding:"required,uuid"`
	GradeP1          *float64 `json:"grade_p1"           binding:"required,min=0,max=10"`
	GradeP2          *float64 `json:"grade_p2"           binding:"omitempty,min=0,max=10"`
}

// UpdateGradeRequest partial grade change
type UpdateGradeRequest struct {
	GradeP1 *float64 `json:"grade_p1" binding:"omitempty,min=0,max=10"`
	GradeP2 *float64 `json:"grade_p2" binding:"omitempty,min=0,max=10"`
}

// GradeResponse partial grade with names
type GradeResponse struct {
	ID               string   `json:"id"`
	StudentID        string   `json:"student_id"`
	StudentName      string   `json:"student_name,omitempty"`
	SubjectID        string   `json:"subject_id"`
	SubjectName      string   `json:"subject_name,omitempty"`
	SectionID        string   `json:"section_id"`
	SemesterPeriodID string   `json:"semester_period_id"`
	TeacherID        string   `json:"teacher_id"`
	GradeP1          float64  `json:"grade_p1"`
	GradeP2          *float64 `json:"grade_p2,omitempty"`
	AtRisk           bool     `json:"at_risk"`
	UpdatedAt        string   `json:"updated_at"`
}
