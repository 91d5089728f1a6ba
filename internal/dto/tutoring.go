package dto

// ── risk candidates ──

// CandidateQuery period + level selection; both are required by the resolver
type CandidateQuery struct {
	PeriodID string `form:"period_id" binding:"omitempty,uuid"`
	LevelID  string `form:"level_id"  binding:"omitempty,uuid"`
}

// RiskCandidate canonical at-risk candidate
type RiskCandidate struct {
	GradeID     string  `json:"grade_id"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	Email       string  `json:"email,omitempty"`
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	TeacherID   string  `json:"teacher_id"`
	TeacherName string  `json:"teacher_name"`
	SectionID   string  `json:"section_id"`
	SectionName string  `json:"section_name"`
	GradeP1     float64 `json:"grade_p1"`
	Shift       string  `json:"shift"`
}

// CandidatePartition candidates grouped by shift. Unclassified holds rows whose
// shift could not be determined. An empty partition is a valid result.
type CandidatePartition struct {
	Matutina     []RiskCandidate `json:"matutina"`
	Vespertina   []RiskCandidate `json:"vespertina"`
	Nocturna     []RiskCandidate `json:"nocturna"`
	Unclassified []RiskCandidate `json:"unclassified"`
	Total        int             `json:"total"`
}

// ── assignments ──

// CreateAssignmentRequest assign mandatory tutoring to a candidate
type CreateAssignmentRequest struct {
	GradeID   string `json:"grade_id"   binding:"required,uuid"`
	StudentID string `json:"student_id" binding:"required,uuid"`
	SubjectID string `json:"subject_id" binding:"required,uuid"`
	TeacherID string `json:"teacher_id" binding:"required,uuid"`
	SectionID string `json:"section_id" binding:"required,uuid"`
}

// AssignmentListRequest assignment history filters
type AssignmentListRequest struct {
	PaginationRequest
	SemesterPeriodID string `form:"semester_period_id" binding:"omitempty,uuid"`
	TeacherID        string `form:"teacher_id"         binding:"omitempty,uuid"`
}

// AssignmentResponse assignment history row
type AssignmentResponse struct {
	TutoringID       string  `json:"tutoring_id"`
	GradeID          *string `json:"grade_id,omitempty"`
	StudentID        string  `json:"student_id"`
	StudentName      string  `json:"student_name"`
	StudentEmail     string  `json:"student_email,omitempty"`
	SubjectID        string  `json:"subject_id"`
	SubjectName      string  `json:"subject_name"`
	TeacherID        string  `json:"teacher_id"`
	TeacherName      string  `json:"teacher_name"`
	SectionID        string  `json:"section_id"`
	SectionName      string  `json:"section_name"`
	SemesterPeriodID string  `json:"semester_period_id"`
	Objective        string  `json:"objective"`
	RequiredSessions int     `json:"required_sessions"`
	Registered       bool    `json:"registered"`
	CreatedAt        string  `json:"created_at"`
}

// CreateAssignmentResponse created assignment and whether the student was emailed
type CreateAssignmentResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Notified   bool               `json:"notified"`
}

// NotificationResponse outcome of one notification attempt
type NotificationResponse struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ── tutoring record (parent) ──

// RegisterTutoringRequest set objective and session count, creating the record
// when the student has none for this subject and level yet
type RegisterTutoringRequest struct {
	StudentID        string `json:"student_id"         binding:"required,uuid"`
	SubjectID        string `json:"subject_id"         binding:"required,uuid"`
	SemesterPeriodID string `json:"semester_period_id" binding:"required,uuid"`
	Objective        string `json:"objective"          binding:"max=1000"`
	RequiredSessions *int   `json:"required_sessions"`
}

// UpdateTutoringRequest change objective and session count
type UpdateTutoringRequest struct {
	Objective        string `json:"objective"         binding:"max=1000"`
	RequiredSessions int    `json:"required_sessions"`
	Version          *int   `json:"version"`
}

// ProgressResponse session count against the required count
type ProgressResponse struct {
	SessionCount     int  `json:"session_count"`
	RequiredSessions int  `json:"required_sessions"`
	Completed        bool `json:"completed"`
	Remaining        int  `json:"remaining"`
}

// TutoringResponse tutoring record with progress
type TutoringResponse struct {
	ID               string            `json:"id"`
	StudentID        string            `json:"student_id"`
	StudentName      string            `json:"student_name,omitempty"`
	SubjectID        string            `json:"subject_id"`
	SubjectName      string            `json:"subject_name,omitempty"`
	SectionID        string            `json:"section_id"`
	TeacherID        string            `json:"teacher_id"`
	SemesterPeriodID string            `json:"semester_period_id"`
	Objective        string            `json:"objective"`
	RequiredSessions int               `json:"required_sessions"`
	Version          int               `json:"version"`
	Progress         ProgressResponse  `json:"progress"`
	Sessions         []SessionResponse `json:"sessions,omitempty"`
}

// ── sessions ──

// CreateSessionRequest new session; SessionDate is YYYY-MM-DD
type CreateSessionRequest struct {
	SessionDate  string `json:"session_date" binding:"required"`
	Motive       string `json:"motive"       binding:"max=500"`
	Observations string `json:"observations" binding:"max=2000"`
}

// UpdateSessionRequest edit of an unlocked session; Status goes through the transition rules
type UpdateSessionRequest struct {
	SessionDate  *string `json:"session_date"`
	Motive       *string `json:"motive"       binding:"omitempty,max=500"`
	Observations *string `json:"observations" binding:"omitempty,max=2000"`
	Status       *string `json:"status"`
}

// TransitionSessionRequest status change
type TransitionSessionRequest struct {
	Status string `json:"status" binding:"required"`
}

// SessionResponse session
type SessionResponse struct {
	ID           string `json:"id"`
	TutoringID   string `json:"tutoring_id"`
	SessionDate  string `json:"session_date"`
	Motive       string `json:"motive"`
	Observations string `json:"observations"`
	Status       string `json:"status"`
	StatusName   string `json:"status_name"`
	Locked       bool   `json:"locked"`
	Deletable    bool   `json:"deletable"`
}

// StatusResponse status catalogue entry
type StatusResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Selectable bool   `json:"selectable"`
	Locked     bool   `json:"locked"`
}

// ── teacher report view ──

// MyStudentsQuery at-risk students of the calling teacher
type MyStudentsQuery struct {
	SemesterPeriodID string `form:"semester_period_id" binding:"required,uuid"`
}

// MyStudentResponse at-risk student with tutoring state
type MyStudentResponse struct {
	RiskCandidate
	HasTutoring      bool   `json:"has_tutoring"`
	TutoringID       string `json:"tutoring_id,omitempty"`
	Objective        string `json:"objective,omitempty"`
	RequiredSessions int    `json:"required_sessions"`
	SessionsDone     int    `json:"sessions_done"`
}

// ── statistics ──

// StatsQuery statistics scope
type StatsQuery struct {
	SemesterPeriodID string `form:"semester_period_id" binding:"omitempty,uuid"`
}

// ShiftStats session status counts of one shift
type ShiftStats struct {
	Shift      string `json:"shift"`
	Name       string `json:"name"`
	Pending    int64  `json:"pending"`
	Done       int64  `json:"done"`
	Absence    int64  `json:"absence"`
	Incomplete int64  `json:"incomplete"`
	Total      int64  `json:"total"`
}

// SubjectStat tutoring records per subject
type SubjectStat struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Tutorings   int64  `json:"tutorings"`
}

// TeacherStat incomplete sessions per teacher
type TeacherStat struct {
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	Incomplete  int64  `json:"incomplete"`
}

// StatsResponse tutoring statistics
type StatsResponse struct {
	ByShift     []ShiftStats  `json:"by_shift"`
	TopSubjects []SubjectStat `json:"top_subjects"`
	Teachers    []TeacherStat `json:"teachers_by_incomplete"`
}
