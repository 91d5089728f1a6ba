package model

import "time"

// SessionStatus closed set of tutoring session states
type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionDone       SessionStatus = "done"
	SessionAbsence    SessionStatus = "absence"
	SessionIncomplete SessionStatus = "incomplete" // assigned only by the overdue sweep
)

// SessionStatuses every status in catalogue order
var SessionStatuses = []SessionStatus{SessionPending, SessionDone, SessionAbsence, SessionIncomplete}

var sessionStatusNames = map[SessionStatus]string{
	SessionPending:    "Pendiente",
	SessionDone:       "Realizada",
	SessionAbsence:    "Inasistencia",
	SessionIncomplete: "Incompleta",
}

// ParseSessionStatus accepts only the canonical codes
func ParseSessionStatus(s string) (SessionStatus, bool) {
	st := SessionStatus(s)
	_, ok := sessionStatusNames[st]
	return st, ok
}

// Valid reports whether s is a known status
func (s SessionStatus) Valid() bool {
	_, ok := sessionStatusNames[s]
	return ok
}

// DisplayName Spanish label shown to users
func (s SessionStatus) DisplayName() string {
	return sessionStatusNames[s]
}

// Locked sessions can be neither edited nor deleted
func (s SessionStatus) Locked() bool {
	return s == SessionAbsence || s == SessionIncomplete
}

// Selectable statuses a user may pick as a transition target
func (s SessionStatus) Selectable() bool {
	return s == SessionDone || s == SessionAbsence
}

// Deletable only while pending
func (s SessionStatus) Deletable() bool {
	return s == SessionPending
}

// CanTransitionTo the only user transitions are pending → done and pending → absence
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	return s == SessionPending && target.Selectable()
}

// Tutoring parent record of a student's mandatory tutoring in one subject (table tutorings)
// RequiredSessions == 0 means assigned but not yet registered (no objective set).
type Tutoring struct {
	TutoringID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tutoring_id"`
	StudentID        string     `gorm:"type:uuid;not null"                             json:"student_id"`
	SubjectID        string     `gorm:"type:uuid;not null"                             json:"subject_id"`
	SectionID        string     `gorm:"type:uuid;not null"                             json:"section_id"`
	TeacherID        string     `gorm:"type:uuid;not null"                             json:"teacher_id"`
	SemesterPeriodID string     `gorm:"type:uuid;not null"                             json:"semester_period_id"`
	GradeID          *string    `gorm:"type:uuid"                                      json:"grade_id,omitempty"`
	Objective        string     `gorm:"type:text;not null;default:''"                  json:"objective"`
	RequiredSessions int        `gorm:"not null;default:0"                             json:"required_sessions"`
	ArchivedAt       *time.Time `gorm:"type:timestamptz"                               json:"archived_at,omitempty"`
	Version          int        `gorm:"not null;default:1"                             json:"version"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Section *Section `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName table name
func (Tutoring) TableName() string { return "tutorings" }

// Registered reports whether an objective and session count were set
func (t *Tutoring) Registered() bool {
	return t.RequiredSessions > 0
}

// TutoringSession one dated meeting under a Tutoring (table tutoring_sessions)
type TutoringSession struct {
	SessionID    string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	TutoringID   string        `gorm:"type:uuid;not null"                             json:"tutoring_id"`
	SessionDate  time.Time     `gorm:"type:date;not null"                             json:"session_date"`
	Motive       string        `gorm:"type:varchar(500);not null"                     json:"motive"`
	Observations string        `gorm:"type:text;not null;default:''"                  json:"observations"`
	Status       SessionStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	BaseModel
}

// TableName table name
func (TutoringSession) TableName() string { return "tutoring_sessions" }

// NotificationLog one attempt to email a student about an assignment (table notification_logs)
type NotificationLog struct {
	NotificationLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_log_id"`
	TutoringID        string    `gorm:"type:uuid;not null"                             json:"tutoring_id"`
	Recipient         string    `gorm:"type:varchar(255);not null"                     json:"recipient"`
	Subject           string    `gorm:"type:varchar(255);not null"                     json:"subject"`
	Status            string    `gorm:"type:varchar(10);not null"                      json:"status"` // sent | failed | skipped
	ErrorMessage      string    `gorm:"type:text;not null;default:''"                  json:"error_message,omitempty"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy         *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
}

// TableName table name
func (NotificationLog) TableName() string { return "notification_logs" }

// Notification log statuses
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped" // student without email
)
