package model

import "time"

// DocumentType kind of annex teachers must deliver (table document_types)
type DocumentType struct {
	DocumentTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_type_id"`
	Name           string `gorm:"type:varchar(150);not null"                     json:"name"`
	Description    string `gorm:"type:text;not null;default:''"                  json:"description"`
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName table name
func (DocumentType) TableName() string { return "document_types" }

// ScheduleEntry one deadline of the cronograma (table schedule_entries)
type ScheduleEntry struct {
	ScheduleEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_entry_id"`
	PeriodID        string    `gorm:"type:uuid;not null"                             json:"period_id"`
	DocumentTypeID  string    `gorm:"type:uuid;not null"                             json:"document_type_id"`
	Description     string    `gorm:"type:text;not null;default:''"                  json:"description"`
	DueDate         time.Time `gorm:"type:date;not null"                             json:"due_date"`
	IsActive        bool      `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	DocumentType *DocumentType `gorm:"foreignKey:DocumentTypeID;references:DocumentTypeID" json:"document_type,omitempty"`
}

// TableName table name
func (ScheduleEntry) TableName() string { return "schedule_entries" }

// ReportDocument uploaded annex PDF (table report_documents)
type ReportDocument struct {
	ReportDocumentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"report_document_id"`
	ScheduleEntryID  string    `gorm:"type:uuid;not null"                             json:"schedule_entry_id"`
	TeacherID        string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	SubjectID        string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	SectionID        string    `gorm:"type:uuid;not null"                             json:"section_id"`
	SemesterPeriodID string    `gorm:"type:uuid;not null"                             json:"semester_period_id"`
	OriginalName     string    `gorm:"type:varchar(255);not null"                     json:"original_name"`
	StoredName       string    `gorm:"type:varchar(100);not null"                     json:"stored_name"`
	ContentType      string    `gorm:"type:varchar(100);not null"                     json:"content_type"`
	SizeBytes        int64     `gorm:"not null"                                       json:"size_bytes"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy        *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`

	ScheduleEntry *ScheduleEntry `gorm:"foreignKey:ScheduleEntryID;references:ScheduleEntryID" json:"schedule_entry,omitempty"`
	Subject       *Subject       `gorm:"foreignKey:SubjectID;references:SubjectID"             json:"subject,omitempty"`
}

// TableName table name
func (ReportDocument) TableName() string { return "report_documents" }
