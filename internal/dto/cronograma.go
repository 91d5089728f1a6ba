package dto

// ── document types ──

// CreateDocumentTypeRequest new document type
type CreateDocumentTypeRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// UpdateDocumentTypeRequest partial document type change
type UpdateDocumentTypeRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=150"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// DocumentTypeResponse document type
type DocumentTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// ── schedule entries ──

// CronogramaQuery entries of one period
type CronogramaQuery struct {
	PeriodID string `form:"period_id" binding:"required,uuid"`
}

// CreateScheduleEntryRequest new deadline; DueDate is YYYY-MM-DD
type CreateScheduleEntryRequest struct {
	PeriodID       string `json:"period_id"        binding:"required,uuid"`
	DocumentTypeID string `json:"document_type_id" binding:"required,uuid"`
	Description    string `json:"description"      binding:"omitempty,max=2000"`
	DueDate        string `json:"due_date"         binding:"required"`
}

// UpdateScheduleEntryRequest partial deadline change
type UpdateScheduleEntryRequest struct {
	DocumentTypeID *string `json:"document_type_id" binding:"omitempty,uuid"`
	Description    *string `json:"description"      binding:"omitempty,max=2000"`
	DueDate        *string `json:"due_date"`
	IsActive       *bool   `json:"is_active"`
}

// ScheduleEntryResponse deadline
type ScheduleEntryResponse struct {
	ID               string `json:"id"`
	PeriodID         string `json:"period_id"`
	DocumentTypeID   string `json:"document_type_id"`
	DocumentTypeName string `json:"document_type_name"`
	Description      string `json:"description"`
	DueDate          string `json:"due_date"`
	IsActive         bool   `json:"is_active"`
}

// GroupedRow schedule entry annotated for row-span rendering. Only the first
// row of a group carries IsFirstInGroup and the group's size.
type GroupedRow struct {
	ScheduleEntryID  string `json:"schedule_entry_id"`
	DueDate          string `json:"due_date"`
	DateLabel        string `json:"date_label"`
	DocumentTypeName string `json:"document_type_name"`
	Description      string `json:"description"`
	IsFirstInGroup   bool   `json:"is_first_in_group"`
	GroupSize        int    `json:"group_size"`
}

// ── report documents ──

// UploadDocumentForm multipart fields sent with the file
type UploadDocumentForm struct {
	ScheduleEntryID  string `form:"schedule_entry_id"  binding:"required,uuid"`
	SubjectID        string `form:"subject_id"         binding:"required,uuid"`
	SectionID        string `form:"section_id"         binding:"required,uuid"`
	SemesterPeriodID string `form:"semester_period_id" binding:"required,uuid"`
}

// DocumentListRequest uploads of the calling teacher
type DocumentListRequest struct {
	PaginationRequest
	SemesterPeriodID string `form:"semester_period_id" binding:"omitempty,uuid"`
}

// DocumentResponse uploaded report document
type DocumentResponse struct {
	ID               string `json:"id"`
	ScheduleEntryID  string `json:"schedule_entry_id"`
	DocumentTypeName string `json:"document_type_name,omitempty"`
	SubjectID        string `json:"subject_id"`
	SubjectName      string `json:"subject_name,omitempty"`
	SectionID        string `json:"section_id"`
	SemesterPeriodID string `json:"semester_period_id"`
	OriginalName     string `json:"original_name"`
	ContentType      string `json:"content_type"`
	SizeBytes        int64  `json:"size_bytes"`
	CreatedAt        string `json:"created_at"`
}
