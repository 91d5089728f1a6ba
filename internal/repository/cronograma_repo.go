package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sai-tutoria/internal/model"
)

// ── document types ──

// DocumentTypeRepository document types
type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *model.DocumentType) error
	GetByID(ctx context.Context, id string) (*model.DocumentType, error)
	GetByName(ctx context.Context, name string) (*model.DocumentType, error)
	List(ctx context.Context, activeOnly bool) ([]model.DocumentType, error)
	Update(ctx context.Context, dt *model.DocumentType) error
	Delete(ctx context.Context, id string) error
}

type documentTypeRepo struct {
	db *gorm.DB
}

// NewDocumentTypeRepo creates a DocumentTypeRepository
func NewDocumentTypeRepo(db *gorm.DB) DocumentTypeRepository {
	return &documentTypeRepo{db: db}
}

func (r *documentTypeRepo) Create(ctx context.Context, dt *model.DocumentType) error {
	return r.db.WithContext(ctx).Create(dt).Error
}

func (r *documentTypeRepo) GetByID(ctx context.Context, id string) (*model.DocumentType, error) {
	var dt model.DocumentType
	if err := r.db.WithContext(ctx).Where("document_type_id = ?", id).First(&dt).Error; err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *documentTypeRepo) GetByName(ctx context.Context, name string) (*model.DocumentType, error) {
	var dt model.DocumentType
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&dt).Error; err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *documentTypeRepo) List(ctx context.Context, activeOnly bool) ([]model.DocumentType, error) {
	var items []model.DocumentType
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *documentTypeRepo) Update(ctx context.Context, dt *model.DocumentType) error {
	return r.db.WithContext(ctx).Save(dt).Error
}

func (r *documentTypeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("document_type_id = ?", id).
		Delete(&model.DocumentType{}).Error
}

// ── schedule entries ──

// ScheduleEntryRepository cronograma deadlines
type ScheduleEntryRepository interface {
	Create(ctx context.Context, e *model.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	// ListByPeriod ordered by due date, then insertion
	ListByPeriod(ctx context.Context, periodID string, activeOnly bool) ([]model.ScheduleEntry, error)
	Update(ctx context.Context, e *model.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
	CountByDocumentType(ctx context.Context, documentTypeID string) (int64, error)
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo creates a ScheduleEntryRepository
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) Create(ctx context.Context, e *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var e model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("DocumentType").
		Where("schedule_entry_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *scheduleEntryRepo) ListByPeriod(ctx context.Context, periodID string, activeOnly bool) ([]model.ScheduleEntry, error) {
	var items []model.ScheduleEntry
	db := r.db.WithContext(ctx).Preload("DocumentType").Where("period_id = ?", periodID)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("due_date ASC, created_at ASC").Find(&items).Error
	return items, err
}

func (r *scheduleEntryRepo) Update(ctx context.Context, e *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("schedule_entry_id = ?", e.ScheduleEntryID).
		Updates(map[string]interface{}{
			"document_type_id": e.DocumentTypeID,
			"description":      e.Description,
			"due_date":         e.DueDate,
			"is_active":        e.IsActive,
			"updated_by":       e.UpdatedBy,
			"updated_at":       gorm.Expr("NOW()"),
		}).Error
}

func (r *scheduleEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("schedule_entry_id = ?", id).
		Delete(&model.ScheduleEntry{}).Error
}

func (r *scheduleEntryRepo) CountByDocumentType(ctx context.Context, documentTypeID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("document_type_id = ?", documentTypeID).
		Count(&n).Error
	return n, err
}

// ── report documents ──

// ReportDocumentRepository uploaded annexes
type ReportDocumentRepository interface {
	Create(ctx context.Context, d *model.ReportDocument) error
	ListByTeacher(ctx context.Context, teacherID, semesterPeriodID string, offset, limit int) ([]model.ReportDocument, int64, error)
	CountBySchedule(ctx context.Context, scheduleEntryID string) (int64, error)
}

type reportDocumentRepo struct {
	db *gorm.DB
}

// NewReportDocumentRepo creates a ReportDocumentRepository
func NewReportDocumentRepo(db *gorm.DB) ReportDocumentRepository {
	return &reportDocumentRepo{db: db}
}

func (r *reportDocumentRepo) Create(ctx context.Context, d *model.ReportDocument) error {
	// the schedule entry and document type are references, never written here
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

func (r *reportDocumentRepo) ListByTeacher(ctx context.Context, teacherID, semesterPeriodID string, offset, limit int) ([]model.ReportDocument, int64, error) {
	var docs []model.ReportDocument
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ReportDocument{}).Where("teacher_id = ?", teacherID)
	if semesterPeriodID != "" {
		db = db.Where("semester_period_id = ?", semesterPeriodID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("ScheduleEntry.DocumentType").Preload("Subject").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func (r *reportDocumentRepo) CountBySchedule(ctx context.Context, scheduleEntryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ReportDocument{}).
		Where("schedule_entry_id = ?", scheduleEntryID).
		Count(&n).Error
	return n, err
}
