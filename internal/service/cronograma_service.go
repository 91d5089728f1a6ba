package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
)

// ── cronograma module errors ──

var (
	ErrDocumentTypeNotFound  = errors.New("tipo de documento no encontrado")
	ErrDocumentTypeExists    = errors.New("ya existe un tipo de documento con ese nombre")
	ErrDocumentTypeInUse     = errors.New("el tipo de documento está en uso en el cronograma")
	ErrDocumentTypeInactive  = errors.New("el tipo de documento está inactivo")
	ErrScheduleEntryNotFound = errors.New("entrega no encontrada en el cronograma")
)

// CronogramaService document types and the schedule of document deadlines
type CronogramaService interface {
	ListDocumentTypes(ctx context.Context, activeOnly bool) ([]dto.DocumentTypeResponse, error)
	CreateDocumentType(ctx context.Context, req *dto.CreateDocumentTypeRequest, callerID string) (*dto.DocumentTypeResponse, error)
	UpdateDocumentType(ctx context.Context, id string, req *dto.UpdateDocumentTypeRequest, callerID string) (*dto.DocumentTypeResponse, error)
	DeleteDocumentType(ctx context.Context, id string) error

	ListEntries(ctx context.Context, periodID string) ([]dto.ScheduleEntryResponse, error)
	CreateEntry(ctx context.Context, req *dto.CreateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error)
	UpdateEntry(ctx context.Context, id string, req *dto.UpdateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error)
	DeleteEntry(ctx context.Context, id string) error

	// Grouped active entries of a period, sorted and grouped for row-span rendering
	Grouped(ctx context.Context, periodID string) ([]dto.GroupedRow, error)
}

type cronogramaService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewCronogramaService creates a CronogramaService
func NewCronogramaService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) CronogramaService {
	return &cronogramaService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── document types ──────────────────────

func (s *cronogramaService) ListDocumentTypes(ctx context.Context, activeOnly bool) ([]dto.DocumentTypeResponse, error) {
	items, err := s.repo.DocumentType.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("listing document types failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.DocumentTypeResponse, 0, len(items))
	for i := range items {
		out = append(out, toDocumentTypeResponse(&items[i]))
	}
	return out, nil
}

func (s *cronogramaService) CreateDocumentType(ctx context.Context, req *dto.CreateDocumentTypeRequest, callerID string) (*dto.DocumentTypeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.DocumentType.GetByName(ctx, name); err == nil {
		return nil, ErrDocumentTypeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dt := &model.DocumentType{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
	}
	dt.CreatedBy = &callerID

	if err := s.repo.DocumentType.Create(ctx, dt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDocumentTypeExists
		}
		s.logger.Error("creating document type failed", zap.Error(err))
		return nil, err
	}
	resp := toDocumentTypeResponse(dt)
	return &resp, nil
}

func (s *cronogramaService) UpdateDocumentType(ctx context.Context, id string, req *dto.UpdateDocumentTypeRequest, callerID string) (*dto.DocumentTypeResponse, error) {
	dt, err := s.repo.DocumentType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentTypeNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		existing, err := s.repo.DocumentType.GetByName(ctx, name)
		if err == nil && existing.DocumentTypeID != id {
			return nil, ErrDocumentTypeExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		dt.Name = name
	}
	if req.Description != nil {
		dt.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		dt.IsActive = *req.IsActive
	}
	dt.UpdatedBy = &callerID

	if err := s.repo.DocumentType.Update(ctx, dt); err != nil {
		s.logger.Error("updating document type failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toDocumentTypeResponse(dt)
	return &resp, nil
}

func (s *cronogramaService) DeleteDocumentType(ctx context.Context, id string) error {
	if _, err := s.repo.DocumentType.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentTypeNotFound
		}
		return err
	}

	n, err := s.repo.ScheduleEntry.CountByDocumentType(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDocumentTypeInUse
	}

	if err := s.repo.DocumentType.Delete(ctx, id); err != nil {
		s.logger.Error("deleting document type failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── schedule entries ──────────────────────

func (s *cronogramaService) ListEntries(ctx context.Context, periodID string) ([]dto.ScheduleEntryResponse, error) {
	entries, err := s.repo.ScheduleEntry.ListByPeriod(ctx, periodID, false)
	if err != nil {
		s.logger.Error("listing schedule entries failed", zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toScheduleEntryResponse(&entries[i]))
	}
	return out, nil
}

func (s *cronogramaService) parseDueDate(v string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(v), s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func (s *cronogramaService) activeDocumentType(ctx context.Context, id string) (*model.DocumentType, error) {
	dt, err := s.repo.DocumentType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentTypeNotFound
		}
		return nil, err
	}
	if !dt.IsActive {
		return nil, ErrDocumentTypeInactive
	}
	return dt, nil
}

func (s *cronogramaService) CreateEntry(ctx context.Context, req *dto.CreateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error) {
	due, err := s.parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	if _, err := lookupPeriod(ctx, s.repo, req.PeriodID); err != nil {
		return nil, err
	}
	dt, err := s.activeDocumentType(ctx, req.DocumentTypeID)
	if err != nil {
		return nil, err
	}

	e := &model.ScheduleEntry{
		PeriodID:       req.PeriodID,
		DocumentTypeID: dt.DocumentTypeID,
		Description:    strings.TrimSpace(req.Description),
		DueDate:        due,
		IsActive:       true,
		DocumentType:   dt,
	}
	e.CreatedBy = &callerID

	if err := s.repo.ScheduleEntry.Create(ctx, e); err != nil {
		s.logger.Error("creating schedule entry failed", zap.Error(err))
		return nil, err
	}
	resp := toScheduleEntryResponse(e)
	return &resp, nil
}

func (s *cronogramaService) UpdateEntry(ctx context.Context, id string, req *dto.UpdateScheduleEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error) {
	e, err := s.repo.ScheduleEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		return nil, err
	}

	if req.DocumentTypeID != nil && *req.DocumentTypeID != e.DocumentTypeID {
		dt, err := s.activeDocumentType(ctx, *req.DocumentTypeID)
		if err != nil {
			return nil, err
		}
		e.DocumentTypeID = dt.DocumentTypeID
		e.DocumentType = dt
	}
	if req.DueDate != nil {
		due, err := s.parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		e.DueDate = due
	}
	if req.Description != nil {
		e.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	e.UpdatedBy = &callerID

	if err := s.repo.ScheduleEntry.Update(ctx, e); err != nil {
		s.logger.Error("updating schedule entry failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toScheduleEntryResponse(e)
	return &resp, nil
}

func (s *cronogramaService) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.repo.ScheduleEntry.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleEntryNotFound
		}
		return err
	}
	if err := s.repo.ScheduleEntry.Delete(ctx, id); err != nil {
		s.logger.Error("deleting schedule entry failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Grouped ──────────────────────

func (s *cronogramaService) Grouped(ctx context.Context, periodID string) ([]dto.GroupedRow, error) {
	entries, err := s.repo.ScheduleEntry.ListByPeriod(ctx, periodID, true)
	if err != nil {
		s.logger.Error("listing schedule entries failed", zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}
	SortScheduleEntries(entries)
	return GroupScheduleEntries(entries), nil
}

// ── conversion ──

func toDocumentTypeResponse(dt *model.DocumentType) dto.DocumentTypeResponse {
	return dto.DocumentTypeResponse{
		ID:          dt.DocumentTypeID,
		Name:        dt.Name,
		Description: dt.Description,
		IsActive:    dt.IsActive,
	}
}

func toScheduleEntryResponse(e *model.ScheduleEntry) dto.ScheduleEntryResponse {
	resp := dto.ScheduleEntryResponse{
		ID:             e.ScheduleEntryID,
		PeriodID:       e.PeriodID,
		DocumentTypeID: e.DocumentTypeID,
		Description:    e.Description,
		DueDate:        e.DueDate.Format(dateLayout),
		IsActive:       e.IsActive,
	}
	if e.DocumentType != nil {
		resp.DocumentTypeName = e.DocumentType.Name
	}
	return resp
}
