package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sai-tutoria/config"
	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
	"sai-tutoria/internal/repository"
)

// ── document module errors ──

var (
	ErrFileRequired      = fmt.Errorf("%w: debe adjuntar un archivo", ErrValidation)
	ErrFileTooLarge      = fmt.Errorf("%w: el archivo supera el tamaño máximo permitido", ErrValidation)
	ErrFileNotPDF        = fmt.Errorf("%w: solo se admiten archivos PDF", ErrValidation)
	ErrScheduleNotActive = fmt.Errorf("%w: la entrega no está activa en el cronograma", ErrValidation)
	ErrStoreFileFail     = errors.New("no se pudo guardar el archivo")
)

const pdfMIME = "application/pdf"

// FileUpload the uploaded file as received by the handler
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// DocumentService annex PDFs uploaded by teachers against cronograma entries
type DocumentService interface {
	Upload(ctx context.Context, form *dto.UploadDocumentForm, file *FileUpload, actor Actor) (*dto.DocumentResponse, error)
	List(ctx context.Context, req *dto.DocumentListRequest, actor Actor) ([]dto.DocumentResponse, int64, error)
}

type documentService struct {
	cfg    *config.StorageConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDocumentService creates a DocumentService storing files under cfg.UploadDir
func NewDocumentService(cfg *config.StorageConfig, repo *repository.Repository, logger *zap.Logger) DocumentService {
	return &documentService{cfg: cfg, repo: repo, logger: logger}
}

func (s *documentService) maxBytes() int64 {
	mb := s.cfg.MaxUploadMB
	if mb <= 0 {
		mb = 10
	}
	return mb << 20
}

// ────────────────────── Upload ──────────────────────

func (s *documentService) Upload(ctx context.Context, form *dto.UploadDocumentForm, file *FileUpload, actor Actor) (*dto.DocumentResponse, error) {
	if actor.TeacherID == "" {
		return nil, ErrNotTeacherUser
	}
	if file == nil || file.Content == nil || file.Size == 0 {
		return nil, ErrFileRequired
	}
	limit := s.maxBytes()
	if file.Size > limit {
		return nil, ErrFileTooLarge
	}

	entry, err := s.repo.ScheduleEntry.GetByID(ctx, form.ScheduleEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		return nil, err
	}
	if !entry.IsActive {
		return nil, ErrScheduleNotActive
	}

	teaches, err := s.repo.Reference.TeachesSubject(ctx, actor.TeacherID, form.SubjectID, form.SectionID, form.SemesterPeriodID)
	if err != nil {
		return nil, err
	}
	if !teaches {
		return nil, ErrNoPermission
	}

	// the declared size is not trusted; read at most limit+1 bytes
	data, err := io.ReadAll(io.LimitReader(file.Content, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrFileRequired
	}
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		s.logger.Info("rejected upload",
			zap.String("teacher_id", actor.TeacherID),
			zap.String("detected", mt.String()),
		)
		return nil, ErrFileNotPDF
	}

	storedName := uuid.NewString() + ".pdf"
	if err := s.store(storedName, data); err != nil {
		s.logger.Error("storing upload failed", zap.String("name", storedName), zap.Error(err))
		return nil, ErrStoreFileFail
	}

	doc := &model.ReportDocument{
		ScheduleEntryID:  entry.ScheduleEntryID,
		TeacherID:        actor.TeacherID,
		SubjectID:        form.SubjectID,
		SectionID:        form.SectionID,
		SemesterPeriodID: form.SemesterPeriodID,
		OriginalName:     filepath.Base(file.Name),
		StoredName:       storedName,
		ContentType:      pdfMIME,
		SizeBytes:        int64(len(data)),
		CreatedBy:        &actor.UserID,
		ScheduleEntry:    entry,
	}
	if err := s.repo.ReportDocument.Create(ctx, doc); err != nil {
		_ = os.Remove(filepath.Join(s.cfg.UploadDir, storedName))
		s.logger.Error("saving report document failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("report document uploaded",
		zap.String("document_id", doc.ReportDocumentID),
		zap.String("teacher_id", actor.TeacherID),
		zap.Int("bytes", len(data)),
	)
	resp := toDocumentResponse(doc)
	return &resp, nil
}

// store writes to a temp file in the upload dir and renames it into place
func (s *documentService) store(name string, data []byte) error {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.cfg.UploadDir, ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.cfg.UploadDir, name))
}

// ────────────────────── List ──────────────────────

func (s *documentService) List(ctx context.Context, req *dto.DocumentListRequest, actor Actor) ([]dto.DocumentResponse, int64, error) {
	if actor.TeacherID == "" {
		return nil, 0, ErrNotTeacherUser
	}
	docs, total, err := s.repo.ReportDocument.ListByTeacher(ctx, actor.TeacherID, req.SemesterPeriodID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("listing report documents failed", zap.String("teacher_id", actor.TeacherID), zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}
	return out, total, nil
}

func toDocumentResponse(d *model.ReportDocument) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:               d.ReportDocumentID,
		ScheduleEntryID:  d.ScheduleEntryID,
		SubjectID:        d.SubjectID,
		SectionID:        d.SectionID,
		SemesterPeriodID: d.SemesterPeriodID,
		OriginalName:     d.OriginalName,
		ContentType:      d.ContentType,
		SizeBytes:        d.SizeBytes,
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
	}
	if d.ScheduleEntry != nil && d.ScheduleEntry.DocumentType != nil {
		resp.DocumentTypeName = d.ScheduleEntry.DocumentType.Name
	}
	if d.Subject != nil {
		resp.SubjectName = d.Subject.Name
	}
	return resp
}
