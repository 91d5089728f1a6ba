package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sai-tutoria/config"
	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/model"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type documentFixture struct {
	svc   DocumentService
	repos *testRepos
	dir   string
}

func setupDocumentService(t *testing.T, maxMB int64) *documentFixture {
	t.Helper()
	repos := newTestRepos()
	seedAcademic(repos)
	ctx := context.Background()
	_ = repos.docType.Create(ctx, &model.DocumentType{DocumentTypeID: "dt-1", Name: "Anexo 4", IsActive: true})
	_ = repos.entry.Create(ctx, &model.ScheduleEntry{ScheduleEntryID: "entry-1", PeriodID: fxPeriod, DocumentTypeID: "dt-1", IsActive: true})
	_ = repos.entry.Create(ctx, &model.ScheduleEntry{ScheduleEntryID: "entry-off", PeriodID: fxPeriod, DocumentTypeID: "dt-1", IsActive: false})

	dir := t.TempDir()
	svc := NewDocumentService(&config.StorageConfig{UploadDir: dir, MaxUploadMB: maxMB}, repos.toRepository(), zap.NewNop())
	return &documentFixture{svc: svc, repos: repos, dir: dir}
}

func uploadForm(entryID string) *dto.UploadDocumentForm {
	return &dto.UploadDocumentForm{
		ScheduleEntryID:  entryID,
		SubjectID:        fxSubject,
		SectionID:        fxSection,
		SemesterPeriodID: fxLevel,
	}
}

func fileOf(name string, data []byte) *FileUpload {
	return &FileUpload{Name: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDocumentService_Upload_PDF(t *testing.T) {
	fx := setupDocumentService(t, 1)

	doc, err := fx.svc.Upload(context.Background(), uploadForm("entry-1"), fileOf("../../anexo4.pdf", samplePDF), teacherActor)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if doc.OriginalName != "anexo4.pdf" || doc.ContentType != "application/pdf" || doc.SizeBytes != int64(len(samplePDF)) {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.DocumentTypeName != "Anexo 4" {
		t.Errorf("document type not resolved: %q", doc.DocumentTypeName)
	}

	files := storedFiles(t, fx.dir)
	if len(files) != 1 || !strings.HasSuffix(files[0], ".pdf") {
		t.Fatalf("expected one stored pdf, got %v", files)
	}
	got, _ := os.ReadFile(filepath.Join(fx.dir, files[0]))
	if !bytes.Equal(got, samplePDF) {
		t.Error("stored content differs from the upload")
	}
}

func TestDocumentService_Upload_Rejections(t *testing.T) {
	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("0"), 1<<20)...)

	tests := []struct {
		name    string
		entry   string
		file    *FileUpload
		actor   Actor
		wantErr error
	}{
		{"not a teacher", "entry-1", fileOf("a.pdf", samplePDF), coordActor, ErrNotTeacherUser},
		{"no file", "entry-1", nil, teacherActor, ErrFileRequired},
		{"declared too large", "entry-1", &FileUpload{Name: "a.pdf", Size: 2 << 20, Content: bytes.NewReader(samplePDF)}, teacherActor, ErrFileTooLarge},
		{"actual too large", "entry-1", &FileUpload{Name: "a.pdf", Size: 10, Content: bytes.NewReader(big)}, teacherActor, ErrFileTooLarge},
		{"renamed text file", "entry-1", fileOf("notas.pdf", []byte("solo texto, no es un pdf")), teacherActor, ErrFileNotPDF},
		{"zip archive", "entry-1", fileOf("a.pdf", []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00")), teacherActor, ErrFileNotPDF},
		{"unknown entry", "missing", fileOf("a.pdf", samplePDF), teacherActor, ErrScheduleEntryNotFound},
		{"inactive entry", "entry-off", fileOf("a.pdf", samplePDF), teacherActor, ErrScheduleNotActive},
		{"not teaching the subject", "entry-1", fileOf("a.pdf", samplePDF), otherTeacher, ErrNoPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := setupDocumentService(t, 1)
			_, err := fx.svc.Upload(context.Background(), uploadForm(tt.entry), tt.file, tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if files := storedFiles(t, fx.dir); len(files) != 0 {
				t.Errorf("nothing should be stored, got %v", files)
			}
			if len(fx.repos.report.docs) != 0 {
				t.Error("nothing should be persisted")
			}
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	fx := setupDocumentService(t, 0)
	ctx := context.Background()

	for _, name := range []string{"uno.pdf", "dos.pdf"} {
		if _, err := fx.svc.Upload(ctx, uploadForm("entry-1"), fileOf(name, samplePDF), teacherActor); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
	}

	docs, total, err := fx.svc.List(ctx, &dto.DocumentListRequest{}, teacherActor)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || docs[0].OriginalName != "dos.pdf" {
		t.Errorf("expected newest first, got %+v", docs)
	}

	others, total, _ := fx.svc.List(ctx, &dto.DocumentListRequest{}, otherTeacher)
	if total != 0 || len(others) != 0 {
		t.Errorf("another teacher must not see these uploads: %+v", others)
	}

	if _, _, err := fx.svc.List(ctx, &dto.DocumentListRequest{}, coordActor); !errors.Is(err, ErrNotTeacherUser) {
		t.Errorf("expected ErrNotTeacherUser, got %v", err)
	}
}
