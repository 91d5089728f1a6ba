package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sai-tutoria/config"
	"sai-tutoria/internal/dto"
	"sai-tutoria/internal/repository"
)

// ── export module errors ──

var (
	// ErrExportGenerateFail the PDF or workbook could not be produced
	ErrExportGenerateFail = errors.New("no se pudo generar el archivo")
)

// ExportService renders the cronograma of a period as PDF or Excel.
// Both return the file in a buffer plus a suggested filename; the handler sets the headers.
type ExportService interface {
	CronogramaPDF(ctx context.Context, periodID string) (*bytes.Buffer, string, error)
	CronogramaExcel(ctx context.Context, periodID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	header     config.ExportConfig
	repo       *repository.Repository
	cronograma CronogramaService
	now        func() time.Time
	logger     *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(header config.ExportConfig, repo *repository.Repository, cronograma CronogramaService, now func() time.Time, logger *zap.Logger) ExportService {
	if now == nil {
		now = time.Now
	}
	return &exportService{header: header, repo: repo, cronograma: cronograma, now: now, logger: logger}
}

func (s *exportService) load(ctx context.Context, periodID string) (string, []dto.GroupedRow, error) {
	period, err := lookupPeriod(ctx, s.repo, periodID)
	if err != nil {
		return "", nil, err
	}
	rows, err := s.cronograma.Grouped(ctx, periodID)
	if err != nil {
		return "", nil, err
	}
	return period.Name, rows, nil
}

// ────────────────────── PDF ──────────────────────

func (s *exportService) CronogramaPDF(ctx context.Context, periodID string) (*bytes.Buffer, string, error) {
	periodName, rows, err := s.load(ctx, periodID)
	if err != nil {
		return nil, "", err
	}

	header := s.header
	if header.Title == "" {
		header.Title = "Cronograma de entregas"
	}
	header.Title = fmt.Sprintf("%s %s", header.Title, periodName)

	buf := new(bytes.Buffer)
	pages, err := RenderCronogramaPDF(buf, rows, PDFOptions{Header: header, GeneratedAt: s.now()})
	if err != nil {
		s.logger.Error("rendering cronograma pdf failed", zap.String("period_id", periodID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("cronograma pdf exported",
		zap.String("period_id", periodID),
		zap.Int("rows", len(rows)),
		zap.Int("pages", pages),
	)
	return buf, exportFilename(periodName, "pdf"), nil
}

// ────────────────────── Excel ──────────────────────

const cronogramaSheet = "Cronograma"

func (s *exportService) CronogramaExcel(ctx context.Context, periodID string) (*bytes.Buffer, string, error) {
	periodName, rows, err := s.load(ctx, periodID)
	if err != nil {
		return nil, "", err
	}

	buf, err := writeCronogramaExcel(rows, s.header, periodName)
	if err != nil {
		s.logger.Error("writing cronograma xlsx failed", zap.String("period_id", periodID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, exportFilename(periodName, "xlsx"), nil
}

// writeCronogramaExcel lays the rows out on one sheet: a title row, a header
// row and one row per entry, with the date cell of every group merged down.
func writeCronogramaExcel(rows []dto.GroupedRow, header config.ExportConfig, periodName string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(cronogramaSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: cronogramaSheet}
	w.width("A", 28)
	w.width("B", 60)

	titleStyle := w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13, Color: "#C8102E"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle := w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F5F5F5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    gridBorder(),
	})
	dateStyle := w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#C8102E"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    gridBorder(),
	})
	bodyStyle := w.newStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    gridBorder(),
	})

	title := strings.TrimSpace(fmt.Sprintf("%s %s", header.Title, periodName))
	if header.Title == "" {
		title = "Cronograma de entregas " + periodName
	}
	w.value("A1", title)
	w.merge("A1", "B1")
	w.style("A1", "B1", titleStyle)

	row := 2
	w.value(cell(colName(0), row), "Fecha de entrega")
	w.value(cell(colName(1), row), "Documentos a presentar")
	w.style(cell("A", row), cell("B", row), headerStyle)

	row = 3
	if len(rows) == 0 {
		w.value(cell("A", row), "No hay entregas registradas para este período")
		w.merge(cell("A", row), cell("B", row))
		w.style(cell("A", row), cell("B", row), bodyStyle)
	}

	for i := range rows {
		r := &rows[i]
		w.value(cell("B", row), documentLabel(r))
		w.style(cell("B", row), cell("B", row), bodyStyle)

		if r.IsFirstInGroup {
			w.value(cell("A", row), r.DateLabel)
			end := row + r.GroupSize - 1
			if end > row {
				w.merge(cell("A", row), cell("A", end))
			}
			w.style(cell("A", row), cell("A", end), dateStyle)
		}
		row++
	}
	if w.err != nil {
		return nil, w.err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── helpers ──

// sheetWriter keeps the first excelize error; later calls become no-ops
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}

func (w *sheetWriter) newStyle(style *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(style)
	w.err = err
	return id
}

func (w *sheetWriter) value(axis string, v interface{}) {
	if w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, axis, v)
	}
}

func (w *sheetWriter) merge(from, to string) {
	if w.err == nil {
		w.err = w.f.MergeCell(w.sheet, from, to)
	}
}

func (w *sheetWriter) style(from, to string, styleID int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
	}
}

func gridBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#C8C8C8", Style: 1},
		{Type: "right", Color: "#C8C8C8", Style: 1},
		{Type: "top", Color: "#C8C8C8", Style: 1},
		{Type: "bottom", Color: "#C8C8C8", Style: 1},
	}
}

func exportFilename(periodName, ext string) string {
	name := strings.Join(strings.Fields(periodName), "_")
	if name == "" {
		name = "periodo"
	}
	return fmt.Sprintf("cronograma_%s.%s", name, ext)
}

// colName zero-based column index to letters
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
