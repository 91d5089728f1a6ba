package service

import (
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"sai-tutoria/config"
	"sai-tutoria/internal/dto"
)

// page geometry, mm on A4 portrait
const (
	pdfPageW      = 210.0
	pdfMarginX    = 25.0
	pdfTableW     = pdfPageW - 2*pdfMarginX
	pdfDateColW   = 55.0
	pdfDocColW    = pdfTableW - pdfDateColW
	pdfFirstTop   = 58.0 // below the institutional header
	pdfTop        = 20.0
	pdfBottom     = 274.0 // above the footer rule at 280
	pdfHeaderRowH = 12.0
	pdfCellPad    = 4.0
	pdfLineH      = 5.0
)

var (
	pdfRed    = [3]int{200, 16, 46}
	pdfBorder = [3]int{200, 200, 200}
	pdfHeadBg = [3]int{245, 245, 245}
	pdfMuted  = [3]int{120, 120, 120}
)

// PDFOptions header lines and the "generated on" stamp
type PDFOptions struct {
	Header      config.ExportConfig
	GeneratedAt time.Time
}

// ── layout ──

type placedRow struct {
	page int
	y, h float64
	text string
}

type mergedCell struct {
	page  int
	y, h  float64
	label string
}

type tablePlan struct {
	rows   []placedRow
	merged []mergedCell
	pages  int
}

// planTable positions the body rows on pages. A group is moved whole to the
// next page when it does not fit on the current one but fits on an empty page;
// a longer group is split and each page gets its own merged date cell.
func planTable(rows []dto.GroupedRow, heights []float64) tablePlan {
	plan := tablePlan{pages: 1}
	bodyTop := func(page int) float64 {
		if page == 1 {
			return pdfFirstTop + pdfHeaderRowH
		}
		return pdfTop + pdfHeaderRowH
	}
	y := bodyTop(1)

	for i := 0; i < len(rows); {
		size := rows[i].GroupSize
		if size < 1 {
			size = 1
		}
		if i+size > len(rows) {
			size = len(rows) - i
		}

		groupH := 0.0
		for k := 0; k < size; k++ {
			groupH += heights[i+k]
		}
		if y+groupH > pdfBottom && y > bodyTop(plan.pages) && groupH <= pdfBottom-bodyTop(2) {
			plan.pages++
			y = bodyTop(plan.pages)
		}

		chunkY, chunkH := y, 0.0
		for k := 0; k < size; k++ {
			h := heights[i+k]
			if y+h > pdfBottom && y > bodyTop(plan.pages) {
				plan.merged = append(plan.merged, mergedCell{page: plan.pages, y: chunkY, h: chunkH, label: rows[i].DateLabel})
				plan.pages++
				y = bodyTop(plan.pages)
				chunkY, chunkH = y, 0
			}
			plan.rows = append(plan.rows, placedRow{page: plan.pages, y: y, h: h, text: documentLabel(&rows[i+k])})
			y += h
			chunkH += h
		}
		plan.merged = append(plan.merged, mergedCell{page: plan.pages, y: chunkY, h: chunkH, label: rows[i].DateLabel})
		i += size
	}
	return plan
}

// ── rendering ──

// RenderCronogramaPDF writes the cronograma table as a PDF and returns the
// number of pages. The date column of each group is painted as one merged
// cell over the rows of the group. Output depends only on rows and opts.
func RenderCronogramaPDF(w io.Writer, rows []dto.GroupedRow, opts PDFOptions) (int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginX, pdfTop, pdfMarginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(opts.GeneratedAt)
	pdf.SetModificationDate(opts.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(opts.Header.Title, true)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	stamp := "Generado el " + FormatSpanishDate(opts.GeneratedAt)
	pdf.SetFooterFunc(func() {
		pdf.SetDrawColor(pdfBorder[0], pdfBorder[1], pdfBorder[2])
		pdf.SetLineWidth(0.2)
		pdf.Line(15, 280, 195, 280)

		pdf.SetTextColor(pdfMuted[0], pdfMuted[1], pdfMuted[2])
		pdf.SetFont("Helvetica", "I", 8)
		textCentered(pdf, tr(stamp), pdfPageW/2, 285)
		pdf.SetFont("Helvetica", "", 8)
		page := tr("Página ") + strconv.Itoa(pdf.PageNo()) + " de {nb}"
		pdf.Text(190-pdf.GetStringWidth(page), 285, page)
	})

	// measure with the body font
	pdf.SetFont("Helvetica", "", 10)
	if len(rows) == 0 {
		rows = []dto.GroupedRow{{
			DateLabel:        "-",
			DocumentTypeName: "No hay entregas registradas para este período",
			IsFirstInGroup:   true,
			GroupSize:        1,
		}}
	}
	heights := make([]float64, len(rows))
	for i := range rows {
		n := len(pdf.SplitText(tr(documentLabel(&rows[i])), pdfDocColW-2*pdfCellPad))
		if rows[i].IsFirstInGroup && rows[i].GroupSize <= 1 {
			if d := len(pdf.SplitText(tr(rows[i].DateLabel), pdfDateColW-2*pdfCellPad)); d > n {
				n = d
			}
		}
		if n < 1 {
			n = 1
		}
		heights[i] = float64(n)*pdfLineH + 2*pdfCellPad
	}

	plan := planTable(rows, heights)
	ri, mi := 0, 0
	for page := 1; page <= plan.pages; page++ {
		pdf.AddPage()
		top := pdfTop
		if page == 1 {
			drawInstitutionalHeader(pdf, tr, opts.Header)
			top = pdfFirstTop
		}
		drawTableHeader(pdf, top)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetDrawColor(pdfBorder[0], pdfBorder[1], pdfBorder[2])
		pdf.SetLineWidth(0.3)

		// document cells; the date column is left blank here
		for ; ri < len(plan.rows) && plan.rows[ri].page == page; ri++ {
			r := plan.rows[ri]
			pdf.Rect(pdfMarginX+pdfDateColW, r.y, pdfDocColW, r.h, "D")
			drawLinesCentered(pdf, pdf.SplitText(tr(r.text), pdfDocColW-2*pdfCellPad), pdfMarginX+pdfDateColW, r.y, pdfDocColW, r.h)
		}

		// merged date cells over the union of each group's rows
		pdf.SetFillColor(255, 255, 255)
		for ; mi < len(plan.merged) && plan.merged[mi].page == page; mi++ {
			m := plan.merged[mi]
			pdf.Rect(pdfMarginX, m.y, pdfDateColW, m.h, "FD")
			drawLinesCentered(pdf, pdf.SplitText(tr(m.label), pdfDateColW-2*pdfCellPad), pdfMarginX, m.y, pdfDateColW, m.h)
		}
	}

	if err := pdf.Output(w); err != nil {
		return 0, err
	}
	return plan.pages, nil
}

func drawInstitutionalHeader(pdf *gofpdf.Fpdf, tr func(string) string, h config.ExportConfig) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	textCentered(pdf, tr(h.Institution), pdfPageW/2, 18)

	pdf.SetFont("Helvetica", "", 8.5)
	textCentered(pdf, tr(h.Faculty), pdfPageW/2, 24)
	textCentered(pdf, tr(h.School), pdfPageW/2, 29)

	pdf.SetDrawColor(pdfBorder[0], pdfBorder[1], pdfBorder[2])
	pdf.SetLineWidth(0.3)
	pdf.Line(15, 38, 195, 38)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(pdfRed[0], pdfRed[1], pdfRed[2])
	pdf.SetXY(20, 44)
	pdf.MultiCell(170, 5.5, tr(h.Title), "", "C", false)
}

func drawTableHeader(pdf *gofpdf.Fpdf, y float64) {
	pdf.SetFont("Helvetica", "B", 10.5)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(pdfHeadBg[0], pdfHeadBg[1], pdfHeadBg[2])
	pdf.SetDrawColor(pdfBorder[0], pdfBorder[1], pdfBorder[2])
	pdf.SetLineWidth(0.3)

	pdf.SetXY(pdfMarginX, y)
	pdf.CellFormat(pdfDateColW, pdfHeaderRowH, "Fecha de entrega", "1", 0, "CM", true, 0, "")
	pdf.CellFormat(pdfDocColW, pdfHeaderRowH, "Documentos a presentar", "1", 0, "CM", true, 0, "")
}

// drawLinesCentered centers lines horizontally and vertically in the box
func drawLinesCentered(pdf *gofpdf.Fpdf, lines []string, x, y, w, h float64) {
	startY := y + (h-float64(len(lines))*pdfLineH)/2
	for i, line := range lines {
		pdf.SetXY(x+pdfCellPad, startY+float64(i)*pdfLineH)
		pdf.CellFormat(w-2*pdfCellPad, pdfLineH, line, "", 0, "CM", false, 0, "")
	}
}

func textCentered(pdf *gofpdf.Fpdf, s string, cx, y float64) {
	if s == "" {
		return
	}
	pdf.Text(cx-pdf.GetStringWidth(s)/2, y, s)
}
