package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF renders the analysis as a PDF with the product header and
// footer. The core fonts only cover Latin-1, so all text is sanitized and
// translated before writing.
func RenderPDF(analysisText, instructions string, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		pdf.SetTextColor(29, 53, 87)
		pdf.CellFormat(0, 10, tr("PIDA-AI: Resumen de Consulta"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr("Generado: "+now.Format("02/01/2006, 15:04:05")), "", 1, "L", false, 0, "")
		pdf.Ln(5)
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, tr("Tu Pregunta"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 8, tr(SanitizeLatin1(instructions)), "", "L", false)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Respuesta", "", 1, "L", false, 0, "")

	for _, block := range ParseMarkdown(SanitizeLatin1(analysisText)) {
		writePDFBlock(pdf, tr, block)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDFBlock(pdf *gofpdf.Fpdf, tr func(string) string, block Block) {
	switch block.Kind {
	case Heading1:
		pdf.SetFont("Arial", "B", 14)
		pdf.Ln(3)
		pdf.MultiCell(0, 8, tr(spanText(block.Spans)), "", "L", false)
	case Heading2:
		pdf.SetFont("Arial", "B", 12)
		pdf.Ln(2)
		pdf.MultiCell(0, 8, tr(spanText(block.Spans)), "", "L", false)
	case BlankLine:
		pdf.Ln(3)
	case ListItem:
		pdf.SetFont("Arial", "", 11)
		pdf.Write(6, "- ")
		writePDFSpans(pdf, tr, block.Spans)
	default:
		writePDFSpans(pdf, tr, block.Spans)
	}
}

func writePDFSpans(pdf *gofpdf.Fpdf, tr func(string) string, spans []Span) {
	for _, s := range spans {
		if s.Bold {
			pdf.SetFont("Arial", "B", 11)
		} else {
			pdf.SetFont("Arial", "", 11)
		}
		pdf.Write(6, tr(s.Text))
	}
	pdf.Ln(6)
}

func spanText(spans []Span) string {
	var text string
	for _, s := range spans {
		text += s.Text
	}
	return text
}

// RenderErrorPDF produces a minimal document for when full rendering fails,
// so the download still completes with something readable.
func RenderErrorPDF(now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "PIDA-AI", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 8, tr("No se pudo generar el documento completo. Intenta exportar de nuevo."), "", "L", false)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering fallback pdf: %w", err)
	}
	return buf.Bytes(), nil
}
