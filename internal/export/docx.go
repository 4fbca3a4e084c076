package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fumiama/go-docx"
)

// Half-point font sizes for the DOCX renderer.
const (
	docxSizeTitle    = "30"
	docxSizeHeading1 = "32"
	docxSizeHeading2 = "26"
	docxSizeMeta     = "20"
)

// RenderDOCX renders the analysis as a Word document mirroring the PDF
// layout. DOCX carries full Unicode, so no sanitizing happens here.
func RenderDOCX(analysisText, instructions string, now time.Time) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph()
	title.AddText("PIDA-AI: Resumen de Consulta").Size(docxSizeTitle).Bold().Color("1D3557")
	meta := w.AddParagraph()
	meta.AddText("Generado: " + now.Format("02/01/2006, 15:04:05")).Size(docxSizeMeta).Color("808080")
	w.AddParagraph()

	q := w.AddParagraph()
	q.AddText("Tu Pregunta").Size(docxSizeHeading2).Bold()
	w.AddParagraph().AddText(instructions)
	w.AddParagraph()

	a := w.AddParagraph()
	a.AddText("Respuesta de PIDA-AI").Size(docxSizeHeading2).Bold()

	for _, block := range ParseMarkdown(analysisText) {
		writeDocxBlock(w, block)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("rendering docx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDocxBlock(w *docx.Docx, block Block) {
	switch block.Kind {
	case Heading1:
		p := w.AddParagraph()
		p.AddText(spanText(block.Spans)).Size(docxSizeHeading1).Bold()
	case Heading2:
		p := w.AddParagraph()
		p.AddText(spanText(block.Spans)).Size(docxSizeHeading2).Bold()
	case BlankLine:
		w.AddParagraph()
	case ListItem:
		p := w.AddParagraph()
		p.AddText("• ")
		writeDocxSpans(p, block.Spans)
	default:
		writeDocxSpans(w.AddParagraph(), block.Spans)
	}
}

func writeDocxSpans(p *docx.Paragraph, spans []Span) {
	for _, s := range spans {
		run := p.AddText(s.Text)
		if s.Bold {
			run.Bold()
		}
	}
}

// RenderErrorDOCX is the DOCX counterpart of RenderErrorPDF.
func RenderErrorDOCX(now time.Time) ([]byte, error) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("PIDA-AI").Bold()
	w.AddParagraph().AddText("No se pudo generar el documento completo. Intenta exportar de nuevo.")
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("rendering fallback docx: %w", err)
	}
	return buf.Bytes(), nil
}
