package export

import (
	"testing"
	"time"
)

func TestParseMarkdownBlocks(t *testing.T) {
	text := "## Resumen Ejecutivo\n" +
		"Un párrafo con **énfasis** al medio.\n" +
		"\n" +
		"- primer punto\n" +
		"* segundo **punto**\n" +
		"# Título"
	blocks := ParseMarkdown(text)
	if len(blocks) != 6 {
		t.Fatalf("expected 6 blocks, got %d: %+v", len(blocks), blocks)
	}

	if blocks[0].Kind != Heading2 || blocks[0].Spans[0].Text != "Resumen Ejecutivo" {
		t.Errorf("unexpected heading block: %+v", blocks[0])
	}
	if blocks[1].Kind != Paragraph {
		t.Errorf("expected paragraph, got %+v", blocks[1])
	}
	spans := blocks[1].Spans
	if len(spans) != 3 || spans[0].Bold || !spans[1].Bold || spans[1].Text != "énfasis" || spans[2].Bold {
		t.Errorf("unexpected spans: %+v", spans)
	}
	if blocks[2].Kind != BlankLine {
		t.Errorf("expected blank line, got %+v", blocks[2])
	}
	if blocks[3].Kind != ListItem || blocks[3].Spans[0].Text != "primer punto" {
		t.Errorf("unexpected list item: %+v", blocks[3])
	}
	if blocks[4].Kind != ListItem || !blocks[4].Spans[1].Bold {
		t.Errorf("expected bold span in list item: %+v", blocks[4])
	}
	if blocks[5].Kind != Heading1 || blocks[5].Spans[0].Text != "Título" {
		t.Errorf("unexpected h1 block: %+v", blocks[5])
	}
}

func TestParseSpansUnterminatedBold(t *testing.T) {
	spans := parseSpans("texto **sin cierre")
	if len(spans) != 1 || spans[0].Bold {
		t.Errorf("unterminated markers must stay literal: %+v", spans)
	}
	if spans[0].Text != "texto **sin cierre" {
		t.Errorf("unexpected text %q", spans[0].Text)
	}
}

func TestRenderersProduceOutput(t *testing.T) {
	text := "## Resumen\nTexto con **negritas** y acentos áéí.\n- punto uno"
	now := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)

	pdf, err := RenderPDF(text, "¿Cuáles son los plazos?", now)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if len(pdf) == 0 || string(pdf[:4]) != "%PDF" {
		t.Error("expected a PDF header in the output")
	}

	docxData, err := RenderDOCX(text, "¿Cuáles son los plazos?", now)
	if err != nil {
		t.Fatalf("RenderDOCX failed: %v", err)
	}
	// DOCX files are zip archives.
	if len(docxData) < 2 || docxData[0] != 'P' || docxData[1] != 'K' {
		t.Error("expected a zip signature in the DOCX output")
	}
}
