package export

import (
	"regexp"
	"strings"
)

// BlockKind classifies a line of the model's Markdown output for document
// rendering. The model is prompted toward a small dialect (headings, bold,
// dashed lists), so a line-oriented parse is enough.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading1
	Heading2
	ListItem
	BlankLine
)

// Span is a run of text with uniform styling.
type Span struct {
	Text string
	Bold bool
}

// Block is one parsed line.
type Block struct {
	Kind  BlockKind
	Spans []Span
}

var boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)

// ParseMarkdown splits the analysis text into render-ready blocks.
func ParseMarkdown(text string) []Block {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: Heading2, Spans: []Span{{Text: strings.TrimPrefix(line, "## ")}}})
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, Block{Kind: Heading1, Spans: []Span{{Text: strings.TrimPrefix(line, "# ")}}})
		case strings.TrimSpace(line) == "":
			blocks = append(blocks, Block{Kind: BlankLine})
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			blocks = append(blocks, Block{Kind: ListItem, Spans: parseSpans(line[2:])})
		default:
			blocks = append(blocks, Block{Kind: Paragraph, Spans: parseSpans(line)})
		}
	}
	return blocks
}

// parseSpans splits a line on **bold** markers. Unterminated markers are
// left in the text as-is.
func parseSpans(line string) []Span {
	var spans []Span
	last := 0
	for _, m := range boldRe.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > last {
			spans = append(spans, Span{Text: line[last:m[0]]})
		}
		spans = append(spans, Span{Text: line[m[2]:m[3]], Bold: true})
		last = m[1]
	}
	if last < len(line) {
		spans = append(spans, Span{Text: line[last:]})
	}
	if spans == nil {
		spans = []Span{{Text: ""}}
	}
	return spans
}
