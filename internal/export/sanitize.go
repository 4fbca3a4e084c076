package export

import "strings"

// Typographic characters the model likes to emit, mapped to their closest
// Latin-1-safe equivalents.
var latin1Replacements = map[rune]string{
	'‘': "'",   // left single quote
	'’': "'",   // right single quote
	'‚': "'",   // low single quote
	'“': `"`,   // left double quote
	'”': `"`,   // right double quote
	'„': `"`,   // low double quote
	'–': "-",   // en dash
	'—': "-",   // em dash
	'•': "-",   // bullet
	'●': "-",   // black circle
	'▪': "-",   // black small square
	'…': "...", // ellipsis
	' ': " ",   // no-break space
}

// SanitizeLatin1 rewrites text so every rune fits in Latin-1, which is all
// the PDF core fonts can encode. Known typographic characters get sensible
// replacements; anything else outside the range becomes '?'. The result is a
// fixed point: sanitizing twice changes nothing.
func SanitizeLatin1(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := latin1Replacements[r]; ok {
			b.WriteString(repl)
			continue
		}
		if r <= 'ÿ' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
