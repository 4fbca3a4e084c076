package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const fallbackBaseName = "Analisis"

// DeriveFilename builds a download filename from the user's instructions:
// the first 40 characters reduced to filename-safe runes, underscores for
// spaces, plus a timestamp and the format extension.
func DeriveFilename(instructions, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", baseName(instructions), now.Format("2006-01-02_150405"), ext)
}

// baseName keeps letters (including the Latin-1 accented range), digits,
// underscores and spaces; everything else is dropped. Runs of spaces
// collapse to a single underscore. An empty result falls back to a generic
// name.
func baseName(instructions string) string {
	runes := []rune(strings.TrimSpace(instructions))
	if len(runes) > 40 {
		runes = runes[:40]
	}

	var b strings.Builder
	for _, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == ' ':
			b.WriteRune(r)
		case r <= 'ÿ' && unicode.IsLetter(r):
			b.WriteRune(r)
		}
	}

	name := strings.Join(strings.Fields(b.String()), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return fallbackBaseName
	}
	return name
}
