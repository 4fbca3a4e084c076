package export

import "testing"

func TestSanitizeLatin1Replacements(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"“citas” y ‘comillas’", `"citas" y 'comillas'`},
		{"rango 1–5 — nota", "rango 1-5 - nota"},
		{"• punto y más…", "- punto y más..."},
		{"acentos áéíóúñ¿¡ intactos", "acentos áéíóúñ¿¡ intactos"},
		{"emoji ✓ fuera", "emoji ? fuera"},
	}
	for _, tc := range cases {
		if got := SanitizeLatin1(tc.in); got != tc.want {
			t.Errorf("SanitizeLatin1(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeLatin1Idempotent(t *testing.T) {
	in := "“texto” con – rarezas • y ✓ símbolos…"
	once := SanitizeLatin1(in)
	twice := SanitizeLatin1(once)
	if once != twice {
		t.Errorf("sanitizing twice changed the output: %q vs %q", once, twice)
	}
}
