package config

import "testing"

func TestParseJSONList(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"normalizes entries", `[" ONG.org ", "Admin@Example.com"]`, []string{"ong.org", "admin@example.com"}},
		{"empty array", `[]`, nil},
		{"drops blank entries", `["", "  "]`, nil},
		{"malformed fails closed", `not-json`, nil},
		{"wrong type fails closed", `{"a":1}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseJSONList(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("parseJSONList(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("entry %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestAllowlistMalformedGrantsNothing(t *testing.T) {
	cfg := &Config{AdminDomains: `{"broken"`, AdminEmails: `["VIP@Example.com"]`}
	domains, emails := cfg.Allowlist()
	if len(domains) != 0 {
		t.Errorf("malformed domain list must yield an empty set, got %v", domains)
	}
	if _, ok := emails["vip@example.com"]; !ok {
		t.Errorf("expected normalized email in set, got %v", emails)
	}
}

func TestOriginsFallsBack(t *testing.T) {
	cfg := &Config{AllowedOrigins: `broken`}
	origins := cfg.Origins()
	if len(origins) != 1 || origins[0] != "https://pida-ai.com" {
		t.Errorf("expected production fallback origin, got %v", origins)
	}
}

func TestPlanLimitsTable(t *testing.T) {
	cfg := &Config{
		DailyLimitBasico: 3, MaxDocsBasico: 1,
		DailyLimitAvanzado: 10, MaxDocsAvanzado: 2,
		DailyLimitPremium: 30, MaxDocsPremium: 3,
	}
	table := cfg.PlanLimits()

	if l := table["vip"]; l.DailyAnalyses != -1 || l.MaxDocumentsPerRequest != -1 {
		t.Errorf("vip must be unlimited, got %+v", l)
	}
	if l := table["none"]; l.DailyAnalyses != 0 || l.MaxDocumentsPerRequest != 0 {
		t.Errorf("none must deny everything, got %+v", l)
	}
	if l := table["basico"]; l.DailyAnalyses != 3 || l.MaxDocumentsPerRequest != 1 {
		t.Errorf("unexpected basico limits %+v", l)
	}
}
