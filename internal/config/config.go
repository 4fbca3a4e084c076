package config

import (
	"encoding/json"
	"strings"

	"app/internal/model"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`

	// JSON arrays. Malformed values are treated as empty lists, never a crash.
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"[\"https://pida-ai.com\"]"`
	AdminDomains   string `envconfig:"ADMIN_DOMAINS" default:"[]"`
	AdminEmails    string `envconfig:"ADMIN_EMAILS" default:"[]"`

	// Identity verification. FirebaseProjectID selects the Google ID-token
	// verifier; AuthJWTSecret selects the shared-secret verifier for local
	// development.
	FirebaseProjectID string `envconfig:"FIREBASE_PROJECT_ID"`
	AuthJWTSecret     string `envconfig:"AUTH_JWT_SECRET"`

	// Gemini. The API key may come from the environment or from a Secret
	// Manager secret; having neither is a fatal startup error.
	GeminiAPIKey          string  `envconfig:"GEMINI_API_KEY"`
	GeminiAPIKeySecret    string  `envconfig:"GEMINI_API_KEY_SECRET"`
	GeminiModel           string  `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash-001"`
	GeminiTemperature     float64 `envconfig:"GEMINI_TEMPERATURE" default:"0.3"`
	GeminiTopP            float64 `envconfig:"GEMINI_TOP_P" default:"0.95"`
	GeminiMaxOutputTokens int     `envconfig:"GEMINI_MAX_OUTPUT_TOKENS" default:"8192"`

	MaxUploadMB int64 `envconfig:"MAX_UPLOAD_MB" default:"20"`

	// Per-plan ceilings; -1 means unlimited.
	DailyLimitBasico   int `envconfig:"DAILY_LIMIT_BASICO" default:"3"`
	DailyLimitAvanzado int `envconfig:"DAILY_LIMIT_AVANZADO" default:"10"`
	DailyLimitPremium  int `envconfig:"DAILY_LIMIT_PREMIUM" default:"30"`
	MaxDocsBasico      int `envconfig:"MAX_DOCS_BASICO" default:"1"`
	MaxDocsAvanzado    int `envconfig:"MAX_DOCS_AVANZADO" default:"2"`
	MaxDocsPremium     int `envconfig:"MAX_DOCS_PREMIUM" default:"3"`

	RenderWorkers int `envconfig:"RENDER_WORKERS" default:"4"`

	// GCP. Pub/Sub publishing is disabled when the project ID is empty.
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubUsageTopic   string `envconfig:"PUBSUB_USAGE_TOPIC" default:"analysis-events"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`

	// S3-compatible storage for archiving source documents. Optional; the
	// archive step is skipped when the bucket is empty.
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parseJSONList decodes a JSON string array, trimming and lowercasing each
// entry. A parse failure yields an empty list: the allow-lists must fail
// closed, denying elevated access rather than granting it.
func parseJSONList(raw string) []string {
	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Allowlist returns the normalized admin domain and email sets.
func (c *Config) Allowlist() (domains, emails map[string]struct{}) {
	domains = make(map[string]struct{})
	emails = make(map[string]struct{})
	for _, d := range parseJSONList(c.AdminDomains) {
		domains[d] = struct{}{}
	}
	for _, e := range parseJSONList(c.AdminEmails) {
		emails[e] = struct{}{}
	}
	return domains, emails
}

// Origins returns the allowed CORS origins. A malformed value falls back to
// the production frontend origin.
func (c *Config) Origins() []string {
	origins := parseJSONList(c.AllowedOrigins)
	if len(origins) == 0 {
		return []string{"https://pida-ai.com"}
	}
	return origins
}

// PlanLimits builds the static limits table from the environment overrides.
// vip is unconditionally unlimited on both axes and none denies everything.
func (c *Config) PlanLimits() model.LimitsTable {
	return model.LimitsTable{
		model.PlanNone:     {DailyAnalyses: 0, MaxDocumentsPerRequest: 0},
		model.PlanBasico:   {DailyAnalyses: c.DailyLimitBasico, MaxDocumentsPerRequest: c.MaxDocsBasico},
		model.PlanAvanzado: {DailyAnalyses: c.DailyLimitAvanzado, MaxDocumentsPerRequest: c.MaxDocsAvanzado},
		model.PlanPremium:  {DailyAnalyses: c.DailyLimitPremium, MaxDocumentsPerRequest: c.MaxDocsPremium},
		model.PlanVIP:      {DailyAnalyses: model.Unlimited, MaxDocumentsPerRequest: model.Unlimited},
	}
}

// MaxUploadBytes converts the configured megabyte ceiling to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}
