package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// UpstreamErrorKind buckets model-provider failures into the classes the
// client surface distinguishes.
type UpstreamErrorKind int

const (
	UpstreamGeneric UpstreamErrorKind = iota
	UpstreamPermission
	UpstreamRateLimit
)

// UpstreamError is a non-2xx response from the model provider.
type UpstreamError struct {
	Kind       UpstreamErrorKind
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model provider returned status %d: %s", e.StatusCode, e.Body)
}

// Part is one element of a generation request: either raw document bytes
// with their MIME type, or plain text. Exactly one of the two is set.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// GenerationParams tune the model call. Zero values are not defaulted here;
// the configuration layer owns the defaults.
type GenerationParams struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
}

// GeminiClient streams generated text from the Gemini REST API.
type GeminiClient interface {
	StreamGenerate(ctx context.Context, parts []Part) (*GenerateStream, error)
}

type geminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	params     GenerationParams
	logger     zerolog.Logger
}

// NewGeminiClient creates a streaming client for the given model. The HTTP
// client has no overall timeout because responses stream for as long as the
// model keeps generating; cancellation comes from the request context.
func NewGeminiClient(apiKey, model string, params GenerationParams, logger zerolog.Logger) GeminiClient {
	return &geminiClient{
		httpClient: &http.Client{},
		baseURL:    defaultGeminiBaseURL,
		apiKey:     apiKey,
		model:      model,
		params:     params,
		logger:     logger.With().Str("service", "GeminiClient").Logger(),
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
	SafetySettings    []geminiSafetySetting  `json:"safetySettings"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// Legal and technical documents routinely trip the default filters, so every
// category is relaxed to block only high-confidence matches.
var laxSafetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
}

func (c *geminiClient) StreamGenerate(ctx context.Context, parts []Part) (*GenerateStream, error) {
	userParts := make([]geminiPart, 0, len(parts))
	for _, p := range parts {
		if p.Data != nil {
			userParts = append(userParts, geminiPart{
				InlineData: &geminiInlineData{
					MIMEType: p.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(p.Data),
				},
			})
			continue
		}
		userParts = append(userParts, geminiPart{Text: p.Text})
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: analyzerSystemPrompt}}},
		Contents:          []geminiContent{{Role: "user", Parts: userParts}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.params.Temperature,
			TopP:            c.params.TopP,
			MaxOutputTokens: c.params.MaxOutputTokens,
		},
		SafetySettings: laxSafetySettings,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding generation request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling model provider: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Model provider request failed")
		return nil, classifyUpstreamError(resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	// Single events can carry several KB of generated text; the default
	// 64KB token limit is too small for worst-case chunks.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &GenerateStream{body: resp.Body, scanner: scanner}, nil
}

func classifyUpstreamError(status int, body string) *UpstreamError {
	kind := UpstreamGeneric
	switch status {
	case http.StatusForbidden:
		kind = UpstreamPermission
	case http.StatusTooManyRequests:
		kind = UpstreamRateLimit
	}
	return &UpstreamError{Kind: kind, StatusCode: status, Body: body}
}

// GenerateStream yields text deltas from a streaming generation response.
type GenerateStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

type streamEnvelope struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Recv returns the next non-empty text delta, or io.EOF when the stream is
// exhausted. Events without candidate text (safety metadata, usage counts)
// are skipped.
func (s *GenerateStream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		raw := strings.TrimPrefix(line, "data: ")

		var env streamEnvelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			return "", fmt.Errorf("decoding stream event: %w", err)
		}

		var delta strings.Builder
		for _, cand := range env.Candidates {
			for _, part := range cand.Content.Parts {
				delta.WriteString(part.Text)
			}
		}
		if delta.Len() > 0 {
			return delta.String(), nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *GenerateStream) Close() error {
	return s.body.Close()
}
