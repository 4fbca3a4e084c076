package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"app/internal/model"
	"app/internal/repository"
	"app/internal/worker"

	"github.com/rs/zerolog"
)

type fakeGemini struct {
	raw string
	err error
}

func (f *fakeGemini) StreamGenerate(ctx context.Context, parts []Part) (*GenerateStream, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := strings.NewReader(f.raw)
	return &GenerateStream{body: io.NopCloser(r), scanner: bufio.NewScanner(r)}, nil
}

type fakeAnalysisRepo struct {
	created *model.Analysis
	err     error
}

func (f *fakeAnalysisRepo) Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	a.Timestamp = time.Now()
	f.created = a
	return a, nil
}

func (f *fakeAnalysisRepo) ListByUser(ctx context.Context, userID string) ([]model.Analysis, error) {
	return nil, nil
}

func (f *fakeAnalysisRepo) GetByID(ctx context.Context, id string) (*model.Analysis, error) {
	if f.created == nil || f.created.ID != id {
		return nil, repository.ErrAnalysisNotFound
	}
	return f.created, nil
}

func (f *fakeAnalysisRepo) Delete(ctx context.Context, id string) error {
	if f.created == nil || f.created.ID != id {
		return repository.ErrAnalysisNotFound
	}
	f.created = nil
	return nil
}

type fakeGate struct {
	commits int
}

func (f *fakeGate) CheckAccess(ctx context.Context, userID string, plan model.PlanTier, documentCount int, metered bool) error {
	return nil
}

func (f *fakeGate) CommitUsage(ctx context.Context, userID string) error {
	f.commits++
	return nil
}

func newTestAnalysisService(gemini GeminiClient, repo repository.AnalysisRepository, gate QuotaGate) AnalysisService {
	archive := NewArchiveService(nil, "", zerolog.Nop())
	return NewAnalysisService(repo, gate, gemini, archive, nil, "", worker.NewPool(1), zerolog.Nop())
}

const twoChunkStream = "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Resumen \"}]}}]}\n" +
	"\n" +
	"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Ejecutivo\"}]}}]}\n"

func TestStreamAnalysisPersistsAndCommitsOnSuccess(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	gate := &fakeGate{}
	svc := newTestAnalysisService(&fakeGemini{raw: twoChunkStream}, repo, gate)

	var deltas []string
	record, err := svc.StreamAnalysis(context.Background(),
		claims("u1", "u1@example.com"), model.PlanBasico, "Analiza el contrato",
		nil, func(chunk string) error {
			deltas = append(deltas, chunk)
			return nil
		})
	if err != nil {
		t.Fatalf("StreamAnalysis failed: %v", err)
	}

	if len(deltas) != 2 || deltas[0] != "Resumen " || deltas[1] != "Ejecutivo" {
		t.Errorf("unexpected deltas: %v", deltas)
	}
	if repo.created == nil {
		t.Fatal("expected the record to be persisted")
	}
	if repo.created.AnalysisText != "Resumen Ejecutivo" {
		t.Errorf("unexpected stored text %q", repo.created.AnalysisText)
	}
	if repo.created.Title != "Analiza el contrato" {
		t.Errorf("unexpected title %q", repo.created.Title)
	}
	if record.ID == "" {
		t.Error("expected a generated record ID")
	}
	if gate.commits != 1 {
		t.Errorf("expected exactly one usage commit, got %d", gate.commits)
	}
}

func TestStreamAnalysisRelayFailureChargesNothing(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	gate := &fakeGate{}
	svc := newTestAnalysisService(&fakeGemini{raw: twoChunkStream}, repo, gate)

	_, err := svc.StreamAnalysis(context.Background(),
		claims("u1", "u1@example.com"), model.PlanBasico, "Analiza",
		nil, func(string) error { return errors.New("client gone") })
	if err == nil {
		t.Fatal("expected an error when the relay fails")
	}
	if repo.created != nil {
		t.Error("nothing must be persisted after a relay failure")
	}
	if gate.commits != 0 {
		t.Errorf("no usage must be committed after a relay failure, got %d", gate.commits)
	}
}

func TestStreamAnalysisCancelledContextChargesNothing(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	gate := &fakeGate{}
	svc := newTestAnalysisService(&fakeGemini{raw: twoChunkStream}, repo, gate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.StreamAnalysis(ctx,
		claims("u1", "u1@example.com"), model.PlanBasico, "Analiza",
		nil, func(string) error { return nil })
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if gate.commits != 0 {
		t.Errorf("no usage must be committed after cancellation, got %d", gate.commits)
	}
}

func TestStreamAnalysisUpstreamErrorChargesNothing(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	gate := &fakeGate{}
	svc := newTestAnalysisService(&fakeGemini{err: classifyUpstreamError(429, "quota")}, repo, gate)

	_, err := svc.StreamAnalysis(context.Background(),
		claims("u1", "u1@example.com"), model.PlanBasico, "Analiza",
		nil, func(string) error { return nil })

	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.Kind != UpstreamRateLimit {
		t.Fatalf("expected a rate-limit upstream error, got %v", err)
	}
	if gate.commits != 0 {
		t.Errorf("no usage must be committed after an upstream failure, got %d", gate.commits)
	}
}

func TestGetAnalysisEnforcesOwnership(t *testing.T) {
	repo := &fakeAnalysisRepo{created: &model.Analysis{ID: "a1", UserID: "owner"}}
	svc := newTestAnalysisService(&fakeGemini{}, repo, &fakeGate{})

	if _, err := svc.GetAnalysis(context.Background(), "a1", "owner"); err != nil {
		t.Errorf("owner read should succeed, got %v", err)
	}
	if _, err := svc.GetAnalysis(context.Background(), "a1", "intruder"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.GetAnalysis(context.Background(), "missing", "owner"); !errors.Is(err, repository.ErrAnalysisNotFound) {
		t.Errorf("expected ErrAnalysisNotFound, got %v", err)
	}
}

func TestDeleteAnalysisEnforcesOwnership(t *testing.T) {
	repo := &fakeAnalysisRepo{created: &model.Analysis{ID: "a1", UserID: "owner"}}
	svc := newTestAnalysisService(&fakeGemini{}, repo, &fakeGate{})

	if err := svc.DeleteAnalysis(context.Background(), "a1", "intruder"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.DeleteAnalysis(context.Background(), "a1", "owner"); err != nil {
		t.Errorf("owner delete should succeed, got %v", err)
	}
	if repo.created != nil {
		t.Error("record should be gone after delete")
	}
}

func TestDeriveTitle(t *testing.T) {
	if got := deriveTitle("corto"); got != "corto" {
		t.Errorf("short instructions unchanged, got %q", got)
	}
	long := strings.Repeat("á", 50)
	got := deriveTitle(long)
	if runes := []rune(got); len(runes) != 40 {
		t.Errorf("expected 40 runes, got %d (%q)", len(runes), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}
