package service

import (
	"bufio"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestClassifyUpstreamError(t *testing.T) {
	cases := []struct {
		status int
		want   UpstreamErrorKind
	}{
		{http.StatusForbidden, UpstreamPermission},
		{http.StatusTooManyRequests, UpstreamRateLimit},
		{http.StatusInternalServerError, UpstreamGeneric},
		{http.StatusBadRequest, UpstreamGeneric},
	}
	for _, tc := range cases {
		err := classifyUpstreamError(tc.status, "boom")
		if err.Kind != tc.want {
			t.Errorf("status %d: expected kind %d, got %d", tc.status, tc.want, err.Kind)
		}
		if err.StatusCode != tc.status {
			t.Errorf("status %d not preserved, got %d", tc.status, err.StatusCode)
		}
	}
}

func newTestStream(raw string) *GenerateStream {
	r := strings.NewReader(raw)
	return &GenerateStream{body: io.NopCloser(r), scanner: bufio.NewScanner(r)}
}

func TestGenerateStreamRecv(t *testing.T) {
	raw := "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hola\"}]}}]}\n" +
		"\n" +
		"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\" mundo\"},{\"text\":\"!\"}]}}]}\n" +
		"\n" +
		"data: {\"usageMetadata\":{\"totalTokenCount\":12}}\n"
	stream := newTestStream(raw)
	defer stream.Close()

	var got []string
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv returned error: %v", err)
		}
		got = append(got, chunk)
	}
	want := []string{"Hola", " mundo!"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGenerateStreamRecvSkipsNonDataLines(t *testing.T) {
	raw := ": keepalive\n" +
		"event: message\n" +
		"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"ok\"}]}}]}\n"
	stream := newTestStream(raw)
	defer stream.Close()

	chunk, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv returned error: %v", err)
	}
	if chunk != "ok" {
		t.Errorf("expected %q, got %q", "ok", chunk)
	}
	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestGenerateStreamRecvMalformedEvent(t *testing.T) {
	stream := newTestStream("data: {not json}\n")
	defer stream.Close()

	if _, err := stream.Recv(); err == nil || err == io.EOF {
		t.Errorf("expected a decode error, got %v", err)
	}
}
