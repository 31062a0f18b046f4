package sse

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestClient_ReadsFramesAndLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("accept = %q", got)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "event: eval.created\n")
		io.WriteString(w, "data: {\"eval_id\":\"e1\"}\n")
		io.WriteString(w, "\n")
		io.WriteString(w, ": keepalive\n")
		io.WriteString(w, "data: {\"type\":\"run.delta\",\"run_id\":\"c1\",\"delta\":\"He\"}\n")
		io.WriteString(w, "\n")
		io.WriteString(w, "data: [DONE]\n")
		io.WriteString(w, "\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, newTestLogger())
	stream, err := client.Open(context.Background(), transport.Request{MessageID: "m1"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	ctx := context.Background()

	first, err := stream.Next(ctx)
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if first.Label != "eval.created" || first.Data != `{"eval_id":"e1"}` {
		t.Errorf("first frame = %+v", first)
	}

	second, err := stream.Next(ctx)
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if second.Label != "" {
		t.Errorf("label must reset after a blank line, got %q", second.Label)
	}

	third, err := stream.Next(ctx)
	if err != nil {
		t.Fatalf("third Next failed: %v", err)
	}
	if third.Data != "[DONE]" {
		t.Errorf("sentinel frame = %+v", third)
	}

	if _, err := stream.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("after server close, err = %v, want io.EOF", err)
	}
}

func TestClient_ReadsDataLinesPastDefaultScannerLimit(t *testing.T) {
	// A completion frame carrying a run's full text on one data line can be far
	// larger than bufio.Scanner's 64KiB default.
	fullText := strings.Repeat("a", 256*1024)
	payload := `{"type":"run.completed","run_id":"c1","full_text":"` + fullText + `"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: "+payload+"\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, newTestLogger())
	stream, err := client.Open(context.Background(), transport.Request{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	fr, err := stream.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if fr.Data != payload {
		t.Errorf("frame data length = %d, want %d", len(fr.Data), len(payload))
	}
}

func TestClient_NonSuccessStatusIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, newTestLogger())
	if _, err := client.Open(context.Background(), transport.Request{}); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}

func TestClient_CancellationEndsStream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"eval_id\":\"e1\"}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL, newTestLogger())
	stream, err := client.Open(ctx, transport.Request{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Next(ctx); err != nil {
		t.Fatalf("first Next failed: %v", err)
	}

	cancel()
	if _, err := stream.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("after cancel, err = %v, want context.Canceled", err)
	}
}
