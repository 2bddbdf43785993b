package modal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dskvich/clinical-console/pkg/domain"
)

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"private wins", []string{"https://private", "https://public"}, "https://private"},
		{"blank private skipped", []string{"  ", "https://public"}, "https://public"},
		{"trimmed", []string{" https://private \n"}, "https://private"},
		{"fallback", []string{"", ""}, DefaultEndpoint},
		{"no candidates", nil, DefaultEndpoint},
	}

	for _, test := range tests {
		if got := ResolveEndpoint(test.candidates...); got != test.want {
			t.Errorf("%s: got %q, want %q", test.name, got, test.want)
		}
	}
}

func TestGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		var req domain.RelayRequest
		if err := json.Unmarshal(body, &req); err != nil || req.Message != "chest pain" {
			t.Errorf("unexpected request body %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Thinking: A\nFinal: B"}`))
	}))
	defer server.Close()

	got, err := NewClient(server.URL, time.Second).Generate(context.Background(), "chest pain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"response":"Thinking: A\nFinal: B"}` {
		t.Errorf("body was not passed through unchanged: %s", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, domain.ErrRateLimited},
		{"server error", http.StatusInternalServerError, `not json`, domain.ErrUpstreamFailure},
		{"not found", http.StatusNotFound, ``, domain.ErrUpstreamFailure},
		{"malformed success", http.StatusOK, `{"response":`, domain.ErrTransport},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				w.Write([]byte(test.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, time.Second).Generate(context.Background(), "x")
			if !errors.Is(err, test.want) {
				t.Fatalf("expected %v, got %v", test.want, err)
			}

			var upstreamErr *domain.UpstreamError
			if errors.As(err, &upstreamErr) && string(upstreamErr.Body) != test.body {
				t.Errorf("expected body %q, got %q", test.body, upstreamErr.Body)
			}
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Generate(context.Background(), "x")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, 50*time.Millisecond).Generate(context.Background(), "x")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error on timeout, got %v", err)
	}
}
