package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dskvich/clinical-console/pkg/domain"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.RelayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSendSuccess(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"response":"Thinking: check vitals\nFinal: order ECG"}`)

	got, err := NewClient(server.URL, time.Second).Send(context.Background(), "58 yaşında")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Thinking: check vitals\nFinal: order ECG" {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestSendEmptyResponseIsNotAnError(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"response":""}`)

	got, err := NewClient(server.URL, time.Second).Send(context.Background(), "x")
	if err != nil || got != "" {
		t.Errorf("expected empty reply without error, got %q, %v", got, err)
	}
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		want        error
		wantMessage string
	}{
		{"validation", http.StatusBadRequest, `{"error":"message field is required"}`, domain.ErrValidation, "message field is required"},
		{"rate limited", http.StatusTooManyRequests, `{"error":"quota exceeded"}`, domain.ErrRateLimited, "quota exceeded"},
		{"upstream", http.StatusBadGateway, `{"detail":"boom"}`, domain.ErrUpstreamFailure, ServerErrorFallback},
		{"internal", http.StatusInternalServerError, `garbage`, domain.ErrTransport, ServerErrorFallback},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := newServer(t, test.status, test.body)

			_, err := NewClient(server.URL, time.Second).Send(context.Background(), "x")
			if !errors.Is(err, test.want) {
				t.Fatalf("expected %v, got %v", test.want, err)
			}
			var relayErr *domain.RelayError
			if !errors.As(err, &relayErr) || relayErr.Message != test.wantMessage {
				t.Errorf("expected message %q, got %v", test.wantMessage, err)
			}
		})
	}
}

func TestSendMalformedReply(t *testing.T) {
	bodies := []string{`{}`, `{"response":42}`, `not json`, `{"error":"Field 'message' (string) is required."}`}

	for _, body := range bodies {
		server := newServer(t, http.StatusOK, body)

		_, err := NewClient(server.URL, time.Second).Send(context.Background(), "x")
		if !errors.Is(err, domain.ErrMalformedReply) {
			t.Errorf("body %q: expected malformed reply, got %v", body, err)
		}
	}
}

func TestSendTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Send(context.Background(), "x")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSendMalformedReplyKeepsErrorText(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"error":"Field 'message' (string) is required."}`)

	_, err := NewClient(server.URL, time.Second).Send(context.Background(), "x")

	var malformed *domain.MalformedReplyError
	if !errors.As(err, &malformed) || malformed.Message != "Field 'message' (string) is required." {
		t.Fatalf("expected malformed reply with error text, got %v", err)
	}
}
