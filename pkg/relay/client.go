package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dskvich/clinical-console/pkg/domain"
)

const (
	DefaultURL = "http://localhost:8080/api/chat"

	// ServerErrorFallback is used when a failed relay answer carries no error text.
	ServerErrorFallback = "Server error."

	maxBodySize = 4 << 20
)

type client struct {
	url string
	hc  *http.Client
}

func NewClient(url string, timeout time.Duration) *client {
	hc := cleanhttp.DefaultClient()
	hc.Timeout = timeout

	return &client{
		url: url,
		hc:  hc,
	}
}

// Send posts one message to the relay and returns the raw reply text.
func (c *client) Send(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(domain.RelayRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", errors.Join(domain.ErrTransport, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", errors.Join(domain.ErrTransport, err))
	}

	var payload domain.RelayResponse
	decodeErr := json.Unmarshal(data, &payload)

	slog.DebugContext(ctx, "relay answered", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(payload.Error)
		if decodeErr != nil || message == "" {
			message = ServerErrorFallback
		}
		return "", &domain.RelayError{StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil || payload.Response == nil {
		malformed := &domain.MalformedReplyError{}
		if decodeErr == nil {
			malformed.Message = strings.TrimSpace(payload.Error)
		}
		return "", malformed
	}

	return *payload.Response, nil
}
