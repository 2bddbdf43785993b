package modal

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
	"github.com/samber/lo"

	"github.com/dskvich/clinical-console/pkg/domain"
	"github.com/dskvich/clinical-console/pkg/logger"
)

// DefaultEndpoint is the public generate endpoint of the deployed model.
const DefaultEndpoint = "https://doguser15--medical-gpt-oss-public-generate.modal.run"

const maxBodySize = 4 << 20

// ResolveEndpoint returns the first candidate that is not blank, falling
// back to DefaultEndpoint.
func ResolveEndpoint(candidates ...string) string {
	endpoint := lo.FindOrElse(candidates, DefaultEndpoint, func(c string) bool {
		return strings.TrimSpace(c) != ""
	})
	return strings.TrimSpace(endpoint)
}

type client struct {
	endpoint string
	hc       *http.Client
}

// NewClient returns a client for the remote inference endpoint. A zero
// timeout leaves the call bounded only by the caller's context.
func NewClient(endpoint string, timeout time.Duration) *client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout

	return &client{
		endpoint: endpoint,
		hc:       hc,
	}
}

func (c *client) Endpoint() string { return c.endpoint }

// Generate issues exactly one POST with the message and returns the raw
// success body. Non-2xx answers come back as *domain.UpstreamError; network
// failures and undecodable success bodies wrap domain.ErrTransport.
func (c *client) Generate(ctx context.Context, message string) (json.RawMessage, error) {
	body, err := json.Marshal(domain.RelayRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", errors.Join(domain.ErrTransport, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", errors.Join(domain.ErrTransport, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", errors.Join(domain.ErrTransport, err))
	}

	slog.DebugContext(ctx, "upstream answered",
		"status", resp.StatusCode,
		"bytes", len(data),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode, Body: data}
	}

	if !json.Valid(data) {
		slog.ErrorContext(ctx, "upstream success body is not JSON", "preview", preview(data), logger.Err(domain.ErrTransport))
		return nil, fmt.Errorf("decoding response: %w", domain.ErrTransport)
	}

	return data, nil
}

func preview(data []byte) string {
	const limit = 200
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
