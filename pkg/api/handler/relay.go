package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dskvich/clinical-console/pkg/api/response"
	"github.com/dskvich/clinical-console/pkg/domain"
	"github.com/dskvich/clinical-console/pkg/logger"
)

const (
	MessageRequired     = "message field is required"
	RateLimitedMessage  = "Upstream service is rate limiting requests, please retry later."
	UpstreamFailMessage = "Upstream service failed."
	InternalMessage     = "Server error, please try again."

	maxRequestBody = 1 << 20
)

type Upstream interface {
	Generate(ctx context.Context, message string) (json.RawMessage, error)
}

type relay struct {
	upstream Upstream
	writer   response.JSONResponseWriter
}

func NewRelay(upstream Upstream) *relay {
	return &relay{
		upstream: upstream,
		writer:   response.JSONResponseWriter{},
	}
}

// Chat validates the inbound message, forwards it upstream once and maps
// the outcome onto the relay's status codes.
func (h *relay) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	message, err := decodeMessage(r.Body)
	if err != nil {
		slog.WarnContext(ctx, "rejecting chat request", logger.Err(err))
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, MessageRequired)
		return
	}

	slog.InfoContext(ctx, "forwarding chat message", "length", len(message))

	body, err := h.upstream.Generate(ctx, message)
	if err == nil {
		h.writer.WriteRawResponse(w, http.StatusOK, body)
		return
	}

	var upstreamErr *domain.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		status, fallback := http.StatusBadGateway, UpstreamFailMessage
		if errors.Is(err, domain.ErrRateLimited) {
			status, fallback = http.StatusTooManyRequests, RateLimitedMessage
		}
		slog.ErrorContext(ctx, "upstream rejected chat message", "upstream_status", upstreamErr.StatusCode, "status", status)

		if len(upstreamErr.Body) > 0 && json.Valid(upstreamErr.Body) {
			h.writer.WriteRawResponse(w, status, upstreamErr.Body)
			return
		}
		h.writer.WriteErrorResponse(w, status, fallback)
	default:
		slog.ErrorContext(ctx, "forwarding chat message failed", logger.Err(err))
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, InternalMessage)
	}
}

// decodeMessage returns the trimmed message or a domain.ErrValidation
// wrapped error when the body has no usable message.
func decodeMessage(body io.Reader) (string, error) {
	var payload struct {
		Message *string `json:"message"`
	}

	if err := json.NewDecoder(io.LimitReader(body, maxRequestBody)).Decode(&payload); err != nil {
		return "", errors.Join(domain.ErrValidation, err)
	}
	if payload.Message == nil {
		return "", domain.ErrValidation
	}

	message := strings.TrimSpace(*payload.Message)
	if message == "" {
		return "", domain.ErrValidation
	}
	return message, nil
}
