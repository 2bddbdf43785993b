package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrRateLimited     = errors.New("rate limited by upstream")
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrTransport       = errors.New("transport failure")
	ErrMalformedReply  = errors.New("malformed reply")

	ErrEmptyDraft = errors.New("draft is empty")
	ErrBusy       = errors.New("a request is already in flight")
)

// UpstreamError is a non-2xx answer from the remote inference service.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *UpstreamError) Is(target error) bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return target == ErrRateLimited
	}
	return target == ErrUpstreamFailure
}

// RelayError is a non-2xx answer from the relay as seen by the console.
// Message is the server supplied error text or a generic fallback.
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
}

func (e *RelayError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return target == ErrValidation
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	case http.StatusBadGateway:
		return target == ErrUpstreamFailure
	}
	return target == ErrTransport
}

// MalformedReplyError is a 2xx relay answer without a usable response
// field. Message carries an error text the body may still hold.
type MalformedReplyError struct {
	Message string
}

func (e *MalformedReplyError) Error() string {
	if e.Message == "" {
		return ErrMalformedReply.Error()
	}
	return ErrMalformedReply.Error() + ": " + e.Message
}

func (e *MalformedReplyError) Is(target error) bool {
	return target == ErrMalformedReply
}
