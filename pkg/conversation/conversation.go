package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/dskvich/clinical-console/pkg/domain"
	"github.com/dskvich/clinical-console/pkg/logger"
	"github.com/dskvich/clinical-console/pkg/reply"
)

const (
	EmptyDraftMessage    = "Please enter a clinical scenario."
	EmptyResponseMessage = "response body was empty."
	UnexpectedMessage    = "An unexpected error occurred while sending the request."

	errorPrefix = "⚠️ Error: "
)

type Relay interface {
	Send(ctx context.Context, message string) (string, error)
}

// State is a point-in-time copy of the conversation.
type State struct {
	Messages  []domain.Message
	Pending   bool
	Draft     string
	LastError string
}

// Conversation owns the message log of one session and the lifecycle of
// its single in-flight submission. Nothing is persisted.
type Conversation struct {
	relay Relay
	now   func() time.Time

	mu        sync.RWMutex
	messages  []domain.Message
	pending   bool
	draft     string
	lastError string
	lastStamp time.Time
}

type Option func(*Conversation)

// WithClock replaces time.Now as the source of message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Conversation) { c.now = now }
}

func New(relay Relay, opts ...Option) *Conversation {
	c := &Conversation{
		relay: relay,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Conversation) SetDraft(draft string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = draft
}

func (c *Conversation) Pending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.pending
}

func (c *Conversation) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return State{
		Messages:  lo.Map(c.messages, func(m domain.Message, _ int) domain.Message { return m }),
		Pending:   c.pending,
		Draft:     c.draft,
		LastError: c.lastError,
	}
}

// Begin starts a submission of the current draft: it appends the user
// message, marks the conversation pending and returns the text to relay.
// An empty draft only sets the last error; a second Begin while pending
// is refused with domain.ErrBusy.
func (c *Conversation) Begin() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return "", domain.ErrBusy
	}

	message := strings.TrimSpace(c.draft)
	if message == "" {
		c.lastError = EmptyDraftMessage
		return "", domain.ErrEmptyDraft
	}

	c.lastError = ""
	c.pending = true
	c.append(domain.Message{Role: domain.RoleUser, Content: message})

	return message, nil
}

// Resolve finishes the in-flight submission with the relay outcome.
// Success appends the parsed reply and clears the draft. Failure keeps the
// draft, records the last error and appends an inline error entry.
func (c *Conversation) Resolve(raw string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = false

	if err != nil {
		text := failureText(err)
		slog.Warn("chat submission failed", "reason", text, logger.Err(err))

		c.lastError = text
		c.append(domain.Message{Role: domain.RoleAssistant, Content: errorPrefix + text, Error: true})
		return
	}

	parsed := reply.Parse(raw)
	slog.Debug("chat submission answered", "outcome", parsed.Outcome.String(), "length", len(raw))

	c.append(domain.Message{
		Role:     domain.RoleAssistant,
		Content:  parsed.Content,
		Thinking: parsed.Thinking,
		Final:    parsed.Final,
	})
	c.draft = ""
	c.lastError = ""
}

// Submit runs a whole round trip synchronously.
func (c *Conversation) Submit(ctx context.Context) error {
	message, err := c.Begin()
	if err != nil {
		return err
	}

	raw, err := c.relay.Send(ctx, message)
	c.Resolve(raw, err)
	return err
}

// Clear empties the log, the draft and the last error. It does not touch a
// request in flight: its answer is appended to the emptied log when it
// resolves.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = nil
	c.lastError = ""
	c.draft = ""
}

// append stamps m with a timestamp that never goes backwards.
func (c *Conversation) append(m domain.Message) {
	stamp := c.now()
	if stamp.Before(c.lastStamp) {
		stamp = c.lastStamp
	}
	c.lastStamp = stamp

	m.Timestamp = stamp
	c.messages = append(c.messages, m)
}

// failureText prefers the error text supplied by the server.
func failureText(err error) string {
	var (
		relayErr     *domain.RelayError
		malformedErr *domain.MalformedReplyError
	)
	switch {
	case errors.As(err, &relayErr) && relayErr.Message != "":
		return relayErr.Message
	case errors.As(err, &malformedErr) && malformedErr.Message != "":
		return malformedErr.Message
	case errors.Is(err, domain.ErrMalformedReply):
		return EmptyResponseMessage
	}
	return UnexpectedMessage
}
