// Package flash delivers user-facing status messages, either to the current
// request or to a per-session store that is drained on the next page.
package flash

import (
	"context"
	"log/slog"
	"sync"
)

// Severity classifies a message for display.
type Severity string

const (
	SeverityStatus  Severity = "status"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message is one user-visible line of feedback.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Store keeps pending messages per session until they are drained.
type Store interface {
	// Push appends a message for the session
	Push(ctx context.Context, session string, msg Message) error

	// Drain returns and removes all pending messages for the session
	Drain(ctx context.Context, session string) ([]Message, error)

	// Close releases resources held by the store
	Close() error
}

// Collector gathers messages for the lifetime of one request.
type Collector struct {
	mu       sync.Mutex
	messages []Message
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddMessage records a message.
func (c *Collector) AddMessage(text string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, Message{Text: text, Severity: severity})
}

// Messages returns a copy of the collected messages in order.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Sink writes messages for one session into a Store.
type Sink struct {
	ctx     context.Context
	store   Store
	session string
}

// NewSink binds a session to store. ctx bounds the store writes.
func NewSink(ctx context.Context, store Store, session string) *Sink {
	return &Sink{ctx: ctx, store: store, session: session}
}

// AddMessage pushes a message to the session. Store failures are logged;
// a lost status line must not fail the operation that produced it.
func (s *Sink) AddMessage(text string, severity Severity) {
	msg := Message{Text: text, Severity: severity}
	if err := s.store.Push(s.ctx, s.session, msg); err != nil {
		slog.Warn("Failed to store flash message",
			"session", s.session,
			"severity", severity,
			"error", err)
	}
}
