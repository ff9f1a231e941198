// Package notice holds the inline messages shown next to a control.
package notice

import (
	"sync"
	"time"
)

type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Warning Kind = "warning"
	Error   Kind = "error"
)

// Notice is one message. A zero ExpiresAt means it stays until replaced or cleared.
type Notice struct {
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	Lines     []string  `json:"lines,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (n Notice) Persistent() bool {
	return n.ExpiresAt.IsZero()
}

// Board shows at most one notice at a time. Transient notices disappear once
// their TTL has passed; persistent ones stay until replaced.
type Board struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *Notice
}

type Option func(*Board)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

func NewBoard(ttl time.Duration, opts ...Option) *Board {
	b := &Board{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Flash shows a transient notice.
func (b *Board) Flash(kind Kind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = &Notice{Kind: kind, Text: text, ExpiresAt: b.now().Add(b.ttl)}
}

// Pin shows a persistent notice with optional detail lines.
func (b *Board) Pin(kind Kind, text string, lines ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = &Notice{Kind: kind, Text: text, Lines: lines}
}

// Current returns the visible notice, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Notice{}, false
	}
	if !b.current.Persistent() && !b.now().Before(b.current.ExpiresAt) {
		b.current = nil
		return Notice{}, false
	}
	return *b.current, true
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}
