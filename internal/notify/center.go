// Package notify shows transient, stacked notifications that dismiss
// themselves after a fixed delay.
package notify

import (
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"countries/internal/platform/logger"
	"countries/internal/view"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

type Severity = view.Severity

const (
	Info    = view.SeverityInfo
	Success = view.SeveritySuccess
	Warning = view.SeverityWarning
	Error   = view.SeverityError
)

type Notification struct {
	ID       uint64
	Message  string
	Severity Severity
	ShownAt  time.Time
}

// Sink observes notifications as they appear and disappear.
type Sink interface {
	Shown(n Notification)
	Dismissed(n Notification)
}

// Notifier is what components depend on to surface messages.
type Notifier interface {
	Show(message string, severity Severity) Notification
}

type entry struct {
	n     Notification
	timer *time.Timer
}

// Center keeps the visible stack in show order. Duplicates are not merged.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	nextID uint64
	active []*entry
	sinks  []Sink
	closed bool
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Center)

func WithTTL(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.ttl = d
		}
	}
}

func WithSink(s Sink) Option {
	return func(c *Center) {
		c.sinks = append(c.sinks, s)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Center) {
		c.logger = l
	}
}

func New(opts ...Option) *Center {
	c := &Center{
		ttl:    DefaultTTL,
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show pushes a notification and schedules its dismissal. Unknown
// severities are shown as info. After Close, Show still returns the
// notification but nothing is displayed.
func (c *Center) Show(message string, severity Severity) Notification {
	if !severity.Valid() {
		severity = Info
	}

	c.mu.Lock()
	c.nextID++
	n := Notification{
		ID:       c.nextID,
		Message:  message,
		Severity: severity,
		ShownAt:  c.now(),
	}
	if c.closed {
		c.mu.Unlock()
		return n
	}
	e := &entry{n: n}
	c.active = append(c.active, e)
	id := n.ID
	e.timer = time.AfterFunc(c.ttl, func() { c.Dismiss(id) })
	sinks := c.sinks
	c.mu.Unlock()

	c.logger.Debug("notification shown",
		"id", n.ID,
		"severity", string(n.Severity),
		"message", n.Message,
	)
	for _, s := range sinks {
		s.Shown(n)
	}
	return n
}

// Dismiss removes a notification early. It reports whether it was visible.
func (c *Center) Dismiss(id uint64) bool {
	c.mu.Lock()
	idx := -1
	for i, e := range c.active {
		if e.n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	e := c.active[idx]
	e.timer.Stop()
	c.active = append(c.active[:idx], c.active[idx+1:]...)
	sinks := c.sinks
	c.mu.Unlock()

	for _, s := range sinks {
		s.Dismissed(e.n)
	}
	return true
}

// Active returns the visible notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.active))
	for _, e := range c.active {
		out = append(out, e.n)
	}
	return out
}

// HTML renders the visible stack.
func (c *Center) HTML() (template.HTML, error) {
	var b strings.Builder
	for _, n := range c.Active() {
		frag, err := view.Notification(view.NotificationModel{Message: n.Message, Severity: n.Severity})
		if err != nil {
			return "", err
		}
		b.WriteString(string(frag))
		b.WriteByte('\n')
	}
	return template.HTML(b.String()), nil //nolint:gosec // fragments come from html/template
}

// Close stops every pending dismissal and clears the stack.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.active {
		e.timer.Stop()
	}
	c.active = nil
	c.closed = true
}
