// Package draft auto-saves the add-country form after a pause in typing and
// offers the saved draft back on the next visit.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"countries/internal/notify"
	"countries/internal/platform/logger"
	"countries/pkg/platform/sentinel"
)

const (
	// Key is the storage key of the add-country draft.
	Key = "countryDraft"

	DefaultDebounce = 2 * time.Second
)

// Prompt asks whether a found draft should be loaded. false discards it.
type Prompt func(r Record) (load bool, err error)

type Manager struct {
	store     Store
	key       string
	debouncer *Debouncer
	notifier  notify.Notifier
	logger    *slog.Logger
}

type Option func(*Manager)

func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debouncer = NewDebouncer(d)
		}
	}
}

func WithKey(key string) Option {
	return func(m *Manager) {
		m.key = key
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		key:       Key,
		debouncer: NewDebouncer(DefaultDebounce),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Touch records that the form changed. The snapshot is saved once the form
// has been quiet for the debounce period.
func (m *Manager) Touch(fields Record) {
	snapshot := fields.Compact()
	m.debouncer.Debounce(func() {
		if err := m.save(context.Background(), snapshot); err != nil {
			m.logger.Error("failed to save draft", "key", m.key, "error", err)
		}
	})
}

// Flush saves a pending snapshot immediately.
func (m *Manager) Flush() bool {
	return m.debouncer.Flush()
}

// Save stores the non-empty fields now. An all-empty form stores nothing.
func (m *Manager) Save(ctx context.Context, fields Record) error {
	m.debouncer.Cancel()
	return m.save(ctx, fields.Compact())
}

func (m *Manager) save(ctx context.Context, snapshot Record) error {
	if len(snapshot) == 0 {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := m.store.Save(ctx, m.key, data); err != nil {
		return err
	}
	m.logger.Debug("draft saved", "key", m.key, "fields", len(snapshot))
	return nil
}

// Pending returns the stored draft, if any. A draft that cannot be parsed is
// logged and reported as absent.
func (m *Manager) Pending(ctx context.Context) (Record, bool, error) {
	data, err := m.store.Load(ctx, m.key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		m.logger.WarnContext(ctx, "failed to load draft", "key", m.key, "error", err)
		return nil, false, nil
	}
	if len(r) == 0 {
		return nil, false, nil
	}
	return r, true, nil
}

// Resolve offers a stored draft through prompt. Loading returns the record
// and notifies; declining deletes the draft.
func (m *Manager) Resolve(ctx context.Context, prompt Prompt) (Record, bool, error) {
	r, ok, err := m.Pending(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	load, err := prompt(r)
	if err != nil {
		return nil, false, err
	}
	if !load {
		return nil, false, m.Clear(ctx)
	}
	if m.notifier != nil {
		m.notifier.Show("Draft loaded", notify.Info)
	}
	return r, true, nil
}

// Clear drops any pending save and deletes the stored draft. Call it after
// a successful submit.
func (m *Manager) Clear(ctx context.Context) error {
	m.debouncer.Cancel()
	if err := m.store.Delete(ctx, m.key); err != nil {
		return err
	}
	m.logger.DebugContext(ctx, "draft cleared", "key", m.key)
	return nil
}

// Close cancels any pending save without running it.
func (m *Manager) Close() {
	m.debouncer.Stop()
}
