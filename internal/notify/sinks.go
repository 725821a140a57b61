package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// WriterSink prints each shown notification as "[SEVERITY] message".
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Shown(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "[%s] %s\n", strings.ToUpper(string(n.Severity)), n.Message)
}

func (s *WriterSink) Dismissed(Notification) {}

// Recorder keeps every notification it has seen, in order.
type Recorder struct {
	mu        sync.Mutex
	shown     []Notification
	dismissed []Notification
}

func (r *Recorder) Shown(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
}

func (r *Recorder) Dismissed(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dismissed = append(r.dismissed, n)
}

func (r *Recorder) ShownList() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.shown...)
}

func (r *Recorder) DismissedList() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.dismissed...)
}

// Messages returns the shown messages, in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.shown))
	for _, n := range r.shown {
		out = append(out, n.Message)
	}
	return out
}

// Last returns the most recent shown notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shown) == 0 {
		return Notification{}, false
	}
	return r.shown[len(r.shown)-1], true
}
