// Package mailtest provides an in-memory mail.Sender for tests.
package mailtest

import (
	"context"
	"sync"

	"artist-portfolio/internal/mail"
)

// Recorder keeps every message it is asked to send. When Fail is set, it is
// called first and a non-nil result is returned instead of recording.
type Recorder struct {
	mu   sync.Mutex
	sent []mail.Message

	Fail func(m mail.Message) error
}

func (r *Recorder) Send(_ context.Context, m mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		if err := r.Fail(m); err != nil {
			return err
		}
	}
	r.sent = append(r.sent, m)
	return nil
}

func (r *Recorder) Sent() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}
