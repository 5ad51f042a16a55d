package sink

import (
	"context"
	"sync"

	"sanartes/internal/config"
)

// MemorySink keeps published envelopes in process. It backs the "memory"
// entry of REPORT_SINKS and doubles as a test double.
type MemorySink struct {
	mu        sync.Mutex
	envelopes []Envelope
	err       error
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Name() string { return config.SinkMemory }

func (m *MemorySink) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.envelopes = append(m.envelopes, env)
	return nil
}

// FailWith makes every later Publish return err. Nil restores success.
func (m *MemorySink) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Envelopes returns a copy of everything published so far.
func (m *MemorySink) Envelopes() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Envelope(nil), m.envelopes...)
}
