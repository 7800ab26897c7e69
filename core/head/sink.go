package head

import (
	"context"
	"sync"
)

// Sink accepts a recomputed head snapshot, typically to sync it into a document.
type Sink interface {
	Flush(ctx context.Context, h Head) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, h Head) error

// Flush implements Sink.
func (f SinkFunc) Flush(ctx context.Context, h Head) error {
	return f(ctx, h)
}

// Recorder is a Sink keeping every flushed snapshot in memory.
type Recorder struct {
	mu      sync.Mutex
	flushes []Head
}

// Flush implements Sink.
func (r *Recorder) Flush(_ context.Context, h Head) error {
	r.mu.Lock()
	r.flushes = append(r.flushes, h.Clone())
	r.mu.Unlock()
	return nil
}

// Last returns the most recent snapshot.
func (r *Recorder) Last() (Head, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.flushes) == 0 {
		return Head{}, false
	}
	return r.flushes[len(r.flushes)-1].Clone(), true
}

// Count returns the number of flushes.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flushes)
}
