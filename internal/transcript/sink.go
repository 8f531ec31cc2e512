package transcript

import (
	"context"
	"sync"

	"github.com/comalice/calcx"
)

// Recorder keeps every step it is given. Safe for concurrent use so a
// display goroutine can read while the engine records.
type Recorder struct {
	mu    sync.Mutex
	steps []calcx.Step
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(ctx context.Context, step calcx.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
	return nil
}

// Steps returns a copy of the recorded steps.
func (r *Recorder) Steps() []calcx.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]calcx.Step(nil), r.steps...)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = nil
}

// ChannelSink forwards steps to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelSink struct {
	ch chan<- calcx.Step
}

// NewChannelSink creates a ChannelSink with the given output channel.
func NewChannelSink(ch chan<- calcx.Step) *ChannelSink {
	return &ChannelSink{ch: ch}
}

func (s *ChannelSink) Record(ctx context.Context, step calcx.Step) error {
	select {
	case s.ch <- step:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

func (s *ChannelSink) Close() error {
	close(s.ch)
	return nil
}
