// Tests for ChannelSink delivery and Recorder integration with the engine.
package transcript

import (
	"context"
	"testing"
	"time"

	"github.com/comalice/calcx"
)

func TestChannelSink_Delivery(t *testing.T) {
	ch := make(chan calcx.Step, 10)
	s := NewChannelSink(ch)

	step := calcx.Step{Seq: 1, Key: "7", From: calcx.ModeFresh, To: calcx.ModeEntering}
	if err := s.Record(context.Background(), step); err != nil {
		t.Errorf("Record failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.Key != step.Key || got.To != step.To {
			t.Errorf("step mismatch: got %+v, want %+v", got, step)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No step delivered")
	}
}

func TestChannelSink_BackpressureDrop(t *testing.T) {
	ch := make(chan calcx.Step, 1)
	s := NewChannelSink(ch)
	ch <- calcx.Step{} // Fill buffer

	if err := s.Record(context.Background(), calcx.Step{Seq: 2}); err != nil {
		t.Errorf("Record on full channel failed: %v", err)
	}
	if got := <-ch; got.Seq != 0 {
		t.Errorf("expected the original step to remain, got seq %d", got.Seq)
	}
}

func TestChannelSink_CancelledContext(t *testing.T) {
	ch := make(chan calcx.Step) // unbuffered, no reader
	s := NewChannelSink(ch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With no reader the send case can never win, so the cancelled context
	// or the default drop is chosen; both are non-blocking.
	err := s.Record(ctx, calcx.Step{})
	if err != nil && err != context.Canceled {
		t.Errorf("unexpected error %v", err)
	}
}

func TestChannelSink_Close(t *testing.T) {
	ch := make(chan calcx.Step, 1)
	s := NewChannelSink(ch)

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
}

func TestRecorder_Integration_Engine(t *testing.T) {
	rec := NewRecorder()
	e, err := calcx.NewEngine(calcx.WithSink(rec))
	if err != nil {
		t.Fatal(err)
	}

	keys, err := calcx.ParseKeys("4 × 5 =")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.PressAll(context.Background(), keys...); err != nil {
		t.Fatal(err)
	}

	steps := rec.Steps()
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	if steps[3].After.Display != "20" {
		t.Errorf("expected final display 20, got %q", steps[3].After.Display)
	}

	steps[0].Key = "mutated"
	if rec.Steps()[0].Key != "4" {
		t.Error("Steps should return a copy")
	}

	rec.Reset()
	if len(rec.Steps()) != 0 {
		t.Error("Reset should drop steps")
	}
}
