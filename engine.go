package calcx

import (
	"context"
	"fmt"
	"io"
	"log"
)

// Step records one key press as it passed through the engine.
type Step struct {
	Seq    int      `json:"seq" yaml:"seq"`
	Key    string   `json:"key" yaml:"key"`
	From   string   `json:"from" yaml:"from"`
	To     string   `json:"to" yaml:"to"`
	Before Snapshot `json:"before" yaml:"before"`
	After  Snapshot `json:"after" yaml:"after"`
}

// Sink receives every Step after it is applied. Errors are logged, not returned to the presser.
type Sink interface {
	Record(ctx context.Context, step Step) error
}

// Option applies configuration to Engine via functional options pattern.
type Option func(*Engine)

// Engine is one calculator session: the snapshot plus the input-mode chart
// that drives it. Presses are handled synchronously; an Engine must not be
// used from more than one goroutine at a time.
type Engine struct {
	snap    Snapshot
	chart   *MachineBuilder
	machine *Machine
	events  [len(keyEvents)]EventID
	logger  *log.Logger
	sinks   []Sink
	seq     int
}

// NewEngine creates an engine in the initial state.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		snap:   Initial(),
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}

	chart, m, err := buildChart(e)
	if err != nil {
		return nil, fmt.Errorf("build chart: %w", err)
	}
	e.chart, e.machine = chart, m
	for kind, name := range keyEvents {
		e.events[kind] = chart.Event(name)
	}

	if err := m.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("start chart: %w", err)
	}
	if !e.snap.Fresh {
		id, _ := chart.GetID(ModeEntering)
		if err := m.Restore(id); err != nil {
			return nil, fmt.Errorf("restore mode: %w", err)
		}
	}
	return e, nil
}

// Press applies k. The only error is ErrUnknownKey for a key no keypad can produce.
func (e *Engine) Press(ctx context.Context, k Key) error {
	if err := k.Validate(); err != nil {
		return err
	}

	before, from := e.snap, e.Mode()
	if err := e.machine.Send(ctx, Event{ID: e.events[k.Kind], Payload: k}); err != nil {
		return fmt.Errorf("press %s: %w", k, err)
	}

	e.seq++
	step := Step{
		Seq:    e.seq,
		Key:    k.String(),
		From:   from,
		To:     e.Mode(),
		Before: before,
		After:  e.snap,
	}
	e.logger.Printf("key=%s mode=%s->%s display=%s", step.Key, step.From, step.To, step.After.Display)

	for _, s := range e.sinks {
		if err := s.Record(ctx, step); err != nil {
			e.logger.Printf("sink: %v", err)
		}
	}
	return nil
}

// PressAll applies keys in order, stopping at the first invalid key.
func (e *Engine) PressAll(ctx context.Context, keys ...Key) error {
	for _, k := range keys {
		if err := e.Press(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Digit(d int) {
	e.press(DigitKey(d))
}

func (e *Engine) Decimal() {
	e.press(DecimalKey())
}

func (e *Engine) Operator(op Operator) {
	e.press(OperatorKey(op))
}

func (e *Engine) Equals() {
	e.press(EqualsKey())
}

func (e *Engine) Clear() {
	e.press(ClearKey())
}

// press is the button path: a malformed key is ignored.
func (e *Engine) press(k Key) {
	if err := e.Press(context.Background(), k); err != nil {
		e.logger.Printf("ignored: %v", err)
	}
}

// Display returns the text currently shown.
func (e *Engine) Display() string {
	return e.snap.Display
}

// Snapshot returns a copy of the full state.
func (e *Engine) Snapshot() Snapshot {
	return e.snap
}

// Mode returns the active chart state, ModeFresh or ModeEntering.
func (e *Engine) Mode() string {
	return e.chart.GetName(e.machine.Current())
}

// Chart describes the input-mode chart for rendering.
func (e *Engine) Chart() Chart {
	return e.chart.Chart()
}
