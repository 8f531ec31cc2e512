package calcx

import "context"

// Input modes of the calculator chart.
const (
	ModeFresh    = "fresh"
	ModeEntering = "entering"
)

// keyEvents names the chart event raised by each key kind.
var keyEvents = [...]string{
	KeyDigit:    "digit",
	KeyDecimal:  "decimal",
	KeyOperator: "operator",
	KeyEquals:   "equals",
	KeyClear:    "clear",
}

// buildChart declares the input-mode chart. Every transition applies the key
// to the engine's snapshot, so the active mode always matches Snapshot.Fresh.
//
//	fresh    --digit|decimal-->  entering
//	entering --operator------->  fresh
//	entering --equals[pending]-> fresh
//	entering --clear---------->  fresh
//
// All other presses are internal to the current mode.
func buildChart(e *Engine) (*MachineBuilder, *Machine, error) {
	apply := Action(func(ctx context.Context, evt *Event, from, to StateID) error {
		e.snap = e.snap.Apply(evt.Payload.(Key))
		return nil
	})
	pending := Guard(func(ctx context.Context, evt *Event, from, to StateID) (bool, error) {
		return e.snap.Pending(), nil
	})

	b := NewMachineBuilder(ModeFresh)
	b.State(ModeFresh).
		On(keyEvents[KeyDigit], ModeEntering, nil, apply).
		On(keyEvents[KeyDecimal], ModeEntering, nil, apply).
		OnInternal(keyEvents[KeyOperator], nil, apply).
		OnInternal(keyEvents[KeyEquals], pending, apply).
		OnInternal(keyEvents[KeyClear], nil, apply)
	b.State(ModeEntering).
		OnInternal(keyEvents[KeyDigit], nil, apply).
		OnInternal(keyEvents[KeyDecimal], nil, apply).
		On(keyEvents[KeyOperator], ModeFresh, nil, apply).
		On(keyEvents[KeyEquals], ModeFresh, pending, apply).
		On(keyEvents[KeyClear], ModeFresh, nil, apply)

	m, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return b, m, nil
}
