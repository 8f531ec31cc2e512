package calcx

import (
	"context"
	"errors"
	"fmt"
)

type StateID int
type EventID int

type Event struct {
	ID      EventID
	Payload any
}

type Action func(ctx context.Context, evt *Event, from StateID, to StateID) error
type Guard func(ctx context.Context, evt *Event, from StateID, to StateID) (bool, error)

var (
	ErrNoStates        = errors.New("no states provided")
	ErrNilState        = errors.New("nil state")
	ErrDuplicateState  = errors.New("duplicate state ID")
	ErrMultipleInitial = errors.New("more than one initial state")
	ErrNotStarted      = errors.New("machine not started")
	ErrUnknownState    = errors.New("unknown state")
)

// ---

type State struct {
	ID          StateID
	Transitions []*Transition
	EntryAction Action
	ExitAction  Action
	Initial     bool
}

type Transition struct {
	Event  EventID
	Source *State
	Target *State // nil --> internal transition
	Guard  Guard  // nil --> always enabled
	Action Action // nil --> do nothing
}

// Machine is a flat statechart: exactly one active state, transitions picked
// in document order.
type Machine struct {
	states  map[StateID]*State
	initial *State
	current *State
}

//
// Public API
//

func (s *State) OnEntry(action Action) {
	s.EntryAction = action
}

func (s *State) OnExit(action Action) {
	s.ExitAction = action
}

// On appends a transition. A nil target makes it internal: the action runs
// but the state is neither exited nor re-entered.
func (s *State) On(evt EventID, target *State, guard Guard, action Action) {
	s.Transitions = append(s.Transitions, &Transition{
		Event:  evt,
		Source: s,
		Target: target,
		Guard:  guard,
		Action: action,
	})
}

func NewMachine(states ...*State) (*Machine, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	m := &Machine{
		states: make(map[StateID]*State, len(states)),
	}

	for _, s := range states {
		if s == nil {
			return nil, ErrNilState
		}
		if _, exists := m.states[s.ID]; exists {
			return nil, ErrDuplicateState
		}
		m.states[s.ID] = s
		if s.Initial {
			if m.initial != nil {
				return nil, ErrMultipleInitial
			}
			m.initial = s
		}
	}

	if m.initial == nil {
		m.initial = states[0] // First state is assigned as initial.
	}

	for _, s := range states {
		for _, t := range s.Transitions {
			if t != nil && t.Source == nil {
				t.Source = s
			}
		}
	}

	return m, nil
}

// Start enters the initial state. Calling it again re-enters the initial
// state from wherever the machine is.
func (m *Machine) Start(ctx context.Context) error {
	m.current = m.initial
	return m.current.enterState(ctx, nil, m.current.ID, m.current.ID)
}

// Restore makes id the active state without running any actions. It is
// used to resume a machine whose extended state was saved elsewhere.
func (m *Machine) Restore(id StateID) error {
	s, ok := m.states[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownState, id)
	}
	m.current = s
	return nil
}

// Send dispatches evt to the active state. Events with no enabled
// transition are ignored.
func (m *Machine) Send(ctx context.Context, evt Event) error {
	if m.current == nil {
		return ErrNotStarted
	}

	t, err := m.pickTransition(ctx, m.current, &evt)
	if err != nil || t == nil {
		return err
	}

	next, err := t.doTransition(ctx, &evt)
	m.current = next
	return err
}

// Current returns the active state ID, or -1 before Start.
func (m *Machine) Current() StateID {
	if m.current == nil {
		return -1
	}
	return m.current.ID
}

//
// Helper Functions (internal API)
//

func (s *State) enterState(ctx context.Context, evt *Event, from StateID, to StateID) error {
	if s.EntryAction != nil {
		return s.EntryAction(ctx, evt, from, to)
	}
	return nil
}

func (s *State) exitState(ctx context.Context, evt *Event, from StateID, to StateID) error {
	if s.ExitAction != nil {
		return s.ExitAction(ctx, evt, from, to)
	}
	return nil
}

// pickTransition grabs the first transition for evt whose guard passes.
func (m *Machine) pickTransition(ctx context.Context, s *State, evt *Event) (*Transition, error) {
	for _, t := range s.Transitions {
		if t == nil || t.Event != evt.ID {
			continue
		}
		pass, err := t.evaluateGuard(ctx, evt)
		if err != nil {
			return nil, err
		}
		if pass {
			return t, nil
		}
	}
	return nil, nil
}

func (t *Transition) targetID() StateID {
	if t.Target == nil {
		return t.Source.ID
	}
	return t.Target.ID
}

func (t *Transition) evaluateGuard(ctx context.Context, evt *Event) (bool, error) {
	if t.Guard != nil {
		return t.Guard(ctx, evt, t.Source.ID, t.targetID())
	}
	return true, nil
}

func (t *Transition) evaluateAction(ctx context.Context, evt *Event) error {
	if t.Action != nil {
		return t.Action(ctx, evt, t.Source.ID, t.targetID())
	}
	return nil
}

// doTransition runs exit, action, entry and returns the state the machine
// ends up in. Any failure leaves the machine in the source state.
func (t *Transition) doTransition(ctx context.Context, evt *Event) (*State, error) {
	if t.Target == nil {
		return t.Source, t.evaluateAction(ctx, evt)
	}

	from, to := t.Source.ID, t.Target.ID
	if err := t.Source.exitState(ctx, evt, from, to); err != nil {
		return t.Source, err
	}
	if err := t.evaluateAction(ctx, evt); err != nil {
		// Re-enter the source; the original event is not replayed.
		if rerr := t.Source.enterState(ctx, nil, from, to); rerr != nil {
			return t.Source, rerr
		}
		return t.Source, err
	}
	if err := t.Target.enterState(ctx, evt, from, to); err != nil {
		return t.Source, err
	}
	return t.Target, nil
}
