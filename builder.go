package calcx

import (
	"fmt"
	"sort"
)

// MachineBuilder provides a fluent API for constructing flat state machines using string-based
// state and event names instead of manual integer-based State struct creation.
type MachineBuilder struct {
	nextState StateID
	nextEvent EventID
	stateIDs  map[string]StateID
	stateName map[StateID]string // For debugging/reverse lookup
	eventIDs  map[string]EventID
	eventName map[EventID]string
	states    []*State
	initial   string
	pending   []pendingTransition
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b     *MachineBuilder
	state *State
	name  string
}

// pendingTransition holds a transition until Build resolves its target name.
type pendingTransition struct {
	t      *Transition
	source string
	target string // "" --> internal
}

// Chart is a read-only description of a built machine, used for rendering.
type Chart struct {
	Initial string
	States  []string
	Edges   []Edge
}

// Edge is one transition in a Chart. Internal edges have To == From.
type Edge struct {
	From     string
	Event    string
	To       string
	Internal bool
	Guarded  bool
}

// NewMachineBuilder creates a new builder. initialStateName is the state entered on Start.
func NewMachineBuilder(initialStateName string) *MachineBuilder {
	return &MachineBuilder{
		stateIDs:  make(map[string]StateID),
		stateName: make(map[StateID]string),
		eventIDs:  make(map[string]EventID),
		eventName: make(map[EventID]string),
		initial:   initialStateName,
	}
}

// State creates or retrieves a state by name.
func (b *MachineBuilder) State(name string) *StateBuilder {
	if id, ok := b.stateIDs[name]; ok {
		for _, s := range b.states {
			if s.ID == id {
				return &StateBuilder{b: b, state: s, name: name}
			}
		}
	}

	id := b.nextState
	b.nextState++
	b.stateIDs[name] = id
	b.stateName[id] = name

	s := &State{ID: id}
	b.states = append(b.states, s)
	return &StateBuilder{b: b, state: s, name: name}
}

// Event returns the ID for an event name, assigning the next sequential ID on first use.
func (b *MachineBuilder) Event(name string) EventID {
	if id, ok := b.eventIDs[name]; ok {
		return id
	}
	id := b.nextEvent
	b.nextEvent++
	b.eventIDs[name] = id
	b.eventName[id] = name
	return id
}

// Build validates the configuration and constructs the Machine.
func (b *MachineBuilder) Build() (*Machine, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	for _, p := range b.pending {
		if p.target != "" {
			p.t.Target = b.lookup(p.target)
		}
	}
	b.pending = nil

	initial := b.lookup(b.initial)
	for _, s := range b.states {
		s.Initial = s == initial
	}

	return NewMachine(b.states...)
}

// GetID returns the StateID for a state name and whether it is registered.
func (b *MachineBuilder) GetID(name string) (StateID, bool) {
	id, ok := b.stateIDs[name]
	return id, ok
}

// GetName returns the name for a given StateID.
// Returns empty string if the ID doesn't exist.
func (b *MachineBuilder) GetName(id StateID) string {
	return b.stateName[id]
}

// Chart describes the states and transitions declared so far, in declaration order.
func (b *MachineBuilder) Chart() Chart {
	c := Chart{Initial: b.initial}
	for _, s := range b.states {
		name := b.stateName[s.ID]
		c.States = append(c.States, name)
		for _, t := range s.Transitions {
			e := Edge{
				From:    name,
				Event:   b.eventName[t.Event],
				To:      name,
				Guarded: t.Guard != nil,
			}
			switch {
			case t.Target != nil:
				e.To = b.stateName[t.Target.ID]
			case b.pendingTarget(t) != "":
				e.To = b.pendingTarget(t)
			default:
				e.Internal = true
			}
			c.Edges = append(c.Edges, e)
		}
	}
	return c
}

// Events returns all registered event names, sorted.
func (b *MachineBuilder) Events() []string {
	names := make([]string, 0, len(b.eventIDs))
	for name := range b.eventIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *MachineBuilder) lookup(name string) *State {
	id, ok := b.stateIDs[name]
	if !ok {
		return nil
	}
	for _, s := range b.states {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (b *MachineBuilder) pendingTarget(t *Transition) string {
	for _, p := range b.pending {
		if p.t == t {
			return p.target
		}
	}
	return ""
}

// validate checks that the state machine configuration is valid.
func (b *MachineBuilder) validate() error {
	if len(b.states) == 0 {
		return ErrNoStates
	}
	if _, ok := b.stateIDs[b.initial]; !ok {
		return fmt.Errorf("initial state %q is not declared", b.initial)
	}
	for _, p := range b.pending {
		if p.target == "" {
			continue
		}
		if _, ok := b.stateIDs[p.target]; !ok {
			return fmt.Errorf("state %s has transition to unknown target state %q", p.source, p.target)
		}
	}
	return nil
}

// StateBuilder fluent methods

// Entry sets the entry action for this state.
func (sb *StateBuilder) Entry(action Action) *StateBuilder {
	sb.state.EntryAction = action
	return sb
}

// Exit sets the exit action for this state.
func (sb *StateBuilder) Exit(action Action) *StateBuilder {
	sb.state.ExitAction = action
	return sb
}

// On adds a transition from this state to the target state when the given event occurs.
// The target may be declared later; it is resolved by Build.
// guard and action are optional (can be nil).
func (sb *StateBuilder) On(eventName string, targetName string, guard Guard, action Action) *StateBuilder {
	t := sb.add(eventName, guard, action)
	sb.b.pending = append(sb.b.pending, pendingTransition{t: t, source: sb.name, target: targetName})
	return sb
}

// OnInternal adds an internal transition that doesn't change state.
// The transition action executes but no exit/entry actions are triggered.
func (sb *StateBuilder) OnInternal(eventName string, guard Guard, action Action) *StateBuilder {
	sb.add(eventName, guard, action)
	return sb
}

func (sb *StateBuilder) add(eventName string, guard Guard, action Action) *Transition {
	t := &Transition{
		Event:  sb.b.Event(eventName),
		Source: sb.state,
		Guard:  guard,
		Action: action,
	}
	sb.state.Transitions = append(sb.state.Transitions, t)
	return t
}
