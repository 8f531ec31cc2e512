package calcx_test

import (
	"context"
	"strings"
	"testing"

	. "github.com/comalice/calcx"
)

func TestBuilderTrafficLight(t *testing.T) {
	b := NewMachineBuilder("green")

	b.State("green").On("timer", "yellow", nil, nil)
	b.State("yellow").On("timer", "red", nil, nil)
	b.State("red").On("timer", "green", nil, nil)

	machine, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := machine.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if got := b.GetName(machine.Current()); got != "green" {
		t.Fatalf("should start in green, got %q", got)
	}

	timer := Event{ID: b.Event("timer")}
	for _, want := range []string{"yellow", "red", "green"} {
		if err := machine.Send(ctx, timer); err != nil {
			t.Fatal(err)
		}
		if got := b.GetName(machine.Current()); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestBuilderInitialNotFirst(t *testing.T) {
	b := NewMachineBuilder("on")
	b.State("off").On("toggle", "on", nil, nil)
	b.State("on").On("toggle", "off", nil, nil)

	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	m.Start(context.Background())

	if got := b.GetName(m.Current()); got != "on" {
		t.Errorf("expected initial state on, got %q", got)
	}
}

func TestBuilderEntryExitActions(t *testing.T) {
	var log []string
	note := func(s string) Action {
		return func(ctx context.Context, evt *Event, from, to StateID) error {
			log = append(log, s)
			return nil
		}
	}

	b := NewMachineBuilder("idle")
	b.State("idle").Exit(note("exit idle")).On("go", "busy", nil, note("go"))
	b.State("busy").Entry(note("enter busy"))

	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.Start(ctx)
	m.Send(ctx, Event{ID: b.Event("go")})

	if got := strings.Join(log, ","); got != "exit idle,go,enter busy" {
		t.Errorf("unexpected action order: %s", got)
	}
}

func TestBuilderInternalTransition(t *testing.T) {
	var count int
	b := NewMachineBuilder("counting")
	b.State("counting").OnInternal("tick", nil, func(ctx context.Context, evt *Event, from, to StateID) error {
		count++
		return nil
	})

	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.Start(ctx)
	for i := 0; i < 3; i++ {
		m.Send(ctx, Event{ID: b.Event("tick")})
	}

	if count != 3 {
		t.Errorf("expected 3 ticks, got %d", count)
	}
	if got := b.GetName(m.Current()); got != "counting" {
		t.Errorf("expected to stay in counting, got %q", got)
	}
}

func TestBuilderValidation(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		b := NewMachineBuilder("a")
		b.State("a").On("go", "missing", nil, nil)
		if _, err := b.Build(); err == nil || !strings.Contains(err.Error(), "missing") {
			t.Errorf("expected unknown target error, got %v", err)
		}
	})
	t.Run("unknown initial", func(t *testing.T) {
		b := NewMachineBuilder("nowhere")
		b.State("a")
		if _, err := b.Build(); err == nil {
			t.Error("expected error for undeclared initial state")
		}
	})
	t.Run("no states", func(t *testing.T) {
		if _, err := NewMachineBuilder("a").Build(); err == nil {
			t.Error("expected error for empty builder")
		}
	})
}

func TestBuilderIDs(t *testing.T) {
	b := NewMachineBuilder("a")
	b.State("a")
	b.State("b")
	b.State("a") // retrieve, not recreate

	idA, okA := b.GetID("a")
	idB, okB := b.GetID("b")
	if !okA || !okB || idA == idB {
		t.Fatalf("expected distinct registered IDs, got %d/%v %d/%v", idA, okA, idB, okB)
	}
	if _, ok := b.GetID("c"); ok {
		t.Error("c should not be registered")
	}
	if b.Event("x") != b.Event("x") {
		t.Error("event IDs should be stable")
	}
	if len(b.Chart().States) != 2 {
		t.Errorf("expected 2 states, got %v", b.Chart().States)
	}
}

func TestBuilderChart(t *testing.T) {
	guard := Guard(func(ctx context.Context, evt *Event, from, to StateID) (bool, error) { return true, nil })

	b := NewMachineBuilder("a")
	b.State("a").On("go", "b", guard, nil).OnInternal("poke", nil, nil)
	b.State("b")

	// Chart is available before and after Build.
	for _, phase := range []string{"before", "after"} {
		c := b.Chart()
		if c.Initial != "a" {
			t.Errorf("%s: expected initial a, got %q", phase, c.Initial)
		}
		if len(c.Edges) != 2 {
			t.Fatalf("%s: expected 2 edges, got %d", phase, len(c.Edges))
		}
		if e := c.Edges[0]; e.From != "a" || e.To != "b" || e.Event != "go" || e.Internal || !e.Guarded {
			t.Errorf("%s: unexpected edge %+v", phase, e)
		}
		if e := c.Edges[1]; e.To != "a" || !e.Internal {
			t.Errorf("%s: expected internal edge, got %+v", phase, e)
		}
		if phase == "before" {
			if _, err := b.Build(); err != nil {
				t.Fatal(err)
			}
		}
	}

	if got := strings.Join(b.Events(), ","); got != "go,poke" {
		t.Errorf("unexpected events %s", got)
	}
}
