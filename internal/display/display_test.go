package display

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/comalice/calcx"
)

func TestLine(t *testing.T) {
	tests := []struct {
		snap calcx.Snapshot
		want string
	}{
		{calcx.Initial(), "[ 0 ]"},
		{calcx.Snapshot{Display: "4", Operand: 6, HasOperand: true, Operator: calcx.OpAdd}, "[ 4 ]  6 +"},
		{calcx.Snapshot{Display: "0.", Operand: 2.5, HasOperand: true, Operator: calcx.OpDivide}, "[ 0. ]  2.5 ÷"},
	}
	for _, tt := range tests {
		if got := Line(tt.snap); got != tt.want {
			t.Errorf("Line(%+v) = %q, want %q", tt.snap, got, tt.want)
		}
	}
}

func TestPlainAsSink(t *testing.T) {
	var buf bytes.Buffer
	e, err := calcx.NewEngine(calcx.WithSink(NewPlain(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	e.Digit(6)
	e.Operator(calcx.OpAdd)
	e.Digit(4)
	e.Equals()

	want := "[ 6 ]\n[ 6 ]  6 +\n[ 4 ]  6 +\n[ 10 ]\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLiveRedraws(t *testing.T) {
	var buf bytes.Buffer
	l := NewLive(&buf)

	if err := l.Render(calcx.Initial()); err != nil {
		t.Fatal(err)
	}
	first := buf.String()
	if !strings.Contains(first, "[ 0 ]") {
		t.Fatalf("expected initial display, got %q", first)
	}

	step := calcx.Step{After: calcx.Snapshot{Display: "42"}}
	if err := l.Record(context.Background(), step); err != nil {
		t.Fatal(err)
	}
	second := strings.TrimPrefix(buf.String(), first)
	if !strings.Contains(second, "[ 42 ]") {
		t.Errorf("expected redraw with 42, got %q", second)
	}
	// The redraw clears the previous line before writing.
	if !strings.Contains(second, "\x1b[") {
		t.Errorf("expected terminal escape to clear the previous line, got %q", second)
	}
}
