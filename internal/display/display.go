// Package display renders the calculator's single text region to a terminal.
package display

import (
	"context"
	"fmt"
	"io"

	"github.com/gosuri/uilive"

	"github.com/comalice/calcx"
)

// Line formats s as one display line: the numeral in brackets followed by
// the pending operand and operator, if any.
//
//	[ 4 ]  6 +
func Line(s calcx.Snapshot) string {
	line := "[ " + s.Display + " ]"
	if s.Operator != calcx.OpNone {
		line += fmt.Sprintf("  %s %s", calcx.FormatNumber(s.Operand), s.Operator)
	}
	return line
}

// Live redraws the display region in place. It implements calcx.Sink so
// an engine can drive it directly.
type Live struct {
	w *uilive.Writer
}

func NewLive(out io.Writer) *Live {
	w := uilive.New()
	w.Out = out
	return &Live{w: w}
}

func (l *Live) Render(s calcx.Snapshot) error {
	fmt.Fprintln(l.w, Line(s))
	return l.w.Flush()
}

func (l *Live) Record(ctx context.Context, step calcx.Step) error {
	return l.Render(step.After)
}

// Plain writes one line per update, for output that is not a terminal.
type Plain struct {
	out io.Writer
}

func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

func (p *Plain) Render(s calcx.Snapshot) error {
	_, err := fmt.Fprintln(p.out, Line(s))
	return err
}

func (p *Plain) Record(ctx context.Context, step calcx.Step) error {
	return p.Render(step.After)
}
