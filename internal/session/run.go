package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/akedrou/textdiff"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/transcript"
)

// Failure is a step whose display did not match its expectation.
type Failure struct {
	Step     int
	Press    string
	Expected string
	Actual   string
}

type Report struct {
	Name     string
	Final    string
	Failures []Failure
	Steps    []calcx.Step
	// Diff is a unified diff of expected against actual displays, one line
	// per checked step. Empty when every expectation held.
	Diff string
}

func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Run plays s against a fresh engine. opts are passed to calcx.NewEngine;
// a transcript.Recorder is always added to fill Report.Steps.
func Run(ctx context.Context, s *Script, opts ...calcx.Option) (*Report, error) {
	rec := transcript.NewRecorder()
	opts = append(opts[:len(opts):len(opts)], calcx.WithSink(rec))
	e, err := calcx.NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	r := &Report{Name: s.Name}
	var expected, actual strings.Builder
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keys := step.Keys()
		if keys == nil {
			if keys, err = calcx.ParseKeys(step.Press); err != nil {
				return nil, fmt.Errorf("%w: step %d: %w", ErrInvalidScript, i+1, err)
			}
		}
		if err := e.PressAll(ctx, keys...); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		if step.Expect == "" {
			continue
		}
		got := e.Display()
		fmt.Fprintf(&expected, "%d. %s = %s\n", i+1, step.Press, step.Expect)
		fmt.Fprintf(&actual, "%d. %s = %s\n", i+1, step.Press, got)
		if got != step.Expect {
			r.Failures = append(r.Failures, Failure{
				Step:     i + 1,
				Press:    step.Press,
				Expected: step.Expect,
				Actual:   got,
			})
		}
	}

	r.Final = e.Display()
	r.Steps = rec.Steps()
	if !r.Passed() {
		r.Diff = textdiff.Unified("expected", "actual", expected.String(), actual.String())
	}
	return r, nil
}

// Print writes a short human-readable summary.
func (r *Report) Print(w io.Writer) error {
	status := "ok"
	if !r.Passed() {
		status = "FAIL"
	}
	if _, err := fmt.Fprintf(w, "%s\t%s\t%d keys, display %s\n", status, r.Name, len(r.Steps), r.Final); err != nil {
		return err
	}
	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "  step %d (%s): expected %s, got %s\n", f.Step, f.Press, f.Expected, f.Actual); err != nil {
			return err
		}
	}
	if r.Diff != "" {
		if _, err := io.WriteString(w, r.Diff); err != nil {
			return err
		}
	}
	return nil
}
