package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/comalice/calcx"
)

const chaining = `
name: chaining
steps:
  - press: "6 + 4 +"
    expect: "10"
  - press: "2 ="
    expect: "12"
  - press: "5 ÷ 0 ="
    expect: "0"
  - press: "AC"
    expect: "0"
`

func TestParse(t *testing.T) {
	g := NewWithT(t)

	s, err := Parse([]byte(chaining))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Name).To(Equal("chaining"))
	g.Expect(s.Steps).To(HaveLen(4))
	g.Expect(s.Steps[0].Keys()).To(Equal([]calcx.Key{
		calcx.DigitKey(6), calcx.OperatorKey(calcx.OpAdd), calcx.DigitKey(4), calcx.OperatorKey(calcx.OpAdd),
	}))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no steps", "name: empty\n"},
		{"empty press", "steps:\n  - press: \"  \"\n"},
		{"unknown key", "steps:\n  - press: \"1 % 2\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidScript) {
				t.Errorf("expected ErrInvalidScript, got %v", err)
			}
		})
	}

	if _, err := Parse([]byte("steps: {")); err == nil || errors.Is(err, ErrInvalidScript) {
		t.Errorf("expected a YAML error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	g := NewWithT(t)
	fs := afero.NewMemMapFs()
	g.Expect(afero.WriteFile(fs, "/scripts/anon.yaml", []byte("steps:\n  - press: \"1+1=\"\n    expect: \"2\"\n"), 0o644)).To(Succeed())

	s, err := Load(fs, "/scripts/anon.yaml")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Name).To(Equal("/scripts/anon.yaml"))

	_, err = Load(fs, "/scripts/missing.yaml")
	g.Expect(err).To(MatchError(ContainSubstring("missing.yaml")))
}

func TestRunPasses(t *testing.T) {
	g := NewWithT(t)
	s, err := Parse([]byte(chaining))
	g.Expect(err).NotTo(HaveOccurred())

	r, err := Run(context.Background(), s)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Passed()).To(BeTrue())
	g.Expect(r.Final).To(Equal("0"))
	g.Expect(r.Diff).To(BeEmpty())
	g.Expect(r.Steps).To(HaveLen(11))

	var buf bytes.Buffer
	g.Expect(r.Print(&buf)).To(Succeed())
	g.Expect(buf.String()).To(HavePrefix("ok\tchaining\t11 keys, display 0"))
}

func TestRunReportsFailures(t *testing.T) {
	g := NewWithT(t)
	s, err := Parse([]byte(`
name: wrong
steps:
  - press: "9 - 3 ×"
    expect: "6"
  - press: "2 ="
    expect: "18"
`))
	g.Expect(err).NotTo(HaveOccurred())

	r, err := Run(context.Background(), s)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Passed()).To(BeFalse())
	g.Expect(r.Failures).To(Equal([]Failure{{Step: 2, Press: "2 =", Expected: "18", Actual: "12"}}))
	g.Expect(r.Diff).To(ContainSubstring("-2. 2 = = 18"))
	g.Expect(r.Diff).To(ContainSubstring("+2. 2 = = 12"))

	var buf bytes.Buffer
	g.Expect(r.Print(&buf)).To(Succeed())
	out := buf.String()
	g.Expect(out).To(HavePrefix("FAIL\twrong"))
	g.Expect(out).To(ContainSubstring("step 2 (2 =): expected 18, got 12"))
}

func TestRunUnvalidatedScript(t *testing.T) {
	g := NewWithT(t)

	s := &Script{Name: "literal", Steps: []Step{{Press: "7×6=", Expect: "42"}}}
	r, err := Run(context.Background(), s)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(r.Passed()).To(BeTrue())

	s = &Script{Steps: []Step{{Press: "7 ? 6"}}}
	_, err = Run(context.Background(), s)
	g.Expect(errors.Is(err, ErrInvalidScript)).To(BeTrue())
}

func TestRunCancelled(t *testing.T) {
	s, err := Parse([]byte(chaining))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, s); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunPassesEngineOptions(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - press: \"+ 1 =\"\n    expect: \"5\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	start := calcx.Snapshot{Display: "4", Fresh: false}
	r, err := Run(context.Background(), s, calcx.WithSnapshot(start))
	if err != nil {
		t.Fatal(err)
	}
	if !r.Passed() {
		var buf strings.Builder
		r.Print(&buf)
		t.Errorf("expected pass:\n%s", buf.String())
	}
}
