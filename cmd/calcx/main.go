// Command calcx is a terminal calculator.
//
// With no flags it reads keys from stdin and redraws the display after each
// press. With -script it plays a YAML session script and reports whether the
// expected displays were reached.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/afero"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/display"
	"github.com/comalice/calcx/internal/keypad"
	"github.com/comalice/calcx/internal/session"
	"github.com/comalice/calcx/internal/transcript"
	"github.com/comalice/calcx/internal/watch"
)

type config struct {
	script     string
	watch      bool
	keymap     string
	transcript string
	dot        bool
	plain      bool
	verbose    bool
	debug      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], afero.NewOsFs(), os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process globals; it returns the exit code.
func run(ctx context.Context, args []string, fs afero.Fs, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("calcx", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: calcx [flags]\n")
		fmt.Fprintf(stderr, "\nInteractive keys: 0-9 . + - * / = Enter, c or Esc to clear, q to quit.\n\nFlags:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  calcx\n")
		fmt.Fprintf(stderr, "  calcx -script sessions/chaining.yaml\n")
		fmt.Fprintf(stderr, "  calcx -script sessions/chaining.yaml -watch\n")
		fmt.Fprintf(stderr, "  calcx -dot | dot -Tsvg > chart.svg\n")
	}

	var cfg config
	flags.StringVar(&cfg.script, "script", "", "run a YAML session script instead of reading keys")
	flags.BoolVar(&cfg.watch, "watch", false, "with -script, re-run whenever the script changes")
	flags.StringVar(&cfg.keymap, "keymap", "", "YAML keymap laid over the default bindings")
	flags.StringVar(&cfg.transcript, "transcript", "", "write the session to this .json or .yaml file")
	flags.BoolVar(&cfg.dot, "dot", false, "print the input-mode chart as Graphviz DOT and exit")
	flags.BoolVar(&cfg.plain, "plain", false, "print one line per key instead of redrawing")
	flags.BoolVar(&cfg.verbose, "v", false, "log every key press to stderr")
	flags.BoolVar(&cfg.debug, "debug", false, "dump the full calculator state after every key press")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 || (cfg.watch && cfg.script == "") {
		flags.Usage()
		return 2
	}

	logger := log.New(stderr, "calcx: ", 0)
	opts := engineOptions(cfg, logger)

	var err error
	switch {
	case cfg.dot:
		err = printDOT(stdout)
	case cfg.script != "" && cfg.watch:
		w := watch.New(cfg.script, watch.WithFs(fs), watch.WithLogger(logger))
		err = w.Run(ctx, func(ctx context.Context) error {
			_, err := runScript(ctx, cfg, fs, stdout, opts)
			return err
		})
	case cfg.script != "":
		var passed bool
		passed, err = runScript(ctx, cfg, fs, stdout, opts)
		if err == nil && !passed {
			return 1
		}
	default:
		err = interactive(ctx, cfg, fs, stdin, stdout, opts)
	}

	if err != nil {
		logger.Print(err)
		return 1
	}
	return 0
}

func engineOptions(cfg config, logger *log.Logger) []calcx.Option {
	var opts []calcx.Option
	if cfg.verbose {
		opts = append(opts, calcx.WithLogger(logger))
	}
	if cfg.debug {
		opts = append(opts, calcx.WithSink(&dumpSink{logger: logger}))
	}
	return opts
}

// dumpSink logs each step's resulting state with spew.
type dumpSink struct {
	logger *log.Logger
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (d *dumpSink) Record(ctx context.Context, step calcx.Step) error {
	d.logger.Printf("step %d %s\n%s", step.Seq, step.Key, dumpConfig.Sdump(step.After))
	return nil
}

func printDOT(out io.Writer) error {
	e, err := calcx.NewEngine()
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, transcript.ExportDOT(e.Chart(), e.Mode()))
	return err
}

func runScript(ctx context.Context, cfg config, fs afero.Fs, out io.Writer, opts []calcx.Option) (bool, error) {
	s, err := session.Load(fs, cfg.script)
	if err != nil {
		return false, err
	}
	r, err := session.Run(ctx, s, opts...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", s.Name, err)
	}
	if err := r.Print(out); err != nil {
		return false, err
	}
	if cfg.transcript != "" {
		if err := transcript.Save(fs, cfg.transcript, transcript.NewDocument(s.Name, r.Steps)); err != nil {
			return false, err
		}
	}
	return r.Passed(), nil
}

func interactive(ctx context.Context, cfg config, fs afero.Fs, in io.Reader, out io.Writer, opts []calcx.Option) error {
	km := keypad.Default()
	if cfg.keymap != "" {
		var err error
		if km, err = keypad.Load(fs, cfg.keymap); err != nil {
			return err
		}
	}

	var screen interface {
		calcx.Sink
		Render(calcx.Snapshot) error
	}
	if cfg.plain {
		screen = display.NewPlain(out)
	} else {
		screen = display.NewLive(out)
	}

	rec := transcript.NewRecorder()
	e, err := calcx.NewEngine(append(opts, calcx.WithSink(screen), calcx.WithSink(rec))...)
	if err != nil {
		return err
	}
	if err := screen.Render(e.Snapshot()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runes := readRunes(ctx, in)
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case r, ok := <-runes:
			if !ok || km.IsQuit(r) {
				break loop
			}
			k, bound := km.Lookup(r)
			if !bound {
				continue
			}
			if err := e.Press(ctx, k); err != nil {
				return err
			}
		}
	}

	if cfg.transcript != "" {
		return transcript.Save(fs, cfg.transcript, transcript.NewDocument("interactive", rec.Steps()))
	}
	return nil
}

// readRunes streams runes from in until EOF or ctx is done. Reading blocks
// in its own goroutine so a signal can end the session mid-line.
func readRunes(ctx context.Context, in io.Reader) <-chan rune {
	ch := make(chan rune)
	go func() {
		defer close(ch)
		br := bufio.NewReader(in)
		for {
			r, _, err := br.ReadRune()
			if err != nil {
				return
			}
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
