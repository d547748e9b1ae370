// Package script replays desktop command scripts against an in-memory
// desktop. Each line is split with shell quoting rules; blank lines and
// lines starting with # are skipped.
//
//	open about "About Me"
//	drag about 120 40
//	expect-bounds about 170 90 600 400
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/eventlog"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/viewport"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong arguments")
	ErrExpectation    = errors.New("expectation failed")
)

// titleBarGrab is where drags grab a window, relative to its origin.
var titleBarGrab = geometry.Point{X: 10, Y: 10}

// Runner executes script lines against its own desktop.
type Runner struct {
	desktop *desktop.Desktop
	clock   *manualClock
	out     io.Writer
	parser  *shellwords.Parser
}

// NewRunner creates a runner with a static viewport from cfg. Output of
// list and icons commands goes to out. logger may be nil.
func NewRunner(cfg *config.Config, out io.Writer, logger *eventlog.Logger) *Runner {
	clock := &manualClock{}
	vp := viewport.NewStatic(cfg.Viewport.Width, cfg.Viewport.Height)
	opts := []desktop.Option{desktop.WithScheduler(clock.schedule)}
	if logger != nil {
		opts = append(opts, desktop.WithLogger(logger))
	}

	parser := shellwords.NewParser()
	parser.ParseEnv = true

	return &Runner{
		desktop: desktop.New(cfg, vp, opts...),
		clock:   clock,
		out:     out,
		parser:  parser,
	}
}

// Desktop returns the desktop the script drives.
func (r *Runner) Desktop() *desktop.Desktop { return r.desktop }

// Run executes every line of src, stopping at the first error.
func (r *Runner) Run(src io.Reader) error {
	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := r.Exec(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

// Exec runs a single script line.
func (r *Runner) Exec(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	args, err := r.parser.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", trimmed, err)
	}
	if len(args) == 0 {
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	rest := args[1:]
	if len(rest) < cmd.minArgs || (cmd.maxArgs >= 0 && len(rest) > cmd.maxArgs) {
		return fmt.Errorf("%w: usage: %s %s", ErrUsage, args[0], cmd.usage)
	}
	return cmd.run(r, rest)
}

// Commands lists the script commands with their usage, sorted by name.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, strings.TrimSpace(name+" "+commands[name].usage))
	}
	return out
}

func atoi(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrUsage, name, s)
	}
	return v, nil
}

func ints(names []string, args []string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := atoi(name, args[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *Runner) printf(format string, args ...interface{}) {
	if r.out != nil {
		fmt.Fprintf(r.out, format, args...)
	}
}

func expectf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrExpectation, fmt.Sprintf(format, args...))
}

// drag runs a full pointer gesture: grab, move by delta, release.
func (r *Runner) drag(id string, handle string, delta geometry.Point) error {
	w, ok := r.desktop.Registry.Window(id)
	if !ok {
		return fmt.Errorf("%w: %s", gesture.ErrUnknownWindow, id)
	}

	var (
		grab geometry.Point
		err  error
	)
	if handle == "" {
		grab = w.Position.Add(titleBarGrab)
		_, err = r.desktop.Gestures.BeginDrag(id, grab)
	} else {
		h, perr := gesture.ParseHandle(handle)
		if perr != nil {
			return fmt.Errorf("%w: %v", ErrUsage, perr)
		}
		grab = w.Position
		_, err = r.desktop.Gestures.BeginResize(id, h, grab)
	}
	if err != nil {
		return err
	}

	r.desktop.Gestures.Move(id, grab.Add(delta))
	r.desktop.Gestures.End(id, gesture.EndPointerUp)
	return nil
}
