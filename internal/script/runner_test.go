package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/retrodesk/internal/config"
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/icons"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Viewport.Width = 1200
	cfg.Viewport.Height = 800
	var out bytes.Buffer
	return NewRunner(cfg, &out, nil), &out
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"open sets active and z", `
open about "About Me"
move about 50 50
expect-active about
expect-z-order about
`},
		{"focus raises above newer window", `
open about
open projects Projects
focus about
expect-z-order projects about
expect-active about
`},
		{"minimize clears active", `
open about
minimize about
expect-active none
expect-state about minimized
expect-z-order
`},
		{"maximize round trip", `
open about
bounds about 50 50 500 400
maximize about
expect-bounds about 0 36 1200 716
expect-state about maximized
maximize about
expect-bounds about 50 50 500 400
`},
		{"welcome cannot be closed", `
open welcome
close welcome
close welcome
flush
expect-state welcome open
`},
		{"icon selection ring", `
expect-selected none
icon-step next
expect-selected about
icon-select trash
icon-step next
expect-selected about
icon-step prev
expect-selected trash
icon-step clear
expect-selected none
`},
		{"retitle keeps stacking", `
open about
open skills
retitle about "Über mich"
expect-title about "Über mich"
expect-active skills
`},
		{"exit reasons", `
open about
open skills
minimize about
close skills
expect-exit about minimize
expect-exit skills close
restore about
expect-exit about none
`},
		{"icon drop avoids occupied cell", `
icon-drag projects 20 366
expect-icon skills 0 2
expect-icon projects 0 1
icon-drag about 20 366
expect-icon about 1 1
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRunner(t)
			if err := r.Run(strings.NewReader(tt.script)); err != nil {
				t.Fatalf("Run: %v", err)
			}
		})
	}
}

func TestGestures(t *testing.T) {
	r, _ := newTestRunner(t)
	script := `
# catalog position for about is 50,50
open about
open skills
drag about 120 40
expect-active about
expect-bounds about 170 90 600 400
resize about se 10000 10000
expect-bounds about 170 90 1030 662
resize about nw 5000 5000
expect-bounds about 920 552 280 200
drag about -5000 -5000
expect-bounds about -240 36 280 200
`
	if err := r.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestGesture_MaximizedRefused(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Exec("open about")
	r.Exec("double-click about")
	if err := r.Exec("drag about 10 10"); !errors.Is(err, gesture.ErrMaximized) {
		t.Fatalf("expected ErrMaximized, got %v", err)
	}
	if err := r.Exec("resize about diagonal 10 10"); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage for a bad handle, got %v", err)
	}
}

func TestDragAfterMaximizeStartsFresh(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Run(strings.NewReader("open about\nbounds about 100 100 500 400\n"))

	if _, err := r.desktop.Gestures.BeginDrag("about", geometry.Point{X: 200, Y: 110}); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	r.desktop.Gestures.Move("about", geometry.Point{X: 260, Y: 170})
	script := `
maximize about
expect-bounds about 0 36 1200 716
maximize about
drag about 10 10
expect-bounds about 110 110 500 400
`
	if err := r.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestDeferredClose(t *testing.T) {
	r, _ := newTestRunner(t)
	script := `
open about
close about
expect-state about closing
flush
expect-state about absent
open skills
close skills
open skills
flush
expect-state skills open
`
	if err := r.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestQuotedTitleAndList(t *testing.T) {
	r, out := newTestRunner(t)
	if err := r.Run(strings.NewReader("open about 'About Me Too'\nopen skills\nminimize skills\nfocus about\nlist\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	w, _ := r.Desktop().Registry.Window("about")
	if w.Title != "About Me Too" {
		t.Fatalf("expected quoted title, got %q", w.Title)
	}
	listing := out.String()
	if !strings.Contains(listing, "* about") || !strings.Contains(listing, "_ skills") {
		t.Fatalf("unexpected listing:\n%s", listing)
	}
}

func TestViewportCommand(t *testing.T) {
	r, _ := newTestRunner(t)
	script := `
open about
viewport 800 600
maximize about
expect-bounds about 0 36 800 516
`
	if err := r.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr error
		line    string
	}{
		{"unknown command", "open about\ndance about", ErrUnknownCommand, "line 2"},
		{"missing args", "move about 1", ErrUsage, "line 1"},
		{"not an int", "move about x 1", ErrUsage, "line 1"},
		{"failed expectation", "open about\n\nexpect-active skills", ErrExpectation, "line 3"},
		{"trash pinned", "icon-drag trash 0 0", icons.ErrTrashPinned, "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRunner(t)
			err := r.Run(strings.NewReader(tt.script))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.HasPrefix(err.Error(), tt.line+":") {
				t.Fatalf("expected error to start with %q, got %q", tt.line, err)
			}
		})
	}
}

func TestCommandsListing(t *testing.T) {
	list := Commands()
	if len(list) != len(commands) {
		t.Fatalf("expected %d commands, got %d", len(commands), len(list))
	}
	if list[0] != "bounds ID X Y WIDTH HEIGHT" {
		t.Fatalf("expected sorted usage lines, got %q", list[0])
	}
}
