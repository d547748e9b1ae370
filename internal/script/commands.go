package script

import (
	"fmt"
	"strings"

	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/icons"
)

type command struct {
	usage   string
	minArgs int
	maxArgs int // -1 for unbounded
	run     func(r *Runner, args []string) error
}

var commands = map[string]command{
	"open": {"ID [TITLE]", 1, 2, func(r *Runner, args []string) error {
		title := ""
		if len(args) == 2 {
			title = args[1]
		}
		_, err := r.desktop.OpenWindow(args[0], title, nil, nil)
		return err
	}},
	"close": {"ID", 1, 1, func(r *Runner, args []string) error {
		r.desktop.Registry.Close(args[0])
		return nil
	}},
	"focus": {"ID", 1, 1, func(r *Runner, args []string) error {
		r.desktop.Registry.Focus(args[0])
		return nil
	}},
	"minimize": {"ID", 1, 1, func(r *Runner, args []string) error {
		r.desktop.Registry.Minimize(args[0])
		return nil
	}},
	"restore": {"ID", 1, 1, func(r *Runner, args []string) error {
		r.desktop.Registry.Restore(args[0])
		return nil
	}},
	"maximize": {"ID", 1, 1, func(r *Runner, args []string) error {
		r.desktop.Registry.ToggleMaximize(args[0])
		return nil
	}},
	"retitle": {"ID TITLE", 2, 2, func(r *Runner, args []string) error {
		r.desktop.Registry.SetTitle(args[0], args[1])
		return nil
	}},
	"double-click": {"ID", 1, 1, func(r *Runner, args []string) error {
		r.desktop.Gestures.TitleDoubleClick(args[0])
		return nil
	}},
	"cycle": {"[back]", 0, 1, func(r *Runner, args []string) error {
		backward := len(args) == 1 && args[0] == "back"
		r.desktop.Registry.CycleFocus(!backward)
		return nil
	}},
	"move": {"ID X Y", 3, 3, func(r *Runner, args []string) error {
		v, err := ints([]string{"X", "Y"}, args[1:])
		if err != nil {
			return err
		}
		_, err = r.desktop.MoveWindow(args[0], geometry.Point{X: v[0], Y: v[1]})
		return err
	}},
	"size": {"ID WIDTH HEIGHT", 3, 3, func(r *Runner, args []string) error {
		v, err := ints([]string{"WIDTH", "HEIGHT"}, args[1:])
		if err != nil {
			return err
		}
		_, err = r.desktop.ResizeWindow(args[0], geometry.Size{Width: v[0], Height: v[1]})
		return err
	}},
	"bounds": {"ID X Y WIDTH HEIGHT", 5, 5, func(r *Runner, args []string) error {
		v, err := ints([]string{"X", "Y", "WIDTH", "HEIGHT"}, args[1:])
		if err != nil {
			return err
		}
		r.desktop.Registry.UpdateBounds(args[0], geometry.Bounds{
			Position: geometry.Point{X: v[0], Y: v[1]},
			Size:     geometry.Size{Width: v[2], Height: v[3]},
		})
		return nil
	}},
	"drag": {"ID DX DY", 3, 3, func(r *Runner, args []string) error {
		v, err := ints([]string{"DX", "DY"}, args[1:])
		if err != nil {
			return err
		}
		return r.drag(args[0], "", geometry.Point{X: v[0], Y: v[1]})
	}},
	"resize": {"ID HANDLE DX DY", 4, 4, func(r *Runner, args []string) error {
		v, err := ints([]string{"DX", "DY"}, args[2:])
		if err != nil {
			return err
		}
		return r.drag(args[0], args[1], geometry.Point{X: v[0], Y: v[1]})
	}},
	"cancel-all": {"[REASON]", 0, 1, func(r *Runner, args []string) error {
		reason := gesture.EndBlur
		if len(args) == 1 {
			reason = gesture.EndReason(args[0])
		}
		r.desktop.Gestures.CancelAll(reason)
		return nil
	}},
	"icon-drag": {"ID X Y", 3, 3, func(r *Runner, args []string) error {
		v, err := ints([]string{"X", "Y"}, args[1:])
		if err != nil {
			return err
		}
		_, err = r.desktop.DragIcon(args[0], geometry.Point{X: v[0], Y: v[1]})
		return err
	}},
	"icon-select": {"ID", 1, 1, func(r *Runner, args []string) error {
		_, err := r.desktop.SelectIcon(args[0])
		return err
	}},
	"icon-step": {"next|previous|clear", 1, 1, func(r *Runner, args []string) error {
		step, err := icons.ParseStep(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		_, err = r.desktop.StepIconSelection(step)
		return err
	}},
	"viewport": {"WIDTH HEIGHT", 2, 2, func(r *Runner, args []string) error {
		v, err := ints([]string{"WIDTH", "HEIGHT"}, args)
		if err != nil {
			return err
		}
		return r.desktop.SetViewport(geometry.Size{Width: v[0], Height: v[1]})
	}},
	"flush": {"", 0, 0, func(r *Runner, args []string) error {
		r.clock.flush()
		return nil
	}},
	"list": {"", 0, 0, func(r *Runner, args []string) error {
		active := r.desktop.Registry.ActiveID()
		for _, w := range r.desktop.Registry.WindowsByZ() {
			marker := " "
			switch {
			case w.ID == active:
				marker = "*"
			case w.IsMinimized:
				marker = "_"
			}
			r.printf("%s %-10s z=%-3d %4d,%-4d %4dx%-4d %s\n", marker, w.ID, w.ZIndex,
				w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height, w.Title)
		}
		return nil
	}},
	"icons": {"", 0, 0, func(r *Runner, args []string) error {
		for _, icon := range r.desktop.Icons.Icons() {
			r.printf("%-10s %4d,%-4d cell=%d,%d\n", icon.ID, icon.Position.X, icon.Position.Y, icon.Cell.X, icon.Cell.Y)
		}
		return nil
	}},
	"expect-active": {"ID|none", 1, 1, func(r *Runner, args []string) error {
		want := args[0]
		if want == "none" {
			want = ""
		}
		if got := r.desktop.Registry.ActiveID(); got != want {
			return expectf("active window is %q, want %q", got, want)
		}
		return nil
	}},
	"expect-z-order": {"ID...", 0, -1, func(r *Runner, args []string) error {
		var got []string
		for _, w := range r.desktop.Registry.WindowsByZ() {
			if w.IsOpen && !w.IsMinimized {
				got = append(got, w.ID)
			}
		}
		if strings.Join(got, " ") != strings.Join(args, " ") {
			return expectf("visible windows back to front are [%s], want [%s]", strings.Join(got, " "), strings.Join(args, " "))
		}
		return nil
	}},
	"expect-bounds": {"ID X Y WIDTH HEIGHT", 5, 5, func(r *Runner, args []string) error {
		v, err := ints([]string{"X", "Y", "WIDTH", "HEIGHT"}, args[1:])
		if err != nil {
			return err
		}
		w, ok := r.desktop.Registry.Window(args[0])
		if !ok {
			return expectf("window %q does not exist", args[0])
		}
		want := geometry.Bounds{Position: geometry.Point{X: v[0], Y: v[1]}, Size: geometry.Size{Width: v[2], Height: v[3]}}
		if w.Bounds() != want {
			return expectf("%s bounds are %s, want %s", args[0], formatBounds(w.Bounds()), formatBounds(want))
		}
		return nil
	}},
	"expect-state": {"ID open|minimized|maximized|closing|absent", 2, 2, func(r *Runner, args []string) error {
		id, want := args[0], args[1]
		w, exists := r.desktop.Registry.Window(id)
		var ok bool
		switch want {
		case "absent":
			ok = !exists
		case "open":
			ok = exists && w.IsOpen && !w.IsMinimized
		case "minimized":
			ok = exists && w.IsMinimized
		case "maximized":
			ok = exists && w.IsMaximized
		case "closing":
			ok = r.desktop.Registry.Closing(id)
		default:
			return fmt.Errorf("%w: unknown state %q", ErrUsage, want)
		}
		if !ok {
			return expectf("%s is not %s", id, want)
		}
		return nil
	}},
	"expect-title": {"ID TITLE", 2, 2, func(r *Runner, args []string) error {
		w, ok := r.desktop.Registry.Window(args[0])
		if !ok {
			return expectf("window %q does not exist", args[0])
		}
		if w.Title != args[1] {
			return expectf("%s title is %q, want %q", args[0], w.Title, args[1])
		}
		return nil
	}},
	"expect-exit": {"ID close|minimize|none", 2, 2, func(r *Runner, args []string) error {
		w, ok := r.desktop.Registry.Window(args[0])
		if !ok {
			return expectf("window %q does not exist", args[0])
		}
		if got := w.ExitReason.String(); got != args[1] {
			return expectf("%s exit reason is %s, want %s", args[0], got, args[1])
		}
		return nil
	}},
	"expect-selected": {"ID|none", 1, 1, func(r *Runner, args []string) error {
		got, ok := r.desktop.Selection.Selected()
		if !ok {
			got = "none"
		}
		if got != args[0] {
			return expectf("selected icon is %s, want %s", got, args[0])
		}
		return nil
	}},
	"expect-icon": {"ID COL ROW", 3, 3, func(r *Runner, args []string) error {
		v, err := ints([]string{"COL", "ROW"}, args[1:])
		if err != nil {
			return err
		}
		pos, ok := r.desktop.Icons.Position(args[0])
		if !ok {
			return expectf("icon %q does not exist", args[0])
		}
		cell := r.desktop.Icons.CellAt(pos)
		if cell != (geometry.Point{X: v[0], Y: v[1]}) {
			return expectf("%s is in cell %d,%d, want %d,%d", args[0], cell.X, cell.Y, v[0], v[1])
		}
		return nil
	}},
}

func formatBounds(b geometry.Bounds) string {
	return fmt.Sprintf("%d,%d %dx%d", b.Position.X, b.Position.Y, b.Size.Width, b.Size.Height)
}
