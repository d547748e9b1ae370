package viewport

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/retrodesk/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	ID   int
	Name string
	geometry.Rect
}

// X11 sizes the viewport to the monitor under the pointer, trimmed to the
// EWMH work area so panels of the host desktop are not covered.
type X11 struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	fallback geometry.Size

	mu   sync.Mutex
	last geometry.Size
}

// NewX11 connects to the X server named by DISPLAY.
func NewX11(fallback geometry.Size) (*X11, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	return &X11{
		xu:       xu,
		root:     xu.RootWin(),
		fallback: fallback,
		last:     fallback,
	}, nil
}

// Size returns the active monitor size. Query failures return the last
// good size.
func (x *X11) Size() geometry.Size {
	x.mu.Lock()
	defer x.mu.Unlock()

	mon, err := x.activeMonitor()
	if err != nil || mon.Width <= 0 || mon.Height <= 0 {
		return x.last
	}
	x.last = mon.Extent()
	return x.last
}

// Close cleanly disconnects from the X11 server
func (x *X11) Close() {
	x.xu.Conn().Close()
}

// Monitors retrieves all active monitors using XRandR
func (x *X11) Monitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResources(x.xu.Conn(), x.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(x.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if outputInfo, err := randr.GetOutputInfo(x.xu.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Rect: geometry.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}
	return monitors, nil
}

func (x *X11) activeMonitor() (*Monitor, error) {
	monitors, err := x.Monitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	active := &monitors[0]
	if pointer, err := xproto.QueryPointer(x.xu.Conn(), x.root).Reply(); err == nil {
		p := geometry.Point{X: int(pointer.RootX), Y: int(pointer.RootY)}
		for i := range monitors {
			if monitors[i].Contains(p) {
				active = &monitors[i]
				break
			}
		}
	}

	workArea, err := ewmh.WorkareaGet(x.xu)
	if err != nil || len(workArea) == 0 {
		return active, nil
	}
	desktop := 0
	if current, err := ewmh.CurrentDesktopGet(x.xu); err == nil && int(current) < len(workArea) {
		desktop = int(current)
	}
	wa := workArea[desktop]
	clipped := intersect(active.Rect, geometry.Rect{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)})
	if clipped.Width > 0 && clipped.Height > 0 {
		active.Rect = clipped
	}
	return active, nil
}

func intersect(a, b geometry.Rect) geometry.Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.Right(), b.Right())
	y2 := min(a.Bottom(), b.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}
	}
	return geometry.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
