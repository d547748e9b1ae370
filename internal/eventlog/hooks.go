package eventlog

import (
	"github.com/1broseidon/retrodesk/internal/geometry"
	"github.com/1broseidon/retrodesk/internal/gesture"
	"github.com/1broseidon/retrodesk/internal/registry"
)

var eventActions = map[registry.EventKind]Action{
	registry.EventOpened:      ActionOpen,
	registry.EventReopened:    ActionReopen,
	registry.EventFocused:     ActionFocus,
	registry.EventMinimized:   ActionMinimize,
	registry.EventMaximized:   ActionMaximize,
	registry.EventUnmaximized: ActionUnmaximize,
	registry.EventBounds:      ActionBounds,
	registry.EventClosing:     ActionClosing,
	registry.EventClosed:      ActionClosed,
	registry.EventCloseDenied: ActionCloseDenied,
	registry.EventRetitled:    ActionRetitle,
}

// RecordRegistry logs every registry event until the returned function is
// called.
func (l *Logger) RecordRegistry(reg *registry.Registry) func() {
	return reg.Subscribe(func(ev registry.Event) {
		action, ok := eventActions[ev.Kind]
		if !ok {
			return
		}
		var details map[string]interface{}
		if w, ok := reg.Window(ev.ID); ok && (ev.Kind == registry.EventBounds || ev.Kind == registry.EventOpened) {
			details = boundsDetails(w.Bounds())
		}
		l.Log(action, ev.ID, details)
	})
}

// RecordGestures logs gesture starts, refusals and terminations on c.
func (l *Logger) RecordGestures(c *gesture.Controller) {
	c.OnBegin(func(id string, phase gesture.Phase, err error) {
		details := map[string]interface{}{"phase": phase.String()}
		if err != nil {
			details["error"] = err.Error()
			l.Log(ActionGestureRefuse, id, details)
			return
		}
		l.Log(ActionGestureBegin, id, details)
	})
	c.OnEnd(func(id string, reason gesture.EndReason, b geometry.Bounds) {
		details := boundsDetails(b)
		details["reason"] = string(reason)
		l.Log(ActionGestureEnd, id, details)
	})
}

func boundsDetails(b geometry.Bounds) map[string]interface{} {
	return map[string]interface{}{
		"x":      b.Position.X,
		"y":      b.Position.Y,
		"width":  b.Size.Width,
		"height": b.Size.Height,
	}
}
