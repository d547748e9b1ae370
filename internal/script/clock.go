package script

import (
	"sync"
	"time"

	"github.com/1broseidon/retrodesk/internal/registry"
)

// manualClock holds deferred callbacks until flush is called, so scripts
// decide when exit transitions complete.
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (c *manualClock) schedule(_ time.Duration, fn func()) registry.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: fn}
	c.pending = append(c.pending, t)
	return t
}

// flush runs every timer that has not been stopped and returns how many ran.
func (c *manualClock) flush() int {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	ran := 0
	for _, t := range pending {
		if t.stopped {
			continue
		}
		t.stopped = true
		t.fn()
		ran++
	}
	return ran
}
