package icons

import (
	"fmt"
	"strings"
	"sync"
)

// Selection is the keyboard selection ring over desktop icons.
type Selection struct {
	mu       sync.Mutex
	ids      []string
	selected int // -1 when nothing is selected
}

// NewSelection creates an empty selection over ids.
func NewSelection(ids []string) *Selection {
	return &Selection{ids: append([]string(nil), ids...), selected: -1}
}

// Select selects id. Unknown ids are ignored.
func (s *Selection) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.ids {
		if candidate == id {
			s.selected = i
			return true
		}
	}
	return false
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.selected = -1
	s.mu.Unlock()
}

// Selected returns the selected id.
func (s *Selection) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 {
		return "", false
	}
	return s.ids[s.selected], true
}

// Next moves the selection forward, wrapping; with nothing selected it
// picks the first icon.
func (s *Selection) Next() (string, bool) {
	return s.step(1)
}

// Previous moves the selection backward, wrapping; with nothing selected it
// picks the last icon.
func (s *Selection) Previous() (string, bool) {
	return s.step(-1)
}

func (s *Selection) step(dir int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.ids)
	if n == 0 {
		return "", false
	}
	switch {
	case s.selected < 0 && dir > 0:
		s.selected = 0
	case s.selected < 0:
		s.selected = n - 1
	default:
		s.selected = (s.selected + dir + n) % n
	}
	return s.ids[s.selected], true
}

// Step names a selection ring movement.
type Step string

const (
	StepNext     Step = "next"
	StepPrevious Step = "previous"
	StepClear    Step = "clear"
)

// ParseStep accepts the step names and the short forms "prev" and "none".
func ParseStep(s string) (Step, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next":
		return StepNext, nil
	case "previous", "prev":
		return StepPrevious, nil
	case "clear", "none":
		return StepClear, nil
	default:
		return "", fmt.Errorf("unknown selection step %q (want next, previous or clear)", s)
	}
}

// Apply performs step and returns the selected id, "" when nothing is
// selected afterwards.
func (s *Selection) Apply(step Step) (string, error) {
	var id string
	switch step {
	case StepNext:
		id, _ = s.Next()
	case StepPrevious:
		id, _ = s.Previous()
	case StepClear:
		s.Clear()
	default:
		return "", fmt.Errorf("unknown selection step %q", step)
	}
	return id, nil
}
