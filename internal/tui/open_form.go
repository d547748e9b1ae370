package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/retrodesk/internal/ipc"
)

// OpenForm collects the id and optional title of a window to open.
type OpenForm struct {
	form   *huh.Form
	active bool
	done   bool

	// Bound to the form inputs; shared across model copies.
	fields *openFields
}

type openFields struct {
	id    string
	title string
}

func (o *OpenForm) Active() bool { return o.active }

// Show resets the fields and builds a new form.
func (o *OpenForm) Show(width int) tea.Cmd {
	o.fields = &openFields{}
	o.done = false

	w := width - 4
	if w < 40 {
		w = 40
	}

	o.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("id").
				Title("Window ID").
				Description("Catalog ids get their default title and geometry").
				Validate(validateWindowID).
				Value(&o.fields.id),

			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Leave empty to use the catalog title").
				Value(&o.fields.title),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)
	o.active = true
	return o.form.Init()
}

func validateWindowID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("id is required")
	}
	if strings.ContainsAny(s, " \t") {
		return errors.New("id must not contain spaces")
	}
	return nil
}

// Update forwards msg to the form. Esc abandons it.
func (o OpenForm) Update(msg tea.Msg) (OpenForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		o.active = false
		o.form = nil
		return o, nil
	}

	form, cmd := o.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		o.form = f
	}
	if o.form.State == huh.StateCompleted {
		o.active = false
		o.done = true
		o.form = nil
		return o, nil
	}
	return o, cmd
}

// Take returns the completed request once.
func (o *OpenForm) Take() (ipc.OpenPayload, bool) {
	if !o.done {
		return ipc.OpenPayload{}, false
	}
	o.done = false
	return ipc.OpenPayload{
		ID:    strings.TrimSpace(o.fields.id),
		Title: strings.TrimSpace(o.fields.title),
	}, true
}

func (o OpenForm) View() string {
	if o.form == nil {
		return ""
	}
	return o.form.View()
}
