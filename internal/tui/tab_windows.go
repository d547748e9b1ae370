package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/retrodesk/internal/ipc"
	"github.com/1broseidon/retrodesk/internal/registry"
)

// windowItem is one dock entry in the windows list.
type windowItem struct {
	entry  registry.DockEntry
	window registry.Window
}

func (i windowItem) Title() string {
	switch {
	case i.entry.Active:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " " + i.entry.Title
	case i.entry.Minimized:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("_") + " " + i.entry.Title
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render("○") + " " + i.entry.Title
	}
}

func (i windowItem) Description() string {
	var flags []string
	if i.window.IsMinimized {
		flags = append(flags, "minimized")
	}
	if i.window.IsMaximized {
		flags = append(flags, "maximized")
	}
	if len(flags) == 0 {
		return i.entry.ID
	}
	return i.entry.ID + " (" + strings.Join(flags, ", ") + ")"
}

func (i windowItem) FilterValue() string { return i.entry.ID }

// WindowsTab lists the dock: every open window in open order.
type WindowsTab struct {
	list   list.Model
	width  int
	height int
}

// NewWindowsTab creates an empty windows tab.
func NewWindowsTab() WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Dock"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return WindowsTab{list: l}
}

// SetData replaces the list contents, keeping the cursor on the same
// window when it is still open.
func (w *WindowsTab) SetData(data *ipc.WindowsData) {
	selected, _ := w.Selected()

	byID := make(map[string]registry.Window, len(data.Windows))
	for _, win := range data.Windows {
		byID[win.ID] = win
	}
	items := make([]list.Item, 0, len(data.Dock))
	cursor := 0
	for i, entry := range data.Dock {
		if entry.ID == selected {
			cursor = i
		}
		items = append(items, windowItem{entry: entry, window: byID[entry.ID]})
	}
	w.list.SetItems(items)
	if len(items) > 0 {
		w.list.Select(cursor)
	}
}

// Selected returns the id of the highlighted window.
func (w WindowsTab) Selected() (string, bool) {
	item, ok := w.list.SelectedItem().(windowItem)
	if !ok {
		return "", false
	}
	return item.entry.ID, true
}

// Update handles messages for the windows tab.
func (w WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = msg.Width
		w.height = msg.Height
		w.list.SetSize(w.leftWidth(), w.height)
		return w, nil
	}

	var cmd tea.Cmd
	w.list, cmd = w.list.Update(msg)
	return w, cmd
}

func (w WindowsTab) leftWidth() int {
	lw := w.width * 2 / 5
	if lw < 20 {
		lw = 20
	}
	return lw
}

// View implements tea.Model.
func (w WindowsTab) View() string {
	if w.width == 0 || w.height == 0 {
		return ""
	}

	leftWidth := w.leftWidth()
	rightWidth := w.width - leftWidth
	if rightWidth < 10 {
		rightWidth = 10
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(w.height).
		Render(w.list.View())

	var right string
	if item, ok := w.list.SelectedItem().(windowItem); ok {
		right = renderWindowDetail(item.window, rightWidth, w.height)
	} else {
		right = lipgloss.NewStyle().
			Width(rightWidth).
			Height(w.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No open windows\nPress o to open one")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func renderWindowDetail(win registry.Window, width, height int) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(win.Title) + "\n\n")
	row := func(name, value string) {
		b.WriteString(label.Render(name) + value + "\n")
	}
	row("id", win.ID)
	row("position", fmt.Sprintf("%d,%d", win.Position.X, win.Position.Y))
	row("size", fmt.Sprintf("%dx%d", win.Size.Width, win.Size.Height))
	row("z-index", fmt.Sprintf("%d", win.ZIndex))
	row("minimized", fmt.Sprintf("%t", win.IsMinimized))
	row("maximized", fmt.Sprintf("%t", win.IsMaximized))
	row("closable", fmt.Sprintf("%t", win.CanClose))
	if win.ExitReason != registry.ExitNone {
		row("leaving", win.ExitReason.String())
	}
	if rb := win.RestoreBounds; rb != nil {
		row("restore to", fmt.Sprintf("%d,%d %dx%d", rb.Position.X, rb.Position.Y, rb.Size.Width, rb.Size.Height))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 2).
		Render(b.String())
}
