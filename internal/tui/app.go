package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/retrodesk/internal/desktop"
	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/registry"
)

const refreshInterval = time.Second

type tickMsg time.Time

// model is the root bubbletea model for the TUI.
type model struct {
	client Client

	activeTab  Tab
	windowsTab WindowsTab
	iconsTab   IconsTab
	openForm   OpenForm

	// Daemon state; nil status means the last refresh failed.
	status  *desktop.Status
	lastErr string

	width  int
	height int
}

func newModel(client Client) model {
	m := model{
		client:     client,
		activeTab:  TabWindows,
		windowsTab: NewWindowsTab(),
	}
	m.refresh()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh pulls windows, icons and status from the daemon.
func (m *model) refresh() {
	status, err := m.client.GetStatus()
	if err != nil {
		m.status = nil
		m.lastErr = err.Error()
		return
	}
	m.status = status

	windows, err := m.client.ListWindows()
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.windowsTab.SetData(windows)

	iconData, err := m.client.ListIcons()
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.iconsTab.SetData(iconData)
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + message (1) + help bar (1)
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.openForm.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			m.resize(msg)
			return m, nil
		case tickMsg:
			return m, tick()
		}
		var cmd tea.Cmd
		m.openForm, cmd = m.openForm.Update(msg)
		if req, ok := m.openForm.Take(); ok {
			w, err := m.client.Open(req)
			m.report("open", req.ID, w, err)
			m.refresh()
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindows
			return m, nil
		case "2":
			m.activeTab = TabIcons
			return m, nil
		case "r":
			m.lastErr = ""
			m.refresh()
			return m, nil
		}

		if m.activeTab == TabWindows {
			if handled, cmd := m.windowKey(msg.String()); handled {
				return m, cmd
			}
		} else if m.iconKey(msg.String()) {
			return m, nil
		}
	}

	if m.activeTab == TabWindows {
		var cmd tea.Cmd
		m.windowsTab, cmd = m.windowsTab.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.windowsTab, _ = m.windowsTab.Update(sub)
	m.iconsTab.SetSize(sub.Width, sub.Height)
}

// windowKey runs the window action bound to key against the selection.
func (m *model) windowKey(key string) (bool, tea.Cmd) {
	switch key {
	case "o":
		return true, m.openForm.Show(m.width)
	case "n", "N":
		w, err := m.client.CycleFocus(key == "N")
		m.report("cycle", "", w, err)
		m.refresh()
		return true, nil
	}

	var action func(string) (*registry.Window, error)
	var verb string
	switch key {
	case "enter":
		action, verb = m.client.Focus, "focus"
	case "m":
		action, verb = m.client.Minimize, "minimize"
	case "z":
		action, verb = m.client.ToggleMaximize, "maximize"
	case "x":
		action, verb = m.client.Close, "close"
	default:
		return false, nil
	}

	id, ok := m.windowsTab.Selected()
	if !ok {
		return true, nil
	}
	w, err := action(id)
	m.report(verb, id, w, err)
	if err == nil && verb == "close" && w != nil && !w.CanClose {
		m.lastErr = fmt.Sprintf("%s cannot be closed", id)
	}
	m.refresh()
	return true, nil
}

// iconKey moves the icon selection ring.
func (m *model) iconKey(key string) bool {
	var step icons.Step
	switch key {
	case "right", "l":
		step = icons.StepNext
	case "left", "h":
		step = icons.StepPrevious
	case "esc":
		step = icons.StepClear
	default:
		return false
	}
	if _, err := m.client.StepIconSelection(step); err != nil {
		m.lastErr = fmt.Sprintf("select failed: %v", err)
	} else {
		m.lastErr = ""
	}
	m.refresh()
	return true
}

func (m *model) report(verb, id string, w *registry.Window, err error) {
	switch {
	case err != nil:
		m.lastErr = fmt.Sprintf("%s failed: %v", verb, err)
	case w == nil && id != "":
		m.lastErr = fmt.Sprintf("%s: no window %q", verb, id)
	default:
		m.lastErr = ""
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)

	var content string
	switch {
	case m.openForm.Active():
		content = lipgloss.NewStyle().Width(m.width).Height(m.contentHeight()).Render(m.openForm.View())
	case m.activeTab == TabWindows:
		content = m.windowsTab.View()
	default:
		content = m.iconsTab.View()
	}

	message := ""
	if m.lastErr != "" {
		message = errorStyle.Render(m.lastErr)
	}
	helpBar := renderHelpBar(m.activeTab, m.width)

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, message, helpBar)
}
