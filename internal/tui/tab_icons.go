package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/retrodesk/internal/icons"
	"github.com/1broseidon/retrodesk/internal/ipc"
)

// IconsTab draws the icon grid as a character map.
type IconsTab struct {
	data   *ipc.IconsData
	width  int
	height int
}

func (t *IconsTab) SetData(data *ipc.IconsData) {
	t.data = data
}

func (t *IconsTab) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// View renders one column per grid cell with the icon id truncated to fit.
func (t IconsTab) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	if t.data == nil || t.data.Cols == 0 || t.data.Rows == 0 {
		return lipgloss.NewStyle().
			Width(t.width).
			Height(t.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No icon grid")
	}

	cellWidth := t.width / t.data.Cols
	if cellWidth < 4 {
		cellWidth = 4
	}
	if cellWidth > 14 {
		cellWidth = 14
	}

	grid := iconGrid(t.data)
	var b strings.Builder
	for row := 0; row < t.data.Rows; row++ {
		for col := 0; col < t.data.Cols; col++ {
			b.WriteString(renderCell(grid[row][col], cellWidth, t.data.Selected))
		}
		b.WriteString("\n")
	}
	for _, ic := range t.data.Icons {
		if ic.Trash {
			b.WriteString(fmt.Sprintf("\n%s at %d,%d (pinned bottom-right)\n", ic.ID, ic.Position.X, ic.Position.Y))
		}
	}
	b.WriteString("\n")
	summary := fmt.Sprintf("grid %dx%d, %d icons", t.data.Cols, t.data.Rows, len(t.data.Icons))
	if t.data.Selected != "" {
		summary += ", selected " + t.data.Selected
	}
	b.WriteString(dimStyle.Render(summary))

	return lipgloss.NewStyle().Width(t.width).Height(t.height).Render(b.String())
}

// iconGrid indexes icons by cell. The trash and anything off-grid are skipped.
func iconGrid(data *ipc.IconsData) [][]*icons.Icon {
	grid := make([][]*icons.Icon, data.Rows)
	for row := range grid {
		grid[row] = make([]*icons.Icon, data.Cols)
	}
	for i := range data.Icons {
		ic := &data.Icons[i]
		if ic.Cell.Y < 0 || ic.Cell.Y >= data.Rows || ic.Cell.X < 0 || ic.Cell.X >= data.Cols {
			continue
		}
		grid[ic.Cell.Y][ic.Cell.X] = ic
	}
	return grid
}

func renderCell(ic *icons.Icon, width int, selected string) string {
	style := lipgloss.NewStyle().Width(width)
	if ic == nil {
		return style.Foreground(lipgloss.Color("236")).Render("·")
	}
	name := ic.ID
	if len(name) > width-1 {
		name = name[:width-1]
	}
	if ic.ID == selected {
		return style.Reverse(true).Foreground(lipgloss.Color("214")).Render(name)
	}
	return style.Foreground(lipgloss.Color("75")).Render(name)
}
