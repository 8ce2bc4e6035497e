package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#39ff14")
	labelColor   = lipgloss.Color("#FFFFFF")
	mutedColor   = lipgloss.Color("#888888")
	errorColor   = lipgloss.Color("#ff5f5f")
	warnColor    = lipgloss.Color("#ffaf00")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	cellStyle   = lipgloss.NewStyle().Foreground(labelColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
	warnStyle   = lipgloss.NewStyle().Foreground(warnColor)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
)

const columnGap = 2

// renderTable lays rows out in left-aligned columns under a bold header.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range headers {
			if i < len(row) {
				widths[i] = max(widths[i], lipgloss.Width(row[i]))
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			w := widths[i]
			if i < len(headers)-1 {
				w += columnGap
			}
			parts[i] = style.Width(w).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	lines := []string{renderRow(headers, headerStyle)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, cellStyle))
	}
	if len(rows) == 0 {
		lines = append(lines, mutedStyle.Render("(none)"))
	}
	return strings.Join(lines, "\n")
}
