package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/belphemur/capacity-planner/internal/capacity"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleBold   = lipgloss.NewStyle().Bold(true)
)

// loadStyle colours a daily load: free, partly booked, full, over-allocated
func loadStyle(v float64) lipgloss.Style {
	switch {
	case v > 1+1e-9:
		return styleRed
	case v >= 1-1e-9:
		return styleYellow
	case v > 0:
		return styleGreen
	default:
		return styleDim
	}
}

func badgeStyle(b capacity.Badge) lipgloss.Style {
	switch b {
	case capacity.BadgeError:
		return styleRed
	case capacity.BadgeWarning:
		return styleYellow
	default:
		return styleDim
	}
}

// header renders a section title with an underline
func header(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return fmt.Sprintf("%s\n%s", styleHeader.Render(text), styleDim.Render(line))
}

// cell pads s to width columns, right aligned
func cell(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// label pads s to width columns, left aligned and truncated
func label(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		r = append(r[:width-1], '…')
	}
	out := string(r)
	if pad := width - lipgloss.Width(out); pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	return out
}

// renderTable renders an aligned table with a header separator line
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			b.WriteString(style(c))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", max(0, widths[i]-lipgloss.Width(c))+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return styleHeader.Render(s) })
	for i, w := range widths {
		b.WriteString(styleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
