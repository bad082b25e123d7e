package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Cell:   lipgloss.NewStyle(),
		Border: lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Table is implemented by results that can be shown as rows.
type Table interface {
	Header() []string
	Rows() [][]string
}

// MaxCellWidth bounds the display width of a table cell.
const MaxCellWidth = 40

// RenderTable draws t with rounded borders:
//
//	╭───┬─────────╮
//	│ # │ OP      │
//	├───┼─────────┤
//	│ 0 │ enqueue │
//	╰───┴─────────╯
func RenderTable(t Table, s Styles) string {
	header := t.Header()
	rows := t.Rows()

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(header))
		for i := range header {
			if i >= len(row) {
				continue
			}
			text := row[i]
			if lipgloss.Width(text) > MaxCellWidth {
				text = truncateString(text, MaxCellWidth-1) + "…"
			}
			cells[r][i] = text
			widths[i] = max(widths[i], lipgloss.Width(text))
		}
	}

	bc := s.Border
	rule := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return bc.Render(left + strings.Join(parts, mid) + right)
	}
	line := func(texts []string, style lipgloss.Style) string {
		var sb strings.Builder
		sb.WriteString(bc.Render("│"))
		for i, w := range widths {
			text := texts[i]
			sb.WriteString(" " + style.Render(text) + strings.Repeat(" ", w-lipgloss.Width(text)) + " ")
			sb.WriteString(bc.Render("│"))
		}
		return sb.String()
	}

	lines := []string{rule("╭", "┬", "╮"), line(header, s.Header), rule("├", "┼", "┤")}
	for _, row := range cells {
		lines = append(lines, line(row, s.Cell))
	}
	lines = append(lines, rule("╰", "┴", "╯"))
	return strings.Join(lines, "\n")
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}

// FormatBytes formats a byte count with a binary unit.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n) / 1024
	units := []string{"KB", "MB", "GB"}
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}
