package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#D97706")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(dim)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	okStyle    = lipgloss.NewStyle().Foreground(success)
	warnStyle  = lipgloss.NewStyle().Foreground(warning)
	errorStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
)

// renderPairs draws label/value rows inside a titled box.
func renderPairs(title, subtitle string, rows [][2]string) string {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if subtitle != "" {
		b.WriteString("\n" + dimStyle.Render(subtitle))
	}
	b.WriteString("\n")
	for _, r := range rows {
		label := fmt.Sprintf("%-*s", width, r[0])
		b.WriteString("\n" + labelStyle.Render(label) + "  " + r[1])
	}
	return boxStyle.Render(b.String())
}

// renderTable lays out cells in left-aligned columns under a bold header.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return strings.Join(parts, "  ")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(line(header)))
	for _, r := range rows {
		b.WriteString("\n" + line(r))
	}
	return b.String()
}
