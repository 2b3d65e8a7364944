package show

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

// Output is plain text; the ASCII profile keeps lipgloss from emitting escapes.
var renderer = lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii))

var cellStyle = renderer.NewStyle().Padding(0, 2, 0, 0)

func renderTable(header []string, rows [][]string) string {
	if len(header) == 0 && len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		Wrap(false).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle }).
		Headers(header...).
		Rows(rows...)

	lines := strings.Split(t.Render(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
