package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/chriserin/gk/internal/lexer"
)

// Table prints rows under headers in a bordered table.
func Table(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(trkStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			return s
		})
	fmt.Fprintln(w, t.Render())
}

var eventStyles = map[lexer.Kind]lipgloss.Style{
	lexer.KindComment:   trkStyle,
	lexer.KindTag:       tagStyle,
	lexer.KindStep:      okStyle,
	lexer.KindRow:       idStyle,
	lexer.KindDocString: idStyle,
	lexer.KindEOF:       trkStyle,
}

// EventLine prints one lexer event in its s-expression form.
func EventLine(w io.Writer, e lexer.Event) {
	style, ok := eventStyles[e.Kind]
	if !ok {
		style = kwStyle
	}
	fmt.Fprintln(w, style.Render(e.String()))
}
