package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// printer renders command output. Colors are only emitted when the
// destination is a terminal that supports them.
type printer struct {
	w      io.Writer
	title  lipgloss.Style
	header lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:      w,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		header: r.NewStyle().Bold(true).Padding(0, 1),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	}
}

func (p *printer) heading(format string, args ...any) {
	fmt.Fprintln(p.w, p.title.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(p.w, t.Render())
}

// keyValues prints label/value pairs as a two-column table.
func (p *printer) keyValues(pairs [][2]string) {
	rows := make([][]string, len(pairs))
	for i, kv := range pairs {
		rows[i] = []string{kv[0], kv[1]}
	}
	p.table([]string{"Property", "Value"}, rows)
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
