package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/pinchtab/swiftcheck/internal/report"
	"golang.org/x/term"
)

var (
	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}).
			Bold(true)
	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true)
)

func verdict(s report.Summary) string {
	if s.OK() {
		return "PASS"
	}
	return "FAIL"
}

// printVerdict writes the final PASS/FAIL line, colored when w is a terminal.
func printVerdict(w io.Writer, s report.Summary) {
	text := verdict(s)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if s.OK() {
			text = passStyle.Render(text)
		} else {
			text = failStyle.Render(text)
		}
	}
	_, _ = fmt.Fprintf(w, "\n%s run %s\n", text, s.RunID)
}
