package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// summaryBoxWidth is the inner width of the compliance summary box.
const summaryBoxWidth = 56

// boxBorderColor returns the Lip Gloss color used for summary box borders.
func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }

// boxTitleColor returns the Lip Gloss color used for summary box titles.
func boxTitleColor() lipgloss.Color { return lipgloss.Color("39") }

// colorWarning highlights lines flagged as needing attention.
func colorWarning() lipgloss.Color { return lipgloss.Color("214") }

// SummaryLine is one labelled value in the summary box.
type SummaryLine struct {
	Label string
	Value string
	Alert bool
}

// Summary is the compliance headline drawn above table output.
type Summary struct {
	Title string
	Lines []SummaryLine
}

// isWriterTerminal reports whether w is a terminal file.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// RenderSummary draws s as a bordered box on terminals and as plain
// "label: value" lines elsewhere.
func RenderSummary(w io.Writer, s Summary) error {
	if isWriterTerminal(w) {
		return renderStyledSummary(w, s)
	}
	return renderPlainSummary(w, s)
}

func renderStyledSummary(w io.Writer, s Summary) error {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(boxTitleColor())
	labelStyle := lipgloss.NewStyle().Faint(true)
	alertStyle := lipgloss.NewStyle().Bold(true).Foreground(colorWarning())
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(summaryBoxWidth)

	labelWidth := summaryLabelWidth(s.Lines)
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	for _, l := range s.Lines {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, l.Label)))
		b.WriteString("  ")
		if l.Alert {
			b.WriteString(alertStyle.Render(l.Value))
		} else {
			b.WriteString(l.Value)
		}
	}
	_, err := fmt.Fprintln(w, borderStyle.Render(b.String()))
	return err
}

func renderPlainSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, s.Title); err != nil {
		return err
	}
	labelWidth := summaryLabelWidth(s.Lines)
	for _, l := range s.Lines {
		marker := ""
		if l.Alert {
			marker = " (!)"
		}
		if _, err := fmt.Fprintf(w, "  %-*s  %s%s\n", labelWidth, l.Label+":", l.Value, marker); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func summaryLabelWidth(lines []SummaryLine) int {
	width := 0
	for _, l := range lines {
		if n := len(l.Label) + 1; n > width {
			width = n
		}
	}
	return width
}
