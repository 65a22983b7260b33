// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	minBarWidth         = 10
	barLabelWidth       = 8
	terminalWidthBackup = 80
)

// TerminalWidth returns the current terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// BarWidthFor returns the drawable bar width for a total terminal width.
func BarWidthFor(totalWidth int) int {
	width := totalWidth - barLabelWidth
	if width < minBarWidth {
		return minBarWidth
	}
	return width
}

// RenderErrorBars prints a horizontal bar per character scaled to its error
// rate, sized to the given total width.
func RenderErrorBars(w io.Writer, rows []Row, totalWidth int) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Error Rate"); err != nil {
		return err
	}
	barWidth := BarWidthFor(totalWidth)
	maxRate := 0.0
	for _, r := range rows {
		if r.ErrorRate > maxRate {
			maxRate = r.ErrorRate
		}
	}
	for _, r := range rows {
		filled := 0
		if maxRate > 0 {
			filled = int(math.Round(r.ErrorRate / maxRate * float64(barWidth)))
		}
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("#", filled)
		if _, err := fmt.Fprintf(w, "%s %5.2f %s\n", r.Char, r.ErrorRate, bar); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
