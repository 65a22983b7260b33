// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/verte-zerg/kakitori/internal/model"
)

// Row holds the derived statistics for a single character.
type Row struct {
	Char            string
	Attempts        int
	Streak          int
	Errors          int
	DirectionErrors int
	Redraws         int
	ErrorRate       float64
	AvgTimeMs       float64
	LastAttempt     *time.Time
}

// RowFromRecord derives display metrics from a stored record.
func RowFromRecord(char string, rec model.StatsRecord) Row {
	row := Row{
		Char:            char,
		Attempts:        rec.TotalAttempts,
		Streak:          rec.ConsecutiveCorrect,
		Errors:          rec.TotalErrors,
		DirectionErrors: rec.TotalDirectionErrors,
		Redraws:         rec.TotalRedraws,
		LastAttempt:     rec.LastAttempt,
	}
	if rec.TotalAttempts > 0 {
		row.ErrorRate = float64(rec.TotalErrors+rec.TotalDirectionErrors) / float64(rec.TotalAttempts)
		row.AvgTimeMs = float64(rec.TotalTimeMs) / float64(rec.TotalAttempts)
	}
	return row
}

// BuildRows derives sorted rows from stored records, optionally restricted
// to the characters appearing in cfg.Chars.
func BuildRows(records map[string]model.StatsRecord, cfg model.StatsConfig) []Row {
	var filter map[string]struct{}
	if cfg.Chars != "" {
		filter = make(map[string]struct{})
		for _, r := range cfg.Chars {
			if r >= 0x4E00 && r <= 0x9FFF {
				filter[string(r)] = struct{}{}
			}
		}
	}

	rows := make([]Row, 0, len(records))
	for char, rec := range records {
		if filter != nil {
			if _, ok := filter[char]; !ok {
				continue
			}
		}
		rows = append(rows, RowFromRecord(char, rec))
	}
	sortRows(rows, cfg.Sort)
	return rows
}

func sortRows(rows []Row, key string) {
	sort.Slice(rows, func(i, j int) bool {
		switch key {
		case "attempts":
			if rows[i].Attempts != rows[j].Attempts {
				return rows[i].Attempts > rows[j].Attempts
			}
		case "errors":
			if rows[i].ErrorRate != rows[j].ErrorRate {
				return rows[i].ErrorRate > rows[j].ErrorRate
			}
		case "streak":
			if rows[i].Streak != rows[j].Streak {
				return rows[i].Streak > rows[j].Streak
			}
		case "recent":
			ti := rows[i].LastAttempt
			tj := rows[j].LastAttempt
			if ti != nil && tj != nil && !ti.Equal(*tj) {
				return ti.After(*tj)
			}
			if (ti != nil) != (tj != nil) {
				return ti != nil
			}
		}
		return rows[i].Char < rows[j].Char
	})
}

// RenderSummary prints aggregate totals across all rows.
func RenderSummary(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	var attempts, errors, dirErrors, redraws int
	for _, r := range rows {
		attempts += r.Attempts
		errors += r.Errors
		dirErrors += r.DirectionErrors
		redraws += r.Redraws
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Characters: %d\n", len(rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Stroke Errors: %d\n", errors); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Direction Errors: %d\n", dirErrors); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Redraws: %d\n", redraws); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCharTable prints the per-character table.
func RenderCharTable(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}

	headers := []string{"Char", "Attempts", "Streak", "Errors", "Dir Errors", "Redraws", "Avg Time (s)", "Last Attempt"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		last := "never"
		if r.LastAttempt != nil {
			last = r.LastAttempt.Local().Format("2006-01-02 15:04")
		}
		tableRows = append(tableRows, []string{
			r.Char,
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Streak),
			fmt.Sprintf("%d", r.Errors),
			fmt.Sprintf("%d", r.DirectionErrors),
			fmt.Sprintf("%d", r.Redraws),
			fmt.Sprintf("%.1f", r.AvgTimeMs/1000),
			last,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	lines := formatTable(headers, tableRows, rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
