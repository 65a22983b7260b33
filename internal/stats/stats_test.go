package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/kakitori/internal/model"
)

func recordsFixture() map[string]model.StatsRecord {
	attempt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return map[string]model.StatsRecord{
		"日": {
			TotalAttempts:      4,
			ConsecutiveCorrect: 2,
			TotalErrors:        2,
			TotalTimeMs:        8000,
			LastAttempt:        &attempt,
		},
		"本": {
			TotalAttempts:        2,
			ConsecutiveCorrect:   0,
			TotalErrors:          3,
			TotalDirectionErrors: 1,
			TotalTimeMs:          6000,
		},
	}
}

func TestRowFromRecord(t *testing.T) {
	rec := recordsFixture()["本"]
	row := RowFromRecord("本", rec)
	if row.ErrorRate != 2.0 {
		t.Fatalf("expected error rate 2.0, got %v", row.ErrorRate)
	}
	if row.AvgTimeMs != 3000 {
		t.Fatalf("expected avg time 3000ms, got %v", row.AvgTimeMs)
	}
}

func TestBuildRowsSortByErrors(t *testing.T) {
	rows := BuildRows(recordsFixture(), model.StatsConfig{Sort: "errors"})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Char != "本" || rows[1].Char != "日" {
		t.Fatalf("unexpected order: %q, %q", rows[0].Char, rows[1].Char)
	}
}

func TestBuildRowsFilterByChars(t *testing.T) {
	rows := BuildRows(recordsFixture(), model.StatsConfig{Chars: "日x語"})
	if len(rows) != 1 || rows[0].Char != "日" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestBuildRowsSortRecent(t *testing.T) {
	rows := BuildRows(recordsFixture(), model.StatsConfig{Sort: "recent"})
	// The row without a last attempt sorts after the one with one.
	if rows[0].Char != "日" || rows[1].Char != "本" {
		t.Fatalf("unexpected order: %q, %q", rows[0].Char, rows[1].Char)
	}
}

func TestRenderCharTable(t *testing.T) {
	rows := BuildRows(recordsFixture(), model.StatsConfig{})
	var b strings.Builder
	if err := RenderCharTable(&b, rows); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "日") || !strings.Contains(out, "本") {
		t.Fatalf("expected both characters in output:\n%s", out)
	}
	if !strings.Contains(out, "never") {
		t.Fatalf("expected placeholder for missing last attempt:\n%s", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderSummary(&b, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(b.String(), "No character stats found.") {
		t.Fatalf("unexpected output: %q", b.String())
	}
}

func TestWeakestChars(t *testing.T) {
	rows := BuildRows(recordsFixture(), model.StatsConfig{})
	weak := WeakestChars(rows, 1)
	if len(weak) != 1 || weak[0] != "本" {
		t.Fatalf("unexpected weak chars: %v", weak)
	}
}
