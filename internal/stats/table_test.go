package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Attempts", "Streak"}
	rows := [][]string{
		{"日", "12", "3"},
		{"語", "5", "10"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char Attempts Streak" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	// A kanji occupies two cells, so it pads with two fewer spaces.
	if lines[1] != "日         12      3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "語          5     10" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestBarWidthFor(t *testing.T) {
	if got := BarWidthFor(80); got != 80-barLabelWidth {
		t.Fatalf("expected width %d, got %d", 80-barLabelWidth, got)
	}
	if got := BarWidthFor(0); got != minBarWidth {
		t.Fatalf("expected min width %d, got %d", minBarWidth, got)
	}
}
