package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/kakitori/internal/model"
)

func TestBrailleMaskCoversAllDots(t *testing.T) {
	seen := map[uint8]bool{}
	for x := 0; x < cellDotsX; x++ {
		for y := 0; y < cellDotsY; y++ {
			mask := brailleDotMask(x, y)
			if mask == 0 {
				t.Fatalf("no mask for dot (%d,%d)", x, y)
			}
			if seen[mask] {
				t.Fatalf("duplicate mask for dot (%d,%d)", x, y)
			}
			seen[mask] = true
		}
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 distinct masks, got %d", len(seen))
	}
}

func TestCanvasHorizontalLine(t *testing.T) {
	c := newCanvas()
	c.line(model.Point{X: 10, Y: 52}, model.Point{X: 90, Y: 52}, layerCanonical)
	for x := 10; x <= 90; x++ {
		cellX, cellY := dotToCell(x, 52)
		if c.masks[cellY][cellX] == 0 {
			t.Fatalf("expected dots in cell (%d,%d)", cellX, cellY)
		}
		if c.layers[cellY][cellX] != layerCanonical {
			t.Fatalf("unexpected layer in cell (%d,%d)", cellX, cellY)
		}
	}
}

func TestCanvasLayerPriority(t *testing.T) {
	c := newCanvas()
	c.setDot(10, 10, layerCanonical)
	c.setDot(10, 10, layerActive)
	c.setDot(10, 10, layerHint)
	cellX, cellY := dotToCell(10, 10)
	if c.layers[cellY][cellX] != layerActive {
		t.Fatalf("expected active layer to win, got %v", c.layers[cellY][cellX])
	}
}

func TestCanvasIgnoresOutOfRangeDots(t *testing.T) {
	c := newCanvas()
	c.setDot(-1, 5, layerActive)
	c.setDot(5, model.GridSize, layerActive)
	for y := range c.masks {
		for x := range c.masks[y] {
			if c.masks[y][x] != 0 {
				t.Fatalf("expected empty canvas, found dots in cell (%d,%d)", x, y)
			}
		}
	}
}

func TestCanvasRenderLabel(t *testing.T) {
	c := newCanvas()
	c.label("3", 54, 54, layerCanonical)
	out := c.render()
	if !strings.Contains(out, "3") {
		t.Fatalf("expected label in rendered output")
	}
}

func TestCellToDotWithinGrid(t *testing.T) {
	c := newCanvas()
	for _, cell := range [][2]int{{0, 0}, {c.cellsW - 1, c.cellsH - 1}, {27, 13}} {
		p := cellToDot(cell[0], cell[1])
		if p.X < 0 || p.Y < 0 || p.X >= model.GridSize+float64(cellDotsX) || p.Y >= model.GridSize+float64(cellDotsY) {
			t.Fatalf("cell (%d,%d) maps far outside grid: %+v", cell[0], cell[1], p)
		}
	}
}
