// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kakitori/internal/model"
)

// Each terminal cell holds a 2x4 braille dot block, so the 109x109 drawing
// grid maps to a 55x28 cell canvas.
const (
	cellDotsX = 2
	cellDotsY = 4
)

type layer int

const (
	layerNone layer = iota
	layerHint
	layerCanonical
	layerAccepted
	layerActive
)

var layerStyles = map[layer]lipgloss.Style{
	layerHint:      hintStyle,
	layerCanonical: canonicalStyle,
	layerAccepted:  acceptedStyle,
	layerActive:    activeStyle,
}

// canvas accumulates braille dots and label overlays for one frame.
type canvas struct {
	cellsW int
	cellsH int
	masks  [][]uint8
	layers [][]layer
	labels map[[2]int]labelCell
}

type labelCell struct {
	text string
	l    layer
}

func newCanvas() *canvas {
	cellsW := (model.GridSize + cellDotsX - 1) / cellDotsX
	cellsH := (model.GridSize + cellDotsY - 1) / cellDotsY
	masks := make([][]uint8, cellsH)
	layers := make([][]layer, cellsH)
	for y := range masks {
		masks[y] = make([]uint8, cellsW)
		layers[y] = make([]layer, cellsW)
	}
	return &canvas{
		cellsW: cellsW,
		cellsH: cellsH,
		masks:  masks,
		layers: layers,
		labels: map[[2]int]labelCell{},
	}
}

// polyline draws connected segments in grid coordinates.
func (c *canvas) polyline(points []model.Point, l layer) {
	if len(points) == 1 {
		c.setDot(int(points[0].X), int(points[0].Y), l)
		return
	}
	for i := 1; i < len(points); i++ {
		c.line(points[i-1], points[i], l)
	}
}

func (c *canvas) line(a, b model.Point, l layer) {
	drawLineDots(int(a.X), int(a.Y), int(b.X), int(b.Y), func(x, y int) {
		c.setDot(x, y, l)
	})
}

func (c *canvas) setDot(x, y int, l layer) {
	if x < 0 || y < 0 || x >= model.GridSize || y >= model.GridSize {
		return
	}
	cellX := x / cellDotsX
	cellY := y / cellDotsY
	c.masks[cellY][cellX] |= brailleDotMask(x%cellDotsX, y%cellDotsY)
	if l > c.layers[cellY][cellX] {
		c.layers[cellY][cellX] = l
	}
}

// label pins short text at a grid coordinate, replacing whatever dots the
// cell holds.
func (c *canvas) label(text string, x, y float64, l layer) {
	cellX := int(x) / cellDotsX
	cellY := int(y) / cellDotsY
	if cellX < 0 || cellY < 0 || cellX >= c.cellsW || cellY >= c.cellsH {
		return
	}
	c.labels[[2]int{cellX, cellY}] = labelCell{text: text, l: l}
}

func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.cellsH; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.cellsW; x++ {
			if cell, ok := c.labels[[2]int{x, y}]; ok {
				b.WriteString(layerStyles[cell.l].Render(cell.text))
				if skip := runewidth.StringWidth(cell.text) - 1; skip > 0 {
					x += skip
				}
				continue
			}
			mask := c.masks[y][x]
			if mask == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(layerStyles[c.layers[y][x]].Render(string(brailleFromMask(mask))))
		}
	}
	return b.String()
}

// dotToCell converts a grid coordinate to the cell column holding it.
func dotToCell(x, y int) (int, int) {
	return x / cellDotsX, y / cellDotsY
}

// cellToDot converts a cell coordinate to the grid point at its center.
func cellToDot(cellX, cellY int) model.Point {
	return model.Point{
		X: float64(cellX*cellDotsX) + float64(cellDotsX)/2 - 0.5,
		Y: float64(cellY*cellDotsY) + float64(cellDotsY)/2 - 0.5,
	}
}

func drawLineDots(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func formatLabel(number int) string {
	return fmt.Sprintf("%d", number)
}
