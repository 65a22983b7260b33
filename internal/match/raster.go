// Package match validates freehand strokes against canonical stroke geometry.
package match

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/verte-zerg/kakitori/internal/model"
	"github.com/verte-zerg/kakitori/internal/svgpath"
)

// discSegments is the polygon resolution used for round caps and joins.
const discSegments = 16

// corridor rasterizes the canonical path stroked at the given width into an
// opacity mask at the grid resolution. The stroked outline is built as fill
// geometry: a thick quad per polyline segment plus a disc at every vertex
// for round caps and joins. All shapes share one winding direction so
// overlaps accumulate instead of cancelling.
func corridor(d string, width float64, grid int) *image.Alpha {
	r := vector.NewRasterizer(grid, grid)
	half := width / 2
	for _, polyline := range svgpath.Flatten(d) {
		for i, p := range polyline {
			if i > 0 {
				addSegmentQuad(r, polyline[i-1], p, half)
			}
			addDisc(r, p, half)
		}
	}
	mask := image.NewAlpha(image.Rect(0, 0, grid, grid))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func addSegmentQuad(r *vector.Rasterizer, a, b model.Point, half float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return
	}
	// Perpendicular offset of half the corridor width.
	nx := -dy / length * half
	ny := dx / length * half
	r.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	r.LineTo(float32(b.X+nx), float32(b.Y+ny))
	r.LineTo(float32(b.X-nx), float32(b.Y-ny))
	r.LineTo(float32(a.X-nx), float32(a.Y-ny))
	r.ClosePath()
}

func addDisc(r *vector.Rasterizer, center model.Point, radius float64) {
	if radius <= 0 {
		return
	}
	// Clockwise to match the quad winding.
	for i := 0; i <= discSegments; i++ {
		angle := -2 * math.Pi * float64(i) / discSegments
		x := float32(center.X + radius*math.Cos(angle))
		y := float32(center.Y + radius*math.Sin(angle))
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
}

// maskBounds returns the tight bounding box of opaque pixels, or ok=false
// when the mask is fully transparent.
func maskBounds(mask *image.Alpha) (minX, minY, maxX, maxY int, ok bool) {
	bounds := mask.Bounds()
	minX, minY = bounds.Max.X, bounds.Max.Y
	maxX, maxY = -1, -1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := mask.Pix[(y-bounds.Min.Y)*mask.Stride : (y-bounds.Min.Y)*mask.Stride+bounds.Dx()]
		for x, alpha := range row {
			if alpha == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

func opaqueAt(mask *image.Alpha, x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(mask.Bounds()) {
		return false
	}
	return mask.AlphaAt(x, y).A > 0
}
