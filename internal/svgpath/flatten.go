package svgpath

import (
	"math"

	"github.com/verte-zerg/kakitori/internal/model"
)

// flattenTolerance is the maximum distance between a flattened polyline and
// the true curve, in grid units.
const flattenTolerance = 0.25

const maxFlattenDepth = 16

// Flatten reconstructs a path descriptor as polylines, one per subpath.
// Unlike EndPoints it applies full SVG semantics: repeated parameter groups,
// implicit linetos after a move, smooth control-point reflection, and close
// commands. Arc segments are approximated by a line to their endpoint;
// KanjiVG data does not use arcs.
func Flatten(d string) [][]model.Point {
	f := flattener{}
	for _, cmd := range parseCommands(d) {
		f.apply(cmd)
	}
	f.endSubpath()
	return f.subpaths
}

type flattener struct {
	subpaths [][]model.Point
	current  []model.Point
	cur      model.Point
	subStart model.Point

	// Reflection state for smooth curve variants.
	lastCubicCtrl *model.Point
	lastQuadCtrl  *model.Point
}

func (f *flattener) apply(cmd command) {
	rel := cmd.letter >= 'a' && cmd.letter <= 'z'
	p := cmd.params
	switch cmd.letter {
	case 'M', 'm':
		for i := 0; i+1 < len(p); i += 2 {
			pt := f.resolve(rel, p[i], p[i+1])
			if i == 0 {
				f.endSubpath()
				f.cur = pt
				f.subStart = pt
				f.current = []model.Point{pt}
			} else {
				f.lineTo(pt)
			}
		}
		f.clearReflection()
	case 'L', 'l':
		for i := 0; i+1 < len(p); i += 2 {
			f.lineTo(f.resolve(rel, p[i], p[i+1]))
		}
		f.clearReflection()
	case 'H', 'h':
		for i := 0; i < len(p); i++ {
			x := p[i]
			if rel {
				x += f.cur.X
			}
			f.lineTo(model.Point{X: x, Y: f.cur.Y})
		}
		f.clearReflection()
	case 'V', 'v':
		for i := 0; i < len(p); i++ {
			y := p[i]
			if rel {
				y += f.cur.Y
			}
			f.lineTo(model.Point{X: f.cur.X, Y: y})
		}
		f.clearReflection()
	case 'C', 'c':
		for i := 0; i+5 < len(p); i += 6 {
			c1 := f.resolve(rel, p[i], p[i+1])
			c2 := f.resolve(rel, p[i+2], p[i+3])
			end := f.resolve(rel, p[i+4], p[i+5])
			f.cubicTo(c1, c2, end)
		}
	case 'S', 's':
		for i := 0; i+3 < len(p); i += 4 {
			c1 := f.reflectCubic()
			c2 := f.resolve(rel, p[i], p[i+1])
			end := f.resolve(rel, p[i+2], p[i+3])
			f.cubicTo(c1, c2, end)
		}
	case 'Q', 'q':
		for i := 0; i+3 < len(p); i += 4 {
			ctrl := f.resolve(rel, p[i], p[i+1])
			end := f.resolve(rel, p[i+2], p[i+3])
			f.quadTo(ctrl, end)
		}
	case 'T', 't':
		for i := 0; i+1 < len(p); i += 2 {
			ctrl := f.reflectQuad()
			end := f.resolve(rel, p[i], p[i+1])
			f.quadTo(ctrl, end)
		}
	case 'A', 'a':
		for i := 0; i+6 < len(p); i += 7 {
			f.lineTo(f.resolve(rel, p[i+5], p[i+6]))
		}
		f.clearReflection()
	case 'Z', 'z':
		if len(f.current) > 0 {
			f.lineTo(f.subStart)
		}
		f.clearReflection()
	}
}

func (f *flattener) resolve(rel bool, x, y float64) model.Point {
	if rel {
		return model.Point{X: f.cur.X + x, Y: f.cur.Y + y}
	}
	return model.Point{X: x, Y: y}
}

func (f *flattener) endSubpath() {
	if len(f.current) > 1 {
		f.subpaths = append(f.subpaths, f.current)
	}
	f.current = nil
}

func (f *flattener) lineTo(p model.Point) {
	if f.current == nil {
		f.current = []model.Point{f.cur}
	}
	f.current = append(f.current, p)
	f.cur = p
}

func (f *flattener) cubicTo(c1, c2, end model.Point) {
	f.flattenCubic(f.cur, c1, c2, end, 0)
	f.lineTo(end)
	f.lastCubicCtrl = &c2
	f.lastQuadCtrl = nil
}

func (f *flattener) quadTo(ctrl, end model.Point) {
	f.flattenQuad(f.cur, ctrl, end, 0)
	f.lineTo(end)
	f.lastQuadCtrl = &ctrl
	f.lastCubicCtrl = nil
}

func (f *flattener) clearReflection() {
	f.lastCubicCtrl = nil
	f.lastQuadCtrl = nil
}

// reflectCubic mirrors the previous cubic's second control point across the
// cursor, falling back to the cursor when the previous command was not a
// cubic variant.
func (f *flattener) reflectCubic() model.Point {
	if f.lastCubicCtrl == nil {
		return f.cur
	}
	return model.Point{X: 2*f.cur.X - f.lastCubicCtrl.X, Y: 2*f.cur.Y - f.lastCubicCtrl.Y}
}

func (f *flattener) reflectQuad() model.Point {
	if f.lastQuadCtrl == nil {
		return f.cur
	}
	return model.Point{X: 2*f.cur.X - f.lastQuadCtrl.X, Y: 2*f.cur.Y - f.lastQuadCtrl.Y}
}

// flattenCubic appends intermediate points of the curve, excluding both
// endpoints; the caller emits the final endpoint.
func (f *flattener) flattenCubic(p0, p1, p2, p3 model.Point, depth int) {
	if depth >= maxFlattenDepth || cubicFlat(p0, p1, p2, p3) {
		return
	}
	// de Casteljau split at t=0.5
	ab := midpoint(p0, p1)
	bc := midpoint(p1, p2)
	cd := midpoint(p2, p3)
	abbc := midpoint(ab, bc)
	bccd := midpoint(bc, cd)
	mid := midpoint(abbc, bccd)

	f.flattenCubic(p0, ab, abbc, mid, depth+1)
	f.lineTo(mid)
	f.flattenCubic(mid, bccd, cd, p3, depth+1)
}

func (f *flattener) flattenQuad(p0, p1, p2 model.Point, depth int) {
	if depth >= maxFlattenDepth || distanceToLine(p1, p0, p2) <= flattenTolerance {
		return
	}
	ab := midpoint(p0, p1)
	bc := midpoint(p1, p2)
	mid := midpoint(ab, bc)

	f.flattenQuad(p0, ab, mid, depth+1)
	f.lineTo(mid)
	f.flattenQuad(mid, bc, p2, depth+1)
}

func cubicFlat(p0, p1, p2, p3 model.Point) bool {
	return distanceToLine(p1, p0, p3) <= flattenTolerance &&
		distanceToLine(p2, p0, p3) <= flattenTolerance
}

func midpoint(a, b model.Point) model.Point {
	return model.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// distanceToLine returns the distance from p to the segment ab.
func distanceToLine(p, a, b model.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	px := a.X + t*dx
	py := a.Y + t*dy
	return math.Hypot(p.X-px, p.Y-py)
}
