package match

import (
	"math"

	"github.com/verte-zerg/kakitori/internal/glyph"
	"github.com/verte-zerg/kakitori/internal/model"
)

// MinStrokePoints is the minimum freehand point count for a stroke to be a
// candidate at all; shorter input is discarded before any matching.
const MinStrokePoints = 5

// maxSamples caps how many freehand points are tested against the corridor.
const maxSamples = 40

// Diagonal bounds for threshold interpolation: canonical strokes with a
// bounding-box diagonal at or below smallDiag get the loose thresholds,
// at or above largeDiag the tight ones.
const (
	smallDiag = 20.0
	largeDiag = 80.0

	minLengthFracSmall = 0.50
	minLengthFracLarge = 0.85

	minMainFracSmall = 0.50
	minMainFracLarge = 0.80

	minAbsLengthSmall = 5.0
	minAbsLengthLarge = 10.0
)

// Matcher validates freehand strokes on a fixed square grid.
type Matcher struct {
	Grid int
}

// NewMatcher returns a Matcher at the canonical grid resolution.
func NewMatcher() *Matcher {
	return &Matcher{Grid: model.GridSize}
}

// Thresholds are the size-interpolated acceptance limits for a canonical
// stroke of a given diagonal.
type Thresholds struct {
	MinLengthFrac float64
	MinMainFrac   float64
	MinAbsLength  float64
}

// ThresholdsFor interpolates acceptance limits by canonical stroke size.
// Small strokes are dominated by pixel noise and get loose limits; large
// strokes must actually be traced end to end.
func ThresholdsFor(diag float64) Thresholds {
	t := (diag - smallDiag) / (largeDiag - smallDiag)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Thresholds{
		MinLengthFrac: minLengthFracSmall + t*(minLengthFracLarge-minLengthFracSmall),
		MinMainFrac:   minMainFracSmall + t*(minMainFracLarge-minMainFracSmall),
		MinAbsLength:  minAbsLengthSmall + t*(minAbsLengthLarge-minAbsLengthSmall),
	}
}

// ShapeAcceptable reports whether the freehand points trace the canonical
// stroke closely enough: most sampled points must fall inside the rasterized
// corridor, and the trace must span the canonical stroke's length and main
// axis.
func (m *Matcher) ShapeAcceptable(points []model.Point, stroke glyph.StrokePath, cfg model.Config) bool {
	if len(points) < MinStrokePoints {
		return false
	}

	mask := corridor(stroke.D, cfg.CorridorWidth, m.Grid)
	minCX, minCY, maxCX, maxCY, ok := maskBounds(mask)
	if !ok {
		return false
	}
	canonW := float64(maxCX - minCX + 1)
	canonH := float64(maxCY - minCY + 1)
	canonDiag := math.Hypot(canonW, canonH)

	userLen := 0.0
	minUX, minUY := math.Inf(1), math.Inf(1)
	maxUX, maxUY := math.Inf(-1), math.Inf(-1)
	for i, p := range points {
		if i > 0 {
			prev := points[i-1]
			userLen += math.Hypot(p.X-prev.X, p.Y-prev.Y)
		}
		minUX = math.Min(minUX, p.X)
		maxUX = math.Max(maxUX, p.X)
		minUY = math.Min(minUY, p.Y)
		maxUY = math.Max(maxUY, p.Y)
	}
	if math.IsInf(minUX, 1) || math.IsInf(minUY, 1) {
		return false
	}
	userW := maxUX - minUX
	userH := maxUY - minUY

	hits, total := 0, 0
	step := len(points) / maxSamples
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(points); i += step {
		x := int(math.Round(points[i].X))
		y := int(math.Round(points[i].Y))
		if x < 0 || x >= m.Grid || y < 0 || y >= m.Grid {
			continue
		}
		total++
		if opaqueAt(mask, x, y) {
			hits++
		}
	}
	if total == 0 {
		return false
	}
	ratio := float64(hits) / float64(total)

	limits := ThresholdsFor(canonDiag)

	hasEnoughLength := userLen >= limits.MinAbsLength &&
		(canonDiag <= 0 || userLen/canonDiag >= limits.MinLengthFrac)

	// Extent along the canonical stroke's own main axis, not the freehand
	// stroke's longer one.
	canonMain := canonW
	userMain := userW
	if canonH > canonW {
		canonMain = canonH
		userMain = userH
	}
	mainFrac := 1.0
	if canonMain > 0 {
		mainFrac = userMain / canonMain
	}

	return hasEnoughLength && mainFrac >= limits.MinMainFrac && ratio >= cfg.HitRatio
}
