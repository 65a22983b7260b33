package match

import (
	"math"

	"github.com/verte-zerg/kakitori/internal/glyph"
	"github.com/verte-zerg/kakitori/internal/model"
)

// minDirectionCosine is the acceptance limit on the cosine between the
// freehand and canonical displacement vectors. 0.3 allows roughly a 70
// degree cone; a reversed stroke (cosine near -1) fails.
const minDirectionCosine = 0.3

// Displacement vectors shorter than these are too noisy to judge.
const (
	minUserDisplacement  = 5.0
	minCanonDisplacement = 1.0
)

// DirectionAcceptable reports whether the freehand stroke runs the same way
// as the canonical one. It passes unconditionally whenever direction cannot
// be judged: validation disabled, missing canonical endpoints, or a
// displacement too short on either side.
func (m *Matcher) DirectionAcceptable(points []model.Point, stroke glyph.StrokePath, cfg model.Config) bool {
	if !cfg.ValidateDir {
		return true
	}
	if len(points) < 2 {
		return true
	}
	if stroke.Start == nil || stroke.End == nil {
		return true
	}

	first := points[0]
	last := points[len(points)-1]
	ux := last.X - first.X
	uy := last.Y - first.Y
	ulen := math.Hypot(ux, uy)
	if ulen < minUserDisplacement {
		return true
	}

	cx := stroke.End.X - stroke.Start.X
	cy := stroke.End.Y - stroke.Start.Y
	clen := math.Hypot(cx, cy)
	if clen < minCanonDisplacement {
		return true
	}

	cosine := (ux*cx + uy*cy) / (ulen * clen)
	return cosine >= minDirectionCosine
}
