// Package model defines shared data structures.
package model

import "time"

// GridSize is the side of the logical coordinate grid shared by canonical
// strokes and freehand input. KanjiVG documents use a 109x109 unit viewport.
const GridSize = 109

// Due modes control how much of the canonical stroke set is revealed while
// practicing a due card.
const (
	DueModeMinimal    = 1
	DueModeFull       = 2
	DueModeProcedural = 3
)

// Default validation settings.
const (
	DefaultHitRatio      = 0.6
	DefaultCorridorWidth = 10.0
)

// Point is a coordinate in the logical grid.
type Point struct {
	X float64
	Y float64
}

// Config defines practice settings.
type Config struct {
	HitRatio      float64
	CorridorWidth float64
	ValidateDir   bool
	StrictOrder   bool
	DueMode       int
	AutoAdvance   bool
}

// DefaultConfig returns the default practice settings.
func DefaultConfig() Config {
	return Config{
		HitRatio:      DefaultHitRatio,
		CorridorWidth: DefaultCorridorWidth,
		ValidateDir:   true,
		StrictOrder:   true,
		DueMode:       DueModeMinimal,
		AutoAdvance:   false,
	}
}

// StatsRecord accumulates per-character performance across practice runs.
// It is mutated only on full-character completion events.
type StatsRecord struct {
	TotalAttempts        int
	ConsecutiveCorrect   int
	TotalErrors          int
	TotalDirectionErrors int
	TotalRedraws         int
	TotalTimeMs          int64
	LastAttempt          *time.Time
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Chars string
	Sort  string
}
