// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/kakitori/internal/model"
	"github.com/verte-zerg/kakitori/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Rows []Row
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	records, err := st.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{Rows: BuildRows(records, cfg)}, nil
}
