package stats

import "sort"

// WeakestChars selects up to top characters with the highest error rate.
func WeakestChars(rows []Row, top int) []string {
	if len(rows) == 0 {
		return nil
	}
	candidates := make([]Row, len(rows))
	copy(candidates, rows)
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ErrorRate == candidates[j].ErrorRate {
			return candidates[i].Char < candidates[j].Char
		}
		return candidates[i].ErrorRate > candidates[j].ErrorRate
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Char)
	}
	return out
}
