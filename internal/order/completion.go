// Package order tracks stroke completion under strict or unordered policies.
package order

// Completion tracks which strokes of a character are done. The two
// implementations mirror the two order policies: a plain counter for strict
// sequential completion and an index set for unordered completion.
type Completion interface {
	// IsComplete reports whether the stroke at idx is done.
	IsComplete(idx int) bool
	// Mark records the stroke at idx as done.
	Mark(idx int)
	// Count returns how many strokes are done.
	Count() int
	// NextExpected returns the lowest incomplete index, or total when all
	// strokes are done.
	NextExpected(total int) int
	// Clone returns an independent copy.
	Clone() Completion
}

// NewCompletion returns the empty completion state for the given policy.
func NewCompletion(strict bool) Completion {
	if strict {
		return &Sequential{}
	}
	return &Unordered{done: map[int]struct{}{}}
}

// Sequential counts strokes completed in canonical order.
type Sequential struct {
	count int
}

func (s *Sequential) IsComplete(idx int) bool { return idx < s.count }

// Mark advances the counter; idx is necessarily the current count under the
// strict policy.
func (s *Sequential) Mark(idx int) {
	if idx == s.count {
		s.count++
	}
}

func (s *Sequential) Count() int { return s.count }

func (s *Sequential) NextExpected(total int) int {
	if s.count > total {
		return total
	}
	return s.count
}

func (s *Sequential) Clone() Completion {
	return &Sequential{count: s.count}
}

// Unordered tracks completed stroke indices as a set.
type Unordered struct {
	done map[int]struct{}
}

func (u *Unordered) IsComplete(idx int) bool {
	_, ok := u.done[idx]
	return ok
}

func (u *Unordered) Mark(idx int) { u.done[idx] = struct{}{} }

func (u *Unordered) Count() int { return len(u.done) }

func (u *Unordered) NextExpected(total int) int {
	for idx := 0; idx < total; idx++ {
		if !u.IsComplete(idx) {
			return idx
		}
	}
	return total
}

func (u *Unordered) Clone() Completion {
	done := make(map[int]struct{}, len(u.done))
	for idx := range u.done {
		done[idx] = struct{}{}
	}
	return &Unordered{done: done}
}
