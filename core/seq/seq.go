// Package seq allocates entity identifiers.
package seq

import "sync/atomic"

// Sequence hands out strictly increasing identifiers starting at 1.
// Identifiers are never reused, even after the entity they named is
// deleted; only Reset rewinds the sequence. Safe for concurrent use.
type Sequence struct {
	last atomic.Int64
}

// Next allocates and returns the next identifier.
func (s *Sequence) Next() int {
	return int(s.last.Add(1))
}

// Last returns the most recently allocated identifier, or 0 if none.
func (s *Sequence) Last() int {
	return int(s.last.Load())
}

// Reset rewinds the sequence so the next identifier is 1 again.
func (s *Sequence) Reset() {
	s.last.Store(0)
}
