package fractal

import "github.com/Faultbox/midgard-fractal/pkg/math"

// Store owns the per-level part arrays and the matching per-level matrix
// arrays. Arrays are sized once by Allocate and never resized until Release.
type Store struct {
	layout   Layout
	parts    [][]Part
	matrices [][]math.Mat3x4

	// frame stamp of the last update per level, used to enforce ordering
	stamps []uint64

	allocations int
	releases    int
}

// Allocate builds the arrays for layout, releasing any previous allocation first.
func (s *Store) Allocate(layout Layout) {
	if s.Allocated() {
		s.Release()
	}

	depth := layout.Depth()
	s.layout = layout
	s.parts = make([][]Part, depth)
	s.matrices = make([][]math.Mat3x4, depth)
	s.stamps = make([]uint64, depth)

	for level := 0; level < depth; level++ {
		n := layout.LevelSize(level)
		parts := make([]Part, n)
		for i := range parts {
			parts[i] = newPart(Slot(i))
		}
		s.parts[level] = parts
		s.matrices[level] = make([]math.Mat3x4, n)
	}
	s.allocations++
}

// Release drops all arrays. Calling it on an empty store is a no-op.
func (s *Store) Release() {
	if !s.Allocated() {
		return
	}
	s.parts = nil
	s.matrices = nil
	s.stamps = nil
	s.layout = Layout{}
	s.releases++
}

// Allocated reports whether the store currently holds arrays.
func (s *Store) Allocated() bool {
	return s.parts != nil
}

// Layout returns the layout of the current allocation.
func (s *Store) Layout() Layout {
	return s.layout
}

// Depth returns the number of allocated levels, 0 when released.
func (s *Store) Depth() int {
	return len(s.parts)
}

// Level returns the parts of level. Callers must not modify them.
func (s *Store) Level(level int) []Part {
	return s.parts[level]
}

// Part returns a copy of one part.
func (s *Store) Part(level, index int) Part {
	return s.parts[level][index]
}

// Matrices returns the encoded instance transforms of level.
func (s *Store) Matrices(level int) []math.Mat3x4 {
	return s.matrices[level]
}

// Allocations returns how many times Allocate has run.
func (s *Store) Allocations() int { return s.allocations }

// Releases returns how many allocations have been released.
func (s *Store) Releases() int { return s.releases }
