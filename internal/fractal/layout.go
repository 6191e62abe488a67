// Package fractal implements the hierarchical transform propagation engine for
// a five-way branching fractal: the per-level node layout, the node store, the
// parallel level update and the per-level instance buffer sync.
package fractal

import "fmt"

// BranchFactor is the number of children per node, one per direction.
const BranchFactor = 5

// Accepted depth range. Depth 8 already holds 97656 nodes.
const (
	MinDepth = 1
	MaxDepth = 8
)

// Layout describes the level sizes of a tree of a given depth.
// Parent/child relations are computed from indices, never stored.
type Layout struct {
	depth int
}

// NewLayout validates depth and returns the layout for it.
func NewLayout(depth int) (Layout, error) {
	if depth < MinDepth || depth > MaxDepth {
		return Layout{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrDepthOutOfRange, depth, MinDepth, MaxDepth)
	}
	return Layout{depth: depth}, nil
}

// Depth returns the number of levels.
func (l Layout) Depth() int {
	return l.depth
}

// LevelSize returns the node count of level, BranchFactor^level.
func (l Layout) LevelSize(level int) int {
	n := 1
	for i := 0; i < level; i++ {
		n *= BranchFactor
	}
	return n
}

// TotalNodes returns the node count summed over all levels.
func (l Layout) TotalNodes() int {
	total := 0
	for level := 0; level < l.depth; level++ {
		total += l.LevelSize(level)
	}
	return total
}

// ParentIndex returns the index in level-1 of the parent of child in level.
// level must be at least 1.
func (l Layout) ParentIndex(level, child int) int {
	if level < 1 {
		panic(fmt.Sprintf("fractal: level %d has no parent level", level))
	}
	return child / BranchFactor
}

// Slot returns which of the BranchFactor child slots index occupies.
func Slot(index int) int {
	return index % BranchFactor
}
