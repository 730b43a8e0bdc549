// Package cluster groups owned bodies into connected components and
// decides which components must migrate to a neighboring region.
package cluster

import (
	"sort"

	"physgrid.dev/internal/sim/engine"
)

// Analyzer partitions bodies into maximal clusters linked by the given
// edges. Running it twice on the same input must yield the same grouping,
// in the same order.
type Analyzer interface {
	Components(handles []engine.Handle, edges [][2]engine.Handle) [][]engine.Handle
}

// UnionFind is the default Analyzer.
type UnionFind struct{}

func (UnionFind) Components(handles []engine.Handle, edges [][2]engine.Handle) [][]engine.Handle {
	if len(handles) == 0 {
		return nil
	}

	index := make(map[engine.Handle]int, len(handles))
	sorted := make([]engine.Handle, len(handles))
	copy(sorted, handles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, h := range sorted {
		index[h] = i
	}

	parent := make([]int, len(sorted))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	for _, e := range edges {
		ia, oka := index[e[0]]
		ib, okb := index[e[1]]
		if oka && okb {
			union(ia, ib)
		}
	}

	groups := map[int][]engine.Handle{}
	for i, h := range sorted {
		r := find(i)
		groups[r] = append(groups[r], h)
	}

	roots := make([]int, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	out := make([][]engine.Handle, 0, len(groups))
	for _, r := range roots {
		out = append(out, groups[r])
	}
	return out
}
