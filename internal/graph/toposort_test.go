package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func edges(pairs map[int][]int) func(int) map[int]bool {
	return func(i int) map[int]bool {
		connected := make(map[int]bool)
		for _, j := range pairs[i] {
			connected[j] = true
		}
		return connected
	}
}

func sortInts(a, b int) bool { return a < b }

func TestToposort(t *testing.T) {
	tests := []struct {
		name  string
		nodes []int
		edges map[int][]int
		want  []Scc[int]
	}{
		{
			name:  "chain",
			nodes: []int{1, 2, 3, 4},
			edges: map[int][]int{1: {2}, 2: {3}, 3: {4}},
			want:  []Scc[int]{Acyclic(4), Acyclic(3), Acyclic(2), Acyclic(1)},
		},
		{
			// 3 and 4 are unordered relative to each other; the rest is
			// forced.
			name:  "diamond",
			nodes: []int{1, 2, 3, 4},
			edges: map[int][]int{1: {2, 3}, 2: {3, 4}},
			want:  []Scc[int]{Acyclic(3), Acyclic(4), Acyclic(2), Acyclic(1)},
		},
		{
			name:  "self loop",
			nodes: []int{1},
			edges: map[int][]int{1: {1}},
			want:  []Scc[int]{Cyclic(1)},
		},
		{
			// The cycle and the isolated vertex are unordered relative
			// to each other.
			name:  "two cycle",
			nodes: []int{1, 2, 3},
			edges: map[int][]int{1: {2}, 2: {1}},
			want:  []Scc[int]{Cyclic(1, 2), Acyclic(3)},
		},
		{
			name:  "cycle with self loop",
			nodes: []int{1, 2},
			edges: map[int][]int{1: {1, 2}, 2: {1}},
			want:  []Scc[int]{Cyclic(1, 2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToposortDeterministic(tt.nodes, func(i int) int { return i }, edges(tt.edges), sortInts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("toposort mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToposortOrderInvariant(t *testing.T) {
	// For any edge u -> v across components, v's component comes first.
	nodes := []int{5, 1, 4, 2, 3}
	edgePairs := map[int][]int{1: {2}, 2: {3, 4}, 4: {5}, 3: {4}}
	sccs := Toposort(nodes, func(i int) int { return i }, edges(edgePairs))

	position := make(map[int]int)
	for idx, scc := range sccs {
		for _, node := range scc.Nodes {
			position[node] = idx
		}
	}
	for u, vs := range edgePairs {
		for _, v := range vs {
			if position[u] == position[v] {
				continue
			}
			if position[v] > position[u] {
				t.Errorf("edge %d -> %d: component of %d should come before %d's", u, v, v, u)
			}
		}
	}
}

func TestToposortIgnoresUndeclaredKeys(t *testing.T) {
	nodes := []int{1}
	got := Toposort(nodes, func(i int) int { return i }, edges(map[int][]int{1: {42}}))
	want := []Scc[int]{Acyclic(1)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toposort mismatch (-want +got):\n%s", diff)
	}
}
