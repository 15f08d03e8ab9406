// Package graph provides a small, deterministic strongly-connected-component
// sort over directed graphs, in the style of Haskell's Data.Graph.
package graph

import "sort"

// Scc is a strongly connected component of a directed graph.
type Scc[Node any] struct {
	// Cyclic reports whether the component contains a cycle. A component
	// of a single node is cyclic only when the node references itself.
	Cyclic bool
	Nodes  []Node
}

// Acyclic builds a single-vertex component that is not in any cycle.
func Acyclic[Node any](node Node) Scc[Node] {
	return Scc[Node]{Cyclic: false, Nodes: []Node{node}}
}

// Cyclic builds a component whose nodes are mutually reachable.
func Cyclic[Node any](nodes ...Node) Scc[Node] {
	return Scc[Node]{Cyclic: true, Nodes: nodes}
}

// MapScc transforms the nodes of a component.
func MapScc[Node, NewNode any](scc Scc[Node], f func(Node) NewNode) Scc[NewNode] {
	nodes := make([]NewNode, len(scc.Nodes))
	for i, node := range scc.Nodes {
		nodes[i] = f(node)
	}
	return Scc[NewNode]{Cyclic: scc.Cyclic, Nodes: nodes}
}

// Toposort extracts the strongly connected components of the directed
// graph induced by nodes, reverse topologically sorted (leaves first).
//
// getKey extracts a node's identity; getConnectedKeys returns the keys a
// node has edges to (keys outside the node set are ignored). The result
// is seed-free and reproducible given identical input order; the order
// of nodes within a cyclic component is arbitrary — use
// ToposortDeterministic when it matters.
func Toposort[Node any, Key comparable](
	nodes []Node,
	getKey func(Node) Key,
	getConnectedKeys func(Node) map[Key]bool,
) []Scc[Node] {
	n := len(nodes)
	index := make(map[Key]int, n)
	for i, node := range nodes {
		index[getKey(node)] = i
	}

	adjacency := make([][]int, n)
	reversed := make([][]int, n)
	selfLoop := make([]bool, n)
	for i, node := range nodes {
		// Iterate edges in input order for reproducibility: collect the
		// target indices and sort them.
		var targets []int
		for key := range getConnectedKeys(node) {
			j, ok := index[key]
			if !ok {
				continue
			}
			if j == i {
				selfLoop[i] = true
			}
			targets = append(targets, j)
		}
		sort.Ints(targets)
		adjacency[i] = targets
		for _, j := range targets {
			reversed[j] = append(reversed[j], i)
		}
	}

	// Kosaraju: first pass orders vertices by finish time.
	visited := make([]bool, n)
	order := make([]int, 0, n)
	var visit func(int)
	visit = func(i int) {
		visited[i] = true
		for _, j := range adjacency[i] {
			if !visited[j] {
				visit(j)
			}
		}
		order = append(order, i)
	}
	for i := 0; i < n; i++ {
		if !visited[i] {
			visit(i)
		}
	}

	// Second pass assigns components over the transposed graph, walking
	// vertices in reverse finish order.
	assigned := make([]bool, n)
	var sccs []Scc[Node]
	var collect func(i int, members *[]int)
	collect = func(i int, members *[]int) {
		assigned[i] = true
		*members = append(*members, i)
		for _, j := range reversed[i] {
			if !assigned[j] {
				collect(j, members)
			}
		}
	}
	for idx := len(order) - 1; idx >= 0; idx-- {
		i := order[idx]
		if assigned[i] {
			continue
		}
		var members []int
		collect(i, &members)
		scc := Scc[Node]{
			Cyclic: len(members) > 1 || selfLoop[members[0]],
			Nodes:  make([]Node, len(members)),
		}
		for k, m := range members {
			scc.Nodes[k] = nodes[m]
		}
		sccs = append(sccs, scc)
	}

	// Kosaraju's second pass discovers components in topological order;
	// we want leaves first.
	for i, j := 0, len(sccs)-1; i < j; i, j = i+1, j-1 {
		sccs[i], sccs[j] = sccs[j], sccs[i]
	}
	return sccs
}

// ToposortDeterministic is Toposort with nodes inside cyclic components
// sorted by the given comparator.
func ToposortDeterministic[Node any, Key comparable](
	nodes []Node,
	getKey func(Node) Key,
	getConnectedKeys func(Node) map[Key]bool,
	less func(a, b Node) bool,
) []Scc[Node] {
	sccs := Toposort(nodes, getKey, getConnectedKeys)
	for i := range sccs {
		if sccs[i].Cyclic && len(sccs[i].Nodes) > 1 {
			sort.SliceStable(sccs[i].Nodes, func(a, b int) bool {
				return less(sccs[i].Nodes[a], sccs[i].Nodes[b])
			})
		}
	}
	return sccs
}
