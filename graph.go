package ixa

// depGraph is the dependency relation between registered properties,
// kept as adjacency lists over dense registry ids. Edges point from a
// derived property to the properties it reads.
type depGraph struct {
	deps [][]uint32
}

func (g *depGraph) addNode() {
	g.deps = append(g.deps, nil)
}

func (g *depGraph) setDeps(node uint32, deps []uint32) {
	g.deps[node] = deps
}

// reaches reports whether target is reachable from start along dependency
// edges.
func (g *depGraph) reaches(start, target uint32) bool {
	if start == target {
		return true
	}
	seen := make([]bool, len(g.deps))
	stack := []uint32{start}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == target {
			return true
		}
		if seen[node] {
			continue
		}
		seen[node] = true
		stack = append(stack, g.deps[node]...)
	}
	return false
}

// wouldCycle reports whether assigning the listed dependencies to node
// would close a cycle, including the degenerate self-dependency.
func (g *depGraph) wouldCycle(node uint32, deps []uint32) bool {
	for _, dep := range deps {
		if dep == node || g.reaches(dep, node) {
			return true
		}
	}
	return false
}

// validate scans the whole graph for a cycle and returns a node on one.
func (g *depGraph) validate() (uint32, bool) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(g.deps))

	var visit func(node uint32) (uint32, bool)
	visit = func(node uint32) (uint32, bool) {
		switch state[node] {
		case visiting:
			return node, true
		case done:
			return 0, false
		}
		state[node] = visiting
		for _, dep := range g.deps[node] {
			if bad, found := visit(dep); found {
				return bad, true
			}
		}
		state[node] = done
		return 0, false
	}

	for node := range g.deps {
		if bad, found := visit(uint32(node)); found {
			return bad, true
		}
	}
	return 0, false
}

// dependentsClosure returns, per node, every node whose value transitively
// depends on it. Computed once at seal; write paths walk these lists to
// drop stale derived caches.
func (g *depGraph) dependentsClosure() [][]uint32 {
	reverse := make([][]uint32, len(g.deps))
	for node, deps := range g.deps {
		for _, dep := range deps {
			reverse[dep] = append(reverse[dep], uint32(node))
		}
	}

	closure := make([][]uint32, len(g.deps))
	for node := range g.deps {
		seen := make([]bool, len(g.deps))
		stack := append([]uint32(nil), reverse[node]...)
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[next] {
				continue
			}
			seen[next] = true
			closure[node] = append(closure[node], next)
			stack = append(stack, reverse[next]...)
		}
	}
	return closure
}
