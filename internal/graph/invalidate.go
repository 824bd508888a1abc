package graph

// Invalidate resets the node at idx and every node that transitively
// depends on it (directly or through a chain of importers) back to
// Pending, via a breadth-first walk over reverse edges — the same BFS
// `spec.md` §4.7/§9 call for and `original_source/wdl-analysis/src/
// graph.rs` performs by walking its own stored reverse-edge set rather
// than re-deriving it by scanning forward edges on every invalidation.
// This package keeps only forward edges (see Graph.Dependents's doc
// comment for why) and re-derives the reverse adjacency once per call
// instead, which is the cheaper tradeoff for a graph that is invalidated
// far less often than it is read.
func (g *Graph) Invalidate(idx int) []int {
	g.mu.Lock()
	rev := g.reverseEdgesLocked()
	g.mu.Unlock()

	visited := map[int]bool{idx: true}
	queue := []int{idx}
	order := []int{idx}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dependent := range rev[cur] {
			if visited[dependent] {
				continue
			}
			visited[dependent] = true
			queue = append(queue, dependent)
			order = append(order, dependent)
		}
	}

	for _, i := range order {
		g.Reset(i)
	}
	return order
}

func (g *Graph) reverseEdgesLocked() [][]int {
	rev := make([][]int, len(g.nodes))
	for from, tos := range g.edges {
		for _, to := range tos {
			rev[to] = append(rev[to], from)
		}
	}
	return rev
}
