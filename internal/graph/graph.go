// Package graph implements the document dependency graph and the
// scheduler that drives fetch and analysis over it: an index-based
// directed graph of import edges (importer -> importee), the per-node
// Pending -> Fetching -> Parsed -> Analyzing -> Analyzed|Failed state
// machine from state.go, and the bounded-concurrency worker pool in
// scheduler.go that walks it.
package graph

import (
	"sync"

	"github.com/gowdl/wdlsem/internal/analysis"
	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
)

// Node is one document tracked by the graph. Every field below is only
// ever mutated while Graph.mu is held; callers never reach into a Node
// directly, they go through Graph's accessor methods.
type Node struct {
	URI        string
	Rooted     bool // added directly via AddDocuments, not discovered through an import
	State      State
	SourceHash string
	Source     []byte
	Doc        *ast.Document
	ParseDiags []diag.Diagnostic
	ParseErr   error
	Result     *analysis.Result
	Generation uint64
}

// Graph is an index-based directed graph of import edges, the shape
// `spec.md` §9 calls for explicitly: `nodes []*Node` + `edges [][]int` +
// a `uriToIndex` map, no owned parent/child pointers. The shape mirrors
// `vovakirdan-surge`'s `internal/project/dag.Graph` (`Edges[from] =
// []to` over a name-to-index table), adapted from its immutable
// per-build module metadata to this package's mutable per-node fetch and
// analysis state, and carrying its own mutex rather than relying on a
// caller-provided `Reporter`/bag pattern, per the "only the graph
// metadata needs brief mutual exclusion" note in `spec.md` §9.
type Graph struct {
	mu         sync.Mutex
	nodes      []*Node
	uriToIndex map[string]int
	edges      [][]int // edges[from] = importee indices, "from imports to"
	cycles     map[[2]int]bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{uriToIndex: map[string]int{}, cycles: map[[2]int]bool{}}
}

// AddNode registers uri if not already present and returns its index.
// rooted marks the node as explicitly requested by a caller rather than
// merely discovered through another document's import; a rooted flag is
// sticky once set, since a document can be both explicitly added and
// imported by something else.
func (g *Graph) AddNode(uri string, rooted bool) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if idx, ok := g.uriToIndex[uri]; ok {
		if rooted {
			g.nodes[idx].Rooted = true
		}
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, &Node{URI: uri, Rooted: rooted, State: Pending})
	g.uriToIndex[uri] = idx
	g.edges = append(g.edges, nil)
	return idx
}

// Index returns uri's node index, if it has been added.
func (g *Graph) Index(uri string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx, ok := g.uriToIndex[uri]
	return idx, ok
}

// Node returns a snapshot copy of the node at idx. Copying under the
// lock means callers never observe a torn read of a Node being mutated
// by the scheduler.
func (g *Graph) Node(idx int) Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.nodes[idx]
}

// NodeCount returns the number of nodes currently tracked.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// URIs returns every tracked URI in insertion order.
func (g *Graph) URIs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.URI
	}
	return out
}

// Unroot clears the rooted flag for uri, used by RemoveDocuments; the
// node itself is not deleted here, since other documents may still
// import it. GC sweeps unreachable nodes afterward.
func (g *Graph) Unroot(uri string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if idx, ok := g.uriToIndex[uri]; ok {
		g.nodes[idx].Rooted = false
	}
}

// SetState transitions the node at idx to next, ignoring an illegal
// transition request rather than panicking; the scheduler is the only
// caller and always requests a legal transition, but a no-op here is
// cheaper than threading an error back through every call site.
func (g *Graph) SetState(idx int, next State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.nodes[idx]
	if !n.State.CanAdvanceTo(next) {
		return
	}
	n.State = next
}

// Reset forces the node at idx back to Pending and bumps its generation
// counter, discarding its previous parse/analysis results; used by
// invalidation and by NotifyChange/NotifyIncrementalChange.
func (g *Graph) Reset(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.nodes[idx]
	n.State = Pending
	n.Doc = nil
	n.ParseDiags = nil
	n.ParseErr = nil
	n.Result = nil
	n.Generation++
}

// SetParsed records a successful fetch+parse and advances the node to
// Parsed (or Failed, if err is non-nil).
func (g *Graph) SetParsed(idx int, hash string, src []byte, doc *ast.Document, parseDiags []diag.Diagnostic, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.nodes[idx]
	n.SourceHash = hash
	n.Source = src
	n.Doc = doc
	n.ParseDiags = parseDiags
	n.ParseErr = err
	if err != nil {
		n.State = Failed
		return
	}
	if n.State.CanAdvanceTo(Parsed) {
		n.State = Parsed
	}
}

// SetAnalyzed records a completed analysis and advances the node to
// Analyzed.
func (g *Graph) SetAnalyzed(idx int, result *analysis.Result) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.nodes[idx]
	n.Result = result
	if n.State.CanAdvanceTo(Analyzed) {
		n.State = Analyzed
	}
}

// AddDependencyEdge records that the node at `from` imports the node at
// `to`. If that would close a cycle — `to` already has a path back to
// `from` — the edge is withheld and the pair recorded as a cycle instead,
// the same policy `original_source/wdl-analysis/src/graph.rs`'s
// `add_dependency_edge` implements with `has_path_connecting` before
// `add_edge`. It reports ok=false when the edge was withheld, so the
// caller can attach the `ImportCycle` diagnostic to the closing import.
func (g *Graph) AddDependencyEdge(from, to int) (ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if from == to || g.hasPathLocked(to, from) {
		g.cycles[[2]int{from, to}] = true
		return false
	}
	for _, e := range g.edges[from] {
		if e == to {
			return true
		}
	}
	g.edges[from] = append(g.edges[from], to)
	return true
}

// hasPathLocked reports whether to is reachable from `from` by following
// import edges forward. Callers must hold g.mu.
func (g *Graph) hasPathLocked(from, to int) bool {
	if from == to {
		return true
	}
	visited := make([]bool, len(g.nodes))
	stack := []int{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, next := range g.edges[cur] {
			if next == to {
				return true
			}
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Dependencies returns the indices idx directly imports.
func (g *Graph) Dependencies(idx int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int, len(g.edges[idx]))
	copy(out, g.edges[idx])
	return out
}

// Dependents returns the indices that directly import idx, computed by
// scanning every edge list; the graph is expected to stay small enough
// (one process per project, not per monorepo) that this is cheaper than
// maintaining a second reverse-edge slice kept consistent on every
// AddDependencyEdge.
func (g *Graph) Dependents(idx int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []int
	for from, tos := range g.edges {
		for _, to := range tos {
			if to == idx {
				out = append(out, from)
				break
			}
		}
	}
	return out
}

// RemoveDependencyEdges drops every outgoing edge from idx, used before
// re-discovering a re-parsed node's imports from scratch.
func (g *Graph) RemoveDependencyEdges(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[idx] = nil
}

// GC removes every non-rooted node that nothing depends on, following
// the same "no root, no incoming edge" sweep as `DocumentGraph::gc` in
// `original_source/wdl-analysis/src/graph.rs`. It repeats until a full
// pass removes nothing, since removing a leaf can orphan its own
// now-unreferenced dependency.
func (g *Graph) GC() {
	for g.gcPass() {
	}
}

func (g *Graph) gcPass() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	referenced := make([]bool, len(g.nodes))
	for _, tos := range g.edges {
		for _, to := range tos {
			referenced[to] = true
		}
	}

	keep := make([]bool, len(g.nodes))
	removedAny := false
	for i, n := range g.nodes {
		if n.Rooted || referenced[i] {
			keep[i] = true
		} else {
			removedAny = true
		}
	}
	if !removedAny {
		return false
	}

	newNodes := make([]*Node, 0, len(g.nodes))
	newEdges := make([][]int, 0, len(g.edges))
	remap := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		if !keep[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(newNodes)
		newNodes = append(newNodes, n)
		newEdges = append(newEdges, g.edges[i])
	}
	for i, tos := range newEdges {
		remapped := make([]int, 0, len(tos))
		for _, to := range tos {
			if remap[to] >= 0 {
				remapped = append(remapped, remap[to])
			}
		}
		newEdges[i] = remapped
	}

	cycles := make(map[[2]int]bool, len(g.cycles))
	for pair := range g.cycles {
		if from, to := remap[pair[0]], remap[pair[1]]; from >= 0 && to >= 0 {
			cycles[[2]int{from, to}] = true
		}
	}

	g.nodes = newNodes
	g.edges = newEdges
	g.cycles = cycles
	g.uriToIndex = make(map[string]int, len(newNodes))
	for i, n := range newNodes {
		g.uriToIndex[n.URI] = i
	}
	return true
}
