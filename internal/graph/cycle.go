package graph

// Cycle describes one import that was withheld because following it would
// close a cycle. Importer/Importee are node indices; Importer is the
// document whose import statement is the cycle-closing edge.
type Cycle struct {
	Importer int
	Importee int
}

// Cycles returns every withheld cycle-closing edge recorded so far (GC's
// node remapping renumbers them and drops those whose nodes it removed). The scheduler uses this after a fetch round to attach
// an ImportCycle diagnostic to each cycle-closing import statement; the
// importer's own analysis proceeds as though that one import resolved to
// an empty document, per spec.md §4.7's cycle policy.
func (g *Graph) Cycles() []Cycle {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Cycle, 0, len(g.cycles))
	for pair := range g.cycles {
		out = append(out, Cycle{Importer: pair[0], Importee: pair[1]})
	}
	return out
}

// ClearCycles drops the recorded cycle set. The scheduler does not call
// it, so a recorded cycle persists until GC removes one of its nodes.
func (g *Graph) ClearCycles() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cycles = map[[2]int]bool{}
}
