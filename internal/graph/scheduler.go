package graph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gowdl/wdlsem/internal/analysis"
	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

// Fetcher retrieves a document's source by URI, returning its bytes and a
// caller-computed content hash (spec.md §6's "(URI) -> (bytes,
// content-hash)" contract) or a failure. Scheduler.fetchOne skips
// re-parsing only when the hash is unchanged and the node still holds its
// prior parse; Graph.Reset clears that parse, so a reset node is always
// re-parsed, and every Parsed node is re-analyzed.
type Fetcher func(ctx context.Context, uri string) (data []byte, hash string, err error)

// Parser turns fetched source into an AST plus any parse diagnostics.
// Parse failure (err != nil) takes the node straight to Failed without
// ever reaching analysis, per state.go's transition table.
type Parser func(uri string, src []byte) (*ast.Document, []diag.Diagnostic, error)

// ImportURIs extracts the raw import URIs a parsed document names, used
// to discover edges before resolving them against namespace aliases;
// kept separate from internal/analysis's own namespace derivation since
// the scheduler only needs the URIs, not the resolved per-document
// namespace table.
func ImportURIs(doc *ast.Document) []string {
	if doc == nil {
		return nil
	}
	out := make([]string, len(doc.Imports))
	for i, imp := range doc.Imports {
		out[i] = imp.URI
	}
	return out
}

// ResolveURI maps one document's relative import URI string against its
// own URI to an absolute URI usable as a graph node key; the caller
// supplies this since only it knows the URI scheme in play (file paths,
// an http(s) base, a virtual in-memory namespace).
type ResolveURI func(fromURI, importURI string) (string, error)

// Scheduler drives a Graph's nodes through the fetch/parse/analyze
// pipeline with bounded fetch concurrency and dependency-ordered
// analysis. It is grounded on `vovakirdan-surge/internal/driver`'s
// directory-at-a-time module resolution loop (fetch everything first,
// then walk dependency order once the graph is known), adapted from a
// single in-process directory scan to concurrent network/filesystem
// fetches guarded by a semaphore, the concurrency primitive
// `golang.org/x/sync` already supplies in that same example's go.mod.
type Scheduler struct {
	graph               *Graph
	fetch               Fetcher
	parse               Parser
	resolveURI          ResolveURI
	developmentFallback types.Version
	maxFetch            int64
	log                 *slog.Logger
}

// NewScheduler builds a Scheduler over g. Each document's own `version`
// header governs its analysis, per the fetcher contract's "version is
// read from the version header" rule; developmentFallback is the version
// a "development" header (or an unrecognized one) resolves to, configured
// per Analyzer rather than compiled in, per SPEC_FULL.md §11 item 1.
// maxFetch bounds concurrent in-flight fetches; a value <= 0 defaults to
// 8. logger may be nil, in which case slog.Default() is used.
func NewScheduler(g *Graph, fetch Fetcher, parse Parser, resolveURI ResolveURI, developmentFallback types.Version, maxFetch int64, logger *slog.Logger) *Scheduler {
	if maxFetch <= 0 {
		maxFetch = 8
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{graph: g, fetch: fetch, parse: parse, resolveURI: resolveURI, developmentFallback: developmentFallback, maxFetch: maxFetch, log: logger}
}

// Run fetches and analyzes every node reachable from the graph's current
// roots until the whole graph is quiescent (every node Analyzed or
// Failed), discovering new nodes from import statements as they are
// parsed. It returns once no further progress is possible, combining
// every round's fetch/parse errors into one aggregated error rather than
// stopping at the first, since a single bad import should not prevent
// the rest of an unrelated subgraph from being analyzed.
func (s *Scheduler) Run(ctx context.Context) error {
	runID := uuid.New()
	log := s.log.With("run_id", runID.String())
	log.Info("quiescence run starting", "nodes", s.graph.NodeCount())

	var combined error
	for round := 0; ; round++ {
		progressed, err := s.runRound(ctx)
		if err != nil {
			combined = multierr.Append(combined, errors.Wrapf(err, "round %d", round))
		}
		if !progressed {
			break
		}
	}
	if combined != nil {
		log.Error("quiescence run finished with errors", "error", combined)
	} else {
		log.Info("quiescence run reached quiescence")
	}
	return combined
}

// runRound fetches every Pending node once, links newly discovered
// imports into the graph, then analyzes every node whose dependencies
// are all settled, in Kahn-batch order. It reports whether it advanced
// any node, so Run knows whether another round could make progress
// (fetching a new import can itself introduce more Pending nodes).
func (s *Scheduler) runRound(ctx context.Context) (bool, error) {
	progressed := false
	var roundErr error

	fetched, fetchErr := s.fetchPending(ctx)
	if fetched > 0 {
		progressed = true
	}
	if fetchErr != nil {
		if ctx.Err() != nil {
			return progressed, fetchErr // cancellation, not a per-node failure: abort now
		}
		roundErr = multierr.Append(roundErr, fetchErr)
	}

	s.linkDiscoveredImports()
	s.reportCycles()

	analyzed, err := s.analyzeReady(ctx)
	if analyzed > 0 {
		progressed = true
	}
	if err != nil {
		roundErr = multierr.Append(roundErr, err)
	}
	return progressed, roundErr
}

// fetchPending fetches and parses every node currently Pending, up to
// maxFetch at a time, advancing each to Parsed or Failed. The returned
// error aggregates every node's fetch/parse failure via multierr rather
// than stopping at the first — one bad import should not block fetching
// the rest of an unrelated subgraph. An errgroup/context error (e.g.
// cancellation) still short-circuits the whole batch.
func (s *Scheduler) fetchPending(ctx context.Context) (int, error) {
	var pending []int
	for i := 0; i < s.graph.NodeCount(); i++ {
		if s.graph.Node(i).State == Pending {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	errs := make([]error, len(pending))
	sem := semaphore.NewWeighted(s.maxFetch)
	g, gctx := errgroup.WithContext(ctx)
	for i, idx := range pending {
		i, idx := i, idx
		if err := sem.Acquire(gctx, 1); err != nil {
			return 0, err
		}
		g.Go(func() error {
			defer sem.Release(1)
			errs[i] = s.fetchOne(gctx, idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return len(pending), err
	}
	return len(pending), multierr.Combine(errs...)
}

// fetchOne fetches and parses one node, advancing it to Parsed or
// Failed. Its returned error has already been recorded on the node via
// SetParsed; fetchPending folds it into its aggregated multierr for
// WaitUntilQuiescent to report.
func (s *Scheduler) fetchOne(ctx context.Context, idx int) error {
	node := s.graph.Node(idx)
	uri := node.URI
	s.graph.SetState(idx, Fetching)

	src, hash, err := s.fetch(ctx, uri)
	if err != nil {
		err = errors.Wrapf(err, "fetching %q", uri)
		s.log.Warn("fetch failed", "uri", uri, "error", err)
		s.graph.SetParsed(idx, "", nil, nil, nil, err)
		return err
	}
	if hash == "" {
		hash = hashSource(src)
	}
	if hash == node.SourceHash && node.Doc != nil {
		// Identical source: the prior parse is still valid, nothing to redo.
		s.graph.SetState(idx, Parsed)
		return nil
	}

	doc, parseDiags, err := s.parse(uri, src)
	if err != nil {
		err = errors.Wrapf(err, "parsing %q", uri)
		s.log.Warn("parse failed", "uri", uri, "error", err)
	}
	doc = stampURI(doc, uri)
	s.graph.SetParsed(idx, hash, src, doc, parseDiags, err)
	return err
}

func stampURI(doc *ast.Document, uri string) *ast.Document {
	if doc != nil {
		doc.URI = uri
	}
	return doc
}

func hashSource(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// linkDiscoveredImports walks every Parsed-or-later node's import list,
// resolves each URI, adds a graph node for it if new (unrooted, since it
// was only discovered through an import), and records the dependency
// edge. Nodes already past this step are left alone; re-parses
// triggered by Analyzer.NotifyChange go through RemoveDependencyEdges
// first, so edges are never silently duplicated.
func (s *Scheduler) linkDiscoveredImports() {
	for i := 0; i < s.graph.NodeCount(); i++ {
		n := s.graph.Node(i)
		if n.Doc == nil || n.State == Pending || n.State == Fetching {
			continue
		}
		if len(s.graph.Dependencies(i)) > 0 {
			continue // already linked on a prior round
		}
		for _, rawURI := range ImportURIs(n.Doc) {
			absURI, err := s.resolveURI(n.URI, rawURI)
			if err != nil {
				continue // reported as UnknownName by the analysis pass's import resolver miss
			}
			depIdx := s.graph.AddNode(absURI, false)
			s.graph.AddDependencyEdge(i, depIdx)
		}
	}
}

// reportCycles attaches an ImportCycle error to the importer's source
// span for every withheld cycle-closing edge recorded so far; a cycle
// already reported on the importer's current Result is not reported again.
// Locating the exact import statement's span requires the importer's
// parsed AST, which is why this runs after fetchPending rather than
// inline in AddDependencyEdge.
func (s *Scheduler) reportCycles() {
	for _, c := range s.graph.Cycles() {
		importer := s.graph.Node(c.Importer)
		importee := s.graph.Node(c.Importee)
		if importer.Doc == nil {
			continue
		}
		sp := span.Span{URI: importer.URI}
		for _, imp := range importer.Doc.Imports {
			absURI, err := s.resolveURI(importer.URI, imp.URI)
			if err == nil && absURI == importee.URI {
				sp = imp.URISpan
				break
			}
		}
		s.appendCycleDiagnostic(c.Importer, sp, importee.URI)
	}
}

func (s *Scheduler) appendCycleDiagnostic(idx int, sp span.Span, importeeURI string) {
	n := s.graph.Node(idx)
	if n.Result == nil {
		// No analysis has run for this node yet. The next round's
		// reportCycles, which runs after analyzeReady has stored a Result,
		// attaches the diagnostic.
		return
	}
	for _, d := range n.Result.Diagnostics {
		if d.RuleID == diag.RuleImportCycle && d.Primary.Span == sp {
			return
		}
	}
	n.Result.Diagnostics = append(n.Result.Diagnostics, diag.Diagnostic{
		Severity: diag.Error,
		RuleID:   diag.RuleImportCycle,
		Primary:  diag.Label{Span: sp, Message: fmt.Sprintf("import of %q would close a cycle", importeeURI)},
	})
	sort.SliceStable(n.Result.Diagnostics, func(i, j int) bool {
		a, b := n.Result.Diagnostics[i].Primary.Span, n.Result.Diagnostics[j].Primary.Span
		if a.URI != b.URI {
			return a.URI < b.URI
		}
		return a.Start < b.Start
	})
}

// analyzeReady analyzes every node whose dependencies are all Analyzed
// or Failed, in dependency order, using Kahn's algorithm over an
// in-degree defined as "number of not-yet-settled dependencies" — the
// reverse of a conventional topological-sort in-degree (which counts
// incoming edges), because here the node with no unresolved dependency
// is the one ready to run, not the one nobody depends on.
func (s *Scheduler) analyzeReady(ctx context.Context) (int, error) {
	n := s.graph.NodeCount()
	inDegree := make([]int, n)
	var queue []int
	for i := 0; i < n; i++ {
		node := s.graph.Node(i)
		if node.State != Parsed {
			continue
		}
		deg := 0
		for _, dep := range s.graph.Dependencies(i) {
			if !isSettled(s.graph.Node(dep).State) {
				deg++
			}
		}
		inDegree[i] = deg
		if deg == 0 {
			queue = append(queue, i)
		}
	}

	analyzed := 0
	for len(queue) > 0 {
		batch := queue
		queue = nil
		g, gctx := errgroup.WithContext(ctx)
		for _, idx := range batch {
			idx := idx
			g.Go(func() error { return s.analyzeOne(gctx, idx) })
		}
		if err := g.Wait(); err != nil {
			return analyzed, err
		}
		analyzed += len(batch)

		for _, idx := range batch {
			for _, dependent := range s.graph.Dependents(idx) {
				if s.graph.Node(dependent).State != Parsed {
					continue
				}
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					queue = append(queue, dependent)
				}
			}
		}
	}
	return analyzed, nil
}

func isSettled(st State) bool { return st == Analyzed || st == Failed }

func (s *Scheduler) analyzeOne(ctx context.Context, idx int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.graph.SetState(idx, Analyzing)
	node := s.graph.Node(idx)
	version, ok := analysis.ParseVersion(node.Doc.Version, s.developmentFallback)
	if !ok {
		version = s.developmentFallback
	}
	resolve := s.importResolverFor(node.URI)
	result := analysis.Analyze(node.Doc, version, resolve)
	if !ok {
		result.Diagnostics = append(result.Diagnostics, diag.Diagnostic{
			Severity: diag.Warning,
			RuleID:   diag.RuleUnrecognizedVersion,
			Primary:  diag.Label{Span: node.Doc.Span(), Message: fmt.Sprintf("unrecognized version %q, falling back to %s", node.Doc.Version, version)},
		})
		sort.SliceStable(result.Diagnostics, func(i, j int) bool {
			a, b := result.Diagnostics[i].Primary.Span, result.Diagnostics[j].Primary.Span
			if a.URI != b.URI {
				return a.URI < b.URI
			}
			return a.Start < b.Start
		})
	}
	s.graph.SetAnalyzed(idx, result)
	return nil
}

// importResolverFor builds the ImportResolver internal/analysis needs,
// backed by this graph's already-Analyzed sibling nodes.
func (s *Scheduler) importResolverFor(fromURI string) analysis.ImportResolver {
	return func(uri string) (*analysis.ImportedDoc, bool) {
		absURI, err := s.resolveURI(fromURI, uri)
		if err != nil {
			return nil, false
		}
		idx, ok := s.graph.Index(absURI)
		if !ok {
			return nil, false
		}
		node := s.graph.Node(idx)
		if node.State == Failed || node.Result == nil {
			return &analysis.ImportedDoc{URI: absURI, Failed: true}, true
		}
		return &analysis.ImportedDoc{
			URI:         absURI,
			StructTypes: node.Result.StructTypes,
			Tasks:       node.Result.Tasks,
			Workflow:    node.Result.Workflow,
		}, true
	}
}
