// Package analyzer is the public surface over the document graph,
// scheduler, and per-document analysis passes: a caller builds one
// Analyzer, tells it which documents are roots, and drives it to
// quiescence, then reads each document's diagnostics, scope tables, and
// inferred types back out through a DocumentView.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sort"
	"sync"

	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/graph"
	"github.com/gowdl/wdlsem/internal/types"
	"github.com/gowdl/wdlsem/internal/wdlparse"
)

// Option configures an Analyzer at construction time.
type Option func(*config)

type config struct {
	developmentFallback types.Version
	maxFetch             int64
	logger               *slog.Logger
	resolveURI           graph.ResolveURI
	parser               graph.Parser
	diagConfig           map[string]diag.Severity
}

// WithDevelopmentFallback sets the version a "development" (or
// unrecognized) version header resolves to; SPEC_FULL.md §11 item 1.
// Defaults to types.V1_2.
func WithDevelopmentFallback(v types.Version) Option {
	return func(c *config) { c.developmentFallback = v }
}

// WithDiagnosticConfig installs a rule-id -> severity remap applied to
// every document's diagnostics when read back through a DocumentView.
// Mapping a rule to diag.Off drops it entirely rather than merely
// downgrading it; SPEC_FULL.md §11 item 3.
func WithDiagnosticConfig(cfg map[string]diag.Severity) Option {
	return func(c *config) { c.diagConfig = cfg }
}

// WithMaxConcurrentFetches bounds in-flight fetches; <= 0 defaults to 8.
func WithMaxConcurrentFetches(n int64) Option {
	return func(c *config) { c.maxFetch = n }
}

// WithLogger overrides the slog.Logger the scheduler logs through.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithResolveURI overrides how a relative import URI is resolved against
// its importer's own URI. Defaults to DefaultResolveURI.
func WithResolveURI(fn graph.ResolveURI) Option {
	return func(c *config) { c.resolveURI = fn }
}

// WithParser overrides the front end that turns fetched source into an
// AST. Defaults to wdlparse.Parse.
func WithParser(p graph.Parser) Option {
	return func(c *config) { c.parser = p }
}

// Analyzer owns a document graph and the scheduler that drives it,
// plus the source overrides NotifyChange/NotifyIncrementalChange install
// ahead of the caller's real FetchFunc.
type Analyzer struct {
	mu         sync.Mutex
	g          *graph.Graph
	sched      *graph.Scheduler
	resolveURI graph.ResolveURI
	overrides  map[string][]byte
	diagConfig map[string]diag.Severity
}

// New builds an Analyzer that fetches document source through fetch,
// applying opts over a default configuration: development fallback
// types.V1_2, 8 concurrent fetches, wdlparse.Parse as the front end, and
// DefaultResolveURI for relative import resolution.
func New(fetch FetchFunc, opts ...Option) *Analyzer {
	cfg := &config{
		developmentFallback: types.V1_2,
		maxFetch:            8,
		resolveURI:          DefaultResolveURI,
		parser:              graph.Parser(wdlparse.Parse),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	a := &Analyzer{
		g:          graph.New(),
		resolveURI: cfg.resolveURI,
		overrides:  map[string][]byte{},
		diagConfig: cfg.diagConfig,
	}

	wrapped := graph.Fetcher(func(ctx context.Context, uri string) ([]byte, string, error) {
		a.mu.Lock()
		src, ok := a.overrides[uri]
		a.mu.Unlock()
		if ok {
			return src, contentHash(src), nil
		}
		return fetch(ctx, uri)
	})

	a.sched = graph.NewScheduler(a.g, wrapped, cfg.parser, cfg.resolveURI, cfg.developmentFallback, cfg.maxFetch, cfg.logger)
	return a
}

func contentHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// AddDocuments roots each uri, adding it to the graph if not already
// tracked. A subsequent WaitUntilQuiescent fetches and analyzes it and
// anything it transitively imports.
func (a *Analyzer) AddDocuments(uris ...string) {
	for _, uri := range uris {
		a.g.AddNode(uri, true)
	}
}

// RemoveDocuments unroots each uri, then garbage-collects any node left
// with no root and no remaining importer.
func (a *Analyzer) RemoveDocuments(uris ...string) {
	for _, uri := range uris {
		a.g.Unroot(uri)
	}
	a.g.GC()
}

// NotifyChange replaces uri's source with newSource, to be picked up by
// the next WaitUntilQuiescent: the node (added as a root if not already
// tracked) is reset to Pending, discarding its prior parse and analysis
// results and its outgoing dependency edges so they are rediscovered
// from the new source rather than left stale.
func (a *Analyzer) NotifyChange(uri string, newSource []byte) {
	a.mu.Lock()
	a.overrides[uri] = newSource
	a.mu.Unlock()

	idx, ok := a.g.Index(uri)
	if !ok {
		a.g.AddNode(uri, true)
		return
	}
	a.g.RemoveDependencyEdges(idx)
	a.g.Reset(idx)
}

// Edit describes one byte-range replacement within a document's current
// source, the unit NotifyIncrementalChange applies; [Start, End) is
// replaced with NewText. Edits are opaque to the analysis core — there
// is no incremental reparse, the spliced result is simply treated as a
// fresh NotifyChange.
type Edit struct {
	Start, End int
	NewText    string
}

// NotifyIncrementalChange splices edits into uri's current source (the
// last one NotifyChange installed, or the node's last fetched source if
// none) and routes the result through NotifyChange. Edits are applied in
// descending Start order so earlier offsets stay valid as later ones are
// spliced in; it returns an error if uri is not tracked or an edit's
// range falls outside the current source.
func (a *Analyzer) NotifyIncrementalChange(uri string, edits []Edit) error {
	idx, ok := a.g.Index(uri)
	if !ok {
		return errNotTracked(uri)
	}

	a.mu.Lock()
	src, ok := a.overrides[uri]
	a.mu.Unlock()
	if !ok {
		src = a.g.Node(idx).Source
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	for _, e := range ordered {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return errBadEditRange(uri, e)
		}
		next := make([]byte, 0, len(src)-(e.End-e.Start)+len(e.NewText))
		next = append(next, src[:e.Start]...)
		next = append(next, []byte(e.NewText)...)
		next = append(next, src[e.End:]...)
		src = next
	}

	a.NotifyChange(uri, src)
	return nil
}

// WaitUntilQuiescent fetches, parses, and analyzes every tracked document
// (and everything it transitively imports) until no further progress is
// possible, returning an aggregated error if any fetch or parse failed.
func (a *Analyzer) WaitUntilQuiescent(ctx context.Context) error {
	return a.sched.Run(ctx)
}

// Document returns a view over uri's most recent analysis, or ok=false
// if uri is not tracked or has not been analyzed yet (WaitUntilQuiescent
// has not run, or the node is still Pending/Failed).
func (a *Analyzer) Document(uri string) (*DocumentView, bool) {
	idx, ok := a.g.Index(uri)
	if !ok {
		return nil, false
	}
	node := a.g.Node(idx)
	if node.Result == nil {
		return nil, false
	}
	return &DocumentView{result: node.Result, diagConfig: a.diagConfig}, true
}
