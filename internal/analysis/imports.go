package analysis

import (
	"net/url"
	"path"
	"strings"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
	"github.com/gowdl/wdlsem/internal/types"
)

// ImportedDoc is the exported surface of an already-analyzed document that
// an import statement may reference. The Graph & Scheduler layer builds
// these from a dependency's Result; this package never fetches or parses
// anything on its own (spec.md §1).
type ImportedDoc struct {
	URI         string
	StructTypes map[string]*types.Type
	Tasks       map[string]*TaskSignature
	Workflow    *WorkflowSignature
	Failed      bool
}

// ImportResolver resolves an import URI to its analyzed form. Returning
// ok=false (including a nil ImportResolver) means the importee could not
// be resolved; references through it produce UnknownName rather than a
// second diagnostic about the import itself, per spec.md §7.
type ImportResolver func(uri string) (*ImportedDoc, bool)

type importEntry struct {
	Namespace string
	URI       string
	Doc       *ImportedDoc
	Span      span.Span
	Used      bool
}

func (a *analyzer) runImportPass(resolve ImportResolver) {
	seen := map[string]span.Span{}
	for _, imp := range a.doc.Imports {
		ns, ok := deriveNamespace(imp.URI, imp.Alias)
		if !ok {
			a.sink.Errorf(diag.RuleInvalidImportNamespace, imp.URISpan,
				"cannot derive a valid namespace from this import; add an explicit 'as' alias")
			continue
		}
		if first, dup := seen[ns]; dup {
			a.sink.Report(diag.Diagnostic{
				Severity: diag.Error,
				RuleID:   diag.RuleConflictingImport,
				Primary:  diag.Label{Span: imp.URISpan, Message: "namespace \"" + ns + "\" is already used by another import"},
				Secondary: []diag.Label{
					{Span: first, Message: "first imported here"},
				},
			})
			continue
		}
		seen[ns] = imp.URISpan

		var doc *ImportedDoc
		if resolve != nil {
			doc, _ = resolve(imp.URI)
		}
		a.imports[ns] = &importEntry{Namespace: ns, URI: imp.URI, Doc: doc, Span: imp.URISpan}

		entry := a.imports[ns]
		for _, alias := range imp.StructAliases {
			if a.registerAliasedStruct(alias, doc) {
				entry.Used = true
			}
		}
	}
}

func (a *analyzer) registerAliasedStruct(alias ast.StructAlias, doc *ImportedDoc) bool {
	if doc == nil || doc.Failed {
		return false
	}
	t, ok := doc.StructTypes[alias.Foreign]
	if !ok {
		a.sink.Errorf(diag.RuleUnknownName, alias.Sp, "imported document has no struct named \""+alias.Foreign+"\"")
		return false
	}
	a.addStructCandidate(alias.Local, t, alias.Sp, originImport)
	return true
}

// deriveNamespace implements the import-namespace rule in spec.md §6:
// URL-decode percent escapes, drop query and fragment, lower-case the
// scheme (the rest of the URI keeps its case), then take the basename
// without extension as the namespace; it must be a valid identifier
// unless alias overrides it. net/url does the percent-decoding and
// query/fragment stripping; no third-party URI library appears anywhere
// in the retrieved pack for this, so net/url is the right call (see
// DESIGN.md's standard-library justifications).
func deriveNamespace(raw, alias string) (string, bool) {
	if alias != "" {
		return alias, isValidIdentifier(alias)
	}

	p := raw
	if u, err := url.Parse(raw); err == nil {
		switch {
		case u.Opaque != "":
			p = u.Opaque
		case u.Path != "":
			p = u.Path
		default:
			p = u.String()
		}
		_ = strings.ToLower(u.Scheme) // scheme normalization has no bearing on the namespace itself
	}

	base := path.Base(p)
	base = strings.TrimSuffix(base, path.Ext(base))
	if !isValidIdentifier(base) {
		return "", false
	}
	return base, true
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
