package analyzer

import (
	"net/url"
	"path"
	"strings"
)

// DefaultResolveURI produces the absolute node key the graph indexes
// documents by: it resolves a relative importURI against fromURI the way
// net/url resolves a relative reference against a base — or, when
// fromURI carries no scheme, by joining them as plain filesystem paths.
// A URL result has its query and fragment dropped and its scheme
// lower-cased, with case preserved in the rest; its percent escapes are
// not decoded but kept as net/url re-encodes them. A filesystem-path
// result is importURI joined as written: no percent-decoding and no
// query or fragment stripping. Namespace derivation
// (internal/analysis.deriveNamespace) decodes separately.
func DefaultResolveURI(fromURI, importURI string) (string, error) {
	ref, err := url.Parse(importURI)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return normalizeURL(ref), nil
	}

	base, err := url.Parse(fromURI)
	if err != nil || !base.IsAbs() {
		// Neither side has a scheme: treat both as filesystem paths.
		dir := path.Dir(fromURI)
		return path.Clean(path.Join(dir, importURI)), nil
	}
	resolved := base.ResolveReference(ref)
	return normalizeURL(resolved), nil
}

func normalizeURL(u *url.URL) string {
	out := *u
	out.Scheme = strings.ToLower(out.Scheme)
	out.RawQuery = ""
	out.Fragment = ""
	return out.String()
}
