package scope

import "github.com/gowdl/wdlsem/internal/span"

// CallNamespace tracks call names across an entire workflow body, flat
// across scatter and conditional nesting (§3.2, §4.4): two calls named
// "foo" conflict even if one is inside a scatter and the other is not,
// and a call name must not collide with a scatter variable visible at the
// point of the call, or with a workflow-level declaration/output name.
type CallNamespace struct {
	entries map[string]callEntry
	order   []string
}

type callEntry struct {
	span span.Span
	kind Kind // KindCall or KindScatterVar, whichever registered first
}

// NewCallNamespace returns an empty namespace.
func NewCallNamespace() *CallNamespace {
	return &CallNamespace{entries: make(map[string]callEntry)}
}

// Register records name (a call name or a scatter variable) as claimed at
// sp. It returns the span of the earlier registration when name was
// already claimed, so the caller can attach a "first defined here"
// secondary label; ok is false in that case.
func (c *CallNamespace) Register(name string, sp span.Span, kind Kind) (first span.Span, ok bool) {
	if existing, in := c.entries[name]; in {
		return existing.span, false
	}
	c.entries[name] = callEntry{span: sp, kind: kind}
	c.order = append(c.order, name)
	return span.Span{}, true
}

// Names returns the flattened list of call names in registration order.
func (c *CallNamespace) Names() []string {
	var out []string
	for _, n := range c.order {
		if c.entries[n].kind == KindCall {
			out = append(out, n)
		}
	}
	return out
}
