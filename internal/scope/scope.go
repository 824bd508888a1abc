package scope

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ordered"
)

// TreeKind tags what kind of body a Scope was opened for.
type TreeKind uint8

const (
	KindDocument TreeKind = iota
	KindTask
	KindWorkflow
	KindScatter
	KindConditional
)

// Scope is one node of the lexical scope tree rooted at a document. A
// declaration in an enclosing scope is visible from every descendant
// scope (§4.4); a scatter body additionally shadows same-named enclosing
// declarations with its loop variable, but only within that body.
type Scope struct {
	Kind     TreeKind
	Parent   *Scope
	Children []*Scope

	members *ordered.Map[string, *Symbol]
}

// New opens a child scope of parent (nil for the document root scope).
func New(kind TreeKind, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Parent: parent, members: ordered.NewMap[string, *Symbol]()}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Declare adds sym to the scope's local members. It does not itself check
// for redeclaration; callers use IsLocal beforehand so they can control
// exactly which rule_id and secondary label to attach to the conflict.
func (s *Scope) Declare(sym *Symbol) {
	s.members.Store(sym.Name, sym)
}

// IsLocal reports whether name is declared directly in this scope (not an
// ancestor), returning the existing Symbol so callers can build a "first
// defined here" secondary label.
func (s *Scope) IsLocal(name string) (*Symbol, bool) {
	return s.members.Load(name)
}

// Lookup walks this scope and its ancestors, returning the nearest
// enclosing declaration of name.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.members.Load(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// Members returns the ordered map of symbols declared directly in this
// scope (not ancestors).
func (s *Scope) Members() *ordered.Map[string, *Symbol] {
	return s.members
}

// MarkUsed records that name was referenced, walking to the declaring
// scope so unused-symbol post-checks see it regardless of nesting depth.
func (s *Scope) MarkUsed(name string) {
	if sym, ok := s.Lookup(name); ok {
		sym.Used = true
	}
}

// String renders the scope chain for debugging.
func (s *Scope) String() string {
	if s == nil {
		return "<nil scope>"
	}
	return fmt.Sprintf("scope(kind=%d, %d local members)", s.Kind, s.members.Size())
}
