package types

import "fmt"

// Member is one field of a struct type or call-output record: an ordered
// name and its declared type.
type Member struct {
	Name string
	Type *Type
}

// Type is a value-semantic descriptor for a WDL type. Two Types are
// structurally comparable with Equal; a Type should never be mutated after
// construction, so values are always copied or rebuilt via With*.
type Type struct {
	kind     Kind
	optional bool

	// Array, Map value, Pair left.
	elem *Type
	// Map key, Pair right.
	elem2 *Type
	// Array: true when the array carries the WDL "+" (non-empty) marker.
	nonEmpty bool

	// StructRef / CallOutput / Hints / Input / Output.
	name    string
	members []Member
}

// New constructs a primitive or nominal-only type of the given kind.
func New(k Kind) *Type { return &Type{kind: k} }

// Boolean, Int, Float, String, File, Directory are the interned primitive
// types; callers should prefer these over New(kind) to reduce allocation
// and because equality checks short-circuit on pointer identity first.
var (
	TBoolean   = New(Boolean)
	TInt       = New(Int)
	TFloat     = New(Float)
	TString    = New(String)
	TFile      = New(File)
	TDirectory = New(Directory)
	TObject    = New(Object)
	TUnion     = New(Union)
	TNone      = New(NoneT)
	TTask      = New(TaskHandle)
)

// NewArray builds Array[elem], optionally non-empty.
func NewArray(elem *Type, nonEmpty bool) *Type {
	return &Type{kind: Array, elem: elem, nonEmpty: nonEmpty}
}

// NewMap builds Map[key,value]; key must be a primitive per the grammar,
// but this constructor does not itself enforce that invariant so that
// callers can still build (and diagnose) an ill-formed Map literal type.
func NewMap(key, value *Type) *Type {
	return &Type{kind: Map, elem2: key, elem: value}
}

// NewPair builds Pair[left,right].
func NewPair(left, right *Type) *Type {
	return &Type{kind: Pair, elem: left, elem2: right}
}

// NewStruct builds a named struct type with ordered members.
func NewStruct(name string, members []Member) *Type {
	return &Type{kind: StructRef, name: name, members: members}
}

// NewCallOutput builds the synthetic record type produced by a call node.
func NewCallOutput(calleeName string, outputs []Member) *Type {
	return &Type{kind: CallOutput, name: calleeName, members: outputs}
}

// NewLiteralRecord builds a Hints, Input, or Output nominal literal type.
func NewLiteralRecord(k Kind, members []Member) *Type {
	return &Type{kind: k, members: members}
}

// Optional returns a copy of t marked optional. Optional is idempotent:
// (T?)? == T?.
func (t *Type) Optional() *Type {
	if t == nil {
		return nil
	}
	if t.optional {
		return t
	}
	cp := *t
	cp.optional = true
	return &cp
}

// NonOptional returns a copy of t with the optional marker cleared.
func (t *Type) NonOptional() *Type {
	if t == nil || !t.optional {
		return t
	}
	cp := *t
	cp.optional = false
	return &cp
}

// IsOptional reports whether t is marked with `?`.
func (t *Type) IsOptional() bool {
	return t != nil && t.optional
}

// Kind returns the type's tag.
func (t *Type) Kind() Kind {
	if t == nil {
		return Invalid
	}
	return t.kind
}

// IsUnion reports whether t is the absorbing Union type (ignoring
// optionality, since Union? and Union behave identically as "accept
// anything").
func (t *Type) IsUnion() bool { return t != nil && t.kind == Union }

// IsNone reports whether t is the type of the `None` literal.
func (t *Type) IsNone() bool { return t != nil && t.kind == NoneT }

// Elem returns the element type of an Array, the value type of a Map, or
// the left type of a Pair.
func (t *Type) Elem() *Type {
	if t == nil {
		return nil
	}
	return t.elem
}

// KeyOrRight returns the key type of a Map or the right type of a Pair.
func (t *Type) KeyOrRight() *Type {
	if t == nil {
		return nil
	}
	return t.elem2
}

// NonEmpty reports whether an Array type carries the "+" marker.
func (t *Type) NonEmpty() bool { return t != nil && t.nonEmpty }

// Name returns the struct/call/literal name, if any.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Members returns the ordered members of a struct, call-output, or literal
// record type.
func (t *Type) Members() []Member {
	if t == nil {
		return nil
	}
	return t.members
}

// Member looks up a member by name, preserving the "not found" signal
// distinctly from a member typed Union.
func (t *Type) Member(name string) (*Type, bool) {
	if t == nil {
		return nil, false
	}
	for _, m := range t.members {
		if m.Name == name {
			return m.Type, true
		}
	}
	return nil, false
}

// Equal reports structural equality, ignoring optionality on the caller's
// behalf only when both sides agree on it: callers that want to ignore
// optional markers should call NonOptional first.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if t.optional != o.optional {
		return false
	}
	return t.equalIgnoringOptional(o)
}

func (t *Type) equalIgnoringOptional(o *Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case Array:
		return t.nonEmpty == o.nonEmpty && t.elem.Equal(o.elem)
	case Map:
		return t.elem2.Equal(o.elem2) && t.elem.Equal(o.elem)
	case Pair:
		return t.elem.Equal(o.elem) && t.elem2.Equal(o.elem2)
	case StructRef:
		return structurallyEqualMembers(t.members, o.members)
	case CallOutput, Hints, Input, Output:
		return t.name == o.name && structurallyEqualMembers(t.members, o.members)
	default:
		return true
	}
}

func structurallyEqualMembers(a, b []Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}

// String renders the type using WDL surface syntax, e.g. "Array[File]+?".
// Diagnostic messages must use exactly this form.
func (t *Type) String() string {
	return Display(t)
}

var _ fmt.Stringer = (*Type)(nil)
