package stdlib

import "github.com/gowdl/wdlsem/internal/types"

// Shape narrows a formal parameter to "any Array/Map/Pair", when the
// signature only cares about the argument's outer compound shape and
// computes its return type directly from that argument's element types
// rather than from a fully generic substitution.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeAnyArray
	ShapeAnyMap
	ShapeAnyPair
)

// Param is one formal parameter of a signature.
//
//   - A concrete Type with Generic == "" and Shape == ShapeNone is checked
//     by ordinary coercion.
//   - A non-empty Generic name means the actual type at this position
//     becomes a named placeholder, reused (and required to match) for
//     every later parameter using the same name; Constraint narrows what
//     it may bind to.
//   - A non-zero Shape accepts any Array/Map/Pair regardless of its
//     element types; the signature's ReturnFn reads the concrete element
//     types back out of the actual argument.
type Param struct {
	Name       string
	Type       *types.Type
	Generic    string
	Shape      Shape
	Constraint Constraint
	Optional   bool // parameter has a default and may be omitted
}

// ReturnFunc computes a signature's return type from the concrete
// argument types and any resolved generic bindings.
type ReturnFunc func(args []*types.Type, generics map[string]*types.Type) *types.Type

// Signature is one typed overload of a stdlib function.
type Signature struct {
	Required   []Param
	Optional   []Param
	Return     *types.Type // used when ReturnFn is nil
	ReturnFn   ReturnFunc
	MinVersion types.Version
}

// arity returns the [min,max] number of accepted arguments: min is
// len(Required) and max is len(Required)+len(Optional), since the WDL
// stdlib has no true varargs.
func (s Signature) arity() (min, max int) {
	return len(s.Required), len(s.Required) + len(s.Optional)
}

func (s Signature) param(i int) Param {
	if i < len(s.Required) {
		return s.Required[i]
	}
	return s.Optional[i-len(s.Required)]
}

func (s Signature) paramCount() int {
	return len(s.Required) + len(s.Optional)
}

// computeReturn evaluates the signature's return type given resolved
// generics.
func (s Signature) computeReturn(args []*types.Type, generics map[string]*types.Type) *types.Type {
	if s.ReturnFn != nil {
		return s.ReturnFn(args, generics)
	}
	return substituteGenerics(s.Return, generics)
}

func substituteGenerics(t *types.Type, generics map[string]*types.Type) *types.Type {
	// Return types in this catalog either name a generic directly (handled
	// by ReturnFn) or don't reference one, so this is a passthrough hook
	// kept for symmetry and future generic return shapes (e.g. Array[T]).
	return t
}
