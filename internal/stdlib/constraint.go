// Package stdlib is the declarative table of WDL built-in functions: for
// each name, the set of typed signatures with their parameter
// constraints, return-type computation, and minimum language version,
// mirroring the way stdlib/builtin declares a builder table per function
// in the teacher repo, but data-only rather than code-generating.
package stdlib

import "github.com/gowdl/wdlsem/internal/types"

// Constraint narrows which actual types a formal parameter accepts beyond
// plain coercibility (§4.3).
type Constraint uint8

const (
	// NoConstraint accepts anything coercible to the formal type.
	NoConstraint Constraint = iota
	// PrimitiveType requires any primitive, optional allowed.
	PrimitiveType
	// AnyType accepts any WDL type including compounds.
	AnyType
	// StructWithPrimitiveMembers requires a struct whose every member is
	// primitive.
	StructWithPrimitiveMembers
	// OptionalConstraint requires the argument type to already be optional.
	OptionalConstraint
	// JSONSerializable requires a type recursively composed of primitives,
	// arrays, maps with string keys, structs, and objects.
	JSONSerializable
)

// Satisfies reports whether t meets the constraint, independent of
// coercion to any particular formal parameter type.
func (c Constraint) Satisfies(t *types.Type) bool {
	switch c {
	case NoConstraint, AnyType:
		return true
	case PrimitiveType:
		return t.NonOptional().Kind().IsPrimitive() || t.IsUnion()
	case OptionalConstraint:
		return t.IsOptional() || t.IsNone() || t.IsUnion()
	case StructWithPrimitiveMembers:
		return structHasOnlyPrimitiveMembers(t)
	case JSONSerializable:
		return isJSONSerializable(t, nil)
	default:
		return true
	}
}

func structHasOnlyPrimitiveMembers(t *types.Type) bool {
	nt := t.NonOptional()
	if nt.IsUnion() {
		return true
	}
	if nt.Kind() != types.StructRef {
		return false
	}
	for _, m := range nt.Members() {
		if !m.Type.NonOptional().Kind().IsPrimitive() {
			return false
		}
	}
	return true
}

func isJSONSerializable(t *types.Type, seen []*types.Type) bool {
	nt := t.NonOptional()
	if nt.IsUnion() {
		return true
	}
	for _, s := range seen {
		if s == nt {
			return true // recursive struct reference; assume fine, matches value-recursion in practice
		}
	}
	switch nt.Kind() {
	case types.Boolean, types.Int, types.Float, types.String, types.File, types.Directory:
		return true
	case types.Array:
		return isJSONSerializable(nt.Elem(), seen)
	case types.Map:
		return nt.KeyOrRight().NonOptional().Kind() == types.String && isJSONSerializable(nt.Elem(), seen)
	case types.StructRef, types.Object:
		seen = append(seen, nt)
		for _, m := range nt.Members() {
			if !isJSONSerializable(m.Type, seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
