package types

// Subtype reports whether a value of type a may be used wherever b is
// expected, ignoring WDL version gating (callers that care about the
// File/Directory -> String widening being 1.1+-only should consult
// MinVersionFor before accepting it; see coerce.go).
func Subtype(a, b *Type) bool {
	if a == nil || b == nil {
		// A nil Type stands for Union at this layer; Union is both a subtype
		// and a supertype of everything.
		return true
	}
	if a.IsUnion() || b.IsUnion() {
		return true
	}
	if a.IsNone() {
		// None is a subtype of every optional type, and of None itself.
		return b.optional || b.IsNone()
	}
	if a.optional && !b.optional {
		return false
	}
	if !a.optional && b.optional {
		return subtypeStructural(a, b.NonOptional())
	}
	return subtypeStructural(a, b)
}

// subtypeStructural compares a and b ignoring their optional markers, which
// the caller has already reconciled.
func subtypeStructural(a, b *Type) bool {
	if a.kind == b.kind {
		switch a.kind {
		case Array:
			if a.nonEmpty && !b.nonEmpty {
				return Subtype(a.elem, b.elem) && a.elem.Equal(b.elem)
			}
			return a.nonEmpty == b.nonEmpty && elemSubtype(a.elem, b.elem)
		case Map:
			return a.elem2.Equal(b.elem2) && elemSubtype(a.elem, b.elem)
		case Pair:
			return elemSubtype(a.elem, b.elem) && elemSubtype(a.elem2, b.elem2)
		case StructRef:
			return structSubtype(a.members, b.members)
		case CallOutput, Hints, Input, Output:
			return a.name == b.name && structSubtype(a.members, b.members)
		default:
			return true
		}
	}
	// Array[T]+ is a subtype of Array[T].
	if a.kind == Array && b.kind == Array {
		return elemSubtype(a.elem, b.elem)
	}
	// File and Directory widen to String.
	if (a.kind == File || a.kind == Directory) && b.kind == String {
		return true
	}
	return false
}

func elemSubtype(a, b *Type) bool {
	return Subtype(a, b)
}

// structSubtype allows a struct value where a structurally-equivalent one
// is expected: same ordered member names, each member type a subtype.
// This is what makes the same struct imported under two different
// aliases, or imported vs. locally redeclared, mutually compatible.
func structSubtype(a, b []Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Subtype(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}
