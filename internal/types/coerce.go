package types

// CoerceKind classifies how a value of one type is converted to another.
// Overload ranking (stdlib catalog, §4.3) orders candidates by this kind
// per-argument: Identity < Widen < Optional < Narrow < String.
type CoerceKind uint8

const (
	// NoCoercion means no path exists; the caller must report a mismatch.
	NoCoercion CoerceKind = iota
	Identity
	Widen
	OptionalWrap
	Narrow
	StringWiden
)

func (k CoerceKind) String() string {
	switch k {
	case Identity:
		return "Identity"
	case Widen:
		return "Widen"
	case OptionalWrap:
		return "Optional"
	case Narrow:
		return "Narrow"
	case StringWiden:
		return "String"
	default:
		return "NoCoercion"
	}
}

// Rank gives the lexicographic ordering used by overload resolution; lower
// is preferred. NoCoercion sorts last (and is never a viable candidate).
func (k CoerceKind) Rank() int {
	switch k {
	case Identity:
		return 0
	case Widen:
		return 1
	case OptionalWrap:
		return 2
	case Narrow:
		return 3
	case StringWiden:
		return 4
	default:
		return 5
	}
}

// Version is the WDL language version governing which coercions and
// stdlib signatures are visible to a document.
type Version struct {
	Major, Minor int
}

func (v Version) String() string {
	switch {
	case v.Major == 0 && v.Minor == 0:
		return "draft-2"
	default:
		return itoa(v.Major) + "." + itoa(v.Minor)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

var (
	V1_0 = Version{1, 0}
	V1_1 = Version{1, 1}
	V1_2 = Version{1, 2}
)

// AtLeast reports whether v is >= other.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// Coerce computes how a value typed `from` can be used where `to` is
// expected, without regard to WDL version; File/Directory -> String is
// always reported as StringWiden here; the document analyzer downgrades it
// to NoCoercion for documents older than 1.1 (see CoerceInVersion).
func Coerce(from, to *Type) CoerceKind {
	if from == nil || to == nil {
		return Identity
	}
	if from.IsUnion() || to.IsUnion() {
		return Identity
	}
	if from.IsNone() {
		if to.optional || to.IsNone() {
			return OptionalWrap
		}
		return NoCoercion
	}
	if from.Equal(to) {
		return Identity
	}

	// Narrow: T? -> T is allowed only behind a caller-visible flag; report
	// it here so the caller can accept or reject it, emitting the
	// compatibility warning when accepted.
	if from.optional && !to.optional && from.NonOptional().Equal(to) {
		return Narrow
	}
	if from.optional && !to.optional {
		if k := Coerce(from.NonOptional(), to); k != NoCoercion && k.Rank() < Narrow.Rank() {
			return Narrow
		}
	}

	// Optional wrap: T -> T?.
	if !from.optional && to.optional {
		inner := coerceStructural(from, to.NonOptional())
		if inner != NoCoercion {
			if inner == Identity {
				return OptionalWrap
			}
			return inner
		}
		return NoCoercion
	}

	return coerceStructural(from, to)
}

// coerceStructural computes coercion ignoring optionality, which the
// caller has already reconciled.
func coerceStructural(from, to *Type) CoerceKind {
	if from.kind == to.kind {
		switch from.kind {
		case Array:
			if from.nonEmpty != to.nonEmpty && !(from.nonEmpty && !to.nonEmpty) {
				return NoCoercion
			}
			inner := Coerce(from.elem, to.elem)
			if inner == NoCoercion {
				return NoCoercion
			}
			if inner == Identity && from.nonEmpty == to.nonEmpty {
				return Identity
			}
			return maxKind(Widen, inner)
		case Map:
			if !from.elem2.Equal(to.elem2) {
				return NoCoercion
			}
			inner := Coerce(from.elem, to.elem)
			if inner == NoCoercion {
				return NoCoercion
			}
			if inner == Identity {
				return Identity
			}
			return maxKind(Widen, inner)
		case Pair:
			l := Coerce(from.elem, to.elem)
			r := Coerce(from.elem2, to.elem2)
			if l == NoCoercion || r == NoCoercion {
				return NoCoercion
			}
			if l == Identity && r == Identity {
				return Identity
			}
			return maxKind(Widen, maxKind(l, r))
		case StructRef, CallOutput, Hints, Input, Output:
			if structSubtype(from.members, to.members) {
				if structurallyEqualMembers(from.members, to.members) {
					return Identity
				}
				return Widen
			}
			return NoCoercion
		}
		return Identity
	}

	// Numeric promotion: Int -> Float.
	if from.kind == Int && to.kind == Float {
		return Widen
	}
	// File/Directory -> String.
	if (from.kind == File || from.kind == Directory) && to.kind == String {
		return StringWiden
	}
	// Empty array literal, typed Array[Union]+?, widens to any array type.
	if from.kind == Array && to.kind == Array && from.elem.IsUnion() {
		return Widen
	}
	return NoCoercion
}

func maxKind(a, b CoerceKind) CoerceKind {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// MinVersionFor reports the minimum WDL version required for the
// File/Directory -> String widening; it returns ok=false for coercions that
// are not version-gated.
func MinVersionFor(from, to *Type) (Version, bool) {
	if from == nil || to == nil {
		return Version{}, false
	}
	if (from.NonOptional().kind == File || from.NonOptional().kind == Directory) && to.NonOptional().kind == String {
		return V1_1, true
	}
	return Version{}, false
}

// CoerceInVersion behaves like Coerce but downgrades version-gated
// coercions to NoCoercion when v does not meet their minimum.
func CoerceInVersion(from, to *Type, v Version) CoerceKind {
	k := Coerce(from, to)
	if k == NoCoercion {
		return k
	}
	if min, ok := MinVersionFor(from, to); ok && !v.AtLeast(min) {
		return NoCoercion
	}
	return k
}
