package stdlib

import "github.com/gowdl/wdlsem/internal/types"

// ResolveStatus classifies the outcome of overload resolution.
type ResolveStatus uint8

const (
	Resolved ResolveStatus = iota
	UnknownFunction
	NoMatch
	Ambiguous
)

// Result is the outcome of resolving one call expression against the
// catalog.
type Result struct {
	Status  ResolveStatus
	Return  *types.Type // valid when Status == Resolved
	Sig     Signature    // valid when Status == Resolved
	SigIdx  int
}

// Resolve implements the five-step overload resolution algorithm of §4.3:
// filter by arity, filter by version, filter by per-argument coercibility,
// rank survivors, and require a unique best.
func Resolve(name string, args []*types.Type, version types.Version) Result {
	sigs, ok := Catalog[name]
	if !ok {
		return Result{Status: UnknownFunction}
	}

	type candidate struct {
		idx      int
		sig      Signature
		scores   []int // per-arg CoerceKind rank, lower is better
		generics map[string]*types.Type
	}
	var candidates []candidate

	for i, sig := range sigs {
		min, max := sig.arity()
		if len(args) < min || len(args) > max {
			continue
		}
		if !version.AtLeast(sig.MinVersion) {
			continue
		}
		generics := map[string]*types.Type{}
		scores := make([]int, len(args))
		ok := true
		for a, at := range args {
			p := sig.param(a)

			if p.Shape != ShapeNone {
				if !shapeMatches(p.Shape, at) {
					ok = false
					break
				}
				scores[a] = types.Identity.Rank()
				continue
			}

			formal := p.Type
			if p.Generic != "" {
				if bound, seen := generics[p.Generic]; seen {
					formal = bound
				} else {
					if !p.Constraint.Satisfies(at) {
						ok = false
						break
					}
					generics[p.Generic] = at
					scores[a] = types.Identity.Rank()
					continue
				}
			}
			if p.Constraint != NoConstraint && !p.Constraint.Satisfies(at) {
				ok = false
				break
			}
			kind := types.CoerceInVersion(at, formal, version)
			// Preference: coercing to an optional formal when the formal is
			// itself optional outranks any other coercion kind for that
			// argument, per §4.3 step 4.
			if formal.IsOptional() && kind != types.NoCoercion {
				scores[a] = -1
				continue
			}
			if kind == types.NoCoercion {
				ok = false
				break
			}
			scores[a] = kind.Rank()
		}
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{idx: i, sig: sig, scores: scores, generics: generics})
	}

	if len(candidates) == 0 {
		return Result{Status: NoMatch}
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if lexLess(candidates[i].scores, candidates[best].scores) {
			best = i
		}
	}
	tie := false
	for i := range candidates {
		if i == best {
			continue
		}
		if lexEqual(candidates[i].scores, candidates[best].scores) {
			tie = true
			break
		}
	}
	if tie {
		return Result{Status: Ambiguous}
	}

	c := candidates[best]
	ret := c.sig.computeReturn(args, c.generics)
	return Result{Status: Resolved, Return: ret, Sig: c.sig, SigIdx: c.idx}
}

// shapeMatches reports whether at's outer compound kind matches the
// requested shape, ignoring optionality and inner element types entirely
// (those are read back out of the actual argument by the signature's
// ReturnFn).
func shapeMatches(s Shape, at *types.Type) bool {
	if at.IsUnion() {
		return true
	}
	nt := at.NonOptional()
	switch s {
	case ShapeAnyArray:
		return nt.Kind() == types.Array
	case ShapeAnyMap:
		return nt.Kind() == types.Map
	case ShapeAnyPair:
		return nt.Kind() == types.Pair
	default:
		return true
	}
}

func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func lexEqual(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
