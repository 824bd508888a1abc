package stdlib

import (
	"testing"

	"github.com/gowdl/wdlsem/internal/types"
)

func TestResolveUnknownFunction(t *testing.T) {
	r := Resolve("not_a_real_function", nil, types.V1_2)
	if r.Status != UnknownFunction {
		t.Fatalf("Status = %v, want UnknownFunction", r.Status)
	}
}

func TestResolveLengthOfArray(t *testing.T) {
	r := Resolve("length", []*types.Type{types.NewArray(types.TString, false)}, types.V1_0)
	if r.Status != Resolved {
		t.Fatalf("Status = %v, want Resolved", r.Status)
	}
	if !r.Return.Equal(types.TInt) {
		t.Errorf("Return = %v, want Int", r.Return)
	}
}

func TestResolveLengthOfNonArrayFails(t *testing.T) {
	r := Resolve("length", []*types.Type{types.TInt}, types.V1_0)
	if r.Status != NoMatch {
		t.Fatalf("Status = %v, want NoMatch", r.Status)
	}
}

func TestResolveSelectFirstUnwrapsOptional(t *testing.T) {
	arr := types.NewArray(types.TString.Optional(), false)
	r := Resolve("select_first", []*types.Type{arr}, types.V1_0)
	if r.Status != Resolved {
		t.Fatalf("Status = %v, want Resolved", r.Status)
	}
	if !r.Return.Equal(types.TString) {
		t.Errorf("Return = %v, want String", r.Return)
	}
}

func TestResolveVersionGating(t *testing.T) {
	r := Resolve("matches", []*types.Type{types.TString, types.TString}, types.V1_0)
	if r.Status != NoMatch {
		t.Fatalf("matches() in 1.0: Status = %v, want NoMatch (added in 1.2)", r.Status)
	}
	r = Resolve("matches", []*types.Type{types.TString, types.TString}, types.V1_2)
	if r.Status != Resolved {
		t.Fatalf("matches() in 1.2: Status = %v, want Resolved", r.Status)
	}
}

func TestResolveOverloadPicksNarrowestNumericMatch(t *testing.T) {
	r := Resolve("min", []*types.Type{types.TInt, types.TInt}, types.V1_0)
	if r.Status != Resolved || !r.Return.Equal(types.TInt) {
		t.Fatalf("min(Int, Int) = %v %v, want Resolved Int", r.Status, r.Return)
	}
	r = Resolve("min", []*types.Type{types.TInt, types.TFloat}, types.V1_0)
	if r.Status != Resolved || !r.Return.Equal(types.TFloat) {
		t.Fatalf("min(Int, Float) = %v %v, want Resolved Float", r.Status, r.Return)
	}
}

func TestResolveZipReadsBackElementTypes(t *testing.T) {
	l := types.NewArray(types.TInt, false)
	r := types.NewArray(types.TString, false)
	res := Resolve("zip", []*types.Type{l, r}, types.V1_0)
	if res.Status != Resolved {
		t.Fatalf("Status = %v, want Resolved", res.Status)
	}
	want := types.NewArray(types.NewPair(types.TInt, types.TString), false)
	if !res.Return.Equal(want) {
		t.Errorf("Return = %v, want %v", res.Return, want)
	}
}

func TestResolveWriteJSONRequiresSerializable(t *testing.T) {
	ok := Resolve("write_json", []*types.Type{types.TString}, types.V1_0)
	if ok.Status != Resolved {
		t.Fatalf("write_json(String): Status = %v, want Resolved", ok.Status)
	}
	badMember := types.NewStruct("Weird", []types.Member{{Name: "cb", Type: types.NewMap(types.TInt, types.TString)}})
	bad := Resolve("write_json", []*types.Type{badMember}, types.V1_0)
	if bad.Status != NoMatch {
		t.Fatalf("write_json(non-string-keyed map member): Status = %v, want NoMatch", bad.Status)
	}
}

func TestResolveArityMismatch(t *testing.T) {
	r := Resolve("floor", []*types.Type{types.TFloat, types.TFloat}, types.V1_0)
	if r.Status != NoMatch {
		t.Fatalf("floor/2: Status = %v, want NoMatch", r.Status)
	}
}
