package stdlib

import "github.com/gowdl/wdlsem/internal/types"

func generic(name string, c Constraint) Param {
	return Param{Generic: name, Constraint: c}
}

func param(t *types.Type) Param {
	return Param{Type: t}
}

func anyArray() Param { return Param{Shape: ShapeAnyArray} }
func anyMap() Param   { return Param{Shape: ShapeAnyMap} }
func anyPair() Param  { return Param{Shape: ShapeAnyPair} }

func elemNonOptional(t *types.Type) *types.Type {
	return t.Elem().NonOptional()
}

// Catalog is the declarative table of built-in functions: name -> the set
// of typed signatures the analyzer's overload resolver chooses among.
// Grounded on the WDL 1.0-1.2 specifications' standard library section;
// return-type computation follows the pattern of reading concrete element
// types back out of the actual argument once its outer shape (Array, Map,
// Pair) has been confirmed to match.
var Catalog = map[string][]Signature{
	"length": {{
		Required: []Param{anyArray()},
		Return:   types.TInt,
	}},
	"defined": {{
		Required: []Param{generic("T", AnyType)},
		Return:   types.TBoolean,
	}},
	"select_first": {{
		Required: []Param{anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return elemNonOptional(args[0])
		},
	}},
	"select_all": {{
		Required: []Param{anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return types.NewArray(elemNonOptional(args[0]), false)
		},
	}},
	"basename": {
		{Required: []Param{param(types.TString)}, Return: types.TString},
		{Required: []Param{param(types.TFile)}, Return: types.TString},
		{Required: []Param{param(types.TString), param(types.TString)}, Return: types.TString},
		{Required: []Param{param(types.TFile), param(types.TString)}, Return: types.TString},
	},
	"floor": {{Required: []Param{param(types.TFloat)}, Return: types.TInt}},
	"ceil":  {{Required: []Param{param(types.TFloat)}, Return: types.TInt}},
	"round": {{Required: []Param{param(types.TFloat)}, Return: types.TInt}},
	"min": {
		{Required: []Param{param(types.TInt), param(types.TInt)}, Return: types.TInt},
		{Required: []Param{param(types.TFloat), param(types.TFloat)}, Return: types.TFloat},
		{Required: []Param{param(types.TInt), param(types.TFloat)}, Return: types.TFloat},
		{Required: []Param{param(types.TFloat), param(types.TInt)}, Return: types.TFloat},
	},
	"max": {
		{Required: []Param{param(types.TInt), param(types.TInt)}, Return: types.TInt},
		{Required: []Param{param(types.TFloat), param(types.TFloat)}, Return: types.TFloat},
		{Required: []Param{param(types.TInt), param(types.TFloat)}, Return: types.TFloat},
		{Required: []Param{param(types.TFloat), param(types.TInt)}, Return: types.TFloat},
	},
	"sub": {{
		Required: []Param{param(types.TString), param(types.TString), param(types.TString)},
		Return:   types.TString,
	}},
	"size": {
		{Required: []Param{param(types.TFile.Optional())}, Return: types.TFloat},
		{Required: []Param{param(types.TFile.Optional()), param(types.TString)}, Return: types.TFloat},
		{Required: []Param{anyArray()}, Return: types.TFloat},
	},
	"sep": {{
		Required: []Param{param(types.TString), anyArray()},
		Return:   types.TString,
	}},
	"prefix": {{
		Required: []Param{param(types.TString), anyArray()},
		Return:   types.NewArray(types.TString, false),
	}},
	"suffix": {{
		Required: []Param{param(types.TString), anyArray()},
		Return:   types.NewArray(types.TString, false),
	}},
	"quote": {{
		Required: []Param{anyArray()},
		Return:   types.NewArray(types.TString, false),
	}},
	"squote": {{
		Required: []Param{anyArray()},
		Return:   types.NewArray(types.TString, false),
	}},
	"range": {{
		Required: []Param{param(types.TInt)},
		Return:   types.NewArray(types.TInt, false),
	}},
	"transpose": {{
		Required: []Param{anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return args[0]
		},
	}},
	"zip": {{
		Required: []Param{anyArray(), anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return types.NewArray(types.NewPair(args[0].Elem(), args[1].Elem()), false)
		},
	}},
	"cross": {{
		Required: []Param{anyArray(), anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return types.NewArray(types.NewPair(args[0].Elem(), args[1].Elem()), false)
		},
	}},
	"flatten": {{
		Required: []Param{anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return args[0].Elem()
		},
	}},
	"keys": {{
		Required: []Param{anyMap()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return types.NewArray(args[0].KeyOrRight(), false)
		},
	}},
	"as_pairs": {{
		Required: []Param{anyMap()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			return types.NewArray(types.NewPair(args[0].KeyOrRight(), args[0].Elem()), false)
		},
	}},
	"as_map": {{
		Required: []Param{anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			pairT := args[0].Elem()
			return types.NewMap(pairT.Elem(), pairT.KeyOrRight())
		},
	}},
	"contains": {{
		Required: []Param{anyArray(), generic("T", AnyType)},
		Return:   types.TBoolean,
	}},
	"sum": {
		{Required: []Param{{Type: types.NewArray(types.TInt, false)}}, Return: types.TInt},
		{Required: []Param{{Type: types.NewArray(types.TFloat, false)}}, Return: types.TFloat},
	},
	"stdout": {{Return: types.TFile}},
	"stderr": {{Return: types.TFile}},
	"read_string":  {{Required: []Param{param(types.TFile)}, Return: types.TString}},
	"read_int":     {{Required: []Param{param(types.TFile)}, Return: types.TInt}},
	"read_float":   {{Required: []Param{param(types.TFile)}, Return: types.TFloat}},
	"read_boolean": {{Required: []Param{param(types.TFile)}, Return: types.TBoolean}},
	"read_lines":   {{Required: []Param{param(types.TFile)}, Return: types.NewArray(types.TString, false)}},
	"read_json":    {{Required: []Param{param(types.TFile)}, Return: types.TUnion}},
	"read_map":     {{Required: []Param{param(types.TFile)}, Return: types.NewMap(types.TString, types.TString)}},
	"read_tsv":     {{Required: []Param{param(types.TFile)}, Return: types.NewArray(types.NewArray(types.TString, false), false)}},
	"read_object":  {{Required: []Param{param(types.TFile)}, Return: types.TObject}},
	"write_lines": {{
		Required: []Param{{Type: types.NewArray(types.TString, false)}},
		Return:   types.TFile,
	}},
	"write_tsv": {{
		Required: []Param{{Type: types.NewArray(types.NewArray(types.TString, false), false)}},
		Return:   types.TFile,
	}},
	"write_map": {{
		Required: []Param{{Type: types.NewMap(types.TString, types.TString)}},
		Return:   types.TFile,
	}},
	"write_json": {{
		Required: []Param{generic("T", JSONSerializable)},
		Return:   types.TFile,
	}},
	// matches/find are 1.2 regex functions.
	"matches": {{
		Required:   []Param{param(types.TString), param(types.TString)},
		Return:     types.TBoolean,
		MinVersion: types.V1_2,
	}},
	"find": {{
		Required:   []Param{param(types.TString), param(types.TString)},
		Return:     types.TString.Optional(),
		MinVersion: types.V1_2,
	}},
	"unzip": {{
		Required: []Param{anyArray()},
		ReturnFn: func(args []*types.Type, g map[string]*types.Type) *types.Type {
			pairT := args[0].Elem()
			return types.NewPair(types.NewArray(pairT.Elem(), false), types.NewArray(pairT.KeyOrRight(), false))
		},
	}},
}
