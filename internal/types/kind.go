// Package types implements the WDL type lattice: primitive and compound
// type descriptors plus the subtype, coercion, and common-type relations
// that drive name resolution and overload ranking throughout the analyzer.
package types

// Kind tags the shape of a Type without carrying its parameters, letting
// callers switch exhaustively over the lattice the way the rest of the
// analyzer switches over tagged variants (scope.Symbol kinds, ast.Expr
// kinds, and so on).
type Kind uint8

const (
	Invalid Kind = iota

	// Primitives.
	Boolean
	Int
	Float
	String
	File
	Directory

	// Compounds.
	Array
	Map
	Pair

	Object     // deprecated from 1.2
	StructRef  // named record type
	TaskHandle // the `task` variable, 1.2 command/output sections
	CallOutput // synthetic record produced by a call

	Hints  // hints-literal nominal type
	Input  // input-literal nominal type
	Output // output-literal nominal type

	Union // "any type accepted"; absorbing element of the lattice
	NoneT // type of the `None` literal
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Boolean:
		return "Boolean"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case File:
		return "File"
	case Directory:
		return "Directory"
	case Array:
		return "Array"
	case Map:
		return "Map"
	case Pair:
		return "Pair"
	case Object:
		return "Object"
	case StructRef:
		return "Struct"
	case TaskHandle:
		return "task"
	case CallOutput:
		return "CallOutput"
	case Hints:
		return "hints"
	case Input:
		return "input"
	case Output:
		return "output"
	case Union:
		return "Union"
	case NoneT:
		return "None"
	}
	return "?"
}

// IsPrimitive reports whether k is one of the six primitive kinds.
func (k Kind) IsPrimitive() bool {
	switch k {
	case Boolean, Int, Float, String, File, Directory:
		return true
	}
	return false
}
