package types

import "strings"

// Display renders t in WDL surface syntax: "Array[File]+?", "Map[String,Int]",
// "Pair[Int,String]?", struct and literal names printed as-is. Diagnostic
// wording is not a stable contract, but the type spelling inside it is, so
// every caller that formats a type for a message must go through here.
func Display(t *Type) string {
	if t == nil {
		return "Union"
	}
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t *Type) {
	switch t.kind {
	case Array:
		b.WriteString("Array[")
		writeType(b, t.elem)
		b.WriteString("]")
		if t.nonEmpty {
			b.WriteString("+")
		}
	case Map:
		b.WriteString("Map[")
		writeType(b, t.elem2)
		b.WriteString(",")
		writeType(b, t.elem)
		b.WriteString("]")
	case Pair:
		b.WriteString("Pair[")
		writeType(b, t.elem)
		b.WriteString(",")
		writeType(b, t.elem2)
		b.WriteString("]")
	case StructRef, CallOutput:
		b.WriteString(t.name)
	case Hints:
		b.WriteString("hints")
	case Input:
		b.WriteString("input")
	case Output:
		b.WriteString("output")
	default:
		b.WriteString(t.kind.String())
	}
	if t.optional {
		b.WriteString("?")
	}
}
