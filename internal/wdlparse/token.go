package wdlparse

// Kind tags a lexical token. Modeled on vovakirdan-surge/internal/token's
// Kind enum, trimmed to the punctuation and keyword set WDL's grammar
// actually uses.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	IntLit
	FloatLit
	// String is the opening quote of a (possibly interpolated) string; the
	// parser, not the lexer, walks its contents, since matching the closing
	// quote requires tracking nested ~{...}/${...} brace depth.
	String

	LParen
	RParen
	LBrace
	RBrace
	LBrack
	RBrack
	Comma
	Colon
	Dot
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte
	AndAnd
	OrOr
	Bang
	Question
	Plus2 // not produced by the lexer: '+' always lexes as Plus, which parseType also takes as the type-quantifier suffix
	At

	// Keywords.
	KwVersion
	KwImport
	KwAs
	KwAlias
	KwStruct
	KwTask
	KwWorkflow
	KwInput
	KwOutput
	KwCommand
	KwRuntime
	KwRequirements
	KwHints
	KwMeta
	KwParameterMeta
	KwCall
	KwScatter
	KwIf
	KwThen
	KwElse
	KwIn
	KwAfter
	KwObject
	KwNone
	KwTrue
	KwFalse
	KwArray
	KwMap
	KwPair
)

var keywords = map[string]Kind{
	"version":        KwVersion,
	"import":         KwImport,
	"as":             KwAs,
	"alias":          KwAlias,
	"struct":         KwStruct,
	"task":           KwTask,
	"workflow":       KwWorkflow,
	"input":          KwInput,
	"output":         KwOutput,
	"command":        KwCommand,
	"runtime":        KwRuntime,
	"requirements":   KwRequirements,
	"hints":          KwHints,
	"meta":           KwMeta,
	"parameter_meta": KwParameterMeta,
	"call":           KwCall,
	"scatter":        KwScatter,
	"if":             KwIf,
	"then":           KwThen,
	"else":           KwElse,
	"in":             KwIn,
	"after":          KwAfter,
	"object":         KwObject,
	"None":           KwNone,
	"true":           KwTrue,
	"false":          KwFalse,
	"Array":          KwArray,
	"Map":            KwMap,
	"Pair":           KwPair,
}

func lookupKeyword(s string) (Kind, bool) {
	k, ok := keywords[s]
	return k, ok
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "ident"
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case String:
		return "string"
	default:
		return "token"
	}
}

// Token is one lexical unit: Kind plus the byte offsets (relative to the
// document start) of its raw text.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Text  string
}
