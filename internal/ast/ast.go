// Package ast defines the node types the semantic analyzer consumes.
// Lexing, parsing, and CST construction are explicitly out of scope for
// the analyzer core (see the design's purpose section); this package is
// the narrow interface through which any parser front end hands the
// analyzer a document to check. wdlparse implements one such front end.
package ast

import "github.com/gowdl/wdlsem/internal/span"

// Node is implemented by every AST node so the analyzer can report a span
// for it without a type switch at every call site.
type Node interface {
	Span() span.Span
}

// baseNode gives concrete node types their Span implementation.
type baseNode struct {
	Sp span.Span
}

func (n baseNode) Span() span.Span { return n.Sp }

// Document is the root of one parsed WDL source file.
type Document struct {
	baseNode
	URI      string
	Version  string // raw text from the `version` header, "" if absent
	Imports  []*Import
	Structs  []*StructDecl
	Tasks    []*Task
	Workflow *Workflow // nil if the document declares none
}

// Import is one `import "uri" [as ns] [alias A as B]*` statement.
type Import struct {
	baseNode
	URI      string
	URISpan  span.Span
	Alias    string // explicit `as` clause, "" if absent
	AliasSpan span.Span
	StructAliases []StructAlias
}

// StructAlias renames an imported struct: `alias Foreign as Local`.
type StructAlias struct {
	Foreign string
	Local   string
	Sp      span.Span
}

// StructDecl declares a named struct type.
type StructDecl struct {
	baseNode
	Name    string
	NameSpan span.Span
	Members []StructMember
}

// StructMember is one `Type name` line inside a struct body.
type StructMember struct {
	Name string
	Type *TypeExpr
	Sp   span.Span
}

// TypeExpr is the syntax for a type annotation, e.g. `Array[File]+?`.
type TypeExpr struct {
	baseNode
	Name     string // primitive name or struct name; "" for Array/Map/Pair
	Kind     TypeExprKind
	Elem     *TypeExpr // Array element, Map value, Pair left
	Elem2    *TypeExpr // Map key, Pair right
	NonEmpty bool
	Optional bool
}

// TypeExprKind tags the shape of a TypeExpr node.
type TypeExprKind uint8

const (
	TypeName TypeExprKind = iota
	TypeArray
	TypeMap
	TypePair
	TypeObject
)

// Task declares a task: inputs, private declarations, command, outputs,
// runtime, hints/meta/parameter_meta sections.
type Task struct {
	baseNode
	Name        string
	NameSpan    span.Span
	Inputs      []*Decl
	Decls       []*Decl // private declarations
	Command     *Command
	Outputs     []*Decl
	Runtime     []KeyExpr
	Requirements []KeyExpr // 1.2 `requirements { ... }`, alongside the legacy `runtime` block
	Hints       *LiteralRecord
	Meta        *LiteralRecord
	ParamMeta   *LiteralRecord
}

// Decl is a typed declaration: `Type name = expr`, expr nil if there is no
// initializer (only legal for task/workflow inputs).
type Decl struct {
	baseNode
	Name     string
	NameSpan span.Span
	Type     *TypeExpr
	Expr     Expr // nil if absent
}

// KeyExpr is a `key: expr` pair, used in runtime sections and call inputs.
type KeyExpr struct {
	Key     string
	KeySpan span.Span
	Value   Expr
}

// LiteralRecord is a hints/input/output/meta nominal literal: an ordered
// set of key: value entries where a value may itself be a nested
// LiteralRecord.
type LiteralRecord struct {
	baseNode
	Kind    LiteralRecordKind
	Entries []LiteralEntry
}

// LiteralRecordKind distinguishes hints/input/output/meta literal nesting,
// since same-kind nesting is forbidden at any depth and different-kind
// nesting is forbidden entirely (§4.4).
type LiteralRecordKind uint8

const (
	LiteralHints LiteralRecordKind = iota
	LiteralInput
	LiteralOutput
	LiteralMeta
)

// LiteralEntry is one key of a LiteralRecord; Nested is non-nil when the
// value itself is a hints/input/output literal rather than an expression.
type LiteralEntry struct {
	Key    string
	KeySpan span.Span
	Value  Expr
	Nested *LiteralRecord
}

// Command is a task's command section: a sequence of literal text runs and
// `~{...}` placeholders.
type Command struct {
	baseNode
	Parts []CommandPart
}

// CommandPart is either literal text or a Placeholder; exactly one of Text
// or Placeholder is set.
type CommandPart struct {
	Text        string
	Placeholder *Placeholder
}

// Placeholder is one `~{[option] expr}` or interpolated-string `${...}`.
type Placeholder struct {
	baseNode
	Option PlaceholderOption
	Expr   Expr
}

// PlaceholderOptionKind tags which (if any) option modifies a placeholder.
type PlaceholderOptionKind uint8

const (
	OptNone PlaceholderOptionKind = iota
	OptSep
	OptTrueFalse
	OptDefault
)

// PlaceholderOption carries the parsed option, if any, for a placeholder.
type PlaceholderOption struct {
	Kind    PlaceholderOptionKind
	Sep     string
	True    string
	False   string
	Default Expr
	Sp      span.Span
}

// Workflow declares a workflow body.
type Workflow struct {
	baseNode
	Name    string
	NameSpan span.Span
	Inputs  []*Decl
	Body    []WorkflowStmt
	Outputs []*Decl
	Meta    *LiteralRecord
	ParamMeta *LiteralRecord
}

// WorkflowStmt is implemented by Decl, *Call, *Scatter, *Conditional.
type WorkflowStmt interface {
	Node
	isWorkflowStmt()
}

func (*Decl) isWorkflowStmt()        {}
func (*Call) isWorkflowStmt()        {}
func (*Scatter) isWorkflowStmt()     {}
func (*Conditional) isWorkflowStmt() {}

// Call invokes a task or sub-workflow: `call ns.name [as alias] { input: ... }`.
type Call struct {
	baseNode
	Target     []string // dotted path, e.g. ["mymodule", "mytask"]
	TargetSpan span.Span
	Alias      string // explicit alias, "" if absent
	AliasSpan  span.Span
	Inputs     []KeyExpr
	AfterCalls []string // `after other_call` clauses (1.1+)
}

// CalleeName returns the name a call binds in scope absent an alias: the
// task name or the last segment of the callee path.
func (c *Call) CalleeName() string {
	if c.Alias != "" {
		return c.Alias
	}
	if len(c.Target) == 0 {
		return ""
	}
	return c.Target[len(c.Target)-1]
}

// Scatter is `scatter (x in expr) { body }`.
type Scatter struct {
	baseNode
	Var     string
	VarSpan span.Span
	Expr    Expr
	Body    []WorkflowStmt
}

// Conditional is `if (expr) { body }`.
type Conditional struct {
	baseNode
	Expr Expr
	Body []WorkflowStmt
}
