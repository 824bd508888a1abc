package ast

import "github.com/gowdl/wdlsem/internal/span"

// Expr is implemented by every expression node.
type Expr interface {
	Node
	isExpr()
}

func (*BoolLit) isExpr()        {}
func (*IntLit) isExpr()         {}
func (*FloatLit) isExpr()       {}
func (*StringLit) isExpr()      {}
func (*NoneLit) isExpr()        {}
func (*ArrayLit) isExpr()       {}
func (*MapLit) isExpr()         {}
func (*PairLit) isExpr()        {}
func (*ObjectLit) isExpr()      {}
func (*StructLit) isExpr()      {}
func (*Ident) isExpr()          {}
func (*MemberAccess) isExpr()   {}
func (*IndexExpr) isExpr()      {}
func (*UnaryExpr) isExpr()      {}
func (*BinaryExpr) isExpr()     {}
func (*IfExpr) isExpr()         {}
func (*CallExpr) isExpr()       {}
func (*ParenExpr) isExpr()      {}

// BoolLit is `true`/`false`.
type BoolLit struct {
	baseNode
	Value bool
}

// IntLit is an integer literal.
type IntLit struct {
	baseNode
	Value int64
}

// FloatLit is a floating point literal.
type FloatLit struct {
	baseNode
	Value float64
}

// StringLit is a (possibly interpolated) string or command placeholder
// host: Parts alternates literal text with Placeholder expressions the
// same way Command does.
type StringLit struct {
	baseNode
	Parts []CommandPart
}

// NoneLit is the `None` literal.
type NoneLit struct {
	baseNode
}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	baseNode
	Elems []Expr
}

// MapLit is `{k1: v1, k2: v2}`.
type MapLit struct {
	baseNode
	Keys   []Expr
	Values []Expr
}

// PairLit is `(l, r)`.
type PairLit struct {
	baseNode
	Left, Right Expr
}

// ObjectLit is `object { k: v, ... }` (deprecated from 1.2).
type ObjectLit struct {
	baseNode
	Keys   []string
	KeySpans []span.Span
	Values []Expr
}

// StructLit is `StructName { k: v, ... }`.
type StructLit struct {
	baseNode
	Name     string
	NameSpan span.Span
	Keys     []string
	KeySpans []span.Span
	Values   []Expr
}

// Ident is a bare identifier reference.
type Ident struct {
	baseNode
	Name string
}

// MemberAccess is `expr.name` (struct member, call output, or Pair
// .left/.right).
type MemberAccess struct {
	baseNode
	X        Expr
	Name     string
	NameSpan span.Span
}

// IndexExpr is `expr[index]`.
type IndexExpr struct {
	baseNode
	X     Expr
	Index Expr
}

// UnaryOp tags a unary operator.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
	UnaryPos
)

// UnaryExpr is `!expr`, `-expr`, `+expr`.
type UnaryExpr struct {
	baseNode
	Op UnaryOp
	X  Expr
}

// BinaryOp tags a binary operator.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	baseNode
	Op          BinaryOp
	Left, Right Expr
}

// IfExpr is `if c then a else b`.
type IfExpr struct {
	baseNode
	Cond, Then, Else Expr
}

// CallExpr is a function call: a stdlib function or, in some grammars, a
// task-handle member call.
type CallExpr struct {
	baseNode
	Func     string
	FuncSpan span.Span
	Args     []Expr
}

// ParenExpr is `(expr)`, kept as a distinct node only to preserve spans
// for error messages that point at the parenthesized form.
type ParenExpr struct {
	baseNode
	X Expr
}
