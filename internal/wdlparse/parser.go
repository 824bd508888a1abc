// Package wdlparse is a reference front end for the analyzer core: it
// turns WDL source bytes into the ast.Document tree internal/analysis
// consumes. The core treats parsing as an external collaborator reached
// only through the narrow graph.Parser function type; this package is one
// implementation of that contract, not a dependency of the core itself.
//
// Grammar coverage follows what internal/ast models: version header,
// aliased imports, struct declarations, tasks (inputs, private decls,
// command, outputs, runtime/requirements, hints/meta/parameter_meta) and
// workflows (inputs, call/scatter/if statements, outputs, meta). Escape
// sequences inside strings are limited to the common backslash forms;
// exotic heredoc command variants are not recognized.
package wdlparse

import (
	"fmt"

	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
)

// Parser holds one document's parse state. Modeled on
// vovakirdan-surge/internal/parser.Parser: a lexer, the diagnostic sink it
// reports into, and the current document's URI for span construction.
type Parser struct {
	lx    *Lexer
	src   []byte
	uri   string
	diags *diag.Sink
	// offset shifts every span this parser constructs; nonzero only for the
	// nested sub-parsers parsePlaceholder spins up over a placeholder body
	// substring, whose own Lexer positions are relative to that substring.
	offset int
}

// parseAbort unwinds to the nearest top-level recovery point; it is never
// allowed to escape Parse itself.
type parseAbort struct{}

// Parse parses one document. It satisfies graph.Parser's signature and
// never returns a non-nil error for malformed input — malformed input is
// reported as diagnostics instead, with a best-effort partial Document so
// later passes still have something to check. A non-nil error return is
// reserved for inputs Parse cannot make any sense of at all (currently
// unused, kept for symmetry with graph.Parser's contract).
func Parse(uri string, src []byte) (*ast.Document, []diag.Diagnostic, error) {
	p := &Parser{lx: NewLexer(src), src: src, uri: uri, diags: diag.NewSink()}
	doc := p.parseDocument()
	return doc, p.diags.Finalize(), nil
}

func (p *Parser) sp(start, end int) span.Span {
	return span.Span{URI: p.uri, Start: start + p.offset, End: end + p.offset}
}

func (p *Parser) peek() Token  { return p.lx.Peek() }
func (p *Parser) next() Token  { return p.lx.Next() }
func (p *Parser) at(k Kind) bool { return p.peek().Kind == k }

func (p *Parser) errorf(sp span.Span, format string, args ...any) {
	p.diags.Errorf(diag.RuleParseError, sp, fmt.Sprintf(format, args...))
}

// expect consumes a token of kind k, reporting a diagnostic and aborting
// the current top-level item if the next token doesn't match.
func (p *Parser) expect(k Kind) Token {
	t := p.peek()
	if t.Kind != k {
		p.errorf(p.sp(t.Start, t.End), "expected %s, found %s %q", k, t.Kind, t.Text)
		panic(parseAbort{})
	}
	return p.next()
}

// recoverItem runs fn, catching a parseAbort and skipping tokens until the
// next brace-balanced boundary or EOF so one malformed section doesn't
// lose the rest of the document.
func (p *Parser) recoverItem(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
			p.skipToRecoveryPoint()
		}
	}()
	fn()
}

func (p *Parser) skipToRecoveryPoint() {
	depth := 0
	for {
		t := p.peek()
		switch t.Kind {
		case EOF:
			return
		case LBrace:
			depth++
		case RBrace:
			if depth == 0 {
				p.next()
				return
			}
			depth--
		case KwTask, KwWorkflow, KwStruct, KwImport:
			if depth == 0 {
				return
			}
		}
		p.next()
	}
}

func (p *Parser) parseDocument() *ast.Document {
	doc := &ast.Document{URI: p.uri}
	start := p.peek().Start

	if p.at(KwVersion) {
		p.next()
		v := p.peek()
		if v.Kind == FloatLit || v.Kind == IntLit || v.Kind == Ident {
			doc.Version = v.Text
			p.next()
		} else {
			p.errorf(p.sp(v.Start, v.End), "expected a version number after 'version'")
		}
	} else {
		t := p.peek()
		p.errorf(p.sp(t.Start, t.End), "document must begin with a version header")
	}

	for !p.at(EOF) {
		switch p.peek().Kind {
		case KwImport:
			p.recoverItem(func() { doc.Imports = append(doc.Imports, p.parseImport()) })
		case KwStruct:
			p.recoverItem(func() { doc.Structs = append(doc.Structs, p.parseStruct()) })
		case KwTask:
			p.recoverItem(func() { doc.Tasks = append(doc.Tasks, p.parseTask()) })
		case KwWorkflow:
			p.recoverItem(func() {
				wf := p.parseWorkflow()
				if doc.Workflow != nil {
					p.errorf(wf.Span(), "a document may declare at most one workflow")
				}
				doc.Workflow = wf
			})
		default:
			t := p.next()
			if t.Kind != EOF {
				p.errorf(p.sp(t.Start, t.End), "expected 'import', 'struct', 'task', or 'workflow', found %s %q", t.Kind, t.Text)
			}
		}
	}

	end := p.lx.Pos()
	doc.Sp = p.sp(start, end)
	return doc
}

func (p *Parser) parseImport() *ast.Import {
	start := p.expect(KwImport).Start
	str := p.parseRawStringLiteral()
	imp := &ast.Import{URI: str.text, URISpan: str.span}

	if p.at(KwAs) {
		p.next()
		n := p.expect(Ident)
		imp.Alias = n.Text
		imp.AliasSpan = p.sp(n.Start, n.End)
	}
	for p.at(KwAlias) {
		p.next()
		foreign := p.expect(Ident)
		p.expect(KwAs)
		local := p.expect(Ident)
		imp.StructAliases = append(imp.StructAliases, ast.StructAlias{
			Foreign: foreign.Text,
			Local:   local.Text,
			Sp:      p.sp(foreign.Start, local.End),
		})
	}
	imp.Sp = p.sp(start, p.lx.Pos())
	return imp
}

func (p *Parser) parseStruct() *ast.StructDecl {
	start := p.expect(KwStruct).Start
	name := p.expect(Ident)
	decl := &ast.StructDecl{Name: name.Text, NameSpan: p.sp(name.Start, name.End)}
	p.expect(LBrace)
	for !p.at(RBrace) && !p.at(EOF) {
		ty := p.parseType()
		member := p.expect(Ident)
		decl.Members = append(decl.Members, ast.StructMember{
			Name: member.Text,
			Type: ty,
			Sp:   p.sp(ty.Span().Start, member.End),
		})
	}
	end := p.expect(RBrace).End
	decl.Sp = p.sp(start, end)
	return decl
}

// parseType parses a type annotation: primitives, struct names,
// Array[T]/Map[K,V]/Pair[L,R], each optionally suffixed with '+' (non-empty)
// and/or '?' (optional).
func (p *Parser) parseType() *ast.TypeExpr {
	t := p.peek()
	start := t.Start
	var te *ast.TypeExpr
	switch t.Kind {
	case KwArray:
		p.next()
		p.expect(LBrack)
		elem := p.parseType()
		p.expect(RBrack)
		te = &ast.TypeExpr{Kind: ast.TypeArray, Elem: elem}
	case KwMap:
		p.next()
		p.expect(LBrack)
		key := p.parseType()
		p.expect(Comma)
		val := p.parseType()
		p.expect(RBrack)
		te = &ast.TypeExpr{Kind: ast.TypeMap, Elem2: key, Elem: val}
	case KwPair:
		p.next()
		p.expect(LBrack)
		left := p.parseType()
		p.expect(Comma)
		right := p.parseType()
		p.expect(RBrack)
		te = &ast.TypeExpr{Kind: ast.TypePair, Elem: left, Elem2: right}
	case KwObject:
		p.next()
		te = &ast.TypeExpr{Kind: ast.TypeObject}
	case Ident:
		p.next()
		te = &ast.TypeExpr{Kind: ast.TypeName, Name: t.Text}
	default:
		p.errorf(p.sp(t.Start, t.End), "expected a type, found %s %q", t.Kind, t.Text)
		panic(parseAbort{})
	}
	for p.at(Plus) || p.at(Question) {
		if p.at(Plus) {
			p.next()
			te.NonEmpty = true
		} else {
			p.next()
			te.Optional = true
		}
	}
	te.Sp = p.sp(start, p.lx.Pos())
	return te
}

func (p *Parser) parseDeclList(stop Kind) []*ast.Decl {
	var out []*ast.Decl
	p.expect(LBrace)
	for !p.at(stop) && !p.at(EOF) {
		out = append(out, p.parseDecl())
	}
	p.expect(stop)
	return out
}

func (p *Parser) parseDecl() *ast.Decl {
	start := p.peek().Start
	ty := p.parseType()
	name := p.expect(Ident)
	d := &ast.Decl{Name: name.Text, NameSpan: p.sp(name.Start, name.End), Type: ty}
	if p.at(Assign) {
		p.next()
		d.Expr = p.parseExpr()
	}
	d.Sp = p.sp(start, p.lx.Pos())
	return d
}

func (p *Parser) parseTask() *ast.Task {
	start := p.expect(KwTask).Start
	name := p.expect(Ident)
	task := &ast.Task{Name: name.Text, NameSpan: p.sp(name.Start, name.End)}
	p.expect(LBrace)
	for !p.at(RBrace) && !p.at(EOF) {
		switch p.peek().Kind {
		case KwInput:
			p.next()
			task.Inputs = p.parseDeclList(RBrace)
		case KwCommand:
			task.Command = p.parseCommand()
		case KwOutput:
			p.next()
			task.Outputs = p.parseDeclList(RBrace)
		case KwRuntime:
			p.next()
			task.Runtime = p.parseKeyExprBlock()
		case KwRequirements:
			p.next()
			task.Requirements = p.parseKeyExprBlock()
		case KwHints:
			p.next()
			task.Hints = p.parseLiteralRecord(ast.LiteralHints)
		case KwMeta:
			p.next()
			task.Meta = p.parseLiteralRecord(ast.LiteralMeta)
		case KwParameterMeta:
			p.next()
			task.ParamMeta = p.parseLiteralRecord(ast.LiteralMeta)
		case Ident, KwArray, KwMap, KwPair, KwObject:
			task.Decls = append(task.Decls, p.parseDecl())
		default:
			t := p.next()
			p.errorf(p.sp(t.Start, t.End), "unexpected %s %q in task body", t.Kind, t.Text)
		}
	}
	end := p.expect(RBrace).End
	task.Sp = p.sp(start, end)
	return task
}

func (p *Parser) parseKeyExprBlock() []ast.KeyExpr {
	var out []ast.KeyExpr
	p.expect(LBrace)
	for !p.at(RBrace) && !p.at(EOF) {
		key := p.expect(Ident)
		p.expect(Colon)
		val := p.parseExpr()
		out = append(out, ast.KeyExpr{Key: key.Text, KeySpan: p.sp(key.Start, key.End), Value: val})
	}
	p.expect(RBrace)
	return out
}

func (p *Parser) parseLiteralRecord(kind ast.LiteralRecordKind) *ast.LiteralRecord {
	start := p.peek().Start
	rec := &ast.LiteralRecord{Kind: kind}
	p.expect(LBrace)
	for !p.at(RBrace) && !p.at(EOF) {
		key := p.expect(Ident)
		p.expect(Colon)
		entry := ast.LiteralEntry{Key: key.Text, KeySpan: p.sp(key.Start, key.End)}
		if p.at(LBrace) {
			entry.Nested = p.parseLiteralRecord(kind)
		} else {
			entry.Value = p.parseExpr()
		}
		rec.Entries = append(rec.Entries, entry)
	}
	end := p.expect(RBrace).End
	rec.Sp = p.sp(start, end)
	return rec
}

func (p *Parser) parseWorkflow() *ast.Workflow {
	start := p.expect(KwWorkflow).Start
	name := p.expect(Ident)
	wf := &ast.Workflow{Name: name.Text, NameSpan: p.sp(name.Start, name.End)}
	p.expect(LBrace)
	for !p.at(RBrace) && !p.at(EOF) {
		switch p.peek().Kind {
		case KwInput:
			p.next()
			wf.Inputs = p.parseDeclList(RBrace)
		case KwOutput:
			p.next()
			wf.Outputs = p.parseDeclList(RBrace)
		case KwMeta:
			p.next()
			wf.Meta = p.parseLiteralRecord(ast.LiteralMeta)
		case KwParameterMeta:
			p.next()
			wf.ParamMeta = p.parseLiteralRecord(ast.LiteralMeta)
		default:
			wf.Body = append(wf.Body, p.parseWorkflowStmt())
		}
	}
	end := p.expect(RBrace).End
	wf.Sp = p.sp(start, end)
	return wf
}

func (p *Parser) parseWorkflowBody(stop Kind) []ast.WorkflowStmt {
	var out []ast.WorkflowStmt
	p.expect(LBrace)
	for !p.at(stop) && !p.at(EOF) {
		out = append(out, p.parseWorkflowStmt())
	}
	p.expect(stop)
	return out
}

func (p *Parser) parseWorkflowStmt() ast.WorkflowStmt {
	switch p.peek().Kind {
	case KwCall:
		return p.parseCall()
	case KwScatter:
		return p.parseScatter()
	case KwIf:
		return p.parseConditional()
	default:
		return p.parseDecl()
	}
}

func (p *Parser) parseCall() *ast.Call {
	start := p.expect(KwCall).Start
	call := &ast.Call{}
	tstart := p.peek().Start
	first := p.expect(Ident)
	call.Target = append(call.Target, first.Text)
	for p.at(Dot) {
		p.next()
		seg := p.expect(Ident)
		call.Target = append(call.Target, seg.Text)
	}
	call.TargetSpan = p.sp(tstart, p.lx.Pos())

	if p.at(KwAs) {
		p.next()
		alias := p.expect(Ident)
		call.Alias = alias.Text
		call.AliasSpan = p.sp(alias.Start, alias.End)
	}
	for p.at(KwAfter) {
		p.next()
		after := p.expect(Ident)
		call.AfterCalls = append(call.AfterCalls, after.Text)
	}
	if p.at(LBrace) {
		p.next()
		if p.at(KwInput) {
			p.next()
			p.expect(Colon)
		}
		for !p.at(RBrace) && !p.at(EOF) {
			key := p.expect(Ident)
			ke := ast.KeyExpr{Key: key.Text, KeySpan: p.sp(key.Start, key.End)}
			if p.at(Assign) {
				p.next()
				ke.Value = p.parseExpr()
			}
			call.Inputs = append(call.Inputs, ke)
			if p.at(Comma) {
				p.next()
			}
		}
		p.expect(RBrace)
	}
	call.Sp = p.sp(start, p.lx.Pos())
	return call
}

func (p *Parser) parseScatter() *ast.Scatter {
	start := p.expect(KwScatter).Start
	p.expect(LParen)
	v := p.expect(Ident)
	p.expect(KwIn)
	expr := p.parseExpr()
	p.expect(RParen)
	body := p.parseWorkflowBody(RBrace)
	sc := &ast.Scatter{Var: v.Text, VarSpan: p.sp(v.Start, v.End), Expr: expr, Body: body}
	sc.Sp = p.sp(start, p.lx.Pos())
	return sc
}

func (p *Parser) parseConditional() *ast.Conditional {
	start := p.expect(KwIf).Start
	p.expect(LParen)
	expr := p.parseExpr()
	p.expect(RParen)
	body := p.parseWorkflowBody(RBrace)
	cond := &ast.Conditional{Expr: expr, Body: body}
	cond.Sp = p.sp(start, p.lx.Pos())
	return cond
}
