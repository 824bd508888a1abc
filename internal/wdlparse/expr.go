package wdlparse

import "github.com/gowdl/wdlsem/internal/ast"

// parseExpr is the grammar's expression entry point. Precedence, low to
// high: if/then/else, ||, &&, the comparison operators (chained
// left-to-right rather than non-associative, since WDL's own grammar
// treats them that way), + -, * / %, unary, postfix, primary.
func (p *Parser) parseExpr() ast.Expr {
	if p.at(KwIf) {
		return p.parseIfExpr()
	}
	return p.parseOr()
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.expect(KwIf).Start
	cond := p.parseExpr()
	p.expect(KwThen)
	then := p.parseExpr()
	p.expect(KwElse)
	els := p.parseExpr()
	e := &ast.IfExpr{Cond: cond, Then: then, Else: els}
	e.Sp = p.sp(start, p.lx.Pos())
	return e
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(OrOr) {
		start := left.Span().Start
		p.next()
		right := p.parseAnd()
		bin := &ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right}
		bin.Sp = p.sp(start, p.lx.Pos())
		left = bin
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseCompare()
	for p.at(AndAnd) {
		start := left.Span().Start
		p.next()
		right := p.parseCompare()
		bin := &ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right}
		bin.Sp = p.sp(start, p.lx.Pos())
		left = bin
	}
	return left
}

var compareOps = map[Kind]ast.BinaryOp{
	Eq: ast.OpEq, Neq: ast.OpNeq,
	Lt: ast.OpLt, Lte: ast.OpLte,
	Gt: ast.OpGt, Gte: ast.OpGte,
}

func (p *Parser) parseCompare() ast.Expr {
	left := p.parseAdd()
	for {
		op, ok := compareOps[p.peek().Kind]
		if !ok {
			return left
		}
		start := left.Span().Start
		p.next()
		right := p.parseAdd()
		bin := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		bin.Sp = p.sp(start, p.lx.Pos())
		left = bin
	}
}

func (p *Parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for p.at(Plus) || p.at(Minus) {
		op := ast.OpAdd
		if p.peek().Kind == Minus {
			op = ast.OpSub
		}
		start := left.Span().Start
		p.next()
		right := p.parseMul()
		bin := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		bin.Sp = p.sp(start, p.lx.Pos())
		left = bin
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	left := p.parseUnary()
	for p.at(Star) || p.at(Slash) || p.at(Percent) {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case Star:
			op = ast.OpMul
		case Slash:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		start := left.Span().Start
		p.next()
		right := p.parseUnary()
		bin := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		bin.Sp = p.sp(start, p.lx.Pos())
		left = bin
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	t := p.peek()
	var op ast.UnaryOp
	switch t.Kind {
	case Bang:
		op = ast.UnaryNot
	case Minus:
		op = ast.UnaryNeg
	case Plus:
		op = ast.UnaryPos
	default:
		return p.parsePostfix()
	}
	p.next()
	x := p.parseUnary()
	u := &ast.UnaryExpr{Op: op, X: x}
	u.Sp = p.sp(t.Start, p.lx.Pos())
	return u
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case Dot:
			p.next()
			name := p.expect(Ident)
			m := &ast.MemberAccess{X: e, Name: name.Text, NameSpan: p.sp(name.Start, name.End)}
			m.Sp = p.sp(e.Span().Start, p.lx.Pos())
			e = m
		case LBrack:
			p.next()
			idx := p.parseExpr()
			p.expect(RBrack)
			ix := &ast.IndexExpr{X: e, Index: idx}
			ix.Sp = p.sp(e.Span().Start, p.lx.Pos())
			e = ix
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.peek()
	switch t.Kind {
	case IntLit:
		p.next()
		lit := &ast.IntLit{Value: parseInt(t.Text)}
		lit.Sp = p.sp(t.Start, t.End)
		return lit
	case FloatLit:
		p.next()
		lit := &ast.FloatLit{Value: parseFloat(t.Text)}
		lit.Sp = p.sp(t.Start, t.End)
		return lit
	case KwTrue, KwFalse:
		p.next()
		lit := &ast.BoolLit{Value: t.Kind == KwTrue}
		lit.Sp = p.sp(t.Start, t.End)
		return lit
	case KwNone:
		p.next()
		lit := &ast.NoneLit{}
		lit.Sp = p.sp(t.Start, t.End)
		return lit
	case String:
		return p.parseInterpolatedString()
	case LParen:
		return p.parseParenOrPair()
	case LBrack:
		return p.parseArrayLit()
	case LBrace:
		return p.parseMapLit()
	case KwObject:
		return p.parseObjectLit()
	case Ident:
		return p.parseIdentOrCallOrStruct()
	default:
		p.errorf(p.sp(t.Start, t.End), "expected an expression, found %s %q", t.Kind, t.Text)
		panic(parseAbort{})
	}
}

// parseParenOrPair parses `(expr)` or `(left, right)`.
func (p *Parser) parseParenOrPair() ast.Expr {
	start := p.expect(LParen).Start
	first := p.parseExpr()
	if p.at(Comma) {
		p.next()
		second := p.parseExpr()
		p.expect(RParen)
		pair := &ast.PairLit{Left: first, Right: second}
		pair.Sp = p.sp(start, p.lx.Pos())
		return pair
	}
	p.expect(RParen)
	paren := &ast.ParenExpr{X: first}
	paren.Sp = p.sp(start, p.lx.Pos())
	return paren
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.expect(LBrack).Start
	lit := &ast.ArrayLit{}
	for !p.at(RBrack) && !p.at(EOF) {
		lit.Elems = append(lit.Elems, p.parseExpr())
		if p.at(Comma) {
			p.next()
		}
	}
	end := p.expect(RBrack).End
	lit.Sp = p.sp(start, end)
	return lit
}

func (p *Parser) parseMapLit() ast.Expr {
	start := p.expect(LBrace).Start
	lit := &ast.MapLit{}
	for !p.at(RBrace) && !p.at(EOF) {
		key := p.parseExpr()
		p.expect(Colon)
		val := p.parseExpr()
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, val)
		if p.at(Comma) {
			p.next()
		}
	}
	end := p.expect(RBrace).End
	lit.Sp = p.sp(start, end)
	return lit
}

func (p *Parser) parseObjectLit() ast.Expr {
	start := p.expect(KwObject).Start
	p.expect(LBrace)
	lit := &ast.ObjectLit{}
	for !p.at(RBrace) && !p.at(EOF) {
		key := p.expect(Ident)
		p.expect(Colon)
		val := p.parseExpr()
		lit.Keys = append(lit.Keys, key.Text)
		lit.KeySpans = append(lit.KeySpans, p.sp(key.Start, key.End))
		lit.Values = append(lit.Values, val)
		if p.at(Comma) {
			p.next()
		}
	}
	end := p.expect(RBrace).End
	lit.Sp = p.sp(start, end)
	return lit
}

// parseIdentOrCallOrStruct disambiguates a bare identifier from a stdlib
// call `name(args)` and a struct literal `Name { k: v, ... }`.
func (p *Parser) parseIdentOrCallOrStruct() ast.Expr {
	name := p.expect(Ident)
	switch {
	case p.at(LParen):
		p.next()
		call := &ast.CallExpr{Func: name.Text, FuncSpan: p.sp(name.Start, name.End)}
		for !p.at(RParen) && !p.at(EOF) {
			call.Args = append(call.Args, p.parseExpr())
			if p.at(Comma) {
				p.next()
			}
		}
		end := p.expect(RParen).End
		call.Sp = p.sp(name.Start, end)
		return call
	case p.at(LBrace):
		p.next()
		lit := &ast.StructLit{Name: name.Text, NameSpan: p.sp(name.Start, name.End)}
		for !p.at(RBrace) && !p.at(EOF) {
			key := p.expect(Ident)
			p.expect(Colon)
			val := p.parseExpr()
			lit.Keys = append(lit.Keys, key.Text)
			lit.KeySpans = append(lit.KeySpans, p.sp(key.Start, key.End))
			lit.Values = append(lit.Values, val)
			if p.at(Comma) {
				p.next()
			}
		}
		end := p.expect(RBrace).End
		lit.Sp = p.sp(name.Start, end)
		return lit
	default:
		id := &ast.Ident{Name: name.Text}
		id.Sp = p.sp(name.Start, name.End)
		return id
	}
}

func parseInt(s string) int64 {
	var v int64
	for i := 0; i < len(s); i++ {
		v = v*10 + int64(s[i]-'0')
	}
	return v
}

func parseFloat(s string) float64 {
	var intPart, fracPart float64
	var fracDiv float64 = 1
	i := 0
	for ; i < len(s) && s[i] != '.' && s[i] != 'e' && s[i] != 'E'; i++ {
		intPart = intPart*10 + float64(s[i]-'0')
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			fracPart = fracPart*10 + float64(s[i]-'0')
			fracDiv *= 10
		}
	}
	v := intPart + fracPart/fracDiv
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		neg := false
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			neg = s[i] == '-'
			i++
		}
		var exp float64
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			exp = exp*10 + float64(s[i]-'0')
		}
		for ; exp > 0; exp-- {
			if neg {
				v /= 10
			} else {
				v *= 10
			}
		}
	}
	return v
}
