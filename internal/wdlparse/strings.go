package wdlparse

import (
	"github.com/gowdl/wdlsem/internal/ast"
	"github.com/gowdl/wdlsem/internal/diag"
	"github.com/gowdl/wdlsem/internal/span"
)

// rawString is the scanned body of a string literal that carries no
// placeholders, used for import URIs and alias/struct names where
// interpolation never applies.
type rawString struct {
	text string
	span span.Span
}

// parseRawStringLiteral consumes a quoted string and decodes simple escape
// sequences, rejecting (with a diagnostic, not a parse abort) any
// placeholder it encounters.
func (p *Parser) parseRawStringLiteral() rawString {
	tok := p.expect(String)
	quote := tok.Text[0]
	parts, end := p.scanStringBody(quote)
	var text string
	for _, part := range parts {
		if part.Placeholder != nil {
			p.errorf(part.Placeholder.Span(), "interpolation is not allowed here")
			continue
		}
		text += part.Text
	}
	return rawString{text: text, span: p.sp(tok.Start, end)}
}

// parseInterpolatedString consumes a quoted string and returns it as a
// StringLit, preserving each ~{...}/${...} placeholder as a parsed Expr.
func (p *Parser) parseInterpolatedString() *ast.StringLit {
	tok := p.expect(String)
	quote := tok.Text[0]
	parts, end := p.scanStringBody(quote)
	lit := &ast.StringLit{Parts: parts}
	lit.Sp = p.sp(tok.Start, end)
	return lit
}

// scanStringBody scans raw source bytes (bypassing the token stream, since
// string contents are not tokenized) from the lexer's current position up
// to the closing quote matching the one already consumed by the caller.
// Brace depth inside a ~{...}/${...} placeholder is tracked so a quote
// used inside a nested call expression does not end the string early.
func (p *Parser) scanStringBody(quote byte) ([]ast.CommandPart, int) {
	src := p.src
	pos := p.lx.Pos()
	var parts []ast.CommandPart
	var text []byte

	flush := func() {
		if len(text) > 0 {
			parts = append(parts, ast.CommandPart{Text: string(text)})
			text = nil
		}
	}

	for pos < len(src) {
		c := src[pos]
		switch {
		case c == quote:
			flush()
			pos++
			p.lx.SeekTo(pos)
			return parts, pos
		case c == '\\' && pos+1 < len(src):
			text = append(text, decodeEscape(src[pos+1]))
			pos += 2
		case (c == '~' || c == '$') && pos+1 < len(src) && src[pos+1] == '{':
			flush()
			phStart := pos
			pos += 2
			exprStart := pos
			depth := 1
			for pos < len(src) && depth > 0 {
				switch src[pos] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				pos++
			}
			exprEnd := pos
			if pos < len(src) {
				pos++ // consume closing '}'
			}
			ph := p.parsePlaceholder(src[exprStart:exprEnd], exprStart, phStart, pos)
			parts = append(parts, ast.CommandPart{Placeholder: ph})
		default:
			text = append(text, c)
			pos++
		}
	}
	flush()
	p.errorf(p.sp(pos, pos), "unterminated string")
	p.lx.SeekTo(pos)
	return parts, pos
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

// parsePlaceholder parses one ~{...} or ${...} body via a nested Parser
// instance scoped to that substring, then parses its optional sep=/
// true=.../false=.../default= prefix from the result.
func (p *Parser) parsePlaceholder(body []byte, exprStart, phStart, phEnd int) *ast.Placeholder {
	// The sub-parser's lexer and src both see only the placeholder body;
	// offset shifts every span it constructs back to document-absolute
	// coordinates.
	sub := &Parser{lx: NewLexer(body), src: body, uri: p.uri, diags: p.diags, offset: exprStart + p.offset}

	ph := &ast.Placeholder{}
	ph.Option, ph.Expr = sub.parsePlaceholderBody()
	ph.Sp = p.sp(phStart, phEnd)
	return ph
}

// parsePlaceholderBody parses `[option] expr` where option is one of
// `sep=expr`, `true=str false=str`, or `default=expr`.
func (p *Parser) parsePlaceholderBody() (ast.PlaceholderOption, ast.Expr) {
	var opt ast.PlaceholderOption
	options := 0
	for {
		// sep=/true=.../default= are option keywords only when immediately
		// followed by '='; "true"/"false" also lex as boolean-literal
		// keywords, so the word check alone isn't enough to commit.
		switch {
		case isWord(p.peek(), "sep"):
			start := p.peek().Start
			p.next()
			p.expect(Assign)
			v := p.parseInterpolatedString()
			opt = ast.PlaceholderOption{Kind: ast.OptSep, Sep: flattenStringLit(v), Sp: p.sp(start, p.lx.Pos())}
			options++
			continue
		case isWord(p.peek(), "true"):
			start := p.peek().Start
			p.next()
			p.expect(Assign)
			t := p.parseInterpolatedString()
			if !isWord(p.peek(), "false") {
				p.errorf(p.sp(p.peek().Start, p.peek().End), "expected 'false=' to follow a 'true=' placeholder option")
				panic(parseAbort{})
			}
			p.next()
			p.expect(Assign)
			f := p.parseInterpolatedString()
			opt = ast.PlaceholderOption{Kind: ast.OptTrueFalse, True: flattenStringLit(t), False: flattenStringLit(f), Sp: p.sp(start, p.lx.Pos())}
			options++
			continue
		case isWord(p.peek(), "default"):
			start := p.peek().Start
			p.next()
			p.expect(Assign)
			d := p.parseExpr()
			opt = ast.PlaceholderOption{Kind: ast.OptDefault, Default: d, Sp: p.sp(start, p.lx.Pos())}
			options++
			continue
		}
		break
	}
	if options > 1 {
		p.diags.Errorf(diag.RuleConflictingPlaceholderOption, opt.Sp, "a placeholder may carry at most one option")
	}
	return opt, p.parseExpr()
}

// isWord reports whether tok is the given bare word, whatever Kind it
// happens to lex as (sep/default lex as Ident; true/false lex as the
// boolean-literal keywords).
func isWord(tok Token, word string) bool {
	return tok.Text == word && (tok.Kind == Ident || tok.Kind == KwTrue || tok.Kind == KwFalse)
}

func flattenStringLit(s *ast.StringLit) string {
	var out string
	for _, part := range s.Parts {
		out += part.Text
	}
	return out
}

// parseCommand parses a task's `command { ... }` or `command <<< ... >>>`
// section: a run of literal text interspersed with ~{...} placeholders.
// The block form stops at the first unbalanced '}'; the heredoc form stops
// at the literal ">>>".
func (p *Parser) parseCommand() *ast.Command {
	start := p.expect(KwCommand).Start
	src := p.src
	pos := p.lx.Pos()
	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t' || src[pos] == '\n' || src[pos] == '\r') {
		pos++
	}
	heredoc := pos+2 < len(src) && src[pos] == '<' && src[pos+1] == '<' && src[pos+2] == '<'
	var parts []ast.CommandPart
	var end int
	if heredoc {
		pos += 3
		parts, end = p.scanCommandBody(pos, ">>>")
	} else {
		if pos < len(src) && src[pos] == '{' {
			pos++
		}
		parts, end = p.scanCommandBody(pos, "}")
	}
	cmd := &ast.Command{Parts: parts}
	cmd.Sp = p.sp(start, end)
	return cmd
}

func (p *Parser) scanCommandBody(pos int, terminator string) ([]ast.CommandPart, int) {
	src := p.src
	var parts []ast.CommandPart
	var text []byte
	flush := func() {
		if len(text) > 0 {
			parts = append(parts, ast.CommandPart{Text: string(text)})
			text = nil
		}
	}
	braces := 0
	for pos < len(src) {
		if terminator == "}" && src[pos] == '{' {
			braces++
		} else if terminator == "}" && src[pos] == '}' && braces > 0 {
			braces--
			text = append(text, '}')
			pos++
			continue
		}
		if matchAt(src, pos, terminator) {
			flush()
			pos += len(terminator)
			p.lx.SeekTo(pos)
			return parts, pos
		}
		if src[pos] == '~' && pos+1 < len(src) && src[pos+1] == '{' {
			flush()
			phStart := pos
			pos += 2
			exprStart := pos
			depth := 1
			for pos < len(src) && depth > 0 {
				switch src[pos] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				pos++
			}
			exprEnd := pos
			if pos < len(src) {
				pos++
			}
			ph := p.parsePlaceholder(src[exprStart:exprEnd], exprStart, phStart, pos)
			parts = append(parts, ast.CommandPart{Placeholder: ph})
			continue
		}
		text = append(text, src[pos])
		pos++
	}
	flush()
	p.errorf(p.sp(pos, pos), "unterminated command section")
	p.lx.SeekTo(pos)
	return parts, pos
}

func matchAt(src []byte, pos int, s string) bool {
	if pos+len(s) > len(src) {
		return false
	}
	return string(src[pos:pos+len(s)]) == s
}
