package formula

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/a1"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// Parse builds an Ast from formula source. defaultSheetID/ctx resolve
// any embedded cell, range, and table references (spec §4.2/§4.4)
// encountered while parsing; ctx is used only to resolve and validate
// references, never to evaluate them.
func Parse(src string, defaultSheetID pos.SheetId, ctx *table.A1Context) (Ast, error) {
	toks, err := tokenize(src)
	if err != nil {
		return Ast{}, err
	}
	if len(toks) == 1 && toks[0].kind == tokEOF {
		return Ast{Kind: AstEmpty}, nil
	}
	p := &parser{toks: toks, sheetID: defaultSheetID, ctx: ctx}
	node, err := p.parseComparison()
	if err != nil {
		return Ast{}, err
	}
	if p.cur().kind != tokEOF {
		return Ast{}, fmt.Errorf("formula: unexpected trailing token %q at offset %d", p.cur().text, p.cur().start)
	}
	return node, nil
}

type parser struct {
	toks    []token
	pos     int
	sheetID pos.SheetId
	ctx     *table.A1Context
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) parseComparison() (Ast, error) {
	left, err := p.parseConcat()
	if err != nil {
		return Ast{}, err
	}
	for p.cur().kind == tokOp && isCompareOp(p.cur().text) {
		op := p.advance().text
		right, err := p.parseConcat()
		if err != nil {
			return Ast{}, err
		}
		left = Ast{Kind: AstBinaryOp, Op: op, Left: &left, Right: &right}
	}
	return left, nil
}

func isCompareOp(s string) bool {
	switch s {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	default:
		return false
	}
}

func (p *parser) parseConcat() (Ast, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return Ast{}, err
	}
	for p.cur().kind == tokOp && p.cur().text == "&" {
		p.advance()
		right, err := p.parseAddSub()
		if err != nil {
			return Ast{}, err
		}
		left = Ast{Kind: AstBinaryOp, Op: "&", Left: &left, Right: &right}
	}
	return left, nil
}

func (p *parser) parseAddSub() (Ast, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return Ast{}, err
	}
	for p.cur().kind == tokOp && (p.cur().text == "+" || p.cur().text == "-") {
		op := p.advance().text
		right, err := p.parseMulDiv()
		if err != nil {
			return Ast{}, err
		}
		left = Ast{Kind: AstBinaryOp, Op: op, Left: &left, Right: &right}
	}
	return left, nil
}

func (p *parser) parseMulDiv() (Ast, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Ast{}, err
	}
	for p.cur().kind == tokOp && (p.cur().text == "*" || p.cur().text == "/") {
		op := p.advance().text
		right, err := p.parseUnary()
		if err != nil {
			return Ast{}, err
		}
		left = Ast{Kind: AstBinaryOp, Op: op, Left: &left, Right: &right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Ast, error) {
	if p.cur().kind == tokOp && (p.cur().text == "-" || p.cur().text == "+") {
		op := p.advance().text
		inner, err := p.parseUnary()
		if err != nil {
			return Ast{}, err
		}
		return Ast{Kind: AstUnaryOp, Op: op, Inner: &inner}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Ast, error) {
	left, err := p.parsePercent()
	if err != nil {
		return Ast{}, err
	}
	for p.cur().kind == tokOp && p.cur().text == "^" {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return Ast{}, err
		}
		left = Ast{Kind: AstBinaryOp, Op: "^", Left: &left, Right: &right}
	}
	return left, nil
}

func (p *parser) parsePercent() (Ast, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return Ast{}, err
	}
	for p.cur().kind == tokOp && p.cur().text == "%" {
		p.advance()
		left = Ast{Kind: AstUnaryOp, Op: "%", Inner: &left}
	}
	return left, nil
}

func (p *parser) parsePrimary() (Ast, error) {
	t := p.cur()
	switch t.kind {
	case tokNumber:
		p.advance()
		d, err := decimal.NewFromString(t.text)
		if err != nil {
			return Ast{}, fmt.Errorf("formula: bad number literal %q", t.text)
		}
		return Ast{Kind: AstNumber, Number: d, Span: spanOf(t)}, nil

	case tokString:
		p.advance()
		return Ast{Kind: AstString, Text: t.text, Span: spanOf(t)}, nil

	case tokReference:
		p.advance()
		return p.buildReference(t)

	case tokLParen:
		p.advance()
		inner, err := p.parseComparison()
		if err != nil {
			return Ast{}, err
		}
		if p.cur().kind != tokRParen {
			return Ast{}, fmt.Errorf("formula: expected ')' at offset %d", p.cur().start)
		}
		p.advance()
		return Ast{Kind: AstParen, Inner: &inner, Span: spanOf(t)}, nil

	case tokLBrace:
		return p.parseArrayLiteral(t)

	case tokIdent:
		if strings.EqualFold(t.text, "TRUE") {
			p.advance()
			return Ast{Kind: AstBool, Bool: true, Span: spanOf(t)}, nil
		}
		if strings.EqualFold(t.text, "FALSE") {
			p.advance()
			return Ast{Kind: AstBool, Bool: false, Span: spanOf(t)}, nil
		}
		return p.parseFunctionCall(t)

	default:
		return Ast{}, fmt.Errorf("formula: unexpected token %q at offset %d", t.text, t.start)
	}
}

func (p *parser) buildReference(t token) (Ast, error) {
	sheetID, rng, err := a1.ParseRange(t.text, p.sheetID, p.ctx)
	if err != nil {
		return Ast{}, fmt.Errorf("formula: bad reference %q: %w", t.text, err)
	}
	return Ast{
		Kind:         AstCellRef,
		CellRef:      rng,
		RangeSheetID: sheetID,
		HasSheet:     sheetID != p.sheetID,
		Span:         spanOf(t),
	}, nil
}

func (p *parser) parseFunctionCall(nameTok token) (Ast, error) {
	p.advance()
	if p.cur().kind != tokLParen {
		return Ast{}, fmt.Errorf("formula: %q is not a known reference or function call at offset %d", nameTok.text, nameTok.start)
	}
	p.advance() // '('
	var args []Ast
	if p.cur().kind != tokRParen {
		for {
			arg, err := p.parseComparison()
			if err != nil {
				return Ast{}, err
			}
			args = append(args, arg)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if p.cur().kind != tokRParen {
		return Ast{}, fmt.Errorf("formula: expected ')' closing call to %s at offset %d", nameTok.text, p.cur().start)
	}
	p.advance()
	return Ast{Kind: AstFunctionCall, FuncName: strings.ToUpper(nameTok.text), Args: args, Span: spanOf(nameTok)}, nil
}

// parseArrayLiteral parses "{1,2;3,4}": rows separated by ';', cells
// within a row separated by ','.
func (p *parser) parseArrayLiteral(open token) (Ast, error) {
	p.advance() // '{'
	var rows [][]Ast
	row := []Ast{}
	for {
		if p.cur().kind == tokRBrace {
			break
		}
		cell, err := p.parseComparison()
		if err != nil {
			return Ast{}, err
		}
		row = append(row, cell)
		switch p.cur().kind {
		case tokComma:
			p.advance()
		case tokSemicolon:
			p.advance()
			rows = append(rows, row)
			row = []Ast{}
		case tokRBrace:
			// end of final row
		default:
			return Ast{}, fmt.Errorf("formula: expected ',', ';' or '}' in array literal at offset %d", p.cur().start)
		}
	}
	rows = append(rows, row)
	if p.cur().kind != tokRBrace {
		return Ast{}, fmt.Errorf("formula: unterminated array literal at offset %d", open.start)
	}
	p.advance()
	return Ast{Kind: AstArray, Rows: rows, Span: spanOf(open)}, nil
}

func spanOf(t token) cellvalue.Span { return cellvalue.Span{Start: t.start, End: t.end} }
