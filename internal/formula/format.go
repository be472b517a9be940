package formula

import (
	"strings"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// Format re-emits an Ast as formula source text. Used by package
// codecell to rewrite a Formula-language code cell's references by
// re-parsing and re-emitting the AST rather than by regex (spec
// §4.6), and generally anywhere a transformed Ast needs to go back to
// source (e.g. after translating cell references for a paste).
//
// Parenthesization is precedence-aware (mirroring the parser's own
// comparison < concat < addsub < muldiv < unary < power < percent
// chain) rather than blanket-wrapping every operator operand. Some
// unary operands still come back wrapped after a round trip through
// Parse/Format: --2 formats as -(-2) and 2^-2 as 2^(-2).
func Format(node Ast, defaultSheetID pos.SheetId, ctx *table.A1Context) string {
	return formatNode(node, defaultSheetID, ctx)
}

func formatNode(node Ast, defaultSheetID pos.SheetId, ctx *table.A1Context) string {
	switch node.Kind {
	case AstEmpty:
		return ""
	case AstNumber:
		return node.Number.String()
	case AstString:
		return `"` + node.Text + `"`
	case AstBool:
		if node.Bool {
			return "TRUE"
		}
		return "FALSE"
	case AstCellRef:
		return formatCellRef(node, defaultSheetID, ctx)
	case AstParen:
		return "(" + formatNode(*node.Inner, defaultSheetID, ctx) + ")"
	case AstArray:
		return formatArray(node, defaultSheetID, ctx)
	case AstFunctionCall:
		return formatFunctionCall(node, defaultSheetID, ctx)
	case AstUnaryOp:
		return formatUnaryOp(node, defaultSheetID, ctx)
	case AstBinaryOp:
		return formatBinaryOp(node, defaultSheetID, ctx)
	default:
		return ""
	}
}

// precedenceOf ranks a node the way the parser's own grammar levels
// rank it: comparison(1) < concat(2) < addsub(3) < muldiv(4) <
// unary-prefix(5) < power(6) < percent-postfix(7); every non-operator
// node (literal, reference, paren, array, function call) ranks above
// all of them and never needs parenthesizing as an operand.
func precedenceOf(node Ast) int {
	switch node.Kind {
	case AstBinaryOp:
		switch node.Op {
		case "=", "<>", "<", ">", "<=", ">=":
			return 1
		case "&":
			return 2
		case "+", "-":
			return 3
		case "*", "/":
			return 4
		case "^":
			return 6
		}
	case AstUnaryOp:
		if node.Op == "%" {
			return 7
		}
		return 5
	}
	return 100
}

// formatChild renders child as an operand of a node with the given
// precedence, adding parens only when omitting them would change
// meaning: a strictly lower-precedence child always needs them; a
// same-precedence child needs them on the side associativity would
// otherwise misgroup (right side for the left-associative operators,
// left side for "^", the only right-associative one).
func formatChild(child Ast, defaultSheetID pos.SheetId, ctx *table.A1Context, parentPrec int, isRight bool, parentOp string) string {
	s := formatNode(child, defaultSheetID, ctx)
	childPrec := precedenceOf(child)
	var needsParens bool
	switch {
	case childPrec < parentPrec:
		needsParens = true
	case childPrec > parentPrec:
		needsParens = false
	case parentOp == "^":
		needsParens = !isRight
	default:
		needsParens = isRight
	}
	if needsParens {
		return "(" + s + ")"
	}
	return s
}

func formatCellRef(node Ast, defaultSheetID pos.SheetId, ctx *table.A1Context) string {
	text := node.CellRef.String()
	if !node.HasSheet {
		return text
	}
	name := ctx.DefaultSheetName(node.RangeSheetID)
	if name == "" {
		return text
	}
	return table.QuoteSheetName(name) + "!" + text
}

func formatArray(node Ast, defaultSheetID pos.SheetId, ctx *table.A1Context) string {
	rows := make([]string, len(node.Rows))
	for i, row := range node.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = formatNode(cell, defaultSheetID, ctx)
		}
		rows[i] = strings.Join(cells, ",")
	}
	return "{" + strings.Join(rows, ";") + "}"
}

func formatFunctionCall(node Ast, defaultSheetID pos.SheetId, ctx *table.A1Context) string {
	args := make([]string, len(node.Args))
	for i, a := range node.Args {
		args[i] = formatNode(a, defaultSheetID, ctx)
	}
	return node.FuncName + "(" + strings.Join(args, ",") + ")"
}

func formatUnaryOp(node Ast, defaultSheetID pos.SheetId, ctx *table.A1Context) string {
	prec := precedenceOf(node)
	if node.Op == "%" {
		inner := formatChild(*node.Inner, defaultSheetID, ctx, prec, false, node.Op)
		return inner + "%"
	}
	inner := formatChild(*node.Inner, defaultSheetID, ctx, prec, true, node.Op)
	return node.Op + inner
}

func formatBinaryOp(node Ast, defaultSheetID pos.SheetId, ctx *table.A1Context) string {
	prec := precedenceOf(node)
	left := formatChild(*node.Left, defaultSheetID, ctx, prec, false, node.Op)
	right := formatChild(*node.Right, defaultSheetID, ctx, prec, true, node.Op)
	return left + node.Op + right
}

// Walk applies transform to every AstCellRef node in the tree
// (including those inside array literals and function-call
// arguments), returning a new tree. Used to re-home references after
// a translate/insert/delete the way package codecell does for Formula-
// language code cells.
func Walk(node Ast, transform func(Ast) Ast) Ast {
	switch node.Kind {
	case AstCellRef:
		return transform(node)
	case AstParen:
		inner := Walk(*node.Inner, transform)
		node.Inner = &inner
		return node
	case AstArray:
		rows := make([][]Ast, len(node.Rows))
		for i, row := range node.Rows {
			newRow := make([]Ast, len(row))
			for j, cell := range row {
				newRow[j] = Walk(cell, transform)
			}
			rows[i] = newRow
		}
		node.Rows = rows
		return node
	case AstFunctionCall:
		args := make([]Ast, len(node.Args))
		for i, a := range node.Args {
			args[i] = Walk(a, transform)
		}
		node.Args = args
		return node
	case AstUnaryOp:
		inner := Walk(*node.Inner, transform)
		node.Inner = &inner
		return node
	case AstBinaryOp:
		left := Walk(*node.Left, transform)
		right := Walk(*node.Right, transform)
		node.Left = &left
		node.Right = &right
		return node
	default:
		return node
	}
}
