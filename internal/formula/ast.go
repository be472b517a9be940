// Package formula implements the formula language: lexer, parser,
// evaluator, and function library (spec §4.5).
package formula

import (
	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/a1"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// AstKind tags which variant of the formula AST union a node holds.
type AstKind int

const (
	AstEmpty AstKind = iota
	AstNumber
	AstString
	AstBool
	AstCellRef
	AstParen
	AstArray
	AstFunctionCall
	AstBinaryOp
	AstUnaryOp
)

// Ast is a formula syntax tree node (spec §4.5: "Empty | FunctionCall
// | Paren | Array | CellRef | String | Number | Bool"). Binary/unary
// operators are not named separately in the spec's node list but are
// required by the grammar it describes (arithmetic, comparison,
// concatenation, range, percent); they are represented here as their
// own kinds rather than folded into FunctionCall, since they carry a
// fixed operator token and exactly one or two operands instead of an
// arbitrary argument list.
type Ast struct {
	Kind AstKind
	Span cellvalue.Span

	Number decimal.Decimal
	Text   string
	Bool   bool

	// CellRef / RangeSheetID populated when Kind == AstCellRef.
	CellRef      a1.CellRefRange
	RangeSheetID pos.SheetId
	HasSheet     bool

	Inner *Ast // Paren, UnaryOp operand

	Rows [][]Ast // Array: rows separated by ';', cells by ','

	FuncName string
	Args     []Ast

	Op          string // BinaryOp/UnaryOp token: "+","-","*","/","^","%","&","=","<>","<",">","<=",">=",":"
	Left, Right *Ast
}
