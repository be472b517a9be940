package formula

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/a1"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// maxArrayDim and maxArrayCells bound the size of a range reference
// or array literal a formula may evaluate (spec §4.5 "fails with
// ArrayTooBig when either dimension exceeds a compile-time cap").
const (
	maxArrayDim   = 10_000
	maxArrayCells = 1_000_000
)

// EvalContext supplies everything formula evaluation needs from the
// live grid: cell contents, table lookups, and the current wall
// clock (for NOW/TODAY).
type EvalContext interface {
	GetCell(sp pos.SheetPos) cellvalue.CellValue
	TableByName(name string) (table.DataTable, bool)
	Now() time.Time
}

// Eval evaluates an Ast rooted formula from the perspective of the
// cell at currentPos.
func Eval(node Ast, currentPos pos.SheetPos, ctx EvalContext) (Value, error) {
	switch node.Kind {
	case AstEmpty:
		return NewSingle(cellvalue.Blank), nil

	case AstNumber:
		return NewSingle(cellvalue.NewNumber(node.Number)), nil

	case AstString:
		return NewSingle(cellvalue.NewText(node.Text)), nil

	case AstBool:
		return NewSingle(cellvalue.NewLogical(node.Bool)), nil

	case AstParen:
		return Eval(*node.Inner, currentPos, ctx)

	case AstCellRef:
		return evalCellRef(node, ctx)

	case AstArray:
		return evalArrayLiteral(node, currentPos, ctx)

	case AstUnaryOp:
		return evalUnaryOp(node, currentPos, ctx)

	case AstBinaryOp:
		return evalBinaryOp(node, currentPos, ctx)

	case AstFunctionCall:
		return evalFunctionCall(node, currentPos, ctx)

	default:
		return Value{}, fmt.Errorf("formula: unhandled ast kind %d", node.Kind)
	}
}

func evalCellRef(node Ast, ctx EvalContext) (Value, error) {
	var rect pos.Rect
	switch node.CellRef.Kind {
	case a1.CellRefRangeTable:
		dt, ok := ctx.TableByName(node.CellRef.Table.TableName)
		if !ok {
			return Value{}, cellvalue.NewRunError(cellvalue.ErrBadCellReference, spanPtr(node.Span),
				fmt.Sprintf("unknown table %q", node.CellRef.Table.TableName))
		}
		r, err := node.CellRef.Table.ToRect(dt)
		if err != nil {
			return Value{}, cellvalue.NewRunError(cellvalue.ErrBadCellReference, spanPtr(node.Span), err.Error())
		}
		rect = r
	default:
		r, err := node.CellRef.Sheet.ToRect()
		if err != nil {
			return Value{}, cellvalue.NewRunError(cellvalue.ErrArrayTooBig, spanPtr(node.Span),
				"unbounded ranges cannot be evaluated directly")
		}
		rect = r
	}

	width := int(rect.Max.X-rect.Min.X) + 1
	height := int(rect.Max.Y-rect.Min.Y) + 1
	if width > maxArrayDim || height > maxArrayDim || width*height > maxArrayCells {
		return Value{}, cellvalue.NewRunError(cellvalue.ErrArrayTooBig, spanPtr(node.Span),
			fmt.Sprintf("range %dx%d exceeds the maximum array size", width, height))
	}

	if width == 1 && height == 1 {
		return NewSingle(ctx.GetCell(pos.NewSheetPos(node.RangeSheetID, rect.Min.X, rect.Min.Y))), nil
	}

	rows := make([][]cellvalue.CellValue, height)
	for y := 0; y < height; y++ {
		row := make([]cellvalue.CellValue, width)
		for x := 0; x < width; x++ {
			row[x] = ctx.GetCell(pos.NewSheetPos(node.RangeSheetID, rect.Min.X+int64(x), rect.Min.Y+int64(y)))
		}
		rows[y] = row
	}
	return NewArray(rows), nil
}

func evalArrayLiteral(node Ast, currentPos pos.SheetPos, ctx EvalContext) (Value, error) {
	if len(node.Rows) == 0 {
		return Value{}, cellvalue.NewRunError(cellvalue.ErrEmptyArray, spanPtr(node.Span), "array literal has no rows")
	}
	rows := make([][]cellvalue.CellValue, len(node.Rows))
	for y, astRow := range node.Rows {
		if len(astRow) == 0 {
			return Value{}, cellvalue.NewRunError(cellvalue.ErrEmptyArray, spanPtr(node.Span), "array literal row is empty")
		}
		row := make([]cellvalue.CellValue, len(astRow))
		for x, cellAst := range astRow {
			v, err := Eval(cellAst, currentPos, ctx)
			if err != nil {
				return Value{}, err
			}
			row[x] = v.AsSingle()
		}
		rows[y] = row
	}
	if !checkRectangular(rows) {
		return Value{}, cellvalue.NewRunError(cellvalue.ErrNonRectangularArray, spanPtr(node.Span), "array literal rows have differing lengths")
	}
	return NewArray(rows), nil
}

func evalUnaryOp(node Ast, currentPos pos.SheetPos, ctx EvalContext) (Value, error) {
	inner, err := Eval(*node.Inner, currentPos, ctx)
	if err != nil {
		return Value{}, err
	}
	var f func(cellvalue.CellValue) (cellvalue.CellValue, error)
	switch node.Op {
	case "-":
		f = func(v cellvalue.CellValue) (cellvalue.CellValue, error) {
			if re, ok := v.Error(); ok {
				return cellvalue.CellValue{}, re
			}
			n, err := v.AsNumberOrZero()
			if err != nil {
				return cellvalue.CellValue{}, err
			}
			return cellvalue.NewNumber(n.Neg()), nil
		}
	case "+":
		f = func(v cellvalue.CellValue) (cellvalue.CellValue, error) {
			if re, ok := v.Error(); ok {
				return cellvalue.CellValue{}, re
			}
			n, err := v.AsNumberOrZero()
			if err != nil {
				return cellvalue.CellValue{}, err
			}
			return cellvalue.NewNumber(n), nil
		}
	case "%":
		f = func(v cellvalue.CellValue) (cellvalue.CellValue, error) {
			if re, ok := v.Error(); ok {
				return cellvalue.CellValue{}, re
			}
			n, err := v.AsNumberOrZero()
			if err != nil {
				return cellvalue.CellValue{}, err
			}
			return cellvalue.NewNumber(n.Div(decimal.NewFromInt(100))), nil
		}
	default:
		return Value{}, fmt.Errorf("formula: unknown unary operator %q", node.Op)
	}
	return mapUnary(inner, f)
}

func evalBinaryOp(node Ast, currentPos pos.SheetPos, ctx EvalContext) (Value, error) {
	left, err := Eval(*node.Left, currentPos, ctx)
	if err != nil {
		return Value{}, err
	}
	right, err := Eval(*node.Right, currentPos, ctx)
	if err != nil {
		return Value{}, err
	}

	var f func(a, b cellvalue.CellValue) (cellvalue.CellValue, error)
	switch node.Op {
	case "+", "-", "*", "/", "^":
		f = arithOp(node.Op)
	case "&":
		f = concatOp
	case "=", "<>", "<", ">", "<=", ">=":
		f = compareOp(node.Op)
	default:
		return Value{}, fmt.Errorf("formula: unknown binary operator %q", node.Op)
	}
	return mapBinary(left, right, f)
}

func arithOp(op string) func(a, b cellvalue.CellValue) (cellvalue.CellValue, error) {
	return func(a, b cellvalue.CellValue) (cellvalue.CellValue, error) {
		if re, ok := a.Error(); ok {
			return cellvalue.CellValue{}, re
		}
		if re, ok := b.Error(); ok {
			return cellvalue.CellValue{}, re
		}
		an, err := a.AsNumberOrZero()
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		bn, err := b.AsNumberOrZero()
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		switch op {
		case "+":
			return cellvalue.NewNumber(an.Add(bn)), nil
		case "-":
			return cellvalue.NewNumber(an.Sub(bn)), nil
		case "*":
			return cellvalue.NewNumber(an.Mul(bn)), nil
		case "/":
			if bn.IsZero() {
				return cellvalue.CellValue{}, cellvalue.NewRunError(cellvalue.ErrDivideByZero, nil, "division by zero")
			}
			return cellvalue.NewNumber(an.Div(bn)), nil
		case "^":
			return cellvalue.NewNumber(an.Pow(bn)), nil
		default:
			return cellvalue.CellValue{}, fmt.Errorf("formula: unknown arithmetic operator %q", op)
		}
	}
}

func concatOp(a, b cellvalue.CellValue) (cellvalue.CellValue, error) {
	if re, ok := a.Error(); ok {
		return cellvalue.CellValue{}, re
	}
	if re, ok := b.Error(); ok {
		return cellvalue.CellValue{}, re
	}
	return cellvalue.NewText(a.Display() + b.Display()), nil
}

func compareOp(op string) func(a, b cellvalue.CellValue) (cellvalue.CellValue, error) {
	return func(a, b cellvalue.CellValue) (cellvalue.CellValue, error) {
		if re, ok := a.Error(); ok {
			return cellvalue.CellValue{}, re
		}
		if re, ok := b.Error(); ok {
			return cellvalue.CellValue{}, re
		}
		cmp := compareCellValues(a, b)
		var result bool
		switch op {
		case "=":
			result = cmp == 0
		case "<>":
			result = cmp != 0
		case "<":
			result = cmp < 0
		case ">":
			result = cmp > 0
		case "<=":
			result = cmp <= 0
		case ">=":
			result = cmp >= 0
		}
		return cellvalue.NewLogical(result), nil
	}
}

// compareCellValues orders two values the way formula comparison
// operators do: Blank coerces to the other side's "empty" value; same
// kind compares natively (numbers numerically, text case-insensitively,
// logical false<true); different kinds fall back to a fixed type rank
// (Number < Text < Logical), since the grammar offers no richer cross-
// type ordering contract.
func compareCellValues(a, b cellvalue.CellValue) int {
	if a.IsBlank() {
		a = zeroLike(b)
	}
	if b.IsBlank() {
		b = zeroLike(a)
	}
	if a.Kind == b.Kind {
		switch a.Kind {
		case cellvalue.KindNumber:
			an, _ := a.Number()
			bn, _ := b.Number()
			return an.Cmp(bn)
		case cellvalue.KindText:
			at, _ := a.Text()
			bt, _ := b.Text()
			return strings.Compare(strings.ToUpper(at), strings.ToUpper(bt))
		case cellvalue.KindLogical:
			ab, _ := a.Logical()
			bb, _ := b.Logical()
			if ab == bb {
				return 0
			}
			if !ab {
				return -1
			}
			return 1
		}
	}
	ra, rb := typeRank(a.Kind), typeRank(b.Kind)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

func zeroLike(other cellvalue.CellValue) cellvalue.CellValue {
	switch other.Kind {
	case cellvalue.KindText:
		return cellvalue.NewText("")
	case cellvalue.KindLogical:
		return cellvalue.NewLogical(false)
	default:
		return cellvalue.NewNumberFromInt(0)
	}
}

func typeRank(k cellvalue.Kind) int {
	switch k {
	case cellvalue.KindNumber:
		return 0
	case cellvalue.KindText:
		return 1
	case cellvalue.KindLogical:
		return 2
	default:
		return 3
	}
}

// mapUnary applies f cell-wise across v, preserving array shape.
func mapUnary(v Value, f func(cellvalue.CellValue) (cellvalue.CellValue, error)) (Value, error) {
	if !v.IsArray {
		res, err := f(v.Single)
		if err != nil {
			return Value{}, err
		}
		return NewSingle(res), nil
	}
	w, h := v.Dims()
	rows := make([][]cellvalue.CellValue, h)
	for y := 0; y < h; y++ {
		row := make([]cellvalue.CellValue, w)
		for x := 0; x < w; x++ {
			res, err := f(v.At(x, y))
			if err != nil {
				return Value{}, err
			}
			row[x] = res
		}
		rows[y] = row
	}
	return NewArray(rows), nil
}

// mapBinary implements array_map's broadcast contract (spec §4.5):
// if both operands are arrays they must share shape (ArraySizeMismatch
// otherwise); a scalar operand broadcasts across every cell of the
// other.
func mapBinary(a, b Value, f func(a, b cellvalue.CellValue) (cellvalue.CellValue, error)) (Value, error) {
	if !a.IsArray && !b.IsArray {
		res, err := f(a.Single, b.Single)
		if err != nil {
			return Value{}, err
		}
		return NewSingle(res), nil
	}
	w, h, err := matchShape(a, b)
	if err != nil {
		return Value{}, err
	}
	rows := make([][]cellvalue.CellValue, h)
	for y := 0; y < h; y++ {
		row := make([]cellvalue.CellValue, w)
		for x := 0; x < w; x++ {
			res, err := f(a.At(x, y), b.At(x, y))
			if err != nil {
				return Value{}, err
			}
			row[x] = res
		}
		rows[y] = row
	}
	return NewArray(rows), nil
}

func matchShape(values ...Value) (width, height int, err error) {
	width, height = 1, 1
	set := false
	for _, v := range values {
		if !v.IsArray {
			continue
		}
		w, h := v.Dims()
		if set && (w != width || h != height) {
			return 0, 0, cellvalue.NewRunError(cellvalue.ErrArraySizeMismatch, nil,
				fmt.Sprintf("array operands have mismatched shapes (%dx%d vs %dx%d)", width, height, w, h))
		}
		width, height, set = w, h, true
	}
	return width, height, nil
}

func spanPtr(s cellvalue.Span) *cellvalue.Span {
	if s == (cellvalue.Span{}) {
		return nil
	}
	return &s
}

// evalFunctionCall looks up node.FuncName in the function registry,
// checks its arity, evaluates its arguments, and dispatches. Most
// functions abort on an argument evaluation error like any other
// operator; a handful (ISBLANK, ISERROR) are registered with
// catchErrors so they can inspect a failing argument instead of
// failing themselves.
func evalFunctionCall(node Ast, currentPos pos.SheetPos, ctx EvalContext) (Value, error) {
	desc, ok := registry[node.FuncName]
	if !ok {
		return Value{}, cellvalue.NewRunError(cellvalue.ErrBadFunctionName, spanPtr(node.Span),
			fmt.Sprintf("unknown function %s", node.FuncName))
	}
	if desc.minArgs >= 0 && len(node.Args) < desc.minArgs {
		return Value{}, cellvalue.NewRunError(cellvalue.ErrMissingRequiredArgument, spanPtr(node.Span),
			fmt.Sprintf("%s requires at least %d argument(s)", node.FuncName, desc.minArgs))
	}
	if desc.maxArgs >= 0 && len(node.Args) > desc.maxArgs {
		return Value{}, cellvalue.NewRunError(cellvalue.ErrTooManyArguments, spanPtr(node.Span),
			fmt.Sprintf("%s accepts at most %d argument(s)", node.FuncName, desc.maxArgs))
	}

	args := make([]Value, len(node.Args))
	for i, a := range node.Args {
		v, err := Eval(a, currentPos, ctx)
		if err != nil {
			if !desc.catchErrors {
				return Value{}, err
			}
			v = NewSingle(cellvalue.NewError(toRunError(err)))
		}
		args[i] = v
	}
	return desc.fn(args, funcContext{pos: currentPos, ctx: ctx})
}
