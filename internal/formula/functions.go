package formula

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

type funcContext struct {
	pos pos.SheetPos
	ctx EvalContext
}

type fnDescriptor struct {
	minArgs, maxArgs int // -1 means unbounded
	catchErrors      bool
	fn               func(args []Value, fc funcContext) (Value, error)
}

var registry map[string]fnDescriptor

func init() {
	registry = map[string]fnDescriptor{
		"SUM":     {0, -1, false, fnSum},
		"PRODUCT": {0, -1, false, fnProduct},
		"AVERAGE": {1, -1, false, fnAverage},
		"COUNT":   {0, -1, false, fnCount},
		"MIN":     {0, -1, false, fnMin},
		"MAX":     {0, -1, false, fnMax},

		"NOT": {1, 1, false, fnNot},
		"AND": {1, -1, false, fnAnd},
		"OR":  {1, -1, false, fnOr},
		"XOR": {1, -1, false, fnXor},
		"IF":  {2, 3, false, fnIf},

		"CONCAT": {0, -1, false, fnConcat},

		"NOW":   {0, 0, false, fnNow},
		"TODAY": {0, 0, false, fnToday},
		"DATE":  {3, 3, false, fnDate},
		"TIME":  {3, 3, false, fnTime},

		"ROUND":   {2, 2, false, fnRound},
		"ABS":     {1, 1, false, fnAbs},
		"MOD":     {2, 2, false, fnMod},
		"ISBLANK": {1, 1, true, fnIsBlank},
		"ISERROR": {1, 1, true, fnIsError},
		"LEN":     {1, 1, false, fnLen},
		"LOWER":   {1, 1, false, fnLower},
		"UPPER":   {1, 1, false, fnUpper},
		"TRIM":    {1, 1, false, fnTrim},
	}
}

func toRunError(err error) cellvalue.RunError {
	var re cellvalue.RunError
	if errors.As(err, &re) {
		return re
	}
	return cellvalue.NewRunError(cellvalue.ErrInternal, nil, err.Error())
}

// flattenCells expands an array Value in row-major order, or wraps a
// scalar as a single-element slice.
func flattenCells(v Value) []cellvalue.CellValue {
	if !v.IsArray {
		return []cellvalue.CellValue{v.Single}
	}
	w, h := v.Dims()
	out := make([]cellvalue.CellValue, 0, w*h)
	for y := 0; y < h; y++ {
		out = append(out, v.Array[y]...)
	}
	return out
}

// collectNumeric flattens every arg and keeps the numeric cells,
// matching the aggregate-function convention: Number contributes
// directly, Logical coerces to 0/1, Blank and Text are silently
// skipped, and any embedded error aborts the whole aggregate.
func collectNumeric(args []Value) ([]decimal.Decimal, error) {
	var out []decimal.Decimal
	for _, v := range args {
		for _, c := range flattenCells(v) {
			if re, ok := c.Error(); ok {
				return nil, re
			}
			switch c.Kind {
			case cellvalue.KindNumber:
				n, _ := c.Number()
				out = append(out, n)
			case cellvalue.KindLogical:
				b, _ := c.Logical()
				if b {
					out = append(out, decimal.NewFromInt(1))
				} else {
					out = append(out, decimal.Zero)
				}
			}
		}
	}
	return out, nil
}

func fnSum(args []Value, _ funcContext) (Value, error) {
	nums, err := collectNumeric(args)
	if err != nil {
		return Value{}, err
	}
	total := decimal.Zero
	for _, n := range nums {
		total = total.Add(n)
	}
	return NewSingle(cellvalue.NewNumber(total)), nil
}

func fnProduct(args []Value, _ funcContext) (Value, error) {
	nums, err := collectNumeric(args)
	if err != nil {
		return Value{}, err
	}
	if len(nums) == 0 {
		return NewSingle(cellvalue.NewNumberFromInt(0)), nil
	}
	total := decimal.NewFromInt(1)
	for _, n := range nums {
		total = total.Mul(n)
	}
	return NewSingle(cellvalue.NewNumber(total)), nil
}

func fnAverage(args []Value, _ funcContext) (Value, error) {
	nums, err := collectNumeric(args)
	if err != nil {
		return Value{}, err
	}
	if len(nums) == 0 {
		return Value{}, cellvalue.NewRunError(cellvalue.ErrDivideByZero, nil, "AVERAGE of no numeric values")
	}
	total := decimal.Zero
	for _, n := range nums {
		total = total.Add(n)
	}
	return NewSingle(cellvalue.NewNumber(total.Div(decimal.NewFromInt(int64(len(nums)))))), nil
}

func fnCount(args []Value, _ funcContext) (Value, error) {
	nums, err := collectNumeric(args)
	if err != nil {
		return Value{}, err
	}
	return NewSingle(cellvalue.NewNumberFromInt(int64(len(nums)))), nil
}

func fnMin(args []Value, _ funcContext) (Value, error) {
	nums, err := collectNumeric(args)
	if err != nil {
		return Value{}, err
	}
	if len(nums) == 0 {
		return NewSingle(cellvalue.NewNumberFromInt(0)), nil
	}
	min := nums[0]
	for _, n := range nums[1:] {
		if n.LessThan(min) {
			min = n
		}
	}
	return NewSingle(cellvalue.NewNumber(min)), nil
}

func fnMax(args []Value, _ funcContext) (Value, error) {
	nums, err := collectNumeric(args)
	if err != nil {
		return Value{}, err
	}
	if len(nums) == 0 {
		return NewSingle(cellvalue.NewNumberFromInt(0)), nil
	}
	max := nums[0]
	for _, n := range nums[1:] {
		if n.GreaterThan(max) {
			max = n
		}
	}
	return NewSingle(cellvalue.NewNumber(max)), nil
}

func asBool(v cellvalue.CellValue) (bool, error) {
	if re, ok := v.Error(); ok {
		return false, re
	}
	switch v.Kind {
	case cellvalue.KindLogical:
		b, _ := v.Logical()
		return b, nil
	case cellvalue.KindNumber:
		n, _ := v.Number()
		return !n.IsZero(), nil
	case cellvalue.KindBlank:
		return false, nil
	default:
		return false, cellvalue.NewRunError(cellvalue.ErrBadOp, nil, "cannot coerce to a boolean")
	}
}

func fnNot(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		b, err := asBool(vals[0])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewLogical(!b), nil
	})
}

func fnAnd(args []Value, _ funcContext) (Value, error) {
	result := true
	for _, v := range args {
		for _, c := range flattenCells(v) {
			b, err := asBool(c)
			if err != nil {
				return Value{}, err
			}
			result = result && b
		}
	}
	return NewSingle(cellvalue.NewLogical(result)), nil
}

func fnOr(args []Value, _ funcContext) (Value, error) {
	result := false
	for _, v := range args {
		for _, c := range flattenCells(v) {
			b, err := asBool(c)
			if err != nil {
				return Value{}, err
			}
			result = result || b
		}
	}
	return NewSingle(cellvalue.NewLogical(result)), nil
}

func fnXor(args []Value, _ funcContext) (Value, error) {
	count := 0
	for _, v := range args {
		for _, c := range flattenCells(v) {
			b, err := asBool(c)
			if err != nil {
				return Value{}, err
			}
			if b {
				count++
			}
		}
	}
	return NewSingle(cellvalue.NewLogical(count%2 == 1)), nil
}

func fnIf(args []Value, _ funcContext) (Value, error) {
	elseArg := NewSingle(cellvalue.Blank)
	if len(args) == 3 {
		elseArg = args[2]
	}
	return elementwise([]Value{args[0], args[1], elseArg}, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		b, err := asBool(vals[0])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		if b {
			return vals[1], nil
		}
		return vals[2], nil
	})
}

func fnConcat(args []Value, _ funcContext) (Value, error) {
	var b strings.Builder
	for _, v := range args {
		for _, c := range flattenCells(v) {
			if re, ok := c.Error(); ok {
				return Value{}, re
			}
			b.WriteString(c.Display())
		}
	}
	return NewSingle(cellvalue.NewText(b.String())), nil
}

func fnNow(_ []Value, fc funcContext) (Value, error) {
	return NewSingle(cellvalue.NewDateTime(fc.ctx.Now())), nil
}

func fnToday(_ []Value, fc funcContext) (Value, error) {
	now := fc.ctx.Now()
	return NewSingle(cellvalue.NewDate(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))), nil
}

func intPart(v cellvalue.CellValue) (int64, error) {
	if re, ok := v.Error(); ok {
		return 0, re
	}
	n, err := v.AsNumberOrZero()
	if err != nil {
		return 0, err
	}
	return n.IntPart(), nil
}

// fnDate implements DATE(year, month, day) by delegating to
// time.Date's own field normalization, which performs exactly the
// Euclidean overflow/underflow spec §8 requires (`DATE(2024,0,0)` ->
// 2023-11-30, `DATE(1900,2,29)` -> 1900-03-01) without any special
// casing here.
func fnDate(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		y, err := intPart(vals[0])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		m, err := intPart(vals[1])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		d, err := intPart(vals[2])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		t := time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, time.UTC)
		return cellvalue.NewDate(t), nil
	})
}

// fnTime implements TIME(hour, minute, second) the same way, e.g.
// `TIME(-8,30,0)` -> 16:30:00 from rolling back across midnight.
func fnTime(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		h, err := intPart(vals[0])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		mi, err := intPart(vals[1])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		s, err := intPart(vals[2])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		t := time.Date(0, 1, 1, int(h), int(mi), int(s), 0, time.UTC)
		return cellvalue.NewTime(t), nil
	})
}

func fnRound(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		n, err := vals[0].AsNumberOrZero()
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		digits, err := intPart(vals[1])
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewNumber(n.Round(int32(digits))), nil
	})
}

func fnAbs(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		n, err := vals[0].AsNumberOrZero()
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewNumber(n.Abs()), nil
	})
}

// fnMod implements floored modulo (n - d*floor(n/d)), so MOD always
// returns a result with the same sign as the divisor, matching
// spreadsheet MOD rather than Go's truncating %.
func fnMod(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		n, err := vals[0].AsNumberOrZero()
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		d, err := vals[1].AsNumberOrZero()
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		if d.IsZero() {
			return cellvalue.CellValue{}, cellvalue.NewRunError(cellvalue.ErrDivideByZero, nil, "MOD by zero")
		}
		q := n.Div(d).Floor()
		return cellvalue.NewNumber(n.Sub(d.Mul(q))), nil
	})
}

func fnIsBlank(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		return cellvalue.NewLogical(vals[0].IsBlank()), nil
	})
}

func fnIsError(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		_, ok := vals[0].Error()
		return cellvalue.NewLogical(ok), nil
	})
}

func fnLen(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		if re, ok := vals[0].Error(); ok {
			return cellvalue.CellValue{}, re
		}
		return cellvalue.NewNumberFromInt(int64(len([]rune(vals[0].Display())))), nil
	})
}

func fnLower(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		if re, ok := vals[0].Error(); ok {
			return cellvalue.CellValue{}, re
		}
		return cellvalue.NewText(strings.ToLower(vals[0].Display())), nil
	})
}

func fnUpper(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		if re, ok := vals[0].Error(); ok {
			return cellvalue.CellValue{}, re
		}
		return cellvalue.NewText(strings.ToUpper(vals[0].Display())), nil
	})
}

func fnTrim(args []Value, _ funcContext) (Value, error) {
	return elementwise(args, func(vals []cellvalue.CellValue) (cellvalue.CellValue, error) {
		if re, ok := vals[0].Error(); ok {
			return cellvalue.CellValue{}, re
		}
		return cellvalue.NewText(strings.Join(strings.Fields(vals[0].Display()), " ")), nil
	})
}

// elementwise applies f across matching positions of args, broadcasting
// scalars and requiring any array args to share shape (array_map,
// spec §4.5).
func elementwise(args []Value, f func(vals []cellvalue.CellValue) (cellvalue.CellValue, error)) (Value, error) {
	anyArray := false
	for _, a := range args {
		if a.IsArray {
			anyArray = true
			break
		}
	}
	if !anyArray {
		vals := make([]cellvalue.CellValue, len(args))
		for i, a := range args {
			vals[i] = a.Single
		}
		res, err := f(vals)
		if err != nil {
			return Value{}, err
		}
		return NewSingle(res), nil
	}
	w, h, err := matchShape(args...)
	if err != nil {
		return Value{}, err
	}
	rows := make([][]cellvalue.CellValue, h)
	for y := 0; y < h; y++ {
		row := make([]cellvalue.CellValue, w)
		for x := 0; x < w; x++ {
			vals := make([]cellvalue.CellValue, len(args))
			for i, a := range args {
				vals[i] = a.At(x, y)
			}
			res, err := f(vals)
			if err != nil {
				return Value{}, err
			}
			row[x] = res
		}
		rows[y] = row
	}
	return NewArray(rows), nil
}
