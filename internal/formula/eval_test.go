package formula

import (
	"testing"
	"time"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

type fakeCtx struct {
	cells map[pos.Pos]cellvalue.CellValue
	now   time.Time
}

func newFakeCtx() *fakeCtx {
	return &fakeCtx{cells: make(map[pos.Pos]cellvalue.CellValue), now: time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeCtx) set(x, y int64, v cellvalue.CellValue) { c.cells[pos.NewPos(x, y)] = v }

func (c *fakeCtx) GetCell(sp pos.SheetPos) cellvalue.CellValue {
	if v, ok := c.cells[sp.Pos]; ok {
		return v
	}
	return cellvalue.Blank
}

func (c *fakeCtx) TableByName(string) (table.DataTable, bool) { return table.DataTable{}, false }
func (c *fakeCtx) Now() time.Time                             { return c.now }

func evalSrc(t *testing.T, src string, ctx *fakeCtx) Value {
	t.Helper()
	a1ctx := table.NewA1Context()
	sheetID := pos.NewSheetId()
	ast, err := Parse(src, sheetID, a1ctx)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	v, err := Eval(ast, pos.NewSheetPos(sheetID, 1, 1), ctx)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func evalSrcErr(t *testing.T, src string, ctx *fakeCtx) error {
	t.Helper()
	a1ctx := table.NewA1Context()
	sheetID := pos.NewSheetId()
	ast, err := Parse(src, sheetID, a1ctx)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	_, err = Eval(ast, pos.NewSheetPos(sheetID, 1, 1), ctx)
	if err == nil {
		t.Fatalf("Eval(%q): expected an error, got none", src)
	}
	return err
}

func wantNumber(t *testing.T, v Value, want string) {
	t.Helper()
	n, ok := v.AsSingle().Number()
	if !ok {
		t.Fatalf("value is not a number: %+v", v)
	}
	if n.String() != want {
		t.Fatalf("got %s, want %s", n.String(), want)
	}
}

func wantText(t *testing.T, v Value, want string) {
	t.Helper()
	s, ok := v.AsSingle().Text()
	if !ok {
		t.Fatalf("value is not text: %+v", v)
	}
	if s != want {
		t.Fatalf("got %q, want %q", s, want)
	}
}

func wantBool(t *testing.T, v Value, want bool) {
	t.Helper()
	b, ok := v.AsSingle().Logical()
	if !ok {
		t.Fatalf("value is not logical: %+v", v)
	}
	if b != want {
		t.Fatalf("got %v, want %v", b, want)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	ctx := newFakeCtx()
	wantNumber(t, evalSrc(t, "1+2*3", ctx), "7")
	wantNumber(t, evalSrc(t, "(1+2)*3", ctx), "9")
	wantNumber(t, evalSrc(t, "10/2-3", ctx), "2")
}

// Power is right-associative: 2^3^2 == 2^(3^2) == 512.
func TestPowerRightAssociative(t *testing.T) {
	ctx := newFakeCtx()
	wantNumber(t, evalSrc(t, "2^3^2", ctx), "512")
}

// Unary minus binds looser than exponentiation: -2^2 == -(2^2) == -4,
// following standard math precedence rather than Excel's convention.
func TestUnaryMinusBindsLooserThanPower(t *testing.T) {
	ctx := newFakeCtx()
	wantNumber(t, evalSrc(t, "-2^2", ctx), "-4")
}

func TestPercentOperator(t *testing.T) {
	ctx := newFakeCtx()
	wantNumber(t, evalSrc(t, "50%", ctx), "0.5")
}

func TestConcatOperator(t *testing.T) {
	ctx := newFakeCtx()
	wantText(t, evalSrc(t, `"foo"&"bar"`, ctx), "foobar")
}

func TestComparisonOperators(t *testing.T) {
	ctx := newFakeCtx()
	wantBool(t, evalSrc(t, "1<2", ctx), true)
	wantBool(t, evalSrc(t, "2<=2", ctx), true)
	wantBool(t, evalSrc(t, `"a"="A"`, ctx), true) // text compares case-insensitively
	wantBool(t, evalSrc(t, "1<>2", ctx), true)
}

func TestDivideByZero(t *testing.T) {
	ctx := newFakeCtx()
	err := evalSrcErr(t, "1/0", ctx)
	re, ok := err.(cellvalue.RunError)
	if !ok {
		t.Fatalf("expected a RunError, got %T: %v", err, err)
	}
	if re.Kind != cellvalue.ErrDivideByZero {
		t.Fatalf("got error kind %v, want ErrDivideByZero", re.Kind)
	}
}

// A 1xN range reference evaluates to a vector-shaped array, never
// collapsed down to a scalar, even though it has only one column.
func TestRangeReferenceIsVectorShaped(t *testing.T) {
	ctx := newFakeCtx()
	ctx.set(1, 1, cellvalue.NewNumberFromInt(1))
	ctx.set(1, 2, cellvalue.NewNumberFromInt(2))
	ctx.set(1, 3, cellvalue.NewNumberFromInt(3))
	v := evalSrc(t, "A1:A3", ctx)
	if !v.IsArray {
		t.Fatalf("expected an array value, got scalar %+v", v)
	}
	w, h := v.Dims()
	if w != 1 || h != 3 {
		t.Fatalf("got dims %dx%d, want 1x3", w, h)
	}
}

func TestArrayMapBroadcastsScalar(t *testing.T) {
	ctx := newFakeCtx()
	ctx.set(1, 1, cellvalue.NewNumberFromInt(1))
	ctx.set(1, 2, cellvalue.NewNumberFromInt(2))
	ctx.set(1, 3, cellvalue.NewNumberFromInt(3))
	v := evalSrc(t, "A1:A3*2", ctx)
	w, h := v.Dims()
	if w != 1 || h != 3 {
		t.Fatalf("got dims %dx%d, want 1x3", w, h)
	}
	for y, want := range []string{"2", "4", "6"} {
		n, _ := v.At(0, y).Number()
		if n.String() != want {
			t.Fatalf("row %d: got %s, want %s", y, n.String(), want)
		}
	}
}

func TestArrayMapShapeMismatch(t *testing.T) {
	ctx := newFakeCtx()
	err := evalSrcErr(t, "A1:A3+B1:B2", ctx)
	re, ok := err.(cellvalue.RunError)
	if !ok {
		t.Fatalf("expected a RunError, got %T: %v", err, err)
	}
	if re.Kind != cellvalue.ErrArraySizeMismatch {
		t.Fatalf("got error kind %v, want ErrArraySizeMismatch", re.Kind)
	}
}

func TestSumAcrossRangeAndScalar(t *testing.T) {
	ctx := newFakeCtx()
	ctx.set(1, 1, cellvalue.NewNumberFromInt(1))
	ctx.set(1, 2, cellvalue.NewNumberFromInt(2))
	ctx.set(1, 3, cellvalue.NewNumberFromInt(3))
	wantNumber(t, evalSrc(t, "SUM(A1:A3,10)", ctx), "16")
}

func TestAverageOfNoValuesDividesByZero(t *testing.T) {
	ctx := newFakeCtx()
	err := evalSrcErr(t, `AVERAGE("x","y")`, ctx)
	re, ok := err.(cellvalue.RunError)
	if !ok {
		t.Fatalf("expected a RunError, got %T: %v", err, err)
	}
	if re.Kind != cellvalue.ErrDivideByZero {
		t.Fatalf("got error kind %v, want ErrDivideByZero", re.Kind)
	}
}

func TestIfFunction(t *testing.T) {
	ctx := newFakeCtx()
	wantText(t, evalSrc(t, `IF(1>0,"yes","no")`, ctx), "yes")
	wantText(t, evalSrc(t, `IF(1<0,"yes","no")`, ctx), "no")
}

func TestIfWithoutElseDefaultsBlank(t *testing.T) {
	ctx := newFakeCtx()
	v := evalSrc(t, `IF(1<0,"yes")`, ctx)
	if !v.AsSingle().IsBlank() {
		t.Fatalf("expected blank, got %+v", v.AsSingle())
	}
}

func TestLogicFunctions(t *testing.T) {
	ctx := newFakeCtx()
	wantBool(t, evalSrc(t, "AND(TRUE,TRUE,1)", ctx), true)
	wantBool(t, evalSrc(t, "AND(TRUE,FALSE)", ctx), false)
	wantBool(t, evalSrc(t, "OR(FALSE,FALSE,TRUE)", ctx), true)
	wantBool(t, evalSrc(t, "XOR(TRUE,TRUE,TRUE)", ctx), true)
	wantBool(t, evalSrc(t, "NOT(FALSE)", ctx), true)
}

func TestIsBlankOnUnsetCell(t *testing.T) {
	ctx := newFakeCtx()
	wantBool(t, evalSrc(t, "ISBLANK(A5)", ctx), true)
	ctx.set(1, 5, cellvalue.NewNumberFromInt(0))
	wantBool(t, evalSrc(t, "ISBLANK(A5)", ctx), false)
}

// ISERROR must observe a failing argument rather than aborting the
// whole evaluation the way every other function does.
func TestIsErrorCatchesArgumentFailure(t *testing.T) {
	ctx := newFakeCtx()
	wantBool(t, evalSrc(t, "ISERROR(1/0)", ctx), true)
	wantBool(t, evalSrc(t, "ISERROR(1+1)", ctx), false)
}

func TestTextFunctions(t *testing.T) {
	ctx := newFakeCtx()
	wantNumber(t, evalSrc(t, `LEN("hello")`, ctx), "5")
	wantText(t, evalSrc(t, `LOWER("ABC")`, ctx), "abc")
	wantText(t, evalSrc(t, `UPPER("abc")`, ctx), "ABC")
	wantText(t, evalSrc(t, `TRIM("  a   b  ")`, ctx), "a b")
	wantText(t, evalSrc(t, `CONCAT("a","b",1)`, ctx), "ab1")
}

func TestRoundAbsMod(t *testing.T) {
	ctx := newFakeCtx()
	wantNumber(t, evalSrc(t, "ROUND(3.14159,2)", ctx), "3.14")
	wantNumber(t, evalSrc(t, "ABS(-5)", ctx), "5")
	// Floored MOD: result takes the sign of the divisor.
	wantNumber(t, evalSrc(t, "MOD(-7,3)", ctx), "2")
	wantNumber(t, evalSrc(t, "MOD(7,-3)", ctx), "-2")
}

// DATE/TIME normalize out-of-range fields the same way time.Date
// itself does, which happens to match the expected Euclidean
// wraparound exactly.
func TestDateOverflowNormalization(t *testing.T) {
	ctx := newFakeCtx()
	v := evalSrc(t, "DATE(2024,0,0)", ctx)
	d, ok := v.AsSingle().Date()
	if !ok {
		t.Fatalf("expected a date, got %+v", v.AsSingle())
	}
	if got := d.Format("2006-01-02"); got != "2023-11-30" {
		t.Fatalf("got %s, want 2023-11-30", got)
	}

	v = evalSrc(t, "DATE(1900,2,29)", ctx)
	d, _ = v.AsSingle().Date()
	if got := d.Format("2006-01-02"); got != "1900-03-01" {
		t.Fatalf("got %s, want 1900-03-01", got)
	}
}

func TestTimeUnderflowWrapsAcrossMidnight(t *testing.T) {
	ctx := newFakeCtx()
	v := evalSrc(t, "TIME(-8,30,0)", ctx)
	tod, ok := v.AsSingle().Time()
	if !ok {
		t.Fatalf("expected a time, got %+v", v.AsSingle())
	}
	if got := tod.Format("15:04:05"); got != "16:30:00" {
		t.Fatalf("got %s, want 16:30:00", got)
	}
}

func TestNowAndTodayUseEvalContextClock(t *testing.T) {
	ctx := newFakeCtx()
	v := evalSrc(t, "TODAY()", ctx)
	d, ok := v.AsSingle().Date()
	if !ok {
		t.Fatalf("expected a date, got %+v", v.AsSingle())
	}
	if got := d.Format("2006-01-02"); got != "2026-07-30" {
		t.Fatalf("got %s, want 2026-07-30", got)
	}

	v = evalSrc(t, "NOW()", ctx)
	dt, ok := v.AsSingle().DateTime()
	if !ok {
		t.Fatalf("expected a datetime, got %+v", v.AsSingle())
	}
	if !dt.Equal(ctx.now) {
		t.Fatalf("got %v, want %v", dt, ctx.now)
	}
}

func TestUnknownFunctionNameIsBadFunctionNameError(t *testing.T) {
	ctx := newFakeCtx()
	err := evalSrcErr(t, "NOTAREALFUNCTION(1)", ctx)
	re, ok := err.(cellvalue.RunError)
	if !ok {
		t.Fatalf("expected a RunError, got %T: %v", err, err)
	}
	if re.Kind != cellvalue.ErrBadFunctionName {
		t.Fatalf("got error kind %v, want ErrBadFunctionName", re.Kind)
	}
}

func TestArrayLiteralEvaluation(t *testing.T) {
	ctx := newFakeCtx()
	v := evalSrc(t, "SUM({1,2;3,4})", ctx)
	wantNumber(t, v, "10")
}
