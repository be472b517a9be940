// Package cellvalue defines the tagged CellValue union that every
// grid cell holds, plus the RunError type that formula/code
// evaluation produces when a cell cannot be computed.
package cellvalue

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags which variant a CellValue holds.
type Kind int

const (
	KindBlank Kind = iota
	KindNumber
	KindText
	KindLogical
	KindDate
	KindTime
	KindDateTime
	KindDuration
	KindHTML
	KindImage
	KindCode
	KindImport
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindLogical:
		return "logical"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindHTML:
		return "html"
	case KindImage:
		return "image"
	case KindCode:
		return "code"
	case KindImport:
		return "import"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// CodeLanguage names the language of a code cell or import source.
type CodeLanguage int

const (
	LanguageFormula CodeLanguage = iota
	LanguagePython
	LanguageJavascript
	LanguageSQL
	LanguageImport
)

func (l CodeLanguage) String() string {
	switch l {
	case LanguageFormula:
		return "Formula"
	case LanguagePython:
		return "Python"
	case LanguageJavascript:
		return "Javascript"
	case LanguageSQL:
		return "SQL"
	case LanguageImport:
		return "Import"
	default:
		return "Unknown"
	}
}

// CodeCellValue is the source of a code cell: its language and the
// literal source text. Embedded q.cells(...) references inside
// Python/Javascript source participate in coordinate translation —
// see package codecell.
type CodeCellValue struct {
	Language CodeLanguage
	Code     string
}

// ImportSpec describes the provenance of an imported table cell.
type ImportSpec struct {
	FileName string
}

// CellValue is the tagged union every grid cell holds. Exactly one of
// the typed fields is meaningful, selected by Kind; zero-value
// CellValue{} is Blank.
type CellValue struct {
	Kind Kind

	number   decimal.Decimal
	text     string
	logical  bool
	date     time.Time // date-only, time-of-day and location ignored
	tod      time.Time // time-of-day-only, date components ignored
	datetime time.Time
	duration time.Duration
	code     CodeCellValue
	imp      ImportSpec
	err      RunError
}

// Blank is the empty cell value.
var Blank = CellValue{Kind: KindBlank}

// NewNumber wraps a decimal as a Number CellValue.
func NewNumber(d decimal.Decimal) CellValue { return CellValue{Kind: KindNumber, number: d} }

// NewNumberFromInt wraps an int64 as a Number CellValue.
func NewNumberFromInt(n int64) CellValue {
	return CellValue{Kind: KindNumber, number: decimal.NewFromInt(n)}
}

// NewText wraps a string as a Text CellValue.
func NewText(s string) CellValue { return CellValue{Kind: KindText, text: s} }

// NewLogical wraps a bool as a Logical CellValue.
func NewLogical(b bool) CellValue { return CellValue{Kind: KindLogical, logical: b} }

// NewDate wraps a date-only time.Time as a Date CellValue.
func NewDate(t time.Time) CellValue { return CellValue{Kind: KindDate, date: t} }

// NewTime wraps a time-of-day time.Time as a Time CellValue.
func NewTime(t time.Time) CellValue { return CellValue{Kind: KindTime, tod: t} }

// NewDateTime wraps a time.Time as a DateTime CellValue.
func NewDateTime(t time.Time) CellValue { return CellValue{Kind: KindDateTime, datetime: t} }

// NewDuration wraps a time.Duration as a Duration CellValue.
func NewDuration(d time.Duration) CellValue { return CellValue{Kind: KindDuration, duration: d} }

// NewHTML wraps an HTML string as an HTML CellValue (used for chart
// output / image-bearing code cells flagged is_html_image).
func NewHTML(s string) CellValue { return CellValue{Kind: KindHTML, text: s} }

// NewImage wraps an encoded-bytes reference (e.g. a blob store key)
// as an Image CellValue.
func NewImage(ref string) CellValue { return CellValue{Kind: KindImage, text: ref} }

// NewCode wraps a CodeCellValue.
func NewCode(c CodeCellValue) CellValue { return CellValue{Kind: KindCode, code: c} }

// NewImport wraps an ImportSpec.
func NewImport(spec ImportSpec) CellValue { return CellValue{Kind: KindImport, imp: spec} }

// NewError wraps a RunError.
func NewError(e RunError) CellValue { return CellValue{Kind: KindError, err: e} }

// IsBlank reports whether this is the Blank variant.
func (v CellValue) IsBlank() bool { return v.Kind == KindBlank }

// Number returns the wrapped decimal and true if Kind is Number.
func (v CellValue) Number() (decimal.Decimal, bool) {
	if v.Kind != KindNumber {
		return decimal.Decimal{}, false
	}
	return v.number, true
}

// Text returns the wrapped string and true if Kind is Text or HTML or
// Image (all of which carry a string payload).
func (v CellValue) Text() (string, bool) {
	switch v.Kind {
	case KindText, KindHTML, KindImage:
		return v.text, true
	default:
		return "", false
	}
}

// Logical returns the wrapped bool and true if Kind is Logical.
func (v CellValue) Logical() (bool, bool) {
	if v.Kind != KindLogical {
		return false, false
	}
	return v.logical, true
}

// Date returns the wrapped date and true if Kind is Date.
func (v CellValue) Date() (time.Time, bool) {
	if v.Kind != KindDate {
		return time.Time{}, false
	}
	return v.date, true
}

// Time returns the wrapped time-of-day and true if Kind is Time.
func (v CellValue) Time() (time.Time, bool) {
	if v.Kind != KindTime {
		return time.Time{}, false
	}
	return v.tod, true
}

// DateTime returns the wrapped datetime and true if Kind is DateTime.
func (v CellValue) DateTime() (time.Time, bool) {
	if v.Kind != KindDateTime {
		return time.Time{}, false
	}
	return v.datetime, true
}

// Duration returns the wrapped duration and true if Kind is Duration.
func (v CellValue) Duration() (time.Duration, bool) {
	if v.Kind != KindDuration {
		return 0, false
	}
	return v.duration, true
}

// Code returns the wrapped CodeCellValue and true if Kind is Code.
func (v CellValue) Code() (CodeCellValue, bool) {
	if v.Kind != KindCode {
		return CodeCellValue{}, false
	}
	return v.code, true
}

// Error returns the wrapped RunError and true if Kind is Error.
func (v CellValue) Error() (RunError, bool) {
	if v.Kind != KindError {
		return RunError{}, false
	}
	return v.err, true
}

// Equal reports deep equality between two CellValues of the same kind.
func (v CellValue) Equal(other CellValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBlank:
		return true
	case KindNumber:
		return v.number.Equal(other.number)
	case KindText, KindHTML, KindImage:
		return v.text == other.text
	case KindLogical:
		return v.logical == other.logical
	case KindDate:
		return v.date.Equal(other.date)
	case KindTime:
		return v.tod.Equal(other.tod)
	case KindDateTime:
		return v.datetime.Equal(other.datetime)
	case KindDuration:
		return v.duration == other.duration
	case KindCode:
		return v.code == other.code
	case KindImport:
		return v.imp == other.imp
	case KindError:
		return v.err.Kind == other.err.Kind && v.err.Message == other.err.Message
	default:
		return false
	}
}

// Display renders the value the way it would appear in a cell:
// errors as their sentinel code, numbers without a trailing type tag,
// dates/times in ISO-ish form.
func (v CellValue) Display() string {
	switch v.Kind {
	case KindBlank:
		return ""
	case KindNumber:
		return v.number.String()
	case KindText:
		return v.text
	case KindLogical:
		if v.logical {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		return v.date.Format("2006-01-02")
	case KindTime:
		return v.tod.Format("15:04:05")
	case KindDateTime:
		return v.datetime.Format("2006-01-02 15:04:05")
	case KindDuration:
		return v.duration.String()
	case KindHTML, KindImage:
		return v.text
	case KindCode:
		return fmt.Sprintf("[%s code]", v.code.Language)
	case KindImport:
		return fmt.Sprintf("[import %s]", v.imp.FileName)
	case KindError:
		return v.err.Sentinel()
	default:
		return ""
	}
}

// AsNumberOrZero coerces a value to a decimal the way formula
// arithmetic does: Blank -> 0, Number -> itself, Text -> parsed or
// error, everything else -> error. Matches spec §4.5 "Arithmetic
// coerces Blank->0, Text->number parse".
func (v CellValue) AsNumberOrZero() (decimal.Decimal, error) {
	switch v.Kind {
	case KindBlank:
		return decimal.Zero, nil
	case KindNumber:
		return v.number, nil
	case KindLogical:
		if v.logical {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case KindText:
		d, err := decimal.NewFromString(v.text)
		if err != nil {
			return decimal.Decimal{}, NewRunError(ErrNaN, nil, fmt.Sprintf("cannot parse %q as a number", v.text))
		}
		return d, nil
	default:
		return decimal.Decimal{}, NewRunError(ErrBadOp, nil, fmt.Sprintf("cannot use %s as a number", v.Kind))
	}
}
