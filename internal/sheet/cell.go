// Package sheet holds the in-memory model of a spreadsheet workbook: typed
// cells, tables of named columns, and the workbook that maps sheet names to
// tables. It also resolves columns by name pattern and reads .xlsx files.
package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind identifies which variant a Cell holds.
type CellKind int

const (
	Empty CellKind = iota
	String
	Number
	Boolean
)

func (k CellKind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	default:
		return "empty"
	}
}

// Cell is a single spreadsheet value. The zero value is an empty cell.
type Cell struct {
	kind CellKind
	text string
	num  float64
	flag bool
}

// StringCell returns a string cell. Surrounding whitespace is trimmed and a
// blank string yields an empty cell.
func StringCell(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cell{}
	}
	return Cell{kind: String, text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{kind: Number, num: f}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell {
	return Cell{kind: Boolean, flag: b}
}

// CellOf converts a Go value into a Cell. Supported inputs are nil, string,
// bool, the integer types, float32/float64 and Cell itself; anything else is
// formatted as a string.
func CellOf(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{}
	case Cell:
		return x
	case string:
		return StringCell(x)
	case bool:
		return BoolCell(x)
	case int:
		return NumberCell(float64(x))
	case int64:
		return NumberCell(float64(x))
	case int32:
		return NumberCell(float64(x))
	case float64:
		return NumberCell(x)
	case float32:
		return NumberCell(float64(x))
	default:
		return StringCell(fmt.Sprint(x))
	}
}

// Kind reports the variant held by c.
func (c Cell) Kind() CellKind { return c.kind }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.kind == Empty }

// String returns the canonical text form of the cell. Whole numbers print
// without a fractional part, so a section id typed as 5 reads "5".
func (c Cell) String() string {
	switch c.kind {
	case String:
		return c.text
	case Number:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case Boolean:
		return strconv.FormatBool(c.flag)
	default:
		return ""
	}
}

// Float returns the numeric value of the cell. String cells holding a
// number are converted.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case Number:
		return c.num, true
	case String:
		f, err := strconv.ParseFloat(c.text, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int returns the value as an integer when the cell holds a whole number.
func (c Cell) Int() (int, bool) {
	f, ok := c.Float()
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Truthy interprets the cell as a yes/no flag. Booleans are used as is,
// numbers are true when non-zero and strings accept true/yes/y/1.
func (c Cell) Truthy() bool {
	switch c.kind {
	case Boolean:
		return c.flag
	case Number:
		return c.num != 0
	case String:
		switch strings.ToLower(c.text) {
		case "true", "yes", "y", "1":
			return true
		}
	}
	return false
}
