package check

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// HasSheets checks that every named sheet exists in the workbook.
func HasSheets(wb *sheet.Workbook, names []string) Outcome {
	for _, name := range names {
		if _, ok := wb.Sheet(name); !ok {
			return Fail(Schema, "the workbook has no sheet named %q; expected sheets are %q", name, names)
		}
	}
	return Pass("the workbook has all expected sheets")
}

// HasColumnsMatching checks that each pattern matches at least one column.
// It stops at the first pattern without a match.
func HasColumnsMatching(t *sheet.Table, patterns []string) Outcome {
	for _, p := range patterns {
		if len(sheet.ResolveAll(t, p)) == 0 {
			return Fail(Schema, "no column matches %q", p)
		}
	}
	return Pass("all expected columns are present")
}

// ExactRows checks that the table has exactly n data rows.
func ExactRows(t *sheet.Table, n int) Outcome {
	if t.Len() != n {
		return Fail(Cardinality, "expected %d row(s), found %d", n, t.Len())
	}
	return Pass("it has %d row(s)", n)
}

// MinRows checks that the table has at least n data rows.
func MinRows(t *sheet.Table, n int) Outcome {
	if t.Len() < n {
		return Fail(Cardinality, "expected at least %d row(s), found %d", n, t.Len())
	}
	return Pass("it has %d row(s)", t.Len())
}

// RowsWithValue counts rows holding a value in any column matching
// columnPattern.
func RowsWithValue(t *sheet.Table, columnPattern string) int {
	cols := sheet.ResolveAll(t, columnPattern)
	n := 0
	for i := 0; i < t.Len(); i++ {
		for _, c := range cols {
			if !t.Cell(i, c).IsEmpty() {
				n++
				break
			}
		}
	}
	return n
}

// RequiredCellsNonEmpty checks every column matching pattern for empty
// cells. With firstRowOnly only row 1 is inspected, which suits singleton
// sheets whose later rows hold comments.
func RequiredCellsNonEmpty(t *sheet.Table, pattern string, firstRowOnly bool) Outcome {
	rows := t.Len()
	if firstRowOnly && rows > 1 {
		rows = 1
	}
	for _, col := range sheet.ResolveAll(t, pattern) {
		for i := 0; i < rows; i++ {
			if t.Cell(i, col).IsEmpty() {
				return Fail(Value, "row %d: required column %q is empty", i+1, col)
			}
		}
	}
	return Pass("required columns have values")
}

// ValuesMatchPattern checks that every cell of column fully matches
// pattern. Partial matches are rejected. Empty cells fail unless allowEmpty.
func ValuesMatchPattern(t *sheet.Table, column, pattern string, allowEmpty bool) Outcome {
	re := compiled(`^(?:` + pattern + `)$`)
	for i := 0; i < t.Len(); i++ {
		c := t.Cell(i, column)
		if c.IsEmpty() {
			if allowEmpty {
				continue
			}
			return Fail(Value, "row %d: column %q is empty", i+1, column)
		}
		if !re.MatchString(c.String()) {
			return Fail(Value, "row %d: %q in column %q does not match %s", i+1, c.String(), column, pattern)
		}
	}
	return Pass("values in column %q match %s", column, pattern)
}

// ColumnsMatchingValues applies ValuesMatchPattern to every column whose
// name matches columnPattern. No matching column is not an error.
func ColumnsMatchingValues(t *sheet.Table, columnPattern, valuePattern string, allowEmpty bool) Outcome {
	for _, col := range sheet.ResolveAll(t, columnPattern) {
		if o := ValuesMatchPattern(t, col, valuePattern, allowEmpty); !o.Valid {
			return o
		}
	}
	return Pass("columns matching %q hold valid values", columnPattern)
}

// ValuesUnique checks that no value appears in two rows of column. Empty
// cells are not values and are ignored.
func ValuesUnique(t *sheet.Table, column string) Outcome {
	seen := make(map[string]int, t.Len())
	for i := 0; i < t.Len(); i++ {
		c := t.Cell(i, column)
		if c.IsEmpty() {
			continue
		}
		v := c.String()
		if first, dup := seen[v]; dup {
			return Fail(Cardinality, "row %d: %q in column %q duplicates row %d", i+1, v, column, first)
		}
		seen[v] = i + 1
	}
	return Pass("values in column %q are unique", column)
}

// SplitItems splits a list cell on sep and trims each item. Blank items are
// dropped.
func SplitItems(s, sep string) []string {
	var items []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ListCellItemsUnique checks that a list cell does not repeat an item.
// Repeats across different cells are allowed.
func ListCellItemsUnique(t *sheet.Table, columns []string, sep string) Outcome {
	for _, col := range columns {
		for i := 0; i < t.Len(); i++ {
			c := t.Cell(i, col)
			if c.IsEmpty() || !strings.Contains(c.String(), sep) {
				continue
			}
			items := SplitItems(c.String(), sep)
			seen := make(map[string]bool, len(items))
			for _, item := range items {
				if seen[item] {
					return Fail(Cardinality, "row %d: %q is listed more than once in column %q", i+1, item, col)
				}
				seen[item] = true
			}
		}
	}
	return Pass("list cells have unique items")
}

// CellItemsExistIn checks that every item of every non-empty cell in
// columns appears among the values of otherColumn in other.
func CellItemsExistIn(t *sheet.Table, columns []string, sep string, other *sheet.Table, otherColumn string) Outcome {
	known := make(map[string]bool, other.Len())
	for _, c := range other.Column(otherColumn) {
		if !c.IsEmpty() {
			known[c.String()] = true
		}
	}

	for _, col := range columns {
		for i := 0; i < t.Len(); i++ {
			c := t.Cell(i, col)
			if c.IsEmpty() {
				continue
			}
			for _, item := range SplitItems(c.String(), sep) {
				if !known[item] {
					return Fail(Referential, "row %d: %q in column %q does not exist in %q column %q",
						i+1, item, col, other.Name(), otherColumn)
				}
			}
		}
	}
	return Pass("referenced items exist in %q", other.Name())
}

// DependentColumnHasValue enforces, for every row, that the dependent cell
// has a value exactly when the independent cell holds one of triggers.
func DependentColumnHasValue(t *sheet.Table, independent, dependent string, triggers []string) Outcome {
	for i := 0; i < t.Len(); i++ {
		trigger := t.Cell(i, independent)
		triggered := !trigger.IsEmpty() && slices.Contains(triggers, trigger.String())
		filled := !t.Cell(i, dependent).IsEmpty()

		switch {
		case triggered && !filled:
			return Fail(Dependency, "row %d: column %q is %q, so column %q must have a value",
				i+1, independent, trigger.String(), dependent)
		case !triggered && filled:
			return Fail(Dependency, "row %d: column %q must be empty unless column %q is one of %q",
				i+1, dependent, independent, triggers)
		}
	}
	return Pass("column %q has a value exactly when column %q is one of %q", dependent, independent, triggers)
}

// RequiredWhen checks the one-way rule "when cond holds for a row, column
// must have a value". condition describes cond in failure messages.
func RequiredWhen(t *sheet.Table, column string, cond func(row int) bool, condition string) Outcome {
	for i := 0; i < t.Len(); i++ {
		if cond(i) && t.Cell(i, column).IsEmpty() {
			return Fail(Dependency, "row %d: column %q must have a value when %s", i+1, column, condition)
		}
	}
	return Pass("column %q has a value when %s", column, condition)
}

// ValueRequiredWhen is RequiredWhen for the common case where the
// condition is "column condColumn holds one of triggers".
func ValueRequiredWhen(t *sheet.Table, condColumn string, triggers []string, column string) Outcome {
	return RequiredWhen(t, column, func(i int) bool {
		c := t.Cell(i, condColumn)
		return !c.IsEmpty() && slices.Contains(triggers, c.String())
	}, fmt.Sprintf("column %q is one of %q", condColumn, triggers))
}
