package core

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// Building blocks for sheet rules. Each returns a Check that resolves its
// column patterns through the SheetContext and reports a schema failure
// when a pattern does not identify exactly one column.

// ChildOf requires every id of the sheet to contain the id of an existing
// row in parent.
func ChildOf(parent string) Check {
	return Check{
		Name: "parent exists in " + parent,
		Run: func(sc *SheetContext) check.Outcome {
			p, err := sc.Sheet(parent)
			if err != nil {
				return check.Fail(check.Schema, "%v", err)
			}
			childCol, err := sc.IDColumn()
			if err != nil {
				return check.ColumnFailure(err)
			}
			parentCol, err := p.IDColumn()
			if err != nil {
				return check.ColumnFailure(err)
			}
			return check.ChildRefsValidParent(sc.Table(), childCol, p.Rules().IDPattern, p.Table(), parentCol)
		},
	}
}

// CoveredBy requires every id of the sheet to be the parent part of at
// least one id in child.
func CoveredBy(child string) Check {
	return Check{
		Name: "ids referred in " + child,
		Run: func(sc *SheetContext) check.Outcome {
			c, err := sc.Sheet(child)
			if err != nil {
				return check.Fail(check.Schema, "%v", err)
			}
			parentCol, err := sc.IDColumn()
			if err != nil {
				return check.ColumnFailure(err)
			}
			childCol, err := c.IDColumn()
			if err != nil {
				return check.ColumnFailure(err)
			}
			return check.ParentCoveredByChildren(sc.Table(), parentCol, sc.Rules().IDPattern, c.Table(), childCol)
		},
	}
}

// ValuesIn requires the values of every column matching columnPattern to
// match valuePattern in full.
func ValuesIn(name, columnPattern, valuePattern string, allowEmpty bool) Check {
	return Check{
		Name: name,
		Run: func(sc *SheetContext) check.Outcome {
			return check.ColumnsMatchingValues(sc.Table(), columnPattern, valuePattern, allowEmpty)
		},
	}
}

// Depends requires the dependent column to have a value exactly when the
// independent column holds one of triggers.
func Depends(independent, dependent string, triggers ...string) Check {
	return Check{
		Name: fmt.Sprintf("%s depends on %s", dependent, independent),
		Run: func(sc *SheetContext) check.Outcome {
			ind, err := sc.Column(independent)
			if err != nil {
				return check.ColumnFailure(err)
			}
			dep, err := sc.Column(dependent)
			if err != nil {
				return check.ColumnFailure(err)
			}
			return check.DependentColumnHasValue(sc.Table(), ind, dep, triggers)
		},
	}
}

// FilledWhen requires column to have a value on every row where cond has
// one.
func FilledWhen(cond, column string) Check {
	return Check{
		Name: fmt.Sprintf("%s required with %s", column, cond),
		Run: func(sc *SheetContext) check.Outcome {
			c, err := sc.Column(cond)
			if err != nil {
				return check.ColumnFailure(err)
			}
			col, err := sc.Column(column)
			if err != nil {
				return check.ColumnFailure(err)
			}
			t := sc.Table()
			return check.RequiredWhen(t, col, func(i int) bool { return !t.Cell(i, c).IsEmpty() },
				fmt.Sprintf("column %q has a value", c))
		},
	}
}

// AtMostOneColumn fails when more than one column matches pattern.
func AtMostOneColumn(pattern string) Check {
	return Check{
		Name: "single " + pattern + " column",
		Run: func(sc *SheetContext) check.Outcome {
			if _, err := sc.Column(pattern); errors.Is(err, sheet.ErrAmbiguousColumn) {
				return check.ColumnFailure(err)
			}
			return check.Pass("at most one column matches %q", pattern)
		},
	}
}
