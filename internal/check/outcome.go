// Package check contains the predicates and cross-sheet reference checks
// used to validate workbook tables.
//
// Every check is a pure function over one or two tables that returns an
// [Outcome]. Checks never panic on bad data and never stop a run on their
// own; deciding whether a failed Outcome aborts validation belongs to the
// caller. Messages name the column and, for row-scoped failures, the 1-based
// data row, so that a caller only has to add the sheet name.
package check

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// Kind classifies a failed check.
type Kind string

const (
	Schema      Kind = "schema"      // sheet or column missing, ambiguous column pattern
	Value       Kind = "value"       // cell fails a pattern, enum or range, or an id cannot be parsed
	Referential Kind = "referential" // parent missing or parent without children
	Cardinality Kind = "cardinality" // row count or uniqueness
	Dependency  Kind = "dependency"  // conditional column pair
)

// Outcome is the result of one check.
type Outcome struct {
	Valid   bool
	Kind    Kind
	Message string
}

// Pass returns a successful outcome.
func Pass(format string, args ...any) Outcome {
	return Outcome{Valid: true, Message: fmt.Sprintf(format, args...)}
}

// Fail returns a failed outcome of the given kind.
func Fail(kind Kind, format string, args ...any) Outcome {
	return Outcome{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ColumnFailure turns a column resolution error into a schema outcome.
func ColumnFailure(err error) Outcome {
	var colErr *sheet.ColumnError
	if errors.As(err, &colErr) && errors.Is(err, sheet.ErrAmbiguousColumn) {
		return Fail(Schema, "expected one column matching %q, found %d: %q",
			colErr.Pattern, len(colErr.Matches), colErr.Matches)
	}
	if colErr != nil {
		return Fail(Schema, "no column matches %q", colErr.Pattern)
	}
	return Fail(Schema, "%v", err)
}

var valuePatterns sync.Map

// compiled returns a case-sensitive regexp for value checks. Column name
// patterns go through sheet.Pattern instead, which ignores case.
func compiled(pattern string) *regexp.Regexp {
	if re, ok := valuePatterns.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(pattern)
	valuePatterns.Store(pattern, re)
	return re
}
