package sheet

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// Column resolution errors. Use errors.Is to tell them apart.
var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrAmbiguousColumn = errors.New("ambiguous column")
)

// ColumnError reports a pattern that did not identify exactly one column.
type ColumnError struct {
	Table   string
	Pattern string
	Matches []string
	Err     error
}

func (e *ColumnError) Error() string {
	if errors.Is(e.Err, ErrAmbiguousColumn) {
		return fmt.Sprintf("%s: pattern %q matches %d columns %q",
			e.Err, e.Pattern, len(e.Matches), e.Matches)
	}
	return fmt.Sprintf("%s: no column matches pattern %q", e.Err, e.Pattern)
}

func (e *ColumnError) Unwrap() error { return e.Err }

var patternCache sync.Map // pattern -> *regexp.Regexp

// Pattern compiles a case-insensitive pattern, caching the result. A pattern
// that does not compile is a programming error and panics.
func Pattern(pattern string) *regexp.Regexp {
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile("(?i)" + pattern)
	patternCache.Store(pattern, re)
	return re
}

// Resolve returns the single column whose name contains a match for
// pattern, compared case-insensitively.
func Resolve(t *Table, pattern string) (string, error) {
	matches := ResolveAll(t, pattern)
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", &ColumnError{Table: t.Name(), Pattern: pattern, Err: ErrColumnNotFound}
	default:
		return "", &ColumnError{Table: t.Name(), Pattern: pattern, Matches: matches, Err: ErrAmbiguousColumn}
	}
}

// ResolveAll returns every column whose name matches pattern, in header
// order. It returns nil when nothing matches.
func ResolveAll(t *Table, pattern string) []string {
	re := Pattern(pattern)
	var matches []string
	for _, c := range t.columns {
		if re.MatchString(c) {
			matches = append(matches, c)
		}
	}
	return matches
}
