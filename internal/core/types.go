// Package core validates content workbooks against registered workbook kinds.
// This package has no UI or storage dependencies and can be used by any frontend.
package core

import (
	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// RequiredMarker is the default header pattern for required columns.
const RequiredMarker = `^\*`

// RowPolicy is a sheet's row-count rule.
type RowPolicy struct {
	Exact int // exact number of rows, when > 0
	Min   int // minimum number of rows, when Exact is 0
}

// Exactly returns a policy requiring n rows.
func Exactly(n int) RowPolicy { return RowPolicy{Exact: n} }

// AtLeast returns a policy requiring at least n rows.
func AtLeast(n int) RowPolicy { return RowPolicy{Min: n} }

// Check is one named rule run against a sheet.
type Check struct {
	Name string
	Run  func(sc *SheetContext) check.Outcome
}

// RowCheck replaces the default row policy when a sheet's row count depends
// on other sheets.
type RowCheck func(sc *SheetContext) check.Outcome

// SheetRules describes how to read and validate one sheet.
type SheetRules struct {
	Name      string
	HeaderRow int      // 0-based header row; rows above it are instructions
	Columns   []string // column patterns that must match at least one column

	Rows     RowPolicy
	RowCheck RowCheck // optional, overrides Rows

	RequiredPattern string // header pattern of required columns; RequiredMarker when empty
	FirstRowOnly    bool   // only row 1 must fill required columns

	IDColumn  string // pattern of the id column; empty when the sheet has no ids
	IDPattern string // value pattern of ids; empty skips the format check

	Checks []Check
}

// KindInfo contains display information about a workbook kind.
type KindInfo struct {
	Key         string // "case-study"
	Label       string // "Case Study"
	Description string
	ConfigType  string // docType of the kind's single config document
}

// Kind is a registered workbook kind: the sheets it contains, the rules
// applied to them, and the checks shared by all of its sheets.
type Kind struct {
	Info   KindInfo
	Sheets []SheetRules

	// Common checks run on every sheet after the sheet's id checks.
	Common []Check
}

// ReadOptions returns the header-row offsets for reading this kind's sheets.
func (k Kind) ReadOptions() sheet.ReadOptions {
	opts := sheet.ReadOptions{HeaderRows: make(map[string]int, len(k.Sheets))}
	for _, s := range k.Sheets {
		opts.HeaderRows[s.Name] = s.HeaderRow
	}
	return opts
}

// SheetNames returns the kind's sheet names in validation order.
func (k Kind) SheetNames() []string {
	names := make([]string, len(k.Sheets))
	for i, s := range k.Sheets {
		names[i] = s.Name
	}
	return names
}

// Rules returns the rules of the named sheet.
func (k Kind) Rules(name string) (SheetRules, bool) {
	for _, s := range k.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return SheetRules{}, false
}
