// Package core validates content workbooks.
//
// This package is the heart of contentsheet, containing the validation
// pipeline independent of any UI, storage or transport layer. It can be used
// by the CLI, the web server, or tests without modification.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Kinds: a workbook kind (case study, learning topic, survey) lists its
//     sheets in validation order together with each sheet's rules.
//   - Registry: kinds are registered at init time by package kinds.
//   - Validate: the fail-fast pipeline that runs a workbook through a kind.
//   - Errors: the first failure becomes a [ValidationError]; every error
//     maps to a coded user message through [MapError].
//
// # Kind Registry
//
// Kinds are registered at init time using [Register]:
//
//	core.Register(core.Kind{
//	    Info: core.KindInfo{Key: "case-study", Label: "Case Study"},
//	    Sheets: []core.SheetRules{
//	        {Name: "Section", HeaderRow: 1, Columns: []string{"section name", "section id"},
//	            Rows: core.AtLeast(1), IDColumn: "section id", IDPattern: `[1-9]`,
//	            Checks: []core.Check{core.CoveredBy("Section Content")}},
//	    },
//	})
//
// # Validation Pipeline
//
// [Validate] first checks that every sheet of the kind exists, then walks
// the sheets in order. Each sheet runs its columns, row count, required
// values, id format and uniqueness, the kind's common checks and finally the
// sheet's own checks. The first failed [check.Outcome] stops the run.
//
// Column patterns are resolved once per sheet and cached in the
// [SheetContext], which also gives checks access to other sheets of the
// workbook for cross-sheet references.
//
// # Error Handling
//
// Validation failures map by kind; other errors by message pattern. Each
// category has a code for support reference:
//
//   - SCH001, VAL010, REF001, CRD001, DEP001: workbook problems
//   - DB001-DB006: document store errors
//   - FILE001-FILE004: file errors (size, format, missing)
//   - UPL001-UPL005: publish and request errors
//
// # Concurrency
//
// Validate is synchronous and touches only its own workbook, so callers may
// validate several workbooks at once. [UploadLimiter] bounds how many the
// web server checks concurrently. The registry is safe for concurrent reads.
package core
