package core

// validation.go runs a workbook through its kind's rules.
//
// Each sheet is checked in order:
//  1. Column patterns exist
//  2. Row-count policy
//  3. Required columns have values
//  4. Ids match the sheet's id pattern and are unique
//  5. Checks common to every sheet of the kind
//  6. The sheet's own checks
//
// Checks only report; Validate alone turns the first failed outcome into an
// error and stops.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/logging"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// ValidationError is the first failed check of a workbook.
type ValidationError struct {
	Kind    check.Kind // failure category
	Sheet   string     // empty for workbook-level failures
	Check   string     // name of the failed step
	Message string
}

func (e *ValidationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error in sheet %q: %s", e.Kind, e.Sheet, e.Message)
}

// AsValidationError reports whether err is or wraps a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validate checks wb against kind and returns nil when the workbook can be
// converted, or a *ValidationError describing the first failure.
func Validate(ctx context.Context, kind Kind, wb *sheet.Workbook) error {
	log := logging.WithFields(ctx, "kind", kind.Info.Key, "workbook", wb.Name())
	start := time.Now()

	if o := check.HasSheets(wb, kind.SheetNames()); !o.Valid {
		return &ValidationError{Kind: o.Kind, Check: "expected sheets", Message: o.Message}
	}

	shared := make(map[string]*SheetContext, len(kind.Sheets))
	for _, rules := range kind.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		sc, err := newSheetContext(&kind, wb, rules, shared)
		if err != nil {
			return err
		}
		log.Info("inspecting sheet", "sheet", rules.Name, "rows", sc.table.Len())

		for _, step := range sheetSteps(sc) {
			o := step.Run(sc)
			if !o.Valid {
				log.Info("validation failed", "sheet", rules.Name, "check", step.Name, "error_kind", o.Kind)
				return &ValidationError{Kind: o.Kind, Sheet: rules.Name, Check: step.Name, Message: o.Message}
			}
			log.Debug("check passed", "sheet", rules.Name, "check", step.Name, "result", o.Message)
		}
	}

	log.Info("workbook is valid", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// sheetSteps lists the steps for one sheet in execution order.
func sheetSteps(sc *SheetContext) []Check {
	rules := sc.rules
	steps := []Check{
		{Name: "expected columns", Run: func(sc *SheetContext) check.Outcome {
			return check.HasColumnsMatching(sc.table, rules.Columns)
		}},
		{Name: "row count", Run: checkRows},
		{Name: "required values", Run: func(sc *SheetContext) check.Outcome {
			pattern := rules.RequiredPattern
			if pattern == "" {
				pattern = RequiredMarker
			}
			return check.RequiredCellsNonEmpty(sc.table, pattern, rules.FirstRowOnly)
		}},
	}
	if rules.IDColumn != "" && rules.IDPattern != "" {
		steps = append(steps, Check{Name: "id format", Run: func(sc *SheetContext) check.Outcome {
			col, err := sc.IDColumn()
			if err != nil {
				return check.ColumnFailure(err)
			}
			return check.ValuesMatchPattern(sc.table, col, rules.IDPattern, false)
		}})
	}
	if rules.IDColumn != "" {
		steps = append(steps, Check{Name: "id uniqueness", Run: func(sc *SheetContext) check.Outcome {
			col, err := sc.IDColumn()
			if err != nil {
				return check.ColumnFailure(err)
			}
			return check.ValuesUnique(sc.table, col)
		}})
	}
	steps = append(steps, sc.kind.Common...)
	return append(steps, rules.Checks...)
}

func checkRows(sc *SheetContext) check.Outcome {
	if sc.rules.RowCheck != nil {
		return sc.rules.RowCheck(sc)
	}
	p := sc.rules.Rows
	if p.Exact > 0 {
		return check.ExactRows(sc.table, p.Exact)
	}
	return check.MinRows(sc.table, p.Min)
}
