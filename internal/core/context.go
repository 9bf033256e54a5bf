package core

import (
	"fmt"

	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// SheetContext is the state of one sheet's validation: its table and rules,
// the rest of the workbook, and the columns resolved so far. Column
// patterns are resolved once per sheet and reused by every check.
type SheetContext struct {
	kind     *Kind
	workbook *sheet.Workbook
	rules    SheetRules
	table    *sheet.Table
	columns  map[string]string
	shared   map[string]*SheetContext
}

func newSheetContext(kind *Kind, wb *sheet.Workbook, rules SheetRules, shared map[string]*SheetContext) (*SheetContext, error) {
	if sc, ok := shared[rules.Name]; ok {
		return sc, nil
	}
	tbl, ok := wb.Sheet(rules.Name)
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", rules.Name)
	}
	sc := &SheetContext{
		kind:     kind,
		workbook: wb,
		rules:    rules,
		table:    tbl,
		columns:  make(map[string]string),
		shared:   shared,
	}
	shared[rules.Name] = sc
	return sc, nil
}

// Table returns the sheet's table.
func (sc *SheetContext) Table() *sheet.Table { return sc.table }

// Rules returns the sheet's rules.
func (sc *SheetContext) Rules() SheetRules { return sc.rules }

// Column resolves pattern to the single matching column of this sheet.
func (sc *SheetContext) Column(pattern string) (string, error) {
	if name, ok := sc.columns[pattern]; ok {
		return name, nil
	}
	name, err := sheet.Resolve(sc.table, pattern)
	if err != nil {
		return "", err
	}
	sc.columns[pattern] = name
	return name, nil
}

// IDColumn resolves the sheet's id column.
func (sc *SheetContext) IDColumn() (string, error) {
	if sc.rules.IDColumn == "" {
		return "", fmt.Errorf("sheet %q has no id column", sc.rules.Name)
	}
	return sc.Column(sc.rules.IDColumn)
}

// Sheet returns the context of another sheet of the same kind.
func (sc *SheetContext) Sheet(name string) (*SheetContext, error) {
	rules, ok := sc.kind.Rules(name)
	if !ok {
		return nil, fmt.Errorf("sheet %q is not part of %s", name, sc.kind.Info.Key)
	}
	return newSheetContext(sc.kind, sc.workbook, rules, sc.shared)
}
