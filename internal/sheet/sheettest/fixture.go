// Package sheettest builds workbooks for tests: small valid case study,
// learning topic and survey workbooks that tests modify one cell at a time,
// in memory or written to an .xlsx file.
package sheettest

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// Fixture is an editable workbook.
type Fixture struct {
	name   string
	order  []string
	sheets map[string]*fixtureSheet
}

type fixtureSheet struct {
	columns []string
	rows    [][]any
}

// New returns an empty fixture.
func New(name string) *Fixture {
	return &Fixture{name: name, sheets: make(map[string]*fixtureSheet)}
}

// AddSheet adds a sheet with the given header and rows.
func (f *Fixture) AddSheet(name string, columns []string, rows ...[]any) *Fixture {
	if _, ok := f.sheets[name]; !ok {
		f.order = append(f.order, name)
	}
	f.sheets[name] = &fixtureSheet{columns: columns, rows: rows}
	return f
}

// RemoveSheet drops a sheet.
func (f *Fixture) RemoveSheet(name string) *Fixture {
	delete(f.sheets, name)
	f.order = slices.DeleteFunc(f.order, func(s string) bool { return s == name })
	return f
}

// AddRow appends a row to a sheet.
func (f *Fixture) AddRow(sheetName string, values ...any) *Fixture {
	s := f.mustSheet(sheetName)
	s.rows = append(s.rows, values)
	return f
}

// ClearRows removes every data row of a sheet, keeping its header.
func (f *Fixture) ClearRows(sheetName string) *Fixture {
	f.mustSheet(sheetName).rows = nil
	return f
}

// Set replaces one cell, addressed by 0-based data row and exact column
// name. It panics on an unknown sheet, row or column.
func (f *Fixture) Set(sheetName string, row int, column string, v any) *Fixture {
	s := f.mustSheet(sheetName)
	pos := slices.Index(s.columns, column)
	if pos < 0 {
		panic(fmt.Sprintf("sheettest: sheet %q has no column %q", sheetName, column))
	}
	if row < 0 || row >= len(s.rows) {
		panic(fmt.Sprintf("sheettest: sheet %q has no row %d", sheetName, row))
	}
	for len(s.rows[row]) <= pos {
		s.rows[row] = append(s.rows[row], nil)
	}
	s.rows[row][pos] = v
	return f
}

func (f *Fixture) mustSheet(name string) *fixtureSheet {
	s, ok := f.sheets[name]
	if !ok {
		panic(fmt.Sprintf("sheettest: no sheet %q", name))
	}
	return s
}

// Workbook converts the fixture into an in-memory workbook. Fully empty
// rows are dropped, as the .xlsx reader does.
func (f *Fixture) Workbook() *sheet.Workbook {
	tables := make([]*sheet.Table, 0, len(f.order))
	for _, name := range f.order {
		s := f.sheets[name]
		var rows [][]sheet.Cell
		for _, r := range s.rows {
			cells := sheet.Values(r...)
			if !blank(cells) {
				rows = append(rows, cells)
			}
		}
		tables = append(tables, sheet.NewTable(name, s.columns, rows...))
	}
	return sheet.NewWorkbook(f.name, tables...)
}

func blank(cells []sheet.Cell) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// WriteXLSX saves the fixture as an .xlsx file in dir. Sheets listed in
// headerRows get that many instruction rows above their header.
func (f *Fixture) WriteXLSX(dir string, headerRows map[string]int) (string, error) {
	x := excelize.NewFile()
	defer x.Close()

	for i, name := range f.order {
		if i == 0 {
			if err := x.SetSheetName("Sheet1", name); err != nil {
				return "", err
			}
		} else if _, err := x.NewSheet(name); err != nil {
			return "", err
		}

		s := f.sheets[name]
		offset := headerRows[name]
		for r := 0; r < offset; r++ {
			if err := x.SetCellValue(name, cellName(1, r+1), "Instructions: fill in one row per item"); err != nil {
				return "", err
			}
		}
		header := make([]any, len(s.columns))
		for j, c := range s.columns {
			header[j] = c
		}
		if err := x.SetSheetRow(name, cellName(1, offset+1), &header); err != nil {
			return "", err
		}
		for r, row := range s.rows {
			values := append([]any(nil), row...)
			if err := x.SetSheetRow(name, cellName(1, offset+2+r), &values); err != nil {
				return "", err
			}
		}
	}

	path := filepath.Join(dir, f.name)
	if err := x.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(err)
	}
	return name
}
