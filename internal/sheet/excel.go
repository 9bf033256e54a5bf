package sheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadOptions controls how sheets are turned into tables.
type ReadOptions struct {
	// HeaderRows maps a sheet name to the 0-based row holding its column
	// names. Sheets not listed use row 0. List sheets in the content
	// templates carry an instruction row above the header, so they use 1.
	HeaderRows map[string]int
}

func (o ReadOptions) headerRow(sheet string) int {
	if o.HeaderRows == nil {
		return 0
	}
	return o.HeaderRows[sheet]
}

// Open reads an .xlsx file from disk.
func Open(path string, opts ReadOptions) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	return load(f, filepath.Base(path), opts)
}

// Read reads an .xlsx workbook from r. name is used in messages only.
func Read(r io.Reader, name string, opts ReadOptions) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	return load(f, name, opts)
}

func load(f *excelize.File, name string, opts ReadOptions) (*Workbook, error) {
	var tables []*Table
	for _, sheetName := range f.GetSheetList() {
		t, err := readTable(f, sheetName, opts.headerRow(sheetName))
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
		tables = append(tables, t)
	}
	return NewWorkbook(name, tables...), nil
}

// readTable converts one worksheet. Columns with a blank header are dropped
// and rows whose kept cells are all empty are skipped.
func readTable(f *excelize.File, sheetName string, headerRow int) (*Table, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if headerRow >= len(rows) {
		return NewTable(sheetName, nil), nil
	}

	var (
		columns   []string
		positions []int
	)
	for pos, h := range rows[headerRow] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		columns = append(columns, h)
		positions = append(positions, pos)
	}

	var data [][]Cell
	for r := headerRow + 1; r < len(rows); r++ {
		raw := rows[r]
		cells := make([]Cell, len(positions))
		blank := true
		for i, pos := range positions {
			if pos >= len(raw) {
				continue
			}
			c, err := typedCell(f, sheetName, pos, r, raw[pos])
			if err != nil {
				return nil, err
			}
			cells[i] = c
			if !c.IsEmpty() {
				blank = false
			}
		}
		if !blank {
			data = append(data, cells)
		}
	}

	return NewTable(sheetName, columns, data...), nil
}

// typedCell uses the stored cell type to decide between text, number and
// boolean. Text cells stay text even when they look numeric ("05").
func typedCell(f *excelize.File, sheetName string, col, row int, raw string) (Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return Cell{}, nil
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, err
	}
	typ, err := f.GetCellType(sheetName, ref)
	if err != nil {
		return Cell{}, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return BoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return NumberCell(n), nil
		}
		return StringCell(raw), nil
	default:
		return StringCell(raw), nil
	}
}
