package sheet

// Table is one sheet of a workbook: ordered column names and ordered rows of
// cells. Rows are addressed by their 0-based position; messages shown to
// users report position+1.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// NewTable builds a table. Rows shorter than the header are padded with
// empty cells on read; extra cells are ignored.
func NewTable(name string, columns []string, rows ...[]Cell) *Table {
	t := &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    rows,
	}
	for i, c := range t.columns {
		// Exact lookups resolve to the first column carrying a name.
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	return t
}

// Values converts Go values into a row of cells using CellOf.
func Values(vals ...any) []Cell {
	row := make([]Cell, len(vals))
	for i, v := range vals {
		row[i] = CellOf(v)
	}
	return row
}

// Name returns the sheet name the table was read from.
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column names in header order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether a column with exactly this name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the cell at row i in the named column. Unknown columns and
// out-of-range positions yield an empty cell.
func (t *Table) Cell(i int, column string) Cell {
	pos, ok := t.index[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return Cell{}
	}
	row := t.rows[i]
	if pos >= len(row) {
		return Cell{}
	}
	return row[pos]
}

// Column returns every cell of the named column in row order.
func (t *Table) Column(name string) []Cell {
	out := make([]Cell, len(t.rows))
	for i := range t.rows {
		out[i] = t.Cell(i, name)
	}
	return out
}

// RowEmpty reports whether every cell of row i is empty.
func (t *Table) RowEmpty(i int) bool {
	if i < 0 || i >= len(t.rows) {
		return true
	}
	for _, c := range t.rows[i] {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Filter returns a new table with the same columns holding only the rows
// for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	var rows [][]Cell
	for i, r := range t.rows {
		if keep(i) {
			rows = append(rows, r)
		}
	}
	return NewTable(t.name, t.columns, rows...)
}
