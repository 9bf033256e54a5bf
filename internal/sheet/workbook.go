package sheet

// Workbook maps sheet names to tables. It is built once per run and not
// modified afterwards.
type Workbook struct {
	name   string
	order  []string
	sheets map[string]*Table
}

// NewWorkbook assembles a workbook from tables, keyed by table name. A later
// table with the same name replaces an earlier one.
func NewWorkbook(name string, tables ...*Table) *Workbook {
	wb := &Workbook{name: name, sheets: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if _, seen := wb.sheets[t.Name()]; !seen {
			wb.order = append(wb.order, t.Name())
		}
		wb.sheets[t.Name()] = t
	}
	return wb
}

// Name returns the workbook's source name, usually the file name.
func (w *Workbook) Name() string { return w.name }

// Sheet returns the table for a sheet name.
func (w *Workbook) Sheet(name string) (*Table, bool) {
	t, ok := w.sheets[name]
	return t, ok
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.order...)
}
