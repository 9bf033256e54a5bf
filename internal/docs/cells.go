package docs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/schema"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// rows reads cells of one sheet by column pattern. The first column that
// cannot be resolved is kept in err and later reads return empty cells,
// so builders check err once per sheet.
type rows struct {
	t   *sheet.Table
	err error
}

func sheetRows(wb *sheet.Workbook, name string) (*rows, error) {
	t, ok := wb.Sheet(name)
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return &rows{t: t}, nil
}

func (r *rows) len() int { return r.t.Len() }

func (r *rows) cell(i int, pattern string) sheet.Cell {
	col, err := sheet.Resolve(r.t, pattern)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("sheet %q: %w", r.t.Name(), err)
		}
		return sheet.Cell{}
	}
	return r.t.Cell(i, col)
}

// optional reads a column the template does not require; a missing column
// reads as empty.
func (r *rows) optional(i int, pattern string) sheet.Cell {
	cols := sheet.ResolveAll(r.t, pattern)
	if len(cols) != 1 {
		return sheet.Cell{}
	}
	return r.t.Cell(i, cols[0])
}

func (r *rows) text(i int, pattern string) string {
	return strings.TrimSpace(r.cell(i, pattern).String())
}

func (r *rows) nullable(i int, pattern string) *string {
	return nullable(r.cell(i, pattern))
}

func nullable(c sheet.Cell) *string {
	if c.IsEmpty() {
		return nil
	}
	s := c.String()
	return &s
}

func level(c sheet.Cell) *int {
	n, ok := c.Int()
	if !ok {
		return nil
	}
	return &n
}

func tags(c sheet.Cell) []string {
	if c.IsEmpty() {
		return nil
	}
	return check.SplitItems(c.String(), schema.ListSeparator)
}

// padSection zero pads a section reference to two digits: "3" becomes
// "03", "12" stays "12".
func padSection(ref string) string {
	n, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// padExercise gives exercise references of sections below 10 a leading
// zero: "1.2" becomes "01.2".
func padExercise(ref string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(ref), 64)
	if err != nil || f >= 10 {
		return ref
	}
	return "0" + strconv.FormatFloat(f, 'f', -1, 64)
}

// materialIndex maps spreadsheet ids of learning materials to document ids.
type materialIndex map[string]string

// lookup resolves a comma separated list cell into document ids.
func (m materialIndex) lookup(c sheet.Cell) ([]string, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	items := check.SplitItems(c.String(), schema.ListSeparator)
	ids := make([]string, 0, len(items))
	for _, ref := range items {
		id, ok := m[ref]
		if !ok {
			return nil, fmt.Errorf("learning material %q not found", ref)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// first resolves a list cell and returns its first document id.
func (m materialIndex) first(c sheet.Cell) (*string, error) {
	ids, err := m.lookup(c)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return &ids[0], nil
}
