package check

import (
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

func TestHasSheets(t *testing.T) {
	wb := sheet.NewWorkbook("wb.xlsx", sheet.NewTable("Section", nil), sheet.NewTable("Exercises", nil))

	if o := HasSheets(wb, []string{"Section", "Exercises"}); !o.Valid {
		t.Errorf("HasSheets(all present) = %+v, want valid", o)
	}
	o := HasSheets(wb, []string{"Section", "Questions"})
	if o.Valid || o.Kind != Schema {
		t.Errorf("HasSheets(missing) = %+v, want schema failure", o)
	}
	if !strings.Contains(o.Message, `"Questions"`) {
		t.Errorf("message %q should name the missing sheet", o.Message)
	}
}

func TestHasColumnsMatching(t *testing.T) {
	tbl := sheet.NewTable("Exercises", []string{"*Exercise Name", "Description (optional)", "*Exercise ID"})

	tests := []struct {
		name     string
		patterns []string
		valid    bool
	}{
		{"all match", []string{"exercise name", "description", "exercise id"}, true},
		{"one pattern two columns", []string{"exercise"}, true},
		{"missing", []string{"exercise name", "level"}, false},
		{"empty list", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := HasColumnsMatching(tbl, tt.patterns)
			if o.Valid != tt.valid {
				t.Errorf("HasColumnsMatching(%q) = %+v, want valid=%v", tt.patterns, o, tt.valid)
			}
			if !o.Valid && o.Kind != Schema {
				t.Errorf("Kind = %q, want %q", o.Kind, Schema)
			}
		})
	}
}

func TestRowCounts(t *testing.T) {
	tbl := sheet.NewTable("T", []string{"a"}, sheet.Values("x"), sheet.Values("y"))

	if o := ExactRows(tbl, 2); !o.Valid {
		t.Errorf("ExactRows(2) = %+v", o)
	}
	if o := ExactRows(tbl, 1); o.Valid || o.Kind != Cardinality {
		t.Errorf("ExactRows(1) = %+v, want cardinality failure", o)
	}
	if o := MinRows(tbl, 1); !o.Valid {
		t.Errorf("MinRows(1) = %+v", o)
	}
	if o := MinRows(sheet.NewTable("T", []string{"a"}), 1); o.Valid || o.Kind != Cardinality {
		t.Errorf("MinRows on empty table = %+v, want cardinality failure", o)
	}
}

func TestRowsWithValue(t *testing.T) {
	tbl := sheet.NewTable("Questions",
		[]string{"Question ID", "Additional Learning Material ID", "Additional Learning Material ID (2)"},
		sheet.Values("1.1.01", "", "1-mat-01"),
		sheet.Values("1.1.02"),
		sheet.Values("1.1.03", "1-mat-02"),
	)
	if got := RowsWithValue(tbl, "learning material id"); got != 2 {
		t.Errorf("RowsWithValue() = %d, want 2", got)
	}
	if got := RowsWithValue(tbl, "no such column"); got != 0 {
		t.Errorf("RowsWithValue(no column) = %d, want 0", got)
	}
}

func TestRequiredCellsNonEmpty(t *testing.T) {
	singleton := sheet.NewTable("Case Study", []string{"*Org ID", "*Name", "Tags"},
		sheet.Values("acme", "Pricing", ""),
		sheet.Values("comment row"),
	)
	list := sheet.NewTable("Section", []string{"*Section Name", "*Section ID"},
		sheet.Values("Intro", 1),
		sheet.Values("Analysis", nil),
	)

	tests := []struct {
		name         string
		table        *sheet.Table
		firstRowOnly bool
		valid        bool
		wantInMsg    string
	}{
		{"singleton first row only", singleton, true, true, ""},
		{"singleton all rows", singleton, false, false, `row 2: required column "*Name"`},
		{"list blank id", list, false, false, `row 2: required column "*Section ID"`},
		{"list first row only", list, true, true, ""},
		{"no rows", sheet.NewTable("Empty", []string{"*Section ID"}), false, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := RequiredCellsNonEmpty(tt.table, `^\*`, tt.firstRowOnly)
			if o.Valid != tt.valid {
				t.Fatalf("RequiredCellsNonEmpty() = %+v, want valid=%v", o, tt.valid)
			}
			if !o.Valid {
				if o.Kind != Value {
					t.Errorf("Kind = %q, want %q", o.Kind, Value)
				}
				if !strings.Contains(o.Message, tt.wantInMsg) {
					t.Errorf("Message = %q, want it to contain %q", o.Message, tt.wantInMsg)
				}
			}
		})
	}
}

func TestValuesMatchPattern(t *testing.T) {
	const sectionID = `([1-9][0-9]|[1-9]|0[1-9])`

	tests := []struct {
		name       string
		values     []any
		allowEmpty bool
		valid      bool
	}{
		{"valid ids", []any{1, "02", 15}, false, true},
		{"partial match rejected", []any{"1a"}, false, false},
		{"leading zero pair only", []any{"00"}, false, false},
		{"three digits rejected", []any{"100"}, false, false},
		{"empty rejected", []any{1, nil}, false, false},
		{"empty allowed", []any{1, nil}, true, true},
		{"no rows", nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows [][]sheet.Cell
			for _, v := range tt.values {
				rows = append(rows, sheet.Values(v))
			}
			tbl := sheet.NewTable("Section", []string{"*Section ID"}, rows...)

			o := ValuesMatchPattern(tbl, "*Section ID", sectionID, tt.allowEmpty)
			if o.Valid != tt.valid {
				t.Errorf("ValuesMatchPattern(%v) = %+v, want valid=%v", tt.values, o, tt.valid)
			}
			if !o.Valid && o.Kind != Value {
				t.Errorf("Kind = %q, want %q", o.Kind, Value)
			}
		})
	}
}

func TestValuesMatchPattern_CaseSensitive(t *testing.T) {
	tbl := sheet.NewTable("Questions", []string{"Answer"}, sheet.Values("b"))
	if o := ValuesMatchPattern(tbl, "Answer", `[ABCD]`, true); o.Valid {
		t.Error("lower-case answer should not match [ABCD]")
	}
}

func TestColumnsMatchingValues_URL(t *testing.T) {
	const url = `(https?://)([A-Za-z0-9-]+\.)+[A-Za-z]{2,6}.*`

	tests := []struct {
		name  string
		value any
		valid bool
	}{
		{"https", "https://example.com/a/b?c=d", true},
		{"http with port", "http://cdn.example.org:8080/x.png", true},
		{"long top-level domain", "https://learn.education/course/1", true},
		{"long top-level domain without path", "https://example.technology", true},
		{"space in path", "https://www.ibm.com/training/my course.pdf", true},
		{"ftp rejected", "ftp://example.com", false},
		{"host without dot", "https://localhost/x", false},
		{"no scheme", "example.com", false},
		{"empty allowed", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sheet.NewTable("Section Content",
				[]string{"*Content ID", "Source URL"},
				sheet.Values("1-content-01", tt.value),
			)
			o := ColumnsMatchingValues(tbl, "source url|image url", url, true)
			if o.Valid != tt.valid {
				t.Errorf("URL %v: got %+v, want valid=%v", tt.value, o, tt.valid)
			}
		})
	}

	noURL := sheet.NewTable("Section", []string{"*Section ID"}, sheet.Values(1))
	if o := ColumnsMatchingValues(noURL, "source url|image url", url, true); !o.Valid {
		t.Errorf("table without URL columns = %+v, want valid", o)
	}
}

func TestValuesUnique(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		valid  bool
	}{
		{"empty table", nil, true},
		{"distinct", []any{"1.1", "1.2", "2.1"}, true},
		{"duplicate", []any{"1.1", "1.2", "1.1"}, false},
		{"number and text render alike", []any{5, "5"}, false},
		{"empties ignored", []any{nil, "1", nil}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows [][]sheet.Cell
			for _, v := range tt.values {
				rows = append(rows, sheet.Values(v))
			}
			tbl := sheet.NewTable("Exercises", []string{"id"}, rows...)

			o := ValuesUnique(tbl, "id")
			if o.Valid != tt.valid {
				t.Errorf("ValuesUnique(%v) = %+v, want valid=%v", tt.values, o, tt.valid)
			}
			if !o.Valid && o.Kind != Cardinality {
				t.Errorf("Kind = %q, want %q", o.Kind, Cardinality)
			}
		})
	}
}

func TestValuesUnique_MessageNamesBothRows(t *testing.T) {
	tbl := sheet.NewTable("Exercises", []string{"id"}, sheet.Values("1.1"), sheet.Values("1.2"), sheet.Values("1.1"))
	o := ValuesUnique(tbl, "id")
	if !strings.Contains(o.Message, "row 3") || !strings.Contains(o.Message, "row 1") {
		t.Errorf("Message = %q, want rows 3 and 1", o.Message)
	}
}

func TestSplitItems(t *testing.T) {
	got := SplitItems(" 1-mat-01 ,1-mat-02,, ", ",")
	if len(got) != 2 || got[0] != "1-mat-01" || got[1] != "1-mat-02" {
		t.Errorf("SplitItems() = %q", got)
	}
	if got := SplitItems("", ","); got != nil {
		t.Errorf("SplitItems(\"\") = %q, want nil", got)
	}
}

func TestListCellItemsUnique(t *testing.T) {
	cols := []string{"Additional Learning Material IDs"}

	tests := []struct {
		name  string
		rows  [][]sheet.Cell
		valid bool
	}{
		{"unique items", [][]sheet.Cell{sheet.Values("1-mat-01, 1-mat-02")}, true},
		{"repeat within cell", [][]sheet.Cell{sheet.Values("1-mat-01, 1-mat-02,1-mat-01")}, false},
		{"repeat across cells", [][]sheet.Cell{sheet.Values("1-mat-01, 1-mat-02"), sheet.Values("1-mat-01")}, true},
		{"single item", [][]sheet.Cell{sheet.Values("1-mat-01")}, true},
		{"empty", [][]sheet.Cell{sheet.Values(nil)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sheet.NewTable("Section Content", cols, tt.rows...)
			o := ListCellItemsUnique(tbl, cols, ",")
			if o.Valid != tt.valid {
				t.Errorf("ListCellItemsUnique() = %+v, want valid=%v", o, tt.valid)
			}
			if !o.Valid && o.Kind != Cardinality {
				t.Errorf("Kind = %q, want %q", o.Kind, Cardinality)
			}
		})
	}
}

func TestCellItemsExistIn(t *testing.T) {
	materials := sheet.NewTable("Additional Learning Material", []string{"*Additional Learning Material ID"},
		sheet.Values("1-mat-01"),
		sheet.Values("2-mat-01"),
	)
	cols := []string{"Additional Learning Material IDs"}

	tests := []struct {
		name  string
		cell  any
		valid bool
	}{
		{"single known", "1-mat-01", true},
		{"list known", "1-mat-01, 2-mat-01", true},
		{"list with unknown", "1-mat-01, 3-mat-01", false},
		{"empty skipped", nil, true},
		{"verbatim only", "1-MAT-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sheet.NewTable("Exercises", cols, sheet.Values(tt.cell))
			o := CellItemsExistIn(tbl, cols, ",", materials, "*Additional Learning Material ID")
			if o.Valid != tt.valid {
				t.Errorf("CellItemsExistIn(%v) = %+v, want valid=%v", tt.cell, o, tt.valid)
			}
			if !o.Valid && o.Kind != Referential {
				t.Errorf("Kind = %q, want %q", o.Kind, Referential)
			}
		})
	}
}

func TestDependentColumnHasValue(t *testing.T) {
	triggers := []string{"video", "image", "pdf", "html"}

	tests := []struct {
		name   string
		format any
		url    any
		valid  bool
	}{
		{"trigger and value", "video", "https://example.com/v.mp4", true},
		{"trigger without value", "pdf", nil, false},
		{"no trigger no value", "text", nil, true},
		{"no trigger with value", "text", "https://example.com", false},
		{"empty independent with value", nil, "https://example.com", false},
		{"empty both", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sheet.NewTable("Section Content", []string{"Format", "Source URL"},
				sheet.Values(tt.format, tt.url))
			o := DependentColumnHasValue(tbl, "Format", "Source URL", triggers)
			if o.Valid != tt.valid {
				t.Errorf("DependentColumnHasValue(%v, %v) = %+v, want valid=%v", tt.format, tt.url, o, tt.valid)
			}
			if !o.Valid && o.Kind != Dependency {
				t.Errorf("Kind = %q, want %q", o.Kind, Dependency)
			}
		})
	}
}

func TestValueRequiredWhen(t *testing.T) {
	tests := []struct {
		name  string
		isSA  any
		scope any
		valid bool
	}{
		{"trigger with value", true, "all", true},
		{"trigger without value", true, nil, false},
		{"no trigger with value", false, "topic", true},
		{"no trigger without value", false, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sheet.NewTable("Sections", []string{"Is SA", "SA Scope"}, sheet.Values(tt.isSA, tt.scope))
			o := ValueRequiredWhen(tbl, "Is SA", []string{"true"}, "SA Scope")
			if o.Valid != tt.valid {
				t.Errorf("ValueRequiredWhen() = %+v, want valid=%v", o, tt.valid)
			}
		})
	}
}

func TestColumnFailure(t *testing.T) {
	tbl := sheet.NewTable("Questions", []string{"Option A", "Option B"})

	_, err := sheet.Resolve(tbl, "option")
	o := ColumnFailure(err)
	if o.Valid || o.Kind != Schema || !strings.Contains(o.Message, "found 2") {
		t.Errorf("ambiguous: %+v", o)
	}

	_, err = sheet.Resolve(tbl, "answer")
	o = ColumnFailure(err)
	if o.Valid || o.Kind != Schema || !strings.Contains(o.Message, `no column matches "answer"`) {
		t.Errorf("not found: %+v", o)
	}

	o = ColumnFailure(errors.New("boom"))
	if o.Valid || o.Kind != Schema || o.Message != "boom" {
		t.Errorf("other: %+v", o)
	}
}
