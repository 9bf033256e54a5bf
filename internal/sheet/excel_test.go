package sheet

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeFixture builds a two-sheet workbook: a singleton sheet with the header
// on row 1 and a list sheet with an instruction row above its header.
func writeFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Case Study"); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	mustSet(t, f, "Case Study", "A1", "*Org ID")
	mustSet(t, f, "Case Study", "B1", "*Case Study ID")
	mustSet(t, f, "Case Study", "A2", "acme")
	mustSet(t, f, "Case Study", "B2", "cs1")
	mustSet(t, f, "Case Study", "A3", "Comment row")

	if _, err := f.NewSheet("Section"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	mustSet(t, f, "Section", "A1", "Fill in one row per section")
	mustSet(t, f, "Section", "A2", "*Section Name")
	mustSet(t, f, "Section", "B2", "*Section ID")
	mustSet(t, f, "Section", "D2", "Published")
	mustSet(t, f, "Section", "A3", "Introduction")
	mustSet(t, f, "Section", "B3", 1)
	mustSet(t, f, "Section", "D3", true)
	// row 4 left blank on purpose
	mustSet(t, f, "Section", "A5", "Analysis")
	mustSet(t, f, "Section", "B5", "05")
	mustSet(t, f, "Section", "C5", "ignored, no header")

	path := filepath.Join(t.TempDir(), "case-study.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func mustSet(t *testing.T, f *excelize.File, sheet, ref string, v any) {
	t.Helper()
	if err := f.SetCellValue(sheet, ref, v); err != nil {
		t.Fatalf("SetCellValue(%s!%s): %v", sheet, ref, err)
	}
}

var fixtureOptions = ReadOptions{HeaderRows: map[string]int{"Section": 1}}

func TestOpen(t *testing.T) {
	wb, err := Open(writeFixture(t), fixtureOptions)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if wb.Name() != "case-study.xlsx" {
		t.Errorf("Name() = %q, want %q", wb.Name(), "case-study.xlsx")
	}

	cs, ok := wb.Sheet("Case Study")
	if !ok {
		t.Fatal("sheet Case Study missing")
	}
	if cs.Len() != 2 {
		t.Errorf("Case Study Len() = %d, want 2", cs.Len())
	}
	if got := cs.Cell(0, "*Org ID").String(); got != "acme" {
		t.Errorf("org id = %q, want %q", got, "acme")
	}

	sec, ok := wb.Sheet("Section")
	if !ok {
		t.Fatal("sheet Section missing")
	}
	wantCols := []string{"*Section Name", "*Section ID", "Published"}
	if got := sec.Columns(); len(got) != len(wantCols) {
		t.Fatalf("Section columns = %q, want %q", got, wantCols)
	}
	if sec.Len() != 2 {
		t.Fatalf("Section Len() = %d, want 2 (blank row skipped)", sec.Len())
	}

	id := sec.Cell(0, "*Section ID")
	if id.Kind() != Number || id.String() != "1" {
		t.Errorf("numeric id = %v %q, want number \"1\"", id.Kind(), id.String())
	}
	if pub := sec.Cell(0, "Published"); pub.Kind() != Boolean || !pub.Truthy() {
		t.Errorf("Published = %v %q, want boolean true", pub.Kind(), pub.String())
	}
	text := sec.Cell(1, "*Section ID")
	if text.Kind() != String || text.String() != "05" {
		t.Errorf("text id = %v %q, want string \"05\"", text.Kind(), text.String())
	}
}

func TestRead_NotAWorkbook(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("id,name\n1,x\n")), "upload.csv", ReadOptions{})
	if err == nil {
		t.Fatal("Read() of CSV bytes should fail")
	}
}

func TestReadTable_HeaderBeyondData(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	mustSet(t, f, "Sheet1", "A1", "only an instruction row")

	tbl, err := readTable(f, "Sheet1", 1)
	if err != nil {
		t.Fatalf("readTable() error = %v", err)
	}
	if tbl.Len() != 0 || len(tbl.Columns()) != 0 {
		t.Errorf("got %d rows, %d columns; want empty table", tbl.Len(), len(tbl.Columns()))
	}
}
