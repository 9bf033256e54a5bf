package kinds

import (
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/schema"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
	"github.com/JonMunkholm/contentsheet/internal/sheet/sheettest"
)

func validate(t *testing.T, key string, wb *sheet.Workbook) error {
	t.Helper()
	kind, err := core.Lookup(key)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", key, err)
	}
	return core.Validate(context.Background(), kind, wb)
}

// failure describes the expected first failure of a workbook.
type failure struct {
	kind    check.Kind
	sheet   string
	check   string
	message string // substring; empty skips the comparison
}

func assertFailure(t *testing.T, err error, want failure) {
	t.Helper()
	ve, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("error = %v, want a validation error", err)
	}
	if ve.Kind != want.kind {
		t.Errorf("Kind = %q, want %q (%v)", ve.Kind, want.kind, ve)
	}
	if ve.Sheet != want.sheet {
		t.Errorf("Sheet = %q, want %q (%v)", ve.Sheet, want.sheet, ve)
	}
	if want.check != "" && ve.Check != want.check {
		t.Errorf("Check = %q, want %q (%v)", ve.Check, want.check, ve)
	}
	if want.message != "" && !strings.Contains(ve.Message, want.message) {
		t.Errorf("Message = %q, want it to contain %q", ve.Message, want.message)
	}
}

func TestCaseStudy_Valid(t *testing.T) {
	if err := validate(t, CaseStudy, sheettest.CaseStudy().Workbook()); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestCaseStudy_FirstFailure(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *sheettest.Fixture)
		want   failure
	}{
		{
			name: "unknown content format",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSSectionContentSheet, 0, "*Section Content Format", "chart")
			},
			want: failure{check.Value, schema.CSSectionContentSheet, "section content format", `"chart"`},
		},
		{
			name: "answer without option",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSQuestionsSheet, 0, "Answer", "C")
			},
			want: failure{check.Value, schema.CSQuestionsSheet, "answer has an option", `answer is "C" but column "Option C" is empty`},
		},
		{
			name: "section without content",
			modify: func(f *sheettest.Fixture) {
				f.AddRow(schema.CSSectionSheet, "Wrap up", 5)
			},
			want: failure{check.Referential, schema.CSSectionSheet, "ids referred in " + schema.CSSectionContentSheet, `"5"`},
		},
		{
			name: "referenced materials missing",
			modify: func(f *sheettest.Fixture) {
				f.ClearRows(schema.CSLearningMaterialSheet)
			},
			want: failure{check.Cardinality, schema.CSLearningMaterialSheet, "row count", "3 row(s) in other sheets"},
		},
		{
			name: "ftp source url",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSLearningMaterialSheet, 1, "Source URL", "ftp://example.com/b")
			},
			want: failure{check.Value, schema.CSLearningMaterialSheet, "url shape", "ftp://example.com/b"},
		},
		{
			name: "blank section name",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSSectionSheet, 1, "*Section Name", nil)
			},
			want: failure{check.Value, schema.CSSectionSheet, "required values", `row 2: required column "*Section Name" is empty`},
		},
		{
			name: "missing sheet",
			modify: func(f *sheettest.Fixture) {
				f.RemoveSheet(schema.CSQuestionsSheet)
			},
			want: failure{check.Schema, "", "expected sheets", schema.CSQuestionsSheet},
		},
		{
			name: "bad exercise id",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSExercisesSheet, 1, "*Exercise ID", "2.0")
			},
			want: failure{check.Value, schema.CSExercisesSheet, "id format", `"2.0"`},
		},
		{
			name: "level out of range",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSExercisesSheet, 0, "*Level", 6)
			},
			want: failure{check.Value, schema.CSExercisesSheet, "level range", `"6"`},
		},
		{
			name: "unknown material",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSExercisesSheet, 1, "Additional Learning Material IDs", "2-mat-09")
			},
			want: failure{check.Referential, schema.CSExercisesSheet, "learning material references", `"2-mat-09"`},
		},
		{
			name: "material listed twice",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSSectionContentSheet, 2, "Additional Learning Material IDs", "1-mat-01, 1-mat-01")
			},
			want: failure{check.Cardinality, schema.CSSectionContentSheet, "learning material references", "more than once"},
		},
		{
			name: "source url on text content",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSSectionContentSheet, 0, "Source URL", "https://example.com/t")
			},
			want: failure{check.Dependency, schema.CSSectionContentSheet, "", "must be empty"},
		},
		{
			name: "option header without options",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CSQuestionsSheet, 1, "Option Header", "Pick:")
			},
			want: failure{check.Dependency, schema.CSQuestionsSheet, "", `"Option A"`},
		},
		{
			name: "question of unknown exercise",
			modify: func(f *sheettest.Fixture) {
				f.AddRow(schema.CSQuestionsSheet, "2.2.01", "Orphan")
			},
			want: failure{check.Referential, schema.CSQuestionsSheet, "parent exists in " + schema.CSExercisesSheet, `"2.2"`},
		},
		{
			name: "missing comment row",
			modify: func(f *sheettest.Fixture) {
				f.Set(schema.CaseStudySheet, 1, "Objectives", nil)
			},
			want: failure{check.Cardinality, schema.CaseStudySheet, "row count", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sheettest.CaseStudy()
			tt.modify(f)
			assertFailure(t, validate(t, CaseStudy, f.Workbook()), tt.want)
		})
	}
}

func TestCaseStudy_EmptyMaterialsWithoutReferences(t *testing.T) {
	f := sheettest.CaseStudy().
		ClearRows(schema.CSLearningMaterialSheet).
		Set(schema.CSSectionContentSheet, 2, "*Section Content Format", "text").
		Set(schema.CSSectionContentSheet, 2, "Additional Learning Material IDs", nil).
		Set(schema.CSExercisesSheet, 0, "Solution ID", nil).
		Set(schema.CSExercisesSheet, 1, "Additional Learning Material IDs", nil).
		Set(schema.CSQuestionsSheet, 1, "Additional Learning Material ID", nil)

	if err := validate(t, CaseStudy, f.Workbook()); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

func TestCaseStudy_BlankedCellRoundTrip(t *testing.T) {
	f := sheettest.CaseStudy()
	f.Set(schema.CSExercisesSheet, 0, "*Exercise Name", nil)
	assertFailure(t, validate(t, CaseStudy, f.Workbook()),
		failure{check.Value, schema.CSExercisesSheet, "required values", `row 1: required column "*Exercise Name" is empty`})

	f.Set(schema.CSExercisesSheet, 0, "*Exercise Name", "Stock check")
	if err := validate(t, CaseStudy, f.Workbook()); err != nil {
		t.Fatalf("Validate() after restoring the cell error = %v, want nil", err)
	}
}

func TestCaseStudy_XLSXRoundTrip(t *testing.T) {
	kind, err := core.Lookup(CaseStudy)
	if err != nil {
		t.Fatal(err)
	}
	opts := kind.ReadOptions()

	path, err := sheettest.CaseStudy().WriteXLSX(t.TempDir(), opts.HeaderRows)
	if err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	wb, err := sheet.Open(path, opts)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := core.Validate(context.Background(), kind, wb); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	sections, _ := wb.Sheet(schema.CSSectionSheet)
	if got := sections.Cell(1, "*Section ID").String(); got != "2" {
		t.Errorf("section id = %q, want %q", got, "2")
	}
}
