package kinds

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/schema"
)

// Survey is the key of the survey workbook kind.
const Survey = "survey"

func init() {
	registerSurvey()
}

func registerSurvey() {
	core.Register(core.Kind{
		Info: core.KindInfo{
			Key:         Survey,
			Label:       "Survey",
			Description: "A survey with sections and questions, optionally built from self-assessment statements",
			ConfigType:  "survey",
		},
		Sheets: []core.SheetRules{
			{
				Name:            schema.SurveySheet,
				Columns:         schema.ExactAll(schema.SurveyColumns),
				Rows:            core.Exactly(1),
				RequiredPattern: schema.ExactAny(schema.SurveyColumns),
			},
			{
				Name:            schema.SurveySectionsSheet,
				Columns:         schema.ExactAll(schema.SectionColumns),
				Rows:            core.AtLeast(1),
				RequiredPattern: schema.ExactAny(schema.SectionRequired),
				IDColumn:        schema.Exact(schema.SectionReferenceID),
				Checks: []core.Check{
					saScopeWhenSA,
					saScopeNameWhenScoped,
					core.ValuesIn("sa scope", schema.Exact(schema.SectionSAScope), `(?i)`+schema.ScopeValuePattern, true),
				},
			},
			{
				Name:            schema.SurveyQuestionsSheet,
				Columns:         schema.ExactAll(schema.QuestionColumns),
				RowCheck:        questionsPerSection,
				RequiredPattern: schema.ExactAny(schema.QuestionRequired),
				IDColumn:        schema.Exact(schema.QuestionReferenceID),
				Checks: []core.Check{
					optionForSingleSelect,
					questionSectionExists,
				},
			},
		},
	})
}

// sectionPart returns the section reference of a question reference id:
// "2.01" belongs to section "2".
func sectionPart(questionRef string) string {
	section, _, _ := strings.Cut(questionRef, ".")
	return section
}

// surveyColumns resolves the exact column names of a survey sheet.
func surveyColumns(sc *core.SheetContext, names ...string) ([]string, error) {
	cols := make([]string, len(names))
	for i, n := range names {
		col, err := sc.Column(schema.Exact(n))
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}

var saScopeWhenSA = core.Check{
	Name: "sa scope required for self-assessment",
	Run: func(sc *core.SheetContext) check.Outcome {
		cols, err := surveyColumns(sc, schema.SectionIsSA, schema.SectionSAScope)
		if err != nil {
			return check.ColumnFailure(err)
		}
		t := sc.Table()
		return check.RequiredWhen(t, cols[1], func(i int) bool { return t.Cell(i, cols[0]).Truthy() },
			fmt.Sprintf("column %q is true", cols[0]))
	},
}

var saScopeNameWhenScoped = core.Check{
	Name: "sa scope name required for scoped sections",
	Run: func(sc *core.SheetContext) check.Outcome {
		cols, err := surveyColumns(sc, schema.SectionIsSA, schema.SectionSAScope, schema.SectionSAScopeName)
		if err != nil {
			return check.ColumnFailure(err)
		}
		t := sc.Table()
		scoped := func(i int) bool {
			return t.Cell(i, cols[0]).Truthy() && !strings.EqualFold(t.Cell(i, cols[1]).String(), schema.ScopeAll)
		}
		return check.RequiredWhen(t, cols[2], scoped, fmt.Sprintf("column %q is not %q", cols[1], schema.ScopeAll))
	},
}

var optionForSingleSelect = core.Check{
	Name: "single select has options",
	Run: func(sc *core.SheetContext) check.Outcome {
		cols, err := surveyColumns(sc, schema.QuestionType, schema.QuestionOption1)
		if err != nil {
			return check.ColumnFailure(err)
		}
		return check.ValueRequiredWhen(sc.Table(), cols[0], []string{schema.QuestionSingleSelect}, cols[1])
	},
}

// sectionsExpectingQuestions returns the reference ids of sections whose
// questions come from the Questions sheet rather than from existing
// self-assessment statements.
func sectionsExpectingQuestions(sc *core.SheetContext) ([]string, error) {
	sections, err := sc.Sheet(schema.SurveySectionsSheet)
	if err != nil {
		return nil, err
	}
	cols, err := surveyColumns(sections, schema.SectionFromSA, schema.SectionReferenceID)
	if err != nil {
		return nil, err
	}
	t := sections.Table()
	var refs []string
	for i := 0; i < t.Len(); i++ {
		if !t.Cell(i, cols[0]).Truthy() {
			refs = append(refs, t.Cell(i, cols[1]).String())
		}
	}
	return refs, nil
}

// questionsPerSection reconciles the Questions sheet with the sections that
// expect questions from it.
func questionsPerSection(sc *core.SheetContext) check.Outcome {
	expecting, err := sectionsExpectingQuestions(sc)
	if err != nil {
		return check.ColumnFailure(err)
	}
	rows := sc.Table().Len()
	switch {
	case len(expecting) == 0 && rows > 0:
		return check.Fail(check.Cardinality,
			"expected 0 rows because every section creates its questions from self-assessment statements, found %d", rows)
	case len(expecting) > 0 && rows == 0:
		return check.Fail(check.Cardinality, "expected rows because %d section(s) need questions", len(expecting))
	case rows == 0:
		return check.Pass("no section needs questions")
	}

	refCol, err := sc.Column(schema.Exact(schema.QuestionReferenceID))
	if err != nil {
		return check.ColumnFailure(err)
	}
	covered := make(map[string]bool)
	for _, c := range sc.Table().Column(refCol) {
		covered[sectionPart(c.String())] = true
	}
	for _, ref := range expecting {
		if !covered[ref] {
			return check.Fail(check.Referential, "section %q should have at least 1 row in %q", ref, schema.SurveyQuestionsSheet)
		}
	}
	return check.Pass("it has %d row(s) covering %d section(s)", rows, len(expecting))
}

var questionSectionExists = core.Check{
	Name: "question section exists",
	Run: func(sc *core.SheetContext) check.Outcome {
		sections, err := sc.Sheet(schema.SurveySectionsSheet)
		if err != nil {
			return check.Fail(check.Schema, "%v", err)
		}
		sectionCol, err := sections.IDColumn()
		if err != nil {
			return check.ColumnFailure(err)
		}
		known := make(map[string]bool)
		for _, c := range sections.Table().Column(sectionCol) {
			known[c.String()] = true
		}

		refCol, err := sc.IDColumn()
		if err != nil {
			return check.ColumnFailure(err)
		}
		t := sc.Table()
		for i := 0; i < t.Len(); i++ {
			ref := t.Cell(i, refCol).String()
			if !known[sectionPart(ref)] {
				return check.Fail(check.Referential, "row %d: %q in column %q refers to section %q, which does not exist in %q",
					i+1, ref, refCol, sectionPart(ref), schema.SurveySectionsSheet)
			}
		}
		return check.Pass("every question belongs to an existing section")
	},
}
