package kinds

import (
	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/schema"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// CaseStudy is the key of the case study workbook kind.
const CaseStudy = "case-study"

func init() {
	registerCaseStudy()
}

func registerCaseStudy() {
	core.Register(core.Kind{
		Info: core.KindInfo{
			Key:         CaseStudy,
			Label:       "Case Study",
			Description: "A case study with sections, section content, exercises, questions and learning material",
			ConfigType:  "caseStudyConfig",
		},
		Sheets: []core.SheetRules{
			{
				Name:         schema.CaseStudySheet,
				HeaderRow:    0,
				Columns:      schema.CaseStudyConfigColumns,
				Rows:         core.Exactly(2), // values plus the comment row
				FirstRowOnly: true,
			},
			{
				Name:      schema.CSSectionSheet,
				HeaderRow: 1,
				Columns:   schema.CSSectionColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.CSSectionID,
				IDPattern: schema.SectionIDPattern,
				Checks: []core.Check{
					core.CoveredBy(schema.CSSectionContentSheet),
				},
			},
			{
				Name:      schema.CSSectionContentSheet,
				HeaderRow: 1,
				Columns:   schema.CSSectionContentColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.CSContentID,
				IDPattern: schema.CSContentIDPattern,
				Checks: []core.Check{
					core.ChildOf(schema.CSSectionSheet),
					core.ValuesIn("section content format", schema.CSContentFormat, schema.CSContentFormatPattern, false),
					core.Depends(schema.CSContentFormat, schema.CSSourceURL, schema.CSLinkedFormats...),
					core.Depends(schema.CSContentFormat, schema.CSMaterialIDs, schema.CSMaterialListFormat),
				},
			},
			{
				Name:      schema.CSExercisesSheet,
				HeaderRow: 1,
				Columns:   schema.CSExercisesColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.CSExerciseID,
				IDPattern: schema.ExerciseIDPattern,
				Checks: []core.Check{
					core.ChildOf(schema.CSSectionSheet),
					core.CoveredBy(schema.CSQuestionsSheet),
				},
			},
			{
				Name:      schema.CSQuestionsSheet,
				HeaderRow: 1,
				Columns:   schema.CSQuestionsColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.CSQuestionID,
				IDPattern: schema.QuestionIDPattern,
				Checks: []core.Check{
					core.ChildOf(schema.CSExercisesSheet),
					core.FilledWhen(schema.CSOptionHeader, schema.CSOptionA),
					core.ValuesIn("answer", schema.CSAnswer, schema.AnswerValuePattern, true),
					answerHasOption(schema.CSAnswer),
					core.Depends(schema.CSAnswer, schema.CSFeedbackIncorrect, schema.AnswerLabels...),
				},
			},
			{
				Name:      schema.CSLearningMaterialSheet,
				HeaderRow: 1,
				Columns:   schema.CSLearningMaterialColumns,
				RowCheck:  materialRowsReferenced,
				IDColumn:  schema.CSMaterialID,
				IDPattern: schema.CSMaterialIDPattern,
				Checks: []core.Check{
					core.ChildOf(schema.CSSectionSheet),
					core.ValuesIn("learning material format", schema.CSMaterialFormat, schema.MaterialFormatPattern, false),
				},
			},
		},
		Common: []core.Check{urlShape, oneLevel, levelRange, materialReferences},
	})
}

// materialRowsReferenced lets the Additional Learning Material sheet be
// empty only when no other sheet refers to a learning material.
func materialRowsReferenced(sc *core.SheetContext) check.Outcome {
	if n := sc.Table().Len(); n > 0 {
		return check.Pass("it has %d row(s)", n)
	}
	referring := 0
	for _, name := range schema.CSMaterialReferringSheets {
		other, err := sc.Sheet(name)
		if err != nil {
			return check.Fail(check.Schema, "%v", err)
		}
		referring += check.RowsWithValue(other.Table(), schema.CSMaterialID)
	}
	if referring > 0 {
		return check.Fail(check.Cardinality,
			"the sheet has 0 rows but %d row(s) in other sheets refer to additional learning materials", referring)
	}
	return check.Pass("no learning material is referenced")
}

// materialReferences checks list cells that refer to learning materials:
// items are unique within a cell and exist in the Additional Learning
// Material sheet. The material sheet itself is skipped, and so is the
// existence check while that sheet is empty.
var materialReferences = core.Check{
	Name: "learning material references",
	Run: func(sc *core.SheetContext) check.Outcome {
		if sc.Rules().Name == schema.CSLearningMaterialSheet {
			return check.Pass("not applicable")
		}
		cols := sheet.ResolveAll(sc.Table(), schema.CSMaterialReference)
		if len(cols) == 0 {
			return check.Pass("no column refers to learning materials")
		}
		if o := check.ListCellItemsUnique(sc.Table(), cols, schema.ListSeparator); !o.Valid {
			return o
		}
		materials, err := sc.Sheet(schema.CSLearningMaterialSheet)
		if err != nil {
			return check.Fail(check.Schema, "%v", err)
		}
		if materials.Table().Len() == 0 {
			// Reported once by the material sheet's row check.
			return check.Pass("learning material sheet is empty")
		}
		idCol, err := materials.IDColumn()
		if err != nil {
			return check.ColumnFailure(err)
		}
		return check.CellItemsExistIn(sc.Table(), cols, schema.ListSeparator, materials.Table(), idCol)
	},
}
