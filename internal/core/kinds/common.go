package kinds

import (
	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/schema"
)

// urlShape and levelRange run on every sheet of the case study and learning
// topic templates.
var (
	urlShape   = core.ValuesIn("url shape", schema.URLColumnPattern, schema.URLValuePattern, true)
	levelRange = core.ValuesIn("level range", schema.LevelColumnPattern, schema.LevelValuePattern, false)
	oneLevel   = core.AtMostOneColumn(schema.LevelColumnPattern)
)

// answerHasOption requires the option named by a question's answer to have a
// value: answer B needs a non-empty "Option B".
func answerHasOption(answerPattern string) core.Check {
	return core.Check{
		Name: "answer has an option",
		Run: func(sc *core.SheetContext) check.Outcome {
			answerCol, err := sc.Column(answerPattern)
			if err != nil {
				return check.ColumnFailure(err)
			}
			t := sc.Table()
			for i := 0; i < t.Len(); i++ {
				answer := t.Cell(i, answerCol)
				if answer.IsEmpty() {
					continue
				}
				optionCol, err := sc.Column(schema.OptionColumn(answer.String()))
				if err != nil {
					return check.ColumnFailure(err)
				}
				if t.Cell(i, optionCol).IsEmpty() {
					return check.Fail(check.Value, "row %d: answer is %q but column %q is empty",
						i+1, answer.String(), optionCol)
				}
			}
			return check.Pass("every answer has an option")
		},
	}
}
