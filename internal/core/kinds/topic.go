package kinds

import (
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/schema"
)

// LearningTopic is the key of the learning topic workbook kind.
const LearningTopic = "learning-topic"

func init() {
	registerLearningTopic()
}

func registerLearningTopic() {
	core.Register(core.Kind{
		Info: core.KindInfo{
			Key:         LearningTopic,
			Label:       "Learning Topic",
			Description: "A learning topic with modules, learning materials, exercises and questions",
			ConfigType:  "topicConfig",
		},
		Sheets: []core.SheetRules{
			{
				Name:         schema.TopicSheet,
				HeaderRow:    0,
				Columns:      schema.TopicColumns,
				Rows:         core.AtLeast(1), // later rows may hold comments
				FirstRowOnly: true,
			},
			{
				Name:      schema.TopicModulesSheet,
				HeaderRow: 0,
				Columns:   schema.TopicModulesColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.TopicReferenceID,
				IDPattern: schema.SectionIDPattern,
			},
			{
				Name:      schema.TopicMaterialsSheet,
				HeaderRow: 1,
				Columns:   schema.TopicMaterialsColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.TopicReferenceID,
				IDPattern: schema.TopicMaterialIDPattern,
				Checks: []core.Check{
					core.ChildOf(schema.TopicModulesSheet),
					core.ValuesIn("learning material format", schema.TopicMaterialFormat, schema.MaterialFormatPattern, false),
				},
			},
			{
				Name:      schema.TopicExercisesSheet,
				HeaderRow: 1,
				Columns:   schema.TopicExercisesColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.TopicReferenceID,
				IDPattern: schema.ExerciseIDPattern,
				Checks: []core.Check{
					core.ChildOf(schema.TopicModulesSheet),
					core.CoveredBy(schema.TopicQuestionsSheet),
				},
			},
			{
				Name:      schema.TopicQuestionsSheet,
				HeaderRow: 0,
				Columns:   schema.TopicQuestionsColumns,
				Rows:      core.AtLeast(1),
				IDColumn:  schema.TopicReferenceID,
				IDPattern: schema.QuestionIDPattern,
				Checks: []core.Check{
					core.ChildOf(schema.TopicExercisesSheet),
					core.FilledWhen(schema.TopicOptionHeader, schema.TopicOptionA),
					core.ValuesIn("answer", schema.TopicAnswer, schema.AnswerValuePattern, false),
					answerHasOption(schema.TopicAnswer),
				},
			},
		},
		Common: []core.Check{urlShape, oneLevel, levelRange},
	})
}
