package schema

// Case study sheets, in validation order.
const (
	CaseStudySheet          = "Case Study"
	CSSectionSheet          = "Section"
	CSSectionContentSheet   = "Section Content"
	CSExercisesSheet        = "Exercises"
	CSQuestionsSheet        = "Questions"
	CSLearningMaterialSheet = "Additional Learning Material"
)

// CaseStudyConfigColumns are the columns of the Case Study sheet.
var CaseStudyConfigColumns = []string{
	`organization name`, `org id`, `case study id`, `\*name`, `description`, `objectives`, `tags`,
}

// Column patterns used to read the Case Study sheet.
const (
	CSOrgName     = `organization name`
	CSOrgID       = `org id`
	CSCaseStudyID = `case study id`
	CSName        = `^\*name`
	CSDescription = `description`
	CSObjectives  = `objective`
	CSTags        = `tags`
)

// Section sheet.
var CSSectionColumns = []string{`section name`, `section id`}

const (
	CSSectionName = `section name`
	CSSectionID   = `section id`
)

// Section Content sheet.
var CSSectionContentColumns = []string{
	`section content format`, `description`, `source url`, `additional learning material ids`, `content id`,
}

const (
	CSContentID          = `content id`
	CSContentIDPattern   = `([1-9][0-9]|[1-9]|0[1-9])-content-(0[1-9]|[1-9][0-9])`
	CSContentFormat      = `\*section content format`
	CSContentDescription = `description`
	CSSourceURL          = `source url`
	CSMaterialIDs        = `additional learning material ids`

	CSContentFormatPattern = `text|video|image|pdf|html|list of additional learning materials`
	CSMaterialListFormat   = "list of additional learning materials"
)

// CSLinkedFormats are the content formats that need a source url.
var CSLinkedFormats = []string{"video", "image", "pdf", "html"}

// Exercises sheet.
var CSExercisesColumns = []string{
	`exercise name`, `description`, `objectives`, `level`, `solution id`,
	`additional learning material ids`, `exercise id`,
}

const (
	CSExerciseID          = `exercise id`
	CSExerciseName        = `exercise name`
	CSExerciseDescription = `description`
	CSExerciseObjectives  = `objectives`
	CSExerciseLevel       = `level`
	CSSolutionID          = `solution id`
)

// Questions sheet.
var CSQuestionsColumns = []string{
	`question id`, `description`, `image url`, `option header`, `option a`, `option b`,
	`option c`, `option d`, `answer`, `feedback for correct answer`,
	`feedback for incorrect answer`, `additional learning material id`, `tags`,
}

const (
	CSQuestionID          = `question id`
	CSQuestionDescription = `description`
	CSImageURL            = `image url`
	CSOptionHeader        = `^option header`
	CSOptionA             = `^option a`
	CSAnswer              = `^answer`
	CSFeedbackCorrect     = `feedback for correct`
	CSFeedbackIncorrect   = `feedback for incorrect`
	CSQuestionMaterialID  = `additional learning material id`
	CSQuestionTags        = `tags`
)

// OptionColumn returns the column pattern of the option with the given
// answer label.
func OptionColumn(label string) string {
	return `option ` + label
}

// Additional Learning Material sheet.
var CSLearningMaterialColumns = []string{
	`learning material name`, `description`, `source url`, `format`, `additional learning material id`,
}

const (
	CSMaterialID          = `learning material id`
	CSMaterialIDPattern   = `([1-9][0-9]|[1-9]|0[1-9])-mat-(0[1-9]|[1-9][0-9])`
	CSMaterialName        = `learning material name`
	CSMaterialDescription = `description`
	CSMaterialFormat      = `format`
	CSMaterialLevel       = `level`

	// CSMaterialReference matches every column that refers to learning
	// materials from another sheet.
	CSMaterialReference = `additional learning material id`
)

// CSMaterialReferringSheets are counted when the Additional Learning
// Material sheet is empty.
var CSMaterialReferringSheets = []string{CSSectionContentSheet, CSExercisesSheet, CSQuestionsSheet}
