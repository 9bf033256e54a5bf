package schema

// Learning topic sheets, in validation order.
const (
	TopicSheet            = "Topic"
	TopicModulesSheet     = "Learning Modules"
	TopicMaterialsSheet   = "Learning Materials"
	TopicExercisesSheet   = "Exercises"
	TopicQuestionsSheet   = "Questions"
	TopicReferenceID      = `reference id`
	TopicMaterialIDSuffix = `-mat-([1-9])`
)

// Topic sheet.
var TopicColumns = []string{
	`organization name`, `org id`, `topic id`, `topic name`, `description`, `objectives`, `available`, `tags`,
}

const (
	TopicOrgName     = `organization name`
	TopicOrgID       = `org id`
	TopicID          = `topic id`
	TopicName        = `topic name`
	TopicDescription = `description`
	TopicObjectives  = `objectives`
	TopicAvailable   = `available`
	TopicTags        = `tags`
)

// Learning Modules sheet.
var TopicModulesColumns = []string{`learning module name`, `reference id`, `description`, `objectives`}

const (
	TopicModuleName        = `learning module name`
	TopicModuleDescription = `description`
	TopicModuleObjectives  = `objectives`
)

// Learning Materials sheet.
var TopicMaterialsColumns = []string{
	`learning material name`, `description`, `source url`, `level`, `format`, `reference id`,
}

const (
	TopicMaterialIDPattern   = SectionIDPattern + TopicMaterialIDSuffix
	TopicMaterialName        = `learning material name`
	TopicMaterialDescription = `description`
	TopicMaterialSourceURL   = `source url`
	TopicMaterialLevel       = `level`
	TopicMaterialFormat      = `format`
)

// Exercises sheet.
var TopicExercisesColumns = []string{
	`exercise name`, `description`, `objective`, `level`, `reference id`, `self-assessment statement`,
}

const (
	TopicExerciseName        = `exercise name`
	TopicExerciseDescription = `description`
	TopicExerciseObjectives  = `objective`
	TopicExerciseLevel       = `level`
	TopicExerciseStatement   = `self-assessment statement`
)

// Questions sheet.
var TopicQuestionsColumns = []string{
	`reference id`, `description`, `image url`, `option header`,
	`option a`, `option b`, `option c`, `option d`, `answer`,
	`feedback for correct`, `feedback for incorrect`,
}

const (
	TopicQuestionDescription = `description`
	TopicImageURL            = `image url`
	TopicOptionHeader        = `^option header`
	TopicOptionA             = `^option a`
	TopicAnswer              = `^\*?answer`
	TopicFeedbackCorrect     = `feedback for correct`
	TopicFeedbackIncorrect   = `feedback for incorrect`

	// TopicOptionLabelPattern is stripped from the start of option text.
	TopicOptionLabelPattern = `^[A-D]\)\s*`
)
