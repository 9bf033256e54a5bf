package schema

// Survey sheets, in validation order. All three carry their header on the
// first row.
const (
	SurveySheet          = "Survey"
	SurveySectionsSheet  = "Sections"
	SurveyQuestionsSheet = "Questions"
)

// Survey sheet columns.
const (
	SurveyOrgID       = "Organization Id"
	SurveyType        = "Survey Type"
	SurveyName        = "Name (show to users)"
	SurveyDescription = "Description (show to users)"
)

var SurveyColumns = []string{SurveyOrgID, SurveyType, SurveyName, SurveyDescription}

// Sections sheet columns.
const (
	SectionName        = "Name (show to users)"
	SectionDescription = "Description (show to users)"
	SectionIsSA        = "Is Self-Assessment (SA)"
	SectionSAScope     = `SA Scope (required if Is Self-Assessment is true; ` +
		`should be one of the following value: "all" or "topic")`
	SectionSAScopeName = `SA Scope Name (required if SA Scope is not "all", e.g., topic name)`
	SectionFromSA      = "Create Questions from Existing SA Statements " +
		"(If true, do not provide questions in the Questions sheet)"
	SectionReferenceID = "Reference Id"
)

var SectionColumns = []string{
	SectionName, SectionDescription, SectionIsSA, SectionSAScope, SectionSAScopeName, SectionFromSA,
	SectionReferenceID,
}

var SectionRequired = []string{SectionName, SectionIsSA, SectionReferenceID}

// SA scopes.
const (
	ScopeAll   = "all"
	ScopeTopic = "topic"

	ScopeValuePattern = `all|topic`
)

// Questions sheet columns.
const (
	QuestionReferenceID  = "Reference Id (<Section Reference Id.xx>)"
	QuestionDescription  = "Description (show to users)"
	QuestionType         = "Question Type (If it is open, options are ignored)"
	QuestionExpectedType = "Expected Input Type (string / number / boolean, convert input to true or false)"
	QuestionOptionHeader = `Option Header (If blank, default "Please select your answer below:" ` +
		`is shown to users)`
	QuestionOption1 = "Option 1 (options will be shown to users)"
)

// QuestionOptionColumns lists Option 1 to Option 10 in order.
var QuestionOptionColumns = []string{
	QuestionOption1, "Option 2", "Option 3", "Option 4", "Option 5",
	"Option 6", "Option 7", "Option 8", "Option 9", "Option 10",
}

var QuestionColumns = append([]string{
	QuestionReferenceID, QuestionDescription, QuestionType, QuestionExpectedType, QuestionOptionHeader,
}, QuestionOptionColumns...)

var QuestionRequired = []string{QuestionReferenceID, QuestionDescription, QuestionType, QuestionExpectedType}

// Question types.
const (
	QuestionSingleSelect = "singleSelect"
	QuestionOpen         = "open"
)

// ExactAll maps Exact over names.
func ExactAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Exact(n)
	}
	return out
}
