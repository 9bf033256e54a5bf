package sheettest

import "github.com/JonMunkholm/contentsheet/internal/schema"

// CaseStudy returns a valid case study workbook with two sections, three
// content rows, two exercises with one question each and two learning
// materials.
func CaseStudy() *Fixture {
	return New("case-study.xlsx").
		AddSheet(schema.CaseStudySheet,
			[]string{"*Organization Name", "*Org ID", "*Case Study ID", "*Name", "*Description", "Objectives", "Tags"},
			[]any{"Acme", "acme", "cs1", "Supply Chain", "Run a supply chain", "Plan stock", "ops, logistics"},
			[]any{nil, nil, nil, nil, nil, "Comment: objectives are shown to learners", nil},
		).
		AddSheet(schema.CSSectionSheet,
			[]string{"*Section Name", "*Section ID"},
			[]any{"Intro", 1},
			[]any{"Deep dive", 2},
		).
		AddSheet(schema.CSSectionContentSheet,
			[]string{"*Section Content Format", "Description", "Source URL", "Additional Learning Material IDs", "*Content ID"},
			[]any{"text", "Welcome", nil, nil, "1-content-01"},
			[]any{"video", "Warehouse tour", "https://example.com/v.mp4", nil, "2-content-01"},
			[]any{"list of additional learning materials", "Reading", nil, "1-mat-01, 2-mat-01", "2-content-02"},
		).
		AddSheet(schema.CSExercisesSheet,
			[]string{"*Exercise Name", "Description", "Objectives", "*Level", "Solution ID", "Additional Learning Material IDs", "*Exercise ID"},
			[]any{"Stock check", "Count the stock", "Counting", 1, "1-mat-01", nil, "1.1"},
			[]any{"Routing", nil, nil, 3, nil, "2-mat-01", "2.1"},
		).
		AddSheet(schema.CSQuestionsSheet,
			[]string{
				"*Question ID", "*Description", "Image URL", "Option Header", "Option A", "Option B",
				"Option C", "Option D", "Answer", "Feedback for Correct Answer",
				"Feedback for Incorrect Answer", "Additional Learning Material ID", "Tags",
			},
			[]any{"1.1.01", "Is the stock right?", nil, "Choose one:", "Yes", "No", nil, nil, "A", "Well done", "Count again", nil, "stock"},
			[]any{"2.1.01", "Describe the route", nil, nil, nil, nil, nil, nil, nil, nil, nil, "2-mat-01", nil},
		).
		AddSheet(schema.CSLearningMaterialSheet,
			[]string{"*Learning Material Name", "Description", "Source URL", "*Format", "*Additional Learning Material ID"},
			[]any{"Stock guide", "How to count", "https://example.com/a.pdf", "pdf", "1-mat-01"},
			[]any{"Routing video", nil, "https://example.com/b", "video", "2-mat-01"},
		)
}

// Topic returns a valid learning topic workbook with two modules, one
// material, exercise and question per module, and one self-assessment
// statement.
func Topic() *Fixture {
	return New("topic.xlsx").
		AddSheet(schema.TopicSheet,
			[]string{
				"*Organization Name", "*Org ID", "*Topic ID", "*Topic Name",
				"Topic Description to be Displayed by the Bot", "Topic Objectives to Be Displayed",
				"Is the Topic Available for the Bot to Offer to the Learner", "Tags (optional, nouns separated by comma)",
			},
			[]any{"Acme", "acme", "sql", "SQL Basics", "Learn SQL", "Write queries", true, "sql, data"},
		).
		AddSheet(schema.TopicModulesSheet,
			[]string{
				"*Learning Module Name", "*Reference ID (1-9 if less than 10 modules, otherwise 01-xx)",
				"Description to Be Displayed", "Objectives to Be Displayed",
			},
			[]any{"Selecting", 1, "Read rows", "Use SELECT"},
			[]any{"Joining", 2, nil, nil},
		).
		AddSheet(schema.TopicMaterialsSheet,
			[]string{
				"*Learning Material Name", "*Description to Be Displayed", "*Source Url",
				"*Level (1 to 5, 1 being the easiest)", "*Format (pdf, html, or video)",
				"*Reference ID (<Learning Module Ref. ID>-mat-<order in the module, 1-9>)",
			},
			[]any{"SELECT intro", "Basics", "https://example.com/select", 1, "html", "1-mat-1"},
			[]any{"JOIN video", "Joins", "https://example.com/join", 2, "video", "2-mat-1"},
		).
		AddSheet(schema.TopicExercisesSheet,
			[]string{
				"*Exercise Name", "Description to Be Displayed Before the Exercise",
				"Objective to Be Displayed Before the Exercise", "*Level",
				"*Reference ID (<Learning Module Ref. ID>.<order in the module, 1-9>)", "Self-Assessment Statement",
			},
			[]any{"Select all", "Read a table", "Use *", 1, "1.1", "I can select rows"},
			[]any{"Inner join", nil, nil, 2, "2.1", nil},
		).
		AddSheet(schema.TopicQuestionsSheet,
			[]string{
				"*Reference ID (<Exercise Ref. ID>.<order in the exercise, 01-99>)", "*Description", "Image URL",
				"Option Header to Be Displayed (leave blank to use the default text)",
				"Option A", "Option B", "Option C", "Option D", "*Answer",
				"*Feedback for Correct Answer", "*Feedback for Incorrect Answer",
			},
			[]any{"1.1.01", "Which keyword reads rows?", nil, nil, "A) SELECT", "B) FROM", nil, nil, "A", "Yes", "Not quite"},
			[]any{"2.1.01", "Which join keeps matches only?", "https://example.com/j.png", "Pick one:", "A) OUTER", "B) INNER", "C) CROSS", nil, "B", "Right", "Try again"},
		)
}

// Survey returns a valid survey workbook: one section with sheet
// questions, one built from the statements of a topic and one built from
// every statement.
func Survey() *Fixture {
	question := func(vals ...any) []any {
		row := make([]any, len(schema.QuestionColumns))
		copy(row, vals)
		return row
	}
	return New("survey.xlsx").
		AddSheet(schema.SurveySheet, schema.SurveyColumns,
			[]any{"acme", "onboarding", "Onboarding survey", "Tell us about you"},
		).
		AddSheet(schema.SurveySectionsSheet, schema.SectionColumns,
			[]any{"About you", "Basics", false, nil, nil, false, "1"},
			[]any{"SQL skills", nil, true, "topic", "SQL Basics", true, "2"},
			[]any{"Overall", nil, true, "all", nil, true, "3"},
		).
		AddSheet(schema.SurveyQuestionsSheet, schema.QuestionColumns,
			question("1.01", "What is your role?", "singleSelect", "string", "Pick one:", "Engineer", "Analyst"),
			question("1.02", "Anything else?", "open", "string"),
		)
}
