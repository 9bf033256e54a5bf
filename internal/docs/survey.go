package docs

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/schema"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// Survey is the single document built from a survey workbook.
type Survey struct {
	ID          string          `json:"_id"`
	DocType     string          `json:"docType"`
	OrgID       string          `json:"orgId"`
	SurveyType  string          `json:"surveyType"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Sections    []SurveySection `json:"sections"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   *int64          `json:"updatedAt"`
	IsActive    bool            `json:"isActive"`
}

type SurveySection struct {
	ReferenceID string           `json:"referenceId"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Questions   []SurveyQuestion `json:"questions"`
}

// SurveyQuestion is a question shown in a survey section. Open questions
// carry neither option header nor options.
type SurveyQuestion struct {
	QuestionType              string   `json:"questionType"`
	Description               string   `json:"description"`
	ReferenceID               string   `json:"referenceId"`
	IsSelfAssessmentStatement bool     `json:"isSelfAssessmentStatement"`
	ExpectedInputType         string   `json:"expectedInputType"`
	OptionHeader              *string  `json:"optionHeader"`
	Options                   []Option `json:"options"`
}

// DefaultSurveyOptionHeader is used for select questions without header.
const DefaultSurveyOptionHeader = "Please select an answer below:"

// statementSection is a section whose questions come from stored
// self-assessment statements.
type statementSection struct {
	index     int
	scope     string
	scopeName string
}

func buildSurvey(ctx context.Context, wb *sheet.Workbook, opts Options) (*Bundle, error) {
	r, err := sheetRows(wb, schema.SurveySheet)
	if err != nil {
		return nil, err
	}
	now := opts.millis()
	orgID := r.text(0, schema.Exact(schema.SurveyOrgID))
	surveyType := r.text(0, schema.Exact(schema.SurveyType))
	s := Survey{
		ID:          orgID + "-" + surveyType + ":" + strconv.FormatInt(now, 10),
		DocType:     TypeSurvey,
		OrgID:       orgID,
		SurveyType:  surveyType,
		Name:        r.cell(0, schema.Exact(schema.SurveyName)).String(),
		Description: r.cell(0, schema.Exact(schema.SurveyDescription)).String(),
		CreatedAt:   now,
		IsActive:    true,
	}
	if r.err != nil {
		return nil, r.err
	}

	sections, fromStatements, err := surveySections(wb)
	if err != nil {
		return nil, err
	}
	questions, err := surveyQuestions(wb)
	if err != nil {
		return nil, err
	}
	for i := range sections {
		sections[i].Questions = []SurveyQuestion{}
		for _, q := range questions {
			if section, _, _ := strings.Cut(q.ReferenceID, "."); section == sections[i].ReferenceID {
				sections[i].Questions = append(sections[i].Questions, q)
			}
		}
	}

	if len(fromStatements) > 0 {
		if err := assignStatementQuestions(ctx, opts.Statements, sections, fromStatements); err != nil {
			return nil, err
		}
	}
	s.Sections = sections

	b := &Bundle{}
	if err := b.add(s); err != nil {
		return nil, err
	}
	return b, nil
}

// surveySections reads the Sections sheet sorted by reference id, together
// with the sections that take their questions from statements.
func surveySections(wb *sheet.Workbook) ([]SurveySection, []statementSection, error) {
	r, err := sheetRows(wb, schema.SurveySectionsSheet)
	if err != nil {
		return nil, nil, err
	}

	type row struct {
		section SurveySection
		from    *statementSection
	}
	all := make([]row, 0, r.len())
	for i := 0; i < r.len(); i++ {
		sr := row{section: SurveySection{
			ReferenceID: r.text(i, schema.Exact(schema.SectionReferenceID)),
			Name:        r.cell(i, schema.Exact(schema.SectionName)).String(),
			Description: r.nullable(i, schema.Exact(schema.SectionDescription)),
		}}
		if r.cell(i, schema.Exact(schema.SectionFromSA)).Truthy() {
			sr.from = &statementSection{
				scope:     strings.ToLower(r.text(i, schema.Exact(schema.SectionSAScope))),
				scopeName: r.text(i, schema.Exact(schema.SectionSAScopeName)),
			}
		}
		all = append(all, sr)
	}
	if r.err != nil {
		return nil, nil, r.err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].section.ReferenceID < all[j].section.ReferenceID })

	sections := make([]SurveySection, len(all))
	var from []statementSection
	for i, sr := range all {
		sections[i] = sr.section
		if sr.from != nil {
			sr.from.index = i
			from = append(from, *sr.from)
		}
	}
	return sections, from, nil
}

// surveyQuestions reads the Questions sheet sorted by reference id.
func surveyQuestions(wb *sheet.Workbook) ([]SurveyQuestion, error) {
	r, err := sheetRows(wb, schema.SurveyQuestionsSheet)
	if err != nil {
		return nil, err
	}
	out := make([]SurveyQuestion, 0, r.len())
	for i := 0; i < r.len(); i++ {
		q := SurveyQuestion{
			QuestionType:      r.text(i, schema.Exact(schema.QuestionType)),
			Description:       r.cell(i, schema.Exact(schema.QuestionDescription)).String(),
			ReferenceID:       r.text(i, schema.Exact(schema.QuestionReferenceID)),
			ExpectedInputType: r.text(i, schema.Exact(schema.QuestionExpectedType)),
		}
		if q.QuestionType != schema.QuestionOpen {
			q.OptionHeader = r.nullable(i, schema.Exact(schema.QuestionOptionHeader))
			if q.OptionHeader == nil {
				header := DefaultSurveyOptionHeader
				q.OptionHeader = &header
			}
			q.Options = []Option{}
			for _, col := range schema.QuestionOptionColumns {
				c := r.cell(i, schema.Exact(col))
				if c.IsEmpty() {
					continue
				}
				q.Options = append(q.Options, Option{Label: c.String(), Value: c.String()})
			}
		}
		out = append(out, q)
	}
	if r.err != nil {
		return nil, r.err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReferenceID < out[j].ReferenceID })
	return out, nil
}
