package docs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/schema"
)

// StatementSource looks up stored documents by type. The store satisfies
// it.
type StatementSource interface {
	FindByType(ctx context.Context, docType string) ([]Doc, error)
}

var (
	ErrNoStatementSource = errors.New("survey needs stored self-assessment statements but no store is configured")
	ErrNoStatements      = errors.New("Found no self-assessment statements in the database. " +
		"Please check if the target database name is set correctly in the .env file. " +
		"Or create those questions to the excel file.")
	ErrNoTopics = errors.New("No topics are found in the database")
)

const likertHeader = "Regarding the statement, please select from Strongly disagree to Strongly agreed (1-5):"

var likertLabels = []string{
	"Strongly disagree (1)",
	"Disagree (2)",
	"Neither agree nor disagree (3)",
	"Agree (4)",
	"Strongly agree (5)",
}

// statementQuestion turns a stored statement into a five point Likert
// question. The statement id becomes the question's reference id.
func statementQuestion(statement Doc) SurveyQuestion {
	header := likertHeader
	options := make([]Option, len(likertLabels))
	for i, label := range likertLabels {
		options[i] = Option{Label: label, Value: strconv.Itoa(i + 1)}
	}
	return SurveyQuestion{
		QuestionType:              schema.QuestionSingleSelect,
		Description:               statement.String("description"),
		ReferenceID:               statement.ID(),
		IsSelfAssessmentStatement: true,
		ExpectedInputType:         "number",
		OptionHeader:              &header,
		Options:                   options,
	}
}

// assignStatementQuestions fills the given sections with questions built
// from active exercise statements: every statement for scope "all", the
// statements of the named topic for scope "topic".
func assignStatementQuestions(ctx context.Context, src StatementSource, sections []SurveySection, from []statementSection) error {
	if src == nil {
		return ErrNoStatementSource
	}
	stored, err := src.FindByType(ctx, TypeStatement)
	if err != nil {
		return fmt.Errorf("find self-assessment statements: %w", err)
	}
	var questions []SurveyQuestion
	for _, d := range stored {
		if d.Active() && d.String("scope") == ScopeExercise {
			questions = append(questions, statementQuestion(d))
		}
	}
	if len(questions) == 0 {
		return ErrNoStatements
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].ReferenceID < questions[j].ReferenceID })

	topics, err := src.FindByType(ctx, TypeTopicConfig)
	if err != nil {
		return fmt.Errorf("find topics: %w", err)
	}
	if len(topics) == 0 {
		return ErrNoTopics
	}

	for _, s := range from {
		section := &sections[s.index]
		switch s.scope {
		case schema.ScopeAll:
			section.Questions = append([]SurveyQuestion(nil), questions...)
		case schema.ScopeTopic:
			topicID := topicByName(topics, s.scopeName)
			if topicID == "" {
				return fmt.Errorf("The section SA scope is topic but the SA scope name %q cannot be found "+
					"in the existing topic names. Please update the section SA scope name.", s.scopeName)
			}
			pk := PartitionKey(topicID)
			section.Questions = []SurveyQuestion{}
			for _, q := range questions {
				if PartitionKey(q.ReferenceID) == pk {
					section.Questions = append(section.Questions, q)
				}
			}
			if len(section.Questions) == 0 {
				return fmt.Errorf("There is no SA questions for the section %q, please create SA statements "+
					"first or remove the survey section from the survey excel file.", s.scopeName)
			}
		}
	}
	return nil
}

// topicByName returns the id of the first topic whose name matches,
// ignoring case and surrounding space.
func topicByName(topics []Doc, name string) string {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, t := range topics {
		if strings.ToLower(strings.TrimSpace(t.String("name"))) == want {
			return t.ID()
		}
	}
	return ""
}

// MergeStatements reconciles the statements of a topic upload with the
// statements already stored under the topic's partition key and returns
// the documents to write:
//
//   - a parsed statement whose exercise already has one takes over the
//     stored id and creation time, and records its own creation time as
//     the update time
//   - an active stored statement that no parsed statement replaces is
//     deactivated at nowMillis
//   - other parsed statements are new
//
// Inputs are not modified.
func MergeStatements(parsed, existing []Doc, nowMillis int64) []Doc {
	out := make([]Doc, 0, len(parsed)+len(existing))
	replaced := make(map[string]bool, len(existing))

	for _, old := range existing {
		ref := old.String("scopeRefId")
		p := findByScopeRef(parsed, ref)
		if p == nil {
			if !old.Active() {
				continue
			}
			d := old.Clone()
			d["isActive"] = false
			d["updatedAt"] = nowMillis
			out = append(out, d)
			continue
		}
		if replaced[ref] {
			continue
		}
		replaced[ref] = true
		d := p.Clone()
		d["_id"] = old.ID()
		d["updatedAt"] = p["createdAt"]
		d["createdAt"] = old["createdAt"]
		out = append(out, d)
	}

	for _, p := range parsed {
		if !replaced[p.String("scopeRefId")] {
			out = append(out, p.Clone())
		}
	}
	return out
}

func findByScopeRef(docs []Doc, ref string) Doc {
	for _, d := range docs {
		if d.String("scopeRefId") == ref {
			return d
		}
	}
	return nil
}
