// Package schema holds the sheet names, column name patterns, id patterns
// and allowed values of the content workbook templates. The templates are
// shared with content authors, so these strings must not change without a
// new template version.
package schema

import (
	"regexp"
	"strings"
)

// ListSeparator separates ids inside a list cell.
const ListSeparator = ","

// Id patterns shared by the case study and learning topic templates.
const (
	SectionIDPattern  = `([1-9][0-9]|[1-9]|0[1-9])`
	ExerciseIDPattern = `([1-9][0-9]|[1-9]|0[1-9])\.([1-9])`
	QuestionIDPattern = `([1-9][0-9]|[1-9]|0[1-9])\.([1-9])\.(0[1-9]|[1-9][0-9])`
)

// Cross-cutting column rules applied to every sheet of a case study or
// learning topic.
const (
	URLColumnPattern = `source url|image url`
	// URL values need only start with a scheme and a host; anything may follow.
	URLValuePattern = `(https?://)([A-Za-z0-9-]+\.)+[A-Za-z]{2,6}.*`

	LevelColumnPattern = `level`
	LevelValuePattern  = `[1-5]`
)

// Answer values shared by the question sheets.
var AnswerLabels = []string{"A", "B", "C", "D"}

const AnswerValuePattern = `[ABCD]`

// MaterialFormatPattern restricts learning material formats.
const MaterialFormatPattern = `pdf|html|video`

// Exact returns a column pattern matching exactly name, ignoring case.
// The survey template identifies columns by their full header text.
func Exact(name string) string {
	return `^` + regexp.QuoteMeta(name) + `$`
}

// ExactAny returns a column pattern matching any of names exactly.
func ExactAny(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return `^(?:` + strings.Join(quoted, "|") + `)$`
}
