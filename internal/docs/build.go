package docs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/contentsheet/internal/core/kinds"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// ErrNoBuilder is returned for a workbook kind without document builder.
var ErrNoBuilder = errors.New("no document builder for workbook kind")

// Options configures document construction.
type Options struct {
	// Now stamps createdAt fields and time based ids. Defaults to time.Now.
	Now func() time.Time
	// Statements is consulted for survey sections built from existing
	// self-assessment statements.
	Statements StatementSource
}

func (o Options) millis() int64 {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().UnixMilli()
}

type builderFunc func(ctx context.Context, wb *sheet.Workbook, opts Options) (*Bundle, error)

var builders = map[string]builderFunc{
	kinds.CaseStudy:     buildCaseStudy,
	kinds.LearningTopic: buildTopic,
	kinds.Survey:        buildSurvey,
}

// Build converts a workbook that passed validation into its documents.
// Building an unvalidated workbook may fail or produce partial documents.
func Build(ctx context.Context, kind string, wb *sheet.Workbook, opts Options) (*Bundle, error) {
	build, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoBuilder, kind)
	}
	b, err := build(ctx, wb, opts)
	if err != nil {
		return nil, fmt.Errorf("build %s documents: %w", kind, err)
	}
	return b, nil
}

var configTypes = map[string]string{
	kinds.CaseStudy:     TypeCaseStudyConfig,
	kinds.LearningTopic: TypeTopicConfig,
	kinds.Survey:        TypeSurvey,
}

// ConfigType returns the document type of a kind's config document.
func ConfigType(kind string) (string, error) {
	t, ok := configTypes[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoBuilder, kind)
	}
	return t, nil
}
