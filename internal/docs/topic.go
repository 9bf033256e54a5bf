package docs

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/schema"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// TopicConfig is the config document of a learning topic.
type TopicConfig struct {
	ID               string           `json:"_id"`
	DocType          string           `json:"docType"`
	OrganizationName string           `json:"organizationName"`
	OrgID            string           `json:"orgId"`
	TopicID          string           `json:"topicId"`
	Name             string           `json:"name"`
	Description      *string          `json:"description"`
	Objectives       *string          `json:"objectives"`
	LearningModules  []LearningModule `json:"learningModules"`
	IsAvailable      bool             `json:"isAvailable"`
	Tags             []string         `json:"tags"`
}

// LearningModule groups the materials and exercises of a topic.
type LearningModule struct {
	ReferenceID string  `json:"referenceId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Objectives  *string `json:"objectives"`
}

// TopicMaterial is a learning material of a topic module.
type TopicMaterial struct {
	ID                        string  `json:"_id"`
	DocType                   string  `json:"docType"`
	Format                    string  `json:"format"`
	SourceURL                 string  `json:"sourceUrl"`
	Level                     *int    `json:"level"`
	Name                      string  `json:"name"`
	Description               *string `json:"description"`
	LearningModuleReferenceID string  `json:"learningModuleReferenceId"`
	TopicConfigID             string  `json:"topicConfigId"`
}

// TopicExercise is an exercise of a topic module.
type TopicExercise struct {
	ID                        string     `json:"_id"`
	DocType                   string     `json:"docType"`
	Name                      string     `json:"name"`
	Description               *string    `json:"description"`
	Objectives                *string    `json:"objectives"`
	Level                     *int       `json:"level"`
	Questions                 []Question `json:"questions"`
	LearningModuleReferenceID string     `json:"learningModuleReferenceId"`
	TopicConfigID             string     `json:"topicConfigId"`
}

// Statement is a self-assessment statement about an exercise.
type Statement struct {
	ID          string `json:"_id"`
	DocType     string `json:"docType"`
	Description string `json:"description"`
	Scope       string `json:"scope"`
	ScopeRefID  string `json:"scopeRefId"`
	ScopeName   string `json:"scopeName"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   *int64 `json:"updatedAt"`
	IsActive    bool   `json:"isActive"`
}

// ScopeExercise is the only statement scope produced from workbooks.
const ScopeExercise = "exercise"

var optionLabel = regexp.MustCompile(schema.TopicOptionLabelPattern)

type topic struct {
	pk       string
	configID string
}

func buildTopic(ctx context.Context, wb *sheet.Workbook, opts Options) (*Bundle, error) {
	config, err := topicConfig(wb)
	if err != nil {
		return nil, err
	}
	tp := topic{pk: PartitionKey(config.ID), configID: config.ID}

	if config.LearningModules, err = tp.modules(wb); err != nil {
		return nil, err
	}
	materials, err := tp.materials(wb)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	exercises, err := tp.exercises(wb)
	if err != nil {
		return nil, err
	}
	statements, err := tp.statements(wb, opts.millis())
	if err != nil {
		return nil, err
	}

	b := &Bundle{}
	if err := b.add(config); err != nil {
		return nil, err
	}
	for _, m := range materials {
		if err := b.add(m); err != nil {
			return nil, err
		}
	}
	for _, e := range exercises {
		if err := b.add(e); err != nil {
			return nil, err
		}
	}
	for _, s := range statements {
		if err := b.add(s); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func topicConfig(wb *sheet.Workbook) (TopicConfig, error) {
	r, err := sheetRows(wb, schema.TopicSheet)
	if err != nil {
		return TopicConfig{}, err
	}
	if r.len() == 0 {
		return TopicConfig{}, fmt.Errorf("sheet %q has no rows", schema.TopicSheet)
	}
	orgID := r.text(0, schema.TopicOrgID)
	topicID := r.text(0, schema.TopicID)
	c := TopicConfig{
		ID:               orgID + "-" + topicID + ":" + TypeTopicConfig,
		DocType:          TypeTopicConfig,
		OrganizationName: r.cell(0, schema.TopicOrgName).String(),
		OrgID:            orgID,
		TopicID:          topicID,
		Name:             r.cell(0, schema.TopicName).String(),
		Description:      r.nullable(0, schema.TopicDescription),
		Objectives:       r.nullable(0, schema.TopicObjectives),
		LearningModules:  []LearningModule{},
		IsAvailable:      true,
		Tags:             tags(r.cell(0, schema.TopicTags)),
	}
	if available := r.cell(0, schema.TopicAvailable); !available.IsEmpty() {
		c.IsAvailable = available.Truthy()
	}
	return c, r.err
}

func (tp topic) moduleRef(ref string) string {
	return tp.pk + ":module-" + ref
}

func (tp topic) modules(wb *sheet.Workbook) ([]LearningModule, error) {
	r, err := sheetRows(wb, schema.TopicModulesSheet)
	if err != nil {
		return nil, err
	}
	out := make([]LearningModule, 0, r.len())
	for i := 0; i < r.len(); i++ {
		out = append(out, LearningModule{
			ReferenceID: tp.moduleRef(r.text(i, schema.TopicReferenceID)),
			Name:        r.cell(i, schema.TopicModuleName).String(),
			Description: r.nullable(i, schema.TopicModuleDescription),
			Objectives:  r.nullable(i, schema.TopicModuleObjectives),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReferenceID < out[j].ReferenceID })
	return out, r.err
}

func (tp topic) materials(wb *sheet.Workbook) ([]TopicMaterial, error) {
	r, err := sheetRows(wb, schema.TopicMaterialsSheet)
	if err != nil {
		return nil, err
	}
	out := make([]TopicMaterial, 0, r.len())
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.TopicReferenceID)
		module, _, _ := strings.Cut(ref, "-")
		out = append(out, TopicMaterial{
			ID:                        tp.pk + ":" + ref,
			DocType:                   TypeMaterial,
			Format:                    r.cell(i, schema.TopicMaterialFormat).String(),
			SourceURL:                 r.cell(i, schema.TopicMaterialSourceURL).String(),
			Level:                     level(r.cell(i, schema.TopicMaterialLevel)),
			Name:                      r.cell(i, schema.TopicMaterialName).String(),
			Description:               r.nullable(i, schema.TopicMaterialDescription),
			LearningModuleReferenceID: tp.moduleRef(module),
			TopicConfigID:             tp.configID,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, r.err
}

func (tp topic) exercises(wb *sheet.Workbook) ([]TopicExercise, error) {
	r, err := sheetRows(wb, schema.TopicExercisesSheet)
	if err != nil {
		return nil, err
	}
	questions, err := topicQuestions(wb)
	if err != nil {
		return nil, err
	}

	out := make([]TopicExercise, 0, r.len())
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.TopicReferenceID)
		module, _, _ := strings.Cut(ref, ".")
		qs := questions[ref]
		if qs == nil {
			qs = []Question{}
		}
		out = append(out, TopicExercise{
			ID:                        tp.pk + ":" + ref,
			DocType:                   TypeExercise,
			Name:                      r.cell(i, schema.TopicExerciseName).String(),
			Description:               r.nullable(i, schema.TopicExerciseDescription),
			Objectives:                r.nullable(i, schema.TopicExerciseObjectives),
			Level:                     level(r.cell(i, schema.TopicExerciseLevel)),
			Questions:                 qs,
			LearningModuleReferenceID: tp.moduleRef(module),
			TopicConfigID:             tp.configID,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, r.err
}

// exerciseRef returns the exercise part of a question reference:
// "1.2.03" belongs to exercise "1.2".
func exerciseRef(questionRef string) string {
	parts := strings.SplitN(questionRef, ".", 3)
	if len(parts) < 2 {
		return questionRef
	}
	return parts[0] + "." + parts[1]
}

// topicQuestions reads the Questions sheet grouped by exercise reference,
// each group sorted by question reference.
func topicQuestions(wb *sheet.Workbook) (map[string][]Question, error) {
	r, err := sheetRows(wb, schema.TopicQuestionsSheet)
	if err != nil {
		return nil, err
	}
	byExercise := make(map[string][]Question)
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.TopicReferenceID)
		if ref == "" {
			continue
		}
		q := Question{
			ReferenceID:                ref,
			Description:                r.cell(i, schema.TopicQuestionDescription).String(),
			ImageURL:                   r.nullable(i, schema.TopicImageURL),
			OptionHeader:               r.nullable(i, schema.TopicOptionHeader),
			Options:                    []Option{},
			FeedbackForCorrectAnswer:   r.nullable(i, schema.TopicFeedbackCorrect),
			FeedbackForIncorrectAnswer: r.nullable(i, schema.TopicFeedbackIncorrect),
		}
		if q.OptionHeader == nil {
			header := DefaultOptionHeader
			q.OptionHeader = &header
		}
		// Labels follow the order of the filled option cells, not their
		// columns.
		for _, label := range schema.AnswerLabels {
			c := r.cell(i, schema.OptionColumn(label))
			if c.IsEmpty() {
				continue
			}
			value := optionLabel.ReplaceAllString(strings.TrimSpace(c.String()), "")
			q.Options = append(q.Options, Option{
				Label: schema.AnswerLabels[len(q.Options)],
				Value: value,
			})
		}
		if n := answerIndex(r.text(i, schema.TopicAnswer)); n < len(q.Options) {
			q.Answer = &q.Options[n]
		}
		byExercise[exerciseRef(ref)] = append(byExercise[exerciseRef(ref)], q)
	}
	for _, qs := range byExercise {
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].ReferenceID < qs[j].ReferenceID })
	}
	return byExercise, r.err
}

// answerIndex maps an answer letter to its option position. Anything but
// B, C or D selects the first option.
func answerIndex(answer string) int {
	switch answer {
	case "B":
		return 1
	case "C":
		return 2
	case "D":
		return 3
	default:
		return 0
	}
}

// statements creates a self-assessment statement for every exercise row
// that names one.
func (tp topic) statements(wb *sheet.Workbook, now int64) ([]Statement, error) {
	r, err := sheetRows(wb, schema.TopicExercisesSheet)
	if err != nil {
		return nil, err
	}
	var out []Statement
	for i := 0; i < r.len(); i++ {
		text := strings.TrimSpace(r.optional(i, schema.TopicExerciseStatement).String())
		name := r.cell(i, schema.TopicExerciseName).String()
		ref := r.text(i, schema.TopicReferenceID)
		if text == "" || name == "" || ref == "" {
			continue
		}
		exerciseID := tp.pk + ":" + ref
		out = append(out, Statement{
			ID:          tp.pk + ":sas_" + ScopeExercise + "_" + exerciseID + "_" + strconv.FormatInt(now, 10),
			DocType:     TypeStatement,
			Description: text,
			Scope:       ScopeExercise,
			ScopeRefID:  exerciseID,
			ScopeName:   name,
			CreatedAt:   now,
			IsActive:    true,
		})
	}
	return out, r.err
}
