package docs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/contentsheet/internal/schema"
	"github.com/JonMunkholm/contentsheet/internal/sheet"
)

// CaseStudyConfig is the config document of a case study.
type CaseStudyConfig struct {
	ID               string   `json:"_id"`
	DocType          string   `json:"docType"`
	OrganizationName string   `json:"organizationName"`
	OrgID            string   `json:"orgId"`
	SpreadSheetRefID string   `json:"spreadSheetRefId"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Objectives       *string  `json:"objectives"`
	Tags             []string `json:"tags"`
}

// CaseStudyMaterial is an additional learning material of a case study.
type CaseStudyMaterial struct {
	ID                        string  `json:"_id"`
	DocType                   string  `json:"docType"`
	Format                    string  `json:"format"`
	SourceURL                 string  `json:"sourceUrl"`
	Level                     *int    `json:"level"`
	Name                      string  `json:"name"`
	Description               *string `json:"description"`
	LearningModuleReferenceID *string `json:"learningModuleReferenceId"`
	TopicConfigID             *string `json:"topicConfigId"`
	ParentID                  string  `json:"parentId"`
	SpreadSheetRefID          string  `json:"spreadSheetRefId"`
}

// Section is a case study section with its content elements.
type Section struct {
	ID               string           `json:"_id"`
	DocType          string           `json:"docType"`
	ParentID         string           `json:"parentId"`
	SpreadSheetRefID string           `json:"spreadSheetRefId"`
	Name             string           `json:"name"`
	Description      *string          `json:"description"`
	Objectives       *string          `json:"objectives"`
	HasExercises     bool             `json:"hasExercises"`
	ContentElements  []ContentElement `json:"contentElements"`
}

// ContentElement is one row of section content.
type ContentElement struct {
	ParentID                      string   `json:"parentId"`
	SpreadSheetRefID              string   `json:"spreadSheetRefId"`
	ContentElementType            string   `json:"contentElementType"`
	Description                   *string  `json:"description"`
	SourceURL                     *string  `json:"sourceUrl"`
	AdditionalLearningMaterialIDs []string `json:"additionalLearningMaterialIds"`
}

// CaseStudyExercise is an exercise of a case study section.
type CaseStudyExercise struct {
	ID                            string              `json:"_id"`
	DocType                       string              `json:"docType"`
	Name                          string              `json:"name"`
	Description                   *string             `json:"description"`
	Objectives                    *string             `json:"objectives"`
	Level                         *int                `json:"level"`
	Questions                     []CaseStudyQuestion `json:"questions"`
	ParentID                      string              `json:"parentId"`
	SpreadSheetRefID              string              `json:"spreadSheetRefId"`
	TopicConfigID                 *string             `json:"topicConfigId"`
	LearningModuleReferenceID     *string             `json:"learningModuleReferenceId"`
	SolutionID                    *string             `json:"solutionId"`
	AdditionalLearningMaterialIDs []string            `json:"additionalLearningMaterialIds"`
}

// Option is one answer option of a question.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Question is a multiple choice question.
type Question struct {
	ReferenceID                string   `json:"referenceId"`
	Description                string   `json:"description"`
	ImageURL                   *string  `json:"imageUrl"`
	OptionHeader               *string  `json:"optionHeader"`
	Options                    []Option `json:"options"`
	Answer                     *Option  `json:"answer"`
	FeedbackForCorrectAnswer   *string  `json:"feedbackForCorrectAnswer"`
	FeedbackForIncorrectAnswer *string  `json:"feedbackForIncorrectAnswer"`
}

// CaseStudyQuestion adds material and tag references to a question.
type CaseStudyQuestion struct {
	Question
	AdditionalLearningMaterialID *string  `json:"additionalLearningMaterialId"`
	Tags                         []string `json:"tags"`
}

// DefaultOptionHeader is shown above question options when the sheet
// leaves the header blank.
const DefaultOptionHeader = "Please select your answer:"

// caseStudy holds the sheets of one case study workbook while its
// documents are built.
type caseStudy struct {
	pk        string
	materials materialIndex

	content, exercises, questions *rows
}

func buildCaseStudy(ctx context.Context, wb *sheet.Workbook, _ Options) (*Bundle, error) {
	config, err := caseStudyConfig(wb)
	if err != nil {
		return nil, err
	}
	cs := &caseStudy{pk: PartitionKey(config.ID), materials: make(materialIndex)}

	if cs.content, err = sheetRows(wb, schema.CSSectionContentSheet); err != nil {
		return nil, err
	}
	if cs.exercises, err = sheetRows(wb, schema.CSExercisesSheet); err != nil {
		return nil, err
	}
	if cs.questions, err = sheetRows(wb, schema.CSQuestionsSheet); err != nil {
		return nil, err
	}

	materials, err := cs.buildMaterials(wb)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sections, err := cs.buildSections(wb, config.ID)
	if err != nil {
		return nil, err
	}
	exercises, err := cs.buildExercises(sections)
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
	for _, s := range sections {
		if err := b.add(s); err != nil {
			return nil, err
		}
	}
	for _, e := range exercises {
		if err := b.add(e); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func caseStudyConfig(wb *sheet.Workbook) (CaseStudyConfig, error) {
	r, err := sheetRows(wb, schema.CaseStudySheet)
	if err != nil {
		return CaseStudyConfig{}, err
	}
	if r.len() == 0 {
		return CaseStudyConfig{}, fmt.Errorf("sheet %q has no rows", schema.CaseStudySheet)
	}
	orgID := r.text(0, schema.CSOrgID)
	caseStudyID := r.text(0, schema.CSCaseStudyID)
	c := CaseStudyConfig{
		ID:               orgID + "-" + caseStudyID + ":" + TypeCaseStudyConfig,
		DocType:          TypeCaseStudyConfig,
		OrganizationName: r.cell(0, schema.CSOrgName).String(),
		OrgID:            orgID,
		SpreadSheetRefID: caseStudyID,
		Name:             r.cell(0, schema.CSName).String(),
		Description:      r.cell(0, schema.CSDescription).String(),
		Objectives:       r.nullable(0, schema.CSObjectives),
		Tags:             tags(r.cell(0, schema.CSTags)),
	}
	return c, r.err
}

func (cs *caseStudy) sectionDocID(sectionRef string) string {
	return cs.pk + ":section-" + padSection(sectionRef)
}

func (cs *caseStudy) buildMaterials(wb *sheet.Workbook) ([]CaseStudyMaterial, error) {
	r, err := sheetRows(wb, schema.CSLearningMaterialSheet)
	if err != nil {
		return nil, err
	}
	out := make([]CaseStudyMaterial, 0, r.len())
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.CSMaterialID)
		sectionRef, _, _ := strings.Cut(ref, "-")
		m := CaseStudyMaterial{
			ID:               cs.pk + ":" + ref,
			DocType:          TypeMaterial,
			Format:           r.cell(i, schema.CSMaterialFormat).String(),
			SourceURL:        r.cell(i, schema.CSSourceURL).String(),
			Level:            level(r.optional(i, schema.CSMaterialLevel)),
			Name:             r.cell(i, schema.CSMaterialName).String(),
			Description:      r.nullable(i, schema.CSMaterialDescription),
			ParentID:         cs.sectionDocID(sectionRef),
			SpreadSheetRefID: ref,
		}
		cs.materials[ref] = m.ID
		out = append(out, m)
	}
	if r.err != nil {
		return nil, r.err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SpreadSheetRefID < out[j].SpreadSheetRefID })
	return out, nil
}

func (cs *caseStudy) buildSections(wb *sheet.Workbook, configID string) ([]Section, error) {
	r, err := sheetRows(wb, schema.CSSectionSheet)
	if err != nil {
		return nil, err
	}

	withExercises := make(map[string]bool)
	for i := 0; i < cs.exercises.len(); i++ {
		sectionRef, _, _ := strings.Cut(cs.exercises.text(i, schema.CSExerciseID), ".")
		withExercises[sectionRef] = true
	}

	out := make([]Section, 0, r.len())
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.CSSectionID)
		s := Section{
			ID:               cs.sectionDocID(ref),
			DocType:          TypeSection,
			ParentID:         configID,
			SpreadSheetRefID: ref,
			Name:             r.cell(i, schema.CSSectionName).String(),
			HasExercises:     withExercises[ref],
		}
		elements, err := cs.contentElements(s.ID, ref)
		if err != nil {
			return nil, err
		}
		s.ContentElements = elements
		out = append(out, s)
	}
	if r.err != nil {
		return nil, r.err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (cs *caseStudy) contentElements(sectionDocID, sectionRef string) ([]ContentElement, error) {
	r := cs.content
	prefix := sectionRef + "-content-"
	out := []ContentElement{}
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.CSContentID)
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		materials, err := cs.materials.lookup(r.cell(i, schema.CSMaterialIDs))
		if err != nil {
			return nil, fmt.Errorf("content %s: %w", ref, err)
		}
		out = append(out, ContentElement{
			ParentID:                      sectionDocID,
			SpreadSheetRefID:              ref,
			ContentElementType:            r.cell(i, schema.CSContentFormat).String(),
			Description:                   r.nullable(i, schema.CSContentDescription),
			SourceURL:                     r.nullable(i, schema.CSSourceURL),
			AdditionalLearningMaterialIDs: materials,
		})
	}
	if r.err != nil {
		return nil, r.err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SpreadSheetRefID < out[j].SpreadSheetRefID })
	return out, nil
}

func (cs *caseStudy) buildExercises(sections []Section) ([]CaseStudyExercise, error) {
	sectionIDs := make(map[string]string, len(sections))
	for _, s := range sections {
		sectionIDs[s.SpreadSheetRefID] = s.ID
	}

	r := cs.exercises
	out := make([]CaseStudyExercise, 0, r.len())
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.CSExerciseID)
		sectionRef, _, _ := strings.Cut(ref, ".")
		parent, ok := sectionIDs[sectionRef]
		if !ok {
			return nil, fmt.Errorf("exercise %s: section %q not found", ref, sectionRef)
		}
		solution, err := cs.materials.first(r.cell(i, schema.CSSolutionID))
		if err != nil {
			return nil, fmt.Errorf("exercise %s: %w", ref, err)
		}
		materials, err := cs.materials.lookup(r.cell(i, schema.CSMaterialIDs))
		if err != nil {
			return nil, fmt.Errorf("exercise %s: %w", ref, err)
		}
		questions, err := cs.exerciseQuestions(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, CaseStudyExercise{
			ID:                            cs.pk + ":" + padExercise(ref),
			DocType:                       TypeExercise,
			Name:                          r.cell(i, schema.CSExerciseName).String(),
			Description:                   r.nullable(i, schema.CSExerciseDescription),
			Objectives:                    r.nullable(i, schema.CSExerciseObjectives),
			Level:                         level(r.cell(i, schema.CSExerciseLevel)),
			Questions:                     questions,
			ParentID:                      parent,
			SpreadSheetRefID:              ref,
			SolutionID:                    solution,
			AdditionalLearningMaterialIDs: materials,
		})
	}
	if r.err != nil {
		return nil, r.err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SpreadSheetRefID < out[j].SpreadSheetRefID })
	return out, nil
}

func (cs *caseStudy) exerciseQuestions(exerciseRef string) ([]CaseStudyQuestion, error) {
	r := cs.questions
	prefix := exerciseRef + "."
	out := []CaseStudyQuestion{}
	for i := 0; i < r.len(); i++ {
		ref := r.text(i, schema.CSQuestionID)
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		material, err := cs.materials.first(r.cell(i, schema.CSQuestionMaterialID))
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", ref, err)
		}

		q := Question{
			ReferenceID:                ref,
			Description:                r.cell(i, schema.CSQuestionDescription).String(),
			ImageURL:                   r.nullable(i, schema.CSImageURL),
			OptionHeader:               r.nullable(i, schema.CSOptionHeader),
			Options:                    []Option{},
			FeedbackForCorrectAnswer:   r.nullable(i, schema.CSFeedbackCorrect),
			FeedbackForIncorrectAnswer: r.nullable(i, schema.CSFeedbackIncorrect),
		}
		for _, label := range schema.AnswerLabels {
			c := r.cell(i, schema.OptionColumn(label))
			if !c.IsEmpty() {
				q.Options = append(q.Options, Option{Label: label, Value: c.String()})
			}
		}
		if answer := r.text(i, schema.CSAnswer); answer != "" {
			for _, o := range q.Options {
				if o.Label == answer {
					q.Answer = &o
					break
				}
			}
		}
		if len(q.Options) > 0 && q.OptionHeader == nil {
			header := DefaultOptionHeader
			q.OptionHeader = &header
		}

		out = append(out, CaseStudyQuestion{
			Question:                     q,
			AdditionalLearningMaterialID: material,
			Tags:                         tags(r.cell(i, schema.CSQuestionTags)),
		})
	}
	if r.err != nil {
		return nil, r.err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReferenceID < out[j].ReferenceID })
	return out, nil
}
