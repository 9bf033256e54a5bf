package application

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/contentsheet/internal/admin"
	"github.com/JonMunkholm/contentsheet/internal/check"
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/core/kinds"
	"github.com/JonMunkholm/contentsheet/internal/docs"
	"github.com/JonMunkholm/contentsheet/internal/schema"
	"github.com/JonMunkholm/contentsheet/internal/sheet/sheettest"
	"github.com/JonMunkholm/contentsheet/internal/store"
)

var fixedNow = time.UnixMilli(1700000000000)

func writeFixture(t *testing.T, kind string, f *sheettest.Fixture) string {
	t.Helper()
	k, err := core.Lookup(kind)
	if err != nil {
		t.Fatal(err)
	}
	path, err := f.WriteXLSX(t.TempDir(), k.ReadOptions().HeaderRows)
	if err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	return path
}

func TestService_Kinds(t *testing.T) {
	s := &Service{}
	var keys []string
	for _, info := range s.Kinds() {
		keys = append(keys, info.Key)
	}
	want := []string{kinds.CaseStudy, kinds.LearningTopic, kinds.Survey}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Kinds() = %v, want %v", keys, want)
	}
}

func TestService_CheckFile(t *testing.T) {
	tests := []struct {
		kind    string
		fixture *sheettest.Fixture
	}{
		{kinds.CaseStudy, sheettest.CaseStudy()},
		{kinds.LearningTopic, sheettest.Topic()},
		{kinds.Survey, sheettest.Survey()},
	}
	s := &Service{}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			path := writeFixture(t, tt.kind, tt.fixture)
			if err := s.CheckFile(context.Background(), tt.kind, path); err != nil {
				t.Errorf("CheckFile() error = %v", err)
			}
		})
	}
}

func TestService_CheckErrors(t *testing.T) {
	s := &Service{}
	ctx := context.Background()

	invalid := writeFixture(t, kinds.CaseStudy, sheettest.CaseStudy().RemoveSheet(schema.CSSectionSheet))
	err := s.CheckFile(ctx, kinds.CaseStudy, invalid)
	ve, ok := core.AsValidationError(err)
	if !ok || ve.Kind != check.Schema {
		t.Errorf("CheckFile(missing sheet) error = %v, want schema validation error", err)
	}

	if err := s.CheckFile(ctx, "quiz", invalid); !errors.Is(err, core.ErrUnknownKind) {
		t.Errorf("CheckFile(quiz) error = %v, want ErrUnknownKind", err)
	}

	err = s.CheckFile(ctx, kinds.CaseStudy, filepath.Join(t.TempDir(), "missing.xlsx"))
	if code := core.MapError(err).Code; code != "FILE003" {
		t.Errorf("missing file maps to %s (%v), want FILE003", code, err)
	}

	_, err = s.Check(ctx, kinds.CaseStudy, strings.NewReader("name,id\n"), "sheet.csv")
	if code := core.MapError(err).Code; code != "FILE002" {
		t.Errorf("csv input maps to %s (%v), want FILE002", code, err)
	}
}

// A survey built after a topic was published picks up the topic's
// self-assessment statement from the store.
func TestService_SurveyFromPublishedTopic(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		t.Fatal(err)
	}

	s := &Service{Statements: st, Now: func() time.Time { return fixedNow }}

	topic, err := s.ParseFile(ctx, kinds.LearningTopic, writeFixture(t, kinds.LearningTopic, sheettest.Topic()))
	if err != nil {
		t.Fatalf("ParseFile(topic) error = %v", err)
	}
	p := &admin.Publisher{Store: st, Confirm: admin.AutoConfirm{}}
	if _, err := p.Publish(ctx, admin.Request{Kind: kinds.LearningTopic, Bundle: topic}); err != nil {
		t.Fatalf("Publish(topic) error = %v", err)
	}

	b, err := s.ParseFile(ctx, kinds.Survey, writeFixture(t, kinds.Survey, sheettest.Survey()))
	if err != nil {
		t.Fatalf("ParseFile(survey) error = %v", err)
	}
	if len(b.Docs) != 1 || b.Docs[0].Type() != docs.TypeSurvey {
		t.Fatalf("survey bundle = %v", b.Docs)
	}

	sections, _ := b.Docs[0]["sections"].([]any)
	if len(sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(sections))
	}
	const ref = "acme-sql:sas_exercise_acme-sql:1.1_1700000000000"
	for _, section := range sections[1:] {
		section := section.(map[string]any)
		questions := section["questions"].([]any)
		if len(questions) != 1 || questions[0].(map[string]any)["referenceId"] != ref {
			t.Errorf("section %v questions = %v, want statement %s", section["referenceId"], questions, ref)
		}
	}
}

func TestBundleName(t *testing.T) {
	tests := []struct {
		path, format, want string
	}{
		{"in/case-study.xlsx", docs.FormatJSON, "case-study.json"},
		{"topic.xlsx", docs.FormatYAML, "topic.yaml"},
		{"/tmp/survey", "", "survey.json"},
	}
	for _, tt := range tests {
		if got := BundleName(tt.path, tt.format); got != tt.want {
			t.Errorf("BundleName(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}
