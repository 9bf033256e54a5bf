package sheet

import (
	"errors"
	"reflect"
	"testing"
)

func questionsTable() *Table {
	return NewTable("Questions", []string{
		"*Question ID (<Exercise ID>.<order>)",
		"*Description",
		"Image URL",
		"Option Header",
		"Option A",
		"Option B",
		"*Answer",
		"Feedback for Correct Answer",
		"Feedback for Incorrect Answer",
	})
}

func TestResolve(t *testing.T) {
	tbl := questionsTable()

	tests := []struct {
		name    string
		pattern string
		want    string
		wantErr error
	}{
		{"substring match", "question id", "*Question ID (<Exercise ID>.<order>)", nil},
		{"case insensitive", "IMAGE url", "Image URL", nil},
		{"anchored pattern", "^option a", "Option A", nil},
		{"escaped marker", `\*answer`, "*Answer", nil},
		{"not found", "solution id", "", ErrColumnNotFound},
		{"ambiguous", "feedback", "", ErrAmbiguousColumn},
		{"ambiguous options", "^option", "", ErrAmbiguousColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tbl, tt.pattern)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.pattern, err, tt.wantErr)
				}
				var colErr *ColumnError
				if !errors.As(err, &colErr) {
					t.Fatalf("Resolve(%q) error type = %T, want *ColumnError", tt.pattern, err)
				}
				if colErr.Pattern != tt.pattern {
					t.Errorf("ColumnError.Pattern = %q, want %q", colErr.Pattern, tt.pattern)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.pattern, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestResolve_AmbiguousListsMatches(t *testing.T) {
	_, err := Resolve(questionsTable(), "feedback")
	var colErr *ColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("error type = %T, want *ColumnError", err)
	}
	want := []string{"Feedback for Correct Answer", "Feedback for Incorrect Answer"}
	if !reflect.DeepEqual(colErr.Matches, want) {
		t.Errorf("Matches = %q, want %q", colErr.Matches, want)
	}
}

func TestResolveAll(t *testing.T) {
	tbl := questionsTable()

	if got := ResolveAll(tbl, "learning material id"); got != nil {
		t.Errorf("ResolveAll(no match) = %q, want nil", got)
	}

	got := ResolveAll(tbl, "^option")
	want := []string{"Option Header", "Option A", "Option B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveAll(^option) = %q, want %q", got, want)
	}
}

func TestPattern_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Pattern with invalid regexp did not panic")
		}
	}()
	Pattern("(unclosed")
}
