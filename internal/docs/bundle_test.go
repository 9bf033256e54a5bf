package docs

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func bundleOf(docs ...Doc) *Bundle { return &Bundle{Docs: docs} }

func TestBundleValidate(t *testing.T) {
	config := Doc{"_id": "acme-sql:topicConfig", "docType": TypeTopicConfig}
	material := Doc{"_id": "acme-sql:1-mat-1", "docType": TypeMaterial}

	tests := []struct {
		name    string
		bundle  *Bundle
		wantMsg string
	}{
		{"valid", bundleOf(config, material), ""},
		{"empty", bundleOf(), "no documents"},
		{"missing id", bundleOf(config, Doc{"docType": TypeMaterial}), "property _id is missing in docs[1]"},
		{"missing type", bundleOf(Doc{"_id": "acme-sql:x"}, config), "property docType is missing in docs[0]"},
		{"no config", bundleOf(material), `expect 1 doc with docType "topicConfig", but found 0`},
		{"two configs", bundleOf(config, config), "but found 2"},
		{
			"foreign partition",
			bundleOf(config, Doc{"_id": "other:1-mat-1", "docType": TypeMaterial}),
			`expect partition key "acme-sql", but found "other" instead in docs[1]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bundle.Validate(TypeTopicConfig)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrMalformedBundle) {
				t.Fatalf("Validate() error = %v, want ErrMalformedBundle", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestReadBundle(t *testing.T) {
	b, err := ReadBundle(strings.NewReader(`{"docs":[{"_id":"a:b","docType":"exercise","level":3}]}`))
	if err != nil {
		t.Fatalf("ReadBundle() error = %v", err)
	}
	if len(b.Docs) != 1 || b.PartitionKey() != "a" {
		t.Fatalf("bundle = %+v", b)
	}
	if n, ok := b.Docs[0]["level"].(json.Number); !ok || n.String() != "3" {
		t.Errorf("level = %#v, want json.Number 3", b.Docs[0]["level"])
	}

	for _, in := range []string{`{"items":[]}`, `not json`, `{"docs":[1]}`} {
		if _, err := ReadBundle(strings.NewReader(in)); !errors.Is(err, ErrMalformedBundle) {
			t.Errorf("ReadBundle(%s) error = %v, want ErrMalformedBundle", in, err)
		}
	}
}

func TestBundleEncode(t *testing.T) {
	b, err := ReadBundle(strings.NewReader(`{"docs":[{"_id":"a:b","docType":"exercise","level":3,"score":0.5}]}`))
	if err != nil {
		t.Fatal(err)
	}

	var js bytes.Buffer
	if err := b.Encode(&js, FormatJSON); err != nil {
		t.Fatalf("Encode(json) error = %v", err)
	}
	again, err := ReadBundle(&js)
	if err != nil {
		t.Fatalf("ReadBundle(encoded) error = %v", err)
	}
	if again.Docs[0].ID() != "a:b" {
		t.Errorf("round trip id = %q", again.Docs[0].ID())
	}

	var y bytes.Buffer
	if err := b.Encode(&y, FormatYAML); err != nil {
		t.Fatalf("Encode(yaml) error = %v", err)
	}
	var out struct {
		Docs []map[string]any `yaml:"docs"`
	}
	if err := yaml.Unmarshal(y.Bytes(), &out); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if got := out.Docs[0]["level"]; got != 3 {
		t.Errorf("yaml level = %#v, want int 3", got)
	}
	if got := out.Docs[0]["score"]; got != 0.5 {
		t.Errorf("yaml score = %#v, want 0.5", got)
	}

	if err := b.Encode(&y, "xml"); err == nil {
		t.Error("Encode(xml) error = nil, want error")
	}
}

func TestDocAccessors(t *testing.T) {
	d := Doc{"_id": "acme-sql:1.1", "docType": TypeExercise}
	if !d.Active() {
		t.Error("Active() = false for a document without flag, want true")
	}
	c := d.Clone()
	c["isActive"] = false
	if c.Active() || !d.Active() {
		t.Error("Clone() shares state with the original")
	}
	if d.PartitionKey() != "acme-sql" {
		t.Errorf("PartitionKey() = %q", d.PartitionKey())
	}
}
