// Package docs turns validated workbooks into the JSON documents stored in
// the learning content database, and checks document bundles before they
// are published.
//
// Every document carries an "_id" of the form "<partition key>:<local id>"
// and a "docType". All documents of one workbook share a partition key,
// and exactly one of them is the kind's config document.
package docs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document types.
const (
	TypeCaseStudyConfig = "caseStudyConfig"
	TypeSection         = "caseStudySection"
	TypeTopicConfig     = "topicConfig"
	TypeMaterial        = "learningMaterial"
	TypeExercise        = "exercise"
	TypeStatement       = "selfAssessmentStatement"
	TypeSurvey          = "survey"
)

// ErrMalformedBundle is returned for bundles that cannot be published.
var ErrMalformedBundle = errors.New("malformed document bundle")

// Doc is one document in its stored JSON form.
type Doc map[string]any

// ID returns the document's "_id".
func (d Doc) ID() string { return d.String("_id") }

// Type returns the document's "docType".
func (d Doc) Type() string { return d.String("docType") }

// PartitionKey returns the part of the id before the first colon.
func (d Doc) PartitionKey() string { return PartitionKey(d.ID()) }

// String returns a string field, or "" when the field is missing or not a
// string.
func (d Doc) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Active reports the "isActive" flag. Documents without the flag are
// active.
func (d Doc) Active() bool {
	b, ok := d["isActive"].(bool)
	return !ok || b
}

// Clone returns a shallow copy.
func (d Doc) Clone() Doc {
	c := make(Doc, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// PartitionKey returns the partition key of a document id.
func PartitionKey(id string) string {
	pk, _, _ := strings.Cut(id, ":")
	return pk
}

// Bundle is the set of documents built from one workbook, in output order.
type Bundle struct {
	Docs []Doc `json:"docs" yaml:"docs"`
}

// add converts a typed document into its stored form.
func (b *Bundle) add(v any) error {
	d, err := toDoc(v)
	if err != nil {
		return err
	}
	b.Docs = append(b.Docs, d)
	return nil
}

func toDoc(v any) (Doc, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return decodeDoc(data)
}

func decodeDoc(data []byte) (Doc, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var d Doc
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return d, nil
}

// DecodeDoc parses one stored document.
func DecodeDoc(data []byte) (Doc, error) {
	return decodeDoc(data)
}

// Config returns the bundle's config document, if there is exactly one.
func (b *Bundle) Config(configType string) (Doc, bool) {
	var found Doc
	for _, d := range b.Docs {
		if d.Type() != configType {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = d
	}
	return found, found != nil
}

// PartitionKey returns the partition key of the first document.
func (b *Bundle) PartitionKey() string {
	if len(b.Docs) == 0 {
		return ""
	}
	return b.Docs[0].PartitionKey()
}

// Validate checks that the bundle can be published: every document has an
// id and a type, there is exactly one document of configType, and every
// document shares the config document's partition key.
func (b *Bundle) Validate(configType string) error {
	if len(b.Docs) == 0 {
		return fmt.Errorf("%w: no documents", ErrMalformedBundle)
	}
	for i, d := range b.Docs {
		if d.ID() == "" {
			return fmt.Errorf("%w: property _id is missing in docs[%d]", ErrMalformedBundle, i)
		}
		if d.Type() == "" {
			return fmt.Errorf("%w: property docType is missing in docs[%d]", ErrMalformedBundle, i)
		}
	}

	n := 0
	var config Doc
	for _, d := range b.Docs {
		if d.Type() == configType {
			n++
			config = d
		}
	}
	if n != 1 {
		return fmt.Errorf("%w: expect 1 doc with docType %q, but found %d", ErrMalformedBundle, configType, n)
	}

	pk := config.PartitionKey()
	for i, d := range b.Docs {
		if got := d.PartitionKey(); got != pk {
			return fmt.Errorf("%w: expect partition key %q, but found %q instead in docs[%d]", ErrMalformedBundle, pk, got, i)
		}
	}
	return nil
}

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes the bundle as indented JSON or as YAML.
func (b *Bundle) Encode(w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case FormatYAML:
		out := struct {
			Docs []any `yaml:"docs"`
		}{Docs: make([]any, len(b.Docs))}
		for i, d := range b.Docs {
			out.Docs[i] = plain(map[string]any(d))
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// plain replaces json.Number values so that YAML writes numbers unquoted.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, x := range t {
			m[k] = plain(x)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, x := range t {
			s[i] = plain(x)
		}
		return s
	default:
		return v
	}
}

// ReadBundle decodes a JSON bundle of the form {"docs": [...]}.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var raw struct {
		Docs []json.RawMessage `json:"docs"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBundle, err)
	}
	if raw.Docs == nil {
		return nil, fmt.Errorf("%w: \"docs\" is missing from the json", ErrMalformedBundle)
	}
	b := &Bundle{Docs: make([]Doc, 0, len(raw.Docs))}
	for i, data := range raw.Docs {
		d, err := decodeDoc(data)
		if err != nil {
			return nil, fmt.Errorf("%w: docs[%d]: %v", ErrMalformedBundle, i, err)
		}
		b.Docs = append(b.Docs, d)
	}
	return b, nil
}
