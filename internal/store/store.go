// Package store keeps published documents and the upload history in a
// PostgreSQL or SQLite database.
//
// Documents are stored whole as JSON next to the columns used to find
// them: partition key, document type, active flag and the id of the upload
// that wrote them.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/contentsheet/internal/docs"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrExists         = errors.New("document already exists")
	ErrNotInitialized = errors.New("store not initialized")
	ErrUnknownDriver  = errors.New("unknown store driver")
)

// Store is a document database.
type Store interface {
	// Init creates tables and indexes. It is safe to call repeatedly.
	Init(ctx context.Context) error
	Ping(ctx context.Context) error

	ListPartition(ctx context.Context, partitionKey string) ([]docs.Doc, error)
	FindByType(ctx context.Context, docType string) ([]docs.Doc, error)

	// Insert writes new documents. It fails with ErrExists, writing
	// nothing, when any id is taken.
	Insert(ctx context.Context, uploadID string, ds []docs.Doc) error
	// Replace deletes the documents of a partition, except those of the
	// kept types, and upserts ds, in one transaction. It returns the
	// number of deleted documents.
	Replace(ctx context.Context, uploadID, partitionKey string, keepTypes []string, ds []docs.Doc) (int64, error)
	// SetActive sets isActive and updatedAt of stored documents.
	SetActive(ctx context.Context, ids []string, active bool, updatedAt int64) error
	// DeleteUpload deletes every document written by one upload.
	DeleteUpload(ctx context.Context, uploadID string) (int64, error)

	RecordUpload(ctx context.Context, u Upload) error
	Uploads(ctx context.Context, filter UploadFilter) ([]Upload, error)
	PruneUploads(ctx context.Context, before time.Time) (int64, error)

	// Describe names the database without credentials, for confirmation
	// prompts and logs.
	Describe() string
	Close() error
}

// Action is the kind of change an upload made.
type Action string

const (
	ActionCreate   Action = "create"
	ActionReplace  Action = "replace"
	ActionRollback Action = "rollback"
)

// Upload is one entry of the upload history.
type Upload struct {
	ID           string    `json:"id"`
	Action       Action    `json:"action"`
	Kind         string    `json:"kind"`
	PartitionKey string    `json:"partitionKey"`
	Docs         int       `json:"docs"`
	Source       string    `json:"source,omitempty"`
	RelatedID    string    `json:"relatedId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DefaultUploadLimit caps Uploads when the filter sets no limit.
const DefaultUploadLimit = 50

// UploadFilter narrows the upload history.
type UploadFilter struct {
	PartitionKey string
	Limit        int
}

func (f UploadFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultUploadLimit
	}
	return f.Limit
}

// Options selects and configures a store.
type Options struct {
	Driver string

	// PostgreSQL
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// SQLite
	Path string
}

// Open connects to the configured store. Callers run Init before use.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		return NewPostgresStore(ctx, opts)
	case DriverSQLite, "":
		return NewSQLiteStore(opts.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// docRow is a document split into its indexed columns.
type docRow struct {
	id           string
	partitionKey string
	docType      string
	active       bool
	body         []byte
}

func toRow(d docs.Doc) (docRow, error) {
	if d.ID() == "" {
		return docRow{}, errors.New("document without _id")
	}
	body, err := json.Marshal(d)
	if err != nil {
		return docRow{}, fmt.Errorf("failed to encode document %s: %w", d.ID(), err)
	}
	return docRow{
		id:           d.ID(),
		partitionKey: d.PartitionKey(),
		docType:      d.Type(),
		active:       d.Active(),
		body:         body,
	}, nil
}

func toRows(ds []docs.Doc) ([]docRow, error) {
	rows := make([]docRow, 0, len(ds))
	for _, d := range ds {
		r, err := toRow(d)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// withActive returns body with isActive and updatedAt replaced.
func withActive(body []byte, active bool, updatedAt int64) (docRow, error) {
	d, err := docs.DecodeDoc(body)
	if err != nil {
		return docRow{}, err
	}
	d["isActive"] = active
	d["updatedAt"] = updatedAt
	return toRow(d)
}
