package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/contentsheet/internal/docs"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		partition_key TEXT NOT NULL,
		doc_type TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		upload_id TEXT NOT NULL,
		body TEXT NOT NULL,
		written_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_doc_type ON documents(doc_type)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_partition_type ON documents(partition_key, doc_type)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_partition_active ON documents(partition_key, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_upload ON documents(upload_id)`,
	`CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		kind TEXT NOT NULL,
		partition_key TEXT NOT NULL,
		doc_count INTEGER NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		related_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_uploads_partition ON uploads(partition_key, created_at)`,
}

const sqliteUpsert = `
	INSERT INTO documents (id, partition_key, doc_type, is_active, upload_id, body, written_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		partition_key = excluded.partition_key,
		doc_type = excluded.doc_type,
		is_active = excluded.is_active,
		upload_id = excluded.upload_id,
		body = excluded.body,
		written_at = excluded.written_at`

// SQLiteStore is a Store in a single SQLite file.
type SQLiteStore struct {
	mu          sync.RWMutex
	db          *sql.DB
	path        string
	initialized bool
}

// NewSQLiteStore opens the database file at path in WAL mode.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store needs a database path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	s.initialized = true
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Describe() string {
	return "sqlite " + s.path
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = false
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) ListPartition(ctx context.Context, partitionKey string) ([]docs.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return s.queryDocs(ctx, `SELECT body FROM documents WHERE partition_key = ? ORDER BY id`, partitionKey)
}

func (s *SQLiteStore) FindByType(ctx context.Context, docType string) ([]docs.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return s.queryDocs(ctx, `SELECT body FROM documents WHERE doc_type = ? ORDER BY id`, docType)
}

func (s *SQLiteStore) queryDocs(ctx context.Context, query string, args ...any) ([]docs.Doc, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var out []docs.Doc
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d, err := docs.DecodeDoc([]byte(body))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Insert(ctx context.Context, uploadID string, ds []docs.Doc) error {
	rows, err := toRows(ds)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, r := range rows {
			var one int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = ?`, r.id).Scan(&one)
			if err == nil {
				return fmt.Errorf("%w: %s", ErrExists, r.id)
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to check document %s: %w", r.id, err)
			}
		}
		return upsertSQLite(ctx, tx, uploadID, rows)
	})
}

func (s *SQLiteStore) Replace(ctx context.Context, uploadID, partitionKey string, keepTypes []string, ds []docs.Doc) (int64, error) {
	rows, err := toRows(ds)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, ErrNotInitialized
	}
	var deleted int64
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		query := `DELETE FROM documents WHERE partition_key = ?`
		args := []any{partitionKey}
		if len(keepTypes) > 0 {
			query += ` AND doc_type NOT IN (` + placeholders(len(keepTypes)) + `)`
			for _, t := range keepTypes {
				args = append(args, t)
			}
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete partition %s: %w", partitionKey, err)
		}
		if deleted, err = res.RowsAffected(); err != nil {
			return err
		}
		return upsertSQLite(ctx, tx, uploadID, rows)
	})
	return deleted, err
}

func (s *SQLiteStore) SetActive(ctx context.Context, ids []string, active bool, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			var body string
			err := tx.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, id).Scan(&body)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			if err != nil {
				return fmt.Errorf("failed to read document %s: %w", id, err)
			}
			r, err := withActive([]byte(body), active, updatedAt)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE documents SET is_active = ?, body = ?, written_at = ? WHERE id = ?`,
				r.active, string(r.body), sqliteTime(time.Now()), id,
			); err != nil {
				return fmt.Errorf("failed to update document %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) DeleteUpload(ctx context.Context, uploadID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, ErrNotInitialized
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE upload_id = ?`, uploadID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete upload %s: %w", uploadID, err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) RecordUpload(ctx context.Context, u Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (id, action, kind, partition_key, doc_count, source, related_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, string(u.Action), u.Kind, u.PartitionKey, u.Docs, u.Source, u.RelatedID, sqliteTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Uploads(ctx context.Context, filter UploadFilter) ([]Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	query := `SELECT id, action, kind, partition_key, doc_count, source, related_id, created_at FROM uploads`
	var args []any
	if filter.PartitionKey != "" {
		query += ` WHERE partition_key = ?`
		args = append(args, filter.PartitionKey)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, filter.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		var u Upload
		var action, createdAt string
		if err := rows.Scan(&u.ID, &action, &u.Kind, &u.PartitionKey, &u.Docs, &u.Source, &u.RelatedID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		u.Action = Action(action)
		if u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse upload time: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PruneUploads(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, ErrNotInitialized
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE created_at < ?`, sqliteTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to prune uploads: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func upsertSQLite(ctx context.Context, tx *sql.Tx, uploadID string, rows []docRow) error {
	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := sqliteTime(time.Now())
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.partitionKey, r.docType, r.active, uploadID, string(r.body), now); err != nil {
			return fmt.Errorf("failed to write document %s: %w", r.id, err)
		}
	}
	return nil
}

// sqliteTime formats times so that text order is time order.
func sqliteTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
