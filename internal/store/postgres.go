package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/contentsheet/internal/docs"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		partition_key TEXT NOT NULL,
		doc_type TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		upload_id TEXT NOT NULL,
		body JSONB NOT NULL,
		written_at TIMESTAMPTZ NOT NULL DEFAULT now()
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
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_uploads_partition ON uploads(partition_key, created_at DESC)`,
}

const postgresUpsert = `
	INSERT INTO documents (id, partition_key, doc_type, is_active, upload_id, body, written_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (id) DO UPDATE SET
		partition_key = EXCLUDED.partition_key,
		doc_type = EXCLUDED.doc_type,
		is_active = EXCLUDED.is_active,
		upload_id = EXCLUDED.upload_id,
		body = EXCLUDED.body,
		written_at = EXCLUDED.written_at`

// uniqueViolation is the PostgreSQL error code of a duplicate key.
const uniqueViolation = "23505"

// PostgresStore is a Store backed by a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresStore connects a pool to opts.URL and pings it.
func NewPostgresStore(ctx context.Context, opts Options) (*PostgresStore, error) {
	if opts.URL == "" {
		return nil, errors.New("postgres store needs a database url")
	}
	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		poolConfig.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool, name: databaseName(opts.URL)}
	slog.Info("connected to database", "name", s.name)
	return s, nil
}

// databaseName returns host and database of a connection url.
func databaseName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "postgres"
	}
	return u.Host + "/" + strings.TrimPrefix(u.Path, "/")
}

func (s *PostgresStore) Init(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Describe() string { return "postgres " + s.name }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListPartition(ctx context.Context, partitionKey string) ([]docs.Doc, error) {
	return s.queryDocs(ctx, `SELECT body FROM documents WHERE partition_key = $1 ORDER BY id`, partitionKey)
}

func (s *PostgresStore) FindByType(ctx context.Context, docType string) ([]docs.Doc, error) {
	return s.queryDocs(ctx, `SELECT body FROM documents WHERE doc_type = $1 ORDER BY id`, docType)
}

func (s *PostgresStore) queryDocs(ctx context.Context, query string, args ...any) ([]docs.Doc, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	bodies, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	out := make([]docs.Doc, 0, len(bodies))
	for _, body := range bodies {
		d, err := docs.DecodeDoc(body)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, uploadID string, ds []docs.Doc) error {
	rows, err := toRows(ds)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, r := range rows {
			batch.Queue(`
				INSERT INTO documents (id, partition_key, doc_type, is_active, upload_id, body)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, r.id, r.partitionKey, r.docType, r.active, uploadID, r.body)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", ErrExists, pgErr.Detail)
			}
			return fmt.Errorf("failed to insert documents: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Replace(ctx context.Context, uploadID, partitionKey string, keepTypes []string, ds []docs.Doc) (int64, error) {
	rows, err := toRows(ds)
	if err != nil {
		return 0, err
	}
	if keepTypes == nil {
		keepTypes = []string{}
	}

	var deleted int64
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM documents WHERE partition_key = $1 AND NOT (doc_type = ANY($2))`,
			partitionKey, keepTypes,
		)
		if err != nil {
			return fmt.Errorf("failed to delete partition %s: %w", partitionKey, err)
		}
		deleted = tag.RowsAffected()

		batch := &pgx.Batch{}
		for _, r := range rows {
			batch.Queue(postgresUpsert, r.id, r.partitionKey, r.docType, r.active, uploadID, r.body)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to write documents: %w", err)
		}
		return nil
	})
	return deleted, err
}

func (s *PostgresStore) SetActive(ctx context.Context, ids []string, active bool, updatedAt int64) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, id := range ids {
			var body []byte
			err := tx.QueryRow(ctx, `SELECT body FROM documents WHERE id = $1 FOR UPDATE`, id).Scan(&body)
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			if err != nil {
				return fmt.Errorf("failed to read document %s: %w", id, err)
			}
			r, err := withActive(body, active, updatedAt)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`UPDATE documents SET is_active = $1, body = $2, written_at = now() WHERE id = $3`,
				r.active, r.body, id,
			); err != nil {
				return fmt.Errorf("failed to update document %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) DeleteUpload(ctx context.Context, uploadID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE upload_id = $1`, uploadID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete upload %s: %w", uploadID, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) RecordUpload(ctx context.Context, u Upload) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO uploads (id, action, kind, partition_key, doc_count, source, related_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, string(u.Action), u.Kind, u.PartitionKey, u.Docs, u.Source, u.RelatedID, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

func (s *PostgresStore) Uploads(ctx context.Context, filter UploadFilter) ([]Upload, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, action, kind, partition_key, doc_count, source, related_id, created_at
		FROM uploads
		WHERE $1::text = '' OR partition_key = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, filter.PartitionKey, filter.limit())
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	uploads, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Upload, error) {
		var u Upload
		var action string
		err := row.Scan(&u.ID, &action, &u.Kind, &u.PartitionKey, &u.Docs, &u.Source, &u.RelatedID, &u.CreatedAt)
		u.Action = Action(action)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan uploads: %w", err)
	}
	return uploads, nil
}

func (s *PostgresStore) PruneUploads(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM uploads WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune uploads: %w", err)
	}
	return tag.RowsAffected(), nil
}
