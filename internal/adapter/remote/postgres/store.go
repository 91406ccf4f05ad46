// Package postgres implements the remote document store on PostgreSQL.
// Documents live in a single table keyed by path with a jsonb value; a
// write is an upsert, so the latest value per path always wins.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ovenlight/prepstock-backend/internal/adapter/remote"
	"github.com/ovenlight/prepstock-backend/internal/domain"
)

const table = "documents"

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store provides document persistence backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a document store on an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Save upserts the JSON encoding of value under path.
func (s *Store) Save(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	query, args, err := builder.
		Insert(table).
		Columns("path", "value", "updated_at").
		Values(path, raw, sq.Expr("now()")).
		Suffix("ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load unmarshals the document at path into dest.
// Returns domain.ErrNotFound if no document exists at that path.
func (s *Store) Load(ctx context.Context, path string, dest any) error {
	query, args, err := builder.
		Select("value").
		From(table).
		Where(sq.Eq{"path": path}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build select: %w", err)
	}

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load %s: %w", path, domain.ErrNotFound)
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// List returns all documents whose path starts with prefix, ordered by path.
func (s *Store) List(ctx context.Context, prefix string) ([]remote.Document, error) {
	query, args, err := builder.
		Select("path", "value", "updated_at").
		From(table).
		Where(sq.Like{"path": likePrefix(prefix)}).
		OrderBy("path").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer rows.Close()

	var docs []remote.Document
	for rows.Next() {
		var doc remote.Document
		if err := rows.Scan(&doc.Path, &doc.Value, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// likePrefix escapes LIKE metacharacters so a path prefix matches literally.
func likePrefix(prefix string) string {
	escaped := make([]byte, 0, len(prefix)+2)
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c == '%' || c == '_' || c == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return string(escaped) + "%"
}
