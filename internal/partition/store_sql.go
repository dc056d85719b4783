package partition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dialect captures the few differences between PostgreSQL and SQLite.
type dialect struct {
	name string
	// numbered placeholders ($1, $2) instead of ?
	numbered bool
}

var (
	postgresDialect = dialect{name: "postgres", numbered: true}
	sqliteDialect   = dialect{name: "sqlite"}
)

// rebind rewrites ? placeholders for dialects that use numbered ones.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore persists items in a single partition_items table. The same
// statements serve PostgreSQL (pgx stdlib driver) and SQLite (modernc driver).
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewPostgresStore constructs a PostgreSQL-backed store. The schema comes from
// the migrations package.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: postgresDialect}
}

// NewSQLiteStore constructs a SQLite-backed store. Call EnsureSQLiteSchema first.
func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, dialect: sqliteDialect}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS partition_items (
	tbl        TEXT NOT NULL,
	pk         TEXT NOT NULL,
	sk         TEXT NOT NULL,
	idx        TEXT,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (tbl, pk, sk)
);
CREATE INDEX IF NOT EXISTS idx_partition_items_idx ON partition_items (tbl, idx);
`

// EnsureSQLiteSchema creates the partition_items table if missing.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLStore) Put(ctx context.Context, table string, item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	query := s.dialect.rebind(`
		INSERT INTO partition_items (tbl, pk, sk, idx, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tbl, pk, sk) DO UPDATE SET
			idx = excluded.idx,
			data = excluded.data,
			updated_at = excluded.updated_at
	`)
	_, err := s.db.ExecContext(ctx, query,
		table, item.PartitionKey, item.SortKey, nullableIndex(item.IndexKey), item.Data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put %s item: %w", table, err)
	}
	return nil
}

func (s *SQLStore) PutIfAbsent(ctx context.Context, table string, item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	query := s.dialect.rebind(`
		INSERT INTO partition_items (tbl, pk, sk, idx, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tbl, pk, sk) DO NOTHING
	`)
	res, err := s.db.ExecContext(ctx, query,
		table, item.PartitionKey, item.SortKey, nullableIndex(item.IndexKey), item.Data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("conditional put %s item: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("conditional put %s item: %w", table, err)
	}
	if n == 0 {
		return ErrConditionFailed
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, table, partitionKey, sortKey string) (Item, error) {
	query := s.dialect.rebind(`
		SELECT pk, sk, idx, data FROM partition_items
		WHERE tbl = ? AND pk = ? AND sk = ?
	`)
	item, err := scanItem(s.db.QueryRowContext(ctx, query, table, partitionKey, sortKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get %s item: %w", table, err)
	}
	return item, nil
}

func (s *SQLStore) Delete(ctx context.Context, table, partitionKey, sortKey string) error {
	query := s.dialect.rebind(`DELETE FROM partition_items WHERE tbl = ? AND pk = ? AND sk = ?`)
	if _, err := s.db.ExecContext(ctx, query, table, partitionKey, sortKey); err != nil {
		return fmt.Errorf("delete %s item: %w", table, err)
	}
	return nil
}

func (s *SQLStore) Query(ctx context.Context, table, partitionKey string, opts QueryOptions) ([]Item, error) {
	var b strings.Builder
	args := []any{table, partitionKey}
	b.WriteString(`SELECT pk, sk, idx, data FROM partition_items WHERE tbl = ? AND pk = ?`)
	if opts.ExclusiveStartSortKey != "" {
		if opts.Descending {
			b.WriteString(` AND sk < ?`)
		} else {
			b.WriteString(` AND sk > ?`)
		}
		args = append(args, opts.ExclusiveStartSortKey)
	}
	if opts.Descending {
		b.WriteString(` ORDER BY sk DESC`)
	} else {
		b.WriteString(` ORDER BY sk ASC`)
	}
	if opts.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(b.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s partition: %w", table, err)
	}
	return collect(rows, table)
}

func (s *SQLStore) QueryIndex(ctx context.Context, table, indexKey string) ([]Item, error) {
	query := s.dialect.rebind(`
		SELECT pk, sk, idx, data FROM partition_items
		WHERE tbl = ? AND idx = ?
		ORDER BY pk, sk
	`)
	rows, err := s.db.QueryContext(ctx, query, table, indexKey)
	if err != nil {
		return nil, fmt.Errorf("query %s index: %w", table, err)
	}
	return collect(rows, table)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	var idx sql.NullString
	if err := row.Scan(&item.PartitionKey, &item.SortKey, &idx, &item.Data); err != nil {
		return Item{}, err
	}
	item.IndexKey = idx.String
	return item, nil
}

func collect(rows *sql.Rows, table string) ([]Item, error) {
	defer rows.Close()
	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s item: %w", table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s items: %w", table, err)
	}
	return out, nil
}

func nullableIndex(key string) sql.NullString {
	return sql.NullString{String: key, Valid: key != ""}
}

var _ Store = (*SQLStore)(nil)
