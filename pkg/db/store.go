package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("object not found")

const schema = `
	CREATE TABLE IF NOT EXISTS objects (
		seq       INTEGER PRIMARY KEY AUTOINCREMENT,
		bucket    TEXT NOT NULL,
		key       TEXT NOT NULL,
		value     BLOB NOT NULL,
		UNIQUE (bucket, key)
	)`

// Store is a keyed object store split into named partitions. Values are
// JSON documents; keys list in insertion order.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite backed store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One writer at a time; transactions never nest.
	sqlDB.SetMaxOpenConns(1)

	store, err := NewStore(ctx, sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an existing connection and makes sure the schema exists.
func NewStore(ctx context.Context, sqlDB *sql.DB) (*Store, error) {
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: sqlDB}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is one transaction over the store.
type Tx struct {
	tx *sql.Tx
}

// Update runs fn in a read-write transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// View runs fn in a transaction that is always rolled back.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	return fn(&Tx{tx: sqlTx})
}

// Get decodes the value under (partition, key) into out.
func (t *Tx) Get(ctx context.Context, partition, key string, out any) error {
	var raw []byte
	err := t.tx.QueryRowContext(ctx,
		`SELECT value FROM objects WHERE bucket = ? AND key = ?`, partition, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", partition, key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", partition, key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", partition, key, err)
	}
	return nil
}

// Put stores v under (partition, key), replacing any previous value but
// keeping the original insertion position.
func (t *Tx) Put(ctx context.Context, partition, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", partition, key, err)
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO objects (bucket, key, value) VALUES (?, ?, ?)
		ON CONFLICT (bucket, key) DO UPDATE SET value = excluded.value`,
		partition, key, raw)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", partition, key, err)
	}
	return nil
}

// List returns the keys of a partition in insertion order.
func (t *Tx) List(ctx context.Context, partition string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT key FROM objects WHERE bucket = ? ORDER BY seq`, partition)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", partition, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan %s key: %w", partition, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", partition, err)
	}
	return keys, nil
}

// Remove deletes (partition, key). Removing a missing key is ErrNotFound.
func (t *Tx) Remove(ctx context.Context, partition, key string) error {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM objects WHERE bucket = ? AND key = ?`, partition, key)
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", partition, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", partition, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", partition, key, ErrNotFound)
	}
	return nil
}
