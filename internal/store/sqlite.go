package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database, one table per flat
// table. It keeps the record-oriented contract: LoadAll returns rows in
// insertion order and RewriteAll replaces the whole table inside a
// transaction, which makes the rewrite genuinely atomic on this backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) LoadAll(table Table) ([]Record, error) {
	cols := headers[table]
	if cols == nil {
		return nil, fmt.Errorf("%w: unknown table %s", core.ErrStorageUnavailable, table)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), table)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", core.ErrStorageUnavailable, table, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec := make(Record, len(cols))
		dest := make([]any, len(cols))
		for i := range rec {
			dest[i] = &rec[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", core.ErrStorageUnavailable, table, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %v", core.ErrStorageUnavailable, table, err)
	}
	return recs, nil
}

func (s *SQLiteStore) AppendOne(table Table, rec Record) error {
	cols := headers[table]
	if cols == nil {
		return fmt.Errorf("%w: unknown table %s", core.ErrStorageUnavailable, table)
	}
	if len(rec) != len(cols) {
		return fmt.Errorf("table %s: expected %d columns, got %d", table, len(cols), len(rec))
	}
	if _, err := s.db.Exec(insertQuery(table), recArgs(rec)...); err != nil {
		return fmt.Errorf("%w: insert %s: %v", core.ErrStorageUnavailable, table, err)
	}
	return nil
}

func (s *SQLiteStore) RewriteAll(table Table, recs []Record) error {
	cols := headers[table]
	if cols == nil {
		return fmt.Errorf("%w: unknown table %s", core.ErrStorageUnavailable, table)
	}
	for _, rec := range recs {
		if len(rec) != len(cols) {
			return fmt.Errorf("table %s: expected %d columns, got %d", table, len(cols), len(rec))
		}
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin rewrite %s: %v", core.ErrStorageUnavailable, table, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return fmt.Errorf("%w: clear %s: %v", core.ErrStorageUnavailable, table, err)
	}
	for _, rec := range recs {
		if _, err := tx.Exec(insertQuery(table), recArgs(rec)...); err != nil {
			return fmt.Errorf("%w: rewrite %s: %v", core.ErrStorageUnavailable, table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit rewrite %s: %v", core.ErrStorageUnavailable, table, err)
	}
	return nil
}

func insertQuery(table Table) string {
	cols := headers[table]
	marks := strings.Repeat("?, ", len(cols))
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.TrimSuffix(marks, ", "))
}

func recArgs(rec Record) []any {
	args := make([]any, len(rec))
	for i, v := range rec {
		args[i] = v
	}
	return args
}
