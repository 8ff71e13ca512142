package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"tally/internal/core"
)

// FileStore keeps each table as a CSV file with a fixed header row under a
// single data directory. Every operation is whole-file: load everything,
// mutate in memory, write everything back.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(table Table) string {
	return filepath.Join(s.dir, string(table)+".csv")
}

// Ensure creates the data directory and any missing table files with their
// header rows. Call once at process start; LoadAll treats a missing file as a
// storage fault.
func (s *FileStore) Ensure() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	for table, header := range headers {
		path := s.path(table)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			f.Close()
			return fmt.Errorf("write header %s: %w", table, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return fmt.Errorf("write header %s: %w", table, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close table %s: %w", table, err)
		}
	}
	return nil
}

func (s *FileStore) LoadAll(table Table) ([]Record, error) {
	f, err := os.Open(s.path(table))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", core.ErrStorageUnavailable, table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns(table)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", core.ErrStorageUnavailable, table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table %s has no header", core.ErrStorageUnavailable, table)
	}
	recs := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		recs = append(recs, Record(row))
	}
	return recs, nil
}

func (s *FileStore) AppendOne(table Table, rec Record) error {
	if len(rec) != columns(table) {
		return fmt.Errorf("table %s: expected %d columns, got %d", table, columns(table), len(rec))
	}
	f, err := os.OpenFile(s.path(table), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", core.ErrStorageUnavailable, table, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("%w: append %s: %v", core.ErrStorageUnavailable, table, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: append %s: %v", core.ErrStorageUnavailable, table, err)
	}
	return nil
}

// RewriteAll writes the new contents to a temp file in the same directory and
// renames it over the table. Best-effort atomicity: readers never see a
// half-written file, but nothing guards against two concurrent rewriters.
func (s *FileStore) RewriteAll(table Table, recs []Record) error {
	for _, rec := range recs {
		if len(rec) != columns(table) {
			return fmt.Errorf("table %s: expected %d columns, got %d", table, columns(table), len(rec))
		}
	}
	tmp, err := os.CreateTemp(s.dir, string(table)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp %s: %v", core.ErrStorageUnavailable, table, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(headers[table]); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: rewrite %s: %v", core.ErrStorageUnavailable, table, err)
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: rewrite %s: %v", core.ErrStorageUnavailable, table, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: rewrite %s: %v", core.ErrStorageUnavailable, table, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp %s: %v", core.ErrStorageUnavailable, table, err)
	}
	if err := os.Rename(tmp.Name(), s.path(table)); err != nil {
		return fmt.Errorf("%w: replace %s: %v", core.ErrStorageUnavailable, table, err)
	}
	return nil
}
