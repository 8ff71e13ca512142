package store

import (
	"os"
	"path/filepath"
	"testing"

	"tally/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStoreAppendAndLoadKeepsOrder(t *testing.T) {
	db := newTestSQLiteStore(t)

	recs, err := db.LoadAll(Transactions)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, db.AppendOne(Transactions, Record{"t1", "alice", "income", "2024-01-15", "Other", "100.00", "pay"}))
	require.NoError(t, db.AppendOne(Transactions, Record{"t2", "alice", "expense", "2024-01-20", "Food", "40.00", "groceries"}))

	recs, err = db.LoadAll(Transactions)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, Record{"t1", "alice", "income", "2024-01-15", "Other", "100.00", "pay"}, recs[0])
	assert.Equal(t, "t2", recs[1][0])
}

func TestSQLiteStoreRewriteAll(t *testing.T) {
	db := newTestSQLiteStore(t)

	require.NoError(t, db.AppendOne(Users, Record{"alice", "h1"}))
	require.NoError(t, db.AppendOne(Users, Record{"bob", "h2"}))

	require.NoError(t, db.RewriteAll(Users, []Record{{"bob", "h2"}}))

	recs, err := db.LoadAll(Users)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "bob", recs[0][0])

	require.NoError(t, db.RewriteAll(Users, nil))
	recs, err = db.LoadAll(Users)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSQLiteStoreSpecialCharactersRoundTrip(t *testing.T) {
	db := newTestSQLiteStore(t)

	desc := "coffee, \"large\"\nwith milk"
	require.NoError(t, db.AppendOne(Transactions, Record{"t1", "alice", "expense", "2024-01-15", "Food", "3.50", desc}))

	recs, err := db.LoadAll(Transactions)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, desc, recs[0][6])
}

func TestSQLiteStoreColumnCountEnforced(t *testing.T) {
	db := newTestSQLiteStore(t)

	assert.Error(t, db.AppendOne(Users, Record{"alice"}))
	assert.Error(t, db.RewriteAll(Users, []Record{{"alice", "h", "extra"}}))
}

func TestSQLiteStoreUnknownTable(t *testing.T) {
	db := newTestSQLiteStore(t)

	_, err := db.LoadAll(Table("bogus"))
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.ErrorIs(t, db.AppendOne(Table("bogus"), Record{"x"}), core.ErrStorageUnavailable)
	assert.ErrorIs(t, db.RewriteAll(Table("bogus"), nil), core.ErrStorageUnavailable)
}

func TestSQLiteStoreRejectsInvalidType(t *testing.T) {
	db := newTestSQLiteStore(t)

	// The schema carries a CHECK on the type column.
	err := db.AppendOne(Transactions, Record{"t1", "alice", "transfer", "2024-01-15", "Food", "3.50", ""})
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

func TestSQLiteStoreCreatesDBDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tally.db")
	db, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
