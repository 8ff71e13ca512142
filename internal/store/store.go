// Package store implements the record store: two flat tables (users,
// transactions) read and written as whole-table operations. Backends share a
// single interface so services never know whether records live in CSV files,
// SQLite, or memory.
package store

type Table string

const (
	Users        Table = "users"
	Transactions Table = "transactions"
)

// Record is one row of a table, columns in header order.
type Record []string

// headers fixes the column layout of each table. The CSV backend writes these
// as the first line; the SQLite backend maps them to columns.
var headers = map[Table][]string{
	Users:        {"username", "password_hash"},
	Transactions: {"id", "username", "type", "date", "category", "amount", "description"},
}

// Store is the capability handed to services.
//
// No backend locks across operations: a concurrent update and delete can race
// and lose one of the writes. That is an accepted limitation of the system,
// not something callers may rely on being safe.
type Store interface {
	// LoadAll reads the entire table in stored order. A missing or
	// unreadable table reports core.ErrStorageUnavailable.
	LoadAll(table Table) ([]Record, error)
	// AppendOne adds a single record without touching existing ones.
	AppendOne(table Table, rec Record) error
	// RewriteAll replaces the whole table with recs in the given order.
	RewriteAll(table Table, recs []Record) error
}

// Header returns the column names of a table.
func Header(table Table) []string {
	return append([]string(nil), headers[table]...)
}

func columns(table Table) int {
	return len(headers[table])
}
