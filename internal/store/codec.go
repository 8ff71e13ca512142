package store

import (
	"fmt"

	"tally/internal/core"
)

// Encoding between domain values and table records. Column order follows the
// table headers; amounts are stored as their two-decimal string form.

func EncodeUser(u core.User) Record {
	return Record{u.Username, u.PasswordHash}
}

func DecodeUser(rec Record) (core.User, error) {
	if len(rec) != columns(Users) {
		return core.User{}, fmt.Errorf("users record: expected %d columns, got %d", columns(Users), len(rec))
	}
	return core.User{Username: rec[0], PasswordHash: rec[1]}, nil
}

func EncodeTransaction(t core.Transaction) Record {
	return Record{t.ID, t.Owner, string(t.Type), t.Date, t.Category, t.Amount.String(), t.Description}
}

func DecodeTransaction(rec Record) (core.Transaction, error) {
	if len(rec) != columns(Transactions) {
		return core.Transaction{}, fmt.Errorf("transactions record: expected %d columns, got %d", columns(Transactions), len(rec))
	}
	amount, err := core.ParseAmount(rec[5])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transactions record %s: %w", rec[0], err)
	}
	return core.Transaction{
		ID:          rec[0],
		Owner:       rec[1],
		Type:        core.TxType(rec[2]),
		Date:        rec[3],
		Category:    rec[4],
		Amount:      amount,
		Description: rec[6],
	}, nil
}
