// Package export serializes a user's transactions back to CSV for download.
package export

import (
	"encoding/csv"
	"io"

	"tally/internal/core"
)

// TransactionLister is the slice of the ledger service the exporter needs.
type TransactionLister interface {
	ListFor(owner string) ([]core.Transaction, error)
}

type Service struct {
	txs TransactionLister
}

func NewService(txs TransactionLister) *Service {
	return &Service{txs: txs}
}

// columns of the export file. The owner column is omitted: the file already
// belongs to exactly one user.
var header = []string{"id", "date", "type", "category", "amount", "description"}

// WriteCSV streams the owner's transactions as CSV, header first, rows in
// ListFor order. encoding/csv handles quoting of delimiters, quotes, and
// newlines inside fields.
func (s *Service) WriteCSV(w io.Writer, owner string) error {
	txs, err := s.txs.ListFor(owner)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, tx := range txs {
		row := []string{tx.ID, tx.Date, string(tx.Type), tx.Category, tx.Amount.String(), tx.Description}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename is the attachment name offered to the browser.
func Filename(owner string) string {
	return owner + "_transactions.csv"
}
