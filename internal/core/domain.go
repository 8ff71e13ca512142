package core

import (
	"errors"
	"strings"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	TxType string

	Money struct {
		Cents int64
	}

	User struct {
		Username     string
		PasswordHash string
	}

	Transaction struct {
		ID          string
		Owner       string
		Type        TxType
		Date        string // YYYY-MM-DD
		Category    string
		Amount      Money
		Description string
	}
)

// Categories is the closed set of transaction categories, in display order.
var Categories = []string{"Food", "Social", "Transport", "Apparel", "Education", "Gift", "Other"}

var (
	ErrDuplicateUser      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrNotFound           = errors.New("transaction not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrEmptyField         = errors.New("empty field")
)

func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// IsCategory reports whether name is one of the known categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyField
	}
	if u.PasswordHash == "" {
		return ErrEmptyField
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyField
	}
	if strings.TrimSpace(t.Owner) == "" {
		return ErrEmptyField
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if !IsCategory(t.Category) {
		return ErrInvalidCategory
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
