package event

import (
	"encoding/json"
	"time"
)

// Event kinds published when a transaction changes.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// TransactionMessage is the wire form of a change event. It carries only the
// transaction id and its owner; consumers fetch details themselves if they
// need them.
type TransactionMessage struct {
	Event string    `json:"event"`
	ID    string    `json:"id"`
	Owner string    `json:"owner"`
	At    time.Time `json:"at"`
}

func NewTransactionMessage(kind, id, owner string) *TransactionMessage {
	return &TransactionMessage{
		Event: kind,
		ID:    id,
		Owner: owner,
		At:    time.Now(),
	}
}

func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
