package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
)

// TransactionEvent is published after a transaction write lands in the
// row-store. It carries identifiers only; consumers fetch current rows
// themselves so a late delivery never applies stale amounts.
type TransactionEvent struct {
	Kind      string    `json:"kind"`
	Table     string    `json:"table"`
	RowID     string    `json:"rowId"`
	UserID    string    `json:"userId"`
	BudgetID  string    `json:"budgetId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event for the given write.
func NewTransactionEvent(kind, table, rowID, userID, budgetID string) *TransactionEvent {
	return &TransactionEvent{
		Kind:      kind,
		Table:     table,
		RowID:     rowID,
		UserID:    userID,
		BudgetID:  budgetID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON creates an event from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
