package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEventMessage is a lightweight pointer to a transaction
// change. It carries only identifiers; the worker fetches the full
// record from the database when it processes the event.
type TransactionEventMessage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewTransactionEvent(id, userID, action string) *TransactionEventMessage {
	return &TransactionEventMessage{
		ID:         id,
		UserID:     userID,
		Action:     action,
		OccurredAt: time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
