package amqp

import (
	"encoding/json"
	"time"
)

// Event actions for the export pipeline.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is the lightweight message published when a transaction is
// created or deleted. The worker fetches the full row from the store; deleted
// rows are identified by id alone.
type TransactionEvent struct {
	Action         string    `json:"action"`
	TransactionID  string    `json:"transaction_id"`
	OrganizationID string    `json:"organization_id"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewTransactionEvent(action, transactionID, orgID string) *TransactionEvent {
	return &TransactionEvent{
		Action:         action,
		TransactionID:  transactionID,
		OrganizationID: orgID,
		Timestamp:      time.Now().UTC(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
