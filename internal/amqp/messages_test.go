package amqp

import (
	"testing"
	"time"
)

func TestTransactionEventRoundTrip(t *testing.T) {
	msg := NewTransactionEvent("tx-123", "user-456", ActionCreated)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := TransactionEventFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.ID != "tx-123" || got.UserID != "user-456" || got.Action != ActionCreated {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatal("OccurredAt not set")
	}
	if time.Since(got.OccurredAt) > time.Minute {
		t.Fatalf("OccurredAt too old: %v", got.OccurredAt)
	}
}

func TestTransactionEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
