package worker

import (
	"context"
	"testing"
	"time"

	"moneywise/internal/amqp"
	"moneywise/internal/core"
	sheetsmem "moneywise/internal/sheets/memory"
	storemem "moneywise/internal/store/memory"
)

func TestHandleCreatedEvent(t *testing.T) {
	repo := storemem.New()
	sheet := sheetsmem.New()
	w := NewExportWorker(repo, sheet)
	ctx := context.Background()
	sess := core.Session{UserID: "user-1"}

	created, err := repo.CreateTransaction(ctx, sess, core.Transaction{
		Title:    "Spesa",
		Amount:   core.Money{Cents: 4250},
		Category: "Alimentari",
		Type:     core.TypeExpense,
		Date:     core.DateOf(time.Now()),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	msg := amqp.NewTransactionEvent(created.ID, "user-1", amqp.ActionCreated)
	if err := w.HandleEvent(ctx, msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	items := sheet.Items()
	if len(items) != 1 {
		t.Fatalf("got %d mirrored rows, want 1", len(items))
	}
	if items[0].ID != created.ID {
		t.Fatalf("mirrored ID = %s, want %s", items[0].ID, created.ID)
	}
}

func TestHandleDeletedEventIsNoOp(t *testing.T) {
	sheet := sheetsmem.New()
	w := NewExportWorker(storemem.New(), sheet)

	msg := amqp.NewTransactionEvent("tx-1", "user-1", amqp.ActionDeleted)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(sheet.Items()) != 0 {
		t.Fatal("deletion must not touch the mirror")
	}
}

func TestHandleCreatedEventMissingRecordDropped(t *testing.T) {
	w := NewExportWorker(storemem.New(), sheetsmem.New())

	// Record deleted between publish and consume: ack, don't requeue.
	msg := amqp.NewTransactionEvent("gone", "user-1", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleEvent for missing record must not error: %v", err)
	}
}

func TestHandleUnknownActionDropped(t *testing.T) {
	w := NewExportWorker(storemem.New(), sheetsmem.New())

	msg := amqp.NewTransactionEvent("tx-1", "user-1", "exploded")
	if err := w.HandleEvent(context.Background(), msg); err != nil {
		t.Fatalf("unknown action must not error: %v", err)
	}
}
