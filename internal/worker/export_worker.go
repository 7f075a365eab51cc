// Package worker mirrors created transactions into an external sheet.
// The mirror is append-only: deletions are acknowledged and logged but
// never propagated, so the sheet doubles as an audit trail.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneywise/internal/amqp"
	"moneywise/internal/core"
	"moneywise/internal/sheets"
	"moneywise/internal/store"
)

type ExportWorker struct {
	transactions store.TransactionRepository
	appender     sheets.TransactionAppender
}

func NewExportWorker(transactions store.TransactionRepository, appender sheets.TransactionAppender) *ExportWorker {
	return &ExportWorker{transactions: transactions, appender: appender}
}

// HandleEvent processes a single transaction event. Returning an error
// makes the consumer nack and requeue the delivery, so transient sheet
// failures retry; a record deleted before the event is processed is
// dropped instead.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	switch msg.Action {
	case amqp.ActionCreated:
		return w.exportCreated(ctx, msg)
	case amqp.ActionDeleted:
		slog.InfoContext(ctx, "Skipping deletion, mirror is append-only", "id", msg.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event action, dropping", "action", msg.Action, "id", msg.ID)
		return nil
	}
}

func (w *ExportWorker) exportCreated(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	sess := core.Session{UserID: msg.UserID}
	t, err := w.transactions.GetTransaction(ctx, sess, msg.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Transaction gone before export, dropping", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("load transaction: %w", err)
	}

	ref, err := w.appender.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", t.ID,
		"sheet_ref", ref,
		"amount_cents", t.Amount.Cents)
	return nil
}

// Run consumes events until the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeTransactionEvents(ctx, func(msg *amqp.TransactionEventMessage) error {
		return w.HandleEvent(ctx, msg)
	})
}
