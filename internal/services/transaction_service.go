// Package services orchestrates store, messaging, and aggregation
// behind the HTTP layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneywise/internal/amqp"
	"moneywise/internal/core"
	"moneywise/internal/store"
)

// TransactionEventPublisher is satisfied by *amqp.Client. A nil
// publisher disables the export mirror without touching call sites.
type TransactionEventPublisher interface {
	PublishTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error
}

type TransactionService struct {
	repo      store.TransactionRepository
	publisher TransactionEventPublisher
}

func NewTransactionService(repo store.TransactionRepository, publisher TransactionEventPublisher) *TransactionService {
	return &TransactionService{repo: repo, publisher: publisher}
}

// Create saves the transaction and publishes an export event. The
// publish is best-effort: a broker failure never fails the request.
func (s *TransactionService) Create(ctx context.Context, sess core.Session, t core.Transaction) (core.Transaction, error) {
	created, err := s.repo.CreateTransaction(ctx, sess, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, created.ID, sess.UserID, amqp.ActionCreated)
	return created, nil
}

func (s *TransactionService) Update(ctx context.Context, sess core.Session, id string, t core.Transaction) (core.Transaction, error) {
	updated, err := s.repo.UpdateTransaction(ctx, sess, id, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, sess core.Session, id string) error {
	if err := s.repo.DeleteTransaction(ctx, sess, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, id, sess.UserID, amqp.ActionDeleted)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, sess core.Session, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, sess, id)
}

func (s *TransactionService) ListRecent(ctx context.Context, sess core.Session, limit int) ([]core.Transaction, error) {
	return s.repo.ListRecentTransactions(ctx, sess, limit)
}

func (s *TransactionService) ListForPeriod(ctx context.Context, sess core.Session, start, end core.Date, f store.TransactionFilter) ([]core.Transaction, error) {
	return s.repo.ListTransactionsForPeriod(ctx, sess, start, end, f)
}

// CloneOverrides are the fields a caller may change while cloning a
// recurring template into a one-off. Nil fields keep the template's
// values; a nil Date means today.
type CloneOverrides struct {
	Title  *string
	Amount *core.Money
	Date   *core.Date
}

// CloneRecurring materializes a recurring template as a realized
// one-off transaction. The template itself is left untouched.
func (s *TransactionService) CloneRecurring(ctx context.Context, sess core.Session, templateID string, o CloneOverrides) (core.Transaction, error) {
	template, err := s.repo.GetTransaction(ctx, sess, templateID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load template: %w", err)
	}
	if !template.IsRecurring {
		return core.Transaction{}, core.ErrNotRecurring
	}

	clone := core.Transaction{
		Title:       template.Title,
		Amount:      template.Amount,
		Category:    template.Category,
		Type:        template.Type,
		Description: template.Description,
		ExpenseType: template.ExpenseType,
		Date:        core.DateOf(time.Now()),
	}
	if o.Title != nil {
		clone.Title = *o.Title
	}
	if o.Amount != nil {
		clone.Amount = *o.Amount
	}
	if o.Date != nil {
		clone.Date = *o.Date
	}

	created, err := s.repo.CreateTransaction(ctx, sess, clone)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create clone: %w", err)
	}

	slog.InfoContext(ctx, "Recurring template cloned",
		"template_id", templateID, "clone_id", created.ID)
	s.publish(ctx, created.ID, sess.UserID, amqp.ActionCreated)
	return created, nil
}

func (s *TransactionService) publish(ctx context.Context, id, userID, action string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewTransactionEvent(id, userID, action)
	if err := s.publisher.PublishTransactionEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}
