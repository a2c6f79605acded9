// Package services orchestrates the guarded operations of the API: every
// method resolves the caller's membership first, then applies domain rules
// against the store.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kassan/internal/amqp"
	"kassan/internal/auth"
	"kassan/internal/core"
	"kassan/internal/storage"
)

// EventPublisher pushes transaction events to the export pipeline. A nil
// publisher disables exporting without affecting the write path.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransactionService owns the transaction write and read paths.
type TransactionService struct {
	store    storage.Store
	resolver *auth.Resolver
	events   EventPublisher
	cache    *SummaryCache
}

func NewTransactionService(store storage.Store, resolver *auth.Resolver, events EventPublisher, cache *SummaryCache) *TransactionService {
	return &TransactionService{
		store:    store,
		resolver: resolver,
		events:   events,
		cache:    cache,
	}
}

// CreateTransactionInput carries the client-supplied fields of a new
// transaction. The organization id is only used to resolve the caller's
// membership; the persisted row takes it from the resolved membership.
type CreateTransactionInput struct {
	OrganizationID string
	Type           core.TransactionType
	Amount         core.Money
	Currency       string
	Description    string
	Notes          string
	Tags           []string
	CategoryID     string
	TripID         string
	ReceiptURL     string
	Date           core.Date
}

func (s *TransactionService) Create(ctx context.Context, profileID string, in CreateTransactionInput) (core.Transaction, error) {
	m, err := s.resolver.Require(ctx, profileID, in.OrganizationID, auth.CapWriteTransaction)
	if err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	t := core.Transaction{
		ID:             uuid.NewString(),
		OrganizationID: m.OrganizationID,
		Type:           in.Type,
		Amount:         in.Amount,
		Currency:       in.Currency,
		Description:    in.Description,
		Notes:          in.Notes,
		Tags:           in.Tags,
		CategoryID:     in.CategoryID,
		TripID:         in.TripID,
		ReceiptURL:     in.ReceiptURL,
		Date:           in.Date,
		CreatedBy:      profileID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if t.Currency == "" {
		org, err := s.store.OrganizationByID(ctx, t.OrganizationID)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("load organization: %w", err)
		}
		t.Currency = org.Currency
	}

	if err := s.checkCategory(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkTrip(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkQuota(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.cache.InvalidateOrganization(t.OrganizationID)
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionCreated, t.ID, t.OrganizationID))

	return t, nil
}

// checkCategory verifies the referenced category is visible to the
// organization and its type matches the transaction type. Transfers carry no
// category type constraint.
func (s *TransactionService) checkCategory(ctx context.Context, t core.Transaction) error {
	if t.CategoryID == "" {
		return nil
	}
	c, err := s.store.CategoryByID(ctx, t.CategoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Invalid("category_id", "unknown category")
		}
		return fmt.Errorf("load category: %w", err)
	}
	if !c.IsSystemDefault && c.OrganizationID != t.OrganizationID {
		return core.Invalid("category_id", "unknown category")
	}
	if !c.Type.Matches(t.Type) {
		return core.Invalid("category_id", fmt.Sprintf("%s category cannot classify a %s transaction", c.Type, t.Type))
	}
	return nil
}

func (s *TransactionService) checkTrip(ctx context.Context, t core.Transaction) error {
	if t.TripID == "" {
		return nil
	}
	trip, err := s.store.TripByID(ctx, t.TripID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Invalid("trip_id", "unknown trip")
		}
		return fmt.Errorf("load trip: %w", err)
	}
	if trip.OrganizationID != t.OrganizationID {
		return core.Invalid("trip_id", "unknown trip")
	}
	return nil
}

// checkQuota enforces the subscription's monthly transaction ceiling against
// the month of the transaction date. Organizations without a subscription row
// and ceilings of zero are unlimited.
func (s *TransactionService) checkQuota(ctx context.Context, t core.Transaction) error {
	sub, err := s.store.SubscriptionByOrganization(ctx, t.OrganizationID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub.MaxTransactionsPerMonth <= 0 {
		return nil
	}

	count, err := s.store.CountTransactionsInMonth(ctx, t.OrganizationID, t.Date.Year, t.Date.Month)
	if err != nil {
		return fmt.Errorf("count transactions: %w", err)
	}
	if count >= sub.MaxTransactionsPerMonth {
		return fmt.Errorf("monthly transaction limit %d reached: %w", sub.MaxTransactionsPerMonth, core.ErrQuotaExceeded)
	}
	return nil
}

func (s *TransactionService) List(ctx context.Context, profileID, orgID string, f storage.TransactionFilter) ([]core.Transaction, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, m.OrganizationID, f)
}

func (s *TransactionService) Get(ctx context.Context, profileID, orgID, id string) (core.Transaction, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := s.store.TransactionByID(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	// A transaction of another organization is indistinguishable from a
	// missing one.
	if t.OrganizationID != m.OrganizationID {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", core.ErrNotFound)
	}
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, profileID, orgID, id string) error {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapDeleteTransaction)
	if err != nil {
		return err
	}

	t, err := s.store.TransactionByID(ctx, id)
	if err != nil {
		return err
	}
	if t.OrganizationID != m.OrganizationID {
		return fmt.Errorf("delete transaction: %w", core.ErrNotFound)
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidateOrganization(m.OrganizationID)
	s.publish(ctx, amqp.NewTransactionEvent(amqp.ActionDeleted, id, m.OrganizationID))

	return nil
}

// publish is best effort: the transaction is already durable, so a failed
// publish is logged and swallowed.
func (s *TransactionService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish transaction event",
			"error", err,
			"action", event.Action,
			"transaction_id", event.TransactionID)
	}
}
