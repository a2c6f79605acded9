package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kassan/internal/auth"
	"kassan/internal/core"
	"kassan/internal/storage"
)

type TripService struct {
	store    storage.Store
	resolver *auth.Resolver
}

func NewTripService(store storage.Store, resolver *auth.Resolver) *TripService {
	return &TripService{store: store, resolver: resolver}
}

type CreateTripInput struct {
	OrganizationID string
	Name           string
	Description    string
	Destination    string
	BudgetAmount   core.Money
	StartDate      core.Date
	EndDate        core.Date
}

func (s *TripService) Create(ctx context.Context, profileID string, in CreateTripInput) (core.Trip, error) {
	m, err := s.resolver.Require(ctx, profileID, in.OrganizationID, auth.CapManageTrips)
	if err != nil {
		return core.Trip{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return core.Trip{}, core.Invalid("name", "empty")
	}
	if in.BudgetAmount.IsNegative() {
		return core.Trip{}, core.Invalid("budget_amount", "must not be negative")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return core.Trip{}, core.Invalid("end_date", "must not precede start_date")
	}

	now := time.Now().UTC()
	t := core.Trip{
		ID:             uuid.NewString(),
		OrganizationID: m.OrganizationID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Destination:    in.Destination,
		Status:         core.TripPlanning,
		BudgetAmount:   in.BudgetAmount,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		CreatedBy:      profileID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateTrip(ctx, t); err != nil {
		return core.Trip{}, fmt.Errorf("save trip: %w", err)
	}
	return t, nil
}

func (s *TripService) List(ctx context.Context, profileID, orgID string) ([]core.Trip, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return nil, err
	}
	return s.store.TripsByOrganization(ctx, m.OrganizationID)
}

// TripWithSpend pairs a trip with the total of its expense transactions.
type TripWithSpend struct {
	core.Trip
	Spent core.Money `json:"spent"`
}

// Get returns one trip with its expense rollup.
func (s *TripService) Get(ctx context.Context, profileID, orgID, tripID string) (TripWithSpend, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return TripWithSpend{}, err
	}

	t, err := s.store.TripByID(ctx, tripID)
	if err != nil {
		return TripWithSpend{}, err
	}
	if t.OrganizationID != m.OrganizationID {
		return TripWithSpend{}, fmt.Errorf("get trip: %w", core.ErrNotFound)
	}

	var spent core.Money
	filter := storage.TransactionFilter{
		Type:   core.TransactionExpense,
		TripID: tripID,
		Limit:  storage.MaxListLimit,
	}
	for {
		page, err := s.store.ListTransactions(ctx, m.OrganizationID, filter)
		if err != nil {
			return TripWithSpend{}, err
		}
		for _, tx := range page {
			spent = spent.Add(tx.Amount)
		}
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}
	return TripWithSpend{Trip: t, Spent: spent}, nil
}

// ChangeStatus moves a trip along its lifecycle. Illegal transitions are
// validation errors.
func (s *TripService) ChangeStatus(ctx context.Context, profileID, orgID, tripID string, next core.TripStatus) (core.Trip, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapManageTrips)
	if err != nil {
		return core.Trip{}, err
	}

	t, err := s.store.TripByID(ctx, tripID)
	if err != nil {
		return core.Trip{}, err
	}
	if t.OrganizationID != m.OrganizationID {
		return core.Trip{}, fmt.Errorf("get trip: %w", core.ErrNotFound)
	}

	if !next.Valid() {
		return core.Trip{}, core.Invalid("status", "unknown trip status")
	}
	if !t.CanTransition(next) {
		return core.Trip{}, core.Invalid("status", fmt.Sprintf("cannot move trip from %s to %s", t.Status, next))
	}

	t.Status = next
	if err := s.store.UpdateTrip(ctx, t); err != nil {
		return core.Trip{}, fmt.Errorf("update trip: %w", err)
	}
	return t, nil
}
