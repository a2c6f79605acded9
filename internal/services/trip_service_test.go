package services

import (
	"context"
	"errors"
	"testing"

	"kassan/internal/core"
)

func (e *env) createTrip(t *testing.T, name string) core.Trip {
	t.Helper()
	trip, err := e.trips.Create(context.Background(), adminID, CreateTripInput{
		OrganizationID: e.orgID,
		Name:           name,
		Destination:    "Berlin",
		BudgetAmount:   mustParseMoney(t, "5000"),
		StartDate:      core.Date{Year: 2024, Month: 6, Day: 1},
		EndDate:        core.Date{Year: 2024, Month: 6, Day: 14},
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return trip
}

func TestTripCreate(t *testing.T) {
	e := newEnv(t)

	trip := e.createTrip(t, "Summer trip")
	if trip.Status != core.TripPlanning {
		t.Errorf("status = %s, want planning", trip.Status)
	}
	if trip.OrganizationID != e.orgID {
		t.Errorf("OrganizationID = %s, want %s", trip.OrganizationID, e.orgID)
	}

	// Members cannot manage trips.
	_, err := e.trips.Create(context.Background(), memberID, CreateTripInput{
		OrganizationID: e.orgID,
		Name:           "Nope",
	})
	if !errors.Is(err, core.ErrForbidden) {
		t.Errorf("member creating trip: error = %v, want ErrForbidden", err)
	}
}

func TestTripLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	trip := e.createTrip(t, "Summer trip")

	// planning -> completed skips a state.
	if _, err := e.trips.ChangeStatus(ctx, adminID, e.orgID, trip.ID, core.TripCompleted); !errors.Is(err, core.ErrValidation) {
		t.Errorf("planning to completed: error = %v, want ErrValidation", err)
	}

	got, err := e.trips.ChangeStatus(ctx, adminID, e.orgID, trip.ID, core.TripOngoing)
	if err != nil {
		t.Fatalf("to ongoing: %v", err)
	}
	if got.Status != core.TripOngoing {
		t.Errorf("status = %s, want ongoing", got.Status)
	}

	got, err = e.trips.ChangeStatus(ctx, adminID, e.orgID, trip.ID, core.TripCompleted)
	if err != nil {
		t.Fatalf("to completed: %v", err)
	}

	// Completed is terminal.
	if _, err := e.trips.ChangeStatus(ctx, adminID, e.orgID, trip.ID, core.TripCanceled); !errors.Is(err, core.ErrValidation) {
		t.Errorf("completed to canceled: error = %v, want ErrValidation", err)
	}
}

func TestTripSpendRollup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	trip := e.createTrip(t, "Summer trip")

	in := expenseInput(t, "120.00", "2024-06-02")
	in.TripID = trip.ID
	e.createTransaction(t, memberID, in)
	in = expenseInput(t, "80.50", "2024-06-03")
	in.TripID = trip.ID
	e.createTransaction(t, memberID, in)
	// Unrelated expense stays out of the rollup.
	e.createTransaction(t, memberID, expenseInput(t, "999.00", "2024-06-04"))

	got, err := e.trips.Get(ctx, viewerID, e.orgID, trip.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Spent.String() != "200.50" {
		t.Errorf("Spent = %s, want 200.50", got.Spent)
	}
}

func TestTripCrossOrgReadsAsMissing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	otherOrgID, otherOwnerID := e.secondOrg(t)

	theirs, err := e.trips.Create(ctx, otherOwnerID, CreateTripInput{
		OrganizationID: otherOrgID,
		Name:           "Their trip",
	})
	if err != nil {
		t.Fatalf("create in second org: %v", err)
	}

	if _, err := e.trips.Get(ctx, adminID, e.orgID, theirs.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-org get: error = %v, want ErrNotFound", err)
	}
	if _, err := e.trips.ChangeStatus(ctx, adminID, e.orgID, theirs.ID, core.TripOngoing); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-org status change: error = %v, want ErrNotFound", err)
	}
}
