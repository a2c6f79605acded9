package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kassan/internal/amqp"
	"kassan/internal/core"
	"kassan/internal/storage"
)

func TestTransactionCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tx := e.createTransaction(t, memberID, expenseInput(t, "125.50", "2024-03-10"))

	if tx.ID == "" {
		t.Error("created transaction has no id")
	}
	if tx.OrganizationID != e.orgID {
		t.Errorf("OrganizationID = %s, want %s", tx.OrganizationID, e.orgID)
	}
	if tx.CreatedBy != memberID {
		t.Errorf("CreatedBy = %s, want %s", tx.CreatedBy, memberID)
	}
	if tx.Currency != "SEK" {
		t.Errorf("Currency = %s, want organization default SEK", tx.Currency)
	}

	got, err := e.transactions.Get(ctx, memberID, e.orgID, tx.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Amount.String() != "125.50" {
		t.Errorf("Amount = %s, want 125.50", got.Amount)
	}

	if len(e.events.events) != 1 {
		t.Fatalf("published %d events, want 1", len(e.events.events))
	}
	if ev := e.events.events[0]; ev.Action != amqp.ActionCreated || ev.TransactionID != tx.ID {
		t.Errorf("event = %+v", ev)
	}
}

func TestTransactionCreateViewerForbidden(t *testing.T) {
	e := newEnv(t)

	_, err := e.transactions.Create(context.Background(), viewerID, withOrg(e, expenseInput(t, "10", "2024-03-10")))
	if !errors.Is(err, core.ErrForbidden) {
		t.Errorf("viewer create: error = %v, want ErrForbidden", err)
	}
}

func TestTransactionCreateOutsiderNotAMember(t *testing.T) {
	e := newEnv(t)

	in := withOrg(e, expenseInput(t, "10", "2024-03-10"))
	_, err := e.transactions.Create(context.Background(), "p-stranger", in)
	if !errors.Is(err, core.ErrNotAMember) {
		t.Errorf("outsider create: error = %v, want ErrNotAMember", err)
	}
}

func TestTransactionCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := withOrg(e, expenseInput(t, "10", "2024-03-10"))
	in.Description = ""
	if _, err := e.transactions.Create(ctx, memberID, in); !errors.Is(err, core.ErrValidation) {
		t.Errorf("empty description: error = %v, want ErrValidation", err)
	}

	in = withOrg(e, expenseInput(t, "10", "2024-03-10"))
	in.Type = "loan"
	if _, err := e.transactions.Create(ctx, memberID, in); !errors.Is(err, core.ErrValidation) {
		t.Errorf("bad type: error = %v, want ErrValidation", err)
	}
}

func TestTransactionCreateCategoryTypeMismatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	salary, err := e.categories.Create(ctx, adminID, CreateCategoryInput{
		OrganizationID: e.orgID,
		Name:           "Salary",
		Type:           core.CategoryIncome,
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	in := withOrg(e, expenseInput(t, "10", "2024-03-10"))
	in.CategoryID = salary.ID
	if _, err := e.transactions.Create(ctx, memberID, in); !errors.Is(err, core.ErrValidation) {
		t.Errorf("income category on expense: error = %v, want ErrValidation", err)
	}

	// Transfers are exempt from category typing.
	in = withOrg(e, expenseInput(t, "10", "2024-03-10"))
	in.Type = core.TransactionTransfer
	in.CategoryID = salary.ID
	if _, err := e.transactions.Create(ctx, memberID, in); err != nil {
		t.Errorf("income category on transfer: unexpected error %v", err)
	}
}

func TestTransactionCreateForeignCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	otherOrgID, otherOwnerID := e.secondOrg(t)

	foreign, err := e.categories.Create(ctx, otherOwnerID, CreateCategoryInput{
		OrganizationID: otherOrgID,
		Name:           "Their groceries",
		Type:           core.CategoryExpense,
	})
	if err != nil {
		t.Fatalf("create foreign category: %v", err)
	}

	in := withOrg(e, expenseInput(t, "10", "2024-03-10"))
	in.CategoryID = foreign.ID
	_, err = e.transactions.Create(ctx, memberID, in)
	if !errors.Is(err, core.ErrValidation) {
		t.Errorf("foreign category must read as unknown, got %v", err)
	}
}

func TestTransactionQuota(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.setSubscriptionLimits(t, 5, 2)

	e.createTransaction(t, memberID, expenseInput(t, "1", "2024-03-01"))
	e.createTransaction(t, memberID, expenseInput(t, "2", "2024-03-02"))

	_, err := e.transactions.Create(ctx, memberID, withOrg(e, expenseInput(t, "3", "2024-03-03")))
	if !errors.Is(err, core.ErrQuotaExceeded) {
		t.Fatalf("third transaction: error = %v, want ErrQuotaExceeded", err)
	}

	// The ceiling is per calendar month of the transaction date.
	if _, err := e.transactions.Create(ctx, memberID, withOrg(e, expenseInput(t, "3", "2024-04-01"))); err != nil {
		t.Errorf("next month: unexpected error %v", err)
	}
}

func TestTransactionList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.createTransaction(t, memberID, expenseInput(t, "1.00", "2024-03-01"))
	e.createTransaction(t, memberID, expenseInput(t, "2.00", "2024-03-15"))
	e.createTransaction(t, memberID, expenseInput(t, "4.00", "2024-04-01"))

	all, err := e.transactions.List(ctx, viewerID, e.orgID, storage.TransactionFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("listed %d transactions, want 3", len(all))
	}
	// Newest date first.
	if all[0].Date.Month != time.April {
		t.Errorf("first listed is %s, want the april one", all[0].Date)
	}

	march, err := e.transactions.List(ctx, viewerID, e.orgID, storage.TransactionFilter{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("List month: %v", err)
	}
	if len(march) != 2 {
		t.Errorf("march has %d transactions, want 2", len(march))
	}
}

func TestTransactionDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tx := e.createTransaction(t, memberID, expenseInput(t, "10", "2024-03-10"))
	e.events.events = nil

	if err := e.transactions.Delete(ctx, memberID, e.orgID, tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := e.transactions.Get(ctx, memberID, e.orgID, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get after delete: error = %v, want ErrNotFound", err)
	}

	// Deleting again reads as missing.
	if err := e.transactions.Delete(ctx, memberID, e.orgID, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: error = %v, want ErrNotFound", err)
	}

	if len(e.events.events) != 1 {
		t.Fatalf("published %d events, want 1", len(e.events.events))
	}
	if ev := e.events.events[0]; ev.Action != amqp.ActionDeleted || ev.TransactionID != tx.ID {
		t.Errorf("event = %+v", ev)
	}
}

func TestTransactionCrossOrgReadsAsMissing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	otherOrgID, otherOwnerID := e.secondOrg(t)

	in := expenseInput(t, "99", "2024-03-10")
	in.OrganizationID = otherOrgID
	theirs, err := e.transactions.Create(ctx, otherOwnerID, in)
	if err != nil {
		t.Fatalf("create in second org: %v", err)
	}

	if _, err := e.transactions.Get(ctx, memberID, e.orgID, theirs.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-org get: error = %v, want ErrNotFound", err)
	}
	if err := e.transactions.Delete(ctx, memberID, e.orgID, theirs.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-org delete: error = %v, want ErrNotFound", err)
	}

	// Still there for its own organization.
	if _, err := e.transactions.Get(ctx, otherOwnerID, otherOrgID, theirs.ID); err != nil {
		t.Errorf("own-org get after foreign delete attempt: %v", err)
	}
}

func withOrg(e *env, in CreateTransactionInput) CreateTransactionInput {
	in.OrganizationID = e.orgID
	return in
}
