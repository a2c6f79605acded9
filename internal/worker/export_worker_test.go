package worker

import (
	"context"
	"testing"

	"kassan/internal/amqp"
	"kassan/internal/core"
	exportmemory "kassan/internal/export/memory"
	storagememory "kassan/internal/storage/memory"
)

func seedTransaction(t *testing.T, store *storagememory.Store, id string) core.Transaction {
	t.Helper()
	amount, _ := core.ParseMoney("42.50")
	d, _ := core.ParseDate("2024-03-10")
	tx := core.Transaction{
		ID:             id,
		OrganizationID: "org-1",
		Type:           core.TransactionExpense,
		Amount:         amount,
		Currency:       "SEK",
		Description:    "pizza",
		Date:           d,
	}
	if err := store.CreateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return tx
}

func TestHandleCreated(t *testing.T) {
	store := storagememory.New()
	exporter := exportmemory.New()
	w := NewExportWorker(nil, store, exporter, nil)
	ctx := context.Background()

	seedTransaction(t, store, "t-1")

	if err := w.Handle(ctx, amqp.NewTransactionEvent(amqp.ActionCreated, "t-1", "org-1")); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	rows := exporter.Rows()
	if len(rows) != 1 {
		t.Fatalf("exported %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.TransactionID != "t-1" || row.Amount != "42.50" || row.Date != "2024-03-10" {
		t.Errorf("row = %+v", row)
	}
}

func TestHandleCreatedVanishedTransaction(t *testing.T) {
	store := storagememory.New()
	exporter := exportmemory.New()
	w := NewExportWorker(nil, store, exporter, nil)

	// The row is already gone; the event settles without error so the queue
	// does not spin on it.
	if err := w.Handle(context.Background(), amqp.NewTransactionEvent(amqp.ActionCreated, "t-ghost", "org-1")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(exporter.Rows()) != 0 {
		t.Error("vanished transaction produced a row")
	}
}

func TestHandleDeleted(t *testing.T) {
	store := storagememory.New()
	exporter := exportmemory.New()
	w := NewExportWorker(nil, store, exporter, nil)
	ctx := context.Background()

	seedTransaction(t, store, "t-1")
	if err := w.Handle(ctx, amqp.NewTransactionEvent(amqp.ActionCreated, "t-1", "org-1")); err != nil {
		t.Fatalf("Handle created: %v", err)
	}
	if err := w.Handle(ctx, amqp.NewTransactionEvent(amqp.ActionDeleted, "t-1", "org-1")); err != nil {
		t.Fatalf("Handle deleted: %v", err)
	}
	if len(exporter.Rows()) != 0 {
		t.Errorf("exported rows = %d after delete, want 0", len(exporter.Rows()))
	}
}

func TestHandleUnknownAction(t *testing.T) {
	w := NewExportWorker(nil, storagememory.New(), exportmemory.New(), nil)

	if err := w.Handle(context.Background(), amqp.NewTransactionEvent("renamed", "t-1", "org-1")); err != nil {
		t.Errorf("unknown action should be dropped, got %v", err)
	}
}
