// Package worker consumes transaction events and mirrors the rows to the
// configured exporter.
package worker

import (
	"context"
	"errors"
	"fmt"

	"kassan/internal/amqp"
	"kassan/internal/core"
	"kassan/internal/export"
	"kassan/internal/log"
	"kassan/internal/storage"
)

type ExportWorker struct {
	client   *amqp.Client
	store    storage.TransactionStore
	exporter export.Exporter
	logger   *log.Logger
}

func NewExportWorker(client *amqp.Client, store storage.TransactionStore, exporter export.Exporter, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		client:   client,
		store:    store,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run blocks consuming events until the context is canceled.
func (w *ExportWorker) Run(ctx context.Context) error {
	return w.client.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
		return w.Handle(ctx, event)
	})
}

// Handle applies one event to the exporter. A created event whose row has
// vanished is treated as settled: the matching deleted event will follow.
func (w *ExportWorker) Handle(ctx context.Context, event *amqp.TransactionEvent) error {
	switch event.Action {
	case amqp.ActionCreated:
		t, err := w.store.TransactionByID(ctx, event.TransactionID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				w.logger.WarnContext(ctx, "transaction gone before export, skipping",
					log.FieldTransactionID, event.TransactionID)
				return nil
			}
			return fmt.Errorf("load transaction: %w", err)
		}
		if err := w.exporter.Append(ctx, export.RowFromTransaction(t)); err != nil {
			return fmt.Errorf("append exported row: %w", err)
		}
		w.logger.InfoContext(ctx, "exported transaction",
			log.FieldTransactionID, event.TransactionID,
			log.FieldOrgID, event.OrganizationID)
		return nil

	case amqp.ActionDeleted:
		if err := w.exporter.Remove(ctx, event.TransactionID); err != nil {
			return fmt.Errorf("remove exported row: %w", err)
		}
		w.logger.InfoContext(ctx, "removed exported transaction",
			log.FieldTransactionID, event.TransactionID,
			log.FieldOrgID, event.OrganizationID)
		return nil

	default:
		w.logger.WarnContext(ctx, "dropping event with unknown action", "action", event.Action)
		return nil
	}
}
