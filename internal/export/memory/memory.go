// Package memory is an in-memory Exporter used by tests and local runs.
package memory

import (
	"context"
	"sync"

	"kassan/internal/export"
)

type Exporter struct {
	mu   sync.Mutex
	rows []export.Row
}

var _ export.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Append(_ context.Context, row export.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, row)
	return nil
}

func (e *Exporter) Remove(_ context.Context, transactionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, row := range e.rows {
		if row.TransactionID == transactionID {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of the exported rows in append order.
func (e *Exporter) Rows() []export.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]export.Row, len(e.rows))
	copy(out, e.rows)
	return out
}
