// Package export defines the outbound port for mirroring transactions to an
// external spreadsheet.
package export

import (
	"context"

	"kassan/internal/core"
)

// Row is the flattened spreadsheet representation of one transaction. The
// transaction id in the first column keys removals.
type Row struct {
	TransactionID  string
	OrganizationID string
	Date           string
	Type           string
	Description    string
	Amount         string
	Currency       string
	Category       string
}

// RowFromTransaction flattens a transaction for export. The category name is
// taken from the joined ref when present.
func RowFromTransaction(t core.Transaction) Row {
	category := ""
	if t.Category != nil {
		category = t.Category.Name
	}
	return Row{
		TransactionID:  t.ID,
		OrganizationID: t.OrganizationID,
		Date:           t.Date.String(),
		Type:           string(t.Type),
		Description:    t.Description,
		Amount:         t.Amount.String(),
		Currency:       t.Currency,
		Category:       category,
	}
}

type (
	// Writer appends one exported transaction row.
	Writer interface {
		Append(ctx context.Context, row Row) error
	}

	// Remover deletes the row keyed by transaction id. Removing an id that
	// was never exported is not an error.
	Remover interface {
		Remove(ctx context.Context, transactionID string) error
	}

	// Exporter is the full outbound surface the worker drives.
	Exporter interface {
		Writer
		Remover
	}
)
