package core

import (
	"sort"
	"time"
)

// MonthlySummary is the derived overview for one organization and calendar
// month: total expense, total income and their difference.
type MonthlySummary struct {
	Year         int   `json:"year"`
	Month        int   `json:"month"`
	TotalExpense Money `json:"total_expense"`
	TotalIncome  Money `json:"total_income"`
	Net          Money `json:"net"`
}

// CategoryAmount is one slice of the per-category expense breakdown.
type CategoryAmount struct {
	CategoryID string `json:"category_id,omitempty"`
	Name       string `json:"name"`
	Amount     Money  `json:"amount"`
}

// Summarize folds the given transactions into the monthly summary. Only rows
// whose date falls inside the month contribute; transfers are excluded from
// both sums. Pure function, exact decimal accumulation.
func Summarize(txs []Transaction, year int, month time.Month) MonthlySummary {
	s := MonthlySummary{Year: year, Month: int(month)}
	for _, t := range txs {
		if !t.Date.InMonth(year, month) {
			continue
		}
		switch t.Type {
		case TransactionExpense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		case TransactionIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// ExpenseBreakdown groups the month's expenses by category, largest first.
// Uncategorized expenses are collected under an empty category id.
func ExpenseBreakdown(txs []Transaction, year int, month time.Month) []CategoryAmount {
	sums := make(map[string]*CategoryAmount)
	for _, t := range txs {
		if t.Type != TransactionExpense || !t.Date.InMonth(year, month) {
			continue
		}
		entry, ok := sums[t.CategoryID]
		if !ok {
			name := "Uncategorized"
			if t.Category != nil {
				name = t.Category.Name
			}
			entry = &CategoryAmount{CategoryID: t.CategoryID, Name: name}
			sums[t.CategoryID] = entry
		}
		entry.Amount = entry.Amount.Add(t.Amount)
	}

	out := make([]CategoryAmount, 0, len(sums))
	for _, entry := range sums {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
