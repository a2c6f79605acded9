package core

import (
	"testing"
	"time"
)

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func tx(t *testing.T, typ TransactionType, amount, date string) Transaction {
	t.Helper()
	d, err := ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	return Transaction{Type: typ, Amount: mustMoney(t, amount), Date: d}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		tx(t, TransactionExpense, "500.00", "2024-03-10"),
		tx(t, TransactionIncome, "2000.00", "2024-03-25"),
		tx(t, TransactionExpense, "999.99", "2024-02-28"),
	}

	got := Summarize(txs, 2024, time.March)

	if got.TotalExpense.String() != "500.00" {
		t.Errorf("TotalExpense = %s, want 500.00", got.TotalExpense)
	}
	if got.TotalIncome.String() != "2000.00" {
		t.Errorf("TotalIncome = %s, want 2000.00", got.TotalIncome)
	}
	if got.Net.String() != "1500.00" {
		t.Errorf("Net = %s, want 1500.00", got.Net)
	}
}

func TestSummarizeExcludesTransfers(t *testing.T) {
	txs := []Transaction{
		tx(t, TransactionTransfer, "1000.00", "2024-03-05"),
		tx(t, TransactionExpense, "50.00", "2024-03-06"),
	}

	got := Summarize(txs, 2024, time.March)

	if got.TotalExpense.String() != "50.00" {
		t.Errorf("TotalExpense = %s, want 50.00 (transfer must not count)", got.TotalExpense)
	}
	if !got.TotalIncome.IsZero() {
		t.Errorf("TotalIncome = %s, want zero", got.TotalIncome)
	}
	if got.Net.String() != "-50.00" {
		t.Errorf("Net = %s, want -50.00", got.Net)
	}
}

func TestSummarizeEmptyMonth(t *testing.T) {
	got := Summarize(nil, 2024, time.January)
	if !got.TotalExpense.IsZero() || !got.TotalIncome.IsZero() || !got.Net.IsZero() {
		t.Errorf("empty month should yield zero totals, got %+v", got)
	}
	if got.Year != 2024 || got.Month != 1 {
		t.Errorf("summary should echo the requested month, got %d-%d", got.Year, got.Month)
	}
}

func TestSummarizeMonthBoundaries(t *testing.T) {
	txs := []Transaction{
		tx(t, TransactionExpense, "1.00", "2024-03-01"),
		tx(t, TransactionExpense, "2.00", "2024-03-31"),
		tx(t, TransactionExpense, "4.00", "2024-04-01"),
		tx(t, TransactionExpense, "8.00", "2024-02-29"),
	}

	got := Summarize(txs, 2024, time.March)
	if got.TotalExpense.String() != "3.00" {
		t.Errorf("TotalExpense = %s, want 3.00 (first and last day inclusive)", got.TotalExpense)
	}
}

func TestExpenseBreakdown(t *testing.T) {
	food := tx(t, TransactionExpense, "30.00", "2024-03-02")
	food.CategoryID = "cat-food"
	food.Category = &CategoryRef{Name: "Groceries"}

	food2 := tx(t, TransactionExpense, "20.00", "2024-03-09")
	food2.CategoryID = "cat-food"
	food2.Category = &CategoryRef{Name: "Groceries"}

	rent := tx(t, TransactionExpense, "900.00", "2024-03-01")
	rent.CategoryID = "cat-rent"
	rent.Category = &CategoryRef{Name: "Housing"}

	bare := tx(t, TransactionExpense, "5.00", "2024-03-15")

	income := tx(t, TransactionIncome, "2000.00", "2024-03-25")

	got := ExpenseBreakdown([]Transaction{food, food2, rent, bare, income}, 2024, time.March)

	if len(got) != 3 {
		t.Fatalf("breakdown has %d entries, want 3", len(got))
	}
	if got[0].Name != "Housing" || got[0].Amount.String() != "900.00" {
		t.Errorf("largest first: got %s %s", got[0].Name, got[0].Amount)
	}
	if got[1].Name != "Groceries" || got[1].Amount.String() != "50.00" {
		t.Errorf("grouped category: got %s %s", got[1].Name, got[1].Amount)
	}
	if got[2].Name != "Uncategorized" || got[2].CategoryID != "" {
		t.Errorf("uncategorized bucket: got %s (%q)", got[2].Name, got[2].CategoryID)
	}
}
