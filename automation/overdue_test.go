package automation

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/shopspring/decimal"
)

func TestOverdueDebts_PastThreshold(t *testing.T) {
	today := day(2024, time.June, 15)
	customers := []models.Customer{{ID: 1, Name: "Acme", Email: "ap@acme.test"}}
	debts := []models.Debt{
		{
			ID:            1,
			CustomerId:    1,
			InvoiceNumber: "INV-100",
			Amount:        decimal.NewFromInt(500),
			DueDate:       day(2024, time.May, 6), // 40 days
			CurrentStatus: models.DebtStatusPending,
		},
	}

	alerts := OverdueDebts(debts, customers, today, 30)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].DaysOverdue != 40 {
		t.Fatalf("expected 40 days overdue, got %d", alerts[0].DaysOverdue)
	}
	if alerts[0].Customer.Name != "Acme" {
		t.Fatalf("expected customer attached, got %+v", alerts[0].Customer)
	}
}

func TestOverdueDebts_AtThresholdIsNotAlerted(t *testing.T) {
	today := day(2024, time.June, 15)
	debts := []models.Debt{
		{ID: 1, CustomerId: 1, DueDate: day(2024, time.May, 16), CurrentStatus: models.DebtStatusPending}, // exactly 30
	}
	if got := OverdueDebts(debts, nil, today, 30); len(got) != 0 {
		t.Fatalf("threshold is exclusive, got %d alerts", len(got))
	}
}

func TestOverdueDebts_PaidDebtNeverAlerts(t *testing.T) {
	today := day(2024, time.June, 15)
	debts := []models.Debt{
		{ID: 1, CustomerId: 1, DueDate: day(2024, time.January, 1), CurrentStatus: models.DebtStatusPaid},
	}
	if got := OverdueDebts(debts, nil, today, 30); len(got) != 0 {
		t.Fatalf("paid debt must never alert, got %d", len(got))
	}
}

func TestOverdueDebts_PartialStillOutstanding(t *testing.T) {
	today := day(2024, time.June, 15)
	debts := []models.Debt{
		{ID: 1, CustomerId: 1, DueDate: day(2024, time.April, 1), CurrentStatus: models.DebtStatusPartial},
	}
	if got := OverdueDebts(debts, nil, today, 30); len(got) != 1 {
		t.Fatalf("partially paid debt still alerts, got %d", len(got))
	}
}

func TestOverdueDebts_DueTodayIsNotOverdue(t *testing.T) {
	today := day(2024, time.June, 15)
	debts := []models.Debt{
		{ID: 1, CustomerId: 1, DueDate: today, CurrentStatus: models.DebtStatusPending},
	}
	if got := OverdueDebts(debts, nil, today, 0); len(got) != 0 {
		t.Fatalf("due date today is not overdue, got %d", len(got))
	}
}
