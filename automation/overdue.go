package automation

import (
	"time"

	"bitbucket.org/mmdatafocus/books_automation/models"
)

type OverdueAlert struct {
	Debt        models.Debt
	Customer    models.Customer
	DaysOverdue int
}

// OverdueDebts selects outstanding debts whose due date is strictly in the
// past and whose days overdue exceed the threshold. The at-most-once gate is
// applied by the caller through the dedup ledger, not here.
func OverdueDebts(debts []models.Debt, customers []models.Customer, today time.Time, thresholdDays int) []OverdueAlert {
	customerById := make(map[int]models.Customer, len(customers))
	for _, c := range customers {
		customerById[c.ID] = c
	}

	var alerts []OverdueAlert
	for _, d := range debts {
		if !d.CurrentStatus.IsOutstanding() {
			continue
		}
		if !d.DueDate.Before(today) {
			continue
		}
		days := d.DaysOverdue(today)
		if days <= thresholdDays {
			continue
		}
		alerts = append(alerts, OverdueAlert{
			Debt:        d,
			Customer:    customerById[d.CustomerId],
			DaysOverdue: days,
		})
	}
	return alerts
}
