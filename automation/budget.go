package automation

import (
	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/shopspring/decimal"
)

type BudgetBreach struct {
	Project models.Project
	Spent   decimal.Decimal
}

// BudgetBreaches flags in-progress projects whose linked expenses exceed the
// budget. The check repeats every tick the condition holds: it is a
// recurring warning, not a one-shot alert, so no dedup applies here.
func BudgetBreaches(projects []models.Project, expenses []models.Expense) []BudgetBreach {
	spentByProject := make(map[int]decimal.Decimal)
	for _, e := range expenses {
		if e.ProjectId == 0 {
			continue
		}
		spentByProject[e.ProjectId] = spentByProject[e.ProjectId].Add(e.Amount)
	}

	var breaches []BudgetBreach
	for _, p := range projects {
		if !p.TracksBudget() {
			continue
		}
		spent := spentByProject[p.ID]
		if spent.GreaterThan(p.Budget) {
			breaches = append(breaches, BudgetBreach{Project: p, Spent: spent})
		}
	}
	return breaches
}
