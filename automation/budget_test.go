package automation

import (
	"testing"

	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/shopspring/decimal"
)

func TestBudgetBreaches_OverspendIsFlagged(t *testing.T) {
	projects := []models.Project{
		{ID: 1, Name: "Site Revamp", Budget: decimal.NewFromInt(1000), CurrentStatus: models.ProjectStatusInProgress},
	}
	expenses := []models.Expense{
		{ID: 1, ProjectId: 1, Amount: decimal.NewFromInt(700)},
		{ID: 2, ProjectId: 1, Amount: decimal.NewFromInt(500)},
		{ID: 3, ProjectId: 2, Amount: decimal.NewFromInt(9999)}, // other project
		{ID: 4, Amount: decimal.NewFromInt(50)},                 // unlinked
	}

	breaches := BudgetBreaches(projects, expenses)
	if len(breaches) != 1 {
		t.Fatalf("expected 1 breach, got %d", len(breaches))
	}
	if !breaches[0].Spent.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected spent 1200, got %s", breaches[0].Spent)
	}
}

func TestBudgetBreaches_ExactBudgetIsNotABreach(t *testing.T) {
	projects := []models.Project{
		{ID: 1, Budget: decimal.NewFromInt(1000), CurrentStatus: models.ProjectStatusInProgress},
	}
	expenses := []models.Expense{
		{ID: 1, ProjectId: 1, Amount: decimal.NewFromInt(1000)},
	}
	if got := BudgetBreaches(projects, expenses); len(got) != 0 {
		t.Fatalf("spending exactly the budget must not breach, got %d", len(got))
	}
}

func TestBudgetBreaches_NeedsReviewKeepsWarning(t *testing.T) {
	// A project already flagged stays in scope so the warning repeats.
	projects := []models.Project{
		{ID: 1, Budget: decimal.NewFromInt(1000), CurrentStatus: models.ProjectStatusNeedsReview},
	}
	expenses := []models.Expense{
		{ID: 1, ProjectId: 1, Amount: decimal.NewFromInt(1200)},
	}
	if got := BudgetBreaches(projects, expenses); len(got) != 1 {
		t.Fatalf("expected NeedsReview project to keep breaching, got %d", len(got))
	}
}

func TestBudgetBreaches_CompletedAndZeroBudgetIgnored(t *testing.T) {
	projects := []models.Project{
		{ID: 1, Budget: decimal.NewFromInt(1000), CurrentStatus: models.ProjectStatusCompleted},
		{ID: 2, Budget: decimal.Zero, CurrentStatus: models.ProjectStatusInProgress},
	}
	expenses := []models.Expense{
		{ID: 1, ProjectId: 1, Amount: decimal.NewFromInt(5000)},
		{ID: 2, ProjectId: 2, Amount: decimal.NewFromInt(5000)},
	}
	if got := BudgetBreaches(projects, expenses); len(got) != 0 {
		t.Fatalf("expected no breaches, got %d", len(got))
	}
}
