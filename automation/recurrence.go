package automation

import (
	"time"

	"bitbucket.org/mmdatafocus/books_automation/models"
	"bitbucket.org/mmdatafocus/books_automation/utils"
)

// RecurringTemplate is satisfied by both expense and income records whose
// recurrence frequency is set.
type RecurringTemplate interface {
	GetId() int
	IsRecurring() bool
	Frequency() models.RecurrenceFrequency
	RecurrenceCursor() time.Time
}

type ExpenseRecurrenceBatch struct {
	TemplateId int
	Drafts     []models.Expense
	NewCursor  time.Time
}

type IncomeRecurrenceBatch struct {
	TemplateId int
	Drafts     []models.Income
	NewCursor  time.Time
}

// occurrenceAfter returns the nth occurrence after the cursor. Month-based
// frequencies clamp to the last day of the target month instead of letting
// AddDate normalize past it (Jan 31 + 1 month must be Feb 28/29, not Mar 2).
// Counting every occurrence from the cursor, rather than chaining advances,
// keeps the anchor day stable across a catch-up batch: a cursor on the 31st
// yields Feb 29, Mar 31, Apr 30, May 31.
func occurrenceAfter(cursor time.Time, freq models.RecurrenceFrequency, n int) time.Time {
	switch freq {
	case models.RecurrenceDaily:
		return cursor.AddDate(0, 0, n)
	case models.RecurrenceWeekly:
		return cursor.AddDate(0, 0, 7*n)
	case models.RecurrenceMonthly:
		return addMonthsClamped(cursor, n)
	case models.RecurrenceYearly:
		return addMonthsClamped(cursor, 12*n)
	}
	return cursor
}

func addMonthsClamped(from time.Time, months int) time.Time {
	first := time.Date(from.Year(), from.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := from.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DueOccurrences walks the template's calendar from its cursor up to today
// (inclusive), in UTC day units, stopping at the catch-up limit. Backlog
// beyond the limit is deferred to subsequent ticks rather than generated in
// one pass.
func DueOccurrences(tpl RecurringTemplate, today time.Time, limit int) []time.Time {
	if !tpl.IsRecurring() || limit <= 0 {
		return nil
	}
	freq := tpl.Frequency()
	cursor := utils.TruncateToDayUTC(tpl.RecurrenceCursor())
	today = utils.TruncateToDayUTC(today)

	var due []time.Time
	for n := 1; len(due) < limit; n++ {
		next := occurrenceAfter(cursor, freq, n)
		if next.After(today) {
			break
		}
		due = append(due, next)
	}
	return due
}

// BuildExpenseRecurrence scans the recurring expense templates and plans one
// batch per template that has at least one due occurrence. The batch cursor
// is the last emitted occurrence date, never today.
func BuildExpenseRecurrence(records []models.Expense, today time.Time, limit int) []ExpenseRecurrenceBatch {
	var batches []ExpenseRecurrenceBatch
	for _, tpl := range records {
		if !tpl.IsRecurring() {
			continue
		}
		due := DueOccurrences(tpl, today, limit)
		if len(due) == 0 {
			continue
		}
		drafts := make([]models.Expense, 0, len(due))
		for _, occurrence := range due {
			drafts = append(drafts, expenseDraftFromTemplate(tpl, occurrence))
		}
		batches = append(batches, ExpenseRecurrenceBatch{
			TemplateId: tpl.ID,
			Drafts:     drafts,
			NewCursor:  due[len(due)-1],
		})
	}
	return batches
}

func BuildIncomeRecurrence(records []models.Income, today time.Time, limit int) []IncomeRecurrenceBatch {
	var batches []IncomeRecurrenceBatch
	for _, tpl := range records {
		if !tpl.IsRecurring() {
			continue
		}
		due := DueOccurrences(tpl, today, limit)
		if len(due) == 0 {
			continue
		}
		drafts := make([]models.Income, 0, len(due))
		for _, occurrence := range due {
			drafts = append(drafts, incomeDraftFromTemplate(tpl, occurrence))
		}
		batches = append(batches, IncomeRecurrenceBatch{
			TemplateId: tpl.ID,
			Drafts:     drafts,
			NewCursor:  due[len(due)-1],
		})
	}
	return batches
}

// Drafts are plain records after creation: editable and deletable through
// the normal CRUD flows, owned by them from then on.
func expenseDraftFromTemplate(tpl models.Expense, occurrence time.Time) models.Expense {
	return models.Expense{
		BusinessId:       tpl.BusinessId,
		Category:         tpl.Category,
		Description:      tpl.Description,
		RecordDate:       occurrence,
		CurrencyCode:     tpl.CurrencyCode,
		Amount:           tpl.Amount,
		ProjectId:        tpl.ProjectId,
		CurrentStatus:    models.RecordStatusDraft,
		IsAutoGenerated:  utils.NewTrue(),
		SourceTemplateId: tpl.ID,
	}
}

func incomeDraftFromTemplate(tpl models.Income, occurrence time.Time) models.Income {
	return models.Income{
		BusinessId:       tpl.BusinessId,
		Category:         tpl.Category,
		Description:      tpl.Description,
		RecordDate:       occurrence,
		CurrencyCode:     tpl.CurrencyCode,
		Amount:           tpl.Amount,
		CustomerId:       tpl.CustomerId,
		CurrentStatus:    models.RecordStatusDraft,
		IsAutoGenerated:  utils.NewTrue(),
		SourceTemplateId: tpl.ID,
	}
}
