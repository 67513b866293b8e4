package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/config"
	"bitbucket.org/mmdatafocus/books_automation/models"
	"bitbucket.org/mmdatafocus/books_automation/utils"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Rule names, used in log entries and as dedup ledger keys.
const (
	RuleExpenseRecurrence = "expense_recurrence"
	RuleIncomeRecurrence  = "income_recurrence"
	RuleAutoRestock       = "auto_restock"
	RuleBudgetMonitor     = "budget_monitor"
	RuleRiskScorer        = "risk_scorer"
	RuleOverdueDebts      = "overdue_debts"
	RuleLowStock          = "low_stock"
)

// Engine drives the periodic automation pass: load a snapshot of the
// business, run the rule evaluators in a fixed sequence, commit writebacks,
// publish events, and append to the log ring. One tick per business per
// interval; the Run loop executes ticks synchronously so in-process ticks
// never overlap, and the Redis lock extends the single-flight guarantee
// across instances.
type Engine struct {
	Store     DataStore
	Notifier  Notifier
	Predictor StockPredictor
	Locker    *redislock.Client
	Logger    *logrus.Logger
	Config    config.AutomationConfig
	Logs      *LogRing

	now func() time.Time
}

func NewEngine(store DataStore, notifier Notifier, logger *logrus.Logger, cfg config.AutomationConfig) *Engine {
	return &Engine{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
		Config:   cfg,
		Logs:     NewLogRing(cfg.LogRingCap),
		now:      time.Now,
	}
}

// Run ticks immediately, then on the fixed interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.TickAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.Config.TickInterval()):
			e.TickAll(ctx)
		}
	}
}

// TickAll runs one tick per automation-enabled business.
func (e *Engine) TickAll(ctx context.Context) {
	settings, err := e.Store.EnabledBusinessSettings(ctx)
	if err != nil {
		config.LogError(e.Logger, "automation", "TickAll", "list businesses", nil, err)
		return
	}
	for _, setting := range settings {
		tickCtx := utils.SetBusinessIdInContext(ctx, setting.BusinessId)
		tickCtx = utils.SetUserNameInContext(tickCtx, "System")
		tickCtx = utils.SetCorrelationIdInContext(tickCtx, uuid.NewString())
		e.TickBusiness(tickCtx, setting)
	}
}

// TickBusiness runs one complete pass for one business. Each rule runs in
// its own error boundary: a failing rule is logged as Failed and the rest
// of the sequence still runs.
func (e *Engine) TickBusiness(ctx context.Context, setting models.BusinessSetting) {
	if e.Locker != nil {
		lock, err := e.Locker.Obtain(ctx, "automation:tick:"+setting.BusinessId, e.Config.LockTTL(), nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			e.Logger.WithFields(logrus.Fields{
				"module":      "automation",
				"business_id": setting.BusinessId,
			}).Warn("previous tick still holds the lock; skipping")
			return
		}
		if err != nil {
			config.LogError(e.Logger, "automation", "TickBusiness", "obtain tick lock", setting.BusinessId, err)
			return
		}
		defer lock.Release(context.WithoutCancel(ctx))
	}

	today := utils.TruncateToDayUTC(e.now())
	salesSince := today.AddDate(0, 0, -e.Config.SalesLookbackDays)

	loader := &SnapshotLoader{Store: e.Store, Logger: e.Logger}
	snap := loader.Load(ctx, setting, salesSince)

	var entries []models.AutomationLogEntry
	var failedRules []string
	run := func(rule string, fn func() ([]models.AutomationLogEntry, error)) {
		ruleEntries, err := e.runRule(rule, fn)
		entries = append(entries, ruleEntries...)
		if err != nil {
			failedRules = append(failedRules, rule)
			entries = append(entries, NewLogEntry(rule, err.Error(), models.AutomationRunFailed))
			config.LogError(e.Logger, "automation", "TickBusiness", rule, setting.BusinessId, err)
		}
	}

	run(RuleExpenseRecurrence, func() ([]models.AutomationLogEntry, error) {
		return e.runExpenseRecurrence(ctx, snap, today)
	})
	run(RuleIncomeRecurrence, func() ([]models.AutomationLogEntry, error) {
		return e.runIncomeRecurrence(ctx, snap, today)
	})
	run(RuleAutoRestock, func() ([]models.AutomationLogEntry, error) {
		return e.runAutoRestock(ctx, snap, today)
	})
	run(RuleBudgetMonitor, func() ([]models.AutomationLogEntry, error) {
		return e.runBudgetMonitor(ctx, snap)
	})
	run(RuleRiskScorer, func() ([]models.AutomationLogEntry, error) {
		return e.runRiskScorer(ctx, snap, today)
	})
	run(RuleOverdueDebts, func() ([]models.AutomationLogEntry, error) {
		return e.runOverdueDebts(ctx, snap, today)
	})
	run(RuleLowStock, func() ([]models.AutomationLogEntry, error) {
		return e.runLowStock(ctx, snap)
	})

	e.Logs.Append(entries...)
	e.publishTickSummary(ctx, snap, entries, failedRules)
}

// runRule converts a panicking evaluator into an error instead of killing
// the tick.
func (e *Engine) runRule(rule string, fn func() ([]models.AutomationLogEntry, error)) (entries []models.AutomationLogEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", rule, r)
		}
	}()
	return fn()
}

func (e *Engine) runExpenseRecurrence(ctx context.Context, snap *Snapshot, today time.Time) ([]models.AutomationLogEntry, error) {
	var entries []models.AutomationLogEntry
	var errs []error
	for _, batch := range BuildExpenseRecurrence(snap.Expenses, today, e.Config.CatchUpLimit) {
		if err := e.Store.CommitExpenseRecurrence(ctx, batch); err != nil {
			errs = append(errs, fmt.Errorf("template %d: %w", batch.TemplateId, err))
			continue
		}
		for _, draft := range batch.Drafts {
			date := draft.RecordDate.Format("2006-01-02")
			detail := Message(snap.Setting.Locale, "expense.created", map[string]interface{}{
				"Category": draft.Category,
				"Date":     date,
			})
			entries = append(entries, NewLogEntry(RuleExpenseRecurrence, detail, models.AutomationRunSuccess))
			e.publish(ctx, snap, models.EventExpenseCreated, map[string]interface{}{
				"template_id": batch.TemplateId,
				"category":    draft.Category,
				"amount":      draft.Amount,
				"currency":    draft.CurrencyCode,
				"record_date": date,
				"message":     detail,
			})
		}
	}
	return entries, errors.Join(errs...)
}

func (e *Engine) runIncomeRecurrence(ctx context.Context, snap *Snapshot, today time.Time) ([]models.AutomationLogEntry, error) {
	var entries []models.AutomationLogEntry
	var errs []error
	for _, batch := range BuildIncomeRecurrence(snap.Incomes, today, e.Config.CatchUpLimit) {
		if err := e.Store.CommitIncomeRecurrence(ctx, batch); err != nil {
			errs = append(errs, fmt.Errorf("template %d: %w", batch.TemplateId, err))
			continue
		}
		for _, draft := range batch.Drafts {
			date := draft.RecordDate.Format("2006-01-02")
			detail := Message(snap.Setting.Locale, "income.created", map[string]interface{}{
				"Category": draft.Category,
				"Date":     date,
			})
			entries = append(entries, NewLogEntry(RuleIncomeRecurrence, detail, models.AutomationRunSuccess))
			e.publish(ctx, snap, models.EventIncomeCreated, map[string]interface{}{
				"template_id": batch.TemplateId,
				"category":    draft.Category,
				"amount":      draft.Amount,
				"currency":    draft.CurrencyCode,
				"record_date": date,
				"message":     detail,
			})
		}
	}
	return entries, errors.Join(errs...)
}

func (e *Engine) runAutoRestock(ctx context.Context, snap *Snapshot, today time.Time) ([]models.AutomationLogEntry, error) {
	var entries []models.AutomationLogEntry
	var errs []error
	candidates := RestockCandidates(snap.Products, snap.StockByProduct, snap.PurchaseOrders, e.Config)
	for _, c := range candidates {
		order := BuildRestockOrder(c, snap.Setting, today)
		if err := e.Store.SavePurchaseOrder(ctx, &order, true); err != nil {
			errs = append(errs, fmt.Errorf("product %d: %w", c.Product.ID, err))
			continue
		}
		detail := Message(snap.Setting.Locale, "restock.ordered", map[string]interface{}{
			"OrderNumber":  order.OrderNumber,
			"Product":      c.Product.Name,
			"Stock":        c.CurrentStock,
			"ReorderPoint": c.Product.ReorderPoint,
		})
		entries = append(entries, NewLogEntry(RuleAutoRestock, detail, models.AutomationRunSuccess))
	}
	return entries, errors.Join(errs...)
}

func (e *Engine) runBudgetMonitor(ctx context.Context, snap *Snapshot) ([]models.AutomationLogEntry, error) {
	var entries []models.AutomationLogEntry
	var errs []error
	for _, breach := range BudgetBreaches(snap.Projects, snap.Expenses) {
		project := breach.Project
		if project.CurrentStatus != models.ProjectStatusNeedsReview {
			project.CurrentStatus = models.ProjectStatusNeedsReview
			if err := e.Store.SaveProject(ctx, &project, false); err != nil {
				errs = append(errs, fmt.Errorf("project %d: %w", project.ID, err))
				continue
			}
		}
		detail := Message(snap.Setting.Locale, "project.budget_exceeded", map[string]interface{}{
			"Project": project.Name,
			"Spent":   breach.Spent,
			"Budget":  project.Budget,
		})
		entries = append(entries, NewLogEntry(RuleBudgetMonitor, detail, models.AutomationRunSuccess))
		// The warning recurs every tick the project stays over budget.
		e.publish(ctx, snap, models.EventProjectBudgetExceeded, map[string]interface{}{
			"project_id": project.ID,
			"project":    project.Name,
			"budget":     project.Budget,
			"spent":      breach.Spent,
			"message":    detail,
		})
	}
	return entries, errors.Join(errs...)
}

func (e *Engine) runRiskScorer(ctx context.Context, snap *Snapshot, today time.Time) ([]models.AutomationLogEntry, error) {
	var entries []models.AutomationLogEntry
	var errs []error
	customerById := make(map[int]models.Customer, len(snap.Customers))
	for _, c := range snap.Customers {
		customerById[c.ID] = c
	}
	for _, profile := range ComputeRiskProfiles(snap.Customers, snap.Debts, today, e.Config) {
		customer, ok := customerById[profile.CustomerId]
		if !ok || customer.RiskTier == profile.Tier {
			// Unchanged tiers are not written back.
			continue
		}
		previous := customer.RiskTier
		customer.RiskTier = profile.Tier
		if err := e.Store.SaveCustomer(ctx, &customer, false); err != nil {
			errs = append(errs, fmt.Errorf("customer %d: %w", customer.ID, err))
			continue
		}
		detail := fmt.Sprintf("customer %q risk tier %s -> %s (score %s)",
			customer.Name, previous, profile.Tier, profile.Score.StringFixed(2))
		entries = append(entries, NewLogEntry(RuleRiskScorer, detail, models.AutomationRunSuccess))
	}
	return entries, errors.Join(errs...)
}

func (e *Engine) runOverdueDebts(ctx context.Context, snap *Snapshot, today time.Time) ([]models.AutomationLogEntry, error) {
	if !utils.DereferencePtr(snap.Setting.OverdueAlertEnabled, true) {
		return nil, nil
	}
	threshold := snap.Setting.OverdueAlertDays
	if threshold <= 0 {
		threshold = e.Config.OverdueDaysDefault
	}

	var entries []models.AutomationLogEntry
	var errs []error
	for _, alert := range OverdueDebts(snap.Debts, snap.Customers, today, threshold) {
		first, err := e.Store.MarkAlerted(ctx, RuleOverdueDebts, alert.Debt.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("debt %d: %w", alert.Debt.ID, err))
			continue
		}
		if !first {
			continue
		}
		detail := Message(snap.Setting.Locale, "debt.reminder", map[string]interface{}{
			"Invoice":  alert.Debt.InvoiceNumber,
			"Customer": alert.Customer.Name,
			"Days":     alert.DaysOverdue,
			"Amount":   alert.Debt.Amount,
			"Currency": alert.Debt.CurrencyCode,
		})
		entries = append(entries, NewLogEntry(RuleOverdueDebts, detail, models.AutomationRunSuccess))
		e.publish(ctx, snap, models.EventDebtReminder, map[string]interface{}{
			"debt_id":        alert.Debt.ID,
			"customer_id":    alert.Debt.CustomerId,
			"customer":       alert.Customer.Name,
			"contact":        alert.Customer.ContactInfo(),
			"amount":         alert.Debt.Amount,
			"currency":       alert.Debt.CurrencyCode,
			"due_date":       alert.Debt.DueDate.Format("2006-01-02"),
			"invoice_number": alert.Debt.InvoiceNumber,
			"days_overdue":   alert.DaysOverdue,
			"message":        detail,
		})
	}
	return entries, errors.Join(errs...)
}

func (e *Engine) runLowStock(ctx context.Context, snap *Snapshot) ([]models.AutomationLogEntry, error) {
	var entries []models.AutomationLogEntry
	var errs []error
	for _, c := range LowStockCandidates(snap.Products, snap.StockByProduct, snap.Sales) {
		first, err := e.Store.MarkAlerted(ctx, RuleLowStock, c.Product.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("product %d: %w", c.Product.ID, err))
			continue
		}
		if !first {
			continue
		}
		prediction := e.predictDepletion(ctx, c)
		detail := Message(snap.Setting.Locale, "inventory.low_stock", map[string]interface{}{
			"Product": c.Product.Name,
			"Stock":   c.CurrentStock,
		})
		entries = append(entries, NewLogEntry(RuleLowStock, detail, models.AutomationRunSuccess))
		payload := map[string]interface{}{
			"product_id":    c.Product.ID,
			"product":       c.Product.Name,
			"current_stock": c.CurrentStock,
			"reorder_point": c.Product.ReorderPoint,
			"message":       detail,
		}
		if prediction != "" {
			payload["prediction"] = prediction
		}
		e.publish(ctx, snap, models.EventLowStockAlert, payload)
	}
	return entries, errors.Join(errs...)
}

// predictDepletion asks the forecasting collaborator for a depletion window.
// No history, no predictor, or a predictor failure all mean "no prediction".
func (e *Engine) predictDepletion(ctx context.Context, c LowStockCandidate) string {
	if e.Predictor == nil || len(c.History) == 0 {
		return ""
	}
	prediction, err := e.Predictor.Predict(ctx, c.Product.Name, c.CurrentStock, c.History)
	if err != nil {
		e.Logger.WithFields(logrus.Fields{
			"module":     "automation",
			"product_id": c.Product.ID,
		}).Warn("stock prediction unavailable: " + err.Error())
		return ""
	}
	return prediction
}

func (e *Engine) publish(ctx context.Context, snap *Snapshot, eventType models.NotificationEventType, payload map[string]interface{}) {
	if e.Notifier == nil {
		return
	}
	event := NewEvent(snap.Setting.BusinessId, eventType, snap.Setting.Locale, payload)
	if actor, ok := utils.GetUserNameFromContext(ctx); ok {
		event.Actor = actor
	}
	if err := e.Notifier.Publish(ctx, event); err != nil {
		config.LogError(e.Logger, "automation", "publish", string(eventType), snap.Setting.BusinessId, err)
	}
}

// publishTickSummary surfaces the tick outcome, including degraded
// collections and failed rules, instead of swallowing failures.
func (e *Engine) publishTickSummary(ctx context.Context, snap *Snapshot, entries []models.AutomationLogEntry, failedRules []string) {
	detail := Message(snap.Setting.Locale, "tick.completed", map[string]interface{}{
		"Entries": len(entries),
		"Failed":  len(failedRules),
	})
	e.publish(ctx, snap, models.EventTickCompleted, map[string]interface{}{
		"entries":      len(entries),
		"failed_rules": failedRules,
		"degraded":     snap.Degraded,
		"message":      detail,
	})
}
