package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fakeStore holds in-memory collections and mutates them on commit, so a
// second tick observes the writes of the first one.
type fakeStore struct {
	settings  []models.BusinessSetting
	products  []models.Product
	stocks    []models.StockLevel
	debts     []models.Debt
	customers []models.Customer
	expenses  []models.Expense
	incomes   []models.Income
	orders    []models.PurchaseOrder
	sales     []models.Sale
	projects  []models.Project

	alerted        map[string]bool
	savedOrders    []models.PurchaseOrder
	savedCustomers []models.Customer
	savedProjects  []models.Project

	failSaveCustomer bool
	failDebts        bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{alerted: make(map[string]bool)}
}

func (s *fakeStore) EnabledBusinessSettings(ctx context.Context) ([]models.BusinessSetting, error) {
	return s.settings, nil
}

func (s *fakeStore) Products(ctx context.Context) ([]models.Product, error) {
	return s.products, nil
}

func (s *fakeStore) StockLevels(ctx context.Context) ([]models.StockLevel, error) {
	return s.stocks, nil
}

func (s *fakeStore) Debts(ctx context.Context) ([]models.Debt, error) {
	if s.failDebts {
		return nil, errors.New("debts unavailable")
	}
	return s.debts, nil
}

func (s *fakeStore) Customers(ctx context.Context) ([]models.Customer, error) {
	return s.customers, nil
}

func (s *fakeStore) Expenses(ctx context.Context) ([]models.Expense, error) {
	return s.expenses, nil
}

func (s *fakeStore) Incomes(ctx context.Context) ([]models.Income, error) {
	return s.incomes, nil
}

func (s *fakeStore) PurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	return s.orders, nil
}

func (s *fakeStore) RecentSales(ctx context.Context, since time.Time) ([]models.Sale, error) {
	return s.sales, nil
}

func (s *fakeStore) Projects(ctx context.Context) ([]models.Project, error) {
	return s.projects, nil
}

func (s *fakeStore) SaveExpense(ctx context.Context, expense *models.Expense, isNew bool) error {
	s.expenses = append(s.expenses, *expense)
	return nil
}

func (s *fakeStore) SaveIncome(ctx context.Context, income *models.Income, isNew bool) error {
	s.incomes = append(s.incomes, *income)
	return nil
}

func (s *fakeStore) SaveProject(ctx context.Context, project *models.Project, isNew bool) error {
	s.savedProjects = append(s.savedProjects, *project)
	for i := range s.projects {
		if s.projects[i].ID == project.ID {
			s.projects[i] = *project
		}
	}
	return nil
}

func (s *fakeStore) SaveCustomer(ctx context.Context, customer *models.Customer, isNew bool) error {
	if s.failSaveCustomer {
		return errors.New("customer save rejected")
	}
	s.savedCustomers = append(s.savedCustomers, *customer)
	for i := range s.customers {
		if s.customers[i].ID == customer.ID {
			s.customers[i] = *customer
		}
	}
	return nil
}

func (s *fakeStore) SavePurchaseOrder(ctx context.Context, order *models.PurchaseOrder, isNew bool) error {
	s.savedOrders = append(s.savedOrders, *order)
	s.orders = append(s.orders, *order)
	return nil
}

func (s *fakeStore) CommitExpenseRecurrence(ctx context.Context, batch ExpenseRecurrenceBatch) error {
	s.expenses = append(s.expenses, batch.Drafts...)
	for i := range s.expenses {
		if s.expenses[i].ID == batch.TemplateId {
			cursor := batch.NewCursor
			s.expenses[i].LastRecurrenceDate = &cursor
		}
	}
	return nil
}

func (s *fakeStore) CommitIncomeRecurrence(ctx context.Context, batch IncomeRecurrenceBatch) error {
	s.incomes = append(s.incomes, batch.Drafts...)
	for i := range s.incomes {
		if s.incomes[i].ID == batch.TemplateId {
			cursor := batch.NewCursor
			s.incomes[i].LastRecurrenceDate = &cursor
		}
	}
	return nil
}

func (s *fakeStore) MarkAlerted(ctx context.Context, ruleName string, referenceId int) (bool, error) {
	key := fmt.Sprintf("%s:%d", ruleName, referenceId)
	if s.alerted[key] {
		return false, nil
	}
	s.alerted[key] = true
	return true, nil
}

type fakeNotifier struct {
	events []models.NotificationEvent
}

func (n *fakeNotifier) Publish(ctx context.Context, event models.NotificationEvent) error {
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) ofType(t models.NotificationEventType) []models.NotificationEvent {
	var out []models.NotificationEvent
	for _, e := range n.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakePredictor struct {
	result string
	err    error
}

func (p *fakePredictor) Predict(ctx context.Context, productName string, currentStock decimal.Decimal, history []SalesPoint) (string, error) {
	return p.result, p.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testSetting() models.BusinessSetting {
	return models.BusinessSetting{
		BusinessId:            "biz-1",
		AutomationEnabled:     boolPtr(true),
		OverdueAlertEnabled:   boolPtr(true),
		OverdueAlertDays:      30,
		DefaultWarehouseId:    1,
		AutoRestockSupplierId: 5,
		Locale:                "en",
	}
}

func boolPtr(v bool) *bool { return &v }

func newTestEngine(store *fakeStore, notifier *fakeNotifier, today time.Time) *Engine {
	e := NewEngine(store, notifier, quietLogger(), riskCfg())
	e.now = func() time.Time { return today }
	return e
}

func TestTickBusiness_OverdueAlertFiresExactlyOnce(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.customers = []models.Customer{{ID: 1, Name: "Acme", Email: "ap@acme.test"}}
	store.debts = []models.Debt{
		{
			ID:            1,
			CustomerId:    1,
			InvoiceNumber: "INV-100",
			Amount:        decimal.NewFromInt(500),
			CurrencyCode:  "USD",
			DueDate:       day(2024, time.May, 1),
			CurrentStatus: models.DebtStatusPending,
		},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	e.TickBusiness(context.Background(), testSetting())
	e.TickBusiness(context.Background(), testSetting())

	reminders := notifier.ofType(models.EventDebtReminder)
	if len(reminders) != 1 {
		t.Fatalf("expected exactly one reminder across ticks, got %d", len(reminders))
	}

	// Paying the debt keeps it quiet on later ticks too.
	store.debts[0].CurrentStatus = models.DebtStatusPaid
	e.TickBusiness(context.Background(), testSetting())
	if reminders := notifier.ofType(models.EventDebtReminder); len(reminders) != 1 {
		t.Fatalf("paid debt must stay quiet, got %d reminders", len(reminders))
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(reminders[0].Payload, &payload); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if payload["invoice_number"] != "INV-100" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["contact"] != "ap@acme.test" {
		t.Fatalf("expected contact info in payload, got %v", payload["contact"])
	}
}

func TestTickBusiness_RecurrenceCommitsThenGoesQuiet(t *testing.T) {
	today := day(2024, time.June, 15)
	last := day(2024, time.April, 15)
	store := newFakeStore()
	store.expenses = []models.Expense{
		{
			ID:                  1,
			BusinessId:          "biz-1",
			Category:            "Rent",
			Amount:              decimal.NewFromInt(800),
			CurrencyCode:        "USD",
			RecurrenceFrequency: monthly(),
			LastRecurrenceDate:  &last,
		},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	e.TickBusiness(context.Background(), testSetting())
	if created := notifier.ofType(models.EventExpenseCreated); len(created) != 2 {
		t.Fatalf("expected 2 generated drafts (May, June), got %d", len(created))
	}
	if len(store.expenses) != 3 {
		t.Fatalf("expected template plus 2 drafts in store, got %d", len(store.expenses))
	}
	if cursor := store.expenses[0].LastRecurrenceDate; cursor == nil || !cursor.Equal(day(2024, time.June, 15)) {
		t.Fatalf("expected cursor advanced to 2024-06-15, got %v", cursor)
	}

	// Caught up: the next tick must not generate anything.
	e.TickBusiness(context.Background(), testSetting())
	if created := notifier.ofType(models.EventExpenseCreated); len(created) != 2 {
		t.Fatalf("expected no new drafts on second tick, got %d total", len(created))
	}
}

func TestTickBusiness_BudgetWarningRepeatsButSavesOnce(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.projects = []models.Project{
		{ID: 1, BusinessId: "biz-1", Name: "Revamp", Budget: decimal.NewFromInt(1000), CurrentStatus: models.ProjectStatusInProgress},
	}
	store.expenses = []models.Expense{
		{ID: 1, ProjectId: 1, Amount: decimal.NewFromInt(1200)},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	e.TickBusiness(context.Background(), testSetting())
	e.TickBusiness(context.Background(), testSetting())

	if warnings := notifier.ofType(models.EventProjectBudgetExceeded); len(warnings) != 2 {
		t.Fatalf("expected a warning per tick, got %d", len(warnings))
	}
	if len(store.savedProjects) != 1 {
		t.Fatalf("expected a single status write, got %d", len(store.savedProjects))
	}
	if store.projects[0].CurrentStatus != models.ProjectStatusNeedsReview {
		t.Fatalf("expected NeedsReview, got %s", store.projects[0].CurrentStatus)
	}
}

func TestTickBusiness_RiskTierWrittenOnlyOnChange(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.customers = []models.Customer{
		{ID: 1, Name: "Risky", RiskTier: models.RiskTierLow},
		{ID: 2, Name: "Steady", RiskTier: models.RiskTierLow},
	}
	store.debts = []models.Debt{
		{ID: 1, CustomerId: 1, Amount: decimal.NewFromInt(4000), DueDate: day(2024, time.April, 1), CurrentStatus: models.DebtStatusOverdue},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	e.TickBusiness(context.Background(), testSetting())
	if len(store.savedCustomers) != 1 {
		t.Fatalf("expected only the changed customer saved, got %d", len(store.savedCustomers))
	}
	if store.savedCustomers[0].RiskTier != models.RiskTierHigh {
		t.Fatalf("expected High, got %s", store.savedCustomers[0].RiskTier)
	}

	// Second tick: tier already High, nothing to write.
	e.TickBusiness(context.Background(), testSetting())
	if len(store.savedCustomers) != 1 {
		t.Fatalf("unchanged tier must not be re-saved, got %d writes", len(store.savedCustomers))
	}
}

func TestTickBusiness_FailingRuleDoesNotStopOthers(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.failSaveCustomer = true
	store.customers = []models.Customer{{ID: 1, Name: "Risky", RiskTier: models.RiskTierLow}}
	store.debts = []models.Debt{
		{ID: 1, CustomerId: 1, Amount: decimal.NewFromInt(4000), DueDate: day(2024, time.April, 1), CurrentStatus: models.DebtStatusOverdue},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	e.TickBusiness(context.Background(), testSetting())

	// The overdue rule runs after the failing risk scorer and still alerts.
	if reminders := notifier.ofType(models.EventDebtReminder); len(reminders) != 1 {
		t.Fatalf("expected later rule to still run, got %d reminders", len(reminders))
	}

	var failed []models.AutomationLogEntry
	for _, entry := range e.Logs.Entries() {
		if entry.Status == models.AutomationRunFailed {
			failed = append(failed, entry)
		}
	}
	if len(failed) != 1 || failed[0].RuleName != RuleRiskScorer {
		t.Fatalf("expected one failed entry for the risk scorer, got %+v", failed)
	}

	summaries := notifier.ofType(models.EventTickCompleted)
	if len(summaries) != 1 {
		t.Fatalf("expected a tick summary, got %d", len(summaries))
	}
	var payload struct {
		FailedRules []string `json:"failed_rules"`
	}
	if err := json.Unmarshal(summaries[0].Payload, &payload); err != nil {
		t.Fatalf("summary unmarshal: %v", err)
	}
	if len(payload.FailedRules) != 1 || payload.FailedRules[0] != RuleRiskScorer {
		t.Fatalf("expected risk_scorer in failed rules, got %v", payload.FailedRules)
	}
}

func TestTickBusiness_DegradedFetchStillCompletes(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.failDebts = true
	store.products = []models.Product{{ID: 1, Name: "Widget", ReorderPoint: dec(5), UnitRate: dec(2)}}
	store.stocks = []models.StockLevel{{ProductId: 1, CurrentQty: dec(2)}}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	e.TickBusiness(context.Background(), testSetting())

	// Restock still ran off the collections that did load.
	if len(store.savedOrders) != 1 {
		t.Fatalf("expected restock order despite degraded debts, got %d", len(store.savedOrders))
	}

	summaries := notifier.ofType(models.EventTickCompleted)
	if len(summaries) != 1 {
		t.Fatalf("expected a tick summary, got %d", len(summaries))
	}
	var payload struct {
		Degraded []string `json:"degraded"`
	}
	if err := json.Unmarshal(summaries[0].Payload, &payload); err != nil {
		t.Fatalf("summary unmarshal: %v", err)
	}
	if len(payload.Degraded) != 1 || payload.Degraded[0] != "debts" {
		t.Fatalf("expected degraded debts in summary, got %v", payload.Degraded)
	}
}

func TestTickBusiness_RestockAndLowStockFireIndependently(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.products = []models.Product{{ID: 1, Name: "Widget", ReorderPoint: dec(5), UnitRate: dec(2)}}
	store.stocks = []models.StockLevel{{ProductId: 1, CurrentQty: dec(2)}}
	store.sales = []models.Sale{
		{ID: 1, SaleDate: day(2024, time.June, 1), Items: []models.SaleItem{{ProductId: 1, Qty: dec(3)}}},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)
	e.Predictor = &fakePredictor{result: "stock depleted in ~5 days"}

	e.TickBusiness(context.Background(), testSetting())

	if len(store.savedOrders) != 1 {
		t.Fatalf("expected a restock order, got %d", len(store.savedOrders))
	}
	alerts := notifier.ofType(models.EventLowStockAlert)
	if len(alerts) != 1 {
		t.Fatalf("expected a low-stock alert, got %d", len(alerts))
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(alerts[0].Payload, &payload); err != nil {
		t.Fatalf("alert unmarshal: %v", err)
	}
	if payload["prediction"] != "stock depleted in ~5 days" {
		t.Fatalf("expected prediction attached, got %v", payload["prediction"])
	}

	// The low-stock alert dedups; the restock order now covers the product.
	e.TickBusiness(context.Background(), testSetting())
	if len(store.savedOrders) != 1 {
		t.Fatalf("open draft order must suppress reordering, got %d", len(store.savedOrders))
	}
	if alerts := notifier.ofType(models.EventLowStockAlert); len(alerts) != 1 {
		t.Fatalf("low-stock alert must not repeat, got %d", len(alerts))
	}
}

func TestTickBusiness_OverdueAlertsDisabledBySetting(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.debts = []models.Debt{
		{ID: 1, CustomerId: 1, DueDate: day(2024, time.January, 1), CurrentStatus: models.DebtStatusOverdue},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	setting := testSetting()
	setting.OverdueAlertEnabled = boolPtr(false)
	e.TickBusiness(context.Background(), setting)

	if reminders := notifier.ofType(models.EventDebtReminder); len(reminders) != 0 {
		t.Fatalf("expected no reminders when disabled, got %d", len(reminders))
	}
}

func TestTickBusiness_PredictorFailureStillAlerts(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.products = []models.Product{{ID: 1, Name: "Widget", ReorderPoint: dec(5)}}
	store.stocks = []models.StockLevel{{ProductId: 1, CurrentQty: dec(1)}}
	store.sales = []models.Sale{
		{ID: 1, SaleDate: day(2024, time.June, 1), Items: []models.SaleItem{{ProductId: 1, Qty: dec(2)}}},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)
	e.Predictor = &fakePredictor{err: errors.New("forecast service down")}

	e.TickBusiness(context.Background(), testSetting())

	alerts := notifier.ofType(models.EventLowStockAlert)
	if len(alerts) != 1 {
		t.Fatalf("expected alert without prediction, got %d", len(alerts))
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(alerts[0].Payload, &payload); err != nil {
		t.Fatalf("alert unmarshal: %v", err)
	}
	if _, ok := payload["prediction"]; ok {
		t.Fatal("failed prediction must be omitted from the payload")
	}
}

func TestTickAll_SkipsNothingAcrossBusinesses(t *testing.T) {
	today := day(2024, time.June, 15)
	store := newFakeStore()
	store.settings = []models.BusinessSetting{
		testSetting(),
		{BusinessId: "biz-2", AutomationEnabled: boolPtr(true), Locale: "my"},
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, today)

	e.TickAll(context.Background())

	summaries := notifier.ofType(models.EventTickCompleted)
	if len(summaries) != 2 {
		t.Fatalf("expected one summary per business, got %d", len(summaries))
	}
	if summaries[0].BusinessId != "biz-1" || summaries[1].BusinessId != "biz-2" {
		t.Fatalf("unexpected business ids %s, %s", summaries[0].BusinessId, summaries[1].BusinessId)
	}
	if summaries[1].Locale != "my" {
		t.Fatalf("expected locale carried onto the event, got %q", summaries[1].Locale)
	}
	if summaries[0].Actor != "System" {
		t.Fatalf("expected the engine to publish as System, got %q", summaries[0].Actor)
	}
}
