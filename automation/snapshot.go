package automation

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/config"
	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Snapshot is one tick's view of the business. Nothing is cached across
// ticks; every tick re-reads the world.
type Snapshot struct {
	Setting        models.BusinessSetting
	Products       []models.Product
	StockLevels    []models.StockLevel
	StockByProduct map[int]decimal.Decimal
	Debts          []models.Debt
	Customers      []models.Customer
	Expenses       []models.Expense
	Incomes        []models.Income
	PurchaseOrders []models.PurchaseOrder
	Sales          []models.Sale
	Projects       []models.Project

	// Degraded names the collections whose fetch failed and were replaced
	// by empty slices. A non-empty list marks the tick as degraded so the
	// summary can surface it instead of swallowing the failure.
	Degraded []string
}

type SnapshotLoader struct {
	Store  DataStore
	Logger *logrus.Logger
}

// Load fetches every collection for the tick. A failed fetch degrades to an
// empty collection rather than aborting the tick; the failure is logged and
// recorded on the snapshot.
func (l *SnapshotLoader) Load(ctx context.Context, setting models.BusinessSetting, salesSince time.Time) *Snapshot {
	snap := &Snapshot{Setting: setting}

	snap.Products = fetch(l, ctx, snap, "products", l.Store.Products)
	snap.StockLevels = fetch(l, ctx, snap, "stock_levels", l.Store.StockLevels)
	snap.Debts = fetch(l, ctx, snap, "debts", l.Store.Debts)
	snap.Customers = fetch(l, ctx, snap, "customers", l.Store.Customers)
	snap.Expenses = fetch(l, ctx, snap, "expenses", l.Store.Expenses)
	snap.Incomes = fetch(l, ctx, snap, "incomes", l.Store.Incomes)
	snap.PurchaseOrders = fetch(l, ctx, snap, "purchase_orders", l.Store.PurchaseOrders)
	snap.Sales = fetch(l, ctx, snap, "sales", func(ctx context.Context) ([]models.Sale, error) {
		return l.Store.RecentSales(ctx, salesSince)
	})
	snap.Projects = fetch(l, ctx, snap, "projects", l.Store.Projects)

	snap.StockByProduct = models.SumStockByProduct(snap.StockLevels)
	return snap
}

func fetch[T any](l *SnapshotLoader, ctx context.Context, snap *Snapshot, name string, fn func(context.Context) ([]T, error)) []T {
	items, err := fn(ctx)
	if err != nil {
		if l.Logger != nil {
			config.LogError(l.Logger, "automation", "SnapshotLoader.Load", name, snap.Setting.BusinessId, err)
		}
		snap.Degraded = append(snap.Degraded, name)
		return nil
	}
	return items
}
