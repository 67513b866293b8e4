package automation

import (
	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/shopspring/decimal"
)

type LowStockCandidate struct {
	Product      models.Product
	CurrentStock decimal.Decimal
	History      []SalesPoint
}

// LowStockCandidates selects products at or below their reorder point and
// attaches the recent sales history used for depletion forecasting. The
// trigger is the same as auto-restock but the alert is gated by its own
// dedup ledger entry, so the two rules fire independently.
func LowStockCandidates(products []models.Product, stockByProduct map[int]decimal.Decimal, sales []models.Sale) []LowStockCandidate {
	historyByProduct := make(map[int][]SalesPoint)
	for _, sale := range sales {
		for _, item := range sale.Items {
			if item.ProductId == 0 || item.Qty.IsZero() {
				continue
			}
			historyByProduct[item.ProductId] = append(historyByProduct[item.ProductId], SalesPoint{
				Date: sale.SaleDate,
				Qty:  item.Qty,
			})
		}
	}

	var candidates []LowStockCandidate
	for _, p := range products {
		if !p.TracksReorder() {
			continue
		}
		stock := stockByProduct[p.ID]
		if stock.GreaterThan(p.ReorderPoint) {
			continue
		}
		candidates = append(candidates, LowStockCandidate{
			Product:      p,
			CurrentStock: stock,
			History:      historyByProduct[p.ID],
		})
	}
	return candidates
}
