package automation

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/config"
	"bitbucket.org/mmdatafocus/books_automation/models"
	"bitbucket.org/mmdatafocus/books_automation/utils"
	"github.com/shopspring/decimal"
)

type RestockCandidate struct {
	Product      models.Product
	CurrentStock decimal.Decimal
	OrderQty     decimal.Decimal
}

// RestockCandidates selects products at or below their reorder point that
// are not already covered by an open purchase order. Coverage by a Draft or
// Sent order prevents duplicate ordering while the order is outstanding.
func RestockCandidates(products []models.Product, stockByProduct map[int]decimal.Decimal, orders []models.PurchaseOrder, cfg config.AutomationConfig) []RestockCandidate {
	var open []models.PurchaseOrder
	for _, po := range orders {
		if po.CurrentStatus.IsOpen() {
			open = append(open, po)
		}
	}

	var candidates []RestockCandidate
	for _, p := range products {
		if !p.TracksReorder() {
			continue
		}
		stock := stockByProduct[p.ID]
		if stock.GreaterThan(p.ReorderPoint) {
			continue
		}
		if coveredByOpenOrder(open, p.ID) {
			continue
		}
		candidates = append(candidates, RestockCandidate{
			Product:      p,
			CurrentStock: stock,
			OrderQty:     restockQty(p.ReorderPoint, cfg),
		})
	}
	return candidates
}

func coveredByOpenOrder(orders []models.PurchaseOrder, productId int) bool {
	for _, po := range orders {
		if po.CoversProduct(productId) {
			return true
		}
	}
	return false
}

// restockQty doubles the reorder point (configurable) with a floor so that
// trivially small reorder points still produce a worthwhile order.
func restockQty(reorderPoint decimal.Decimal, cfg config.AutomationConfig) decimal.Decimal {
	qty := reorderPoint.Mul(decimal.NewFromInt(int64(cfg.RestockMultiplier)))
	floor := decimal.NewFromInt(int64(cfg.RestockMinQty))
	if qty.LessThan(floor) {
		return floor
	}
	return qty
}

// BuildRestockOrder plans one single-line draft purchase order per candidate
// so a reviewer can approve or reject each product independently.
func BuildRestockOrder(c RestockCandidate, setting models.BusinessSetting, today time.Time) models.PurchaseOrder {
	total := c.OrderQty.Mul(c.Product.UnitRate)
	return models.PurchaseOrder{
		BusinessId:       c.Product.BusinessId,
		SupplierId:       setting.AutoRestockSupplierId,
		WarehouseId:      setting.DefaultWarehouseId,
		OrderNumber:      fmt.Sprintf("APO-%s-%d", today.Format("20060102"), c.Product.ID),
		OrderDate:        today,
		CurrentStatus:    models.PurchaseOrderStatusDraft,
		OrderTotalAmount: total,
		IsAutoGenerated:  utils.NewTrue(),
		Details: []models.PurchaseOrderDetail{
			{
				ProductId:         c.Product.ID,
				Name:              c.Product.Name,
				DetailQty:         c.OrderQty,
				DetailUnitRate:    c.Product.UnitRate,
				DetailTotalAmount: total,
			},
		},
	}
}
