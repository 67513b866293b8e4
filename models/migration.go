package models

import (
	"log"

	"bitbucket.org/mmdatafocus/books_automation/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&BusinessSetting{},
		&Customer{}, &Debt{},
		&Expense{}, &Income{},
		&Product{}, &StockLevel{},
		&PurchaseOrder{}, &PurchaseOrderDetail{},
		&Project{},
		&Sale{}, &SaleItem{},
		&AutomationAlert{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
