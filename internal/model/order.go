package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a purchase by one Customer of a set of Products.
// TotalAmount is the sum of product prices at the moment the order was placed.
type Order struct {
	OrderDate   time.Time       `gorm:"index;not null"                 json:"orderDate"`
	Customer    Customer        `gorm:"constraint:OnDelete:NO ACTION" json:"customer"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"    json:"totalAmount"`
	Products    []Product       `gorm:"many2many:order_products"       json:"products"`
	ID          uint            `gorm:"primaryKey"                     json:"id"`
	CustomerID  uint            `gorm:"index;not null"                 json:"customerId"`
}

// CurrentTotal sums the current prices of the loaded products.
func (o *Order) CurrentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Products {
		total = total.Add(p.Price)
	}
	return total
}

// OrderFilter narrows order listings. Bounds are inclusive.
type OrderFilter struct {
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	ProductID      *uint
	CustomerName   string
	ProductName    string
}
