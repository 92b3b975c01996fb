package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Price is always positive and Stock never negative.
type Product struct {
	CreatedAt time.Time       `gorm:"not null"                    json:"createdAt"`
	UpdatedAt time.Time       `gorm:"not null"                    json:"updatedAt"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Name      string          `gorm:"size:255;not null"           json:"name"`
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	Stock     int             `gorm:"not null;default:0"          json:"stock"`
}

// ProductFilter narrows product listings. Nil bounds are ignored.
type ProductFilter struct {
	PriceGte      *decimal.Decimal
	PriceLte      *decimal.Decimal
	StockGte      *int
	StockLte      *int
	LowStockLt    *int
	NameIcontains string
}
