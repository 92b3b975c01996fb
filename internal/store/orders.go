package store

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

// Orders reads orders with their customer and products.
type Orders struct {
	db *gorm.DB
}

func (r *Orders) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id") })
}

// Find returns the order with its customer and products loaded.
func (r *Orders) Find(ctx context.Context, id uint) (*model.Order, error) {
	var o model.Order
	if err := r.preloaded(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, pkgerrors.Wrap(err, "finding order")
	}
	return &o, nil
}

// List returns matching orders with customer and products loaded.
// Join conditions are subqueries so an order is never returned twice.
func (r *Orders) List(ctx context.Context, filter model.OrderFilter, orderBy []string) ([]model.Order, error) {
	q := r.preloaded(ctx).Model(&model.Order{})
	if filter.OrderDateGte != nil {
		q = q.Where("order_date >= ?", filter.OrderDateGte.UTC())
	}
	if filter.OrderDateLte != nil {
		q = q.Where("order_date <= ?", filter.OrderDateLte.UTC())
	}
	if filter.TotalAmountGte != nil {
		q = q.Where("total_amount >= ?", *filter.TotalAmountGte)
	}
	if filter.TotalAmountLte != nil {
		q = q.Where("total_amount <= ?", *filter.TotalAmountLte)
	}
	if filter.CustomerName != "" {
		q = q.Where("customer_id IN (SELECT id FROM customers WHERE LOWER(name) LIKE ? ESCAPE '!')",
			containsArg(filter.CustomerName))
	}
	if filter.ProductName != "" {
		q = q.Where(`id IN (SELECT op.order_id FROM order_products op
			JOIN products p ON p.id = op.product_id
			WHERE LOWER(p.name) LIKE ? ESCAPE '!')`, containsArg(filter.ProductName))
	}
	if filter.ProductID != nil {
		q = q.Where("id IN (SELECT order_id FROM order_products WHERE product_id = ?)", *filter.ProductID)
	}

	q, err := orderColumns.apply(q, orderBy)
	if err != nil {
		return nil, err
	}

	var out []model.Order
	if err := q.Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "listing orders")
	}
	return out, nil
}

// ListForCustomer returns the customer's orders by id.
func (r *Orders) ListForCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	var out []model.Order
	err := r.preloaded(ctx).Where("customer_id = ?", customerID).Order("id").Find(&out).Error
	return out, pkgerrors.Wrap(err, "listing customer orders")
}

// ListForProduct returns the orders that contain the product.
func (r *Orders) ListForProduct(ctx context.Context, productID uint) ([]model.Order, error) {
	return r.List(ctx, model.OrderFilter{ProductID: &productID}, nil)
}

// Count returns the number of orders.
func (r *Orders) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, pkgerrors.Wrap(err, "counting orders")
}

// Revenue sums the stored totals of every order.
func (r *Orders) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).Select("SUM(total_amount)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(err, "summing order totals")
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal.Round(2), nil
}
