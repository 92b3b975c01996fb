package store

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

// Products reads product rows.
type Products struct {
	db *gorm.DB
}

// Find returns the product with id or model.ErrProductNotFound.
func (r *Products) Find(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(err, "finding product")
	}
	return &p, nil
}

// FindByIDs loads the products with the given ids ordered by id.
// Ids that do not exist are simply absent from the result.
func (r *Products) FindByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&out).Error
	return out, pkgerrors.Wrap(err, "finding products")
}

// List returns the products matching filter in the requested order.
func (r *Products) List(ctx context.Context, filter model.ProductFilter, orderBy []string) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	q = icontains(q, "name", filter.NameIcontains)
	if filter.PriceGte != nil {
		q = q.Where("price >= ?", *filter.PriceGte)
	}
	if filter.PriceLte != nil {
		q = q.Where("price <= ?", *filter.PriceLte)
	}
	if filter.StockGte != nil {
		q = q.Where("stock >= ?", *filter.StockGte)
	}
	if filter.StockLte != nil {
		q = q.Where("stock <= ?", *filter.StockLte)
	}
	if filter.LowStockLt != nil {
		q = q.Where("stock < ?", *filter.LowStockLt)
	}

	q, err := productColumns.apply(q, orderBy)
	if err != nil {
		return nil, err
	}

	var out []model.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "listing products")
	}
	return out, nil
}

// Count returns the number of products.
func (r *Products) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, pkgerrors.Wrap(err, "counting products")
}
