package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
)

const (
	LowStockThreshold = 10
	RestockIncrement  = 10
)

// ProductInput is the data needed to create a product.
type ProductInput struct {
	Price decimal.Decimal
	Name  string `validate:"required,max=255"`
	Stock int    `validate:"gte=0"`
}

// RestockResult describes one run of the low-stock restock.
type RestockResult struct {
	Message  string
	Products []model.Product
}

func (r RestockResult) Count() int { return len(r.Products) }

// ProductService manages the catalog and its stock.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter, orderBy []string) ([]model.Product, error)
	Orders(ctx context.Context, productID uint) ([]model.Order, error)
	RestockLowStock(ctx context.Context) (RestockResult, error)
}

func NewProductService(st *store.Store, validate *validator.Validate, log logrus.FieldLogger) ProductService {
	return &productService{
		store:    st,
		validate: validate,
		log:      log,
	}
}

type productService struct {
	store    *store.Store
	validate *validator.Validate
	log      logrus.FieldLogger
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	// Prices are stored with two decimals, so positivity is checked on the stored value.
	price := in.Price.Round(2)
	if !price.IsPositive() {
		return nil, model.ErrInvalidPrice
	}
	if in.Stock < 0 {
		return nil, model.ErrInvalidStock
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	product := &model.Product{
		Name:  in.Name,
		Price: price,
		Stock: in.Stock,
	}
	uow := s.store.UnitOfWork()
	uow.Add(product)
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"productId": product.ID, "name": product.Name}).Info("product created")
	return product, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	return s.store.Products.Find(ctx, id)
}

func (s *productService) List(ctx context.Context, filter model.ProductFilter, orderBy []string) ([]model.Product, error) {
	return s.store.Products.List(ctx, filter, orderBy)
}

func (s *productService) Orders(ctx context.Context, productID uint) ([]model.Order, error) {
	return s.store.Orders.ListForProduct(ctx, productID)
}

// RestockLowStock adds RestockIncrement to every product whose stock is below
// LowStockThreshold. Selection and updates share one transaction.
func (s *productService) RestockLowStock(ctx context.Context) (RestockResult, error) {
	var updated []model.Product

	uow := s.store.UnitOfWork()
	uow.Do(func(tx store.Tx) error {
		if err := tx.Find(&updated, "stock < ?", LowStockThreshold); err != nil {
			return err
		}
		for i := range updated {
			updated[i].Stock += RestockIncrement
			if err := tx.Save(&updated[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err := uow.SaveChanges(ctx); err != nil {
		return RestockResult{}, err
	}

	result := RestockResult{
		Message:  "No products needed restocking",
		Products: updated,
	}
	if len(updated) > 0 {
		result.Message = "Low stock products updated successfully"
	}

	s.log.WithField("count", len(updated)).Info("low stock products restocked")
	return result, nil
}
