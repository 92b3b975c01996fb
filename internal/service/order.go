package service

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
)

// OrderInput is the data needed to place an order. OrderDate defaults to now.
type OrderInput struct {
	OrderDate  *time.Time
	ProductIDs []uint
	CustomerID uint
}

type OrderService interface {
	Create(ctx context.Context, in OrderInput) (*model.Order, error)
	Get(ctx context.Context, id uint) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter, orderBy []string) ([]model.Order, error)
}

func NewOrderService(st *store.Store, log logrus.FieldLogger) OrderService {
	return &orderService{store: st, log: log}
}

type orderService struct {
	store *store.Store
	log   logrus.FieldLogger
}

// Create places an order. The total is the sum of the products' prices at
// this moment and is not recomputed later.
func (s *orderService) Create(ctx context.Context, in OrderInput) (*model.Order, error) {
	customer, err := s.store.Customers.Find(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	ids := slices.Clone(in.ProductIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil, model.ErrInvalidProductIDs
	}

	products, err := s.store.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, model.ErrProductNotFound
	}

	order := &model.Order{
		CustomerID: customer.ID,
		OrderDate:  time.Now().UTC(),
		Products:   products,
	}
	if in.OrderDate != nil {
		order.OrderDate = in.OrderDate.UTC()
	}
	order.TotalAmount = order.CurrentTotal()

	uow := s.store.UnitOfWork()
	uow.Do(func(tx store.Tx) error {
		return tx.Omit("Customer", "Products.*").Create(order)
	})
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	order.Customer = *customer

	s.log.WithFields(logrus.Fields{
		"orderId":    order.ID,
		"customerId": customer.ID,
		"total":      order.TotalAmount.StringFixed(2),
	}).Info("order created")
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	return s.store.Orders.Find(ctx, id)
}

func (s *orderService) List(ctx context.Context, filter model.OrderFilter, orderBy []string) ([]model.Order, error) {
	return s.store.Orders.List(ctx, filter, orderBy)
}
