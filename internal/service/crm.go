package service

import (
	"github.com/sirupsen/logrus"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
)

// CRM groups the services the GraphQL schema resolves against.
type CRM struct {
	Customers CustomerService
	Products  ProductService
	Orders    OrderService
	Stats     StatsService
}

// New wires the services to st, sharing one validator.
func New(st *store.Store, log logrus.FieldLogger) *CRM {
	validate := newValidator()
	return &CRM{
		Customers: NewCustomerService(st, validate, log.WithField("service", "customers")),
		Products:  NewProductService(st, validate, log.WithField("service", "products")),
		Orders:    NewOrderService(st, log.WithField("service", "orders")),
		Stats:     NewStatsService(st),
	}
}
