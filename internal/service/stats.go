package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
)

// Stats are the dashboard totals.
type Stats struct {
	Revenue   decimal.Decimal
	Customers int64
	Orders    int64
}

type StatsService interface {
	Totals(ctx context.Context) (Stats, error)
}

func NewStatsService(st *store.Store) StatsService {
	return &statsService{store: st}
}

type statsService struct {
	store *store.Store
}

func (s *statsService) Totals(ctx context.Context) (Stats, error) {
	var out Stats
	var err error
	if out.Customers, err = s.store.Customers.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.Orders, err = s.store.Orders.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.Revenue, err = s.store.Orders.Revenue(ctx); err != nil {
		return Stats{}, err
	}
	return out, nil
}
