package store

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

// Customers reads customer rows.
type Customers struct {
	db *gorm.DB
}

// Find returns the customer with id or model.ErrCustomerNotFound.
func (r *Customers) Find(ctx context.Context, id uint) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCustomerNotFound
		}
		return nil, pkgerrors.Wrap(err, "finding customer")
	}
	return &c, nil
}

// FindByName returns the first customer whose name is exactly name, or nil.
func (r *Customers) FindByName(ctx context.Context, name string) (*model.Customer, error) {
	var out []model.Customer
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").Limit(1).Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "finding customer by name")
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// EmailTaken reports whether a customer already uses email.
func (r *Customers) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// PhoneTaken reports whether a customer already uses phone.
func (r *Customers) PhoneTaken(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone = ?", phone)
}

func (r *Customers) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Where(query, arg).Count(&n).Error
	if err != nil {
		return false, pkgerrors.Wrap(err, "checking customer uniqueness")
	}
	return n > 0, nil
}

// List returns the customers matching filter in the requested order.
func (r *Customers) List(ctx context.Context, filter model.CustomerFilter, orderBy []string) ([]model.Customer, error) {
	q := r.db.WithContext(ctx).Model(&model.Customer{})
	q = icontains(q, "name", filter.NameIcontains)
	q = icontains(q, "email", filter.EmailIcontains)
	if filter.PhonePattern != "" {
		q = q.Where("phone LIKE ? ESCAPE '!'", prefixArg(filter.PhonePattern))
	}
	if filter.CreatedAtGte != nil {
		q = q.Where("created_at >= ?", filter.CreatedAtGte.UTC())
	}
	if filter.CreatedAtLte != nil {
		q = q.Where("created_at <= ?", filter.CreatedAtLte.UTC())
	}

	q, err := customerColumns.apply(q, orderBy)
	if err != nil {
		return nil, err
	}

	var out []model.Customer
	if err := q.Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "listing customers")
	}
	return out, nil
}

// Count returns the number of customers.
func (r *Customers) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error
	return n, pkgerrors.Wrap(err, "counting customers")
}

// CountOrders returns how many orders reference the customer.
func (r *Customers) CountOrders(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("customer_id = ?", id).Count(&n).Error
	return n, pkgerrors.Wrap(err, "counting customer orders")
}
