package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
)

// CustomerInput is the data needed to create a customer.
type CustomerInput struct {
	Name  string `validate:"required,max=255"`
	Email string `validate:"required,email,max=254"`
	Phone string `validate:"omitempty,crmphone"`
}

// CustomerService creates, deletes and looks up customers.
type CustomerService interface {
	Create(ctx context.Context, in CustomerInput) (*model.Customer, error)
	BulkCreate(ctx context.Context, in []CustomerInput) ([]model.Customer, []string)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*model.Customer, error)
	GetByName(ctx context.Context, name string) (*model.Customer, error)
	List(ctx context.Context, filter model.CustomerFilter, orderBy []string) ([]model.Customer, error)
	Orders(ctx context.Context, customerID uint) ([]model.Order, error)
}

func NewCustomerService(st *store.Store, validate *validator.Validate, log logrus.FieldLogger) CustomerService {
	return &customerService{
		store:    st,
		validate: validate,
		log:      log,
	}
}

type customerService struct {
	store    *store.Store
	validate *validator.Validate
	log      logrus.FieldLogger
}

// Create checks the email first, then the fields, then the phone format and
// finally phone uniqueness, and stores the customer in its own transaction.
func (s *customerService) Create(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	taken, err := s.store.Customers.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrDuplicateEmail
	}

	if err := s.validate.StructExcept(in, "Phone"); err != nil {
		return nil, validationError(err)
	}
	if err := s.validate.Var(in.Phone, "omitempty,crmphone"); err != nil {
		return nil, model.ErrInvalidPhone
	}

	customer := &model.Customer{Name: in.Name, Email: in.Email}
	if in.Phone != "" {
		taken, err := s.store.Customers.PhoneTaken(ctx, in.Phone)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, model.ErrDuplicatePhone
		}
		customer.Phone = &in.Phone
	}

	uow := s.store.UnitOfWork()
	uow.Add(customer)
	uow.AfterCommit(func() {
		s.log.WithFields(logrus.Fields{"customerId": customer.ID, "email": customer.Email}).Info("customer created")
	})
	uow.AfterRollback(func() {
		s.log.WithField("email", customer.Email).Warn("customer not created, transaction rolled back")
	})
	if err := uow.SaveChanges(ctx); err != nil {
		if errors.Is(err, model.ErrDuplicateRecord) {
			return nil, s.duplicateOf(ctx, in, err)
		}
		return nil, err
	}
	return customer, nil
}

// duplicateOf names the unique field a concurrent writer claimed between the
// uniqueness checks and the insert. err is returned when neither is taken.
func (s *customerService) duplicateOf(ctx context.Context, in CustomerInput, err error) error {
	if taken, _ := s.store.Customers.EmailTaken(ctx, in.Email); taken {
		return model.ErrDuplicateEmail
	}
	if in.Phone != "" {
		if taken, _ := s.store.Customers.PhoneTaken(ctx, in.Phone); taken {
			return model.ErrDuplicatePhone
		}
	}
	return err
}

// BulkCreate creates each entry independently, in input order. Failures are
// reported as "Customer <n>: <reason>" and never abort the rest of the batch.
func (s *customerService) BulkCreate(ctx context.Context, in []CustomerInput) ([]model.Customer, []string) {
	created := make([]model.Customer, 0, len(in))
	var errs []string

	for i, entry := range in {
		c, err := s.Create(ctx, entry)
		if err != nil {
			errs = append(errs, bulkError(i+1, entry, err))
			continue
		}
		created = append(created, *c)
	}

	s.log.WithFields(logrus.Fields{"created": len(created), "failed": len(errs)}).Info("bulk customer import finished")
	return created, errs
}

func bulkError(n int, entry CustomerInput, err error) string {
	switch {
	case errors.Is(err, model.ErrDuplicateEmail):
		return fmt.Sprintf("Customer %d: Email already exists: %s", n, entry.Email)
	case errors.Is(err, model.ErrDuplicatePhone):
		return fmt.Sprintf("Customer %d: Phone number already exists: %s", n, entry.Phone)
	case errors.Is(err, model.ErrInvalidPhone):
		return fmt.Sprintf("Customer %d: Invalid phone format: %s", n, entry.Phone)
	}
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		return fmt.Sprintf("Customer %d: %s", n, domainErr.Message)
	}
	return fmt.Sprintf("Customer %d: Failed to create customer", n)
}

// Delete removes a customer that has no orders.
func (s *customerService) Delete(ctx context.Context, id uint) error {
	if _, err := s.store.Customers.Find(ctx, id); err != nil {
		return err
	}
	n, err := s.store.Customers.CountOrders(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return model.ErrCustomerHasOrders
	}

	uow := s.store.UnitOfWork()
	uow.RegisterDelete(&model.Customer{ID: id})
	return uow.SaveChanges(ctx)
}

func (s *customerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	return s.store.Customers.Find(ctx, id)
}

func (s *customerService) GetByName(ctx context.Context, name string) (*model.Customer, error) {
	return s.store.Customers.FindByName(ctx, name)
}

func (s *customerService) List(ctx context.Context, filter model.CustomerFilter, orderBy []string) ([]model.Customer, error) {
	return s.store.Customers.List(ctx, filter, orderBy)
}

func (s *customerService) Orders(ctx context.Context, customerID uint) ([]model.Order, error) {
	return s.store.Orders.ListForCustomer(ctx, customerID)
}
