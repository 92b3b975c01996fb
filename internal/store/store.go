package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/config"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

// Store owns the database handle and hands out repositories and units of work.
type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB

	Customers *Customers
	Products  *Products
	Orders    *Orders
}

// Open connects to the configured database. SQLite connections are opened via
// database/sql and limited to a single connection so in-memory databases are shared.
func Open(cfg config.Database, log *logrus.Logger) (*Store, error) {
	var dialector gorm.Dialector
	var sqlDB *sql.DB

	switch cfg.Driver {
	case "sqlite":
		var err error
		sqlDB, err = sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "opening sqlite database")
		}
		sqlDB.SetMaxOpenConns(1)
		dialector = sqlite.Dialector{Conn: sqlDB}
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         newGormLogger(log, cfg.LogLevel),
	})
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, pkgerrors.Wrap(err, "opening gorm")
	}

	if sqlDB == nil {
		if sqlDB, err = db.DB(); err != nil {
			return nil, pkgerrors.Wrap(err, "getting sql handle")
		}
	}

	return newStore(db, sqlDB), nil
}

func newStore(db *gorm.DB, sqlDB *sql.DB) *Store {
	return &Store{
		db:        db,
		sqlDB:     sqlDB,
		Customers: &Customers{db: db},
		Products:  &Products{db: db},
		Orders:    &Orders{db: db},
	}
}

// Migrate creates or updates the customers, products, orders and order_products tables.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(&model.Customer{}, &model.Product{}, &model.Order{})
	return pkgerrors.Wrap(err, "migrating schema")
}

// UnitOfWork returns a fresh unit of work bound to this store.
func (s *Store) UnitOfWork() *UnitOfWork {
	return newUnitOfWork(s.db)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// translate maps driver errors onto domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &model.Error{
			Kind:    model.KindConflict,
			Code:    model.ErrDuplicateRecord.Code,
			Message: model.ErrDuplicateRecord.Message,
			Err:     err,
		}
	case errors.Is(err, gorm.ErrForeignKeyViolated), sqliteRestrict(err):
		return &model.Error{
			Kind:    model.KindConflict,
			Code:    model.ErrCustomerHasOrders.Code,
			Message: model.ErrCustomerHasOrders.Message,
			Err:     err,
		}
	default:
		return err
	}
}

// sqliteRestrict reports a RESTRICT foreign key failure. SQLite raises it as a
// trigger constraint, which the GORM translator leaves untouched.
func sqliteRestrict(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintTrigger &&
		strings.Contains(sqliteErr.Error(), "FOREIGN KEY")
}

func newGormLogger(log *logrus.Logger, level string) logger.Interface {
	if log == nil {
		return logger.Discard
	}
	lvl := logger.Warn
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	return logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
