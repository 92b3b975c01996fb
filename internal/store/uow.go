package store

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Tx is what queued operations see of the open transaction.
type Tx interface {
	Create(value any) error
	Save(value any) error
	Delete(value any, conds ...any) error
	Find(dest any, query any, args ...any) error
	Omit(columns ...string) Tx
}

type gormTx struct{ db *gorm.DB }

func (t gormTx) Create(value any) error               { return t.db.Create(value).Error }
func (t gormTx) Save(value any) error                 { return t.db.Save(value).Error }
func (t gormTx) Delete(value any, conds ...any) error { return t.db.Delete(value, conds...).Error }
func (t gormTx) Omit(columns ...string) Tx            { return gormTx{db: t.db.Omit(columns...)} }

// Find loads every row matching query, ordered by primary key.
func (t gormTx) Find(dest any, query any, args ...any) error {
	return t.db.Where(query, args...).Order("id").Find(dest).Error
}

// Operation is a step executed inside the transaction.
type Operation func(tx Tx) error

func createOp(entity any) Operation { return func(tx Tx) error { return tx.Create(entity) } }
func saveOp(entity any) Operation   { return func(tx Tx) error { return tx.Save(entity) } }
func deleteOp(entity any) Operation { return func(tx Tx) error { return tx.Delete(entity) } }

// UnitOfWork queues the writes of one mutation and applies them in a single
// transaction, in the order they were registered.
type UnitOfWork struct {
	root *gorm.DB

	mu      sync.Mutex
	pending []Operation

	onCommit   []func()
	onRollback []func()
}

func newUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{root: db}
}

func (u *UnitOfWork) enqueue(op Operation) {
	u.mu.Lock()
	u.pending = append(u.pending, op)
	u.mu.Unlock()
}

// Add inserts entity on commit.
func (u *UnitOfWork) Add(entity any) { u.enqueue(createOp(entity)) }

// Update saves every field of entity on commit.
func (u *UnitOfWork) Update(entity any) { u.enqueue(saveOp(entity)) }

// RegisterDelete deletes entity by primary key on commit.
func (u *UnitOfWork) RegisterDelete(entity any) { u.enqueue(deleteOp(entity)) }

// Do queues an arbitrary operation.
func (u *UnitOfWork) Do(op Operation) { u.enqueue(op) }

// AfterCommit registers cb to run once the transaction has committed.
func (u *UnitOfWork) AfterCommit(cb func()) {
	u.mu.Lock()
	u.onCommit = append(u.onCommit, cb)
	u.mu.Unlock()
}

// AfterRollback registers cb to run when SaveChanges fails.
func (u *UnitOfWork) AfterRollback(cb func()) {
	u.mu.Lock()
	u.onRollback = append(u.onRollback, cb)
	u.mu.Unlock()
}

// SaveChanges applies the queued operations in one transaction. When any of
// them fails nothing is written, the queue is kept and the error is mapped
// onto a domain error where possible.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	u.mu.Lock()
	ops := append([]Operation(nil), u.pending...)
	onCommit := append([]func(){}, u.onCommit...)
	onRollback := append([]func(){}, u.onRollback...)
	u.mu.Unlock()

	err := u.root.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		tx := gormTx{db: db}
		for _, op := range ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		runHooks(onRollback)
		return translate(err)
	}

	u.Clear()
	runHooks(onCommit)
	return nil
}

// Clear drops queued operations and hooks.
func (u *UnitOfWork) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = nil
	u.onCommit = nil
	u.onRollback = nil
}

// runHooks calls each hook. A panicking hook is ignored.
func runHooks(hooks []func()) {
	for _, h := range hooks {
		func() {
			defer func() { _ = recover() }()
			h()
		}()
	}
}
