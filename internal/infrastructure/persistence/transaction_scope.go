package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	appinventory "github.com/inventsight/backend/internal/application/inventory"
	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/shared"
	"github.com/inventsight/backend/internal/domain/trade"
	"github.com/inventsight/backend/internal/domain/transfer"
)

// pgLockNotAvailable is Postgres's SQLSTATE for a lock_timeout expiry
const pgLockNotAvailable = "55P03"

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db              *gorm.DB
	lockWaitTimeout time.Duration
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// NewGormTransactionScopeWithTimeout creates a scope that bounds how
// long any transaction waits on a row lock. Pass
// cfg.Ledger.LockWaitTimeout; zero disables the bound.
func NewGormTransactionScopeWithTimeout(db *gorm.DB, lockWait time.Duration) *GormTransactionScope {
	return &GormTransactionScope{db: db, lockWaitTimeout: lockWait}
}

// Execute runs the given function within a database transaction. Every
// repository handed to fn is bound to the same transaction, so row
// locks taken via FindForUpdate are held until commit or rollback. A
// transaction that waits past the lock timeout fails with
// shared.ErrConcurrencyConflict so callers can retry.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockWaitTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockWaitTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return translateLockError(err)
}

// translateLockError maps a lock-wait expiry to the retryable
// concurrency conflict error
func translateLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return shared.ErrConcurrencyConflict
	}
	return err
}

// gormTransactionalRepositories provides repositories bound to a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockRecords() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Transfers() transfer.TransferRequestRepository {
	return NewGormTransferRequestRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
