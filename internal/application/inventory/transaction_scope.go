package inventory

import (
	"context"

	"github.com/inventsight/backend/internal/domain/inventory"
	"github.com/inventsight/backend/internal/domain/trade"
	"github.com/inventsight/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to the repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or
// roll back atomically. Row locks taken via FindForUpdate are held
// until the scope ends.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within
// a transaction. All repositories returned share the same underlying
// database transaction, so an order confirmation can reserve stock and
// flip the order status atomically, and a transfer pickup can debit
// the ledger and advance the transfer in one commit.
type TransactionalRepositories interface {
	// StockRecords returns the stock record repository scoped to the current transaction
	StockRecords() inventory.StockRecordRepository
	// Movements returns the stock movement repository scoped to the current transaction
	Movements() inventory.StockMovementRepository
	// Orders returns the sales order repository scoped to the current transaction
	Orders() trade.SalesOrderRepository
	// Transfers returns the transfer request repository scoped to the current transaction
	Transfers() transfer.TransferRequestRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing against in-memory or
// sqlite-backed repositories where every call auto-commits.
type NoOpTransactionScope struct {
	stockRecords inventory.StockRecordRepository
	movements    inventory.StockMovementRepository
	orders       trade.SalesOrderRepository
	transfers    transfer.TransferRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockRecords inventory.StockRecordRepository,
	movements inventory.StockMovementRepository,
	orders trade.SalesOrderRepository,
	transfers transfer.TransferRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRecords: stockRecords,
		movements:    movements,
		orders:       orders,
		transfers:    transfers,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRecords returns the stock record repository.
func (s *NoOpTransactionScope) StockRecords() inventory.StockRecordRepository {
	return s.stockRecords
}

// Movements returns the stock movement repository.
func (s *NoOpTransactionScope) Movements() inventory.StockMovementRepository {
	return s.movements
}

// Orders returns the sales order repository.
func (s *NoOpTransactionScope) Orders() trade.SalesOrderRepository {
	return s.orders
}

// Transfers returns the transfer request repository.
func (s *NoOpTransactionScope) Transfers() transfer.TransferRequestRepository {
	return s.transfers
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
