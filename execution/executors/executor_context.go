package executors

import (
	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/buffer"
)

// ExecutorContext threads the state every executor needs to run one
// query: the catalog to resolve table/schema metadata, the buffer
// pool backing table heaps and indexes, and the transaction (and its
// lock manager) operators run under.
type ExecutorContext struct {
	catalog     *catalog.Catalog
	bpm         *buffer.BufferPoolManager
	txn         *concurrency.Transaction
	lockManager *concurrency.LockManager
}

func NewExecutorContext(catalog_ *catalog.Catalog, bpm *buffer.BufferPoolManager, txn *concurrency.Transaction, lockManager *concurrency.LockManager) *ExecutorContext {
	return &ExecutorContext{catalog_, bpm, txn, lockManager}
}

func (e *ExecutorContext) GetCatalog() *catalog.Catalog {
	return e.catalog
}

func (e *ExecutorContext) GetBufferPoolManager() *buffer.BufferPoolManager {
	return e.bpm
}

func (e *ExecutorContext) GetTransaction() *concurrency.Transaction {
	return e.txn
}

func (e *ExecutorContext) GetLockManager() *concurrency.LockManager {
	return e.lockManager
}
