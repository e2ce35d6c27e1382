// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package concurrency

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/types"
)

// TransactionManager begins, commits, and aborts transactions, driving
// the write-set rollback on Abort and releasing every lock a
// transaction holds on Commit/Abort. Adapted from
// storage/access/transaction_manager.go with the WAL log_manager
// dependency stripped throughout: recovery/WAL is out of scope here,
// so Begin/Commit/Abort no longer append log records, but the
// write-set-driven undo they gated is kept and now runs
// unconditionally.
type TransactionManager struct {
	nextTxnID      types.TxnID
	lockManager    *LockManager
	globalTxnLatch common.ReaderWriterLatch
	mutex          sync.Mutex

	transactions map[types.TxnID]*Transaction
	txnMutex     sync.Mutex

	defaultIsolationLevel IsolationLevel
}

func NewTransactionManager(lockManager *LockManager) *TransactionManager {
	tm := &TransactionManager{
		lockManager:            lockManager,
		globalTxnLatch:         common.NewRWLatch(),
		transactions:           make(map[types.TxnID]*Transaction),
		defaultIsolationLevel:  REPEATABLE_READ,
	}
	lockManager.StartCycleDetection(tm.GetTransaction)
	return tm
}

// GetTransaction looks a still-live transaction up by id. Used by the
// lock manager's cycle detector to reach the Transaction it needs to
// abort.
func (tm *TransactionManager) GetTransaction(txnID types.TxnID) *Transaction {
	tm.txnMutex.Lock()
	defer tm.txnMutex.Unlock()
	return tm.transactions[txnID]
}

// Begin starts a new transaction (or resumes the given one, for tests
// that construct a Transaction directly), taking the global
// transaction latch in shared mode so BlockAllTransactions can pause
// new work.
func (tm *TransactionManager) Begin(txn *Transaction) *Transaction {
	tm.globalTxnLatch.RLock()

	if txn == nil {
		tm.mutex.Lock()
		tm.nextTxnID++
		txn = NewTransaction(tm.nextTxnID, tm.defaultIsolationLevel)
		tm.mutex.Unlock()
	}

	tm.txnMutex.Lock()
	tm.transactions[txn.GetTransactionId()] = txn
	tm.txnMutex.Unlock()
	return txn
}

// Commit finalizes txn: pending deletes in its write set are applied
// for real, every lock it holds is released, and the global
// transaction latch is dropped.
func (tm *TransactionManager) Commit(txn *Transaction) {
	txn.SetState(COMMITTED)

	writeSet := txn.GetWriteSet()
	for len(writeSet) != 0 {
		item := writeSet[len(writeSet)-1]
		writeSet = writeSet[:len(writeSet)-1]
		if item.WType == DELETE {
			item.Table.ApplyDelete(&item.RID, txn)
		}
	}
	txn.SetWriteSet(writeSet)

	tm.releaseLocks(txn)
	tm.globalTxnLatch.RUnlock()
}

// Abort undoes every mutation in txn's write set in reverse order and
// releases its locks. Index maintenance for the undone rows is left to
// the catalog's index set, an external collaborator this package does
// not depend on: undoing a table row is always safe on its own, but
// undoing the accompanying secondary-index entries requires knowing
// which indexes exist for the table, which is catalog metadata.
func (tm *TransactionManager) Abort(txn *Transaction) {
	txn.SetState(ABORTED)

	writeSet := txn.GetWriteSet()
	for len(writeSet) != 0 {
		item := writeSet[len(writeSet)-1]
		writeSet = writeSet[:len(writeSet)-1]
		switch item.WType {
		case DELETE:
			item.Table.RollbackDelete(&item.RID, txn)
		case INSERT:
			item.Table.ApplyDelete(&item.RID, txn)
		case UPDATE:
			item.Table.UpdateTuple(item.Tuple, item.RID, txn)
		}
	}
	txn.SetWriteSet(writeSet)

	tm.releaseLocks(txn)
	tm.globalTxnLatch.RUnlock()
}

// BlockAllTransactions takes the global transaction latch exclusively,
// so no new transaction can begin until ResumeTransactions.
func (tm *TransactionManager) BlockAllTransactions() {
	tm.globalTxnLatch.WLock()
}

func (tm *TransactionManager) ResumeTransactions() {
	tm.globalTxnLatch.WUnlock()
}

// releaseLocks drops every row lock and then every table lock txn
// holds, in that order, since UnlockTable refuses to run while a row
// under it is still locked.
func (tm *TransactionManager) releaseLocks(txn *Transaction) {
	for oid, rids := range txn.GetSharedRowLockSet() {
		for _, rid := range rids.ToSlice() {
			tm.lockManager.UnlockRow(txn, oid, rid)
		}
	}
	for oid, rids := range txn.GetExclusiveRowLockSet() {
		for _, rid := range rids.ToSlice() {
			tm.lockManager.UnlockRow(txn, oid, rid)
		}
	}

	oids := mapset.NewSet[uint32]()
	txn.tableSharedLockSet.Each(func(o uint32) bool { oids.Add(o); return false })
	txn.tableExclusiveLockSet.Each(func(o uint32) bool { oids.Add(o); return false })
	txn.tableIntentionSharedLockSet.Each(func(o uint32) bool { oids.Add(o); return false })
	txn.tableIntentionExclusiveLockSet.Each(func(o uint32) bool { oids.Add(o); return false })
	txn.tableSharedIntentionExclusiveLockSet.Each(func(o uint32) bool { oids.Add(o); return false })
	for _, oid := range oids.ToSlice() {
		tm.lockManager.UnlockTable(txn, oid)
	}
}
