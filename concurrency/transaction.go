// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package concurrency

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

/**
 * Transaction states:
 *
 *     _________________________
 *    |                         v
 * GROWING -> SHRINKING -> COMMITTED   ABORTED
 *    |__________|________________________^
 *
 **/
type TransactionState int32

const (
	GROWING TransactionState = iota
	SHRINKING
	COMMITTED
	ABORTED
)

// WType is the kind of mutation a WriteRecord undoes on abort.
type WType int32

const (
	INSERT WType = iota
	DELETE
	UPDATE
)

// WriteRecord tracks one row-level mutation a transaction made, so that
// TransactionManager.Abort can undo it in reverse order. IndexOID names
// which of the table's indexes must also have its entry rolled back;
// the actual index instance lookup is left to the catalog, an external
// collaborator this package does not depend on.
type WriteRecord struct {
	RID       page.RID
	WType     WType
	Tuple     TupleLike
	Table     TableHeapLike
	IndexOID  uint32
}

// TupleLike and TableHeapLike are the minimal surface WriteRecord needs
// from the row-storage layer, kept as interfaces here so this package
// does not import storage/access and create a cycle: TableHeapLike
// implementations live alongside the row storage they undo mutations
// against.
type TupleLike interface{}

type TableHeapLike interface {
	GetTuple(rid *page.RID, txn *Transaction) TupleLike
	RollbackDelete(rid *page.RID, txn *Transaction)
	ApplyDelete(rid *page.RID, txn *Transaction)
	UpdateTuple(newTuple TupleLike, rid page.RID, txn *Transaction) bool
}

func NewWriteRecord(rid page.RID, wtype WType, tuple TupleLike, table TableHeapLike, indexOID uint32) *WriteRecord {
	return &WriteRecord{RID: rid, WType: wtype, Tuple: tuple, Table: table, IndexOID: indexOID}
}

// Transaction tracks everything the lock manager and transaction
// manager need for one unit of work: its two-phase-locking state, its
// isolation level, the table/row locks it currently holds in each of
// the five hierarchical modes, and the write set used to undo its
// mutations on abort. Grounded on storage/access/transaction.go's
// simpler two-mode predecessor, expanded to the five-mode model
// original_source/src/concurrency/transaction.h actually defines.
type Transaction struct {
	state           TransactionState
	isolationLevel  IsolationLevel
	txnID           types.TxnID
	writeSet        []*WriteRecord
	prevLSN         types.LSN

	tableSharedLockSet             mapset.Set[uint32]
	tableExclusiveLockSet          mapset.Set[uint32]
	tableIntentionSharedLockSet    mapset.Set[uint32]
	tableIntentionExclusiveLockSet mapset.Set[uint32]
	tableSharedIntentionExclusiveLockSet mapset.Set[uint32]

	sharedRowLockSet    map[uint32]mapset.Set[page.RID]
	exclusiveRowLockSet map[uint32]mapset.Set[page.RID]

	pageSet        []*page.Page
	deletedPageSet mapset.Set[types.PageID]

	dbgInfo string
}

func NewTransaction(txnID types.TxnID, isolationLevel IsolationLevel) *Transaction {
	return &Transaction{
		state:          GROWING,
		isolationLevel: isolationLevel,
		txnID:          txnID,
		writeSet:       make([]*WriteRecord, 0),
		prevLSN:        types.LSN(-1),

		tableSharedLockSet:                   mapset.NewSet[uint32](),
		tableExclusiveLockSet:                mapset.NewSet[uint32](),
		tableIntentionSharedLockSet:          mapset.NewSet[uint32](),
		tableIntentionExclusiveLockSet:       mapset.NewSet[uint32](),
		tableSharedIntentionExclusiveLockSet: mapset.NewSet[uint32](),

		sharedRowLockSet:    make(map[uint32]mapset.Set[page.RID]),
		exclusiveRowLockSet: make(map[uint32]mapset.Set[page.RID]),

		pageSet:        make([]*page.Page, 0),
		deletedPageSet: mapset.NewSet[types.PageID](),
	}
}

func (txn *Transaction) GetTransactionId() types.TxnID    { return txn.txnID }
func (txn *Transaction) GetState() TransactionState       { return txn.state }
func (txn *Transaction) SetState(state TransactionState)  { txn.state = state }
func (txn *Transaction) GetIsolationLevel() IsolationLevel { return txn.isolationLevel }
func (txn *Transaction) GetPrevLSN() types.LSN            { return txn.prevLSN }
func (txn *Transaction) SetPrevLSN(lsn types.LSN)         { txn.prevLSN = lsn }
func (txn *Transaction) GetDebugInfo() string             { return txn.dbgInfo }
func (txn *Transaction) SetDebugInfo(dbgInfo string)      { txn.dbgInfo = dbgInfo }

func (txn *Transaction) GetWriteSet() []*WriteRecord { return txn.writeSet }
func (txn *Transaction) SetWriteSet(ws []*WriteRecord) { txn.writeSet = ws }
func (txn *Transaction) AddIntoWriteSet(wr *WriteRecord) {
	txn.writeSet = append(txn.writeSet, wr)
}

// --- table-level lock set accessors, one pair per mode ---

func (txn *Transaction) IsTableSharedLocked(oid uint32) bool { return txn.tableSharedLockSet.Contains(oid) }
func (txn *Transaction) SetTableSharedLocked(oid uint32)     { txn.tableSharedLockSet.Add(oid) }
func (txn *Transaction) SetTableSharedUnlocked(oid uint32)   { txn.tableSharedLockSet.Remove(oid) }

func (txn *Transaction) IsTableExclusiveLocked(oid uint32) bool {
	return txn.tableExclusiveLockSet.Contains(oid)
}
func (txn *Transaction) SetTableExclusiveLocked(oid uint32)   { txn.tableExclusiveLockSet.Add(oid) }
func (txn *Transaction) SetTableExclusiveUnlocked(oid uint32) { txn.tableExclusiveLockSet.Remove(oid) }

func (txn *Transaction) IsTableIntentionSharedLocked(oid uint32) bool {
	return txn.tableIntentionSharedLockSet.Contains(oid)
}
func (txn *Transaction) SetTableIntentionSharedLocked(oid uint32) {
	txn.tableIntentionSharedLockSet.Add(oid)
}
func (txn *Transaction) SetTableIntentionSharedUnlocked(oid uint32) {
	txn.tableIntentionSharedLockSet.Remove(oid)
}

func (txn *Transaction) IsTableIntentionExclusiveLocked(oid uint32) bool {
	return txn.tableIntentionExclusiveLockSet.Contains(oid)
}
func (txn *Transaction) SetTableIntentionExclusiveLocked(oid uint32) {
	txn.tableIntentionExclusiveLockSet.Add(oid)
}
func (txn *Transaction) SetTableIntentionExclusiveUnlocked(oid uint32) {
	txn.tableIntentionExclusiveLockSet.Remove(oid)
}

func (txn *Transaction) IsTableSharedIntentionExclusiveLocked(oid uint32) bool {
	return txn.tableSharedIntentionExclusiveLockSet.Contains(oid)
}
func (txn *Transaction) SetTableSharedIntentionExclusiveLocked(oid uint32) {
	txn.tableSharedIntentionExclusiveLockSet.Add(oid)
}
func (txn *Transaction) SetTableSharedIntentionExclusiveUnlocked(oid uint32) {
	txn.tableSharedIntentionExclusiveLockSet.Remove(oid)
}

// rowSetFor returns the row-lock set m holds for table oid, creating and
// storing an empty one on first use.
func (txn *Transaction) rowSetFor(m map[uint32]mapset.Set[page.RID], oid uint32) mapset.Set[page.RID] {
	set, ok := m[oid]
	if !ok {
		set = mapset.NewSet[page.RID]()
		m[oid] = set
	}
	return set
}

func (txn *Transaction) GetSharedRowLockSet() map[uint32]mapset.Set[page.RID] { return txn.sharedRowLockSet }
func (txn *Transaction) GetExclusiveRowLockSet() map[uint32]mapset.Set[page.RID] {
	return txn.exclusiveRowLockSet
}

func (txn *Transaction) IsRowSharedLocked(oid uint32, rid page.RID) bool {
	set, ok := txn.sharedRowLockSet[oid]
	return ok && set.Contains(rid)
}
func (txn *Transaction) SetRowSharedLocked(oid uint32, rid page.RID) {
	txn.rowSetFor(txn.sharedRowLockSet, oid).Add(rid)
}
func (txn *Transaction) SetRowSharedUnlocked(oid uint32, rid page.RID) {
	if set, ok := txn.sharedRowLockSet[oid]; ok {
		set.Remove(rid)
		if set.Cardinality() == 0 {
			delete(txn.sharedRowLockSet, oid)
		}
	}
}

func (txn *Transaction) IsRowExclusiveLocked(oid uint32, rid page.RID) bool {
	set, ok := txn.exclusiveRowLockSet[oid]
	return ok && set.Contains(rid)
}
func (txn *Transaction) SetRowExclusiveLocked(oid uint32, rid page.RID) {
	txn.rowSetFor(txn.exclusiveRowLockSet, oid).Add(rid)
}
func (txn *Transaction) SetRowExclusiveUnlocked(oid uint32, rid page.RID) {
	if set, ok := txn.exclusiveRowLockSet[oid]; ok {
		set.Remove(rid)
		if set.Cardinality() == 0 {
			delete(txn.exclusiveRowLockSet, oid)
		}
	}
}

// --- page latch set, used by crab-latching index operations to track
// which pages are still latched mid-operation so every exit path
// (including a panic recovered further up) can release them in order. ---

func (txn *Transaction) GetPageSet() []*page.Page { return txn.pageSet }
func (txn *Transaction) AddIntoPageSet(p *page.Page) {
	txn.pageSet = append(txn.pageSet, p)
}
func (txn *Transaction) ClearPageSet() { txn.pageSet = txn.pageSet[:0] }

// GetDeletedPageSet holds pages a structural modification decided to
// free; the caller unpins and deletes them from the buffer pool only
// after the whole latch set has been released, so nothing is
// write-latching a frame the deletion just recycled.
func (txn *Transaction) GetDeletedPageSet() mapset.Set[types.PageID] { return txn.deletedPageSet }
func (txn *Transaction) AddIntoDeletedPageSet(id types.PageID)       { txn.deletedPageSet.Add(id) }
func (txn *Transaction) ClearDeletedPageSet()                        { txn.deletedPageSet.Clear() }
