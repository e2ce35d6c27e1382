// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package concurrency

import (
	"container/list"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	pair "github.com/notEpsilon/go-pair"
	"github.com/sasha-s/go-deadlock"

	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

// LockMode is one of the five hierarchical lock modes: two "leaf" modes
// (SHARED, EXCLUSIVE) and three intention modes used on ancestors to
// signal a finer-grained lock is held further down the hierarchy.
// Grounded on original_source/src/concurrency/lock_manager.h's LockMode.
type LockMode int32

const (
	SHARED LockMode = iota
	EXCLUSIVE
	INTENTION_SHARED
	INTENTION_EXCLUSIVE
	SHARED_INTENTION_EXCLUSIVE
)

// lockObject distinguishes a table-level request from a row-level one,
// since CheckLock/ModifyLockSet apply different rules to each.
type lockObject int32

const (
	tableObject lockObject = iota
	rowObject
)

// LockRequest is one entry in a LockRequestQueue: a transaction's ask
// for a lock in a given mode, granted or still waiting.
type LockRequest struct {
	txnID    types.TxnID
	lockMode LockMode
	oid      uint32
	rid      page.RID
	isRow    bool
	granted  bool
}

// LockRequestQueue is the FIFO of requests against one table oid or one
// row RID, plus the single in-flight upgrade slot and a condition
// variable requesters block on until CheckGrant admits them.
type LockRequestQueue struct {
	requests  *list.List // of *LockRequest
	upgrading types.TxnID
	cond      *sync.Cond
	latch     *deadlock.Mutex
}

func newLockRequestQueue() *LockRequestQueue {
	latch := &deadlock.Mutex{}
	return &LockRequestQueue{
		requests:  list.New(),
		upgrading: types.TxnID(common.InvalidTxnID),
		cond:      sync.NewCond(latch),
		latch:     latch,
	}
}

// LockManager grants table and row locks under strict two-phase locking
// with a five-mode compatibility matrix, and detects deadlocks by
// periodically rebuilding a wait-for graph from ungranted-vs-granted
// request pairs and aborting the largest transaction id in any cycle
// found. Grounded on original_source/src/concurrency/lock_manager.cpp.
type LockManager struct {
	tableLockMap      map[uint32]*LockRequestQueue
	tableLockMapLatch deadlock.Mutex
	rowLockMap        map[page.RID]*LockRequestQueue
	rowLockMapLatch   deadlock.Mutex

	waitsFor      map[types.TxnID]mapset.Set[types.TxnID]
	waitsForLatch deadlock.Mutex

	cycleDetectionInterval time.Duration
	enableCycleDetection   bool
	stopCh                 chan struct{}

	txnLookup func(types.TxnID) *Transaction
}

// NewLockManager returns a lock manager with cycle detection disabled;
// call StartCycleDetection to launch the background goroutine once a
// transaction lookup function is available.
func NewLockManager(cycleDetectionInterval time.Duration) *LockManager {
	return &LockManager{
		tableLockMap: make(map[uint32]*LockRequestQueue),
		rowLockMap:   make(map[page.RID]*LockRequestQueue),
		waitsFor:     make(map[types.TxnID]mapset.Set[types.TxnID]),

		cycleDetectionInterval: cycleDetectionInterval,
	}
}

// StartCycleDetection launches the background wait-for-graph rebuild
// and cycle check. txnLookup resolves a txn id to its Transaction so
// the victim can be marked ABORTED.
func (lm *LockManager) StartCycleDetection(txnLookup func(types.TxnID) *Transaction) {
	lm.txnLookup = txnLookup
	lm.enableCycleDetection = true
	lm.stopCh = make(chan struct{})
	go lm.RunCycleDetection()
}

func (lm *LockManager) StopCycleDetection() {
	if lm.enableCycleDetection {
		lm.enableCycleDetection = false
		close(lm.stopCh)
	}
}

// CheckLock enforces the isolation-level / two-phase-locking rules that
// gate every lock request before it is queued. Grounded on
// LockManager::CheckLock.
func (lm *LockManager) CheckLock(txn *Transaction, lockMode LockMode, obj lockObject) error {
	if obj == rowObject {
		if lockMode == INTENTION_SHARED || lockMode == INTENTION_EXCLUSIVE || lockMode == SHARED_INTENTION_EXCLUSIVE {
			txn.SetState(ABORTED)
			return NewAbortError(int32(txn.GetTransactionId()), AttemptedIntentionLockOnRow)
		}
	}

	switch txn.GetIsolationLevel() {
	case REPEATABLE_READ:
		if txn.GetState() == SHRINKING {
			txn.SetState(ABORTED)
			return NewAbortError(int32(txn.GetTransactionId()), LockOnShrinking)
		}
	case READ_COMMITTED:
		if txn.GetState() == SHRINKING && lockMode != INTENTION_SHARED && lockMode != SHARED {
			txn.SetState(ABORTED)
			return NewAbortError(int32(txn.GetTransactionId()), LockOnShrinking)
		}
	case READ_UNCOMMITTED:
		if lockMode == SHARED || lockMode == INTENTION_SHARED || lockMode == SHARED_INTENTION_EXCLUSIVE {
			txn.SetState(ABORTED)
			return NewAbortError(int32(txn.GetTransactionId()), LockSharedOnReadUncommitted)
		}
		if txn.GetState() != GROWING {
			txn.SetState(ABORTED)
			return NewAbortError(int32(txn.GetTransactionId()), LockOnShrinking)
		}
	}
	return nil
}

// isCompatible reports whether a request for want can coexist with a
// currently-granted lock in mode held. Rows of the standard
// IS/IX/S/SIX/X compatibility matrix. Grounded on LockManager::CheckGrant.
func isCompatible(held, want LockMode) bool {
	switch held {
	case SHARED:
		return want == INTENTION_SHARED || want == SHARED
	case EXCLUSIVE:
		return false
	case INTENTION_SHARED:
		return want != EXCLUSIVE
	case INTENTION_EXCLUSIVE:
		return want == INTENTION_SHARED || want == INTENTION_EXCLUSIVE
	case SHARED_INTENTION_EXCLUSIVE:
		return want == INTENTION_SHARED
	default:
		return false
	}
}

// checkGrant reports whether checked may be granted: every earlier
// granted request in the queue must be compatible with it, and every
// earlier ungranted request must be checked itself (FIFO: an ungranted
// predecessor blocks anything behind it). Grounded on
// LockManager::CheckGrant.
func checkGrant(checked *LockRequest, q *LockRequestQueue) bool {
	for e := q.requests.Front(); e != nil; e = e.Next() {
		req := e.Value.(*LockRequest)
		if req == checked {
			return true
		}
		if req.granted {
			if !isCompatible(req.lockMode, checked.lockMode) {
				return false
			}
			continue
		}
		return false
	}
	return true
}

func (lm *LockManager) modifyLockSet(txn *Transaction, oid uint32, mode LockMode, obj lockObject, add bool, rid page.RID) {
	if obj == tableObject {
		switch mode {
		case SHARED:
			if add {
				txn.SetTableSharedLocked(oid)
			} else {
				txn.SetTableSharedUnlocked(oid)
			}
		case EXCLUSIVE:
			if add {
				txn.SetTableExclusiveLocked(oid)
			} else {
				txn.SetTableExclusiveUnlocked(oid)
			}
		case INTENTION_SHARED:
			if add {
				txn.SetTableIntentionSharedLocked(oid)
			} else {
				txn.SetTableIntentionSharedUnlocked(oid)
			}
		case INTENTION_EXCLUSIVE:
			if add {
				txn.SetTableIntentionExclusiveLocked(oid)
			} else {
				txn.SetTableIntentionExclusiveUnlocked(oid)
			}
		case SHARED_INTENTION_EXCLUSIVE:
			if add {
				txn.SetTableSharedIntentionExclusiveLocked(oid)
			} else {
				txn.SetTableSharedIntentionExclusiveUnlocked(oid)
			}
		}
		return
	}
	switch mode {
	case SHARED:
		if add {
			txn.SetRowSharedLocked(oid, rid)
		} else {
			txn.SetRowSharedUnlocked(oid, rid)
		}
	case EXCLUSIVE:
		if add {
			txn.SetRowExclusiveLocked(oid, rid)
		} else {
			txn.SetRowExclusiveUnlocked(oid, rid)
		}
	}
}

// CheckTableIntentionLock enforces that a row lock request is backed by
// the matching intention lock on its table: S/IS rows need at least IS
// on the table, X/IX/SIX rows need at least IX. Grounded on
// LockManager::CheckTableIntentionLock.
func (lm *LockManager) CheckTableIntentionLock(txn *Transaction, mode LockMode, oid uint32) error {
	switch mode {
	case SHARED:
		if !txn.IsTableIntentionSharedLocked(oid) && !txn.IsTableSharedLocked(oid) &&
			!txn.IsTableExclusiveLocked(oid) && !txn.IsTableIntentionExclusiveLocked(oid) {
			txn.SetState(ABORTED)
			return NewAbortError(int32(txn.GetTransactionId()), TableLockNotPresent)
		}
	case EXCLUSIVE:
		if !txn.IsTableExclusiveLocked(oid) && !txn.IsTableIntentionExclusiveLocked(oid) &&
			!txn.IsTableSharedIntentionExclusiveLocked(oid) {
			txn.SetState(ABORTED)
			return NewAbortError(int32(txn.GetTransactionId()), TableLockNotPresent)
		}
	}
	return nil
}

func findRequest(q *LockRequestQueue, txnID types.TxnID) (*list.Element, *LockRequest) {
	for e := q.requests.Front(); e != nil; e = e.Next() {
		req := e.Value.(*LockRequest)
		if req.txnID == txnID {
			return e, req
		}
	}
	return nil, nil
}

// LockTable acquires a table-level lock in lockMode for txn, blocking
// until it can be granted under FIFO-with-one-upgrade-slot ordering.
// Grounded on LockManager::LockTable.
func (lm *LockManager) LockTable(txn *Transaction, lockMode LockMode, oid uint32) error {
	if err := lm.CheckLock(txn, lockMode, tableObject); err != nil {
		return err
	}

	lm.tableLockMapLatch.Lock()
	q, ok := lm.tableLockMap[oid]
	if !ok {
		q = newLockRequestQueue()
		lm.tableLockMap[oid] = q
	}
	lm.tableLockMapLatch.Unlock()

	q.latch.Lock()
	if elem, existing := findRequest(q, txn.GetTransactionId()); existing != nil {
		if existing.lockMode == lockMode {
			q.latch.Unlock()
			return nil
		}
		return lm.upgradeTable(txn, elem, lockMode, oid, q)
	}

	req := &LockRequest{txnID: txn.GetTransactionId(), lockMode: lockMode, oid: oid}
	req.granted = q.requests.Len() == 0
	q.requests.PushBack(req)
	if req.granted {
		lm.modifyLockSet(txn, oid, lockMode, tableObject, true, page.RID{})
		q.latch.Unlock()
		return nil
	}
	for !checkGrant(req, q) {
		q.cond.Wait()
		if txn.GetState() == ABORTED {
			removeRequest(q, req)
			q.cond.Broadcast()
			q.latch.Unlock()
			common.RuntimeStack("lock_manager: table lock wait aborted")
			return NewAbortError(int32(txn.GetTransactionId()), DeadlockVictim)
		}
	}
	req.granted = true
	lm.modifyLockSet(txn, oid, lockMode, tableObject, true, page.RID{})
	if lockMode != EXCLUSIVE {
		q.cond.Broadcast()
	}
	q.latch.Unlock()
	return nil
}

// upgradeTable replaces an already-granted request with a new mode,
// enforcing the single-upgrader-per-queue rule. q.latch is held on
// entry and always released before returning.
func (lm *LockManager) upgradeTable(txn *Transaction, elem *list.Element, lockMode LockMode, oid uint32, q *LockRequestQueue) error {
	existing := elem.Value.(*LockRequest)
	if q.upgrading != types.TxnID(common.InvalidTxnID) {
		q.latch.Unlock()
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), UpgradeConflict)
	}
	q.upgrading = txn.GetTransactionId()
	lm.modifyLockSet(txn, oid, existing.lockMode, tableObject, false, page.RID{})
	q.requests.Remove(elem)

	req := &LockRequest{txnID: txn.GetTransactionId(), lockMode: lockMode, oid: oid}
	insertUpgraded(q, req)
	for !checkGrant(req, q) {
		q.cond.Wait()
		if txn.GetState() == ABORTED {
			removeRequest(q, req)
			q.upgrading = types.TxnID(common.InvalidTxnID)
			q.cond.Broadcast()
			q.latch.Unlock()
			return NewAbortError(int32(txn.GetTransactionId()), DeadlockVictim)
		}
	}
	q.upgrading = types.TxnID(common.InvalidTxnID)
	req.granted = true
	lm.modifyLockSet(txn, oid, lockMode, tableObject, true, page.RID{})
	if lockMode != EXCLUSIVE {
		q.cond.Broadcast()
	}
	q.latch.Unlock()
	return nil
}

// insertUpgraded places req immediately after the last currently-granted
// request in q, ahead of every pure waiter but behind every request the
// queue has already granted. An upgrade is not a new arrival: per
// spec.md §4.F.1 and the FIFO exception in §5, it must not be pushed to
// the tail behind requests that were merely waiting when the upgrade
// started.
func insertUpgraded(q *LockRequestQueue, req *LockRequest) {
	var lastGranted *list.Element
	for e := q.requests.Front(); e != nil; e = e.Next() {
		if e.Value.(*LockRequest).granted {
			lastGranted = e
		}
	}
	if lastGranted == nil {
		q.requests.PushFront(req)
		return
	}
	q.requests.InsertAfter(req, lastGranted)
}

func removeRequest(q *LockRequestQueue, req *LockRequest) {
	for e := q.requests.Front(); e != nil; e = e.Next() {
		if e.Value.(*LockRequest) == req {
			q.requests.Remove(e)
			return
		}
	}
}

// UnlockTable releases txn's lock on oid. It refuses to run while any
// row locks under oid remain, and toggles GROWING -> SHRINKING per the
// isolation level's strict-2PL rule. Grounded on
// LockManager::UnlockTable.
func (lm *LockManager) UnlockTable(txn *Transaction, oid uint32) error {
	lm.tableLockMapLatch.Lock()
	q, ok := lm.tableLockMap[oid]
	lm.tableLockMapLatch.Unlock()
	if !ok {
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), AttemptedUnlockButNoLockHeld)
	}

	if s, ok := txn.GetSharedRowLockSet()[oid]; ok && s.Cardinality() > 0 {
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), TableUnlockedBeforeUnlockingRows)
	}
	if s, ok := txn.GetExclusiveRowLockSet()[oid]; ok && s.Cardinality() > 0 {
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), TableUnlockedBeforeUnlockingRows)
	}

	q.latch.Lock()
	defer q.latch.Unlock()
	elem, req := findRequest(q, txn.GetTransactionId())
	if elem == nil || !req.granted {
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), AttemptedUnlockButNoLockHeld)
	}

	lm.transitionOnUnlock(txn, req.lockMode)
	lm.modifyLockSet(txn, oid, req.lockMode, tableObject, false, page.RID{})
	q.requests.Remove(elem)
	q.cond.Broadcast()
	return nil
}

// transitionOnUnlock applies the GROWING->SHRINKING (or ABORTED) state
// change strict-2PL requires when a lock in releasedMode is dropped.
// Grounded on the switch inside LockManager::UnlockTable/UnlockRow.
func (lm *LockManager) transitionOnUnlock(txn *Transaction, releasedMode LockMode) {
	if txn.GetState() != GROWING {
		return
	}
	switch txn.GetIsolationLevel() {
	case REPEATABLE_READ:
		if releasedMode == EXCLUSIVE || releasedMode == SHARED {
			txn.SetState(SHRINKING)
		}
	case READ_COMMITTED:
		if releasedMode == EXCLUSIVE {
			txn.SetState(SHRINKING)
		}
	case READ_UNCOMMITTED:
		if releasedMode == EXCLUSIVE {
			txn.SetState(SHRINKING)
		}
	}
}

// LockRow acquires a row-level lock (SHARED or EXCLUSIVE only) on rid,
// which must belong to table oid, after confirming txn already holds
// the matching table-level intention lock. Grounded on
// LockManager::LockRow.
func (lm *LockManager) LockRow(txn *Transaction, lockMode LockMode, oid uint32, rid page.RID) error {
	if err := lm.CheckLock(txn, lockMode, rowObject); err != nil {
		return err
	}
	if err := lm.CheckTableIntentionLock(txn, lockMode, oid); err != nil {
		return err
	}

	lm.rowLockMapLatch.Lock()
	q, ok := lm.rowLockMap[rid]
	if !ok {
		q = newLockRequestQueue()
		lm.rowLockMap[rid] = q
	}
	lm.rowLockMapLatch.Unlock()

	q.latch.Lock()
	if elem, existing := findRequest(q, txn.GetTransactionId()); elem != nil {
		if existing.lockMode == lockMode {
			q.latch.Unlock()
			return nil
		}
		return lm.upgradeRow(txn, elem, lockMode, oid, rid, q)
	}

	req := &LockRequest{txnID: txn.GetTransactionId(), lockMode: lockMode, oid: oid, rid: rid, isRow: true}
	req.granted = q.requests.Len() == 0
	q.requests.PushBack(req)
	if req.granted {
		lm.modifyLockSet(txn, oid, lockMode, rowObject, true, rid)
		q.latch.Unlock()
		return nil
	}
	for !checkGrant(req, q) {
		q.cond.Wait()
		if txn.GetState() == ABORTED {
			removeRequest(q, req)
			q.cond.Broadcast()
			q.latch.Unlock()
			return NewAbortError(int32(txn.GetTransactionId()), DeadlockVictim)
		}
	}
	req.granted = true
	lm.modifyLockSet(txn, oid, lockMode, rowObject, true, rid)
	if lockMode != EXCLUSIVE {
		q.cond.Broadcast()
	}
	q.latch.Unlock()
	return nil
}

func (lm *LockManager) upgradeRow(txn *Transaction, elem *list.Element, lockMode LockMode, oid uint32, rid page.RID, q *LockRequestQueue) error {
	existing := elem.Value.(*LockRequest)
	if q.upgrading != types.TxnID(common.InvalidTxnID) {
		q.latch.Unlock()
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), UpgradeConflict)
	}
	q.upgrading = txn.GetTransactionId()
	lm.modifyLockSet(txn, oid, existing.lockMode, rowObject, false, rid)
	q.requests.Remove(elem)

	req := &LockRequest{txnID: txn.GetTransactionId(), lockMode: lockMode, oid: oid, rid: rid, isRow: true}
	insertUpgraded(q, req)
	for !checkGrant(req, q) {
		q.cond.Wait()
		if txn.GetState() == ABORTED {
			removeRequest(q, req)
			q.upgrading = types.TxnID(common.InvalidTxnID)
			q.cond.Broadcast()
			q.latch.Unlock()
			return NewAbortError(int32(txn.GetTransactionId()), DeadlockVictim)
		}
	}
	q.upgrading = types.TxnID(common.InvalidTxnID)
	req.granted = true
	lm.modifyLockSet(txn, oid, lockMode, rowObject, true, rid)
	if lockMode != EXCLUSIVE {
		q.cond.Broadcast()
	}
	q.latch.Unlock()
	return nil
}

// UnlockRow releases txn's lock on rid. Grounded on LockManager::UnlockRow.
func (lm *LockManager) UnlockRow(txn *Transaction, oid uint32, rid page.RID) error {
	lm.rowLockMapLatch.Lock()
	q, ok := lm.rowLockMap[rid]
	lm.rowLockMapLatch.Unlock()
	if !ok {
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), AttemptedUnlockButNoLockHeld)
	}

	q.latch.Lock()
	defer q.latch.Unlock()
	elem, req := findRequest(q, txn.GetTransactionId())
	if elem == nil || !req.granted {
		txn.SetState(ABORTED)
		return NewAbortError(int32(txn.GetTransactionId()), AttemptedUnlockButNoLockHeld)
	}

	lm.transitionOnUnlock(txn, req.lockMode)
	lm.modifyLockSet(txn, oid, req.lockMode, rowObject, false, rid)
	q.requests.Remove(elem)
	q.cond.Broadcast()
	return nil
}

/*** Wait-for graph API, used by RunCycleDetection ***/

// AddEdge records that t1 waits for t2 to release a lock.
func (lm *LockManager) AddEdge(t1, t2 types.TxnID) {
	set, ok := lm.waitsFor[t1]
	if !ok {
		set = mapset.NewSet[types.TxnID]()
		lm.waitsFor[t1] = set
	}
	set.Add(t2)
}

// RemoveEdge deletes the t1->t2 edge, dropping t1's adjacency set once
// it is empty.
func (lm *LockManager) RemoveEdge(t1, t2 types.TxnID) {
	set, ok := lm.waitsFor[t1]
	if !ok {
		return
	}
	set.Remove(t2)
	if set.Cardinality() == 0 {
		delete(lm.waitsFor, t1)
	}
}

// HasCycle runs a DFS from every node, returning the largest id
// encountered along any cycle it finds. Grounded on
// LockManager::HasCycle, which picks the newest (largest id)
// transaction in the cycle as the eventual abort victim.
func (lm *LockManager) HasCycle() (types.TxnID, bool) {
	visiting := make(map[types.TxnID]bool)
	var best types.TxnID = -1
	var found bool

	var dfs func(id types.TxnID) types.TxnID
	dfs = func(id types.TxnID) types.TxnID {
		neighbors, ok := lm.waitsFor[id]
		if !ok {
			return -1
		}
		result := types.TxnID(-1)
		// Each stops iterating as soon as the callback returns true.
		neighbors.Each(func(next types.TxnID) bool {
			if visiting[next] {
				if next > result {
					result = next
				}
				if id > result {
					result = id
				}
				return true
			}
			visiting[next] = true
			temp := dfs(next)
			delete(visiting, next)
			if temp != -1 {
				m := id
				if temp > m {
					m = temp
				}
				if m > result {
					result = m
				}
				return true
			}
			return false
		})
		return result
	}

	ids := make([]types.TxnID, 0, len(lm.waitsFor))
	for id := range lm.waitsFor {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		visiting[id] = true
		victim := dfs(id)
		delete(visiting, id)
		if victim != -1 {
			if !found || victim > best {
				best = victim
			}
			found = true
		}
	}
	return best, found
}

// GetEdgeList returns every edge in the wait-for graph, for tests.
func (lm *LockManager) GetEdgeList() []pair.Pair[types.TxnID, types.TxnID] {
	lm.waitsForLatch.Lock()
	defer lm.waitsForLatch.Unlock()

	edges := make([]pair.Pair[types.TxnID, types.TxnID], 0)
	for from, tos := range lm.waitsFor {
		tos.Each(func(to types.TxnID) bool {
			edges = append(edges, *pair.New(from, to))
			return false
		})
	}
	return edges
}

func requestQueueEdges(q *LockRequestQueue, add func(waiter, holder types.TxnID)) {
	q.latch.Lock()
	defer q.latch.Unlock()
	for wi := q.requests.Front(); wi != nil; wi = wi.Next() {
		waiter := wi.Value.(*LockRequest)
		if waiter.granted {
			continue
		}
		for hi := q.requests.Front(); hi != nil; hi = hi.Next() {
			holder := hi.Value.(*LockRequest)
			if holder == waiter || !holder.granted {
				continue
			}
			add(waiter.txnID, holder.txnID)
		}
	}
}

// RunCycleDetection periodically rebuilds the wait-for graph from the
// table and row lock queues and aborts the largest transaction id in
// any cycle it finds, notifying every queue that transaction is
// waiting in so it wakes up and observes the abort. Grounded on
// LockManager::RunCycleDetection.
func (lm *LockManager) RunCycleDetection() {
	ticker := time.NewTicker(lm.cycleDetectionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-lm.stopCh:
			return
		case <-ticker.C:
		}

		lm.waitsForLatch.Lock()
		lm.waitsFor = make(map[types.TxnID]mapset.Set[types.TxnID])

		lm.tableLockMapLatch.Lock()
		for _, q := range lm.tableLockMap {
			requestQueueEdges(q, lm.AddEdge)
		}
		lm.tableLockMapLatch.Unlock()

		lm.rowLockMapLatch.Lock()
		for _, q := range lm.rowLockMap {
			requestQueueEdges(q, lm.AddEdge)
		}
		lm.rowLockMapLatch.Unlock()

		for {
			victimID, ok := lm.HasCycle()
			if !ok {
				break
			}
			if lm.txnLookup != nil {
				if victim := lm.txnLookup(victimID); victim != nil {
					common.ShPrintf(common.DEADLOCK, "lock_manager: aborting txn %d to break a cycle\n", victimID)
					common.RuntimeStack("lock_manager: cycle detected")
					victim.SetState(ABORTED)
				}
			}
			delete(lm.waitsFor, victimID)
			for from, tos := range lm.waitsFor {
				tos.Remove(victimID)
				if tos.Cardinality() == 0 {
					delete(lm.waitsFor, from)
				}
			}
			lm.notifyQueuesFor(victimID)
		}
		lm.waitsForLatch.Unlock()
	}
}

func (lm *LockManager) notifyQueuesFor(txnID types.TxnID) {
	lm.rowLockMapLatch.Lock()
	for _, q := range lm.rowLockMap {
		q.latch.Lock()
		if _, req := findRequest(q, txnID); req != nil {
			q.cond.Broadcast()
		}
		q.latch.Unlock()
	}
	lm.rowLockMapLatch.Unlock()

	lm.tableLockMapLatch.Lock()
	for _, q := range lm.tableLockMap {
		q.latch.Lock()
		if _, req := findRequest(q, txnID); req != nil {
			q.cond.Broadcast()
		}
		q.latch.Unlock()
	}
	lm.tableLockMapLatch.Unlock()
}
