// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

// TableHeap represents a physical table on disk. It contains the id of
// the first table page; table pages are doubly-linked to each other.
// oid is the catalog table identifier the lock manager hierarchy keys
// on. It implements concurrency.TableHeapLike so TransactionManager.Abort
// can undo this table's own write-set entries without the concurrency
// package ever importing storage/access back.
type TableHeap struct {
	bpm         *buffer.BufferPoolManager
	firstPageId types.PageID
	lockManager *concurrency.LockManager
	oid         uint32
}

// NewTableHeap creates a table heap with a fresh first page.
func NewTableHeap(bpm *buffer.BufferPoolManager, lockManager *concurrency.LockManager, oid uint32) *TableHeap {
	p := bpm.NewPage()

	firstPage := CastPageAsTablePage(p)
	firstPage.WLatch()
	firstPage.Init(p.GetPageId(), types.InvalidPageID)
	firstPage.WUnlatch()
	bpm.FlushPage(p.GetPageId())
	bpm.UnpinPage(p.GetPageId(), true)
	return &TableHeap{bpm, p.GetPageId(), lockManager, oid}
}

// InitTableHeap reopens a table heap whose first page already exists,
// as recorded in catalog metadata.
func InitTableHeap(bpm *buffer.BufferPoolManager, pageId types.PageID, lockManager *concurrency.LockManager, oid uint32) *TableHeap {
	return &TableHeap{bpm, pageId, lockManager, oid}
}

func (t *TableHeap) GetOID() uint32 { return t.oid }

// GetFirstPageId returns firstPageId
func (t *TableHeap) GetFirstPageId() types.PageID {
	return t.firstPageId
}

func (t *TableHeap) GetBufferPoolManager() *buffer.BufferPoolManager {
	return t.bpm
}

// InsertTuple inserts a tuple into the table. PAY ATTENTION: index
// entries are not inserted, that is the caller's responsibility.
//
// It fetches the first page and tries to insert the tuple there.
// If the tuple does not fit:
//  1. It tries to insert in the next page
//  2. If there is no next page, it creates a new page and inserts there
func (t *TableHeap) InsertTuple(tuple_ *tuple.Tuple, txn *concurrency.Transaction) (rid *page.RID, err error) {
	if err := t.lockManager.LockTable(txn, concurrency.INTENTION_EXCLUSIVE, t.oid); err != nil {
		return nil, err
	}

	currentPage := CastPageAsTablePage(t.bpm.FetchPage(t.firstPageId))

	// Insert into the first page with enough space. If no such page
	// exists, create a new page and insert into that.
	// INVARIANT: currentPage is WLatched if you leave the loop normally.
	for {
		currentPage.WLatch()
		rid, err = currentPage.InsertTuple(tuple_, t.lockManager, t.oid, txn)
		if err == nil {
			currentPage.WUnlatch()
			break
		}
		if err != ErrEmptyTuple && err != ErrNotEnoughSpace && err != ErrNoFreeSlot {
			currentPage.WUnlatch()
			t.bpm.UnpinPage(currentPage.GetTablePageId(), false)
			return nil, err
		}

		nextPageId := currentPage.GetNextPageId()
		if nextPageId.IsValid() {
			t.bpm.UnpinPage(currentPage.GetTablePageId(), false)
			currentPage.WUnlatch()
			currentPage = CastPageAsTablePage(t.bpm.FetchPage(nextPageId))
		} else {
			p := t.bpm.NewPage()
			currentPage.SetNextPageId(p.GetPageId())
			currentPage.WUnlatch()
			newPage := CastPageAsTablePage(p)
			currentPage.RLatch()
			newPage.Init(p.GetPageId(), currentPage.GetTablePageId())
			t.bpm.FlushPage(newPage.GetTablePageId())
			t.bpm.UnpinPage(currentPage.GetTablePageId(), true)
			currentPage.RUnlatch()
			currentPage = newPage
		}
	}

	t.bpm.UnpinPage(currentPage.GetTablePageId(), true)
	txn.AddIntoWriteSet(concurrency.NewWriteRecord(*rid, concurrency.INSERT, new(tuple.Tuple), t, t.oid))
	return rid, nil
}

// UpdateTupleWithSchema updates the tuple at rid. If update_col_idxs
// or schema_ is nil, all data of the existing tuple is replaced by
// new_tuple's; otherwise new_tuple must still have every column
// schema_ defines, but only the named columns are actually applied,
// the rest carried over from the existing tuple.
func (t *TableHeap) UpdateTupleWithSchema(tuple_ *tuple.Tuple, update_col_idxs []int, schema_ *schema.Schema, rid page.RID, txn *concurrency.Transaction) (bool, *page.RID) {
	if err := t.lockManager.LockTable(txn, concurrency.INTENTION_EXCLUSIVE, t.oid); err != nil {
		return false, nil
	}

	page_ := CastPageAsTablePage(t.bpm.FetchPage(rid.GetPageId()))
	if page_ == nil {
		txn.SetState(concurrency.ABORTED)
		return false, nil
	}

	old_tuple := new(tuple.Tuple)
	old_tuple.SetRID(new(page.RID))

	page_.WLatch()
	is_updated, err, need_follow_tuple := page_.UpdateTuple(tuple_, update_col_idxs, schema_, old_tuple, &rid, t.lockManager, t.oid, txn)
	page_.WUnlatch()
	t.bpm.UnpinPage(page_.GetTablePageId(), is_updated)

	var new_rid *page.RID
	if !is_updated && err == ErrNotEnoughSpace {
		if !t.MarkDelete(&rid, txn) {
			txn.SetState(concurrency.ABORTED)
			return false, nil
		}
		new_rid, err = t.InsertTuple(need_follow_tuple, txn)
		if err != nil {
			txn.SetState(concurrency.ABORTED)
			return false, nil
		}
		is_updated = true
	} else if err != nil {
		txn.SetState(concurrency.ABORTED)
		return false, nil
	}

	if is_updated && txn.GetState() != concurrency.ABORTED {
		txn.AddIntoWriteSet(concurrency.NewWriteRecord(rid, concurrency.UPDATE, old_tuple, t, t.oid))
	}
	return is_updated, new_rid
}

// UpdateTuple implements concurrency.TableHeapLike: a wholesale
// column-agnostic replace of the tuple at rid, the shape Abort needs
// to restore an old tuple value without knowing the table's schema.
func (t *TableHeap) UpdateTuple(newTuple concurrency.TupleLike, rid page.RID, txn *concurrency.Transaction) bool {
	tuple_, ok := newTuple.(*tuple.Tuple)
	if !ok {
		return false
	}
	updated, _ := t.UpdateTupleWithSchema(tuple_, nil, nil, rid, txn)
	return updated
}

func (t *TableHeap) MarkDelete(rid *page.RID, txn *concurrency.Transaction) bool {
	if err := t.lockManager.LockTable(txn, concurrency.INTENTION_EXCLUSIVE, t.oid); err != nil {
		return false
	}
	page_ := CastPageAsTablePage(t.bpm.FetchPage(rid.GetPageId()))
	if page_ == nil {
		txn.SetState(concurrency.ABORTED)
		return false
	}
	page_.WLatch()
	is_marked := page_.MarkDelete(rid, t.lockManager, t.oid, txn)
	page_.WUnlatch()
	t.bpm.UnpinPage(page_.GetTablePageId(), true)
	if is_marked {
		txn.AddIntoWriteSet(concurrency.NewWriteRecord(*rid, concurrency.DELETE, new(tuple.Tuple), t, t.oid))
	}
	return is_marked
}

// ApplyDelete implements concurrency.TableHeapLike: it commits a
// previously-marked delete, or (called from Abort against an INSERT
// write record) undoes an insert by physically removing the row.
func (t *TableHeap) ApplyDelete(rid *page.RID, txn *concurrency.Transaction) {
	page_ := CastPageAsTablePage(t.bpm.FetchPage(rid.GetPageId()))
	if page_ == nil {
		panic("table_heap: couldn't find a page containing that RID")
	}
	page_.WLatch()
	page_.ApplyDelete(rid)
	page_.WUnlatch()
	t.bpm.UnpinPage(page_.GetTablePageId(), true)
}

// RollbackDelete implements concurrency.TableHeapLike: it undoes a
// MarkDelete that was never applied.
func (t *TableHeap) RollbackDelete(rid *page.RID, txn *concurrency.Transaction) {
	page_ := CastPageAsTablePage(t.bpm.FetchPage(rid.GetPageId()))
	if page_ == nil {
		panic("table_heap: couldn't find a page containing that RID")
	}
	page_.WLatch()
	page_.RollbackDelete(rid)
	page_.WUnlatch()
	t.bpm.UnpinPage(page_.GetTablePageId(), true)
}

// GetTuple reads a tuple from the table, implementing
// concurrency.TableHeapLike's TupleLike-returning signature.
func (t *TableHeap) GetTuple(rid *page.RID, txn *concurrency.Transaction) concurrency.TupleLike {
	tup := t.GetTupleTyped(rid, txn)
	if tup == nil {
		return nil
	}
	return tup
}

// GetTupleTyped is GetTuple with the concrete *tuple.Tuple return type
// executors want, avoiding a type assertion at every call site.
func (t *TableHeap) GetTupleTyped(rid *page.RID, txn *concurrency.Transaction) *tuple.Tuple {
	page_ := CastPageAsTablePage(t.bpm.FetchPage(rid.GetPageId()))
	if page_ == nil {
		return nil
	}
	defer t.bpm.UnpinPage(page_.GetTablePageId(), false)
	page_.RLatch()
	defer page_.RUnlatch()
	return page_.GetTuple(rid, t.lockManager, t.oid, txn)
}

// GetFirstTuple reads the first tuple from the table.
func (t *TableHeap) GetFirstTuple(txn *concurrency.Transaction) *tuple.Tuple {
	var rid *page.RID
	pageId := t.firstPageId
	for pageId.IsValid() {
		page_ := CastPageAsTablePage(t.bpm.FetchPage(pageId))
		page_.RLatch()
		rid = page_.GetTupleFirstRID()
		nextPageId := page_.GetNextPageId()
		t.bpm.UnpinPage(pageId, false)
		if rid != nil {
			page_.RUnlatch()
			break
		}
		page_.RUnlatch()
		pageId = nextPageId
	}
	if rid == nil {
		return nil
	}
	return t.GetTupleTyped(rid, txn)
}

// Iterator returns an iterator for this table heap, taking an
// intention-shared table lock first per the seq-scan lock contract.
func (t *TableHeap) Iterator(txn *concurrency.Transaction) *TableHeapIterator {
	t.lockManager.LockTable(txn, concurrency.INTENTION_SHARED, t.oid)
	return NewTableHeapIterator(t, txn)
}
