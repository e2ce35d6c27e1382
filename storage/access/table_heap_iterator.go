// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/tuple"
)

// TableHeapIterator is the access method for table heaps.
//
// It iterates through a table heap when Next is called. The tuple it
// is currently pointed to can be read with Current.
type TableHeapIterator struct {
	tableHeap *TableHeap
	tuple     *tuple.Tuple
	txn       *concurrency.Transaction
}

// NewTableHeapIterator creates a new table heap iterator for the given
// table heap, pointed at its first tuple.
func NewTableHeapIterator(tableHeap *TableHeap, txn *concurrency.Transaction) *TableHeapIterator {
	return &TableHeapIterator{tableHeap, tableHeap.GetFirstTuple(txn), txn}
}

// Current points to the current tuple.
func (it *TableHeapIterator) Current() *tuple.Tuple {
	return it.tuple
}

// End checks if the iterator is at the end.
func (it *TableHeapIterator) End() bool {
	return it.Current() == nil
}

// Next advances the iterator, trying to find the next tuple. The next
// tuple can be inside the same page as the current tuple, or in a
// later page in the chain.
func (it *TableHeapIterator) Next() *tuple.Tuple {
	bpm := it.tableHeap.bpm
	currentPage := CastPageAsTablePage(bpm.FetchPage(it.Current().GetRID().GetPageId()))
	currentPage.RLatch()

	nextTupleRID := currentPage.GetNextTupleRID(it.Current().GetRID(), false)
	if nextTupleRID == nil {
		// INVARIANT: currentPage is always RLatched and pinned after
		// this loop, whether or not it advanced.
		for currentPage.GetNextPageId().IsValid() {
			nextPage := CastPageAsTablePage(bpm.FetchPage(currentPage.GetNextPageId()))
			nextPage.RLatch()
			currentPage.RUnlatch()
			bpm.UnpinPage(currentPage.GetTablePageId(), false)
			currentPage = nextPage
			nextTupleRID = currentPage.GetNextTupleRID(it.Current().GetRID(), true)
			if nextTupleRID != nil {
				break
			}
		}
	}

	if nextTupleRID != nil && nextTupleRID.GetPageId().IsValid() {
		it.tuple = currentPage.GetTuple(nextTupleRID, it.tableHeap.lockManager, it.tableHeap.oid, it.txn)
	} else {
		it.tuple = nil
	}

	currentPage.RUnlatch()
	bpm.UnpinPage(currentPage.GetTablePageId(), false)
	return it.tuple
}
