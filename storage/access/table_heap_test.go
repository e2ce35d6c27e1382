// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"testing"
	"time"

	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/disk"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/storage/table/column"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

func TestTableHeap(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(10, dm)
	lockManager := concurrency.NewLockManager(50 * time.Millisecond)
	txnMgr := concurrency.NewTransactionManager(lockManager)
	txn := txnMgr.Begin(nil)

	th := NewTableHeap(bpm, lockManager, 0)

	// this schema creates a tuple of size 10 bytes (each integer is a
	// null flag plus 4 bytes), so a page holds only 226 tuples of it
	columnA := column.NewColumn("a", types.Integer, false)
	columnB := column.NewColumn("b", types.Integer, false)
	schema_ := schema.NewSchema([]*column.Column{columnA, columnB})

	// inserting 1000 tuples needs at least 5 pages
	for i := 0; i < 1000; i++ {
		row := []types.Value{types.NewInteger(int32(i * 2)), types.NewInteger(int32((i + 1) * 2))}
		tuple_ := tuple.NewTupleFromSchema(row, schema_)
		if _, err := th.InsertTuple(tuple_, txn); err != nil {
			t.Fatalf("InsertTuple(%d): %v", i, err)
		}
	}

	bpm.FlushAllPages()

	firstTuple := th.GetFirstTuple(txn)
	if got := firstTuple.GetValue(schema_, 0).ToInteger(); got != 0 {
		t.Fatalf("first tuple column 0: got %d, want 0", got)
	}
	if got := firstTuple.GetValue(schema_, 1).ToInteger(); got != 2 {
		t.Fatalf("first tuple column 1: got %d, want 2", got)
	}

	for i := 0; i < 1000; i++ {
		rid := &page.RID{}
		rid.Set(types.PageID(i/226), uint32(i%226))
		tup := th.GetTupleTyped(rid, txn)
		if got, want := tup.GetValue(schema_, 0).ToInteger(), int32(i*2); got != want {
			t.Fatalf("tuple %d column 0: got %d, want %d", i, got, want)
		}
		if got, want := tup.GetValue(schema_, 1).ToInteger(), int32((i+1)*2); got != want {
			t.Fatalf("tuple %d column 1: got %d, want %d", i, got, want)
		}
	}

	if got, want := dm.Size(), int64(20480); got != want {
		t.Fatalf("disk size: got %d, want %d", got, want)
	}

	it := th.Iterator(txn)
	i := int32(0)
	for tup := it.Current(); !it.End(); tup = it.Next() {
		if got, want := tup.GetValue(schema_, 0).ToInteger(), i*2; got != want {
			t.Fatalf("iterated tuple %d column 0: got %d, want %d", i, got, want)
		}
		if got, want := tup.GetValue(schema_, 1).ToInteger(), (i+1)*2; got != want {
			t.Fatalf("iterated tuple %d column 1: got %d, want %d", i, got, want)
		}
		i++
	}

	txnMgr.Commit(txn)
}
