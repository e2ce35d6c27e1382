// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package catalog_test

import (
	"testing"
	"time"

	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/disk"
	"github.com/gopherdb/txcore/storage/table/column"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/types"
)

// TestTableCatalogReload checks that a table created against one Catalog
// instance shows up, with its columns intact, when a second Catalog is
// bootstrapped from the same buffer pool's catalog pages.
func TestTableCatalogReload(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	bpm := buffer.NewBufferPoolManager(32, dm)
	lockManager := concurrency.NewLockManager(50 * time.Millisecond)
	txnManager := concurrency.NewTransactionManager(lockManager)

	txn := txnManager.Begin(nil)
	cat := catalog.BootstrapCatalog(bpm, lockManager, txn)

	columnA := column.NewColumn("a", types.Integer, false)
	columnB := column.NewColumn("b", types.Integer, true)
	schema_ := schema.NewSchema([]*column.Column{columnA, columnB})

	cat.CreateTable("test_1", schema_, txn)
	bpm.FlushAllPages()
	txnManager.Commit(txn)

	txnNew := txnManager.Begin(nil)
	catReloaded := catalog.GetCatalog(bpm, lockManager, txnNew)

	created := cat.GetTableByName("test_1")
	reloaded := catReloaded.GetTableByOID(created.OID())
	if reloaded == nil {
		t.Fatalf("reloaded catalog is missing table %q (oid %d)", "test_1", created.OID())
	}

	columnToCheck := reloaded.Schema().GetColumn(1)
	if columnToCheck.GetColumnName() != "b" {
		t.Fatalf("expected column name %q, got %q", "b", columnToCheck.GetColumnName())
	}
	if columnToCheck.GetType() != types.Integer {
		t.Fatalf("expected column type %v, got %v", types.Integer, columnToCheck.GetType())
	}
	if !columnToCheck.HasIndex() {
		t.Fatalf("expected column %q to have has_index set", "b")
	}
}
