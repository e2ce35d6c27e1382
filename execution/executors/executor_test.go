// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/execution/expression"
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/disk"
	"github.com/gopherdb/txcore/storage/index"
	"github.com/gopherdb/txcore/storage/table/column"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/types"
)

// newTestEngine wires up a fresh buffer pool, lock manager, transaction
// manager and catalog the way an embedding caller would.
func newTestEngine(t *testing.T) (*ExecutionEngine, *ExecutorContext, *catalog.Catalog, *concurrency.TransactionManager, *concurrency.Transaction) {
	t.Helper()
	diskManager := disk.NewDiskManagerTest()
	t.Cleanup(func() { diskManager.ShutDown() })
	bpm := buffer.NewBufferPoolManager(uint32(32), diskManager)
	lockManager := concurrency.NewLockManager(500 * time.Millisecond)
	txnMgr := concurrency.NewTransactionManager(lockManager)
	txn := txnMgr.Begin(nil)
	c := catalog.BootstrapCatalog(bpm, lockManager, txn)
	ctx := NewExecutorContext(c, bpm, txn, lockManager)
	return &ExecutionEngine{}, ctx, c, txnMgr, txn
}

func equalsPredicate(colIdx uint32, colType types.TypeID, value types.Value) expression.Expression {
	left := expression.NewColumnValue(0, colIdx, colType)
	right := expression.NewConstantValue(value)
	return expression.NewComparisonAsComparison(*left.(*expression.ColumnValue), right, expression.Equal)
}

func TestSimpleInsertAndSeqScan(t *testing.T) {
	engine, ctx, c, txnMgr, txn := newTestEngine(t)

	columnA := column.NewColumn("a", types.Integer, false)
	columnB := column.NewColumn("b", types.Integer, false)
	schema_ := schema.NewSchema([]*column.Column{columnA, columnB})
	tableMetadata := c.CreateTable("test_1", schema_, txn)

	rows := [][]types.Value{
		{types.NewInteger(20), types.NewInteger(22)},
		{types.NewInteger(99), types.NewInteger(55)},
	}
	insertPlan := plans.NewInsertPlanNode(rows, tableMetadata.OID())
	_, err := engine.Execute(insertPlan, ctx)
	require.NoError(t, err)

	outSchema := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer, false)})
	seqPlan := plans.NewSeqScanPlanNode(outSchema, nil, tableMetadata.OID(), "test_1")
	results, err := engine.Execute(seqPlan, ctx)
	require.NoError(t, err)
	txnMgr.Commit(txn)

	require.Len(t, results, 2)
	assert.True(t, types.NewInteger(20).CompareEquals(results[0].GetValue(outSchema, 0)))
	assert.True(t, types.NewInteger(99).CompareEquals(results[1].GetValue(outSchema, 0)))
}

func TestSeqScanWithPredicate(t *testing.T) {
	engine, ctx, c, txnMgr, txn := newTestEngine(t)

	columnA := column.NewColumn("a", types.Integer, false)
	columnB := column.NewColumn("b", types.Integer, false)
	columnC := column.NewColumn("c", types.Varchar, false)
	schema_ := schema.NewSchema([]*column.Column{columnA, columnB, columnC})
	tableMetadata := c.CreateTable("test_2", schema_, txn)

	rows := [][]types.Value{
		{types.NewInteger(20), types.NewInteger(22), types.NewVarchar("foo")},
		{types.NewInteger(99), types.NewInteger(55), types.NewVarchar("bar")},
	}
	insertPlan := plans.NewInsertPlanNode(rows, tableMetadata.OID())
	_, err := engine.Execute(insertPlan, ctx)
	require.NoError(t, err)

	cases := []struct {
		name      string
		predicate expression.Expression
		wantA     int32
	}{
		{"b = 55", equalsPredicate(1, types.Integer, types.NewInteger(55)), 99},
		{"a = 20", equalsPredicate(0, types.Integer, types.NewInteger(20)), 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seqPlan := plans.NewSeqScanPlanNode(schema_, tc.predicate, tableMetadata.OID(), "test_2")
			results, err := engine.Execute(seqPlan, ctx)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tc.wantA, results[0].GetValue(schema_, 0).ToInteger())
		})
	}

	t.Run("a = 1000 matches nothing", func(t *testing.T) {
		seqPlan := plans.NewSeqScanPlanNode(schema_, equalsPredicate(0, types.Integer, types.NewInteger(1000)), tableMetadata.OID(), "test_2")
		results, err := engine.Execute(seqPlan, ctx)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	txnMgr.Commit(txn)
}

func TestDeleteExecutor(t *testing.T) {
	engine, ctx, c, txnMgr, txn := newTestEngine(t)

	columnA := column.NewColumn("a", types.Integer, false)
	schema_ := schema.NewSchema([]*column.Column{columnA})
	tableMetadata := c.CreateTable("test_delete", schema_, txn)

	rows := [][]types.Value{{types.NewInteger(1)}, {types.NewInteger(2)}}
	_, err := engine.Execute(plans.NewInsertPlanNode(rows, tableMetadata.OID()), ctx)
	require.NoError(t, err)

	scanForDelete := plans.NewSeqScanPlanNode(schema_, equalsPredicate(0, types.Integer, types.NewInteger(1)), tableMetadata.OID(), "test_delete")
	deletePlan := plans.NewDeletePlanNode(scanForDelete, nil, tableMetadata.OID())
	_, err = engine.Execute(deletePlan, ctx)
	require.NoError(t, err)

	remaining, err := engine.Execute(plans.NewSeqScanPlanNode(schema_, nil, tableMetadata.OID(), "test_delete"), ctx)
	require.NoError(t, err)
	txnMgr.Commit(txn)

	require.Len(t, remaining, 1)
	assert.Equal(t, int32(2), remaining[0].GetValue(schema_, 0).ToInteger())
}

func TestUpdateExecutor(t *testing.T) {
	engine, ctx, c, txnMgr, txn := newTestEngine(t)

	columnA := column.NewColumn("a", types.Integer, false)
	columnB := column.NewColumn("b", types.Integer, false)
	schema_ := schema.NewSchema([]*column.Column{columnA, columnB})
	tableMetadata := c.CreateTable("test_update", schema_, txn)

	rows := [][]types.Value{{types.NewInteger(1), types.NewInteger(100)}}
	_, err := engine.Execute(plans.NewInsertPlanNode(rows, tableMetadata.OID()), ctx)
	require.NoError(t, err)

	scanForUpdate := plans.NewSeqScanPlanNode(schema_, nil, tableMetadata.OID(), "test_update")
	updatePlan := plans.NewUpdatePlanNode(scanForUpdate, []types.Value{types.NewInteger(1), types.NewInteger(200)}, []int{0, 1}, nil, tableMetadata.OID())
	_, err = engine.Execute(updatePlan, ctx)
	require.NoError(t, err)

	afterUpdate, err := engine.Execute(plans.NewSeqScanPlanNode(schema_, nil, tableMetadata.OID(), "test_update"), ctx)
	require.NoError(t, err)
	txnMgr.Commit(txn)

	require.Len(t, afterUpdate, 1)
	assert.Equal(t, int32(200), afterUpdate[0].GetValue(schema_, 1).ToInteger())
}

func TestSortAndTopN(t *testing.T) {
	engine, ctx, c, txnMgr, txn := newTestEngine(t)

	columnA := column.NewColumn("a", types.Integer, false)
	schema_ := schema.NewSchema([]*column.Column{columnA})
	tableMetadata := c.CreateTable("test_sort", schema_, txn)

	rows := [][]types.Value{
		{types.NewInteger(30)}, {types.NewInteger(10)}, {types.NewInteger(20)},
	}
	_, err := engine.Execute(plans.NewInsertPlanNode(rows, tableMetadata.OID()), ctx)
	require.NoError(t, err)

	seqPlan := plans.NewSeqScanPlanNode(schema_, nil, tableMetadata.OID(), "test_sort")
	orderBys := []plans.OrderBySpec{{Type: plans.OrderByAsc, Expr: expression.NewColumnValue(0, 0, types.Integer)}}
	sortPlan := plans.NewSortPlanNode(schema_, seqPlan, orderBys)
	sorted, err := engine.Execute(sortPlan, ctx)
	require.NoError(t, err)

	topNPlan := plans.NewTopNPlanNode(schema_, plans.NewSeqScanPlanNode(schema_, nil, tableMetadata.OID(), "test_sort"), orderBys, 2)
	top2, err := engine.Execute(topNPlan, ctx)
	require.NoError(t, err)
	txnMgr.Commit(txn)

	require.Len(t, sorted, 3)
	assert.Equal(t, int32(10), sorted[0].GetValue(schema_, 0).ToInteger())
	assert.Equal(t, int32(20), sorted[1].GetValue(schema_, 0).ToInteger())
	assert.Equal(t, int32(30), sorted[2].GetValue(schema_, 0).ToInteger())
	require.Len(t, top2, 2)
	assert.Equal(t, int32(10), top2[0].GetValue(schema_, 0).ToInteger())
	assert.Equal(t, int32(20), top2[1].GetValue(schema_, 0).ToInteger())
}

func TestIndexScanPointLookup(t *testing.T) {
	engine, ctx, c, txnMgr, txn := newTestEngine(t)

	columnA := column.NewColumn("a", types.Integer, true)
	columnB := column.NewColumn("b", types.Integer, false)
	schema_ := schema.NewSchema([]*column.Column{columnA, columnB})
	tableMetadata := c.CreateTable("test_index", schema_, txn)

	rows := [][]types.Value{
		{types.NewInteger(1), types.NewInteger(11)},
		{types.NewInteger(2), types.NewInteger(22)},
	}
	insertPlan := plans.NewInsertPlanNode(rows, tableMetadata.OID())
	bpTreeIndex := index.NewBPlusTreeIndex("a_idx", "test_index", schema_, []uint32{0}, ctx.GetBufferPoolManager())
	insertPlan.(interface{ SetIndex(index.Index) }).SetIndex(bpTreeIndex)
	_, err := engine.Execute(insertPlan, ctx)
	require.NoError(t, err)

	searchKey := types.NewInteger(2)
	indexScanPlan := plans.NewIndexScanPlanNode(schema_, tableMetadata.OID(), "test_index", bpTreeIndex, &searchKey)
	results, err := engine.Execute(indexScanPlan, ctx)
	require.NoError(t, err)
	txnMgr.Commit(txn)

	require.Len(t, results, 1)
	assert.Equal(t, int32(22), results[0].GetValue(schema_, 1).ToInteger())
}
