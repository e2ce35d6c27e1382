// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/access"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

// SeqScanExecutor walks a table heap end to end, applying the plan's
// predicate as an on-the-fly filter and projecting into the output
// schema. Unless the isolation level is READ_UNCOMMITTED, an IS table
// lock is held for the scan's duration (not requested when the
// transaction already holds IS or IX on the table) and an S lock is
// taken on each row before it is read; under READ_UNCOMMITTED the scan
// takes no lock. Under READ_COMMITTED every row the scan locked
// (matched or not) is released at end-of-scan alongside the table
// lock.
type SeqScanExecutor struct {
	context       *ExecutorContext
	plan          *plans.SeqScanPlanNode
	tableMetadata *catalog.TableMetadata
	it            *access.TableHeapIterator
	lockedRows    []page.RID
}

func NewSeqScanExecutor(context *ExecutorContext, plan *plans.SeqScanPlanNode) Executor {
	tableMetadata := context.GetCatalog().GetTableByOID(plan.GetTableOID())
	return &SeqScanExecutor{context, plan, tableMetadata, nil, nil}
}

func (e *SeqScanExecutor) Init() {
	txn := e.context.GetTransaction()
	e.acquireTableLock(txn)
	e.it = access.NewTableHeapIterator(e.tableMetadata.Table(), txn)
}

func (e *SeqScanExecutor) acquireTableLock(txn *concurrency.Transaction) {
	if txn.GetIsolationLevel() == concurrency.READ_UNCOMMITTED {
		return
	}
	if txn.IsTableIntentionSharedLocked(e.tableMetadata.OID()) || txn.IsTableIntentionExclusiveLocked(e.tableMetadata.OID()) {
		return
	}
	e.context.GetLockManager().LockTable(txn, concurrency.INTENTION_SHARED, e.tableMetadata.OID())
}

// Next scans forward until it finds a row that satisfies the
// predicate, or the table is exhausted.
func (e *SeqScanExecutor) Next() (*tuple.Tuple, Done, error) {
	txn := e.context.GetTransaction()
	for !e.it.End() {
		rid := *e.it.Current().GetRID()

		if txn.GetIsolationLevel() != concurrency.READ_UNCOMMITTED {
			if err := e.context.GetLockManager().LockRow(txn, concurrency.SHARED, e.tableMetadata.OID(), rid); err != nil {
				txn.SetState(concurrency.ABORTED)
				return nil, true, err
			}
		}

		t := e.it.Current()
		matched := e.selects(t)

		e.it.Next()

		if txn.GetIsolationLevel() == concurrency.READ_COMMITTED {
			e.lockedRows = append(e.lockedRows, rid)
		}
		if matched {
			return e.projects(t), false, nil
		}
	}

	e.releaseAtEndOfScan(txn)

	return nil, true, nil
}

// releaseAtEndOfScan drops every row lock the scan is still holding
// (every row it locked, under READ_COMMITTED) along with the table lock,
// mirroring original_source/src/execution/seq_scan_executor.cpp's
// rvec_ unlock loop at end-of-scan.
func (e *SeqScanExecutor) releaseAtEndOfScan(txn *concurrency.Transaction) {
	if txn.GetIsolationLevel() != concurrency.READ_COMMITTED {
		return
	}
	for _, rid := range e.lockedRows {
		e.context.GetLockManager().UnlockRow(txn, e.tableMetadata.OID(), rid)
	}
	e.lockedRows = nil
	e.context.GetLockManager().UnlockTable(txn, e.tableMetadata.OID())
}

func (e *SeqScanExecutor) selects(t *tuple.Tuple) bool {
	predicate := e.plan.GetPredicate()
	return predicate == nil || predicate.Evaluate(t, e.tableMetadata.Schema()).ToBoolean()
}

// projects transforms t into a new tuple that matches the output
// schema, dropping any column the scan doesn't need to return.
func (e *SeqScanExecutor) projects(t *tuple.Tuple) *tuple.Tuple {
	outputSchema := e.plan.OutputSchema()
	if outputSchema == nil {
		return t
	}

	values := make([]types.Value, outputSchema.GetColumnCount())
	for i := uint32(0); i < outputSchema.GetColumnCount(); i++ {
		colIndex := e.tableMetadata.Schema().GetColIndex(outputSchema.GetColumns()[i].GetColumnName())
		values[i] = t.GetValue(e.tableMetadata.Schema(), colIndex)
	}

	projected := tuple.NewTupleFromSchema(values, outputSchema)
	projected.SetRID(t.GetRID())
	return projected
}

func (e *SeqScanExecutor) GetOutputSchema() *schema.Schema {
	if e.plan.OutputSchema() != nil {
		return e.plan.OutputSchema()
	}
	return e.tableMetadata.Schema()
}

func (e *SeqScanExecutor) GetTableMetaData() *catalog.TableMetadata { return e.tableMetadata }
