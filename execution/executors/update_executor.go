package executors

import (
	"errors"

	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
)

// UpdateExecutor pulls tuples from its child, overwrites the columns
// named by the plan's update_col_idxs (or the whole row, if nil) with
// the plan's raw values, and re-keys the index if the update touched a
// key column. IX table and X row locking for the update itself happen
// inside TableHeap.UpdateTupleWithSchema; this executor only reacts to
// the outcome.
type UpdateExecutor struct {
	context *ExecutorContext
	plan    *plans.UpdatePlanNode
	child   Executor
}

func NewUpdateExecutor(context *ExecutorContext, plan *plans.UpdatePlanNode, child Executor) Executor {
	return &UpdateExecutor{context, plan, child}
}

func (e *UpdateExecutor) Init() { e.child.Init() }

func (e *UpdateExecutor) Next() (*tuple.Tuple, Done, error) {
	txn := e.context.GetTransaction()
	oldTuple, done, err := e.child.Next()
	if done {
		return nil, true, err
	}
	if err != nil {
		txn.SetState(concurrency.ABORTED)
		return nil, true, err
	}
	if oldTuple == nil {
		txn.SetState(concurrency.ABORTED)
		return nil, true, errors.New("update executor: child returned no tuple")
	}

	rid := oldTuple.GetRID()
	tableMetadata := e.child.GetTableMetaData()
	newTuple := tuple.NewTupleFromSchema(e.plan.GetRawValues(), tableMetadata.Schema())

	isUpdated, newRid := tableMetadata.Table().UpdateTupleWithSchema(newTuple, e.plan.GetUpdateColIdxs(), tableMetadata.Schema(), *rid, txn)
	if !isUpdated {
		txn.SetState(concurrency.ABORTED)
		return nil, true, errors.New("update executor: tuple update failed")
	}
	if newRid != nil {
		newTuple.SetRID(newRid)
	} else {
		newTuple.SetRID(rid)
	}

	if idx := e.plan.GetIndex(); idx != nil {
		keySchema := idx.GetMetadata().GetKeySchema()
		keyAttrs := idx.GetMetadata().GetKeyAttrs()
		oldKey := tuple.KeyFromTuple(oldTuple, tableMetadata.Schema(), keySchema, keyAttrs)
		newKey := tuple.KeyFromTuple(newTuple, tableMetadata.Schema(), keySchema, keyAttrs)
		idx.DeleteEntry(oldKey, *rid, txn)
		idx.InsertEntry(newKey, *newTuple.GetRID(), txn)
	}

	return newTuple, false, nil
}

func (e *UpdateExecutor) GetOutputSchema() *schema.Schema { return e.plan.OutputSchema() }

func (e *UpdateExecutor) GetTableMetaData() *catalog.TableMetadata { return e.child.GetTableMetaData() }
