package executors

import (
	"errors"

	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
)

// DeleteExecutor pulls tuples from its child (typically a seq scan or
// index scan already applying the delete predicate) and marks each one
// deleted. The delete only takes effect at commit, so index entries
// are removed here rather than deferred: a reader that looks the row
// up by index between now and commit should not find it. IX table and
// X row locking for the delete itself happen inside TableHeap.MarkDelete;
// this executor only reacts to the outcome.
type DeleteExecutor struct {
	context *ExecutorContext
	plan    *plans.DeletePlanNode
	child   Executor
}

func NewDeleteExecutor(context *ExecutorContext, plan *plans.DeletePlanNode, child Executor) Executor {
	return &DeleteExecutor{context, plan, child}
}

func (e *DeleteExecutor) Init() { e.child.Init() }

func (e *DeleteExecutor) Next() (*tuple.Tuple, Done, error) {
	txn := e.context.GetTransaction()
	t, done, err := e.child.Next()
	if done {
		return nil, true, err
	}
	if err != nil {
		txn.SetState(concurrency.ABORTED)
		return nil, true, err
	}
	if t == nil {
		txn.SetState(concurrency.ABORTED)
		return nil, true, errors.New("delete executor: child returned no tuple")
	}

	rid := t.GetRID()
	tableMetadata := e.child.GetTableMetaData()
	if !tableMetadata.Table().MarkDelete(rid, txn) {
		txn.SetState(concurrency.ABORTED)
		return nil, true, errors.New("delete executor: marking tuple deleted failed")
	}

	if idx := e.plan.GetIndex(); idx != nil {
		keySchema := idx.GetMetadata().GetKeySchema()
		key := tuple.KeyFromTuple(t, tableMetadata.Schema(), keySchema, idx.GetMetadata().GetKeyAttrs())
		idx.DeleteEntry(key, *rid, txn)
	}

	return t, false, nil
}

func (e *DeleteExecutor) GetOutputSchema() *schema.Schema { return e.plan.OutputSchema() }

func (e *DeleteExecutor) GetTableMetaData() *catalog.TableMetadata { return e.child.GetTableMetaData() }
