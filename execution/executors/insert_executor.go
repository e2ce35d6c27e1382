package executors

import (
	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
)

// InsertExecutor inserts a fixed list of raw rows into a table, one
// per Next call, maintaining the plan's index (if any) alongside the
// table heap. Row locking for the insert itself happens inside
// TableHeap.InsertTuple; this executor only reacts to the outcome.
type InsertExecutor struct {
	context       *ExecutorContext
	plan          *plans.InsertPlanNode
	tableMetadata *catalog.TableMetadata
	cursor        int
}

func NewInsertExecutor(context *ExecutorContext, plan *plans.InsertPlanNode) Executor {
	tableMetadata := context.GetCatalog().GetTableByOID(plan.GetTableOID())
	return &InsertExecutor{context, plan, tableMetadata, 0}
}

func (e *InsertExecutor) Init() { e.cursor = 0 }

// Next inserts the next raw row and returns it. It reports done once
// every row from the plan has been inserted.
func (e *InsertExecutor) Next() (*tuple.Tuple, Done, error) {
	if e.cursor >= len(e.plan.GetRawValues()) {
		return nil, true, nil
	}

	values := e.plan.GetRawValues()[e.cursor]
	e.cursor++

	newTuple := tuple.NewTupleFromSchema(values, e.tableMetadata.Schema())
	rid, err := e.tableMetadata.Table().InsertTuple(newTuple, e.context.GetTransaction())
	if err != nil {
		e.context.GetTransaction().SetState(concurrency.ABORTED)
		return nil, true, err
	}
	newTuple.SetRID(rid)

	if idx := e.plan.GetIndex(); idx != nil {
		keySchema := idx.GetMetadata().GetKeySchema()
		key := tuple.KeyFromTuple(newTuple, e.tableMetadata.Schema(), keySchema, idx.GetMetadata().GetKeyAttrs())
		idx.InsertEntry(key, *rid, e.context.GetTransaction())
	}

	return newTuple, false, nil
}

func (e *InsertExecutor) GetOutputSchema() *schema.Schema { return e.plan.OutputSchema() }

func (e *InsertExecutor) GetTableMetaData() *catalog.TableMetadata { return e.tableMetadata }
