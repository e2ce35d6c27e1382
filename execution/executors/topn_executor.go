package executors

import (
	"container/heap"
	"sort"

	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
)

// TopNExecutor is Sort truncated to its first n rows, without ever
// holding the full input sorted: it keeps a bounded max-heap of the n
// best rows seen so far, evicting the worst one whenever a new row
// pushes it over size n.
//
// Grounded on original_source/src/execution/topn_executor.cpp.
type TopNExecutor struct {
	context *ExecutorContext
	plan    *plans.TopNPlanNode
	child   Executor
	result  []*tuple.Tuple
	cursor  int
}

func NewTopNExecutor(context *ExecutorContext, plan *plans.TopNPlanNode, child Executor) Executor {
	return &TopNExecutor{context: context, plan: plan, child: child}
}

// topNHeap is a max-heap over lessByOrderBy: its root is the current
// worst-ranked row, the one to evict first when the heap overflows n.
type topNHeap struct {
	tuples   []*tuple.Tuple
	schema_  *schema.Schema
	orderBys []plans.OrderBySpec
}

func (h *topNHeap) Len() int { return len(h.tuples) }
func (h *topNHeap) Less(i, j int) bool {
	return lessByOrderBy(h.tuples[j], h.tuples[i], h.schema_, h.orderBys)
}
func (h *topNHeap) Swap(i, j int) { h.tuples[i], h.tuples[j] = h.tuples[j], h.tuples[i] }
func (h *topNHeap) Push(x any)    { h.tuples = append(h.tuples, x.(*tuple.Tuple)) }
func (h *topNHeap) Pop() any {
	old := h.tuples
	n := len(old)
	item := old[n-1]
	h.tuples = old[:n-1]
	return item
}

func (e *TopNExecutor) Init() {
	e.child.Init()
	e.cursor = 0

	schema_ := e.child.GetOutputSchema()
	orderBys := e.plan.GetOrderBy()
	h := &topNHeap{schema_: schema_, orderBys: orderBys}

	n := int(e.plan.GetN())
	for t, done, err := e.child.Next(); !done && err == nil; t, done, err = e.child.Next() {
		heap.Push(h, t)
		if h.Len() > n {
			heap.Pop(h)
		}
	}

	e.result = h.tuples
	sort.SliceStable(e.result, func(i, j int) bool {
		return lessByOrderBy(e.result[i], e.result[j], schema_, orderBys)
	})
}

func (e *TopNExecutor) Next() (*tuple.Tuple, Done, error) {
	if e.cursor >= len(e.result) {
		return nil, true, nil
	}
	t := e.result[e.cursor]
	e.cursor++
	return t, false, nil
}

func (e *TopNExecutor) GetOutputSchema() *schema.Schema { return e.plan.OutputSchema() }

func (e *TopNExecutor) GetTableMetaData() *catalog.TableMetadata { return e.child.GetTableMetaData() }
