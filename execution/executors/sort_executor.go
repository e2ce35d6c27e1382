package executors

import (
	"sort"

	"github.com/gopherdb/txcore/catalog"
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
)

// SortExecutor materializes its child's entire output, sorts it in
// memory by the plan's OrderBy list, then pulls one row at a time from
// the sorted slice.
//
// Grounded on original_source/src/execution/sort_executor.cpp.
type SortExecutor struct {
	context *ExecutorContext
	plan    *plans.SortPlanNode
	child   Executor
	sorted  []*tuple.Tuple
	cursor  int
}

func NewSortExecutor(context *ExecutorContext, plan *plans.SortPlanNode, child Executor) Executor {
	return &SortExecutor{context: context, plan: plan, child: child}
}

func (e *SortExecutor) Init() {
	e.child.Init()
	e.sorted = e.sorted[:0]
	e.cursor = 0

	for t, done, err := e.child.Next(); !done && err == nil; t, done, err = e.child.Next() {
		e.sorted = append(e.sorted, t)
	}

	schema_ := e.child.GetOutputSchema()
	orderBys := e.plan.GetOrderBy()
	sort.SliceStable(e.sorted, func(i, j int) bool {
		return lessByOrderBy(e.sorted[i], e.sorted[j], schema_, orderBys)
	})
}

// lessByOrderBy compares a and b by orderBys in order, falling through
// to the next entry on a tie.
func lessByOrderBy(a, b *tuple.Tuple, schema_ *schema.Schema, orderBys []plans.OrderBySpec) bool {
	for _, ob := range orderBys {
		valA := ob.Expr.Evaluate(a, schema_)
		valB := ob.Expr.Evaluate(b, schema_)
		if valA.CompareEquals(valB) {
			continue
		}
		if ob.Type == plans.OrderByDesc {
			return valA.CompareGreaterThan(valB)
		}
		return valA.CompareLessThan(valB)
	}
	return false
}

func (e *SortExecutor) Next() (*tuple.Tuple, Done, error) {
	if e.cursor >= len(e.sorted) {
		return nil, true, nil
	}
	t := e.sorted[e.cursor]
	e.cursor++
	return t, false, nil
}

func (e *SortExecutor) GetOutputSchema() *schema.Schema { return e.plan.OutputSchema() }

func (e *SortExecutor) GetTableMetaData() *catalog.TableMetadata { return e.child.GetTableMetaData() }
