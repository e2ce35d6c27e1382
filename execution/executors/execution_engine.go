package executors

import (
	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/tuple"
)

// ExecutionEngine drives a plan tree to completion, building the
// executor for each node bottom-up and pulling every tuple out of the
// root.
type ExecutionEngine struct{}

// Execute runs plan to completion under context and returns every
// tuple it produced. It stops early and returns the error the moment
// any executor in the tree reports one.
func (e *ExecutionEngine) Execute(plan plans.Plan, context *ExecutorContext) ([]*tuple.Tuple, error) {
	executor := e.createExecutor(plan, context)
	if executor == nil {
		return nil, nil
	}
	executor.Init()

	tuples := make([]*tuple.Tuple, 0)
	for {
		t, done, err := executor.Next()
		if err != nil {
			return tuples, err
		}
		if done {
			return tuples, nil
		}
		if t != nil {
			tuples = append(tuples, t)
		}
	}
}

func (e *ExecutionEngine) createExecutor(plan plans.Plan, context *ExecutorContext) Executor {
	switch p := plan.(type) {
	case *plans.SeqScanPlanNode:
		return NewSeqScanExecutor(context, p)
	case *plans.IndexScanPlanNode:
		return NewIndexScanExecutor(context, p)
	case *plans.InsertPlanNode:
		return NewInsertExecutor(context, p)
	case *plans.DeletePlanNode:
		return NewDeleteExecutor(context, p, e.createExecutor(p.GetChildAt(0), context))
	case *plans.UpdatePlanNode:
		return NewUpdateExecutor(context, p, e.createExecutor(p.GetChildAt(0), context))
	case *plans.SortPlanNode:
		return NewSortExecutor(context, p, e.createExecutor(p.GetChildAt(0), context))
	case *plans.TopNPlanNode:
		return NewTopNExecutor(context, p, e.createExecutor(p.GetChildAt(0), context))
	case *plans.AggregationPlanNode:
		return NewAggregationExecutor(context, p, e.createExecutor(p.GetChildAt(0), context))
	case *plans.NestedLoopJoinPlanNode:
		return NewNestedLoopJoinExecutor(context, p, e.createExecutor(p.GetChildAt(0), context), e.createExecutor(p.GetChildAt(1), context))
	}
	return nil
}
