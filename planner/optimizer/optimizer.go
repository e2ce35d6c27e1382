package optimizer

import (
	stack "github.com/golang-collections/collections/stack"

	"github.com/gopherdb/txcore/execution/plans"
)

// Optimizer rewrites a hand-built plan tree before execution. There is
// exactly one rule: a Limit sitting directly above a Sort collapses
// into a single TopN, which never has to hold the full sorted input in
// memory.
type Optimizer struct{}

func NewOptimizer() *Optimizer { return &Optimizer{} }

// Optimize walks plan bottom-up, rewriting every Sort directly under a
// Limit into a TopN, and returns the resulting tree.
func (o *Optimizer) Optimize(plan plans.Plan) plans.Plan {
	return optimizeSortLimitAsTopN(plan)
}

// optimizeSortLimitAsTopN rebuilds the plan tree bottom-up, folding
// every Limit directly above a Sort into a single TopN. The tree is
// walked with two explicit stacks instead of recursion: push root onto
// visit, and every time a node
// comes off visit push it onto order and push its children onto
// visit. Draining order afterward yields the nodes in postorder, so a
// parent is only ever rewritten once every child underneath it
// already has its rewritten replacement recorded in rewritten.
//
// Grounded on original_source/src/optimizer/sort_limit_as_topn.cpp for
// the rewrite rule itself.
func optimizeSortLimitAsTopN(root plans.Plan) plans.Plan {
	visit := stack.New()
	order := stack.New()
	visit.Push(root)
	for visit.Len() > 0 {
		node := visit.Pop().(plans.Plan)
		order.Push(node)
		for _, child := range node.GetChildren() {
			visit.Push(child)
		}
	}

	rewritten := make(map[plans.Plan]plans.Plan, order.Len())
	for order.Len() > 0 {
		node := order.Pop().(plans.Plan)
		children := node.GetChildren()
		newChildren := make([]plans.Plan, len(children))
		for i, child := range children {
			newChildren[i] = rewritten[child]
		}
		rewritten[node] = foldSortLimit(node.CloneWithChildren(newChildren))
	}
	return rewritten[root]
}

// foldSortLimit collapses optimized into a TopN if it is a Limit
// directly above a Sort, otherwise returns it unchanged.
func foldSortLimit(optimized plans.Plan) plans.Plan {
	limitPlan, ok := optimized.(*plans.LimitPlanNode)
	if !ok {
		return optimized
	}
	sortPlan, ok := limitPlan.GetChildAt(0).(*plans.SortPlanNode)
	if !ok {
		return optimized
	}
	return plans.NewTopNPlanNode(optimized.OutputSchema(), sortPlan.GetChildAt(0), sortPlan.GetOrderBy(), limitPlan.GetLimit())
}
