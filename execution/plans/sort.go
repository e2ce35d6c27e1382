package plans

import "github.com/gopherdb/txcore/storage/table/schema"

// SortPlanNode sorts its child's entire output by an ordered list of
// OrderBySpec entries, breaking ties by falling through to the next
// entry.
type SortPlanNode struct {
	*AbstractPlanNode
	orderBys []OrderBySpec
}

func NewSortPlanNode(outputSchema *schema.Schema, child Plan, orderBys []OrderBySpec) *SortPlanNode {
	return &SortPlanNode{&AbstractPlanNode{outputSchema, []Plan{child}}, orderBys}
}

func (p *SortPlanNode) GetType() PlanType { return Sort }

func (p *SortPlanNode) GetOrderBy() []OrderBySpec { return p.orderBys }

func (p *SortPlanNode) CloneWithChildren(children []Plan) Plan {
	return &SortPlanNode{&AbstractPlanNode{p.outputSchema, children}, p.orderBys}
}
