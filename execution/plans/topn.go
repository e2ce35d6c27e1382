package plans

import "github.com/gopherdb/txcore/storage/table/schema"

// TopNPlanNode is Sort truncated to its first n rows, evaluated
// without ever holding the full input in a sorted list: it maintains a
// bounded heap of size n instead.
type TopNPlanNode struct {
	*AbstractPlanNode
	orderBys []OrderBySpec
	n        uint32
}

func NewTopNPlanNode(outputSchema *schema.Schema, child Plan, orderBys []OrderBySpec, n uint32) *TopNPlanNode {
	return &TopNPlanNode{&AbstractPlanNode{outputSchema, []Plan{child}}, orderBys, n}
}

func (p *TopNPlanNode) GetType() PlanType { return TopN }

func (p *TopNPlanNode) GetOrderBy() []OrderBySpec { return p.orderBys }

func (p *TopNPlanNode) GetN() uint32 { return p.n }

func (p *TopNPlanNode) CloneWithChildren(children []Plan) Plan {
	return &TopNPlanNode{&AbstractPlanNode{p.outputSchema, children}, p.orderBys, p.n}
}
