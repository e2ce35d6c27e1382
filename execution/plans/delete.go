package plans

import (
	"github.com/gopherdb/txcore/execution/expression"
	"github.com/gopherdb/txcore/storage/index"
)

/**
 * DeletePlanNode identifies a table and conditions specify record to be deleted.
 */
type DeletePlanNode struct {
	*AbstractPlanNode
	predicate expression.Expression
	tableOID  uint32
	index     index.Index
}

func NewDeletePlanNode(child Plan, predicate expression.Expression, oid uint32) Plan {
	return &DeletePlanNode{&AbstractPlanNode{nil, []Plan{child}}, predicate, oid, nil}
}

// SetIndex records the index delete must remove entries from; the
// catalog has no per-table index registry, so the caller that builds
// this plan node is responsible for finding it.
func (p *DeletePlanNode) SetIndex(idx index.Index) { p.index = idx }

func (p *DeletePlanNode) GetIndex() index.Index { return p.index }

func (p *DeletePlanNode) GetTableOID() uint32 {
	return p.tableOID
}

func (p *DeletePlanNode) GetPredicate() expression.Expression {
	return p.predicate
}

func (p *DeletePlanNode) GetType() PlanType {
	return Delete
}

func (p *DeletePlanNode) CloneWithChildren(children []Plan) Plan {
	return &DeletePlanNode{&AbstractPlanNode{p.outputSchema, children}, p.predicate, p.tableOID, p.index}
}
