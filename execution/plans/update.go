package plans

import (
	"github.com/gopherdb/txcore/execution/expression"
	"github.com/gopherdb/txcore/storage/index"
	"github.com/gopherdb/txcore/types"
)

/**
 * UpdatePlanNode identifies a table and conditions specify record to be updated.
 */
type UpdatePlanNode struct {
	*AbstractPlanNode
	rawValues       []types.Value
	update_col_idxs []int
	predicate       expression.Expression
	tableOID        uint32
	index           index.Index
}

func NewUpdatePlanNode(child Plan, rawValues []types.Value, update_col_idxs []int, predicate expression.Expression, oid uint32) Plan {
	return &UpdatePlanNode{&AbstractPlanNode{nil, []Plan{child}}, rawValues, update_col_idxs, predicate, oid, nil}
}

// SetIndex records the index update must keep in sync with the table
// heap; the catalog has no per-table index registry, so the caller
// that builds this plan node is responsible for finding it.
func (p *UpdatePlanNode) SetIndex(idx index.Index) { p.index = idx }

func (p *UpdatePlanNode) GetIndex() index.Index { return p.index }

func (p *UpdatePlanNode) GetTableOID() uint32 {
	return p.tableOID
}

func (p *UpdatePlanNode) GetPredicate() expression.Expression {
	return p.predicate
}

func (p *UpdatePlanNode) GetType() PlanType {
	return Update
}

// GetRawValues returns the raw values to be overwrite data
func (p *UpdatePlanNode) GetRawValues() []types.Value {
	return p.rawValues
}

func (p *UpdatePlanNode) GetUpdateColIdxs() []int {
	return p.update_col_idxs
}

func (p *UpdatePlanNode) CloneWithChildren(children []Plan) Plan {
	return &UpdatePlanNode{&AbstractPlanNode{p.outputSchema, children}, p.rawValues, p.update_col_idxs, p.predicate, p.tableOID, p.index}
}
