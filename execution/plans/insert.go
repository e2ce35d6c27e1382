// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package plans

import (
	"github.com/gopherdb/txcore/storage/index"
	"github.com/gopherdb/txcore/types"
)

/**
 * InsertPlanNode identifies a table that should be inserted into.
 * The values to be inserted are embedded into the InsertPlanNode itself, i.e. a "raw insert";
 * InsertPlanNode has no child plan to take values from.
 */
type InsertPlanNode struct {
	*AbstractPlanNode
	rawValues [][]types.Value
	tableOID  uint32
	index     index.Index
}

// NewInsertPlanNode creates a new insert plan node for inserting raw values
func NewInsertPlanNode(rawValues [][]types.Value, oid uint32) Plan {
	return &InsertPlanNode{&AbstractPlanNode{nil, nil}, rawValues, oid, nil}
}

// SetIndex records the index insert must keep in sync with the table
// heap; the catalog has no per-table index registry, so the caller
// that builds this plan node is responsible for finding it.
func (p *InsertPlanNode) SetIndex(idx index.Index) { p.index = idx }

func (p *InsertPlanNode) GetIndex() index.Index { return p.index }

// GetTableOID returns the identifier of the table that should be inserted into
func (p *InsertPlanNode) GetTableOID() uint32 {
	return p.tableOID
}

// GetRawValues returns the raw values to be inserted
func (p *InsertPlanNode) GetRawValues() [][]types.Value {
	return p.rawValues
}

func (p *InsertPlanNode) GetType() PlanType {
	return Insert
}

func (p *InsertPlanNode) CloneWithChildren(_ []Plan) Plan { return p }

func (p *InsertPlanNode) AccessRowCount() uint64 {
	// TODO: (SDB) [OPT] not implemented yet (InsertPlanNode::AccessRowCount)
	return 0
}
