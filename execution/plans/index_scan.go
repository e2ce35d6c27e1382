package plans

import (
	"github.com/gopherdb/txcore/storage/index"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/types"
)

// IndexScanPlanNode looks a single key up through an index rather than
// walking the whole table. searchKey nil means an unbounded scan from
// the index's first entry (used to drive a sorted iteration instead of
// a point lookup).
type IndexScanPlanNode struct {
	*AbstractPlanNode
	tableOID  uint32
	tableName string
	index     index.Index
	searchKey *types.Value
}

func NewIndexScanPlanNode(outputSchema *schema.Schema, tableOID uint32, tableName string, idx index.Index, searchKey *types.Value) *IndexScanPlanNode {
	return &IndexScanPlanNode{&AbstractPlanNode{outputSchema, nil}, tableOID, tableName, idx, searchKey}
}

func (p *IndexScanPlanNode) GetType() PlanType { return IndexScan }

func (p *IndexScanPlanNode) GetTableOID() uint32 { return p.tableOID }

func (p *IndexScanPlanNode) GetTableName() string { return p.tableName }

func (p *IndexScanPlanNode) GetIndex() index.Index { return p.index }

func (p *IndexScanPlanNode) GetSearchKey() *types.Value { return p.searchKey }

func (p *IndexScanPlanNode) CloneWithChildren(_ []Plan) Plan { return p }
