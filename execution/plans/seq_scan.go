package plans

import (
	"github.com/gopherdb/txcore/execution/expression"
	"github.com/gopherdb/txcore/storage/table/schema"
)

// SeqScanPlanNode reads every row in a table, applying predicate as an
// on-the-fly filter and projecting into outputSchema.
type SeqScanPlanNode struct {
	*AbstractPlanNode
	tableName string
	tableOID  uint32
	predicate expression.Expression
}

func NewSeqScanPlanNode(outputSchema *schema.Schema, predicate expression.Expression, tableOID uint32, tableName string) *SeqScanPlanNode {
	return &SeqScanPlanNode{&AbstractPlanNode{outputSchema, nil}, tableName, tableOID, predicate}
}

func (p *SeqScanPlanNode) GetType() PlanType { return SeqScan }

func (p *SeqScanPlanNode) GetTableOID() uint32 { return p.tableOID }

func (p *SeqScanPlanNode) GetTableName() string { return p.tableName }

func (p *SeqScanPlanNode) GetPredicate() expression.Expression { return p.predicate }

func (p *SeqScanPlanNode) CloneWithChildren(_ []Plan) Plan { return p }
