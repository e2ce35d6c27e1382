package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopherdb/txcore/execution/plans"
	"github.com/gopherdb/txcore/storage/table/column"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/types"
)

func TestOptimizeSortLimitAsTopN(t *testing.T) {
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer, false)})
	orderBys := []plans.OrderBySpec{{Type: plans.OrderByAsc, Expr: nil}}

	seqScan := plans.NewSeqScanPlanNode(schema_, nil, 0, "t")
	sortPlan := plans.NewSortPlanNode(schema_, seqScan, orderBys)
	limitPlan := plans.NewLimitPlanNode(sortPlan, 5, 0)

	optimized := NewOptimizer().Optimize(limitPlan)

	topN, ok := optimized.(*plans.TopNPlanNode)
	require.True(t, ok, "Limit over Sort should collapse into TopN")
	assert.Equal(t, uint32(5), topN.GetN())
	assert.Same(t, seqScan, topN.GetChildAt(0))
}

func TestOptimizeLeavesUnrelatedPlansAlone(t *testing.T) {
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer, false)})
	seqScan := plans.NewSeqScanPlanNode(schema_, nil, 0, "t")

	optimized := NewOptimizer().Optimize(seqScan)

	assert.Same(t, seqScan, optimized)
}

func TestOptimizeLimitWithoutSortIsUnchanged(t *testing.T) {
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer, false)})
	seqScan := plans.NewSeqScanPlanNode(schema_, nil, 0, "t")
	limitPlan := plans.NewLimitPlanNode(seqScan, 5, 0)

	optimized := NewOptimizer().Optimize(limitPlan)

	_, isLimit := optimized.(*plans.LimitPlanNode)
	assert.True(t, isLimit)
}
