package plans

import (
	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/execution/expression"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/types"
)

// AggregationType enumerates the aggregation functions this executor
// supports.
type AggregationType int32

const (
	COUNT_AGGREGATE AggregationType = iota
	SUM_AGGREGATE
	MIN_AGGREGATE
	MAX_AGGREGATE
)

// AggregateKey is the group-by tuple a row hashes to: the evaluated
// value of each GROUP BY expression, in order.
type AggregateKey struct {
	Group_bys_ []*types.Value
}

// CompareEquals reports whether two aggregate keys have equivalent
// group-by values.
func (key AggregateKey) CompareEquals(other AggregateKey) bool {
	if len(key.Group_bys_) != len(other.Group_bys_) {
		return false
	}
	for i := range key.Group_bys_ {
		if !key.Group_bys_[i].CompareEquals(*other.Group_bys_[i]) {
			return false
		}
	}
	return true
}

// AggregateValue is the running per-group result of every aggregate
// expression, in the same order as AggregationPlanNode.GetAggregates.
type AggregateValue struct {
	Aggregates_ []*types.Value
}

// AggregationPlanNode represents the various SQL aggregation
// functions: COUNT(), SUM(), MIN() and MAX(), computed grouped by an
// arbitrary list of expressions and optionally filtered by a HAVING
// clause. AggregationPlanNode always has exactly one child.
type AggregationPlanNode struct {
	*AbstractPlanNode
	having      expression.Expression
	groupBys    []expression.Expression
	aggregates  []expression.Expression
	aggTypes    []AggregationType
	outputExprs []expression.Expression
}

// NewAggregationPlanNode builds an aggregation over child. outputExprs
// has one entry per outputSchema column: an
// expression.AggregateValueExpression pointing at either a group-by or
// an aggregate slot, in the order Next() should read them back out of
// the running AggregateKey/AggregateValue for each group.
func NewAggregationPlanNode(outputSchema *schema.Schema, child Plan, having expression.Expression,
	groupBys []expression.Expression, aggregates []expression.Expression, aggTypes []AggregationType,
	outputExprs []expression.Expression) *AggregationPlanNode {
	return &AggregationPlanNode{&AbstractPlanNode{outputSchema, []Plan{child}}, having, groupBys, aggregates, aggTypes, outputExprs}
}

func (p *AggregationPlanNode) GetType() PlanType { return Aggregation }

// GetChildPlan returns the child of this aggregation plan node.
func (p *AggregationPlanNode) GetChildPlan() Plan {
	common.SH_Assert(len(p.GetChildren()) == 1, "Aggregation expected to only have one child.")
	return p.GetChildAt(0)
}

func (p *AggregationPlanNode) GetHaving() expression.Expression { return p.having }

func (p *AggregationPlanNode) GetGroupByAt(idx uint32) expression.Expression { return p.groupBys[idx] }

func (p *AggregationPlanNode) GetGroupBys() []expression.Expression { return p.groupBys }

func (p *AggregationPlanNode) GetAggregateAt(idx uint32) expression.Expression { return p.aggregates[idx] }

func (p *AggregationPlanNode) GetAggregates() []expression.Expression { return p.aggregates }

func (p *AggregationPlanNode) GetAggregateTypes() []AggregationType { return p.aggTypes }

func (p *AggregationPlanNode) GetOutputExprs() []expression.Expression { return p.outputExprs }

func (p *AggregationPlanNode) CloneWithChildren(children []Plan) Plan {
	return &AggregationPlanNode{&AbstractPlanNode{p.outputSchema, children}, p.having, p.groupBys, p.aggregates, p.aggTypes, p.outputExprs}
}
