// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

/**
 * Expression interface is the base of all the expressions in the system.
 * Expressions are modeled as trees, i.e. every expression may have a variable number of children.
 */
type Expression interface {
	Evaluate(*tuple.Tuple, *schema.Schema) types.Value
	// EvaluateAggregate evaluates this expression against an
	// aggregation executor's group-by and aggregate result slices
	// instead of a raw tuple, used by output projections and HAVING
	// clauses sitting above an aggregation.
	EvaluateAggregate(groupBys []*types.Value, aggregates []*types.Value) types.Value
}
