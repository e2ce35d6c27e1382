// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

type ConstantValue struct {
	value types.Value
}

func NewConstantValue(value types.Value) Expression {
	return &ConstantValue{value}
}

func (c *ConstantValue) Evaluate(_ *tuple.Tuple, _ *schema.Schema) types.Value {
	return c.value
}

func (c *ConstantValue) EvaluateAggregate(_ []*types.Value, _ []*types.Value) types.Value {
	return c.value
}
