// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package tuple

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gopherdb/txcore/storage/table/column"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/types"
)

func TestTuple(t *testing.T) {
	columnA := column.NewColumn("a", types.Integer, false)
	columnB := column.NewColumn("b", types.Varchar, false)
	columnC := column.NewColumn("c", types.Integer, false)
	columnD := column.NewColumn("d", types.Varchar, false)
	columnE := column.NewColumn("e", types.Varchar, false)

	schema_ := schema.NewSchema([]*column.Column{columnA, columnB, columnC, columnD, columnE})

	row := make([]types.Value, 0)

	expA, expB, expC, expD, expE := int32(99), "Hello World", int32(100), "áé&@#+\\çç", "blablablablabalbalalabalbalbalablablabalbalaba"
	row = append(row, types.NewInteger(expA))
	row = append(row, types.NewVarchar(expB))
	row = append(row, types.NewInteger(expC))
	row = append(row, types.NewVarchar(expD))
	row = append(row, types.NewVarchar(expE))
	tuple_ := NewTupleFromSchema(row, schema_)

	assert.Equal(t, expA, tuple_.GetValue(schema_, 0).ToInteger())
	assert.Equal(t, expB, tuple_.GetValue(schema_, 1).ToVarchar())
	assert.Equal(t, expC, tuple_.GetValue(schema_, 2).ToInteger())
	assert.Equal(t, expD, tuple_.GetValue(schema_, 3).ToVarchar())
	assert.Equal(t, expE, tuple_.GetValue(schema_, 4).ToVarchar())

	assert.Equal(t, uint32(101), tuple_.Size())
}
