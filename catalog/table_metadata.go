// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package catalog

import (
	"github.com/gopherdb/txcore/storage/access"
	"github.com/gopherdb/txcore/storage/table/schema"
)

// TableMetadata is what the catalog keeps about one table: its schema,
// its name, and the row-storage heap holding its data.
type TableMetadata struct {
	schema *schema.Schema
	name   string
	table  *access.TableHeap
	oid    uint32
}

func (t *TableMetadata) Schema() *schema.Schema { return t.schema }
func (t *TableMetadata) Name() string           { return t.name }
func (t *TableMetadata) OID() uint32            { return t.oid }
func (t *TableMetadata) Table() *access.TableHeap { return t.table }
