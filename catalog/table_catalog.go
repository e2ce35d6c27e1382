// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package catalog

import (
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/access"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/table/column"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

// TableCatalogPageId indicates the page where the table catalog can be found
// The first page is reserved for the table catalog
const TableCatalogPageId = 0

// ColumnsCatalogPageId indicates the page where the columns catalog can be found
// The second page is reserved for the columns catalog
const ColumnsCatalogPageId = 1

const TableCatalogOID = 1
const ColumnsCatalogOID = 0

// Catalog is the catalog the executor uses. It handles table creation and
// table lookup, keeping metadata in memory and also recording it in the
// table and columns catalog heaps, from which GetCatalog rebuilds it.
type Catalog struct {
	bpm         *buffer.BufferPoolManager
	tableIds    map[uint32]*TableMetadata
	tableNames  map[string]*TableMetadata
	nextTableId uint32
	tableHeap   *access.TableHeap
	LockManager *concurrency.LockManager
}

// BootstrapCatalog bootstraps the system catalogs on the first database
// initialization.
func BootstrapCatalog(bpm *buffer.BufferPoolManager, lockManager *concurrency.LockManager, txn *concurrency.Transaction) *Catalog {
	tableCatalogHeap := access.NewTableHeap(bpm, lockManager, TableCatalogOID)
	tableCatalog := &Catalog{bpm, make(map[uint32]*TableMetadata), make(map[string]*TableMetadata), 0, tableCatalogHeap, lockManager}
	tableCatalog.CreateTable("columns_catalog", ColumnsCatalogSchema(), txn)
	return tableCatalog
}

// GetCatalog reads all table and column metadata from disk into memory.
func GetCatalog(bpm *buffer.BufferPoolManager, lockManager *concurrency.LockManager, txn *concurrency.Transaction) *Catalog {
	tableCatalogHeapIt := access.InitTableHeap(bpm, TableCatalogPageId, lockManager, TableCatalogOID).Iterator(txn)

	tableIds := make(map[uint32]*TableMetadata)
	tableNames := make(map[string]*TableMetadata)

	for tup := tableCatalogHeapIt.Current(); !tableCatalogHeapIt.End(); tup = tableCatalogHeapIt.Next() {
		oid := tup.GetValue(TableCatalogSchema(), TableCatalogSchema().GetColIndex("oid")).ToInteger()
		name := tup.GetValue(TableCatalogSchema(), TableCatalogSchema().GetColIndex("name")).ToVarchar()
		firstPage := tup.GetValue(TableCatalogSchema(), TableCatalogSchema().GetColIndex("first_page")).ToInteger()

		columns := []*column.Column{}
		columnsCatalogHeapIt := access.InitTableHeap(bpm, ColumnsCatalogPageId, lockManager, ColumnsCatalogOID).Iterator(txn)
		for ctup := columnsCatalogHeapIt.Current(); !columnsCatalogHeapIt.End(); ctup = columnsCatalogHeapIt.Next() {
			tableOid := ctup.GetValue(ColumnsCatalogSchema(), ColumnsCatalogSchema().GetColIndex("table_oid")).ToInteger()
			if tableOid != oid {
				continue
			}
			columnType := ctup.GetValue(ColumnsCatalogSchema(), ColumnsCatalogSchema().GetColIndex("type")).ToInteger()
			columnName := ctup.GetValue(ColumnsCatalogSchema(), ColumnsCatalogSchema().GetColIndex("name")).ToVarchar()
			hasIndex := ctup.GetValue(ColumnsCatalogSchema(), ColumnsCatalogSchema().GetColIndex("has_index")).ToInteger()

			columns = append(columns, column.NewColumn(columnName, types.TypeID(columnType), hasIndex != 0))
		}

		tableMetadata := &TableMetadata{
			schema.NewSchema(columns),
			name,
			access.InitTableHeap(bpm, types.PageID(firstPage), lockManager, uint32(oid)),
			uint32(oid)}

		tableIds[uint32(oid)] = tableMetadata
		tableNames[name] = tableMetadata
	}

	return &Catalog{bpm, tableIds, tableNames, uint32(len(tableIds)) + 1, access.InitTableHeap(bpm, TableCatalogPageId, lockManager, TableCatalogOID), lockManager}
}

func (c *Catalog) GetTableByName(name string) *TableMetadata {
	if t, ok := c.tableNames[name]; ok {
		return t
	}
	return nil
}

func (c *Catalog) GetTableByOID(oid uint32) *TableMetadata {
	if t, ok := c.tableIds[oid]; ok {
		return t
	}
	return nil
}

// CreateTable creates a new table and returns its metadata.
func (c *Catalog) CreateTable(name string, schema_ *schema.Schema, txn *concurrency.Transaction) *TableMetadata {
	oid := c.nextTableId
	c.nextTableId++

	tableHeap := access.NewTableHeap(c.bpm, c.LockManager, oid)
	tableMetadata := &TableMetadata{schema_, name, tableHeap, oid}

	c.tableIds[oid] = tableMetadata
	c.tableNames[name] = tableMetadata
	c.InsertTable(tableMetadata, txn)

	return tableMetadata
}

// InsertTable records tableMetadata's row and column definitions into
// the table catalog and columns catalog heaps.
func (c *Catalog) InsertTable(tableMetadata *TableMetadata, txn *concurrency.Transaction) {
	row := make([]types.Value, 0)
	row = append(row, types.NewInteger(int32(tableMetadata.oid)))
	row = append(row, types.NewVarchar(tableMetadata.name))
	row = append(row, types.NewInteger(int32(tableMetadata.table.GetFirstPageId())))
	firstTuple := tuple.NewTupleFromSchema(row, TableCatalogSchema())

	c.tableHeap.InsertTuple(firstTuple, txn)
	for _, col := range tableMetadata.schema.GetColumns() {
		row := make([]types.Value, 0)
		row = append(row, types.NewInteger(int32(tableMetadata.oid)))
		row = append(row, types.NewInteger(int32(col.GetType())))
		row = append(row, types.NewVarchar(col.GetColumnName()))
		row = append(row, types.NewInteger(int32(col.FixedLength())))
		row = append(row, types.NewInteger(int32(col.VariableLength())))
		row = append(row, types.NewInteger(int32(col.GetOffset())))
		hasIndex := int32(0)
		if col.HasIndex() {
			hasIndex = 1
		}
		row = append(row, types.NewInteger(hasIndex))
		newTuple := tuple.NewTupleFromSchema(row, ColumnsCatalogSchema())

		c.tableIds[ColumnsCatalogOID].Table().InsertTuple(newTuple, txn)
	}
}
