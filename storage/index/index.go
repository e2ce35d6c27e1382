// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package index

import (
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/storage/table/schema"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

// IndexMetadata holds what the catalog needs to know about an index
// without exposing its implementation: its key schema (copies of the
// key columns of the table's schema), and which of the table's columns
// make up the key.
type IndexMetadata struct {
	name        string
	tableName   string
	keyAttrs    []uint32
	keySchema   *schema.Schema
}

func NewIndexMetadata(indexName, tableName string, tupleSchema *schema.Schema, keyAttrs []uint32) *IndexMetadata {
	return &IndexMetadata{
		name:      indexName,
		tableName: tableName,
		keyAttrs:  keyAttrs,
		keySchema: schema.CopySchema(tupleSchema, keyAttrs),
	}
}

func (im *IndexMetadata) GetName() string             { return im.name }
func (im *IndexMetadata) GetTableName() string         { return im.tableName }
func (im *IndexMetadata) GetKeySchema() *schema.Schema { return im.keySchema }
func (im *IndexMetadata) GetIndexColumnCount() uint32  { return uint32(len(im.keyAttrs)) }
func (im *IndexMetadata) GetKeyAttrs() []uint32        { return im.keyAttrs }

// Index is the base every index type in this package satisfies. The
// key passed to each method is a key tuple laid out per the index's
// key schema (callers build it from a table row with
// tuple.KeyFromTuple); the index does no projection of its own.
type Index interface {
	GetMetadata() *IndexMetadata
	InsertEntry(key *tuple.Tuple, rid page.RID, txn *concurrency.Transaction)
	DeleteEntry(key *tuple.Tuple, rid page.RID, txn *concurrency.Transaction)
	ScanKey(key *tuple.Tuple, txn *concurrency.Transaction) []page.RID
}

// BPlusTreeIndex is the only Index implementation: an ordered index
// over one fixed-width key column, backed by a BPlusTree.
type BPlusTreeIndex struct {
	metadata *IndexMetadata
	tree     *BPlusTree
}

// NewBPlusTreeIndex builds an index named indexName over tupleSchema's
// column at keyAttrs[0] (multi-column keys are not supported: the
// underlying tree's key type is a single types.Value).
func NewBPlusTreeIndex(indexName, tableName string, tupleSchema *schema.Schema, keyAttrs []uint32, bpm *buffer.BufferPoolManager) *BPlusTreeIndex {
	metadata := NewIndexMetadata(indexName, tableName, tupleSchema, keyAttrs)
	keyType := tupleSchema.GetColumn(keyAttrs[0]).GetType()
	leafMaxSize, internalMaxSize := DefaultFanout(keyType)
	tree := NewBPlusTree(indexName, bpm, keyType, leafMaxSize, internalMaxSize)
	return &BPlusTreeIndex{metadata: metadata, tree: tree}
}

func (idx *BPlusTreeIndex) GetMetadata() *IndexMetadata { return idx.metadata }

func (idx *BPlusTreeIndex) InsertEntry(key *tuple.Tuple, rid page.RID, txn *concurrency.Transaction) {
	idx.tree.Insert(key.GetValue(idx.metadata.keySchema, 0), rid, txn)
}

func (idx *BPlusTreeIndex) DeleteEntry(key *tuple.Tuple, rid page.RID, txn *concurrency.Transaction) {
	idx.tree.Delete(key.GetValue(idx.metadata.keySchema, 0), txn)
}

func (idx *BPlusTreeIndex) ScanKey(key *tuple.Tuple, txn *concurrency.Transaction) []page.RID {
	rid, found := idx.tree.GetValue(key.GetValue(idx.metadata.keySchema, 0), txn)
	if !found {
		return nil
	}
	return []page.RID{rid}
}

// Begin/BeginAt/End expose the underlying tree's range iterator for
// index-scan executors; they are not part of Index because only the
// B+ tree supports ordered range scans.
func (idx *BPlusTreeIndex) Begin() *IndexIterator             { return idx.tree.Begin() }
func (idx *BPlusTreeIndex) BeginAt(key types.Value) *IndexIterator { return idx.tree.BeginAt(key) }
func (idx *BPlusTreeIndex) End() *IndexIterator                { return idx.tree.End() }
