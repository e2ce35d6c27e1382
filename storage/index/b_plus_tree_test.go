package index

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/disk"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

func newTestTree(t *testing.T, leafMaxSize, internalMaxSize uint32) (*BPlusTree, *concurrency.Transaction) {
	t.Helper()
	diskManager := disk.NewDiskManagerTest()
	bpm := buffer.NewBufferPoolManager(uint32(64), diskManager)
	tree := NewBPlusTree("test_idx", bpm, types.Integer, leafMaxSize, internalMaxSize)
	txn := concurrency.NewTransaction(1, concurrency.REPEATABLE_READ)
	return tree, txn
}

func ridFor(key int32) page.RID {
	var rid page.RID
	rid.Set(types.PageID(key), uint32(key))
	return rid
}

// leaf_max=2, internal_max=3: spec.md's own boundary example, and the
// only place spec.md pins a literal fan-out that small.
func TestBPlusTreeSplitsOnSecondInsert(t *testing.T) {
	tree, txn := newTestTree(t, 2, 3)

	require.True(t, tree.Insert(types.NewInteger(1), ridFor(1), txn))
	assert.False(t, tree.IsEmpty())

	rootBefore := tree.getRootPageId()
	require.True(t, tree.Insert(types.NewInteger(2), ridFor(2), txn))
	rootAfter := tree.getRootPageId()

	assert.NotEqual(t, rootBefore, rootAfter, "root should now be a fresh internal page after the split")

	for _, k := range []int32{1, 2} {
		rid, found := tree.GetValue(types.NewInteger(k), txn)
		require.True(t, found)
		assert.Equal(t, ridFor(k), rid)
	}
}

// Continuing the leaf_max=2/internal_max=3 tree, deleting all but one
// key must collapse the root back down to a single leaf.
func TestBPlusTreeCollapsesRootAfterDeletingAllButOne(t *testing.T) {
	tree, txn := newTestTree(t, 2, 3)
	for _, k := range []int32{1, 2, 3, 4} {
		require.True(t, tree.Insert(types.NewInteger(k), ridFor(k), txn))
	}

	tree.Delete(types.NewInteger(1), txn)
	tree.Delete(types.NewInteger(2), txn)
	tree.Delete(types.NewInteger(3), txn)

	rootPageObj, rootNode := tree.fetchNode(tree.getRootPageId())
	defer tree.bpm.UnpinPage(rootPageObj.GetPageId(), false)
	assert.True(t, rootNode.IsLeafPage(), "root should have collapsed to the single surviving leaf")
	assert.True(t, rootNode.IsRootPage())

	rid, found := tree.GetValue(types.NewInteger(4), txn)
	require.True(t, found)
	assert.Equal(t, ridFor(4), rid)

	for _, k := range []int32{1, 2, 3} {
		_, found := tree.GetValue(types.NewInteger(k), txn)
		assert.False(t, found)
	}
}

// spec.md §8 end-to-end scenario (4): leaf_max=4, internal_max=4,
// inserting 1..5 in order leaves a one-key internal root (separator 3)
// over leaves [1,2] and [3,4,5], chained via next_leaf.
func TestBPlusTreeLeafSplitAndSiblingChain(t *testing.T) {
	tree, txn := newTestTree(t, 4, 4)
	for _, k := range []int32{1, 2, 3, 4, 5} {
		require.True(t, tree.Insert(types.NewInteger(k), ridFor(k), txn))
	}

	rootPage, rootNode := tree.fetchNode(tree.getRootPageId())
	require.False(t, rootNode.IsLeafPage(), "root should have split into an internal node")
	root := CastPageAsBPlusTreeInternalPage(rootPage)
	require.EqualValues(t, 2, root.GetSize())
	assert.True(t, types.NewInteger(3).CompareEquals(root.KeyAt(1, types.Integer, tree.keySize)))
	tree.bpm.UnpinPage(rootPage.GetPageId(), false)

	leftId := root.ValueAt(0, tree.keySize)
	rightId := root.ValueAt(1, tree.keySize)
	leftPage, _ := tree.fetchNode(leftId)
	left := CastPageAsBPlusTreeLeafPage(leftPage)
	require.EqualValues(t, 2, left.GetSize())
	assert.Equal(t, rightId, left.GetNextPageId(), "leaves must be chained via next_leaf")
	tree.bpm.UnpinPage(leftId, false)

	rightPage, _ := tree.fetchNode(rightId)
	right := CastPageAsBPlusTreeLeafPage(rightPage)
	require.EqualValues(t, 3, right.GetSize())
	tree.bpm.UnpinPage(rightId, false)

	for _, k := range []int32{1, 2, 3, 4, 5} {
		rid, found := tree.GetValue(types.NewInteger(k), txn)
		require.True(t, found)
		assert.Equal(t, ridFor(k), rid)
	}

	it := tree.Begin()
	for _, want := range []int32{1, 2, 3, 4, 5} {
		require.False(t, it.IsEnd())
		key, rid := it.Current()
		assert.True(t, types.NewInteger(want).CompareEquals(key))
		assert.Equal(t, ridFor(want), rid)
		it.Next()
	}
	assert.True(t, it.IsEnd())
}

// spec.md §8 end-to-end scenario (5): continuing (4), removing
// 1,2,3,4 leaves the leaf [5] as the root. The internal root collapses
// when 2 is removed: [3] cannot borrow from [4,5], which is at its
// minimum size, so the two leaves merge into [3,4,5].
func TestBPlusTreeUnderflowThenCollapse(t *testing.T) {
	tree, txn := newTestTree(t, 4, 4)
	for _, k := range []int32{1, 2, 3, 4, 5} {
		require.True(t, tree.Insert(types.NewInteger(k), ridFor(k), txn))
	}

	for _, k := range []int32{1, 2, 3, 4} {
		tree.Delete(types.NewInteger(k), txn)
		_, node := tree.fetchNode(tree.getRootPageId())
		tree.bpm.UnpinPage(tree.getRootPageId(), false)
		assert.Equal(t, k >= 2, node.IsLeafPage(), "root should be a leaf exactly once key 2 is removed")
	}

	rootPage, rootNode := tree.fetchNode(tree.getRootPageId())
	assert.True(t, rootNode.IsLeafPage(), "root should have collapsed to the surviving leaf [5]")
	leaf := CastPageAsBPlusTreeLeafPage(rootPage)
	require.EqualValues(t, 1, leaf.GetSize())
	assert.True(t, types.NewInteger(5).CompareEquals(leaf.KeyAt(0, types.Integer, tree.keySize)))
	tree.bpm.UnpinPage(rootPage.GetPageId(), false)

	rid, found := tree.GetValue(types.NewInteger(5), txn)
	require.True(t, found)
	assert.Equal(t, ridFor(5), rid)
}

// spec.md §8's invariant-3 property test: any permutation of {1..N}
// inserted then deleted in any (independent) permutation drains the
// tree back to empty, with every key resolvable in between.
func TestBPlusTreePermutationInsertDeleteRoundTrip(t *testing.T) {
	const n = 50
	rng := rand.New(rand.NewSource(7))

	insertOrder := rng.Perm(n)
	deleteOrder := rng.Perm(n)

	tree, txn := newTestTree(t, 5, 5)
	for _, k := range insertOrder {
		require.True(t, tree.Insert(types.NewInteger(int32(k)), ridFor(int32(k)), txn))
	}
	for k := 0; k < n; k++ {
		rid, found := tree.GetValue(types.NewInteger(int32(k)), txn)
		require.True(t, found, "key %d should be present after every insert", k)
		assert.Equal(t, ridFor(int32(k)), rid)
	}

	for i, k := range deleteOrder {
		tree.Delete(types.NewInteger(int32(k)), txn)
		_, found := tree.GetValue(types.NewInteger(int32(k)), txn)
		assert.False(t, found, "key %d should be gone immediately after its own delete", k)
		for _, remaining := range deleteOrder[i+1:] {
			_, found := tree.GetValue(types.NewInteger(int32(remaining)), txn)
			assert.True(t, found, "key %d should still be present before its own delete", remaining)
		}
	}

	assert.True(t, tree.IsEmpty())
}

// Duplicate keys are rejected by Insert and leave the existing entry
// untouched, per spec.md §4.E.1.
func TestBPlusTreeInsertRejectsDuplicateKey(t *testing.T) {
	tree, txn := newTestTree(t, 4, 4)
	require.True(t, tree.Insert(types.NewInteger(1), ridFor(1), txn))
	assert.False(t, tree.Insert(types.NewInteger(1), ridFor(99), txn))

	rid, found := tree.GetValue(types.NewInteger(1), txn)
	require.True(t, found)
	assert.Equal(t, ridFor(1), rid)
}
