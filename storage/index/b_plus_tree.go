// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package index

import (
	"sync"
	"unsafe"

	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

// keyByteSize returns the number of bytes types.Value.Serialize
// produces for t (the same widths TypeID.Size gives the fixed-width
// types), because every fixed-width value type needs a byte-exact
// slot width to lay keys out as an array instead of a length-prefixed
// stream. Varchar keys are
// unsupported: variable-width keys would make every slot offset a
// scan instead of an index into the page.
func keyByteSize(t types.TypeID) uint32 {
	switch t {
	case types.Integer, types.Float:
		return 5 // 1 byte isNull + 4 byte payload
	case types.Boolean:
		return 2 // 1 byte isNull + 1 byte payload
	default:
		panic("b+ tree index keys must be a fixed-width type (integer, float, boolean)")
	}
}

// BPlusTree is a disk-backed, latch-crabbed ordered index mapping a
// single fixed-width key column to a RID. Structural algorithms are
// grounded on the reference B+ tree (search/insert-with-split,
// delete-with-borrow-merge-collapse); the crabbing protocol below adds
// the optimistic/pessimistic split the reference implementation's
// Remove path never got around to finishing.
type BPlusTree struct {
	name            string
	bpm             *buffer.BufferPoolManager
	keyType         types.TypeID
	keySize         uint32
	leafMaxSize     uint32
	internalMaxSize uint32

	rootMu     sync.Mutex // protects rootPageId itself
	rootPageId types.PageID
	rootLatch  common.ReaderWriterLatch
}

// NewBPlusTree builds an index over keyType-typed keys. maxSize
// parameters are counted in entries; callers that want the page to
// self-size to 4 KiB frames should compute them from keyByteSize and
// common.PageSize before calling this.
func NewBPlusTree(name string, bpm *buffer.BufferPoolManager, keyType types.TypeID, leafMaxSize, internalMaxSize uint32) *BPlusTree {
	return &BPlusTree{
		name:            name,
		bpm:             bpm,
		keyType:         keyType,
		keySize:         keyByteSize(keyType),
		leafMaxSize:     leafMaxSize,
		internalMaxSize: internalMaxSize,
		rootPageId:      types.InvalidPageID,
		rootLatch:       common.NewRWLatch(),
	}
}

// DefaultFanout computes a leaf/internal max size that packs a slot
// array for keySize into one page, leaving room for the header.
func DefaultFanout(keyType types.TypeID) (leafMaxSize, internalMaxSize uint32) {
	keySize := keyByteSize(keyType)
	leafMaxSize = uint32((common.PageSize - leafHeaderSize) / int(keySize+ridSize))
	internalMaxSize = uint32((common.PageSize - commonHeaderSize) / int(keySize+4))
	return leafMaxSize, internalMaxSize
}

func (t *BPlusTree) getRootPageId() types.PageID {
	t.rootMu.Lock()
	defer t.rootMu.Unlock()
	return t.rootPageId
}

func (t *BPlusTree) setRootPageId(id types.PageID) {
	t.rootMu.Lock()
	t.rootPageId = id
	t.rootMu.Unlock()
}

func (t *BPlusTree) IsEmpty() bool {
	return t.getRootPageId() == types.InvalidPageID
}

// fetchNode fetches and returns a page along with its BPlusTreePage
// header view, without latching it.
func (t *BPlusTree) fetchNode(id types.PageID) (*page.Page, *BPlusTreePage) {
	p := t.bpm.FetchPage(id)
	return p, CastPageAsBPlusTreePage(p)
}

// -------------------------------------------------------------------
// Read path (GetValue, Begin): descend as readers, crabbing latches.
// -------------------------------------------------------------------

// findLeafForRead descends to key's leaf, holding only that leaf's
// read latch and pin on return.
func (t *BPlusTree) findLeafForRead(key types.Value) *page.Page {
	t.rootLatch.RLock()
	curId := t.rootPageId
	curPage, curNode := t.fetchNode(curId)
	curPage.RLatch()
	t.rootLatch.RUnlock()

	for !curNode.IsLeafPage() {
		internal := CastPageAsBPlusTreeInternalPage(curPage)
		childId := internal.Lookup(key, t.keyType, t.keySize)
		childPage, childNode := t.fetchNode(childId)
		childPage.RLatch()

		curPage.RUnlatch()
		t.bpm.UnpinPage(curId, false)

		curPage, curNode, curId = childPage, childNode, childId
	}
	return curPage
}

// -------------------------------------------------------------------
// GetValue
// -------------------------------------------------------------------

func (t *BPlusTree) GetValue(key types.Value, txn *concurrency.Transaction) (page.RID, bool) {
	if t.IsEmpty() {
		return page.RID{}, false
	}
	leafPage := t.findLeafForRead(key)
	leaf := CastPageAsBPlusTreeLeafPage(leafPage)
	idx := leaf.KeyIndex(key, t.keyType, t.keySize)
	found := idx < int(leaf.GetSize()) && leaf.KeyAt(idx, t.keyType, t.keySize).CompareEquals(key)
	var rid page.RID
	if found {
		rid = leaf.ValueAt(idx, t.keySize)
	}
	leafPage.RUnlatch()
	t.bpm.UnpinPage(leafPage.GetPageId(), false)
	return rid, found
}

// -------------------------------------------------------------------
// Safety predicates (spec 4.E.2)
// -------------------------------------------------------------------

func (t *BPlusTree) leafSafeForInsert(l *BPlusTreeLeafPage) bool {
	return l.GetSize() < l.GetMaxSize()-1
}

func (t *BPlusTree) internalSafeForInsert(n *BPlusTreeInternalPage) bool {
	return n.GetSize() < n.GetMaxSize()
}

func (t *BPlusTree) safeForDelete(n *BPlusTreePage) bool {
	if n.IsRootPage() {
		if n.IsLeafPage() {
			return n.GetSize() > 1
		}
		return n.GetSize() > 2
	}
	return n.GetSize() > n.GetMinSize()
}

// -------------------------------------------------------------------
// Insert
// -------------------------------------------------------------------

// Insert adds (key, value); returns false if key is already present.
func (t *BPlusTree) Insert(key types.Value, value page.RID, txn *concurrency.Transaction) bool {
	t.rootMu.Lock()
	empty := t.rootPageId == types.InvalidPageID
	if empty {
		newPage := t.bpm.NewPage()
		leaf := CastPageAsBPlusTreeLeafPage(newPage)
		leaf.Init(newPage.GetPageId(), types.InvalidPageID, t.leafMaxSize)
		leaf.SetKeyValueAt(0, key, value, t.keySize)
		leaf.SetSize(1)
		t.rootPageId = newPage.GetPageId()
		t.bpm.UnpinPage(newPage.GetPageId(), true)
	}
	t.rootMu.Unlock()
	if empty {
		return true
	}

	if ok, done := t.insertOptimistic(key, value); done {
		return ok
	}
	return t.insertPessimistic(key, value, txn)
}

// insertOptimistic descends read-latching every internal page and
// write-latching only the leaf. If the leaf turns out to be safe
// (won't split), the insert completes right there. done is false when
// the leaf was unsafe and the caller must retry pessimistically.
func (t *BPlusTree) insertOptimistic(key types.Value, value page.RID) (ok bool, done bool) {
	t.rootLatch.RLock()
	curId := t.rootPageId
	curPage, curNode := t.fetchNode(curId)

	if curNode.IsLeafPage() {
		curPage.WLatch()
	} else {
		curPage.RLatch()
	}
	t.rootLatch.RUnlock()

	for !curNode.IsLeafPage() {
		internal := CastPageAsBPlusTreeInternalPage(curPage)
		childId := internal.Lookup(key, t.keyType, t.keySize)
		childPage, childNode := t.fetchNode(childId)
		if childNode.IsLeafPage() {
			childPage.WLatch()
		} else {
			childPage.RLatch()
		}
		curPage.RUnlatch()
		t.bpm.UnpinPage(curId, false)
		curPage, curNode, curId = childPage, childNode, childId
	}

	leaf := CastPageAsBPlusTreeLeafPage(curPage)
	if !t.leafSafeForInsert(leaf) {
		curPage.WUnlatch()
		t.bpm.UnpinPage(curId, false)
		return false, false
	}

	ok = leaf.Insert(key, value, t.keyType, t.keySize)
	curPage.WUnlatch()
	t.bpm.UnpinPage(curId, ok)
	return ok, true
}

// insertPessimistic write-latches the whole root-to-leaf path,
// dropping ancestor latches as soon as a safe descendant is reached,
// then performs the mutation and propagates any split upward.
func (t *BPlusTree) insertPessimistic(key types.Value, value page.RID, txn *concurrency.Transaction) bool {
	t.rootLatch.WLock()
	rootHeld := true
	txn.ClearPageSet()

	curId := t.rootPageId
	curPage, curNode := t.fetchNode(curId)
	curPage.WLatch()
	txn.AddIntoPageSet(curPage)

	releaseAncestors := func() {
		pages := txn.GetPageSet()
		for _, p := range pages[:len(pages)-1] {
			p.WUnlatch()
			t.bpm.UnpinPage(p.GetPageId(), false)
		}
		txn.ClearPageSet()
		txn.AddIntoPageSet(curPage)
		if rootHeld {
			t.rootLatch.WUnlock()
			rootHeld = false
		}
	}

	isSafe := func() bool {
		if curNode.IsLeafPage() {
			return t.leafSafeForInsert(CastPageAsBPlusTreeLeafPage(curPage))
		}
		return t.internalSafeForInsert(CastPageAsBPlusTreeInternalPage(curPage))
	}
	if isSafe() {
		releaseAncestors()
	}

	for !curNode.IsLeafPage() {
		internal := CastPageAsBPlusTreeInternalPage(curPage)
		childId := internal.Lookup(key, t.keyType, t.keySize)
		childPage, childNode := t.fetchNode(childId)
		childPage.WLatch()
		txn.AddIntoPageSet(childPage)
		curPage, curNode, curId = childPage, childNode, childId
		if isSafe() {
			releaseAncestors()
		}
	}

	leaf := CastPageAsBPlusTreeLeafPage(curPage)
	if !leaf.Insert(key, value, t.keyType, t.keySize) {
		t.releaseWriteSet(txn, rootHeld)
		return false
	}

	if leaf.GetSize() < leaf.GetMaxSize() {
		t.releaseWriteSet(txn, rootHeld)
		return true
	}

	t.splitLeafAndPropagate(leaf, txn)
	t.releaseWriteSet(txn, rootHeld)
	return true
}

func (t *BPlusTree) releaseWriteSet(txn *concurrency.Transaction, rootHeld bool) {
	for _, p := range txn.GetPageSet() {
		p.WUnlatch()
		t.bpm.UnpinPage(p.GetPageId(), true)
	}
	txn.ClearPageSet()
	if rootHeld {
		t.rootLatch.WUnlock()
	}
	for id := range txn.GetDeletedPageSet().Iter() {
		t.bpm.DeletePage(id)
	}
	txn.ClearDeletedPageSet()
}

// splitLeafAndPropagate splits an overflowing leaf and walks the
// insert-into-parent / split-parent chain upward until an ancestor
// absorbs the new separator without overflowing, or the root splits.
func (t *BPlusTree) splitLeafAndPropagate(leaf *BPlusTreeLeafPage, txn *concurrency.Transaction) {
	newPage := t.bpm.NewPage()
	newLeaf := CastPageAsBPlusTreeLeafPage(newPage)
	newLeaf.Init(newPage.GetPageId(), leaf.GetParentPageId(), t.leafMaxSize)
	leaf.MoveHalfTo(newLeaf, t.keyType, t.keySize)

	splitKey := newLeaf.KeyAt(0, t.keyType, t.keySize)
	oldId := leaf.GetPageId()
	newId := newLeaf.GetPageId()
	t.bpm.UnpinPage(newId, true)

	t.insertIntoParent(oldId, splitKey, newId, txn)
}

// insertIntoParent inserts (splitKey, newId) into oldId's parent,
// creating a new root if oldId currently has none, and recursively
// splits the parent if that insertion overflows it.
func (t *BPlusTree) insertIntoParent(oldId types.PageID, splitKey types.Value, newId types.PageID, txn *concurrency.Transaction) {
	_, oldNode := t.fetchNode(oldId)
	defer t.bpm.UnpinPage(oldId, true)

	if oldNode.IsRootPage() {
		newRootPage := t.bpm.NewPage()
		newRoot := CastPageAsBPlusTreeInternalPage(newRootPage)
		newRoot.Init(newRootPage.GetPageId(), types.InvalidPageID, t.internalMaxSize)
		newRoot.PopulateNewRoot(oldId, splitKey, newId, t.keySize)
		oldNode.SetParentPageId(newRootPage.GetPageId())
		t.setChildParent(newId, newRootPage.GetPageId())
		t.setRootPageId(newRootPage.GetPageId())
		t.bpm.UnpinPage(newRootPage.GetPageId(), true)
		return
	}

	parentId := oldNode.GetParentPageId()
	parentPage, _ := t.fetchNode(parentId)
	parent := CastPageAsBPlusTreeInternalPage(parentPage)
	t.setChildParent(newId, parentId)

	newSize := parent.InsertNodeAfter(oldId, splitKey, newId, t.keyType, t.keySize)
	if newSize <= t.internalMaxSize {
		t.bpm.UnpinPage(parentId, true)
		return
	}

	newParentPage := t.bpm.NewPage()
	newParent := CastPageAsBPlusTreeInternalPage(newParentPage)
	newParent.Init(newParentPage.GetPageId(), parent.GetParentPageId(), t.internalMaxSize)
	reparent := func(childId, parentId types.PageID) { t.setChildParent(childId, parentId) }
	parent.MoveHalfTo(newParent, t.keyType, t.keySize, reparent)
	parentSplitKey := newParent.KeyAt(0, t.keyType, t.keySize)

	newParentId := newParentPage.GetPageId()
	t.bpm.UnpinPage(newParentId, true)
	t.bpm.UnpinPage(parentId, true)

	t.insertIntoParent(parentId, parentSplitKey, newParentId, txn)
}

// setChildParent fetches childId solely to update its parent pointer.
// Used when a child is reparented onto a page it was never latched
// as part of this operation's path (a newly split-off sibling).
func (t *BPlusTree) setChildParent(childId, parentId types.PageID) {
	_, childNode := t.fetchNode(childId)
	childNode.SetParentPageId(parentId)
	t.bpm.UnpinPage(childId, true)
}

// -------------------------------------------------------------------
// Delete
// -------------------------------------------------------------------

func (t *BPlusTree) Delete(key types.Value, txn *concurrency.Transaction) {
	if t.IsEmpty() {
		return
	}
	if !t.deleteOptimistic(key) {
		t.deletePessimistic(key, txn)
	}
}

func (t *BPlusTree) deleteOptimistic(key types.Value) (done bool) {
	t.rootLatch.RLock()
	curId := t.rootPageId
	curPage, curNode := t.fetchNode(curId)
	if curNode.IsLeafPage() {
		curPage.WLatch()
	} else {
		curPage.RLatch()
	}
	t.rootLatch.RUnlock()

	for !curNode.IsLeafPage() {
		internal := CastPageAsBPlusTreeInternalPage(curPage)
		childId := internal.Lookup(key, t.keyType, t.keySize)
		childPage, childNode := t.fetchNode(childId)
		if childNode.IsLeafPage() {
			childPage.WLatch()
		} else {
			childPage.RLatch()
		}
		curPage.RUnlatch()
		t.bpm.UnpinPage(curId, false)
		curPage, curNode, curId = childPage, childNode, childId
	}

	leaf := CastPageAsBPlusTreeLeafPage(curPage)
	if !t.safeForDelete(&leaf.BPlusTreePage) {
		curPage.WUnlatch()
		t.bpm.UnpinPage(curId, false)
		return false
	}
	leaf.Remove(key, t.keyType, t.keySize)
	curPage.WUnlatch()
	t.bpm.UnpinPage(curId, true)
	return true
}

func (t *BPlusTree) deletePessimistic(key types.Value, txn *concurrency.Transaction) {
	t.rootLatch.WLock()
	rootHeld := true
	txn.ClearPageSet()

	curId := t.rootPageId
	curPage, curNode := t.fetchNode(curId)
	curPage.WLatch()
	txn.AddIntoPageSet(curPage)

	releaseAncestors := func() {
		pages := txn.GetPageSet()
		for _, p := range pages[:len(pages)-1] {
			p.WUnlatch()
			t.bpm.UnpinPage(p.GetPageId(), false)
		}
		txn.ClearPageSet()
		txn.AddIntoPageSet(curPage)
		if rootHeld {
			t.rootLatch.WUnlock()
			rootHeld = false
		}
	}

	if t.safeForDelete(curNode) {
		releaseAncestors()
	}

	for !curNode.IsLeafPage() {
		internal := CastPageAsBPlusTreeInternalPage(curPage)
		childId := internal.Lookup(key, t.keyType, t.keySize)
		childPage, childNode := t.fetchNode(childId)
		childPage.WLatch()
		txn.AddIntoPageSet(childPage)
		curPage, curNode, curId = childPage, childNode, childId
		if t.safeForDelete(curNode) {
			releaseAncestors()
		}
	}

	leaf := CastPageAsBPlusTreeLeafPage(curPage)
	if !leaf.Remove(key, t.keyType, t.keySize) {
		t.releaseWriteSet(txn, rootHeld)
		return
	}

	if leaf.GetSize() >= leaf.GetMinSize() || leaf.IsRootPage() {
		t.releaseWriteSet(txn, rootHeld)
		if leaf.IsRootPage() && leaf.GetSize() == 0 {
			t.setRootPageId(types.InvalidPageID)
		}
		return
	}

	t.rebalanceAfterDelete(&leaf.BPlusTreePage, txn)
	t.releaseWriteSet(txn, rootHeld)
}

// rebalanceAfterDelete restores node's minimum occupancy by borrowing
// from a sibling, or merging with one and recursing on the parent.
// node must be write-latched; its siblings are fetched and latched
// here for the duration of the call only.
func (t *BPlusTree) rebalanceAfterDelete(node *BPlusTreePage, txn *concurrency.Transaction) {
	if node.IsRootPage() {
		t.collapseRootIfNeeded(node)
		return
	}

	parentPage, _ := t.fetchNode(node.GetParentPageId())
	parent := CastPageAsBPlusTreeInternalPage(parentPage)
	nodeIndex := parent.ValueIndex(node.GetPageId(), t.keySize)

	var leftId, rightId types.PageID = types.InvalidPageID, types.InvalidPageID
	if nodeIndex > 0 {
		leftId = parent.ValueAt(nodeIndex-1, t.keySize)
	}
	if nodeIndex < int(parent.GetSize())-1 {
		rightId = parent.ValueAt(nodeIndex+1, t.keySize)
	}

	if leftId != types.InvalidPageID {
		leftPage, _ := t.fetchNode(leftId)
		leftPage.WLatch()
		if t.canLend(leftPage) {
			t.borrowFromLeft(node, leftPage, parent, nodeIndex)
			leftPage.WUnlatch()
			t.bpm.UnpinPage(leftId, true)
			t.bpm.UnpinPage(node.GetParentPageId(), true)
			return
		}
		leftPage.WUnlatch()
		t.bpm.UnpinPage(leftId, false)
	}

	if rightId != types.InvalidPageID {
		rightPage, _ := t.fetchNode(rightId)
		rightPage.WLatch()
		if t.canLend(rightPage) {
			t.borrowFromRight(node, rightPage, parent, nodeIndex)
			rightPage.WUnlatch()
			t.bpm.UnpinPage(rightId, true)
			t.bpm.UnpinPage(node.GetParentPageId(), true)
			return
		}
		rightPage.WUnlatch()
		t.bpm.UnpinPage(rightId, false)
	}

	// no sibling can lend: merge with whichever sibling exists.
	if leftId != types.InvalidPageID {
		leftPage, _ := t.fetchNode(leftId)
		leftPage.WLatch()
		t.mergeInto(leftPage, &node.Page, parent, nodeIndex-1, txn)
		leftPage.WUnlatch()
		t.bpm.UnpinPage(leftId, true)
	} else {
		rightPage, _ := t.fetchNode(rightId)
		rightPage.WLatch()
		t.mergeInto(&node.Page, rightPage, parent, nodeIndex, txn)
		rightPage.WUnlatch()
		t.bpm.UnpinPage(rightId, true)
	}

	parentId := node.GetParentPageId()
	if parent.GetSize() < parent.GetMinSize() && !parent.IsRootPage() {
		t.rebalanceAfterDelete(&parent.BPlusTreePage, txn)
	} else if parent.IsRootPage() {
		t.collapseRootIfNeeded(&parent.BPlusTreePage)
	}
	t.bpm.UnpinPage(parentId, true)
}

func (t *BPlusTree) canLend(siblingPage *page.Page) bool {
	sibling := CastPageAsBPlusTreePage(siblingPage)
	return sibling.GetSize() > sibling.GetMinSize()
}

func (t *BPlusTree) borrowFromLeft(node *BPlusTreePage, leftPage *page.Page, parent *BPlusTreeInternalPage, nodeIndex int) {
	reparent := func(childId, parentId types.PageID) { t.setChildParent(childId, parentId) }
	if node.IsLeafPage() {
		left := CastPageAsBPlusTreeLeafPage(leftPage)
		right := treePageAsLeaf(node)
		left.MoveLastToFrontOf(right, t.keyType, t.keySize)
		parent.SetKeyAt(nodeIndex, right.KeyAt(0, t.keyType, t.keySize), t.keySize)
	} else {
		left := CastPageAsBPlusTreeInternalPage(leftPage)
		right := treePageAsInternal(node)
		parentKey := parent.KeyAt(nodeIndex, t.keyType, t.keySize)
		left.MoveLastToFrontOf(right, parentKey, t.keyType, t.keySize, reparent)
		parent.SetKeyAt(nodeIndex, left.KeyAt(int(left.GetSize())-1, t.keyType, t.keySize), t.keySize)
	}
}

func (t *BPlusTree) borrowFromRight(node *BPlusTreePage, rightPage *page.Page, parent *BPlusTreeInternalPage, nodeIndex int) {
	reparent := func(childId, parentId types.PageID) { t.setChildParent(childId, parentId) }
	if node.IsLeafPage() {
		right := CastPageAsBPlusTreeLeafPage(rightPage)
		left := treePageAsLeaf(node)
		right.MoveFirstToEndOf(left, t.keyType, t.keySize)
		parent.SetKeyAt(nodeIndex+1, right.KeyAt(0, t.keyType, t.keySize), t.keySize)
	} else {
		right := CastPageAsBPlusTreeInternalPage(rightPage)
		left := treePageAsInternal(node)
		parentKey := parent.KeyAt(nodeIndex+1, t.keyType, t.keySize)
		right.MoveFirstToEndOf(left, parentKey, t.keyType, t.keySize, reparent)
		parent.SetKeyAt(nodeIndex+1, right.KeyAt(0, t.keyType, t.keySize), t.keySize)
	}
}

// mergeInto folds right into left and removes the parent separator at
// separatorIndex+1 (the slot pointing at right); separatorIndex is
// left's slot in parent.
func (t *BPlusTree) mergeInto(leftPage, rightPage *page.Page, parent *BPlusTreeInternalPage, separatorIndex int, txn *concurrency.Transaction) {
	reparent := func(childId, parentId types.PageID) { t.setChildParent(childId, parentId) }
	rightId := rightPage.GetPageId()
	if CastPageAsBPlusTreePage(leftPage).IsLeafPage() {
		left := CastPageAsBPlusTreeLeafPage(leftPage)
		right := CastPageAsBPlusTreeLeafPage(rightPage)
		right.MoveAllTo(left, t.keyType, t.keySize)
	} else {
		left := CastPageAsBPlusTreeInternalPage(leftPage)
		right := CastPageAsBPlusTreeInternalPage(rightPage)
		middleKey := parent.KeyAt(separatorIndex+1, t.keyType, t.keySize)
		right.MoveAllTo(left, middleKey, t.keyType, t.keySize, reparent)
	}
	parent.Remove(rightId, t.keyType, t.keySize)
	txn.AddIntoDeletedPageSet(rightId)
}

// collapseRootIfNeeded shrinks the tree when the root becomes an
// internal node with a single child, or an empty leaf.
func (t *BPlusTree) collapseRootIfNeeded(root *BPlusTreePage) {
	if root.IsLeafPage() {
		if root.GetSize() == 0 {
			t.setRootPageId(types.InvalidPageID)
		}
		return
	}
	if root.GetSize() == 1 {
		internal := CastPageAsBPlusTreeInternalPage(&root.Page)
		newRootId := internal.ValueAt(0, t.keySize)
		t.setChildParent(newRootId, types.InvalidPageID)
		t.setRootPageId(newRootId)
	}
}

// -------------------------------------------------------------------
// Range iteration
// -------------------------------------------------------------------

// Begin returns an iterator positioned at the first entry in the
// tree, reading through the leftmost path.
func (t *BPlusTree) Begin() *IndexIterator {
	if t.IsEmpty() {
		return newIndexIterator(t.bpm, types.InvalidPageID, 0, t.keyType, t.keySize)
	}
	curId := t.getRootPageId()
	for {
		p, node := t.fetchNode(curId)
		if node.IsLeafPage() {
			t.bpm.UnpinPage(curId, false)
			return newIndexIterator(t.bpm, curId, 0, t.keyType, t.keySize)
		}
		internal := CastPageAsBPlusTreeInternalPage(p)
		next := internal.ValueAt(0, t.keySize)
		t.bpm.UnpinPage(curId, false)
		curId = next
	}
}

// BeginAt returns an iterator positioned at the lower bound of key.
func (t *BPlusTree) BeginAt(key types.Value) *IndexIterator {
	if t.IsEmpty() {
		return newIndexIterator(t.bpm, types.InvalidPageID, 0, t.keyType, t.keySize)
	}
	leafPage := t.findLeafForRead(key)
	leaf := CastPageAsBPlusTreeLeafPage(leafPage)
	slot := leaf.KeyIndex(key, t.keyType, t.keySize)
	pageId := leafPage.GetPageId()
	leafPage.RUnlatch()
	t.bpm.UnpinPage(pageId, false)
	if slot >= int(leaf.GetSize()) {
		return newIndexIterator(t.bpm, types.InvalidPageID, 0, t.keyType, t.keySize)
	}
	return newIndexIterator(t.bpm, pageId, slot, t.keyType, t.keySize)
}

func (t *BPlusTree) End() *IndexIterator {
	return newIndexIterator(t.bpm, types.InvalidPageID, 0, t.keyType, t.keySize)
}

// treePageAsLeaf/treePageAsInternal reinterpret a BPlusTreePage header
// view as the concrete tagged variant its page type says it is. Valid
// because BPlusTreeLeafPage/BPlusTreeInternalPage add no fields of
// their own beyond the embedded BPlusTreePage; all three types share
// one underlying page.Page's memory.
func treePageAsLeaf(n *BPlusTreePage) *BPlusTreeLeafPage {
	return (*BPlusTreeLeafPage)(unsafe.Pointer(n))
}

func treePageAsInternal(n *BPlusTreePage) *BPlusTreeInternalPage {
	return (*BPlusTreeInternalPage)(unsafe.Pointer(n))
}
