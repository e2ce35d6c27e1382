// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package index

import (
	"encoding/binary"
	"unsafe"

	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

// BPlusTreeInternalPage stores size-1 separator keys and size child
// page ids. Slot 0's key is a sentinel never compared against (it
// points at everything less than array[1]'s key), matching the
// leaf/internal split in the source this is ported from.
type BPlusTreeInternalPage struct {
	BPlusTreePage
}

func CastPageAsBPlusTreeInternalPage(p *page.Page) *BPlusTreeInternalPage {
	if p == nil {
		return nil
	}
	return (*BPlusTreeInternalPage)(unsafe.Pointer(p))
}

func internalSlotOffset(index int, keySize uint32) int {
	return commonHeaderSize + index*int(keySize+4)
}

func (n *BPlusTreeInternalPage) Init(pageId, parentId types.PageID, maxSize uint32) {
	n.initCommon(InternalIndexPage, parentId, maxSize)
	n.SetPageId(pageId)
}

func (n *BPlusTreeInternalPage) KeyAt(index int, keyType types.TypeID, keySize uint32) types.Value {
	off := internalSlotOffset(index, keySize)
	return *types.NewValueFromBytes(n.GetData()[off:off+int(keySize)], keyType)
}

func (n *BPlusTreeInternalPage) ValueAt(index int, keySize uint32) types.PageID {
	off := internalSlotOffset(index, keySize) + int(keySize)
	return types.PageID(int32(binary.LittleEndian.Uint32(n.GetData()[off:])))
}

func (n *BPlusTreeInternalPage) SetKeyValueAt(index int, key types.Value, value types.PageID, keySize uint32) {
	off := internalSlotOffset(index, keySize)
	data := n.GetData()
	copy(data[off:off+int(keySize)], key.Serialize())
	binary.LittleEndian.PutUint32(data[off+int(keySize):], uint32(int32(value)))
}

func (n *BPlusTreeInternalPage) setValueAt(index int, value types.PageID, keySize uint32) {
	off := internalSlotOffset(index, keySize) + int(keySize)
	binary.LittleEndian.PutUint32(n.GetData()[off:], uint32(int32(value)))
}

// ValueIndex returns the slot holding childPageId, or -1.
func (n *BPlusTreeInternalPage) ValueIndex(childPageId types.PageID, keySize uint32) int {
	size := int(n.GetSize())
	for i := 0; i < size; i++ {
		if n.ValueAt(i, keySize) == childPageId {
			return i
		}
	}
	return -1
}

// Lookup finds the child to descend into for key: the greatest slot i
// (i >= 1) whose key is <= target, or slot 0 if target is less than
// every real key.
func (n *BPlusTreeInternalPage) Lookup(key types.Value, keyType types.TypeID, keySize uint32) types.PageID {
	size := int(n.GetSize())
	lo, hi := 1, size // search among [1, size)
	for lo < hi {
		mid := (lo + hi) / 2
		if n.KeyAt(mid, keyType, keySize).CompareLessThanOrEqual(key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return n.ValueAt(lo-1, keySize)
}

// PopulateNewRoot initializes n (a freshly allocated page) as a new
// root with two children: oldValue and newValue, split at newKey.
func (n *BPlusTreeInternalPage) PopulateNewRoot(oldValue types.PageID, newKey types.Value, newValue types.PageID, keySize uint32) {
	n.SetKeyValueAt(0, newKey, oldValue, keySize)
	n.SetKeyValueAt(1, newKey, newValue, keySize)
	n.SetSize(2)
}

// InsertNodeAfter inserts (newKey, newValue) immediately after the
// slot holding oldValue, shifting later entries right, and returns
// the new size.
func (n *BPlusTreeInternalPage) InsertNodeAfter(oldValue types.PageID, newKey types.Value, newValue types.PageID, keyType types.TypeID, keySize uint32) uint32 {
	idx := n.ValueIndex(oldValue, keySize) + 1
	size := int(n.GetSize())
	for i := size; i > idx; i-- {
		n.SetKeyValueAt(i, n.KeyAt(i-1, keyType, keySize), n.ValueAt(i-1, keySize), keySize)
	}
	n.SetKeyValueAt(idx, newKey, newValue, keySize)
	n.IncreaseSize(1)
	return n.GetSize()
}

// RemoveAt deletes the entry at index, shifting later entries left.
func (n *BPlusTreeInternalPage) RemoveAt(index int, keyType types.TypeID, keySize uint32) {
	size := int(n.GetSize())
	for i := index; i < size-1; i++ {
		n.SetKeyValueAt(i, n.KeyAt(i+1, keyType, keySize), n.ValueAt(i+1, keySize), keySize)
	}
	n.IncreaseSize(-1)
}

// Remove deletes the entry pointing at childPageId.
func (n *BPlusTreeInternalPage) Remove(childPageId types.PageID, keyType types.TypeID, keySize uint32) {
	idx := n.ValueIndex(childPageId, keySize)
	if idx < 0 {
		return
	}
	n.RemoveAt(idx, keyType, keySize)
}

// MoveHalfTo splits this internal node, moving its upper
// ceil(max_size/2) entries onto recipient (a freshly initialized empty
// internal page) and reparenting the moved children.
func (n *BPlusTreeInternalPage) MoveHalfTo(recipient *BPlusTreeInternalPage, keyType types.TypeID, keySize uint32, reparent func(types.PageID, types.PageID)) {
	size := int(n.GetSize())
	moveCount := (int(n.GetMaxSize()) + 1) / 2
	startIndex := size - moveCount
	for i := 0; i < moveCount; i++ {
		recipient.SetKeyValueAt(i, n.KeyAt(startIndex+i, keyType, keySize), n.ValueAt(startIndex+i, keySize), keySize)
		reparent(n.ValueAt(startIndex+i, keySize), recipient.GetPageId())
	}
	recipient.SetSize(uint32(moveCount))
	n.SetSize(uint32(startIndex))
}

// MoveAllTo appends every entry of n onto recipient (its left
// sibling), used for merges. middleKey is the parent separator that
// used to sit between the two nodes, becoming the key for n's slot 0
// (which otherwise carries an unused sentinel key).
func (n *BPlusTreeInternalPage) MoveAllTo(recipient *BPlusTreeInternalPage, middleKey types.Value, keyType types.TypeID, keySize uint32, reparent func(types.PageID, types.PageID)) {
	recvSize := int(recipient.GetSize())
	size := int(n.GetSize())
	recipient.SetKeyValueAt(recvSize, middleKey, n.ValueAt(0, keySize), keySize)
	reparent(n.ValueAt(0, keySize), recipient.GetPageId())
	for i := 1; i < size; i++ {
		recipient.SetKeyValueAt(recvSize+i, n.KeyAt(i, keyType, keySize), n.ValueAt(i, keySize), keySize)
		reparent(n.ValueAt(i, keySize), recipient.GetPageId())
	}
	recipient.SetSize(uint32(recvSize + size))
	n.SetSize(0)
}

// MoveFirstToEndOf takes n's first child (n is the right sibling) and
// appends it to recipient (the left sibling); parentKey is the
// parent's separator key for n, which becomes the key attached to the
// moved child in recipient.
func (n *BPlusTreeInternalPage) MoveFirstToEndOf(recipient *BPlusTreeInternalPage, parentKey types.Value, keyType types.TypeID, keySize uint32, reparent func(types.PageID, types.PageID)) {
	recvSize := int(recipient.GetSize())
	recipient.SetKeyValueAt(recvSize, parentKey, n.ValueAt(0, keySize), keySize)
	reparent(n.ValueAt(0, keySize), recipient.GetPageId())
	recipient.IncreaseSize(1)
	n.RemoveAt(0, keyType, keySize)
}

// MoveLastToFrontOf takes n's last child (n is the left sibling) and
// prepends it to recipient (the right sibling); parentKey is the
// parent's current separator key for recipient.
func (n *BPlusTreeInternalPage) MoveLastToFrontOf(recipient *BPlusTreeInternalPage, parentKey types.Value, keyType types.TypeID, keySize uint32, reparent func(types.PageID, types.PageID)) {
	lastIdx := int(n.GetSize()) - 1
	movedValue := n.ValueAt(lastIdx, keySize)
	n.IncreaseSize(-1)

	recvSize := int(recipient.GetSize())
	for i := recvSize; i > 0; i-- {
		recipient.SetKeyValueAt(i, recipient.KeyAt(i-1, keyType, keySize), recipient.ValueAt(i-1, keySize), keySize)
	}
	recipient.SetKeyValueAt(0, recipient.KeyAt(0, keyType, keySize), movedValue, keySize)
	recipient.SetKeyAt(1, parentKey, keySize)
	reparent(movedValue, recipient.GetPageId())
	recipient.IncreaseSize(1)
}

func (n *BPlusTreeInternalPage) SetKeyAt(index int, key types.Value, keySize uint32) {
	off := internalSlotOffset(index, keySize)
	copy(n.GetData()[off:off+int(keySize)], key.Serialize())
}
