// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package index

import (
	"encoding/binary"
	"sort"
	"unsafe"

	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

// Leaf header adds one field after the common header: the right
// sibling's page id, INVALID at the rightmost leaf.
const (
	offsetNextPageId = commonHeaderSize
	leafHeaderSize   = commonHeaderSize + 4
)

// BPlusTreeLeafPage stores (key, RID) pairs in sorted key order. Each
// slot is keySize+ridSize bytes; keySize is fixed per tree instance
// (see keyByteSize) because every key in one tree has the same
// types.Value type.
type BPlusTreeLeafPage struct {
	BPlusTreePage
}

func CastPageAsBPlusTreeLeafPage(p *page.Page) *BPlusTreeLeafPage {
	if p == nil {
		return nil
	}
	return (*BPlusTreeLeafPage)(unsafe.Pointer(p))
}

func (l *BPlusTreeLeafPage) Init(pageId, parentId types.PageID, maxSize uint32) {
	l.initCommon(LeafIndexPage, parentId, maxSize)
	l.SetPageId(pageId)
	l.SetNextPageId(types.InvalidPageID)
}

func (l *BPlusTreeLeafPage) GetNextPageId() types.PageID {
	return types.PageID(int32(binary.LittleEndian.Uint32(l.GetData()[offsetNextPageId:])))
}

func (l *BPlusTreeLeafPage) SetNextPageId(id types.PageID) {
	binary.LittleEndian.PutUint32(l.GetData()[offsetNextPageId:], uint32(int32(id)))
}

func slotOffset(index int, keySize uint32) int {
	return leafHeaderSize + index*int(keySize+ridSize)
}

const ridSize = 8

func writeRID(dst []byte, rid page.RID) {
	binary.LittleEndian.PutUint32(dst[0:], uint32(int32(rid.GetPageId())))
	binary.LittleEndian.PutUint32(dst[4:], rid.GetSlot())
}

func readRID(src []byte) page.RID {
	var rid page.RID
	pageId := types.PageID(int32(binary.LittleEndian.Uint32(src[0:])))
	slot := binary.LittleEndian.Uint32(src[4:])
	rid.Set(pageId, slot)
	return rid
}

func (l *BPlusTreeLeafPage) KeyAt(index int, keyType types.TypeID, keySize uint32) types.Value {
	off := slotOffset(index, keySize)
	return *types.NewValueFromBytes(l.GetData()[off:off+int(keySize)], keyType)
}

func (l *BPlusTreeLeafPage) ValueAt(index int, keySize uint32) page.RID {
	off := slotOffset(index, keySize) + int(keySize)
	return readRID(l.GetData()[off : off+ridSize])
}

func (l *BPlusTreeLeafPage) SetKeyValueAt(index int, key types.Value, value page.RID, keySize uint32) {
	off := slotOffset(index, keySize)
	data := l.GetData()
	copy(data[off:off+int(keySize)], key.Serialize())
	writeRID(data[off+int(keySize):], value)
}

// KeyIndex returns the smallest index whose key is >= target, i.e. the
// lower bound, via binary search over the sorted slots.
func (l *BPlusTreeLeafPage) KeyIndex(target types.Value, keyType types.TypeID, keySize uint32) int {
	size := int(l.GetSize())
	return sort.Search(size, func(i int) bool {
		return !l.KeyAt(i, keyType, keySize).CompareLessThan(target)
	})
}

// Insert places (key, value) in sorted order and returns false without
// modifying the page if key is already present.
func (l *BPlusTreeLeafPage) Insert(key types.Value, value page.RID, keyType types.TypeID, keySize uint32) bool {
	idx := l.KeyIndex(key, keyType, keySize)
	size := int(l.GetSize())
	if idx < size && l.KeyAt(idx, keyType, keySize).CompareEquals(key) {
		return false
	}
	for i := size; i > idx; i-- {
		l.SetKeyValueAt(i, l.KeyAt(i-1, keyType, keySize), l.ValueAt(i-1, keySize), keySize)
	}
	l.SetKeyValueAt(idx, key, value, keySize)
	l.IncreaseSize(1)
	return true
}

// RemoveAt deletes the entry at index, shifting later entries left.
func (l *BPlusTreeLeafPage) RemoveAt(index int, keyType types.TypeID, keySize uint32) {
	size := int(l.GetSize())
	for i := index; i < size-1; i++ {
		l.SetKeyValueAt(i, l.KeyAt(i+1, keyType, keySize), l.ValueAt(i+1, keySize), keySize)
	}
	l.IncreaseSize(-1)
}

// Remove deletes key if present, reporting whether it was found.
func (l *BPlusTreeLeafPage) Remove(key types.Value, keyType types.TypeID, keySize uint32) bool {
	idx := l.KeyIndex(key, keyType, keySize)
	if idx >= int(l.GetSize()) || !l.KeyAt(idx, keyType, keySize).CompareEquals(key) {
		return false
	}
	l.RemoveAt(idx, keyType, keySize)
	return true
}

// MoveHalfTo splits this leaf, the overflowing node, moving its upper
// ceil(max_size/2) entries onto recipient (a freshly initialized empty
// leaf) and relinking the sibling pointers.
func (l *BPlusTreeLeafPage) MoveHalfTo(recipient *BPlusTreeLeafPage, keyType types.TypeID, keySize uint32) {
	size := int(l.GetSize())
	moveCount := (int(l.GetMaxSize()) + 1) / 2
	startIndex := size - moveCount
	for i := 0; i < moveCount; i++ {
		recipient.SetKeyValueAt(i, l.KeyAt(startIndex+i, keyType, keySize), l.ValueAt(startIndex+i, keySize), keySize)
	}
	recipient.SetSize(uint32(moveCount))
	l.SetSize(uint32(startIndex))

	recipient.SetNextPageId(l.GetNextPageId())
	l.SetNextPageId(recipient.GetPageId())
}

// MoveAllTo appends every entry of l onto recipient, used to fold a
// deficient leaf into its sibling during a merge. recipient is the
// left sibling; l's contents land after recipient's existing entries.
func (l *BPlusTreeLeafPage) MoveAllTo(recipient *BPlusTreeLeafPage, keyType types.TypeID, keySize uint32) {
	recvSize := int(recipient.GetSize())
	size := int(l.GetSize())
	for i := 0; i < size; i++ {
		recipient.SetKeyValueAt(recvSize+i, l.KeyAt(i, keyType, keySize), l.ValueAt(i, keySize), keySize)
	}
	recipient.SetSize(uint32(recvSize + size))
	recipient.SetNextPageId(l.GetNextPageId())
	l.SetSize(0)
}

// MoveFirstToEndOf takes l's first entry (l is the right sibling) and
// appends it to recipient (the left sibling), used when borrowing from
// the right during delete-rebalance.
func (l *BPlusTreeLeafPage) MoveFirstToEndOf(recipient *BPlusTreeLeafPage, keyType types.TypeID, keySize uint32) {
	recvSize := int(recipient.GetSize())
	recipient.SetKeyValueAt(recvSize, l.KeyAt(0, keyType, keySize), l.ValueAt(0, keySize), keySize)
	recipient.IncreaseSize(1)
	l.RemoveAt(0, keyType, keySize)
}

// MoveLastToFrontOf takes l's last entry (l is the left sibling) and
// prepends it to recipient (the right sibling), the borrow-from-left
// case.
func (l *BPlusTreeLeafPage) MoveLastToFrontOf(recipient *BPlusTreeLeafPage, keyType types.TypeID, keySize uint32) {
	lastIdx := int(l.GetSize()) - 1
	key := l.KeyAt(lastIdx, keyType, keySize)
	value := l.ValueAt(lastIdx, keySize)
	l.IncreaseSize(-1)

	recvSize := int(recipient.GetSize())
	for i := recvSize; i > 0; i-- {
		recipient.SetKeyValueAt(i, recipient.KeyAt(i-1, keyType, keySize), recipient.ValueAt(i-1, keySize), keySize)
	}
	recipient.SetKeyValueAt(0, key, value, keySize)
	recipient.IncreaseSize(1)
}
