// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package index

import (
	"github.com/gopherdb/txcore/storage/buffer"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

// IndexIterator walks leaf pages left to right. It pins its current
// leaf and read-latches nothing beyond it: concurrent structural
// changes may invalidate an in-flight iterator, which is accepted per
// the range-scan contract.
type IndexIterator struct {
	bpm      *buffer.BufferPoolManager
	pageId   types.PageID
	slot     int
	keyType  types.TypeID
	keySize  uint32
	leafPage *page.Page
}

func newIndexIterator(bpm *buffer.BufferPoolManager, pageId types.PageID, slot int, keyType types.TypeID, keySize uint32) *IndexIterator {
	it := &IndexIterator{bpm: bpm, pageId: pageId, slot: slot, keyType: keyType, keySize: keySize}
	if pageId != types.InvalidPageID {
		it.leafPage = bpm.FetchPage(pageId)
	}
	return it
}

func (it *IndexIterator) IsEnd() bool {
	return it.pageId == types.InvalidPageID
}

func (it *IndexIterator) leaf() *BPlusTreeLeafPage {
	return CastPageAsBPlusTreeLeafPage(it.leafPage)
}

// Current returns the (key, RID) pair the iterator points at.
func (it *IndexIterator) Current() (types.Value, page.RID) {
	l := it.leaf()
	return l.KeyAt(it.slot, it.keyType, it.keySize), l.ValueAt(it.slot, it.keySize)
}

// Next advances the iterator, unpinning the exhausted leaf when it
// crosses into the next one.
func (it *IndexIterator) Next() {
	if it.pageId == types.InvalidPageID {
		return
	}
	l := it.leaf()
	if it.slot < int(l.GetSize())-1 {
		it.slot++
		return
	}
	nextId := l.GetNextPageId()
	it.bpm.UnpinPage(it.pageId, false)
	it.pageId = nextId
	it.slot = 0
	if nextId == types.InvalidPageID {
		it.leafPage = nil
		return
	}
	it.leafPage = it.bpm.FetchPage(nextId)
}

// Close unpins whatever leaf the iterator still holds; callers that
// run an iterator to exhaustion never need it, but a caller that
// abandons a scan early must call it to avoid leaking a pin.
func (it *IndexIterator) Close() {
	if it.pageId != types.InvalidPageID {
		it.bpm.UnpinPage(it.pageId, false)
		it.pageId = types.InvalidPageID
		it.leafPage = nil
	}
}
