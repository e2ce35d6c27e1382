// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package index

import (
	"encoding/binary"
	"unsafe"

	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

// IndexPageType discriminates which tagged variant a raw page currently
// holds. The source casts pointers between leaf/internal views without
// any such tag; here the tag is the first four bytes of every B+ tree
// page so a page fetched from the buffer pool can be dispatched to the
// right accessor set before anything else touches it.
type IndexPageType uint32

const (
	InvalidIndexPage IndexPageType = iota
	LeafIndexPage
	InternalIndexPage
)

// Common header shared by leaf and internal pages, mirrored on the
// byte layout used by TablePage: fixed-offset fields read and written
// with encoding/binary rather than a Go struct overlay, since the
// underlying storage is the buffer pool's raw [4096]byte frame.
//
//	----------------------------------------------------------------
//	| PageType(4) | Size(4) | MaxSize(4) | ParentPageId(4) | ... |
//	----------------------------------------------------------------
const (
	offsetPageType     = 0
	offsetSize         = 4
	offsetMaxSize      = 8
	offsetParentPageId = 12
	commonHeaderSize   = 16
)

// BPlusTreePage is the common header every leaf/internal page embeds.
// fetchNode hands pages out in this view; callers read the header
// fields through it and check IsLeafPage to decide which concrete cast
// to perform next.
type BPlusTreePage struct {
	page.Page
}

func CastPageAsBPlusTreePage(p *page.Page) *BPlusTreePage {
	if p == nil {
		return nil
	}
	return (*BPlusTreePage)(unsafe.Pointer(p))
}

func (n *BPlusTreePage) GetPageType() IndexPageType {
	return IndexPageType(binary.LittleEndian.Uint32(n.GetData()[offsetPageType:]))
}

func (n *BPlusTreePage) setPageType(t IndexPageType) {
	binary.LittleEndian.PutUint32(n.GetData()[offsetPageType:], uint32(t))
}

func (n *BPlusTreePage) IsLeafPage() bool {
	return n.GetPageType() == LeafIndexPage
}

func (n *BPlusTreePage) GetSize() uint32 {
	return binary.LittleEndian.Uint32(n.GetData()[offsetSize:])
}

func (n *BPlusTreePage) SetSize(size uint32) {
	binary.LittleEndian.PutUint32(n.GetData()[offsetSize:], size)
}

func (n *BPlusTreePage) IncreaseSize(delta int) {
	n.SetSize(uint32(int(n.GetSize()) + delta))
}

func (n *BPlusTreePage) GetMaxSize() uint32 {
	return binary.LittleEndian.Uint32(n.GetData()[offsetMaxSize:])
}

func (n *BPlusTreePage) SetMaxSize(maxSize uint32) {
	binary.LittleEndian.PutUint32(n.GetData()[offsetMaxSize:], maxSize)
}

// GetMinSize is ceil(max_size/2), the occupancy floor below which a
// non-root node must borrow or merge on delete.
func (n *BPlusTreePage) GetMinSize() uint32 {
	return (n.GetMaxSize() + 1) / 2
}

func (n *BPlusTreePage) GetParentPageId() types.PageID {
	return types.PageID(int32(binary.LittleEndian.Uint32(n.GetData()[offsetParentPageId:])))
}

func (n *BPlusTreePage) SetParentPageId(id types.PageID) {
	binary.LittleEndian.PutUint32(n.GetData()[offsetParentPageId:], uint32(int32(id)))
}

func (n *BPlusTreePage) IsRootPage() bool {
	return n.GetParentPageId() == types.InvalidPageID
}

func (n *BPlusTreePage) GetData() []byte {
	return n.Data()[:]
}

func (n *BPlusTreePage) initCommon(pageType IndexPageType, parentPageId types.PageID, maxSize uint32) {
	n.setPageType(pageType)
	n.SetSize(0)
	n.SetMaxSize(maxSize)
	n.SetParentPageId(parentPageId)
}
