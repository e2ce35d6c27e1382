// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/types"
)

const PageSize = common.PageSize

// Page is a frame-resident 4 KiB buffer plus bookkeeping. It is the unit
// the buffer pool manager hands out and the unit every disk read/write
// moves. pinCount and isDirty are only meaningful while the page occupies
// a frame; latch guards concurrent readers/writers of the frame's bytes
// independently of the buffer pool's own pool-wide latch.
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     *[PageSize]byte
	latch    common.ReaderWriterLatch
}

// IncPinCount increments the pin count.
func (p *Page) IncPinCount() {
	p.pinCount++
}

// DecPinCount decrements the pin count, floored at zero.
func (p *Page) DecPinCount() {
	if p.pinCount > 0 {
		p.pinCount--
	}
}

// PinCount returns the pin count.
func (p *Page) PinCount() int32 {
	return p.pinCount
}

// GetPageId returns the page id.
func (p *Page) GetPageId() types.PageID {
	return p.id
}

// SetPageId overwrites the page id, used when a frame is repurposed for a
// newly allocated page.
func (p *Page) SetPageId(id types.PageID) {
	p.id = id
}

func (p *Page) Data() *[PageSize]byte {
	return p.data
}

// Copy overwrites the page's bytes starting at offset with src.
func (p *Page) Copy(offset int, src []byte) {
	copy(p.data[offset:], src)
}

// ResetMemory zeroes the frame's bytes, done before a frame is reused for
// a newly allocated page.
func (p *Page) ResetMemory() {
	*p.data = [PageSize]byte{}
}

func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

func (p *Page) IsDirty() bool {
	return p.isDirty
}

// WLatch/WUnlatch/RLatch/RUnlatch guard the page's bytes for callers
// crabbing latches across a B+ tree or table-heap operation, independent
// of the pin count the buffer pool manager tracks.
func (p *Page) WLatch()   { p.latch.WLock() }
func (p *Page) WUnlatch() { p.latch.WUnlock() }
func (p *Page) RLatch()   { p.latch.RLock() }
func (p *Page) RUnlatch() { p.latch.RUnlock() }

func New(id types.PageID, isDirty bool, data *[PageSize]byte) *Page {
	return &Page{id: id, pinCount: 1, isDirty: isDirty, data: data, latch: common.NewRWLatch()}
}

func NewEmpty(id types.PageID) *Page {
	return &Page{id: id, pinCount: 1, isDirty: false, data: &[PageSize]byte{}, latch: common.NewRWLatch()}
}
