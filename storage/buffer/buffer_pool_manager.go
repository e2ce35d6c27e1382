// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/container/hash"
	"github.com/gopherdb/txcore/storage/disk"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
	"github.com/sasha-s/go-deadlock"
)

// BufferPoolManager caches disk pages in a fixed set of frames, using an
// extendible hash table as its page table and an LRU-K replacer to pick
// eviction victims among unpinned frames. Grounded on
// buffer_pool_manager_instance.cpp, replacing the linear page table +
// clock-replacer implementation this package started from.
type BufferPoolManager struct {
	latch       deadlock.Mutex
	diskManager disk.DiskManager
	pages       []*page.Page
	replacer    *LRUKReplacer
	freeList    []FrameID
	pageTable   *hash.ExtendibleHashTable[types.PageID, FrameID]
}

// NewBufferPoolManager returns an empty buffer pool manager with poolSize
// frames and the default LRU-K K value.
func NewBufferPoolManager(poolSize uint32, diskManager disk.DiskManager) *BufferPoolManager {
	return NewBufferPoolManagerWithK(poolSize, diskManager, common.DefaultOptions().ReplacerK)
}

// NewBufferPoolManagerWithK is NewBufferPoolManager with an explicit
// LRU-K parameter, used by tests that exercise the "cold vs warm" access
// distinction directly.
func NewBufferPoolManagerWithK(poolSize uint32, diskManager disk.DiskManager, k int) *BufferPoolManager {
	freeList := make([]FrameID, poolSize)
	pages := make([]*page.Page, poolSize)
	for i := uint32(0); i < poolSize; i++ {
		freeList[i] = FrameID(i)
	}

	return &BufferPoolManager{
		diskManager: diskManager,
		pages:       pages,
		replacer:    NewLRUKReplacer(int(poolSize), k),
		freeList:    freeList,
		pageTable:   hash.NewExtendibleHashTable[types.PageID, FrameID](common.BucketSize),
	}
}

// findVictim returns a frame available for a fresh page: from the free
// list if one exists, else the replacer's eviction choice with the
// evicted page flushed if dirty and dropped from the page table.
// Grounded on BufferPoolManagerInstance::FindVictim (called FindFrame in
// some BusTub course revisions).
func (b *BufferPoolManager) findVictim() (FrameID, bool) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, true
	}

	frameID, ok := b.replacer.Evict()
	if !ok {
		return 0, false
	}

	victim := b.pages[frameID]
	if victim != nil {
		if victim.IsDirty() {
			data := victim.Data()
			b.diskManager.WritePage(victim.GetPageId(), data[:])
		}
		b.pageTable.Remove(victim.GetPageId())
	}
	return frameID, true
}

// NewPage allocates a fresh page id, installs it in a victim frame, and
// returns it pinned once. Returns nil if every frame is pinned.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.findVictim()
	if !ok {
		return nil
	}

	pageID := b.diskManager.AllocatePage()
	pg := page.NewEmpty(pageID)

	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)
	common.ShPrintf(common.BUFFER, "bpm: new page %v in frame %d\n", pageID, frameID)
	return pg
}

// FetchPage fetches the requested page from the buffer pool, reading it
// from disk into a victim frame if it isn't already resident.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	if frameID, ok := b.pageTable.Find(pageID); ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.RecordAccess(frameID)
		b.replacer.SetEvictable(frameID, false)
		return pg
	}

	frameID, ok := b.findVictim()
	if !ok {
		return nil
	}

	data := make([]byte, common.PageSize)
	if err := b.diskManager.ReadPage(pageID, data); err != nil {
		b.freeList = append(b.freeList, frameID)
		return nil
	}
	var pageData [common.PageSize]byte
	copy(pageData[:], data)
	pg := page.New(pageID, false, &pageData)

	b.pageTable.Insert(pageID, frameID)
	b.pages[frameID] = pg
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)
	common.ShPrintf(common.BUFFER, "bpm: fetched page %v into frame %d\n", pageID, frameID)
	return pg
}

// UnpinPage unpins the target page from the buffer pool, marking it
// evictable once its pin count reaches zero. isDirty is OR'd with the
// page's existing dirty flag: unpinning it clean never un-dirties it.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if pg.PinCount() <= 0 {
		return false
	}

	pg.DecPinCount()
	if pg.PinCount() <= 0 {
		b.replacer.SetEvictable(frameID, true)
	}
	if isDirty {
		pg.SetIsDirty(true)
	}
	return true
}

// FlushPage writes the target page to disk unconditionally, clearing its
// dirty flag. Returns false if the page isn't resident.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	data := pg.Data()
	b.diskManager.WritePage(pageID, data[:])
	pg.SetIsDirty(false)
	return true
}

// FlushAllPages flushes every resident page to disk.
func (b *BufferPoolManager) FlushAllPages() {
	b.latch.Lock()
	frames := make([]*page.Page, 0, len(b.pages))
	for _, pg := range b.pages {
		if pg != nil {
			frames = append(frames, pg)
		}
	}
	b.latch.Unlock()

	for _, pg := range frames {
		b.FlushPage(pg.GetPageId())
	}
}

// DeletePage removes a page from the buffer pool and asks the disk pager
// to deallocate its backing storage. Fails if the page is still pinned.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return true
	}

	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return false
	}

	if pg.IsDirty() {
		data := pg.Data()
		b.diskManager.WritePage(pageID, data[:])
	}

	b.pageTable.Remove(pageID)
	b.replacer.Remove(frameID)
	b.pages[frameID] = nil
	b.diskManager.DeallocatePage(pageID)
	b.freeList = append(b.freeList, frameID)
	return true
}
