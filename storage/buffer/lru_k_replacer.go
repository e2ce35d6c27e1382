// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"container/list"

	"github.com/gopherdb/txcore/common"
	"github.com/sasha-s/go-deadlock"
)

// FrameID is the type for frame id
type FrameID uint32

// lruKNode tracks one frame's access history.
type lruKNode struct {
	frameID   FrameID
	hitCount  int
	evictable bool
}

// LRUKReplacer implements the LRU-K eviction policy: a frame with fewer
// than k historical accesses is less valuable to keep than one with k or
// more, so it is always evicted first (in FIFO order among frames below
// k); once a frame has k accesses, ties break on regular LRU recency.
// Grounded on lru_k_replacer.cpp.
type LRUKReplacer struct {
	mu           deadlock.Mutex
	k            int
	currSize     int
	replacerSize int

	historyList *list.List // FIFO, frames with < k accesses; front = most recent, back = oldest
	cacheList   *list.List // MRU-front, frames with >= k accesses

	historyElem map[FrameID]*list.Element
	cacheElem   map[FrameID]*list.Element
}

// NewLRUKReplacer constructs a replacer over numFrames frames using k
// historical accesses to distinguish "cold" from "warm".
func NewLRUKReplacer(numFrames int, k int) *LRUKReplacer {
	return &LRUKReplacer{
		k:            k,
		replacerSize: numFrames,
		historyList:  list.New(),
		cacheList:    list.New(),
		historyElem:  make(map[FrameID]*list.Element),
		cacheElem:    make(map[FrameID]*list.Element),
	}
}

// RecordAccess registers an access to frameID, promoting it from the
// history list to the cache list the moment its access count reaches k.
// Grounded on LRUKReplacer::RecordAccess.
func (r *LRUKReplacer) RecordAccess(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cacheElem[frameID]; ok {
		node := e.Value.(*lruKNode)
		node.hitCount++
		r.cacheList.MoveToFront(e)
		return
	}

	if e, ok := r.historyElem[frameID]; ok {
		node := e.Value.(*lruKNode)
		node.hitCount++
		if node.hitCount >= r.k {
			r.historyList.Remove(e)
			delete(r.historyElem, frameID)
			ne := r.cacheList.PushFront(node)
			r.cacheElem[frameID] = ne
		}
		return
	}

	node := &lruKNode{frameID: frameID, hitCount: 1}
	e := r.historyList.PushFront(node)
	r.historyElem[frameID] = e
	common.ShPrintf(common.BUFFER, "lru-k: recorded first access to frame %d\n", frameID)
}

// SetEvictable marks frameID as evictable or not, adjusting the tracked
// evictable size accordingly. A frame the buffer pool has pinned is
// marked non-evictable; unpinning it to zero pins makes it evictable
// again.
func (r *LRUKReplacer) SetEvictable(frameID FrameID, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var node *lruKNode
	if e, ok := r.historyElem[frameID]; ok {
		node = e.Value.(*lruKNode)
	} else if e, ok := r.cacheElem[frameID]; ok {
		node = e.Value.(*lruKNode)
	} else {
		return
	}

	if node.evictable && !evictable {
		r.currSize--
	} else if !node.evictable && evictable {
		r.currSize++
	}
	node.evictable = evictable
}

// Evict picks a victim frame: the evictable frame in the history list
// whose first access is oldest (scanned oldest-first) if one exists, else the
// least-recently-used evictable frame in the cache list. Grounded on
// LRUKReplacer::Evict.
func (r *LRUKReplacer) Evict() (FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for e := r.historyList.Back(); e != nil; e = e.Prev() {
		node := e.Value.(*lruKNode)
		if node.evictable {
			r.historyList.Remove(e)
			delete(r.historyElem, node.frameID)
			r.currSize--
			return node.frameID, true
		}
	}

	for e := r.cacheList.Back(); e != nil; e = e.Prev() {
		node := e.Value.(*lruKNode)
		if node.evictable {
			r.cacheList.Remove(e)
			delete(r.cacheElem, node.frameID)
			r.currSize--
			return node.frameID, true
		}
	}

	return 0, false
}

// Remove erases frameID's access history entirely, used when the buffer
// pool manager deletes the underlying page outright. Panics if the frame
// is currently non-evictable, mirroring the original's assertion.
func (r *LRUKReplacer) Remove(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.historyElem[frameID]; ok {
		node := e.Value.(*lruKNode)
		common.SH_Assert(node.evictable, "Remove called on a non-evictable frame")
		r.historyList.Remove(e)
		delete(r.historyElem, frameID)
		r.currSize--
		return
	}
	if e, ok := r.cacheElem[frameID]; ok {
		node := e.Value.(*lruKNode)
		common.SH_Assert(node.evictable, "Remove called on a non-evictable frame")
		r.cacheList.Remove(e)
		delete(r.cacheElem, frameID)
		r.currSize--
		return
	}
}

// Size returns the number of currently evictable frames.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currSize
}
