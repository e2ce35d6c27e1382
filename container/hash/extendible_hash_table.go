package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/gopherdb/txcore/common"
	"github.com/sasha-s/go-deadlock"
	"github.com/spaolacci/murmur3"
)

// keyHash turns any comparable key into a 32-bit hash by murmur3-hashing
// its fmt.Sprintf representation. This keeps the table generic over K
// without asking callers to supply a hash function, matching the
// original's std::hash<K>() default-hasher convenience while reusing the
// murmur3 dependency already wired for value hashing in hash_util.go.
func keyHash[K comparable](key K) uint32 {
	buf := []byte(fmt.Sprintf("%v", key))
	h := murmur3.New128()
	h.Write(buf)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint32(sum)
}

// bucket is a fixed-capacity chain of key/value pairs sharing a local
// depth, grounded on ExtendibleHashTable<K,V>::Bucket in
// extendible_hash_table.cpp.
type bucket[K comparable, V any] struct {
	depth int
	size  int
	items []entry[K, V]
}

type entry[K comparable, V any] struct {
	key K
	val V
}

func newBucket[K comparable, V any](size, depth int) *bucket[K, V] {
	return &bucket[K, V]{depth: depth, size: size}
}

func (b *bucket[K, V]) IsFull() bool { return len(b.items) >= b.size }

func (b *bucket[K, V]) Find(key K) (V, bool) {
	for _, e := range b.items {
		if e.key == key {
			return e.val, true
		}
	}
	var zero V
	return zero, false
}

func (b *bucket[K, V]) Remove(key K) bool {
	for i, e := range b.items {
		if e.key == key {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

func (b *bucket[K, V]) Insert(key K, val V) bool {
	for i, e := range b.items {
		if e.key == key {
			b.items[i].val = val
			return true
		}
	}
	if b.IsFull() {
		return false
	}
	b.items = append(b.items, entry[K, V]{key, val})
	return true
}

// ExtendibleHashTable is a directory-of-buckets hash table that grows by
// doubling its directory and splitting overflowing buckets, per
// extendible_hash_table.cpp. It backs the buffer pool's page table
// (K = types.PageID, V = FrameID).
type ExtendibleHashTable[K comparable, V any] struct {
	mu          deadlock.Mutex
	globalDepth int
	bucketSize  int
	numBuckets  int
	dir         []*bucket[K, V]
}

// NewExtendibleHashTable constructs a table with a single bucket at
// global depth 0, mirroring the constructor's dir_.push_back(...) of one
// initial bucket.
func NewExtendibleHashTable[K comparable, V any](bucketSize int) *ExtendibleHashTable[K, V] {
	if bucketSize <= 0 {
		bucketSize = common.BucketSize
	}
	t := &ExtendibleHashTable[K, V]{
		bucketSize: bucketSize,
		numBuckets: 1,
	}
	t.dir = []*bucket[K, V]{newBucket[K, V](bucketSize, 0)}
	return t
}

func (t *ExtendibleHashTable[K, V]) indexOf(key K) int {
	mask := (1 << uint(t.globalDepth)) - 1
	return int(keyHash(key)) & mask
}

func (t *ExtendibleHashTable[K, V]) GetGlobalDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalDepth
}

func (t *ExtendibleHashTable[K, V]) GetLocalDepth(dirIndex int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[dirIndex].depth
}

func (t *ExtendibleHashTable[K, V]) GetNumBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numBuckets
}

// Find returns the value stored under key, if any.
func (t *ExtendibleHashTable[K, V]) Find(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[t.indexOf(key)].Find(key)
}

// Remove deletes key from the table, reporting whether it was present.
// Buckets are never merged back down on removal, matching the original
// (extendible hashing shrink is not implemented there either).
func (t *ExtendibleHashTable[K, V]) Remove(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[t.indexOf(key)].Remove(key)
}

// Insert adds or updates key/value, doubling the directory and/or
// splitting the owning bucket as many times as needed until it fits,
// grounded on ExtendibleHashTable<K,V>::Insert.
func (t *ExtendibleHashTable[K, V]) Insert(key K, val V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for t.dir[t.indexOf(key)].IsFull() {
		index := t.indexOf(key)
		target := t.dir[index]
		localDepth := target.depth

		if t.globalDepth == localDepth {
			capacity := len(t.dir)
			t.dir = append(t.dir, make([]*bucket[K, V], capacity)...)
			for i := 0; i < capacity; i++ {
				t.dir[i+capacity] = t.dir[i]
			}
			t.globalDepth++
			common.ShPrintf(common.HASHTBL, "hash: directory doubled to global depth %d\n", t.globalDepth)
		}

		mask := 1 << uint(localDepth)
		bucket0 := newBucket[K, V](t.bucketSize, localDepth+1)
		bucket1 := newBucket[K, V](t.bucketSize, localDepth+1)

		for _, e := range target.items {
			if int(keyHash(e.key))&mask != 0 {
				bucket1.items = append(bucket1.items, e)
			} else {
				bucket0.items = append(bucket0.items, e)
			}
		}
		t.numBuckets++

		for i := range t.dir {
			if t.dir[i] == target {
				if i&mask == 0 {
					t.dir[i] = bucket0
				} else {
					t.dir[i] = bucket1
				}
			}
		}
		common.ShPrintf(common.HASHTBL, "hash: bucket split at local depth %d\n", localDepth+1)
	}

	t.dir[t.indexOf(key)].Insert(key, val)
}
