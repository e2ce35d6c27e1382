// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"time"
)

var CycleDetectionInterval time.Duration = 50 * time.Millisecond
var EnableLogging bool = false
var LogTimeout time.Duration
var EnableDebug bool = false

const (
	// invalid page id
	InvalidPageID = -1
	// invalid transaction id
	InvalidTxnID = -1
	// invalid log sequence number
	InvalidLSN = -1
	// the header page id
	HeaderPageID = 0
	// size of a data page in byte
	PageSize = 4096
	// size of buffer pool
	LogBufferPoolSize = 32
	// size of a log buffer in byte
	LogBufferSize = ((LogBufferPoolSize + 1) * PageSize)
	// size of extendible hash bucket
	BucketSize = 50
	// probability used for determin node level on SkipList
	SkipListProb = 0.25
	// default fanout of a B+ tree leaf page before it splits
	leafMaxSizeDefault = 32
	// default fanout of a B+ tree internal page before it splits
	internalMaxSizeDefault = 32
)

// Options groups the per-instance knobs a storage engine is constructed
// with. Global process-wide defaults stay as package vars/consts above,
// following the split the buffer pool manager already uses between
// common.BucketSize (a global default) and an explicit poolSize argument.
type Options struct {
	// PoolSize is the number of frames the buffer pool manager holds.
	PoolSize int
	// ReplacerK is the K in the LRU-K replacement policy.
	ReplacerK int
	// LeafMaxSize is the maximum number of key/value pairs a B+ tree
	// leaf page holds before it splits.
	LeafMaxSize int
	// InternalMaxSize is the maximum number of key/child-pointer pairs
	// a B+ tree internal page holds before it splits.
	InternalMaxSize int
	// CycleDetectionInterval is how often the lock manager's background
	// goroutine rebuilds the wait-for graph and looks for cycles.
	CycleDetectionInterval time.Duration
}

// DefaultOptions returns the knob values used when a caller has no
// specific requirement.
func DefaultOptions() *Options {
	return &Options{
		PoolSize:               128,
		ReplacerK:              10,
		LeafMaxSize:            leafMaxSizeDefault,
		InternalMaxSize:        internalMaxSizeDefault,
		CycleDetectionInterval: CycleDetectionInterval,
	}
}

//type FrameID int32 // frame id type
//type PageID int32       // page id type
type TxnID int32 // transaction id type
//type LSN int32          // log sequence number
type SlotOffset uintptr // slot offset type
//type OID uint16
