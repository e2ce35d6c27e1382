package buffer

import (
	"crypto/rand"
	"testing"

	"github.com/gopherdb/txcore/storage/disk"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

func TestBinaryData(t *testing.T) {
	poolSize := uint32(10)

	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(poolSize, dm)

	page0 := bpm.NewPage()
	if page0.GetPageId() != types.PageID(0) {
		t.Fatalf("got page id %v, want 0", page0.GetPageId())
	}

	randomBinaryData := make([]byte, page.PageSize)
	rand.Read(randomBinaryData)
	randomBinaryData[page.PageSize/2] = '0'
	randomBinaryData[page.PageSize-1] = '0'

	var fixedRandomBinaryData [page.PageSize]byte
	copy(fixedRandomBinaryData[:], randomBinaryData[:page.PageSize])

	page0.Copy(0, randomBinaryData)
	if *page0.Data() != fixedRandomBinaryData {
		t.Fatalf("page contents did not round-trip through Copy")
	}

	for i := uint32(1); i < poolSize; i++ {
		p := bpm.NewPage()
		if p.GetPageId() != types.PageID(i) {
			t.Fatalf("got page id %v, want %v", p.GetPageId(), i)
		}
	}

	for i := poolSize; i < poolSize*2; i++ {
		if bpm.NewPage() != nil {
			t.Fatalf("expected NewPage to fail once every frame is pinned")
		}
	}

	for i := 0; i < 5; i++ {
		if !bpm.UnpinPage(types.PageID(i), true) {
			t.Fatalf("expected UnpinPage(%d) to succeed", i)
		}
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		p := bpm.NewPage()
		bpm.UnpinPage(p.GetPageId(), false)
	}

	page0 = bpm.FetchPage(types.PageID(0))
	if *page0.Data() != fixedRandomBinaryData {
		t.Fatalf("fetched page lost its previously flushed contents")
	}
	bpm.UnpinPage(types.PageID(0), true)
}

func TestSample(t *testing.T) {
	poolSize := uint32(10)

	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(poolSize, dm)

	page0 := bpm.NewPage()
	if page0.GetPageId() != types.PageID(0) {
		t.Fatalf("got page id %v, want 0", page0.GetPageId())
	}

	page0.Copy(0, []byte("Hello"))
	want := [page.PageSize]byte{'H', 'e', 'l', 'l', 'o'}
	if *page0.Data() != want {
		t.Fatalf("page contents did not round-trip")
	}

	for i := uint32(1); i < poolSize; i++ {
		p := bpm.NewPage()
		if p.GetPageId() != types.PageID(i) {
			t.Fatalf("got page id %v, want %v", p.GetPageId(), i)
		}
	}

	for i := poolSize; i < poolSize*2; i++ {
		if bpm.NewPage() != nil {
			t.Fatalf("expected NewPage to fail once every frame is pinned")
		}
	}

	for i := 0; i < 5; i++ {
		bpm.UnpinPage(types.PageID(i), true)
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		bpm.NewPage()
	}

	page0 = bpm.FetchPage(types.PageID(0))
	if *page0.Data() != want {
		t.Fatalf("fetched page lost its previously flushed contents")
	}

	bpm.UnpinPage(types.PageID(0), true)

	last := bpm.NewPage()
	if last.GetPageId() != types.PageID(14) {
		t.Fatalf("got page id %v, want 14", last.GetPageId())
	}
	if bpm.NewPage() != nil {
		t.Fatalf("expected NewPage to fail once every frame is pinned again")
	}
	if bpm.FetchPage(types.PageID(0)) != nil {
		t.Fatalf("expected FetchPage(0) to fail once every frame is pinned")
	}
}
