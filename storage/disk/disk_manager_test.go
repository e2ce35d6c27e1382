package disk

import (
	"bytes"
	"testing"

	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/types"
)

func TestReadWritePage(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	data := make([]byte, page.PageSize)
	buffer := make([]byte, page.PageSize)

	copy(data, "A test string.")

	dm.ReadPage(types.PageID(0), buffer) // tolerate empty read
	dm.WritePage(types.PageID(0), data)
	dm.ReadPage(types.PageID(0), buffer)
	if !bytes.Equal(data, buffer) {
		t.Fatalf("read back different bytes than were written")
	}

	for i := range buffer {
		buffer[i] = 0
	}
	copy(data, "Another test string.")

	dm.WritePage(types.PageID(5), data)
	dm.ReadPage(types.PageID(5), buffer)
	if !bytes.Equal(data, buffer) {
		t.Fatalf("read back different bytes than were written")
	}
}
