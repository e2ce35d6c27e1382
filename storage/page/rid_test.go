package page

import (
	"testing"

	"github.com/gopherdb/txcore/types"
)

func TestRID(t *testing.T) {
	rid := RID{}
	rid.Set(types.PageID(7), uint32(3))
	if rid.GetPageId() != types.PageID(7) {
		t.Fatalf("got page id %v, want 7", rid.GetPageId())
	}
	if rid.GetSlot() != 3 {
		t.Fatalf("got slot %v, want 3", rid.GetSlot())
	}
}
