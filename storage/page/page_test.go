// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"testing"

	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/types"
)

func TestNewPage(t *testing.T) {
	p := New(types.PageID(0), false, &[common.PageSize]byte{})

	if p.GetPageId() != types.PageID(0) {
		t.Fatalf("got page id %v, want 0", p.GetPageId())
	}
	if p.PinCount() != 1 {
		t.Fatalf("got pin count %d, want 1", p.PinCount())
	}
	p.IncPinCount()
	if p.PinCount() != 2 {
		t.Fatalf("got pin count %d, want 2", p.PinCount())
	}
	p.DecPinCount()
	p.DecPinCount()
	if p.PinCount() != 0 {
		t.Fatalf("got pin count %d, want 0", p.PinCount())
	}
	if p.IsDirty() {
		t.Fatalf("new page should not be dirty")
	}
	p.SetIsDirty(true)
	if !p.IsDirty() {
		t.Fatalf("expected page to be dirty")
	}
	p.Copy(0, []byte{'H', 'E', 'L', 'L', 'O'})
	want := [common.PageSize]byte{'H', 'E', 'L', 'L', 'O'}
	if *p.Data() != want {
		t.Fatalf("Copy did not write the expected bytes")
	}
}

func TestEmptyPage(t *testing.T) {
	p := NewEmpty(types.PageID(0))

	if p.GetPageId() != types.PageID(0) {
		t.Fatalf("got page id %v, want 0", p.GetPageId())
	}
	if p.PinCount() != 1 {
		t.Fatalf("got pin count %d, want 1", p.PinCount())
	}
	if p.IsDirty() {
		t.Fatalf("empty page should not be dirty")
	}
	if *p.Data() != ([common.PageSize]byte{}) {
		t.Fatalf("empty page should be zeroed")
	}
}
