// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/gopherdb/txcore/storage/table/schema"

	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/concurrency"
	"github.com/gopherdb/txcore/errors"
	"github.com/gopherdb/txcore/storage/page"
	"github.com/gopherdb/txcore/storage/tuple"
	"github.com/gopherdb/txcore/types"
)

// static constexpr uint64_t DELETE_MASK = (1U << (8 * sizeof(uint32_t) - 1));
const deleteMask = uint32(1 << ((8 * 4) - 1))

const sizeTablePageHeader = uint32(24)
const sizeTuple = uint32(8)
const offSetPrevPageId = uint32(8)
const offSetNextPageId = uint32(12)
const offsetFreeSpace = uint32(16)
const offSetTupleCount = uint32(20)
const offsetTupleOffset = uint32(24)
const offsetTupleSize = uint32(28)

const ErrEmptyTuple = errors.Error("tuple cannot be empty")
const ErrNotEnoughSpace = errors.Error("there is not enough space")
const ErrNoFreeSlot = errors.Error("could not find a free slot")

// Slotted page format:
//
//	---------------------------------------------------------
//	| HEADER | ... FREE SPACE ... | ... INSERTED TUPLES ... |
//	---------------------------------------------------------
//	                              ^
//	                              free space pointer
//	Header format (size in bytes):
//	----------------------------------------------------------------------------
//	| PageId (4)| LSN (4)| PrevPageId (4)| NextPageId (4)| FreeSpacePointer(4) |
//	----------------------------------------------------------------------------
//	----------------------------------------------------------------
//	| TupleCount (4) | Tuple_1 offset (4) | Tuple_1 size (4) | ... |
//	----------------------------------------------------------------
//
// The LSN field in the header is left in place for on-disk layout
// compatibility but is never written by this package: recovery/WAL is
// out of scope, so no log manager ever populates it.
type TablePage struct {
	page.Page
}

// CastPageAsTablePage casts the abstract Page struct into TablePage
func CastPageAsTablePage(p *page.Page) *TablePage {
	if p == nil {
		return nil
	}
	return (*TablePage)(unsafe.Pointer(p))
}

// InsertTuple inserts a tuple into the table, acquiring an exclusive
// row lock on its freshly-assigned RID first.
func (tp *TablePage) InsertTuple(tuple_ *tuple.Tuple, lockManager *concurrency.LockManager, oid uint32, txn *concurrency.Transaction) (*page.RID, error) {
	if tuple_.Size() == 0 {
		return nil, ErrEmptyTuple
	}
	if tp.getFreeSpaceRemaining() < tuple_.Size()+sizeTuple {
		return nil, ErrNotEnoughSpace
	}

	var slot uint32
	for slot = uint32(0); slot < tp.GetTupleCount(); slot++ {
		if tp.GetTupleSize(slot) == 0 {
			break
		}
	}
	if tp.GetTupleCount() == slot && tuple_.Size()+sizeTuple > tp.getFreeSpaceRemaining() {
		return nil, ErrNoFreeSlot
	}

	rid := &page.RID{}
	rid.Set(tp.GetTablePageId(), slot)

	if err := lockManager.LockRow(txn, concurrency.EXCLUSIVE, oid, *rid); err != nil {
		return nil, err
	}

	tuple_.SetRID(rid)
	tp.SetFreeSpacePointer(tp.GetFreeSpacePointer() - tuple_.Size())
	tp.setTuple(slot, tuple_)
	if slot == tp.GetTupleCount() {
		tp.SetTupleCount(tp.GetTupleCount() + 1)
	}
	return rid, nil
}

// UpdateTuple replaces the tuple at rid. If update_col_idxs/schema_ are
// nil, new_tuple wholesale replaces the old value; otherwise only the
// named columns are replaced, with the rest carried over from the
// existing tuple. Returns the tuple to re-insert elsewhere (and false,
// ErrNotEnoughSpace) when the update no longer fits in place.
func (tp *TablePage) UpdateTuple(new_tuple *tuple.Tuple, update_col_idxs []int, schema_ *schema.Schema, old_tuple *tuple.Tuple, rid *page.RID, lockManager *concurrency.LockManager, oid uint32, txn *concurrency.Transaction) (bool, error, *tuple.Tuple) {
	common.SH_Assert(new_tuple.Size() > 0, "Cannot have empty tuples.")

	slot_num := rid.GetSlot()
	if slot_num >= tp.GetTupleCount() {
		return false, nil, nil
	}
	tuple_size := tp.GetTupleSize(slot_num)
	if IsDeleted(tuple_size) {
		return false, nil, nil
	}

	tuple_offset := tp.GetTupleOffsetAtSlot(slot_num)
	old_tuple.SetSize(tuple_size)
	old_tuple_data := make([]byte, old_tuple.Size())
	copy(old_tuple_data, tp.GetData()[tuple_offset:tuple_offset+old_tuple.Size()])
	old_tuple.SetData(old_tuple_data)
	old_tuple.SetRID(rid)

	var update_tuple *tuple.Tuple
	if update_col_idxs == nil || schema_ == nil {
		update_tuple = new_tuple
	} else {
		var update_tuple_values []types.Value
		matched_cnt := 0
		for idx := range schema_.GetColumns() {
			if matched_cnt < len(update_col_idxs) && idx == update_col_idxs[matched_cnt] {
				update_tuple_values = append(update_tuple_values, new_tuple.GetValue(schema_, uint32(idx)))
				matched_cnt++
			} else {
				update_tuple_values = append(update_tuple_values, old_tuple.GetValue(schema_, uint32(idx)))
			}
		}
		update_tuple = tuple.NewTupleFromSchema(update_tuple_values, schema_)
	}

	if tp.getFreeSpaceRemaining()+tuple_size < update_tuple.Size() {
		return false, ErrNotEnoughSpace, update_tuple
	}

	if !txn.IsRowSharedLocked(oid, *rid) && !txn.IsRowExclusiveLocked(oid, *rid) {
		if err := lockManager.LockRow(txn, concurrency.EXCLUSIVE, oid, *rid); err != nil {
			return false, err, nil
		}
	} else if txn.IsRowSharedLocked(oid, *rid) && !txn.IsRowExclusiveLocked(oid, *rid) {
		if err := lockManager.LockRow(txn, concurrency.EXCLUSIVE, oid, *rid); err != nil {
			return false, err, nil
		}
	}

	free_space_pointer := tp.GetFreeSpacePointer()
	common.SH_Assert(tuple_offset >= free_space_pointer, "Offset should appear after current free space position.")

	copy(tp.GetData()[free_space_pointer+tuple_size-update_tuple.Size():], tp.GetData()[free_space_pointer:tuple_offset])
	tp.SetFreeSpacePointer(free_space_pointer + tuple_size - update_tuple.Size())
	copy(tp.GetData()[tuple_offset+tuple_size-update_tuple.Size():], update_tuple.Data()[:update_tuple.Size()])
	tp.SetTupleSize(slot_num, update_tuple.Size())

	tuple_cnt := int(tp.GetTupleCount())
	for ii := 0; ii < tuple_cnt; ii++ {
		tuple_offset_i := tp.GetTupleOffsetAtSlot(uint32(ii))
		if tp.GetTupleSize(uint32(ii)) > 0 && tuple_offset_i < tuple_offset+tuple_size {
			tp.SetTupleOffsetAtSlot(uint32(ii), tuple_offset_i+tuple_size-update_tuple.Size())
		}
	}
	return true, nil, nil
}

func (tp *TablePage) MarkDelete(rid *page.RID, lockManager *concurrency.LockManager, oid uint32, txn *concurrency.Transaction) bool {
	slot_num := rid.GetSlot()
	if slot_num >= tp.GetTupleCount() {
		return false
	}
	tuple_size := tp.GetTupleSize(slot_num)
	if IsDeleted(tuple_size) {
		return false
	}

	if !txn.IsRowExclusiveLocked(oid, *rid) {
		if err := lockManager.LockRow(txn, concurrency.EXCLUSIVE, oid, *rid); err != nil {
			return false
		}
	}

	if tuple_size > 0 {
		tp.SetTupleSize(slot_num, SetDeletedFlag(tuple_size))
	}
	return true
}

func (table_page *TablePage) ApplyDelete(rid *page.RID) {
	slot_num := rid.GetSlot()
	common.SH_Assert(slot_num < table_page.GetTupleCount(), "Cannot have more slots than tuples.")

	tuple_offset := table_page.GetTupleOffsetAtSlot(slot_num)
	tuple_size := table_page.GetTupleSize(slot_num)
	if IsDeleted(tuple_size) {
		tuple_size = UnsetDeletedFlag(tuple_size)
	}

	free_space_pointer := table_page.GetFreeSpacePointer()
	common.SH_Assert(tuple_offset >= free_space_pointer, "Free space appears before tuples.")

	copy(table_page.Data()[free_space_pointer+tuple_size:], table_page.Data()[free_space_pointer:tuple_offset])
	table_page.SetFreeSpacePointer(free_space_pointer + tuple_size)
	table_page.SetTupleSize(slot_num, 0)
	table_page.SetTupleOffsetAtSlot(slot_num, 0)

	tuple_count := int(table_page.GetTupleCount())
	for ii := 0; ii < tuple_count; ii++ {
		tuple_offset_ii := table_page.GetTupleOffsetAtSlot(uint32(ii))
		if table_page.GetTupleSize(uint32(ii)) != 0 && tuple_offset_ii < tuple_offset {
			table_page.SetTupleOffsetAtSlot(uint32(ii), tuple_offset_ii+tuple_size)
		}
	}
}

func (tp *TablePage) RollbackDelete(rid *page.RID) {
	slot_num := rid.GetSlot()
	common.SH_Assert(slot_num < tp.GetTupleCount(), "We can't have more slots than tuples.")
	tuple_size := tp.GetTupleSize(slot_num)
	if IsDeleted(tuple_size) {
		tp.SetTupleSize(slot_num, UnsetDeletedFlag(tuple_size))
	}
}

// Init initializes the table header.
func (tp *TablePage) Init(pageId types.PageID, prevPageId types.PageID) {
	tp.SetPageId(pageId)
	tp.SetPrevPageId(prevPageId)
	tp.SetNextPageId(types.InvalidPageID)
	tp.SetTupleCount(0)
	tp.SetFreeSpacePointer(common.PageSize)
}

func (tp *TablePage) SetPageId(pageId types.PageID) {
	tp.Copy(0, pageId.Serialize())
}

func (tp *TablePage) SetPrevPageId(pageId types.PageID) {
	tp.Copy(int(offSetPrevPageId), pageId.Serialize())
}

func (tp *TablePage) SetNextPageId(pageId types.PageID) {
	tp.Copy(int(offSetNextPageId), pageId.Serialize())
}

func (tp *TablePage) SetFreeSpacePointer(freeSpacePointer uint32) {
	tp.Copy(int(offsetFreeSpace), types.UInt32(freeSpacePointer).Serialize())
}

func (tp *TablePage) SetTupleCount(tupleCount uint32) {
	tp.Copy(int(offSetTupleCount), types.UInt32(tupleCount).Serialize())
}

func (tp *TablePage) setTuple(slot uint32, tuple_ *tuple.Tuple) {
	fsp := tp.GetFreeSpacePointer()
	tp.Copy(int(fsp), tuple_.Data())
	tp.Copy(int(offsetTupleOffset+sizeTuple*slot), types.UInt32(fsp).Serialize())
	tp.Copy(int(offsetTupleSize+sizeTuple*slot), types.UInt32(tuple_.Size()).Serialize())
}

func (tp *TablePage) GetTablePageId() types.PageID {
	return types.NewPageIDFromBytes(tp.GetData()[:])
}

func (tp *TablePage) GetNextPageId() types.PageID {
	return types.NewPageIDFromBytes(tp.GetData()[offSetNextPageId:])
}

func (tp *TablePage) GetTupleCount() uint32 {
	return uint32(types.NewUInt32FromBytes(tp.GetData()[offSetTupleCount:]))
}

func (tp *TablePage) GetTupleOffsetAtSlot(slot_num uint32) uint32 {
	return uint32(types.NewUInt32FromBytes(tp.GetData()[offsetTupleOffset+sizeTuple*slot_num:]))
}

func (tp *TablePage) SetTupleOffsetAtSlot(slot_num uint32, offset uint32) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, offset)
	copy(tp.GetData()[offsetTupleOffset+sizeTuple*slot_num:], buf.Bytes())
}

func (tp *TablePage) GetTupleSize(slot_num uint32) uint32 {
	return uint32(types.NewUInt32FromBytes(tp.GetData()[offsetTupleSize+sizeTuple*slot_num:]))
}

func (tp *TablePage) SetTupleSize(slot_num uint32, size uint32) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, size)
	copy(tp.GetData()[offsetTupleSize+sizeTuple*slot_num:], buf.Bytes())
}

func (tp *TablePage) getFreeSpaceRemaining() uint32 {
	return tp.GetFreeSpacePointer() - sizeTablePageHeader - sizeTuple*tp.GetTupleCount()
}

func (tp *TablePage) GetFreeSpacePointer() uint32 {
	return uint32(types.NewUInt32FromBytes(tp.GetData()[offsetFreeSpace:]))
}

// GetData exposes the page's backing array as a slice, since the
// slotted-page layout above indexes into it byte-by-byte.
func (tp *TablePage) GetData() []byte {
	d := tp.Data()
	return d[:]
}

func (tp *TablePage) GetTuple(rid *page.RID, lockManager *concurrency.LockManager, oid uint32, txn *concurrency.Transaction) *tuple.Tuple {
	if rid.GetSlot() >= tp.GetTupleCount() {
		return nil
	}
	slot := rid.GetSlot()
	tupleOffset := tp.GetTupleOffsetAtSlot(slot)
	tupleSize := tp.GetTupleSize(slot)
	if IsDeleted(tupleSize) {
		return nil
	}

	if !txn.IsRowSharedLocked(oid, *rid) && !txn.IsRowExclusiveLocked(oid, *rid) {
		if err := lockManager.LockRow(txn, concurrency.SHARED, oid, *rid); err != nil {
			return nil
		}
	}

	tupleData := make([]byte, tupleSize)
	copy(tupleData, tp.GetData()[tupleOffset:])
	return tuple.NewTuple(rid, tupleSize, tupleData)
}

func (tp *TablePage) GetTupleFirstRID() *page.RID {
	firstRID := &page.RID{}
	tupleCount := tp.GetTupleCount()
	for ii := uint32(0); ii < tupleCount; ii++ {
		if tp.GetTupleSize(ii) > 0 {
			firstRID.Set(tp.GetTablePageId(), ii)
			return firstRID
		}
	}
	return nil
}

func (tp *TablePage) GetNextTupleRID(curRID *page.RID, isNextPage bool) *page.RID {
	nextRID := &page.RID{}
	tupleCount := tp.GetTupleCount()
	var init_val uint32 = 0
	if !isNextPage {
		init_val = curRID.GetSlot() + 1
	}
	for ii := init_val; ii < tupleCount; ii++ {
		if tp.GetTupleSize(ii) > 0 {
			nextRID.Set(tp.GetTablePageId(), ii)
			return nextRID
		}
	}
	return nil
}

// IsDeleted reports whether a tuple is deleted or empty.
func IsDeleted(tuple_size uint32) bool {
	return tuple_size&deleteMask == deleteMask || tuple_size == 0
}

// SetDeletedFlag returns tuple_size with the deleted flag set.
func SetDeletedFlag(tuple_size uint32) uint32 {
	return tuple_size | deleteMask
}

// UnsetDeletedFlag returns tuple_size with the deleted flag unset.
func UnsetDeletedFlag(tuple_size uint32) uint32 {
	return tuple_size &^ deleteMask
}
