package disk

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/gopherdb/txcore/common"
	"github.com/gopherdb/txcore/types"
)

// VirtualDiskManagerImpl is an in-memory DiskManager backed by
// github.com/dsnet/golib/memfile, used as the standard test fixture for
// every buffer pool, B+ tree and lock manager test in this module so
// tests never touch the filesystem.
type VirtualDiskManagerImpl struct {
	db              *memfile.File
	fileName        string
	nextPageID      types.PageID
	numWrites       uint64
	size            int64
	dbFileMutex     *sync.Mutex
	reusableSpceIDs []types.PageID
	spaceIDConvMap  map[types.PageID]types.PageID
	deallocedIDMap  map[types.PageID]bool
}

func NewVirtualDiskManagerImpl(dbFilename string) DiskManager {
	file := memfile.New(make([]byte, 0))

	return &VirtualDiskManagerImpl{
		db:              file,
		fileName:        dbFilename,
		nextPageID:      types.PageID(0),
		dbFileMutex:     new(sync.Mutex),
		reusableSpceIDs: make([]types.PageID, 0),
		spaceIDConvMap:  make(map[types.PageID]types.PageID),
		deallocedIDMap:  make(map[types.PageID]bool),
	}
}

// ShutDown closes of the database file
func (d *VirtualDiskManagerImpl) ShutDown() {
	// do nothing
}

// spaceID(pageID) conversion for reuse of file space which is allocated to deallocated page
func (d *VirtualDiskManagerImpl) convToSpaceID(pageID types.PageID) (spaceID types.PageID) {
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		return convedID
	} else {
		return pageID
	}
}

// Write a page to the database file
func (d *VirtualDiskManagerImpl) WritePage(pageId types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	offset := int64(d.convToSpaceID(pageId)) * int64(common.PageSize)
	d.db.WriteAt(pageData, offset)

	if offset >= d.size {
		d.size = offset + int64(len(pageData))
	}

	d.numWrites++
	return nil
}

// Read a page from the database file
func (d *VirtualDiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()

	if _, exist := d.deallocedIDMap[pageID]; exist {
		return types.DeallocatedPageErr
	}

	offset := int64(d.convToSpaceID(pageID)) * int64(common.PageSize)

	//currentSize := int64(len(d.db.Bytes()))
	//if offset > currentSize || offset+int64(len(pageData)) > currentSize {
	//	return errors.New("I/O error past end of file")
	//}

	if offset > d.size || offset+int64(len(pageData)) > d.size {
		return errors.New("I/O error past end of file")
	}

	_, err := d.db.ReadAt(pageData, offset)
	if err != nil {
		fmt.Println(err)
		panic("file read error!")
	}
	return err
}

// AllocatePage allocates a new page
func (d *VirtualDiskManagerImpl) AllocatePage() types.PageID {
	d.dbFileMutex.Lock()

	var ret types.PageID
	ret = d.nextPageID
	if len(d.reusableSpceIDs) > 0 {
		reuseID := d.reusableSpceIDs[0]
		if len(d.reusableSpceIDs) == 1 {
			d.reusableSpceIDs = make([]types.PageID, 0)
		} else {
			d.reusableSpceIDs = d.reusableSpceIDs[1:]
		}
		d.spaceIDConvMap[ret] = reuseID
	}
	d.nextPageID++

	//// extend db file for avoiding later ReadPage and WritePage fails
	//zeroClearedPageData := make([]byte, common.PageSize)
	//
	//d.dbFileMutex.WUnlock()
	//d.WritePage(ret, zeroClearedPageData)
	//d.dbFileMutex.WLock()
	defer d.dbFileMutex.Unlock()

	return ret
}

// DeallocatePage marks pageID deallocated, so a later ReadPage of it
// fails, and queues its file space for reuse by the next AllocatePage.
func (d *VirtualDiskManagerImpl) DeallocatePage(pageID types.PageID) {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	d.deallocedIDMap[pageID] = true
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		d.reusableSpceIDs = append(d.reusableSpceIDs, convedID)
		delete(d.spaceIDConvMap, pageID)
	} else {
		d.reusableSpceIDs = append(d.reusableSpceIDs, pageID)
	}

}

// GetNumWrites returns the number of disk writes
func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the size of the file in disk
func (d *VirtualDiskManagerImpl) Size() int64 {
	d.dbFileMutex.Lock()
	defer d.dbFileMutex.Unlock()
	return d.size
}

// ATTENTION: this method can be call after calling of Shutdown method
func (d *VirtualDiskManagerImpl) RemoveDBFile() {
	// do nothing
}

// ATTENTION: this method can be call after calling of Shutdown method
func (d *VirtualDiskManagerImpl) RemoveLogFile() {
	// do nothing
}
