// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

// NewDiskManagerTest returns a DiskManager instance for testing purposes,
// backed by an in-memory memfile.File rather than the filesystem, so
// running the buffer pool/B+ tree/lock manager test suites never touches
// disk.
func NewDiskManagerTest() DiskManager {
	return NewVirtualDiskManagerImpl("test.db")
}
