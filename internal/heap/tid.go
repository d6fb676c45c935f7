package heap

// Addr is the physical location of a row:
// PageID: page number in the file
// Offset: byte offset of the row inside that page
type Addr struct {
	PageID uint32
	Offset int
}

// Slot is the row's index inside its page.
func (a Addr) Slot(rowSize int) int {
	return a.Offset / rowSize
}
