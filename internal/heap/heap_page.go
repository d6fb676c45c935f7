package heap

import (
	"fmt"

	"github.com/tuannm99/rowdb/internal/record"
)

// HeapPage = page buffer + Layout, row-level wrapper over a raw page.
// Operates on record.Row instead of raw []byte. Slots are fixed size and
// their validity is decided by the table's row count, not the page.
type HeapPage struct {
	Buf    []byte
	Layout record.Layout
}

func NewHeapPage(buf []byte, l record.Layout) HeapPage {
	return HeapPage{Buf: buf, Layout: l}
}

// NumSlots is the number of rows that fit in the page.
func (hp HeapPage) NumSlots() int {
	return len(hp.Buf) / hp.Layout.RowSize()
}

func (hp HeapPage) slot(slot int) ([]byte, error) {
	if slot < 0 || slot >= hp.NumSlots() {
		return nil, fmt.Errorf("heap: slot %d out of range [0,%d)", slot, hp.NumSlots())
	}
	off := slot * hp.Layout.RowSize()
	return hp.Buf[off : off+hp.Layout.RowSize()], nil
}

func (hp HeapPage) WriteRow(slot int, r record.Row) error {
	dst, err := hp.slot(slot)
	if err != nil {
		return err
	}
	return record.EncodeInto(hp.Layout, dst, r)
}

func (hp HeapPage) ReadRow(slot int) (record.Row, error) {
	src, err := hp.slot(slot)
	if err != nil {
		return record.Row{}, err
	}
	return record.Decode(hp.Layout, src)
}
