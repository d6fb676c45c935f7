package heap

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/tuannm99/rowdb/internal/record"
)

var (
	ErrTableFull        = errors.New("heap: table full")
	ErrPageTooSmall     = errors.New("heap: page smaller than one row")
	ErrCapacityOverflow = errors.New("heap: row capacity exceeds uint32")
)

// PageSource lends page buffers by page number. *storage.Pager implements it.
type PageSource interface {
	GetPage(pageNum uint32) ([]byte, error)
	PageSize() int
	MaxPages() int
}

// Table is an append-only heap of fixed-size rows. Row i lives at
// page i/RowsPerPage, slot i%RowsPerPage; there is no per-row header.
type Table struct {
	pages       PageSource
	layout      record.Layout
	rowsPerPage uint32
	maxRows     uint32
	numRows     uint32
}

func NewTable(pages PageSource, l record.Layout, numRows uint32) (*Table, error) {
	rowsPerPage := pages.PageSize() / l.RowSize()
	if rowsPerPage <= 0 {
		return nil, fmt.Errorf("%w: page %d, row %d", ErrPageTooSmall, pages.PageSize(), l.RowSize())
	}
	maxRows := uint64(rowsPerPage) * uint64(max(pages.MaxPages(), 0))
	if maxRows > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d rows per page * %d pages",
			ErrCapacityOverflow, rowsPerPage, pages.MaxPages())
	}
	return &Table{
		pages:       pages,
		layout:      l,
		rowsPerPage: uint32(rowsPerPage),
		maxRows:     uint32(maxRows),
		numRows:     numRows,
	}, nil
}

func (t *Table) NumRows() uint32       { return t.numRows }
func (t *Table) RowsPerPage() uint32   { return t.rowsPerPage }
func (t *Table) MaxRows() uint32       { return t.maxRows }
func (t *Table) Layout() record.Layout { return t.layout }

// RowAddress maps a row index to its page and in-page byte offset.
func (t *Table) RowAddress(rowNum uint32) Addr {
	return Addr{
		PageID: rowNum / t.rowsPerPage,
		Offset: int(rowNum%t.rowsPerPage) * t.layout.RowSize(),
	}
}

func (t *Table) page(a Addr) (HeapPage, error) {
	buf, err := t.pages.GetPage(a.PageID)
	if err != nil {
		return HeapPage{}, err
	}
	return NewHeapPage(buf, t.layout), nil
}

// Insert appends r after the last row.
func (t *Table) Insert(r record.Row) error {
	if t.numRows >= t.maxRows {
		return fmt.Errorf("%w: %d rows", ErrTableFull, t.maxRows)
	}

	a := t.RowAddress(t.numRows)
	hp, err := t.page(a)
	if err != nil {
		return err
	}
	if err := hp.WriteRow(a.Slot(t.layout.RowSize()), r); err != nil {
		return err
	}

	t.numRows++
	return nil
}

// Get reads the row at index rowNum.
func (t *Table) Get(rowNum uint32) (record.Row, error) {
	if rowNum >= t.numRows {
		return record.Row{}, fmt.Errorf("heap: row %d out of range [0,%d)", rowNum, t.numRows)
	}
	a := t.RowAddress(rowNum)
	hp, err := t.page(a)
	if err != nil {
		return record.Row{}, err
	}
	return hp.ReadRow(a.Slot(t.layout.RowSize()))
}

// Scan visits every row in insertion order and stops at the first error.
func (t *Table) Scan(fn func(rowNum uint32, r record.Row) error) error {
	for i := uint32(0); i < t.numRows; i++ {
		r, err := t.Get(i)
		if err != nil {
			return err
		}
		if err := fn(i, r); err != nil {
			return err
		}
	}
	return nil
}

// SelectAll returns every row in insertion order. Each iteration rescans
// from the first row; a read error is yielded once and ends the sequence.
func (t *Table) SelectAll() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		n := t.numRows
		for i := uint32(0); i < n; i++ {
			r, err := t.Get(i)
			if err != nil {
				yield(record.Row{}, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}
