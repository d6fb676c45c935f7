package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/tuannm99/rowdb/internal/heap"
	"github.com/tuannm99/rowdb/internal/record"
	"github.com/tuannm99/rowdb/internal/storage"
)

var (
	ErrDatabaseClosed = errors.New("rowdb: database is closed")
	ErrCorruptFile    = errors.New("rowdb: corrupt database file")
	ErrBadOptions     = errors.New("rowdb: invalid options")
)

// Options controls the file geometry. Zero values fall back to defaults.
type Options struct {
	PageSize int
	MaxPages int
	Layout   record.Layout

	// Strict rejects a file whose length is not a multiple of the row size
	// instead of ignoring the trailing partial row.
	Strict bool
}

func (o Options) withDefaults() Options {
	if o.PageSize == 0 {
		o.PageSize = storage.DefaultPageSize
	}
	if o.MaxPages == 0 {
		o.MaxPages = storage.DefaultMaxPages
	}
	if o.Layout == (record.Layout{}) {
		o.Layout = record.DefaultLayout
	}
	return o
}

func (o Options) validate() error {
	if o.PageSize < 0 || o.MaxPages < 0 {
		return fmt.Errorf("%w: page_size=%d max_pages=%d", ErrBadOptions, o.PageSize, o.MaxPages)
	}
	if o.Layout.UsernameCap < 0 || o.Layout.EmailCap < 0 {
		return fmt.Errorf("%w: negative field capacity", ErrBadOptions)
	}
	if o.PageSize < o.Layout.RowSize() {
		return fmt.Errorf("%w: page size %d smaller than row size %d",
			ErrBadOptions, o.PageSize, o.Layout.RowSize())
	}
	rowsPerPage := o.PageSize / o.Layout.RowSize()
	if uint64(rowsPerPage)*uint64(o.MaxPages) > math.MaxUint32 {
		return fmt.Errorf("%w: %d rows per page * %d pages exceeds %d rows",
			ErrBadOptions, rowsPerPage, o.MaxPages, uint32(math.MaxUint32))
	}
	return nil
}

// DB is one open database file holding a single table.
type DB struct {
	path   string
	opts   Options
	pager  *storage.Pager
	table  *heap.Table
	layout record.Layout
	closed bool
}

// Open opens the database at path and derives the row count from the file length.
func Open(path string, opts Options) (*DB, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// Pages are stored packed: only whole rows, no tail padding, so the file
	// stays a flat run of rows and page n starts at n*rowsPerPage*rowSize.
	rowsPerPage := opts.PageSize / opts.Layout.RowSize()
	pager, err := storage.Open(path, rowsPerPage*opts.Layout.RowSize(), opts.MaxPages)
	if err != nil {
		return nil, err
	}

	rowSize := int64(opts.Layout.RowSize())
	fileLen := pager.FileLength()
	if rem := fileLen % rowSize; rem != 0 {
		if opts.Strict {
			_ = pager.Close()
			return nil, fmt.Errorf("%w: length %d is not a multiple of row size %d",
				ErrCorruptFile, fileLen, rowSize)
		}
		slog.Warn("open: ignoring trailing partial row",
			"path", path, "file_len", fileLen, "dangling_bytes", rem)
	}

	numRows := fileLen / rowSize
	table, err := heap.NewTable(pager, opts.Layout, uint32(min(numRows, int64(math.MaxUint32))))
	if err != nil {
		_ = pager.Close()
		return nil, fmt.Errorf("%w: %w", ErrBadOptions, err)
	}
	if numRows > int64(table.MaxRows()) {
		_ = pager.Close()
		return nil, fmt.Errorf("%w: %d rows exceed capacity %d",
			ErrCorruptFile, numRows, table.MaxRows())
	}

	slog.Debug("open: database", "path", path, "rows", numRows,
		"rows_per_page", table.RowsPerPage(), "max_rows", table.MaxRows())

	return &DB{
		path:   path,
		opts:   opts,
		pager:  pager,
		table:  table,
		layout: opts.Layout,
	}, nil
}

// Table returns the row store, or ErrDatabaseClosed after Close.
func (db *DB) Table() (*heap.Table, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	return db.table, nil
}

func (db *DB) Path() string { return db.path }

// Close writes every populated page back, trimming the last one to the rows
// it holds, then releases all buffers and closes the file.
// Nothing is persisted before Close.
func (db *DB) Close() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	db.closed = true

	err := db.flush()
	if cerr := db.pager.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (db *DB) flush() error {
	numRows := db.table.NumRows()
	rowsPerPage := db.table.RowsPerPage()
	rowSize := db.layout.RowSize()

	fullPages := numRows / rowsPerPage
	for pageNum := uint32(0); pageNum < fullPages; pageNum++ {
		if !db.pager.Resident(pageNum) {
			continue
		}
		if err := db.pager.FlushPage(pageNum, db.pager.PageSize()); err != nil {
			return err
		}
		db.pager.Release(pageNum)
	}

	// There may be a partial page at the end of the file.
	if extra := numRows % rowsPerPage; extra > 0 && db.pager.Resident(fullPages) {
		if err := db.pager.FlushPage(fullPages, int(extra)*rowSize); err != nil {
			return err
		}
		db.pager.Release(fullPages)
	}

	// Pages past the last row were read but never written.
	for _, pageNum := range db.pager.ResidentPages() {
		db.pager.Release(pageNum)
	}

	want := int64(numRows) * int64(rowSize)
	if db.pager.FileLength() > want {
		if err := db.pager.Truncate(want); err != nil {
			return err
		}
		slog.Debug("close: truncated file", "path", db.path, "len", want)
	}
	return nil
}

// Stats is a point-in-time summary of the open database.
type Stats struct {
	Rows          uint32
	RowsPerPage   uint32
	MaxRows       uint32
	RowSize       int
	PageSize      int // nominal page size, decides RowsPerPage
	StoredPage    int // bytes one page occupies in the file
	MaxPages      int
	ResidentPages int
	FileLength    int64 // on-disk length when the file was opened
	DataLength    int64 // length the file will have after Close
}

func (db *DB) Stats() (Stats, error) {
	if db.closed {
		return Stats{}, ErrDatabaseClosed
	}
	return Stats{
		Rows:          db.table.NumRows(),
		RowsPerPage:   db.table.RowsPerPage(),
		MaxRows:       db.table.MaxRows(),
		RowSize:       db.layout.RowSize(),
		PageSize:      db.opts.PageSize,
		StoredPage:    db.pager.PageSize(),
		MaxPages:      db.pager.MaxPages(),
		ResidentPages: len(db.pager.ResidentPages()),
		FileLength:    db.pager.FileLength(),
		DataLength:    int64(db.table.NumRows()) * int64(db.layout.RowSize()),
	}, nil
}
