package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
)

// Pager owns the database file and a bounded set of resident page buffers.
// Pages are loaded on first access and stay resident until they are flushed
// and released by the owner. There is no eviction.
type Pager struct {
	file     *os.File          // Database file
	fileLen  int64             // Length of the file when it was opened
	pageSize int               // Size of each page
	maxPages int               // Upper bound on page numbers
	pages    map[uint32][]byte // Resident pages; absent key == not loaded
}

// Open opens (or creates) the database file at path.
func Open(path string, pageSize, maxPages int) (*Pager, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0600)
	if err != nil {
		return nil, fmt.Errorf("open database file: %w", err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("get file info: %w", err)
	}

	slog.Debug("pager: open", "path", path, "file_len", fileInfo.Size(),
		"page_size", pageSize, "max_pages", maxPages)

	return &Pager{
		file:     file,
		fileLen:  fileInfo.Size(),
		pageSize: pageSize,
		maxPages: maxPages,
		pages:    make(map[uint32][]byte),
	}, nil
}

// filePages is the number of pages the file covers, counting a trailing partial page.
func (p *Pager) filePages() int64 {
	n := p.fileLen / int64(p.pageSize)
	if p.fileLen%int64(p.pageSize) != 0 {
		n++
	}
	return n
}

// GetPage returns the resident buffer for pageNum, loading it on a miss.
// The returned slice belongs to the pager; callers must not keep it across operations.
func (p *Pager) GetPage(pageNum uint32) ([]byte, error) {
	if p.pages == nil {
		return nil, ErrPagerClosed
	}
	if int64(pageNum) >= int64(p.maxPages) {
		return nil, fmt.Errorf("%w: %d >= %d", ErrPageOutOfBounds, pageNum, p.maxPages)
	}

	if page, ok := p.pages[pageNum]; ok {
		return page, nil
	}

	// Cache miss. New buffers start zeroed.
	page := make([]byte, p.pageSize)

	if int64(pageNum) < p.filePages() {
		offset := int64(pageNum) * int64(p.pageSize)
		// The last page may be partial; a short read stops at EOF.
		n, err := p.file.ReadAt(page, offset)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read page %d: %w", ErrStorageIO, pageNum, err)
		}
		slog.Debug("pager: loaded page", "page", pageNum, "bytes", n)
	}

	p.pages[pageNum] = page
	return page, nil
}

// FlushPage writes the first n bytes of a resident page back to its file offset.
// n is a full page for interior pages and a partial amount for the last one.
func (p *Pager) FlushPage(pageNum uint32, n int) error {
	if p.pages == nil {
		return ErrPagerClosed
	}
	page, ok := p.pages[pageNum]
	if !ok {
		return fmt.Errorf("%w: page %d", ErrPageNotResident, pageNum)
	}
	if n <= 0 || n > p.pageSize {
		return fmt.Errorf("%w: %d (page size %d)", ErrInvalidFlushSize, n, p.pageSize)
	}

	offset := int64(pageNum) * int64(p.pageSize)
	written, err := p.file.WriteAt(page[:n], offset)
	if err != nil {
		return fmt.Errorf("%w: write page %d: %w", ErrStorageIO, pageNum, err)
	}
	if written != n {
		return fmt.Errorf("%w: write page %d: %w", ErrStorageIO, pageNum, io.ErrShortWrite)
	}

	slog.Debug("pager: flushed page", "page", pageNum, "bytes", n)
	return nil
}

// Release drops a resident page without writing it.
func (p *Pager) Release(pageNum uint32) {
	delete(p.pages, pageNum)
}

// Resident reports whether pageNum is currently loaded.
func (p *Pager) Resident(pageNum uint32) bool {
	_, ok := p.pages[pageNum]
	return ok
}

// ResidentPages returns the loaded page numbers in ascending order.
func (p *Pager) ResidentPages() []uint32 {
	out := make([]uint32, 0, len(p.pages))
	for n := range p.pages {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Truncate shrinks or extends the file to size bytes.
func (p *Pager) Truncate(size int64) error {
	if p.pages == nil {
		return ErrPagerClosed
	}
	if err := p.file.Truncate(size); err != nil {
		return fmt.Errorf("%w: truncate: %w", ErrStorageIO, err)
	}
	return nil
}

// Close releases every buffer and closes the file.
func (p *Pager) Close() error {
	if p.pages == nil {
		return ErrPagerClosed
	}
	p.pages = nil
	if err := p.file.Close(); err != nil {
		return fmt.Errorf("close database file: %w", err)
	}
	return nil
}

// FileLength returns the file length observed at Open.
func (p *Pager) FileLength() int64 { return p.fileLen }

// PageSize returns the size of each page.
func (p *Pager) PageSize() int { return p.pageSize }

// MaxPages returns the page number bound.
func (p *Pager) MaxPages() int { return p.maxPages }
