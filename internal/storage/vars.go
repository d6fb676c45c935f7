package storage

import (
	"errors"
)

const (
	OneKB = 1 << 10 // 1,024

	DefaultPageSize = 4 * OneKB // 4,096 (4 KiB)
	DefaultMaxPages = 100
)

const (
	FileMode0600 = 0o600 // rw-------
)

var (
	ErrPageOutOfBounds  = errors.New("storage: page number out of bounds")
	ErrPageNotResident  = errors.New("storage: flush of non-resident page")
	ErrInvalidFlushSize = errors.New("storage: invalid flush size")
	ErrInvalidPageSize  = errors.New("storage: invalid page size")
	ErrStorageIO        = errors.New("storage: I/O error")
	ErrPagerClosed      = errors.New("storage: pager is closed")
)
