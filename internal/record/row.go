package record

import (
	"errors"
	"fmt"

	"github.com/tuannm99/rowdb/internal/alias/bx"
)

var (
	ErrStringTooLong = errors.New("record: string is too long")
	ErrBadBuffer     = errors.New("record: buffer shorter than row size")
)

// Row is the single fixed schema stored by the table.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}

// Validate checks that both string fields fit their capacity.
func (r Row) Validate(l Layout) error {
	if len(r.Username) > l.UsernameCap {
		return fmt.Errorf("%w: username %d > %d bytes", ErrStringTooLong, len(r.Username), l.UsernameCap)
	}
	if len(r.Email) > l.EmailCap {
		return fmt.Errorf("%w: email %d > %d bytes", ErrStringTooLong, len(r.Email), l.EmailCap)
	}
	return nil
}

// Encode returns a fresh l.RowSize() byte encoding of r.
func Encode(l Layout, r Row) ([]byte, error) {
	out := make([]byte, l.RowSize())
	if err := EncodeInto(l, out, r); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeInto writes r into dst[:l.RowSize()].
// Format: [id u32 LE][username, zero padded][email, zero padded]
func EncodeInto(l Layout, dst []byte, r Row) error {
	if len(dst) < l.RowSize() {
		return ErrBadBuffer
	}
	if err := r.Validate(l); err != nil {
		return err
	}

	bx.PutU32At(dst, l.IDOffset(), r.ID)
	if !bx.PutFixed(dst, l.UsernameOffset(), l.UsernameSize(), r.Username) {
		return fmt.Errorf("%w: username", ErrStringTooLong)
	}
	if !bx.PutFixed(dst, l.EmailOffset(), l.EmailSize(), r.Email) {
		return fmt.Errorf("%w: email", ErrStringTooLong)
	}
	return nil
}

// Decode reads a row from src[:l.RowSize()]. Strings stop at the first NUL
// inside their field.
func Decode(l Layout, src []byte) (Row, error) {
	if len(src) < l.RowSize() {
		return Row{}, ErrBadBuffer
	}
	return Row{
		ID:       bx.U32At(src, l.IDOffset()),
		Username: bx.Fixed(src, l.UsernameOffset(), l.UsernameSize()),
		Email:    bx.Fixed(src, l.EmailOffset(), l.EmailSize()),
	}, nil
}
