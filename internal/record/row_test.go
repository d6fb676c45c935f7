package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_Default(t *testing.T) {
	l := DefaultLayout

	assert.Equal(t, 293, l.RowSize())
	assert.Equal(t, 0, l.IDOffset())
	assert.Equal(t, 4, l.UsernameOffset())
	assert.Equal(t, 33, l.UsernameSize())
	assert.Equal(t, 37, l.EmailOffset())
	assert.Equal(t, 256, l.EmailSize())
}

func TestEncodeDecodeRow_RoundTrip(t *testing.T) {
	rows := []Row{
		{ID: 1, Username: "alice", Email: "alice@example.com"},
		{ID: 0, Username: "", Email: ""},
		{ID: 4294967295, Username: strings.Repeat("u", 32), Email: strings.Repeat("e", 255)},
	}

	for _, r := range rows {
		buf, err := Encode(DefaultLayout, r)
		require.NoError(t, err)
		require.Len(t, buf, DefaultLayout.RowSize())

		got, err := Decode(DefaultLayout, buf)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestEncodeRow_ByteLayout(t *testing.T) {
	buf, err := Encode(DefaultLayout, Row{ID: 0x01020304, Username: "ab", Email: "c"})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf[0:4])
	assert.Equal(t, []byte{'a', 'b', 0}, buf[4:7])
	assert.Equal(t, byte('c'), buf[37])

	// everything after the written bytes is padding
	for i := 38; i < len(buf); i++ {
		require.Zero(t, buf[i], "byte %d", i)
	}
}

func TestEncodeInto_OverwritesSlot(t *testing.T) {
	buf := make([]byte, DefaultLayout.RowSize()+3)
	for i := range buf {
		buf[i] = 0xFF
	}

	require.NoError(t, EncodeInto(DefaultLayout, buf, Row{ID: 7, Username: "bob", Email: "b@x"}))

	got, err := Decode(DefaultLayout, buf)
	require.NoError(t, err)
	assert.Equal(t, Row{ID: 7, Username: "bob", Email: "b@x"}, got)

	// bytes past the row stride are not touched
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, buf[DefaultLayout.RowSize():])
}

func TestEncodeRow_StringTooLong(t *testing.T) {
	_, err := Encode(DefaultLayout, Row{ID: 1, Username: strings.Repeat("u", 33), Email: "e"})
	require.ErrorIs(t, err, ErrStringTooLong)

	_, err = Encode(DefaultLayout, Row{ID: 1, Username: "u", Email: strings.Repeat("e", 256)})
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestEncodeInto_TooLongLeavesSlotUntouched(t *testing.T) {
	buf := make([]byte, DefaultLayout.RowSize())
	for i := range buf {
		buf[i] = 0xAB
	}
	before := append([]byte(nil), buf...)

	err := EncodeInto(DefaultLayout, buf, Row{ID: 1, Username: "u", Email: strings.Repeat("e", 256)})
	require.ErrorIs(t, err, ErrStringTooLong)
	assert.Equal(t, before, buf)

	// a layout whose field has no room for the terminator still fails cleanly
	l := Layout{UsernameCap: 0, EmailCap: 0}
	err = EncodeInto(l, make([]byte, l.RowSize()), Row{ID: 1, Username: "x"})
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestEncodeDecode_BadBuffer(t *testing.T) {
	short := make([]byte, DefaultLayout.RowSize()-1)

	err := EncodeInto(DefaultLayout, short, Row{ID: 1})
	require.ErrorIs(t, err, ErrBadBuffer)

	_, err = Decode(DefaultLayout, short)
	require.ErrorIs(t, err, ErrBadBuffer)
}

func TestLayout_Custom(t *testing.T) {
	l := Layout{UsernameCap: 7, EmailCap: 15}
	require.Equal(t, 4+8+16, l.RowSize())

	r := Row{ID: 9, Username: "seven77", Email: "fifteen-chars!!"}
	buf, err := Encode(l, r)
	require.NoError(t, err)

	got, err := Decode(l, buf)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestRow_String(t *testing.T) {
	assert.Equal(t, "(1, user1, person1@example.com)",
		Row{ID: 1, Username: "user1", Email: "person1@example.com"}.String())
}
