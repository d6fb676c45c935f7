package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLittleEndianU32 verifies PutU32/U32 round-trip using little-endian encoding.
func TestLittleEndianU32(t *testing.T) {
	b := make([]byte, 4)
	var v uint32 = 0x01020304

	PutU32(b, v)
	// LE: 04 03 02 01
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b)
	assert.Equal(t, v, U32(b))
}

// TestLittleEndianAt verifies the *At variants that work with an offset
// into a larger buffer (the row slot inside a page).
func TestLittleEndianAt(t *testing.T) {
	buf := make([]byte, 12)

	PutU32At(buf, 4, 0xDEADBEEF)

	assert.Equal(t, []byte{0, 0, 0, 0}, buf[:4])
	assert.Equal(t, uint32(0xDEADBEEF), U32At(buf, 4))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[8:])
}

func TestPutFixed_PadsWithZeros(t *testing.T) {
	buf := []byte("xxxxxxxxxx")

	ok := PutFixed(buf, 2, 6, "abc")
	require.True(t, ok)

	// bytes outside the field are untouched, the field tail is zeroed
	assert.Equal(t, []byte{'x', 'x', 'a', 'b', 'c', 0, 0, 0, 'x', 'x'}, buf)
	assert.Equal(t, "abc", Fixed(buf, 2, 6))
}

func TestPutFixed_TooLong(t *testing.T) {
	buf := make([]byte, 4)

	ok := PutFixed(buf, 0, 4, "abcde")
	require.False(t, ok)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestPutFixed_ExactWidth(t *testing.T) {
	buf := make([]byte, 4)

	require.True(t, PutFixed(buf, 0, 4, "abcd"))
	assert.Equal(t, "abcd", Fixed(buf, 0, 4))
}

func TestFixed_NoTerminator(t *testing.T) {
	buf := []byte("abcd")
	assert.Equal(t, "abcd", Fixed(buf, 0, 4))
	assert.Equal(t, "bc", Fixed(buf, 1, 2))
}
