package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/rowdb/internal/record"
)

func TestParse_Insert(t *testing.T) {
	stmt, err := Parse("insert 1 user1 person1@example.com", record.DefaultLayout)
	require.NoError(t, err)

	s, ok := stmt.(*InsertStmt)
	require.True(t, ok, "want *InsertStmt, got %T", stmt)
	assert.Equal(t, record.Row{ID: 1, Username: "user1", Email: "person1@example.com"}, s.Row)
}

func TestParse_Insert_ExtraWhitespaceAndTokens(t *testing.T) {
	stmt, err := Parse("  insert   7\tbob  bob@x.io trailing junk ", record.DefaultLayout)
	require.NoError(t, err)

	s := stmt.(*InsertStmt)
	assert.Equal(t, record.Row{ID: 7, Username: "bob", Email: "bob@x.io"}, s.Row)
}

func TestParse_Insert_MaxLengthStrings(t *testing.T) {
	u := strings.Repeat("a", 32)
	e := strings.Repeat("a", 255)

	stmt, err := Parse("insert 1 "+u+" "+e, record.DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, u, stmt.(*InsertStmt).Row.Username)
	assert.Equal(t, e, stmt.(*InsertStmt).Row.Email)
}

func TestParse_Insert_StringTooLong(t *testing.T) {
	_, err := Parse("insert 1 "+strings.Repeat("a", 33)+" e", record.DefaultLayout)
	require.ErrorIs(t, err, ErrStringTooLong)

	_, err = Parse("insert 1 u "+strings.Repeat("a", 256), record.DefaultLayout)
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestParse_Insert_NegativeID(t *testing.T) {
	_, err := Parse("insert -1 cstack foo@bar.com", record.DefaultLayout)
	require.ErrorIs(t, err, ErrNegativeID)
}

func TestParse_Insert_SyntaxErrors(t *testing.T) {
	cases := []string{
		"insert",
		"insert 1",
		"insert 1 user",
		"insert abc user e@x",
		"insert 4294967296 user e@x",
		"inserted 1 user e@x",
	}
	for _, c := range cases {
		_, err := Parse(c, record.DefaultLayout)
		require.ErrorIs(t, err, ErrSyntax, "input %q", c)
	}
}

func TestParse_Insert_MaxID(t *testing.T) {
	stmt, err := Parse("insert 4294967295 u e", record.DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), stmt.(*InsertStmt).Row.ID)
}

func TestParse_Select(t *testing.T) {
	stmt, err := Parse(" select ", record.DefaultLayout)
	require.NoError(t, err)

	_, ok := stmt.(*SelectStmt)
	require.True(t, ok, "want *SelectStmt, got %T", stmt)
}

func TestParse_Unrecognized(t *testing.T) {
	for _, c := range []string{"", "foo", "select *", "SELECT", "delete 1"} {
		_, err := Parse(c, record.DefaultLayout)
		require.ErrorIs(t, err, ErrUnrecognized, "input %q", c)
	}
}
