package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/rowdb/internal/record"
)

var (
	ErrSyntax        = errors.New("parser: syntax error")
	ErrNegativeID    = errors.New("parser: negative id")
	ErrStringTooLong = errors.New("parser: string is too long")
	ErrUnrecognized  = errors.New("parser: unrecognized statement")
)

// Parse parses one input line into a statement.
//
//	insert <id> <username> <email>
//	select
//
// Tokens after the email are ignored.
func Parse(line string, l record.Layout) (Statement, error) {
	s := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(s, "insert"):
		return parseInsert(s, l)
	case s == "select":
		return &SelectStmt{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
}

func parseInsert(s string, l record.Layout) (Statement, error) {
	fields := strings.Fields(s)
	if fields[0] != "insert" || len(fields) < 4 {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	idStr, username, email := fields[1], fields[2], fields[3]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id %q", ErrSyntax, idStr)
	}
	if id < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeID, id)
	}
	if id > int64(^uint32(0)) {
		return nil, fmt.Errorf("%w: id %d out of range", ErrSyntax, id)
	}

	if len(username) > l.UsernameCap {
		return nil, fmt.Errorf("%w: username %d > %d bytes", ErrStringTooLong, len(username), l.UsernameCap)
	}
	if len(email) > l.EmailCap {
		return nil, fmt.Errorf("%w: email %d > %d bytes", ErrStringTooLong, len(email), l.EmailCap)
	}

	return &InsertStmt{Row: record.Row{ID: uint32(id), Username: username, Email: email}}, nil
}
