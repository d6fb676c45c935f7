package executor

import "github.com/tuannm99/rowdb/internal/record"

// Result is the generic statement result returned to the caller.
type Result struct {
	Rows []record.Row

	// For INSERT:
	AffectedRows int64
}
