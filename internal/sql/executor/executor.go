package executor

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/tuannm99/rowdb/internal/heap"
	"github.com/tuannm99/rowdb/internal/record"
	"github.com/tuannm99/rowdb/internal/sql/parser"
)

// rowStore is a small seam for unit-testing Executor without a real table.
type rowStore interface {
	Insert(r record.Row) error
	SelectAll() iter.Seq2[record.Row, error]
	Layout() record.Layout
}

var _ rowStore = (*heap.Table)(nil)

// Executor runs parsed statements against one table.
type Executor struct {
	Table rowStore
}

func NewExecutor(tbl *heap.Table) *Executor {
	return &Executor{Table: tbl}
}

// ExecLine is the top-level entry: input line -> Result.
func (e *Executor) ExecLine(line string) (*Result, error) {
	stmt, err := parser.Parse(line, e.Table.Layout())
	if err != nil {
		return nil, err
	}
	return e.Exec(stmt)
}

func (e *Executor) Exec(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	default:
		return nil, fmt.Errorf("executor: unsupported statement type %T", stmt)
	}
}

func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	if err := e.Table.Insert(s.Row); err != nil {
		return nil, err
	}
	slog.Debug("executor: inserted row", "id", s.Row.ID)
	return &Result{AffectedRows: 1}, nil
}

func (e *Executor) execSelect(_ *parser.SelectStmt) (*Result, error) {
	res := &Result{}
	for r, err := range e.Table.SelectAll() {
		if err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, r)
	}
	res.AffectedRows = int64(len(res.Rows))
	return res, nil
}
