package parser

import "github.com/tuannm99/rowdb/internal/record"

// Statement is the root interface for all statements.
type Statement interface {
	stmtNode()
}

// ----- INSERT -----
type InsertStmt struct {
	Row record.Row
}

func (*InsertStmt) stmtNode() {}

// ----- SELECT -----
type SelectStmt struct{}

func (*SelectStmt) stmtNode() {}
