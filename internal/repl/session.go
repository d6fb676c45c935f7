package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"

	"github.com/tuannm99/rowdb/internal/engine"
	"github.com/tuannm99/rowdb/internal/heap"
	"github.com/tuannm99/rowdb/internal/record"
	"github.com/tuannm99/rowdb/internal/sql/executor"
	"github.com/tuannm99/rowdb/internal/sql/parser"
)

// LineReader yields one input line per call. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
}

// historySaver is the optional in-memory history of the line reader.
type historySaver interface {
	SaveHistory(content string) error
}

// Session runs the command loop against one open database.
type Session struct {
	DB      *engine.DB
	Exec    *executor.Executor
	History *History
	Out     io.Writer
}

func NewSession(db *engine.DB, hist *History, out io.Writer) (*Session, error) {
	tbl, err := db.Table()
	if err != nil {
		return nil, err
	}
	if hist == nil {
		hist = NewHistory("")
	}
	return &Session{
		DB:      db,
		Exec:    executor.NewExecutor(tbl),
		History: hist,
		Out:     out,
	}, nil
}

// Run reads lines until .exit, end of input or ctx is done, then closes
// the database. The returned error is the close error, or a read error.
func (s *Session) Run(ctx context.Context, lr LineReader) error {
	for {
		if ctx.Err() != nil {
			return s.close()
		}

		line, err := lr.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C drops the current line
			continue
		}
		if errors.Is(err, io.EOF) || (err != nil && ctx.Err() != nil) {
			return s.close()
		}
		if err != nil {
			cerr := s.close()
			return errors.Join(fmt.Errorf("read input: %w", err), cerr)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if s.doMetaCommand(line) {
				return s.close()
			}
			continue
		}

		if err := s.History.Append(line); err != nil {
			slog.Warn("repl: append history", "err", err)
		}
		if hs, ok := lr.(historySaver); ok {
			_ = hs.SaveHistory(line)
		}

		s.execute(line)
	}
}

func (s *Session) close() error {
	if err := s.DB.Close(); err != nil && !errors.Is(err, engine.ErrDatabaseClosed) {
		return err
	}
	return nil
}

func (s *Session) execute(line string) {
	res, err := s.Exec.ExecLine(line)
	if err != nil {
		fmt.Fprintln(s.Out, errorMessage(line, err))
		return
	}
	for _, r := range res.Rows {
		fmt.Fprintln(s.Out, r.String())
	}
	fmt.Fprintln(s.Out, "Executed.")
}

func errorMessage(line string, err error) string {
	switch {
	case errors.Is(err, parser.ErrNegativeID):
		return "ID must be positive."
	case errors.Is(err, parser.ErrStringTooLong), errors.Is(err, record.ErrStringTooLong):
		return "String is too long."
	case errors.Is(err, parser.ErrSyntax):
		return "Syntax error. Could not parse statement."
	case errors.Is(err, parser.ErrUnrecognized):
		return fmt.Sprintf("Unrecognized keyword at start of '%s'.", line)
	case errors.Is(err, heap.ErrTableFull):
		return "Error: Table full."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

const helpText = `meta commands:
  .exit        write all rows to disk and quit
  .stats       row count, pages and file size
  .constants   row layout and page geometry
  .history     last 50 statements
  .help        show help

statements:
  insert <id> <username> <email>
  select`

// doMetaCommand handles a line starting with '.' and reports whether the session should end.
func (s *Session) doMetaCommand(line string) bool {
	switch line {
	case ".exit":
		return true
	case ".help":
		fmt.Fprintln(s.Out, helpText)
	case ".history":
		s.History.Print(s.Out, 50)
	case ".stats":
		s.printStats()
	case ".constants":
		s.printConstants()
	default:
		fmt.Fprintf(s.Out, "Unrecognized command '%s'\n", line)
	}
	return false
}

func (s *Session) printStats() {
	st, err := s.DB.Stats()
	if err != nil {
		fmt.Fprintf(s.Out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.Out, "rows:           %s / %s (%d per page)\n",
		humanize.Comma(int64(st.Rows)), humanize.Comma(int64(st.MaxRows)), st.RowsPerPage)
	fmt.Fprintf(s.Out, "resident pages: %d / %d\n", st.ResidentPages, st.MaxPages)
	fmt.Fprintf(s.Out, "file size:      %s at open, %s after close\n",
		humanize.IBytes(uint64(st.FileLength)), humanize.IBytes(uint64(st.DataLength)))
}

func (s *Session) printConstants() {
	st, err := s.DB.Stats()
	if err != nil {
		fmt.Fprintf(s.Out, "Error: %v\n", err)
		return
	}
	l := s.Exec.Table.Layout()
	fmt.Fprintln(s.Out, "Constants:")
	fmt.Fprintf(s.Out, "ROW_SIZE: %d\n", l.RowSize())
	fmt.Fprintf(s.Out, "ID_SIZE: %d\n", record.IDSize)
	fmt.Fprintf(s.Out, "USERNAME_SIZE: %d\n", l.UsernameSize())
	fmt.Fprintf(s.Out, "EMAIL_SIZE: %d\n", l.EmailSize())
	fmt.Fprintf(s.Out, "USERNAME_OFFSET: %d\n", l.UsernameOffset())
	fmt.Fprintf(s.Out, "EMAIL_OFFSET: %d\n", l.EmailOffset())
	fmt.Fprintf(s.Out, "PAGE_SIZE: %d\n", st.PageSize)
	fmt.Fprintf(s.Out, "ROWS_PER_PAGE: %d\n", st.RowsPerPage)
	fmt.Fprintf(s.Out, "TABLE_MAX_PAGES: %d\n", st.MaxPages)
	fmt.Fprintf(s.Out, "TABLE_MAX_ROWS: %d\n", st.MaxRows)
}
