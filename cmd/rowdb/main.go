package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/tuannm99/rowdb/internal"
	"github.com/tuannm99/rowdb/internal/engine"
	"github.com/tuannm99/rowdb/internal/repl"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("rowdb", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: rowdb [flags] <db-file>\n")
		fs.PrintDefaults()
	}
	internal.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("must supply a database filename")
	}
	filename := fs.Arg(0)

	cfgPath, _ := fs.GetString("config")
	cfg, err := internal.LoadConfig(cfgPath, fs)
	if err != nil {
		return err
	}

	logger, err := internal.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	logger = logger.With("app", cfg.AppName)
	slog.SetDefault(logger)

	db, err := engine.Open(filename, cfg.EngineOptions())
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", filename, err)
	}

	hist := repl.NewHistory(cfg.REPL.HistoryFile)
	if err := hist.Load(cfg.REPL.HistoryMax); err != nil {
		logger.Warn("load history", "path", cfg.REPL.HistoryFile, "err", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.REPL.Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
	})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// preload history into readline (so ↑ works immediately)
	for _, line := range hist.Lines() {
		_ = rl.SaveHistory(line)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	// Closing readline unblocks Readline with io.EOF, so the session
	// still flushes the database on SIGTERM.
	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()

	session, err := repl.NewSession(db, hist, rl.Stdout())
	if err != nil {
		_ = db.Close()
		return err
	}
	return session.Run(ctx, rl)
}
