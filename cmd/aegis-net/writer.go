package main

import (
	"log/slog"
	"os"

	"golang.org/x/term"

	"aegis-net/internal/config"
	"aegis-net/internal/observability"
	"aegis-net/internal/sink"
)

var stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

type writerOptions struct {
	printOnly bool
	tui       bool
	logFile   string
	metrics   *observability.Collector
}

// newWriters sets up the result sink from flags and config. The cleanup
// function closes log files and, for the TUI, blocks until the user quits.
func newWriters(cfg *config.Config, opts writerOptions, log *slog.Logger) (sink.Writer, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(cfg, opts, log)
	if err != nil {
		return nil, nil, err
	}
	if tw, ok := writer.(*sink.TUIWriter); ok {
		cleanup = func() { <-tw.Done() }
	}

	if opts.logFile != "" {
		fw, err := sink.NewFileWriter(opts.logFile, opts.logFile+".deflections")
		if err != nil {
			return nil, nil, err
		}
		writer = sink.NewMultiWriter(writer, fw)
		prev := cleanup
		cleanup = func() {
			prev()
			if err := fw.Close(); err != nil {
				log.Warn("close log file", "err", err)
			}
		}
	}

	if opts.metrics != nil {
		writer = sink.NewCountingWriter(writer, opts.metrics)
	}
	return writer, cleanup, nil
}

// baseWriter chooses between GreptimeDB, the TUI and STDOUT. STDOUT rows are
// colored when attached to a terminal and JSON otherwise.
func baseWriter(cfg *config.Config, opts writerOptions, log *slog.Logger) (sink.Writer, error) {
	if !opts.printOnly && cfg != nil && cfg.Greptime.Endpoint != "" {
		log.Info("writing results to greptimedb", "endpoint", cfg.Greptime.Endpoint, "database", cfg.Greptime.Database)
		return sink.NewGreptimeDBWriter(cfg.Greptime, log)
	}
	if opts.tui {
		return sink.NewTUIWriter(), nil
	}
	if stdoutIsTerminal() {
		return sink.NewColorStdoutWriter(), nil
	}
	return sink.NewJSONStdoutWriter(), nil
}
