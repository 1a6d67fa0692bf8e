package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	lox "github.com/xirelogy/go-lox"
)

const appName = "lox"

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitData     = 65
	exitNoInput  = 66
	exitSoftware = 70
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	code := fs.String("e", "", "run `code` instead of a script file")
	dumpAST := fs.Bool("ast", false, "print the parsed program as S-expressions instead of running it")
	configPath := fs.String("config", "", "config file `path` (default $HOME/.lox/config.yaml)")
	logLevel := fs.String("log-level", "", "log `level`: debug, info, warn or error (overrides the config file)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [script]\n\nWith no script, starts a REPL on a terminal or runs standard input.\n\nFlags:\n", appName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 1 || (*code != "" && fs.NArg() > 0) {
		fs.Usage()
		return exitUsage
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "%s: invalid log level %q\n", appName, cfg.LogLevel)
		return exitUsage
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	runner := lox.NewRunner()
	runner.SetOutput(stdout)
	runner.SetLogger(logger)
	runner.SetReporter(newReporter(stderr, cfg.Color && isTerminal(stderr)))

	switch {
	case *code != "":
		return execute(runner, *code, *dumpAST, stdout)
	case fs.NArg() == 1:
		path := fs.Arg(0)
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: cannot read %s: %v\n", appName, path, err)
			return exitNoInput
		}
		logger.Debug("run file", slog.String("path", path), slog.Int("bytes", len(src)))
		return execute(runner, string(src), *dumpAST, stdout)
	case isTerminal(stdin) && !*dumpAST:
		return runREPL(runner, cfg, stdout, stderr)
	default:
		src, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "%s: cannot read standard input: %v\n", appName, err)
			return exitNoInput
		}
		return execute(runner, string(src), *dumpAST, stdout)
	}
}

func execute(r *lox.Runner, src string, dumpAST bool, stdout io.Writer) int {
	if dumpAST {
		out, err := r.DumpAST(src)
		if err != nil {
			return exitCode(err)
		}
		fmt.Fprint(stdout, out)
		return exitOK
	}
	return exitCode(r.Run(src))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *lox.CompileError
	if errors.As(err, &ce) {
		return exitData
	}
	return exitSoftware
}

// newReporter prints diagnostics to w as they are produced.
func newReporter(w io.Writer, color bool) lox.Reporter {
	paint := func(s string) string { return s }
	if color {
		paint = red
	}
	return lox.ReporterFuncs{
		Static: func(d lox.Diagnostic) {
			fmt.Fprintln(w, paint(d.Text))
		},
		Runtime: func(e *lox.RuntimeError) {
			fmt.Fprintln(w, paint(e.Error()))
		},
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
