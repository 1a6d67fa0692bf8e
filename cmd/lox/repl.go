package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	lox "github.com/xirelogy/go-lox"
)

const banner = `Lox REPL. Type :help for commands, :quit or Ctrl-D to exit.`

// prompter reads one line of input; *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func runREPL(r *lox.Runner, cfg Config, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath := cfg.HistoryPath(); histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
				return
			}
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			ln.Close()
			os.Exit(130)
		}
	}()

	for {
		code, ok := readByParseProbe(ln, cfg.Prompt, cfg.ContinuationPrompt)
		if !ok {
			fmt.Fprintln(stdout)
			return exitOK
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := handleCommand(r, trimmed, stdout, stderr); quit {
				return exitOK
			}
			continue
		}
		// diagnostics are printed by the reporter
		_ = r.Run(code)
	}
}

// readByParseProbe keeps reading continuation lines while the source parsed
// so far is an incomplete program. It returns false at end of input.
func readByParseProbe(ln prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if strings.TrimSpace(src) != "" && lox.Incomplete(src) {
			continue
		}
		return src, true
	}
}

// handleCommand runs a REPL command line such as ":load file.lox" and reports
// whether the session should end.
func handleCommand(r *lox.Runner, line string, stdout, stderr io.Writer) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		printHelp(stdout)
	case ":reset":
		r.Reset()
		fmt.Fprintln(stdout, "environment reset")
	case ":globals":
		fmt.Fprintln(stdout, strings.Join(r.Globals(), " "))
	case ":load":
		if arg == "" {
			fmt.Fprintln(stderr, "usage: :load <file>")
			return false
		}
		if err := r.RunFile(arg); err != nil {
			var ce *lox.CompileError
			var rte *lox.RuntimeError
			if !errors.As(err, &ce) && !errors.As(err, &rte) {
				fmt.Fprintf(stderr, "cannot load %s: %v\n", arg, err)
			}
		}
	case ":ast":
		if arg == "" {
			fmt.Fprintln(stderr, "usage: :ast <code>")
			return false
		}
		out, err := r.DumpAST(arg)
		if err == nil {
			fmt.Fprint(stdout, out)
		}
	default:
		fmt.Fprintf(stderr, "unknown command %s. Type :help for a list.\n", name)
	}
	return false
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  :help           show this help
  :quit           leave the REPL
  :reset          discard every global definition
  :globals        list global names
  :load <file>    run a script in the current session
  :ast <code>     print the parsed form of code

Native functions:`)
	for _, n := range lox.Natives() {
		fmt.Fprintf(w, "  %s/%d  %s\n", n.Name, n.Arity, n.Doc)
	}
}
