package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lox "github.com/xirelogy/go-lox"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCLIRunsSnippet(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-e", `print "hi";`)
	if code != exitOK || out != "hi\n" || errOut != "" {
		t.Fatalf("unexpected result %d %q %q", code, out, errOut)
	}
}

func TestCLIRunsFile(t *testing.T) {
	path := writeScript(t, "fun sq(x) { return x * x; }\nprint sq(7);\n")
	code, out, _ := runCLI(t, "", path)
	if code != exitOK || out != "49\n" {
		t.Fatalf("unexpected result %d %q", code, out)
	}
}

func TestCLIReadsPipedStdin(t *testing.T) {
	code, out, _ := runCLI(t, `print 1 + 1;`)
	if code != exitOK || out != "2\n" {
		t.Fatalf("unexpected result %d %q", code, out)
	}
}

func TestCLIExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"static error", []string{"-e", "print ;"}, exitData, "[line 1] Error at ';': Expect expression."},
		{"resolve error", []string{"-e", "return 1;"}, exitData, "Can't return from top-level code."},
		{"runtime error", []string{"-e", "print 1 / 0;"}, exitSoftware, "[line 1] Unable to divide by zero."},
		{"missing file", []string{filepath.Join(os.TempDir(), "no-such-lox-script.lox")}, exitNoInput, "cannot read"},
		{"too many args", []string{"a.lox", "b.lox"}, exitUsage, "Usage:"},
		{"snippet and file", []string{"-e", "print 1;", "a.lox"}, exitUsage, "Usage:"},
		{"bad flag", []string{"-nope"}, exitUsage, "flag provided but not defined"},
		{"bad log level", []string{"-log-level", "loud", "-e", "print 1;"}, exitUsage, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", tt.args...)
			if code != tt.code {
				t.Fatalf("expected exit %d, got %d (stderr %q)", tt.code, code, errOut)
			}
			if !strings.Contains(errOut, tt.stderr) {
				t.Fatalf("expected stderr to contain %q, got %q", tt.stderr, errOut)
			}
		})
	}
}

func TestCLIRuntimeErrorKeepsEarlierOutput(t *testing.T) {
	code, out, _ := runCLI(t, "", "-e", "print 1; print nope;")
	if code != exitSoftware || out != "1\n" {
		t.Fatalf("unexpected result %d %q", code, out)
	}
}

func TestCLIDumpAST(t *testing.T) {
	code, out, _ := runCLI(t, "", "-ast", "-e", "print 1 + 2 * 3;")
	if code != exitOK || out != "(print (+ 1 (* 2 3)))\n" {
		t.Fatalf("unexpected result %d %q", code, out)
	}
	code, _, _ = runCLI(t, "", "-ast", "-e", "print (;")
	if code != exitData {
		t.Fatalf("expected exit %d, got %d", exitData, code)
	}
}

func TestCLIHelp(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-h")
	if code != exitOK || !strings.Contains(errOut, "-log-level") {
		t.Fatalf("unexpected help %d %q", code, errOut)
	}
}

func TestCLIConfigFlag(t *testing.T) {
	cfgPath := writeConfig(t, "log_level: debug\ncolor: false\n")
	code, out, errOut := runCLI(t, "", "-config", cfgPath, "-e", "print 3;")
	if code != exitOK || out != "3\n" {
		t.Fatalf("unexpected result %d %q", code, out)
	}
	if !strings.Contains(errOut, "level=DEBUG") {
		t.Fatalf("expected debug logs, got %q", errOut)
	}

	bad := writeConfig(t, "colour: true\n")
	code, _, errOut = runCLI(t, "", "-config", bad, "-e", "print 3;")
	if code != exitUsage || !strings.Contains(errOut, "config") {
		t.Fatalf("unexpected result %d %q", code, errOut)
	}
}

type scriptedPrompter struct {
	lines   []string
	prompts []string
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func TestReadByParseProbeContinuesIncompleteInput(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"fun f() {", "  print 1;", "}", "print 2;"}}
	code, ok := readByParseProbe(p, "> ", "... ")
	if !ok || code != "fun f() {\n  print 1;\n}" {
		t.Fatalf("unexpected chunk %q (%v)", code, ok)
	}
	if strings.Join(p.prompts, "|") != "> |... |... " {
		t.Fatalf("unexpected prompts %q", p.prompts)
	}

	code, ok = readByParseProbe(p, "> ", "... ")
	if !ok || code != "print 2;" {
		t.Fatalf("unexpected chunk %q", code)
	}
	if _, ok := readByParseProbe(p, "> ", "... "); ok {
		t.Fatalf("expected end of input")
	}
}

func TestReadByParseProbeStopsOnErrors(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"print ;", ":help"}}
	if code, _ := readByParseProbe(p, "> ", "... "); code != "print ;" {
		t.Fatalf("complete-but-invalid input must not wait for more, got %q", code)
	}
	if code, _ := readByParseProbe(p, "> ", "... "); code != ":help" {
		t.Fatalf("unexpected command chunk %q", code)
	}
}

func TestHandleCommand(t *testing.T) {
	r := lox.NewRunner()
	var stdout, stderr bytes.Buffer
	r.SetOutput(&stdout)

	if err := r.Run(`var x = 1;`); err != nil {
		t.Fatalf("run: %v", err)
	}
	if handleCommand(r, ":globals", &stdout, &stderr) {
		t.Fatalf("globals must not quit")
	}
	if !strings.Contains(stdout.String(), "x") {
		t.Fatalf("expected x in globals, got %q", stdout.String())
	}

	stdout.Reset()
	handleCommand(r, ":reset", &stdout, &stderr)
	if r.HasGlobal("x") {
		t.Fatalf("expected reset to clear globals")
	}

	path := writeScript(t, "var loaded = 5; print loaded;")
	stdout.Reset()
	handleCommand(r, ":load "+path, &stdout, &stderr)
	if stdout.String() != "5\n" || !r.HasGlobal("loaded") {
		t.Fatalf("unexpected load result %q", stdout.String())
	}

	stdout.Reset()
	handleCommand(r, ":ast print -1;", &stdout, &stderr)
	if stdout.String() != "(print (- 1))\n" {
		t.Fatalf("unexpected ast %q", stdout.String())
	}

	stdout.Reset()
	handleCommand(r, ":help", &stdout, &stderr)
	if !strings.Contains(stdout.String(), "clock/0") {
		t.Fatalf("expected natives in help, got %q", stdout.String())
	}

	handleCommand(r, ":bogus", &stdout, &stderr)
	handleCommand(r, ":load", &stdout, &stderr)
	handleCommand(r, ":load /no/such/file.lox", &stdout, &stderr)
	errOut := stderr.String()
	for _, want := range []string{"unknown command :bogus", "usage: :load", "cannot load"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("expected %q in stderr, got %q", want, errOut)
		}
	}

	if !handleCommand(r, ":quit", &stdout, &stderr) || !handleCommand(r, ":Q", &stdout, &stderr) {
		t.Fatalf("expected quit commands to end the session")
	}
}
