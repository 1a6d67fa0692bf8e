package lox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/xirelogy/go-lox/internal/ast"
	_ "github.com/xirelogy/go-lox/internal/builtins"
	"github.com/xirelogy/go-lox/internal/interpreter"
	"github.com/xirelogy/go-lox/internal/lexer"
	"github.com/xirelogy/go-lox/internal/parser"
	"github.com/xirelogy/go-lox/internal/resolver"
	"github.com/xirelogy/go-lox/internal/runtime"
)

// Compile stages reported by CompileError.
const (
	StageParse   = "parse"
	StageResolve = "resolve"
)

// Diagnostic is a single static error.
type Diagnostic struct {
	Line    int
	Message string
	// Text is the full report, e.g. "[line 1] Error at ';': Expect expression."
	Text string
}

func (d Diagnostic) String() string { return d.Text }

// CompileError reports that a program was rejected before it ran.
type CompileError struct {
	Stage       string
	Diagnostics []Diagnostic
	// Incomplete is set when parsing stopped at end of input, i.e. more
	// source could complete the program.
	Incomplete bool
}

func (e *CompileError) Error() string {
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = d.Text
	}
	return strings.Join(lines, "\n")
}

// RuntimeError is an error that aborted a running program.
type RuntimeError struct {
	Kind    string
	Line    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[line %d] %s", e.Line, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying cause (if any) for errors.Is/As.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Runtime error kinds, usable with errors.Is against a *RuntimeError.
var (
	ErrUndefinedVariable = interpreter.ErrUndefinedVariable
	ErrUndefinedProperty = interpreter.ErrUndefinedProperty
	ErrType              = interpreter.ErrType
	ErrDivideByZero      = interpreter.ErrDivideByZero
	ErrNotCallable       = interpreter.ErrNotCallable
	ErrArity             = interpreter.ErrArity
	ErrUninitialized     = interpreter.ErrUninitialized
	ErrNative            = interpreter.ErrNative
)

func convertRuntimeError(err error) error {
	if err == nil {
		return nil
	}
	var rte *interpreter.RuntimeError
	if errors.As(err, &rte) {
		kind := ""
		if rte.Cause != nil {
			kind = rte.Cause.Error()
			if errors.Is(rte.Cause, interpreter.ErrNative) {
				kind = interpreter.ErrNative.Error()
			}
		}
		return &RuntimeError{
			Kind:    kind,
			Line:    rte.Line(),
			Message: rte.Message,
			Cause:   rte,
		}
	}
	return err
}

// Reporter receives every diagnostic as it is produced, in addition to the
// error returned from Run.
type Reporter interface {
	StaticError(d Diagnostic)
	RuntimeError(e *RuntimeError)
}

// ReporterFuncs adapts plain functions to Reporter. Nil fields are skipped.
type ReporterFuncs struct {
	Static  func(d Diagnostic)
	Runtime func(e *RuntimeError)
}

func (f ReporterFuncs) StaticError(d Diagnostic) {
	if f.Static != nil {
		f.Static(d)
	}
}

func (f ReporterFuncs) RuntimeError(e *RuntimeError) {
	if f.Runtime != nil {
		f.Runtime(e)
	}
}

// ArgError represents a host function argument or result that cannot cross
// between Lox and Go.
type ArgError struct {
	Name string
	Want string
	Got  string
}

func (e ArgError) Error() string {
	switch {
	case e.Name != "" && e.Want != "" && e.Got != "":
		return fmt.Sprintf("argument %q: want %s, got %s", e.Name, e.Want, e.Got)
	case e.Name != "" && e.Want != "":
		return fmt.Sprintf("argument %q: want %s", e.Name, e.Want)
	default:
		return "argument error"
	}
}

// Ref carries a Lox function, class or instance through a host function.
// It can be returned to Lox unchanged.
type Ref struct {
	v interpreter.Value
}

func (r Ref) String() string { return interpreter.Stringify(r.v) }

// HostFunction is a Go function callable from Lox. Arguments arrive as nil,
// bool, float64, string or Ref; results may be any of those, an integer or
// float Go type, or nil.
type HostFunction func(args []any) (any, error)

// NativeInfo describes a built-in native function.
type NativeInfo struct {
	Name  string
	Arity int
	Doc   string
}

// Natives lists the built-in native functions every Runner defines.
func Natives() []NativeInfo {
	specs := runtime.All()
	out := make([]NativeInfo, len(specs))
	for i, spec := range specs {
		out[i] = NativeInfo{Name: spec.Name, Arity: spec.Arity, Doc: spec.Doc}
	}
	return out
}

type hostBinding struct {
	name  string
	arity int
	fn    HostFunction
}

// Runner executes Lox source against a persistent global environment.
// Successive calls to Run see the globals defined by earlier ones.
type Runner struct {
	core     *interpreter.Interpreter
	out      io.Writer
	reporter Reporter
	logger   *slog.Logger
	hosts    []hostBinding
	mu       sync.Mutex
	busy     bool
}

// NewRunner constructs a runner printing to stdout.
func NewRunner() *Runner {
	r := &Runner{
		out:      os.Stdout,
		reporter: ReporterFuncs{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r.core = r.newCore()
	return r
}

func (r *Runner) newCore() *interpreter.Interpreter {
	core := interpreter.New(r.out)
	core.SetLogger(r.logger)
	for _, h := range r.hosts {
		core.Globals().Define(h.name, interpreter.CallableVal(h.native()))
	}
	return core
}

// SetOutput redirects print statements to w.
func (r *Runner) SetOutput(w io.Writer) {
	if r == nil {
		return
	}
	if w == nil {
		w = os.Stdout
	}
	r.out = w
	r.core.SetOutput(w)
}

// SetReporter installs a diagnostics callback.
func (r *Runner) SetReporter(rep Reporter) {
	if r == nil {
		return
	}
	if rep == nil {
		rep = ReporterFuncs{}
	}
	r.reporter = rep
}

// SetLogger routes debug output of every stage to l.
func (r *Runner) SetLogger(l *slog.Logger) {
	if r == nil {
		return
	}
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.logger = l
	r.core.SetLogger(l)
}

// SetGlobalFunction binds a Go function to a global name. The binding
// survives Reset.
func (r *Runner) SetGlobalFunction(name string, arity int, fn HostFunction) error {
	if r == nil || r.core == nil {
		return errors.New("nil runner")
	}
	if fn == nil {
		return errors.New("nil function")
	}
	if name == "" || arity < 0 {
		return fmt.Errorf("invalid host function %q/%d", name, arity)
	}
	h := hostBinding{name: name, arity: arity, fn: fn}
	r.hosts = append(r.hosts, h)
	r.core.Globals().Define(name, interpreter.CallableVal(h.native()))
	return nil
}

// HasGlobal reports whether a global variable exists with the given name.
func (r *Runner) HasGlobal(name string) bool {
	if r == nil || r.core == nil {
		return false
	}
	_, err := r.core.Globals().Get(interpreterIdent(name))
	return err == nil
}

// Globals returns the names defined in the global environment.
func (r *Runner) Globals() []string {
	if r == nil || r.core == nil {
		return nil
	}
	return r.core.Globals().Keys()
}

// Reset discards every global defined by scripts. Natives and host
// functions are defined again.
func (r *Runner) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.core = r.newCore()
}

// RunFile reads and runs a script from a filesystem path.
func (r *Runner) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Run(string(data))
}

// Run lexes, parses, resolves and interprets src. It returns a
// *CompileError when the program was rejected and a *RuntimeError when it
// failed while running.
func (r *Runner) Run(src string) error {
	if r == nil || r.core == nil {
		return errors.New("nil runner")
	}
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()

	stmts, locals, err := r.compile(src)
	if err != nil {
		return err
	}
	r.logger.Debug("interpret", slog.Int("statements", len(stmts)))
	if err := convertRuntimeError(r.core.Interpret(stmts, locals)); err != nil {
		var rte *RuntimeError
		if errors.As(err, &rte) {
			r.reporter.RuntimeError(rte)
		}
		return err
	}
	return nil
}

// Check parses and resolves src without running it.
func (r *Runner) Check(src string) error {
	if r == nil {
		return errors.New("nil runner")
	}
	_, _, err := r.compile(src)
	return err
}

// DumpAST parses src and renders it as S-expressions, one per line.
func (r *Runner) DumpAST(src string) (string, error) {
	if r == nil {
		return "", errors.New("nil runner")
	}
	stmts, err := r.parse(src)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := ast.NewPrinter(&b).PrintProgram(stmts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Runner) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return errors.New("runner is busy")
	}
	r.busy = true
	return nil
}

func (r *Runner) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

func (r *Runner) parse(src string) ([]ast.Stmt, error) {
	p := parser.New(lexer.New(src))
	stmts := p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 {
		return stmts, nil
	}
	ce := &CompileError{Stage: StageParse, Incomplete: p.Incomplete()}
	for _, e := range errs {
		ce.Diagnostics = append(ce.Diagnostics, Diagnostic{Line: e.Line(), Message: e.Message, Text: e.Error()})
	}
	r.report(ce)
	return nil, ce
}

func (r *Runner) compile(src string) ([]ast.Stmt, resolver.Locals, error) {
	stmts, err := r.parse(src)
	if err != nil {
		return nil, nil, err
	}
	res := resolver.New()
	res.SetLogger(r.logger)
	locals, err := res.Resolve(stmts)
	if err != nil {
		var errs resolver.Errors
		if !errors.As(err, &errs) {
			return nil, nil, err
		}
		ce := &CompileError{Stage: StageResolve}
		for _, e := range errs {
			ce.Diagnostics = append(ce.Diagnostics, Diagnostic{Line: e.Line(), Message: e.Message, Text: e.Error()})
		}
		r.report(ce)
		return nil, nil, ce
	}
	return stmts, locals, nil
}

func (r *Runner) report(ce *CompileError) {
	r.logger.Debug("compile failed",
		slog.String("stage", ce.Stage),
		slog.Int("diagnostics", len(ce.Diagnostics)))
	for _, d := range ce.Diagnostics {
		r.reporter.StaticError(d)
	}
}

// Incomplete reports whether src stops in the middle of a declaration or
// statement, so that more input could complete it. Nothing is reported.
func Incomplete(src string) bool {
	p := parser.New(lexer.New(src))
	p.ParseProgram()
	return p.Incomplete()
}
