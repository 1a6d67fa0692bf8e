package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/xirelogy/go-lox/internal/ast"
	"github.com/xirelogy/go-lox/internal/resolver"
)

type flow int

const (
	flowNormal flow = iota
	flowReturn
	flowBreak
	flowContinue
)

// outcome is how a statement finished. value is set for flowReturn only.
type outcome struct {
	flow  flow
	value Value
}

var normal = outcome{}

// Interpreter evaluates resolved programs. Globals persist across calls to
// Interpret, so one Interpreter can back a REPL session.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Locals
	out     io.Writer
	logger  *slog.Logger
	depth   int
}

// New creates an interpreter printing to out (stdout when nil), with every
// registered native function defined as a global.
func New(out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	globals := NewEnvironment(nil)
	for _, native := range Natives() {
		globals.Define(native.Name, CallableVal(native))
	}
	return &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(resolver.Locals),
		out:     out,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetOutput redirects print statements to w.
func (in *Interpreter) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	in.out = w
}

// SetLogger routes debug output of evaluation to l.
func (in *Interpreter) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	in.logger = l
}

// Globals exposes the outermost environment.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Interpret executes stmts in order using the resolution map produced for
// them. Execution stops at the first runtime error, which is returned as a
// *RuntimeError.
func (in *Interpreter) Interpret(stmts []ast.Stmt, locals resolver.Locals) error {
	for expr, depth := range locals {
		in.locals[expr] = depth
	}
	for _, stmt := range stmts {
		if _, err := in.execute(stmt); err != nil {
			in.env = in.globals
			in.depth = 0
			var rte *RuntimeError
			if errors.As(err, &rte) {
				in.logger.Debug("runtime error",
					slog.Int("line", rte.Line()),
					slog.String("message", rte.Message))
			}
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(stmt ast.Stmt) (outcome, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return in.executeBlock(s.Statements, NewEnvironment(in.env))
	case *ast.Class:
		return normal, in.executeClass(s)
	case *ast.Break:
		return outcome{flow: flowBreak}, nil
	case *ast.Continue:
		return outcome{flow: flowContinue}, nil
	case *ast.Expression:
		_, err := in.evaluate(s.Expression)
		return normal, err
	case *ast.Function:
		fn := &Function{Declaration: s, Closure: in.env}
		in.env.Define(s.Name.Lexeme, CallableVal(fn))
		return normal, nil
	case *ast.If:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if Truthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return normal, nil
	case *ast.Print:
		v, err := in.evaluate(s.Expression)
		if err != nil {
			return normal, err
		}
		if _, err := fmt.Fprintln(in.out, Stringify(v)); err != nil {
			return normal, fmt.Errorf("print: %w", err)
		}
		return normal, nil
	case *ast.Return:
		value := Nil()
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return normal, err
			}
			value = v
		}
		return outcome{flow: flowReturn, value: value}, nil
	case *ast.Var:
		if s.Initializer == nil {
			return normal, newRuntimeError(ErrUninitialized, s.Name, "Variable '%s' not initialised.", s.Name.Lexeme)
		}
		v, err := in.evaluate(s.Initializer)
		if err != nil {
			return normal, err
		}
		in.env.Define(s.Name.Lexeme, v)
		return normal, nil
	case *ast.While:
		return in.executeWhile(s)
	default:
		panic(fmt.Sprintf("interpreter: unexpected statement %T", stmt))
	}
}

// executeBlock runs stmts in env and restores the previous environment on
// every exit path.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (outcome, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		res, err := in.execute(stmt)
		if err != nil || res.flow != flowNormal {
			return res, err
		}
	}
	return normal, nil
}

// executeWhile runs the increment after every iteration that finished
// normally or by continue.
func (in *Interpreter) executeWhile(s *ast.While) (outcome, error) {
	for {
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if !Truthy(cond) {
			return normal, nil
		}
		res, err := in.execute(s.Body)
		if err != nil {
			return normal, err
		}
		switch res.flow {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return res, nil
		}
		if s.Increment != nil {
			if _, err := in.evaluate(s.Increment); err != nil {
				return normal, err
			}
		}
	}
}

func (in *Interpreter) executeClass(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		k, ok := asClass(v)
		if !ok {
			return newRuntimeError(ErrType, s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = k
	}

	in.env.Define(s.Name.Lexeme, Nil())

	closure := in.env
	if superclass != nil {
		closure = NewEnvironment(in.env)
		closure.Define("super", CallableVal(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Declaration:   m,
			Closure:       closure,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	in.env.Define(s.Name.Lexeme, CallableVal(class))
	return nil
}

// call invokes fn, tracking call depth for diagnostics.
func (in *Interpreter) call(fn Callable, args []Value) (Value, error) {
	in.depth++
	defer func() { in.depth-- }()
	if in.logger.Enabled(context.Background(), slog.LevelDebug) {
		in.logger.Debug("call",
			slog.String("callee", fn.String()),
			slog.Int("args", len(args)),
			slog.Int("depth", in.depth))
	}
	return fn.Call(in, args)
}

func asClass(v Value) (*Class, bool) {
	if v.Kind != KindCallable {
		return nil, false
	}
	k, ok := v.Fn.(*Class)
	return k, ok
}
