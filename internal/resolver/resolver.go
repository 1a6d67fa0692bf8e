package resolver

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xirelogy/go-lox/internal/ast"
	"github.com/xirelogy/go-lox/internal/token"
)

// Locals maps each resolved expression to the number of scopes between its
// use and its declaration. Expressions absent from the map are globals.
type Locals map[ast.Expr]int

// Error is a static error detected before evaluation.
type Error struct {
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Token.Pos.Line, e.Token.Lexeme, e.Message)
}

// Line returns the source line of the error.
func (e *Error) Line() int { return e.Token.Pos.Line }

// Errors collects every static error of one resolution pass.
type Errors []*Error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionInitializer
	functionMethod
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

// scope maps a name to whether its initializer has been resolved.
type scope map[string]bool

// Resolver walks a program once, computing scope distances and enforcing
// binding rules without evaluating anything.
type Resolver struct {
	scopes    []scope
	locals    Locals
	errors    Errors
	function  functionKind
	class     classKind
	loopDepth int
	logger    *slog.Logger
}

// New creates a resolver with an empty resolution map.
func New() *Resolver {
	return &Resolver{
		locals: make(Locals),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger routes debug output of the pass to l.
func (r *Resolver) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.logger = l
}

// Resolve is shorthand for New().Resolve(stmts).
func Resolve(stmts []ast.Stmt) (Locals, error) {
	return New().Resolve(stmts)
}

// Resolve resolves a whole program. All static errors are collected; when
// any occurred the returned error is Errors and the program must not run.
func (r *Resolver) Resolve(stmts []ast.Stmt) (Locals, error) {
	r.resolveStmts(stmts)
	if len(r.errors) > 0 {
		return r.locals, r.errors
	}
	return r.locals, nil
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Break:
		if r.loopDepth == 0 {
			r.errorf(s.Keyword, "Can only use 'break' inside a loop.")
		}
	case *ast.Continue:
		if r.loopDepth == 0 {
			r.errorf(s.Keyword, "Can only use 'continue' inside a loop.")
		}
	case *ast.Expression:
		r.resolveExpr(s.Expression)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionPlain)
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.Print:
		r.resolveExpr(s.Expression)
	case *ast.Return:
		if r.function == functionNone {
			r.errorf(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.function == functionInitializer {
				r.errorf(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
		if s.Increment != nil {
			r.resolveExpr(s.Increment)
		}
	default:
		panic(fmt.Sprintf("resolver: unexpected statement %T", stmt))
	}
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosing := r.class
	r.class = classPlain
	defer func() { r.class = enclosing }()

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.errorf(c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.class = classSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.peek()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.peek()["this"] = true
	for _, method := range c.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}
	r.endScope()
}

// resolveFunction resolves a body in a fresh scope holding the parameters.
// Loop depth does not carry into the body: break cannot cross a call.
func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosing, loops := r.function, r.loopDepth
	r.function, r.loopDepth = kind, 0

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.function, r.loopDepth = enclosing, loops
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Literal:
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.Super:
		switch r.class {
		case classNone:
			r.errorf(e.Keyword, "Can't use 'super' outside of a class.")
		case classPlain:
			r.errorf(e.Keyword, "Can't use 'super' in a class with no superclass.")
		default:
			r.resolveLocal(e, e.Keyword)
		}
	case *ast.This:
		if r.class == classNone {
			r.errorf(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if ready, declared := r.peek()[e.Name.Lexeme]; declared && !ready {
				r.errorf(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	default:
		panic(fmt.Sprintf("resolver: unexpected expression %T", expr))
	}
}

// resolveLocal records the distance to the innermost scope declaring name.
// Nothing is recorded for globals.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			distance := len(r.scopes) - 1 - i
			r.locals[expr] = distance
			r.logger.Debug("resolved local",
				slog.String("name", name.Lexeme),
				slog.Int("line", name.Pos.Line),
				slog.Int("distance", distance))
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peek() scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.peek()
	if _, exists := s[name.Lexeme]; exists {
		r.errorf(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peek()[name.Lexeme] = true
}

func (r *Resolver) errorf(tok token.Token, format string, args ...any) {
	err := &Error{Token: tok, Message: fmt.Sprintf(format, args...)}
	r.logger.Debug("static error",
		slog.Int("line", tok.Pos.Line),
		slog.String("message", err.Message))
	r.errors = append(r.errors, err)
}
