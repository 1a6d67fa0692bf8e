package ast

import "github.com/xirelogy/go-lox/internal/token"

// Node represents any AST node.
type Node interface {
	Pos() token.Position
}

// Stmt is an executable node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr produces a value. Expressions are compared by pointer identity, so
// two syntactically equal expressions at different positions are distinct.
type Expr interface {
	Node
	exprNode()
}

// Statements

type Block struct {
	LBrace     token.Position
	Statements []Stmt
}

func (b *Block) Pos() token.Position { return b.LBrace }
func (b *Block) stmtNode()           {}

type Class struct {
	Name       token.Token
	Superclass *Variable // nil when the class has no superclass
	Methods    []*Function
}

func (c *Class) Pos() token.Position { return c.Name.Pos }
func (c *Class) stmtNode()           {}

type Break struct {
	Keyword token.Token
}

func (b *Break) Pos() token.Position { return b.Keyword.Pos }
func (b *Break) stmtNode()           {}

type Continue struct {
	Keyword token.Token
}

func (c *Continue) Pos() token.Position { return c.Keyword.Pos }
func (c *Continue) stmtNode()           {}

type Expression struct {
	Expression Expr
}

func (e *Expression) Pos() token.Position { return e.Expression.Pos() }
func (e *Expression) stmtNode()           {}

type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (f *Function) Pos() token.Position { return f.Name.Pos }
func (f *Function) stmtNode()           {}

type If struct {
	Keyword   token.Token
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

func (i *If) Pos() token.Position { return i.Keyword.Pos }
func (i *If) stmtNode()           {}

type Print struct {
	Keyword    token.Token
	Expression Expr
}

func (p *Print) Pos() token.Position { return p.Keyword.Pos }
func (p *Print) stmtNode()           {}

type Return struct {
	Keyword token.Token
	Value   Expr // nil for a bare return
}

func (r *Return) Pos() token.Position { return r.Keyword.Pos }
func (r *Return) stmtNode()           {}

type Var struct {
	Name        token.Token
	Initializer Expr // nil when the declaration has no initializer
}

func (v *Var) Pos() token.Position { return v.Name.Pos }
func (v *Var) stmtNode()           {}

// While loops while Condition is truthy. Increment, when set, runs after
// each iteration that completes normally or via continue; the parser fills
// it in when desugaring a for loop.
type While struct {
	Keyword   token.Token
	Condition Expr
	Body      Stmt
	Increment Expr
}

func (w *While) Pos() token.Position { return w.Keyword.Pos }
func (w *While) stmtNode()           {}

// Expressions

type Assign struct {
	Name  token.Token
	Value Expr
}

func (a *Assign) Pos() token.Position { return a.Name.Pos }
func (a *Assign) exprNode()           {}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (b *Binary) Pos() token.Position { return b.Operator.Pos }
func (b *Binary) exprNode()           {}

type Call struct {
	Callee    Expr
	Paren     token.Token // closing paren, used for error lines
	Arguments []Expr
}

func (c *Call) Pos() token.Position { return c.Paren.Pos }
func (c *Call) exprNode()           {}

type Get struct {
	Object Expr
	Name   token.Token
}

func (g *Get) Pos() token.Position { return g.Name.Pos }
func (g *Get) exprNode()           {}

type Grouping struct {
	Expression Expr
}

func (g *Grouping) Pos() token.Position { return g.Expression.Pos() }
func (g *Grouping) exprNode()           {}

// Literal holds nil, bool, float64 or string.
type Literal struct {
	Value any
	PosT  token.Position
}

func (l *Literal) Pos() token.Position { return l.PosT }
func (l *Literal) exprNode()           {}

type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (l *Logical) Pos() token.Position { return l.Operator.Pos }
func (l *Logical) exprNode()           {}

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (s *Set) Pos() token.Position { return s.Name.Pos }
func (s *Set) exprNode()           {}

type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (s *Super) Pos() token.Position { return s.Keyword.Pos }
func (s *Super) exprNode()           {}

type This struct {
	Keyword token.Token
}

func (t *This) Pos() token.Position { return t.Keyword.Pos }
func (t *This) exprNode()           {}

type Unary struct {
	Operator token.Token
	Right    Expr
}

func (u *Unary) Pos() token.Position { return u.Operator.Pos }
func (u *Unary) exprNode()           {}

type Variable struct {
	Name token.Token
}

func (v *Variable) Pos() token.Position { return v.Name.Pos }
func (v *Variable) exprNode()           {}
