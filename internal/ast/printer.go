package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer formats a program as parenthesized S-expressions, one top-level
// statement per line.
type Printer struct {
	w io.Writer
}

// NewPrinter constructs a printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram writes every statement of the program.
func (p *Printer) PrintProgram(stmts []Stmt) error {
	for _, s := range stmts {
		if _, err := fmt.Fprintln(p.w, Sprint(s)); err != nil {
			return err
		}
	}
	return nil
}

// Sprint renders a single node.
func Sprint(n Node) string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

func write(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		sb.WriteString("nil")

	// statements
	case *Block:
		parenthesize(sb, "block", stmtNodes(n.Statements)...)
	case *Class:
		sb.WriteString("(class ")
		sb.WriteString(n.Name.Lexeme)
		if n.Superclass != nil {
			sb.WriteString(" < ")
			sb.WriteString(n.Superclass.Name.Lexeme)
		}
		for _, m := range n.Methods {
			sb.WriteByte(' ')
			write(sb, m)
		}
		sb.WriteByte(')')
	case *Break:
		sb.WriteString("(break)")
	case *Continue:
		sb.WriteString("(continue)")
	case *Expression:
		parenthesize(sb, ";", n.Expression)
	case *Function:
		sb.WriteString("(fun ")
		sb.WriteString(n.Name.Lexeme)
		sb.WriteString(" (")
		for i, p := range n.Params {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(p.Lexeme)
		}
		sb.WriteByte(')')
		for _, s := range n.Body {
			sb.WriteByte(' ')
			write(sb, s)
		}
		sb.WriteByte(')')
	case *If:
		if n.Else == nil {
			parenthesize(sb, "if", n.Condition, n.Then)
		} else {
			parenthesize(sb, "if-else", n.Condition, n.Then, n.Else)
		}
	case *Print:
		parenthesize(sb, "print", n.Expression)
	case *Return:
		if n.Value == nil {
			sb.WriteString("(return)")
		} else {
			parenthesize(sb, "return", n.Value)
		}
	case *Var:
		if n.Initializer == nil {
			sb.WriteString("(var " + n.Name.Lexeme + ")")
		} else {
			parenthesize(sb, "var "+n.Name.Lexeme, n.Initializer)
		}
	case *While:
		if n.Increment == nil {
			parenthesize(sb, "while", n.Condition, n.Body)
		} else {
			parenthesize(sb, "for", n.Condition, n.Increment, n.Body)
		}

	// expressions
	case *Assign:
		parenthesize(sb, "= "+n.Name.Lexeme, n.Value)
	case *Binary:
		parenthesize(sb, n.Operator.Lexeme, n.Left, n.Right)
	case *Call:
		parenthesize(sb, "call", append([]Node{n.Callee}, exprNodes(n.Arguments)...)...)
	case *Get:
		parenthesize(sb, "."+n.Name.Lexeme, n.Object)
	case *Grouping:
		parenthesize(sb, "group", n.Expression)
	case *Literal:
		sb.WriteString(literalText(n.Value))
	case *Logical:
		parenthesize(sb, n.Operator.Lexeme, n.Left, n.Right)
	case *Set:
		parenthesize(sb, "=."+n.Name.Lexeme, n.Object, n.Value)
	case *Super:
		sb.WriteString("(super " + n.Method.Lexeme + ")")
	case *This:
		sb.WriteString("this")
	case *Unary:
		parenthesize(sb, n.Operator.Lexeme, n.Right)
	case *Variable:
		sb.WriteString(n.Name.Lexeme)
	default:
		fmt.Fprintf(sb, "<%T>", n)
	}
}

func parenthesize(sb *strings.Builder, name string, nodes ...Node) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, n := range nodes {
		sb.WriteByte(' ')
		write(sb, n)
	}
	sb.WriteByte(')')
}

func literalText(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

func stmtNodes(stmts []Stmt) []Node {
	out := make([]Node, len(stmts))
	for i, s := range stmts {
		out[i] = s
	}
	return out
}

func exprNodes(exprs []Expr) []Node {
	out := make([]Node, len(exprs))
	for i, e := range exprs {
		out[i] = e
	}
	return out
}
