package parser

import (
	"strings"
	"testing"

	"github.com/xirelogy/go-lox/internal/ast"
	"github.com/xirelogy/go-lox/internal/lexer"
)

func parse(t *testing.T, input string) []ast.Stmt {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return prog
}

func TestParseVarAndPrint(t *testing.T) {
	prog := parse(t, `var a = 1 + 2 * 3; print a;`)
	if len(prog) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog))
	}
	decl, ok := prog[0].(*ast.Var)
	if !ok {
		t.Fatalf("expected Var, got %T", prog[0])
	}
	if got := ast.Sprint(decl); got != "(var a (+ 1 (* 2 3)))" {
		t.Fatalf("unexpected tree %s", got)
	}
	if _, ok := prog[1].(*ast.Print); !ok {
		t.Fatalf("expected Print, got %T", prog[1])
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`-a * (b - c);`, "(; (* (- a) (group (- b c))))"},
		{`a or b and c;`, "(; (or a (and b c)))"},
		{`a == b < c;`, "(; (== a (< b c)))"},
		{`!!true;`, "(; (! (! true)))"},
		{`a = b = 3;`, "(; (= a (= b 3)))"},
		{`obj.field.inner = f(1, "x")(2);`, `(; (=.inner (.field obj) (call (call f 1 "x") 2)))`},
		{`super.greet();`, "(; (call (super greet)))"},
	}
	for _, tt := range tests {
		prog := parse(t, tt.input)
		if got := ast.Sprint(prog[0]); got != tt.expected {
			t.Fatalf("%s: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestParseForDesugars(t *testing.T) {
	prog := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	if len(prog) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog))
	}
	block, ok := prog[0].(*ast.Block)
	if !ok {
		t.Fatalf("expected Block, got %T", prog[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected init and loop, got %d statements", len(block.Statements))
	}
	loop, ok := block.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("expected While, got %T", block.Statements[1])
	}
	if loop.Increment == nil {
		t.Fatalf("expected increment to be kept on the loop")
	}
	if _, ok := loop.Body.(*ast.Print); !ok {
		t.Fatalf("expected print body, got %T", loop.Body)
	}
}

func TestParseForWithoutClauses(t *testing.T) {
	prog := parse(t, `for (;;) break;`)
	loop, ok := prog[0].(*ast.While)
	if !ok {
		t.Fatalf("expected bare While, got %T", prog[0])
	}
	if lit, ok := loop.Condition.(*ast.Literal); !ok || lit.Value != true {
		t.Fatalf("expected literal true condition, got %s", ast.Sprint(loop.Condition))
	}
}

func TestParseClass(t *testing.T) {
	input := `class B < A {
  init(x) { this.x = x; }
  greet() { return super.greet() + "B"; }
}`
	prog := parse(t, input)
	class, ok := prog[0].(*ast.Class)
	if !ok {
		t.Fatalf("expected Class, got %T", prog[0])
	}
	if class.Name.Lexeme != "B" || class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Fatalf("unexpected class header %s", ast.Sprint(class))
	}
	if len(class.Methods) != 2 || class.Methods[0].Name.Lexeme != "init" || len(class.Methods[0].Params) != 1 {
		t.Fatalf("unexpected methods %s", ast.Sprint(class))
	}
}

func TestParseFunction(t *testing.T) {
	prog := parse(t, `fun add(a, b) { return a + b; }`)
	fn, ok := prog[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected Function, got %T", prog[0])
	}
	if fn.Name.Lexeme != "add" || len(fn.Params) != 2 || len(fn.Body) != 1 {
		t.Fatalf("unexpected func %s", ast.Sprint(fn))
	}
}

func TestParseErrorsRecover(t *testing.T) {
	p := New(lexer.New(`var = 1; print 2; 1 = 2; print ;`))
	prog := p.ParseProgram()
	errs := p.Errors()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Error() != "[line 1] Error at '=': Expect variable name." {
		t.Fatalf("unexpected first error %q", errs[0].Error())
	}
	if errs[1].Message != "Invalid assignment target." {
		t.Fatalf("unexpected second error %q", errs[1].Message)
	}
	if errs[2].Message != "Expect expression." {
		t.Fatalf("unexpected third error %q", errs[2].Message)
	}
	// print 2; and the invalid assignment survive
	if len(prog) != 2 {
		t.Fatalf("expected 2 recovered statements, got %d", len(prog))
	}
}

func TestParseIncomplete(t *testing.T) {
	p := New(lexer.New("fun f() {\n  print 1;"))
	p.ParseProgram()
	if !p.Incomplete() {
		t.Fatalf("expected incomplete input, errors: %v", p.Errors())
	}
	if !strings.Contains(p.Errors()[0].Error(), "at end") {
		t.Fatalf("expected error at end, got %v", p.Errors()[0])
	}

	p = New(lexer.New("print ;"))
	p.ParseProgram()
	if p.Incomplete() {
		t.Fatalf("did not expect incomplete input")
	}
}

func TestParseLexerErrors(t *testing.T) {
	p := New(lexer.New("print 1 @ 2;"))
	p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 || errs[0].Error() != "[line 1] Error: Unexpected character." {
		t.Fatalf("unexpected errors %v", errs)
	}
}
