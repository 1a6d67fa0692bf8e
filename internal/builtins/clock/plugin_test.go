package clock

import (
	"bytes"
	"testing"
	"time"

	"github.com/xirelogy/go-lox/internal/interpreter"
	"github.com/xirelogy/go-lox/internal/lexer"
	"github.com/xirelogy/go-lox/internal/parser"
	"github.com/xirelogy/go-lox/internal/resolver"
	"github.com/xirelogy/go-lox/internal/runtime"
)

func TestClockRegistered(t *testing.T) {
	spec, ok := runtime.LookupByName("clock")
	if !ok {
		t.Fatalf("clock not registered")
	}
	if spec.Arity != 0 {
		t.Fatalf("expected arity 0, got %d", spec.Arity)
	}
}

func TestClockReturnsSeconds(t *testing.T) {
	defer func(orig func() time.Time) { now = orig }(now)
	now = func() time.Time { return time.Unix(1500, int64(500*time.Millisecond)) }

	v, err := runClock(nil)
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	if v.Kind != interpreter.KindNumber || v.Num != 1500.5 {
		t.Fatalf("expected 1500.5, got %v", interpreter.Stringify(v))
	}
}

func TestClockCallableFromScript(t *testing.T) {
	defer func(orig func() time.Time) { now = orig }(now)
	now = func() time.Time { return time.Unix(42, 0) }

	src := `print clock(); print clock;`
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	locals, err := resolver.Resolve(prog)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var out bytes.Buffer
	if err := interpreter.New(&out).Interpret(prog, locals); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if out.String() != "42\n<native fn>\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
