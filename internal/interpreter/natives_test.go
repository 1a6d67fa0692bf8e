package interpreter

import (
	"errors"
	"testing"
)

var errBoom = errors.New("boom")

func registerOnce(name string, arity int, handler NativeHandler) {
	if _, exists := nativeRegistry[name]; !exists {
		RegisterNative(name, arity, handler)
	}
}

func TestRegisterNativeRejectsDuplicates(t *testing.T) {
	registerOnce("testIdentity", 1, func(args []Value) (Value, error) { return args[0], nil })
	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate registration to panic")
		}
	}()
	RegisterNative("testIdentity", 1, func(args []Value) (Value, error) { return Nil(), nil })
}

func TestNativesAreGlobals(t *testing.T) {
	registerOnce("testIdentity", 1, func(args []Value) (Value, error) { return args[0], nil })
	expectOutput(t, `print testIdentity("x"); print testIdentity;`, "x\n<native fn>\n")

	_, err := run(t, `testIdentity();`)
	if !errors.Is(err, ErrArity) {
		t.Fatalf("expected arity error, got %v", err)
	}
}

func TestNativeErrorsCarryLocation(t *testing.T) {
	registerOnce("testFail", 0, func([]Value) (Value, error) { return Nil(), errBoom })
	_, err := run(t, "print 1;\ntestFail();")
	var rte *RuntimeError
	if !errors.As(err, &rte) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if !errors.Is(err, ErrNative) || !errors.Is(err, errBoom) {
		t.Fatalf("expected native and cause sentinels, got %v", err)
	}
	if rte.Line() != 2 || rte.Message != "boom" {
		t.Fatalf("unexpected error %v", rte)
	}
}

func TestNativesSorted(t *testing.T) {
	registerOnce("testIdentity", 1, func(args []Value) (Value, error) { return args[0], nil })
	registerOnce("testFail", 0, func([]Value) (Value, error) { return Nil(), errBoom })
	natives := Natives()
	for i := 1; i < len(natives); i++ {
		if natives[i-1].Name > natives[i].Name {
			t.Fatalf("natives not sorted: %s before %s", natives[i-1].Name, natives[i].Name)
		}
	}
}
