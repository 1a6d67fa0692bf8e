package interpreter

import (
	"strconv"
)

type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindCallable
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindCallable:
		return "callable"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Value is a Lox runtime value. Kind selects which field is meaningful.
type Value struct {
	Kind Kind
	B    bool
	Num  float64
	Str  string
	Fn   Callable
	Inst *Instance
}

func Nil() Value { return Value{Kind: KindNil} }
func Bool(b bool) Value {
	return Value{Kind: KindBool, B: b}
}
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}
func CallableVal(fn Callable) Value {
	return Value{Kind: KindCallable, Fn: fn}
}
func InstanceVal(inst *Instance) Value {
	return Value{Kind: KindInstance, Inst: inst}
}

// FromLiteral converts a literal carried by the AST into a Value.
func FromLiteral(v any) Value {
	switch lit := v.(type) {
	case nil:
		return Nil()
	case bool:
		return Bool(lit)
	case float64:
		return Number(lit)
	case string:
		return String(lit)
	default:
		panic("interpreter: unsupported literal")
	}
}

// Truthy reports whether v counts as true. Only nil and false are falsy.
func Truthy(v Value) bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.B
	default:
		return true
	}
}

// Equal compares two values. Values of different kinds are never equal;
// callables and instances compare by identity.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBool:
		return a.B == b.B
	case KindNumber:
		return a.Num == b.Num
	case KindString:
		return a.Str == b.Str
	case KindCallable:
		return a.Fn == b.Fn
	case KindInstance:
		return a.Inst == b.Inst
	default:
		return false
	}
}

// Stringify renders v the way print shows it.
func Stringify(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.B {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindCallable:
		return v.Fn.String()
	case KindInstance:
		return v.Inst.String()
	default:
		return "<unknown>"
	}
}
