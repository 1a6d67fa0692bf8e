package lox

import (
	"fmt"
	"reflect"

	"github.com/xirelogy/go-lox/internal/interpreter"
	"github.com/xirelogy/go-lox/internal/token"
)

func interpreterIdent(name string) token.Token {
	return token.Synthetic(token.Ident, name, 0)
}

func (h hostBinding) native() *interpreter.NativeFunction {
	return &interpreter.NativeFunction{
		Name:   h.name,
		Params: h.arity,
		Handler: func(args []interpreter.Value) (interpreter.Value, error) {
			goArgs := make([]any, len(args))
			for i, a := range args {
				goArgs[i] = unmarshalToGo(a)
			}
			res, err := h.fn(goArgs)
			if err != nil {
				return interpreter.Nil(), fmt.Errorf("%s: %w", h.name, err)
			}
			v, err := marshalGoValue(res)
			if err != nil {
				return interpreter.Nil(), fmt.Errorf("%s: %w", h.name, err)
			}
			return v, nil
		},
	}
}

func unmarshalToGo(v interpreter.Value) any {
	switch v.Kind {
	case interpreter.KindNil:
		return nil
	case interpreter.KindBool:
		return v.B
	case interpreter.KindNumber:
		return v.Num
	case interpreter.KindString:
		return v.Str
	default:
		return Ref{v: v}
	}
}

func marshalGoValue(val any) (interpreter.Value, error) {
	switch x := val.(type) {
	case nil:
		return interpreter.Nil(), nil
	case bool:
		return interpreter.Bool(x), nil
	case string:
		return interpreter.String(x), nil
	case Ref:
		return x.v, nil
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return interpreter.Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return interpreter.Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return interpreter.Number(rv.Float()), nil
	}
	return interpreter.Nil(), ArgError{Name: "result", Want: "nil, bool, number or string", Got: fmt.Sprintf("%T", val)}
}
