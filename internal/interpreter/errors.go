package interpreter

import (
	"errors"
	"fmt"

	"github.com/xirelogy/go-lox/internal/token"
)

// Runtime error categories. A RuntimeError unwraps to exactly one of these.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUndefinedProperty = errors.New("undefined property")
	ErrType              = errors.New("type error")
	ErrDivideByZero      = errors.New("divide by zero")
	ErrNotCallable       = errors.New("not callable")
	ErrArity             = errors.New("arity mismatch")
	ErrUninitialized     = errors.New("uninitialized variable")
	ErrNative            = errors.New("native function failed")
)

// RuntimeError aborts evaluation of a program. Token locates the failure.
type RuntimeError struct {
	Token   token.Token
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Token.Pos.Line > 0 {
		return fmt.Sprintf("[line %d] %s", e.Token.Pos.Line, e.Message)
	}
	return e.Message
}

// Unwrap exposes the error category for errors.Is.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Line returns the source line of the failure.
func (e *RuntimeError) Line() int { return e.Token.Pos.Line }

func newRuntimeError(cause error, tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// wrapError attaches a location to errors raised without one, such as those
// returned by native functions.
func wrapError(tok token.Token, err error) error {
	if err == nil {
		return nil
	}
	var rte *RuntimeError
	if errors.As(err, &rte) {
		return err
	}
	return &RuntimeError{Token: tok, Message: err.Error(), Cause: fmt.Errorf("%w: %w", ErrNative, err)}
}
