package interpreter

import (
	"fmt"

	"github.com/xirelogy/go-lox/internal/ast"
	"github.com/xirelogy/go-lox/internal/token"
)

func (in *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return FromLiteral(e.Value), nil
	case *ast.Grouping:
		return in.evaluate(e.Expression)
	case *ast.Variable:
		return in.lookupVariable(e.Name, e)
	case *ast.This:
		return in.lookupVariable(e.Keyword, e)
	case *ast.Assign:
		v, err := in.evaluate(e.Value)
		if err != nil {
			return Nil(), err
		}
		if distance, ok := in.locals[e]; ok {
			in.env.AssignAt(distance, e.Name.Lexeme, v)
			return v, nil
		}
		if err := in.globals.Assign(e.Name, v); err != nil {
			return Nil(), err
		}
		return v, nil
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return Nil(), err
		}
		if e.Operator.Type == token.Or {
			if Truthy(left) {
				return left, nil
			}
		} else if !Truthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Get:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return Nil(), err
		}
		if obj.Kind != KindInstance {
			return Nil(), newRuntimeError(ErrType, e.Name, "Only instances have properties.")
		}
		return obj.Inst.Get(e.Name)
	case *ast.Set:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return Nil(), err
		}
		if obj.Kind != KindInstance {
			return Nil(), newRuntimeError(ErrType, e.Name, "Only instances have fields.")
		}
		v, err := in.evaluate(e.Value)
		if err != nil {
			return Nil(), err
		}
		obj.Inst.Set(e.Name, v)
		return v, nil
	case *ast.Super:
		return in.evalSuper(e)
	default:
		panic(fmt.Sprintf("interpreter: unexpected expression %T", expr))
	}
}

func (in *Interpreter) lookupVariable(name token.Token, expr ast.Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Nil(), err
	}
	switch e.Operator.Type {
	case token.Bang:
		return Bool(!Truthy(right)), nil
	case token.Minus:
		if right.Kind != KindNumber {
			return Nil(), newRuntimeError(ErrType, e.Operator, "Operand must be a number.")
		}
		return Number(-right.Num), nil
	default:
		panic(fmt.Sprintf("interpreter: unexpected unary operator %s", e.Operator.Type))
	}
}

// evalBinary evaluates both operands left to right before applying the
// operator.
func (in *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return Nil(), err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Nil(), err
	}

	switch e.Operator.Type {
	case token.Equal:
		return Bool(Equal(left, right)), nil
	case token.NotEqual:
		return Bool(!Equal(left, right)), nil
	case token.Plus:
		if left.Kind == KindNumber && right.Kind == KindNumber {
			return Number(left.Num + right.Num), nil
		}
		if left.Kind == KindString && right.Kind == KindString {
			return String(left.Str + right.Str), nil
		}
		return Nil(), newRuntimeError(ErrType, e.Operator, "Operands must be two numbers or two strings.")
	}

	if left.Kind != KindNumber || right.Kind != KindNumber {
		return Nil(), newRuntimeError(ErrType, e.Operator, "Operands must be numbers.")
	}
	l, r := left.Num, right.Num
	switch e.Operator.Type {
	case token.Minus:
		return Number(l - r), nil
	case token.Star:
		return Number(l * r), nil
	case token.Slash:
		// Non-positive divisors are rejected, not only zero.
		if r <= 0 {
			return Nil(), newRuntimeError(ErrDivideByZero, e.Operator, "Unable to divide by zero.")
		}
		return Number(l / r), nil
	case token.Greater:
		return Bool(l > r), nil
	case token.GreaterEqual:
		return Bool(l >= r), nil
	case token.Less:
		return Bool(l < r), nil
	case token.LessEqual:
		return Bool(l <= r), nil
	default:
		panic(fmt.Sprintf("interpreter: unexpected binary operator %s", e.Operator.Type))
	}
}

func (in *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return Nil(), err
	}
	args := make([]Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := in.evaluate(arg)
		if err != nil {
			return Nil(), err
		}
		args = append(args, v)
	}

	if callee.Kind != KindCallable {
		return Nil(), newRuntimeError(ErrNotCallable, e.Paren, "Can only call functions and classes.")
	}
	fn := callee.Fn
	if len(args) != fn.Arity() {
		return Nil(), newRuntimeError(ErrArity, e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	v, err := in.call(fn, args)
	if err != nil {
		return Nil(), wrapError(e.Paren, err)
	}
	return v, nil
}

// evalSuper finds the method on the superclass bound at the resolved
// distance and binds it to the "this" one scope nearer.
func (in *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	distance, ok := in.locals[e]
	if !ok {
		panic("interpreter: unresolved super expression")
	}
	superclass, _ := asClass(in.env.GetAt(distance, "super"))
	this := in.env.GetAt(distance-1, "this")
	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return Nil(), newRuntimeError(ErrUndefinedProperty, e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return CallableVal(method.Bind(this.Inst)), nil
}
