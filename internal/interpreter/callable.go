package interpreter

import (
	"github.com/xirelogy/go-lox/internal/ast"
	"github.com/xirelogy/go-lox/internal/token"
)

// Callable is anything a call expression can invoke.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function or method closed over the
// environment active at its declaration.
type Function struct {
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

func (f *Function) String() string { return "<fn " + f.Declaration.Name.Lexeme + ">" }

// Bind returns a copy of f whose closure has "this" bound to inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", InstanceVal(inst))
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Call runs the body in a fresh environment holding the parameters.
// Initializers always yield the bound instance.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}
	res, err := in.executeBlock(f.Declaration.Body, env)
	if err != nil {
		return Nil(), err
	}
	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	if res.flow == flowReturn {
		return res.value, nil
	}
	return Nil(), nil
}

// Class is a runtime class. Calling it constructs an instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod looks name up on the class, then up the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	for k := c; k != nil; k = k.Superclass {
		if m, ok := k.Methods[name]; ok {
			return m
		}
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) String() string { return c.Name }

func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return Nil(), err
		}
	}
	return InstanceVal(inst), nil
}

// Instance is an object created by calling a class.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Fields: make(map[string]Value)}
}

func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get reads a field, falling back to a method bound to i.
func (i *Instance) Get(name token.Token) (Value, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.Class.FindMethod(name.Lexeme); m != nil {
		return CallableVal(m.Bind(i)), nil
	}
	return Nil(), newRuntimeError(ErrUndefinedProperty, name, "Undefined property '%s'.", name.Lexeme)
}

// Set creates or overwrites a field.
func (i *Instance) Set(name token.Token, v Value) {
	i.Fields[name.Lexeme] = v
}
