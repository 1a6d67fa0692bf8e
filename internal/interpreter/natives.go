package interpreter

import (
	"fmt"
	"sort"
)

// NativeHandler implements a native function. args has already been checked
// against the declared arity.
type NativeHandler func(args []Value) (Value, error)

// NativeFunction is a host function exposed as a global.
type NativeFunction struct {
	Name    string
	Params  int
	Handler NativeHandler
}

func (n *NativeFunction) Arity() int { return n.Params }

func (n *NativeFunction) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.Handler(args)
}

func (n *NativeFunction) String() string { return "<native fn>" }

var nativeRegistry = map[string]*NativeFunction{}

// RegisterNative installs a native function defined in every new
// interpreter's globals. It is meant to be called from init.
func RegisterNative(name string, arity int, handler NativeHandler) {
	if handler == nil {
		panic("nil native handler")
	}
	if name == "" {
		panic("native function name is empty")
	}
	if _, exists := nativeRegistry[name]; exists {
		panic(fmt.Sprintf("native function %q already registered", name))
	}
	nativeRegistry[name] = &NativeFunction{Name: name, Params: arity, Handler: handler}
}

// Natives returns the registered native functions sorted by name.
func Natives() []*NativeFunction {
	out := make([]*NativeFunction, 0, len(nativeRegistry))
	for _, n := range nativeRegistry {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
