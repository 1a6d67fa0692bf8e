package runtime

import (
	"fmt"
	"sort"

	"github.com/xirelogy/go-lox/internal/interpreter"
)

// Spec describes a native function and its handler.
type Spec struct {
	Name    string
	Arity   int
	Handler interpreter.NativeHandler
	// Doc is a one-line description shown by the REPL.
	Doc string
}

var byName = map[string]Spec{}

// Register installs a native for lookup and in every new interpreter.
func Register(spec Spec) {
	if spec.Handler == nil {
		panic(fmt.Sprintf("native %s has nil handler", spec.Name))
	}
	if spec.Arity < 0 {
		panic(fmt.Sprintf("native %s has negative arity", spec.Name))
	}
	if _, exists := byName[spec.Name]; exists {
		panic(fmt.Sprintf("native %s already registered", spec.Name))
	}
	byName[spec.Name] = spec
	interpreter.RegisterNative(spec.Name, spec.Arity, spec.Handler)
}

// LookupByName finds a native by its script-visible name.
func LookupByName(name string) (Spec, bool) {
	spec, ok := byName[name]
	return spec, ok
}

// All returns all registered natives sorted by name.
func All() []Spec {
	out := make([]Spec, 0, len(byName))
	for _, spec := range byName {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
