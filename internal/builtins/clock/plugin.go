package clock

import (
	"time"

	"github.com/xirelogy/go-lox/internal/interpreter"
	"github.com/xirelogy/go-lox/internal/runtime"
)

var now = time.Now

func init() {
	runtime.Register(runtime.Spec{
		Name:    "clock",
		Arity:   0,
		Handler: runClock,
		Doc:     "seconds since the Unix epoch as a number",
	})
}

func runClock(_ []interpreter.Value) (interpreter.Value, error) {
	t := now()
	return interpreter.Number(float64(t.UnixNano()) / float64(time.Second)), nil
}
