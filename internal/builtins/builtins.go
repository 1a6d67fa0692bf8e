// Package builtins links every native function plugin into the binary.
package builtins

import (
	_ "github.com/xirelogy/go-lox/internal/builtins/clock"
)
