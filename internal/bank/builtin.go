package bank

import (
	_ "embed"
)

//go:embed builtin.json
var builtinJSON []byte

// Builtin returns the bank compiled into the binary. It lets the game run
// without a banks directory.
func Builtin() (*Bank, error) {
	return Parse(BuiltinSubject, builtinJSON)
}
