//go:build cgo
// +build cgo

package ir

import "github.com/bytecodealliance/wasmtime-go"

// Validate renders the module to WAT and round-trips it through wasmtime-go's
// text assembler, which rejects anything that isn't well-formed WebAssembly.
// This is only a well-formedness check — nothing here executes the
// resulting bytes.
func (m *Module) Validate() ([]byte, error) {
	return wasmtime.Wat2Wasm(m.Print())
}
