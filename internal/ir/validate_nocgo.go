//go:build !cgo
// +build !cgo

package ir

import "fmt"

func (m *Module) Validate() ([]byte, error) {
	return nil, fmt.Errorf("ir: Validate requires cgo (wasmtime-go)")
}
