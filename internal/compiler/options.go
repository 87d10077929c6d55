// Package compiler is the declaration-driven compilation driver, statement
// lowering, and expression lowering core: it walks a source.Program and
// produces an ir.Module. It is grounded on the teacher's
// internal/compiler/generator.go and compiler.go (aratama-tunascript),
// generalized from a single fixed target language to the type-directed
// lowering spec.md §4 describes, and from emitting WAT text directly to
// building an internal/ir.Module through the create* API spec.md §6 names.
package compiler

import (
	"wasmcore/internal/diag"
	"wasmcore/internal/ir"
	"wasmcore/internal/types"
)

// Options mirrors spec.md §6's Options: target width, a dry-run toggle, and
// the tree-shaking policy.
type Options struct {
	Target        types.Target
	NoEmit        bool
	NoTreeShaking bool
}

// Result is the compiler's output: the built module plus its rendered WAT,
// mirroring the teacher's compiler.Result (Wat + Wasm fields) but without
// the Wasm bytes, since assembly now belongs to internal/ir's validator, not
// the driver.
type Result struct {
	Module *ir.Module
	Wat    string
	Diags  *diag.Sink

	// MemSummary is the linear-memory layout's humanized summary
	// (memlayout.Manager.Summary()), surfaced here so callers that only hold
	// a Result (e.g. cmd/wasmcore) don't need their own Manager handle.
	MemSummary string
}
