package source

import (
	"wasmcore/internal/ast"
	"wasmcore/internal/types"
)

// Program is the external collaborator spec.md §6 calls "Resolver /
// Program": an ordered list of Sources, a symbol table from fully-qualified
// internal names to Elements, a named-export table, and the two resolution
// entry points the lowering components call into. The code-generation core
// only ever reads through this interface; building one (lexing, parsing,
// type resolution, symbol table construction) is out of scope.
type Program interface {
	// Initialize populates the element table with intrinsics for the
	// selected pointer width. Must be called once before compiling.
	Initialize(target types.Target) error

	// Sources returns every compilation unit, in a stable order.
	Sources() []*ast.Source

	// SourceByPath looks up a Source by its normalized path, as import
	// resolution and idempotence checks need (spec.md §4.1 compileSource).
	SourceByPath(normalizedPath string) (*ast.Source, bool)

	// Symbols returns the full symbol table: fully-qualified internal name
	// to Element.
	Symbols() map[string]*Element

	// Exports returns the named-export table for one source: exported local
	// name to Element.
	Exports(sourcePath string) map[string]*Element

	// ResolveType projects a surface TypeExpr to a concrete Type, given
	// optional contextual type arguments (for generic type parameters in
	// scope). Returns nil without error if the node cannot be resolved and
	// reportErrors is false.
	ResolveType(node ast.TypeExpr, contextualArgs []*types.Type, reportErrors bool) (*types.Type, error)

	// ResolveElement resolves an expression (typically an IdentExpr,
	// MemberExpr, or CallExpr callee) to the Element it names, in the scope
	// of currentFunction (nil at top level / in the start function).
	ResolveElement(expr ast.Expr, currentFunction *Function) (*Element, error)
}
