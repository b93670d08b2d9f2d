package config

import (
	"github.com/tslower/tslower/internal/ast"
)

// What to do with an import specifier whose binding is never referenced in
// a value position. This mirrors the "importsNotUsedAsValues" compiler
// option; "error" reports specifiers that would have been silently removed.
type UnusedImports uint8

const (
	UnusedImportsRemove UnusedImports = iota
	UnusedImportsPreserve
	UnusedImportsError
)

type Options struct {
	// Policy for import/export specifiers that are only referenced in type
	// positions
	UnusedImports UnusedImports

	// When enabled, const enums are lowered to runtime objects like regular
	// enums instead of being inlined at member use sites. Required for
	// cross-module isolation.
	PreserveConstEnums bool

	// When enabled, only syntax explicitly marked "type" is elided; every
	// other import and export is passed through untouched.
	VerbatimModuleSyntax bool

	// When the target supports class field declarations, field initializers
	// stay in place. Otherwise instance fields move into the constructor and
	// static fields become assignments after the class.
	TargetSupportsClassFields bool

	// Lowering never inlines runtime helper bodies. When a transform needs a
	// helper it asks this hook for a binding by name (e.g. "__publicField")
	// and emits a reference; a later pass is responsible for injecting the
	// helper itself. Optional: leaving it nil selects plain assignments.
	RequireHelper func(name string) ast.Ref
}
