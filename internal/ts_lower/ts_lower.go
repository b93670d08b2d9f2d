// This package is the TypeScript-specific lowering pass: it takes a tree
// that still contains TypeScript-only constructs and rewrites it into one
// containing only constructs with a runtime representation, ready for the
// generic downleveling transforms and the printer.
//
// The tree is visited once per sub-transform in a fixed order:
//
//  1. Usage classification (read-only)
//  2. Type erasure
//  3. Enum lowering
//  4. Namespace lowering
//  5. Class member lowering
//  6. Import/export rewriting
//
// Later passes depend on invariants established by earlier ones. Import
// rewriting in particular must see the final set of value-level references,
// which enum and namespace lowering may have introduced by materializing
// symbols that were previously type-only declarations.
package ts_lower

import (
	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/config"
	"github.com/tslower/tslower/internal/logger"
)

type lowerer struct {
	log     logger.Log
	source  logger.Source
	options *config.Options
	tree    *ast.Tree

	// Pass 1 output, indexed by the canonical symbol's inner index
	usage []UsageRecord

	// Bindings named by an "export { ... }" clause, by canonical ref. A
	// const enum on this list must materialize its object even when member
	// accesses are inlined.
	exportedViaClause map[ast.Ref]bool

	// Enum state, built by a pre-scan before enum lowering begins and keyed
	// by canonical (link-followed) refs so declaration merging is additive
	enumGroups     map[ast.Ref]*enumGroup
	enumValues     map[*ast.SEnum]enumFragment
	enumMemberRefs map[ast.Ref]enumMemberRef

	// Namespace state
	isExportedInsideNamespace map[ast.Ref]ast.Ref
	emittedNamespaceVars      map[ast.Ref]bool

	// Set while lowering statements inside a namespace body so generated
	// closures can wire exported names onto the enclosing namespace object
	enclosingNamespaceArgRef *ast.Ref

	// Module scope is depth zero; namespaces and function bodies push
	depth int
}

// Per binding: how the rest of the file references it. Built once by the
// classifier, then only appended to by lowering when it materializes new
// value references.
type UsageRecord struct {
	UsedAsValue bool
	UsedAsType  bool
	ValueSites  []logger.Loc
	TypeSites   []logger.Loc
}

// Lower rewrites the tree in place. Diagnostics go to the log; none of
// them aborts the pass. The same input always produces the same output
// tree and the same diagnostics.
func Lower(log logger.Log, source logger.Source, options *config.Options, tree *ast.Tree) {
	l := &lowerer{
		log:     log,
		source:  source,
		options: options,
		tree:    tree,

		usage:             make([]UsageRecord, len(tree.Symbols)),
		exportedViaClause: make(map[ast.Ref]bool),
		enumGroups:        make(map[ast.Ref]*enumGroup),
		enumValues:        make(map[*ast.SEnum]enumFragment),
		enumMemberRefs:    make(map[ast.Ref]enumMemberRef),

		isExportedInsideNamespace: make(map[ast.Ref]ast.Ref),
		emittedNamespaceVars:      make(map[ast.Ref]bool),
	}

	l.classifyStmts(tree.Stmts)
	tree.Stmts = l.eraseStmts(tree.Stmts)
	l.scanEnums(tree.Stmts)
	tree.Stmts = l.lowerEnumStmts(tree.Stmts)
	l.scanNamespaceExports(tree.Stmts)
	tree.Stmts = l.lowerNamespaceStmts(tree.Stmts)
	tree.Stmts = l.lowerClassStmts(tree.Stmts)
	tree.Stmts = l.rewriteImportsAndExports(tree.Stmts)
}

// The classification record for a binding. The record is shared across
// all symbols in a merge group.
func (l *lowerer) usageFor(ref ast.Ref) *UsageRecord {
	ref = l.tree.FollowSymbols(ref)
	if int(ref.InnerIndex) >= len(l.usage) {
		grown := make([]UsageRecord, len(l.tree.Symbols))
		copy(grown, l.usage)
		l.usage = grown
	}
	return &l.usage[ref.InnerIndex]
}

func (l *lowerer) recordValueUse(ref ast.Ref, loc logger.Loc) {
	record := l.usageFor(ref)
	record.UsedAsValue = true
	record.ValueSites = append(record.ValueSites, loc)
	l.tree.Symbol(l.tree.FollowSymbols(ref)).UseCountEstimate++
}

func (l *lowerer) recordTypeUse(ref ast.Ref, loc logger.Loc) {
	record := l.usageFor(ref)
	record.UsedAsType = true
	record.TypeSites = append(record.TypeSites, loc)
}

// Called by lowering passes when they emit a new reference to a symbol, so
// the import/export rewriter sees the final set of value references.
func (l *lowerer) recordUsage(ref ast.Ref) {
	record := l.usageFor(ref)
	record.UsedAsValue = true
	l.tree.Symbol(l.tree.FollowSymbols(ref)).UseCountEstimate++
}

func (l *lowerer) isUsedAsValue(ref ast.Ref) bool {
	return l.usageFor(ref).UsedAsValue
}

func (l *lowerer) rangeOf(loc logger.Loc) logger.Range {
	return logger.Range{Loc: loc}
}
