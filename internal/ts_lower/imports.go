package ts_lower

// Import/export rewriting runs last: by now enum and namespace lowering
// have recorded every value reference they materialized, so the usage
// records reflect the final program.
//
// Elision is driven by two axes. Explicitly type-marked syntax ("import
// type", "export type", "{ type T }") is always removed. Value syntax whose
// binding is never used as a value is removed, kept, or reported depending
// on the unused-imports policy; under verbatim module syntax this second
// axis is disabled entirely and only the explicit markers count.

import (
	"fmt"

	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/config"
	"github.com/tslower/tslower/internal/logger"
)

func (l *lowerer) rewriteImportsAndExports(stmts []ast.Stmt) []ast.Stmt {
	result := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *ast.SImport:
			if stmt, keep := l.rewriteImport(stmt, s); keep {
				result = append(result, stmt)
			}
			continue

		case *ast.SExportClause:
			if stmt, keep := l.rewriteExportClause(stmt, s); keep {
				result = append(result, stmt)
			}
			continue

		case *ast.SExportFrom:
			if stmt, keep := l.rewriteExportFrom(stmt, s); keep {
				result = append(result, stmt)
			}
			continue

		case *ast.SLocal:
			// "import A = B.C" that is only ever referenced in type positions
			// disappears along with the type uses
			if s.WasTSImportEquals && !s.IsExport && !l.localIsUsedAsValue(s) {
				continue
			}
		}

		result = append(result, stmt)
	}
	return result
}

func (l *lowerer) localIsUsedAsValue(s *ast.SLocal) bool {
	for _, decl := range s.Decls {
		if id, ok := decl.Binding.Data.(*ast.BIdentifier); ok && l.isUsedAsValue(id.Ref) {
			return true
		}
	}
	return false
}

func (l *lowerer) rewriteImport(stmt ast.Stmt, s *ast.SImport) (ast.Stmt, bool) {
	// "import 'path'" runs for effect and survives every mode
	if s.DefaultName == nil && s.Items == nil && s.StarNameLoc == nil {
		return stmt, true
	}

	if s.IsTypeOnly {
		return ast.Stmt{}, false
	}

	if l.options.VerbatimModuleSyntax {
		// Only the "type" markers are honored. An import left with an empty
		// clause still executes, so it stays as written.
		if s.Items != nil {
			items := (*s.Items)[:0]
			for _, item := range *s.Items {
				if !item.IsTypeOnly {
					items = append(items, item)
				}
			}
			*s.Items = items
		}
		return stmt, true
	}

	foundImports := false
	keptImports := false

	if s.DefaultName != nil {
		foundImports = true
		if l.shouldElideImport(s.DefaultName.Ref, false) {
			s.DefaultName = nil
		} else {
			l.maybeReportElision(s.DefaultName.Ref, s.DefaultName.Loc)
			keptImports = true
		}
	}

	if s.StarNameLoc != nil {
		foundImports = true
		if l.shouldElideImport(s.NamespaceRef, false) {
			s.StarNameLoc = nil
		} else {
			l.maybeReportElision(s.NamespaceRef, *s.StarNameLoc)
			keptImports = true
		}
	}

	if s.Items != nil {
		foundImports = true
		items := (*s.Items)[:0]
		for _, item := range *s.Items {
			if l.shouldElideImport(item.Name.Ref, item.IsTypeOnly) {
				continue
			}
			l.maybeReportElision(item.Name.Ref, item.Name.Loc)
			items = append(items, item)
			keptImports = true
		}
		if len(items) == 0 {
			s.Items = nil
		} else {
			*s.Items = items
		}
	}

	if foundImports && !keptImports {
		// Every binding was elided. The side effect of loading the module
		// goes too unless the policy says to preserve it.
		if l.options.UnusedImports == config.UnusedImportsPreserve {
			return stmt, true
		}
		return ast.Stmt{}, false
	}
	return stmt, true
}

func (l *lowerer) shouldElideImport(ref ast.Ref, isTypeOnlyItem bool) bool {
	if isTypeOnlyItem {
		return true
	}
	if l.isUsedAsValue(ref) {
		return false
	}
	// The "preserve" policy keeps unused value imports as written, and the
	// "error" policy keeps them too but reports each one
	return l.options.UnusedImports == config.UnusedImportsRemove
}

func (l *lowerer) maybeReportElision(ref ast.Ref, loc logger.Loc) {
	if l.options.UnusedImports == config.UnusedImportsError && !l.isUsedAsValue(ref) {
		l.log.AddRangeError(&l.source, l.rangeOf(loc), fmt.Sprintf(
			"%q is never used as a value and must be imported using \"import type\"",
			l.tree.NameOf(l.tree.FollowSymbols(ref))))
	}
}

func (l *lowerer) rewriteExportClause(stmt ast.Stmt, s *ast.SExportClause) (ast.Stmt, bool) {
	if s.IsTypeOnly {
		return ast.Stmt{}, false
	}

	items := s.Items[:0]
	for _, item := range s.Items {
		if item.IsTypeOnly {
			continue
		}
		ref := l.tree.FollowSymbols(item.Name.Ref)
		if !l.options.VerbatimModuleSyntax {
			// Exporting an interface or type alias exports nothing at runtime
			if l.tree.Symbol(ref).Kind.IsTypeScriptOnly() {
				continue
			}
		}
		if group, ok := l.enumGroups[ref]; ok && group.isAmbient {
			// There is no object to re-export: the declaration was ambient and
			// every member use was inlined
			l.log.AddRangeError(&l.source, l.rangeOf(item.Name.Loc), fmt.Sprintf(
				"Cannot export the ambient const enum %q", group.name))
			continue
		}
		items = append(items, item)
	}
	s.Items = items

	// "export {}" stays: it marks the file as a module
	return stmt, true
}

func (l *lowerer) rewriteExportFrom(stmt ast.Stmt, s *ast.SExportFrom) (ast.Stmt, bool) {
	if s.IsTypeOnly {
		return ast.Stmt{}, false
	}

	// Re-exported names live in another file, so only explicit "type"
	// markers can be judged here
	items := s.Items[:0]
	for _, item := range s.Items {
		if item.IsTypeOnly {
			continue
		}
		items = append(items, item)
	}
	s.Items = items

	if len(s.Items) == 0 {
		// "export {} from 'path'" still loads the module, but a clause that
		// named only types never did
		return ast.Stmt{}, false
	}
	return stmt, true
}
