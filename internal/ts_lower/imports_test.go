package ts_lower

import (
	"testing"

	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/config"
	"github.com/tslower/tslower/internal/logger"
)

func namedImport(b *builder, path string, names ...ast.Ref) *ast.SImport {
	items := make([]ast.ClauseItem, len(names))
	for i, ref := range names {
		name := b.tree.NameOf(ref)
		items[i] = ast.ClauseItem{Alias: name, Name: ast.LocRef{Ref: ref}, OriginalName: name}
	}
	return &ast.SImport{
		NamespaceRef: b.symbol(ast.SymbolHoisted, "import_"+path),
		Items:        &items,
		Path:         path,
	}
}

func TestTypeOnlyUsedImportIsRemoved(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		tRef := b.symbol(ast.SymbolImport, "T")
		b.add(namedImport(b, "./t", tRef))
		v := b.symbol(ast.SymbolOther, "v")
		b.add(&ast.SLocal{Kind: ast.LocalLet, Decls: []ast.Decl{{
			Binding:   bindingID(v),
			TypeOrNil: namedType(tRef, "T"),
		}}})
	}, "let v;\n")
}

func TestValueUsedImportIsKept(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		c := b.symbol(ast.SymbolImport, "C")
		b.add(namedImport(b, "./c", c))
		b.add(exprStmt(ast.Expr{Data: &ast.ENew{Target: id(c)}}))
	}, "import { C } from \"./c\";\nnew C();\n")
}

func TestUnusedImportPreservedUnderPreservePolicy(t *testing.T) {
	expectLowered(t, config.Options{UnusedImports: config.UnusedImportsPreserve}, func(b *builder) {
		tRef := b.symbol(ast.SymbolImport, "T")
		b.add(namedImport(b, "./t", tRef))
		v := b.symbol(ast.SymbolOther, "v")
		b.add(&ast.SLocal{Kind: ast.LocalLet, Decls: []ast.Decl{{
			Binding:   bindingID(v),
			TypeOrNil: namedType(tRef, "T"),
		}}})
	}, "import { T } from \"./t\";\nlet v;\n")
}

func TestUnusedImportReportedUnderErrorPolicy(t *testing.T) {
	expectLoweredDiagnostic(t, config.Options{UnusedImports: config.UnusedImportsError}, func(b *builder) {
		tRef := b.symbol(ast.SymbolImport, "T")
		b.add(namedImport(b, "./t", tRef))
	}, "\"T\" is never used as a value and must be imported using \"import type\"")
}

func TestImportTypeStatementAlwaysRemoved(t *testing.T) {
	expectLowered(t, config.Options{UnusedImports: config.UnusedImportsPreserve}, func(b *builder) {
		tRef := b.symbol(ast.SymbolImport, "T")
		stmt := namedImport(b, "./t", tRef)
		stmt.IsTypeOnly = true
		b.add(stmt)
	}, "")
}

func TestVerbatimModuleSyntaxKeepsValueImports(t *testing.T) {
	expectLowered(t, config.Options{VerbatimModuleSyntax: true}, func(b *builder) {
		tRef := b.symbol(ast.SymbolImport, "T")
		f := b.symbol(ast.SymbolImport, "f")
		stmt := namedImport(b, "./m", tRef, f)
		(*stmt.Items)[0].IsTypeOnly = true
		b.add(stmt)

		// Unused as a value, but verbatim syntax keeps it anyway
		u := b.symbol(ast.SymbolImport, "u")
		b.add(namedImport(b, "./u", u))
	}, "import { f } from \"./m\";\nimport { u } from \"./u\";\n")
}

func TestVerbatimModuleSyntaxKeepsEmptiedClause(t *testing.T) {
	expectLowered(t, config.Options{VerbatimModuleSyntax: true}, func(b *builder) {
		tRef := b.symbol(ast.SymbolImport, "T")
		stmt := namedImport(b, "./t", tRef)
		(*stmt.Items)[0].IsTypeOnly = true
		b.add(stmt)
	}, "import {} from \"./t\";\n")
}

func TestDefaultImportPartialElision(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		d := b.symbol(ast.SymbolImport, "D")
		tRef := b.symbol(ast.SymbolImport, "T")
		stmt := namedImport(b, "./m", tRef)
		stmt.DefaultName = &ast.LocRef{Ref: d}
		b.add(stmt)
		f := b.unbound("f")
		b.add(exprStmt(call(id(f), id(d))))
	}, "import D from \"./m\";\nf(D);\n")
}

func TestUnusedStarImportIsRemoved(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		ns := b.symbol(ast.SymbolImport, "ns")
		loc := logger.Loc{}
		b.add(&ast.SImport{NamespaceRef: ns, StarNameLoc: &loc, Path: "./m"})
	}, "")
}

func TestBareImportIsAlwaysKept(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		b.add(&ast.SImport{NamespaceRef: b.symbol(ast.SymbolHoisted, "import_side"), Path: "./side"})
	}, "import \"./side\";\n")
}

func TestImportKeptWhenReExported(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		c := b.symbol(ast.SymbolImport, "C")
		b.add(namedImport(b, "./c", c))
		b.add(&ast.SExportClause{Items: []ast.ClauseItem{
			{Alias: "C", Name: ast.LocRef{Ref: c}, OriginalName: "C"},
		}})
	}, "import { C } from \"./c\";\nexport { C };\n")
}

func TestReExportedImportNotReportedUnderErrorPolicy(t *testing.T) {
	expectLowered(t, config.Options{UnusedImports: config.UnusedImportsError}, func(b *builder) {
		c := b.symbol(ast.SymbolImport, "C")
		b.add(namedImport(b, "./c", c))
		b.add(&ast.SExportClause{Items: []ast.ClauseItem{
			{Alias: "C", Name: ast.LocRef{Ref: c}, OriginalName: "C"},
		}})
	}, "import { C } from \"./c\";\nexport { C };\n")
}

func TestImportElidedWhenReExportMarkedType(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		tRef := b.symbol(ast.SymbolImport, "T")
		b.add(namedImport(b, "./t", tRef))
		b.add(&ast.SExportClause{Items: []ast.ClauseItem{
			{Alias: "T", Name: ast.LocRef{Ref: tRef}, OriginalName: "T", IsTypeOnly: true},
		}})
	}, "export {};\n")
}

func TestExportClauseElidesTypeOnlyNames(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		c := b.symbol(ast.SymbolClass, "C")
		b.add(&ast.SClass{Class: ast.Class{Name: ast.LocRef{Ref: c}}})
		shape := b.symbol(ast.SymbolTypeOnly, "Shape")
		b.add(&ast.SInterface{Name: ast.LocRef{Ref: shape}})
		b.add(&ast.SExportClause{Items: []ast.ClauseItem{
			{Alias: "C", Name: ast.LocRef{Ref: c}, OriginalName: "C"},
			{Alias: "Shape", Name: ast.LocRef{Ref: shape}, OriginalName: "Shape"},
		}})
	}, "class C {\n}\nexport { C };\n")
}

func TestEmptyExportClauseIsKept(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		shape := b.symbol(ast.SymbolTypeOnly, "Shape")
		b.add(&ast.SInterface{Name: ast.LocRef{Ref: shape}})
		b.add(&ast.SExportClause{Items: []ast.ClauseItem{
			{Alias: "Shape", Name: ast.LocRef{Ref: shape}, OriginalName: "Shape"},
		}})
	}, "export {};\n")
}

func TestExportFromElidesTypeMarkedNames(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		a := b.symbol(ast.SymbolImport, "A")
		bRef := b.symbol(ast.SymbolImport, "B")
		b.add(&ast.SExportFrom{Items: []ast.ClauseItem{
			{Alias: "A", Name: ast.LocRef{Ref: a}, OriginalName: "A", IsTypeOnly: true},
			{Alias: "B", Name: ast.LocRef{Ref: bRef}, OriginalName: "B"},
		}, Path: "./m"})
	}, "export { B } from \"./m\";\n")
}

func TestExportFromDroppedWhenAllNamesWereTypes(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		a := b.symbol(ast.SymbolImport, "A")
		b.add(&ast.SExportFrom{Items: []ast.ClauseItem{
			{Alias: "A", Name: ast.LocRef{Ref: a}, OriginalName: "A", IsTypeOnly: true},
		}, Path: "./m"})
	}, "")
}

func TestImportEqualsElision(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		target := b.unbound("Lib")
		a := b.symbol(ast.SymbolConst, "A")
		local := localStmt(ast.LocalConst, a, dot(id(target), "Inner"))
		local.WasTSImportEquals = true
		b.add(local)
	}, "")
}

func TestImportEqualsKeptWhenUsedAsValue(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		target := b.unbound("Lib")
		a := b.symbol(ast.SymbolConst, "A")
		local := localStmt(ast.LocalConst, a, dot(id(target), "Inner"))
		local.WasTSImportEquals = true
		b.add(local)
		f := b.unbound("f")
		b.add(exprStmt(call(id(f), id(a))))
	}, "const A = Lib.Inner;\nf(A);\n")
}
