package ts_lower

import (
	"testing"

	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/config"
)

func addNamespace(b *builder, name string, isExport bool, stmts ...ast.S) (ast.Ref, ast.Ref) {
	nameRef := b.symbol(ast.SymbolTSNamespace, name)
	argRef := b.symbol(ast.SymbolHoisted, name)
	body := make([]ast.Stmt, len(stmts))
	for i, data := range stmts {
		body[i] = ast.Stmt{Data: data}
	}
	b.add(&ast.SNamespace{
		Name:     ast.LocRef{Ref: nameRef},
		Arg:      argRef,
		Stmts:    body,
		IsExport: isExport,
	})
	return nameRef, argRef
}

func TestNamespaceExportedVariable(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		x := b.symbol(ast.SymbolConst, "x")
		local := localStmt(ast.LocalConst, x, num(1))
		local.IsExport = true
		addNamespace(b, "N", false, local)
	}, `var N;
((N) => {
  N.x = 1;
})(N || (N = {}));
`)
}

func TestNamespaceExportedVariableReference(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		x := b.symbol(ast.SymbolConst, "x")
		local := localStmt(ast.LocalConst, x, num(1))
		local.IsExport = true
		f := b.unbound("f")
		addNamespace(b, "N", false, local, exprStmt(call(id(f), id(x))))
	}, `var N;
((N) => {
  N.x = 1;
  f(N.x);
})(N || (N = {}));
`)
}

func TestNamespaceUnexportedVariableStaysLocal(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		x := b.symbol(ast.SymbolConst, "x")
		f := b.unbound("f")
		addNamespace(b, "N", false,
			localStmt(ast.LocalConst, x, num(1)),
			exprStmt(call(id(f), id(x))),
		)
	}, `var N;
((N) => {
  const x = 1;
  f(x);
})(N || (N = {}));
`)
}

func TestNamespaceExportedFunction(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		f := b.symbol(ast.SymbolHoisted, "f")
		addNamespace(b, "N", false, &ast.SFunction{
			Fn:       ast.Fn{Name: ast.LocRef{Ref: f}, HasBody: true},
			IsExport: true,
		})
	}, `var N;
((N) => {
  function f() {
  }
  N.f = f;
})(N || (N = {}));
`)
}

func TestTypeOnlyNamespaceVanishes(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		addNamespace(b, "N", false, &ast.SInterface{
			Name: ast.LocRef{Ref: b.symbol(ast.SymbolTypeOnly, "Shape")},
		})
	}, "")
}

func TestNamespaceKeptWhenReExported(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		nameRef, _ := addNamespace(b, "N", false)
		b.add(&ast.SExportClause{Items: []ast.ClauseItem{
			{Alias: "N", Name: ast.LocRef{Ref: nameRef}, OriginalName: "N"},
		}})
	}, `var N;
((N) => {
})(N || (N = {}));
export { N };
`)
}

func TestNestedExportedNamespace(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		outerName := b.symbol(ast.SymbolTSNamespace, "A")
		outerArg := b.symbol(ast.SymbolHoisted, "A")
		innerName := b.symbol(ast.SymbolTSNamespace, "B")
		innerArg := b.symbol(ast.SymbolHoisted, "B")
		v := b.symbol(ast.SymbolConst, "v")
		local := localStmt(ast.LocalConst, v, num(2))
		local.IsExport = true

		b.add(&ast.SNamespace{
			Name: ast.LocRef{Ref: outerName},
			Arg:  outerArg,
			Stmts: []ast.Stmt{{Data: &ast.SNamespace{
				Name:     ast.LocRef{Ref: innerName},
				Arg:      innerArg,
				Stmts:    []ast.Stmt{{Data: local}},
				IsExport: true,
			}}},
		})
	}, `var A;
((A) => {
  let B;
  ((B) => {
    B.v = 2;
  })(B = A.B || (A.B = {}));
})(A || (A = {}));
`)
}

func TestEnumExportedInsideNamespace(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		nsName := b.symbol(ast.SymbolTSNamespace, "N")
		nsArg := b.symbol(ast.SymbolHoisted, "N")
		enumName := b.symbol(ast.SymbolTSEnum, "E")
		enumArg := b.symbol(ast.SymbolHoisted, "E")

		b.add(&ast.SNamespace{
			Name: ast.LocRef{Ref: nsName},
			Arg:  nsArg,
			Stmts: []ast.Stmt{{Data: &ast.SEnum{
				Name:     ast.LocRef{Ref: enumName},
				Arg:      enumArg,
				Values:   []ast.EnumValue{member(b, "A", ast.Expr{})},
				IsExport: true,
			}}},
		})
	}, `var N;
((N) => {
  let E;
  ((E) => {
    E[E["A"] = 0] = "A";
  })(E = N.E || (N.E = {}));
})(N || (N = {}));
`)
}

func TestMergedNamespaceFragments(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		a := b.symbol(ast.SymbolConst, "a")
		localA := localStmt(ast.LocalConst, a, num(1))
		localA.IsExport = true
		first, _ := addNamespace(b, "N", false, localA)

		second := b.symbol(ast.SymbolTSNamespace, "N")
		b.tree.Symbols[second.InnerIndex].Link = first
		bVar := b.symbol(ast.SymbolConst, "b")
		localB := localStmt(ast.LocalConst, bVar, num(2))
		localB.IsExport = true
		b.add(&ast.SNamespace{
			Name:  ast.LocRef{Ref: second},
			Arg:   b.symbol(ast.SymbolHoisted, "N"),
			Stmts: []ast.Stmt{{Data: localB}},
		})
	}, `var N;
((N) => {
  N.a = 1;
})(N || (N = {}));
((N) => {
  N.b = 2;
})(N || (N = {}));
`)
}
