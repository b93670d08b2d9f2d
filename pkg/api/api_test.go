package api

import (
	"testing"

	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/test"
)

func TestLowerEnumEndToEnd(t *testing.T) {
	tree := &ast.Tree{}
	tree.Stmts = []ast.Stmt{{Data: &ast.SEnum{
		Name: ast.LocRef{Ref: tree.NewSymbol(ast.SymbolTSEnum, "Color")},
		Arg:  tree.NewSymbol(ast.SymbolHoisted, "Color"),
		Values: []ast.EnumValue{
			{Name: "Red", Ref: tree.NewSymbol(ast.SymbolOther, "Red")},
		},
	}}}

	result := Lower(tree, test.SourceForTest(""), LowerOptions{})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	test.AssertEqualWithDiff(t, result.Code, `var Color = /* @__PURE__ */ ((Color) => {
  Color[Color["Red"] = 0] = "Red";
  return Color;
})(Color || {});
`)
}

func TestLowerWithStderrLogging(t *testing.T) {
	// Routing diagnostics through the stderr renderer must not change what
	// the result carries
	tree := &ast.Tree{}
	flag := tree.NewSymbol(ast.SymbolTSConstEnum, "Flag")
	f := tree.NewSymbol(ast.SymbolUnbound, "f")
	tree.Stmts = []ast.Stmt{
		{Data: &ast.SEnum{
			Name:    ast.LocRef{Ref: flag},
			Arg:     tree.NewSymbol(ast.SymbolHoisted, "Flag"),
			Values:  []ast.EnumValue{{Name: "On", Ref: tree.NewSymbol(ast.SymbolOther, "On"), ValueOrNil: ast.Expr{Data: &ast.ENumber{Value: 1}}}},
			IsConst: true,
		}},
		{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.ECall{
			Target: ast.Expr{Data: &ast.EIdentifier{Ref: f}},
			Args:   []ast.Expr{{Data: &ast.EIdentifier{Ref: flag}}},
		}}}},
	}

	result := Lower(tree, test.SourceForTest(""), LowerOptions{
		LogLevel: LogLevelError,
		Color:    ColorNever,
	})
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	test.AssertEqual(t, result.Errors[0].Text, "A const enum can only be used in a member access expression")
}

func TestLowerReportsErrorsWithoutAborting(t *testing.T) {
	tree := &ast.Tree{}
	flag := tree.NewSymbol(ast.SymbolTSConstEnum, "Flag")
	f := tree.NewSymbol(ast.SymbolUnbound, "f")
	x := tree.NewSymbol(ast.SymbolUnbound, "x")
	tree.Stmts = []ast.Stmt{
		{Data: &ast.SEnum{
			Name:    ast.LocRef{Ref: flag},
			Arg:     tree.NewSymbol(ast.SymbolHoisted, "Flag"),
			Values:  []ast.EnumValue{{Name: "On", Ref: tree.NewSymbol(ast.SymbolOther, "On"), ValueOrNil: ast.Expr{Data: &ast.ENumber{Value: 1}}}},
			IsConst: true,
		}},
		{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.ECall{
			Target: ast.Expr{Data: &ast.EIdentifier{Ref: f}},
			Args: []ast.Expr{{Data: &ast.EIndex{
				Target: ast.Expr{Data: &ast.EIdentifier{Ref: flag}},
				Index:  ast.Expr{Data: &ast.EIdentifier{Ref: x}},
			}}},
		}}}},
	}

	result := Lower(tree, test.SourceForTest(""), LowerOptions{})
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	test.AssertEqual(t, result.Errors[0].Text, "A const enum member can only be accessed using a string literal")
	if result.Code == "" {
		t.Fatal("expected best-effort output even with errors")
	}
}
