package js_printer

import (
	"testing"

	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/test"
)

func printStmtsForTest(tree *ast.Tree) string {
	return string(Print(tree).JS)
}

func TestPrintOperatorPrecedence(t *testing.T) {
	tree := &ast.Tree{}
	n := tree.NewSymbol(ast.SymbolHoisted, "n")

	// "n || (n = {})"
	tree.Stmts = []ast.Stmt{{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.EBinary{
		Op:   ast.BinOpLogicalOr,
		Left: ast.Expr{Data: &ast.EIdentifier{Ref: n}},
		Right: ast.Assign(
			ast.Expr{Data: &ast.EIdentifier{Ref: n}},
			ast.Expr{Data: &ast.EObject{}},
		),
	}}}}}
	test.AssertEqual(t, printStmtsForTest(tree), "n || (n = {});\n")
}

func TestPrintLeftAssociativeChain(t *testing.T) {
	tree := &ast.Tree{}
	a := tree.NewSymbol(ast.SymbolHoisted, "a")
	b := tree.NewSymbol(ast.SymbolHoisted, "b")
	c := tree.NewSymbol(ast.SymbolHoisted, "c")

	tree.Stmts = []ast.Stmt{{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.EBinary{
		Op: ast.BinOpAdd,
		Left: ast.Expr{Data: &ast.EBinary{
			Op:    ast.BinOpAdd,
			Left:  ast.Expr{Data: &ast.EIdentifier{Ref: a}},
			Right: ast.Expr{Data: &ast.EIdentifier{Ref: b}},
		}},
		Right: ast.Expr{Data: &ast.EIdentifier{Ref: c}},
	}}}}}
	test.AssertEqual(t, printStmtsForTest(tree), "a + b + c;\n")
}

func TestPrintInlinedEnumComment(t *testing.T) {
	tree := &ast.Tree{}
	f := tree.NewSymbol(ast.SymbolUnbound, "f")

	tree.Stmts = []ast.Stmt{{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.ECall{
		Target: ast.Expr{Data: &ast.EIdentifier{Ref: f}},
		Args: []ast.Expr{{Data: &ast.EInlinedEnum{
			Value:   ast.Expr{Data: &ast.ENumber{Value: 1}},
			Comment: "Flag.On",
		}}},
	}}}}}
	test.AssertEqual(t, printStmtsForTest(tree), "f(1 /* Flag.On */);\n")
}

func TestPrintIfElse(t *testing.T) {
	tree := &ast.Tree{}
	x := tree.NewSymbol(ast.SymbolHoisted, "x")
	f := tree.NewSymbol(ast.SymbolUnbound, "f")
	g := tree.NewSymbol(ast.SymbolUnbound, "g")
	callTo := func(ref ast.Ref) ast.Stmt {
		return ast.Stmt{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.ECall{
			Target: ast.Expr{Data: &ast.EIdentifier{Ref: ref}},
		}}}}
	}

	tree.Stmts = []ast.Stmt{{Data: &ast.SIf{
		Test:    ast.Expr{Data: &ast.EIdentifier{Ref: x}},
		Yes:     ast.Stmt{Data: &ast.SBlock{Stmts: []ast.Stmt{callTo(f)}}},
		NoOrNil: ast.Stmt{Data: &ast.SBlock{Stmts: []ast.Stmt{callTo(g)}}},
	}}}
	test.AssertEqual(t, printStmtsForTest(tree), "if (x) {\n  f();\n} else {\n  g();\n}\n")
}

func TestPrintTypeofKeywordSpacing(t *testing.T) {
	tree := &ast.Tree{}
	x := tree.NewSymbol(ast.SymbolHoisted, "x")

	tree.Stmts = []ast.Stmt{{Data: &ast.SExpr{Value: ast.Expr{Data: &ast.EUnary{
		Op:    ast.UnOpTypeof,
		Value: ast.Expr{Data: &ast.EIdentifier{Ref: x}},
	}}}}}
	test.AssertEqual(t, printStmtsForTest(tree), "typeof x;\n")
}
