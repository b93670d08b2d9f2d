package ts_lower

import (
	"testing"

	"github.com/tslower/tslower/internal/ast"
	"github.com/tslower/tslower/internal/config"
)

func method(name string, fn ast.Fn) ast.Property {
	return ast.Property{
		Kind:       ast.PropertyNormal,
		IsMethod:   true,
		Key:        str(name),
		ValueOrNil: ast.Expr{Data: &ast.EFunction{Fn: fn}},
	}
}

func field(name string, initializerOrNil ast.Expr) ast.Property {
	return ast.Property{
		Kind:             ast.PropertyNormal,
		Key:              str(name),
		InitializerOrNil: initializerOrNil,
	}
}

func addClass(b *builder, name string, extendsOrNil ast.Expr, properties ...ast.Property) ast.Ref {
	nameRef := b.symbol(ast.SymbolClass, name)
	b.add(&ast.SClass{Class: ast.Class{
		Name:         ast.LocRef{Ref: nameRef},
		ExtendsOrNil: extendsOrNil,
		Properties:   properties,
	}})
	return nameRef
}

func TestParameterProperties(t *testing.T) {
	expectLowered(t, config.Options{TargetSupportsClassFields: true}, func(b *builder) {
		x := b.symbol(ast.SymbolHoisted, "x")
		y := b.symbol(ast.SymbolHoisted, "y")
		addClass(b, "Foo", ast.Expr{}, method("constructor", ast.Fn{
			Name: ast.LocRef{Ref: ast.InvalidRef},
			Args: []ast.Arg{
				{Binding: bindingID(x), IsTypeScriptCtorField: true},
				{Binding: bindingID(y), IsTypeScriptCtorField: true},
			},
			HasBody: true,
		}))
	}, `class Foo {
  constructor(x, y) {
    this.x = x;
    this.y = y;
  }
}
`)
}

func TestParameterPropertiesAfterSuper(t *testing.T) {
	expectLowered(t, config.Options{TargetSupportsClassFields: true}, func(b *builder) {
		base := b.unbound("Base")
		x := b.symbol(ast.SymbolHoisted, "x")
		superCall := ast.Stmt{Data: &ast.SExpr{Value: call(ast.Expr{Data: ast.ESuperShared}, num(1))}}
		addClass(b, "Foo", id(base), method("constructor", ast.Fn{
			Name:    ast.LocRef{Ref: ast.InvalidRef},
			Args:    []ast.Arg{{Binding: bindingID(x), IsTypeScriptCtorField: true}},
			HasBody: true,
			Body:    ast.FnBody{Stmts: []ast.Stmt{superCall}},
		}))
	}, `class Foo extends Base {
  constructor(x) {
    super(1);
    this.x = x;
  }
}
`)
}

func TestParameterPropertiesSynthesizeMissingSuperCall(t *testing.T) {
	expectLowered(t, config.Options{TargetSupportsClassFields: true}, func(b *builder) {
		base := b.unbound("Base")
		x := b.symbol(ast.SymbolHoisted, "x")
		addClass(b, "Foo", id(base), method("constructor", ast.Fn{
			Name:    ast.LocRef{Ref: ast.InvalidRef},
			Args:    []ast.Arg{{Binding: bindingID(x), IsTypeScriptCtorField: true}},
			HasBody: true,
		}))
	}, `class Foo extends Base {
  constructor(x) {
    super(...arguments);
    this.x = x;
  }
}
`)
}

func TestParameterPropertyBindingPattern(t *testing.T) {
	expectLoweredDiagnostic(t, config.Options{}, func(b *builder) {
		x := b.symbol(ast.SymbolHoisted, "x")
		pattern := ast.Binding{Data: &ast.BObject{Properties: []ast.PropertyBinding{{
			Key:   str("x"),
			Value: bindingID(x),
		}}}}
		addClass(b, "Foo", ast.Expr{}, method("constructor", ast.Fn{
			Name:    ast.LocRef{Ref: ast.InvalidRef},
			Args:    []ast.Arg{{Binding: pattern, IsTypeScriptCtorField: true}},
			HasBody: true,
		}))
	}, "A parameter property may not be declared using a binding pattern")
}

func TestInstanceFieldLowering(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		addClass(b, "Foo", ast.Expr{}, field("x", num(1)))
	}, `class Foo {
  constructor() {
    this.x = 1;
  }
}
`)
}

func TestInstanceFieldLoweringSynthesizesSuperCall(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		base := b.unbound("Base")
		addClass(b, "Bar", id(base), field("x", num(1)))
	}, `class Bar extends Base {
  constructor() {
    super(...arguments);
    this.x = 1;
  }
}
`)
}

func TestStaticFieldLowering(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		addClass(b, "Foo", ast.Expr{}, ast.Property{
			Kind:             ast.PropertyNormal,
			Key:              str("count"),
			IsStatic:         true,
			InitializerOrNil: num(0),
		})
	}, `class Foo {
}
Foo.count = 0;
`)
}

func TestFieldsKeptWhenTargetSupportsThem(t *testing.T) {
	expectLowered(t, config.Options{TargetSupportsClassFields: true}, func(b *builder) {
		addClass(b, "Foo", ast.Expr{},
			field("x", num(1)),
			ast.Property{
				Kind:             ast.PropertyNormal,
				Key:              str("count"),
				IsStatic:         true,
				InitializerOrNil: num(0),
			},
		)
	}, `class Foo {
  x = 1;
  static count = 0;
}
`)
}

func TestFieldLoweringWithHelper(t *testing.T) {
	var helperRef ast.Ref
	options := config.Options{
		RequireHelper: func(name string) ast.Ref {
			if name != "__publicField" {
				panic("unexpected helper: " + name)
			}
			return helperRef
		},
	}
	expectLowered(t, options, func(b *builder) {
		helperRef = b.unbound("__publicField")
		addClass(b, "Foo", ast.Expr{}, field("x", num(1)))
	}, `class Foo {
  constructor() {
    __publicField(this, "x", 1);
  }
}
`)
}

func TestAbstractAndDeclareMembersDropped(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		addClass(b, "Foo", ast.Expr{},
			ast.Property{Kind: ast.PropertyNormal, Key: str("a"), IsAbstract: true},
			ast.Property{Kind: ast.PropertyNormal, Key: str("b"), IsDeclare: true, InitializerOrNil: num(1)},
			method("run", ast.Fn{Name: ast.LocRef{Ref: ast.InvalidRef}, HasBody: true}),
		)
	}, `class Foo {
  run() {
  }
}
`)
}

func TestMethodOverloadSignaturesDropped(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		addClass(b, "Foo", ast.Expr{},
			method("run", ast.Fn{Name: ast.LocRef{Ref: ast.InvalidRef}}),
			method("run", ast.Fn{Name: ast.LocRef{Ref: ast.InvalidRef}, HasBody: true}),
		)
	}, `class Foo {
  run() {
  }
}
`)
}

func TestClassInsideNamespaceClosure(t *testing.T) {
	expectLowered(t, config.Options{}, func(b *builder) {
		fooRef := b.symbol(ast.SymbolClass, "Foo")
		addNamespace(b, "N", false, &ast.SClass{
			Class: ast.Class{
				Name:       ast.LocRef{Ref: fooRef},
				Properties: []ast.Property{field("x", num(1))},
			},
			IsExport: true,
		})
	}, `var N;
((N) => {
  class Foo {
    constructor() {
      this.x = 1;
    }
  }
  N.Foo = Foo;
})(N || (N = {}));
`)
}
