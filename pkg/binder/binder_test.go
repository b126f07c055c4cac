package binder

import (
	"reflect"
	"testing"

	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/parser"
)

func noop(libraries.Call) libraries.Result { return libraries.Done() }

func testRegistry() *libraries.Registry {
	return libraries.NewRegistry(
		&libraries.Library{
			Name: "TextWindow",
			Methods: []*libraries.Method{
				{Name: "WriteLine", Parameters: []libraries.Parameter{{Name: "data"}}, Execute: noop},
				{Name: "Read", ReturnsValue: true, Intrinsic: true},
				{Name: "Beep"},
			},
			Properties: []*libraries.Property{
				{Name: "Title", Getter: noop, Setter: noop},
				{Name: "Secret", Setter: noop},
				{Name: "Width", Getter: noop},
			},
			Events: []*libraries.Event{{Name: "KeyDown"}},
		},
		&libraries.Library{
			Name: "Legacy",
			Methods: []*libraries.Method{
				{Name: "Old", IsDeprecated: true, Execute: noop},
				{Name: "Window", NeedsDesktop: true, Execute: noop},
			},
		},
	)
}

func bind(source string, opts Options) (*BoundProgram, *diagnostics.Bag) {
	bag := diagnostics.NewBag()
	tree := parser.Parse(source, bag)
	return Bind(tree, testRegistry(), bag, opts), bag
}

func expectCodes(t *testing.T, source string, expected ...diagnostics.Code) *BoundProgram {
	t.Helper()

	program, bag := bind(source, Options{})
	if got := bag.Codes(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("source %q: expected diagnostics %v, got %v", source, expected, bag.Items())
	}

	return program
}

func TestBindStatements(t *testing.T) {
	program := expectCodes(t, "x = 1\nTextWindow.WriteLine(x)\nTextWindow.Title = \"t\"\n")

	stmts := program.Main.Statements
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if a, ok := stmts[0].(*BoundVariableAssignmentStatement); !ok || a.Variable != "x" {
		t.Errorf("expected variable assignment, got %#v", stmts[0])
	}
	inv, ok := stmts[1].(*BoundInvocationStatement)
	if !ok {
		t.Fatalf("expected invocation statement, got %#v", stmts[1])
	}
	call, ok := inv.Expression.(*BoundLibraryMethodInvocationExpression)
	if !ok || call.Library != "TextWindow" || call.Method.Name != "WriteLine" || len(call.Arguments) != 1 {
		t.Errorf("unexpected invocation %#v", inv.Expression)
	}
	if p, ok := stmts[2].(*BoundPropertyAssignmentStatement); !ok || p.Property.Name != "Title" {
		t.Errorf("expected property assignment, got %#v", stmts[2])
	}
}

func TestBindDropsComments(t *testing.T) {
	program := expectCodes(t, "' setup\nx = 1\nSub Foo\n  ' body\nEndSub\n")
	if n := len(program.Main.Statements); n != 1 {
		t.Fatalf("expected one bound statement in main, got %d", n)
	}
	if n := len(program.SubModules["Foo"].Body.Statements); n != 0 {
		t.Fatalf("expected an empty Foo, got %d statements", n)
	}
}

func TestBindIsCaseInsensitive(t *testing.T) {
	program := expectCodes(t, "Total = 1\ntextwindow.writeline(TOTAL)\n")

	call := program.Main.Statements[1].(*BoundInvocationStatement).Expression.(*BoundLibraryMethodInvocationExpression)
	if v, ok := call.Arguments[0].(*BoundVariableExpression); !ok || v.Name != "Total" {
		t.Errorf("expected variable to keep its first spelling, got %#v", call.Arguments[0])
	}
}

func TestBindExpressionStatements(t *testing.T) {
	expectCodes(t, "x + 1\n", diagnostics.UnassignedExpressionStatement)
	expectCodes(t, "TextWindow\n", diagnostics.InvalidExpressionStatement)
	expectCodes(t, "TextWindow.WriteLine\n", diagnostics.InvalidExpressionStatement)
	expectCodes(t, "1 = 2\n", diagnostics.UnassignedExpressionStatement)
	expectCodes(t, "TextWindow = 2\n", diagnostics.InvalidExpressionStatement)
}

func TestBindLibraryMembers(t *testing.T) {
	expectCodes(t, "TextWindow.Foo()\n", diagnostics.LibraryMemberNotFound)
	expectCodes(t, "TextWindow.Beep()\n", diagnostics.LibraryMemberNotSupported)
	expectCodes(t, "TextWindow.WriteLine(1, 2)\n", diagnostics.UnexpectedArgumentsCount)
	expectCodes(t, "TextWindow.Width = 3\n", diagnostics.PropertyHasNoSetter)
	expectCodes(t, "x = TextWindow.Secret\n", diagnostics.PropertyHasNoGetter)
	expectCodes(t, "x = TextWindow.WriteLine(1)\n", diagnostics.ExpectedExpressionWithAValue)
	expectCodes(t, "x = TextWindow.Read()\n")
}

func TestBindUnsupportedBases(t *testing.T) {
	expectCodes(t, "a = x.y\n", diagnostics.UnsupportedDotBaseExpression)
	expectCodes(t, "x()\n", diagnostics.UnsupportedInvocationBaseExpression)
	expectCodes(t, "TextWindow[1] = 2\n", diagnostics.UnsupportedArrayBaseExpression)
}

func TestBindDeprecatedIsWarning(t *testing.T) {
	_, bag := bind("Legacy.Old()\n", Options{})
	if codes := bag.Codes(); !reflect.DeepEqual(codes, []diagnostics.Code{diagnostics.LibraryMemberDeprecatedFromOlderVersion}) {
		t.Fatalf("unexpected diagnostics %v", codes)
	}
	if bag.HasErrors() {
		t.Errorf("a deprecation warning must not fail compilation")
	}
}

func TestBindNeedsDesktop(t *testing.T) {
	expectCodes(t, "Legacy.Window()\n", diagnostics.LibraryMemberNeedsDesktop)

	_, bag := bind("Legacy.Window()\n", Options{IsRunningOnDesktop: true})
	if bag.Len() != 0 {
		t.Errorf("desktop members are fine on the desktop, got %v", bag.Items())
	}
}

func TestBindSubModules(t *testing.T) {
	program := expectCodes(t, "Foo()\nSub Foo\n  x = 1\nEndSub\n")

	sub, ok := program.SubModules["Foo"]
	if !ok || len(sub.Body.Statements) != 1 {
		t.Fatalf("expected submodule Foo with one statement, got %#v", program.SubModules)
	}
	inv := program.Main.Statements[0].(*BoundInvocationStatement)
	if s, ok := inv.Expression.(*BoundSubModuleInvocationExpression); !ok || s.Name != "Foo" {
		t.Errorf("expected submodule invocation, got %#v", inv.Expression)
	}

	expectCodes(t, "Foo(1)\nSub Foo\nEndSub\n", diagnostics.UnexpectedArgumentsCount)
	expectCodes(t, "x = Foo()\nSub Foo\nEndSub\n", diagnostics.ExpectedExpressionWithAValue)
	expectCodes(t, "Sub Foo\nEndSub\nSub foo\nEndSub\n", diagnostics.TwoSubModulesWithTheSameName)
}

func TestBindEvents(t *testing.T) {
	program := expectCodes(t, "TextWindow.KeyDown = OnKey\nSub OnKey\nEndSub\n")

	e, ok := program.Main.Statements[0].(*BoundEventAssignmentStatement)
	if !ok || e.Event.Name != "KeyDown" || e.SubModule != "OnKey" {
		t.Fatalf("expected event assignment, got %#v", program.Main.Statements[0])
	}

	expectCodes(t, "TextWindow.KeyDown = 5\n", diagnostics.AssigningNonSubModuleToEvent)
}

func TestBindArrayIndicesInSourceOrder(t *testing.T) {
	program := expectCodes(t, "a[1][\"k\"] = 3\nx = a[1][\"k\"]\n")

	store := program.Main.Statements[0].(*BoundArrayAssignmentStatement)
	if store.Array != "a" || len(store.Indices) != 2 {
		t.Fatalf("unexpected array assignment %#v", store)
	}
	if first, ok := store.Indices[0].(*BoundNumberLiteralExpression); !ok || first.Literal.ToString() != "1" {
		t.Errorf("expected outermost index first, got %#v", store.Indices[0])
	}

	load := program.Main.Statements[1].(*BoundVariableAssignmentStatement)
	if access, ok := load.Value.(*BoundArrayAccessExpression); !ok || len(access.Indices) != 2 {
		t.Errorf("expected a flattened array access, got %#v", load.Value)
	}
}

func TestBindLabelsStayInTheirModule(t *testing.T) {
	expectCodes(t, "start:\nGoto start\n")
	expectCodes(t, "While 1 = 1\n  Goto done\nEndWhile\ndone:\n")
	expectCodes(t, "start:\nSub Foo\n  Goto start\nEndSub\n", diagnostics.GoToUndefinedLabel)
	expectCodes(t, "Goto a\nSub Foo\n  a:\nEndSub\n", diagnostics.GoToUndefinedLabel)
	expectCodes(t, "a:\na:\n", diagnostics.TwoLabelsWithTheSameName)
	expectCodes(t, "Sub Foo\n  a:\nEndSub\nSub Bar\n  a:\n  Goto a\nEndSub\n")
}
