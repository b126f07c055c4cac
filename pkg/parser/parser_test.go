package parser_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/parser"
	"smallbasic/pkg/syntax"
)

// render prints an expression as an s-expression
func render(e syntax.Expression) string {
	switch e := e.(type) {
	case *syntax.BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", e.Operator.Lexeme, render(e.Left), render(e.Right))
	case *syntax.UnaryExpression:
		return fmt.Sprintf("(- %s)", render(e.Operand))
	case *syntax.ObjectAccessExpression:
		return fmt.Sprintf("%s.%s", render(e.Base), e.Member.Lexeme)
	case *syntax.ArrayAccessExpression:
		return fmt.Sprintf("%s[%s]", render(e.Base), render(e.Index))
	case *syntax.InvocationExpression:
		args := make([]string, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = render(a)
		}
		return fmt.Sprintf("%s(%s)", render(e.Base), strings.Join(args, ", "))
	case *syntax.ParenthesisExpression:
		return "[" + render(e.Expression) + "]"
	case *syntax.IdentifierExpression:
		return e.Identifier.Lexeme
	case *syntax.NumberLiteralExpression:
		return e.Token.Lexeme
	case *syntax.StringLiteralExpression:
		return e.Token.Lexeme
	case *syntax.MissingExpression:
		return "?"
	default:
		return fmt.Sprintf("%T", e)
	}
}

func parse(t *testing.T, source string) (*syntax.Program, *diagnostics.Bag) {
	t.Helper()

	bag := diagnostics.NewBag()
	return parser.Parse(source, bag), bag
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x = 1 + 2 * 3 - 4", "(= x (- (+ 1 (* 2 3)) 4))"},
		{"x = (1 + 2) * 3", "(= x (* [(+ 1 2)] 3))"},
		{"a = b = c", "(= a (= b c))"},
		{"x = a Or b And c", "(= x (Or a (And b c)))"},
		{"x = a < b And b <> c", "(= x (And (< a b) (<> b c)))"},
		{"x = -a.b[1]", "(= x (- a.b[1]))"},
		{"x = 8 / 4 / 2", "(= x (/ (/ 8 4) 2))"},
		{`TextWindow.WriteLine("a", 1 + 2)`, `TextWindow.WriteLine("a", (+ 1 2))`},
		{"grid[i][j + 1] = 0", "(= grid[i][(+ j 1)] 0)"},
	}

	for _, test := range tests {
		program, bag := parse(t, test.input)
		if bag.Len() != 0 {
			t.Errorf("%s: unexpected diagnostics %v", test.input, bag.Items())
			continue
		}
		if len(program.Statements) != 1 {
			t.Errorf("%s: expected one statement, got %d", test.input, len(program.Statements))
			continue
		}

		stmt, ok := program.Statements[0].(*syntax.ExpressionStatement)
		if !ok {
			t.Errorf("%s: expected an expression statement, got %T", test.input, program.Statements[0])
			continue
		}
		if got := render(stmt.Expression); got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.input, test.expected, got)
		}
	}
}

func TestStatements(t *testing.T) {
	program, bag := parse(t, `
' setup
If x = 1 Then
  y = 1
ElseIf x = 2 Then
  y = 2
Else
EndIf
While i < 10
  i = i + 1
EndWhile
For i = 1 To 10 Step 2
EndFor
start:
Goto start
Sub Greet
  TextWindow.WriteLine("hi")
EndSub
`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics %v", bag.Items())
	}

	var kinds []string
	for _, s := range program.Statements {
		kinds = append(kinds, fmt.Sprintf("%T", s))
	}
	expected := []string{
		"*syntax.CommentStatement",
		"*syntax.IfStatement",
		"*syntax.WhileStatement",
		"*syntax.ForStatement",
		"*syntax.LabelStatement",
		"*syntax.GoToStatement",
		"*syntax.SubModuleStatement",
	}
	if !reflect.DeepEqual(kinds, expected) {
		t.Fatalf("expected %v, got %v", expected, kinds)
	}

	ifs := program.Statements[1].(*syntax.IfStatement)
	if len(ifs.ElseIfs) != 1 || !ifs.HasElse || len(ifs.Else) != 0 || ifs.Else == nil {
		t.Errorf("unexpected if statement %+v", ifs)
	}

	loop := program.Statements[3].(*syntax.ForStatement)
	if loop.Identifier.Lexeme != "i" || render(loop.Step) != "2" {
		t.Errorf("unexpected for statement %+v", loop)
	}

	sub := program.Statements[6].(*syntax.SubModuleStatement)
	if sub.Name.Lexeme != "Greet" || !sub.Ended || len(sub.Body) != 1 {
		t.Errorf("unexpected sub %+v", sub)
	}
}

func TestKeywordsIgnoreCase(t *testing.T) {
	program, bag := parse(t, "if x then\nENDIF\nwhile 0\nendwhile\n")
	if bag.Len() != 0 || len(program.Statements) != 2 {
		t.Fatalf("expected two statements without diagnostics, got %d and %v", len(program.Statements), bag.Items())
	}
}

func TestForWithoutStep(t *testing.T) {
	program, _ := parse(t, "For i = 1 To 3\nEndFor\n")

	loop := program.Statements[0].(*syntax.ForStatement)
	if loop.Step != nil {
		t.Fatalf("expected no step, got %s", render(loop.Step))
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		input    string
		expected []diagnostics.Code
	}{
		{"x = (1\n", []diagnostics.Code{diagnostics.UnexpectedTokenFound}},
		{"EndIf\n", []diagnostics.Code{diagnostics.UnexpectedTokenFound}},
		{"x = 1 2\n", []diagnostics.Code{diagnostics.UnexpectedStatementInsteadOfNewLine}},
		{"If x Then\n", []diagnostics.Code{diagnostics.UnexpectedEndOfStream}},
		{`x = "abc` + "\n", []diagnostics.Code{diagnostics.UnterminatedStringLiteral}},
		{"x = 1 $\n", []diagnostics.Code{diagnostics.UnrecognizedCharacter}},
		{"Sub A\nSub B\nEndSub\nEndSub\n", []diagnostics.Code{diagnostics.SubModuleInsideSubModule}},
		{"Goto\n", []diagnostics.Code{diagnostics.UnexpectedTokenFound}},
	}

	for _, test := range tests {
		_, bag := parse(t, test.input)
		if got := bag.Codes(); !reflect.DeepEqual(got, test.expected) {
			t.Errorf("%q: expected %v, got %v", test.input, test.expected, got)
		}
	}
}

func TestRecoversOnNextLine(t *testing.T) {
	program, bag := parse(t, "x = 1 2\ny = 3\n")
	if bag.Len() != 1 {
		t.Fatalf("expected a single diagnostic, got %v", bag.Items())
	}

	if len(program.Statements) != 2 {
		t.Fatalf("expected parsing to resume on the next line, got %d statements", len(program.Statements))
	}
	if got := render(program.Statements[1].(*syntax.ExpressionStatement).Expression); got != "(= y 3)" {
		t.Fatalf("unexpected second statement %s", got)
	}
}
