package lexer_test

import (
	"testing"

	"smallbasic/pkg/lexer"
)

func TestTokens(t *testing.T) {
	input := "x = 10 / 2\n" + "While (x <> 20)\n" + "  x = x + 5\n" + "  If x >= 5 And x <= 30 Then\n" +
		"    TextWindow.WriteLine(ar[x])\n" + "  EndIf\n" + "EndWhile"
	mylexer := lexer.NewLexer(input)

	expectedTokens := []lexer.TokenType{
		lexer.ID, lexer.ASSIGN, lexer.NUM, lexer.DIV, lexer.NUM, lexer.NEWLINE,
		lexer.WHILE, lexer.LPAREN, lexer.ID, lexer.NE, lexer.NUM, lexer.RPAREN, lexer.NEWLINE,
		lexer.ID, lexer.ASSIGN, lexer.ID, lexer.PLUS, lexer.NUM, lexer.NEWLINE,
		lexer.IF, lexer.ID, lexer.GE, lexer.NUM, lexer.AND, lexer.ID, lexer.LE, lexer.NUM, lexer.THEN, lexer.NEWLINE,
		lexer.ID, lexer.DOT, lexer.ID, lexer.LPAREN, lexer.ID, lexer.LSBRACE, lexer.ID, lexer.RSBRACE, lexer.RPAREN, lexer.NEWLINE,
		lexer.ENDIF, lexer.NEWLINE,
		lexer.ENDWHILE,
		lexer.EOF,
	}

	for i, expected := range expectedTokens {
		token := mylexer.NextToken()
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s (%s)", i, expected, token.Type, token)
		}
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, input := range []string{"endfor", "ENDFOR", "EndFor", "eNdFoR"} {
		tok := lexer.NewLexer(input).NextToken()
		if tok.Type != lexer.ENDFOR {
			t.Errorf("%q: expected EndFor, got %s", input, tok.Type)
		}
	}

	tok := lexer.NewLexer("Endforx").NextToken()
	if tok.Type != lexer.ID {
		t.Errorf("expected identifier for Endforx, got %s", tok.Type)
	}
}

func TestComments(t *testing.T) {
	input := "' test comment\nx = 10 ' another test comment\n' another another test comment\ny = 20"

	mylexer := lexer.NewLexer(input)
	expectedTokens := []lexer.TokenType{
		lexer.COMMENT, lexer.NEWLINE,
		lexer.ID, lexer.ASSIGN, lexer.NUM, lexer.COMMENT, lexer.NEWLINE,
		lexer.COMMENT, lexer.NEWLINE,
		lexer.ID, lexer.ASSIGN, lexer.NUM,
		lexer.EOF,
	}

	for i, expected := range expectedTokens {
		token := mylexer.NextToken()
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s", i, expected, token.Type)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		description string
	}{
		{"42", "42", "integer"},
		{"0", "0", "zero"},
		{"3.14", "3.14", "simple float"},
		{"0.5", "0.5", "float starting with zero"},
		{"123.456", "123.456", "multi-digit float"},
		{"1000000", "1000000", "large integer"},
		{"12.x", "12", "dot not followed by digits"},
	}

	for _, test := range tests {
		tokenType, lexeme, matched := lexer.MatchToken(test.input)
		if !matched {
			t.Errorf("Failed to match %s (%s)", test.input, test.description)
		}
		if tokenType != lexer.NUM {
			t.Errorf("Input %s (%s): expected %s, got %s", test.input, test.description, lexer.NUM, tokenType)
		}
		if lexeme != test.expected {
			t.Errorf("Input %s (%s): expected lexeme %s, got %s", test.input, test.description, test.expected, lexeme)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"unterminated`, "unterminated"},
	}

	for _, test := range tests {
		tok := lexer.NewLexer(test.input).NextToken()
		if tok.Type != lexer.STRING {
			t.Errorf("%s: expected string, got %s", test.input, tok.Type)
		}
		if tok.Literal != test.literal {
			t.Errorf("%s: expected literal %q, got %q", test.input, test.literal, tok.Literal)
		}
	}
}

func TestPositions(t *testing.T) {
	l := lexer.NewLexer("a\n  bc")
	a := l.NextToken()
	l.NextToken()
	bc := l.NextToken()

	if a.Pos.Line != 1 || a.Pos.Column != 1 {
		t.Errorf("unexpected position for a: %s", a.Pos)
	}
	if bc.Pos.Line != 2 || bc.Pos.Column != 3 || bc.End.Column != 5 {
		t.Errorf("unexpected range for bc: %s-%s", bc.Pos, bc.End)
	}
}

func TestIllegalCharacter(t *testing.T) {
	tokens := lexer.NewLexer("x = $").Tokens()
	if got := tokens[2].Type; got != lexer.ILLEGAL {
		t.Fatalf("expected illegal token, got %s", got)
	}
	if tokens[len(tokens)-1].Type != lexer.EOF {
		t.Fatalf("token stream must end with EOF")
	}
}
