package lexer

import (
	"fmt"
	"strings"
)

type TokenType int
type TokenCategory int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Literal value (if applicable), empty string if not
	Pos     Position  // Position of the first character
	End     Position  // Position just past the last character
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, pos, end Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     pos,
		End:     end,
	}
}

const (
	NONE TokenCategory = iota
	KEYWORD
	IDENTIFIER
	LITERAL
	OPERATOR
	DELIMITER
)

const (
	EOF TokenType = iota // End of file

	IF       // If
	THEN     // Then
	ELSE     // Else
	ELSEIF   // ElseIf
	ENDIF    // EndIf
	WHILE    // While
	ENDWHILE // EndWhile
	FOR      // For
	TO       // To
	STEP     // Step
	ENDFOR   // EndFor
	SUB      // Sub
	ENDSUB   // EndSub
	GOTO     // Goto
	AND      // And
	OR       // Or

	ID      // identifier
	NUM     // number
	STRING  // string literal
	COMMENT // ' comment

	ASSIGN // = (assignment or equality, decided by the parser)
	NE     // <>
	LT     // <
	GT     // >
	LE     // <=
	GE     // >=
	PLUS   // +
	MINUS  // -
	MULT   // *
	DIV    // /

	COMMA   // ,
	COLON   // :
	DOT     // .
	LPAREN  // (
	RPAREN  // )
	LSBRACE // [
	RSBRACE // ]
	NEWLINE // end of line

	ILLEGAL // illegal token
)

// Keywords maps the lower-cased keyword text to its token type
var Keywords = map[string]TokenType{
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"elseif":   ELSEIF,
	"endif":    ENDIF,
	"while":    WHILE,
	"endwhile": ENDWHILE,
	"for":      FOR,
	"to":       TO,
	"step":     STEP,
	"endfor":   ENDFOR,
	"sub":      SUB,
	"endsub":   ENDSUB,
	"goto":     GOTO,
	"and":      AND,
	"or":       OR,
}

var tokenNames = map[TokenType]string{
	IF:       "If",
	THEN:     "Then",
	ELSE:     "Else",
	ELSEIF:   "ElseIf",
	ENDIF:    "EndIf",
	WHILE:    "While",
	ENDWHILE: "EndWhile",
	FOR:      "For",
	TO:       "To",
	STEP:     "Step",
	ENDFOR:   "EndFor",
	SUB:      "Sub",
	ENDSUB:   "EndSub",
	GOTO:     "Goto",
	AND:      "And",
	OR:       "Or",
	ID:       "identifier",
	NUM:      "number",
	STRING:   "string",
	COMMENT:  "comment",
	ASSIGN:   "=",
	NE:       "<>",
	LT:       "<",
	GT:       ">",
	LE:       "<=",
	GE:       ">=",
	PLUS:     "+",
	MINUS:    "-",
	MULT:     "*",
	DIV:      "/",
	COMMA:    ",",
	COLON:    ":",
	DOT:      ".",
	LPAREN:   "(",
	RPAREN:   ")",
	LSBRACE:  "[",
	RSBRACE:  "]",
	NEWLINE:  "new line",
	EOF:      "end of file",
	ILLEGAL:  "illegal",
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %q, nil, %s}", t.Type, t.Lexeme, t.Pos)
	}

	return fmt.Sprintf("T_{%s, %q, %q, %s}", t.Type, t.Lexeme, t.Literal, t.Pos)
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// GetCategory returns the category of the token
func (t TokenType) GetCategory() TokenCategory {
	switch t {
	case IF, THEN, ELSE, ELSEIF, ENDIF, WHILE, ENDWHILE, FOR, TO, STEP, ENDFOR, SUB, ENDSUB, GOTO, AND, OR:
		return KEYWORD
	case ID:
		return IDENTIFIER
	case NUM, STRING:
		return LITERAL
	case ASSIGN, NE, LT, GT, LE, GE, PLUS, MINUS, MULT, DIV:
		return OPERATOR
	case COMMA, COLON, DOT, LPAREN, RPAREN, LSBRACE, RSBRACE, NEWLINE:
		return DELIMITER
	default:
		return NONE
	}
}

// IsKeyword checks if the given identifier is a keyword (case-insensitive) and returns its TokenType if it is
func IsKeyword(identifier string) (TokenType, bool) {
	tokenType, ok := Keywords[strings.ToLower(identifier)]
	return tokenType, ok
}
