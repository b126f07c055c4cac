package lexer

import (
	"regexp"
)

type tokenRegex struct {
	Pattern *regexp.Regexp
	Raw     string
}

func newTokenRegex(raw string) tokenRegex {
	return tokenRegex{Pattern: regexp.MustCompile(raw), Raw: raw}
}

// Token regex patterns. Keywords are matched as identifiers and then
// classified with IsKeyword, since they are case-insensitive.
var tokenRegexes = map[TokenType]tokenRegex{
	NE: newTokenRegex(`^<>`),
	LE: newTokenRegex(`^<=`),
	GE: newTokenRegex(`^>=`),

	ASSIGN: newTokenRegex(`^=`),
	LT:     newTokenRegex(`^<`),
	GT:     newTokenRegex(`^>`),
	PLUS:   newTokenRegex(`^\+`),
	MINUS:  newTokenRegex(`^-`),
	MULT:   newTokenRegex(`^\*`),
	DIV:    newTokenRegex(`^/`),

	COMMA:   newTokenRegex(`^,`),
	COLON:   newTokenRegex(`^:`),
	DOT:     newTokenRegex(`^\.`),
	LPAREN:  newTokenRegex(`^\(`),
	RPAREN:  newTokenRegex(`^\)`),
	LSBRACE: newTokenRegex(`^\[`),
	RSBRACE: newTokenRegex(`^\]`),
	NEWLINE: newTokenRegex(`^\r?\n`),

	COMMENT: newTokenRegex(`^'[^\r\n]*`),
	NUM:     newTokenRegex(`^\d+(\.\d+)?`),
	STRING:  newTokenRegex(`^"[^"\r\n]*"?`),
	ID:      newTokenRegex(`^[a-zA-Z_][a-zA-Z0-9_]*`),
}

var whitespaceRegex = regexp.MustCompile(`^[ \t]+`)

// Token precedence order for matching (longer patterns first)
var tokenPrecedenceOrder = []TokenType{
	NE, LE, GE, ASSIGN, LT, GT, PLUS, MINUS, MULT, DIV,
	COMMA, COLON, DOT, LPAREN, RPAREN, LSBRACE, RSBRACE, NEWLINE,
	COMMENT, NUM, STRING, ID,
}

// Regex returns the regex pattern for a token type
func (t TokenType) Regex() *regexp.Regexp {
	if regex, ok := tokenRegexes[t]; ok {
		return regex.Pattern
	}

	return nil
}

// RawRegex returns the raw regex string for a token type
func (t TokenType) RawRegex() string {
	if regex, ok := tokenRegexes[t]; ok {
		return regex.Raw
	}

	return ""
}

// MatchToken matches the first token at the start of the string.
// Whitespace is reported as a matched EOF with a non-empty lexeme.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if regex, ok := tokenRegexes[tokenType]; ok {
			if match := regex.Pattern.FindString(s); match != "" {
				if tokenType == ID {
					if keyword, ok := IsKeyword(match); ok {
						return keyword, match, true
					}
				}
				return tokenType, match, true
			}
		}
	}

	return ILLEGAL, string(s[0]), false
}
