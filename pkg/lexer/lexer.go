package lexer

import "strings"

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
}

// NewLexer creates a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.currentPosition()
	if l.position >= l.length {
		return NewToken(EOF, "", "", start, start)
	}

	remaining := l.input[l.position:]
	tokenType, lexeme, matched := MatchToken(remaining)
	if !matched {
		l.advance(1)
		return NewToken(ILLEGAL, lexeme, "", start, l.currentPosition())
	}

	var literal string
	switch tokenType {
	case STRING:
		// Remove the surrounding quotes, the closing one may be missing
		literal = strings.TrimSuffix(lexeme[1:], `"`)
	case COMMENT:
		literal = lexeme[1:]
	case NEWLINE:
		literal = ""
	default:
		literal = lexeme
	}

	l.advance(len(lexeme))
	return NewToken(tokenType, lexeme, literal, start, l.currentPosition())
}

// Peek returns the next token without advancing the position
func (l *Lexer) Peek() Token {
	cpos := l.position
	cline := l.line
	ccol := l.column

	token := l.NextToken()

	l.position = cpos
	l.line = cline
	l.column = ccol

	return token
}

// Tokens scans the whole input, the last token is always EOF
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// HasMore checks if there are more characters to read
func (l *Lexer) HasMore() bool {
	return l.position < l.length
}

// skipWhitespace skips blanks; new lines are tokens in Small Basic
func (l *Lexer) skipWhitespace() {
	for l.position < l.length {
		match := whitespaceRegex.FindString(l.input[l.position:])
		if match == "" {
			return
		}
		l.advance(len(match))
	}
}

// advance moves the lexer position by n characters
func (l *Lexer) advance(n int) {
	for range n {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// currentPosition returns the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}
