package parser

import (
	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/lexer"
	"smallbasic/pkg/syntax"
)

// reportUnexpected reports that the current token is not what was expected.
// It does NOT advance tokens.
func (p *Parser) reportUnexpected(expected string) {
	current := p.currentToken
	if current.Type == lexer.EOF {
		p.diagnostics.Report(diagnostics.UnexpectedEndOfStream, syntax.TokenRange(current), expected)
		return
	}

	found := current.Lexeme
	if current.Type == lexer.NEWLINE {
		found = current.Type.String()
	}
	p.diagnostics.Report(diagnostics.UnexpectedTokenFound, syntax.TokenRange(current), found, expected)
}

// endStatement consumes the end of the current line. When ok is false an
// error was already reported for this line and the rest of it is skipped silently.
func (p *Parser) endStatement(ok bool) {
	if !ok {
		p.skipToEndOfLine()
		return
	}

	if p.currentToken.Type == lexer.COMMENT {
		p.nextToken()
	}

	switch p.currentToken.Type {
	case lexer.NEWLINE:
		p.nextToken()
	case lexer.EOF:
	default:
		p.diagnostics.Report(diagnostics.UnexpectedStatementInsteadOfNewLine, syntax.TokenRange(p.currentToken))
		p.skipToEndOfLine()
	}
}

// skipToEndOfLine drops tokens up to and including the next new line
func (p *Parser) skipToEndOfLine() {
	for p.currentToken.Type != lexer.EOF {
		if p.nextToken().Type == lexer.NEWLINE {
			return
		}
	}
}

// isBlockTerminator checks if a token closes (or splits) an enclosing block
func (p *Parser) isBlockTerminator(t lexer.TokenType) bool {
	switch t {
	case lexer.ENDIF, lexer.ENDWHILE, lexer.ENDFOR, lexer.ENDSUB, lexer.ELSE, lexer.ELSEIF:
		return true
	default:
		return false
	}
}

// isStatementBoundary checks if a token type ends the current statement
func (p *Parser) isStatementBoundary(t lexer.TokenType) bool {
	return t == lexer.NEWLINE || t == lexer.EOF || t == lexer.COMMENT
}

// startsExpression checks if a token can begin an expression statement
func (p *Parser) startsExpression(t lexer.TokenType) bool {
	switch t {
	case lexer.ID, lexer.NUM, lexer.STRING, lexer.LPAREN, lexer.MINUS:
		return true
	default:
		return false
	}
}
