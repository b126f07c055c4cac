package parser

import (
	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/lexer"
	"smallbasic/pkg/syntax"
)

type Parser struct {
	tokens       []lexer.Token     // scanned tokens, illegal characters removed
	index        int               // index of currentToken in tokens
	currentToken lexer.Token       // current token
	inSubModule  bool              // parsing the body of a Sub
	diagnostics  *diagnostics.Bag // shared with the binder
}

// binary operator precedence, higher binds tighter
var precedence = map[lexer.TokenType]int{
	lexer.OR:     1,
	lexer.AND:    2,
	lexer.ASSIGN: 3,
	lexer.NE:     3,
	lexer.LT:     4,
	lexer.GT:     4,
	lexer.LE:     4,
	lexer.GE:     4,
	lexer.PLUS:   5,
	lexer.MINUS:  5,
	lexer.MULT:   6,
	lexer.DIV:    6,
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer, bag *diagnostics.Bag) *Parser {
	p := &Parser{diagnostics: bag}

	for _, tok := range l.Tokens() {
		if tok.Type == lexer.ILLEGAL {
			p.diagnostics.Report(diagnostics.UnrecognizedCharacter, syntax.TokenRange(tok), tok.Lexeme)
			continue
		}
		p.tokens = append(p.tokens, tok)
	}

	p.currentToken = p.tokens[0]
	return p
}

// Parse scans and parses source, reporting problems into bag
func Parse(source string, bag *diagnostics.Bag) *syntax.Program {
	return NewParser(lexer.NewLexer(source), bag).Parse()
}

// Parse parses the whole token stream into a program
func (p *Parser) Parse() *syntax.Program {
	program := &syntax.Program{}

	for {
		program.Statements = append(program.Statements, p.parseStatementList()...)
		if p.currentToken.Type == lexer.EOF {
			return program
		}

		// a block terminator with no matching opener
		p.reportUnexpected("a statement")
		p.skipToEndOfLine()
	}
}

// nextToken advances to the next token
func (p *Parser) nextToken() lexer.Token {
	tok := p.currentToken
	if p.index < len(p.tokens)-1 {
		p.index++
		p.currentToken = p.tokens[p.index]
	}

	return tok
}

// peek returns the token after the current one
func (p *Parser) peek() lexer.Token {
	if p.index < len(p.tokens)-1 {
		return p.tokens[p.index+1]
	}

	return p.currentToken
}

// expect consumes a token of the given type, or reports and synthesizes one
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	if p.currentToken.Type == t {
		return p.nextToken(), true
	}

	p.reportUnexpected(t.String())
	return lexer.NewToken(t, "", "", p.currentToken.Pos, p.currentToken.Pos), false
}

// parseStatementList parses statements until EOF or one of the terminators
func (p *Parser) parseStatementList(terminators ...lexer.TokenType) []syntax.Statement {
	var statements []syntax.Statement

	for {
		for p.currentToken.Type == lexer.NEWLINE {
			p.nextToken()
		}

		if p.currentToken.Type == lexer.EOF || p.isBlockTerminator(p.currentToken.Type) {
			return statements
		}
		for _, t := range terminators {
			if p.currentToken.Type == t {
				return statements
			}
		}

		if stmt := p.parseStatement(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
}

func (p *Parser) parseStatement() syntax.Statement {
	switch p.currentToken.Type {
	case lexer.SUB:
		return p.parseSubModule()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.GOTO:
		start := p.nextToken()
		label, ok := p.expect(lexer.ID)
		stmt := &syntax.GoToStatement{Label: label, Span: syntax.Span(syntax.TokenRange(start), syntax.TokenRange(label))}
		p.endStatement(ok)
		return stmt
	case lexer.COMMENT:
		stmt := &syntax.CommentStatement{Comment: p.nextToken()}
		p.endStatement(true)
		return stmt
	case lexer.ID:
		if p.peek().Type == lexer.COLON {
			label := p.nextToken()
			colon := p.nextToken()
			stmt := &syntax.LabelStatement{Label: label, Span: syntax.Span(syntax.TokenRange(label), syntax.TokenRange(colon))}
			p.endStatement(true)
			return stmt
		}
	}

	if !p.startsExpression(p.currentToken.Type) {
		p.reportUnexpected("a statement")
		p.skipToEndOfLine()
		return nil
	}

	return p.parseExpressionStatement()
}

// parseExpressionStatement treats a top-level '=' as assignment
func (p *Parser) parseExpressionStatement() syntax.Statement {
	left := p.parseUnary()

	var expr syntax.Expression
	if p.currentToken.Type == lexer.ASSIGN {
		op := p.nextToken()
		expr = &syntax.BinaryExpression{Left: left, Operator: op, Right: p.parseExpression()}
	} else {
		expr = p.parseBinary(left, 0)
	}

	p.endStatement(true)
	return &syntax.ExpressionStatement{Expression: expr}
}

func (p *Parser) parseSubModule() syntax.Statement {
	start := p.nextToken()
	if p.inSubModule {
		p.diagnostics.Report(diagnostics.SubModuleInsideSubModule, syntax.TokenRange(start))
	}

	name, ok := p.expect(lexer.ID)
	p.endStatement(ok)

	outer := p.inSubModule
	p.inSubModule = true
	body := p.parseStatementList()
	p.inSubModule = outer

	end, ended := p.expectBlockEnd(lexer.ENDSUB)
	return &syntax.SubModuleStatement{
		Name:  name,
		Body:  body,
		Span:  syntax.Span(syntax.TokenRange(start), syntax.TokenRange(end)),
		Ended: ended,
	}
}

func (p *Parser) parseIf() syntax.Statement {
	start := p.nextToken()
	stmt := &syntax.IfStatement{}
	stmt.If = p.parseIfPart(start)

	for p.currentToken.Type == lexer.ELSEIF {
		stmt.ElseIfs = append(stmt.ElseIfs, p.parseIfPart(p.nextToken()))
	}

	if p.currentToken.Type == lexer.ELSE {
		p.nextToken()
		p.endStatement(true)
		stmt.HasElse = true
		stmt.Else = p.parseStatementList(lexer.ENDIF)
		if stmt.Else == nil {
			stmt.Else = []syntax.Statement{}
		}
	}

	end, _ := p.expectBlockEnd(lexer.ENDIF)
	stmt.Span = syntax.Span(syntax.TokenRange(start), syntax.TokenRange(end))
	return stmt
}

func (p *Parser) parseIfPart(keyword lexer.Token) syntax.IfPart {
	condition := p.parseExpression()
	then, ok := p.expect(lexer.THEN)
	p.endStatement(ok)

	return syntax.IfPart{
		Condition: condition,
		Body:      p.parseStatementList(lexer.ELSEIF, lexer.ELSE, lexer.ENDIF),
		Span:      syntax.Span(syntax.TokenRange(keyword), syntax.TokenRange(then)),
	}
}

func (p *Parser) parseWhile() syntax.Statement {
	start := p.nextToken()
	condition := p.parseExpression()
	p.endStatement(true)

	body := p.parseStatementList(lexer.ENDWHILE)
	end, _ := p.expectBlockEnd(lexer.ENDWHILE)

	return &syntax.WhileStatement{
		Condition: condition,
		Body:      body,
		Span:      syntax.Span(syntax.TokenRange(start), syntax.TokenRange(end)),
	}
}

func (p *Parser) parseFor() syntax.Statement {
	start := p.nextToken()
	stmt := &syntax.ForStatement{}

	var ok bool
	stmt.Identifier, ok = p.expect(lexer.ID)
	if ok {
		_, ok = p.expect(lexer.ASSIGN)
	}
	if ok {
		stmt.From = p.parseExpression()
		_, ok = p.expect(lexer.TO)
	}
	if ok {
		stmt.To = p.parseExpression()
		if p.currentToken.Type == lexer.STEP {
			p.nextToken()
			stmt.Step = p.parseExpression()
		}
	}

	missing := &syntax.MissingExpression{At: syntax.TokenRange(p.currentToken)}
	if stmt.From == nil {
		stmt.From = missing
	}
	if stmt.To == nil {
		stmt.To = missing
	}
	p.endStatement(ok)

	stmt.Body = p.parseStatementList(lexer.ENDFOR)
	end, _ := p.expectBlockEnd(lexer.ENDFOR)
	stmt.Span = syntax.Span(syntax.TokenRange(start), syntax.TokenRange(end))
	return stmt
}

// expectBlockEnd consumes a block terminator and the end of its line
func (p *Parser) expectBlockEnd(t lexer.TokenType) (lexer.Token, bool) {
	end, ok := p.expect(t)
	p.endStatement(ok)
	return end, ok
}

func (p *Parser) parseExpression() syntax.Expression {
	return p.parseBinary(p.parseUnary(), 0)
}

// parseBinary folds binary operators with precedence above minPrec onto left
func (p *Parser) parseBinary(left syntax.Expression, minPrec int) syntax.Expression {
	for {
		prec, ok := precedence[p.currentToken.Type]
		if !ok || prec <= minPrec {
			return left
		}

		op := p.nextToken()
		right := p.parseUnary()
		for {
			next, ok := precedence[p.currentToken.Type]
			if !ok || next <= prec {
				break
			}
			right = p.parseBinary(right, prec)
		}

		left = &syntax.BinaryExpression{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseUnary() syntax.Expression {
	if p.currentToken.Type == lexer.MINUS {
		op := p.nextToken()
		return &syntax.UnaryExpression{Operator: op, Operand: p.parseUnary()}
	}

	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(expr syntax.Expression) syntax.Expression {
	for {
		switch p.currentToken.Type {
		case lexer.DOT:
			p.nextToken()
			member, _ := p.expect(lexer.ID)
			expr = &syntax.ObjectAccessExpression{Base: expr, Member: member}

		case lexer.LSBRACE:
			p.nextToken()
			index := p.parseExpression()
			closing, _ := p.expect(lexer.RSBRACE)
			expr = &syntax.ArrayAccessExpression{Base: expr, Index: index, Close: closing}

		case lexer.LPAREN:
			p.nextToken()
			var args []syntax.Expression
			if p.currentToken.Type != lexer.RPAREN {
				args = append(args, p.parseExpression())
				for p.currentToken.Type == lexer.COMMA {
					p.nextToken()
					args = append(args, p.parseExpression())
				}
			}
			closing, _ := p.expect(lexer.RPAREN)
			expr = &syntax.InvocationExpression{Base: expr, Arguments: args, Close: closing}

		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() syntax.Expression {
	switch p.currentToken.Type {
	case lexer.ID:
		return &syntax.IdentifierExpression{Identifier: p.nextToken()}

	case lexer.NUM:
		return &syntax.NumberLiteralExpression{Token: p.nextToken()}

	case lexer.STRING:
		tok := p.nextToken()
		if len(tok.Lexeme) < 2 || tok.Lexeme[len(tok.Lexeme)-1] != '"' {
			p.diagnostics.Report(diagnostics.UnterminatedStringLiteral, syntax.TokenRange(tok))
		}
		return &syntax.StringLiteralExpression{Token: tok}

	case lexer.LPAREN:
		open := p.nextToken()
		inner := p.parseExpression()
		closing, _ := p.expect(lexer.RPAREN)
		return &syntax.ParenthesisExpression{Open: open, Expression: inner, Close: closing}
	}

	missing := &syntax.MissingExpression{At: syntax.TokenRange(p.currentToken)}
	p.reportUnexpected("an expression")
	if !p.isStatementBoundary(p.currentToken.Type) {
		p.nextToken()
	}

	return missing
}
