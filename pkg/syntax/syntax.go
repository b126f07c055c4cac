// Package syntax holds the immutable parse tree consumed by the binder.
package syntax

import (
	"fmt"

	"smallbasic/pkg/lexer"
)

// Range is a half-open source range
type Range struct {
	Start lexer.Position
	End   lexer.Position
}

func (r Range) String() string {
	return fmt.Sprintf("(%s)-(%s)", r.Start, r.End)
}

// TokenRange returns the range covered by a single token
func TokenRange(t lexer.Token) Range {
	return Range{Start: t.Pos, End: t.End}
}

// Span returns the range starting at a and ending at b
func Span(a, b Range) Range {
	return Range{Start: a.Start, End: b.End}
}

// Node is implemented by every syntax node
type Node interface {
	Range() Range
}

// Statement is a node that can appear in a statement list
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that computes (or names) something
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of a parsed source file
type Program struct {
	Statements []Statement
}

type SubModuleStatement struct {
	Name  lexer.Token
	Body  []Statement
	Span  Range
	Ended bool // EndSub was found
}

type IfPart struct {
	Condition Expression
	Body      []Statement
	Span      Range
}

type IfStatement struct {
	If      IfPart
	ElseIfs []IfPart
	Else    []Statement // nil when there is no Else clause
	HasElse bool
	Span    Range
}

type WhileStatement struct {
	Condition Expression
	Body      []Statement
	Span      Range
}

type ForStatement struct {
	Identifier lexer.Token
	From       Expression
	To         Expression
	Step       Expression // nil when there is no Step clause
	Body       []Statement
	Span       Range
}

type LabelStatement struct {
	Label lexer.Token
	Span  Range
}

type GoToStatement struct {
	Label lexer.Token
	Span  Range
}

type ExpressionStatement struct {
	Expression Expression
}

type CommentStatement struct {
	Comment lexer.Token
}

type UnaryExpression struct {
	Operator lexer.Token
	Operand  Expression
}

type BinaryExpression struct {
	Left     Expression
	Operator lexer.Token
	Right    Expression
}

// ObjectAccessExpression is Base.Member
type ObjectAccessExpression struct {
	Base   Expression
	Member lexer.Token
}

// ArrayAccessExpression is Base[Index]
type ArrayAccessExpression struct {
	Base  Expression
	Index Expression
	Close lexer.Token
}

// InvocationExpression is Base(Arguments...)
type InvocationExpression struct {
	Base      Expression
	Arguments []Expression
	Close     lexer.Token
}

type ParenthesisExpression struct {
	Open       lexer.Token
	Expression Expression
	Close      lexer.Token
}

type IdentifierExpression struct {
	Identifier lexer.Token
}

type StringLiteralExpression struct {
	Token lexer.Token
}

type NumberLiteralExpression struct {
	Token lexer.Token
}

// MissingExpression stands in for an expression the parser could not read
type MissingExpression struct {
	At Range
}

func (s *SubModuleStatement) Range() Range  { return s.Span }
func (s *IfStatement) Range() Range         { return s.Span }
func (s *WhileStatement) Range() Range      { return s.Span }
func (s *ForStatement) Range() Range        { return s.Span }
func (s *LabelStatement) Range() Range      { return s.Span }
func (s *GoToStatement) Range() Range       { return s.Span }
func (s *ExpressionStatement) Range() Range { return s.Expression.Range() }
func (s *CommentStatement) Range() Range    { return TokenRange(s.Comment) }

func (*SubModuleStatement) statementNode()  {}
func (*IfStatement) statementNode()         {}
func (*WhileStatement) statementNode()      {}
func (*ForStatement) statementNode()        {}
func (*LabelStatement) statementNode()      {}
func (*GoToStatement) statementNode()       {}
func (*ExpressionStatement) statementNode() {}
func (*CommentStatement) statementNode()    {}

func (e *UnaryExpression) Range() Range {
	return Span(TokenRange(e.Operator), e.Operand.Range())
}

func (e *BinaryExpression) Range() Range {
	return Span(e.Left.Range(), e.Right.Range())
}

func (e *ObjectAccessExpression) Range() Range {
	return Span(e.Base.Range(), TokenRange(e.Member))
}

func (e *ArrayAccessExpression) Range() Range {
	return Span(e.Base.Range(), TokenRange(e.Close))
}

func (e *InvocationExpression) Range() Range {
	return Span(e.Base.Range(), TokenRange(e.Close))
}

func (e *ParenthesisExpression) Range() Range {
	return Span(TokenRange(e.Open), TokenRange(e.Close))
}

func (e *IdentifierExpression) Range() Range    { return TokenRange(e.Identifier) }
func (e *StringLiteralExpression) Range() Range { return TokenRange(e.Token) }
func (e *NumberLiteralExpression) Range() Range { return TokenRange(e.Token) }
func (e *MissingExpression) Range() Range       { return e.At }

func (*UnaryExpression) expressionNode()         {}
func (*BinaryExpression) expressionNode()        {}
func (*ObjectAccessExpression) expressionNode()  {}
func (*ArrayAccessExpression) expressionNode()   {}
func (*InvocationExpression) expressionNode()    {}
func (*ParenthesisExpression) expressionNode()   {}
func (*IdentifierExpression) expressionNode()    {}
func (*StringLiteralExpression) expressionNode() {}
func (*NumberLiteralExpression) expressionNode() {}
func (*MissingExpression) expressionNode()       {}
