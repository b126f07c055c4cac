package binder

import (
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/syntax"
	"smallbasic/pkg/value"
)

// StatementVisitor must handle every bound statement kind. Adding a kind
// adds a method here, which breaks every visitor until it handles it.
type StatementVisitor interface {
	VisitBlock(*BoundBlock)
	VisitIfStatement(*BoundIfStatement)
	VisitWhileStatement(*BoundWhileStatement)
	VisitForStatement(*BoundForStatement)
	VisitLabelStatement(*BoundLabelStatement)
	VisitGoToStatement(*BoundGoToStatement)
	VisitVariableAssignment(*BoundVariableAssignmentStatement)
	VisitArrayAssignment(*BoundArrayAssignmentStatement)
	VisitPropertyAssignment(*BoundPropertyAssignmentStatement)
	VisitEventAssignment(*BoundEventAssignmentStatement)
	VisitInvocationStatement(*BoundInvocationStatement)
	VisitInvalidExpressionStatement(*BoundInvalidExpressionStatement)
}

// ExpressionVisitor must handle every bound expression kind
type ExpressionVisitor interface {
	VisitArrayAccess(*BoundArrayAccessExpression)
	VisitUnary(*BoundUnaryExpression)
	VisitBinary(*BoundBinaryExpression)
	VisitParenthesis(*BoundParenthesisExpression)
	VisitVariable(*BoundVariableExpression)
	VisitStringLiteral(*BoundStringLiteralExpression)
	VisitNumberLiteral(*BoundNumberLiteralExpression)
	VisitLibraryType(*BoundLibraryTypeExpression)
	VisitLibraryMethod(*BoundLibraryMethodExpression)
	VisitLibraryMethodInvocation(*BoundLibraryMethodInvocationExpression)
	VisitLibraryProperty(*BoundLibraryPropertyExpression)
	VisitLibraryEvent(*BoundLibraryEventExpression)
	VisitSubModule(*BoundSubModuleExpression)
	VisitSubModuleInvocation(*BoundSubModuleInvocationExpression)
	VisitInvalid(*BoundInvalidExpression)
}

type BoundStatement interface {
	Range() syntax.Range
	Accept(StatementVisitor)
}

type BoundExpression interface {
	Range() syntax.Range
	// HasValue reports whether the expression may appear where a value is required
	HasValue() bool
	// HasErrors suppresses further diagnostics on this subtree
	HasErrors() bool
	Accept(ExpressionVisitor)
}

type statementBase struct {
	Span syntax.Range
}

func (s *statementBase) Range() syntax.Range { return s.Span }

type expressionBase struct {
	Span   syntax.Range
	Value  bool
	Errors bool
}

func (e *expressionBase) Range() syntax.Range { return e.Span }
func (e *expressionBase) HasValue() bool      { return e.Value }
func (e *expressionBase) HasErrors() bool     { return e.Errors }

// BoundProgram is the binder output: the main module and every submodule
type BoundProgram struct {
	Main       *BoundBlock
	SubModules map[string]*BoundSubModule
	// SubModuleOrder lists submodule names in declaration order
	SubModuleOrder []string
}

type BoundSubModule struct {
	Name string
	Body *BoundBlock
	Span syntax.Range
}

type BoundBlock struct {
	statementBase
	Statements []BoundStatement
}

type BoundIfPart struct {
	Condition BoundExpression
	Body      *BoundBlock
}

type BoundIfStatement struct {
	statementBase
	If      BoundIfPart
	ElseIfs []BoundIfPart
	Else    *BoundBlock // nil when there is no Else clause
}

type BoundWhileStatement struct {
	statementBase
	Condition BoundExpression
	Body      *BoundBlock
}

type BoundForStatement struct {
	statementBase
	Identifier string
	From       BoundExpression
	To         BoundExpression
	Step       BoundExpression // nil when there is no Step clause
	Body       *BoundBlock
}

type BoundLabelStatement struct {
	statementBase
	Label string
}

type BoundGoToStatement struct {
	statementBase
	Label string
}

type BoundVariableAssignmentStatement struct {
	statementBase
	Variable string
	Value    BoundExpression
}

type BoundArrayAssignmentStatement struct {
	statementBase
	Array   string
	Indices []BoundExpression // outermost first, in source order
	Value   BoundExpression
}

type BoundPropertyAssignmentStatement struct {
	statementBase
	Library  string
	Property *libraries.Property
	Value    BoundExpression
}

type BoundEventAssignmentStatement struct {
	statementBase
	Library   string
	Event     *libraries.Event
	SubModule string
}

// BoundInvocationStatement wraps a method or submodule invocation used as a statement
type BoundInvocationStatement struct {
	statementBase
	Expression BoundExpression
}

type BoundInvalidExpressionStatement struct {
	statementBase
	Expression BoundExpression
}

type BoundArrayAccessExpression struct {
	expressionBase
	Array   string
	Indices []BoundExpression // outermost first, in source order
}

type UnaryOperator int

const (
	Negate UnaryOperator = iota
)

type BoundUnaryExpression struct {
	expressionBase
	Operator UnaryOperator
	Operand  BoundExpression
}

type BinaryOperator int

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	Equal
	NotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
)

var binaryOperatorNames = [...]string{
	Add: "+", Subtract: "-", Multiply: "*", Divide: "/",
	Equal: "=", NotEqual: "<>", LessThan: "<", GreaterThan: ">",
	LessThanOrEqual: "<=", GreaterThanOrEqual: ">=", And: "And", Or: "Or",
}

func (o BinaryOperator) String() string {
	return binaryOperatorNames[o]
}

type BoundBinaryExpression struct {
	expressionBase
	Operator BinaryOperator
	Left     BoundExpression
	Right    BoundExpression
}

type BoundParenthesisExpression struct {
	expressionBase
	Expression BoundExpression
}

type BoundVariableExpression struct {
	expressionBase
	Name string
}

type BoundStringLiteralExpression struct {
	expressionBase
	Literal value.Value
}

type BoundNumberLiteralExpression struct {
	expressionBase
	Literal value.Value
}

type BoundLibraryTypeExpression struct {
	expressionBase
	Library *libraries.Library
}

type BoundLibraryMethodExpression struct {
	expressionBase
	Library string
	Method  *libraries.Method
}

type BoundLibraryMethodInvocationExpression struct {
	expressionBase
	Library   string
	Method    *libraries.Method
	Arguments []BoundExpression
}

type BoundLibraryPropertyExpression struct {
	expressionBase
	Library  string
	Property *libraries.Property
}

type BoundLibraryEventExpression struct {
	expressionBase
	Library string
	Event   *libraries.Event
}

type BoundSubModuleExpression struct {
	expressionBase
	Name string
}

type BoundSubModuleInvocationExpression struct {
	expressionBase
	Name string
}

// BoundInvalidExpression is the placeholder for anything that failed to bind
type BoundInvalidExpression struct {
	expressionBase
}

func (s *BoundBlock) Accept(v StatementVisitor)                       { v.VisitBlock(s) }
func (s *BoundIfStatement) Accept(v StatementVisitor)                 { v.VisitIfStatement(s) }
func (s *BoundWhileStatement) Accept(v StatementVisitor)              { v.VisitWhileStatement(s) }
func (s *BoundForStatement) Accept(v StatementVisitor)                { v.VisitForStatement(s) }
func (s *BoundLabelStatement) Accept(v StatementVisitor)              { v.VisitLabelStatement(s) }
func (s *BoundGoToStatement) Accept(v StatementVisitor)               { v.VisitGoToStatement(s) }
func (s *BoundVariableAssignmentStatement) Accept(v StatementVisitor) { v.VisitVariableAssignment(s) }
func (s *BoundArrayAssignmentStatement) Accept(v StatementVisitor)    { v.VisitArrayAssignment(s) }
func (s *BoundPropertyAssignmentStatement) Accept(v StatementVisitor) { v.VisitPropertyAssignment(s) }
func (s *BoundEventAssignmentStatement) Accept(v StatementVisitor)    { v.VisitEventAssignment(s) }
func (s *BoundInvocationStatement) Accept(v StatementVisitor)         { v.VisitInvocationStatement(s) }
func (s *BoundInvalidExpressionStatement) Accept(v StatementVisitor) {
	v.VisitInvalidExpressionStatement(s)
}

func (e *BoundArrayAccessExpression) Accept(v ExpressionVisitor)   { v.VisitArrayAccess(e) }
func (e *BoundUnaryExpression) Accept(v ExpressionVisitor)         { v.VisitUnary(e) }
func (e *BoundBinaryExpression) Accept(v ExpressionVisitor)        { v.VisitBinary(e) }
func (e *BoundParenthesisExpression) Accept(v ExpressionVisitor)   { v.VisitParenthesis(e) }
func (e *BoundVariableExpression) Accept(v ExpressionVisitor)      { v.VisitVariable(e) }
func (e *BoundStringLiteralExpression) Accept(v ExpressionVisitor) { v.VisitStringLiteral(e) }
func (e *BoundNumberLiteralExpression) Accept(v ExpressionVisitor) { v.VisitNumberLiteral(e) }
func (e *BoundLibraryTypeExpression) Accept(v ExpressionVisitor)   { v.VisitLibraryType(e) }
func (e *BoundLibraryMethodExpression) Accept(v ExpressionVisitor) { v.VisitLibraryMethod(e) }
func (e *BoundLibraryMethodInvocationExpression) Accept(v ExpressionVisitor) {
	v.VisitLibraryMethodInvocation(e)
}
func (e *BoundLibraryPropertyExpression) Accept(v ExpressionVisitor) { v.VisitLibraryProperty(e) }
func (e *BoundLibraryEventExpression) Accept(v ExpressionVisitor)    { v.VisitLibraryEvent(e) }
func (e *BoundSubModuleExpression) Accept(v ExpressionVisitor)       { v.VisitSubModule(e) }
func (e *BoundSubModuleInvocationExpression) Accept(v ExpressionVisitor) {
	v.VisitSubModuleInvocation(e)
}
func (e *BoundInvalidExpression) Accept(v ExpressionVisitor) { v.VisitInvalid(e) }
