// Package binder resolves names in a parse tree against the library
// registry and the program's own submodules, producing a bound tree the
// emitter can lower without further checks.
package binder

import (
	"strconv"

	"golang.org/x/text/cases"

	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/lexer"
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/syntax"
	"smallbasic/pkg/value"
)

type Options struct {
	// IsRunningOnDesktop allows members that need a desktop host
	IsRunningOnDesktop bool
}

type Binder struct {
	registry    *libraries.Registry
	diagnostics *diagnostics.Bag
	options     Options

	subModules map[string]string // folded name -> declared spelling
	variables  map[string]string // folded name -> first spelling seen
	labels     map[string]string // folded name -> first spelling, per module
}

var binaryOperators = map[lexer.TokenType]BinaryOperator{
	lexer.PLUS:   Add,
	lexer.MINUS:  Subtract,
	lexer.MULT:   Multiply,
	lexer.DIV:    Divide,
	lexer.ASSIGN: Equal,
	lexer.NE:     NotEqual,
	lexer.LT:     LessThan,
	lexer.GT:     GreaterThan,
	lexer.LE:     LessThanOrEqual,
	lexer.GE:     GreaterThanOrEqual,
	lexer.AND:    And,
	lexer.OR:     Or,
}

// Bind binds a parsed program. Problems are reported into bag, which is
// usually the same bag the parser reported into.
func Bind(program *syntax.Program, registry *libraries.Registry, bag *diagnostics.Bag, opts Options) *BoundProgram {
	b := &Binder{
		registry:    registry,
		diagnostics: bag,
		options:     opts,
		subModules:  make(map[string]string),
		variables:   make(map[string]string),
	}

	return b.bindProgram(program)
}

func (b *Binder) bindProgram(program *syntax.Program) *BoundProgram {
	var subs []*syntax.SubModuleStatement
	var main []syntax.Statement

	// submodules are visible before their declaration
	for _, stmt := range program.Statements {
		sub, ok := stmt.(*syntax.SubModuleStatement)
		if !ok {
			main = append(main, stmt)
			continue
		}

		key := fold(sub.Name.Lexeme)
		if _, exists := b.subModules[key]; exists {
			b.diagnostics.Report(diagnostics.TwoSubModulesWithTheSameName, syntax.TokenRange(sub.Name), sub.Name.Lexeme)
			continue
		}
		b.subModules[key] = sub.Name.Lexeme
		subs = append(subs, sub)
	}

	bound := &BoundProgram{SubModules: make(map[string]*BoundSubModule, len(subs))}
	bound.Main = b.bindModule(main, blockRange(program.Statements))

	for _, sub := range subs {
		body := b.bindModule(sub.Body, sub.Span)
		bound.SubModules[sub.Name.Lexeme] = &BoundSubModule{Name: sub.Name.Lexeme, Body: body, Span: sub.Span}
		bound.SubModuleOrder = append(bound.SubModuleOrder, sub.Name.Lexeme)
	}

	return bound
}

// bindModule binds one module body. Labels never cross module boundaries.
func (b *Binder) bindModule(statements []syntax.Statement, span syntax.Range) *BoundBlock {
	b.labels = make(map[string]string)
	block := b.bindBlock(statements, span)
	checkLabels(block, b.diagnostics)

	return block
}

func (b *Binder) bindBlock(statements []syntax.Statement, span syntax.Range) *BoundBlock {
	block := &BoundBlock{statementBase: statementBase{Span: span}}
	for _, stmt := range statements {
		if bound := b.bindStatement(stmt); bound != nil {
			block.Statements = append(block.Statements, bound)
		}
	}

	return block
}

func (b *Binder) bindStatement(stmt syntax.Statement) BoundStatement {
	switch s := stmt.(type) {
	case *syntax.IfStatement:
		return b.bindIf(s)
	case *syntax.WhileStatement:
		return &BoundWhileStatement{
			statementBase: statementBase{Span: s.Span},
			Condition:     b.bindExpression(s.Condition, true),
			Body:          b.bindBlock(s.Body, s.Span),
		}
	case *syntax.ForStatement:
		return b.bindFor(s)
	case *syntax.LabelStatement:
		return &BoundLabelStatement{statementBase: statementBase{Span: s.Span}, Label: b.label(s.Label.Lexeme)}
	case *syntax.GoToStatement:
		return &BoundGoToStatement{statementBase: statementBase{Span: s.Span}, Label: b.label(s.Label.Lexeme)}
	case *syntax.ExpressionStatement:
		return b.bindExpressionStatement(s)
	default:
		// comments, and nested subs the parser already reported
		return nil
	}
}

func (b *Binder) bindIf(s *syntax.IfStatement) BoundStatement {
	bound := &BoundIfStatement{
		statementBase: statementBase{Span: s.Span},
		If:            b.bindIfPart(s.If),
	}
	for _, part := range s.ElseIfs {
		bound.ElseIfs = append(bound.ElseIfs, b.bindIfPart(part))
	}
	if s.HasElse {
		bound.Else = b.bindBlock(s.Else, s.Span)
	}

	return bound
}

func (b *Binder) bindIfPart(part syntax.IfPart) BoundIfPart {
	return BoundIfPart{
		Condition: b.bindExpression(part.Condition, true),
		Body:      b.bindBlock(part.Body, part.Span),
	}
}

func (b *Binder) bindFor(s *syntax.ForStatement) BoundStatement {
	bound := &BoundForStatement{
		statementBase: statementBase{Span: s.Span},
		Identifier:    b.variable(s.Identifier.Lexeme),
		From:          b.bindExpression(s.From, true),
		To:            b.bindExpression(s.To, true),
		Body:          b.bindBlock(s.Body, s.Span),
	}
	if s.Step != nil {
		bound.Step = b.bindExpression(s.Step, true)
	}

	return bound
}

func (b *Binder) bindExpressionStatement(s *syntax.ExpressionStatement) BoundStatement {
	span := s.Range()

	if binary, ok := s.Expression.(*syntax.BinaryExpression); ok && binary.Operator.Type == lexer.ASSIGN {
		return b.bindAssignment(binary, span)
	}

	expr := b.bindExpression(s.Expression, false)
	switch expr.(type) {
	case *BoundLibraryMethodInvocationExpression, *BoundSubModuleInvocationExpression:
		return &BoundInvocationStatement{statementBase: statementBase{Span: span}, Expression: expr}
	}

	return b.invalidStatement(expr, span)
}

// invalidStatement reports an expression that cannot stand on its own
func (b *Binder) invalidStatement(expr BoundExpression, span syntax.Range) BoundStatement {
	if !expr.HasErrors() {
		if expr.HasValue() {
			b.diagnostics.Report(diagnostics.UnassignedExpressionStatement, span)
		} else {
			b.diagnostics.Report(diagnostics.InvalidExpressionStatement, span)
		}
	}

	return &BoundInvalidExpressionStatement{statementBase: statementBase{Span: span}, Expression: expr}
}

func (b *Binder) bindAssignment(binary *syntax.BinaryExpression, span syntax.Range) BoundStatement {
	base := statementBase{Span: span}

	switch left := binary.Left.(type) {
	case *syntax.IdentifierExpression:
		if target, ok := b.bindIdentifier(left).(*BoundVariableExpression); ok {
			return &BoundVariableAssignmentStatement{
				statementBase: base,
				Variable:      target.Name,
				Value:         b.bindExpression(binary.Right, true),
			}
		}

	case *syntax.ArrayAccessExpression:
		target := b.bindArrayAccess(left)
		if access, ok := target.(*BoundArrayAccessExpression); ok {
			return &BoundArrayAssignmentStatement{
				statementBase: base,
				Array:         access.Array,
				Indices:       access.Indices,
				Value:         b.bindExpression(binary.Right, true),
			}
		}
		return b.invalidStatement(target, span)

	case *syntax.ObjectAccessExpression:
		target := b.bindMember(left)
		switch member := target.(type) {
		case *BoundLibraryPropertyExpression:
			if !member.Property.HasSetter() {
				b.diagnostics.Report(diagnostics.PropertyHasNoSetter, left.Range(), member.Library, member.Property.Name)
			}
			return &BoundPropertyAssignmentStatement{
				statementBase: base,
				Library:       member.Library,
				Property:      member.Property,
				Value:         b.bindExpression(binary.Right, true),
			}

		case *BoundLibraryEventExpression:
			handler := b.bindExpression(binary.Right, false)
			if sub, ok := handler.(*BoundSubModuleExpression); ok {
				return &BoundEventAssignmentStatement{
					statementBase: base,
					Library:       member.Library,
					Event:         member.Event,
					SubModule:     sub.Name,
				}
			}
			if !handler.HasErrors() {
				b.diagnostics.Report(diagnostics.AssigningNonSubModuleToEvent, binary.Right.Range())
			}
			return &BoundInvalidExpressionStatement{statementBase: base, Expression: handler}
		}
		return b.invalidStatement(target, span)
	}

	return b.invalidStatement(b.bindExpression(binary.Left, false), span)
}

// bindExpression binds expr and, when a value is expected, replaces a
// valueless result with an invalid placeholder.
func (b *Binder) bindExpression(expr syntax.Expression, expectsValue bool) BoundExpression {
	bound := b.bind(expr)
	if expectsValue && !bound.HasValue() {
		if !bound.HasErrors() {
			b.diagnostics.Report(diagnostics.ExpectedExpressionWithAValue, expr.Range())
		}
		return invalid(expr.Range())
	}

	return bound
}

func (b *Binder) bind(expr syntax.Expression) BoundExpression {
	switch e := expr.(type) {
	case *syntax.UnaryExpression:
		operand := b.bindExpression(e.Operand, true)
		return &BoundUnaryExpression{
			expressionBase: expressionBase{Span: e.Range(), Value: true, Errors: operand.HasErrors()},
			Operator:       Negate,
			Operand:        operand,
		}

	case *syntax.BinaryExpression:
		left := b.bindExpression(e.Left, true)
		right := b.bindExpression(e.Right, true)
		return &BoundBinaryExpression{
			expressionBase: expressionBase{Span: e.Range(), Value: true, Errors: left.HasErrors() || right.HasErrors()},
			Operator:       binaryOperators[e.Operator.Type],
			Left:           left,
			Right:          right,
		}

	case *syntax.ParenthesisExpression:
		inner := b.bindExpression(e.Expression, true)
		return &BoundParenthesisExpression{
			expressionBase: expressionBase{Span: e.Range(), Value: true, Errors: inner.HasErrors()},
			Expression:     inner,
		}

	case *syntax.ObjectAccessExpression:
		member := b.bindMember(e)
		if property, ok := member.(*BoundLibraryPropertyExpression); ok && !property.Property.HasGetter() {
			b.diagnostics.Report(diagnostics.PropertyHasNoGetter, e.Range(), property.Library, property.Property.Name)
			property.Errors = true
		}
		return member

	case *syntax.ArrayAccessExpression:
		return b.bindArrayAccess(e)

	case *syntax.InvocationExpression:
		return b.bindInvocation(e)

	case *syntax.IdentifierExpression:
		return b.bindIdentifier(e)

	case *syntax.StringLiteralExpression:
		return &BoundStringLiteralExpression{
			expressionBase: expressionBase{Span: e.Range(), Value: true},
			Literal:        value.NewString(e.Token.Literal),
		}

	case *syntax.NumberLiteralExpression:
		literal := value.FromString(e.Token.Lexeme)
		return &BoundNumberLiteralExpression{
			expressionBase: expressionBase{Span: e.Range(), Value: true},
			Literal:        literal,
		}

	default:
		// MissingExpression, already reported by the parser
		return invalid(expr.Range())
	}
}

// bindIdentifier resolves a name: library, then submodule, then variable
func (b *Binder) bindIdentifier(e *syntax.IdentifierExpression) BoundExpression {
	name := e.Identifier.Lexeme
	span := e.Range()

	if lib, ok := b.registry.Library(name); ok {
		return &BoundLibraryTypeExpression{expressionBase: expressionBase{Span: span}, Library: lib}
	}
	if declared, ok := b.subModules[fold(name)]; ok {
		return &BoundSubModuleExpression{expressionBase: expressionBase{Span: span}, Name: declared}
	}

	return &BoundVariableExpression{expressionBase: expressionBase{Span: span, Value: true}, Name: b.variable(name)}
}

// bindMember resolves Library.Member without checking getters, so it
// serves both reads and assignment targets.
func (b *Binder) bindMember(e *syntax.ObjectAccessExpression) BoundExpression {
	span := e.Range()

	base := b.bindExpression(e.Base, false)
	lib, ok := base.(*BoundLibraryTypeExpression)
	if !ok {
		if !base.HasErrors() {
			b.diagnostics.Report(diagnostics.UnsupportedDotBaseExpression, e.Base.Range())
		}
		return invalid(span)
	}

	name := e.Member.Lexeme
	libName := lib.Library.Name

	if method, ok := lib.Library.Method(name); ok {
		b.checkMember(span, libName, method.Name, method.IsDeprecated, method.NeedsDesktop)
		if !method.Executable() {
			b.diagnostics.Report(diagnostics.LibraryMemberNotSupported, span, libName, method.Name)
			return invalid(span)
		}
		return &BoundLibraryMethodExpression{expressionBase: expressionBase{Span: span}, Library: libName, Method: method}
	}

	if property, ok := lib.Library.Property(name); ok {
		b.checkMember(span, libName, property.Name, property.IsDeprecated, property.NeedsDesktop)
		return &BoundLibraryPropertyExpression{expressionBase: expressionBase{Span: span, Value: true}, Library: libName, Property: property}
	}

	if event, ok := lib.Library.Event(name); ok {
		b.checkMember(span, libName, event.Name, event.IsDeprecated, event.NeedsDesktop)
		return &BoundLibraryEventExpression{expressionBase: expressionBase{Span: span}, Library: libName, Event: event}
	}

	b.diagnostics.Report(diagnostics.LibraryMemberNotFound, span, libName, name)
	return invalid(span)
}

func (b *Binder) checkMember(span syntax.Range, library, member string, deprecated, needsDesktop bool) {
	if deprecated {
		b.diagnostics.Report(diagnostics.LibraryMemberDeprecatedFromOlderVersion, span, library, member)
	}
	if needsDesktop && !b.options.IsRunningOnDesktop {
		b.diagnostics.Report(diagnostics.LibraryMemberNeedsDesktop, span, library, member)
	}
}

// bindArrayAccess flattens a[i][j] into one access with indices [i, j]
func (b *Binder) bindArrayAccess(e *syntax.ArrayAccessExpression) BoundExpression {
	span := e.Range()

	var indices []syntax.Expression
	var base syntax.Expression = e
	for {
		access, ok := base.(*syntax.ArrayAccessExpression)
		if !ok {
			break
		}
		indices = append([]syntax.Expression{access.Index}, indices...)
		base = access.Base
	}

	identifier, ok := base.(*syntax.IdentifierExpression)
	if !ok {
		bound := b.bindExpression(base, false)
		if !bound.HasErrors() {
			b.diagnostics.Report(diagnostics.UnsupportedArrayBaseExpression, base.Range())
		}
		return invalid(span)
	}

	variable, ok := b.bindIdentifier(identifier).(*BoundVariableExpression)
	if !ok {
		b.diagnostics.Report(diagnostics.UnsupportedArrayBaseExpression, base.Range())
		return invalid(span)
	}

	access := &BoundArrayAccessExpression{
		expressionBase: expressionBase{Span: span, Value: true},
		Array:          variable.Name,
	}
	for _, index := range indices {
		bound := b.bindExpression(index, true)
		access.Indices = append(access.Indices, bound)
		access.Errors = access.Errors || bound.HasErrors()
	}

	return access
}

func (b *Binder) bindInvocation(e *syntax.InvocationExpression) BoundExpression {
	span := e.Range()

	base := b.bindExpression(e.Base, false)
	args := make([]BoundExpression, 0, len(e.Arguments))
	errors := base.HasErrors()
	for _, arg := range e.Arguments {
		bound := b.bindExpression(arg, true)
		args = append(args, bound)
		errors = errors || bound.HasErrors()
	}

	switch target := base.(type) {
	case *BoundLibraryMethodExpression:
		if expected := len(target.Method.Parameters); expected != len(args) {
			b.reportArgumentsCount(span, len(args), expected)
			errors = true
		}
		return &BoundLibraryMethodInvocationExpression{
			expressionBase: expressionBase{Span: span, Value: target.Method.ReturnsValue, Errors: errors},
			Library:        target.Library,
			Method:         target.Method,
			Arguments:      args,
		}

	case *BoundSubModuleExpression:
		if len(args) != 0 {
			b.reportArgumentsCount(span, len(args), 0)
			errors = true
		}
		return &BoundSubModuleInvocationExpression{
			expressionBase: expressionBase{Span: span, Errors: errors},
			Name:           target.Name,
		}
	}

	if !base.HasErrors() {
		b.diagnostics.Report(diagnostics.UnsupportedInvocationBaseExpression, e.Base.Range())
	}
	return invalid(span)
}

func (b *Binder) reportArgumentsCount(span syntax.Range, actual, expected int) {
	b.diagnostics.Report(diagnostics.UnexpectedArgumentsCount, span, strconv.Itoa(actual), strconv.Itoa(expected))
}

// variable returns the canonical spelling for a variable name
func (b *Binder) variable(name string) string {
	return canonical(b.variables, name)
}

// label returns the canonical spelling for a label in the current module
func (b *Binder) label(name string) string {
	return canonical(b.labels, name)
}

func canonical(names map[string]string, name string) string {
	key := fold(name)
	if first, ok := names[key]; ok {
		return first
	}
	names[key] = name

	return name
}

// invalid returns an error placeholder that still claims a value so the
// surrounding expression does not report again
func invalid(span syntax.Range) BoundExpression {
	return &BoundInvalidExpression{expressionBase: expressionBase{Span: span, Value: true, Errors: true}}
}

func blockRange(statements []syntax.Statement) syntax.Range {
	if len(statements) == 0 {
		return syntax.Range{}
	}

	return syntax.Span(statements[0].Range(), statements[len(statements)-1].Range())
}

func fold(s string) string {
	return cases.Fold().String(s)
}
