// Package emitter lowers bound modules into flat instruction sequences.
package emitter

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"

	"smallbasic/pkg/binder"
	"smallbasic/pkg/syntax"
	"smallbasic/pkg/value"
)

// Program is the emitted form of a whole source file
type Program struct {
	Main       []Instruction
	SubModules map[string][]Instruction
}

// intrinsic methods that change engine state instead of calling the host
var intrinsics = map[string]func(Source) Instruction{
	"program.pause":         func(s Source) Instruction { return &Pause{Source: s} },
	"program.end":           func(s Source) Instruction { return &Terminate{Source: s} },
	"textwindow.read":       func(s Source) Instruction { return &BlockOnStringInput{Source: s} },
	"textwindow.readnumber": func(s Source) Instruction { return &BlockOnNumberInput{Source: s} },
}

// IsIntrinsic reports whether library.method is lowered to an engine instruction
func IsIntrinsic(library, method string) bool {
	_, ok := intrinsics[intrinsicKey(library, method)]
	return ok
}

func intrinsicKey(library, method string) string {
	fold := cases.Fold()
	return fold.String(library) + "." + fold.String(method)
}

type Emitter struct {
	labels int           // generated label counter, shared by all modules
	buffer []Instruction // current module, labels still symbolic
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// ErrUndefinedLabel is returned when a jump names a label its module never marks
var ErrUndefinedLabel = errors.New("emitter: undefined label")

// EmitProgram emits the main module and every submodule with one emitter
func EmitProgram(program *binder.BoundProgram) (*Program, error) {
	e := NewEmitter()

	main, err := e.Emit(program.Main)
	if err != nil {
		return nil, fmt.Errorf("main module: %w", err)
	}

	out := &Program{
		Main:       main,
		SubModules: make(map[string][]Instruction, len(program.SubModules)),
	}
	for _, name := range program.SubModuleOrder {
		body, err := e.Emit(program.SubModules[name].Body)
		if err != nil {
			return nil, fmt.Errorf("submodule %s: %w", name, err)
		}
		out.SubModules[name] = body
	}

	return out, nil
}

// Emit lowers one module into an independent instruction sequence
func (e *Emitter) Emit(module *binder.BoundBlock) ([]Instruction, error) {
	e.buffer = nil
	module.Accept(e)

	return resolveLabels(e.buffer)
}

// resolveLabels drops label markers and rewrites symbolic jump targets
// into absolute indices of the returned sequence
func resolveLabels(buffer []Instruction) ([]Instruction, error) {
	positions := make(map[string]int)
	kept := make([]Instruction, 0, len(buffer))
	for _, ins := range buffer {
		if label, ok := ins.(*TransientLabel); ok {
			positions[label.Label] = len(kept)
			continue
		}
		kept = append(kept, ins)
	}

	lookup := func(label string) (*int, error) {
		if label == "" {
			return nil, nil
		}
		index, ok := positions[label]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedLabel, label)
		}
		return &index, nil
	}

	out := make([]Instruction, len(kept))
	for i, ins := range kept {
		switch j := ins.(type) {
		case *Jump:
			target, err := lookup(j.Label)
			if err != nil {
				return nil, err
			}
			if target == nil {
				return nil, fmt.Errorf("%w: jump without a label", ErrUndefinedLabel)
			}
			out[i] = &Jump{Source: j.Source, Label: j.Label, Target: *target}
		case *ConditionalJump:
			whenTrue, err := lookup(j.TrueLabel)
			if err != nil {
				return nil, err
			}
			whenFalse, err := lookup(j.FalseLabel)
			if err != nil {
				return nil, err
			}
			out[i] = &ConditionalJump{
				Source:      j.Source,
				TrueLabel:   j.TrueLabel,
				FalseLabel:  j.FalseLabel,
				TrueTarget:  whenTrue,
				FalseTarget: whenFalse,
			}
		default:
			out[i] = ins
		}
	}

	return out, nil
}

func (e *Emitter) emit(ins Instruction) {
	e.buffer = append(e.buffer, ins)
}

// newLabel returns a label that cannot clash with a user label
func (e *Emitter) newLabel(kind string) string {
	e.labels++
	return fmt.Sprintf("$%s_%d", kind, e.labels)
}

func (e *Emitter) mark(label string, span syntax.Range) {
	e.emit(&TransientLabel{Source: Source{Span: span}, Label: label})
}

func (e *Emitter) jump(label string, span syntax.Range) {
	e.emit(&Jump{Source: Source{Span: span}, Label: label, Target: -1})
}

func (e *Emitter) branch(onTrue, onFalse string, span syntax.Range) {
	e.emit(&ConditionalJump{Source: Source{Span: span}, TrueLabel: onTrue, FalseLabel: onFalse})
}

func (e *Emitter) expression(expr binder.BoundExpression) {
	expr.Accept(e)
}

func (e *Emitter) VisitBlock(s *binder.BoundBlock) {
	for _, stmt := range s.Statements {
		stmt.Accept(e)
	}
}

func (e *Emitter) VisitIfStatement(s *binder.BoundIfStatement) {
	end := e.newLabel("if_end")

	parts := append([]binder.BoundIfPart{s.If}, s.ElseIfs...)
	for _, part := range parts {
		body := e.newLabel("if_body")
		next := e.newLabel("if_next")

		e.expression(part.Condition)
		e.branch(body, next, part.Condition.Range())
		e.mark(body, s.Range())
		part.Body.Accept(e)
		e.jump(end, s.Range())
		e.mark(next, s.Range())
	}

	if s.Else != nil {
		s.Else.Accept(e)
	}
	e.mark(end, s.Range())
}

func (e *Emitter) VisitWhileStatement(s *binder.BoundWhileStatement) {
	start := e.newLabel("while_start")
	end := e.newLabel("while_end")

	e.mark(start, s.Range())
	e.expression(s.Condition)
	e.branch("", end, s.Condition.Range())
	s.Body.Accept(e)
	e.jump(start, s.Range())
	e.mark(end, s.Range())
}

// VisitForStatement emits a pre-tested loop. With a Step clause the sign
// of the step is checked before every iteration to pick the test block.
//
//	var = from
//	check:    [step; 0; <; jmpc negative, positive]
//	positive: to; var; <; jmpc exit, body
//	negative: var; to; <; jmpc exit, body
//	body:     ...; var = var + step; jmp check
//	exit:
func (e *Emitter) VisitForStatement(s *binder.BoundForStatement) {
	span := s.Range()
	src := Source{Span: span}

	check := e.newLabel("for_check")
	positive := e.newLabel("for_positive")
	negative := e.newLabel("for_negative")
	body := e.newLabel("for_body")
	exit := e.newLabel("for_exit")

	e.expression(s.From)
	e.emit(&StoreVariable{Source: src, Name: s.Identifier})

	e.mark(check, span)
	if s.Step != nil {
		e.expression(s.Step)
		e.emit(&PushLiteral{Source: src, Value: value.NewNumber(0)})
		e.emit(&Binary{Source: src, Operation: OpLt})
		e.branch(negative, positive, span)
	}

	e.mark(positive, span)
	e.expression(s.To)
	e.emit(&LoadVariable{Source: src, Name: s.Identifier})
	e.emit(&Binary{Source: src, Operation: OpLt})
	e.branch(exit, body, span)

	if s.Step != nil {
		e.mark(negative, span)
		e.emit(&LoadVariable{Source: src, Name: s.Identifier})
		e.expression(s.To)
		e.emit(&Binary{Source: src, Operation: OpLt})
		e.branch(exit, body, span)
	}

	e.mark(body, span)
	s.Body.Accept(e)

	e.emit(&LoadVariable{Source: src, Name: s.Identifier})
	if s.Step != nil {
		e.expression(s.Step)
	} else {
		e.emit(&PushLiteral{Source: src, Value: value.NewNumber(1)})
	}
	e.emit(&Binary{Source: src, Operation: OpAdd})
	e.emit(&StoreVariable{Source: src, Name: s.Identifier})
	e.jump(check, span)

	e.mark(exit, span)
}

func (e *Emitter) VisitLabelStatement(s *binder.BoundLabelStatement) {
	e.mark(s.Label, s.Range())
}

func (e *Emitter) VisitGoToStatement(s *binder.BoundGoToStatement) {
	e.jump(s.Label, s.Range())
}

func (e *Emitter) VisitVariableAssignment(s *binder.BoundVariableAssignmentStatement) {
	e.expression(s.Value)
	e.emit(&StoreVariable{Source: Source{Span: s.Range()}, Name: s.Variable})
}

func (e *Emitter) VisitArrayAssignment(s *binder.BoundArrayAssignmentStatement) {
	e.expression(s.Value)
	e.indices(s.Indices)
	e.emit(&StoreArrayElement{Source: Source{Span: s.Range()}, Name: s.Array, Count: len(s.Indices)})
}

func (e *Emitter) VisitPropertyAssignment(s *binder.BoundPropertyAssignmentStatement) {
	e.expression(s.Value)
	e.emit(&StoreProperty{Source: Source{Span: s.Range()}, Library: s.Library, Property: s.Property.Name})
}

func (e *Emitter) VisitEventAssignment(s *binder.BoundEventAssignmentStatement) {
	e.emit(&SetEventCallback{
		Source:    Source{Span: s.Range()},
		Library:   s.Library,
		Event:     s.Event.Name,
		SubModule: s.SubModule,
	})
}

func (e *Emitter) VisitInvocationStatement(s *binder.BoundInvocationStatement) {
	e.expression(s.Expression)
	if s.Expression.HasValue() {
		e.emit(&PopValue{Source: Source{Span: s.Range()}})
	}
}

// VisitInvalidExpressionStatement emits nothing, programs with errors are never run
func (e *Emitter) VisitInvalidExpressionStatement(*binder.BoundInvalidExpressionStatement) {}

// indices pushes array indices so the outermost one ends up on top
func (e *Emitter) indices(indices []binder.BoundExpression) {
	for i := len(indices) - 1; i >= 0; i-- {
		e.expression(indices[i])
	}
}

func (e *Emitter) VisitArrayAccess(x *binder.BoundArrayAccessExpression) {
	e.indices(x.Indices)
	e.emit(&LoadArrayElement{Source: Source{Span: x.Range()}, Name: x.Array, Count: len(x.Indices)})
}

func (e *Emitter) VisitUnary(x *binder.BoundUnaryExpression) {
	e.expression(x.Operand)
	e.emit(&Unary{Source: Source{Span: x.Range()}, Operation: OpNeg})
}

func (e *Emitter) VisitBinary(x *binder.BoundBinaryExpression) {
	switch x.Operator {
	case binder.And:
		e.shortCircuit(x, false)
	case binder.Or:
		e.shortCircuit(x, true)
	default:
		e.expression(x.Left)
		e.expression(x.Right)
		e.emit(&Binary{Source: Source{Span: x.Range()}, Operation: BinaryOperation(x.Operator)})
	}
}

// shortCircuit lowers And (decisive == false) and Or (decisive == true).
// The right operand only runs when the left one is not decisive.
func (e *Emitter) shortCircuit(x *binder.BoundBinaryExpression, decisive bool) {
	span := x.Range()
	src := Source{Span: span}

	decided := e.newLabel("logic_decided")
	end := e.newLabel("logic_end")

	for _, operand := range []binder.BoundExpression{x.Left, x.Right} {
		e.expression(operand)
		if decisive {
			e.branch(decided, "", operand.Range())
		} else {
			e.branch("", decided, operand.Range())
		}
	}

	e.emit(&PushLiteral{Source: src, Value: value.NewBoolean(!decisive)})
	e.jump(end, span)
	e.mark(decided, span)
	e.emit(&PushLiteral{Source: src, Value: value.NewBoolean(decisive)})
	e.mark(end, span)
}

func (e *Emitter) VisitParenthesis(x *binder.BoundParenthesisExpression) {
	e.expression(x.Expression)
}

func (e *Emitter) VisitVariable(x *binder.BoundVariableExpression) {
	e.emit(&LoadVariable{Source: Source{Span: x.Range()}, Name: x.Name})
}

func (e *Emitter) VisitStringLiteral(x *binder.BoundStringLiteralExpression) {
	e.emit(&PushLiteral{Source: Source{Span: x.Range()}, Value: x.Literal})
}

func (e *Emitter) VisitNumberLiteral(x *binder.BoundNumberLiteralExpression) {
	e.emit(&PushLiteral{Source: Source{Span: x.Range()}, Value: x.Literal})
}

func (e *Emitter) VisitLibraryMethodInvocation(x *binder.BoundLibraryMethodInvocationExpression) {
	src := Source{Span: x.Range()}

	if intrinsic, ok := intrinsics[intrinsicKey(x.Library, x.Method.Name)]; ok {
		e.emit(intrinsic(src))
		return
	}

	for _, arg := range x.Arguments {
		e.expression(arg)
	}
	e.emit(&InvokeMethod{Source: src, Library: x.Library, Method: x.Method.Name, Count: len(x.Arguments)})
}

func (e *Emitter) VisitLibraryProperty(x *binder.BoundLibraryPropertyExpression) {
	e.emit(&LoadProperty{Source: Source{Span: x.Range()}, Library: x.Library, Property: x.Property.Name})
}

func (e *Emitter) VisitSubModuleInvocation(x *binder.BoundSubModuleInvocationExpression) {
	e.emit(&InvokeSubModule{Source: Source{Span: x.Range()}, Name: x.Name})
}

// The remaining kinds name things without computing a value. They only
// survive binding in programs that already have errors.

func (e *Emitter) VisitLibraryType(*binder.BoundLibraryTypeExpression)     {}
func (e *Emitter) VisitLibraryMethod(*binder.BoundLibraryMethodExpression) {}
func (e *Emitter) VisitLibraryEvent(*binder.BoundLibraryEventExpression)   {}
func (e *Emitter) VisitSubModule(*binder.BoundSubModuleExpression)         {}
func (e *Emitter) VisitInvalid(*binder.BoundInvalidExpression)             {}
