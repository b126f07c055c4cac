package emitter

import (
	"fmt"
	"strconv"

	"smallbasic/pkg/binder"
	"smallbasic/pkg/syntax"
	"smallbasic/pkg/value"
)

type Operation string

// List of engine operations
const (
	OpPush            Operation = "push"
	OpLoad            Operation = "load"
	OpStore           Operation = "store"
	OpLoadArray       Operation = "load-array"
	OpStoreArray      Operation = "store-array"
	OpLoadProperty    Operation = "load-property"
	OpStoreProperty   Operation = "store-property"
	OpInvokeMethod    Operation = "invoke-method"
	OpInvokeSubModule Operation = "invoke-submodule"
	OpSetEvent        Operation = "set-event-callback"
	OpNeg             Operation = "neg"
	OpAdd             Operation = "+"
	OpSub             Operation = "-"
	OpMul             Operation = "*"
	OpDiv             Operation = "/"
	OpEq              Operation = "=="
	OpNeq             Operation = "!="
	OpLt              Operation = "<"
	OpLe              Operation = "<="
	OpGt              Operation = ">"
	OpGe              Operation = ">="
	OpJmp             Operation = "jmp"
	OpJmpc            Operation = "jmpc"
	OpPause           Operation = "pause"
	OpEnd             Operation = "end"
	OpReadString      Operation = "block-on-string-input"
	OpReadNumber      Operation = "block-on-number-input"
	OpPop             Operation = "pop-value"
	OpLabel           Operation = "label"
)

// Visitor must handle every instruction kind. The engine implements it, so
// a new kind does not compile until the engine knows how to run it.
type Visitor interface {
	VisitPushLiteral(*PushLiteral) error
	VisitLoadVariable(*LoadVariable) error
	VisitStoreVariable(*StoreVariable) error
	VisitLoadArrayElement(*LoadArrayElement) error
	VisitStoreArrayElement(*StoreArrayElement) error
	VisitLoadProperty(*LoadProperty) error
	VisitStoreProperty(*StoreProperty) error
	VisitInvokeMethod(*InvokeMethod) error
	VisitInvokeSubModule(*InvokeSubModule) error
	VisitSetEventCallback(*SetEventCallback) error
	VisitUnary(*Unary) error
	VisitBinary(*Binary) error
	VisitJump(*Jump) error
	VisitConditionalJump(*ConditionalJump) error
	VisitPause(*Pause) error
	VisitTerminate(*Terminate) error
	VisitBlockOnStringInput(*BlockOnStringInput) error
	VisitBlockOnNumberInput(*BlockOnNumberInput) error
	VisitPopValue(*PopValue) error
	VisitTransientLabel(*TransientLabel) error
}

type Instruction interface {
	Op() Operation
	Range() syntax.Range
	Accept(Visitor) error
	String() string
}

// Source carries the range an instruction was emitted for
type Source struct {
	Span syntax.Range
}

func (s Source) Range() syntax.Range { return s.Span }

type PushLiteral struct {
	Source
	Value value.Value
}

type LoadVariable struct {
	Source
	Name string
}

type StoreVariable struct {
	Source
	Name string
}

// LoadArrayElement pops Count indices, outermost first
type LoadArrayElement struct {
	Source
	Name  string
	Count int
}

// StoreArrayElement pops Count indices, outermost first, then the value
type StoreArrayElement struct {
	Source
	Name  string
	Count int
}

type LoadProperty struct {
	Source
	Library  string
	Property string
}

type StoreProperty struct {
	Source
	Library  string
	Property string
}

// InvokeMethod pops Count arguments, the last argument first
type InvokeMethod struct {
	Source
	Library string
	Method  string
	Count   int
}

type InvokeSubModule struct {
	Source
	Name string
}

type SetEventCallback struct {
	Source
	Library   string
	Event     string
	SubModule string
}

type Unary struct {
	Source
	Operation Operation
}

type Binary struct {
	Source
	Operation Operation
}

// Jump targets Label while emitting and Target once resolved
type Jump struct {
	Source
	Label  string
	Target int
}

// ConditionalJump pops a value and jumps to TrueTarget or FalseTarget.
// A nil target falls through to the next instruction.
type ConditionalJump struct {
	Source
	TrueLabel   string
	FalseLabel  string
	TrueTarget  *int
	FalseTarget *int
}

type Pause struct{ Source }
type Terminate struct{ Source }
type BlockOnStringInput struct{ Source }
type BlockOnNumberInput struct{ Source }

// PopValue discards the result of an invocation used as a statement
type PopValue struct{ Source }

// TransientLabel marks a jump destination. It only exists while emitting.
type TransientLabel struct {
	Source
	Label string
}

func (*PushLiteral) Op() Operation        { return OpPush }
func (*LoadVariable) Op() Operation       { return OpLoad }
func (*StoreVariable) Op() Operation      { return OpStore }
func (*LoadArrayElement) Op() Operation   { return OpLoadArray }
func (*StoreArrayElement) Op() Operation  { return OpStoreArray }
func (*LoadProperty) Op() Operation       { return OpLoadProperty }
func (*StoreProperty) Op() Operation      { return OpStoreProperty }
func (*InvokeMethod) Op() Operation       { return OpInvokeMethod }
func (*InvokeSubModule) Op() Operation    { return OpInvokeSubModule }
func (*SetEventCallback) Op() Operation   { return OpSetEvent }
func (i *Unary) Op() Operation            { return i.Operation }
func (i *Binary) Op() Operation           { return i.Operation }
func (*Jump) Op() Operation               { return OpJmp }
func (*ConditionalJump) Op() Operation    { return OpJmpc }
func (*Pause) Op() Operation              { return OpPause }
func (*Terminate) Op() Operation          { return OpEnd }
func (*BlockOnStringInput) Op() Operation { return OpReadString }
func (*BlockOnNumberInput) Op() Operation { return OpReadNumber }
func (*PopValue) Op() Operation           { return OpPop }
func (*TransientLabel) Op() Operation     { return OpLabel }

func (i *PushLiteral) Accept(v Visitor) error        { return v.VisitPushLiteral(i) }
func (i *LoadVariable) Accept(v Visitor) error       { return v.VisitLoadVariable(i) }
func (i *StoreVariable) Accept(v Visitor) error      { return v.VisitStoreVariable(i) }
func (i *LoadArrayElement) Accept(v Visitor) error   { return v.VisitLoadArrayElement(i) }
func (i *StoreArrayElement) Accept(v Visitor) error  { return v.VisitStoreArrayElement(i) }
func (i *LoadProperty) Accept(v Visitor) error       { return v.VisitLoadProperty(i) }
func (i *StoreProperty) Accept(v Visitor) error      { return v.VisitStoreProperty(i) }
func (i *InvokeMethod) Accept(v Visitor) error       { return v.VisitInvokeMethod(i) }
func (i *InvokeSubModule) Accept(v Visitor) error    { return v.VisitInvokeSubModule(i) }
func (i *SetEventCallback) Accept(v Visitor) error   { return v.VisitSetEventCallback(i) }
func (i *Unary) Accept(v Visitor) error              { return v.VisitUnary(i) }
func (i *Binary) Accept(v Visitor) error             { return v.VisitBinary(i) }
func (i *Jump) Accept(v Visitor) error               { return v.VisitJump(i) }
func (i *ConditionalJump) Accept(v Visitor) error    { return v.VisitConditionalJump(i) }
func (i *Pause) Accept(v Visitor) error              { return v.VisitPause(i) }
func (i *Terminate) Accept(v Visitor) error          { return v.VisitTerminate(i) }
func (i *BlockOnStringInput) Accept(v Visitor) error { return v.VisitBlockOnStringInput(i) }
func (i *BlockOnNumberInput) Accept(v Visitor) error { return v.VisitBlockOnNumberInput(i) }
func (i *PopValue) Accept(v Visitor) error           { return v.VisitPopValue(i) }
func (i *TransientLabel) Accept(v Visitor) error     { return v.VisitTransientLabel(i) }

// format renders an instruction as (op, args...)
func format(op Operation, args ...any) string {
	s := "(" + string(op)
	for _, a := range args {
		s += fmt.Sprintf(", %v", a)
	}

	return s + ")"
}

func target(t *int) string {
	if t == nil {
		return "next"
	}

	return strconv.Itoa(*t)
}

func (i *PushLiteral) String() string {
	if i.Value.Kind() == value.KindString {
		return format(i.Op(), strconv.Quote(i.Value.ToString()))
	}

	return format(i.Op(), i.Value.ToString())
}

func (i *LoadVariable) String() string      { return format(i.Op(), i.Name) }
func (i *StoreVariable) String() string     { return format(i.Op(), i.Name) }
func (i *LoadArrayElement) String() string  { return format(i.Op(), i.Name, i.Count) }
func (i *StoreArrayElement) String() string { return format(i.Op(), i.Name, i.Count) }
func (i *LoadProperty) String() string      { return format(i.Op(), i.Library+"."+i.Property) }
func (i *StoreProperty) String() string     { return format(i.Op(), i.Library+"."+i.Property) }
func (i *InvokeMethod) String() string      { return format(i.Op(), i.Library+"."+i.Method, i.Count) }
func (i *InvokeSubModule) String() string   { return format(i.Op(), i.Name) }
func (i *SetEventCallback) String() string {
	return format(i.Op(), i.Library+"."+i.Event, i.SubModule)
}
func (i *Unary) String() string  { return format(i.Op()) }
func (i *Binary) String() string { return format(i.Op()) }

func (i *Jump) String() string {
	if i.Label != "" && i.Target < 0 {
		return format(i.Op(), i.Label)
	}

	return format(i.Op(), i.Target)
}

func (i *ConditionalJump) String() string {
	return format(i.Op(), target(i.TrueTarget), target(i.FalseTarget))
}

func (i *Pause) String() string              { return format(i.Op()) }
func (i *Terminate) String() string          { return format(i.Op()) }
func (i *BlockOnStringInput) String() string { return format(i.Op()) }
func (i *BlockOnNumberInput) String() string { return format(i.Op()) }
func (i *PopValue) String() string           { return format(i.Op()) }
func (i *TransientLabel) String() string     { return format(i.Op(), i.Label) }

// BinaryOperation maps a bound arithmetic or comparison operator to its
// operation. And and Or never reach an instruction, they are lowered to jumps.
func BinaryOperation(op binder.BinaryOperator) Operation {
	switch op {
	case binder.Add:
		return OpAdd
	case binder.Subtract:
		return OpSub
	case binder.Multiply:
		return OpMul
	case binder.Divide:
		return OpDiv
	case binder.Equal:
		return OpEq
	case binder.NotEqual:
		return OpNeq
	case binder.LessThan:
		return OpLt
	case binder.LessThanOrEqual:
		return OpLe
	case binder.GreaterThan:
		return OpGt
	case binder.GreaterThanOrEqual:
		return OpGe
	default:
		return ""
	}
}
