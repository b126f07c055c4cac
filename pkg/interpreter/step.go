package interpreter

import (
	"fmt"

	"smallbasic/pkg/emitter"
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/value"
)

var binaryOperations = map[emitter.Operation]func(a, b value.Value) value.Value{
	emitter.OpAdd: value.Add,
	emitter.OpSub: value.Subtract,
	emitter.OpMul: value.Multiply,
	emitter.OpDiv: value.Divide,
	emitter.OpEq:  value.Equal,
	emitter.OpNeq: value.NotEqual,
	emitter.OpLt:  value.LessThan,
	emitter.OpLe:  value.LessThanOrEqual,
	emitter.OpGt:  value.GreaterThan,
	emitter.OpGe:  value.GreaterThanOrEqual,
}

// advance moves the current frame past the instruction being executed.
// Every instruction except jumps advances before it takes effect.
func (i *Interpreter) advance() {
	i.frames.Peek().IP++
}

// jumpTo sets the current frame's pointer, the end of the module is a valid target
func (i *Interpreter) jumpTo(target int) error {
	f := i.frames.Peek()
	if target < 0 || target > len(f.Instructions) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrJumpOutOfRange, target, len(f.Instructions))
	}

	f.IP = target
	return nil
}

func (i *Interpreter) VisitPushLiteral(ins *emitter.PushLiteral) error {
	i.advance()
	i.push(ins.Value)
	return nil
}

func (i *Interpreter) VisitLoadVariable(ins *emitter.LoadVariable) error {
	i.advance()
	i.push(i.Variable(ins.Name))
	return nil
}

func (i *Interpreter) VisitStoreVariable(ins *emitter.StoreVariable) error {
	i.advance()
	i.memory[ins.Name] = copyValue(i.pop())
	return nil
}

// popIndices pops n indices, outermost first
func (i *Interpreter) popIndices(n int) []string {
	indices := make([]string, n)
	for k := range indices {
		indices[k] = i.pop().ToString()
	}

	return indices
}

// array returns the array stored in a variable, replacing anything else
// with a new empty array
func (i *Interpreter) array(name string) *value.ArrayValue {
	if a, ok := i.memory[name].(*value.ArrayValue); ok {
		return a
	}

	a := value.NewArray()
	i.memory[name] = a
	return a
}

// walk follows all but the last index, creating arrays on the way
func walk(root *value.ArrayValue, indices []string) *value.ArrayValue {
	current := root
	for _, index := range indices[:len(indices)-1] {
		current = current.Child(index)
	}

	return current
}

func (i *Interpreter) VisitLoadArrayElement(ins *emitter.LoadArrayElement) error {
	i.advance()

	indices := i.popIndices(ins.Count)
	parent := walk(i.array(ins.Name), indices)
	if v, ok := parent.Get(indices[len(indices)-1]); ok {
		i.push(v)
	} else {
		i.push(value.Empty)
	}

	return nil
}

func (i *Interpreter) VisitStoreArrayElement(ins *emitter.StoreArrayElement) error {
	i.advance()

	indices := i.popIndices(ins.Count)
	v := i.pop()
	parent := walk(i.array(ins.Name), indices)
	parent.Set(indices[len(indices)-1], copyValue(v))

	return nil
}

// copyValue gives arrays value semantics on assignment
func copyValue(v value.Value) value.Value {
	if a, ok := v.(*value.ArrayValue); ok {
		return a.Clone()
	}

	return v
}

func (i *Interpreter) library(name string) (*libraries.Library, error) {
	lib, ok := i.registry.Library(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingThunk, name)
	}

	return lib, nil
}

// call runs a thunk and handles its result. An asynchronous result
// suspends execution until the future completes.
func (i *Interpreter) call(thunk libraries.Thunk, call libraries.Call, pushResult bool) {
	call.Context = i.ctx

	result := thunk(call)
	if result.IsPending() {
		i.awaiting = result.Future()
		i.awaitingPush = pushResult
		i.logger.Debug("awaiting async call", "library", call.Library, "member", call.Member)
		return
	}

	if pushResult {
		i.push(result.Value())
	}
}

func (i *Interpreter) VisitLoadProperty(ins *emitter.LoadProperty) error {
	i.advance()

	lib, err := i.library(ins.Library)
	if err != nil {
		return err
	}
	property, ok := lib.Property(ins.Property)
	if !ok || !property.HasGetter() {
		return fmt.Errorf("%w: %s.%s getter", ErrMissingThunk, ins.Library, ins.Property)
	}

	i.call(property.Getter, libraries.Call{Library: lib.Name, Member: property.Name}, true)
	return nil
}

func (i *Interpreter) VisitStoreProperty(ins *emitter.StoreProperty) error {
	i.advance()

	v := i.pop()
	lib, err := i.library(ins.Library)
	if err != nil {
		return err
	}
	property, ok := lib.Property(ins.Property)
	if !ok || !property.HasSetter() {
		return fmt.Errorf("%w: %s.%s setter", ErrMissingThunk, ins.Library, ins.Property)
	}

	i.call(property.Setter, libraries.Call{Library: lib.Name, Member: property.Name, Args: []value.Value{v}}, false)
	return nil
}

func (i *Interpreter) VisitInvokeMethod(ins *emitter.InvokeMethod) error {
	i.advance()

	args := make([]value.Value, ins.Count)
	for k := ins.Count - 1; k >= 0; k-- {
		args[k] = i.pop()
	}

	lib, err := i.library(ins.Library)
	if err != nil {
		return err
	}
	method, ok := lib.Method(ins.Method)
	if !ok || method.Execute == nil {
		return fmt.Errorf("%w: %s.%s", ErrMissingThunk, ins.Library, ins.Method)
	}

	i.call(method.Execute, libraries.Call{Library: lib.Name, Member: method.Name, Args: args}, method.ReturnsValue)
	return nil
}

func (i *Interpreter) VisitInvokeSubModule(ins *emitter.InvokeSubModule) error {
	i.advance()

	if _, ok := i.program.SubModules[ins.Name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSubModule, ins.Name)
	}

	i.pushSubModule(ins.Name)
	return nil
}

func (i *Interpreter) VisitSetEventCallback(ins *emitter.SetEventCallback) error {
	i.advance()

	i.callbacks[eventKey(ins.Library, ins.Event)] = ins.SubModule
	i.logger.Debug("event callback set", "library", ins.Library, "event", ins.Event, "sub", ins.SubModule)
	return nil
}

func (i *Interpreter) VisitUnary(*emitter.Unary) error {
	i.advance()
	i.push(value.Negate(i.pop()))
	return nil
}

func (i *Interpreter) VisitBinary(ins *emitter.Binary) error {
	i.advance()

	operation, ok := binaryOperations[ins.Operation]
	if !ok {
		return fmt.Errorf("unknown binary operation %q", ins.Operation)
	}

	right := i.pop()
	left := i.pop()
	i.push(operation(left, right))
	return nil
}

func (i *Interpreter) VisitJump(ins *emitter.Jump) error {
	return i.jumpTo(ins.Target)
}

func (i *Interpreter) VisitConditionalJump(ins *emitter.ConditionalJump) error {
	target := ins.FalseTarget
	if i.pop().ToBoolean() {
		target = ins.TrueTarget
	}

	if target == nil {
		i.advance()
		return nil
	}

	return i.jumpTo(*target)
}

func (i *Interpreter) VisitPause(*emitter.Pause) error {
	i.advance()
	i.setStatus(Paused)
	return nil
}

func (i *Interpreter) VisitTerminate(*emitter.Terminate) error {
	i.advance()
	i.Terminate()
	return nil
}

func (i *Interpreter) VisitBlockOnStringInput(*emitter.BlockOnStringInput) error {
	i.advance()
	i.setStatus(BlockedOnStringInput)
	return nil
}

func (i *Interpreter) VisitBlockOnNumberInput(*emitter.BlockOnNumberInput) error {
	i.advance()
	i.setStatus(BlockedOnNumberInput)
	return nil
}

func (i *Interpreter) VisitPopValue(*emitter.PopValue) error {
	i.advance()
	i.pop()
	return nil
}

func (i *Interpreter) VisitTransientLabel(ins *emitter.TransientLabel) error {
	return fmt.Errorf("%w: %s", ErrUnresolvedLabel, ins.Label)
}
