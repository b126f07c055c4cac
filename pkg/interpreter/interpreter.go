// Package interpreter runs emitted programs on a stack machine that can be
// paused, stepped, blocked on input and re-entered by host events.
package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"

	"smallbasic/pkg/emitter"
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/stack"
	"smallbasic/pkg/value"
)

type Status int

const (
	Running Status = iota
	Paused
	Terminated
	BlockedOnStringInput
	BlockedOnNumberInput
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Terminated:
		return "Terminated"
	case BlockedOnStringInput:
		return "BlockedOnStringInput"
	case BlockedOnNumberInput:
		return "BlockedOnNumberInput"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Interpreter executes an emitted program one instruction at a time
type Interpreter struct {
	program  *emitter.Program
	registry *libraries.Registry

	status Status
	frames *stack.Stack[*Frame]      // execution stack, innermost frame on top
	eval   *stack.Stack[value.Value] // evaluation stack shared by all frames
	memory map[string]value.Value    // global variables

	callbacks map[string]string // folded library.event -> submodule

	awaiting     *libraries.Future // pending asynchronous call
	awaitingPush bool              // push the future's value once it completes
	deferred     []string          // event submodules raised while awaiting

	ctx    context.Context // context of the current Execute call
	logger *log.Logger

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
}

type Option func(*Interpreter)

// WithMaxSteps sets a maximum number of instructions before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithLogger sets the logger used for state transitions
func WithLogger(l *log.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// NewInterpreter creates an interpreter positioned at the first instruction of the main module
func NewInterpreter(program *emitter.Program, registry *libraries.Registry, opts ...Option) *Interpreter {
	it := &Interpreter{
		program:   program,
		registry:  registry,
		status:    Running,
		frames:    stack.NewStack[*Frame](),
		eval:      stack.NewStack[value.Value](),
		memory:    make(map[string]value.Value),
		callbacks: make(map[string]string),
		ctx:       context.Background(),
	}

	for _, o := range opts {
		o(it)
	}

	if it.logger == nil {
		it.logger = log.Default()
	}

	it.frames.Push(&Frame{Instructions: program.Main})
	return it
}

// Status returns the current execution status
func (i *Interpreter) Status() Status {
	return i.status
}

// Steps returns the number of instructions executed so far
func (i *Interpreter) Steps() int {
	return i.steps
}

// Depth returns the number of frames on the execution stack
func (i *Interpreter) Depth() int {
	return i.frames.Size()
}

// Idle reports whether the interpreter is running but has nothing to execute.
// It only stays alive in that state to wait for events.
func (i *Interpreter) Idle() bool {
	return i.status == Running && i.awaiting == nil && i.frames.Size() == 0
}

// HasCallbacks reports whether any event callback was registered
func (i *Interpreter) HasCallbacks() bool {
	return len(i.callbacks) > 0
}

// Awaiting returns a channel closed when the pending asynchronous call
// completes, or nil when nothing is pending
func (i *Interpreter) Awaiting() <-chan struct{} {
	if i.awaiting == nil {
		return nil
	}

	return i.awaiting.Done()
}

// Variable returns the value of a global variable, or an empty value
func (i *Interpreter) Variable(name string) value.Value {
	if v, ok := i.memory[name]; ok {
		return v
	}

	return value.Empty
}

// Execute runs instructions until the interpreter stops running, becomes
// idle, or waits on an asynchronous call. Invariant violations terminate
// the interpreter and are returned.
func (i *Interpreter) Execute(ctx context.Context) error {
	return i.run(ctx, 0)
}

// ExecuteSteps is Execute bounded to at most n instructions, so a host can
// deliver events to programs that never go idle
func (i *Interpreter) ExecuteSteps(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	return i.run(ctx, n)
}

// run executes up to budget instructions, 0 meaning no bound
func (i *Interpreter) run(ctx context.Context, budget int) error {
	i.ctx = ctx

	for executed := 0; i.status == Running; executed++ {
		if budget > 0 && executed >= budget {
			return nil
		}

		if err := ctx.Err(); err != nil {
			i.Terminate()
			return err
		}

		if !i.settle() {
			return nil
		}

		if err := i.step(); err != nil {
			return i.fail(err)
		}
	}

	return nil
}

// ExecuteNext runs exactly one instruction if the interpreter is running
// and not waiting on an asynchronous call
func (i *Interpreter) ExecuteNext(ctx context.Context) error {
	i.ctx = ctx

	if i.status != Running || !i.settle() {
		return nil
	}

	if err := i.step(); err != nil {
		return i.fail(err)
	}

	// a paused or awaiting engine keeps its frames until it continues
	if i.status == Running && i.awaiting == nil {
		i.popExhausted()
	}
	return nil
}

// settle completes a finished asynchronous call and pops exhausted frames.
// It reports whether an instruction can run now.
func (i *Interpreter) settle() bool {
	if i.awaiting != nil {
		if !i.awaiting.IsComplete() {
			return false
		}

		if i.awaitingPush {
			i.push(i.awaiting.Value())
		}
		i.awaiting = nil
		i.logger.Debug("async call completed")

		for _, sub := range i.deferred {
			i.pushSubModule(sub)
		}
		i.deferred = nil
	}

	i.popExhausted()
	return i.status == Running && i.frames.Size() > 0
}

// popExhausted pops every frame whose pointer ran past its instructions.
// Running out of frames ends the program unless events can still arrive.
func (i *Interpreter) popExhausted() {
	for i.frames.Size() > 0 {
		f := i.frames.Peek()
		if f.IP < len(f.Instructions) {
			return
		}

		i.frames.Pop()
		i.logger.Debug("frame popped", "module", f.Name(), "depth", i.frames.Size())
	}

	if i.status == Running && len(i.callbacks) == 0 {
		i.setStatus(Terminated)
	}
}

// ProvideStringInput completes a pending TextWindow.Read. The interpreter
// becomes Paused and has to be resumed explicitly.
func (i *Interpreter) ProvideStringInput(s string) error {
	if i.status != BlockedOnStringInput {
		return fmt.Errorf("%w: status is %s", ErrNotBlocked, i.status)
	}

	i.push(value.NewString(s))
	i.setStatus(Paused)
	return nil
}

// ProvideNumberInput completes a pending TextWindow.ReadNumber. Text that
// is not a number is read as 0.
func (i *Interpreter) ProvideNumberInput(s string) error {
	if i.status != BlockedOnNumberInput {
		return fmt.Errorf("%w: status is %s", ErrNotBlocked, i.status)
	}

	if d, ok := value.ParseNumber(s); ok {
		i.push(value.NewDecimal(d))
	} else {
		i.push(value.NewNumber(0))
	}

	i.setStatus(Paused)
	return nil
}

// Resume continues a paused program
func (i *Interpreter) Resume() error {
	if i.status != Paused {
		return fmt.Errorf("%w: status is %s", ErrNotPaused, i.status)
	}

	i.setStatus(Running)
	return nil
}

// Pause stops a running program at the next instruction boundary
func (i *Interpreter) Pause() error {
	if i.status != Running {
		return fmt.Errorf("%w: status is %s", ErrNotRunning, i.status)
	}

	i.setStatus(Paused)
	return nil
}

// Terminate ends the program from any state. Terminated is final.
func (i *Interpreter) Terminate() {
	if i.status == Terminated {
		return
	}

	i.frames.Clear()
	i.awaiting = nil
	i.deferred = nil
	i.setStatus(Terminated)
}

// RaiseEvent runs the submodule registered for library.event on top of
// whatever is executing. It reports whether a callback was registered.
func (i *Interpreter) RaiseEvent(library, event string) (bool, error) {
	if i.status == Terminated {
		return false, nil
	}

	sub, ok := i.callbacks[eventKey(library, event)]
	if !ok {
		return false, nil
	}

	if _, ok := i.program.SubModules[sub]; !ok {
		return false, i.fail(fmt.Errorf("%w: %s", ErrUnknownSubModule, sub))
	}

	i.logger.Debug("event raised", "library", library, "event", event, "sub", sub)
	if i.awaiting != nil {
		i.deferred = append(i.deferred, sub)
		return true, nil
	}

	i.pushSubModule(sub)
	return true, nil
}

func (i *Interpreter) pushSubModule(name string) {
	i.frames.Push(&Frame{Module: name, Instructions: i.program.SubModules[name]})
	i.logger.Debug("frame pushed", "module", name, "depth", i.frames.Size())
}

// step runs the instruction under the innermost frame's pointer
func (i *Interpreter) step() error {
	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return ErrMaxStepsExceeded
	}

	f := i.frames.Peek()
	ins := f.Instructions[f.IP]
	i.steps++

	if err := ins.Accept(i); err != nil {
		return fmt.Errorf("%s at %s: %w", ins, ins.Range().Start, err)
	}

	return nil
}

func (i *Interpreter) fail(err error) error {
	i.logger.Error("runtime fault", "err", err)
	i.Terminate()
	return err
}

func (i *Interpreter) setStatus(s Status) {
	if i.status == s {
		return
	}

	i.logger.Debug("status changed", "from", i.status, "to", s)
	i.status = s
}

func (i *Interpreter) push(v value.Value) {
	i.eval.Push(v)
}

// pop never fails, an empty stack yields an empty value
func (i *Interpreter) pop() value.Value {
	if i.eval.Size() == 0 {
		return value.Empty
	}

	return i.eval.Pop()
}

func eventKey(library, event string) string {
	fold := cases.Fold()
	return fold.String(library) + "." + fold.String(event)
}

var (
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
	ErrMissingThunk     = errors.New("library member has no implementation")
	ErrJumpOutOfRange   = errors.New("jump target out of range")
	ErrUnresolvedLabel  = errors.New("label marker reached the interpreter")
	ErrUnknownSubModule = errors.New("unknown submodule")
	ErrNotBlocked       = errors.New("interpreter is not waiting for input")
	ErrNotPaused        = errors.New("interpreter is not paused")
	ErrNotRunning       = errors.New("interpreter is not running")
)
