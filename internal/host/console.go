// Package host provides the console implementation of the Small Basic
// libraries and the driver that runs a program against it.
package host

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"smallbasic/pkg/libraries"
	"smallbasic/pkg/stack"
	"smallbasic/pkg/value"
)

// Event is a host event waiting to be raised in the program
type Event struct {
	Library string
	Name    string
}

// Console holds the state behind the console libraries. Thunks run on the
// driver goroutine only; the timer has its own locking.
type Console struct {
	out    io.Writer
	logger *log.Logger

	args    []string
	dir     string
	now     func() time.Time
	started time.Time
	random  *rand.Rand

	title      string
	foreground string

	arrays map[string]*value.ArrayValue // named arrays of Array.GetValue and Array.SetValue
	stacks map[string]*stack.Stack[value.Value]

	timer  *Timer
	events chan Event
}

type ConsoleOption func(*Console)

// WithArguments sets the values returned by Program.GetArgument
func WithArguments(args []string) ConsoleOption {
	return func(c *Console) { c.args = args }
}

// WithDirectory sets the value of Program.Directory
func WithDirectory(dir string) ConsoleOption {
	return func(c *Console) { c.dir = dir }
}

// WithClock replaces the wall clock used by the Clock library
func WithClock(now func() time.Time) ConsoleOption {
	return func(c *Console) { c.now = now }
}

// WithSeed makes Math.GetRandomNumber deterministic
func WithSeed(seed uint64) ConsoleOption {
	return func(c *Console) { c.random = rand.New(rand.NewPCG(seed, seed)) }
}

func WithConsoleLogger(l *log.Logger) ConsoleOption {
	return func(c *Console) { c.logger = l }
}

// NewConsole creates the console host writing program output to out
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:    out,
		now:    time.Now,
		arrays: make(map[string]*value.ArrayValue),
		stacks: make(map[string]*stack.Stack[value.Value]),
		events: make(chan Event, 16),
	}

	for _, o := range opts {
		o(c)
	}

	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.random == nil {
		c.random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c.started = c.now()
	c.timer = newTimer(c.events)
	return c
}

// Registry returns every console library
func (c *Console) Registry() *libraries.Registry {
	return libraries.NewRegistry(
		c.textWindowLibrary(),
		c.programLibrary(),
		c.mathLibrary(),
		c.textLibrary(),
		c.clockLibrary(),
		c.arrayLibrary(),
		c.stackLibrary(),
		c.timerLibrary(),
	)
}

// Events delivers host events in the order they happened
func (c *Console) Events() <-chan Event {
	return c.events
}

// Timer returns the timer behind the Timer library
func (c *Console) Timer() *Timer {
	return c.timer
}

// EventSourcesLive reports whether any event can still arrive
func (c *Console) EventSourcesLive() bool {
	return c.timer.Active() || len(c.events) > 0
}

// Title returns the last title set by the program
func (c *Console) Title() string {
	return c.title
}

func params(names ...string) []libraries.Parameter {
	out := make([]libraries.Parameter, len(names))
	for i, n := range names {
		out[i] = libraries.Parameter{Name: n}
	}

	return out
}
