package host

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"smallbasic/pkg/binder"
	"smallbasic/pkg/color"
	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/emitter"
	"smallbasic/pkg/interpreter"
	"smallbasic/pkg/parser"
)

type session struct {
	driver  *Driver
	engine  *interpreter.Interpreter
	console *Console
	out     *bytes.Buffer
}

func start(t *testing.T, source, input string, opts ...ConsoleOption) *session {
	t.Helper()

	color.EnableColor(false)
	quiet := log.New(io.Discard)
	out := &bytes.Buffer{}
	console := NewConsole(out, append([]ConsoleOption{WithConsoleLogger(quiet), WithSeed(1)}, opts...)...)
	registry := console.Registry()

	bag := diagnostics.NewBag()
	bound := binder.Bind(parser.Parse(source, bag), registry, bag, binder.Options{IsRunningOnDesktop: true})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	program, err := emitter.EmitProgram(bound)
	if err != nil {
		t.Fatal(err)
	}

	engine := interpreter.NewInterpreter(program, registry, interpreter.WithLogger(quiet))
	return &session{
		driver:  NewDriver(engine, console, NewReader(strings.NewReader(input)), quiet),
		engine:  engine,
		console: console,
		out:     out,
	}
}

func (s *session) run(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.driver.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.engine.Status() != interpreter.Terminated {
		t.Fatalf("expected Terminated, got %s", s.engine.Status())
	}
}

func (s *session) expectOutput(t *testing.T, expected string) {
	t.Helper()

	if got := s.out.String(); got != expected {
		t.Fatalf("expected output %q, got %q", expected, got)
	}
}

func TestDriverSuppliesInput(t *testing.T) {
	s := start(t, `
name = TextWindow.Read()
n = TextWindow.ReadNumber()
TextWindow.WriteLine("Hello " + name)
TextWindow.WriteLine(n + 1)
`, "Ada\n41\n")

	s.run(t)
	s.expectOutput(t, "Hello Ada\n42\n")
}

func TestDriverEndsProgramWhenInputCloses(t *testing.T) {
	s := start(t, `
name = TextWindow.Read()
TextWindow.WriteLine("unreachable")
`, "")

	s.run(t)
	s.expectOutput(t, "")
}

func TestDriverResumesAfterPause(t *testing.T) {
	s := start(t, `
TextWindow.Write("a")
Program.Pause()
TextWindow.Write("b")
`, "\n")

	s.run(t)
	s.expectOutput(t, "ab")
}

func TestDriverWaitsOnDelay(t *testing.T) {
	s := start(t, `
TextWindow.Write("a")
Program.Delay(20)
TextWindow.Write("b")
`, "")

	began := time.Now()
	s.run(t)
	s.expectOutput(t, "ab")

	if elapsed := time.Since(began); elapsed < 20*time.Millisecond {
		t.Fatalf("expected the delay to be honored, finished after %s", elapsed)
	}
}

func TestDriverDeliversTimerTicks(t *testing.T) {
	s := start(t, `
Timer.Tick = OnTick
Timer.Interval = 5

Sub OnTick
  count = count + 1
  If count = 3 Then
    Timer.Pause()
    TextWindow.WriteLine("done")
  EndIf
EndSub
`, "")

	s.run(t)
	s.expectOutput(t, "done\n")

	if s.console.Timer().Active() {
		t.Fatalf("expected the timer to be paused")
	}
}

func TestDriverDeliversTicksToBusyPrograms(t *testing.T) {
	s := start(t, `
Timer.Tick = OnTick
Timer.Interval = 5
While ticks < 2
EndWhile
Timer.Pause()
TextWindow.WriteLine("done")

Sub OnTick
  ticks = ticks + 1
EndSub
`, "")

	s.run(t)
	s.expectOutput(t, "done\n")
}

func TestDriverStopsWithContext(t *testing.T) {
	s := start(t, `
Timer.Tick = OnTick
Timer.Interval = 60000

Sub OnTick
EndSub
`, "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := s.driver.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if s.engine.Status() != interpreter.Terminated {
		t.Fatalf("expected Terminated, got %s", s.engine.Status())
	}
}

func TestDriverEndsIdleProgramWithoutEventSources(t *testing.T) {
	s := start(t, `
Timer.Tick = OnTick
TextWindow.WriteLine("registered")

Sub OnTick
EndSub
`, "")

	s.run(t)
	s.expectOutput(t, "registered\n")
}
