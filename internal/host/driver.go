package host

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"smallbasic/pkg/interpreter"
)

// DefaultSlice is the number of instructions run between event deliveries
const DefaultSlice = 1000

// Driver runs an engine against the console: it answers input requests,
// waits on asynchronous calls and feeds host events into the program.
type Driver struct {
	engine  *interpreter.Interpreter
	console *Console
	input   LineReader
	logger  *log.Logger
	slice   int
}

func NewDriver(engine *interpreter.Interpreter, console *Console, input LineReader, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}

	return &Driver{
		engine:  engine,
		console: console,
		input:   input,
		logger:  logger,
		slice:   DefaultSlice,
	}
}

// Run executes the program until it terminates, fails, or ctx is done.
// Reading input blocks and is not interrupted by ctx.
func (d *Driver) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.console.Timer().Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return d.loop(ctx)
	})

	return g.Wait()
}

func (d *Driver) loop(ctx context.Context) error {
	events := d.console.Events()

	for {
		if err := d.engine.ExecuteSteps(ctx, d.slice); err != nil {
			return err
		}

		switch d.engine.Status() {
		case interpreter.Terminated:
			d.logger.Debug("program terminated", "steps", d.engine.Steps())
			return nil
		case interpreter.BlockedOnStringInput, interpreter.BlockedOnNumberInput:
			if err := d.supplyInput(); err != nil {
				return err
			}
			continue
		case interpreter.Paused:
			if err := d.waitForResume(); err != nil {
				return err
			}
			continue
		}

		if done := d.engine.Awaiting(); done != nil {
			select {
			case <-done:
			case ev := <-events:
				if err := d.raise(ev); err != nil {
					return err
				}
			case <-ctx.Done():
				d.engine.Terminate()
				return ctx.Err()
			}
			continue
		}

		if d.engine.Idle() {
			if !d.console.EventSourcesLive() {
				d.logger.Debug("no event source left, ending program")
				d.engine.Terminate()
				return nil
			}

			select {
			case ev := <-events:
				if err := d.raise(ev); err != nil {
					return err
				}
			case <-ctx.Done():
				d.engine.Terminate()
				return ctx.Err()
			}
			continue
		}

		if err := d.drain(events); err != nil {
			return err
		}
	}
}

// drain raises every queued event without waiting
func (d *Driver) drain(events <-chan Event) error {
	for {
		select {
		case ev := <-events:
			if err := d.raise(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (d *Driver) raise(ev Event) error {
	delivered, err := d.engine.RaiseEvent(ev.Library, ev.Name)
	if err != nil {
		return err
	}
	if !delivered {
		d.logger.Debug("event without callback", "library", ev.Library, "event", ev.Name)
	}

	return nil
}

// supplyInput reads one line for a blocked Read or ReadNumber. Closed
// input ends the program.
func (d *Driver) supplyInput() error {
	line, err := d.input.ReadLine("")
	if errors.Is(err, io.EOF) {
		d.logger.Debug("input closed while the program was reading")
		d.engine.Terminate()
		return nil
	}
	if err != nil {
		return err
	}

	if d.engine.Status() == interpreter.BlockedOnNumberInput {
		err = d.engine.ProvideNumberInput(line)
	} else {
		err = d.engine.ProvideStringInput(line)
	}
	if err != nil {
		return err
	}

	return d.engine.Resume()
}

// waitForResume holds Program.Pause until the user presses enter
func (d *Driver) waitForResume() error {
	d.logger.Info("program paused, press enter to continue")

	if _, err := d.input.ReadLine(""); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return d.engine.Resume()
}
