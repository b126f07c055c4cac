package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"smallbasic/internal/host"
	"smallbasic/pkg/binder"
	"smallbasic/pkg/color"
	"smallbasic/pkg/diagnostics"
	"smallbasic/pkg/emitter"
	"smallbasic/pkg/image"
	"smallbasic/pkg/interpreter"
	"smallbasic/pkg/libraries"
	"smallbasic/pkg/parser"
)

type Options struct {
	Desktop bool // allow library members that need the desktop runtime
}

// Compile scans, parses, binds and emits source. The program is nil when
// the bag holds errors; warnings alone do not stop compilation.
func Compile(source string, registry *libraries.Registry, opts Options) (*emitter.Program, *diagnostics.Bag, error) {
	bag := diagnostics.NewBag()

	tree := parser.Parse(source, bag)
	bound := binder.Bind(tree, registry, bag, binder.Options{IsRunningOnDesktop: opts.Desktop})
	if bag.HasErrors() {
		return nil, bag, nil
	}

	program, err := emitter.EmitProgram(bound)
	if err != nil {
		return nil, bag, err
	}

	return program, bag, nil
}

type Compiler struct {
	Help        bool     // Show help message
	Verbose     bool     // Print the instruction listing and a run summary
	ShouldRun   bool     // Run the program after compiling it
	WriteImage  bool     // Write the compiled image to OutputFile
	RunImage    bool     // SourceFile is a compiled image to run
	NoColor     bool     // Disable colored output
	Desktop     bool     // Allow desktop-only library members
	MaxSteps    int      // Instruction limit for a run, 0 for none
	History     string   // Line editor history file
	SourceFile  string   // Path to the source file or image
	OutputFile  string   // Path of the written image
	Arguments   []string // Arguments passed to the program
	Output      io.Writer
	Diagnostics io.Writer
}

// Compile processes the source file and writes, lists or runs the result
// depending on the options set.
func (opts *Compiler) Compile(ctx context.Context) error {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = os.Stderr
	}

	logger := log.Default().With("run", uuid.New().String())
	logger.Info("Processing file", "file", opts.SourceFile)

	console := host.NewConsole(opts.Output,
		host.WithArguments(opts.Arguments),
		host.WithDirectory(filepath.Dir(opts.SourceFile)),
		host.WithConsoleLogger(logger))
	registry := console.Registry()

	program, err := opts.load(registry)
	if err != nil {
		return err
	}

	if opts.Verbose {
		printListing(opts.Diagnostics, program)
	}

	if opts.WriteImage {
		if err := opts.writeImage(program); err != nil {
			return err
		}
	}

	if !opts.ShouldRun && !opts.RunImage {
		return nil
	}

	engine := interpreter.NewInterpreter(program, registry,
		interpreter.WithMaxSteps(opts.MaxSteps),
		interpreter.WithLogger(logger))

	input := host.NewInput(os.Stdin, opts.History)
	defer input.Close()

	started := time.Now()
	err = host.NewDriver(engine, console, input, logger).Run(ctx)

	if opts.Verbose {
		fmt.Fprintln(opts.Diagnostics, color.GrayText(fmt.Sprintf("%s instructions in %s",
			humanize.Comma(int64(engine.Steps())), time.Since(started).Round(time.Millisecond))))
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	return nil
}

// load compiles SourceFile, or decodes it when it is an image
func (opts *Compiler) load(registry *libraries.Registry) (*emitter.Program, error) {
	if opts.RunImage {
		f, err := os.Open(opts.SourceFile)
		if err != nil {
			return nil, fmt.Errorf("cannot open image: %w", err)
		}
		defer f.Close()

		program, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("cannot load image %s: %w", opts.SourceFile, err)
		}
		return program, nil
	}

	source, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read source: %w", err)
	}

	program, bag, err := Compile(string(source), registry, Options{Desktop: opts.Desktop})
	printDiagnostics(opts.Diagnostics, bag)
	if err != nil {
		return nil, fmt.Errorf("code generation failed: %w", err)
	}
	if program == nil {
		return nil, fmt.Errorf("compilation failed with %d diagnostics", bag.Len())
	}

	return program, nil
}

func (opts *Compiler) writeImage(program *emitter.Program) error {
	f, err := os.Create(opts.OutputFile)
	if err != nil {
		return fmt.Errorf("cannot create image: %w", err)
	}
	defer f.Close()

	if err := image.Encode(f, program); err != nil {
		return fmt.Errorf("image encoding failed: %w", err)
	}

	if info, err := f.Stat(); err == nil {
		log.Info("Image written", "file", opts.OutputFile, "size", humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

func printDiagnostics(w io.Writer, bag *diagnostics.Bag) {
	for _, d := range bag.Items() {
		start := d.Range.Start
		fmt.Fprintln(w, color.Diagnostic(start.Line, start.Column, d.Code.String(), d.Message(), d.Code.IsWarning()))
	}
}

func printListing(w io.Writer, program *emitter.Program) {
	printModule(w, "Main", program.Main)

	names := make([]string, 0, len(program.SubModules))
	for name := range program.SubModules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		printModule(w, "Sub "+name, program.SubModules[name])
	}
}

func printModule(w io.Writer, title string, instructions []emitter.Instruction) {
	fmt.Fprintln(w, color.GreenText("\n=== "+title+" ==="))
	if len(instructions) == 0 {
		fmt.Fprintln(w, color.GrayText("No code generated."))
		return
	}

	for i, ins := range instructions {
		fmt.Fprintf(w, "%s: %s %s\n",
			color.CyanText(fmt.Sprintf("%d", i)),
			color.YellowText(ins.String()),
			color.GrayText(ins.Range().Start.String()))
	}
}
