package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"

	"smallbasic/internal/compiler"
	"smallbasic/internal/config"
	"smallbasic/internal/logger"
	"smallbasic/pkg/color"
)

// Main entry point for the Small Basic runner.
func main() {
	options := compiler.Compiler{}
	var level string

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode, prints the instruction listing")
	flag.BoolVar(&options.ShouldRun, "r", false, "Run the program")
	flag.BoolVar(&options.WriteImage, "c", false, "Compile to an image")
	flag.BoolVar(&options.RunImage, "i", false, "Run a compiled image")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Desktop, "d", false, "Allow desktop-only library members")
	flag.IntVar(&options.MaxSteps, "s", 0, "Maximum instructions to run, 0 for no limit")
	flag.StringVar(&level, "l", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&options.OutputFile, "o", "a.sbi", "Output image name")

	flag.Parse()
	args := flag.Args()

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Error(err.Error()))
		os.Exit(1)
	}
	applyConfig(&options, cfg, &level)

	if err := logger.Init(level, options.Verbose, options.NoColor); err != nil {
		fmt.Fprintln(os.Stderr, color.Error(err.Error()))
		os.Exit(1)
	}
	if cfg.Path != "" {
		log.Debug("Configuration loaded", "file", cfg.Path)
	}

	if options.Help {
		fmt.Printf("Usage: %s [options] <file> [program arguments]\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]
	options.Arguments = args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := options.Compile(ctx); err != nil {
		log.Fatal("Compilation failed", "error", err)
	}
}

// loadConfig looks for smallbasic.toml next to the program, or from the
// working directory when no program was given
func loadConfig(args []string) (*config.Config, error) {
	dir := "."
	if len(args) > 0 {
		dir = filepath.Dir(args[0])
	}

	return config.FindAndLoad(dir)
}

// applyConfig fills in values that were not set on the command line
func applyConfig(options *compiler.Compiler, cfg *config.Config, level *string) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["s"] {
		options.MaxSteps = cfg.Runtime.MaxSteps
	}
	if !set["d"] {
		options.Desktop = cfg.Runtime.Desktop
	}
	if !set["l"] {
		*level = cfg.Log.Level
	}
	if !set["n"] {
		options.NoColor = !cfg.Log.Color
	}
	options.History = cfg.Input.History
}
