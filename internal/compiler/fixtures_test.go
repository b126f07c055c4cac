package compiler

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"smallbasic/internal/host"
	"smallbasic/pkg/color"
	"smallbasic/pkg/interpreter"
)

type fixture struct {
	Name        string   `yaml:"name"`
	Source      string   `yaml:"source"`
	Input       string   `yaml:"input"`
	Output      *string  `yaml:"output"`
	Diagnostics []string `yaml:"diagnostics"`
	Desktop     bool     `yaml:"desktop"`
}

func readFixtures(t *testing.T) []fixture {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "programs.yaml"))
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}

	var fixtures []fixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		t.Fatalf("parsing fixtures: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatal("no fixtures found")
	}

	return fixtures
}

func TestFixtures(t *testing.T) {
	color.EnableColor(false)
	discard := log.New(io.Discard)

	for _, fx := range readFixtures(t) {
		t.Run(fx.Name, func(t *testing.T) {
			out := &bytes.Buffer{}
			console := host.NewConsole(out, host.WithConsoleLogger(discard))
			registry := console.Registry()

			program, bag, err := Compile(fx.Source, registry, Options{Desktop: fx.Desktop})
			if err != nil {
				t.Fatal(err)
			}

			var codes []string
			for _, c := range bag.Codes() {
				codes = append(codes, c.String())
			}
			if !reflect.DeepEqual(codes, fx.Diagnostics) {
				t.Fatalf("expected diagnostics %v, got %v", fx.Diagnostics, codes)
			}

			if fx.Output == nil {
				if program != nil && bag.HasErrors() {
					t.Fatalf("expected no program when compilation fails")
				}
				return
			}
			if program == nil {
				t.Fatalf("expected a program, got diagnostics %v", bag.Items())
			}

			engine := interpreter.NewInterpreter(program, registry, interpreter.WithLogger(discard), interpreter.WithMaxSteps(1_000_000))
			driver := host.NewDriver(engine, console, host.NewReader(strings.NewReader(fx.Input)), discard)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := driver.Run(ctx); err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := out.String(); got != *fx.Output {
				t.Fatalf("expected output %q, got %q", *fx.Output, got)
			}
		})
	}
}
