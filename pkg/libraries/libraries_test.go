package libraries

import (
	"testing"
	"time"

	"smallbasic/pkg/value"
)

func TestRegistryLookupIgnoresCase(t *testing.T) {
	registry := NewRegistry(&Library{
		Name:       "TextWindow",
		Methods:    []*Method{{Name: "WriteLine", Parameters: []Parameter{{Name: "data"}}}},
		Properties: []*Property{{Name: "Title"}},
		Events:     []*Event{{Name: "KeyDown"}},
	})

	lib, ok := registry.Library("textwindow")
	if !ok {
		t.Fatalf("expected library lookup to ignore case")
	}
	if _, ok := lib.Method("WRITELINE"); !ok {
		t.Errorf("expected method lookup to ignore case")
	}
	if _, ok := lib.Property("title"); !ok {
		t.Errorf("expected property lookup to ignore case")
	}
	if _, ok := lib.Event("keydown"); !ok {
		t.Errorf("expected event lookup to ignore case")
	}
	if _, ok := lib.Method("Title"); ok {
		t.Errorf("a property must not be found as a method")
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "TextWindow" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestMethodExecutable(t *testing.T) {
	if (&Method{}).Executable() {
		t.Errorf("method without thunk must not be executable")
	}
	if !(&Method{Intrinsic: true}).Executable() {
		t.Errorf("intrinsic method must be executable")
	}
}

func TestFutureCompletesOnce(t *testing.T) {
	f := NewFuture()
	if f.IsComplete() {
		t.Fatalf("new future must not be complete")
	}

	go f.Complete(value.NewString("first"))
	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatalf("future never completed")
	}

	f.Complete(value.NewString("second"))
	if got := f.Value().ToString(); got != "first" {
		t.Fatalf("expected first value to win, got %q", got)
	}
}

func TestResult(t *testing.T) {
	if Done().Value().ToString() != "" || Done().IsPending() {
		t.Errorf("Done must be a ready empty result")
	}
	if Ready(value.NewNumber(3)).Value().ToString() != "3" {
		t.Errorf("Ready must carry its value")
	}
	if !Pending(NewFuture()).IsPending() {
		t.Errorf("Pending must report pending")
	}
	if (Call{}).Arg(2).ToString() != "" {
		t.Errorf("missing arguments must be empty")
	}
}
