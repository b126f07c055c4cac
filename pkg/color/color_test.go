package color

import (
	"strings"
	"testing"
)

func TestDisabledColorIsPlain(t *testing.T) {
	EnableColor(false)
	defer EnableColor(false)

	if got := RedText("x"); got != "x" {
		t.Errorf("expected plain text, got %q", got)
	}
	if got := Diagnostic(3, 4, "GoToUndefinedLabel", "missing", false); got != "Error at 3:4: missing (GoToUndefinedLabel)" {
		t.Errorf("unexpected diagnostic rendering %q", got)
	}
}

func TestEnabledColorWrapsText(t *testing.T) {
	EnableColor(true)
	defer EnableColor(false)

	got := GreenText("ok")
	if got == "ok" || !strings.Contains(got, "ok") || !strings.HasPrefix(got, "\x1b[") {
		t.Errorf("expected an ANSI sequence around the text, got %q", got)
	}
}

func TestNamed(t *testing.T) {
	if _, ok := Named(" DarkRed "); !ok {
		t.Errorf("expected DarkRed to be known")
	}
	if _, ok := Named("chartreuse"); ok {
		t.Errorf("unknown colors must not resolve")
	}
}
