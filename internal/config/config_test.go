package config

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, `
[runtime]
max-steps = 5000
desktop = true

[log]
level = "debug"

[input]
history = "/tmp/history"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if c.Runtime.MaxSteps != 5000 || !c.Runtime.Desktop {
		t.Errorf("unexpected runtime section %+v", c.Runtime)
	}
	if c.Log.Level != "debug" || !c.Log.Color {
		t.Errorf("expected level from file and color from defaults, got %+v", c.Log)
	}
	if c.Input.History != "/tmp/history" || c.Path != path {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(write(t, dir, "[runtime\n")); err == nil {
		t.Errorf("expected a parse error")
	}
	if _, err := Load(write(t, dir, "[runtime]\nmax-steps = -1\n")); err == nil {
		t.Errorf("expected negative max-steps to be rejected")
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("expected a read error")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, "[runtime]\nmax-steps = 7\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	if c.Runtime.MaxSteps != 7 {
		t.Errorf("expected the parent configuration, got %+v", c)
	}
}
