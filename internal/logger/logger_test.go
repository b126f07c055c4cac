package logger

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		level    string
		verbose  bool
		expected log.Level
	}{
		{"", false, log.WarnLevel},
		{"info", false, log.InfoLevel},
		{"error", false, log.ErrorLevel},
		{"error", true, log.DebugLevel},
	}

	for _, tt := range tests {
		if err := Init(tt.level, tt.verbose, true); err != nil {
			t.Fatalf("Init(%q): %v", tt.level, err)
		}
		if got := log.GetLevel(); got != tt.expected {
			t.Errorf("Init(%q, %v): expected %s, got %s", tt.level, tt.verbose, tt.expected, got)
		}
	}

	if err := Init("loud", false, true); err == nil {
		t.Errorf("expected an unknown level to fail")
	}
}
