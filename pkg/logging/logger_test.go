package logging

import "testing"

func TestNew_LevelFallback(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		logger := New(level)
		if logger == nil || logger.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", level)
		}
	}
}

func TestComponent(t *testing.T) {
	logger := Default().Component("ledger")
	if logger == nil || logger.Logger == nil {
		t.Fatal("Component returned nil logger")
	}
}
