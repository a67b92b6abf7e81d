package main

import (
	"testing"

	"github.com/ivlev/slideshow/internal/config"
	"github.com/ivlev/slideshow/internal/transition"
)

func TestRunValidateReturnsExitCode(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 16, 16
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if code := run(cfg, transition.New(), nil, true, ""); code != 0 {
		t.Errorf("Expected exit code 0 for -validate on the soft backend, got %d", code)
	}

	cfg.Backend = "vulkan"
	if code := run(cfg, transition.New(), nil, true, ""); code != 1 {
		t.Errorf("Expected exit code 1 for an unknown backend, got %d", code)
	}
}
