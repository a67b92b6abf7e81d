package engine

import (
	"math"
	"testing"

	"github.com/ivlev/slideshow/internal/config"
	"github.com/ivlev/slideshow/internal/transition"
)

func TestCalculateDurations(t *testing.T) {
	cfg := &config.Config{
		TotalDuration:      100.0, // A
		TransitionDuration: 0.5,   // F
		Seed:               3,
	}
	project := &VideoProject{Config: cfg}

	pageCount := 10 // N
	project.calculateDurations(pageCount)

	durations := cfg.PageDurations
	if len(durations) != pageCount {
		t.Errorf("Expected %d durations, got %d", pageCount, len(durations))
	}

	// 1. Check total duration: clips are back to back, so sum(D_i) == A
	sum := 0.0
	for _, d := range durations {
		sum += d
	}

	expectedSum := cfg.TotalDuration
	if math.Abs(sum-expectedSum) > 0.0001 {
		t.Errorf("Expected sum %f, got %f (diff %f)", expectedSum, sum, math.Abs(sum-expectedSum))
	}

	// 2. Check first clip variation (scaling keeps ratios, so compare ratios)
	for i := 1; i < pageCount; i++ {
		variation := (durations[i] / durations[i-1]) - 1.0
		if math.Abs(variation) > 0.1501 {
			t.Errorf("Clip %d variation too high: %f (prev: %f, curr: %f)", i, variation, durations[i-1], durations[i])
		}
	}
}

func TestCalculateDurationsSeeded(t *testing.T) {
	a := &VideoProject{Config: &config.Config{TotalDuration: 20, TransitionDuration: 0.5, Seed: 11}}
	b := &VideoProject{Config: &config.Config{TotalDuration: 20, TransitionDuration: 0.5, Seed: 11}}
	a.calculateDurations(5)
	b.calculateDurations(5)

	for i := range a.Config.PageDurations {
		if a.Config.PageDurations[i] != b.Config.PageDurations[i] {
			t.Fatalf("Same seed should give the same durations: %v vs %v", a.Config.PageDurations, b.Config.PageDurations)
		}
	}
}

func TestPrepareTimelineUniform(t *testing.T) {
	cfg := &config.Config{FPS: 30, PageDuration: 4, TransitionDuration: 1, Transition: "wipe_left"}
	project := NewVideoProject(cfg, nil, nil, nil, transition.New())

	plan, err := project.PrepareTimeline(3)
	if err != nil {
		t.Fatalf("PrepareTimeline failed: %v", err)
	}
	if len(plan) != 2 || plan[0].ID != "wipe_left" {
		t.Errorf("Unexpected plan %v", plan)
	}
	if cfg.TotalDuration != 12 {
		t.Errorf("Expected total 12s, got %f", cfg.TotalDuration)
	}
}

func TestPrepareTimelineShrinksTransition(t *testing.T) {
	cfg := &config.Config{FPS: 10, PageDurations: []float64{2, 0.6}, TransitionDuration: 1}
	project := NewVideoProject(cfg, nil, nil, nil, transition.New())

	if _, err := project.PrepareTimeline(2); err != nil {
		t.Fatalf("PrepareTimeline failed: %v", err)
	}
	if math.Abs(cfg.TransitionDuration-0.3) > 1e-9 {
		t.Errorf("Expected transition shrunk to 0.3s, got %f", cfg.TransitionDuration)
	}
}

func TestPrepareTimelineFrameAligns(t *testing.T) {
	cfg := &config.Config{FPS: 10, PageDurations: []float64{1.04, 0.01}, TransitionDuration: 0}
	project := NewVideoProject(cfg, nil, nil, nil, transition.New())

	if _, err := project.PrepareTimeline(2); err != nil {
		t.Fatalf("PrepareTimeline failed: %v", err)
	}
	if cfg.PageDurations[0] != 1.0 || cfg.PageDurations[1] != 0.1 {
		t.Errorf("Expected [1 0.1], got %v", cfg.PageDurations)
	}
}

func TestPrepareTimelineErrors(t *testing.T) {
	lib := transition.New()
	cases := []*config.Config{
		{FPS: 10, PageDurations: []float64{1, 2, 3}},
		{FPS: 10, PageDuration: 1, Transition: "unknown"},
		{FPS: 10, PageDuration: 0},
	}
	for i, cfg := range cases {
		if _, err := NewVideoProject(cfg, nil, nil, nil, lib).PrepareTimeline(2); err == nil {
			t.Errorf("Case %d: expected error", i)
		}
	}
	if _, err := NewVideoProject(&config.Config{FPS: 10}, nil, nil, nil, lib).PrepareTimeline(0); err == nil {
		t.Error("Expected error for empty source")
	}
}
