package director

// StoryboardVersion is written into new storyboard files.
const StoryboardVersion = "1.0"

// Storyboard describes a complete slideshow: which slides, how long each
// stays on screen and how it hands over to the next one.
type Storyboard struct {
	Version string `yaml:"version"`
	// Aspect overrides the letterbox target (width/height); 0 keeps the
	// output frame aspect.
	Aspect             float64 `yaml:"aspect,omitempty"`
	TransitionDuration float64 `yaml:"transition_duration,omitempty"` // seconds
	Transition         string  `yaml:"transition,omitempty"`
	TransitionSet      string  `yaml:"transition_set,omitempty"`
	Selection          string  `yaml:"selection,omitempty"`
	Seed               int64   `yaml:"seed,omitempty"`
	Slides             []Slide `yaml:"slides"`
}

// Slide is one still image on the timeline
type Slide struct {
	ID       int     `yaml:"id"`
	Input    string  `yaml:"input"`
	Duration float64 `yaml:"duration,omitempty"` // Total clip duration in seconds
	// Transition into the next slide; empty uses the storyboard policy.
	Transition string `yaml:"transition,omitempty"`
}

// Inputs returns the slide paths in order.
func (s *Storyboard) Inputs() []string {
	out := make([]string, len(s.Slides))
	for i, sl := range s.Slides {
		out[i] = sl.Input
	}
	return out
}

// Durations returns per-slide durations, or nil when any slide leaves its
// duration unset.
func (s *Storyboard) Durations() []float64 {
	out := make([]float64, len(s.Slides))
	for i, sl := range s.Slides {
		if sl.Duration <= 0 {
			return nil
		}
		out[i] = sl.Duration
	}
	return out
}

// Overrides returns the per-slide transition ids, empty where unset.
func (s *Storyboard) Overrides() []string {
	out := make([]string, len(s.Slides))
	for i, sl := range s.Slides {
		out[i] = sl.Transition
	}
	return out
}
