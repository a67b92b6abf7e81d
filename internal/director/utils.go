package director

import (
	"fmt"
	"path/filepath"
	"time"
)

// DefaultStoryboardDir is where generated storyboards go.
var DefaultStoryboardDir = filepath.Join("input", "storyboards")

// GenerateStoryboardPath creates a timestamped storyboard filename in dir
func GenerateStoryboardPath(dir string) string {
	if dir == "" {
		dir = DefaultStoryboardDir
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("storyboard_%s.yaml", timestamp))
}

// NewStoryboard builds a storyboard for inputs with the given durations and
// planned transitions, ready to be written out and hand-edited.
func NewStoryboard(inputs []string, durations []float64, transitions []string) *Storyboard {
	sb := &Storyboard{Version: StoryboardVersion}
	for i, in := range inputs {
		s := Slide{ID: i + 1, Input: in}
		if i < len(durations) {
			s.Duration = durations[i]
		}
		if i < len(transitions) {
			s.Transition = transitions[i]
		}
		sb.Slides = append(sb.Slides, s)
	}
	return sb
}
