package transition

// Set is a named, ordered group of transitions that can be applied across a
// whole slideshow.
type Set struct {
	ID          string
	Name        string
	Description string
	Transitions []string
	Premium     bool
}

func defaultSets() []Set {
	return []Set{
		{
			ID:          "essentials",
			Name:        "Essentials",
			Description: "One of each basic family, safe for any content.",
			Transitions: []string{"fade", "slide_left", "wipe_right", "zoom_in", "circle_open"},
		},
		{
			ID:          "smooth",
			Name:        "Smooth",
			Description: "Soft blends for calm, photo-heavy shows.",
			Transitions: []string{"fade", "fade_color", "blur", "zoom_out", "dissolve"},
		},
		{
			ID:          "dynamic",
			Name:        "Dynamic",
			Description: "Directional movement for fast-paced shows.",
			Transitions: []string{"slide_left", "slide_up", "wipe_left", "wipe_down", "rotate", "directional_blur"},
		},
		{
			ID:          "playful",
			Name:        "Playful",
			Description: "Shapes and distortions for casual occasions.",
			Transitions: []string{"heart", "star", "ripple", "swirl", "pixelize"},
			Premium:     true,
		},
		{
			ID:          "cinematic",
			Name:        "Cinematic",
			Description: "Film and page effects with depth.",
			Transitions: []string{"film_burn", "doorway", "page_curl", "cube", "page_flip"},
			Premium:     true,
		},
	}
}

// Sets returns the predefined transition sets.
func (l *Library) Sets() []Set {
	out := make([]Set, len(l.sets))
	copy(out, l.sets)
	return out
}

// SetByID looks a set up.
func (l *Library) SetByID(id string) (Set, bool) {
	for _, s := range l.sets {
		if s.ID == id {
			return s, true
		}
	}
	return Set{}, false
}

// Resolve returns the transitions of s in order.
func (l *Library) Resolve(s Set) []Transition {
	out := make([]Transition, 0, len(s.Transitions))
	for _, id := range s.Transitions {
		if t, ok := l.ByID(id); ok {
			out = append(out, t)
		}
	}
	return out
}
