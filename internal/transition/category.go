package transition

import (
	"fmt"
	"strings"
)

// Category groups transitions by visual family.
type Category int

const (
	Fade Category = iota
	Slide
	Wipe
	Zoom
	Rotate
	Blur
	Geometric
	Creative
	Cinematic
	ThreeD
)

var categoryNames = [...]string{
	Fade:      "fade",
	Slide:     "slide",
	Wipe:      "wipe",
	Zoom:      "zoom",
	Rotate:    "rotate",
	Blur:      "blur",
	Geometric: "geometric",
	Creative:  "creative",
	Cinematic: "cinematic",
	ThreeD:    "3d",
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= Fade && int(c) < len(categoryNames)
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory is the inverse of String.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transition category: %s", s)
}
