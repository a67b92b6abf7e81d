package director

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteStoryboard writes a storyboard to a YAML file, creating the
// directory if needed
func WriteStoryboard(sb *Storyboard, path string) error {
	data, err := yaml.Marshal(sb)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadStoryboard reads a storyboard from a YAML file. Relative slide inputs
// are resolved against the storyboard's directory.
func ReadStoryboard(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sb Storyboard
	if err := yaml.Unmarshal(data, &sb); err != nil {
		return nil, fmt.Errorf("storyboard %s: %w", path, err)
	}
	if len(sb.Slides) == 0 {
		return nil, fmt.Errorf("storyboard %s: no slides", path)
	}

	base := filepath.Dir(path)
	for i := range sb.Slides {
		in := sb.Slides[i].Input
		if in == "" {
			return nil, fmt.Errorf("storyboard %s: slide %d has no input", path, i+1)
		}
		if sb.Slides[i].Duration < 0 {
			return nil, fmt.Errorf("storyboard %s: slide %d has negative duration", path, i+1)
		}
		if !filepath.IsAbs(in) {
			sb.Slides[i].Input = filepath.Join(base, in)
		}
	}
	return &sb, nil
}
