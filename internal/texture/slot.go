package texture

import "github.com/ivlev/slideshow/internal/gpu"

// Slot is an optionally owned texture with a fallback. Resolve prefers the
// owned texture, then the upstream one, then nothing.
type Slot struct {
	owned *Texture
}

// Set replaces the owned texture, releasing the previous one.
func (s *Slot) Set(t *Texture) {
	if s.owned != nil && s.owned != t {
		s.owned.Release()
	}
	s.owned = t
}

// Owned returns the owned texture, or nil.
func (s *Slot) Owned() *Texture { return s.owned }

// Resolve returns the texture to sample and whether one is available.
func (s *Slot) Resolve(upstream gpu.TextureID) (gpu.TextureID, bool) {
	switch {
	case s.owned != nil:
		return s.owned.ID(), true
	case upstream != gpu.NoTexture:
		return upstream, true
	default:
		return gpu.NoTexture, false
	}
}

// Release drops the owned texture.
func (s *Slot) Release() {
	s.owned.Release()
	s.owned = nil
}
