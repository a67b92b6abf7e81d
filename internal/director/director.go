package director

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/slideshow/internal/transition"
)

// Selection modes for expanding a transition set over the clips
const (
	Sequential = "sequential"
	Random     = "random"
)

// Policy decides which transition closes each clip.
type Policy struct {
	Transition string // fixed id, used when Set is empty
	Set        string
	Selection  string // Sequential or Random
	Seed       int64
	// Overrides holds per-clip ids; an empty entry defers to the policy.
	Overrides []string
}

// Director assigns catalog transitions to the clips of a slideshow
type Director struct {
	lib *transition.Library
	log *logrus.Entry
}

// NewDirector creates a Director over lib
func NewDirector(lib *transition.Library) *Director {
	return &Director{
		lib: lib,
		log: logrus.WithField("component", "director"),
	}
}

// Plan returns one transition per clip. Clip i blends slide i into slide
// i+1, so the last clip gets none and the result has clips-1 entries.
func (d *Director) Plan(clips int, p Policy) ([]transition.Transition, error) {
	if clips <= 1 {
		return nil, nil
	}
	n := clips - 1

	next, err := d.source(p)
	if err != nil {
		return nil, err
	}

	out := make([]transition.Transition, n)
	for i := 0; i < n; i++ {
		if i < len(p.Overrides) && p.Overrides[i] != "" {
			t, ok := d.lib.ByID(p.Overrides[i])
			if !ok {
				return nil, fmt.Errorf("slide %d: unknown transition %q", i+1, p.Overrides[i])
			}
			out[i] = t
			continue
		}
		out[i] = next(i)
	}

	d.log.WithFields(logrus.Fields{
		"function":    "Plan",
		"transitions": n,
		"set":         p.Set,
		"selection":   p.Selection,
	}).Debug("Transitions planned")
	return out, nil
}

// source builds the per-clip generator for the policy
func (d *Director) source(p Policy) (func(i int) transition.Transition, error) {
	if p.Set == "" {
		id := p.Transition
		if id == "" {
			return func(int) transition.Transition { return d.lib.Default() }, nil
		}
		t, ok := d.lib.ByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown transition %q", id)
		}
		return func(int) transition.Transition { return t }, nil
	}

	set, ok := d.lib.SetByID(p.Set)
	if !ok {
		return nil, fmt.Errorf("unknown transition set %q", p.Set)
	}
	pool := d.lib.Resolve(set)
	if len(pool) == 0 {
		return nil, fmt.Errorf("transition set %q is empty", p.Set)
	}

	switch p.Selection {
	case Sequential, "":
		return func(i int) transition.Transition { return pool[i%len(pool)] }, nil
	case Random:
		r := rand.New(rand.NewSource(p.Seed))
		prev := -1
		return func(int) transition.Transition {
			k := r.Intn(len(pool))
			// Avoid showing the same transition twice in a row
			if k == prev && len(pool) > 1 {
				k = (k + 1 + r.Intn(len(pool)-1)) % len(pool)
			}
			prev = k
			return pool[k]
		}, nil
	default:
		return nil, fmt.Errorf("unknown selection mode %q", p.Selection)
	}
}

// IDs returns the ids of ts in order
func IDs(ts []transition.Transition) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}
