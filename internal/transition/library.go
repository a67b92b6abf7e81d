package transition

import (
	"fmt"
	"sort"
)

// DefaultID is the transition used when nothing else is configured.
const DefaultID = "fade"

// Library is the read-only transition catalog. Entries keep registration
// order, grouped by category.
type Library struct {
	entries []Transition
	byID    map[string]int
	sets    []Set
}

// New builds the full catalog. It panics on a malformed entry, since
// the catalog is fixed at build time.
func New() *Library {
	var all []Transition
	for _, family := range [][]Transition{
		fadeTransitions(),
		slideTransitions(),
		wipeTransitions(),
		zoomTransitions(),
		rotateTransitions(),
		blurTransitions(),
		geometricTransitions(),
		creativeTransitions(),
		cinematicTransitions(),
		threeDTransitions(),
	} {
		all = append(all, family...)
	}
	lib, err := newLibrary(all, defaultSets())
	if err != nil {
		panic(err)
	}
	return lib
}

func newLibrary(entries []Transition, sets []Set) (*Library, error) {
	lib := &Library{
		entries: entries,
		byID:    make(map[string]int, len(entries)),
	}
	for i, t := range entries {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := lib.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate transition id %q", t.ID)
		}
		lib.byID[t.ID] = i
	}
	for _, s := range sets {
		for _, id := range s.Transitions {
			if _, ok := lib.byID[id]; !ok {
				return nil, fmt.Errorf("transition set %q references unknown transition %q", s.ID, id)
			}
		}
	}
	lib.sets = sets
	return lib, nil
}

// All returns every transition in catalog order.
func (l *Library) All() []Transition {
	out := make([]Transition, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the catalog size.
func (l *Library) Len() int { return len(l.entries) }

// ByID looks a transition up.
func (l *Library) ByID(id string) (Transition, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Transition{}, false
	}
	return l.entries[i], true
}

// ByCategory returns the transitions in c, in catalog order.
func (l *Library) ByCategory(c Category) []Transition {
	return l.filter(func(t Transition) bool { return t.Category == c })
}

// Free returns the transitions not marked premium.
func (l *Library) Free() []Transition {
	return l.filter(func(t Transition) bool { return !t.Premium })
}

// Premium returns the premium transitions.
func (l *Library) Premium() []Transition {
	return l.filter(func(t Transition) bool { return t.Premium })
}

// Default returns the plain crossfade.
func (l *Library) Default() Transition {
	t, _ := l.ByID(DefaultID)
	return t
}

// Group is one category with its transitions.
type Group struct {
	Category    Category
	Transitions []Transition
}

// GroupedByCategory returns one group per non-empty category, in category
// order.
func (l *Library) GroupedByCategory() []Group {
	var groups []Group
	for _, c := range Categories() {
		if ts := l.ByCategory(c); len(ts) > 0 {
			groups = append(groups, Group{Category: c, Transitions: ts})
		}
	}
	return groups
}

// IDs returns all transition ids sorted alphabetically.
func (l *Library) IDs() []string {
	ids := make([]string, 0, len(l.entries))
	for _, t := range l.entries {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}

func (l *Library) filter(keep func(Transition) bool) []Transition {
	var out []Transition
	for _, t := range l.entries {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the categories that have at least one transition.
func (l *Library) Categories() []Category {
	var out []Category
	for _, g := range l.GroupedByCategory() {
		out = append(out, g.Category)
	}
	return out
}
