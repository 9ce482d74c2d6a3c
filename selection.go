package showroom3d

import "fmt"

// Selections tracks the one chosen option per group. Every stored
// value is a value currently present in its group, or "" when the
// group has no options left. The store repairs itself when authoring
// edits remove the group or option it points at.
type Selections struct {
	cfg    *Config
	chosen map[string]string
}

func NewSelections(cfg *Config) *Selections {
	s := &Selections{cfg: cfg, chosen: make(map[string]string)}
	s.Reset()
	return s
}

// Reset picks each group's first option (or "" for an empty group) and
// drops entries for groups that no longer exist.
func (s *Selections) Reset() {
	s.chosen = make(map[string]string)
	for _, ch := range s.cfg.Chapters {
		for _, g := range ch.Groups {
			s.chosen[g.ID] = firstValue(&g)
		}
	}
}

func firstValue(g *Group) string {
	if len(g.Options) == 0 {
		return ""
	}
	return g.Options[0].Value
}

// Set replaces the group's selection. The value must be one of the
// group's current option values.
func (s *Selections) Set(groupID, value string) error {
	g := s.cfg.Group(groupID)
	if g == nil {
		return fmt.Errorf("select: no group %q", groupID)
	}
	for _, o := range g.Options {
		if o.Value == value {
			s.chosen[groupID] = value
			return nil
		}
	}
	return fmt.Errorf("select: group %q has no option %q", groupID, value)
}

// Get returns the group's current selection, healing a stale entry on
// the way out so the contract holds even after external config edits.
func (s *Selections) Get(groupID string) string {
	g := s.cfg.Group(groupID)
	if g == nil {
		delete(s.chosen, groupID)
		return ""
	}
	v, ok := s.chosen[groupID]
	if ok {
		for _, o := range g.Options {
			if o.Value == v {
				return v
			}
		}
	}
	v = firstValue(g)
	s.chosen[groupID] = v
	return v
}

// All returns a copy of the current selections keyed by group id.
func (s *Selections) All() map[string]string {
	out := make(map[string]string, len(s.chosen))
	for _, ch := range s.cfg.Chapters {
		for _, g := range ch.Groups {
			out[g.ID] = s.Get(g.ID)
		}
	}
	return out
}

// GroupRemoved drops the selection entry for a deleted group.
func (s *Selections) GroupRemoved(groupID string) {
	delete(s.chosen, groupID)
}

// OptionRemoved falls back to the group's first remaining option when
// the removed option was the selected one.
func (s *Selections) OptionRemoved(groupID, value string) {
	if s.chosen[groupID] != value {
		return
	}
	g := s.cfg.Group(groupID)
	if g == nil {
		delete(s.chosen, groupID)
		return
	}
	s.chosen[groupID] = firstValue(g)
}
