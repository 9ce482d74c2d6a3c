package showroom3d

// HiddenMeshes resolves the set of mesh names the renderer should turn
// off. Everything is visible by default; a mesh goes into the set when
// the active chapter's own visibility map marks it false, or when any
// currently selected option anywhere marks it false. The result is a
// plain union: there is no "show" directive that can pull a mesh back
// out, so unrelated chapters' hide rules keep applying while their
// option stays selected.
func (c *Config) HiddenMeshes(sel *Selections, activeChapterID string) map[string]bool {
	hidden := make(map[string]bool)

	if ch := c.Chapter(activeChapterID); ch != nil {
		addHidden(hidden, ch.Visibility)
	}

	for _, ch := range c.Chapters {
		for _, g := range ch.Groups {
			chosen := sel.Get(g.ID)
			if chosen == "" {
				continue
			}
			for _, o := range g.Options {
				if o.Value == chosen {
					addHidden(hidden, o.Visibility)
					break
				}
			}
		}
	}

	return hidden
}

func addHidden(hidden map[string]bool, vis map[string]bool) {
	for mesh, visible := range vis {
		if !visible {
			hidden[mesh] = true
		}
	}
}
