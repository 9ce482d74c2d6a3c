package showroom3d

import "math"

// markerFraction puts the focus line at 35% of the viewport height;
// the chapter whose extent midpoint sits nearest that line is active.
const markerFraction = 0.35

// ViewportProvider is the host's view into scroll state. Extents are
// in the same vertical unit as the viewport height (pixels, usually)
// and may be negative or off-screen; a chapter the host cannot
// measure reports ok=false and is skipped.
type ViewportProvider interface {
	ViewportHeight() float64
	ChapterExtent(chapterID string) (top, bottom float64, ok bool)
}

// FocusChange is one emission from the tracker: a newly active
// chapter together with its focus key.
type FocusChange struct {
	ChapterID string
	FocusKey  string
}

// FocusTracker maps the host's scroll position to the active chapter.
// Check is cheap enough to call on every scroll event or once per
// animation frame; it only reports a change when the winner differs
// from the previous emission.
type FocusTracker struct {
	cfg      *Config
	viewport ViewportProvider
	lastID   string
	lastKey  string
}

func NewFocusTracker(cfg *Config, viewport ViewportProvider) *FocusTracker {
	return &FocusTracker{cfg: cfg, viewport: viewport}
}

// Active returns the chapter currently nearest the marker line,
// without updating the emission state. Chapters earlier in canonical
// order win ties. Returns "" when nothing is measurable.
func (t *FocusTracker) Active() string {
	marker := t.viewport.ViewportHeight() * markerFraction
	best := ""
	bestDist := math.Inf(1)
	for _, ch := range t.cfg.Chapters {
		top, bottom, ok := t.viewport.ChapterExtent(ch.ID)
		if !ok {
			continue
		}
		mid := (top + bottom) / 2
		dist := math.Abs(mid - marker)
		if dist < bestDist {
			bestDist = dist
			best = ch.ID
		}
	}
	return best
}

// Check polls the viewport and reports the new active chapter, if it
// changed since the last emission.
func (t *FocusTracker) Check() (FocusChange, bool) {
	id := t.Active()
	if id == "" {
		return FocusChange{}, false
	}
	key := ""
	if ch := t.cfg.Chapter(id); ch != nil {
		key = ch.Focus
	}
	if id == t.lastID && key == t.lastKey {
		return FocusChange{}, false
	}
	t.lastID = id
	t.lastKey = key
	return FocusChange{ChapterID: id, FocusKey: key}, true
}
