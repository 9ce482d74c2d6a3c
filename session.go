package showroom3d

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

// Session is the one runtime instance of the configurator: it owns
// the selection store, the active chapter and the camera rig, and is
// the only writer of any of them. The rendering host reads derived
// state (pose, hidden meshes, prices) and feeds events in (frame
// ticks, orbit input, scroll changes).
type Session struct {
	cfg     *Config
	sel     *Selections
	rig     *CameraRig
	tracker *FocusTracker
	active  string
}

// NewSession builds a session over the configuration. The viewport
// provider may be nil for hosts without scroll (tests, the demo
// viewer), in which case only SetActiveChapter drives focus.
func NewSession(cfg *Config, viewport ViewportProvider) *Session {
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			log.Printf("config: %v", p)
		}
	}
	cfg.EnsureBasePrices()

	s := &Session{
		cfg: cfg,
		sel: NewSelections(cfg),
	}
	if len(cfg.Chapters) > 0 {
		s.active = cfg.Chapters[0].ID
		s.rig = NewCameraRig(cfg, cfg.Chapters[0].Focus)
	} else {
		s.rig = NewCameraRig(cfg, "")
	}
	if viewport != nil {
		s.tracker = NewFocusTracker(cfg, viewport)
	}
	return s
}

func (s *Session) Config() *Config         { return s.cfg }
func (s *Session) Selections() *Selections { return s.sel }
func (s *Session) Camera() *CameraRig      { return s.rig }
func (s *Session) ActiveChapter() string   { return s.active }

// Select picks an option in a group.
func (s *Session) Select(groupID, value string) error {
	return s.sel.Set(groupID, value)
}

// Selected returns the group's current option value.
func (s *Session) Selected(groupID string) string { return s.sel.Get(groupID) }

// OptionPrice is the option's resolved price against the current
// selections.
func (s *Session) OptionPrice(value string) float64 {
	return s.cfg.ResolvePrice(value, s.sel)
}

// OptionDelta is the option's price above its group's cheapest choice.
func (s *Session) OptionDelta(groupID, value string) float64 {
	return s.cfg.PriceDelta(groupID, value, s.sel)
}

// Total is the grand total over every selected option.
func (s *Session) Total() float64 { return s.cfg.TotalPrice(s.sel) }

// HiddenMeshes is the set of mesh names the host should turn off for
// the current selections and active chapter.
func (s *Session) HiddenMeshes() map[string]bool {
	return s.cfg.HiddenMeshes(s.sel, s.active)
}

// SyncFocus polls the viewport tracker and routes any active-chapter
// change into the camera rig. Call it from the host's scroll handler
// or once per frame.
func (s *Session) SyncFocus() {
	if s.tracker == nil {
		return
	}
	change, ok := s.tracker.Check()
	if !ok {
		return
	}
	s.active = change.ChapterID
	s.rig.FocusChanged(change.FocusKey)
}

// SetActiveChapter activates a chapter directly, for hosts that step
// chapters without a scroll surface.
func (s *Session) SetActiveChapter(chapterID string) error {
	ch := s.cfg.Chapter(chapterID)
	if ch == nil {
		return fmt.Errorf("activate: no chapter %q", chapterID)
	}
	s.active = ch.ID
	s.rig.FocusChanged(ch.Focus)
	return nil
}

// Advance steps the camera animation by dt seconds; the host calls it
// once per rendered frame.
func (s *Session) Advance(dt float64) { s.rig.Advance(dt) }

// CameraPose is the (position, look-at) pair to apply to the scene
// camera this frame.
func (s *Session) CameraPose() (position, lookAt mgl64.Vec3) { return s.rig.Pose() }

func (s *Session) EnterOrbit() { s.rig.EnterOrbit() }

func (s *Session) OrbitMoved(position, target mgl64.Vec3) {
	s.rig.OrbitMoved(position, target)
}

func (s *Session) ResetFromOrbit() { s.rig.ResetFromOrbit() }

func (s *Session) KeepCurrentView() { s.rig.KeepCurrentView() }

// ResetView replays the scripted move for the active chapter.
func (s *Session) ResetView() { s.rig.Reset() }

// RemoveGroup deletes a group from the configuration and repairs the
// selection store.
func (s *Session) RemoveGroup(groupID string) bool {
	if !s.cfg.RemoveGroup(groupID) {
		return false
	}
	s.sel.GroupRemoved(groupID)
	return true
}

// RemoveOption deletes an option and repairs the selection store; a
// selection pointing at the removed option falls back to the group's
// first remaining option.
func (s *Session) RemoveOption(groupID, value string) bool {
	if !s.cfg.RemoveOption(groupID, value) {
		return false
	}
	s.sel.OptionRemoved(groupID, value)
	return true
}
