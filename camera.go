package showroom3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spherical is a camera offset around a look-at point: distance plus
// polar (down from +Y) and azimuth (around Y, from +Z) angles.
type Spherical struct {
	Radius  float64
	Polar   float64
	Azimuth float64
}

// Cartesian converts the spherical offset to a vector; add it to the
// look-at point to get the camera position.
func (s Spherical) Cartesian() mgl64.Vec3 {
	sinPolar := math.Sin(s.Polar)
	return mgl64.Vec3{
		s.Radius * sinPolar * math.Sin(s.Azimuth),
		s.Radius * math.Cos(s.Polar),
		s.Radius * sinPolar * math.Cos(s.Azimuth),
	}
}

// SphericalFrom converts a camera offset vector back to spherical
// form. A zero offset maps to a zero Spherical.
func SphericalFrom(offset mgl64.Vec3) Spherical {
	r := offset.Len()
	if r == 0 {
		return Spherical{}
	}
	cos := offset.Y() / r
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return Spherical{
		Radius:  r,
		Polar:   math.Acos(cos),
		Azimuth: math.Atan2(offset.X(), offset.Z()),
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func (s Spherical) lerpTo(end Spherical, t float64) Spherical {
	return Spherical{
		Radius:  lerp(s.Radius, end.Radius, t),
		Polar:   lerp(s.Polar, end.Polar, t),
		Azimuth: lerp(s.Azimuth, end.Azimuth, t),
	}
}

// CameraMode tells who drives the camera right now.
type CameraMode int

const (
	// ModeScripted: the rig tweens toward the active focus target.
	ModeScripted CameraMode = iota
	// ModeOrbit: the user drives; the rig only records the pose.
	ModeOrbit
)

const (
	transitionDuration = 1.2
	// Per-frame look-at blend. Deliberately not scaled by elapsed
	// time; normalizing it would change the perceived easing.
	lookAtBlend = 0.08
)

// Transition is one in-flight scripted move between spherical poses.
type Transition struct {
	Start    Spherical
	End      Spherical
	Duration float64
	Progress float64
	Active   bool
}

// ManualPose is the camera pose captured while the user orbits.
type ManualPose struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// CameraRig runs the scripted-vs-orbit camera state machine. In
// scripted mode the spherical pose tweens toward the active focus
// target with a cubic-out ease while the look-at point is pulled
// toward the target look-at by a fixed per-frame blend. Orbit mode
// freezes the tween and hands the pose to the user until reset.
//
// The rig writes back into the scene's focus target table when the
// user keeps a manually tuned view, which is how a tuned camera
// becomes the chapter's new default.
type CameraRig struct {
	scene    *Scene
	keyOrder []string // focus keys in chapter order, for fallback
	mode     CameraMode
	sph      Spherical
	lookAt   mgl64.Vec3
	lookGoal mgl64.Vec3
	trans    Transition
	focusKey string
	lastKey  string
	resetTok int
	lastTok  int
	manual   *ManualPose
	preOrbit *ManualPose
}

// NewCameraRig starts a rig in scripted mode snapped onto the default
// chapter's focus target (no opening tween).
func NewCameraRig(cfg *Config, defaultKey string) *CameraRig {
	r := &CameraRig{
		scene:    &cfg.Scene,
		keyOrder: focusKeyOrder(cfg),
		mode:     ModeScripted,
	}
	key, t := r.resolveTarget(defaultKey)
	r.focusKey = key
	r.lastKey = key
	r.sph = Spherical{Radius: t.Radius, Polar: t.Polar, Azimuth: t.Azimuth}
	r.lookAt = t.LookAt
	r.lookGoal = t.LookAt
	return r
}

func focusKeyOrder(cfg *Config) []string {
	var keys []string
	seen := map[string]bool{}
	for _, ch := range cfg.Chapters {
		if ch.Focus != "" && !seen[ch.Focus] {
			keys = append(keys, ch.Focus)
			seen[ch.Focus] = true
		}
	}
	return keys
}

// resolveTarget maps a focus key to its target. A key with no target
// is a configuration error; rather than fail the pose computation the
// rig falls back to the first chapter-ordered key that has one, and
// as a last resort to a fixed overview pose.
func (r *CameraRig) resolveTarget(key string) (string, FocusTarget) {
	if t, ok := r.scene.FocusTargets[key]; ok {
		return key, t
	}
	for _, k := range r.keyOrder {
		if t, ok := r.scene.FocusTargets[k]; ok {
			return k, t
		}
	}
	return key, FocusTarget{Radius: 10, Polar: degToRad(60)}
}

func (r *CameraRig) Mode() CameraMode { return r.mode }

// FocusKey is the key the rig is currently targeting.
func (r *CameraRig) FocusKey() string { return r.focusKey }

// InTransition reports whether a scripted tween is still running.
func (r *CameraRig) InTransition() bool { return r.trans.Active }

// FocusChanged retargets the rig while scripted. A new tween starts
// only when the key (or the reset token) actually changed since the
// last one; repeat events for the current key are ignored.
func (r *CameraRig) FocusChanged(key string) {
	if r.mode != ModeScripted {
		return
	}
	if key == r.lastKey && r.resetTok == r.lastTok {
		return
	}
	r.retarget(key)
}

// Reset replays the tween for the current key.
func (r *CameraRig) Reset() {
	if r.mode != ModeScripted {
		return
	}
	r.resetTok++
	r.retarget(r.focusKey)
}

// retarget starts a fresh transition from the live pose. An in-flight
// tween is superseded, not queued: its current pose becomes the new
// start and the old end is forgotten.
func (r *CameraRig) retarget(key string) {
	key, t := r.resolveTarget(key)
	r.focusKey = key
	r.lastKey = key
	r.lastTok = r.resetTok
	r.trans = Transition{
		Start:    r.sph,
		End:      Spherical{Radius: t.Radius, Polar: t.Polar, Azimuth: t.Azimuth},
		Duration: transitionDuration,
		Active:   true,
	}
	r.lookGoal = t.LookAt
}

// EnterOrbit hands the camera to the user. The captured snapshot (the
// live manual pose if one exists, otherwise the current scripted
// pose) doubles as the pre-orbit reference that ResetFromOrbit
// restores.
func (r *CameraRig) EnterOrbit() {
	if r.mode == ModeOrbit {
		return
	}
	if r.manual == nil {
		pos, target := r.Pose()
		r.manual = &ManualPose{Position: pos, Target: target}
	}
	snap := *r.manual
	r.preOrbit = &snap
	r.trans.Active = false
	r.mode = ModeOrbit
}

// OrbitMoved records the user-driven pose. No state change.
func (r *CameraRig) OrbitMoved(position, target mgl64.Vec3) {
	if r.mode != ModeOrbit {
		return
	}
	r.manual = &ManualPose{Position: position, Target: target}
}

// Manual returns a copy of the last user-driven pose, if any.
func (r *CameraRig) Manual() *ManualPose {
	if r.manual == nil {
		return nil
	}
	snap := *r.manual
	return &snap
}

// ResetFromOrbit leaves orbit mode, restores the pre-orbit pose and
// tweens back onto the active focus target. Bumping the reset token
// forces a fresh tween even though the focus key did not change.
func (r *CameraRig) ResetFromOrbit() {
	snap := r.preOrbit
	if snap == nil {
		_, t := r.resolveTarget(r.focusKey)
		off := Spherical{Radius: t.Radius, Polar: t.Polar, Azimuth: t.Azimuth}.Cartesian()
		snap = &ManualPose{Position: t.LookAt.Add(off), Target: t.LookAt}
	}
	r.sph = SphericalFrom(snap.Position.Sub(snap.Target))
	r.lookAt = snap.Target
	r.mode = ModeScripted
	r.manual = nil
	r.preOrbit = nil
	r.resetTok++
	r.retarget(r.focusKey)
}

// KeepCurrentView persists the user's manual pose as the new focus
// target for the active key, then returns to scripted mode aimed at
// that (now identical) pose. Without a manual pose there is nothing
// to keep and the call is a no-op.
func (r *CameraRig) KeepCurrentView() {
	if r.manual == nil {
		return
	}
	snap := *r.manual
	sph := SphericalFrom(snap.Position.Sub(snap.Target))
	r.scene.FocusTargets[r.focusKey] = FocusTarget{
		Radius:  sph.Radius,
		Polar:   sph.Polar,
		Azimuth: sph.Azimuth,
		LookAt:  snap.Target,
	}
	r.sph = sph
	r.lookAt = snap.Target
	r.mode = ModeScripted
	r.manual = nil
	r.preOrbit = nil
	r.resetTok++
	r.retarget(r.focusKey)
}

// Advance steps the scripted animation; the host calls it once per
// displayed frame. The look-at blend runs every frame whether or not
// a tween is active, so the look-at keeps converging after the
// spherical pose has settled.
func (r *CameraRig) Advance(dt float64) {
	if r.mode != ModeScripted {
		return
	}
	if r.trans.Active {
		r.trans.Progress += dt / r.trans.Duration
		if r.trans.Progress >= 1 {
			r.trans.Progress = 1
			r.trans.Active = false
		}
		eased := easeOutCubic(r.trans.Progress)
		r.sph = r.trans.Start.lerpTo(r.trans.End, eased)
	}
	r.lookAt = r.lookAt.Add(r.lookGoal.Sub(r.lookAt).Mul(lookAtBlend))
}

func easeOutCubic(t float64) float64 {
	inv := 1 - t
	return 1 - inv*inv*inv
}

// Pose is the camera position and look-at point to apply to the scene
// camera this frame.
func (r *CameraRig) Pose() (position, lookAt mgl64.Vec3) {
	if r.mode == ModeOrbit && r.manual != nil {
		return r.manual.Position, r.manual.Target
	}
	return r.lookAt.Add(r.sph.Cartesian()), r.lookAt
}
