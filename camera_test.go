package showroom3d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSphericalRoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		offset mgl64.Vec3
	}{
		{"axis aligned", mgl64.Vec3{0, 0, 5}},
		{"above", mgl64.Vec3{0, 3, 0.001}},
		{"general", mgl64.Vec3{2, 4, -3}},
		{"behind", mgl64.Vec3{-1, 0.5, -6}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := SphericalFrom(tc.offset)
			back := s.Cartesian()
			if !vecAlmostEqual(back, tc.offset) {
				t.Errorf("round trip %v -> %+v -> %v", tc.offset, s, back)
			}
		})
	}

	if s := SphericalFrom(mgl64.Vec3{}); s != (Spherical{}) {
		t.Errorf("zero offset = %+v, want zero Spherical", s)
	}
}

func TestRigStartsSnappedOnDefaultTarget(t *testing.T) {
	cfg := testConfig()
	rig := NewCameraRig(cfg, "overview")

	if rig.Mode() != ModeScripted {
		t.Fatal("rig should start scripted")
	}
	if rig.InTransition() {
		t.Error("no opening tween expected")
	}
	want := cfg.Scene.FocusTargets["overview"]
	pos, lookAt := rig.Pose()
	wantPos := want.LookAt.Add(Spherical{want.Radius, want.Polar, want.Azimuth}.Cartesian())
	if !vecAlmostEqual(pos, wantPos) || !vecAlmostEqual(lookAt, want.LookAt) {
		t.Errorf("pose = %v/%v, want %v/%v", pos, lookAt, wantPos, want.LookAt)
	}
}

func TestRigTweenEasing(t *testing.T) {
	cfg := testConfig()
	rig := NewCameraRig(cfg, "overview")
	start := rig.sph
	end := cfg.Scene.FocusTargets["wheels"]

	rig.FocusChanged("wheels")
	if !rig.InTransition() {
		t.Fatal("transition should be active")
	}

	// half the duration: progress 0.5, cubic-out eases to 0.875
	rig.Advance(transitionDuration / 2)
	eased := 0.875
	if !almostEqual(rig.sph.Radius, lerp(start.Radius, end.Radius, eased)) {
		t.Errorf("radius = %v, want %v", rig.sph.Radius, lerp(start.Radius, end.Radius, eased))
	}
	if !almostEqual(rig.sph.Polar, lerp(start.Polar, end.Polar, eased)) {
		t.Errorf("polar = %v", rig.sph.Polar)
	}
	if !almostEqual(rig.sph.Azimuth, lerp(start.Azimuth, end.Azimuth, eased)) {
		t.Errorf("azimuth = %v", rig.sph.Azimuth)
	}

	// overshoot the rest; progress clamps at 1
	rig.Advance(10)
	if rig.InTransition() {
		t.Error("transition should have finished")
	}
	if !almostEqual(rig.sph.Radius, end.Radius) || !almostEqual(rig.sph.Polar, end.Polar) || !almostEqual(rig.sph.Azimuth, end.Azimuth) {
		t.Errorf("final pose %+v, want target %+v", rig.sph, end)
	}

	// further frames leave the spherical pose alone
	settled := rig.sph
	for i := 0; i < 10; i++ {
		rig.Advance(1.0 / 60)
	}
	if rig.sph != settled {
		t.Errorf("pose drifted after completion: %+v -> %+v", settled, rig.sph)
	}
}

func TestRigLookAtBlend(t *testing.T) {
	cfg := testConfig()
	rig := NewCameraRig(cfg, "overview")
	rig.FocusChanged("rear")
	goal := cfg.Scene.FocusTargets["rear"].LookAt

	prev := rig.lookAt
	rig.Advance(1.0 / 60)
	want := prev.Add(goal.Sub(prev).Mul(lookAtBlend))
	if !vecAlmostEqual(rig.lookAt, want) {
		t.Errorf("lookAt after one frame = %v, want %v", rig.lookAt, want)
	}

	// the blend is per-frame, not per-second: a frame twice as long
	// moves the look-at by exactly the same fraction
	rig2 := NewCameraRig(testConfig(), "overview")
	rig2.FocusChanged("rear")
	rig2.Advance(2.0 / 60)
	if !vecAlmostEqual(rig2.lookAt, want) {
		t.Errorf("lookAt blend should ignore dt: %v vs %v", rig2.lookAt, want)
	}

	// it keeps converging after the tween is done
	rig.Advance(10)
	for i := 0; i < 500; i++ {
		rig.Advance(1.0 / 60)
	}
	if rig.lookAt.Sub(goal).Len() > 1e-6 {
		t.Errorf("lookAt did not converge: %v vs %v", rig.lookAt, goal)
	}
}

func TestRigSecondRetargetSupersedes(t *testing.T) {
	cfg := testConfig()
	rig := NewCameraRig(cfg, "overview")

	rig.FocusChanged("wheels")
	rig.FocusChanged("rear") // same tick, before any Advance
	rig.Advance(10)

	end := cfg.Scene.FocusTargets["rear"]
	if !almostEqual(rig.sph.Radius, end.Radius) || !almostEqual(rig.sph.Azimuth, end.Azimuth) {
		t.Errorf("pose %+v, want rear target", rig.sph)
	}

	// retarget mid-flight restarts from the live pose
	rig.FocusChanged("overview")
	rig.Advance(transitionDuration / 4)
	mid := rig.sph
	rig.FocusChanged("wheels")
	if rig.trans.Start != mid {
		t.Errorf("superseding transition should start from live pose %+v, got %+v", mid, rig.trans.Start)
	}
}

func TestRigIgnoresRepeatFocusKey(t *testing.T) {
	cfg := testConfig()
	rig := NewCameraRig(cfg, "overview")

	rig.FocusChanged("overview")
	if rig.InTransition() {
		t.Error("repeat of current key should not start a tween")
	}

	rig.FocusChanged("wheels")
	rig.Advance(10)
	rig.FocusChanged("wheels")
	if rig.InTransition() {
		t.Error("repeat after completion should not start a tween")
	}

	// Reset bumps the token, so the same key tweens again
	rig.Reset()
	if !rig.InTransition() {
		t.Error("reset should force a fresh tween on an unchanged key")
	}
}

func TestRigOrbitLifecycle(t *testing.T) {
	cfg := testConfig()
	rig := NewCameraRig(cfg, "overview")
	scriptedPos, scriptedLook := rig.Pose()

	rig.EnterOrbit()
	if rig.Mode() != ModeOrbit {
		t.Fatal("should be in orbit mode")
	}
	if m := rig.Manual(); m == nil || !vecAlmostEqual(m.Position, scriptedPos) || !vecAlmostEqual(m.Target, scriptedLook) {
		t.Errorf("orbit snapshot should come from the scripted pose, got %+v", m)
	}

	// focus changes are ignored while the user drives
	rig.FocusChanged("rear")
	if rig.InTransition() {
		t.Error("focus change must not start a tween in orbit mode")
	}

	moved := mgl64.Vec3{8, 6, 1}
	target := mgl64.Vec3{1, 0.5, 0}
	rig.OrbitMoved(moved, target)
	pos, look := rig.Pose()
	if !vecAlmostEqual(pos, moved) || !vecAlmostEqual(look, target) {
		t.Errorf("pose should follow the manual pose, got %v/%v", pos, look)
	}

	rig.ResetFromOrbit()
	if rig.Mode() != ModeScripted {
		t.Fatal("should be scripted after reset")
	}
	if !rig.InTransition() {
		t.Error("reset from orbit should start a tween despite unchanged key")
	}
	// the tween starts from the restored pre-orbit pose, not the
	// moved one
	preSph := SphericalFrom(scriptedPos.Sub(scriptedLook))
	if !almostEqual(rig.trans.Start.Radius, preSph.Radius) {
		t.Errorf("tween starts at radius %v, want pre-orbit %v", rig.trans.Start.Radius, preSph.Radius)
	}

	rig.Advance(10)
	want := cfg.Scene.FocusTargets["overview"]
	if !almostEqual(rig.sph.Radius, want.Radius) {
		t.Errorf("settled radius %v, want %v", rig.sph.Radius, want.Radius)
	}
}

func TestRigKeepCurrentViewRoundTrip(t *testing.T) {
	cfg := testConfig()
	rig := NewCameraRig(cfg, "overview")

	rig.EnterOrbit()
	pos := mgl64.Vec3{6, 4, 2}
	target := mgl64.Vec3{1, 0, 0}
	rig.OrbitMoved(pos, target)
	rig.KeepCurrentView()

	if rig.Mode() != ModeScripted {
		t.Fatal("keep view should return to scripted mode")
	}

	// the focus target table now holds the kept pose
	kept, ok := cfg.Scene.FocusTargets["overview"]
	if !ok {
		t.Fatal("focus target missing after keep view")
	}
	if !vecAlmostEqual(kept.LookAt, target) {
		t.Errorf("kept lookAt = %v, want %v", kept.LookAt, target)
	}
	keptPos := kept.LookAt.Add(Spherical{kept.Radius, kept.Polar, kept.Azimuth}.Cartesian())
	if !vecAlmostEqual(keptPos, pos) {
		t.Errorf("kept pose reproduces %v, want %v", keptPos, pos)
	}

	// the live pose already matches; the fresh tween is a no-op move
	gotPos, gotLook := rig.Pose()
	if !vecAlmostEqual(gotPos, pos) || !vecAlmostEqual(gotLook, target) {
		t.Errorf("pose after keep = %v/%v, want %v/%v", gotPos, gotLook, pos, target)
	}
	rig.Advance(10)
	gotPos, _ = rig.Pose()
	if !vecAlmostEqual(gotPos, pos) {
		t.Errorf("pose drifted to %v after settling, want %v", gotPos, pos)
	}

	// leaving and re-selecting the key comes back to the kept pose
	rig.FocusChanged("wheels")
	rig.Advance(10)
	rig.FocusChanged("overview")
	for i := 0; i < 600; i++ {
		rig.Advance(1.0 / 60)
	}
	gotPos, gotLook = rig.Pose()
	if gotPos.Sub(pos).Len() > 1e-6 || gotLook.Sub(target).Len() > 1e-6 {
		t.Errorf("re-selected pose = %v/%v, want %v/%v", gotPos, gotLook, pos, target)
	}
}

func TestRigFocusKeyFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Chapters[0].Focus = "missing"
	rig := NewCameraRig(cfg, "missing")

	// falls back to the first chapter-ordered key that has a target
	key, target := rig.resolveTarget("missing")
	if key != "wheels" {
		t.Errorf("fallback key = %q, want wheels", key)
	}
	want := cfg.Scene.FocusTargets["wheels"]
	if !almostEqual(target.Radius, want.Radius) {
		t.Errorf("fallback radius = %v, want %v", target.Radius, want.Radius)
	}

	// with no targets at all the built-in overview pose applies
	cfg2 := testConfig()
	cfg2.Scene.FocusTargets = map[string]FocusTarget{}
	rig2 := NewCameraRig(cfg2, "overview")
	pos, _ := rig2.Pose()
	if math.IsNaN(pos.Len()) || pos.Len() == 0 {
		t.Errorf("default pose should be usable, got %v", pos)
	}
}
