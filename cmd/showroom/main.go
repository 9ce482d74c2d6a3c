package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	showroom "github.com/smasonuk/showroom3d"
)

const (
	screenWidth  = 960
	screenHeight = 600
	focalLength  = 500
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// part is one named piece of the product; the engine's hidden-mesh
// set decides whether it draws.
type part struct {
	name  string
	faces []face
}

type face struct {
	points []mgl64.Vec3
	clr    color.RGBA
}

// box builds an axis-aligned box part with outward-facing quads.
func box(name string, center, size mgl64.Vec3, clr color.RGBA) part {
	hx, hy, hz := size.X()/2, size.Y()/2, size.Z()/2
	p := func(sx, sy, sz float64) mgl64.Vec3 {
		return center.Add(mgl64.Vec3{sx * hx, sy * hy, sz * hz})
	}
	corners := []mgl64.Vec3{
		p(-1, -1, -1), p(1, -1, -1), p(1, 1, -1), p(-1, 1, -1),
		p(-1, -1, 1), p(1, -1, 1), p(1, 1, 1), p(-1, 1, 1),
	}
	quad := func(a, b, c, d int) face {
		return face{points: []mgl64.Vec3{corners[a], corners[b], corners[c], corners[d]}, clr: clr}
	}
	return part{name: name, faces: []face{
		quad(4, 5, 6, 7), // z+
		quad(1, 0, 3, 2), // z-
		quad(5, 1, 2, 6), // x+
		quad(0, 4, 7, 3), // x-
		quad(7, 6, 2, 3), // y+
		quad(0, 1, 5, 4), // y-
	}}
}

func buildParts() []part {
	red := color.RGBA{200, 40, 40, 255}
	blue := color.RGBA{50, 80, 210, 255}
	dark := color.RGBA{40, 40, 45, 255}
	grey := color.RGBA{150, 150, 160, 255}
	return []part{
		box("body-red", mgl64.Vec3{0, 1.0, 0}, mgl64.Vec3{4, 1.2, 2}, red),
		box("body-blue", mgl64.Vec3{0, 1.0, 0}, mgl64.Vec3{4, 1.2, 2}, blue),
		box("cabin", mgl64.Vec3{-0.2, 1.9, 0}, mgl64.Vec3{2, 0.8, 1.8}, grey),
		box("wheels-standard", mgl64.Vec3{0, 0.4, 0}, mgl64.Vec3{3.6, 0.8, 2.2}, dark),
		box("wheels-sport", mgl64.Vec3{0, 0.4, 0}, mgl64.Vec3{3.6, 0.9, 2.4}, grey),
		box("spoiler", mgl64.Vec3{-2.1, 1.9, 0}, mgl64.Vec3{0.4, 0.15, 2}, dark),
	}
}

// demoConfig is a small in-code configuration; a real host would load
// YAML via showroom.LoadConfig instead.
func demoConfig() *showroom.Config {
	return &showroom.Config{
		Chapters: []showroom.Chapter{
			{
				ID: "body", Focus: "overview", Title: "Body",
				Groups: []showroom.Group{{
					ID: "paint", Title: "Paint",
					Options: []showroom.Option{
						{Value: "red-paint", Label: "Signal Red", Visibility: map[string]bool{"body-blue": false}},
						{Value: "blue-paint", Label: "Deep Blue", Visibility: map[string]bool{"body-red": false}},
					},
				}},
			},
			{
				ID: "wheels", Focus: "wheels", Title: "Wheels",
				Groups: []showroom.Group{{
					ID: "wheels", Title: "Wheel set",
					Options: []showroom.Option{
						{Value: "standard-wheels", Label: "Standard", Visibility: map[string]bool{"wheels-sport": false}},
						{Value: "sport-wheels", Label: "Sport", Visibility: map[string]bool{"wheels-standard": false}},
					},
				}},
			},
			{
				ID: "extras", Focus: "rear", Title: "Extras",
				Groups: []showroom.Group{{
					ID: "spoiler", Title: "Spoiler",
					Options: []showroom.Option{
						{Value: "no-spoiler", Label: "None", Visibility: map[string]bool{"spoiler": false}},
						{Value: "spoiler", Label: "Rear spoiler"},
					},
				}},
			},
		},
		PricingRules: showroom.PricingRules{
			"red-paint":   {"red-paint": 500},
			"blue-paint":  {"blue-paint": 650},
			"sport-wheels": {
				"sport-wheels": 300,
				"red-paint":    400, // sport rims cost more in the red launch edition
			},
			"spoiler": {"spoiler": 250},
		},
		Scene: showroom.Scene{
			FocusTargets: map[string]showroom.FocusTarget{
				"overview": {Radius: 9, Polar: math.Pi / 3, Azimuth: math.Pi / 6, LookAt: mgl64.Vec3{0, 1, 0}},
				"wheels":   {Radius: 5, Polar: math.Pi / 2.3, Azimuth: math.Pi / 2.5, LookAt: mgl64.Vec3{0, 0.4, 0}},
				"rear":     {Radius: 6, Polar: math.Pi / 2.6, Azimuth: math.Pi, LookAt: mgl64.Vec3{-2, 1.5, 0}},
			},
		},
	}
}

type game struct {
	session *showroom.Session
	parts   []part

	chapterIdx int
	groupIdx   int

	dragging     bool
	lastX, lastY int
	orbitSph     showroom.Spherical
	orbitTarget  mgl64.Vec3
}

func newGame() *game {
	cfg := demoConfig()
	g := &game{
		session: showroom.NewSession(cfg, nil),
		parts:   buildParts(),
	}
	log.Println("showroom ready")
	return g
}

func (g *game) currentGroups() []showroom.Group {
	return g.session.Config().Chapters[g.chapterIdx].Groups
}

func (g *game) stepChapter(delta int) {
	chapters := g.session.Config().Chapters
	g.chapterIdx = (g.chapterIdx + delta + len(chapters)) % len(chapters)
	g.groupIdx = 0
	if err := g.session.SetActiveChapter(chapters[g.chapterIdx].ID); err != nil {
		log.Printf("activate chapter: %v", err)
	}
}

func (g *game) Update() error {
	const dt = 1.0 / 60

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.stepChapter(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.stepChapter(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if groups := g.currentGroups(); len(groups) > 0 {
			g.groupIdx = (g.groupIdx + 1) % len(groups)
		}
	}
	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5} {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		groups := g.currentGroups()
		if g.groupIdx >= len(groups) || i >= len(groups[g.groupIdx].Options) {
			continue
		}
		grp := groups[g.groupIdx]
		if err := g.session.Select(grp.ID, grp.Options[i].Value); err != nil {
			log.Printf("select: %v", err)
		}
	}

	g.updateOrbit()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if g.session.Camera().Mode() == showroom.ModeOrbit {
			g.session.ResetFromOrbit()
		} else {
			g.session.ResetView()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.session.KeepCurrentView()
	}

	g.session.Advance(dt)
	return nil
}

// updateOrbit turns mouse drag and wheel into orbit poses around the
// current look-at point and feeds them to the engine.
func (g *game) updateOrbit() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = ebiten.CursorPosition()
		g.session.EnterOrbit()
		pos, target := g.session.CameraPose()
		g.orbitSph = showroom.SphericalFrom(pos.Sub(target))
		g.orbitTarget = target
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}

	if g.session.Camera().Mode() != showroom.ModeOrbit {
		return
	}

	moved := false
	if g.dragging {
		x, y := ebiten.CursorPosition()
		dx := float64(x-g.lastX) * 0.01
		dy := float64(y-g.lastY) * 0.01
		g.lastX, g.lastY = x, y
		if dx != 0 || dy != 0 {
			g.orbitSph.Azimuth -= dx
			g.orbitSph.Polar = clamp(g.orbitSph.Polar-dy, 0.05, math.Pi-0.05)
			moved = true
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.orbitSph.Radius = clamp(g.orbitSph.Radius*(1-wy*0.1), 1, 60)
		moved = true
	}
	if moved {
		g.session.OrbitMoved(g.orbitTarget.Add(g.orbitSph.Cartesian()), g.orbitTarget)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type drawFace struct {
	projX, projY []float32
	depth        float64
	clr          color.RGBA
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{18, 18, 22, 255})

	pos, lookAt := g.session.CameraPose()
	view := mgl64.LookAtV(pos, lookAt, mgl64.Vec3{0, 1, 0})
	hidden := g.session.HiddenMeshes()

	var faces []drawFace
	for _, p := range g.parts {
		if hidden[p.name] {
			continue
		}
		for _, f := range p.faces {
			if df, ok := projectFace(f, view); ok {
				faces = append(faces, df)
			}
		}
	}

	// painter's algorithm: far faces first
	sort.Slice(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })
	for _, f := range faces {
		fillConvexPolygon(screen, f.projX, f.projY, f.clr)
	}

	g.drawHUD(screen)
}

// projectFace transforms one face to camera space, culls it against
// the near plane and back-faces, and projects it to screen space with
// simple flat lighting baked into the color.
func projectFace(f face, view mgl64.Mat4) (drawFace, bool) {
	cam := make([]mgl64.Vec3, len(f.points))
	depth := 0.0
	for i, p := range f.points {
		v := mgl64.TransformCoordinate(p, view)
		// looking down -Z in camera space
		if -v.Z() <= 0.5 {
			return drawFace{}, false
		}
		cam[i] = v
		depth += -v.Z()
	}
	depth /= float64(len(cam))

	normal := cam[1].Sub(cam[0]).Cross(cam[2].Sub(cam[0]))
	if normal.Dot(cam[0]) >= 0 { // back-facing
		return drawFace{}, false
	}

	light := mgl64.Vec3{0.577, 0.577, 0.577}
	shade := 0.35 + 0.65*math.Max(0, normal.Normalize().Dot(light))

	df := drawFace{
		projX: make([]float32, len(cam)),
		projY: make([]float32, len(cam)),
		depth: depth,
		clr: color.RGBA{
			R: uint8(float64(f.clr.R) * shade),
			G: uint8(float64(f.clr.G) * shade),
			B: uint8(float64(f.clr.B) * shade),
			A: 255,
		},
	}
	for i, v := range cam {
		z := -v.Z()
		df.projX[i] = float32(focalLength*v.X()/z) + screenWidth/2
		df.projY[i] = float32(-focalLength*v.Y()/z) + screenHeight/2
	}
	return df, true
}

func fillConvexPolygon(screen *ebiten.Image, xp, yp []float32, clr color.RGBA) {
	if len(xp) < 3 {
		return
	}
	indices := make([]uint16, 0, (len(xp)-2)*3)
	for i := 2; i < len(xp); i++ {
		indices = append(indices, 0, uint16(i-1), uint16(i))
	}
	vertices := make([]ebiten.Vertex, len(xp))
	cr := float32(clr.R) / 255.0
	cg := float32(clr.G) / 255.0
	cb := float32(clr.B) / 255.0
	for i := range xp {
		vertices[i] = ebiten.Vertex{
			DstX: xp[i], DstY: yp[i],
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1,
		}
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vertices, indices, whiteSub, op)
}

func (g *game) drawHUD(screen *ebiten.Image) {
	chapters := g.session.Config().Chapters
	ch := chapters[g.chapterIdx]
	msg := fmt.Sprintf("%s  (up/down: chapter, tab: group, 1-5: option, drag: orbit, R: reset, K: keep view)\n", ch.Title)
	for gi, grp := range ch.Groups {
		cursor := "  "
		if gi == g.groupIdx {
			cursor = "> "
		}
		msg += fmt.Sprintf("%s%s:\n", cursor, grp.Title)
		for i, o := range grp.Options {
			mark := " "
			if g.session.Selected(grp.ID) == o.Value {
				mark = "*"
			}
			delta := g.session.OptionDelta(grp.ID, o.Value)
			price := "Included"
			if delta > 0 {
				price = fmt.Sprintf("+%.0f", delta)
			}
			msg += fmt.Sprintf("   %s %d. %s (%s)\n", mark, i+1, o.Label, price)
		}
	}
	msg += fmt.Sprintf("Total: %.0f   FPS: %0.1f", g.session.Total(), ebiten.ActualFPS())
	ebitenutil.DebugPrint(screen, msg)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Showroom 3D Configurator")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
