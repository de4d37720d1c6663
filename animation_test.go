package metascene

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestTweenCoordReachesTarget(t *testing.T) {
	r, _ := newTestRegistry()
	mat := newTestMaterial(t, r, Color{1, 1, 1, 1})
	s := r.NewSprite(&SpriteData{Material: mat})
	s.SetCoord(0.1, 0.2, 0)

	g := TweenCoord(s, 0.5, -0.5, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	p := s.Placement()
	if !near(p.Coord.X, 0.5) || !near(p.Coord.Y, -0.5) {
		t.Errorf("Coord = (%f, %f), want (0.5, -0.5)", p.Coord.X, p.Coord.Y)
	}
}

func TestTweenScaleStartsFromOne(t *testing.T) {
	r, _ := newTestRegistry()
	mat := newTestMaterial(t, r, Color{1, 1, 1, 1})
	s := r.NewSprite(&SpriteData{Material: mat})

	g := TweenScale(s, 3, 3, 1.0, ease.Linear)
	g.Update(0.5)

	p := s.Placement()
	if !near(p.ScaleX, 2) {
		t.Errorf("ScaleX halfway = %f, want 2", p.ScaleX)
	}
}

func TestTweenRotation(t *testing.T) {
	r, _ := newTestRegistry()
	mat := newTestMaterial(t, r, Color{1, 1, 1, 1})
	s := r.NewSprite(&SpriteData{Material: mat})

	g := TweenRotation(s, math.Pi, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	if !near(s.Placement().Rot, math.Pi) {
		t.Errorf("Rot = %f, want pi", s.Placement().Rot)
	}
}

func TestTweenDiffuse(t *testing.T) {
	r, _ := newTestRegistry()
	mat := newTestMaterial(t, r, Color{1, 0, 0, 1})

	g := TweenDiffuse(mat, Color{0, 1, 0.5, 0.5}, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	d := mat.Material().Diffuse
	if !near(d.R, 0) || !near(d.G, 1) || !near(d.B, 0.5) || !near(d.A, 0.5) {
		t.Errorf("Diffuse = %+v, want {0 1 0.5 0.5}", d)
	}
}

func TestTweenStopsWhenTargetFreed(t *testing.T) {
	r, _ := newTestRegistry()
	mat := newTestMaterial(t, r, Color{1, 1, 1, 1})
	s := r.NewSprite(&SpriteData{Material: mat})

	g := TweenCoord(s, 1, 1, 1.0, ease.Linear)
	g.Update(0.25)
	r.DisposeReference(s)
	g.Update(0.25)

	if !g.Done {
		t.Error("group should stop once its target is freed")
	}
}

func TestFadeTransparency(t *testing.T) {
	r, _ := newTestRegistry()

	g := r.FadeTransparency(0, 1.0, ease.Linear)
	g.Update(0.5)
	if !near(r.GlobalTransparency(), 0.5) {
		t.Errorf("transparency halfway = %f, want 0.5", r.GlobalTransparency())
	}
	g.Update(0.5)
	if !g.Done || !near(r.GlobalTransparency(), 0) {
		t.Errorf("transparency = %f done=%v, want 0 and done", r.GlobalTransparency(), g.Done)
	}
}

func TestTweenOnGroupPanics(t *testing.T) {
	r, _ := newTestRegistry()
	g := r.NewGroup()
	defer func() {
		if rec := recover(); rec == nil {
			t.Error("expected panic tweening a group")
		}
	}()
	TweenCoord(g, 1, 1, 1, ease.Linear)
}

func TestTweenUpdateAfterDoneIsNoop(t *testing.T) {
	r, _ := newTestRegistry()
	g := r.FadeTransparency(0.5, 0.5, ease.Linear)
	g.Update(1)
	r.SetGlobalTransparency(1)
	g.Update(1)
	if r.GlobalTransparency() != 1 {
		t.Error("finished group should not write")
	}
}
