package metascene

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float32 fields of a scene object at once.
// Create one with the constructors below and call Update(dt) each frame. If
// the target object is freed, or its registry closed, the group stops
// without writing.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float32
	target *Object
	reg    *Registry
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && !g.target.Valid() {
		g.Done = true
		return
	}
	if g.reg != nil && g.reg.closed {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func (g *TweenGroup) add(field *float32, to, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(*field, to, duration, fn)
	g.fields[g.count] = field
	g.count++
}

// placementOf returns the placement of a Picture or Sprite, panicking for
// any other object.
func placementOf(op string, o *Object) *Placement {
	if !o.Valid() {
		panic("metascene: " + op + " on invalid object")
	}
	p := o.Placement()
	if p == nil {
		panic("metascene: " + op + " needs a picture or sprite, got " + o.typ.String())
	}
	return p
}

// TweenCoord moves a Picture or Sprite to (toX, toY) over duration seconds.
func TweenCoord(o *Object, toX, toY, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := placementOf("TweenCoord", o)
	g := &TweenGroup{target: o}
	g.add(&p.Coord.X, toX, duration, fn)
	g.add(&p.Coord.Y, toY, duration, fn)
	return g
}

// TweenScale scales a Picture or Sprite to (toSX, toSY). A zero starting
// scale animates from 1, matching how it is drawn.
func TweenScale(o *Object, toSX, toSY, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := placementOf("TweenScale", o)
	p.ScaleX, p.ScaleY = p.scales()
	g := &TweenGroup{target: o}
	g.add(&p.ScaleX, toSX, duration, fn)
	g.add(&p.ScaleY, toSY, duration, fn)
	return g
}

// TweenRotation rotates a Picture or Sprite to rad.
func TweenRotation(o *Object, rad, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := placementOf("TweenRotation", o)
	g := &TweenGroup{target: o}
	g.add(&p.Rot, rad, duration, fn)
	return g
}

// TweenDiffuse animates all four components of a Material's diffuse color.
func TweenDiffuse(m *Object, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	if !m.Valid() || m.typ != TypeMaterial {
		panic("metascene: TweenDiffuse needs a live material")
	}
	d := &m.mat.Diffuse
	g := &TweenGroup{target: m}
	g.add(&d.R, to.R, duration, fn)
	g.add(&d.G, to.G, duration, fn)
	g.add(&d.B, to.B, duration, fn)
	g.add(&d.A, to.A, duration, fn)
	return g
}

// FadeTransparency animates the registry's global transparency to a.
func (r *Registry) FadeTransparency(a, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{reg: r}
	g.add(&r.transparency, a, duration, fn)
	return g
}
