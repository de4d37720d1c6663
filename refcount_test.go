package metascene

import (
	"errors"
	"testing"
)

func TestGroupDisposeReleasesChild(t *testing.T) {
	r, _ := newTestRegistry()
	g := r.NewGroup()
	m := newTestMaterial(t, r, ColorWhite)

	if err := r.AppendToGroup(g, m); err != nil {
		t.Fatal(err)
	}
	if m.RefCount() != 2 {
		t.Fatalf("material refs after append = %d, want 2", m.RefCount())
	}

	r.DisposeReference(g)
	if g.Valid() {
		t.Error("group should be freed")
	}
	if m.RefCount() != 1 || !m.Valid() {
		t.Fatalf("material refs after group dispose = %d valid=%v, want 1 and live", m.RefCount(), m.Valid())
	}

	r.DisposeReference(m)
	if m.Valid() {
		t.Error("material should be freed")
	}
	if r.NumObjects() != 0 {
		t.Errorf("NumObjects = %d, want 0", r.NumObjects())
	}
}

func TestGeometryReferenceCascadesToMaterials(t *testing.T) {
	r, _ := newTestRegistry()
	m1 := newTestMaterial(t, r, ColorWhite)
	m2 := newTestMaterial(t, r, ColorWhite)
	geo, err := r.NewVertexArray(&VertexArrayData{
		Materials: []*Object{m1, m2},
		Points:    triPoints,
		Triangles: []Triangle{{0, 1, 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r.DisposeReference(m1)
	r.DisposeReference(m2)

	r.GetNewReference(geo)

	if geo.RefCount() != 2 {
		t.Errorf("geometry refs = %d, want 2", geo.RefCount())
	}
	if m1.RefCount() != 2 || m2.RefCount() != 2 {
		t.Errorf("material refs = %d, %d, want 2, 2", m1.RefCount(), m2.RefCount())
	}
}

func TestAcquireReleaseInverse(t *testing.T) {
	r, _ := newTestRegistry()
	mat := newTestMaterial(t, r, ColorWhite)
	inner := r.NewGroup()
	outer := r.NewGroup()
	geo := newTestGeometry(t, r, triPoints, mat)
	sprite := r.NewSprite(&SpriteData{Material: mat})

	mustAppend(t, r, inner, geo)
	mustAppend(t, r, inner, sprite)
	mustAppend(t, r, outer, inner)
	mtx := r.NewMatrix(Identity4)
	mustAppend(t, r, outer, mtx)

	before := refCounts(r)
	r.GetNewReference(outer)

	// Each object gains one reference per path from outer.
	paths := map[*Object]int{outer: 1, inner: 1, geo: 1, sprite: 1, mtx: 1, mat: 2}
	for o, n := range paths {
		if got := o.RefCount(); got != before[o]+n {
			t.Errorf("%s after acquire: refs = %d, want %d", o, got, before[o]+n)
		}
	}

	r.DisposeReference(outer)
	after := refCounts(r)

	if len(before) != len(after) {
		t.Fatalf("object count changed: %d -> %d", len(before), len(after))
	}
	for o, n := range before {
		if after[o] != n {
			t.Errorf("%s: refs %d -> %d", o, n, after[o])
		}
	}
}

func TestDisposeTwiceIsFatal(t *testing.T) {
	r, _ := newTestRegistry()
	m := newTestMaterial(t, r, ColorWhite)
	r.DisposeReference(m)

	err := expectFatal(t, func() { r.DisposeReference(m) })
	var ce *CorruptionError
	if !errors.As(err, &ce) {
		t.Errorf("error = %v, want *CorruptionError", err)
	}
}

func TestFatalHookRunsBeforePanic(t *testing.T) {
	var got error
	r, _ := newTestRegistryConfig(Config{OnFatal: func(err error) { got = err }})
	m := newTestMaterial(t, r, ColorWhite)
	r.DisposeReference(m)

	expectFatal(t, func() { r.GetNewReference(m) })
	if got == nil {
		t.Error("OnFatal was not called")
	}
}

func TestObjectFromOtherRegistryIsFatal(t *testing.T) {
	r1, _ := newTestRegistry()
	r2, _ := newTestRegistry()
	m := newTestMaterial(t, r1, ColorWhite)

	expectFatal(t, func() { r2.GetNewReference(m) })
}

func TestFreedMaterialDeletesTextures(t *testing.T) {
	r, b := newTestRegistry()
	m := newTexturedMaterial(t, r, 4, 4, PixelFormatRGBA)
	id := m.Material().Textures[0]

	r.DisposeReference(m)

	if _, ok := b.textures[id]; ok {
		t.Errorf("texture %d still alive after material freed", id)
	}
}

func TestPictureFromMaterialTakesReference(t *testing.T) {
	r, _ := newTestRegistry()
	m := newTexturedMaterial(t, r, 2, 2, PixelFormatRGBA)
	p, err := r.NewPicture(&PictureData{Material: m})
	if err != nil {
		t.Fatal(err)
	}
	if m.RefCount() != 2 {
		t.Errorf("material refs = %d, want 2", m.RefCount())
	}
	r.DisposeReference(p)
	if m.RefCount() != 1 {
		t.Errorf("material refs after picture dispose = %d, want 1", m.RefCount())
	}
}

func TestLiveListOrder(t *testing.T) {
	r, _ := newTestRegistry()
	a := r.NewGroup()
	b := r.NewGroup()
	c := r.NewGroup()
	r.DisposeReference(b)

	var got []*Object
	r.Each(func(o *Object) bool {
		got = append(got, o)
		return true
	})
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("live list = %v, want [a c]", got)
	}
}

func TestCloseReportsLeaks(t *testing.T) {
	r, _ := newTestRegistry()
	r.NewGroup()

	err := r.Close()
	if !errors.Is(err, ErrLeakedObjects) {
		t.Errorf("Close = %v, want ErrLeakedObjects", err)
	}
}

func TestCloseCleanRegistry(t *testing.T) {
	r, _ := newTestRegistry()
	g := r.NewGroup()
	r.DisposeReference(g)
	if err := r.Close(); err != nil {
		t.Errorf("Close = %v, want nil", err)
	}
}

func TestCreateAfterCloseIsFatal(t *testing.T) {
	r, _ := newTestRegistry()
	_ = r.Close()
	expectFatal(t, func() { r.NewGroup() })
}

func mustAppend(t *testing.T, r *Registry, g, child *Object) {
	t.Helper()
	if err := r.AppendToGroup(g, child); err != nil {
		t.Fatalf("AppendToGroup: %v", err)
	}
}

func refCounts(r *Registry) map[*Object]int {
	m := make(map[*Object]int)
	r.Each(func(o *Object) bool {
		m[o] = o.RefCount()
		return true
	})
	return m
}
