package metascene

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

// fakeBinding records every call it receives.
type fakeBinding struct {
	calls    []string
	caps     map[Capability]bool
	color    Color
	bound    TextureID
	textures map[TextureID]TextureOptions
	nextID   TextureID
	wrapU    WrapMode
	wrapV    WrapMode
	depth    int
	arrays   VertexArrays
	drawn    [][]Triangle
	quads    int
	uploaded [][]byte

	// drawErr is returned by every draw call when set.
	drawErr error

	// failUploadAt makes the nth upload (1-based) fail.
	failUploadAt int
	uploads      int
}

func newFakeBinding() *fakeBinding {
	return &fakeBinding{
		caps:     make(map[Capability]bool),
		textures: make(map[TextureID]TextureOptions),
	}
}

func (f *fakeBinding) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBinding) reset() { f.calls = nil }

func (f *fakeBinding) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBinding) UploadTexture(pixels []byte, w, h int, opts TextureOptions) (TextureID, error) {
	f.uploads++
	if f.failUploadAt == f.uploads {
		return 0, errors.New("out of video memory")
	}
	f.nextID++
	f.textures[f.nextID] = opts
	f.bound = f.nextID
	f.uploaded = append(f.uploaded, pixels)
	f.record("upload %d %dx%d", f.nextID, w, h)
	return f.nextID, nil
}

func (f *fakeBinding) BindTexture(id TextureID) {
	f.bound = id
	f.record("bind %d", id)
}

func (f *fakeBinding) DeleteTextures(ids ...TextureID) {
	for _, id := range ids {
		delete(f.textures, id)
		f.record("delete %d", id)
	}
}

func (f *fakeBinding) SetTextureWrap(u, v WrapMode) {
	f.wrapU, f.wrapV = u, v
}

func (f *fakeBinding) SetCapability(c Capability, enabled bool) {
	f.caps[c] = enabled
}

func (f *fakeBinding) SetDepthMask(bool)             {}
func (f *fakeBinding) SetBlendFunc(_, _ BlendFactor) {}

func (f *fakeBinding) SetColor(c Color) {
	f.color = c
}

func (f *fakeBinding) PushMatrices() {
	f.depth++
	f.record("push")
}

func (f *fakeBinding) PopMatrices() {
	f.depth--
	f.record("pop")
}

func (f *fakeBinding) LoadIdentity() { f.record("identity") }

func (f *fakeBinding) MultMatrix(m Mat4) {
	f.record("mult %g,%g", m[12], m[13])
}

func (f *fakeBinding) SetVertexArrays(a VertexArrays) {
	f.arrays = a
}

func (f *fakeBinding) DrawElements(tris []Triangle) error {
	f.drawn = append(f.drawn, tris)
	f.record("draw %d", len(f.arrays.Points))
	return f.drawErr
}

func (f *fakeBinding) DrawQuad([4]QuadVertex) error {
	f.quads++
	f.record("quad %d", f.bound)
	return f.drawErr
}

var _ Binding = (*fakeBinding)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry() (*Registry, *fakeBinding) {
	return newTestRegistryConfig(Config{})
}

func newTestRegistryConfig(cfg Config) (*Registry, *fakeBinding) {
	b := newFakeBinding()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	return NewRegistry(b, cfg), b
}

// newTestMaterial creates an untextured material.
func newTestMaterial(t *testing.T, r *Registry, c Color) *Object {
	t.Helper()
	m, err := r.NewMaterial(&MaterialData{Diffuse: c})
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	return m
}

// newTexturedMaterial uploads a w*h RGBA texture.
func newTexturedMaterial(t *testing.T, r *Registry, w, h int, dst PixelFormat) *Object {
	t.Helper()
	m, err := r.NewMaterial(&MaterialData{
		Flags:     MaterialTextured,
		Diffuse:   ColorWhite,
		Width:     w,
		Height:    h,
		SrcFormat: PixelFormatRGBA,
		DstFormat: dst,
		Pixels:    [][]byte{make([]byte, w*h*4)},
	})
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	return m
}

func newTestGeometry(t *testing.T, r *Registry, pts []Vec3, mats ...*Object) *Object {
	t.Helper()
	g, err := r.NewVertexArray(&VertexArrayData{
		Materials: mats,
		Points:    pts,
		Triangles: []Triangle{{0, 1, 2}},
	})
	if err != nil {
		t.Fatalf("NewVertexArray: %v", err)
	}
	return g
}

var triPoints = []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

// expectFatal runs fn and returns the error it panicked with.
func expectFatal(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected fatal panic")
		}
		e, ok := rec.(error)
		if !ok {
			t.Fatalf("panic value %v is not an error", rec)
		}
		err = e
	}()
	fn()
	return nil
}
