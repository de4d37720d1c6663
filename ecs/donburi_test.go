package ecs

import (
	"io"
	"log/slog"
	"testing"

	"github.com/phanxgames/metascene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// countingBinding ignores everything except draw calls.
type countingBinding struct {
	draws int
	depth int
}

func (b *countingBinding) UploadTexture([]byte, int, int, metascene.TextureOptions) (metascene.TextureID, error) {
	return 1, nil
}
func (b *countingBinding) BindTexture(metascene.TextureID) {}
func (b *countingBinding) DeleteTextures(...metascene.TextureID) {}
func (b *countingBinding) SetTextureWrap(_, _ metascene.WrapMode) {}
func (b *countingBinding) SetCapability(metascene.Capability, bool) {}
func (b *countingBinding) SetDepthMask(bool) {}
func (b *countingBinding) SetBlendFunc(_, _ metascene.BlendFactor) {}
func (b *countingBinding) SetColor(metascene.Color) {}
func (b *countingBinding) PushMatrices() { b.depth++ }
func (b *countingBinding) PopMatrices() { b.depth-- }
func (b *countingBinding) LoadIdentity() {}
func (b *countingBinding) MultMatrix(metascene.Mat4) {}
func (b *countingBinding) SetVertexArrays(metascene.VertexArrays) {}
func (b *countingBinding) DrawQuad([4]metascene.QuadVertex) error {
	b.draws++
	return nil
}
func (b *countingBinding) DrawElements([]metascene.Triangle) error {
	b.draws++
	return nil
}

func newTestScene(t *testing.T) (*Scene, *metascene.Registry, *countingBinding) {
	t.Helper()
	b := &countingBinding{}
	reg := metascene.NewRegistry(b, metascene.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return NewScene(donburi.NewWorld(), reg), reg, b
}

func newTriangle(t *testing.T, reg *metascene.Registry) *metascene.Object {
	t.Helper()
	geo, err := reg.NewVertexArray(&metascene.VertexArrayData{
		Points:    []metascene.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		Triangles: []metascene.Triangle{{0, 1, 2}},
	})
	require.NoError(t, err)
	return geo
}

func TestSpawnTakesReference(t *testing.T) {
	scene, reg, _ := newTestScene(t)
	geo := newTriangle(t, reg)

	e := scene.Spawn(geo)
	assert.Equal(t, 2, geo.RefCount())
	assert.Equal(t, 1, scene.Count())

	m := scene.Model(e)
	require.NotNil(t, m)
	assert.Same(t, geo, m.Root)
}

func TestDespawnReleasesReference(t *testing.T) {
	scene, reg, _ := newTestScene(t)
	geo := newTriangle(t, reg)
	e := scene.Spawn(geo)
	reg.DisposeReference(geo)

	var got []DespawnedEvent
	DespawnedEventType.Subscribe(scene.world, func(w donburi.World, ev DespawnedEvent) {
		got = append(got, ev)
	})

	scene.Despawn(e)
	DespawnedEventType.ProcessEvents(scene.world)

	assert.False(t, geo.Valid(), "model should be freed with its last owner")
	assert.Equal(t, 0, scene.Count())
	require.Len(t, got, 1)
	assert.Equal(t, e, got[0].Entity)
	assert.True(t, got[0].Freed)
	assert.Nil(t, scene.Model(e))
}

func TestDespawnUnknownEntityIsIgnored(t *testing.T) {
	scene, reg, _ := newTestScene(t)
	geo := newTriangle(t, reg)
	e := scene.Spawn(geo)
	scene.Despawn(e)

	assert.NotPanics(t, func() { scene.Despawn(e) })
	assert.Equal(t, 1, geo.RefCount())
}

func TestDespawnAll(t *testing.T) {
	scene, reg, _ := newTestScene(t)
	geo := newTriangle(t, reg)
	for range 3 {
		scene.Spawn(geo)
	}
	require.Equal(t, 4, geo.RefCount())

	scene.DespawnAll()
	events.ProcessAllEvents(scene.world)

	assert.Equal(t, 0, scene.Count())
	assert.Equal(t, 1, geo.RefCount())
}

func TestDrawAllSkipsHidden(t *testing.T) {
	scene, reg, b := newTestScene(t)
	geo := newTriangle(t, reg)
	scene.Spawn(geo)
	hidden := scene.Spawn(geo)
	scene.SetHidden(hidden, true)

	require.NoError(t, scene.DrawAll())
	assert.Equal(t, 1, b.draws)
	assert.Equal(t, 0, b.depth)
	assert.Equal(t, 0, reg.StateDepth())
}

func TestDrawAllPropagatesErrors(t *testing.T) {
	b := &countingBinding{}
	reg := metascene.NewRegistry(b, metascene.Config{
		MaxStateDepth: 1,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	scene := NewScene(donburi.NewWorld(), reg)
	scene.Spawn(reg.NewGroup())

	err := scene.DrawAll()
	assert.ErrorIs(t, err, metascene.ErrStateOverflow)
	assert.Equal(t, 0, reg.StateDepth())
}
