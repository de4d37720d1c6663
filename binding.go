package metascene

// TextureOptions controls how a texture level is uploaded.
type TextureOptions struct {
	Level     int         // mipmap level, 0 is the base image
	SrcFormat PixelFormat // layout of the pixels passed in
	DstFormat PixelFormat // layout requested for VRAM
	Nearest   bool        // nearest-neighbor filtering instead of linear
}

// VertexArrays holds the per-vertex attribute arrays for the next
// DrawElements call. Nil slices are disabled arrays. At most one of
// ColorsFloat and ColorsByte is set.
type VertexArrays struct {
	Points      []Vec3
	Normals     []Vec3
	UVs         []UV
	ColorsFloat []Color
	ColorsByte  []RGBA8
}

// QuadVertex is one corner of a quad drawn with DrawQuad.
type QuadVertex struct {
	Pos Vec3
	UV  UV
}

// Binding is the minimal fixed-function graphics surface the scene graph
// drives. Implementations are not safe for concurrent use; a Binding is owned
// by exactly one Registry.
type Binding interface {
	// UploadTexture creates a texture from w*h pixels and makes it current.
	UploadTexture(pixels []byte, w, h int, opts TextureOptions) (TextureID, error)
	// BindTexture makes id the current texture.
	BindTexture(id TextureID)
	// DeleteTextures releases GPU storage for every id.
	DeleteTextures(ids ...TextureID)
	// SetTextureWrap sets the addressing mode of the current texture.
	SetTextureWrap(u, v WrapMode)

	SetCapability(c Capability, enabled bool)
	SetDepthMask(enabled bool)
	SetBlendFunc(src, dst BlendFactor)
	SetColor(c Color)

	// PushMatrices pushes both the model-view and the projection matrix.
	PushMatrices()
	// PopMatrices restores both matrices saved by the matching PushMatrices.
	PopMatrices()
	// LoadIdentity resets both matrices to identity (normalized device space).
	LoadIdentity()
	// MultMatrix multiplies m into the model-view matrix.
	MultMatrix(m Mat4)

	// SetVertexArrays selects the arrays used by DrawElements.
	SetVertexArrays(arrays VertexArrays)
	// DrawElements draws indexed triangles from the current arrays.
	DrawElements(tris []Triangle) error
	// DrawQuad draws one textured quad with the current state.
	DrawQuad(q [4]QuadVertex) error
}
