package metascene

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var _ Binding = (*EbitenBinding)(nil)

var errNoTarget = errors.New("ebiten binding: no render target")

// texturesPerSize is how many deleted textures of one size are kept for reuse.
const texturesPerSize = 8

type ebitenTexture struct {
	img     *ebiten.Image
	nearest bool
	wrapU   WrapMode
	wrapV   WrapMode
}

type matrixPair struct {
	modelView, projection Mat4
}

// EbitenBinding draws the scene graph into an *ebiten.Image.
//
// Vertices are projected on the CPU through projection × model-view and
// issued with DrawTriangles32. Back faces are culled in software and a single
// directional light shades vertices with normals when lighting is on. Depth
// testing, depth writes and fog are recorded but have no effect: paint order
// decides visibility.
type EbitenBinding struct {
	target *ebiten.Image

	textures map[TextureID]*ebitenTexture
	nextID   TextureID
	bound    TextureID
	pool     texturePool

	caps     [CapBlend + 1]bool
	depth    bool
	blendSrc BlendFactor
	blendDst BlendFactor
	color    Color

	modelView  Mat4
	projection Mat4
	stack      []matrixPair

	// LightDir points toward the light in eye space; Ambient is the light
	// level of faces turned away from it.
	LightDir Vec3
	Ambient  float32

	arrays VertexArrays
	verts  []ebiten.Vertex
	inds   []uint32
	white  *ebiten.Image
}

// NewEbitenBinding returns a binding with identity matrices and a light
// shining from the viewer.
func NewEbitenBinding() *EbitenBinding {
	return &EbitenBinding{
		textures:   make(map[TextureID]*ebitenTexture),
		pool:       texturePool{limit: texturesPerSize},
		blendSrc:   BlendSrcAlpha,
		blendDst:   BlendOneMinusSrcAlpha,
		color:      ColorWhite,
		modelView:  Identity4,
		projection: Identity4,
		LightDir:   Vec3{0, 0, 1},
		Ambient:    0.3,
	}
}

// SetTarget selects the image drawn into. Draws without a target are dropped.
func (b *EbitenBinding) SetTarget(img *ebiten.Image) {
	b.target = img
}

// SetProjectionMatrix replaces the current projection matrix.
func (b *EbitenBinding) SetProjectionMatrix(m Mat4) {
	b.projection = m
}

// SetModelView replaces the current model-view matrix.
func (b *EbitenBinding) SetModelView(m Mat4) {
	b.modelView = m
}

// ModelView returns the current model-view matrix.
func (b *EbitenBinding) ModelView() Mat4 {
	return b.modelView
}

// NumTextures returns the number of live textures.
func (b *EbitenBinding) NumTextures() int {
	return len(b.textures)
}

// --- Textures ---

// UploadTexture writes pixels into a pooled image of size w*h and binds it.
func (b *EbitenBinding) UploadTexture(pixels []byte, w, h int, opts TextureOptions) (TextureID, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("ebiten binding: invalid texture size %dx%d", w, h)
	}
	rgba, err := expandRGBA(pixels, w, h, opts.SrcFormat, opts.DstFormat)
	if err != nil {
		return 0, err
	}
	img := b.pool.Acquire(w, h)
	img.WritePixels(rgba)

	b.nextID++
	id := b.nextID
	b.textures[id] = &ebitenTexture{img: img, nearest: opts.Nearest}
	b.bound = id
	return id, nil
}

// BindTexture makes id the texture used by later draws.
func (b *EbitenBinding) BindTexture(id TextureID) {
	b.bound = id
}

// DeleteTextures forgets every id and returns its image to the pool.
func (b *EbitenBinding) DeleteTextures(ids ...TextureID) {
	for _, id := range ids {
		t, ok := b.textures[id]
		if !ok {
			continue
		}
		delete(b.textures, id)
		b.pool.Release(t.img)
		if b.bound == id {
			b.bound = 0
		}
	}
}

// SetTextureWrap stores the addressing mode on the bound texture.
func (b *EbitenBinding) SetTextureWrap(u, v WrapMode) {
	if t := b.textures[b.bound]; t != nil {
		t.wrapU, t.wrapV = u, v
	}
}

// expandRGBA converts pixels to the premultiplied RGBA layout WritePixels
// expects. RGB5A1 texels are little-endian uint16s laid out R5 G5 B5 A1 from
// the high bit down.
func expandRGBA(pixels []byte, w, h int, src, dst PixelFormat) ([]byte, error) {
	n := w * h
	if len(pixels) < n*src.srcBytesPerPixel() {
		return nil, fmt.Errorf("ebiten binding: %d bytes for %dx%d texture", len(pixels), w, h)
	}
	out := make([]byte, n*4)
	for i := range n {
		var r, g, b, a byte
		switch src {
		case PixelFormatRGB:
			r, g, b, a = pixels[i*3], pixels[i*3+1], pixels[i*3+2], 255
		case PixelFormatRGB5A1:
			v := uint16(pixels[i*2]) | uint16(pixels[i*2+1])<<8
			r = expand5(v >> 11)
			g = expand5(v >> 6)
			b = expand5(v >> 1)
			a = byte(v&1) * 255
		default:
			r, g, b, a = pixels[i*4], pixels[i*4+1], pixels[i*4+2], pixels[i*4+3]
		}
		if dst == PixelFormatRGB {
			a = 255
		}
		if a != 255 {
			r, g, b = premultiply(r, a), premultiply(g, a), premultiply(b, a)
		}
		out[i*4], out[i*4+1], out[i*4+2], out[i*4+3] = r, g, b, a
	}
	return out, nil
}

func premultiply(c, a byte) byte {
	return byte(uint16(c) * uint16(a) / 255)
}

func expand5(v uint16) byte {
	v &= 0x1f
	return byte(v<<3 | v>>2)
}

// --- State ---

// SetCapability records c. Only texturing, blending, culling and lighting
// change what is drawn.
func (b *EbitenBinding) SetCapability(c Capability, enabled bool) {
	if int(c) < len(b.caps) {
		b.caps[c] = enabled
	}
}

// Enabled reports whether capability c is on.
func (b *EbitenBinding) Enabled(c Capability) bool {
	return int(c) < len(b.caps) && b.caps[c]
}

// SetDepthMask records the depth write mask; it has no effect.
func (b *EbitenBinding) SetDepthMask(enabled bool) {
	b.depth = enabled
}

// SetBlendFunc sets the factors mapped onto ebiten.Blend when blending is on.
func (b *EbitenBinding) SetBlendFunc(src, dst BlendFactor) {
	b.blendSrc, b.blendDst = src, dst
}

// SetColor sets the color multiplied into every vertex.
func (b *EbitenBinding) SetColor(c Color) {
	b.color = c
}

// --- Matrices ---

// PushMatrices saves the model-view and projection matrices.
func (b *EbitenBinding) PushMatrices() {
	b.stack = append(b.stack, matrixPair{modelView: b.modelView, projection: b.projection})
}

// PopMatrices restores the matrices saved by the matching PushMatrices.
// It panics on underflow.
func (b *EbitenBinding) PopMatrices() {
	n := len(b.stack)
	if n == 0 {
		panic("metascene: ebiten binding matrix stack underflow")
	}
	top := b.stack[n-1]
	b.stack = b.stack[:n-1]
	b.modelView, b.projection = top.modelView, top.projection
}

// LoadIdentity resets both matrices, so later draws are in device space.
func (b *EbitenBinding) LoadIdentity() {
	b.modelView = Identity4
	b.projection = Identity4
}

// MultMatrix multiplies m into the model-view matrix.
func (b *EbitenBinding) MultMatrix(m Mat4) {
	b.modelView = b.modelView.Mul(m)
}

// --- Drawing ---

// SetVertexArrays selects the arrays read by DrawElements.
func (b *EbitenBinding) SetVertexArrays(arrays VertexArrays) {
	b.arrays = arrays
}

// DrawElements projects the current arrays and draws tris into the target.
// It fails without a target or when an index is out of range.
func (b *EbitenBinding) DrawElements(tris []Triangle) error {
	if b.target == nil {
		return errNoTarget
	}
	a := &b.arrays
	for _, t := range tris {
		for _, idx := range t {
			if int(idx) >= len(a.Points) {
				return fmt.Errorf("%w: index %d with %d points", ErrIndexOverflow, idx, len(a.Points))
			}
		}
	}

	tex := b.currentTexture(len(a.UVs) > 0)
	mvp := b.projection.Mul(b.modelView)
	b.verts = b.verts[:0]
	for i, p := range a.Points {
		v := b.project(mvp, p)
		if tex != nil && i < len(a.UVs) {
			sz := tex.img.Bounds().Size()
			v.SrcX = a.UVs[i].U * float32(sz.X)
			v.SrcY = a.UVs[i].V * float32(sz.Y)
		} else {
			v.SrcX, v.SrcY = 0.5, 0.5
		}
		c := b.vertexColor(i)
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = c.R, c.G, c.B, c.A
		b.verts = append(b.verts, v)
	}
	b.inds = b.appendVisible(b.inds[:0], tris)
	b.submit(tex)
	return nil
}

// DrawQuad draws q as two triangles with the current color and texture.
func (b *EbitenBinding) DrawQuad(q [4]QuadVertex) error {
	if b.target == nil {
		return errNoTarget
	}
	tex := b.currentTexture(true)
	mvp := b.projection.Mul(b.modelView)
	b.verts = b.verts[:0]
	for _, qv := range q {
		v := b.project(mvp, qv.Pos)
		if tex != nil {
			sz := tex.img.Bounds().Size()
			v.SrcX = qv.UV.U * float32(sz.X)
			v.SrcY = qv.UV.V * float32(sz.Y)
		} else {
			v.SrcX, v.SrcY = 0.5, 0.5
		}
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = b.color.R, b.color.G, b.color.B, b.color.A
		b.verts = append(b.verts, v)
	}
	b.inds = b.appendVisible(b.inds[:0], []Triangle{{0, 1, 2}, {0, 2, 3}})
	b.submit(tex)
	return nil
}

// currentTexture returns the bound texture when texturing applies.
func (b *EbitenBinding) currentTexture(haveUVs bool) *ebitenTexture {
	if !haveUVs || !b.caps[CapTexture2D] {
		return nil
	}
	return b.textures[b.bound]
}

// project maps p through mvp into target pixels. The clip-space w is kept in
// the unused Custom0 slot for culling.
func (b *EbitenBinding) project(mvp Mat4, p Vec3) ebiten.Vertex {
	x, y, _, w := mvp.TransformPoint(p)
	if w != 0 {
		x /= w
		y /= w
	}
	sz := b.target.Bounds().Size()
	return ebiten.Vertex{
		DstX:    (x + 1) / 2 * float32(sz.X),
		DstY:    (1 - y) / 2 * float32(sz.Y),
		Custom0: w,
	}
}

// vertexColor combines the current color, per-vertex colors and lighting.
func (b *EbitenBinding) vertexColor(i int) Color {
	a := &b.arrays
	c := b.color
	switch {
	case i < len(a.ColorsFloat):
		vc := a.ColorsFloat[i]
		c = Color{c.R * vc.R, c.G * vc.G, c.B * vc.B, c.A * vc.A}
	case i < len(a.ColorsByte):
		vc := a.ColorsByte[i]
		c = Color{
			c.R * float32(vc.R) / 255,
			c.G * float32(vc.G) / 255,
			c.B * float32(vc.B) / 255,
			c.A * float32(vc.A) / 255,
		}
	}
	if b.caps[CapLighting] && i < len(a.Normals) {
		n := unit(b.modelView.TransformVector(a.Normals[i]))
		l := b.Ambient + max(0, n.Dot(unit(b.LightDir)))*(1-b.Ambient)
		c.R *= l
		c.G *= l
		c.B *= l
	}
	return c
}

// appendVisible appends the indices of triangles that survive culling.
// Triangles wound clockwise in normalized device space are back faces.
func (b *EbitenBinding) appendVisible(dst []uint32, tris []Triangle) []uint32 {
	for _, t := range tris {
		v0, v1, v2 := &b.verts[t[0]], &b.verts[t[1]], &b.verts[t[2]]
		if v0.Custom0 <= 0 || v1.Custom0 <= 0 || v2.Custom0 <= 0 {
			continue
		}
		if b.caps[CapCullFace] {
			// Screen y grows downward, which flips the winding.
			area := (v1.DstX-v0.DstX)*(v2.DstY-v0.DstY) - (v2.DstX-v0.DstX)*(v1.DstY-v0.DstY)
			if area > 0 {
				continue
			}
		}
		dst = append(dst, t[0], t[1], t[2])
	}
	return dst
}

func (b *EbitenBinding) submit(tex *ebitenTexture) {
	if len(b.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	op.Blend = b.ebitenBlend()

	src := b.whitePixel()
	if tex != nil {
		src = tex.img
		if tex.nearest {
			op.Filter = ebiten.FilterNearest
		} else {
			op.Filter = ebiten.FilterLinear
		}
		if tex.wrapU == WrapRepeat || tex.wrapV == WrapRepeat {
			op.Address = ebiten.AddressRepeat
		} else {
			op.Address = ebiten.AddressClampToZero
		}
	}
	b.target.DrawTriangles32(b.verts, b.inds, src, &op)
}

// ebitenBlend maps the blend state onto Ebitengine, which blends
// premultiplied colors: a SrcAlpha source factor is already applied.
func (b *EbitenBinding) ebitenBlend() ebiten.Blend {
	if !b.caps[CapBlend] {
		return ebiten.BlendCopy
	}
	src := ebitenBlendFactor(b.blendSrc)
	if b.blendSrc == BlendSrcAlpha {
		src = ebiten.BlendFactorOne
	}
	dst := ebitenBlendFactor(b.blendDst)
	return ebiten.Blend{
		BlendFactorSourceRGB:        src,
		BlendFactorSourceAlpha:      src,
		BlendFactorDestinationRGB:   dst,
		BlendFactorDestinationAlpha: dst,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

func ebitenBlendFactor(f BlendFactor) ebiten.BlendFactor {
	switch f {
	case BlendZero:
		return ebiten.BlendFactorZero
	case BlendSrcColor:
		return ebiten.BlendFactorSourceColor
	case BlendOneMinusSrcColor:
		return ebiten.BlendFactorOneMinusSourceColor
	case BlendSrcAlpha:
		return ebiten.BlendFactorSourceAlpha
	case BlendOneMinusSrcAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	case BlendDstColor:
		return ebiten.BlendFactorDestinationColor
	case BlendOneMinusDstColor:
		return ebiten.BlendFactorOneMinusDestinationColor
	case BlendDstAlpha:
		return ebiten.BlendFactorDestinationAlpha
	case BlendOneMinusDstAlpha:
		return ebiten.BlendFactorOneMinusDestinationAlpha
	default:
		return ebiten.BlendFactorOne
	}
}

// whitePixel returns a lazily created 1x1 white image for untextured draws.
func (b *EbitenBinding) whitePixel() *ebiten.Image {
	if b.white == nil {
		b.white = ebiten.NewImage(1, 1)
		b.white.Fill(color.White)
	}
	return b.white
}
