package metascene

import "fmt"

// Color is an RGBA color with float components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default draw color and diffuse color.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA8 is a byte-per-channel vertex color, used when lighting is off.
type RGBA8 struct {
	R, G, B, A uint8
}

// UV is a texture coordinate.
type UV struct {
	U, V float32
}

// Triangle holds the three vertex indices of one triangle.
type Triangle [3]uint32

// ObjectType identifies the variant of an Object. Values are four-character
// codes so that they read well in logs and panic messages.
type ObjectType uint32

const (
	TypeGroup    ObjectType = 'g'<<24 | 'r'<<16 | 'u'<<8 | 'p' // ordered list of children
	TypeGeometry ObjectType = 'g'<<24 | 'e'<<16 | 'o'<<8 | 'm' // vertex arrays + materials
	TypeMaterial ObjectType = 'm'<<24 | 'a'<<16 | 't'<<8 | 'l' // textures + shading attributes
	TypeMatrix   ObjectType = 'm'<<24 | 't'<<16 | 'r'<<8 | 'x' // one 4x4 transform
	TypePicture  ObjectType = 'p'<<24 | 'i'<<16 | 'c'<<8 | 't' // full-screen textured quad
	TypeSprite   ObjectType = 's'<<24 | 'p'<<16 | 'r'<<8 | 't' // placed textured quad
)

// String returns the four-character code, or a hex value for unknown types.
func (t ObjectType) String() string {
	return fourCC(uint32(t))
}

// Subtype refines an ObjectType. Only Geometry has subtypes; every other type
// must use SubtypeNone.
type Subtype uint32

const (
	SubtypeNone        Subtype = 0
	SubtypeVertexArray Subtype = 'v'<<24 | 'a'<<16 | 'r'<<8 | 'y'
)

func (s Subtype) String() string {
	if s == SubtypeNone {
		return "none"
	}
	return fourCC(uint32(s))
}

func fourCC(v uint32) string {
	b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", v)
		}
	}
	return string(b[:])
}

// MaterialFlags are shading and texturing switches on a Material. The
// Registry's global flags are OR-ed in at draw time.
type MaterialFlags uint32

const (
	MaterialTextured    MaterialFlags = 1 << iota // material carries at least one texture
	MaterialAlwaysBlend                           // enable blending even when opaque
	MaterialClampU                                // clamp rather than repeat along U
	MaterialClampV                                // clamp rather than repeat along V
)

// PixelFormat describes the layout of texture pixels.
type PixelFormat uint8

const (
	PixelFormatRGBA PixelFormat = iota // 8 bits per channel with alpha
	PixelFormatRGB                     // 8 bits per channel, alpha ignored
	PixelFormatRGB5A1                  // 16-bit packed, 1-bit alpha
)

// BytesPerPixel returns the VRAM cost of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGB5A1:
		return 2
	default:
		return 4
	}
}

// BlendFactor is a source or destination blend factor.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

// Capability is a graphics-context toggle.
type Capability uint8

const (
	CapLighting Capability = iota
	CapCullFace
	CapDepthTest
	CapNormalize
	CapTexture2D
	CapFog
	CapBlend
)

// WrapMode selects texture addressing along one axis.
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// ProjectionKind records whether the active projection is a 3D perspective or
// a 2D overlay. It is saved and restored with the render state.
type ProjectionKind uint8

const (
	Projection3D ProjectionKind = iota
	Projection2D
	Projection2DNDC
)

// TextureID is an opaque handle returned by a Binding for an uploaded texture.
type TextureID uint32

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
