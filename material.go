package metascene

import "fmt"

// LoadTextureFlags adjust how texels are uploaded.
type LoadTextureFlags uint8

const (
	LoadNoGammaFix      LoadTextureFlags = 1 << iota // upload texels without gamma correction
	LoadNearestNeighbor                              // nearest filtering instead of linear
)

// MaterialData is the payload of a Material: texture handles plus
// fixed-function shading attributes.
type MaterialData struct {
	Flags   MaterialFlags
	Diffuse Color

	// Width and Height of the base texture level. Both must be powers of two
	// for a textured material.
	Width, Height int
	SrcFormat     PixelFormat
	DstFormat     PixelFormat
	LoadFlags     LoadTextureFlags

	// Pixels holds texels to upload at creation, one entry per mipmap level.
	// The registry does not keep them after upload.
	Pixels [][]byte

	// Textures are the GPU handles owned by the material, one per mipmap
	// level. Handles passed in at creation are adopted; uploaded levels are
	// appended. All are deleted when the material is freed.
	Textures []TextureID

	// NumMipmaps is the number of texture levels, set at creation.
	NumMipmaps int
}

// Textured reports whether the material carries a texture.
func (m *MaterialData) Textured() bool {
	return m.Flags&MaterialTextured != 0
}

// HasAlpha reports whether the texture keeps an 8-bit alpha channel in VRAM,
// which forces blending on.
func (m *MaterialData) HasAlpha() bool {
	return m.DstFormat == PixelFormatRGBA
}

// VRAMBytes estimates the video memory used by the base level.
func (m *MaterialData) VRAMBytes() int {
	return m.Width * m.Height * m.DstFormat.BytesPerPixel()
}

func (r *Registry) createMaterial(op string, data *MaterialData) (*Object, error) {
	hasTexels := data.Textured() || len(data.Pixels) > 0 || len(data.Textures) > 0
	if hasTexels && (!isPowerOfTwo(data.Width) || !isPowerOfTwo(data.Height)) {
		return nil, precondition(op, fmt.Errorf("%w: %dx%d", ErrNotPowerOfTwo, data.Width, data.Height))
	}
	if len(data.Pixels)+len(data.Textures) > r.cfg.MaxMipmaps {
		return nil, precondition(op, ErrCapacity)
	}

	uploaded, err := r.uploadLevels(data)
	if err != nil {
		return nil, precondition(op, err)
	}

	mat := *data
	mat.Pixels = nil
	mat.Textures = append(cloneSlice(data.Textures), uploaded...)
	mat.NumMipmaps = len(mat.Textures)

	o := r.allocate(TypeMaterial, SubtypeNone)
	o.mat = &mat
	return o, nil
}

// uploadLevels uploads every entry of data.Pixels as successive mipmap
// levels. On failure the levels uploaded so far are deleted.
func (r *Registry) uploadLevels(data *MaterialData) ([]TextureID, error) {
	if len(data.Pixels) == 0 {
		return nil, nil
	}
	ids := make([]TextureID, 0, len(data.Pixels))
	for level, pix := range data.Pixels {
		w, h := mipSize(data.Width, level), mipSize(data.Height, level)
		need := w * h * data.SrcFormat.srcBytesPerPixel()
		if len(pix) < need {
			r.binding.DeleteTextures(ids...)
			return nil, fmt.Errorf("%w: level %d has %d bytes, need %d", ErrTextureUpload, level, len(pix), need)
		}
		if r.cfg.Gamma != 1 && data.LoadFlags&LoadNoGammaFix == 0 {
			pix = r.gammaTexels(pix, data.SrcFormat)
		}
		id, err := r.binding.UploadTexture(pix, w, h, TextureOptions{
			Level:     level,
			SrcFormat: data.SrcFormat,
			DstFormat: data.DstFormat,
			Nearest:   data.LoadFlags&LoadNearestNeighbor != 0,
		})
		if err != nil {
			r.binding.DeleteTextures(ids...)
			return nil, fmt.Errorf("%w: level %d: %v", ErrTextureUpload, level, err)
		}
		ids = append(ids, id)
	}
	// Uploading leaves the new texture bound.
	r.mostRecent = nil
	return ids, nil
}

func (r *Registry) releaseTextures(m *MaterialData) {
	if len(m.Textures) > 0 {
		r.binding.DeleteTextures(m.Textures...)
	}
	m.Textures = nil
	m.NumMipmaps = 0
}

// gammaTexels returns a gamma-corrected copy of 8-bit texels. Alpha is left
// alone; packed 16-bit formats are returned unchanged.
func (r *Registry) gammaTexels(pix []byte, f PixelFormat) []byte {
	stride := f.srcBytesPerPixel()
	if f == PixelFormatRGB5A1 {
		return pix
	}
	out := cloneSlice(pix)
	for i := 0; i+2 < len(out); i += stride {
		out[i] = r.gamma8[out[i]]
		out[i+1] = r.gamma8[out[i+1]]
		out[i+2] = r.gamma8[out[i+2]]
	}
	return out
}

func mipSize(base, level int) int {
	if s := base >> level; s > 0 {
		return s
	}
	return 1
}

// srcBytesPerPixel is the size of one pixel as passed to UploadTexture.
func (f PixelFormat) srcBytesPerPixel() int {
	switch f {
	case PixelFormatRGB:
		return 3
	case PixelFormatRGB5A1:
		return 2
	default:
		return 4
	}
}
