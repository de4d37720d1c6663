package metascene

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadMaterial decodes the image file at path and creates a textured Material
// from it. See MaterialFromImage for the size requirements.
func (r *Registry) LoadMaterial(path string, dst PixelFormat, flags LoadTextureFlags) (*Object, error) {
	img, err := decodeFile("LoadMaterial", path)
	if err != nil {
		return nil, err
	}
	return r.materialFromImage("LoadMaterial", img, dst, flags, true)
}

// loadPictureMaterial loads path for a Picture. Rows keep file order because
// the picture quad maps v=0 to its top edge.
func (r *Registry) loadPictureMaterial(op, path string) (*Object, error) {
	img, err := decodeFile(op, path)
	if err != nil {
		return nil, err
	}
	return r.materialFromImage(op, img, PixelFormatRGBA, LoadNoGammaFix, false)
}

func decodeFile(op, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, precondition(op, fmt.Errorf("%w: %v", ErrDecode, err))
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, precondition(op, fmt.Errorf("%w: %s: %v", ErrDecode, path, err))
	}
	return img, nil
}

// DecodeMaterial decodes an image (PNG, JPEG, GIF, BMP, TIFF or WebP) from rd
// and creates a textured Material from it.
func (r *Registry) DecodeMaterial(rd io.Reader, dst PixelFormat, flags LoadTextureFlags) (*Object, error) {
	img, _, err := image.Decode(rd)
	if err != nil {
		return nil, precondition("DecodeMaterial", fmt.Errorf("%w: %v", ErrDecode, err))
	}
	return r.materialFromImage("DecodeMaterial", img, dst, flags, true)
}

// MaterialFromImage creates a textured, white, single-level Material from
// img. Both dimensions must be powers of two; images are never resized or
// padded. Rows are flipped so that texture coordinate v=0 is the bottom of
// the picture.
func (r *Registry) MaterialFromImage(img image.Image, dst PixelFormat, flags LoadTextureFlags) (*Object, error) {
	return r.materialFromImage("MaterialFromImage", img, dst, flags, true)
}

func (r *Registry) materialFromImage(op string, img image.Image, dst PixelFormat, flags LoadTextureFlags, flip bool) (*Object, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if !isPowerOfTwo(w) || !isPowerOfTwo(h) {
		return nil, precondition(op, fmt.Errorf("%w: %dx%d", ErrNotPowerOfTwo, w, h))
	}
	return r.NewMaterial(&MaterialData{
		Flags:     MaterialTextured,
		Diffuse:   ColorWhite,
		Width:     w,
		Height:    h,
		SrcFormat: PixelFormatRGBA,
		DstFormat: dst,
		LoadFlags: flags,
		Pixels:    [][]byte{packRGBA(img, flip)},
	})
}

// packRGBA converts img to tightly packed RGBA rows, bottom row first when
// flip is set.
func packRGBA(img image.Image, flip bool) []byte {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	w, h := b.Dx(), b.Dy()
	row := w * 4
	out := make([]byte, row*h)
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+row]
		dy := y
		if flip {
			dy = h - 1 - y
		}
		copy(out[dy*row:], src)
	}
	return out
}
