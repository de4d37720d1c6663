package metascene

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// texturePool keeps deleted texture images for reuse, keyed by their
// power-of-two dimensions. Uploads overwrite every pixel, so reused images
// are never cleared.
type texturePool struct {
	buckets map[uint64][]*ebiten.Image
	// limit caps the images kept per size; extra releases are disposed.
	limit int
}

// poolKey packs width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a w*h image, reusing a released one when available.
func (p *texturePool) Acquire(w, h int) *ebiten.Image {
	key := poolKey(w, h)
	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		return img
	}
	return ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), nil)
}

// Release hands img back to the pool.
func (p *texturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	if p.limit > 0 && len(p.buckets[key]) >= p.limit {
		img.Deallocate()
		return
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// Len returns the number of pooled images.
func (p *texturePool) Len() int {
	n := 0
	for _, s := range p.buckets {
		n += len(s)
	}
	return n
}
