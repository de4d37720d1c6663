package metascene

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Registry owns one renderer's scene graph: the live object list, the render
// state stack and every piece of draw-time global state (most recently bound
// material, global transparency, color filter and material flags). Create one
// per renderer at init and Close it at shutdown.
//
// A Registry is single-threaded; all calls must come from the frame loop.
type Registry struct {
	cfg     Config
	binding Binding
	logger  *slog.Logger

	// Live list
	first, last *Object
	count       int

	// Draw-time globals
	mostRecent   *Object
	transparency float32
	colorFilter  [3]float32
	globalFlags  MaterialFlags

	// Render state
	state RenderState
	stack []stateFrame

	// Gamma ramps indexed by 8-bit channel value.
	gammaF [256]float32
	gamma8 [256]uint8

	stats      FrameStats
	frameStart time.Time
	closed     bool
}

// NewRegistry creates a registry drawing through b. The render state is
// initialized to the defaults in DefaultRenderState and pushed to b.
func NewRegistry(b Binding, cfg Config) *Registry {
	if b == nil {
		panic("metascene: nil binding")
	}
	cfg = cfg.withDefaults()
	r := &Registry{
		cfg:          cfg,
		binding:      b,
		logger:       cfg.Logger,
		transparency: 1,
		colorFilter:  [3]float32{1, 1, 1},
		stack:        make([]stateFrame, 0, cfg.MaxStateDepth),
	}
	r.buildGammaRamp(cfg.Gamma)
	r.applyState(DefaultRenderState)
	return r
}

// Config returns the effective configuration.
func (r *Registry) Config() Config {
	return r.cfg
}

// Binding returns the graphics binding the registry draws through.
func (r *Registry) Binding() Binding {
	return r.binding
}

// Close ends the registry's life. Objects still alive are reported as leaks:
// each is logged at warn level and the returned error wraps ErrLeakedObjects.
// Their textures are not released.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if len(r.stack) != 0 {
		r.logger.Warn("render state stack not empty at shutdown", slog.Int("depth", len(r.stack)))
	}
	if r.count == 0 {
		return nil
	}
	r.Each(func(o *Object) bool {
		r.logger.Warn("leaked scene object",
			slog.String("type", o.typ.String()),
			slog.String("subtype", o.subtype.String()),
			slog.Int("refs", o.refCount))
		return true
	})
	return fmt.Errorf("close registry: %d objects: %w", r.count, ErrLeakedObjects)
}

// --- Draw-time globals ---

// SetGlobalTransparency sets the alpha multiplier applied to every material
// drawn afterwards (0 = clear, 1 = opaque).
func (r *Registry) SetGlobalTransparency(a float32) {
	r.transparency = a
}

// GlobalTransparency returns the current alpha multiplier.
func (r *Registry) GlobalTransparency() float32 {
	return r.transparency
}

// SetGlobalColorFilter sets the RGB multiplier applied to every material
// drawn afterwards.
func (r *Registry) SetGlobalColorFilter(red, green, blue float32) {
	r.colorFilter = [3]float32{red, green, blue}
}

// GlobalColorFilter returns the current RGB multiplier.
func (r *Registry) GlobalColorFilter() (red, green, blue float32) {
	return r.colorFilter[0], r.colorFilter[1], r.colorFilter[2]
}

// SetGlobalMaterialFlags sets flags OR-ed into every material's own flags at
// draw time. Callers that set them must clear them when done; BeginFrame
// also clears them.
func (r *Registry) SetGlobalMaterialFlags(f MaterialFlags) {
	r.globalFlags = f
}

// GlobalMaterialFlags returns the current global material flags.
func (r *Registry) GlobalMaterialFlags() MaterialFlags {
	return r.globalFlags
}

// ForgetBoundMaterial clears the most-recently-bound material, forcing the
// next material draw to rebind its texture. Call it after binding textures
// directly through the Binding.
func (r *Registry) ForgetBoundMaterial() {
	r.mostRecent = nil
}

// --- Gamma ---

func (r *Registry) buildGammaRamp(gamma float64) {
	for i := range 256 {
		v := float64(i) / 255
		corrected := math.Pow(v, 1/gamma)
		r.gammaF[i] = float32(corrected)
		r.gamma8[i] = uint8(corrected * 255)
	}
}

// gammaColor corrects the RGB channels of c through the ramp.
func (r *Registry) gammaColor(c Color) Color {
	if r.cfg.Gamma == 1 {
		return c
	}
	c.R = r.gammaF[channelIndex(c.R)]
	c.G = r.gammaF[channelIndex(c.G)]
	c.B = r.gammaF[channelIndex(c.B)]
	return c
}

func channelIndex(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255)
}
