package metascene

// RenderState is a snapshot of the graphics-context attributes saved and
// restored around nested draw scopes.
type RenderState struct {
	Lighting   bool
	CullFace   bool
	DepthTest  bool
	Normalize  bool
	Texture2D  bool
	Fog        bool
	Blend      bool
	DepthMask  bool
	BlendSrc   BlendFactor
	BlendDst   BlendFactor
	Color      Color
	Projection ProjectionKind
}

// DefaultRenderState is the state a new Registry starts with.
var DefaultRenderState = RenderState{
	CullFace:   true,
	DepthTest:  true,
	DepthMask:  true,
	BlendSrc:   BlendSrcAlpha,
	BlendDst:   BlendOneMinusSrcAlpha,
	Color:      ColorWhite,
	Projection: Projection3D,
}

type stateFrame struct {
	saved RenderState
	scope *StateScope
}

// StateScope is the guard returned by PushState. Pop restores the state and
// matrices saved at push time. Pop is safe to call more than once, so the
// usual pattern is:
//
//	scope, err := r.PushState()
//	if err != nil {
//		return err
//	}
//	defer scope.Pop()
type StateScope struct {
	r      *Registry
	depth  int
	popped bool
}

// PushState saves the current render state and both transform matrices.
// When the stack is already MaxStateDepth deep it returns a
// PreconditionError wrapping ErrStateOverflow and changes nothing.
func (r *Registry) PushState() (*StateScope, error) {
	if len(r.stack) >= r.cfg.MaxStateDepth {
		return nil, precondition("PushState", ErrStateOverflow)
	}
	r.binding.PushMatrices()
	s := &StateScope{r: r, depth: len(r.stack) + 1}
	r.stack = append(r.stack, stateFrame{saved: r.state, scope: s})
	return s, nil
}

// Pop restores every attribute saved by the matching PushState and pops the
// matrices. Popping a scope that is not the innermost open scope is fatal.
func (s *StateScope) Pop() {
	if s == nil || s.popped {
		return
	}
	r := s.r
	n := len(r.stack)
	if n == 0 {
		r.corrupt("PopState", nil, "state stack underflow")
	}
	if n != s.depth || r.stack[n-1].scope != s {
		r.corrupt("PopState", nil, "state scope popped out of order")
	}
	top := r.stack[n-1]
	r.stack[n-1] = stateFrame{}
	r.stack = r.stack[:n-1]
	s.popped = true

	r.binding.PopMatrices()
	r.applyState(top.saved)
}

// WithState runs fn inside a pushed state scope and restores the state on
// every exit path, including panics.
func (r *Registry) WithState(fn func() error) error {
	scope, err := r.PushState()
	if err != nil {
		return err
	}
	defer scope.Pop()
	return fn()
}

// StateDepth returns the number of open state scopes.
func (r *Registry) StateDepth() int {
	return len(r.stack)
}

// State returns the current render state.
func (r *Registry) State() RenderState {
	return r.state
}

// applyState sets every attribute individually through the binding.
func (r *Registry) applyState(s RenderState) {
	r.SetLighting(s.Lighting)
	r.SetCapability(CapCullFace, s.CullFace)
	r.SetCapability(CapDepthTest, s.DepthTest)
	r.SetCapability(CapNormalize, s.Normalize)
	r.SetCapability(CapTexture2D, s.Texture2D)
	r.SetCapability(CapFog, s.Fog)
	r.SetCapability(CapBlend, s.Blend)
	r.SetDepthMask(s.DepthMask)
	r.SetBlendFunc(s.BlendSrc, s.BlendDst)
	r.SetColor(s.Color)
	r.state.Projection = s.Projection
}

// --- State setters ---

// SetLighting enables or disables lighting.
func (r *Registry) SetLighting(enabled bool) {
	r.SetCapability(CapLighting, enabled)
}

// SetBlend enables or disables blending.
func (r *Registry) SetBlend(enabled bool) {
	r.SetCapability(CapBlend, enabled)
}

// SetCapability toggles c and records it in the render state.
func (r *Registry) SetCapability(c Capability, enabled bool) {
	switch c {
	case CapLighting:
		r.state.Lighting = enabled
	case CapCullFace:
		r.state.CullFace = enabled
	case CapDepthTest:
		r.state.DepthTest = enabled
	case CapNormalize:
		r.state.Normalize = enabled
	case CapTexture2D:
		r.state.Texture2D = enabled
	case CapFog:
		r.state.Fog = enabled
	case CapBlend:
		r.state.Blend = enabled
	default:
		r.corrupt("SetCapability", nil, "unknown capability")
	}
	r.binding.SetCapability(c, enabled)
}

// SetDepthMask enables or disables depth writes.
func (r *Registry) SetDepthMask(enabled bool) {
	r.state.DepthMask = enabled
	r.binding.SetDepthMask(enabled)
}

// SetBlendFunc sets the source and destination blend factors.
func (r *Registry) SetBlendFunc(src, dst BlendFactor) {
	r.state.BlendSrc, r.state.BlendDst = src, dst
	r.binding.SetBlendFunc(src, dst)
}

// SetColor sets the current draw color.
func (r *Registry) SetColor(c Color) {
	r.state.Color = c
	r.binding.SetColor(c)
}

// SetProjection records the kind of projection the caller has loaded.
func (r *Registry) SetProjection(p ProjectionKind) {
	r.state.Projection = p
}
