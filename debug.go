package metascene

import (
	"log/slog"
	"time"
)

// FrameStats holds per-frame draw metrics, reset by BeginFrame.
type FrameStats struct {
	DrawCalls    int
	Triangles    int
	TextureBinds int
	// VRAMBytes sums the base-level size of every texture bound this frame.
	VRAMBytes    int
	TraverseTime time.Duration
}

// BeginFrame starts a new frame: stats are reset, the most recently bound
// material is forgotten and global material flags are cleared.
func (r *Registry) BeginFrame() {
	r.stats = FrameStats{}
	r.frameStart = time.Now()
	r.mostRecent = nil
	r.globalFlags = 0
}

// EndFrame finishes the frame and returns its stats. With Config.Debug set
// the stats are logged at debug level.
func (r *Registry) EndFrame() FrameStats {
	if !r.frameStart.IsZero() {
		r.stats.TraverseTime = time.Since(r.frameStart)
	}
	r.debugLog(r.stats)
	return r.stats
}

// Stats returns the counters accumulated since BeginFrame.
func (r *Registry) Stats() FrameStats {
	return r.stats
}

func (r *Registry) debugLog(stats FrameStats) {
	if !r.cfg.Debug {
		return
	}
	r.logger.Debug("frame",
		slog.Duration("traverse", stats.TraverseTime),
		slog.Int("draw_calls", stats.DrawCalls),
		slog.Int("triangles", stats.Triangles),
		slog.Int("texture_binds", stats.TextureBinds),
		slog.Int("vram", stats.VRAMBytes),
		slog.Int("objects", r.count))
	if len(r.stack) != 0 {
		r.logger.Warn("render state scopes left open at end of frame", slog.Int("depth", len(r.stack)))
	}
}

// debugCheckGroupDepth warns when g is nested deeper than the state stack
// allows. Each group pushes one scope when drawn, so such a tree fails with
// ErrStateOverflow at draw time.
func (r *Registry) debugCheckGroupDepth(g *Object) {
	depth := 0
	for p := g; p != nil; p = p.parent {
		depth++
	}
	if depth > r.cfg.MaxStateDepth {
		r.logger.Warn("group nesting exceeds state stack depth",
			slog.Int("depth", depth),
			slog.Int("max_state_depth", r.cfg.MaxStateDepth))
	}
}
