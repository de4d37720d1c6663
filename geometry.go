package metascene

// VertexArrayData is the payload of a vertex-array Geometry. Points are
// required for drawing; the other per-vertex arrays are optional and, when
// present, must have one entry per point.
type VertexArrayData struct {
	// Materials are the material layers; only layer 0 is drawn. Each entry is
	// a reference owned by the geometry.
	Materials []*Object
	// UseBoundTexture draws with whatever texture the caller has already bound
	// instead of Materials.
	UseBoundTexture bool

	Points      []Vec3
	Normals     []Vec3
	UVs         []UV
	ColorsByte  []RGBA8
	ColorsFloat []Color
	Triangles   []Triangle
}

// NumPoints returns the number of vertices.
func (d *VertexArrayData) NumPoints() int { return len(d.Points) }

// NumTriangles returns the number of triangles.
func (d *VertexArrayData) NumTriangles() int { return len(d.Triangles) }

// Clone returns a deep copy of every vertex and index array. The material
// slice is copied but no references are taken.
func (d *VertexArrayData) Clone() *VertexArrayData {
	return &VertexArrayData{
		Materials:       cloneSlice(d.Materials),
		UseBoundTexture: d.UseBoundTexture,
		Points:          cloneSlice(d.Points),
		Normals:         cloneSlice(d.Normals),
		UVs:             cloneSlice(d.UVs),
		ColorsByte:      cloneSlice(d.ColorsByte),
		ColorsFloat:     cloneSlice(d.ColorsFloat),
		Triangles:       cloneSlice(d.Triangles),
	}
}

// cloneSlice copies s, keeping nil as nil.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// release drops the arrays. Material references are released by the
// DisposeReference cascade, not here.
func (d *VertexArrayData) release() {
	clear(d.Materials)
	*d = VertexArrayData{}
}

func (r *Registry) createGeometry(op string, data *VertexArrayData) (*Object, error) {
	if len(data.Materials) > r.cfg.MaxMaterialLayers {
		return nil, precondition(op, ErrCapacity)
	}
	for _, m := range data.Materials {
		if m != nil {
			r.requireMaterial(op, m)
		}
	}
	geom := *data
	geom.Materials = cloneSlice(data.Materials)

	o := r.allocate(TypeGeometry, SubtypeVertexArray)
	o.geom = &geom
	for _, m := range geom.Materials {
		if m != nil {
			r.GetNewReference(m)
		}
	}
	return o, nil
}

// DuplicateGeometry creates an independent Geometry with deep copies of o's
// arrays. The copy references the same materials, each gaining a reference.
func (r *Registry) DuplicateGeometry(o *Object) (*Object, error) {
	const op = "DuplicateGeometry"
	r.validate(op, o)
	if o.typ != TypeGeometry {
		r.unsupported(op, o.typ, o.subtype, "object is not a vertex array")
	}
	return r.createGeometry(op, o.geom.Clone())
}

// OffsetUVs shifts the texture coordinates of a Geometry, or of every
// Geometry beneath a Group, by (du, dv). Other object types inside a group
// are skipped; passing one directly is fatal. Geometries shared between
// several parents are shifted once per visit.
func (r *Registry) OffsetUVs(o *Object, du, dv float32) {
	const op = "OffsetUVs"
	r.validate(op, o)
	switch o.typ {
	case TypeGeometry:
		offsetUVs(o.geom, du, dv)
	case TypeGroup:
		for _, c := range o.children {
			switch c.typ {
			case TypeGeometry, TypeGroup:
				r.OffsetUVs(c, du, dv)
			}
		}
	default:
		r.unsupported(op, o.typ, o.subtype, "object type has no texture coordinates")
	}
}

func offsetUVs(d *VertexArrayData, du, dv float32) {
	for i := range d.UVs {
		d.UVs[i].U += du
		d.UVs[i].V += dv
	}
}
