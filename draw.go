package metascene

// DrawObject submits o and everything beneath it to the binding.
//
// Groups draw their children in insertion order inside a pushed state scope,
// so state changed by a child (materials, matrices, toggles) never leaks to
// the group's siblings. A Material only changes state; a Matrix multiplies
// into the model-view matrix for the rest of the enclosing group.
//
// An invalid object or an unknown type is fatal. Errors are returned when the
// state stack overflows or the binding rejects a draw.
func (r *Registry) DrawObject(o *Object) error {
	const op = "DrawObject"
	r.validate(op, o)
	switch o.typ {
	case TypeGroup:
		return r.drawGroup(o)
	case TypeGeometry:
		if o.subtype != SubtypeVertexArray {
			r.unsupported(op, o.typ, o.subtype, "")
		}
		return r.drawVertexArray(o.geom)
	case TypeMaterial:
		r.drawMaterial(o)
		return nil
	case TypeMatrix:
		r.binding.MultMatrix(*o.matrix)
		return nil
	case TypePicture:
		return r.drawQuad(o.pict.Material, o.pict.Placement, false)
	case TypeSprite:
		return r.drawQuad(o.sprite.Material, o.sprite.Placement, true)
	}
	r.unsupported(op, o.typ, o.subtype, "")
	return nil
}

func (r *Registry) drawGroup(g *Object) error {
	scope, err := r.PushState()
	if err != nil {
		return err
	}
	defer scope.Pop()

	for _, c := range g.children {
		if err := r.DrawObject(c); err != nil {
			return err
		}
	}
	return nil
}

// drawMaterial makes m current: texture, wrap mode, diffuse color and blend.
func (r *Registry) drawMaterial(m *Object) {
	r.validate("DrawMaterial", m)
	if m.typ != TypeMaterial {
		r.unsupported("DrawMaterial", m.typ, m.subtype, "object is not a material")
	}
	mat := m.mat
	flags := mat.Flags | r.globalFlags
	alreadySet := m == r.mostRecent

	hasAlpha := false
	if mat.Textured() && len(mat.Textures) > 0 {
		hasAlpha = mat.HasAlpha()
		if !alreadySet {
			r.binding.BindTexture(mat.Textures[0])
			r.stats.TextureBinds++
			r.stats.VRAMBytes += mat.VRAMBytes()
		}
		r.SetCapability(CapTexture2D, true)

		wrapU, wrapV := WrapRepeat, WrapRepeat
		if flags&MaterialClampU != 0 {
			wrapU = WrapClamp
		}
		if flags&MaterialClampV != 0 {
			wrapV = WrapClamp
		}
		r.binding.SetTextureWrap(wrapU, wrapV)
	} else {
		r.SetCapability(CapTexture2D, false)
	}

	c := mat.Diffuse
	if r.transparency != 1 {
		c.A *= r.transparency
	}
	c.R *= r.colorFilter[0]
	c.G *= r.colorFilter[1]
	c.B *= r.colorFilter[2]
	c = r.gammaColor(c)
	r.SetColor(c)

	r.SetBlend(hasAlpha || c.A != 1 || flags&MaterialAlwaysBlend != 0)
	r.mostRecent = m
}

func (r *Registry) drawVertexArray(d *VertexArrayData) error {
	arrays := VertexArrays{Points: d.Points}
	if len(d.Normals) > 0 && r.state.Lighting {
		arrays.Normals = d.Normals
	}

	switch {
	case d.UseBoundTexture:
		arrays.UVs = d.UVs
	case len(d.Materials) > 0 && d.Materials[0] != nil:
		m := d.Materials[0]
		r.drawMaterial(m)
		if m.mat.Textured() {
			arrays.UVs = d.UVs
		}
	default:
		r.SetCapability(CapTexture2D, false)
	}
	if len(arrays.UVs) == 0 {
		arrays.UVs = nil
	}

	if r.state.Lighting {
		arrays.ColorsFloat = d.ColorsFloat
	} else {
		arrays.ColorsByte = d.ColorsByte
	}

	r.binding.SetVertexArrays(arrays)
	if err := r.binding.DrawElements(d.Triangles); err != nil {
		return err
	}
	r.stats.DrawCalls++
	r.stats.Triangles += len(d.Triangles)
	return nil
}

// drawQuad draws a Picture or Sprite in normalized device coordinates.
func (r *Registry) drawQuad(mat *Object, p Placement, sprite bool) error {
	scope, err := r.PushState()
	if err != nil {
		return err
	}
	defer scope.Pop()

	r.binding.LoadIdentity()
	r.binding.MultMatrix(placementMatrix(p))
	if sprite {
		r.SetCapability(CapDepthTest, false)
		r.SetLighting(false)
	}
	r.drawMaterial(mat)
	if err := r.binding.DrawQuad(unitQuad); err != nil {
		return err
	}

	r.stats.DrawCalls++
	r.stats.Triangles += 2
	return nil
}
