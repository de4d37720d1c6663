package metascene

// GetNewReference registers one more owner of o and returns o. Because owning
// a composite owns everything beneath it, every object reachable from o (a
// Group's children, a Geometry's materials, a Picture's or Sprite's material,
// recursively) also gains exactly one reference.
func (r *Registry) GetNewReference(o *Object) *Object {
	r.validate("GetNewReference", o)
	o.refCount++
	if o.refCount > r.cfg.MaxRefCount {
		r.corrupt("GetNewReference", o, "reference count exceeds sanity limit")
	}
	o.owned(r.acquireOwned)
	return o
}

func (r *Registry) acquireOwned(o *Object) {
	r.GetNewReference(o)
}

// DisposeReference releases one owner of o. The release cascades through
// everything o owns first, mirroring GetNewReference; then o's own count is
// decremented and, on reaching zero, o is freed immediately: textures are
// deleted, arrays dropped, the object is unlinked and its cookie poisoned.
//
// Disposing an already freed object is fatal.
func (r *Registry) DisposeReference(o *Object) {
	r.validate("DisposeReference", o)
	o.owned(r.DisposeReference)
	o.refCount--
	if o.refCount < 0 {
		r.corrupt("DisposeReference", o, "reference count went negative")
	}
	if o.refCount == 0 {
		r.free(o)
	}
}

// free tears down o's payload and removes it from the registry. The cascade
// through owned objects has already happened in DisposeReference.
func (r *Registry) free(o *Object) {
	switch o.typ {
	case TypeGroup:
		clear(o.children)
		o.children = nil
	case TypeGeometry:
		o.geom.release()
		o.geom = nil
	case TypeMaterial:
		r.releaseTextures(o.mat)
		o.mat = nil
	case TypeMatrix:
		o.matrix = nil
	case TypePicture:
		o.pict.Material = nil
		o.pict = nil
	case TypeSprite:
		o.sprite.Material = nil
		o.sprite = nil
	}
	if r.mostRecent == o {
		r.mostRecent = nil
	}
	r.unlink(o)
	o.cookie = poisonedCookie
	o.parent = nil
	o.reg = nil
}
